package catalog

import (
	"context"

	"github.com/whitejm/steve/internal/model"
	"github.com/whitejm/steve/internal/schema"
	"github.com/whitejm/steve/internal/store"
	"github.com/whitejm/steve/internal/tools"
)

var noteFieldNames = []string{"id", "title", "content", "note_type", "is_system_prompt"}

func (c *Catalog) createNoteTool() *tools.Tool {
	return &tools.Tool{
		Name:        "create_note",
		Description: "Create a note recording a user preference or reference information. Notes marked is_system_prompt are folded into the assistant's standing instructions.",
		Schema: schema.MustDerive(model.NoteFields(), noteFieldNames, map[string]schema.Override{
			"id": {Optional: true, Description: "Unique identifier for the note. Generated if omitted"},
		}),
		Execute: c.createNote,
	}
}

func (c *Catalog) createNote(ctx context.Context, args map[string]any) (any, error) {
	note := &model.Note{
		ID:             argString(args, "id"),
		Title:          argString(args, "title"),
		Content:        argString(args, "content"),
		Type:           model.NoteType(argString(args, "note_type")),
		IsSystemPrompt: argBool(args, "is_system_prompt"),
	}
	if note.ID == "" {
		note.ID = model.NewID()
	}
	if err := c.store.CreateNote(ctx, note); err != nil {
		return nil, err
	}
	return note, nil
}

func (c *Catalog) getNoteTool() *tools.Tool {
	return &tools.Tool{
		Name:        "get_note",
		Description: "Fetch a single note by id.",
		Schema:      schema.MustDerive(model.NoteFields(), []string{"id"}, nil),
		Execute:     c.getNote,
	}
}

func (c *Catalog) getNote(ctx context.Context, args map[string]any) (any, error) {
	return c.store.GetNote(ctx, argString(args, "id"))
}

func (c *Catalog) updateNoteTool() *tools.Tool {
	return &tools.Tool{
		Name:        "update_note",
		Description: "Update fields of an existing note. Omitted fields keep their current values.",
		Schema:      schema.MustDerive(model.NoteFields(), noteFieldNames, allOptionalBut(noteFieldNames, "id")),
		Execute:     c.updateNote,
	}
}

func (c *Catalog) updateNote(ctx context.Context, args map[string]any) (any, error) {
	note, err := c.store.GetNote(ctx, argString(args, "id"))
	if err != nil {
		return nil, err
	}
	if present(args, "title") {
		note.Title = argString(args, "title")
	}
	if present(args, "content") {
		note.Content = argString(args, "content")
	}
	if present(args, "note_type") {
		note.Type = model.NoteType(argString(args, "note_type"))
	}
	if present(args, "is_system_prompt") {
		note.IsSystemPrompt = argBool(args, "is_system_prompt")
	}
	if err := c.store.UpdateNote(ctx, note); err != nil {
		return nil, err
	}
	return note, nil
}

func (c *Catalog) listNotesTool() *tools.Tool {
	return &tools.Tool{
		Name:        "list_notes",
		Description: "List notes newest first, optionally filtered by type or system prompt membership.",
		Schema: schema.MustNew([]schema.FieldDef{
			{Name: "note_type", Type: schema.TypeString, Enum: model.NoteTypes(),
				Description: "Only notes of this type"},
			{Name: "is_system_prompt", Type: schema.TypeBoolean,
				Description: "Only notes included in (true) or excluded from (false) the system prompt"},
		}),
		Execute: c.listNotes,
	}
}

func (c *Catalog) listNotes(ctx context.Context, args map[string]any) (any, error) {
	filter := store.NoteFilter{Type: model.NoteType(argString(args, "note_type"))}
	if present(args, "is_system_prompt") {
		v := argBool(args, "is_system_prompt")
		filter.SystemPrompt = &v
	}
	notes, err := c.store.ListNotes(ctx, filter)
	if err != nil {
		return nil, err
	}
	if notes == nil {
		notes = []model.Note{}
	}
	return notes, nil
}

func (c *Catalog) deleteNoteTool() *tools.Tool {
	return &tools.Tool{
		Name:        "delete_note",
		Description: "Delete a note by id.",
		Schema:      schema.MustDerive(model.NoteFields(), []string{"id"}, nil),
		Execute:     c.deleteNote,
	}
}

func (c *Catalog) deleteNote(ctx context.Context, args map[string]any) (any, error) {
	id := argString(args, "id")
	if err := c.store.DeleteNote(ctx, id); err != nil {
		return nil, err
	}
	return deleted("note", id), nil
}
