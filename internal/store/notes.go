package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/whitejm/steve/internal/model"
)

// NoteFilter narrows ListNotes. Zero values match everything.
type NoteFilter struct {
	// Type matches notes of the given kind.
	Type model.NoteType

	// SystemPrompt, when set, matches notes by their system-prompt flag.
	SystemPrompt *bool
}

// CreateNote inserts a new note.
func (s *Store) CreateNote(ctx context.Context, note *model.Note) error {
	ts := now()
	note.CreatedAt = ts
	note.UpdatedAt = ts

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO notes (id, title, content, note_type, is_system_prompt, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		note.ID, note.Title, note.Content, note.Type, note.IsSystemPrompt,
		note.CreatedAt, note.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: note %s", ErrAlreadyExists, note.ID)
	}
	if err != nil {
		return fmt.Errorf("insert note: %w", err)
	}
	return nil
}

// GetNote retrieves a note by id.
func (s *Store) GetNote(ctx context.Context, id string) (*model.Note, error) {
	note := &model.Note{}
	err := s.db.QueryRowContext(ctx,
		`SELECT id, title, content, note_type, is_system_prompt, created_at, updated_at
		FROM notes WHERE id = ?`,
		id,
	).Scan(&note.ID, &note.Title, &note.Content, &note.Type, &note.IsSystemPrompt,
		&note.CreatedAt, &note.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: note %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("query note: %w", err)
	}
	return note, nil
}

// ListNotes returns notes matching the filter, newest first.
func (s *Store) ListNotes(ctx context.Context, filter NoteFilter) ([]model.Note, error) {
	query := `SELECT id, title, content, note_type, is_system_prompt, created_at, updated_at FROM notes`
	var clauses []string
	var args []any

	if filter.Type != "" {
		clauses = append(clauses, `note_type = ?`)
		args = append(args, filter.Type)
	}
	if filter.SystemPrompt != nil {
		clauses = append(clauses, `is_system_prompt = ?`)
		args = append(args, *filter.SystemPrompt)
	}
	query += whereClause(clauses) + ` ORDER BY created_at DESC, id`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query notes: %w", err)
	}
	defer rows.Close()

	var notes []model.Note
	for rows.Next() {
		var note model.Note
		if err := rows.Scan(&note.ID, &note.Title, &note.Content, &note.Type,
			&note.IsSystemPrompt, &note.CreatedAt, &note.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan note: %w", err)
		}
		notes = append(notes, note)
	}
	return notes, rows.Err()
}

// UpdateNote rewrites a note row. The id must already exist.
func (s *Store) UpdateNote(ctx context.Context, note *model.Note) error {
	note.UpdatedAt = now()

	res, err := s.db.ExecContext(ctx,
		`UPDATE notes SET title = ?, content = ?, note_type = ?, is_system_prompt = ?, updated_at = ?
		WHERE id = ?`,
		note.Title, note.Content, note.Type, note.IsSystemPrompt, note.UpdatedAt, note.ID,
	)
	if err != nil {
		return fmt.Errorf("update note: %w", err)
	}
	return checkAffected(res, "note", note.ID)
}

// DeleteNote removes a note by id.
func (s *Store) DeleteNote(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM notes WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete note: %w", err)
	}
	return checkAffected(res, "note", id)
}
