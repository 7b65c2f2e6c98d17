package model

import "time"

// NoteType categorizes a note.
type NoteType string

const (
	NoteUserPreference NoteType = "user_preference"
	NoteReference      NoteType = "reference"
	NoteGeneral        NoteType = "general"
)

// Valid reports whether t is a known note type.
func (t NoteType) Valid() bool {
	switch t {
	case NoteUserPreference, NoteReference, NoteGeneral:
		return true
	}
	return false
}

// NoteTypes lists every note type for schema enums.
func NoteTypes() []string {
	return []string{string(NoteUserPreference), string(NoteReference), string(NoteGeneral)}
}

// Note holds user preferences and reference information. Notes flagged
// IsSystemPrompt are folded into the assistant's standing instructions.
type Note struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	Content        string    `json:"content"`
	Type           NoteType  `json:"note_type"`
	IsSystemPrompt bool      `json:"is_system_prompt"`
	CreatedAt      time.Time `json:"created_at,omitempty"`
	UpdatedAt      time.Time `json:"updated_at,omitempty"`
}
