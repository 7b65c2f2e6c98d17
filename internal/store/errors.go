package store

import "errors"

// Store errors.
var (
	// ErrNotFound is returned when a lookup or update names a missing id.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists is returned when a create names an existing id.
	ErrAlreadyExists = errors.New("already exists")
)
