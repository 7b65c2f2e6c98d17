package tools

import "errors"

// Tool registry errors.
var (
	// ErrToolNotFound is returned when dispatching to an unregistered name.
	ErrToolNotFound = errors.New("tool not found")

	// ErrToolNameEmpty is returned when a tool has no name.
	ErrToolNameEmpty = errors.New("tool name cannot be empty")

	// ErrToolSchemaNil is returned when a tool has no parameter schema.
	ErrToolSchemaNil = errors.New("tool schema cannot be nil")

	// ErrToolExecuteNil is returned when a tool has no execute function.
	ErrToolExecuteNil = errors.New("tool execute function cannot be nil")

	// ErrToolAlreadyRegistered is returned when the tool list passed to
	// NewRegistry contains a duplicate name.
	ErrToolAlreadyRegistered = errors.New("tool already registered")
)
