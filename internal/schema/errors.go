package schema

import (
	"errors"
	"fmt"
	"strings"
)

// Schema construction and validation errors.
var (
	// ErrUnknownField is returned when a derivation names a field absent
	// from the source catalog.
	ErrUnknownField = errors.New("unknown field")

	// ErrDuplicateField is returned when two fields share a name.
	ErrDuplicateField = errors.New("duplicate field")

	// ErrFieldNameEmpty is returned when a field has no name.
	ErrFieldNameEmpty = errors.New("field name cannot be empty")

	// ErrBadFieldType is returned for a type the validator does not understand.
	ErrBadFieldType = errors.New("bad field type")

	// ErrInvalidArguments is the sentinel wrapped by every ValidationError.
	ErrInvalidArguments = errors.New("invalid arguments")
)

// FieldError describes one offending argument.
type FieldError struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

func (e FieldError) String() string {
	return e.Field + ": " + e.Reason
}

// ValidationError reports every argument that failed validation. It unwraps
// to ErrInvalidArguments so callers can branch with errors.Is.
type ValidationError struct {
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Errors))
	for i, fe := range e.Errors {
		parts[i] = fe.String()
	}
	return fmt.Sprintf("invalid arguments: %s", strings.Join(parts, "; "))
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidArguments
}

// add appends a field error.
func (e *ValidationError) add(field, format string, args ...any) {
	e.Errors = append(e.Errors, FieldError{Field: field, Reason: fmt.Sprintf(format, args...)})
}
