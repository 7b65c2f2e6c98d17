// Package tools defines the typed tool surface the assistant calls through.
//
// A Tool pairs an operation with a parameter schema. Invoke validates the
// raw arguments against the schema first and only runs the operation on
// clean, coerced input, so operations never see malformed arguments.
//
// Tools live in a Registry that is closed at construction: the full tool
// list is passed to NewRegistry and nothing can be added later.
package tools

import (
	"context"
	"fmt"

	"github.com/whitejm/steve/internal/schema"
)

// ExecuteFunc is the signature for tool operations. It receives arguments
// that already passed schema validation, with defaults applied and values
// coerced to their declared types.
type ExecuteFunc func(ctx context.Context, args map[string]any) (any, error)

// Tool is a single callable capability.
type Tool struct {
	// Name is the unique identifier the model calls the tool by.
	Name string

	// Description explains what the tool does. Exported verbatim in the
	// manifest, so it is written for the model, not for humans.
	Description string

	// Schema declares the accepted arguments.
	Schema *schema.Schema

	// Execute runs the operation with validated arguments.
	Execute ExecuteFunc
}

// Validate checks that the tool definition is complete.
func (t *Tool) Validate() error {
	if t.Name == "" {
		return ErrToolNameEmpty
	}
	if t.Schema == nil {
		return fmt.Errorf("%w: %s", ErrToolSchemaNil, t.Name)
	}
	if t.Execute == nil {
		return fmt.Errorf("%w: %s", ErrToolExecuteNil, t.Name)
	}
	return nil
}

// Invoke validates args against the tool's schema and runs the operation.
// On validation failure the operation is not called and the returned error
// unwraps to schema.ErrInvalidArguments. Operation results and errors are
// propagated unchanged.
func (t *Tool) Invoke(ctx context.Context, args map[string]any) (any, error) {
	validated, err := t.Schema.Validate(args)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", t.Name, err)
	}
	return t.Execute(ctx, validated)
}

// Manifest is the exportable description of one tool, ready to be
// translated into a provider's function-declaration format.
type Manifest struct {
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Parameters  []schema.FieldDef `json:"parameters"`
}

// Describe returns the tool's manifest entry.
func (t *Tool) Describe() Manifest {
	return Manifest{
		Name:        t.Name,
		Description: t.Description,
		Parameters:  t.Schema.Fields(),
	}
}

// ToolResult wraps the outcome of a dispatch with metadata.
type ToolResult struct {
	// ToolName identifies which tool ran.
	ToolName string

	// Result is the operation's output, nil on failure.
	Result any

	// Error is set if validation or the operation failed.
	Error error

	// DurationMs is how long the call took.
	DurationMs int64
}

// IsSuccess returns true if the call completed without error.
func (r *ToolResult) IsSuccess() bool {
	return r.Error == nil
}
