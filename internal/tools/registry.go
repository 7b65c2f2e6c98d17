package tools

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"
)

// Registry holds the full set of tools the assistant may call. The set is
// fixed at construction and never changes afterwards, so lookups need no
// locking and the exported manifest is stable for the life of the process.
type Registry struct {
	tools  map[string]*Tool
	order  []string
	logger *zap.Logger
}

// NewRegistry builds a registry from the complete tool list.
// Every tool must be valid and names must be unique; a nil logger disables
// dispatch logging.
func NewRegistry(logger *zap.Logger, toolList ...*Tool) (*Registry, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	r := &Registry{
		tools:  make(map[string]*Tool, len(toolList)),
		order:  make([]string, 0, len(toolList)),
		logger: logger,
	}
	for _, tool := range toolList {
		if err := tool.Validate(); err != nil {
			return nil, fmt.Errorf("invalid tool: %w", err)
		}
		if _, exists := r.tools[tool.Name]; exists {
			return nil, fmt.Errorf("%w: %s", ErrToolAlreadyRegistered, tool.Name)
		}
		r.tools[tool.Name] = tool
		r.order = append(r.order, tool.Name)
	}

	logger.Debug("tool registry built", zap.Int("tools", len(r.order)))
	return r, nil
}

// Get returns a tool by name, or nil if not found.
func (r *Registry) Get(name string) *Tool {
	return r.tools[name]
}

// Has returns true if a tool with the given name is registered.
func (r *Registry) Has(name string) bool {
	_, ok := r.tools[name]
	return ok
}

// Names returns all registered tool names, sorted for display.
func (r *Registry) Names() []string {
	names := make([]string, len(r.order))
	copy(names, r.order)
	sort.Strings(names)
	return names
}

// Count returns the number of registered tools.
func (r *Registry) Count() int {
	return len(r.order)
}

// Describe returns the manifest for every tool in registration order.
func (r *Registry) Describe() []Manifest {
	manifests := make([]Manifest, 0, len(r.order))
	for _, name := range r.order {
		manifests = append(manifests, r.tools[name].Describe())
	}
	return manifests
}

// Dispatch runs the named tool with the given raw arguments.
// Returns ErrToolNotFound if the name is not registered; otherwise the
// result carries whatever Invoke produced.
func (r *Registry) Dispatch(ctx context.Context, name string, args map[string]any) (*ToolResult, error) {
	tool := r.Get(name)
	if tool == nil {
		return nil, fmt.Errorf("%w: %s", ErrToolNotFound, name)
	}

	start := time.Now()
	r.logger.Debug("dispatching tool", zap.String("tool", name))

	result, err := tool.Invoke(ctx, args)

	duration := time.Since(start)
	r.logger.Debug("tool completed",
		zap.String("tool", name),
		zap.Duration("duration", duration),
		zap.Bool("success", err == nil))

	return &ToolResult{
		ToolName:   name,
		Result:     result,
		Error:      err,
		DurationMs: duration.Milliseconds(),
	}, err
}
