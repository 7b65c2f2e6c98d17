// Package catalog defines the builtin tool set the assistant operates
// through.
//
// Every tool's parameter schema is derived from the entity field catalogs in
// internal/model, so the argument surface shown to the LLM always matches
// what the store persists. The set is assembled by explicit ordered
// construction at startup; there is no global registration.
package catalog

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/whitejm/steve/internal/hierarchy"
	"github.com/whitejm/steve/internal/model"
	"github.com/whitejm/steve/internal/schema"
	"github.com/whitejm/steve/internal/store"
	"github.com/whitejm/steve/internal/tools"
)

// Catalog binds the tool operations to their collaborators.
type Catalog struct {
	store  *store.Store
	logger *zap.Logger

	// today supplies the current civil date; tests pin it.
	today func() model.Date
}

// New builds the complete tool registry over the given store.
// Registration order is the manifest order the LLM sees.
func New(st *store.Store, logger *zap.Logger) (*tools.Registry, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &Catalog{store: st, logger: logger, today: model.Today}
	return c.registry()
}

// registry assembles the ordered tool set.
func (c *Catalog) registry() (*tools.Registry, error) {
	registry, err := tools.NewRegistry(c.logger,
		c.createGoalTool(),
		c.getGoalTool(),
		c.updateGoalTool(),
		c.listGoalsTool(),
		c.deleteGoalTool(),

		c.createTaskTool(),
		c.getTaskTool(),
		c.updateTaskTool(),
		c.listTasksTool(),
		c.completeTaskTool(),
		c.deleteTaskTool(),

		c.createTemplateTool(),
		c.getTemplateTool(),
		c.updateTemplateTool(),
		c.listTemplatesTool(),
		c.deleteTemplateTool(),
		c.generateTasksTool(),

		c.createNoteTool(),
		c.getNoteTool(),
		c.updateNoteTool(),
		c.listNotesTool(),
		c.deleteNoteTool(),
	)
	if err != nil {
		return nil, fmt.Errorf("build catalog: %w", err)
	}
	return registry, nil
}

// allOptionalBut returns Optional overrides for every name except exempt.
// The update tools derive their schemas this way: same fields as create,
// but only the id is required and omitted fields stay untouched.
func allOptionalBut(names []string, exempt string) map[string]schema.Override {
	overrides := make(map[string]schema.Override, len(names))
	for _, name := range names {
		if name != exempt {
			overrides[name] = schema.Override{Optional: true}
		}
	}
	return overrides
}

// goalsMatchSubtree reports whether any referenced goal is the subtree root
// or a path under it. Matching is structural, so descendant paths that were
// never registered as goals still match.
func goalsMatchSubtree(goals []string, subtree string) bool {
	for _, g := range goals {
		if g == subtree || hierarchy.IsAncestor(subtree, g) {
			return true
		}
	}
	return false
}

// Validated argument accessors. Schema validation already coerced the
// values; these only unpack them.

func argString(args map[string]any, key string) string {
	v, _ := args[key].(string)
	return v
}

func argInt(args map[string]any, key string) int {
	v, _ := args[key].(int)
	return v
}

func argBool(args map[string]any, key string) bool {
	v, _ := args[key].(bool)
	return v
}

func argStrings(args map[string]any, key string) []string {
	v, _ := args[key].([]string)
	return v
}

func argMap(args map[string]any, key string) map[string]any {
	v, _ := args[key].(map[string]any)
	return v
}

func argDate(args map[string]any, key string) *model.Date {
	raw, ok := args[key].(string)
	if !ok {
		return nil
	}
	d, err := model.ParseDate(raw)
	if err != nil {
		return nil
	}
	return &d
}

func present(args map[string]any, key string) bool {
	_, ok := args[key]
	return ok
}

// validGoalRefs checks every referenced goal id is a well-formed dot path.
// Referencing an unregistered goal is allowed; the hierarchy is structural.
func validGoalRefs(goals []string) error {
	for _, id := range goals {
		if err := model.ValidateGoalID(id); err != nil {
			return err
		}
	}
	return nil
}

// deleted is the uniform result of the delete_* tools.
func deleted(kind, id string) map[string]any {
	return map[string]any{"deleted": kind, "id": id}
}
