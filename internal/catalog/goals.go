package catalog

import (
	"context"

	"github.com/whitejm/steve/internal/model"
	"github.com/whitejm/steve/internal/schema"
	"github.com/whitejm/steve/internal/store"
	"github.com/whitejm/steve/internal/tools"
)

var goalFieldNames = []string{"id", "name", "description", "status"}

func (c *Catalog) createGoalTool() *tools.Tool {
	return &tools.Tool{
		Name:        "create_goal",
		Description: "Create a goal. Dot notation in the id places it in the hierarchy: 'health.run_5k' sits under 'health'. The parent does not have to exist.",
		Schema:      schema.MustDerive(model.GoalFields(), goalFieldNames, nil),
		Execute:     c.createGoal,
	}
}

func (c *Catalog) createGoal(ctx context.Context, args map[string]any) (any, error) {
	goal := &model.Goal{
		ID:          argString(args, "id"),
		Name:        argString(args, "name"),
		Description: argString(args, "description"),
		Status:      model.GoalStatus(argString(args, "status")),
	}
	if err := model.ValidateGoalID(goal.ID); err != nil {
		return nil, err
	}
	if err := c.store.CreateGoal(ctx, goal); err != nil {
		return nil, err
	}
	return goal, nil
}

func (c *Catalog) getGoalTool() *tools.Tool {
	return &tools.Tool{
		Name:        "get_goal",
		Description: "Fetch a single goal by id.",
		Schema:      schema.MustDerive(model.GoalFields(), []string{"id"}, nil),
		Execute:     c.getGoal,
	}
}

func (c *Catalog) getGoal(ctx context.Context, args map[string]any) (any, error) {
	return c.store.GetGoal(ctx, argString(args, "id"))
}

func (c *Catalog) updateGoalTool() *tools.Tool {
	return &tools.Tool{
		Name:        "update_goal",
		Description: "Update fields of an existing goal. Omitted fields keep their current values.",
		Schema:      schema.MustDerive(model.GoalFields(), goalFieldNames, allOptionalBut(goalFieldNames, "id")),
		Execute:     c.updateGoal,
	}
}

func (c *Catalog) updateGoal(ctx context.Context, args map[string]any) (any, error) {
	goal, err := c.store.GetGoal(ctx, argString(args, "id"))
	if err != nil {
		return nil, err
	}
	if present(args, "name") {
		goal.Name = argString(args, "name")
	}
	if present(args, "description") {
		goal.Description = argString(args, "description")
	}
	if present(args, "status") {
		goal.Status = model.GoalStatus(argString(args, "status"))
	}
	if err := c.store.UpdateGoal(ctx, goal); err != nil {
		return nil, err
	}
	return goal, nil
}

func (c *Catalog) listGoalsTool() *tools.Tool {
	return &tools.Tool{
		Name:        "list_goals",
		Description: "List goals ordered by id, optionally filtered by status or restricted to one goal's subtree.",
		Schema: schema.MustNew([]schema.FieldDef{
			{Name: "status", Type: schema.TypeString, Enum: model.GoalStatuses(),
				Description: "Only goals with this status"},
			{Name: "subtree", Type: schema.TypeString,
				Description: "Only this goal and its descendants, e.g. 'health'"},
		}),
		Execute: c.listGoals,
	}
}

func (c *Catalog) listGoals(ctx context.Context, args map[string]any) (any, error) {
	goals, err := c.store.ListGoals(ctx, store.GoalFilter{
		Status:  model.GoalStatus(argString(args, "status")),
		Subtree: argString(args, "subtree"),
	})
	if err != nil {
		return nil, err
	}
	if goals == nil {
		goals = []model.Goal{}
	}
	return goals, nil
}

func (c *Catalog) deleteGoalTool() *tools.Tool {
	return &tools.Tool{
		Name:        "delete_goal",
		Description: "Delete a goal by id. Descendant goals and tasks referencing it are left in place.",
		Schema:      schema.MustDerive(model.GoalFields(), []string{"id"}, nil),
		Execute:     c.deleteGoal,
	}
}

func (c *Catalog) deleteGoal(ctx context.Context, args map[string]any) (any, error) {
	id := argString(args, "id")
	if err := c.store.DeleteGoal(ctx, id); err != nil {
		return nil, err
	}
	return deleted("goal", id), nil
}
