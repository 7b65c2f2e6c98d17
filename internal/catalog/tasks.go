package catalog

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/whitejm/steve/internal/model"
	"github.com/whitejm/steve/internal/schema"
	"github.com/whitejm/steve/internal/store"
	"github.com/whitejm/steve/internal/tools"
)

// Fields a caller may set on a task. Creation leaves out
// actual_completion_time, which arrives at completion, and the template
// linkage fields, which only generation writes.
var (
	taskCreateFields = []string{
		"id", "name", "status", "scheduled_date", "due_date",
		"estimated_completion_time", "goals", "dependencies",
		"can_complete_late", "log", "log_instructions",
	}
	taskUpdateFields = []string{
		"id", "name", "status", "scheduled_date", "due_date",
		"estimated_completion_time", "actual_completion_time", "goals",
		"dependencies", "can_complete_late", "log", "log_instructions",
	}
)

func (c *Catalog) createTaskTool() *tools.Tool {
	return &tools.Tool{
		Name:        "create_task",
		Description: "Create a task. Link it to goals by their dot-notation ids and to prerequisite tasks via dependencies.",
		Schema: schema.MustDerive(model.TaskFields(), taskCreateFields, map[string]schema.Override{
			"id": {Optional: true, Description: "Unique identifier for the task. Generated if omitted"},
		}),
		Execute: c.createTask,
	}
}

func (c *Catalog) createTask(ctx context.Context, args map[string]any) (any, error) {
	task := &model.Task{
		ID:                      argString(args, "id"),
		Name:                    argString(args, "name"),
		Status:                  model.TaskStatus(argString(args, "status")),
		ScheduledDate:           argDate(args, "scheduled_date"),
		DueDate:                 argDate(args, "due_date"),
		EstimatedCompletionTime: argInt(args, "estimated_completion_time"),
		Goals:                   argStrings(args, "goals"),
		Dependencies:            argStrings(args, "dependencies"),
		CanCompleteLate:         argBool(args, "can_complete_late"),
		Log:                     argMap(args, "log"),
		LogInstructions:         argString(args, "log_instructions"),
	}
	if task.ID == "" {
		task.ID = model.NewID()
	}
	if err := validGoalRefs(task.Goals); err != nil {
		return nil, err
	}
	c.warnOnOddWindow(task)
	if err := c.store.CreateTask(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

func (c *Catalog) getTaskTool() *tools.Tool {
	return &tools.Tool{
		Name:        "get_task",
		Description: "Fetch a single task by id.",
		Schema:      schema.MustDerive(model.TaskFields(), []string{"id"}, nil),
		Execute:     c.getTask,
	}
}

func (c *Catalog) getTask(ctx context.Context, args map[string]any) (any, error) {
	return c.store.GetTask(ctx, argString(args, "id"))
}

func (c *Catalog) updateTaskTool() *tools.Tool {
	return &tools.Tool{
		Name:        "update_task",
		Description: "Update fields of an existing task. Omitted fields keep their current values; the log is replaced whole. Use complete_task to mark work done with its guards applied.",
		Schema:      schema.MustDerive(model.TaskFields(), taskUpdateFields, allOptionalBut(taskUpdateFields, "id")),
		Execute:     c.updateTask,
	}
}

func (c *Catalog) updateTask(ctx context.Context, args map[string]any) (any, error) {
	task, err := c.store.GetTask(ctx, argString(args, "id"))
	if err != nil {
		return nil, err
	}
	if present(args, "name") {
		task.Name = argString(args, "name")
	}
	if present(args, "status") {
		task.Status = model.TaskStatus(argString(args, "status"))
	}
	if present(args, "scheduled_date") {
		task.ScheduledDate = argDate(args, "scheduled_date")
	}
	if present(args, "due_date") {
		task.DueDate = argDate(args, "due_date")
	}
	if present(args, "estimated_completion_time") {
		task.EstimatedCompletionTime = argInt(args, "estimated_completion_time")
	}
	if present(args, "actual_completion_time") {
		task.ActualCompletionTime = argInt(args, "actual_completion_time")
	}
	if present(args, "goals") {
		task.Goals = argStrings(args, "goals")
		if err := validGoalRefs(task.Goals); err != nil {
			return nil, err
		}
	}
	if present(args, "dependencies") {
		task.Dependencies = argStrings(args, "dependencies")
	}
	if present(args, "can_complete_late") {
		task.CanCompleteLate = argBool(args, "can_complete_late")
	}
	if present(args, "log") {
		task.Log = argMap(args, "log")
	}
	if present(args, "log_instructions") {
		task.LogInstructions = argString(args, "log_instructions")
	}
	c.warnOnOddWindow(task)
	if err := c.store.UpdateTask(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

func (c *Catalog) listTasksTool() *tools.Tool {
	return &tools.Tool{
		Name:        "list_tasks",
		Description: "List tasks ordered by due date, optionally filtered by status, goal subtree, due date window, or source template.",
		Schema: schema.MustNew([]schema.FieldDef{
			{Name: "status", Type: schema.TypeString, Enum: model.TaskStatuses(),
				Description: "Only tasks with this status"},
			{Name: "goal", Type: schema.TypeString,
				Description: "Only tasks advancing this goal or any goal under it"},
			{Name: "due_on_or_before", Type: schema.TypeDate,
				Description: "Only tasks due on or before this date"},
			{Name: "due_on_or_after", Type: schema.TypeDate,
				Description: "Only tasks due on or after this date"},
			{Name: "template_id", Type: schema.TypeString,
				Description: "Only tasks generated from this recurring task template"},
		}),
		Execute: c.listTasks,
	}
}

func (c *Catalog) listTasks(ctx context.Context, args map[string]any) (any, error) {
	tasks, err := c.store.ListTasks(ctx, store.TaskFilter{
		Status:        model.TaskStatus(argString(args, "status")),
		DueOnOrBefore: argDate(args, "due_on_or_before"),
		DueOnOrAfter:  argDate(args, "due_on_or_after"),
		TemplateID:    argString(args, "template_id"),
	})
	if err != nil {
		return nil, err
	}
	if subtree := argString(args, "goal"); subtree != "" {
		matched := make([]model.Task, 0, len(tasks))
		for _, task := range tasks {
			if goalsMatchSubtree(task.Goals, subtree) {
				matched = append(matched, task)
			}
		}
		tasks = matched
	}
	if tasks == nil {
		tasks = []model.Task{}
	}
	return tasks, nil
}

func (c *Catalog) completeTaskTool() *tools.Tool {
	return &tools.Tool{
		Name:        "complete_task",
		Description: "Mark a task completed. Fails if the task is already completed or cancelled, if a dependency is not completed, or if the task is past due and does not allow late completion.",
		Schema: schema.MustNew([]schema.FieldDef{
			{Name: "id", Type: schema.TypeString, Required: true,
				Description: "Id of the task to complete"},
			{Name: "actual_completion_time", Type: schema.TypeInteger,
				Description: "Actual time taken to complete the task, in minutes"},
			{Name: "log", Type: schema.TypeMap,
				Description: "Log entries to record; merged into the task's existing log"},
		}),
		Execute: c.completeTask,
	}
}

func (c *Catalog) completeTask(ctx context.Context, args map[string]any) (any, error) {
	task, err := c.store.GetTask(ctx, argString(args, "id"))
	if err != nil {
		return nil, err
	}
	switch task.Status {
	case model.TaskCompleted:
		return nil, fmt.Errorf("%w: %s", ErrAlreadyCompleted, task.ID)
	case model.TaskCancelled:
		return nil, fmt.Errorf("%w: %s", ErrTaskCancelled, task.ID)
	}
	for _, depID := range task.Dependencies {
		dep, err := c.store.GetTask(ctx, depID)
		if err != nil {
			return nil, fmt.Errorf("dependency of %s: %w", task.ID, err)
		}
		if dep.Status != model.TaskCompleted {
			return nil, fmt.Errorf("%w: %s needs %s, which is %s", ErrDependencyOpen, task.ID, dep.ID, dep.Status)
		}
	}
	if !task.CanCompleteLate && task.DueDate != nil && c.today().After(*task.DueDate) {
		return nil, fmt.Errorf("%w: %s was due %s", ErrPastDue, task.ID, task.DueDate)
	}

	if present(args, "actual_completion_time") {
		task.ActualCompletionTime = argInt(args, "actual_completion_time")
	}
	if entries := argMap(args, "log"); len(entries) > 0 {
		if task.Log == nil {
			task.Log = make(map[string]any, len(entries))
		}
		for k, v := range entries {
			task.Log[k] = v
		}
	}
	task.Status = model.TaskCompleted
	if err := c.store.UpdateTask(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

func (c *Catalog) deleteTaskTool() *tools.Tool {
	return &tools.Tool{
		Name:        "delete_task",
		Description: "Delete a task by id. Other tasks listing it as a dependency keep the reference.",
		Schema:      schema.MustDerive(model.TaskFields(), []string{"id"}, nil),
		Execute:     c.deleteTask,
	}
}

func (c *Catalog) deleteTask(ctx context.Context, args map[string]any) (any, error) {
	id := argString(args, "id")
	if err := c.store.DeleteTask(ctx, id); err != nil {
		return nil, err
	}
	return deleted("task", id), nil
}

// warnOnOddWindow flags a scheduling window that starts after it ends. The
// write still goes through; the dates may be mid-correction across calls.
func (c *Catalog) warnOnOddWindow(task *model.Task) {
	if task.ScheduledDate != nil && task.DueDate != nil && task.ScheduledDate.After(*task.DueDate) {
		c.logger.Warn("task scheduled after its due date",
			zap.String("task", task.ID),
			zap.String("scheduled", task.ScheduledDate.String()),
			zap.String("due", task.DueDate.String()))
	}
}
