package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/whitejm/steve/internal/model"
	"github.com/whitejm/steve/internal/store"
)

func TestCreateTaskDefaults(t *testing.T) {
	registry := newTestCatalog(t)

	task := dispatch(t, registry, "create_task", map[string]any{
		"name":  "File taxes",
		"goals": []any{"finances"},
	}).(*model.Task)

	assert.NotEmpty(t, task.ID, "id generated when omitted")
	assert.Equal(t, model.TaskPending, task.Status)
	assert.True(t, task.CanCompleteLate)
	assert.Equal(t, []string{"finances"}, task.Goals)
}

func TestCreateTaskAllowsOddWindow(t *testing.T) {
	registry := newTestCatalog(t)

	// Scheduled after due is suspicious but not an error; it is only logged.
	task := dispatch(t, registry, "create_task", map[string]any{
		"id":             "t-odd",
		"name":           "Misordered window",
		"scheduled_date": "2024-05-10",
		"due_date":       "2024-05-01",
	}).(*model.Task)
	assert.Equal(t, "2024-05-10", task.ScheduledDate.String())
	assert.Equal(t, "2024-05-01", task.DueDate.String())
}

func TestUpdateTask(t *testing.T) {
	registry := newTestCatalog(t)

	dispatch(t, registry, "create_task", map[string]any{
		"id":                        "t1",
		"name":                      "Draft report",
		"estimated_completion_time": 60,
		"log":                       map[string]any{"sections": "intro"},
	})

	task := dispatch(t, registry, "update_task", map[string]any{
		"id":       "t1",
		"due_date": "2024-04-01",
	}).(*model.Task)
	assert.Equal(t, "Draft report", task.Name, "omitted fields keep their values")
	assert.Equal(t, 60, task.EstimatedCompletionTime)
	assert.Equal(t, model.TaskPending, task.Status)
	assert.Equal(t, "2024-04-01", task.DueDate.String())

	t.Run("log replaced whole", func(t *testing.T) {
		task := dispatch(t, registry, "update_task", map[string]any{
			"id":  "t1",
			"log": map[string]any{"reviewer": "sam"},
		}).(*model.Task)
		assert.Equal(t, map[string]any{"reviewer": "sam"}, task.Log)
	})

	t.Run("missing task", func(t *testing.T) {
		_, err := registry.Dispatch(context.Background(), "update_task", map[string]any{
			"id":   "t-nope",
			"name": "Whatever",
		})
		assert.True(t, errors.Is(err, store.ErrNotFound), "err = %v", err)
	})
}

func TestCompleteTask(t *testing.T) {
	registry := newTestCatalog(t)

	dispatch(t, registry, "create_task", map[string]any{
		"id":   "t-prep",
		"name": "Gather receipts",
	})
	dispatch(t, registry, "create_task", map[string]any{
		"id":           "t-file",
		"name":         "File taxes",
		"dependencies": []any{"t-prep"},
		"log":          map[string]any{"forms": "W-2"},
	})

	t.Run("blocked by open dependency", func(t *testing.T) {
		_, err := registry.Dispatch(context.Background(), "complete_task", map[string]any{"id": "t-file"})
		assert.True(t, errors.Is(err, ErrDependencyOpen), "err = %v", err)
	})

	dispatch(t, registry, "complete_task", map[string]any{"id": "t-prep"})

	t.Run("merges log and records time", func(t *testing.T) {
		task := dispatch(t, registry, "complete_task", map[string]any{
			"id":                     "t-file",
			"actual_completion_time": 90,
			"log":                    map[string]any{"refund": true},
		}).(*model.Task)
		assert.Equal(t, model.TaskCompleted, task.Status)
		assert.Equal(t, 90, task.ActualCompletionTime)
		assert.Equal(t, "W-2", task.Log["forms"], "existing entries survive the merge")
		assert.Equal(t, true, task.Log["refund"])
	})

	t.Run("completing twice fails", func(t *testing.T) {
		_, err := registry.Dispatch(context.Background(), "complete_task", map[string]any{"id": "t-file"})
		assert.True(t, errors.Is(err, ErrAlreadyCompleted), "err = %v", err)
	})

	t.Run("cancelled task cannot complete", func(t *testing.T) {
		dispatch(t, registry, "create_task", map[string]any{
			"id":     "t-stale",
			"name":   "Old idea",
			"status": "cancelled",
		})
		_, err := registry.Dispatch(context.Background(), "complete_task", map[string]any{"id": "t-stale"})
		assert.True(t, errors.Is(err, ErrTaskCancelled), "err = %v", err)
	})

	t.Run("missing dependency propagates not found", func(t *testing.T) {
		dispatch(t, registry, "create_task", map[string]any{
			"id":           "t-ghost",
			"name":         "Ghost dep",
			"dependencies": []any{"t-nope"},
		})
		_, err := registry.Dispatch(context.Background(), "complete_task", map[string]any{"id": "t-ghost"})
		assert.True(t, errors.Is(err, store.ErrNotFound), "err = %v", err)
	})
}

func TestCompleteTaskLatePolicy(t *testing.T) {
	registry := newTestCatalog(t)

	// Pinned today is 2024-03-15; both tasks were due two weeks earlier.
	dispatch(t, registry, "create_task", map[string]any{
		"id":                "t-strict",
		"name":              "Submit entry form",
		"due_date":          "2024-03-01",
		"can_complete_late": false,
	})
	dispatch(t, registry, "create_task", map[string]any{
		"id":       "t-lenient",
		"name":     "Read book",
		"due_date": "2024-03-01",
	})

	_, err := registry.Dispatch(context.Background(), "complete_task", map[string]any{"id": "t-strict"})
	assert.True(t, errors.Is(err, ErrPastDue), "err = %v", err)

	task := dispatch(t, registry, "complete_task", map[string]any{"id": "t-lenient"}).(*model.Task)
	assert.Equal(t, model.TaskCompleted, task.Status)

	t.Run("due today is not late", func(t *testing.T) {
		dispatch(t, registry, "create_task", map[string]any{
			"id":                "t-today",
			"name":              "Call bank",
			"due_date":          testToday.String(),
			"can_complete_late": false,
		})
		task := dispatch(t, registry, "complete_task", map[string]any{"id": "t-today"}).(*model.Task)
		assert.Equal(t, model.TaskCompleted, task.Status)
	})
}

func TestListTasksByGoalSubtree(t *testing.T) {
	registry := newTestCatalog(t)

	dispatch(t, registry, "create_task", map[string]any{
		"id": "t-run", "name": "Run intervals",
		"goals": []any{"health.run_5k.intervals"},
	})
	dispatch(t, registry, "create_task", map[string]any{
		"id": "t-eat", "name": "Meal prep",
		"goals": []any{"health"},
	})
	dispatch(t, registry, "create_task", map[string]any{
		"id": "t-tax", "name": "Taxes",
		"goals": []any{"healthy_finances"},
	})

	tasks := dispatch(t, registry, "list_tasks", map[string]any{"goal": "health"}).([]model.Task)
	require.Len(t, tasks, 2, "subtree respects segment boundaries")
	ids := []string{tasks[0].ID, tasks[1].ID}
	assert.Contains(t, ids, "t-run")
	assert.Contains(t, ids, "t-eat")
}
