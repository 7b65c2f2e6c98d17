package store

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/whitejm/steve/internal/model"
)

func datePtr(s string) *model.Date {
	d := model.MustParseDate(s)
	return &d
}

func TestTaskRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	task := &model.Task{
		ID:                      model.NewID(),
		Name:                    "Morning run",
		Status:                  model.TaskPending,
		ScheduledDate:           datePtr("2024-01-08"),
		DueDate:                 datePtr("2024-01-10"),
		EstimatedCompletionTime: 45,
		Goals:                   []string{"health", "health.run_5k"},
		Dependencies:            []string{"buy-shoes"},
		CanCompleteLate:         true,
		Log:                     map[string]any{"distance_km": 5.2, "felt": "good"},
		LogInstructions:         "record distance in km",
	}
	require.NoError(t, s.CreateTask(ctx, task))

	got, err := s.GetTask(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, "Morning run", got.Name)
	assert.Equal(t, model.TaskPending, got.Status)
	assert.Equal(t, "2024-01-08", got.ScheduledDate.String())
	assert.Equal(t, "2024-01-10", got.DueDate.String())
	assert.Equal(t, 45, got.EstimatedCompletionTime)
	assert.Equal(t, []string{"health", "health.run_5k"}, got.Goals)
	assert.Equal(t, []string{"buy-shoes"}, got.Dependencies)
	assert.True(t, got.CanCompleteLate)
	assert.Equal(t, map[string]any{"distance_km": 5.2, "felt": "good"}, got.Log)
	assert.Equal(t, "record distance in km", got.LogInstructions)
	assert.Empty(t, got.SourceTemplateID)
	assert.Nil(t, got.InstanceDate)
	assert.False(t, got.CreatedAt.IsZero())
}

func TestTaskBareRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	task := &model.Task{ID: "t1", Name: "Call plumber", Status: model.TaskPending, CanCompleteLate: true}
	require.NoError(t, s.CreateTask(ctx, task))

	got, err := s.GetTask(ctx, "t1")
	require.NoError(t, err)
	assert.Nil(t, got.ScheduledDate)
	assert.Nil(t, got.DueDate)
	assert.Nil(t, got.Goals)
	assert.Nil(t, got.Dependencies)
	assert.Nil(t, got.Log)
}

func TestTaskUpdateAndDelete(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	task := &model.Task{ID: "t1", Name: "Draft report", Status: model.TaskPending, CanCompleteLate: true}
	require.NoError(t, s.CreateTask(ctx, task))

	task.Status = model.TaskCompleted
	task.ActualCompletionTime = 90
	task.Log = map[string]any{"outcome": "sent to review"}
	require.NoError(t, s.UpdateTask(ctx, task))

	got, err := s.GetTask(ctx, "t1")
	require.NoError(t, err)
	assert.Equal(t, model.TaskCompleted, got.Status)
	assert.Equal(t, 90, got.ActualCompletionTime)
	assert.Equal(t, map[string]any{"outcome": "sent to review"}, got.Log)

	require.NoError(t, s.DeleteTask(ctx, "t1"))
	_, err = s.GetTask(ctx, "t1")
	assert.True(t, errors.Is(err, ErrNotFound), "err = %v", err)

	err = s.UpdateTask(ctx, task)
	assert.True(t, errors.Is(err, ErrNotFound), "err = %v", err)
}

func TestListTasksFilters(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	seed := []model.Task{
		{ID: "t1", Name: "early", Status: model.TaskPending, DueDate: datePtr("2024-01-05"), Goals: []string{"health"}},
		{ID: "t2", Name: "late", Status: model.TaskPending, DueDate: datePtr("2024-02-10"), Goals: []string{"career"}},
		{ID: "t3", Name: "done", Status: model.TaskCompleted, DueDate: datePtr("2024-01-20")},
		{ID: "t4", Name: "undated", Status: model.TaskPending},
	}
	for i := range seed {
		require.NoError(t, s.CreateTask(ctx, &seed[i]))
	}

	t.Run("due order with undated last", func(t *testing.T) {
		tasks, err := s.ListTasks(ctx, TaskFilter{})
		require.NoError(t, err)
		require.Len(t, tasks, 4)
		assert.Equal(t, "t1", tasks[0].ID)
		assert.Equal(t, "t3", tasks[1].ID)
		assert.Equal(t, "t2", tasks[2].ID)
		assert.Equal(t, "t4", tasks[3].ID)
	})

	t.Run("by status", func(t *testing.T) {
		tasks, err := s.ListTasks(ctx, TaskFilter{Status: model.TaskCompleted})
		require.NoError(t, err)
		require.Len(t, tasks, 1)
		assert.Equal(t, "t3", tasks[0].ID)
	})

	t.Run("due window excludes undated", func(t *testing.T) {
		tasks, err := s.ListTasks(ctx, TaskFilter{
			DueOnOrAfter:  datePtr("2024-01-10"),
			DueOnOrBefore: datePtr("2024-02-10"),
		})
		require.NoError(t, err)
		require.Len(t, tasks, 2)
		assert.Equal(t, "t3", tasks[0].ID)
		assert.Equal(t, "t2", tasks[1].ID)
	})

	t.Run("by template", func(t *testing.T) {
		recurring := model.Task{
			ID: "t5", Name: "from template", Status: model.TaskPending,
			DueDate: datePtr("2024-03-01"), SourceTemplateID: "tmpl-x",
			InstanceDate: datePtr("2024-03-01"),
		}
		require.NoError(t, s.CreateTask(ctx, &recurring))

		tasks, err := s.ListTasks(ctx, TaskFilter{TemplateID: "tmpl-x"})
		require.NoError(t, err)
		require.Len(t, tasks, 1)
		assert.Equal(t, "t5", tasks[0].ID)
	})
}
