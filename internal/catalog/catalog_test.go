package catalog

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/whitejm/steve/internal/model"
	"github.com/whitejm/steve/internal/schema"
	"github.com/whitejm/steve/internal/store"
	"github.com/whitejm/steve/internal/tools"
)

// testToday is the pinned current date for every catalog test.
var testToday = model.MustParseDate("2024-03-15")

func newTestCatalog(t *testing.T) *tools.Registry {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "steve.db"), zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	c := &Catalog{store: st, logger: zap.NewNop(), today: func() model.Date { return testToday }}
	registry, err := c.registry()
	require.NoError(t, err)
	return registry
}

// dispatch runs a tool and fails the test on any error.
func dispatch(t *testing.T, registry *tools.Registry, name string, args map[string]any) any {
	t.Helper()
	res, err := registry.Dispatch(context.Background(), name, args)
	require.NoError(t, err, "dispatch %s", name)
	return res.Result
}

func TestManifestOrder(t *testing.T) {
	registry := newTestCatalog(t)

	want := []string{
		"create_goal", "get_goal", "update_goal", "list_goals", "delete_goal",
		"create_task", "get_task", "update_task", "list_tasks", "complete_task", "delete_task",
		"create_template", "get_template", "update_template", "list_templates", "delete_template", "generate_tasks",
		"create_note", "get_note", "update_note", "list_notes", "delete_note",
	}
	manifests := registry.Describe()
	require.Len(t, manifests, len(want))
	for i, m := range manifests {
		assert.Equal(t, want[i], m.Name, "manifest position %d", i)
		assert.NotEmpty(t, m.Description, "%s description", m.Name)
		assert.NotEmpty(t, m.Parameters, "%s parameters", m.Name)
	}
}

func TestGoalFlow(t *testing.T) {
	registry := newTestCatalog(t)

	created := dispatch(t, registry, "create_goal", map[string]any{
		"id":   "health",
		"name": "Stay healthy",
	}).(*model.Goal)
	assert.Equal(t, model.GoalActive, created.Status, "status defaults to active")

	dispatch(t, registry, "create_goal", map[string]any{
		"id":   "health.run_5k",
		"name": "Run a 5k",
	})
	dispatch(t, registry, "create_goal", map[string]any{
		"id":     "career",
		"name":   "Career",
		"status": "paused",
	})

	t.Run("get", func(t *testing.T) {
		goal := dispatch(t, registry, "get_goal", map[string]any{"id": "health"}).(*model.Goal)
		assert.Equal(t, "Stay healthy", goal.Name)
	})

	t.Run("update keeps omitted fields", func(t *testing.T) {
		goal := dispatch(t, registry, "update_goal", map[string]any{
			"id":     "career",
			"status": "active",
		}).(*model.Goal)
		assert.Equal(t, "Career", goal.Name)
		assert.Equal(t, model.GoalActive, goal.Status)
	})

	t.Run("list subtree", func(t *testing.T) {
		goals := dispatch(t, registry, "list_goals", map[string]any{"subtree": "health"}).([]model.Goal)
		require.Len(t, goals, 2)
		assert.Equal(t, "health", goals[0].ID)
		assert.Equal(t, "health.run_5k", goals[1].ID)
	})

	t.Run("delete", func(t *testing.T) {
		dispatch(t, registry, "delete_goal", map[string]any{"id": "career"})
		_, err := registry.Dispatch(context.Background(), "get_goal", map[string]any{"id": "career"})
		assert.True(t, errors.Is(err, store.ErrNotFound), "err = %v", err)
	})
}

func TestCreateGoalRejectsMalformedID(t *testing.T) {
	registry := newTestCatalog(t)

	for _, id := range []string{"has space", "trailing.", ".leading", "a..b"} {
		_, err := registry.Dispatch(context.Background(), "create_goal", map[string]any{
			"id":   id,
			"name": "Bad",
		})
		assert.Error(t, err, "id %q", id)
	}
}

func TestDispatchRejectsUnknownArgument(t *testing.T) {
	registry := newTestCatalog(t)

	_, err := registry.Dispatch(context.Background(), "create_goal", map[string]any{
		"id":   "health",
		"name": "Stay healthy",
		"nmae": "typo",
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, schema.ErrInvalidArguments), "err = %v", err)
	assert.Contains(t, err.Error(), "nmae")
}

func TestNoteFlow(t *testing.T) {
	registry := newTestCatalog(t)

	note := dispatch(t, registry, "create_note", map[string]any{
		"title":            "Mornings",
		"content":          "Prefers workouts before 8am.",
		"note_type":        "user_preference",
		"is_system_prompt": true,
	}).(*model.Note)
	assert.NotEmpty(t, note.ID, "id generated when omitted")

	dispatch(t, registry, "create_note", map[string]any{
		"id":      "note-tax",
		"title":   "Tax portal",
		"content": "File through portal.example.com",
	})

	t.Run("defaults", func(t *testing.T) {
		got := dispatch(t, registry, "get_note", map[string]any{"id": "note-tax"}).(*model.Note)
		assert.Equal(t, model.NoteGeneral, got.Type)
		assert.False(t, got.IsSystemPrompt)
	})

	t.Run("list system prompt notes", func(t *testing.T) {
		notes := dispatch(t, registry, "list_notes", map[string]any{"is_system_prompt": true}).([]model.Note)
		require.Len(t, notes, 1)
		assert.Equal(t, "Mornings", notes[0].Title)
	})

	t.Run("update flips membership", func(t *testing.T) {
		dispatch(t, registry, "update_note", map[string]any{
			"id":               note.ID,
			"is_system_prompt": false,
		})
		notes := dispatch(t, registry, "list_notes", map[string]any{"is_system_prompt": true}).([]model.Note)
		assert.Empty(t, notes)
	})

	t.Run("delete", func(t *testing.T) {
		dispatch(t, registry, "delete_note", map[string]any{"id": "note-tax"})
		_, err := registry.Dispatch(context.Background(), "get_note", map[string]any{"id": "note-tax"})
		assert.True(t, errors.Is(err, store.ErrNotFound), "err = %v", err)
	})
}
