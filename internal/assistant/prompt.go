package assistant

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/whitejm/steve/internal/model"
	"github.com/whitejm/steve/internal/store"
)

// SystemPrompt renders the assistant's standing instructions: ground rules,
// the current date, the active goal tree, and every note the user flagged
// for inclusion.
func SystemPrompt(now time.Time, goals []model.Goal, notes []model.Note) string {
	var b strings.Builder

	b.WriteString("You are Steve, a personal assistant that manages the user's goals, tasks,\n")
	b.WriteString("recurring task templates, and notes through the tools provided.\n\n")

	fmt.Fprintf(&b, "Today is %s, %s.\n\n", now.Weekday(), now.Format("2006-01-02"))

	b.WriteString("Ground rules:\n")
	b.WriteString("- Read and change data only through tools. Never invent ids, dates, or state. Read freely; confirm destructive changes unless the user already asked for them.\n")
	b.WriteString("- Omit optional parameters you have no value for. Never send null.\n")
	b.WriteString("- Dates are YYYY-MM-DD strings. Durations are whole minutes.\n")
	b.WriteString("- Goal ids are dot paths: 'health.run_5k' sits under 'health'. Referencing a parent that was never created is fine.\n")
	b.WriteString("- Recurring work lives in templates. Run generate_tasks before answering questions about upcoming or today's tasks.\n")
	b.WriteString("- Use complete_task to finish work so its checks run; ask for log details its instructions call for.\n")
	b.WriteString("- Keep replies short and concrete.\n\n")

	b.WriteString("Active goals:\n")
	if len(goals) == 0 {
		b.WriteString("- none recorded yet\n")
	}
	for _, g := range goals {
		fmt.Fprintf(&b, "- %s: %s\n", g.ID, g.Name)
	}

	if len(notes) > 0 {
		b.WriteString("\nStanding notes:\n")
		for _, n := range notes {
			fmt.Fprintf(&b, "\n### %s\n%s\n", n.Title, n.Content)
		}
	}
	return b.String()
}

// BuildSystemPrompt loads the active goals and flagged notes and renders
// the prompt for the current moment. Called per exchange, so edits the
// assistant makes to goals and notes show up on its own next turn.
func BuildSystemPrompt(ctx context.Context, st *store.Store) (string, error) {
	goals, err := st.ListGoals(ctx, store.GoalFilter{Status: model.GoalActive})
	if err != nil {
		return "", fmt.Errorf("load goals: %w", err)
	}
	flagged := true
	notes, err := st.ListNotes(ctx, store.NoteFilter{SystemPrompt: &flagged})
	if err != nil {
		return "", fmt.Errorf("load notes: %w", err)
	}
	return SystemPrompt(time.Now(), goals, notes), nil
}
