package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// The subcommands below are thin wrappers over the same tool catalog the
// assistant calls, so direct use and LLM use cannot drift apart. Each one
// builds an argument map, dispatches, and prints the result as JSON.

var goalCmd = &cobra.Command{
	Use:   "goal",
	Short: "Manage goals",
}

var goalListCmd = &cobra.Command{
	Use:   "list",
	Short: "List goals",
	RunE:  runGoalList,
}

var goalAddCmd = &cobra.Command{
	Use:   "add [id] [name...]",
	Short: "Create a goal",
	Long: `Creates a goal. The id is a dot-separated path; a dotted id nests the
goal under its parent, which does not itself have to exist.

Example:
  steve goal add health.run_5k Run a 5k race`,
	Args: cobra.MinimumNArgs(2),
	RunE: runGoalAdd,
}

var goalDoneCmd = &cobra.Command{
	Use:   "done [id]",
	Short: "Mark a goal completed",
	Args:  cobra.ExactArgs(1),
	RunE:  runGoalDone,
}

var taskCmd = &cobra.Command{
	Use:   "task",
	Short: "Manage tasks",
}

var taskListCmd = &cobra.Command{
	Use:   "list",
	Short: "List tasks",
	RunE:  runTaskList,
}

var taskAddCmd = &cobra.Command{
	Use:   "add [name...]",
	Short: "Create a task",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runTaskAdd,
}

var taskCompleteCmd = &cobra.Command{
	Use:   "complete [id]",
	Short: "Complete a task, checking dependencies and the late policy",
	Args:  cobra.ExactArgs(1),
	RunE:  runTaskComplete,
}

var templateCmd = &cobra.Command{
	Use:   "template",
	Short: "Manage recurring task templates",
}

var templateListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recurring task templates",
	RunE:  runTemplateList,
}

var noteCmd = &cobra.Command{
	Use:   "note",
	Short: "Manage notes",
}

var noteListCmd = &cobra.Command{
	Use:   "list",
	Short: "List notes",
	RunE:  runNoteList,
}

var noteAddCmd = &cobra.Command{
	Use:   "add [title...]",
	Short: "Create a note",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runNoteAdd,
}

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Materialize tasks from recurring templates",
	Long: `Expands every recurrence rule up to the given date (today when omitted)
and creates the resulting tasks. Running it again for the same date creates
nothing new.`,
	RunE: runGenerate,
}

var toolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "Print the tool manifest as JSON",
	Long: `Prints every registered tool with its parameter schema, in the same
structure the assistant exports to Gemini.`,
	RunE: runTools,
}

func init() {
	goalListCmd.Flags().String("status", "", "Filter by status (active|completed|abandoned|paused)")
	goalListCmd.Flags().String("goal", "", "Filter to a goal and everything under it")
	goalAddCmd.Flags().String("description", "", "Goal description")

	taskListCmd.Flags().String("status", "", "Filter by status (pending|in_progress|completed|cancelled)")
	taskListCmd.Flags().String("goal", "", "Filter to a goal and everything under it")
	taskListCmd.Flags().String("due-before", "", "Only tasks due on or before this date (YYYY-MM-DD)")
	taskListCmd.Flags().String("due-after", "", "Only tasks due on or after this date (YYYY-MM-DD)")
	taskListCmd.Flags().String("template", "", "Only tasks generated from this template")
	taskAddCmd.Flags().String("id", "", "Task id (generated when omitted)")
	taskAddCmd.Flags().String("due", "", "Due date (YYYY-MM-DD)")
	taskAddCmd.Flags().String("scheduled", "", "Scheduled date (YYYY-MM-DD)")
	taskAddCmd.Flags().Int("estimate", 0, "Estimated minutes to complete")
	taskAddCmd.Flags().StringSlice("goals", nil, "Goal ids this task serves")
	taskAddCmd.Flags().StringSlice("deps", nil, "Task ids that must complete first")
	taskCompleteCmd.Flags().Int("minutes", 0, "Actual minutes the task took")

	templateListCmd.Flags().String("goal", "", "Filter to a goal and everything under it")

	noteListCmd.Flags().String("type", "", "Filter by note type (general|user_preference|reference)")
	noteListCmd.Flags().Bool("system", false, "Filter by system prompt membership")
	noteAddCmd.Flags().String("content", "", "Note body")
	noteAddCmd.Flags().String("type", "", "Note type (general|user_preference|reference)")
	noteAddCmd.Flags().Bool("system", false, "Include the note in the assistant's system prompt")

	generateCmd.Flags().String("template", "", "Generate for one template only")
	generateCmd.Flags().String("as-of", "", "Generate up to this date instead of today (YYYY-MM-DD)")
}

func runGoalList(cmd *cobra.Command, args []string) error {
	filter := map[string]any{}
	addFlagString(cmd, filter, "status", "status")
	addFlagString(cmd, filter, "goal", "subtree")
	return dispatchPrint(cmd, "list_goals", filter)
}

func runGoalAdd(cmd *cobra.Command, args []string) error {
	call := map[string]any{
		"id":   args[0],
		"name": joinArgs(args[1:]),
	}
	addFlagString(cmd, call, "description", "description")
	return dispatchPrint(cmd, "create_goal", call)
}

func runGoalDone(cmd *cobra.Command, args []string) error {
	return dispatchPrint(cmd, "update_goal", map[string]any{
		"id":     args[0],
		"status": "completed",
	})
}

func runTaskList(cmd *cobra.Command, args []string) error {
	filter := map[string]any{}
	addFlagString(cmd, filter, "status", "status")
	addFlagString(cmd, filter, "goal", "goal")
	addFlagString(cmd, filter, "due-before", "due_on_or_before")
	addFlagString(cmd, filter, "due-after", "due_on_or_after")
	addFlagString(cmd, filter, "template", "template_id")
	return dispatchPrint(cmd, "list_tasks", filter)
}

func runTaskAdd(cmd *cobra.Command, args []string) error {
	call := map[string]any{"name": joinArgs(args)}
	addFlagString(cmd, call, "id", "id")
	addFlagString(cmd, call, "due", "due_date")
	addFlagString(cmd, call, "scheduled", "scheduled_date")
	addFlagInt(cmd, call, "estimate", "estimated_completion_time")
	addFlagStrings(cmd, call, "goals", "goals")
	addFlagStrings(cmd, call, "deps", "dependencies")
	return dispatchPrint(cmd, "create_task", call)
}

func runTaskComplete(cmd *cobra.Command, args []string) error {
	call := map[string]any{"id": args[0]}
	addFlagInt(cmd, call, "minutes", "actual_completion_time")
	return dispatchPrint(cmd, "complete_task", call)
}

func runTemplateList(cmd *cobra.Command, args []string) error {
	filter := map[string]any{}
	addFlagString(cmd, filter, "goal", "goal")
	return dispatchPrint(cmd, "list_templates", filter)
}

func runNoteList(cmd *cobra.Command, args []string) error {
	filter := map[string]any{}
	addFlagString(cmd, filter, "type", "note_type")
	addFlagBool(cmd, filter, "system", "is_system_prompt")
	return dispatchPrint(cmd, "list_notes", filter)
}

func runNoteAdd(cmd *cobra.Command, args []string) error {
	call := map[string]any{"title": joinArgs(args)}
	addFlagString(cmd, call, "content", "content")
	addFlagString(cmd, call, "type", "note_type")
	addFlagBool(cmd, call, "system", "is_system_prompt")
	return dispatchPrint(cmd, "create_note", call)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	call := map[string]any{}
	addFlagString(cmd, call, "template", "template_id")
	addFlagString(cmd, call, "as-of", "as_of")
	return dispatchPrint(cmd, "generate_tasks", call)
}

func runTools(cmd *cobra.Command, args []string) error {
	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.Close()
	return printJSON(e.registry.Describe())
}

// dispatchPrint routes one call through the registry and prints the result.
func dispatchPrint(cmd *cobra.Command, tool string, args map[string]any) error {
	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	res, err := e.registry.Dispatch(cmd.Context(), tool, args)
	if err != nil {
		return err
	}
	return printJSON(res.Result)
}

func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}

// addFlagString copies a non-empty string flag into the argument map.
func addFlagString(cmd *cobra.Command, args map[string]any, flag, key string) {
	if v, _ := cmd.Flags().GetString(flag); v != "" {
		args[key] = v
	}
}

// addFlagInt copies an int flag into the argument map when it was set.
func addFlagInt(cmd *cobra.Command, args map[string]any, flag, key string) {
	if cmd.Flags().Changed(flag) {
		v, _ := cmd.Flags().GetInt(flag)
		args[key] = v
	}
}

// addFlagBool copies a bool flag into the argument map when it was set, so
// an unset flag means "no filter" rather than false.
func addFlagBool(cmd *cobra.Command, args map[string]any, flag, key string) {
	if cmd.Flags().Changed(flag) {
		v, _ := cmd.Flags().GetBool(flag)
		args[key] = v
	}
}

// addFlagStrings copies a non-empty string-slice flag into the argument map.
func addFlagStrings(cmd *cobra.Command, args map[string]any, flag, key string) {
	if v, _ := cmd.Flags().GetStringSlice(flag); len(v) > 0 {
		args[key] = v
	}
}

func joinArgs(args []string) string {
	return strings.Join(args, " ")
}
