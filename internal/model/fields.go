package model

import "github.com/whitejm/steve/internal/schema"

// Field catalogs describe each entity for schema derivation. Catalog order
// is the order tool parameters appear in the manifest shown to the LLM.
// Each call returns a fresh slice; callers may not see each other's edits.

// GoalFields is the Goal catalog.
func GoalFields() []schema.FieldDef {
	return []schema.FieldDef{
		{Name: "id", Type: schema.TypeString, Required: true,
			Description: "Goal identifier in dot notation for hierarchy, no spaces. Example: 'health.run_5k'"},
		{Name: "name", Type: schema.TypeString, Required: true,
			Description: "Human-readable goal name"},
		{Name: "description", Type: schema.TypeString,
			Description: "Detailed explanation of the goal, its purpose, and how to achieve it"},
		{Name: "status", Type: schema.TypeString, Enum: GoalStatuses(), Default: string(GoalActive),
			Description: "Current status of the goal"},
	}
}

// TaskFields is the Task catalog.
func TaskFields() []schema.FieldDef {
	return []schema.FieldDef{
		{Name: "id", Type: schema.TypeString, Required: true,
			Description: "Unique identifier for the task"},
		{Name: "name", Type: schema.TypeString, Required: true,
			Description: "Short descriptive title of the specific action to be completed"},
		{Name: "status", Type: schema.TypeString, Enum: TaskStatuses(), Default: string(TaskPending),
			Description: "Current status of the task"},
		{Name: "scheduled_date", Type: schema.TypeDate,
			Description: "Earliest date this task should appear on the schedule. Omit to make it schedulable any time"},
		{Name: "due_date", Type: schema.TypeDate,
			Description: "Deadline by which the task must be completed"},
		{Name: "estimated_completion_time", Type: schema.TypeInteger,
			Description: "Estimated time required to complete the task, in minutes"},
		{Name: "actual_completion_time", Type: schema.TypeInteger,
			Description: "Actual time taken to complete the task, in minutes"},
		{Name: "goals", Type: schema.TypeArray, Items: &schema.FieldDef{Type: schema.TypeString},
			Description: "Goal identifiers this task advances. Always a list, even for a single goal"},
		{Name: "dependencies", Type: schema.TypeArray, Items: &schema.FieldDef{Type: schema.TypeString},
			Description: "Ids of tasks that must be completed before this task can be completed"},
		{Name: "can_complete_late", Type: schema.TypeBoolean, Default: true,
			Description: "Whether the task may be marked complete after its due date has passed"},
		{Name: "log", Type: schema.TypeMap,
			Description: "Structured data tracking progress, metrics, or results of the task"},
		{Name: "log_instructions", Type: schema.TypeString,
			Description: "What information should be captured in the log and how it should be formatted"},
		{Name: "source_template_id", Type: schema.TypeString,
			Description: "Id of the recurring task template this task was generated from"},
		{Name: "instance_date", Type: schema.TypeDate,
			Description: "Occurrence date of a generated recurring task"},
	}
}

// TemplateFields is the RecurringTaskTemplate catalog.
func TemplateFields() []schema.FieldDef {
	return []schema.FieldDef{
		{Name: "id", Type: schema.TypeString, Required: true,
			Description: "Unique identifier for the recurring task template"},
		{Name: "name", Type: schema.TypeString, Required: true,
			Description: "Short descriptive title copied onto each generated task"},
		{Name: "goals", Type: schema.TypeArray, Items: &schema.FieldDef{Type: schema.TypeString},
			Description: "Goal identifiers copied onto each generated task. Always a list"},
		{Name: "estimated_completion_time", Type: schema.TypeInteger,
			Description: "Estimated time per instance, in minutes"},
		{Name: "can_complete_late", Type: schema.TypeBoolean, Default: true,
			Description: "Whether generated tasks may be completed after their due date"},
		{Name: "log_instructions", Type: schema.TypeString,
			Description: "Logging guidance copied onto each generated task"},
		{Name: "recurrence_rule", Type: schema.TypeObject, Required: true,
			Description: "When instances of this task recur",
			Fields: []schema.FieldDef{
				{Name: "frequency", Type: schema.TypeString, Required: true, Enum: Frequencies(),
					Description: "daily, weekly, or monthly"},
				{Name: "interval", Type: schema.TypeInteger, Default: 1,
					Description: "Repeat every N days, weeks, or months"},
				{Name: "weekdays", Type: schema.TypeArray,
					Items:       &schema.FieldDef{Type: schema.TypeString, Enum: WeekdayNames()},
					Description: "Days of week for weekly rules, e.g. [\"mon\", \"wed\"]"},
			}},
		{Name: "start_date", Type: schema.TypeDate, Required: true,
			Description: "First date an instance may be generated"},
		{Name: "end_date", Type: schema.TypeDate,
			Description: "Last date an instance may be generated. Omit for no end"},
		{Name: "last_generated_date", Type: schema.TypeDate,
			Description: "High-water mark of generation. Maintained automatically"},
	}
}

// NoteFields is the Note catalog.
func NoteFields() []schema.FieldDef {
	return []schema.FieldDef{
		{Name: "id", Type: schema.TypeString, Required: true,
			Description: "Unique identifier for the note"},
		{Name: "title", Type: schema.TypeString, Required: true,
			Description: "Descriptive title for the note"},
		{Name: "content", Type: schema.TypeString, Required: true,
			Description: "The actual content of the note"},
		{Name: "note_type", Type: schema.TypeString, Enum: NoteTypes(), Default: string(NoteGeneral),
			Description: "Type of note for categorization"},
		{Name: "is_system_prompt", Type: schema.TypeBoolean, Default: false,
			Description: "Whether to include this note in the assistant's system prompt"},
	}
}
