package model

import (
	"time"

	"github.com/google/uuid"
)

// TaskStatus is the lifecycle state of a task.
type TaskStatus string

const (
	TaskPending    TaskStatus = "pending"
	TaskInProgress TaskStatus = "in_progress"
	TaskCompleted  TaskStatus = "completed"
	TaskCancelled  TaskStatus = "cancelled"
)

// Valid reports whether s is a known task status.
func (s TaskStatus) Valid() bool {
	switch s {
	case TaskPending, TaskInProgress, TaskCompleted, TaskCancelled:
		return true
	}
	return false
}

// TaskStatuses lists every task status for schema enums.
func TaskStatuses() []string {
	return []string{string(TaskPending), string(TaskInProgress), string(TaskCompleted), string(TaskCancelled)}
}

// Task is a single actionable item, created directly or materialized from a
// RecurringTaskTemplate. Durations are integer minutes; dates are civil.
type Task struct {
	ID     string     `json:"id"`
	Name   string     `json:"name"`
	Status TaskStatus `json:"status"`

	// ScheduledDate is the earliest day the task should appear on a
	// schedule; DueDate is the deadline. ScheduledDate <= DueDate is
	// expected but not enforced.
	ScheduledDate *Date `json:"scheduled_date,omitempty"`
	DueDate       *Date `json:"due_date,omitempty"`

	EstimatedCompletionTime int `json:"estimated_completion_time,omitempty"`
	ActualCompletionTime    int `json:"actual_completion_time,omitempty"`

	Goals        []string `json:"goals,omitempty"`
	Dependencies []string `json:"dependencies,omitempty"`

	// CanCompleteLate permits completion after DueDate has passed.
	CanCompleteLate bool `json:"can_complete_late"`

	Log             map[string]any `json:"log,omitempty"`
	LogInstructions string         `json:"log_instructions,omitempty"`

	// SourceTemplateID and InstanceDate are set only on materialized
	// tasks; the pair is unique per template+date.
	SourceTemplateID string `json:"source_template_id,omitempty"`
	InstanceDate     *Date  `json:"instance_date,omitempty"`

	CreatedAt time.Time `json:"created_at,omitempty"`
	UpdatedAt time.Time `json:"updated_at,omitempty"`
}

// Recurring reports whether the task was materialized from a template.
func (t *Task) Recurring() bool {
	return t.SourceTemplateID != ""
}

// NewID returns a fresh entity id.
func NewID() string {
	return uuid.NewString()
}
