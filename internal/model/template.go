package model

import (
	"fmt"
	"time"
)

// Frequency selects the recurrence pattern.
type Frequency string

const (
	Daily   Frequency = "daily"
	Weekly  Frequency = "weekly"
	Monthly Frequency = "monthly"
)

// Frequencies lists every frequency for schema enums.
func Frequencies() []string {
	return []string{string(Daily), string(Weekly), string(Monthly)}
}

// weekdayNames maps wire names to time.Weekday.
var weekdayNames = map[string]time.Weekday{
	"mon": time.Monday,
	"tue": time.Tuesday,
	"wed": time.Wednesday,
	"thu": time.Thursday,
	"fri": time.Friday,
	"sat": time.Saturday,
	"sun": time.Sunday,
}

// WeekdayNames lists the wire names in week order (Monday first).
func WeekdayNames() []string {
	return []string{"mon", "tue", "wed", "thu", "fri", "sat", "sun"}
}

// RecurrenceRule is the structured scheduling rule for a template. This is
// the entire recurrence language; there is no free-form rule grammar.
type RecurrenceRule struct {
	Frequency Frequency `json:"frequency"`

	// Interval spaces occurrences: every N days, every N weeks, every N
	// months. Minimum 1.
	Interval int `json:"interval"`

	// Weekdays selects days within matching weeks. Required for weekly,
	// rejected otherwise.
	Weekdays []string `json:"weekdays,omitempty"`
}

// Validate checks rule consistency.
func (r RecurrenceRule) Validate() error {
	switch r.Frequency {
	case Daily, Weekly, Monthly:
	default:
		return fmt.Errorf("unknown frequency %q", r.Frequency)
	}
	if r.Interval < 1 {
		return fmt.Errorf("interval must be at least 1, got %d", r.Interval)
	}
	if r.Frequency == Weekly {
		if len(r.Weekdays) == 0 {
			return fmt.Errorf("weekly rule needs at least one weekday")
		}
		for _, day := range r.Weekdays {
			if _, ok := weekdayNames[day]; !ok {
				return fmt.Errorf("unknown weekday %q", day)
			}
		}
	} else if len(r.Weekdays) > 0 {
		return fmt.Errorf("weekdays only apply to weekly rules")
	}
	return nil
}

// WeekdaySet returns the selected weekdays. Call Validate first.
func (r RecurrenceRule) WeekdaySet() map[time.Weekday]bool {
	set := make(map[time.Weekday]bool, len(r.Weekdays))
	for _, day := range r.Weekdays {
		if wd, ok := weekdayNames[day]; ok {
			set[wd] = true
		}
	}
	return set
}

// RecurringTaskTemplate stamps out Task instances according to its rule.
// Name, goals, estimate, and completion policy are copied onto every
// generated instance.
type RecurringTaskTemplate struct {
	ID   string `json:"id"`
	Name string `json:"name"`

	Goals                   []string `json:"goals,omitempty"`
	EstimatedCompletionTime int      `json:"estimated_completion_time,omitempty"`
	CanCompleteLate         bool     `json:"can_complete_late"`
	LogInstructions         string   `json:"log_instructions,omitempty"`

	Rule RecurrenceRule `json:"recurrence_rule"`

	// StartDate and EndDate bound generation; EndDate nil means unbounded.
	StartDate Date  `json:"start_date"`
	EndDate   *Date `json:"end_date,omitempty"`

	// LastGeneratedDate is the high-water mark. Generation never re-derives
	// occurrences at or before it.
	LastGeneratedDate *Date `json:"last_generated_date,omitempty"`

	CreatedAt time.Time `json:"created_at,omitempty"`
	UpdatedAt time.Time `json:"updated_at,omitempty"`
}
