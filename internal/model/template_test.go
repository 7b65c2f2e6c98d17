package model

import (
	"testing"
	"time"
)

func TestRecurrenceRuleValidate(t *testing.T) {
	valid := []RecurrenceRule{
		{Frequency: Daily, Interval: 1},
		{Frequency: Weekly, Interval: 2, Weekdays: []string{"mon", "fri"}},
		{Frequency: Monthly, Interval: 3},
	}
	for _, rule := range valid {
		if err := rule.Validate(); err != nil {
			t.Errorf("Validate(%+v) = %v", rule, err)
		}
	}

	invalid := []RecurrenceRule{
		{Frequency: "yearly", Interval: 1},
		{Frequency: Daily, Interval: 0},
		{Frequency: Weekly, Interval: 1},
		{Frequency: Weekly, Interval: 1, Weekdays: []string{"monday"}},
		{Frequency: Daily, Interval: 1, Weekdays: []string{"mon"}},
	}
	for _, rule := range invalid {
		if err := rule.Validate(); err == nil {
			t.Errorf("Validate(%+v) accepted", rule)
		}
	}
}

func TestWeekdaySet(t *testing.T) {
	rule := RecurrenceRule{Frequency: Weekly, Interval: 1, Weekdays: []string{"mon", "sun"}}
	set := rule.WeekdaySet()
	if len(set) != 2 || !set[time.Monday] || !set[time.Sunday] {
		t.Errorf("WeekdaySet = %v", set)
	}
}

func TestTaskRecurring(t *testing.T) {
	if (&Task{}).Recurring() {
		t.Error("plain task reports recurring")
	}
	if !(&Task{SourceTemplateID: "tmpl-run"}).Recurring() {
		t.Error("materialized task reports not recurring")
	}
}
