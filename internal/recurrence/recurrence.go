// Package recurrence expands recurring task templates into concrete task
// instances. Expansion is a pure computation; persisting the instances and
// the advanced high-water mark atomically is the store's job.
package recurrence

import (
	"fmt"
	"time"

	"github.com/whitejm/steve/internal/model"
)

// Expand computes every due date for tmpl strictly after its high-water
// mark (from start_date inclusive when never generated) up to and including
// min(asOf, end_date). The result is strictly increasing.
func Expand(tmpl *model.RecurringTaskTemplate, asOf model.Date) ([]model.Date, error) {
	if tmpl.StartDate.IsZero() {
		return nil, fmt.Errorf("template %s has no start date", tmpl.ID)
	}
	if err := tmpl.Rule.Validate(); err != nil {
		return nil, fmt.Errorf("template %s: %w", tmpl.ID, err)
	}

	upper := asOf
	if tmpl.EndDate != nil {
		upper = model.MinDate(upper, *tmpl.EndDate)
	}

	// The first generation starts at start_date itself; afterwards only
	// dates strictly after the mark are due.
	lower := tmpl.StartDate
	if tmpl.LastGeneratedDate != nil {
		after := tmpl.LastGeneratedDate.AddDays(1)
		if after.After(lower) {
			lower = after
		}
	}
	if upper.Before(lower) {
		return nil, nil
	}

	switch tmpl.Rule.Frequency {
	case model.Daily:
		return expandDaily(tmpl.StartDate, tmpl.Rule.Interval, lower, upper), nil
	case model.Weekly:
		return expandWeekly(tmpl.StartDate, tmpl.Rule.Interval, tmpl.Rule.WeekdaySet(), lower, upper), nil
	case model.Monthly:
		return expandMonthly(tmpl.StartDate, tmpl.Rule.Interval, lower, upper), nil
	}
	return nil, fmt.Errorf("unknown frequency %q", tmpl.Rule.Frequency)
}

// Generate materializes one pending Task per due date, copying the
// template's name, goals, estimate, and completion policy, then advances
// tmpl.LastGeneratedDate to the latest produced date. With nothing due the
// template is left untouched. Previously materialized tasks are never
// revisited; editing the rule affects only future expansion.
func Generate(tmpl *model.RecurringTaskTemplate, asOf model.Date) ([]model.Task, error) {
	dates, err := Expand(tmpl, asOf)
	if err != nil {
		return nil, err
	}
	if len(dates) == 0 {
		return nil, nil
	}

	tasks := make([]model.Task, 0, len(dates))
	for _, date := range dates {
		due := date
		instance := date
		tasks = append(tasks, model.Task{
			ID:                      model.NewID(),
			Name:                    tmpl.Name,
			Status:                  model.TaskPending,
			DueDate:                 &due,
			EstimatedCompletionTime: tmpl.EstimatedCompletionTime,
			Goals:                   append([]string(nil), tmpl.Goals...),
			CanCompleteLate:         tmpl.CanCompleteLate,
			LogInstructions:         tmpl.LogInstructions,
			SourceTemplateID:        tmpl.ID,
			InstanceDate:            &instance,
		})
	}

	mark := dates[len(dates)-1]
	tmpl.LastGeneratedDate = &mark
	return tasks, nil
}

// expandDaily yields start + k*interval days within [lower, upper].
func expandDaily(start model.Date, interval int, lower, upper model.Date) []model.Date {
	k := 0
	if gap := lower.DaysSince(start); gap > 0 {
		k = (gap + interval - 1) / interval
	}
	var out []model.Date
	for d := start.AddDays(k * interval); !d.After(upper); d = d.AddDays(interval) {
		out = append(out, d)
	}
	return out
}

// expandWeekly yields dates matching the weekday set in weeks that are
// interval multiples from the week containing start. Weeks begin Monday.
func expandWeekly(start model.Date, interval int, days map[time.Weekday]bool, lower, upper model.Date) []model.Date {
	startWeek := mondayOf(start)
	var out []model.Date
	for d := lower; !d.After(upper); d = d.AddDays(1) {
		if !days[d.Weekday()] {
			continue
		}
		if (mondayOf(d).DaysSince(startWeek)/7)%interval != 0 {
			continue
		}
		out = append(out, d)
	}
	return out
}

// expandMonthly yields the start day-of-month every interval months,
// clamped to the last day of shorter months.
func expandMonthly(start model.Date, interval int, lower, upper model.Date) []model.Date {
	var out []model.Date
	for m := 0; ; m += interval {
		d := addMonthsClamped(start, m)
		if d.After(upper) {
			return out
		}
		if !d.Before(lower) {
			out = append(out, d)
		}
	}
}

// mondayOf returns the Monday of the week containing d.
func mondayOf(d model.Date) model.Date {
	return d.AddDays(-((int(d.Weekday()) + 6) % 7))
}

// addMonthsClamped shifts d by months, clamping the day when the target
// month is shorter. January 31 plus one month is February 29 in 2024.
func addMonthsClamped(d model.Date, months int) model.Date {
	total := int(d.Month()) - 1 + months
	year := d.Year() + total/12
	month := time.Month(total%12 + 1)

	day := d.Day()
	if last := daysIn(year, month); day > last {
		day = last
	}
	return model.NewDate(year, month, day)
}

// daysIn returns the number of days in the given month.
func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
