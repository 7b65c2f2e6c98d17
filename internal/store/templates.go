package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/whitejm/steve/internal/model"
)

const templateColumns = `id, name, goals, estimated_completion_time,
	can_complete_late, log_instructions, frequency, interval, weekdays,
	start_date, end_date, last_generated_date, created_at, updated_at`

// scanTemplate reads one template row in templateColumns order.
func scanTemplate(sc rowScanner) (*model.RecurringTaskTemplate, error) {
	tmpl := &model.RecurringTaskTemplate{}
	var goalsJSON, weekdaysJSON, startDate string
	var endDate, lastGenerated sql.NullString

	err := sc.Scan(&tmpl.ID, &tmpl.Name, &goalsJSON, &tmpl.EstimatedCompletionTime,
		&tmpl.CanCompleteLate, &tmpl.LogInstructions, &tmpl.Rule.Frequency,
		&tmpl.Rule.Interval, &weekdaysJSON, &startDate, &endDate, &lastGenerated,
		&tmpl.CreatedAt, &tmpl.UpdatedAt)
	if err != nil {
		return nil, err
	}

	tmpl.Goals = unmarshalStrings(goalsJSON)
	tmpl.Rule.Weekdays = unmarshalStrings(weekdaysJSON)
	if tmpl.StartDate, err = model.ParseDate(startDate); err != nil {
		return nil, fmt.Errorf("template %s start_date: %w", tmpl.ID, err)
	}
	if tmpl.EndDate, err = scanDate(endDate); err != nil {
		return nil, fmt.Errorf("template %s end_date: %w", tmpl.ID, err)
	}
	if tmpl.LastGeneratedDate, err = scanDate(lastGenerated); err != nil {
		return nil, fmt.Errorf("template %s last_generated_date: %w", tmpl.ID, err)
	}
	return tmpl, nil
}

// CreateTemplate inserts a new recurring task template.
func (s *Store) CreateTemplate(ctx context.Context, tmpl *model.RecurringTaskTemplate) error {
	ts := now()
	tmpl.CreatedAt = ts
	tmpl.UpdatedAt = ts

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO templates (`+templateColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		tmpl.ID, tmpl.Name, marshalStrings(tmpl.Goals), tmpl.EstimatedCompletionTime,
		tmpl.CanCompleteLate, tmpl.LogInstructions, tmpl.Rule.Frequency,
		tmpl.Rule.Interval, marshalStrings(tmpl.Rule.Weekdays),
		tmpl.StartDate.String(), nullDate(tmpl.EndDate), nullDate(tmpl.LastGeneratedDate),
		tmpl.CreatedAt, tmpl.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: template %s", ErrAlreadyExists, tmpl.ID)
	}
	if err != nil {
		return fmt.Errorf("insert template: %w", err)
	}
	return nil
}

// GetTemplate retrieves a template by id.
func (s *Store) GetTemplate(ctx context.Context, id string) (*model.RecurringTaskTemplate, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+templateColumns+` FROM templates WHERE id = ?`, id)
	tmpl, err := scanTemplate(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: template %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("query template: %w", err)
	}
	return tmpl, nil
}

// ListTemplates returns every template, ordered by id. Goal filtering
// happens a layer up, where the hierarchy semantics live.
func (s *Store) ListTemplates(ctx context.Context) ([]model.RecurringTaskTemplate, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+templateColumns+` FROM templates ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query templates: %w", err)
	}
	defer rows.Close()

	var templates []model.RecurringTaskTemplate
	for rows.Next() {
		tmpl, err := scanTemplate(rows)
		if err != nil {
			return nil, fmt.Errorf("scan template: %w", err)
		}
		templates = append(templates, *tmpl)
	}
	return templates, rows.Err()
}

// UpdateTemplate rewrites a template row. The id must already exist.
func (s *Store) UpdateTemplate(ctx context.Context, tmpl *model.RecurringTaskTemplate) error {
	tmpl.UpdatedAt = now()

	res, err := s.db.ExecContext(ctx,
		`UPDATE templates SET name = ?, goals = ?, estimated_completion_time = ?,
			can_complete_late = ?, log_instructions = ?, frequency = ?,
			interval = ?, weekdays = ?, start_date = ?, end_date = ?,
			last_generated_date = ?, updated_at = ?
		WHERE id = ?`,
		tmpl.Name, marshalStrings(tmpl.Goals), tmpl.EstimatedCompletionTime,
		tmpl.CanCompleteLate, tmpl.LogInstructions, tmpl.Rule.Frequency,
		tmpl.Rule.Interval, marshalStrings(tmpl.Rule.Weekdays),
		tmpl.StartDate.String(), nullDate(tmpl.EndDate), nullDate(tmpl.LastGeneratedDate),
		tmpl.UpdatedAt, tmpl.ID,
	)
	if err != nil {
		return fmt.Errorf("update template: %w", err)
	}
	return checkAffected(res, "template", tmpl.ID)
}

// DeleteTemplate removes a template by id. Tasks already materialized from
// it are left in place.
func (s *Store) DeleteTemplate(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM templates WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete template: %w", err)
	}
	return checkAffected(res, "template", id)
}
