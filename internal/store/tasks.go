package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/whitejm/steve/internal/model"
)

// TaskFilter narrows ListTasks. Zero values match everything. Goal-subtree
// filtering happens a layer up, where the hierarchy semantics live.
type TaskFilter struct {
	// Status matches tasks in the given state.
	Status model.TaskStatus

	// DueOnOrBefore / DueOnOrAfter bound the due date, inclusive. Tasks
	// without a due date never match a bounded filter.
	DueOnOrBefore *model.Date
	DueOnOrAfter  *model.Date

	// TemplateID matches tasks materialized from the given template.
	TemplateID string
}

const taskColumns = `id, name, status, scheduled_date, due_date,
	estimated_completion_time, actual_completion_time, goals, dependencies,
	can_complete_late, log, log_instructions, source_template_id,
	instance_date, created_at, updated_at`

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanTask reads one task row in taskColumns order.
func scanTask(sc rowScanner) (*model.Task, error) {
	task := &model.Task{}
	var scheduled, due, instance, logJSON, templateID sql.NullString
	var goalsJSON, depsJSON string

	err := sc.Scan(&task.ID, &task.Name, &task.Status, &scheduled, &due,
		&task.EstimatedCompletionTime, &task.ActualCompletionTime,
		&goalsJSON, &depsJSON, &task.CanCompleteLate, &logJSON,
		&task.LogInstructions, &templateID, &instance,
		&task.CreatedAt, &task.UpdatedAt)
	if err != nil {
		return nil, err
	}

	if task.ScheduledDate, err = scanDate(scheduled); err != nil {
		return nil, fmt.Errorf("task %s scheduled_date: %w", task.ID, err)
	}
	if task.DueDate, err = scanDate(due); err != nil {
		return nil, fmt.Errorf("task %s due_date: %w", task.ID, err)
	}
	if task.InstanceDate, err = scanDate(instance); err != nil {
		return nil, fmt.Errorf("task %s instance_date: %w", task.ID, err)
	}
	task.Goals = unmarshalStrings(goalsJSON)
	task.Dependencies = unmarshalStrings(depsJSON)
	if templateID.Valid {
		task.SourceTemplateID = templateID.String
	}
	if logJSON.Valid && logJSON.String != "" {
		if err := json.Unmarshal([]byte(logJSON.String), &task.Log); err != nil {
			return nil, fmt.Errorf("task %s log: %w", task.ID, err)
		}
	}
	return task, nil
}

// taskBindings returns the insert/update bind values in taskColumns order,
// excluding id.
func taskBindings(task *model.Task) ([]any, error) {
	var logValue any
	if len(task.Log) > 0 {
		b, err := json.Marshal(task.Log)
		if err != nil {
			return nil, fmt.Errorf("marshal log: %w", err)
		}
		logValue = string(b)
	}

	return []any{
		task.Name, task.Status, nullDate(task.ScheduledDate), nullDate(task.DueDate),
		task.EstimatedCompletionTime, task.ActualCompletionTime,
		marshalStrings(task.Goals), marshalStrings(task.Dependencies),
		task.CanCompleteLate, logValue, task.LogInstructions,
		nullString(task.SourceTemplateID), nullDate(task.InstanceDate),
	}, nil
}

// CreateTask inserts a new task.
func (s *Store) CreateTask(ctx context.Context, task *model.Task) error {
	ts := now()
	task.CreatedAt = ts
	task.UpdatedAt = ts

	binds, err := taskBindings(task)
	if err != nil {
		return err
	}
	args := append([]any{task.ID}, binds...)
	args = append(args, task.CreatedAt, task.UpdatedAt)

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO tasks (`+taskColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		args...,
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: task %s", ErrAlreadyExists, task.ID)
	}
	if err != nil {
		return fmt.Errorf("insert task: %w", err)
	}
	return nil
}

// GetTask retrieves a task by id.
func (s *Store) GetTask(ctx context.Context, id string) (*model.Task, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = ?`, id)
	task, err := scanTask(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: task %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("query task: %w", err)
	}
	return task, nil
}

// ListTasks returns tasks matching the filter, due-date order first,
// undated tasks last.
func (s *Store) ListTasks(ctx context.Context, filter TaskFilter) ([]model.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks`
	var clauses []string
	var args []any

	if filter.Status != "" {
		clauses = append(clauses, `status = ?`)
		args = append(args, filter.Status)
	}
	if filter.DueOnOrBefore != nil {
		clauses = append(clauses, `due_date IS NOT NULL AND due_date <= ?`)
		args = append(args, filter.DueOnOrBefore.String())
	}
	if filter.DueOnOrAfter != nil {
		clauses = append(clauses, `due_date IS NOT NULL AND due_date >= ?`)
		args = append(args, filter.DueOnOrAfter.String())
	}
	if filter.TemplateID != "" {
		clauses = append(clauses, `source_template_id = ?`)
		args = append(args, filter.TemplateID)
	}
	query += whereClause(clauses) + ` ORDER BY due_date IS NULL, due_date, created_at`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query tasks: %w", err)
	}
	defer rows.Close()

	var tasks []model.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		tasks = append(tasks, *task)
	}
	return tasks, rows.Err()
}

// UpdateTask rewrites a task row. The id must already exist.
func (s *Store) UpdateTask(ctx context.Context, task *model.Task) error {
	task.UpdatedAt = now()

	binds, err := taskBindings(task)
	if err != nil {
		return err
	}
	args := append(binds, task.UpdatedAt, task.ID)

	res, err := s.db.ExecContext(ctx,
		`UPDATE tasks SET name = ?, status = ?, scheduled_date = ?, due_date = ?,
			estimated_completion_time = ?, actual_completion_time = ?,
			goals = ?, dependencies = ?, can_complete_late = ?, log = ?,
			log_instructions = ?, source_template_id = ?, instance_date = ?,
			updated_at = ?
		WHERE id = ?`,
		args...,
	)
	if err != nil {
		return fmt.Errorf("update task: %w", err)
	}
	return checkAffected(res, "task", task.ID)
}

// DeleteTask removes a task by id.
func (s *Store) DeleteTask(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	return checkAffected(res, "task", id)
}
