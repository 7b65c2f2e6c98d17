package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/whitejm/steve/internal/model"
)

// GoalFilter narrows ListGoals. Zero values match everything.
type GoalFilter struct {
	// Status matches goals in the given state.
	Status model.GoalStatus

	// Subtree matches the named goal and every descendant of it.
	Subtree string
}

// CreateGoal inserts a new goal.
func (s *Store) CreateGoal(ctx context.Context, goal *model.Goal) error {
	ts := now()
	goal.CreatedAt = ts
	goal.UpdatedAt = ts

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO goals (id, name, description, status, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)`,
		goal.ID, goal.Name, goal.Description, goal.Status, goal.CreatedAt, goal.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: goal %s", ErrAlreadyExists, goal.ID)
	}
	if err != nil {
		return fmt.Errorf("insert goal: %w", err)
	}
	return nil
}

// GetGoal retrieves a goal by id.
func (s *Store) GetGoal(ctx context.Context, id string) (*model.Goal, error) {
	goal := &model.Goal{}
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, description, status, created_at, updated_at FROM goals WHERE id = ?`,
		id,
	).Scan(&goal.ID, &goal.Name, &goal.Description, &goal.Status, &goal.CreatedAt, &goal.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: goal %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("query goal: %w", err)
	}
	return goal, nil
}

// ListGoals returns goals matching the filter, ordered by id.
func (s *Store) ListGoals(ctx context.Context, filter GoalFilter) ([]model.Goal, error) {
	query := `SELECT id, name, description, status, created_at, updated_at FROM goals`
	var clauses []string
	var args []any

	if filter.Status != "" {
		clauses = append(clauses, `status = ?`)
		args = append(args, filter.Status)
	}
	if filter.Subtree != "" {
		// The goal itself plus every id under it, on segment boundaries.
		clauses = append(clauses, `(id = ? OR id LIKE ? || '.%')`)
		args = append(args, filter.Subtree, filter.Subtree)
	}
	query += whereClause(clauses) + ` ORDER BY id`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query goals: %w", err)
	}
	defer rows.Close()

	var goals []model.Goal
	for rows.Next() {
		var goal model.Goal
		if err := rows.Scan(&goal.ID, &goal.Name, &goal.Description, &goal.Status, &goal.CreatedAt, &goal.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan goal: %w", err)
		}
		goals = append(goals, goal)
	}
	return goals, rows.Err()
}

// UpdateGoal rewrites a goal row. The id must already exist.
func (s *Store) UpdateGoal(ctx context.Context, goal *model.Goal) error {
	goal.UpdatedAt = now()

	res, err := s.db.ExecContext(ctx,
		`UPDATE goals SET name = ?, description = ?, status = ?, updated_at = ? WHERE id = ?`,
		goal.Name, goal.Description, goal.Status, goal.UpdatedAt, goal.ID,
	)
	if err != nil {
		return fmt.Errorf("update goal: %w", err)
	}
	return checkAffected(res, "goal", goal.ID)
}

// DeleteGoal removes a goal by id.
func (s *Store) DeleteGoal(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM goals WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete goal: %w", err)
	}
	return checkAffected(res, "goal", id)
}
