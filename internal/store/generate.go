package store

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/whitejm/steve/internal/model"
	"github.com/whitejm/steve/internal/recurrence"
)

// GenerateTasks materializes every due instance for one template, as a
// single transaction: read the template, expand the rule, insert the
// instances, advance the high-water mark. Committing all four steps
// together keeps generation at-most-once per template and date even with
// concurrent processes on the same database file; the unique index on
// (source_template_id, instance_date) is the backstop.
func (s *Store) GenerateTasks(ctx context.Context, templateID string, asOf model.Date) ([]model.Task, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	row := tx.QueryRowContext(ctx, `SELECT `+templateColumns+` FROM templates WHERE id = ?`, templateID)
	tmpl, err := scanTemplate(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: template %s", ErrNotFound, templateID)
	}
	if err != nil {
		return nil, fmt.Errorf("query template: %w", err)
	}

	tasks, err := recurrence.Generate(tmpl, asOf)
	if err != nil {
		return nil, fmt.Errorf("expand template %s: %w", templateID, err)
	}
	if len(tasks) == 0 {
		return nil, nil
	}

	ts := now()
	for i := range tasks {
		tasks[i].CreatedAt = ts
		tasks[i].UpdatedAt = ts

		binds, err := taskBindings(&tasks[i])
		if err != nil {
			return nil, err
		}
		args := append([]any{tasks[i].ID}, binds...)
		args = append(args, tasks[i].CreatedAt, tasks[i].UpdatedAt)

		if _, err := tx.ExecContext(ctx,
			`INSERT INTO tasks (`+taskColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			args...,
		); err != nil {
			return nil, fmt.Errorf("insert generated task: %w", err)
		}
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE templates SET last_generated_date = ?, updated_at = ? WHERE id = ?`,
		nullDate(tmpl.LastGeneratedDate), ts, templateID,
	); err != nil {
		return nil, fmt.Errorf("advance high-water mark: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit transaction: %w", err)
	}

	s.logger.Info("generated tasks",
		zap.String("template", templateID),
		zap.Int("count", len(tasks)),
		zap.String("as_of", asOf.String()))
	return tasks, nil
}

// GenerationResult reports one template's outcome from GenerateAllTasks.
type GenerationResult struct {
	TemplateID   string
	TemplateName string
	Generated    int
	Err          error
}

// GenerateAllTasks runs GenerateTasks for every template with bounded
// concurrency. A failing template is reported in its result and does not
// stop the others.
func (s *Store) GenerateAllTasks(ctx context.Context, asOf model.Date) ([]GenerationResult, error) {
	templates, err := s.ListTemplates(ctx)
	if err != nil {
		return nil, err
	}

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(4)

	var mu sync.Mutex
	results := make([]GenerationResult, 0, len(templates))

	for _, tmpl := range templates {
		eg.Go(func() error {
			tasks, genErr := s.GenerateTasks(egCtx, tmpl.ID, asOf)
			mu.Lock()
			results = append(results, GenerationResult{
				TemplateID:   tmpl.ID,
				TemplateName: tmpl.Name,
				Generated:    len(tasks),
				Err:          genErr,
			})
			mu.Unlock()
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(results, func(i, j int) bool { return results[i].TemplateID < results[j].TemplateID })
	return results, nil
}
