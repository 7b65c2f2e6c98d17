package catalog

import (
	"context"
	"fmt"

	"github.com/whitejm/steve/internal/model"
	"github.com/whitejm/steve/internal/schema"
	"github.com/whitejm/steve/internal/tools"
)

// Fields a caller may set on a template. last_generated_date is the
// generation high-water mark and is never written directly.
var templateWriteFields = []string{
	"id", "name", "goals", "estimated_completion_time", "can_complete_late",
	"log_instructions", "recurrence_rule", "start_date", "end_date",
}

func (c *Catalog) createTemplateTool() *tools.Tool {
	return &tools.Tool{
		Name:        "create_template",
		Description: "Create a recurring task template. Templates stamp out task instances on the dates their recurrence rule selects; run generate_tasks to materialize them.",
		Schema: schema.MustDerive(model.TemplateFields(), templateWriteFields, map[string]schema.Override{
			"id": {Optional: true, Description: "Unique identifier for the recurring task template. Generated if omitted"},
		}),
		Execute: c.createTemplate,
	}
}

func (c *Catalog) createTemplate(ctx context.Context, args map[string]any) (any, error) {
	tmpl := &model.RecurringTaskTemplate{
		ID:                      argString(args, "id"),
		Name:                    argString(args, "name"),
		Goals:                   argStrings(args, "goals"),
		EstimatedCompletionTime: argInt(args, "estimated_completion_time"),
		CanCompleteLate:         argBool(args, "can_complete_late"),
		LogInstructions:         argString(args, "log_instructions"),
		Rule:                    ruleFromArgs(argMap(args, "recurrence_rule")),
		EndDate:                 argDate(args, "end_date"),
	}
	if tmpl.ID == "" {
		tmpl.ID = model.NewID()
	}
	if d := argDate(args, "start_date"); d != nil {
		tmpl.StartDate = *d
	}
	if err := c.checkTemplate(tmpl); err != nil {
		return nil, err
	}
	if err := c.store.CreateTemplate(ctx, tmpl); err != nil {
		return nil, err
	}
	return tmpl, nil
}

func (c *Catalog) getTemplateTool() *tools.Tool {
	return &tools.Tool{
		Name:        "get_template",
		Description: "Fetch a single recurring task template by id.",
		Schema:      schema.MustDerive(model.TemplateFields(), []string{"id"}, nil),
		Execute:     c.getTemplate,
	}
}

func (c *Catalog) getTemplate(ctx context.Context, args map[string]any) (any, error) {
	return c.store.GetTemplate(ctx, argString(args, "id"))
}

func (c *Catalog) updateTemplateTool() *tools.Tool {
	return &tools.Tool{
		Name:        "update_template",
		Description: "Update fields of an existing recurring task template. Omitted fields keep their current values; a new recurrence_rule replaces the old one whole and affects only future generation.",
		Schema:      schema.MustDerive(model.TemplateFields(), templateWriteFields, allOptionalBut(templateWriteFields, "id")),
		Execute:     c.updateTemplate,
	}
}

func (c *Catalog) updateTemplate(ctx context.Context, args map[string]any) (any, error) {
	tmpl, err := c.store.GetTemplate(ctx, argString(args, "id"))
	if err != nil {
		return nil, err
	}
	if present(args, "name") {
		tmpl.Name = argString(args, "name")
	}
	if present(args, "goals") {
		tmpl.Goals = argStrings(args, "goals")
	}
	if present(args, "estimated_completion_time") {
		tmpl.EstimatedCompletionTime = argInt(args, "estimated_completion_time")
	}
	if present(args, "can_complete_late") {
		tmpl.CanCompleteLate = argBool(args, "can_complete_late")
	}
	if present(args, "log_instructions") {
		tmpl.LogInstructions = argString(args, "log_instructions")
	}
	if present(args, "recurrence_rule") {
		// Tasks already materialized keep their dates; the next generation
		// expands the new rule from the existing high-water mark.
		tmpl.Rule = ruleFromArgs(argMap(args, "recurrence_rule"))
	}
	if present(args, "start_date") {
		if d := argDate(args, "start_date"); d != nil {
			tmpl.StartDate = *d
		}
	}
	if present(args, "end_date") {
		tmpl.EndDate = argDate(args, "end_date")
	}
	if err := c.checkTemplate(tmpl); err != nil {
		return nil, err
	}
	if err := c.store.UpdateTemplate(ctx, tmpl); err != nil {
		return nil, err
	}
	return tmpl, nil
}

// checkTemplate validates the cross-field constraints a template write
// must satisfy.
func (c *Catalog) checkTemplate(tmpl *model.RecurringTaskTemplate) error {
	if err := validGoalRefs(tmpl.Goals); err != nil {
		return err
	}
	if err := tmpl.Rule.Validate(); err != nil {
		return fmt.Errorf("recurrence_rule: %w", err)
	}
	if tmpl.EndDate != nil && tmpl.EndDate.Before(tmpl.StartDate) {
		return fmt.Errorf("end_date %s is before start_date %s", tmpl.EndDate, tmpl.StartDate)
	}
	return nil
}

// ruleFromArgs builds a rule from a validated recurrence_rule object.
func ruleFromArgs(m map[string]any) model.RecurrenceRule {
	return model.RecurrenceRule{
		Frequency: model.Frequency(argString(m, "frequency")),
		Interval:  argInt(m, "interval"),
		Weekdays:  argStrings(m, "weekdays"),
	}
}

func (c *Catalog) listTemplatesTool() *tools.Tool {
	return &tools.Tool{
		Name:        "list_templates",
		Description: "List recurring task templates ordered by id, optionally restricted to those advancing a goal or any goal under it.",
		Schema: schema.MustNew([]schema.FieldDef{
			{Name: "goal", Type: schema.TypeString,
				Description: "Only templates advancing this goal or any goal under it"},
		}),
		Execute: c.listTemplates,
	}
}

func (c *Catalog) listTemplates(ctx context.Context, args map[string]any) (any, error) {
	templates, err := c.store.ListTemplates(ctx)
	if err != nil {
		return nil, err
	}
	if subtree := argString(args, "goal"); subtree != "" {
		matched := make([]model.RecurringTaskTemplate, 0, len(templates))
		for _, tmpl := range templates {
			if goalsMatchSubtree(tmpl.Goals, subtree) {
				matched = append(matched, tmpl)
			}
		}
		templates = matched
	}
	if templates == nil {
		templates = []model.RecurringTaskTemplate{}
	}
	return templates, nil
}

func (c *Catalog) deleteTemplateTool() *tools.Tool {
	return &tools.Tool{
		Name:        "delete_template",
		Description: "Delete a recurring task template by id. Tasks already generated from it are left in place.",
		Schema:      schema.MustDerive(model.TemplateFields(), []string{"id"}, nil),
		Execute:     c.deleteTemplate,
	}
}

func (c *Catalog) deleteTemplate(ctx context.Context, args map[string]any) (any, error) {
	id := argString(args, "id")
	if err := c.store.DeleteTemplate(ctx, id); err != nil {
		return nil, err
	}
	return deleted("template", id), nil
}

func (c *Catalog) generateTasksTool() *tools.Tool {
	return &tools.Tool{
		Name:        "generate_tasks",
		Description: "Materialize task instances from recurring task templates for every occurrence up to a date. Safe to repeat; each occurrence is generated exactly once.",
		Schema: schema.MustNew([]schema.FieldDef{
			{Name: "template_id", Type: schema.TypeString,
				Description: "Generate for this template only. Omit to generate for every template"},
			{Name: "as_of", Type: schema.TypeDate,
				Description: "Generate occurrences up to and including this date. Defaults to today"},
		}),
		Execute: c.generateTasks,
	}
}

func (c *Catalog) generateTasks(ctx context.Context, args map[string]any) (any, error) {
	asOf := c.today()
	if d := argDate(args, "as_of"); d != nil {
		asOf = *d
	}

	if id := argString(args, "template_id"); id != "" {
		created, err := c.store.GenerateTasks(ctx, id, asOf)
		if err != nil {
			return nil, err
		}
		dates := make([]string, 0, len(created))
		for _, task := range created {
			if task.InstanceDate != nil {
				dates = append(dates, task.InstanceDate.String())
			}
		}
		return map[string]any{
			"template_id": id,
			"as_of":       asOf.String(),
			"generated":   len(created),
			"dates":       dates,
		}, nil
	}

	results, err := c.store.GenerateAllTasks(ctx, asOf)
	if err != nil {
		return nil, err
	}
	total := 0
	summaries := make([]map[string]any, 0, len(results))
	for _, r := range results {
		summary := map[string]any{
			"template_id": r.TemplateID,
			"name":        r.TemplateName,
			"generated":   r.Generated,
		}
		if r.Err != nil {
			summary["error"] = r.Err.Error()
		}
		total += r.Generated
		summaries = append(summaries, summary)
	}
	return map[string]any{
		"as_of":     asOf.String(),
		"generated": total,
		"templates": summaries,
	}, nil
}
