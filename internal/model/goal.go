// Package model defines the persisted entities and their field catalogs.
// Tool parameter schemas are derived from the catalogs in fields.go, so the
// assistant's capability surface always matches what the store persists.
package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/whitejm/steve/internal/hierarchy"
)

// GoalStatus is the lifecycle state of a goal.
type GoalStatus string

const (
	GoalActive    GoalStatus = "active"
	GoalCompleted GoalStatus = "completed"
	GoalAbandoned GoalStatus = "abandoned"
	GoalPaused    GoalStatus = "paused"
)

// Valid reports whether s is a known goal status.
func (s GoalStatus) Valid() bool {
	switch s {
	case GoalActive, GoalCompleted, GoalAbandoned, GoalPaused:
		return true
	}
	return false
}

// GoalStatuses lists every goal status for schema enums.
func GoalStatuses() []string {
	return []string{string(GoalActive), string(GoalCompleted), string(GoalAbandoned), string(GoalPaused)}
}

// Goal is a node in the user's goal tree. The id is a dot-delimited path;
// ancestry is inferred from the path segments, never stored.
type Goal struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	Status      GoalStatus `json:"status"`
	CreatedAt   time.Time  `json:"created_at,omitempty"`
	UpdatedAt   time.Time  `json:"updated_at,omitempty"`
}

// ParentID returns the derived parent path, or "" at a root.
func (g *Goal) ParentID() string {
	parent, _ := hierarchy.Parent(g.ID)
	return parent
}

// ValidateGoalID checks the dot-path form: non-empty segments, no spaces,
// no leading or trailing dots. A goal id need not name registered parents.
func ValidateGoalID(id string) error {
	if id == "" {
		return fmt.Errorf("goal id cannot be empty")
	}
	if strings.ContainsAny(id, " \t\n") {
		return fmt.Errorf("goal id %q cannot contain whitespace", id)
	}
	for _, segment := range strings.Split(id, ".") {
		if segment == "" {
			return fmt.Errorf("goal id %q has an empty path segment", id)
		}
	}
	return nil
}
