package catalog

import "errors"

var (
	// ErrAlreadyCompleted rejects completing a task twice.
	ErrAlreadyCompleted = errors.New("task already completed")

	// ErrTaskCancelled rejects completing a cancelled task.
	ErrTaskCancelled = errors.New("task is cancelled")

	// ErrDependencyOpen rejects completion while a dependency is not
	// completed.
	ErrDependencyOpen = errors.New("dependency not completed")

	// ErrPastDue rejects completion after the due date for tasks that
	// forbid late completion.
	ErrPastDue = errors.New("past due and cannot be completed late")
)
