package tasks

import (
	"context"
	"errors"
)

// ErrNotFound reports a replace against an id that no longer exists.
var ErrNotFound = errors.New("task not found")

// TaskInput carries the client-supplied fields of a task. Optional fields
// stay nil when absent and are persisted as NULL.
type TaskInput struct {
	Title   string
	Notes   *string
	DueDate *Date
}

type Repository interface {
	// List returns every task, due-dated tasks first ascending by date,
	// undated tasks last, ties broken by creation time.
	List(ctx context.Context) ([]Task, error)
	Create(ctx context.Context, in TaskInput) (Task, error)
	// Replace overwrites every mutable field of the row; never a partial
	// patch. Returns ErrNotFound when the id does not exist.
	Replace(ctx context.Context, id int64, in TaskInput, completed bool) (Task, error)
	// Delete removes the row if present; deleting an absent id is not an
	// error.
	Delete(ctx context.Context, id int64) error
	// Ping answers a trivial liveness query for the health probe.
	Ping(ctx context.Context) error
}
