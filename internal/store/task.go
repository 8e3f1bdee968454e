package store

import (
	"context"

	"github.com/askriger/todostore/internal/domain"
)

// TaskStore defines the interface for task persistence operations.
// Implementations own the durable collection of task records and are the
// only writers to the backing medium.
type TaskStore interface {
	// Upsert inserts a new task or replaces the existing task sharing the
	// same ID (last write wins). If task.ID is zero, the store assigns the
	// next unique ID and writes it back into the task before returning.
	// Returns a storage failure (errors.Is(err, ErrStorageFailure)) if the
	// backing medium cannot complete the write.
	Upsert(ctx context.Context, task *domain.Task) error

	// Delete removes the task with the given ID if present. Deleting a
	// task that does not exist is a no-op, not an error.
	Delete(ctx context.Context, id int64) error

	// GetByID retrieves a single task by its ID.
	// Returns ErrTaskNotFound if no task with that ID exists.
	GetByID(ctx context.Context, id int64) (*domain.Task, error)

	// ListAll retrieves every task, ordered by ascending ID. Since IDs are
	// assigned monotonically this is insertion order. Returns an empty
	// slice when the store holds no tasks.
	ListAll(ctx context.Context) ([]domain.Task, error)
}
