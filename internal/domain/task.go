package domain

import "errors"

// Common validation errors for Task
var (
	ErrTaskDescriptionEmpty = errors.New("task description cannot be empty")
	ErrTaskIDNegative       = errors.New("task ID cannot be negative")
)

// Task represents a single to-do item. The ID is assigned by the store on
// first upsert (a zero ID means "not yet persisted") and is immutable after
// assignment. There is no partial update: a task is mutated by replacing the
// whole record under the same ID.
type Task struct {
	ID          int64  `json:"id"`
	Description string `json:"description"`
	IsCompleted bool   `json:"is_completed"`
}

// NewTask creates a new, not-yet-persisted Task with the given description.
// The ID is left at zero so the store assigns one, and IsCompleted defaults
// to false. Returns an error if validation fails.
func NewTask(description string) (*Task, error) {
	task := &Task{
		Description: description,
	}

	if err := task.Validate(); err != nil {
		return nil, err
	}

	return task, nil
}

// Validate checks if the Task has valid data.
// Returns an error if any field fails validation.
func (t *Task) Validate() error {
	if t.ID < 0 {
		return ErrTaskIDNegative
	}

	if t.Description == "" {
		return ErrTaskDescriptionEmpty
	}

	return nil
}

// Complete marks the task as done. The change only becomes durable once the
// task is upserted again.
func (t *Task) Complete() {
	t.IsCompleted = true
}

// Reopen marks the task as not done.
func (t *Task) Reopen() {
	t.IsCompleted = false
}
