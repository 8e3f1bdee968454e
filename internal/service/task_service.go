package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/askriger/todostore/internal/domain"
	"github.com/askriger/todostore/internal/events"
	"github.com/askriger/todostore/internal/store"
)

// ErrNilTask is returned when a nil task is passed to a mutation.
var ErrNilTask = errors.New("task cannot be nil")

// TaskService owns the durable collection of task records. It serializes all
// mutations against the backing store and publishes a complete snapshot of
// the collection to every observer after each completed mutation.
//
// Exactly one TaskService should exist per storage location; concurrent
// writers against the same database from separate instances would bypass the
// mutation serialization done here.
type TaskService struct {
	// mu serializes mutate+snapshot+publish so that the snapshot stream
	// order matches mutation completion order.
	mu          sync.Mutex
	taskStore   store.TaskStore
	broadcaster *events.SnapshotBroadcaster
	logger      *slog.Logger
}

// NewTaskService creates a new TaskService backed by the given store.
// If logger is nil, the process default logger is used.
func NewTaskService(taskStore store.TaskStore, logger *slog.Logger) (*TaskService, error) {
	if taskStore == nil {
		return nil, errors.New("taskStore cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With(slog.String("component", "task_service"))

	return &TaskService{
		taskStore:   taskStore,
		broadcaster: events.NewSnapshotBroadcaster(logger),
		logger:      logger,
	}, nil
}

// Upsert inserts the task or replaces the stored task with the same ID
// (last write wins). A zero ID means the store assigns the next unique one
// and writes it back into the task. On success the new snapshot goes out to
// all observers. Storage failures propagate to the caller unretried and
// suppress the emission.
func (s *TaskService) Upsert(ctx context.Context, task *domain.Task) error {
	if task == nil {
		return ErrNilTask
	}
	if err := task.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.taskStore.Upsert(ctx, task); err != nil {
		s.logger.Error("failed to upsert task",
			slog.String("error", err.Error()),
			slog.Int64("task_id", task.ID))
		return err
	}

	s.logger.Debug("task upserted",
		slog.Int64("task_id", task.ID),
		slog.Bool("is_completed", task.IsCompleted))

	return s.publishLocked(ctx)
}

// Delete removes the record matching the task's ID if present. Deleting a
// task that is not in the store is a no-op, not a failure, but observers
// still receive a snapshot so that delete acknowledgement is uniform.
func (s *TaskService) Delete(ctx context.Context, task *domain.Task) error {
	if task == nil {
		return ErrNilTask
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.taskStore.Delete(ctx, task.ID); err != nil {
		s.logger.Error("failed to delete task",
			slog.String("error", err.Error()),
			slog.Int64("task_id", task.ID))
		return err
	}

	s.logger.Debug("task deleted",
		slog.Int64("task_id", task.ID))

	return s.publishLocked(ctx)
}

// GetByID retrieves a single task. Returns store.ErrTaskNotFound if no task
// with that ID exists.
func (s *TaskService) GetByID(ctx context.Context, id int64) (*domain.Task, error) {
	return s.taskStore.GetByID(ctx, id)
}

// ListAll retrieves the current snapshot of all tasks, ordered by ascending
// ID, without subscribing to changes.
func (s *TaskService) ListAll(ctx context.Context) ([]domain.Task, error) {
	return s.taskStore.ListAll(ctx)
}

// ObserveAll subscribes the caller to the snapshot stream. The current
// snapshot is delivered immediately; afterwards a complete snapshot arrives
// after every completed mutation until the subscription is released with
// Unsubscribe or the service is closed. Slow observers are skipped forward
// to the latest snapshot rather than blocking mutations.
func (s *TaskService) ObserveAll(ctx context.Context) (*events.Subscription, error) {
	// Hold the mutation lock so the primed snapshot and the registration
	// are consistent: no mutation can slip between them.
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot, err := s.taskStore.ListAll(ctx)
	if err != nil {
		s.logger.Error("failed to read snapshot for new observer",
			slog.String("error", err.Error()))
		return nil, err
	}

	sub, err := s.broadcaster.Subscribe()
	if err != nil {
		return nil, err
	}
	s.broadcaster.Send(sub, snapshot)

	return sub, nil
}

// Unsubscribe releases a subscription handle obtained from ObserveAll.
func (s *TaskService) Unsubscribe(sub *events.Subscription) {
	s.broadcaster.Unsubscribe(sub)
}

// Close tears the service down: every observer stream is terminated and
// further subscriptions are rejected. The backing store is not touched; its
// lifecycle belongs to whoever constructed it.
func (s *TaskService) Close() {
	s.broadcaster.Close()
	s.logger.Debug("task service closed")
}

// publishLocked reads the current snapshot and fans it out to all observers.
// Callers must hold s.mu.
func (s *TaskService) publishLocked(ctx context.Context) error {
	snapshot, err := s.taskStore.ListAll(ctx)
	if err != nil {
		// The mutation itself is already durable; surface the read failure
		// so the caller knows observers were not notified.
		s.logger.Error("failed to read snapshot after mutation",
			slog.String("error", err.Error()))
		return fmt.Errorf("reading snapshot after mutation: %w", err)
	}

	s.broadcaster.Publish(ctx, snapshot)
	return nil
}
