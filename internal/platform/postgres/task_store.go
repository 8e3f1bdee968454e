package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/askriger/todostore/internal/domain"
	"github.com/askriger/todostore/internal/platform/logger"
	"github.com/askriger/todostore/internal/store"
)

// TaskStore implements the store.TaskStore interface
// using a PostgreSQL database as the storage backend.
type TaskStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewTaskStore creates a new PostgreSQL implementation of the store.TaskStore
// interface. It accepts a database connection or transaction that should be
// initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewTaskStore(db store.DBTX, logger *slog.Logger) *TaskStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &TaskStore{
		db:     db,
		logger: logger.With(slog.String("component", "task_store")),
	}
}

// Ensure TaskStore implements store.TaskStore interface
var _ store.TaskStore = (*TaskStore)(nil)

// WithTx returns a new TaskStore bound to the given transaction. The
// original store is unchanged and remains bound to its own connection.
func (s *TaskStore) WithTx(tx *sql.Tx) *TaskStore {
	return &TaskStore{
		db:     tx,
		logger: s.logger,
	}
}

// Upsert implements store.TaskStore.Upsert.
// A task with a zero ID is inserted and receives the next ID from the tasks
// sequence; the assigned ID is written back into the task. A task with a
// non-zero ID is inserted, or replaces the existing row with that ID
// (last write wins).
func (s *TaskStore) Upsert(ctx context.Context, task *domain.Task) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if task == nil {
		return fmt.Errorf("%w: task cannot be nil", store.ErrInvalidEntity)
	}
	if err := task.Validate(); err != nil {
		log.Warn("task validation failed during upsert",
			slog.String("error", err.Error()),
			slog.Int64("task_id", task.ID))
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	if task.ID == 0 {
		return s.insert(ctx, task)
	}
	return s.replace(ctx, task)
}

// insert stores a new task and assigns it the next unique ID.
func (s *TaskStore) insert(ctx context.Context, task *domain.Task) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		INSERT INTO tasks (description, is_completed)
		VALUES ($1, $2)
		RETURNING id
	`

	err := s.db.QueryRowContext(ctx, query, task.Description, task.IsCompleted).
		Scan(&task.ID)
	if err != nil {
		log.Error("failed to insert task",
			slog.String("error", err.Error()))
		return MapError("task", "upsert", err)
	}

	log.Debug("task inserted",
		slog.Int64("task_id", task.ID))
	return nil
}

// replace upserts a task under its existing ID. The sequence is then advanced
// past the explicit ID so a later auto-assigned ID can never collide with it.
// The advance is forward-only: the sequence never rewinds, so IDs of deleted
// records are not reissued.
func (s *TaskStore) replace(ctx context.Context, task *domain.Task) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		INSERT INTO tasks (id, description, is_completed)
		VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE
		SET description = EXCLUDED.description,
		    is_completed = EXCLUDED.is_completed
	`

	if _, err := s.db.ExecContext(ctx, query, task.ID, task.Description, task.IsCompleted); err != nil {
		log.Error("failed to upsert task",
			slog.String("error", err.Error()),
			slog.Int64("task_id", task.ID))
		return MapError("task", "upsert", err)
	}

	seqQuery := `
		SELECT setval(
			pg_get_serial_sequence('tasks', 'id'),
			GREATEST(
				COALESCE(pg_sequence_last_value(pg_get_serial_sequence('tasks', 'id')), 0),
				$1
			)
		)
	`
	if _, err := s.db.ExecContext(ctx, seqQuery, task.ID); err != nil {
		log.Error("failed to advance task id sequence",
			slog.String("error", err.Error()),
			slog.Int64("task_id", task.ID))
		return MapError("task", "upsert", err)
	}

	log.Debug("task upserted",
		slog.Int64("task_id", task.ID))
	return nil
}

// Delete implements store.TaskStore.Delete.
// Deleting a task that does not exist is a no-op, not an error.
func (s *TaskStore) Delete(ctx context.Context, id int64) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		DELETE FROM tasks
		WHERE id = $1
	`

	result, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		log.Error("failed to delete task",
			slog.String("error", err.Error()),
			slog.Int64("task_id", id))
		return MapError("task", "delete", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		log.Error("failed to get rows affected",
			slog.String("error", err.Error()),
			slog.Int64("task_id", id))
		return MapError("task", "delete", err)
	}

	if rowsAffected == 0 {
		log.Debug("no task found with ID to delete, treating as no-op",
			slog.Int64("task_id", id))
		return nil
	}

	log.Debug("task deleted",
		slog.Int64("task_id", id))
	return nil
}

// GetByID implements store.TaskStore.GetByID.
// Returns store.ErrTaskNotFound if the task does not exist.
func (s *TaskStore) GetByID(ctx context.Context, id int64) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, description, is_completed
		FROM tasks
		WHERE id = $1
	`

	var task domain.Task
	err := s.db.QueryRowContext(ctx, query, id).
		Scan(&task.ID, &task.Description, &task.IsCompleted)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("task not found",
				slog.Int64("task_id", id))
			return nil, store.ErrTaskNotFound
		}
		log.Error("failed to get task",
			slog.String("error", err.Error()),
			slog.Int64("task_id", id))
		return nil, MapError("task", "get", err)
	}

	return &task, nil
}

// ListAll implements store.TaskStore.ListAll.
// Tasks are ordered by ascending ID, which is insertion order since IDs are
// assigned monotonically.
func (s *TaskStore) ListAll(ctx context.Context) ([]domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, description, is_completed
		FROM tasks
		ORDER BY id ASC
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		log.Error("failed to query tasks",
			slog.String("error", err.Error()))
		return nil, MapError("task", "list", err)
	}
	defer func() { _ = rows.Close() }()

	tasks := make([]domain.Task, 0)
	for rows.Next() {
		var task domain.Task
		if err := rows.Scan(&task.ID, &task.Description, &task.IsCompleted); err != nil {
			log.Error("failed to scan task row",
				slog.String("error", err.Error()))
			return nil, MapError("task", "list", err)
		}
		tasks = append(tasks, task)
	}

	if err := rows.Err(); err != nil {
		log.Error("error iterating task rows",
			slog.String("error", err.Error()))
		return nil, MapError("task", "list", err)
	}

	return tasks, nil
}
