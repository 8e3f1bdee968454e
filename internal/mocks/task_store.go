package mocks

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/askriger/todostore/internal/domain"
	"github.com/askriger/todostore/internal/store"
)

// MemoryTaskStore is an in-memory implementation of store.TaskStore for use
// in tests. It is safe for concurrent use.
type MemoryTaskStore struct {
	mu     sync.Mutex
	tasks  map[int64]domain.Task
	nextID int64

	// FailWith, when non-nil, is returned unchanged by every operation.
	// Set it to a storage-failure error to simulate a broken backing medium.
	FailWith error
}

// NewMemoryTaskStore creates an empty in-memory task store.
func NewMemoryTaskStore() *MemoryTaskStore {
	return &MemoryTaskStore{
		tasks: make(map[int64]domain.Task),
	}
}

// Ensure MemoryTaskStore implements store.TaskStore interface
var _ store.TaskStore = (*MemoryTaskStore)(nil)

// Upsert implements store.TaskStore.Upsert.
func (m *MemoryTaskStore) Upsert(ctx context.Context, task *domain.Task) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.FailWith != nil {
		return m.FailWith
	}

	if task == nil {
		return fmt.Errorf("%w: task cannot be nil", store.ErrInvalidEntity)
	}
	if err := task.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	if task.ID == 0 {
		m.nextID++
		task.ID = m.nextID
	} else if task.ID > m.nextID {
		// Keep the counter ahead of explicit IDs, matching the sequence
		// behavior of the postgres store.
		m.nextID = task.ID
	}

	m.tasks[task.ID] = *task
	return nil
}

// Delete implements store.TaskStore.Delete. Missing IDs are a no-op.
func (m *MemoryTaskStore) Delete(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.FailWith != nil {
		return m.FailWith
	}

	delete(m.tasks, id)
	return nil
}

// GetByID implements store.TaskStore.GetByID.
func (m *MemoryTaskStore) GetByID(ctx context.Context, id int64) (*domain.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.FailWith != nil {
		return nil, m.FailWith
	}

	task, ok := m.tasks[id]
	if !ok {
		return nil, store.ErrTaskNotFound
	}
	return &task, nil
}

// ListAll implements store.TaskStore.ListAll, ordered by ascending ID.
func (m *MemoryTaskStore) ListAll(ctx context.Context) ([]domain.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.FailWith != nil {
		return nil, m.FailWith
	}

	tasks := make([]domain.Task, 0, len(m.tasks))
	for _, task := range m.tasks {
		tasks = append(tasks, task)
	}
	sort.Slice(tasks, func(i, j int) bool { return tasks[i].ID < tasks[j].ID })
	return tasks, nil
}

// Len reports the number of stored tasks.
func (m *MemoryTaskStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.tasks)
}
