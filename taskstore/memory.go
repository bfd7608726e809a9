package taskstore

import (
	"context"
	"slices"
	"sync"

	"github.com/amonks/taskboard/task"
)

// MemoryStore keeps the collection in memory. It is safe for concurrent use.
type MemoryStore struct {
	mu    sync.Mutex
	tasks []task.Task
}

// NewMemoryStore creates a store seeded with tasks.
func NewMemoryStore(tasks ...task.Task) *MemoryStore {
	return &MemoryStore{tasks: slices.Clone(tasks)}
}

// Load returns a copy of the stored collection.
func (s *MemoryStore) Load(ctx context.Context) ([]task.Task, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.tasks == nil {
		return []task.Task{}, nil
	}
	return slices.Clone(s.tasks), nil
}

// Save replaces the stored collection with a copy of tasks.
func (s *MemoryStore) Save(ctx context.Context, tasks []task.Task) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks = slices.Clone(tasks)
	return nil
}

// Close is a no-op.
func (s *MemoryStore) Close() error {
	return nil
}
