package task

import (
	"context"
	"errors"
	"slices"
	"testing"
	"time"
)

var errStoreDown = errors.New("store down")

// memoryStore is a minimal in-package Store for service tests.
type memoryStore struct {
	tasks   []Task
	saves   int
	loadErr error
	saveErr error
}

func (s *memoryStore) Load(context.Context) ([]Task, error) {
	if s.loadErr != nil {
		return nil, s.loadErr
	}
	return slices.Clone(s.tasks), nil
}

func (s *memoryStore) Save(_ context.Context, tasks []Task) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.saves++
	s.tasks = slices.Clone(tasks)
	return nil
}

// lockingStore records whether saves happen while the store lock is held.
type lockingStore struct {
	memoryStore
	locked        bool
	locks         int
	unlockedSaves int
}

func (s *lockingStore) Lock(context.Context) (func() error, error) {
	s.locked = true
	s.locks++
	return func() error {
		s.locked = false
		return nil
	}, nil
}

func (s *lockingStore) Save(ctx context.Context, tasks []Task) error {
	if !s.locked {
		s.unlockedSaves++
	}
	return s.memoryStore.Save(ctx, tasks)
}

type testClock struct {
	now time.Time
}

func (c *testClock) Now() time.Time {
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
}

func newTestService(t *testing.T, tasks ...Task) (*Service, *memoryStore, *testClock) {
	t.Helper()

	store := &memoryStore{tasks: tasks}
	clock := &testClock{now: testNow}
	return NewService(store, ServiceOptions{Now: clock.Now}), store, clock
}
