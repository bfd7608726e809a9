package task

import "context"

// Store loads and saves the whole ordered collection.
//
// Load returns an empty slice when nothing has been persisted. Save replaces
// the persisted collection atomically from the caller's point of view.
type Store interface {
	Load(ctx context.Context) ([]Task, error)
	Save(ctx context.Context, tasks []Task) error
}

// Locker is implemented by stores that can hold an exclusive lock across a
// load/modify/save cycle, such as file stores shared between processes.
type Locker interface {
	Lock(ctx context.Context) (unlock func() error, err error)
}
