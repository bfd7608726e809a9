package task

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	internalstrings "github.com/amonks/taskboard/internal/strings"
	"github.com/rs/zerolog"
)

// ServiceOptions configures a Service.
type ServiceOptions struct {
	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time

	// Logger receives degraded loads, purges and transitions. Defaults to a
	// disabled logger.
	Logger *zerolog.Logger

	// Events receives every transition found by CheckTransitions. Optional.
	Events *EventLog

	// DefaultSort is used when a query passes an empty sort mode.
	DefaultSort SortMode
}

// Service runs every operation as one load/modify/save cycle against a
// Store. Operations on one Service are serialized; stores that implement
// Locker are also locked for the whole cycle.
type Service struct {
	store       Store
	now         func() time.Time
	log         zerolog.Logger
	events      *EventLog
	defaultSort SortMode

	mu sync.Mutex
}

// NewService creates a Service over store.
func NewService(store Store, opts ServiceOptions) *Service {
	s := &Service{
		store:       store,
		now:         opts.Now,
		log:         zerolog.Nop(),
		events:      opts.Events,
		defaultSort: opts.DefaultSort,
	}
	if s.now == nil {
		s.now = time.Now
	}
	if opts.Logger != nil {
		s.log = opts.Logger.With().Str("cmp", "task").Logger()
	}
	if s.defaultSort == "" {
		s.defaultSort = DefaultSortMode
	}
	return s
}

// DefaultSort returns the sort mode used when none is requested.
func (s *Service) DefaultSort() SortMode {
	return s.defaultSort
}

// Add creates a new task. On a storage failure the created task is returned
// together with an error wrapping ErrStorageUnavailable.
func (s *Service) Add(ctx context.Context, opts AddOptions) (Task, error) {
	var created Task
	err := s.update(ctx, func(tasks []Task, now time.Time) ([]Task, error) {
		var err error
		tasks, created, err = Add(tasks, opts, now)
		return tasks, err
	})
	if err != nil {
		if errors.Is(err, ErrStorageUnavailable) {
			return created, err
		}
		return Task{}, err
	}
	s.log.Debug().Str("id", created.ID).Str("due", created.Due).Msg("task added")
	return created, nil
}

// ToggleComplete flips the completed flag of the task at ref.
func (s *Service) ToggleComplete(ctx context.Context, ref string) (ToggleResult, error) {
	var result ToggleResult
	err := s.update(ctx, func(tasks []Task, now time.Time) ([]Task, error) {
		idx, err := ResolveRef(tasks, ref)
		if err != nil {
			return tasks, err
		}
		tasks, result, err = ToggleComplete(tasks, idx, now)
		return tasks, err
	})
	if err == nil && result.Purged > 0 {
		s.log.Debug().Int("count", result.Purged).Msg("purged completed tasks")
	}
	return result, err
}

// SoftDelete marks the task at ref deleted.
func (s *Service) SoftDelete(ctx context.Context, ref string) (Task, error) {
	return s.updateOne(ctx, ref, func(tasks []Task, idx int, now time.Time) ([]Task, error) {
		return SoftDelete(tasks, idx, now)
	})
}

// Restore clears the deleted flag of the task at ref.
func (s *Service) Restore(ctx context.Context, ref string) (Task, error) {
	return s.updateOne(ctx, ref, func(tasks []Task, idx int, _ time.Time) ([]Task, error) {
		return Restore(tasks, idx)
	})
}

// Save archives the task at ref.
func (s *Service) Save(ctx context.Context, ref string) (Task, error) {
	return s.updateOne(ctx, ref, func(tasks []Task, idx int, now time.Time) ([]Task, error) {
		return Save(tasks, idx, now)
	})
}

// Unsave clears the saved flag of the task at ref.
func (s *Service) Unsave(ctx context.Context, ref string) (Task, error) {
	return s.updateOne(ctx, ref, func(tasks []Task, idx int, _ time.Time) ([]Task, error) {
		return Unsave(tasks, idx)
	})
}

// PermanentDelete removes the task at ref and returns it.
func (s *Service) PermanentDelete(ctx context.Context, ref string) (Task, error) {
	var removed Task
	err := s.update(ctx, func(tasks []Task, _ time.Time) ([]Task, error) {
		idx, err := ResolveRef(tasks, ref)
		if err != nil {
			return tasks, err
		}
		tasks, removed, err = PermanentDelete(tasks, idx)
		return tasks, err
	})
	return removed, err
}

// Edit changes the editable fields of the task at ref.
func (s *Service) Edit(ctx context.Context, ref string, opts EditOptions) (Task, error) {
	var updated Task
	err := s.update(ctx, func(tasks []Task, _ time.Time) ([]Task, error) {
		idx, err := ResolveRef(tasks, ref)
		if err != nil {
			return tasks, err
		}
		tasks, updated, err = Edit(tasks, idx, opts)
		return tasks, err
	})
	return updated, err
}

// Bulk applies action to every ref. Integer refs are positions and are
// skipped when out of range, negative ones included; ID refs must resolve.
func (s *Service) Bulk(ctx context.Context, action BulkAction, refs []string) (BulkResult, error) {
	var result BulkResult
	err := s.update(ctx, func(tasks []Task, now time.Time) ([]Task, error) {
		indices := make([]int, 0, len(refs))
		for _, ref := range refs {
			ref = strings.TrimSpace(ref)
			if internalstrings.IsInteger(ref) {
				idx, err := strconv.Atoi(ref)
				if err != nil {
					continue
				}
				indices = append(indices, idx)
				continue
			}
			idx, err := ResolveRef(tasks, ref)
			if err != nil {
				return tasks, err
			}
			indices = append(indices, idx)
		}
		var err error
		tasks, result, err = BulkApply(tasks, indices, action, now)
		return tasks, err
	})
	return result, err
}

// View returns the named view sorted by mode.
func (s *Service) View(ctx context.Context, view ViewName, mode SortMode) ([]Annotated, error) {
	tasks, now := s.purged(ctx)
	items, err := BuildView(tasks, view, now)
	if err != nil {
		return nil, err
	}
	SortTasks(items, s.sortMode(mode))
	return items, nil
}

// Dashboard returns the sectioned overview sorted by mode.
func (s *Service) Dashboard(ctx context.Context, mode SortMode) Dashboard {
	tasks, now := s.purged(ctx)
	return BuildDashboard(tasks, s.sortMode(mode), now)
}

// Search matches query against every stored task, purged or not.
func (s *Service) Search(ctx context.Context, query string) []Annotated {
	unlock := s.lock(ctx)
	defer unlock()
	return SearchTasks(s.load(ctx), query, s.now())
}

// Stats counts the purged collection.
func (s *Service) Stats(ctx context.Context) Stats {
	tasks, now := s.purged(ctx)
	return ComputeStats(tasks, now)
}

// Digest returns the high-priority digest of the purged collection.
func (s *Service) Digest(ctx context.Context) Digest {
	tasks, now := s.purged(ctx)
	return HighPriorityDigest(tasks, now)
}

// Show returns the task at ref.
func (s *Service) Show(ctx context.Context, ref string) (Annotated, error) {
	unlock := s.lock(ctx)
	defer unlock()
	tasks := s.load(ctx)
	idx, err := ResolveRef(tasks, ref)
	if err != nil {
		return Annotated{}, err
	}
	return Annotate(tasks[idx-1], idx, s.now()), nil
}

// Plan suggests a step breakdown for the task at ref.
func (s *Service) Plan(ctx context.Context, ref string) (Plan, error) {
	item, err := s.Show(ctx, ref)
	if err != nil {
		return Plan{}, err
	}
	return BuildPlan(item.Task, s.now()), nil
}

// CheckTransitions records the current priority of every pending task and
// returns the tier changes since the previous check. Each event is logged
// and appended to the event log when one is configured.
func (s *Service) CheckTransitions(ctx context.Context) ([]TransitionEvent, error) {
	var events []TransitionEvent
	err := s.updatePurged(ctx, func(tasks []Task, now time.Time) ([]Task, bool) {
		var changed bool
		events, changed = DetectTransitions(tasks, now)
		return tasks, changed
	})

	for _, event := range events {
		s.log.Info().
			Str("id", event.TaskID).
			Str("task", event.Title).
			Str("from", string(event.From)).
			Str("to", string(event.To)).
			Msg("priority changed")
		if appendErr := s.events.Append(event); appendErr != nil {
			s.log.Warn().Err(appendErr).Str("path", s.events.Path()).Msg("append transition event")
		}
	}
	return events, err
}

func (s *Service) sortMode(mode SortMode) SortMode {
	if mode == "" {
		return s.defaultSort
	}
	return mode
}

// lock serializes a cycle within the process and, when the store supports
// it, across processes.
func (s *Service) lock(ctx context.Context) func() {
	s.mu.Lock()
	locker, ok := s.store.(Locker)
	if !ok {
		return s.mu.Unlock
	}
	unlock, err := locker.Lock(ctx)
	if err != nil {
		s.log.Warn().Err(err).Msg("lock task store")
		return s.mu.Unlock
	}
	return func() {
		if err := unlock(); err != nil {
			s.log.Warn().Err(err).Msg("unlock task store")
		}
		s.mu.Unlock()
	}
}

// load reads the collection. It never fails: a store error degrades to an
// empty collection. Tasks without an ID get one, persisted right away so
// the IDs stay stable. Callers hold s.mu.
func (s *Service) load(ctx context.Context) []Task {
	tasks, err := s.store.Load(ctx)
	if err != nil {
		s.log.Warn().Err(err).Msg("load tasks, continuing with an empty list")
		return []Task{}
	}
	if tasks == nil {
		tasks = []Task{}
	}
	for i := range tasks {
		if err := ValidateTask(&tasks[i]); err != nil {
			s.log.Warn().Err(err).Int("idx", i+1).Str("id", tasks[i].ID).Msg("inconsistent task record")
		}
	}
	if AssignMissingIDs(tasks, s.now()) {
		if err := s.store.Save(ctx, tasks); err != nil {
			s.log.Warn().Err(err).Msg("persist assigned task IDs")
		}
	}
	return tasks
}

// purged loads the collection and runs both purge policies, persisting only
// when something was removed.
func (s *Service) purged(ctx context.Context) ([]Task, time.Time) {
	var result []Task
	var now time.Time
	_ = s.updatePurged(ctx, func(tasks []Task, at time.Time) ([]Task, bool) {
		result, now = tasks, at
		return tasks, false
	})
	return result, now
}

// updatePurged runs fn over the purged collection and persists when the
// purge removed something or fn reports a change.
func (s *Service) updatePurged(ctx context.Context, fn func([]Task, time.Time) ([]Task, bool)) error {
	unlock := s.lock(ctx)
	defer unlock()

	now := s.now()
	tasks, removed := Purge(s.load(ctx), now)
	if removed > 0 {
		s.log.Debug().Int("count", removed).Msg("purged expired tasks")
	}
	tasks, changed := fn(tasks, now)
	if removed == 0 && !changed {
		return nil
	}
	if err := s.persist(ctx, tasks); err != nil {
		s.log.Warn().Err(err).Msg("persist purged tasks")
		return err
	}
	return nil
}

// update runs one read-modify-write cycle. Nothing is persisted when fn
// fails.
func (s *Service) update(ctx context.Context, fn func([]Task, time.Time) ([]Task, error)) error {
	unlock := s.lock(ctx)
	defer unlock()

	now := s.now()
	tasks, err := fn(s.load(ctx), now)
	if err != nil {
		return err
	}
	return s.persist(ctx, tasks)
}

func (s *Service) updateOne(ctx context.Context, ref string, fn func([]Task, int, time.Time) ([]Task, error)) (Task, error) {
	var updated Task
	err := s.update(ctx, func(tasks []Task, now time.Time) ([]Task, error) {
		idx, err := ResolveRef(tasks, ref)
		if err != nil {
			return tasks, err
		}
		tasks, err = fn(tasks, idx, now)
		if err != nil {
			return tasks, err
		}
		updated = tasks[idx-1]
		return tasks, nil
	})
	return updated, err
}

func (s *Service) persist(ctx context.Context, tasks []Task) error {
	if err := s.store.Save(ctx, tasks); err != nil {
		return fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
	}
	return nil
}
