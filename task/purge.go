package task

import "time"

const (
	// CompletedRetention is how long a completed task is kept.
	CompletedRetention = 48 * time.Hour

	// DeletedRetention is how long a soft-deleted task is kept.
	DeletedRetention = 72 * time.Hour
)

// PurgeCompleted removes tasks that have been completed for longer than
// CompletedRetention. A task exactly at the boundary is kept, as is any task
// whose completed_at does not parse. It returns the retained tasks and the
// number removed.
func PurgeCompleted(tasks []Task, now time.Time) ([]Task, int) {
	return purge(tasks, now, CompletedRetention, func(t Task) (*Stamp, bool) {
		return t.CompletedAt, t.Completed
	})
}

// PurgeDeleted removes tasks that have been soft-deleted for longer than
// DeletedRetention, with the same boundary rules as PurgeCompleted.
func PurgeDeleted(tasks []Task, now time.Time) ([]Task, int) {
	return purge(tasks, now, DeletedRetention, func(t Task) (*Stamp, bool) {
		return t.DeletedAt, t.Deleted
	})
}

// Purge runs both purge policies.
func Purge(tasks []Task, now time.Time) ([]Task, int) {
	tasks, completed := PurgeCompleted(tasks, now)
	tasks, deleted := PurgeDeleted(tasks, now)
	return tasks, completed + deleted
}

func purge(tasks []Task, now time.Time, retention time.Duration, state func(Task) (*Stamp, bool)) ([]Task, int) {
	removed := 0
	retained := tasks[:0:0]
	for _, t := range tasks {
		stamp, flagged := state(t)
		if flagged {
			if at, ok := stampTime(stamp); ok && now.Sub(at) > retention {
				removed++
				continue
			}
		}
		retained = append(retained, t)
	}
	if removed == 0 {
		return tasks, 0
	}
	return retained, removed
}

// DaysUntilPermanent returns how many whole days remain before a deleted
// task is purged, never less than zero. It reports false for tasks that are
// not deleted or whose deleted_at does not parse.
func DaysUntilPermanent(t Task, now time.Time) (int, bool) {
	if !t.Deleted {
		return 0, false
	}
	at, ok := stampTime(t.DeletedAt)
	if !ok {
		return 0, false
	}
	daysDeleted := int(now.Sub(at) / (24 * time.Hour))
	return max(0, int(DeletedRetention/(24*time.Hour))-daysDeleted), true
}
