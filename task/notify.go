package task

import (
	"fmt"
	"strings"
	"time"
)

// Digest summarizes the tasks that need attention now.
type Digest struct {
	Count int         `json:"count"`
	Tasks []Annotated `json:"tasks"`
}

// HighPriorityDigest collects the pending tasks that are HIGH or OVERDUE,
// in collection order.
func HighPriorityDigest(tasks []Task, now time.Time) Digest {
	digest := Digest{Tasks: []Annotated{}}
	for i, t := range tasks {
		if !t.IsPending() {
			continue
		}
		item := Annotate(t, i+1, now)
		if !item.Priority.IsUrgent() {
			continue
		}
		digest.Tasks = append(digest.Tasks, item)
	}
	digest.Count = len(digest.Tasks)
	return digest
}

// Transition is a change of priority tier.
type Transition struct {
	From Priority `json:"from"`
	To   Priority `json:"to"`
}

// DiffPriority compares a recorded priority with a fresh one. It reports a
// transition only when a previous value exists and differs.
func DiffPriority(previous *Priority, current Priority) (Transition, bool) {
	if previous == nil || *previous == current {
		return Transition{}, false
	}
	return Transition{From: *previous, To: current}, true
}

// RecordPriorityCheckpoint stores p as the last seen priority of the task
// with the given ID.
func RecordPriorityCheckpoint(tasks []Task, id string, p Priority) error {
	for i := range tasks {
		if strings.EqualFold(tasks[i].ID, id) {
			tasks[i].PreviousPriority = PriorityPtr(p)
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrTaskNotFound, id)
}

// TransitionEvent records a priority change seen by a check.
type TransitionEvent struct {
	TaskID    string    `json:"task_id"`
	Title     string    `json:"task"`
	Due       string    `json:"due"`
	From      Priority  `json:"old"`
	To        Priority  `json:"new"`
	Timestamp time.Time `json:"timestamp"`
}

// DetectTransition diffs the current priority of t against its checkpoint
// and then overwrites the checkpoint, whether or not a transition fired.
// A second call with no change in between never fires.
func DetectTransition(t *Task, now time.Time) (*TransitionEvent, bool) {
	current := PriorityFor(t.Due, now)
	transition, changed := DiffPriority(t.PreviousPriority, current)
	t.PreviousPriority = PriorityPtr(current)
	if !changed {
		return nil, false
	}
	return &TransitionEvent{
		TaskID:    t.ID,
		Title:     t.Title,
		Due:       t.Due,
		From:      transition.From,
		To:        transition.To,
		Timestamp: now,
	}, true
}

// DetectTransitions runs DetectTransition over every pending task. It
// reports the events that fired and whether any checkpoint changed.
func DetectTransitions(tasks []Task, now time.Time) ([]TransitionEvent, bool) {
	var events []TransitionEvent
	checkpointsChanged := false
	for i := range tasks {
		if !tasks[i].IsPending() {
			continue
		}
		before := tasks[i].PreviousPriority
		event, fired := DetectTransition(&tasks[i], now)
		if before == nil || *before != *tasks[i].PreviousPriority {
			checkpointsChanged = true
		}
		if fired {
			events = append(events, *event)
		}
	}
	return events, checkpointsChanged
}
