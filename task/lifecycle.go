package task

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/amonks/taskboard/internal/validation"
)

// AddOptions configures a new task.
type AddOptions struct {
	// Title is the display name. Required.
	Title string

	// Due is the due date in mm/dd/yyyy form. Required.
	Due string

	// Description provides additional context.
	Description string

	// Recurrence is the repeat pattern. Defaults to RecurrenceNone.
	Recurrence Recurrence
}

// Add appends a new task with default flags. On a validation error the
// returned slice is tasks, unchanged.
func Add(tasks []Task, opts AddOptions, now time.Time) ([]Task, Task, error) {
	title := strings.TrimSpace(opts.Title)
	due := strings.TrimSpace(opts.Due)
	if err := ValidateTitle(title); err != nil {
		return tasks, Task{}, err
	}
	if err := ValidateDue(due); err != nil {
		return tasks, Task{}, err
	}
	recurrence, err := NormalizeRecurrence(string(opts.Recurrence))
	if err != nil {
		return tasks, Task{}, err
	}

	created := Task{
		ID:          newTaskID(tasks, title, now),
		Title:       title,
		Due:         due,
		Description: strings.TrimSpace(opts.Description),
		Recurrence:  recurrence,
		CreatedAt:   NewStamp(now),
	}
	return append(tasks, created), created, nil
}

// ToggleResult describes the outcome of ToggleComplete.
type ToggleResult struct {
	// Task is the toggled record as it was before the completed purge ran.
	Task Task

	// Completed reports the new state of the completed flag.
	Completed bool

	// Next is the follow-up occurrence appended for a repeating task.
	Next *Task

	// Purged is the number of records removed by the completed purge.
	Purged int
}

// ToggleComplete flips the completed flag of the task at idx. Completing a
// repeating task appends its next occurrence; un-completing never does.
// The completed purge runs afterwards.
func ToggleComplete(tasks []Task, idx int, now time.Time) ([]Task, ToggleResult, error) {
	if err := checkIndex(tasks, idx); err != nil {
		return tasks, ToggleResult{}, err
	}

	var result ToggleResult
	t := &tasks[idx-1]
	if t.Completed {
		t.Completed = false
		t.CompletedAt = nil
	} else {
		markCompleted(t, now)
		if next, ok := Expand(*t, now); ok {
			next.ID = newTaskID(tasks, next.Title+next.Due, now)
			tasks = append(tasks, next)
			result.Next = &next
		}
	}
	result.Task = tasks[idx-1]
	result.Completed = result.Task.Completed

	tasks, result.Purged = PurgeCompleted(tasks, now)
	return tasks, result, nil
}

// SoftDelete marks the task at idx deleted. It is purged once it has been
// deleted for longer than DeletedRetention.
func SoftDelete(tasks []Task, idx int, now time.Time) ([]Task, error) {
	if err := checkIndex(tasks, idx); err != nil {
		return tasks, err
	}
	t := &tasks[idx-1]
	t.Deleted = true
	t.DeletedAt = NewStamp(now)
	return tasks, nil
}

// Restore clears the deleted flag. It returns ErrNotDeleted, leaving the
// task untouched, when the task is not deleted.
func Restore(tasks []Task, idx int) ([]Task, error) {
	if err := checkIndex(tasks, idx); err != nil {
		return tasks, err
	}
	t := &tasks[idx-1]
	if !t.Deleted {
		return tasks, fmt.Errorf("%w: %d", ErrNotDeleted, idx)
	}
	t.Deleted = false
	t.DeletedAt = nil
	return tasks, nil
}

// PermanentDelete removes the task at idx. Every later task moves down one
// position.
func PermanentDelete(tasks []Task, idx int) ([]Task, Task, error) {
	if err := checkIndex(tasks, idx); err != nil {
		return tasks, Task{}, err
	}
	removed := tasks[idx-1]
	return slices.Delete(tasks, idx-1, idx), removed, nil
}

// Save archives the task at idx.
func Save(tasks []Task, idx int, now time.Time) ([]Task, error) {
	if err := checkIndex(tasks, idx); err != nil {
		return tasks, err
	}
	t := &tasks[idx-1]
	t.Saved = true
	t.SavedAt = NewStamp(now)
	return tasks, nil
}

// Unsave clears the saved flag. It returns ErrNotSaved, leaving the task
// untouched, when the task is not saved.
func Unsave(tasks []Task, idx int) ([]Task, error) {
	if err := checkIndex(tasks, idx); err != nil {
		return tasks, err
	}
	t := &tasks[idx-1]
	if !t.Saved {
		return tasks, fmt.Errorf("%w: %d", ErrNotSaved, idx)
	}
	t.Saved = false
	t.SavedAt = nil
	return tasks, nil
}

// EditOptions configures fields to change on a task.
// Nil pointers mean "don't update this field".
type EditOptions struct {
	Title       *string
	Due         *string
	Description *string
	Recurrence  *Recurrence
}

// Edit changes the editable fields of the task at idx with the same
// validation as Add. Status flags are never touched.
func Edit(tasks []Task, idx int, opts EditOptions) ([]Task, Task, error) {
	if err := checkIndex(tasks, idx); err != nil {
		return tasks, Task{}, err
	}

	updated := tasks[idx-1]
	if opts.Title != nil {
		title := strings.TrimSpace(*opts.Title)
		if err := ValidateTitle(title); err != nil {
			return tasks, Task{}, err
		}
		updated.Title = title
	}
	if opts.Due != nil {
		due := strings.TrimSpace(*opts.Due)
		if err := ValidateDue(due); err != nil {
			return tasks, Task{}, err
		}
		updated.Due = due
	}
	if opts.Description != nil {
		updated.Description = strings.TrimSpace(*opts.Description)
	}
	if opts.Recurrence != nil {
		recurrence, err := NormalizeRecurrence(string(*opts.Recurrence))
		if err != nil {
			return tasks, Task{}, err
		}
		updated.Recurrence = recurrence
	}

	tasks[idx-1] = updated
	return tasks, updated, nil
}

// ParseBulkAction validates a bulk action name.
func ParseBulkAction(value string) (BulkAction, error) {
	action, ok := validation.ParseEnum(strings.ToLower(strings.TrimSpace(value)), ValidBulkActions())
	if !ok {
		return "", fmt.Errorf("%w: %q (valid: %s)", ErrInvalidBulkAction, value, validation.FormatValidValues(ValidBulkActions()))
	}
	return action, nil
}

// BulkResult describes the outcome of BulkApply.
type BulkResult struct {
	// Applied lists the positions the action was applied to, highest first.
	Applied []int

	// Skipped lists out-of-range positions, highest first.
	Skipped []int

	// Purged is the number of records removed by the completed purge.
	Purged int
}

// BulkApply applies action to every position in indices. Positions are
// processed from highest to lowest so removals never shift a position that
// is still waiting. Out-of-range positions are skipped and duplicates are
// applied once. Bulk complete never expands repeating tasks and leaves
// already-completed tasks as they are. The completed purge runs afterwards.
func BulkApply(tasks []Task, indices []int, action BulkAction, now time.Time) ([]Task, BulkResult, error) {
	if !slices.Contains(ValidBulkActions(), action) {
		return tasks, BulkResult{}, fmt.Errorf("%w: %q", ErrInvalidBulkAction, action)
	}

	ordered := slices.Clone(indices)
	slices.Sort(ordered)
	ordered = slices.Compact(ordered)
	slices.Reverse(ordered)

	var result BulkResult
	for _, idx := range ordered {
		if checkIndex(tasks, idx) != nil {
			result.Skipped = append(result.Skipped, idx)
			continue
		}
		switch action {
		case BulkDelete:
			tasks = slices.Delete(tasks, idx-1, idx)
		case BulkComplete:
			if !tasks[idx-1].Completed {
				markCompleted(&tasks[idx-1], now)
			}
		}
		result.Applied = append(result.Applied, idx)
	}

	tasks, result.Purged = PurgeCompleted(tasks, now)
	return tasks, result, nil
}

func markCompleted(t *Task, now time.Time) {
	t.Completed = true
	t.CompletedAt = NewStamp(now)
}
