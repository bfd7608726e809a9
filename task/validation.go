package task

import (
	"errors"
	"fmt"
	"strings"

	"github.com/amonks/taskboard/internal/validation"
)

var (
	// ErrEmptyTitle is returned when a task name is empty after trimming.
	ErrEmptyTitle = errors.New("task name cannot be empty")

	// ErrInvalidDue is returned when a due date is not mm/dd/yyyy.
	ErrInvalidDue = errors.New("due date must use mm/dd/yyyy")

	// ErrInvalidRecurrence is returned for an unknown repeat pattern.
	ErrInvalidRecurrence = errors.New("invalid recurrence")

	// ErrIndexOutOfRange is returned when a position is outside the collection.
	ErrIndexOutOfRange = errors.New("task index out of range")

	// ErrNotDeleted is returned when restoring a task that is not deleted.
	ErrNotDeleted = errors.New("task is not deleted")

	// ErrNotSaved is returned when unsaving a task that is not saved.
	ErrNotSaved = errors.New("task is not saved")

	// ErrTaskNotFound is returned when no task matches an ID.
	ErrTaskNotFound = errors.New("task not found")

	// ErrAmbiguousTaskIDPrefix is returned when an ID prefix matches multiple tasks.
	ErrAmbiguousTaskIDPrefix = errors.New("ambiguous task ID prefix")

	// ErrInvalidBulkAction is returned for an unknown bulk action.
	ErrInvalidBulkAction = errors.New("invalid bulk action")

	// ErrInvalidSortMode is returned for an unknown sort mode.
	ErrInvalidSortMode = errors.New("invalid sort mode")

	// ErrInvalidView is returned for an unknown view name.
	ErrInvalidView = errors.New("invalid view")

	// ErrStorageUnavailable is returned when the store cannot persist changes.
	ErrStorageUnavailable = errors.New("task storage unavailable")

	// ErrCompletedMissingStamp is returned when a completed task has no completed_at.
	ErrCompletedMissingStamp = errors.New("completed task must have completed_at timestamp")

	// ErrStampWithoutCompleted is returned when an incomplete task has completed_at.
	ErrStampWithoutCompleted = errors.New("incomplete task cannot have completed_at timestamp")

	// ErrDeletedMissingStamp is returned when a deleted task has no deleted_at.
	ErrDeletedMissingStamp = errors.New("deleted task must have deleted_at timestamp")

	// ErrStampWithoutDeleted is returned when a live task has deleted_at.
	ErrStampWithoutDeleted = errors.New("task that is not deleted cannot have deleted_at timestamp")

	// ErrSavedMissingStamp is returned when a saved task has no saved_at.
	ErrSavedMissingStamp = errors.New("saved task must have saved_at timestamp")

	// ErrStampWithoutSaved is returned when an unsaved task has saved_at.
	ErrStampWithoutSaved = errors.New("task that is not saved cannot have saved_at timestamp")
)

// ValidationError reports bad input to Add or Edit. The collection is left
// unchanged when one is returned.
type ValidationError struct {
	Field string
	Value string
	Err   error
}

func (e *ValidationError) Error() string {
	if e.Value == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("%v: %q", e.Err, e.Value)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// ValidateTitle checks that a task name is non-empty once trimmed.
func ValidateTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return &ValidationError{Field: "task", Err: ErrEmptyTitle}
	}
	return nil
}

// ValidateDue checks the mm/dd/yyyy format of a due date.
func ValidateDue(due string) error {
	if !ValidDueFormat(due) {
		return &ValidationError{Field: "due", Value: due, Err: ErrInvalidDue}
	}
	return nil
}

// NormalizeRecurrence lowercases and validates a recurrence pattern.
// The empty string normalizes to RecurrenceNone.
func NormalizeRecurrence(value string) (Recurrence, error) {
	normalized := Recurrence(strings.ToLower(strings.TrimSpace(value)))
	if normalized == "" {
		return RecurrenceNone, nil
	}
	if !normalized.IsValid() {
		return "", &ValidationError{
			Field: "recurrence",
			Value: value,
			Err:   fmt.Errorf("%w (valid: %s)", ErrInvalidRecurrence, validation.FormatValidValues(ValidRecurrences())),
		}
	}
	return normalized, nil
}

// ValidateTask checks that every status flag agrees with its timestamp.
func ValidateTask(t *Task) error {
	if t.Completed && t.CompletedAt == nil {
		return ErrCompletedMissingStamp
	}
	if !t.Completed && t.CompletedAt != nil {
		return ErrStampWithoutCompleted
	}
	if t.Deleted && t.DeletedAt == nil {
		return ErrDeletedMissingStamp
	}
	if !t.Deleted && t.DeletedAt != nil {
		return ErrStampWithoutDeleted
	}
	if t.Saved && t.SavedAt == nil {
		return ErrSavedMissingStamp
	}
	if !t.Saved && t.SavedAt != nil {
		return ErrStampWithoutSaved
	}
	return nil
}
