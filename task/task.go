package task

import (
	"strings"
	"time"
)

// Task is a single to-do item and its status flags.
type Task struct {
	// ID is a stable 8-char identifier, independent of the task's position.
	ID string `json:"id" yaml:"id"`

	// Title is the display name. Stored under "task" for compatibility with
	// older task files.
	Title string `json:"task" yaml:"task"`

	// Due is the due date in mm/dd/yyyy form.
	Due string `json:"due" yaml:"due"`

	// Description is optional free text.
	Description string `json:"description" yaml:"description"`

	Completed   bool   `json:"completed" yaml:"completed"`
	CompletedAt *Stamp `json:"completed_at" yaml:"completed_at"`

	// Deleted marks a soft-deleted task waiting for restore or purge.
	Deleted   bool   `json:"deleted" yaml:"deleted"`
	DeletedAt *Stamp `json:"deleted_at" yaml:"deleted_at"`

	// Saved archives a task out of the active views.
	Saved   bool   `json:"saved" yaml:"saved"`
	SavedAt *Stamp `json:"saved_at" yaml:"saved_at"`

	// Recurrence schedules a follow-up task when this one is completed.
	Recurrence Recurrence `json:"recurrence,omitempty" yaml:"recurrence,omitempty"`

	// PreviousPriority is the priority seen at the last transition check.
	PreviousPriority *Priority `json:"previous_priority,omitempty" yaml:"previous_priority,omitempty"`

	// CreatedAt is when the task was added (nil for tasks from older files).
	CreatedAt *Stamp `json:"created_at,omitempty" yaml:"created_at,omitempty"`
}

// IsActive reports whether the task shows up in the pending/completed views.
func (t Task) IsActive() bool {
	return !t.Deleted && !t.Saved
}

// IsPending reports whether the task is active and not completed.
func (t Task) IsPending() bool {
	return t.IsActive() && !t.Completed
}

// Stamp is a persisted timestamp. It keeps the raw text so a value that
// fails to parse survives a load/save round trip unchanged.
type Stamp string

// Layouts accepted when reading stamps, after RFC 3339. Fractional seconds
// are accepted by time.Parse even though the layouts omit them.
var naiveStampLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// NewStamp records t.
func NewStamp(t time.Time) *Stamp {
	s := Stamp(t.Format(time.RFC3339Nano))
	return &s
}

// Time parses the stamp. Timestamps without a zone are read as local time.
func (s Stamp) Time() (time.Time, bool) {
	value := strings.TrimSpace(string(s))
	if value == "" {
		return time.Time{}, false
	}
	if parsed, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return parsed, true
	}
	for _, layout := range naiveStampLayouts {
		if parsed, err := time.ParseInLocation(layout, value, time.Local); err == nil {
			return parsed, true
		}
	}
	return time.Time{}, false
}

// stampTime parses an optional stamp.
func stampTime(s *Stamp) (time.Time, bool) {
	if s == nil {
		return time.Time{}, false
	}
	return s.Time()
}
