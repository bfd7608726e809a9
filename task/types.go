// Package task implements the lifecycle, priority and cleanup engine for a
// personal task list.
//
// Tasks live in a flat, ordered collection. Each record carries a due date
// and a handful of status flags (completed, deleted, saved). Priority is
// never stored: it is derived from the due date every time it is read.
// Completed and deleted tasks are purged automatically once they have sat in
// that state long enough, and completing a repeating task appends its next
// occurrence.
//
// The pure functions in this package (Add, ToggleComplete, BuildView, ...)
// operate on a []Task. Service wraps them in a load/modify/save cycle
// against a Store.
package task

// Priority is the urgency tier derived from a due date.
type Priority string

const (
	// PriorityOverdue means the due date has passed.
	PriorityOverdue Priority = "OVERDUE"

	// PriorityHigh means the task is due within three days.
	PriorityHigh Priority = "HIGH"

	// PriorityMedium means the task is due within a week.
	PriorityMedium Priority = "MEDIUM"

	// PriorityLow means the task is due more than a week out.
	PriorityLow Priority = "LOW"

	// PriorityNone is reported when the due date cannot be parsed.
	PriorityNone Priority = "N/A"
)

// ValidPriorities returns all priority tiers in urgency order.
func ValidPriorities() []Priority {
	return []Priority{PriorityOverdue, PriorityHigh, PriorityMedium, PriorityLow, PriorityNone}
}

// IsValid returns true if the priority is a known tier.
func (p Priority) IsValid() bool {
	for _, valid := range ValidPriorities() {
		if p == valid {
			return true
		}
	}
	return false
}

// Weight returns the sort weight of a priority. Lower is more urgent.
func (p Priority) Weight() int {
	switch p {
	case PriorityOverdue:
		return 0
	case PriorityHigh:
		return 1
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 3
	default:
		return 4
	}
}

// Color returns the display color class for a priority.
func (p Priority) Color() string {
	switch p {
	case PriorityOverdue:
		return "danger"
	case PriorityHigh:
		return "warning"
	case PriorityMedium:
		return "info"
	case PriorityLow:
		return "success"
	default:
		return "secondary"
	}
}

// IsUrgent reports whether the priority belongs in the high-priority digest.
func (p Priority) IsUrgent() bool {
	return p == PriorityHigh || p == PriorityOverdue
}

// PriorityPtr returns a pointer to the provided priority.
func PriorityPtr(p Priority) *Priority {
	return &p
}

// Recurrence is the repeat pattern of a task.
type Recurrence string

const (
	// RecurrenceNone marks a one-off task. The empty string means the same.
	RecurrenceNone Recurrence = "none"

	// RecurrenceDaily repeats the next day.
	RecurrenceDaily Recurrence = "daily"

	// RecurrenceWeekly repeats seven days later.
	RecurrenceWeekly Recurrence = "weekly"

	// RecurrenceMonthly repeats on the same day of the next month.
	RecurrenceMonthly Recurrence = "monthly"

	// RecurrenceYearly repeats on the same day of the next year.
	RecurrenceYearly Recurrence = "yearly"
)

// ValidRecurrences returns all valid recurrence values.
func ValidRecurrences() []Recurrence {
	return []Recurrence{RecurrenceNone, RecurrenceDaily, RecurrenceWeekly, RecurrenceMonthly, RecurrenceYearly}
}

// IsValid returns true if the recurrence is known. The empty value is valid.
func (r Recurrence) IsValid() bool {
	if r == "" {
		return true
	}
	for _, valid := range ValidRecurrences() {
		if r == valid {
			return true
		}
	}
	return false
}

// Repeats reports whether completing a task with this pattern schedules
// another occurrence.
func (r Recurrence) Repeats() bool {
	return r != "" && r != RecurrenceNone
}

// BulkAction is an action applied to many tasks at once.
type BulkAction string

const (
	// BulkDelete permanently removes every selected task.
	BulkDelete BulkAction = "delete"

	// BulkComplete marks every selected task completed.
	BulkComplete BulkAction = "complete"
)

// ValidBulkActions returns all valid bulk actions.
func ValidBulkActions() []BulkAction {
	return []BulkAction{BulkDelete, BulkComplete}
}
