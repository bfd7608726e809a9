package task

import "time"

// NextDue returns the due date of the occurrence after due. It reports
// false for one-off tasks and for due dates that do not parse.
//
// Monthly and yearly steps keep the day of month, clamped to the length of
// the target month: 01/31 steps to 02/28 (or 02/29), and 02/29 steps to
// 02/28 in a non-leap year.
func NextDue(due string, r Recurrence) (string, bool) {
	if !r.Repeats() {
		return "", false
	}
	date, ok := ParseDue(due)
	if !ok {
		return "", false
	}

	var next time.Time
	switch r {
	case RecurrenceDaily:
		next = date.AddDate(0, 0, 1)
	case RecurrenceWeekly:
		next = date.AddDate(0, 0, 7)
	case RecurrenceMonthly:
		next = addMonthsClamped(date, 1)
	case RecurrenceYearly:
		next = addMonthsClamped(date, 12)
	default:
		return "", false
	}
	return FormatDue(next), true
}

// Expand builds the follow-up occurrence of a repeating task. The new task
// copies the title, description and pattern, takes the next due date, and
// starts with every status flag cleared. The ID is left empty for the
// caller to assign.
func Expand(t Task, now time.Time) (Task, bool) {
	nextDue, ok := NextDue(t.Due, t.Recurrence)
	if !ok {
		return Task{}, false
	}
	return Task{
		Title:       t.Title,
		Due:         nextDue,
		Description: t.Description,
		Recurrence:  t.Recurrence,
		CreatedAt:   NewStamp(now),
	}, true
}

func addMonthsClamped(date time.Time, months int) time.Time {
	year, month, day := date.Date()
	first := time.Date(year, month+time.Month(months), 1, 0, 0, 0, 0, time.UTC)
	if last := daysInMonth(first); day > last {
		day = last
	}
	return time.Date(first.Year(), first.Month(), day, 0, 0, 0, 0, time.UTC)
}

func daysInMonth(date time.Time) int {
	return time.Date(date.Year(), date.Month()+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
