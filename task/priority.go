package task

import (
	"regexp"
	"time"
)

// DueLayout is the canonical due date layout (mm/dd/yyyy).
const DueLayout = "01/02/2006"

// dueParseLayout also accepts single-digit months and days when parsing.
const dueParseLayout = "1/2/2006"

// The entry format check is deliberately loose: day 00 and Feb 31 pass it,
// and PriorityFor reports N/A for them later.
var dueFormat = regexp.MustCompile(`^(0[1-9]|1[0-2])/([0-2][0-9]|3[01])/\d{4}$`)

// ValidDueFormat reports whether due matches mm/dd/yyyy with month 01-12
// and day 00-31. It does not check the date against the calendar.
func ValidDueFormat(due string) bool {
	return dueFormat.MatchString(due)
}

// ParseDue parses a due date. The result is midnight UTC on that date.
func ParseDue(due string) (time.Time, bool) {
	parsed, err := time.Parse(dueParseLayout, due)
	if err != nil {
		return time.Time{}, false
	}
	return parsed, true
}

// FormatDue formats a date as mm/dd/yyyy.
func FormatDue(date time.Time) string {
	return date.Format(DueLayout)
}

// DaysRemaining returns the number of calendar days from now's date to the
// due date. It is negative once the due date has passed.
func DaysRemaining(due string, now time.Time) (int, bool) {
	dueDate, ok := ParseDue(due)
	if !ok {
		return 0, false
	}
	return calendarDays(now, dueDate), true
}

// PriorityFor derives the priority tier of a due date as of now.
func PriorityFor(due string, now time.Time) Priority {
	days, ok := DaysRemaining(due, now)
	if !ok {
		return PriorityNone
	}
	switch {
	case days < 0:
		return PriorityOverdue
	case days <= 3:
		return PriorityHigh
	case days <= 7:
		return PriorityMedium
	default:
		return PriorityLow
	}
}

// calendarDays counts whole days between the calendar dates of from and to,
// each read in its own location.
func calendarDays(from, to time.Time) int {
	return int(dateOnly(to).Sub(dateOnly(from)).Hours() / 24)
}

func dateOnly(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
