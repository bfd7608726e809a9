package task

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/amonks/taskboard/internal/validation"
)

// SortMode orders a list of annotated tasks.
type SortMode string

const (
	SortAlphaAsc     SortMode = "alpha-asc"
	SortAlphaDesc    SortMode = "alpha-desc"
	SortPriorityHigh SortMode = "priority-high"
	SortPriorityLow  SortMode = "priority-low"
	SortDateOldest   SortMode = "date-oldest"
	SortDateNewest   SortMode = "date-newest"
)

// DefaultSortMode puts the most urgent tasks first.
const DefaultSortMode = SortPriorityHigh

// ValidSortModes returns all valid sort modes.
func ValidSortModes() []SortMode {
	return []SortMode{SortAlphaAsc, SortAlphaDesc, SortPriorityHigh, SortPriorityLow, SortDateOldest, SortDateNewest}
}

// ParseSortMode validates a sort mode. The empty string means
// DefaultSortMode.
func ParseSortMode(value string) (SortMode, error) {
	value = strings.ToLower(strings.TrimSpace(value))
	if value == "" {
		return DefaultSortMode, nil
	}
	mode, ok := validation.ParseEnum(value, ValidSortModes())
	if !ok {
		return "", fmt.Errorf("%w: %q (valid: %s)", ErrInvalidSortMode, value, validation.FormatValidValues(ValidSortModes()))
	}
	return mode, nil
}

// SortTasks sorts items in place. The sort is stable in both directions:
// items that compare equal keep their input order even in the descending
// modes. An unknown mode leaves items as they are.
func SortTasks(items []Annotated, mode SortMode) {
	var compare func(a, b Annotated) int
	switch mode {
	case SortAlphaAsc, SortAlphaDesc:
		compare = func(a, b Annotated) int {
			return strings.Compare(strings.ToLower(a.Title), strings.ToLower(b.Title))
		}
	case SortPriorityHigh, SortPriorityLow:
		compare = func(a, b Annotated) int {
			return cmp.Compare(a.Priority.Weight(), b.Priority.Weight())
		}
	case SortDateOldest, SortDateNewest:
		compare = func(a, b Annotated) int {
			return dueSortKey(a.Due).Compare(dueSortKey(b.Due))
		}
	default:
		return
	}

	if mode == SortAlphaDesc || mode == SortPriorityLow || mode == SortDateNewest {
		ascending := compare
		compare = func(a, b Annotated) int { return ascending(b, a) }
	}
	slices.SortStableFunc(items, compare)
}

// maxDue sorts after every parseable due date.
var maxDue = time.Date(9999, time.December, 31, 23, 59, 59, 0, time.UTC)

func dueSortKey(due string) time.Time {
	date, ok := ParseDue(due)
	if !ok {
		return maxDue
	}
	return date
}
