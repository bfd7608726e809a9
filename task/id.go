package task

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/amonks/taskboard/internal/ids"
	internalstrings "github.com/amonks/taskboard/internal/strings"
)

// refIDPrefix forces a ref to be read as an ID even when it is all digits.
const refIDPrefix = "id:"

// GenerateID creates an 8-character ID from a title and timestamp.
func GenerateID(title string, timestamp time.Time) string {
	return ids.GenerateWithTimestamp(title, timestamp, ids.DefaultLength)
}

// newTaskID generates an ID that no task in tasks uses yet. All-digit IDs
// are skipped so they never read as a position.
func newTaskID(tasks []Task, title string, now time.Time) string {
	taken := make(map[string]bool, len(tasks))
	for _, t := range tasks {
		taken[strings.ToLower(t.ID)] = true
	}
	return ids.GenerateUnique(title, now, ids.DefaultLength, func(id string) bool {
		return taken[id] || internalstrings.IsDigits(id)
	})
}

// AssignMissingIDs gives every task without an ID a fresh one and reports
// whether any changed.
func AssignMissingIDs(tasks []Task, now time.Time) bool {
	changed := false
	for i := range tasks {
		if strings.TrimSpace(tasks[i].ID) != "" {
			continue
		}
		tasks[i].ID = newTaskID(tasks, tasks[i].Title+"#"+strconv.Itoa(i), now)
		changed = true
	}
	return changed
}

// IDIndex indexes task IDs for prefix matching and display.
type IDIndex struct {
	ids []string
}

// NewIDIndex builds an IDIndex from a slice of tasks.
func NewIDIndex(tasks []Task) IDIndex {
	taskIDs := make([]string, 0, len(tasks))
	for _, t := range tasks {
		taskIDs = append(taskIDs, t.ID)
	}
	return IDIndex{ids: ids.NormalizeUniqueIDs(taskIDs)}
}

// Resolve returns the full task ID for a prefix.
func (index IDIndex) Resolve(prefix string) (string, error) {
	if prefix == "" {
		return "", ErrTaskNotFound
	}

	match, found, ambiguous := ids.MatchPrefixNormalized(index.ids, prefix)
	if !found {
		return "", fmt.Errorf("%w: %s", ErrTaskNotFound, prefix)
	}
	if ambiguous {
		return "", fmt.Errorf("%w: %s", ErrAmbiguousTaskIDPrefix, prefix)
	}

	return match, nil
}

// PrefixLengths returns the shortest unique prefix length for each ID.
func (index IDIndex) PrefixLengths() map[string]int {
	return ids.UniquePrefixLengthsNormalized(index.ids)
}

// ResolveRef turns a user-supplied reference into a 1-based position.
// Integer refs (including negative ones) are positions; anything else is an
// ID or unique ID prefix.
// A leading "id:" forces an ID lookup.
func ResolveRef(tasks []Task, ref string) (int, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return 0, ErrTaskNotFound
	}

	if internalstrings.IsInteger(ref) {
		idx, err := strconv.Atoi(ref)
		if err != nil {
			return 0, fmt.Errorf("%w: %s", ErrIndexOutOfRange, ref)
		}
		if err := checkIndex(tasks, idx); err != nil {
			return 0, err
		}
		return idx, nil
	}

	ref = strings.TrimPrefix(ref, refIDPrefix)
	id, err := NewIDIndex(tasks).Resolve(ref)
	if err != nil {
		return 0, err
	}
	for i, t := range tasks {
		if strings.EqualFold(t.ID, id) {
			return i + 1, nil
		}
	}
	return 0, fmt.Errorf("%w: %s", ErrTaskNotFound, ref)
}

// ResolveRefs resolves every ref, failing on the first that does not match.
func ResolveRefs(tasks []Task, refs []string) ([]int, error) {
	positions := make([]int, 0, len(refs))
	for _, ref := range refs {
		idx, err := ResolveRef(tasks, ref)
		if err != nil {
			return nil, err
		}
		positions = append(positions, idx)
	}
	return positions, nil
}

func checkIndex(tasks []Task, idx int) error {
	if idx < 1 || idx > len(tasks) {
		return fmt.Errorf("%w: %d (have %d)", ErrIndexOutOfRange, idx, len(tasks))
	}
	return nil
}
