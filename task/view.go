package task

import (
	"fmt"
	"strings"
	"time"

	"github.com/amonks/taskboard/internal/validation"
)

// ViewName names a filtered view of the collection.
type ViewName string

const (
	// ViewPending lists active tasks that are not completed.
	ViewPending ViewName = "pending"

	// ViewCompleted lists active completed tasks.
	ViewCompleted ViewName = "completed"

	// ViewOverdue lists pending tasks whose due date has passed.
	ViewOverdue ViewName = "overdue"

	// ViewSaved lists saved tasks that are not deleted.
	ViewSaved ViewName = "saved"

	// ViewDeleted lists soft-deleted tasks.
	ViewDeleted ViewName = "deleted"

	// ViewAll lists every task.
	ViewAll ViewName = "all"
)

// ValidViewNames returns all valid view names.
func ValidViewNames() []ViewName {
	return []ViewName{ViewPending, ViewCompleted, ViewOverdue, ViewSaved, ViewDeleted, ViewAll}
}

// ParseViewName validates a view name. The empty string means pending.
func ParseViewName(value string) (ViewName, error) {
	value = strings.ToLower(strings.TrimSpace(value))
	if value == "" {
		return ViewPending, nil
	}
	name, ok := validation.ParseEnum(value, ValidViewNames())
	if !ok {
		return "", fmt.Errorf("%w: %q (valid: %s)", ErrInvalidView, value, validation.FormatValidValues(ValidViewNames()))
	}
	return name, nil
}

// Annotated is a task decorated for display.
type Annotated struct {
	Task

	// Index is the 1-based position of the task in the collection.
	Index int `json:"idx"`

	Priority Priority `json:"priority"`
	Color    string   `json:"priority_color"`

	// DaysUntilPermanent is set for deleted tasks with a readable deleted_at.
	DaysUntilPermanent *int `json:"days_until_permanent,omitempty"`
}

// Annotate decorates the task at the 1-based position idx.
func Annotate(t Task, idx int, now time.Time) Annotated {
	priority := PriorityFor(t.Due, now)
	item := Annotated{
		Task:     t,
		Index:    idx,
		Priority: priority,
		Color:    priority.Color(),
	}
	if days, ok := DaysUntilPermanent(t, now); ok {
		item.DaysUntilPermanent = &days
	}
	return item
}

// BuildView filters tasks into the named view, keeping collection order.
func BuildView(tasks []Task, view ViewName, now time.Time) ([]Annotated, error) {
	var include func(Task, Priority) bool
	switch view {
	case ViewPending:
		include = func(t Task, _ Priority) bool { return t.IsPending() }
	case ViewCompleted:
		include = func(t Task, _ Priority) bool { return t.IsActive() && t.Completed }
	case ViewOverdue:
		include = func(t Task, p Priority) bool { return t.IsPending() && p == PriorityOverdue }
	case ViewSaved:
		include = func(t Task, _ Priority) bool { return t.Saved && !t.Deleted }
	case ViewDeleted:
		include = func(t Task, _ Priority) bool { return t.Deleted }
	case ViewAll:
		include = func(Task, Priority) bool { return true }
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidView, view)
	}

	items := make([]Annotated, 0)
	for i, t := range tasks {
		if !include(t, PriorityFor(t.Due, now)) {
			continue
		}
		items = append(items, Annotate(t, i+1, now))
	}
	return items, nil
}

// SearchTasks returns every task whose title or description contains query,
// ignoring case. An empty query matches nothing.
func SearchTasks(tasks []Task, query string, now time.Time) []Annotated {
	query = strings.ToLower(strings.TrimSpace(query))
	items := make([]Annotated, 0)
	if query == "" {
		return items
	}
	for i, t := range tasks {
		if strings.Contains(strings.ToLower(t.Title), query) || strings.Contains(strings.ToLower(t.Description), query) {
			items = append(items, Annotate(t, i+1, now))
		}
	}
	return items
}

// Dashboard is the sectioned overview of the active tasks.
type Dashboard struct {
	Pending   []Annotated `json:"pending"`
	Completed []Annotated `json:"completed"`
	Overdue   []Annotated `json:"overdue"`

	SavedCount   int `json:"saved_count"`
	DeletedCount int `json:"deleted_count"`

	// Total counts active tasks, completed or not.
	Total int `json:"total"`

	Sort SortMode `json:"sort"`
}

// BuildDashboard builds the dashboard with each section sorted by mode.
func BuildDashboard(tasks []Task, mode SortMode, now time.Time) Dashboard {
	dashboard := Dashboard{
		Pending:   []Annotated{},
		Completed: []Annotated{},
		Overdue:   []Annotated{},
		Sort:      mode,
	}
	for i, t := range tasks {
		switch {
		case t.Deleted:
			dashboard.DeletedCount++
			continue
		case t.Saved:
			dashboard.SavedCount++
			continue
		}

		dashboard.Total++
		item := Annotate(t, i+1, now)
		if t.Completed {
			dashboard.Completed = append(dashboard.Completed, item)
			continue
		}
		dashboard.Pending = append(dashboard.Pending, item)
		if item.Priority == PriorityOverdue {
			dashboard.Overdue = append(dashboard.Overdue, item)
		}
	}

	SortTasks(dashboard.Pending, mode)
	SortTasks(dashboard.Completed, mode)
	SortTasks(dashboard.Overdue, mode)
	return dashboard
}
