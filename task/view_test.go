package task

import (
	"errors"
	"reflect"
	"testing"
	"time"
)

func viewFixture() []Task {
	return []Task{
		{ID: "aaaaaaaa", Title: "pending low", Due: dueIn(10)},
		{ID: "bbbbbbbb", Title: "pending overdue", Due: dueIn(-2)},
		{ID: "cccccccc", Title: "completed", Due: dueIn(1), Completed: true, CompletedAt: NewStamp(testNow)},
		{ID: "dddddddd", Title: "saved", Due: dueIn(-5), Saved: true, SavedAt: NewStamp(testNow)},
		{ID: "eeeeeeee", Title: "deleted", Due: dueIn(2), Deleted: true, DeletedAt: NewStamp(testNow.Add(-30 * time.Hour))},
		{ID: "ffffffff", Title: "saved and deleted", Due: dueIn(2), Saved: true, SavedAt: NewStamp(testNow), Deleted: true, DeletedAt: NewStamp(testNow)},
	}
}

func indexes(items []Annotated) []int {
	out := make([]int, 0, len(items))
	for _, item := range items {
		out = append(out, item.Index)
	}
	return out
}

func TestBuildViewFilters(t *testing.T) {
	cases := []struct {
		view     ViewName
		expected []int
	}{
		{ViewPending, []int{1, 2}},
		{ViewCompleted, []int{3}},
		{ViewOverdue, []int{2}},
		{ViewSaved, []int{4}},
		{ViewDeleted, []int{5, 6}},
		{ViewAll, []int{1, 2, 3, 4, 5, 6}},
	}
	for _, tc := range cases {
		t.Run(string(tc.view), func(t *testing.T) {
			items, err := BuildView(viewFixture(), tc.view, testNow)
			if err != nil {
				t.Fatalf("build view: %v", err)
			}
			if got := indexes(items); !reflect.DeepEqual(got, tc.expected) {
				t.Fatalf("expected %v, got %v", tc.expected, got)
			}
		})
	}
}

func TestBuildViewAnnotates(t *testing.T) {
	items, err := BuildView(viewFixture(), ViewPending, testNow)
	if err != nil {
		t.Fatalf("build view: %v", err)
	}
	if items[0].Priority != PriorityLow || items[0].Color != "success" {
		t.Fatalf("unexpected annotation %+v", items[0])
	}
	if items[1].Priority != PriorityOverdue || items[1].Color != "danger" {
		t.Fatalf("unexpected annotation %+v", items[1])
	}
	if items[0].DaysUntilPermanent != nil {
		t.Fatalf("expected no countdown on a live task")
	}

	deleted, err := BuildView(viewFixture(), ViewDeleted, testNow)
	if err != nil {
		t.Fatalf("build view: %v", err)
	}
	if deleted[0].DaysUntilPermanent == nil || *deleted[0].DaysUntilPermanent != 2 {
		t.Fatalf("expected 2 days until permanent, got %v", deleted[0].DaysUntilPermanent)
	}
}

func TestBuildViewRejectsUnknownView(t *testing.T) {
	if _, err := BuildView(viewFixture(), ViewName("archived"), testNow); !errors.Is(err, ErrInvalidView) {
		t.Fatalf("expected ErrInvalidView, got %v", err)
	}
	if _, err := ParseViewName("archived"); !errors.Is(err, ErrInvalidView) {
		t.Fatalf("expected ErrInvalidView, got %v", err)
	}
	if view, err := ParseViewName(""); err != nil || view != ViewPending {
		t.Fatalf("expected empty view to mean pending, got %q (%v)", view, err)
	}
}

func TestSearchTasks(t *testing.T) {
	tasks := viewFixture()
	tasks[0].Description = "Call the PLUMBER"

	if got := SearchTasks(tasks, "", testNow); len(got) != 0 {
		t.Fatalf("expected empty query to match nothing, got %d", len(got))
	}
	if got := SearchTasks(tasks, "   ", testNow); len(got) != 0 {
		t.Fatalf("expected blank query to match nothing, got %d", len(got))
	}
	if got := indexes(SearchTasks(tasks, "plumber", testNow)); !reflect.DeepEqual(got, []int{1}) {
		t.Fatalf("expected description match, got %v", got)
	}
	// Search spans every status.
	if got := indexes(SearchTasks(tasks, "DELETED", testNow)); !reflect.DeepEqual(got, []int{5, 6}) {
		t.Fatalf("expected deleted tasks to match, got %v", got)
	}
}

func TestBuildDashboard(t *testing.T) {
	dashboard := BuildDashboard(viewFixture(), SortPriorityHigh, testNow)
	if got := indexes(dashboard.Pending); !reflect.DeepEqual(got, []int{2, 1}) {
		t.Fatalf("expected pending sorted by priority, got %v", got)
	}
	if got := indexes(dashboard.Completed); !reflect.DeepEqual(got, []int{3}) {
		t.Fatalf("unexpected completed %v", got)
	}
	if got := indexes(dashboard.Overdue); !reflect.DeepEqual(got, []int{2}) {
		t.Fatalf("unexpected overdue %v", got)
	}
	if dashboard.SavedCount != 1 || dashboard.DeletedCount != 2 || dashboard.Total != 3 {
		t.Fatalf("unexpected counts %+v", dashboard)
	}
}

func sortFixture() []Annotated {
	tasks := []Task{
		{Title: "banana", Due: dueIn(5)},
		{Title: "Apple", Due: "whenever"},
		{Title: "cherry", Due: dueIn(-1)},
		{Title: "apple", Due: dueIn(20)},
		{Title: "date", Due: dueIn(6)},
	}
	items := make([]Annotated, 0, len(tasks))
	for i, task := range tasks {
		items = append(items, Annotate(task, i+1, testNow))
	}
	return items
}

func TestSortTasks(t *testing.T) {
	cases := []struct {
		mode     SortMode
		expected []int
	}{
		{SortAlphaAsc, []int{2, 4, 1, 3, 5}},
		{SortAlphaDesc, []int{5, 3, 1, 2, 4}},
		{SortPriorityHigh, []int{3, 1, 5, 4, 2}},
		{SortPriorityLow, []int{2, 4, 1, 5, 3}},
		{SortDateOldest, []int{3, 1, 5, 4, 2}},
		{SortDateNewest, []int{2, 4, 5, 1, 3}},
		{SortMode("shuffle"), []int{1, 2, 3, 4, 5}},
	}
	for _, tc := range cases {
		t.Run(string(tc.mode), func(t *testing.T) {
			items := sortFixture()
			SortTasks(items, tc.mode)
			if got := indexes(items); !reflect.DeepEqual(got, tc.expected) {
				t.Fatalf("expected %v, got %v", tc.expected, got)
			}
		})
	}
}

func TestParseSortMode(t *testing.T) {
	mode, err := ParseSortMode("")
	if err != nil || mode != DefaultSortMode {
		t.Fatalf("expected default sort mode, got %q (%v)", mode, err)
	}
	mode, err = ParseSortMode(" Date-Newest ")
	if err != nil || mode != SortDateNewest {
		t.Fatalf("expected date-newest, got %q (%v)", mode, err)
	}
	if _, err := ParseSortMode("random"); !errors.Is(err, ErrInvalidSortMode) {
		t.Fatalf("expected ErrInvalidSortMode, got %v", err)
	}
}
