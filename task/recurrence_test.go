package task

import "testing"

func TestNextDue(t *testing.T) {
	cases := []struct {
		name       string
		due        string
		recurrence Recurrence
		expected   string
	}{
		{"daily", "02/10/2026", RecurrenceDaily, "02/11/2026"},
		{"daily year end", "12/31/2026", RecurrenceDaily, "01/01/2027"},
		{"weekly", "02/25/2026", RecurrenceWeekly, "03/04/2026"},
		{"monthly", "02/01/2026", RecurrenceMonthly, "03/01/2026"},
		{"monthly december", "12/15/2026", RecurrenceMonthly, "01/15/2027"},
		{"monthly clamps to february", "01/31/2026", RecurrenceMonthly, "02/28/2026"},
		{"monthly clamps to leap day", "01/31/2028", RecurrenceMonthly, "02/29/2028"},
		{"monthly clamps to april", "03/31/2026", RecurrenceMonthly, "04/30/2026"},
		{"yearly", "06/15/2026", RecurrenceYearly, "06/15/2027"},
		{"yearly leap day", "02/29/2028", RecurrenceYearly, "02/28/2029"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := NextDue(tc.due, tc.recurrence)
			if !ok {
				t.Fatalf("expected next due date")
			}
			if got != tc.expected {
				t.Fatalf("expected %s, got %s", tc.expected, got)
			}
		})
	}
}

func TestNextDueWithoutOccurrence(t *testing.T) {
	cases := []struct {
		due        string
		recurrence Recurrence
	}{
		{"02/10/2026", RecurrenceNone},
		{"02/10/2026", ""},
		{"02/30/2026", RecurrenceMonthly},
		{"not a date", RecurrenceDaily},
		{"02/10/2026", Recurrence("hourly")},
	}
	for _, tc := range cases {
		if got, ok := NextDue(tc.due, tc.recurrence); ok {
			t.Fatalf("NextDue(%q, %q): expected no occurrence, got %s", tc.due, tc.recurrence, got)
		}
	}
}

func TestExpandResetsFlags(t *testing.T) {
	source := Task{
		ID:          "abcdefgh",
		Title:       "Water plants",
		Due:         "02/01/2026",
		Description: "all of them",
		Completed:   true,
		CompletedAt: NewStamp(testNow),
		Saved:       true,
		SavedAt:     NewStamp(testNow),
		Recurrence:  RecurrenceWeekly,
	}

	next, ok := Expand(source, testNow)
	if !ok {
		t.Fatalf("expected expansion")
	}
	if next.ID != "" {
		t.Fatalf("expected empty ID, got %s", next.ID)
	}
	if next.Title != source.Title || next.Description != source.Description || next.Recurrence != source.Recurrence {
		t.Fatalf("expected copied fields, got %+v", next)
	}
	if next.Due != "02/08/2026" {
		t.Fatalf("expected due 02/08/2026, got %s", next.Due)
	}
	if next.Completed || next.CompletedAt != nil || next.Saved || next.SavedAt != nil || next.Deleted || next.DeletedAt != nil {
		t.Fatalf("expected default flags, got %+v", next)
	}
	if next.CreatedAt == nil {
		t.Fatalf("expected created_at to be set")
	}
}
