package task

import "testing"

func TestBuildPlanUnknownDue(t *testing.T) {
	plan := BuildPlan(Task{Due: "whenever"}, testNow)
	if plan.Title != "Untitled Task" {
		t.Fatalf("expected placeholder title, got %q", plan.Title)
	}
	if plan.Description == "" {
		t.Fatalf("expected description hint")
	}
	if plan.DaysRemaining != nil {
		t.Fatalf("expected unknown days remaining, got %d", *plan.DaysRemaining)
	}
	if len(plan.Breakdown) != 3 || plan.Breakdown[0].DueBy != "ASAP" {
		t.Fatalf("unexpected breakdown %+v", plan.Breakdown)
	}
}

func TestBuildPlanUrgent(t *testing.T) {
	for _, days := range []int{0, -3} {
		plan := BuildPlan(Task{Title: "ship", Due: dueIn(days)}, testNow)
		if len(plan.Breakdown) != 3 || plan.Breakdown[0].DueBy != "Today" {
			t.Fatalf("days %d: unexpected breakdown %+v", days, plan.Breakdown)
		}
		if plan.DaysRemaining == nil || *plan.DaysRemaining != days {
			t.Fatalf("days %d: unexpected days remaining %v", days, plan.DaysRemaining)
		}
	}
}

func TestBuildPlanMilestones(t *testing.T) {
	cases := []struct {
		days     int
		expected []string
	}{
		{1, []string{"2026-02-11"}},
		{2, []string{"2026-02-11", "2026-02-12"}},
		// 10/4 = 2.5 rounds half to even.
		{10, []string{"2026-02-12", "2026-02-15", "2026-02-18", "2026-02-20"}},
		{6, []string{"2026-02-12", "2026-02-13", "2026-02-14", "2026-02-16"}},
	}
	for _, tc := range cases {
		plan := BuildPlan(Task{Title: "essay", Description: "five pages", Due: dueIn(tc.days)}, testNow)
		if plan.Description != "five pages" {
			t.Fatalf("expected description kept, got %q", plan.Description)
		}
		if len(plan.Breakdown) != len(tc.expected) {
			t.Fatalf("days %d: expected %d steps, got %d", tc.days, len(tc.expected), len(plan.Breakdown))
		}
		for i, step := range plan.Breakdown {
			if step.DueBy != tc.expected[i] {
				t.Fatalf("days %d step %d: expected %s, got %s", tc.days, i+1, tc.expected[i], step.DueBy)
			}
			if step.EstMinutes != 60 {
				t.Fatalf("expected 60 minute estimate, got %d", step.EstMinutes)
			}
		}
	}
}
