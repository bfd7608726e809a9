package task

import (
	"fmt"
	"math"
	"time"
)

const (
	maxPlanSteps        = 4
	untitledPlanTitle   = "Untitled Task"
	planDescriptionHint = "Try describing the goal in one sentence, then list 3 small next actions."
)

// PlanStep is one suggested subtask.
type PlanStep struct {
	Step       string `json:"step"`
	DueBy      string `json:"due_by"`
	EstMinutes int    `json:"est_minutes"`
}

// Plan is a deterministic breakdown of a task into smaller steps.
type Plan struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Breakdown   []PlanStep `json:"breakdown"`

	// DaysRemaining is nil when the due date does not parse.
	DaysRemaining *int `json:"days_remaining"`
}

// BuildPlan suggests steps for t. A task with an unreadable due date gets a
// generic three-step plan, a task due today or overdue gets an urgent one,
// and anything else gets up to four milestones spread evenly over the days
// left. Milestone dates are yyyy-mm-dd.
func BuildPlan(t Task, now time.Time) Plan {
	plan := Plan{
		Title:       t.Title,
		Description: t.Description,
	}
	if plan.Title == "" {
		plan.Title = untitledPlanTitle
	}
	if plan.Description == "" {
		plan.Description = planDescriptionHint
	}

	days, ok := DaysRemaining(t.Due, now)
	if !ok {
		plan.Breakdown = []PlanStep{
			{Step: "Clarify goal", DueBy: "ASAP", EstMinutes: 30},
			{Step: "Research / gather resources", DueBy: "Within 2 days", EstMinutes: 90},
			{Step: "Execute first draft and review", DueBy: "Within 5 days", EstMinutes: 120},
		}
		return plan
	}
	plan.DaysRemaining = &days

	if days <= 0 {
		plan.Breakdown = []PlanStep{
			{Step: "Do the smallest possible action now (15-30m)", DueBy: "Today", EstMinutes: 30},
			{Step: "Remove one blocker preventing progress", DueBy: "Today", EstMinutes: 30},
			{Step: "Schedule follow-up and finish remaining work", DueBy: "Within 2 days", EstMinutes: 90},
		}
		return plan
	}

	steps := min(maxPlanSteps, days)
	today := dateOnly(now)
	for i := 1; i <= steps; i++ {
		offset := int(math.RoundToEven(float64(i) * float64(days) / float64(steps)))
		plan.Breakdown = append(plan.Breakdown, PlanStep{
			Step:       fmt.Sprintf("Step %d: Concrete subtask toward completion", i),
			DueBy:      today.AddDate(0, 0, offset).Format(time.DateOnly),
			EstMinutes: 60,
		})
	}
	return plan
}
