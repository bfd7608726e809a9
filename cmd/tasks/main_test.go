package main

import (
	"strings"
	"testing"

	"github.com/amonks/taskboard/task"
	"github.com/spf13/cobra"
)

func TestTaskFlagAliasesUseSingleFlag(t *testing.T) {
	var description, repeat string
	cmd := &cobra.Command{Use: "example"}
	aliasTaskFlags(cmd)
	cmd.Flags().StringVarP(&description, "description", "d", "", "Example description")
	cmd.Flags().StringVarP(&repeat, "repeat", "r", "", "Example repeat")

	if err := cmd.Flags().Set("desc", "Hello"); err != nil {
		t.Fatalf("set desc alias: %v", err)
	}
	if description != "Hello" {
		t.Fatalf("expected description to be set via alias, got %q", description)
	}
	if !cmd.Flags().Changed("description") {
		t.Fatal("expected description flag to be marked as changed")
	}
	if err := cmd.Flags().Set("recurrence", "weekly"); err != nil {
		t.Fatalf("set recurrence alias: %v", err)
	}
	if repeat != "weekly" {
		t.Fatalf("expected repeat to be set via alias, got %q", repeat)
	}
	usage := cmd.Flags().FlagUsages()
	if strings.Contains(usage, "--desc ") || strings.Contains(usage, "--recurrence") {
		t.Fatalf("did not expect aliases to appear in usage, got %q", usage)
	}
}

func TestResolveDescriptionFromStdin(t *testing.T) {
	value, err := resolveDescriptionFromStdin("-", strings.NewReader("from stdin\r\n"))
	if err != nil {
		t.Fatalf("resolve description: %v", err)
	}
	if value != "from stdin" {
		t.Fatalf("expected trimmed stdin, got %q", value)
	}

	value, err = resolveDescriptionFromStdin("literal", strings.NewReader("ignored"))
	if err != nil {
		t.Fatalf("resolve description: %v", err)
	}
	if value != "literal" {
		t.Fatalf("expected literal value, got %q", value)
	}
}

func TestShouldUseEditEditor(t *testing.T) {
	tests := []struct {
		name        string
		hasFlags    bool
		forceEdit   bool
		noEdit      bool
		interactive bool
		want        bool
	}{
		{name: "interactive without flags", interactive: true, want: true},
		{name: "not interactive", want: false},
		{name: "flags skip editor", hasFlags: true, interactive: true, want: false},
		{name: "edit forces editor", hasFlags: true, forceEdit: true, want: true},
		{name: "no-edit wins over terminal", noEdit: true, interactive: true, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := shouldUseEditEditor(tt.hasFlags, tt.forceEdit, tt.noEdit, tt.interactive)
			if got != tt.want {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestParseSortFlag(t *testing.T) {
	mode, err := parseSortFlag("  ")
	if err != nil || mode != "" {
		t.Fatalf("expected empty mode for blank flag, got %q, %v", mode, err)
	}
	mode, err = parseSortFlag("Alpha-Desc")
	if err != nil || mode != task.SortAlphaDesc {
		t.Fatalf("expected alpha-desc, got %q, %v", mode, err)
	}
	if _, err := parseSortFlag("sideways"); err == nil {
		t.Fatal("expected error for unknown sort mode")
	}
}

func TestTaskStatus(t *testing.T) {
	tests := []struct {
		task task.Task
		want string
	}{
		{task: task.Task{}, want: "open"},
		{task: task.Task{Completed: true}, want: "done"},
		{task: task.Task{Saved: true}, want: "saved"},
		{task: task.Task{Completed: true, Saved: true}, want: "done,saved"},
		{task: task.Task{Deleted: true, Saved: true}, want: "deleted"},
	}
	for _, tt := range tests {
		if got := taskStatus(tt.task); got != tt.want {
			t.Fatalf("expected %q for %+v, got %q", tt.want, tt.task, got)
		}
	}
}

func TestFormatTaskTable(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	items := []task.Annotated{
		{Task: task.Task{ID: "abcdefgh", Title: "Water plants", Due: "01/01/2099", Recurrence: task.RecurrenceWeekly}, Index: 1, Priority: task.PriorityLow},
		{Task: task.Task{ID: "abzzzzzz", Title: "Pay rent", Due: "01/01/2000", Completed: true}, Index: 2, Priority: task.PriorityOverdue},
	}

	output := formatTaskTable(items, idPrefixLengths(items))
	lines := strings.Split(strings.TrimRight(output, "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header and two rows, got %q", output)
	}
	if fields := strings.Fields(lines[0]); strings.Join(fields, " ") != "IDX ID PRIORITY DUE STATUS TITLE" {
		t.Fatalf("unexpected header %q", lines[0])
	}
	if !strings.HasSuffix(lines[1], "Water plants (weekly)") {
		t.Fatalf("expected repeat pattern in title, got %q", lines[1])
	}
	if fields := strings.Fields(lines[2]); fields[2] != "OVERDUE" || fields[4] != "done" {
		t.Fatalf("unexpected row %q", lines[2])
	}
}

func TestFormatPlan(t *testing.T) {
	days := 3
	plan := task.Plan{
		Title:       "Write report",
		Description: "quarterly numbers",
		Breakdown: []task.PlanStep{
			{Step: "Step 1: Concrete subtask toward completion", DueBy: "2026-02-11", EstMinutes: 60},
		},
		DaysRemaining: &days,
	}

	output := formatPlan(plan, 80)
	for _, want := range []string{
		"Plan: Write report\n",
		"  quarterly numbers\n",
		"Days remaining: 3\n",
		"1. Step 1: Concrete subtask toward completion (by 2026-02-11, ~60m)\n",
	} {
		if !strings.Contains(output, want) {
			t.Fatalf("expected %q in plan output, got %q", want, output)
		}
	}

	plan.DaysRemaining = nil
	if output := formatPlan(plan, 80); !strings.Contains(output, "Days remaining: unknown") {
		t.Fatalf("expected unknown days, got %q", output)
	}
}

func TestJoinIntsAscending(t *testing.T) {
	if got := joinInts([]int{42, 7, 3}); got != "3, 7, 42" {
		t.Fatalf("expected ascending list, got %q", got)
	}
}

func TestEmptyViewMessage(t *testing.T) {
	if got := emptyViewMessage(task.ViewPending); got != "No pending tasks." {
		t.Fatalf("unexpected message %q", got)
	}
	if got := emptyViewMessage(task.ViewDeleted); got != "No deleted tasks." {
		t.Fatalf("unexpected message %q", got)
	}
}
