package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/amonks/taskboard/internal/listflags"
	"github.com/amonks/taskboard/internal/markdown"
	"github.com/amonks/taskboard/internal/ui"
	"github.com/amonks/taskboard/task"
	"github.com/muesli/reflow/indent"
	"github.com/muesli/reflow/wordwrap"
	"github.com/spf13/cobra"
)

var showCmd = &cobra.Command{
	Use:   "show <ref>...",
	Short: "Show detailed information about tasks",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runShow,
}

var showJSON bool

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Count tasks by state",
	Args:  cobra.NoArgs,
	RunE:  runStats,
}

var statsJSON bool

var digestCmd = &cobra.Command{
	Use:   "digest",
	Short: "List pending tasks that are due soon or overdue",
	Args:  cobra.NoArgs,
	RunE:  runDigest,
}

var digestJSON bool

var planCmd = &cobra.Command{
	Use:   "plan <ref>",
	Short: "Suggest a step-by-step breakdown of a task",
	Args:  cobra.ExactArgs(1),
	RunE:  runPlan,
}

var planJSON bool

func init() {
	rootCmd.AddCommand(showCmd, statsCmd, digestCmd, planCmd)

	listflags.AddJSONFlag(showCmd, &showJSON)
	listflags.AddJSONFlag(statsCmd, &statsJSON)
	listflags.AddJSONFlag(digestCmd, &digestJSON)
	listflags.AddJSONFlag(planCmd, &planJSON)
}

const detailLineWidth = 80

func runShow(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd, openOptions{})
	if err != nil {
		return err
	}
	defer a.Close()

	items := make([]task.Annotated, 0, len(args))
	for _, ref := range args {
		item, err := a.svc.Show(cmd.Context(), ref)
		if err != nil {
			return err
		}
		items = append(items, item)
	}

	if showJSON {
		return encodeJSONToStdout(items)
	}

	prefixLengths := a.prefixLengths(cmd.Context())
	now := time.Now()
	for i, item := range items {
		if i > 0 {
			fmt.Println("---")
		}
		printTaskDetail(item, prefixLengths, now)
	}
	return nil
}

// printTaskDetail prints detailed information about a task.
func printTaskDetail(item task.Annotated, prefixLengths map[string]int, now time.Time) {
	fmt.Printf("ID:        %s\n", ui.HighlightID(item.ID, ui.PrefixLength(prefixLengths, item.ID)))
	fmt.Printf("Position:  %d\n", item.Index)
	fmt.Printf("Title:     %s\n", item.Title)
	fmt.Printf("Due:       %s\n", item.Due)
	fmt.Printf("Priority:  %s\n", ui.FormatPriority(item.Priority))
	fmt.Printf("Status:    %s\n", taskStatus(item.Task))

	if item.Recurrence.Repeats() {
		fmt.Printf("Repeats:   %s\n", item.Recurrence)
	}
	if item.CreatedAt != nil {
		fmt.Printf("Created:   %s\n", ui.FormatStampAgo(item.CreatedAt, now))
	}
	if item.Completed {
		fmt.Printf("Completed: %s\n", ui.FormatStampAgo(item.CompletedAt, now))
	}
	if item.Saved {
		fmt.Printf("Saved:     %s\n", ui.FormatStampAgo(item.SavedAt, now))
	}
	if item.Deleted {
		fmt.Printf("Deleted:   %s\n", ui.FormatStampAgo(item.DeletedAt, now))
		if item.DaysUntilPermanent != nil {
			fmt.Printf("Purged in: %d day(s)\n", *item.DaysUntilPermanent)
		}
	}

	if item.Description != "" {
		fmt.Printf("\nDescription:\n%s\n", renderMarkdownOrDash(item.Description, detailLineWidth))
	}
}

func renderMarkdownOrDash(value string, width int) string {
	if width < 1 {
		width = 1
	}
	formatted := string(markdown.SafeRender(width, 2, []byte(value)))
	if strings.TrimSpace(formatted) == "" {
		return "-"
	}
	return strings.TrimRight(formatted, "\n")
}

func runStats(cmd *cobra.Command, _ []string) error {
	a, err := openApp(cmd, openOptions{})
	if err != nil {
		return err
	}
	defer a.Close()

	stats := a.svc.Stats(cmd.Context())
	if statsJSON {
		return encodeJSONToStdout(stats)
	}
	fmt.Printf("Total:      %d\n", stats.Total)
	fmt.Printf("Completed:  %d\n", stats.Completed)
	fmt.Printf("Incomplete: %d\n", stats.Incomplete)
	fmt.Printf("Overdue:    %d\n", stats.Overdue)
	return nil
}

func runDigest(cmd *cobra.Command, _ []string) error {
	a, err := openApp(cmd, openOptions{})
	if err != nil {
		return err
	}
	defer a.Close()

	digest := a.svc.Digest(cmd.Context())
	if digestJSON {
		return encodeJSONToStdout(digest)
	}
	if digest.Count == 0 {
		fmt.Println("Nothing urgent.")
		return nil
	}
	fmt.Printf("%d urgent task(s)\n", digest.Count)
	fmt.Print(formatTaskTable(digest.Tasks, a.prefixLengths(cmd.Context())))
	return nil
}

func runPlan(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd, openOptions{})
	if err != nil {
		return err
	}
	defer a.Close()

	plan, err := a.svc.Plan(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	if planJSON {
		return encodeJSONToStdout(plan)
	}
	fmt.Print(formatPlan(plan, detailLineWidth))
	return nil
}

func formatPlan(plan task.Plan, width int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Plan: %s\n", plan.Title)
	fmt.Fprintf(&b, "%s\n", indent.String(wordwrap.String(plan.Description, width-2), 2))
	if plan.DaysRemaining != nil {
		fmt.Fprintf(&b, "Days remaining: %d\n", *plan.DaysRemaining)
	} else {
		b.WriteString("Days remaining: unknown\n")
	}
	b.WriteString("\n")
	for i, step := range plan.Breakdown {
		line := fmt.Sprintf("%d. %s (by %s, ~%dm)", i+1, step.Step, step.DueBy, step.EstMinutes)
		wrapped := wordwrap.String(line, width)
		lines := strings.Split(wrapped, "\n")
		b.WriteString(lines[0])
		b.WriteString("\n")
		if len(lines) > 1 {
			b.WriteString(indent.String(strings.Join(lines[1:], "\n"), 3))
			b.WriteString("\n")
		}
	}
	return b.String()
}
