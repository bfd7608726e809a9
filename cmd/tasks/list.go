package main

import (
	"fmt"
	"strings"

	"github.com/amonks/taskboard/internal/listflags"
	"github.com/amonks/taskboard/task"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List tasks",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

var (
	listView string
	listSort string
	listJSON bool
)

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Show overdue, pending and completed tasks",
	Args:  cobra.NoArgs,
	RunE:  runDashboard,
}

var (
	dashboardSort string
	dashboardJSON bool
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Find tasks whose title or description contains query",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runSearch,
}

var searchJSON bool

func init() {
	rootCmd.AddCommand(listCmd, dashboardCmd, searchCmd)

	listflags.AddViewFlag(listCmd, &listView)
	listflags.AddSortFlag(listCmd, &listSort)
	listflags.AddJSONFlag(listCmd, &listJSON)

	listflags.AddSortFlag(dashboardCmd, &dashboardSort)
	listflags.AddJSONFlag(dashboardCmd, &dashboardJSON)

	listflags.AddJSONFlag(searchCmd, &searchJSON)
}

// parseSortFlag validates --sort. Empty means the configured default.
func parseSortFlag(value string) (task.SortMode, error) {
	if strings.TrimSpace(value) == "" {
		return "", nil
	}
	return task.ParseSortMode(value)
}

func runList(cmd *cobra.Command, _ []string) error {
	view, err := task.ParseViewName(listView)
	if err != nil {
		return err
	}
	mode, err := parseSortFlag(listSort)
	if err != nil {
		return err
	}

	a, err := openApp(cmd, openOptions{})
	if err != nil {
		return err
	}
	defer a.Close()

	items, err := a.svc.View(cmd.Context(), view, mode)
	if err != nil {
		return err
	}
	if listJSON {
		return encodeJSONToStdout(items)
	}
	if len(items) == 0 {
		fmt.Println(emptyViewMessage(view))
		return nil
	}
	fmt.Print(formatTaskTable(items, a.prefixLengths(cmd.Context())))
	return nil
}

func emptyViewMessage(view task.ViewName) string {
	switch view {
	case task.ViewPending:
		return "No pending tasks."
	case task.ViewAll:
		return "No tasks."
	default:
		return fmt.Sprintf("No %s tasks.", view)
	}
}

func runDashboard(cmd *cobra.Command, _ []string) error {
	mode, err := parseSortFlag(dashboardSort)
	if err != nil {
		return err
	}

	a, err := openApp(cmd, openOptions{})
	if err != nil {
		return err
	}
	defer a.Close()

	dashboard := a.svc.Dashboard(cmd.Context(), mode)
	if dashboardJSON {
		return encodeJSONToStdout(dashboard)
	}

	prefixLengths := a.prefixLengths(cmd.Context())
	sections := []struct {
		title string
		items []task.Annotated
	}{
		{title: "Overdue", items: dashboard.Overdue},
		{title: "Pending", items: dashboard.Pending},
		{title: "Completed", items: dashboard.Completed},
	}
	for _, section := range sections {
		fmt.Printf("%s (%d)\n", section.title, len(section.items))
		if len(section.items) > 0 {
			fmt.Print(formatTaskTable(section.items, prefixLengths))
		}
		fmt.Println()
	}
	fmt.Printf("%d active, %d saved, %d deleted (sorted by %s)\n", dashboard.Total, dashboard.SavedCount, dashboard.DeletedCount, dashboard.Sort)
	return nil
}

func runSearch(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd, openOptions{})
	if err != nil {
		return err
	}
	defer a.Close()

	items := a.svc.Search(cmd.Context(), strings.Join(args, " "))
	if searchJSON {
		return encodeJSONToStdout(items)
	}
	if len(items) == 0 {
		fmt.Println("No matching tasks.")
		return nil
	}
	fmt.Print(formatTaskTable(items, a.prefixLengths(cmd.Context())))
	return nil
}
