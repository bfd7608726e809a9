package main

import (
	"fmt"

	"github.com/amonks/taskboard/internal/listflags"
	"github.com/amonks/taskboard/internal/paths"
	"github.com/amonks/taskboard/internal/ui"
	"github.com/amonks/taskboard/task"
	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Record current priorities and report tasks whose priority changed",
	Long: `Record current priorities and report tasks whose priority changed.

Each change since the previous check is printed, logged, and appended to
the transition event log ([notify] events-file).`,
	Args: cobra.NoArgs,
	RunE: runCheck,
}

var checkJSON bool

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Show recorded priority transitions",
	Args:  cobra.NoArgs,
	RunE:  runEvents,
}

var eventsJSON bool

func init() {
	rootCmd.AddCommand(checkCmd, eventsCmd)

	listflags.AddJSONFlag(checkCmd, &checkJSON)
	listflags.AddJSONFlag(eventsCmd, &eventsJSON)
}

func runCheck(cmd *cobra.Command, _ []string) error {
	a, err := openApp(cmd, openOptions{withEvents: true})
	if err != nil {
		return err
	}
	defer a.Close()

	events, err := a.svc.CheckTransitions(cmd.Context())
	if err != nil {
		return err
	}
	if checkJSON {
		if events == nil {
			events = []task.TransitionEvent{}
		}
		return encodeJSONToStdout(events)
	}
	if len(events) == 0 {
		fmt.Println("No priority changes.")
		return nil
	}
	fmt.Print(formatTransitionTable(events))
	return nil
}

func runEvents(cmd *cobra.Command, _ []string) error {
	a, err := openApp(cmd, openOptions{})
	if err != nil {
		return err
	}
	defer a.Close()

	path, err := paths.ResolveWithDefault(a.cfg.Notify.EventsFile, paths.DefaultEventsPath)
	if err != nil {
		return err
	}
	events, err := task.EventSnapshot(path)
	if err != nil {
		return fmt.Errorf("read events: %w", err)
	}
	if eventsJSON {
		return encodeJSONToStdout(events)
	}
	if len(events) == 0 {
		fmt.Println("No recorded transitions.")
		return nil
	}
	fmt.Print(formatTransitionTable(events))
	return nil
}

func formatTransitionTable(events []task.TransitionEvent) string {
	builder := ui.NewTableBuilder([]string{"WHEN", "ID", "FROM", "TO", "DUE", "TITLE"}, len(events))
	for _, event := range events {
		builder.AddRow([]string{
			event.Timestamp.Local().Format("2006-01-02 15:04"),
			event.TaskID,
			ui.FormatPriority(event.From),
			ui.FormatPriority(event.To),
			event.Due,
			ui.TruncateTableCell(event.Title),
		})
	}
	return builder.String()
}
