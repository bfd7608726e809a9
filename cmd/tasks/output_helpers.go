package main

import (
	"context"
	"encoding/json"
	"os"

	"github.com/amonks/taskboard/internal/ui"
	"github.com/amonks/taskboard/task"
	"github.com/spf13/cobra"
)

func encodeJSONToStdout(value any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(value)
}

// prefixLengths returns the unique ID prefix lengths across the whole
// collection, so a highlighted prefix is always a usable ref.
func (a *app) prefixLengths(ctx context.Context) map[string]int {
	items, err := a.svc.View(ctx, task.ViewAll, "")
	if err != nil {
		return nil
	}
	return idPrefixLengths(items)
}

func idPrefixLengths(items []task.Annotated) map[string]int {
	tasks := make([]task.Task, 0, len(items))
	for _, item := range items {
		tasks = append(tasks, item.Task)
	}
	return task.NewIDIndex(tasks).PrefixLengths()
}

// highlight renders id with its unique prefix emphasized.
func (a *app) highlight(cmd *cobra.Command, id string) string {
	return ui.HighlightID(id, ui.PrefixLength(a.prefixLengths(cmd.Context()), id))
}
