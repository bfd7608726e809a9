package main

import (
	"fmt"

	"github.com/amonks/taskboard/internal/ui"
	"github.com/amonks/taskboard/task"
)

var taskTableHeaders = []string{"IDX", "ID", "PRIORITY", "DUE", "STATUS", "TITLE"}

func formatTaskTable(items []task.Annotated, prefixLengths map[string]int) string {
	builder := ui.NewTableBuilder(taskTableHeaders, len(items))
	for _, item := range items {
		builder.AddRow(taskTableRow(item, prefixLengths))
	}
	return builder.String()
}

func taskTableRow(item task.Annotated, prefixLengths map[string]int) []string {
	title := item.Title
	if item.Recurrence.Repeats() {
		title = fmt.Sprintf("%s (%s)", title, item.Recurrence)
	}
	return []string{
		fmt.Sprintf("%d", item.Index),
		ui.HighlightID(item.ID, ui.PrefixLength(prefixLengths, item.ID)),
		ui.FormatPriority(item.Priority),
		item.Due,
		taskStatus(item.Task),
		ui.TruncateTableCell(title),
	}
}

func taskStatus(t task.Task) string {
	switch {
	case t.Deleted:
		return "deleted"
	case t.Completed && t.Saved:
		return "done,saved"
	case t.Completed:
		return "done"
	case t.Saved:
		return "saved"
	default:
		return "open"
	}
}
