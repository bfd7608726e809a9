// Package listflags registers the flags shared by listing commands.
package listflags

import (
	"fmt"

	"github.com/amonks/taskboard/internal/validation"
	"github.com/amonks/taskboard/task"
	"github.com/spf13/cobra"
)

// AddViewFlag adds --view to list commands.
func AddViewFlag(cmd *cobra.Command, target *string) {
	usage := fmt.Sprintf("Which tasks to show (%s)", validation.FormatValidValues(task.ValidViewNames()))
	cmd.Flags().StringVar(target, "view", string(task.ViewPending), usage)
}

// AddSortFlag adds --sort. An empty value means the configured default.
func AddSortFlag(cmd *cobra.Command, target *string) {
	usage := fmt.Sprintf("Sort order (%s)", validation.FormatValidValues(task.ValidSortModes()))
	cmd.Flags().StringVar(target, "sort", "", usage)
}

// AddJSONFlag adds --json for machine-readable output.
func AddJSONFlag(cmd *cobra.Command, target *bool) {
	cmd.Flags().BoolVar(target, "json", false, "Output as JSON")
}
