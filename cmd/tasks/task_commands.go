package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/amonks/taskboard/internal/editor"
	"github.com/amonks/taskboard/task"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// tasks add
var addCmd = &cobra.Command{
	Use:   "add [title]",
	Short: "Add a task",
	Long: `Add a task.

By default, opens $EDITOR to edit a TOML representation of the task
when running interactively. Use --no-edit to skip the editor, or
--edit to force opening the editor even when not interactive.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAdd,
}

var (
	addDue         string
	addDescription string
	addRepeat      string
	addEdit        bool
	addNoEdit      bool
)

// tasks edit
var editCmd = &cobra.Command{
	Use:   "edit <ref>",
	Short: "Change a task's title, due date, description or repeat",
	Long: `Change a task's title, due date, description or repeat.

A ref is a 1-based position or a task ID prefix. Without update flags,
opens $EDITOR when running interactively.`,
	Args: cobra.ExactArgs(1),
	RunE: runEdit,
}

var (
	editTitle       string
	editDue         string
	editDescription string
	editRepeat      string
	editEdit        bool
	editNoEdit      bool
)

var completeCmd = &cobra.Command{
	Use:   "complete <ref>",
	Short: "Toggle a task's completed state",
	Args:  cobra.ExactArgs(1),
	RunE:  runComplete,
}

var deleteCmd = &cobra.Command{
	Use:   "delete <ref>",
	Short: "Move a task to the trash, or remove it with --permanent",
	Args:  cobra.ExactArgs(1),
	RunE:  runDelete,
}

var deletePermanent bool

var restoreCmd = &cobra.Command{
	Use:   "restore <ref>",
	Short: "Restore a deleted task",
	Args:  cobra.ExactArgs(1),
	RunE:  runRestore,
}

var saveCmd = &cobra.Command{
	Use:   "save <ref>",
	Short: "Bookmark a task",
	Args:  cobra.ExactArgs(1),
	RunE:  runSave,
}

var unsaveCmd = &cobra.Command{
	Use:   "unsave <ref>",
	Short: "Remove a task's bookmark",
	Args:  cobra.ExactArgs(1),
	RunE:  runUnsave,
}

var bulkCmd = &cobra.Command{
	Use:   "bulk <delete|complete> <ref>...",
	Short: "Permanently delete or complete several tasks at once",
	Long: `Permanently delete or complete several tasks at once.

Positions refer to the collection before any change is made, and
positions that are out of range are skipped.`,
	Args: cobra.MinimumNArgs(2),
	RunE: runBulk,
}

func init() {
	rootCmd.AddCommand(addCmd, editCmd, completeCmd, deleteCmd, restoreCmd, saveCmd, unsaveCmd, bulkCmd)

	addCmd.Flags().StringVar(&addDue, "due", "", "Due date (mm/dd/yyyy)")
	addCmd.Flags().StringVarP(&addDescription, "description", "d", "", "Description (use '-' to read from stdin)")
	addCmd.Flags().StringVarP(&addRepeat, "repeat", "r", "", "Repeat pattern (none, daily, weekly, monthly, yearly)")
	addCmd.Flags().BoolVarP(&addEdit, "edit", "e", false, "Open $EDITOR (default if interactive)")
	addCmd.Flags().BoolVar(&addNoEdit, "no-edit", false, "Do not open $EDITOR")

	editCmd.Flags().StringVar(&editTitle, "title", "", "New title")
	editCmd.Flags().StringVar(&editDue, "due", "", "New due date (mm/dd/yyyy)")
	editCmd.Flags().StringVarP(&editDescription, "description", "d", "", "New description (use '-' to read from stdin)")
	editCmd.Flags().StringVarP(&editRepeat, "repeat", "r", "", "New repeat pattern")
	editCmd.Flags().BoolVarP(&editEdit, "edit", "e", false, "Open $EDITOR (default if interactive and no flags)")
	editCmd.Flags().BoolVar(&editNoEdit, "no-edit", false, "Do not open $EDITOR")

	deleteCmd.Flags().BoolVar(&deletePermanent, "permanent", false, "Remove the task instead of moving it to the trash")

	aliasTaskFlags(addCmd, editCmd)
}

// taskFlagAliases maps hidden spellings to the canonical add/edit flags.
var taskFlagAliases = map[string]string{
	"desc":       "description",
	"recurrence": "repeat",
}

func aliasTaskFlags(cmds ...*cobra.Command) {
	for _, cmd := range cmds {
		flags := cmd.Flags()
		normalize := flags.GetNormalizeFunc()
		flags.SetNormalizeFunc(func(f *pflag.FlagSet, name string) pflag.NormalizedName {
			if canonical, ok := taskFlagAliases[name]; ok {
				name = canonical
			}
			return normalize(f, name)
		})
	}
}

func resolveDescriptionFromStdin(description string, reader io.Reader) (string, error) {
	if description != "-" {
		return description, nil
	}

	input, err := io.ReadAll(reader)
	if err != nil {
		return "", fmt.Errorf("read description from stdin: %w", err)
	}

	value := strings.TrimRight(string(input), "\r\n")
	return value, nil
}

func runAdd(cmd *cobra.Command, args []string) error {
	if cmd.Flags().Changed("description") {
		desc, err := resolveDescriptionFromStdin(addDescription, os.Stdin)
		if err != nil {
			return err
		}
		addDescription = desc
	}

	opts := task.AddOptions{
		Due:         addDue,
		Description: addDescription,
		Recurrence:  task.Recurrence(addRepeat),
	}
	if len(args) > 0 {
		opts.Title = args[0]
	}

	// Determine whether to open editor:
	// - --edit forces editor
	// - --no-edit skips editor
	// - otherwise, open editor if interactive
	useEditor := addEdit || (!addNoEdit && editor.IsInteractive())
	if useEditor {
		due := addDue
		if due == "" {
			due = task.FormatDue(time.Now())
		}
		data := editor.DefaultCreateData(due)
		data.Title = opts.Title
		data.Description = opts.Description
		if addRepeat != "" {
			data.Recurrence = addRepeat
		}
		parsed, err := editor.EditTask(data)
		if err != nil {
			return err
		}
		opts = parsed.AddOptions()
	} else if len(args) == 0 {
		return fmt.Errorf("title is required (use --edit to open editor)")
	}

	a, err := openApp(cmd, openOptions{})
	if err != nil {
		return err
	}
	defer a.Close()

	created, err := a.svc.Add(cmd.Context(), opts)
	if err != nil {
		return err
	}

	fmt.Printf("Added task %s: %s (due %s)\n", a.highlight(cmd, created.ID), created.Title, created.Due)
	return nil
}

func runEdit(cmd *cobra.Command, args []string) error {
	if cmd.Flags().Changed("description") {
		desc, err := resolveDescriptionFromStdin(editDescription, os.Stdin)
		if err != nil {
			return err
		}
		editDescription = desc
	}

	a, err := openApp(cmd, openOptions{})
	if err != nil {
		return err
	}
	defer a.Close()

	hasFlags := cmd.Flags().Changed("title") ||
		cmd.Flags().Changed("due") ||
		cmd.Flags().Changed("description") ||
		cmd.Flags().Changed("repeat")

	var opts task.EditOptions
	if shouldUseEditEditor(hasFlags, editEdit, editNoEdit, editor.IsInteractive()) {
		existing, err := a.svc.Show(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		data := editor.DataFromTask(existing.Task)
		if cmd.Flags().Changed("title") {
			data.Title = editTitle
		}
		if cmd.Flags().Changed("due") {
			data.Due = editDue
		}
		if cmd.Flags().Changed("description") {
			data.Description = editDescription
		}
		if cmd.Flags().Changed("repeat") {
			data.Recurrence = editRepeat
		}
		parsed, err := editor.EditTask(data)
		if err != nil {
			return err
		}
		opts = parsed.EditOptions()
	} else {
		if !hasFlags {
			return fmt.Errorf("nothing to change (use --title, --due, --description, --repeat or --edit)")
		}
		opts = editOptionsFromFlags(cmd)
	}

	updated, err := a.svc.Edit(cmd.Context(), args[0], opts)
	if err != nil {
		return err
	}
	fmt.Printf("Updated task %s: %s (due %s)\n", a.highlight(cmd, updated.ID), updated.Title, updated.Due)
	return nil
}

func shouldUseEditEditor(hasFlags, forceEdit, noEdit, interactive bool) bool {
	if forceEdit {
		return true
	}
	if noEdit || hasFlags {
		return false
	}
	return interactive
}

func editOptionsFromFlags(cmd *cobra.Command) task.EditOptions {
	var opts task.EditOptions
	if cmd.Flags().Changed("title") {
		opts.Title = &editTitle
	}
	if cmd.Flags().Changed("due") {
		opts.Due = &editDue
	}
	if cmd.Flags().Changed("description") {
		opts.Description = &editDescription
	}
	if cmd.Flags().Changed("repeat") {
		recurrence := task.Recurrence(editRepeat)
		opts.Recurrence = &recurrence
	}
	return opts
}

func runComplete(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd, openOptions{})
	if err != nil {
		return err
	}
	defer a.Close()

	result, err := a.svc.ToggleComplete(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	if result.Completed {
		fmt.Printf("Completed task %s: %s\n", a.highlight(cmd, result.Task.ID), result.Task.Title)
	} else {
		fmt.Printf("Reopened task %s: %s\n", a.highlight(cmd, result.Task.ID), result.Task.Title)
	}
	if result.Next != nil {
		fmt.Printf("Next %s occurrence %s due %s\n", result.Task.Recurrence, a.highlight(cmd, result.Next.ID), result.Next.Due)
	}
	return nil
}

func runDelete(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd, openOptions{})
	if err != nil {
		return err
	}
	defer a.Close()

	if deletePermanent {
		removed, err := a.svc.PermanentDelete(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		fmt.Printf("Permanently deleted task %s: %s\n", removed.ID, removed.Title)
		return nil
	}

	deleted, err := a.svc.SoftDelete(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	fmt.Printf("Deleted task %s: %s\n", a.highlight(cmd, deleted.ID), deleted.Title)
	return nil
}

type taskAction func(ctx context.Context, ref string) (task.Task, error)

func runRestore(cmd *cobra.Command, args []string) error {
	return runTaskAction(cmd, args[0], "Restored", func(a *app) taskAction { return a.svc.Restore })
}

func runSave(cmd *cobra.Command, args []string) error {
	return runTaskAction(cmd, args[0], "Saved", func(a *app) taskAction { return a.svc.Save })
}

func runUnsave(cmd *cobra.Command, args []string) error {
	return runTaskAction(cmd, args[0], "Unsaved", func(a *app) taskAction { return a.svc.Unsave })
}

func runTaskAction(cmd *cobra.Command, ref, verb string, pick func(*app) taskAction) error {
	a, err := openApp(cmd, openOptions{})
	if err != nil {
		return err
	}
	defer a.Close()

	changed, err := pick(a)(cmd.Context(), ref)
	if err != nil {
		return err
	}
	fmt.Printf("%s task %s: %s\n", verb, a.highlight(cmd, changed.ID), changed.Title)
	return nil
}

func runBulk(cmd *cobra.Command, args []string) error {
	action, err := task.ParseBulkAction(args[0])
	if err != nil {
		return err
	}

	a, err := openApp(cmd, openOptions{})
	if err != nil {
		return err
	}
	defer a.Close()

	result, err := a.svc.Bulk(cmd.Context(), action, args[1:])
	if err != nil {
		return err
	}

	verb := "Completed"
	if action == task.BulkDelete {
		verb = "Permanently deleted"
	}
	fmt.Printf("%s %d task(s)\n", verb, len(result.Applied))
	if len(result.Skipped) > 0 {
		fmt.Printf("Skipped out-of-range position(s): %s\n", joinInts(result.Skipped))
	}
	if result.Purged > 0 {
		fmt.Printf("Purged %d expired completed task(s)\n", result.Purged)
	}
	return nil
}

func joinInts(values []int) string {
	parts := make([]string, 0, len(values))
	for _, value := range slices.Backward(values) {
		parts = append(parts, strconv.Itoa(value))
	}
	return strings.Join(parts, ", ")
}
