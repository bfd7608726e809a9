// Package main implements the tasks CLI tool.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/amonks/taskboard/internal/config"
	"github.com/amonks/taskboard/internal/logging"
	"github.com/amonks/taskboard/internal/paths"
	"github.com/amonks/taskboard/task"
	"github.com/amonks/taskboard/taskstore"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		var exitErr interface{ ExitCode() int }
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.ExitCode())
		}
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "tasks",
	Short:         "Track tasks with due dates, priorities and repeats",
	SilenceUsage:  true,
	SilenceErrors: false,
}

var (
	globalStorePath string
	globalBackend   string
	globalLogLevel  string
)

func init() {
	rootCmd.PersistentFlags().StringVar(&globalStorePath, "store", "", "Task file or database (default: config, $TASKBOARD_STORE, or ~/.local/state/taskboard/tasks.json)")
	rootCmd.PersistentFlags().StringVar(&globalBackend, "backend", "", "Store backend (json, yaml, sqlite, memory; default: from the file extension)")
	rootCmd.PersistentFlags().StringVar(&globalLogLevel, "log-level", "", "Log level (trace, debug, info, warn, error, disabled)")
}

// app bundles everything a command needs to run operations.
type app struct {
	cfg    *config.Config
	log    zerolog.Logger
	svc    *task.Service
	store  taskstore.Store
	events *task.EventLog

	closeLog func()
}

type openOptions struct {
	// withEvents opens the transition event log for appending.
	withEvents bool
}

// openApp loads configuration and opens the store.
func openApp(cmd *cobra.Command, opts openOptions) (*app, error) {
	cwd, err := paths.WorkingDir()
	if err != nil {
		return nil, err
	}
	cfg, err := config.Load(cwd)
	if err != nil {
		return nil, err
	}

	logger, closeLog, err := logging.New(firstNonEmpty(globalLogLevel, cfg.Log.Level), cfg.Log.File)
	if err != nil {
		return nil, err
	}

	storePath, err := paths.ResolveWithDefault(firstNonEmpty(globalStorePath, cfg.Store.Path), paths.DefaultStorePath)
	if err != nil {
		closeLog()
		return nil, err
	}
	backend, err := taskstore.ParseBackend(firstNonEmpty(globalBackend, cfg.Store.Backend))
	if err != nil {
		closeLog()
		return nil, err
	}
	defaultSort, err := task.ParseSortMode(cfg.View.DefaultSort)
	if err != nil {
		closeLog()
		return nil, fmt.Errorf("config [view] default-sort: %w", err)
	}

	store, err := taskstore.Open(cmd.Context(), taskstore.Options{Path: storePath, Backend: backend})
	if err != nil {
		closeLog()
		return nil, err
	}

	a := &app{cfg: cfg, log: logger, store: store, closeLog: closeLog}
	if opts.withEvents {
		eventsPath, err := paths.ResolveWithDefault(cfg.Notify.EventsFile, paths.DefaultEventsPath)
		if err != nil {
			a.Close()
			return nil, err
		}
		a.events, err = task.OpenEventLog(eventsPath)
		if err != nil {
			a.Close()
			return nil, err
		}
	}

	logger.Debug().Str("store", storePath).Str("backend", string(backend)).Msg("opened store")
	a.svc = task.NewService(store, task.ServiceOptions{
		Logger:      &a.log,
		Events:      a.events,
		DefaultSort: defaultSort,
	})
	return a, nil
}

// Close releases the store, the event log and the log file.
func (a *app) Close() {
	if err := a.events.Close(); err != nil {
		a.log.Warn().Err(err).Msg("close event log")
	}
	if err := a.store.Close(); err != nil {
		a.log.Warn().Err(err).Msg("close store")
	}
	a.closeLog()
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if value != "" {
			return value
		}
	}
	return ""
}
