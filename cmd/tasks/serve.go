package main

import (
	"context"
	"time"

	"github.com/amonks/taskboard/server"
	"github.com/amonks/taskboard/web"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the web dashboard",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

var (
	serveAddr          string
	serveCheckInterval time.Duration
)

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address or port (default: [server] addr, then 127.0.0.1:5000)")
	serveCmd.Flags().DurationVar(&serveCheckInterval, "check-interval", 0, "Check for priority changes this often (0 disables)")
}

func runServe(cmd *cobra.Command, _ []string) error {
	a, err := openApp(cmd, openOptions{withEvents: serveCheckInterval > 0})
	if err != nil {
		return err
	}
	defer a.Close()

	addr, err := server.ResolveAddr(serveAddr, a.cfg.Server.Addr)
	if err != nil {
		return err
	}

	srv, err := server.New(server.Options{
		Handler: web.NewHandler(web.Options{Service: a.svc, Logger: &a.log}),
		Logger:  &a.log,
		Check: func(ctx context.Context) error {
			_, err := a.svc.CheckTransitions(ctx)
			return err
		},
		CheckInterval: serveCheckInterval,
	})
	if err != nil {
		return err
	}
	cmd.Printf("Serving tasks on http://%s\n", addr)
	return srv.Serve(addr)
}
