package cli

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"
)

// shutdownTimeout bounds how long in-flight requests may finish after the
// server is asked to stop.
const shutdownTimeout = 5 * time.Second

// serveCommand creates the serve command, which hosts viewers over HTTP.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		offline bool
		noCache bool
		noStore bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve circuits and interactive viewers over HTTP",
		Long: `Start an HTTP server.

Stateless endpoints:
  GET  /healthz
  GET  /circuit?entanglement=&reps=          wire-format JSON
  GET  /render/{format}?entanglement=&reps=&width=&height=&x=&y=

Viewer endpoints (one independent viewer per id):
  POST   /viewers                            create, returns {"id"}
  POST   /viewers/{id}/load?entanglement=&reps=
  POST   /viewers/{id}/resize?width=&height=
  POST   /viewers/{id}/pointer?x=&y=         returns {hovered, redraw, tooltip}
  POST   /viewers/{id}/leave
  GET    /viewers/{id}/frame.svg
  DELETE /viewers/{id}`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("addr") {
				addr = c.Config.Server.Addr
			}
			return c.runServe(cmd.Context(), addr, runnerOpts{noCache: noCache, offline: offline, noStore: noStore})
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default :8080)")
	cmd.Flags().BoolVar(&offline, "offline", false, "do not contact the backend; generate circuits locally")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable artifact caching")
	cmd.Flags().BoolVar(&noStore, "no-store", false, "do not log circuits to the experiment store")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, addr string, ro runnerOpts) error {
	runner, err := c.newRunner(ctx, ro)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	srv := newServer(runner, c.Config.Defaults.Palette, c.Config.Server.MaxViewers, c.Logger)
	defer srv.closeAll()

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           srv,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- httpServer.ListenAndServe()
	}()
	c.Logger.Info("serving", "addr", addr, "max_viewers", c.Config.Server.MaxViewers)

	select {
	case err := <-errCh:
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	c.Logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return ctx.Err()
}
