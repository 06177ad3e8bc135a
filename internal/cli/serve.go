package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/matzehuels/scenegen/internal/server"
	"github.com/matzehuels/scenegen/pkg/config"
	"github.com/matzehuels/scenegen/pkg/observability"
)

// serveCommand creates the serve command, which runs the HTTP API until
// interrupted.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve placements over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("addr") {
				addr = c.config.Server.Addr
			}
			return c.runServe(cmd.Context(), addr, noCache)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", config.DefaultAddr, "listen address")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the placement and preview cache")
	return cmd
}

func (c *CLI) runServe(ctx context.Context, addr string, noCache bool) error {
	runner, err := c.newRunner(ctx, runnerOpts{noCache: noCache})
	if err != nil {
		return err
	}
	defer runner.Close()

	stats := observability.NewCounters()
	observability.Register(observability.Hooks{Pipeline: stats, Cache: stats, Server: stats})
	defer observability.Reset()

	srv := server.New(runner, c.pipelineOptions(), c.Logger)
	srv.Stats = stats
	printInfo("Serving on %s", addr)
	err = srv.ListenAndServe(ctx, addr)
	if errors.Is(err, context.Canceled) || errors.Is(err, http.ErrServerClosed) {
		snap := stats.Snapshot()
		c.Logger.Info("server stopped",
			"requests", snap.Requests,
			"placements", snap.Placements,
			"cache_hit_rate", fmt.Sprintf("%.2f", snap.HitRate()))
		return nil
	}
	return err
}
