package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/oklog/run"
	"github.com/san-kum/pidlab/internal/api"
	"github.com/san-kum/pidlab/internal/sim"
	"github.com/san-kum/pidlab/internal/statistics"
	"github.com/san-kum/pidlab/internal/ui"
	"github.com/spf13/cobra"
)

var (
	listenAddr  string
	logRequests bool
)

func newServeCmd() *cobra.Command {
	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "run the controller in real time behind a REST API and prometheus metrics",
		Args:  cobra.NoArgs,
		RunE:  serve,
	}
	addControlFlags(serveCmd)
	serveCmd.Flags().StringVar(&listenAddr, "addr", ":9000", "listen address")
	serveCmd.Flags().BoolVar(&logRequests, "log-requests", false, "log every HTTP request")
	return serveCmd
}

func serve(cmd *cobra.Command, args []string) error {
	cfg, name, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	state, err := sim.NewState(cfg)
	if err != nil {
		return err
	}

	loop := sim.NewLoop(state, cfg.TickPeriod())
	statistics.Register(statistics.NewControllerCollector(loop))

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	var g run.Group
	{
		// === control loop
		g.Add(func() error {
			ui.Info("control loop %s running at %d Hz", name, cfg.TickRate)
			return loop.Run(ctx)
		}, func(err error) {
			cancel()
		})
	}
	{
		// === REST API and metrics
		rest := api.CreateRestService(loop, logRequests)
		g.Add(func() error {
			ui.Info("listening on %s", listenAddr)
			if err := rest.Start(listenAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		}, func(err error) {
			timeoutCtx, timeoutCancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer timeoutCancel()
			if err := rest.Shutdown(timeoutCtx); err != nil {
				ui.Warning("Error stopping REST server: %v", err)
			} else {
				ui.Debug("REST server stopped.")
			}
		})
	}
	{
		// === signals, via the command context
		g.Add(func() error {
			<-ctx.Done()
			ui.Info("shutting down...")
			return nil
		}, func(err error) {
			cancel()
		})
	}

	if err := g.Run(); err != nil {
		return err
	}
	snap := loop.Snapshot()
	ui.Info("stopped after %d ticks at %s", snap.Ticks, snap.Position)
	return nil
}
