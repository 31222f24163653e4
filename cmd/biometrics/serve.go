package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	adapthttp "biometrics/internal/adapter/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
)

func newServeCommand(root *rootOptions) *cobra.Command {
	var noInitialSync bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and the periodic sync loop",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, root, !noInitialSync)
		},
	}
	cmd.Flags().BoolVar(&noInitialSync, "no-initial-sync", false, "Skip the sync that normally runs at startup")
	return cmd
}

func runServe(ctx context.Context, root *rootOptions, initialSync bool) error {
	a, err := newApplication(ctx, root.cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := a.Close(); err != nil {
			a.log.WithError(err).Warn("close")
		}
	}()

	auth, err := a.authService(ctx)
	if err != nil {
		return err
	}

	srv := adapthttp.New(adapthttp.Services{
		Current:      a.current,
		Reconciler:   a.rec,
		Measurements: a.measure,
		Plans:        a.plans,
		History:      a.history,
		Settings:     a.settings,
		Samples:      a.samples,
		Auth:         auth,
		Events:       a.bus,
		Metrics:      promhttp.HandlerFor(a.registry, promhttp.HandlerOpts{Registry: a.registry}),
		Log:          a.log,
	})
	if !auth.Enabled() {
		a.log.Warn("no API authentication configured")
	}

	httpSrv := &http.Server{
		Addr:              root.cfg.Addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		// Cancelling on shutdown ends open event streams.
		BaseContext: func(net.Listener) context.Context { return ctx },
	}

	go a.syncLoop(ctx, root.cfg.SyncInterval, initialSync)

	errc := make(chan error, 1)
	go func() {
		a.log.WithField("addr", root.cfg.Addr).Info("listening")
		errc <- httpSrv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	case <-ctx.Done():
	}

	a.log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		a.log.WithError(err).Warn("http shutdown")
	}
	return a.settings.Flush(shutdownCtx)
}

// syncLoop runs Sync every interval until ctx is done. A zero interval
// disables periodic syncs.
func (a *application) syncLoop(ctx context.Context, interval time.Duration, initial bool) {
	if initial {
		_ = a.rec.Sync(ctx, a.current)
	}
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			// Errors are logged and counted by the reconciler.
			_ = a.rec.Sync(ctx, a.current)
		}
	}
}
