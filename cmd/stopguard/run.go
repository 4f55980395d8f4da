package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github.com/stopguard/stopguard/internal/config"
	"github.com/stopguard/stopguard/internal/gateway"
	"github.com/stopguard/stopguard/internal/observability"
	"github.com/stopguard/stopguard/internal/policy"
)

const pruneInterval = time.Minute

func newRunCmd() *cobra.Command {
	var configPath string
	var modeOverride string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Serve the submission check API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			if modeOverride != "" {
				if _, err := policy.ParseMode(modeOverride); err != nil {
					return err
				}
				cfg.Scan.Mode = modeOverride
			}
			return runServer(cmd.Context(), cfg)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to config file (defaults apply when empty)")
	cmd.Flags().StringVar(&modeOverride, "mode", "", "Override scan mode: enforce|shadow")

	return cmd
}

func runServer(ctx context.Context, cfg *config.Config) error {
	a, err := newApp(ctx, cfg, os.Stderr)
	if err != nil {
		return err
	}
	defer a.Close()

	gw, err := gateway.New(cfg, a.guard, a.source, a.logger)
	if err != nil {
		return err
	}

	metricsSrv := startMetricsServer(cfg, a, gw)
	defer func() {
		if metricsSrv != nil {
			_ = metricsSrv.Shutdown(context.Background())
		}
	}()

	srv := &http.Server{
		Addr:              cfg.Server.Listen,
		Handler:           gw,
		ReadHeaderTimeout: 5 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- srv.ListenAndServe()
	}()

	signalCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	a.logger.Info().
		Str("listen", cfg.Server.Listen).
		Str("source", cfg.Stopwords.Source).
		Str("mode", string(a.guard.Mode())).
		Msg("stopguard listening")

	ticker := time.NewTicker(pruneInterval)
	defer ticker.Stop()

loop:
	for {
		select {
		case <-signalCtx.Done():
			break loop
		case <-ticker.C:
			if n := gw.Prune(); n > 0 {
				a.logger.Debug().Int("buckets", n).Msg("pruned rate limit buckets")
			}
		case err := <-serverErr:
			if err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			break loop
		}
	}

	a.logger.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func startMetricsServer(cfg *config.Config, a *app, gw *gateway.Gateway) *http.Server {
	if !cfg.Metrics.Enabled {
		return nil
	}

	reg := prometheus.NewRegistry()
	metrics := observability.NewMetrics(reg)
	a.guard.SetMetrics(metrics)
	a.notifier.SetMetrics(metrics)
	gw.SetMetrics(metrics)

	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler(reg))

	srv := &http.Server{Addr: cfg.Metrics.Listen, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Error().Err(err).Msg("metrics server stopped")
		}
	}()
	return srv
}
