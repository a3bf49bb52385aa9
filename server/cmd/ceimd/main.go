package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/phxeconet/ceim/server/internal/alerts"
	"github.com/phxeconet/ceim/server/internal/api"
	"github.com/phxeconet/ceim/server/internal/config"
	"github.com/phxeconet/ceim/server/internal/metrics"
	"github.com/phxeconet/ceim/server/internal/runner"
	"github.com/phxeconet/ceim/server/internal/store"
	"github.com/phxeconet/ceim/server/internal/ws"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	slog.Info("ceimd starting", "config", *configPath)

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "err", err)
		os.Exit(1)
	}

	slog.Info("config loaded",
		"http_port", cfg.Server.HTTPPort,
		"series_path", cfg.Pipeline.SeriesPath,
		"schedule", cfg.Pipeline.Schedule,
		"snapshot_ttl", cfg.Server.Snapshot.TTL,
	)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Result store with background TTL eviction.
	st := store.New(cfg.Server.Snapshot.TTL)
	go st.Run(ctx)

	// Optional SQLite history.
	var hist *store.History
	if cfg.Storage.HistoryPath != "" {
		hist, err = store.OpenHistory(cfg.Storage.HistoryPath)
		if err != nil {
			slog.Error("failed to open history database",
				"path", cfg.Storage.HistoryPath, "err", err)
			os.Exit(1)
		}
		defer hist.Close()
		slog.Info("history persistence enabled", "path", cfg.Storage.HistoryPath)
	}

	var historyCount func() float64
	if hist != nil {
		historyCount = func() float64 {
			n, err := hist.Count()
			if err != nil {
				return 0
			}
			return float64(n)
		}
	}
	metrics.Init(historyCount)

	// Alerts engine evaluates rules on every recomputed result.
	alertEngine := alerts.New(cfg.Alerts)

	// Recompute pipeline: initial run, cron schedule, optional shard watch.
	run := runner.New(cfg.Pipeline, st, hist, alertEngine)
	go func() {
		if err := run.Run(ctx); err != nil {
			slog.Error("runner stopped", "err", err)
			cancel()
		}
	}()

	// Config hot reload: currently only logs the change so operators can
	// verify edits; a restart applies them.
	go func() {
		err := config.Watch(ctx, *configPath, func(newCfg *config.Config) {
			slog.Info("config change detected, restart to apply",
				"series_path", newCfg.Pipeline.SeriesPath,
				"schedule", newCfg.Pipeline.Schedule)
		})
		if err != nil {
			slog.Error("config watcher stopped", "err", err)
		}
	}()

	// WebSocket hub broadcasts the karma report to clients on an interval.
	hub := ws.New(st, cfg.Server.BroadcastInterval)
	go hub.Run(ctx)

	// Combined HTTP server: REST API, WebSocket hub, Prometheus metrics.
	httpMux := http.NewServeMux()
	httpMux.Handle("/api/", api.New(st, hist, alertEngine))
	httpMux.Handle("/ws/stream", hub)
	httpMux.Handle("/metrics", promhttp.Handler())

	httpSrv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.HTTPPort),
		Handler: httpMux,
	}
	go func() {
		slog.Info("HTTP server listening", "port", cfg.Server.HTTPPort)
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("HTTP server stopped", "err", err)
		}
	}()

	<-ctx.Done()
	slog.Info("ceimd shutting down")
	httpSrv.Shutdown(context.Background()) //nolint:errcheck
}
