// Package runner drives the ceimd recompute pipeline. It loads the series
// shard, computes impact results for every canonical node:contaminant pair,
// and fans the results out to the live store, alert engine, and history.
package runner

import (
	"context"
	"log/slog"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/robfig/cron/v3"

	"github.com/phxeconet/ceim/pkg/catalog"
	"github.com/phxeconet/ceim/pkg/ceim"
	"github.com/phxeconet/ceim/pkg/qpu"
	"github.com/phxeconet/ceim/server/internal/alerts"
	"github.com/phxeconet/ceim/server/internal/config"
	"github.com/phxeconet/ceim/server/internal/metrics"
	"github.com/phxeconet/ceim/server/internal/store"
)

// Runner owns one recompute pipeline.
type Runner struct {
	cfg     config.PipelineConfig
	store   *store.Store
	history *store.History // nil when persistence is disabled
	engine  *alerts.Engine // nil when alerting is disabled
}

// New creates a Runner. history and engine may be nil.
func New(cfg config.PipelineConfig, st *store.Store, hist *store.History, engine *alerts.Engine) *Runner {
	return &Runner{cfg: cfg, store: st, history: hist, engine: engine}
}

// RunOnce executes one full recompute: load the series shard, compute every
// canonical pair that has samples, and publish the results.
// It returns the number of pairs computed.
func (r *Runner) RunOnce() (int, error) {
	start := time.Now()

	series, skipped, err := qpu.LoadSeries(r.cfg.SeriesPath)
	if err != nil {
		metrics.ObserveRecompute(metrics.ResultError, time.Since(start))
		return 0, err
	}
	if skipped > 0 {
		slog.Warn("runner: skipped malformed series rows",
			"path", r.cfg.SeriesPath, "skipped", skipped)
		metrics.AddSkippedRows(skipped)
	}

	samples := 0
	for _, s := range series {
		samples += len(s)
	}
	metrics.SetSeriesSamples(samples)

	var results []ceim.Result
	for _, n := range catalog.Nodes() {
		for _, b := range catalog.Contaminants() {
			pts, ok := series[qpu.Key(n.ID, b.ID)]
			if !ok {
				continue
			}
			res := ceim.Compute(n, b, pts)
			r.store.Put(res)
			if r.engine != nil {
				r.engine.Evaluate(res)
			}
			results = append(results, res)
		}
	}
	metrics.SetLivePairs(len(results))

	if r.history != nil && len(results) > 0 {
		if err := r.history.Insert(results, start); err != nil {
			slog.Error("runner: history insert failed", "err", err)
		}
	}

	metrics.ObserveRecompute(metrics.ResultSuccess, time.Since(start))
	slog.Info("runner: recompute complete",
		"pairs", len(results), "samples", samples,
		"elapsed", time.Since(start).Round(time.Millisecond))
	return len(results), nil
}

// Run executes an initial recompute, then keeps recomputing on the cron
// schedule and, if configured, whenever the series shard is written.
// Blocks until ctx is cancelled.
func (r *Runner) Run(ctx context.Context) error {
	if _, err := r.RunOnce(); err != nil {
		// A missing shard at startup is not fatal; the schedule or watcher
		// will retry once the file appears.
		slog.Error("runner: initial recompute failed", "err", err)
	}

	trigger := make(chan string, 1)

	var sched *cron.Cron
	if r.cfg.Schedule != "" {
		sched = cron.New()
		if _, err := sched.AddFunc(r.cfg.Schedule, func() {
			select {
			case trigger <- "schedule":
			default:
			}
		}); err != nil {
			return err
		}
		sched.Start()
		defer sched.Stop()
	}

	if r.cfg.Watch {
		go r.watchShard(ctx, trigger)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case cause := <-trigger:
			slog.Debug("runner: recompute triggered", "cause", cause)
			if _, err := r.RunOnce(); err != nil {
				slog.Error("runner: recompute failed", "cause", cause, "err", err)
			}
		}
	}
}

// watchRetryInterval is how often watchShard retries watching a shard that
// does not exist yet. Overridden in tests.
var watchRetryInterval = 5 * time.Second

// watchShard watches the series shard and fires trigger on writes.
func (r *Runner) watchShard(ctx context.Context, trigger chan<- string) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		slog.Error("runner: shard watcher unavailable", "err", err)
		return
	}
	defer watcher.Close()

	// The shard may not exist at startup. Keep retrying so the watch, and
	// an immediate recompute, pick the file up once it appears.
	retried := false
	for {
		err := watcher.Add(r.cfg.SeriesPath)
		if err == nil {
			break
		}
		retried = true
		slog.Warn("runner: cannot watch series shard yet, retrying",
			"path", r.cfg.SeriesPath, "err", err)
		select {
		case <-ctx.Done():
			return
		case <-time.After(watchRetryInterval):
		}
	}
	slog.Info("runner: watching series shard", "path", r.cfg.SeriesPath)
	if retried {
		select {
		case trigger <- "shard-appeared":
		default:
		}
	}

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			select {
			case trigger <- "shard-write":
			default:
			}
			// Re-add the file in case an atomic save replaced the inode.
			_ = watcher.Add(r.cfg.SeriesPath)
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			slog.Error("runner: shard watcher error", "err", err)
		}
	}
}
