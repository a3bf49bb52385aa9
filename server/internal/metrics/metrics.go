// Package metrics registers Prometheus instrumentation for the ceimd
// recompute pipeline. Exposed via promhttp on /metrics.
package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const metricPrefix = "ceim_"

const (
	ResultSuccess = "success"
	ResultError   = "error"
)

var (
	registerOnce sync.Once

	recomputeTotal   *prometheus.CounterVec
	recomputeLatency *prometheus.HistogramVec
	skippedRowsTotal prometheus.Counter

	livePairs   prometheus.Gauge
	seriesRows  prometheus.Gauge
	lastRunTime prometheus.Gauge
)

// Init registers all pipeline metrics. historyCount, when non-nil, is polled
// on every scrape to report the number of persisted history rows.
func Init(historyCount func() float64) {
	registerOnce.Do(func() {
		recomputeTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "recompute_total",
				Help: "Total pipeline recompute runs by result",
			},
			[]string{"result"},
		)
		recomputeLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "recompute_latency_seconds",
				Help:    "Pipeline recompute latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"result"},
		)
		skippedRowsTotal = prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: metricPrefix + "skipped_rows_total",
				Help: "Total malformed series rows skipped during loads",
			},
		)

		livePairs = prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: metricPrefix + "live_pairs",
				Help: "Node:contaminant pairs with a live result in the store",
			},
		)
		seriesRows = prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: metricPrefix + "series_samples",
				Help: "Samples loaded from the series shard on the last run",
			},
		)
		lastRunTime = prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: metricPrefix + "last_run_timestamp_seconds",
				Help: "Unix time of the last completed recompute run",
			},
		)

		prometheus.MustRegister(
			recomputeTotal,
			recomputeLatency,
			skippedRowsTotal,
			livePairs,
			seriesRows,
			lastRunTime,
		)

		if historyCount != nil {
			prometheus.MustRegister(prometheus.NewGaugeFunc(
				prometheus.GaugeOpts{
					Name: metricPrefix + "history_rows",
					Help: "Impact results persisted in the SQLite history",
				},
				historyCount,
			))
		}
	})
}

// ObserveRecompute records one pipeline run's result and duration.
func ObserveRecompute(result string, duration time.Duration) {
	if result == "" {
		result = ResultSuccess
	}
	if recomputeTotal != nil {
		recomputeTotal.WithLabelValues(result).Inc()
	}
	if recomputeLatency != nil {
		recomputeLatency.WithLabelValues(result).Observe(duration.Seconds())
	}
	if result == ResultSuccess && lastRunTime != nil {
		lastRunTime.SetToCurrentTime()
	}
}

// AddSkippedRows adds to the skipped-row counter.
func AddSkippedRows(n int) {
	if n <= 0 {
		return
	}
	if skippedRowsTotal != nil {
		skippedRowsTotal.Add(float64(n))
	}
}

// SetLivePairs sets the live result gauge.
func SetLivePairs(n int) {
	if livePairs != nil {
		livePairs.Set(float64(n))
	}
}

// SetSeriesSamples sets the loaded sample count gauge.
func SetSeriesSamples(n int) {
	if seriesRows != nil {
		seriesRows.Set(float64(n))
	}
}
