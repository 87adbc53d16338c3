package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// aggregation engine.
type Metrics struct {
	RecordsProcessed prometheus.Counter
	RecordsMalformed prometheus.Counter
	RunsCompleted    prometheus.Counter

	Workers  prometheus.Gauge
	Stations prometheus.Gauge

	ChunkBytes  prometheus.Histogram
	RunDuration prometheus.Histogram
}

// NewMetrics creates and registers all engine metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		RecordsProcessed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "station_rollup",
			Name:      "records_processed_total",
			Help:      "Total records aggregated across all workers.",
		}),
		RecordsMalformed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "station_rollup",
			Name:      "records_malformed_total",
			Help:      "Total records skipped because they failed the key;value grammar.",
		}),
		RunsCompleted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "station_rollup",
			Name:      "runs_completed_total",
			Help:      "Total aggregation runs completed successfully.",
		}),
		Workers: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "station_rollup",
			Name:      "workers",
			Help:      "Number of parallel workers in the current run.",
		}),
		Stations: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "station_rollup",
			Name:      "stations",
			Help:      "Distinct station names in the last completed run.",
		}),
		ChunkBytes: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "station_rollup",
			Name:      "chunk_bytes",
			Help:      "Size in bytes of each chunk handed to a worker.",
			Buckets:   prometheus.ExponentialBuckets(1<<20, 4, 8),
		}),
		RunDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "station_rollup",
			Name:      "run_duration_seconds",
			Help:      "Duration of a complete map-split-aggregate-merge run.",
			Buckets:   []float64{0.01, 0.1, 0.5, 1, 5, 15, 30, 60, 120},
		}),
	}

	prometheus.MustRegister(
		m.RecordsProcessed,
		m.RecordsMalformed,
		m.RunsCompleted,
		m.Workers,
		m.Stations,
		m.ChunkBytes,
		m.RunDuration,
	)

	return m
}

// NewMetricsForTesting creates Metrics with a fresh registry to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		RecordsProcessed: prometheus.NewCounter(prometheus.CounterOpts{Namespace: "station_rollup", Name: "records_processed_total"}),
		RecordsMalformed: prometheus.NewCounter(prometheus.CounterOpts{Namespace: "station_rollup", Name: "records_malformed_total"}),
		RunsCompleted:    prometheus.NewCounter(prometheus.CounterOpts{Namespace: "station_rollup", Name: "runs_completed_total"}),
		Workers:          prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "station_rollup", Name: "workers"}),
		Stations:         prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "station_rollup", Name: "stations"}),
		ChunkBytes:       prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "station_rollup", Name: "chunk_bytes"}),
		RunDuration:      prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "station_rollup", Name: "run_duration_seconds"}),
	}
}
