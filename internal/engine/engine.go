// Package engine orchestrates the aggregation run: map the file, split it
// into record-aligned chunks, aggregate each chunk on its own goroutine with
// no shared mutable state, then fold the per-worker tables into one result.
package engine

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"

	"github.com/jonboulle/clockwork"
	"golang.org/x/sync/errgroup"

	"github.com/couchcryptid/station-rollup/internal/aggregate"
	"github.com/couchcryptid/station-rollup/internal/chunk"
	"github.com/couchcryptid/station-rollup/internal/config"
	"github.com/couchcryptid/station-rollup/internal/mmap"
	"github.com/couchcryptid/station-rollup/internal/observability"
)

// StationStats is one station's final aggregate. Name is an owned copy, so a
// Result stays valid after the input buffer is unmapped.
type StationStats struct {
	Name  string
	Min   int16
	Max   int16
	Sum   int64
	Count uint64
}

// Mean returns the arithmetic mean in real temperature units.
func (s StationStats) Mean() float64 {
	return float64(s.Sum) / 10 / float64(s.Count)
}

// Result is the outcome of one complete run.
type Result struct {
	Stations  []StationStats
	Processed uint64
	Malformed uint64
}

// Engine runs the parallel streaming aggregation. The zero value is not
// usable; construct with New.
type Engine struct {
	logger  *slog.Logger
	metrics *observability.Metrics
	clock   clockwork.Clock
	workers int
	skip    bool
	hash    aggregate.HashFunc

	chunksDone atomic.Int64
}

// New creates an Engine from configuration. The clock is injected so tests
// can fake run-duration measurement.
func New(cfg *config.Config, logger *slog.Logger, metrics *observability.Metrics, clock clockwork.Clock) *Engine {
	return &Engine{
		logger:  logger,
		metrics: metrics,
		clock:   clock,
		workers: cfg.Workers,
		skip:    cfg.MalformedPolicy == config.MalformedSkip,
	}
}

// UseHash overrides the station-name hash for all tables the engine builds.
// The default is the aggregate package's xxh3. Call before Run.
func (e *Engine) UseHash(h aggregate.HashFunc) {
	e.hash = h
}

// CheckReadiness returns nil once the engine has completed at least one
// chunk, or an error describing why the service is not yet ready.
func (e *Engine) CheckReadiness(_ context.Context) error {
	if e.chunksDone.Load() == 0 {
		return errors.New("engine has not completed any chunks yet")
	}
	return nil
}

// Run aggregates data, which must remain valid until Run returns. Workers
// share the buffer immutably and own their chunk and table exclusively; the
// only synchronization point is the join before merging. The result is
// independent of the worker count and of the merge order.
func (e *Engine) Run(ctx context.Context, data []byte) (*Result, error) {
	start := e.clock.Now()

	chunks := chunk.Split(data, e.workers)
	e.metrics.Workers.Set(float64(len(chunks)))
	e.logger.Info("run started", "bytes", len(data), "chunks", len(chunks), "workers", e.workers)

	tables := make([]*aggregate.Table, len(chunks))
	processed := make([]uint64, len(chunks))
	malformed := make([]uint64, len(chunks))

	g, gctx := errgroup.WithContext(ctx)
	for i, c := range chunks {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			tbl := aggregate.NewTable(e.hash)
			p, m, err := aggregate.Consume(tbl, data[c.Start:c.End], e.skip)
			tables[i], processed[i], malformed[i] = tbl, p, m
			e.metrics.ChunkBytes.Observe(float64(c.Len()))
			e.chunksDone.Add(1)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	final := aggregate.NewTable(e.hash)
	res := &Result{}
	for i, tbl := range tables {
		final.Merge(tbl)
		res.Processed += processed[i]
		res.Malformed += malformed[i]
	}

	stats := final.Stats()
	res.Stations = make([]StationStats, len(stats))
	for i, s := range stats {
		res.Stations[i] = StationStats{
			Name:  string(s.Key),
			Min:   s.Min,
			Max:   s.Max,
			Sum:   s.Sum,
			Count: s.Count,
		}
	}

	elapsed := e.clock.Since(start)
	e.metrics.RecordsProcessed.Add(float64(res.Processed))
	e.metrics.RecordsMalformed.Add(float64(res.Malformed))
	e.metrics.Stations.Set(float64(len(res.Stations)))
	e.metrics.RunDuration.Observe(elapsed.Seconds())
	e.metrics.RunsCompleted.Inc()

	if res.Malformed > 0 {
		e.logger.Warn("malformed records skipped", "count", res.Malformed)
	}
	e.logger.Info("run completed",
		"records", res.Processed,
		"stations", len(res.Stations),
		"duration", elapsed,
	)

	return res, nil
}

// RunFile maps path, runs the aggregation, and unmaps. The returned Result
// owns its station names, so it outlives the mapping.
func (e *Engine) RunFile(ctx context.Context, path string) (*Result, error) {
	f, err := mmap.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return e.Run(ctx, f.Bytes())
}
