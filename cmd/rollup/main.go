// Command rollup aggregates per-station temperature statistics from a
// station;temperature measurements file and prints them sorted by station.
//
// Usage:
//
//	rollup -input measurements.txt
//
// Behavior is configured through the environment (WORKERS, MALFORMED_POLICY,
// LOG_LEVEL, LOG_FORMAT, METRICS_ADDR, SHUTDOWN_TIMEOUT); the input path is
// a parameter of the run, not configuration.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	httpadapter "github.com/couchcryptid/station-rollup/internal/adapter/http"
	"github.com/couchcryptid/station-rollup/internal/config"
	"github.com/couchcryptid/station-rollup/internal/engine"
	"github.com/couchcryptid/station-rollup/internal/format"
	"github.com/couchcryptid/station-rollup/internal/observability"
	"github.com/jonboulle/clockwork"
)

func main() {
	input := flag.String("input", "", "path to the measurements file (required)")
	flag.Parse()

	if *input == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	eng := engine.New(cfg, logger, metrics, clockwork.NewRealClock())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Optional metrics listener for watching long runs.
	var srv *httpadapter.Server
	if cfg.MetricsAddr != "" {
		srv = httpadapter.NewServer(cfg.MetricsAddr, eng, logger)
		go func() {
			if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("metrics server error", "error", err)
			}
		}()
	}

	res, runErr := eng.RunFile(ctx, *input)

	if srv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("metrics server shutdown error", "error", err)
		}
	}

	if runErr != nil {
		logger.Error("aggregation failed", "error", runErr)
		os.Exit(1)
	}

	fmt.Println(format.Render(res))
}
