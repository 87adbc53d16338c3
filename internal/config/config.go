package config

import (
	"fmt"
	"os"
	"runtime"
	"strconv"
	"time"
)

// MalformedPolicy selects what the engine does with records that fail the
// key;value grammar.
type MalformedPolicy string

const (
	// MalformedSkip drops the record and counts it.
	MalformedSkip MalformedPolicy = "skip"
	// MalformedFail aborts the whole run on the first bad record.
	MalformedFail MalformedPolicy = "fail"
)

// Config holds all service settings, populated from environment variables.
// The input file path is deliberately not configuration: it is a parameter
// of the run, passed to cmd/rollup as a flag.
type Config struct {
	Workers         int
	MalformedPolicy MalformedPolicy
	LogLevel        string
	LogFormat       string

	// MetricsAddr enables the /metrics HTTP listener when non-empty.
	MetricsAddr     string
	ShutdownTimeout time.Duration
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	workers, err := parseWorkers()
	if err != nil {
		return nil, err
	}

	shutdownTimeout, err := parseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	policy := MalformedPolicy(envOrDefault("MALFORMED_POLICY", string(MalformedSkip)))
	switch policy {
	case MalformedSkip, MalformedFail:
	default:
		return nil, fmt.Errorf("invalid MALFORMED_POLICY %q (want %q or %q)", policy, MalformedSkip, MalformedFail)
	}

	return &Config{
		Workers:         workers,
		MalformedPolicy: policy,
		LogLevel:        envOrDefault("LOG_LEVEL", "info"),
		LogFormat:       envOrDefault("LOG_FORMAT", "json"),
		MetricsAddr:     os.Getenv("METRICS_ADDR"),
		ShutdownTimeout: shutdownTimeout,
	}, nil
}

func parseWorkers() (int, error) {
	s := os.Getenv("WORKERS")
	if s == "" {
		return runtime.NumCPU(), nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("invalid WORKERS %q: must be a positive integer", s)
	}
	return n, nil
}

func parseShutdownTimeout() (time.Duration, error) {
	s := envOrDefault("SHUTDOWN_TIMEOUT", "10s")
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid SHUTDOWN_TIMEOUT %q", s)
	}
	return d, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
