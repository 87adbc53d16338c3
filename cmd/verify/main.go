// Command verify cross-checks the parallel aggregation engine against an
// independent single-threaded reference over the same measurements file. The
// reference uses bufio line scanning and strconv parsing, sharing no code
// with the engine's scan/parse/aggregate path, so agreement is meaningful.
//
// Usage:
//
//	go run ./cmd/verify -input measurements.txt [-workers 8]
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"math"
	"os"
	"runtime"
	"sort"
	"strconv"
	"strings"

	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/station-rollup/internal/config"
	"github.com/couchcryptid/station-rollup/internal/engine"
	"github.com/couchcryptid/station-rollup/internal/format"
	"github.com/couchcryptid/station-rollup/internal/observability"
)

// phase tracks pass/fail for one verification phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(f string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(f, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	input := flag.String("input", "", "path to the measurements file (required)")
	workers := flag.Int("workers", runtime.NumCPU(), "engine worker count")
	flag.Parse()

	if *input == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg := &config.Config{Workers: *workers, MalformedPolicy: config.MalformedSkip, LogLevel: "warn", LogFormat: "text"}
	logger := observability.NewLogger(cfg)
	eng := engine.New(cfg, logger, observability.NewMetrics(), clockwork.NewRealClock())

	res, err := eng.RunFile(context.Background(), *input)
	if err != nil {
		fmt.Fprintf(os.Stderr, "engine run failed: %v\n", err)
		os.Exit(1)
	}

	ref, refMalformed, err := referenceAggregate(*input)
	if err != nil {
		fmt.Fprintf(os.Stderr, "reference run failed: %v\n", err)
		os.Exit(1)
	}

	phases := []*phase{
		checkCounts(res, ref, refMalformed),
		checkStats(res, ref),
		checkRendered(res, ref),
	}

	failed := false
	for _, p := range phases {
		if p.passed() {
			fmt.Printf("PASS %s\n", p.name)
			continue
		}
		failed = true
		fmt.Printf("FAIL %s\n", p.name)
		for _, e := range p.errors {
			fmt.Printf("  - %s\n", e)
		}
	}
	if failed {
		os.Exit(1)
	}
}

type refStats struct {
	min, max int16
	sum      int64
	count    uint64
}

// referenceAggregate recomputes the rollup with stdlib tools only.
func referenceAggregate(path string) (map[string]refStats, uint64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, err
	}
	defer f.Close()

	out := map[string]refStats{}
	var malformed uint64

	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 1<<20), 1<<20)
	for sc.Scan() {
		line := sc.Text()
		if line == "" {
			continue
		}
		name, value, ok := strings.Cut(line, ";")
		if !ok || name == "" {
			malformed++
			continue
		}
		v, ok := parseFixed(value)
		if !ok {
			malformed++
			continue
		}

		s, seen := out[name]
		if !seen {
			out[name] = refStats{min: v, max: v, sum: int64(v), count: 1}
			continue
		}
		if v < s.min {
			s.min = v
		}
		if v > s.max {
			s.max = v
		}
		s.sum += int64(v)
		s.count++
		out[name] = s
	}
	return out, malformed, sc.Err()
}

// parseFixed accepts exactly the -?D?D.D grammar via strconv, scaled by ten.
func parseFixed(s string) (int16, bool) {
	trimmed := strings.TrimPrefix(s, "-")
	dot := strings.IndexByte(trimmed, '.')
	if dot < 1 || dot > 2 || len(trimmed)-dot != 2 {
		return 0, false
	}
	fv, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	scaled := math.Round(fv * 10)
	if scaled < -999 || scaled > 999 {
		return 0, false
	}
	for _, c := range trimmed {
		if c != '.' && (c < '0' || c > '9') {
			return 0, false
		}
	}
	return int16(scaled), true
}

func checkCounts(res *engine.Result, ref map[string]refStats, refMalformed uint64) *phase {
	p := &phase{name: "record counts"}

	var refProcessed uint64
	for _, s := range ref {
		refProcessed += s.count
	}
	if res.Processed != refProcessed {
		p.errorf("engine processed %d records, reference %d", res.Processed, refProcessed)
	}
	if res.Malformed != refMalformed {
		p.errorf("engine skipped %d malformed records, reference %d", res.Malformed, refMalformed)
	}
	if len(res.Stations) != len(ref) {
		p.errorf("engine found %d stations, reference %d", len(res.Stations), len(ref))
	}
	return p
}

func checkStats(res *engine.Result, ref map[string]refStats) *phase {
	p := &phase{name: "per-station statistics"}

	for _, s := range res.Stations {
		r, ok := ref[s.Name]
		if !ok {
			p.errorf("station %q missing from reference", s.Name)
			continue
		}
		if s.Min != r.min || s.Max != r.max || s.Sum != r.sum || s.Count != r.count {
			p.errorf("station %q: engine (%d,%d,%d,%d) vs reference (%d,%d,%d,%d)",
				s.Name, s.Min, s.Max, s.Sum, s.Count, r.min, r.max, r.sum, r.count)
		}
	}
	return p
}

func checkRendered(res *engine.Result, ref map[string]refStats) *phase {
	p := &phase{name: "rendered output"}

	names := make([]string, 0, len(ref))
	for name := range ref {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	b.WriteByte('{')
	for i, name := range names {
		if i > 0 {
			b.WriteString(", ")
		}
		s := ref[name]
		fmt.Fprintf(&b, "%s=%.1f/%.1f/%.1f",
			name, float64(s.min)/10, float64(s.sum)/10/float64(s.count), float64(s.max)/10)
	}
	b.WriteByte('}')

	if got := format.Render(res); got != b.String() {
		p.errorf("rendered outputs differ:\n  engine:    %s\n  reference: %s", got, b.String())
	}
	return p
}
