// Command genmeasurements writes a mock measurements file for testing and
// benchmarking the aggregation engine.
//
// Usage:
//
//	go run ./cmd/genmeasurements -out measurements.txt -rows 1000000 -stations 400 -seed 1
//
// Station names are drawn from a fixed list cycled to the requested
// cardinality; temperatures are uniform in [-99.9, 99.9] with one fractional
// digit, matching the engine's documented value range.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
)

var baseNames = []string{
	"Hamburg", "Berlin", "Munich", "Köln", "Frankfurt", "Stuttgart",
	"Bremen", "Dresden", "Leipzig", "Hannover", "Nürnberg", "Dortmund",
	"Essen", "Bochum", "Wuppertal", "Bonn", "Münster", "Karlsruhe",
	"Mannheim", "Augsburg", "Wiesbaden", "Kiel", "Rostock", "Ulm",
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	out := flag.String("out", "measurements.txt", "output path")
	rows := flag.Int64("rows", 1_000_000, "number of records to generate")
	stations := flag.Int("stations", 400, "distinct station count")
	seed := flag.Int64("seed", 1, "random seed, for repeatable files")
	flag.Parse()

	if *rows < 0 || *stations < 1 {
		return fmt.Errorf("need rows >= 0 and stations >= 1")
	}

	names := make([]string, *stations)
	for i := range names {
		base := baseNames[i%len(baseNames)]
		if i < len(baseNames) {
			names[i] = base
		} else {
			names[i] = fmt.Sprintf("%s-%d", base, i/len(baseNames))
		}
	}

	f, err := os.Create(*out)
	if err != nil {
		return fmt.Errorf("create %s: %w", *out, err)
	}
	defer f.Close()

	w := bufio.NewWriterSize(f, 1<<20)
	rng := rand.New(rand.NewSource(*seed))

	for i := int64(0); i < *rows; i++ {
		// Scaled tenths in [-999, 999]. The sign is rendered separately so
		// values like -0.5 keep it (v/10 would round it away).
		v := rng.Intn(1999) - 999
		sign := ""
		if v < 0 {
			sign, v = "-", -v
		}
		fmt.Fprintf(w, "%s;%s%d.%d\n", names[rng.Intn(len(names))], sign, v/10, v%10)
	}

	if err := w.Flush(); err != nil {
		return fmt.Errorf("flush %s: %w", *out, err)
	}
	log.Printf("wrote %d rows across %d stations to %s", *rows, *stations, *out)
	return nil
}
