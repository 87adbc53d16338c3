// Package format renders a completed run as the canonical single-line
// report: stations in ascending lexicographic order, each statistic with one
// fractional digit.
package format

import (
	"fmt"
	"sort"
	"strings"

	"github.com/couchcryptid/station-rollup/internal/engine"
)

// Render returns "{k1=min/mean/max, k2=min/mean/max, ...}". An empty result
// renders as "{}". The mean is computed in float64 from the exact integer
// sum and count before rounding.
func Render(res *engine.Result) string {
	stations := append([]engine.StationStats(nil), res.Stations...)
	sort.Slice(stations, func(i, j int) bool { return stations[i].Name < stations[j].Name })

	var b strings.Builder
	b.WriteByte('{')
	for i, s := range stations {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%s=%.1f/%.1f/%.1f",
			s.Name, float64(s.Min)/10, s.Mean(), float64(s.Max)/10)
	}
	b.WriteByte('}')
	return b.String()
}
