package aggregate_test

import (
	"fmt"
	"math/rand"
	"sort"
	"testing"

	"github.com/couchcryptid/station-rollup/internal/aggregate"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTable_FirstInsertAndUpdate(t *testing.T) {
	tbl := aggregate.NewTable(nil)

	tbl.Add([]byte("Hamburg"), 120)
	require.Equal(t, 1, tbl.Len())

	stats := tbl.Stats()
	require.Len(t, stats, 1)
	assert.Equal(t, []byte("Hamburg"), stats[0].Key)
	assert.Equal(t, int16(120), stats[0].Min)
	assert.Equal(t, int16(120), stats[0].Max)
	assert.Equal(t, int64(120), stats[0].Sum)
	assert.Equal(t, uint64(1), stats[0].Count)

	tbl.Add([]byte("Hamburg"), 100)
	tbl.Add([]byte("Hamburg"), 125)

	stats = tbl.Stats()
	require.Len(t, stats, 1)
	assert.Equal(t, int16(100), stats[0].Min)
	assert.Equal(t, int16(125), stats[0].Max)
	assert.Equal(t, int64(345), stats[0].Sum)
	assert.Equal(t, uint64(3), stats[0].Count)
	assert.InDelta(t, 11.5, stats[0].Mean(), 1e-9)
}

func TestTable_GrowthKeepsAllKeys(t *testing.T) {
	tbl := aggregate.NewTable(nil)

	// Enough distinct keys to force several growth steps.
	for i := 0; i < 5000; i++ {
		tbl.Add([]byte(fmt.Sprintf("Station-%04d", i)), int16(i%1000))
	}
	require.Equal(t, 5000, tbl.Len())

	seen := map[string]bool{}
	for _, s := range tbl.Stats() {
		seen[string(s.Key)] = true
		assert.Equal(t, uint64(1), s.Count)
	}
	assert.Len(t, seen, 5000)
}

// A hash that sends every key to the same slot forces worst-case probing;
// the table must still behave as a correct map.
func TestTable_PluggableHashCollisions(t *testing.T) {
	tbl := aggregate.NewTable(func([]byte) uint64 { return 42 })

	tbl.Add([]byte("A"), 10)
	tbl.Add([]byte("B"), 20)
	tbl.Add([]byte("A"), 30)

	require.Equal(t, 2, tbl.Len())
	byKey := statsByKey(tbl)
	assert.Equal(t, uint64(2), byKey["A"].Count)
	assert.Equal(t, int64(40), byKey["A"].Sum)
	assert.Equal(t, uint64(1), byKey["B"].Count)
}

func TestMerge_Combine(t *testing.T) {
	a := aggregate.NewTable(nil)
	a.Add([]byte("Hamburg"), 120)
	a.Add([]byte("Berlin"), 55)

	b := aggregate.NewTable(nil)
	b.Add([]byte("Hamburg"), 100)

	a.Merge(b)

	byKey := statsByKey(a)
	require.Len(t, byKey, 2)
	assert.Equal(t, int16(100), byKey["Hamburg"].Min)
	assert.Equal(t, int16(120), byKey["Hamburg"].Max)
	assert.Equal(t, int64(220), byKey["Hamburg"].Sum)
	assert.Equal(t, uint64(2), byKey["Hamburg"].Count)
	assert.Equal(t, uint64(1), byKey["Berlin"].Count)
}

// Merging in any order and any tree shape yields the same result.
func TestMerge_OrderIndependence(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	keys := []string{"Hamburg", "Berlin", "Munich", "Köln", "X"}

	build := func() []*aggregate.Table {
		tables := make([]*aggregate.Table, 4)
		rng := rand.New(rand.NewSource(7))
		for i := range tables {
			tables[i] = aggregate.NewTable(nil)
			for j := 0; j < 100; j++ {
				k := keys[rng.Intn(len(keys))]
				tables[i].Add([]byte(k), int16(rng.Intn(1999)-999))
			}
		}
		return tables
	}

	// Left fold in order.
	tables := build()
	sequential := aggregate.NewTable(nil)
	for _, tbl := range tables {
		sequential.Merge(tbl)
	}

	// Shuffled pairwise tree reduction.
	tables = build()
	rng.Shuffle(len(tables), func(i, j int) { tables[i], tables[j] = tables[j], tables[i] })
	left := aggregate.NewTable(nil)
	left.Merge(tables[1])
	left.Merge(tables[0])
	right := aggregate.NewTable(nil)
	right.Merge(tables[3])
	right.Merge(tables[2])
	tree := aggregate.NewTable(nil)
	tree.Merge(right)
	tree.Merge(left)

	diff := cmp.Diff(sortedStats(sequential), sortedStats(tree))
	assert.Empty(t, diff)
}

func statsByKey(tbl *aggregate.Table) map[string]aggregate.Stats {
	out := map[string]aggregate.Stats{}
	for _, s := range tbl.Stats() {
		out[string(s.Key)] = s
	}
	return out
}

func sortedStats(tbl *aggregate.Table) []aggregate.Stats {
	stats := tbl.Stats()
	sort.Slice(stats, func(i, j int) bool {
		return string(stats[i].Key) < string(stats[j].Key)
	})
	return stats
}
