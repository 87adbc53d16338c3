// Package aggregate accumulates per-station statistics. Each worker owns one
// Table and fills it with no synchronization; completed tables are folded
// into one by Merge, a commutative and associative combine.
package aggregate

import (
	"bytes"

	"github.com/zeebo/xxh3"
)

const (
	initialCapacity = 1 << 10
	// Grow at 3/4 load. Station cardinality is small (tens to low
	// thousands), so growth is rare after warm-up.
	loadNum, loadDen = 3, 4
)

// Stats is the running aggregate for one station. Temperatures are scaled by
// ten, so Min and Max fit int16 for the documented -99.9..99.9 range. Sum is
// an int64 accumulator: at |value| <= 999 it would take over 9e15 records to
// overflow, far beyond the design load.
type Stats struct {
	Key   []byte
	Min   int16
	Max   int16
	Sum   int64
	Count uint64
}

// Mean returns the arithmetic mean in real temperature units.
func (s Stats) Mean() float64 {
	return float64(s.Sum) / 10 / float64(s.Count)
}

type entry struct {
	key   []byte
	hash  uint64
	min   int16
	max   int16
	sum   int64
	count uint64
}

// HashFunc hashes a station name. Equal keys must hash equal; beyond that the
// algorithm is pluggable.
type HashFunc func([]byte) uint64

// Table is an open-addressing hash table from station name to Stats, with
// linear probing over a power-of-two slot array. It is not safe for
// concurrent use: each worker owns its table exclusively until handing it to
// the merge step.
//
// Keys are stored as borrowed spans into the input buffer, which stays mapped
// for the whole run; nothing is copied per record.
type Table struct {
	hash    HashFunc
	entries []entry
	size    int
}

// NewTable creates an empty table. A nil hash selects xxh3, a wide-block hash
// that mixes eight or more key bytes per step; station names are short
// identifier-like strings and hashing them is a per-record cost.
func NewTable(hash HashFunc) *Table {
	if hash == nil {
		hash = xxh3.Hash
	}
	return &Table{
		hash:    hash,
		entries: make([]entry, initialCapacity),
	}
}

// Len returns the number of distinct stations observed.
func (t *Table) Len() int { return t.size }

// Add records one observation for key.
func (t *Table) Add(key []byte, v int16) {
	h := t.hash(key)
	e := t.slot(key, h)
	if e.count == 0 {
		*e = entry{key: key, hash: h, min: v, max: v, sum: int64(v), count: 1}
		t.size++
		t.maybeGrow()
		return
	}
	if v < e.min {
		e.min = v
	}
	if v > e.max {
		e.max = v
	}
	e.sum += int64(v)
	e.count++
}

// Merge folds other into t. Both tables must be quiescent, built with the
// same hash function, and other is not modified. Merging is commutative and
// associative, so any merge order and any tree shape produce the same final
// table.
func (t *Table) Merge(other *Table) {
	for i := range other.entries {
		o := &other.entries[i]
		if o.count == 0 {
			continue
		}
		e := t.slot(o.key, o.hash)
		if e.count == 0 {
			*e = *o
			t.size++
			t.maybeGrow()
			continue
		}
		if o.min < e.min {
			e.min = o.min
		}
		if o.max > e.max {
			e.max = o.max
		}
		e.sum += o.sum
		e.count += o.count
	}
}

// Stats returns a snapshot of every station's aggregate, in table order.
// Keys still borrow from the input buffer.
func (t *Table) Stats() []Stats {
	out := make([]Stats, 0, t.size)
	for i := range t.entries {
		e := &t.entries[i]
		if e.count == 0 {
			continue
		}
		out = append(out, Stats{Key: e.key, Min: e.min, Max: e.max, Sum: e.sum, Count: e.count})
	}
	return out
}

// slot returns the entry for key, or the empty slot where it belongs.
func (t *Table) slot(key []byte, h uint64) *entry {
	mask := uint64(len(t.entries) - 1)
	for i := h & mask; ; i = (i + 1) & mask {
		e := &t.entries[i]
		if e.count == 0 {
			return e
		}
		if e.hash == h && bytes.Equal(e.key, key) {
			return e
		}
	}
}

func (t *Table) maybeGrow() {
	if t.size*loadDen < len(t.entries)*loadNum {
		return
	}
	old := t.entries
	t.entries = make([]entry, len(old)*2)
	for i := range old {
		e := &old[i]
		if e.count == 0 {
			continue
		}
		*t.slot(e.key, e.hash) = *e
	}
}
