// Package chunk divides the input buffer into record-aligned ranges, one per
// worker. Boundaries are always one past a newline, so no record is ever split
// between two workers.
package chunk

import (
	"github.com/couchcryptid/station-rollup/internal/scan"
)

// Chunk is a half-open byte range [Start, End) into the input buffer. It
// starts at the beginning of a record and ends one past a newline (or at
// end-of-buffer).
type Chunk struct {
	Start int
	End   int
}

// Len returns the number of bytes in the chunk.
func (c Chunk) Len() int { return c.End - c.Start }

// Split partitions data into at most n contiguous, record-aligned chunks.
// The chunks cover data exactly: they do not overlap and concatenating them
// in order reproduces the buffer. The actual count can be lower than n when
// the file is small or record lengths are uneven around the target
// boundaries; balance matters more than hitting n exactly.
//
// An empty buffer yields no chunks.
func Split(data []byte, n int) []Chunk {
	if len(data) == 0 {
		return nil
	}
	if n < 1 {
		n = 1
	}

	target := len(data) / n
	if target < 1 {
		target = 1
	}

	chunks := make([]Chunk, 0, n)
	start := 0
	for start < len(data) {
		approx := start + target
		if approx >= len(data) {
			chunks = append(chunks, Chunk{Start: start, End: len(data)})
			break
		}
		// Advance the approximate boundary to just past the next newline.
		nl := scan.Newline(data[approx:])
		if nl < 0 {
			chunks = append(chunks, Chunk{Start: start, End: len(data)})
			break
		}
		end := approx + nl + 1
		chunks = append(chunks, Chunk{Start: start, End: end})
		start = end
	}

	return chunks
}
