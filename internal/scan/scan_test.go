package scan_test

import (
	"bytes"
	"math/rand"
	"testing"

	"github.com/couchcryptid/station-rollup/internal/scan"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIndexByte_Basic(t *testing.T) {
	assert.Equal(t, -1, scan.IndexByte(nil, ';'))
	assert.Equal(t, -1, scan.IndexByte([]byte("Hamburg"), ';'))
	assert.Equal(t, 0, scan.IndexByte([]byte(";"), ';'))
	assert.Equal(t, 7, scan.IndexByte([]byte("Hamburg;12.0"), ';'))
	assert.Equal(t, 12, scan.Newline([]byte("Hamburg;12.0\nBerlin;5.5\n")))
	assert.Equal(t, 7, scan.Semicolon([]byte("Hamburg;12.0;")))
}

// The word-at-a-time scan must agree with a naive loop at every offset and
// every tail length, in particular when the target sits in the last partial
// word.
func TestIndexByte_MatchesNaive(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	for trial := 0; trial < 2000; trial++ {
		n := rng.Intn(40)
		b := make([]byte, n)
		for i := range b {
			// Small alphabet so matches are frequent.
			b[i] = []byte("ab;\n")[rng.Intn(4)]
		}
		for _, c := range []byte{';', '\n', 'a', 'z'} {
			want := bytes.IndexByte(b, c)
			require.Equal(t, want, scan.IndexByte(b, c), "input %q target %q", b, c)
		}
	}
}

// Every position of a single match must be found, across slices both shorter
// and longer than the 8-byte step.
func TestIndexByte_EveryOffset(t *testing.T) {
	for n := 1; n <= 24; n++ {
		for pos := 0; pos < n; pos++ {
			b := bytes.Repeat([]byte("x"), n)
			b[pos] = ';'
			require.Equal(t, pos, scan.IndexByte(b, ';'), "len %d pos %d", n, pos)
		}
	}
}

func TestIndexByte_FirstOfMany(t *testing.T) {
	b := []byte("aa;bb;cc;")
	assert.Equal(t, 2, scan.IndexByte(b, ';'))
}
