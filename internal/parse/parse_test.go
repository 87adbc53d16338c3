package parse_test

import (
	"fmt"
	"testing"

	"github.com/couchcryptid/station-rollup/internal/parse"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTemperature(t *testing.T) {
	cases := []struct {
		in   string
		want int16
	}{
		{"0.0", 0},
		{"5.5", 55},
		{"12.0", 120},
		{"99.9", 999},
		{"-0.5", -5},
		{"-12.3", -123},
		{"-99.9", -999},
		{"1.1", 11},
	}

	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			got, err := parse.Temperature([]byte(tc.in))
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestTemperature_Malformed(t *testing.T) {
	cases := []string{
		"",
		"-",
		"12",     // no fraction
		"12.",    // missing fractional digit
		"12.34",  // two fractional digits
		".5",     // missing integer digit
		"123.4",  // three integer digits, out of range by grammar
		"+5.5",   // leading plus not allowed
		"1a.0",   // non-digit
		"12,0",   // wrong separator
		"--1.0",  // double sign
		" 5.5",   // whitespace
		"5.5\n",  // stray record separator
		"NaN",    // not a number at all
		"-12.3x", // trailing junk
	}

	for _, in := range cases {
		t.Run(fmt.Sprintf("%q", in), func(t *testing.T) {
			_, err := parse.Temperature([]byte(in))
			require.ErrorIs(t, err, parse.ErrMalformed)
		})
	}
}

// Parsing then rendering at one fractional digit reproduces the original
// numeric value for the entire valid range.
func TestTemperature_RoundTrip(t *testing.T) {
	for v := int16(-999); v <= 999; v++ {
		rendered := fmt.Sprintf("%.1f", float64(v)/10)
		got, err := parse.Temperature([]byte(rendered))
		require.NoError(t, err, "input %s", rendered)
		require.Equal(t, v, got, "input %s", rendered)
	}
}
