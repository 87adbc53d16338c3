// Package parse converts a temperature field into a scaled integer. Values
// are fixed-point with exactly one fractional digit, so "-12.3" becomes -123
// and every accumulation stays in integer arithmetic.
package parse

import (
	"errors"
	"fmt"
)

// ErrMalformed reports a value that does not match the -?D?D.D grammar.
// The engine never guesses at a number for such input: the record is either
// skipped or fails the run, depending on policy.
var ErrMalformed = errors.New("malformed temperature")

// Temperature parses b as a signed decimal with one or two integer digits and
// exactly one fractional digit, returning the value scaled by ten. The
// grammar bounds the result to [-999, 999], so int16 cannot overflow.
//
// The sign is consumed once up front; the remaining bytes are accumulated
// left to right as v = v*10 + digit, skipping the single dot.
func Temperature(b []byte) (int16, error) {
	if len(b) == 0 {
		return 0, fmt.Errorf("%w: empty value", ErrMalformed)
	}

	neg := b[0] == '-'
	if neg {
		b = b[1:]
	}

	// Remaining forms: D.D or DD.D.
	var dot int
	switch len(b) {
	case 3:
		dot = 1
	case 4:
		dot = 2
	default:
		return 0, fmt.Errorf("%w: %q", ErrMalformed, b)
	}
	if b[dot] != '.' {
		return 0, fmt.Errorf("%w: %q", ErrMalformed, b)
	}

	var v int16
	for i, c := range b {
		if i == dot {
			continue
		}
		if c < '0' || c > '9' {
			return 0, fmt.Errorf("%w: %q", ErrMalformed, b)
		}
		v = v*10 + int16(c-'0')
	}

	if neg {
		v = -v
	}
	return v, nil
}
