package aggregate

import (
	"fmt"

	"github.com/couchcryptid/station-rollup/internal/parse"
	"github.com/couchcryptid/station-rollup/internal/scan"
)

// Consume runs the scan-parse-accumulate loop over one chunk, updating tbl
// in place. data must contain whole records only; a final record without a
// trailing newline is accepted.
//
// A record with no field separator, an empty key, or a value outside the
// fixed-point grammar is malformed. With skipMalformed it is counted and
// dropped; otherwise Consume stops and returns an error naming the record.
// Either way the engine never folds a guessed number into the statistics.
func Consume(tbl *Table, data []byte, skipMalformed bool) (processed, malformed uint64, err error) {
	for len(data) > 0 {
		var record []byte
		if nl := scan.Newline(data); nl >= 0 {
			record, data = data[:nl], data[nl+1:]
		} else {
			record, data = data, nil
		}
		if len(record) == 0 {
			continue
		}

		sep := scan.Semicolon(record)
		if sep <= 0 {
			malformed++
			if skipMalformed {
				continue
			}
			return processed, malformed, fmt.Errorf("record %q: missing station or separator", record)
		}

		v, perr := parse.Temperature(record[sep+1:])
		if perr != nil {
			malformed++
			if skipMalformed {
				continue
			}
			return processed, malformed, fmt.Errorf("record %q: %w", record, perr)
		}

		tbl.Add(record[:sep], v)
		processed++
	}
	return processed, malformed, nil
}
