package datatypes

import (
	"fmt"
)

// TemporalOrderViolation is returned when a record has a smaller timestamp
// than the record before it. Equal timestamps are fine.
type TemporalOrderViolation struct {
	// One-based line number in the input file, header included.
	Line int
	// Zero-based record index.
	Index     int64
	Timestamp float64
	Previous  float64
}

func (e TemporalOrderViolation) Error() string {
	return fmt.Sprintf("timestamp %v of record %d (line %d) is smaller than the previous timestamp %v",
		e.Timestamp, e.Index, e.Line, e.Previous)
}

// IdSpaceViolation is returned when the source or target ids do not cover
// [0, count-1] without gaps.
type IdSpaceViolation struct {
	// "source" or "target"
	Column   string
	Min      int64
	Max      int64
	Distinct int
	// The first id missing from [Min, Max], or -1 if the range is dense.
	Missing int64
}

func (e IdSpaceViolation) Error() string {
	if e.Missing >= 0 {
		return fmt.Sprintf("%s ids are not dense: id %d is missing from [%d, %d] (%d distinct ids)",
			e.Column, e.Missing, e.Min, e.Max, e.Distinct)
	}
	return fmt.Sprintf("%s ids must start at 0 but the smallest id is %d", e.Column, e.Min)
}

// IOFailure covers everything that goes wrong reading or writing files,
// including input that cannot be parsed.
type IOFailure struct {
	Op   string
	Path string
	// One-based input line, 0 if the failure is not tied to a line.
	Line int
	Err  error
}

func (e IOFailure) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s %s: line %d: %v", e.Op, e.Path, e.Line, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e IOFailure) Unwrap() error {
	return e.Err
}
