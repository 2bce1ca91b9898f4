// Package edgelist reads raw timestamped edge lists of the form
//
//	source_id,target_id,timestamp,label,feat_0,...,feat_k
//
// The first line is a header and is ignored.
package edgelist

import (
	"bufio"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/kpaschen/dgprep/lib/datatypes"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

const (
	// source, target, timestamp, label
	scalarFields = 4

	maxLineLength = 16 << 20
)

// ParseFile opens path and parses it with Parse.
func ParseFile(path string) (*datatypes.EdgeTable, *mat.Dense, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, nil, datatypes.IOFailure{Op: "open", Path: path, Err: err}
	}
	defer file.Close()
	return Parse(file, path)
}

// Parse reads an edge list and returns the records in file order together
// with the matching feature matrix (one row per record).
// name is only used in error messages.
func Parse(r io.Reader, name string) (*datatypes.EdgeTable, *mat.Dense, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineLength)

	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return nil, nil, datatypes.IOFailure{Op: "read", Path: name, Line: 1, Err: err}
		}
		return nil, nil, datatypes.IOFailure{Op: "read", Path: name, Err: errors.New("input is empty")}
	}

	table := &datatypes.EdgeTable{Records: make([]datatypes.EdgeRecord, 0, 1024)}
	featureDim := -1
	data := make([]float64, 0)
	previous := math.Inf(-1)
	lineNumber := 1

	for scanner.Scan() {
		lineNumber++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		parts := strings.Split(line, ",")
		if len(parts) < scalarFields {
			return nil, nil, datatypes.IOFailure{Op: "parse", Path: name, Line: lineNumber,
				Err: errors.Errorf("expected at least %d fields but got %d", scalarFields+1, len(parts))}
		}
		// gonum matrices cannot have zero columns.
		if len(parts) == scalarFields {
			return nil, nil, datatypes.IOFailure{Op: "parse", Path: name, Line: lineNumber,
				Err: errors.New("edge has no feature columns, at least one is required")}
		}
		if featureDim < 0 {
			featureDim = len(parts) - scalarFields
		} else if featureDim != len(parts)-scalarFields {
			return nil, nil, datatypes.IOFailure{Op: "parse", Path: name, Line: lineNumber,
				Err: errors.Errorf("inconsistent number of features: expected %d but got %d",
					featureDim, len(parts)-scalarFields)}
		}

		record, err := parseScalars(parts)
		if err != nil {
			return nil, nil, datatypes.IOFailure{Op: "parse", Path: name, Line: lineNumber, Err: err}
		}
		record.Index = int64(len(table.Records))

		// Written so that a NaN timestamp fails as well.
		if !(record.Timestamp >= previous) {
			return nil, nil, datatypes.TemporalOrderViolation{
				Line:      lineNumber,
				Index:     record.Index,
				Timestamp: record.Timestamp,
				Previous:  previous,
			}
		}
		previous = record.Timestamp

		for _, p := range parts[scalarFields:] {
			v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
			if err != nil {
				return nil, nil, datatypes.IOFailure{Op: "parse", Path: name, Line: lineNumber,
					Err: errors.Wrapf(err, "feature %q", p)}
			}
			data = append(data, v)
		}
		table.Records = append(table.Records, record)
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, datatypes.IOFailure{Op: "read", Path: name, Line: lineNumber + 1, Err: err}
	}
	if len(table.Records) == 0 {
		return nil, nil, datatypes.IOFailure{Op: "read", Path: name, Err: errors.New("input has no data rows")}
	}
	table.FeatureDim = featureDim
	return table, mat.NewDense(len(table.Records), featureDim, data), nil
}

func parseScalars(parts []string) (datatypes.EdgeRecord, error) {
	var record datatypes.EdgeRecord
	var err error
	record.Source, err = strconv.ParseInt(strings.TrimSpace(parts[0]), 10, 64)
	if err != nil {
		return record, errors.Wrapf(err, "source id %q", parts[0])
	}
	record.Target, err = strconv.ParseInt(strings.TrimSpace(parts[1]), 10, 64)
	if err != nil {
		return record, errors.Wrapf(err, "target id %q", parts[1])
	}
	record.Timestamp, err = strconv.ParseFloat(strings.TrimSpace(parts[2]), 64)
	if err != nil {
		return record, errors.Wrapf(err, "timestamp %q", parts[2])
	}
	record.Label, err = strconv.ParseFloat(strings.TrimSpace(parts[3]), 64)
	if err != nil {
		return record, errors.Wrapf(err, "label %q", parts[3])
	}
	return record, nil
}
