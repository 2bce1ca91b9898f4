package reporter

import (
	"encoding/csv"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/kpaschen/dgprep/lib/features"
	"github.com/pkg/errors"
)

var EdgeListHeader = []string{"", "u", "i", "ts", "label", "idx"}

// CsvEdgeListWriter writes the reindexed edge table with a leading row
// number column, the layout of a DataFrame.to_csv dump.
type CsvEdgeListWriter struct {
	// How many rows to buffer before flushing.
	FlushEvery int
}

func NewCsvEdgeListWriter() *CsvEdgeListWriter {
	return &CsvEdgeListWriter{FlushEvery: 1000}
}

func (c *CsvEdgeListWriter) Name() string {
	return "edge list"
}

func (c *CsvEdgeListWriter) WriteArtifact(w io.Writer, artifacts *features.Artifacts) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(EdgeListHeader); err != nil {
		return errors.Wrap(err, "write header")
	}
	record := make([]string, len(EdgeListHeader))
	for row, r := range artifacts.Table.Records {
		record[0] = strconv.Itoa(row)
		record[1] = strconv.FormatInt(r.Source, 10)
		record[2] = strconv.FormatInt(r.Target, 10)
		record[3] = FormatFloat(r.Timestamp)
		record[4] = FormatFloat(r.Label)
		record[5] = strconv.FormatInt(r.Index, 10)
		if err := writer.Write(record); err != nil {
			return errors.Wrapf(err, "write row %d", row)
		}
		if c.FlushEvery > 0 && (row+1)%c.FlushEvery == 0 {
			writer.Flush()
			if err := writer.Error(); err != nil {
				return errors.Wrapf(err, "flush after row %d", row)
			}
		}
	}
	writer.Flush()
	return writer.Error()
}

// FormatFloat prints v the way Python's repr does for floats: the shortest
// representation that round-trips, with a trailing ".0" for integral values
// and exponent notation outside [1e-4, 1e16). NaN becomes an empty cell.
func FormatFloat(v float64) string {
	switch {
	case math.IsNaN(v):
		return ""
	case math.IsInf(v, 1):
		return "inf"
	case math.IsInf(v, -1):
		return "-inf"
	}
	abs := math.Abs(v)
	if abs != 0 && (abs < 1e-4 || abs >= 1e16) {
		return strconv.FormatFloat(v, 'e', -1, 64)
	}
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
