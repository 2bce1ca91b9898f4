package reporter

import (
	"io"

	"github.com/kpaschen/dgprep/lib/features"
	"github.com/parquet-go/parquet-go"
	"github.com/pkg/errors"
)

// EdgeRow is the parquet schema of the edge list. Index is the zero-based
// row number, Idx the one-based edge index.
type EdgeRow struct {
	Index int64   `parquet:"index"`
	U     int64   `parquet:"u"`
	I     int64   `parquet:"i"`
	Ts    float64 `parquet:"ts"`
	Label float64 `parquet:"label"`
	Idx   int64   `parquet:"idx"`
}

type ParquetEdgeListWriter struct {
	maxRowsPerRowGroup int64
	// Rows handed to the parquet writer per call.
	batchSize int
}

func NewParquetEdgeListWriter(maxRowsPerRowGroup int64) *ParquetEdgeListWriter {
	if maxRowsPerRowGroup <= 0 {
		maxRowsPerRowGroup = 100000
	}
	return &ParquetEdgeListWriter{
		maxRowsPerRowGroup: maxRowsPerRowGroup,
		batchSize:          10000,
	}
}

func (p *ParquetEdgeListWriter) Name() string {
	return "parquet edge list"
}

func (p *ParquetEdgeListWriter) WriteArtifact(w io.Writer, artifacts *features.Artifacts) error {
	writer := parquet.NewGenericWriter[EdgeRow](w, parquet.MaxRowsPerRowGroup(p.maxRowsPerRowGroup))
	records := artifacts.Table.Records
	batch := make([]EdgeRow, 0, p.batchSize)
	for row, r := range records {
		batch = append(batch, EdgeRow{
			Index: int64(row),
			U:     r.Source,
			I:     r.Target,
			Ts:    r.Timestamp,
			Label: r.Label,
			Idx:   r.Index,
		})
		if len(batch) == p.batchSize || row == len(records)-1 {
			if _, err := writer.Write(batch); err != nil {
				return errors.Wrapf(err, "write rows up to %d", row)
			}
			batch = batch[:0]
		}
	}
	// Close writes the footer; it does not close w.
	return writer.Close()
}
