// Package features builds the edge and node feature matrices handed to
// model training.
package features

import (
	"github.com/kpaschen/dgprep/lib/datatypes"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// Artifacts are the three outputs of a preprocessor run.
type Artifacts struct {
	Table *datatypes.ReindexedEdgeTable
	// (edges+1) x feature dim, row 0 is zero.
	EdgeFeatures *mat.Dense
	// (max node id+1) x node feature dim, all zero.
	NodeFeatures *mat.Dense
}

// PadEdgeFeatures prepends a zero row to features so that row k holds the
// features of the edge with one-based index k.
func PadEdgeFeatures(features mat.Matrix) *mat.Dense {
	rows, cols := features.Dims()
	ret := mat.NewDense(rows+1, cols, nil)
	ret.Slice(1, rows+1, 0, cols).(*mat.Dense).Copy(features)
	return ret
}

// NodeFeatures allocates a zero matrix with one row per node id plus the
// padding row for id 0. Populating it is left to a later stage.
func NodeFeatures(maxNodeID int64, dim int) *mat.Dense {
	return mat.NewDense(int(maxNodeID)+1, dim, nil)
}

// Assemble pads the edge features and allocates the node features for a
// reindexed table. features must have one row per record of table.
func Assemble(table *datatypes.ReindexedEdgeTable, features mat.Matrix, nodeFeatDim int) (*Artifacts, error) {
	if nodeFeatDim <= 0 {
		return nil, errors.Errorf("node feature dimension must be positive, got %d", nodeFeatDim)
	}
	rows, _ := features.Dims()
	if rows != table.Len() {
		return nil, errors.Errorf("feature matrix has %d rows but the table has %d edges", rows, table.Len())
	}
	return &Artifacts{
		Table:        table,
		EdgeFeatures: PadEdgeFeatures(features),
		NodeFeatures: NodeFeatures(table.MaxNodeID(), nodeFeatDim),
	}, nil
}
