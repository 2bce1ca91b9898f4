package reporter

import (
	"io"

	"github.com/kpaschen/dgprep/lib/features"
	"github.com/sbinet/npyio/npy"
	"gonum.org/v1/gonum/mat"
)

// NpyMatrixWriter writes one of the feature matrices as a float64 .npy array.
type NpyMatrixWriter struct {
	name   string
	matrix func(*features.Artifacts) *mat.Dense
}

func NewEdgeFeatureWriter() *NpyMatrixWriter {
	return &NpyMatrixWriter{
		name:   "edge features",
		matrix: func(a *features.Artifacts) *mat.Dense { return a.EdgeFeatures },
	}
}

func NewNodeFeatureWriter() *NpyMatrixWriter {
	return &NpyMatrixWriter{
		name:   "node features",
		matrix: func(a *features.Artifacts) *mat.Dense { return a.NodeFeatures },
	}
}

func (n *NpyMatrixWriter) Name() string {
	return n.name
}

func (n *NpyMatrixWriter) WriteArtifact(w io.Writer, artifacts *features.Artifacts) error {
	return npy.Write(w, n.matrix(artifacts))
}
