// Package verify reopens the artifacts of a preprocessor run and checks the
// shape invariants that model training relies on.
package verify

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/kpaschen/dgprep/lib/datatypes"
	"github.com/kpaschen/dgprep/lib/reporter"
	"github.com/kpaschen/dgprep/lib/settings"
	"github.com/parquet-go/parquet-go"
	"github.com/pkg/errors"
	"github.com/sbinet/npyio/npy"
	"gonum.org/v1/gonum/mat"
)

// Expectation describes what a run should have produced.
type Expectation struct {
	Edges          int
	MaxNodeID      int64
	EdgeFeatureDim int
	NodeFeatDim    int
}

type ArtifactChecker struct {
	paths        settings.ArtifactPaths
	checkParquet bool
	problems     []string
}

func NewArtifactChecker(paths settings.ArtifactPaths, checkParquet bool) *ArtifactChecker {
	return &ArtifactChecker{
		paths:        paths,
		checkParquet: checkParquet,
	}
}

func (c *ArtifactChecker) problem(format string, args ...interface{}) {
	c.problems = append(c.problems, fmt.Sprintf(format, args...))
}

// Check returns an error naming every violated invariant. Failures to read an
// artifact at all are returned as IOFailure.
func (c *ArtifactChecker) Check(expected Expectation) error {
	c.problems = nil
	if err := c.checkEdgeList(expected); err != nil {
		return err
	}
	if err := c.checkEdgeFeatures(expected); err != nil {
		return err
	}
	if err := c.checkNodeFeatures(expected); err != nil {
		return err
	}
	if c.checkParquet {
		if err := c.checkParquetEdgeList(expected); err != nil {
			return err
		}
	}
	if len(c.problems) > 0 {
		return errors.Errorf("artifact check failed: %s", strings.Join(c.problems, "; "))
	}
	return nil
}

func (c *ArtifactChecker) checkEdgeList(expected Expectation) error {
	path := c.paths.EdgeList
	file, err := os.Open(path)
	if err != nil {
		return datatypes.IOFailure{Op: "open", Path: path, Err: err}
	}
	defer file.Close()
	rows, err := csv.NewReader(file).ReadAll()
	if err != nil {
		return datatypes.IOFailure{Op: "read", Path: path, Err: err}
	}
	if len(rows) == 0 || strings.Join(rows[0], ",") != strings.Join(reporter.EdgeListHeader, ",") {
		c.problem("%s: unexpected header", path)
		return nil
	}
	rows = rows[1:]
	if len(rows) != expected.Edges {
		c.problem("%s: expected %d edges but found %d", path, expected.Edges, len(rows))
	}
	var maxNode int64
	for n, row := range rows {
		if len(row) != len(reporter.EdgeListHeader) {
			c.problem("%s: row %d has %d columns", path, n, len(row))
			continue
		}
		u, errU := strconv.ParseInt(row[1], 10, 64)
		i, errI := strconv.ParseInt(row[2], 10, 64)
		idx, errIdx := strconv.ParseInt(row[5], 10, 64)
		if errU != nil || errI != nil || errIdx != nil {
			c.problem("%s: row %d has non-integer ids", path, n)
			continue
		}
		if u < 1 || i < 1 {
			c.problem("%s: row %d has a node id below 1", path, n)
		}
		if idx != int64(n+1) {
			c.problem("%s: row %d has edge index %d", path, n, idx)
		}
		maxNode = max(maxNode, u, i)
	}
	if maxNode != expected.MaxNodeID {
		c.problem("%s: expected max node id %d but found %d", path, expected.MaxNodeID, maxNode)
	}
	return nil
}

func readMatrix(path string) (*mat.Dense, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, datatypes.IOFailure{Op: "open", Path: path, Err: err}
	}
	defer file.Close()
	var m mat.Dense
	if err := npy.Read(file, &m); err != nil {
		return nil, datatypes.IOFailure{Op: "read", Path: path, Err: err}
	}
	return &m, nil
}

func isZeroRow(m *mat.Dense, row int) bool {
	for _, v := range m.RawRowView(row) {
		if v != 0 {
			return false
		}
	}
	return true
}

func (c *ArtifactChecker) checkEdgeFeatures(expected Expectation) error {
	path := c.paths.EdgeFeatures
	m, err := readMatrix(path)
	if err != nil {
		return err
	}
	rows, cols := m.Dims()
	if rows != expected.Edges+1 || cols != expected.EdgeFeatureDim {
		c.problem("%s: expected shape (%d, %d) but found (%d, %d)",
			path, expected.Edges+1, expected.EdgeFeatureDim, rows, cols)
	}
	if !isZeroRow(m, 0) {
		c.problem("%s: padding row 0 is not zero", path)
	}
	return nil
}

func (c *ArtifactChecker) checkNodeFeatures(expected Expectation) error {
	path := c.paths.NodeFeatures
	m, err := readMatrix(path)
	if err != nil {
		return err
	}
	rows, cols := m.Dims()
	if int64(rows) != expected.MaxNodeID+1 || cols != expected.NodeFeatDim {
		c.problem("%s: expected shape (%d, %d) but found (%d, %d)",
			path, expected.MaxNodeID+1, expected.NodeFeatDim, rows, cols)
	}
	for i := 0; i < rows; i++ {
		if !isZeroRow(m, i) {
			c.problem("%s: row %d is not zero", path, i)
			break
		}
	}
	return nil
}

func (c *ArtifactChecker) checkParquetEdgeList(expected Expectation) error {
	path := c.paths.Parquet
	pqfile, err := os.Open(path)
	if err != nil {
		return datatypes.IOFailure{Op: "open", Path: path, Err: err}
	}
	defer pqfile.Close()
	stat, err := pqfile.Stat()
	if err != nil {
		return datatypes.IOFailure{Op: "stat", Path: path, Err: err}
	}
	file, err := parquet.OpenFile(pqfile, stat.Size())
	if err != nil {
		return datatypes.IOFailure{Op: "read", Path: path, Err: err}
	}

	schema := file.Schema()
	for _, column := range []string{"u", "i", "ts", "label", "idx"} {
		if _, ok := schema.Lookup(column); !ok {
			c.problem("%s: missing column %s", path, column)
		}
	}
	if file.NumRows() != int64(expected.Edges) {
		c.problem("%s: expected %d edges but found %d", path, expected.Edges, file.NumRows())
	}
	return nil
}
