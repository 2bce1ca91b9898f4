// Package reindex moves the node ids and edge indices of an edge table into
// a one-based namespace, reserving 0 for padding rows.
package reindex

import (
	"sort"

	"github.com/kpaschen/dgprep/lib/datatypes"
)

// CheckIdSpace verifies that ids are exactly the integers 0..count-1.
// column names the ids in the returned IdSpaceViolation.
func CheckIdSpace(column string, ids []int64) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	sorted := make([]int64, len(ids))
	copy(sorted, ids)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	distinct := 1
	missing := int64(-1)
	for i := 1; i < len(sorted); i++ {
		if sorted[i] == sorted[i-1] {
			continue
		}
		if missing < 0 && sorted[i] != sorted[i-1]+1 {
			missing = sorted[i-1] + 1
		}
		distinct++
	}
	minId, maxId := sorted[0], sorted[len(sorted)-1]
	if maxId-minId+1 != int64(distinct) || minId != 0 {
		return distinct, datatypes.IdSpaceViolation{
			Column:   column,
			Min:      minId,
			Max:      maxId,
			Distinct: distinct,
			Missing:  missing,
		}
	}
	return distinct, nil
}

// Reindex checks that source and target ids are both dense and 0-based,
// then returns a copy of table with every id and index shifted by one.
// If bipartite is set, target ids are first moved past the largest source
// id so that the two node classes occupy disjoint ranges.
func Reindex(table *datatypes.EdgeTable, bipartite bool) (*datatypes.ReindexedEdgeTable, error) {
	sourceCount, err := CheckIdSpace("source", table.Sources())
	if err != nil {
		return nil, err
	}
	targetCount, err := CheckIdSpace("target", table.Targets())
	if err != nil {
		return nil, err
	}

	// Dense and 0-based, so the largest source id is sourceCount-1.
	targetOffset := int64(0)
	if bipartite {
		targetOffset = int64(sourceCount)
	}

	ret := &datatypes.ReindexedEdgeTable{
		EdgeTable: datatypes.EdgeTable{
			Records:    make([]datatypes.EdgeRecord, len(table.Records)),
			FeatureDim: table.FeatureDim,
		},
		Bipartite:   bipartite,
		SourceCount: sourceCount,
		TargetCount: targetCount,
	}
	for i, r := range table.Records {
		r.Source += 1
		r.Target += targetOffset + 1
		r.Index += 1
		ret.Records[i] = r
	}
	return ret, nil
}
