package datatypes

// EdgeRecord is one timestamped interaction u -> i.
// Index is the zero-based position of the record among the data lines of
// the input; after reindexing it is one-based. The feature vector of the
// record lives in row Index of the feature matrix that accompanies the
// table.
type EdgeRecord struct {
	Source    int64
	Target    int64
	Timestamp float64
	Label     float64
	Index     int64
}

// EdgeTable holds the records of one input file in file order.
// Invariant: timestamps are non-decreasing.
type EdgeTable struct {
	Records []EdgeRecord
	// Number of features per edge.
	FeatureDim int
}

func (t *EdgeTable) Len() int {
	return len(t.Records)
}

// Sources returns the source ids in record order.
func (t *EdgeTable) Sources() []int64 {
	ret := make([]int64, len(t.Records))
	for i, r := range t.Records {
		ret[i] = r.Source
	}
	return ret
}

// Targets returns the target ids in record order.
func (t *EdgeTable) Targets() []int64 {
	ret := make([]int64, len(t.Records))
	for i, r := range t.Records {
		ret[i] = r.Target
	}
	return ret
}

// ReindexedEdgeTable is an EdgeTable whose node ids and edge indices are
// one-based. Id 0 and index 0 are reserved for the padding rows of the
// feature matrices.
type ReindexedEdgeTable struct {
	EdgeTable
	Bipartite bool
	// Number of distinct source and target ids before reindexing.
	SourceCount int
	TargetCount int
}

// MaxNodeID is the largest id used as a source or a target.
func (t *ReindexedEdgeTable) MaxNodeID() int64 {
	var ret int64
	for _, r := range t.Records {
		if r.Source > ret {
			ret = r.Source
		}
		if r.Target > ret {
			ret = r.Target
		}
	}
	return ret
}

// NodeCount is the number of distinct ids used as a source or a target.
func (t *ReindexedEdgeTable) NodeCount() int {
	seen := make(map[int64]struct{})
	for _, r := range t.Records {
		seen[r.Source] = struct{}{}
		seen[r.Target] = struct{}{}
	}
	return len(seen)
}
