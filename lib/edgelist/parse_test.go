package edgelist

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/kpaschen/dgprep/lib/datatypes"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

const sample = `user_id,item_id,timestamp,state_label,f0,f1
0,0,0.0,0,0.1,0.2
1,1,1.0,0,0.3,0.4
0,1,1.0,1,0.5,0.6
`

func TestParse(t *testing.T) {
	table, features, err := Parse(strings.NewReader(sample), "sample")
	if err != nil {
		t.Fatalf("unexpected: %v", err)
	}
	if table.Len() != 3 {
		t.Fatalf("expected 3 records but got %d", table.Len())
	}
	if table.FeatureDim != 2 {
		t.Errorf("expected feature dim 2 but got %d", table.FeatureDim)
	}
	want := []datatypes.EdgeRecord{
		{Source: 0, Target: 0, Timestamp: 0.0, Label: 0, Index: 0},
		{Source: 1, Target: 1, Timestamp: 1.0, Label: 0, Index: 1},
		{Source: 0, Target: 1, Timestamp: 1.0, Label: 1, Index: 2},
	}
	if diff := cmp.Diff(want, table.Records); diff != "" {
		t.Errorf("unexpected records (-want +got):\n%s", diff)
	}
	expected := mat.NewDense(3, 2, []float64{0.1, 0.2, 0.3, 0.4, 0.5, 0.6})
	if !mat.EqualApprox(features, expected, 1e-12) {
		t.Errorf("expected features %v but got %v", mat.Formatted(expected), mat.Formatted(features))
	}
}

func TestParseSkipsBlankLinesAndWhitespace(t *testing.T) {
	input := "h\n 0 , 0 , 2.5 , 0 , 1\n\n1,1,3,0,2\r\n"
	table, features, err := Parse(strings.NewReader(input), "blank")
	if err != nil {
		t.Fatalf("unexpected: %v", err)
	}
	if table.Len() != 2 {
		t.Fatalf("expected 2 records but got %d", table.Len())
	}
	if table.Records[1].Index != 1 {
		t.Errorf("blank lines must not advance the index, got %d", table.Records[1].Index)
	}
	if features.At(1, 0) != 2 {
		t.Errorf("expected feature 2 but got %f", features.At(1, 0))
	}
}

func TestParseTemporalOrderViolation(t *testing.T) {
	input := "h\n0,0,1.0,0,0.1\n1,1,0.5,0,0.2\n2,2,3.0,0,0.3\n"
	_, _, err := Parse(strings.NewReader(input), "unordered")
	var violation datatypes.TemporalOrderViolation
	if !errors.As(err, &violation) {
		t.Fatalf("expected a temporal order violation but got %v", err)
	}
	if violation.Index != 1 || violation.Line != 3 {
		t.Errorf("expected the violation at record 1 (line 3) but got %+v", violation)
	}
	if violation.Previous != 1.0 || violation.Timestamp != 0.5 {
		t.Errorf("unexpected timestamps in %+v", violation)
	}
}

func TestParseMalformed(t *testing.T) {
	cases := map[string]string{
		"empty file":        "",
		"header only":       "u,i,ts,label,f\n",
		"float id":          "h\n0.5,0,0,0,1\n",
		"bad timestamp":     "h\n0,0,yesterday,0,1\n",
		"bad feature":       "h\n0,0,0,0,x\n",
		"no features":       "h\n0,0,0,0\n",
		"ragged features":   "h\n0,0,0,0,1,2\n1,1,1,0,1\n",
		"nan timestamp":     "h\n0,0,NaN,0,1\n",
		"negative infinity": "h\n0,0,1,0,1\n1,1,-Inf,0,1\n",
	}
	for name, input := range cases {
		_, _, err := Parse(strings.NewReader(input), name)
		if err == nil {
			t.Errorf("%s: expected an error", name)
		}
	}

	_, _, err := Parse(strings.NewReader("h\n0,0,0,0,1,2\n1,1,1,0,1\n"), "ragged")
	var failure datatypes.IOFailure
	if !errors.As(err, &failure) {
		t.Fatalf("expected an IOFailure but got %v", err)
	}
	if failure.Line != 3 {
		t.Errorf("expected the failure on line 3 but got %d", failure.Line)
	}
}

func TestParseRejectsEdgesWithoutFeatures(t *testing.T) {
	_, _, err := Parse(strings.NewReader("u,i,ts,label\n0,0,0,0\n1,1,1,0\n"), "no-features")
	var failure datatypes.IOFailure
	if !errors.As(err, &failure) {
		t.Fatalf("expected an IOFailure but got %v", err)
	}
	if failure.Line != 2 {
		t.Errorf("expected the failure on line 2 but got %d", failure.Line)
	}
	if !strings.Contains(err.Error(), "no feature columns") {
		t.Errorf("expected the error to name the missing features but got %v", err)
	}
}

func TestParseFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "edges.csv")
	if err := os.WriteFile(path, []byte(sample), 0640); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}
	table, _, err := ParseFile(path)
	if err != nil {
		t.Fatalf("unexpected: %v", err)
	}
	if table.Len() != 3 {
		t.Errorf("expected 3 records but got %d", table.Len())
	}

	_, _, err = ParseFile(filepath.Join(t.TempDir(), "missing.csv"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected a not-exist error but got %v", err)
	}
}
