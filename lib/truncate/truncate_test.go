package truncate

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/kpaschen/dgprep/lib/datatypes"
	"github.com/pkg/errors"
)

func writeTempCSV(t *testing.T, content [][]string) string {
	path := filepath.Join(t.TempDir(), "input.csv")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create temp input: %v", err)
	}
	w := csv.NewWriter(f)
	if err := w.WriteAll(content); err != nil {
		t.Fatalf("write rows: %v", err)
	}
	f.Close()
	return path
}

func readCSVAll(t *testing.T, path string) [][]string {
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open %s: %v", path, err)
	}
	defer f.Close()
	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	all, err := r.ReadAll()
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}
	return all
}

func tenRows() [][]string {
	rows := [][]string{{"u", "i", "ts", "label", "f0"}}
	for i := 0; i < 9; i++ {
		rows = append(rows, []string{fmt.Sprint(i), fmt.Sprint(i % 3), fmt.Sprintf("%d.0", i), "0", "0.25"})
	}
	return rows
}

func TestTruncateRows(t *testing.T) {
	input := tenRows()
	cases := []struct {
		name string
		n    int
		want [][]string
	}{
		{"drop three", 3, input[:7]},
		{"drop none", 0, input},
		{"drop all", 10, [][]string{}},
		{"drop more than there is", 25, [][]string{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := writeTempCSV(t, input)
			out := filepath.Join(t.TempDir(), "out.csv")
			res, err := TruncateRows(in, out, tc.n, false)
			if err != nil {
				t.Fatalf("unexpected: %v", err)
			}
			if res.Read != 10 || res.Written != len(tc.want) {
				t.Errorf("unexpected result %+v", res)
			}
			got := readCSVAll(t, out)
			if len(got) == 0 && len(tc.want) == 0 {
				return
			}
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("unexpected output (-want +got):\n%s", diff)
			}
		})
	}
}

func TestTruncateRowsKeepsCellsVerbatim(t *testing.T) {
	input := [][]string{
		{"name", "note"},
		{"a,b", "say \"hi\""},
		{"007", "1e3"},
		{"short"},
		{"x", "gone"},
	}
	in := writeTempCSV(t, input)
	out := filepath.Join(t.TempDir(), "out.csv")
	if _, err := TruncateRows(in, out, 1, false); err != nil {
		t.Fatalf("unexpected: %v", err)
	}
	if diff := cmp.Diff(input[:4], readCSVAll(t, out)); diff != "" {
		t.Errorf("unexpected output (-want +got):\n%s", diff)
	}
}

func TestTruncateRowsInPlace(t *testing.T) {
	path := writeTempCSV(t, tenRows())
	if _, err := TruncateRows(path, path, 4, false); err != nil {
		t.Fatalf("unexpected: %v", err)
	}
	if got := readCSVAll(t, path); len(got) != 6 {
		t.Errorf("expected 6 rows after truncating in place but got %d", len(got))
	}
}

func TestTruncateRowsCRLF(t *testing.T) {
	in := writeTempCSV(t, [][]string{{"a"}, {"b"}, {"c"}})
	out := filepath.Join(t.TempDir(), "out.csv")
	if _, err := TruncateRows(in, out, 1, true); err != nil {
		t.Fatalf("unexpected: %v", err)
	}
	b, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if string(b) != "a\r\nb\r\n" {
		t.Errorf("expected crlf line endings but got %q", string(b))
	}
}

func TestTruncateRowsErrors(t *testing.T) {
	in := writeTempCSV(t, tenRows())
	out := filepath.Join(t.TempDir(), "out.csv")
	if _, err := TruncateRows(in, out, -1, false); err == nil {
		t.Errorf("expected negative row count to fail")
	}
	if _, err := os.Stat(out); !os.IsNotExist(err) {
		t.Errorf("a rejected call must not create the destination")
	}

	_, err := TruncateRows(filepath.Join(t.TempDir(), "missing.csv"), out, 1, false)
	var failure datatypes.IOFailure
	if !errors.As(err, &failure) || failure.Op != "open" {
		t.Errorf("expected an open IOFailure but got %v", err)
	}

	_, err = TruncateRows(in, filepath.Join(t.TempDir(), "no", "such", "dir.csv"), 1, false)
	if !errors.As(err, &failure) || failure.Op != "create" {
		t.Errorf("expected a create IOFailure but got %v", err)
	}
}

func writeTempFile(t *testing.T, content string) string {
	path := filepath.Join(t.TempDir(), "input.csv")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("write temp input: %v", err)
	}
	return path
}

func TestTruncateRowsCountsBlankLines(t *testing.T) {
	input := "a,b\n\nc,d\ne,f\n"
	cases := []struct {
		name   string
		n      int
		crlf   bool
		want   string
		result Result
	}{
		{"identity", 0, false, input, Result{Read: 4, Written: 4}},
		{"drop one", 1, false, "a,b\n\nc,d\n", Result{Read: 4, Written: 3}},
		{"drop down to the blank line", 2, false, "a,b\n\n", Result{Read: 4, Written: 2}},
		{"crlf keeps the blank line", 1, true, "a,b\r\n\r\nc,d\r\n", Result{Read: 4, Written: 3}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := writeTempFile(t, input)
			out := filepath.Join(t.TempDir(), "out.csv")
			res, err := TruncateRows(in, out, tc.n, tc.crlf)
			if err != nil {
				t.Fatalf("unexpected: %v", err)
			}
			if res != tc.result {
				t.Errorf("expected %+v but got %+v", tc.result, res)
			}
			b, err := os.ReadFile(out)
			if err != nil {
				t.Fatalf("read output: %v", err)
			}
			if string(b) != tc.want {
				t.Errorf("expected %q but got %q", tc.want, string(b))
			}
		})
	}
}

func TestTruncateRowsCopiesBytes(t *testing.T) {
	cases := map[string]struct {
		input string
		n     int
		want  string
	}{
		"line break in a quoted cell": {"h\n\"x\ny\",1\nz\n", 1, "h\n\"x\ny\",1\n"},
		"escaped quotes":              {"h\n\"a\"\"\n\",2\nlast\n", 1, "h\n\"a\"\"\n\",2\n"},
		"bare quote mid cell":         {"h\nsay \"hi,1\nlast\n", 1, "h\nsay \"hi,1\n"},
		"crlf input kept as is":       {"h\r\n1\r\n2\r\n", 1, "h\r\n1\r\n"},
		"no final line break":         {"h\n1\n2", 0, "h\n1\n2"},
		"unquoted spacing kept":       {"h\n 1 , 2.50 \n3,4\n", 1, "h\n 1 , 2.50 \n"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			in := writeTempFile(t, tc.input)
			out := filepath.Join(t.TempDir(), "out.csv")
			if _, err := TruncateRows(in, out, tc.n, false); err != nil {
				t.Fatalf("unexpected: %v", err)
			}
			b, err := os.ReadFile(out)
			if err != nil {
				t.Fatalf("read output: %v", err)
			}
			if string(b) != tc.want {
				t.Errorf("expected %q but got %q", tc.want, string(b))
			}
		})
	}
}
