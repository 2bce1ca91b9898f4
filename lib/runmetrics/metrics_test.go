package runmetrics

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestWriteTextfile(t *testing.T) {
	m := NewRunMetrics()
	m.Edges.Set(3)
	m.MaxNodeID.Set(2)
	m.RunInfo.WithLabelValues("run-1", "wikipedia").Set(1)
	m.ObserveStage("parse", time.Now())

	if got := testutil.ToFloat64(m.Edges); got != 3 {
		t.Errorf("expected 3 edges but got %f", got)
	}

	path := filepath.Join(t.TempDir(), "dgprep.prom")
	if err := m.WriteTextfile(path); err != nil {
		t.Fatalf("unexpected: %v", err)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read textfile: %v", err)
	}
	text := string(b)
	for _, want := range []string{
		"dgprep_edges_total 3",
		"dgprep_max_node_id 2",
		`dgprep_run_info{dataset="wikipedia",run_id="run-1"} 1`,
		`dgprep_stage_duration_seconds{stage="parse"}`,
		"dgprep_build_info",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("expected %q in metrics output:\n%s", want, text)
		}
	}
}

func TestPush(t *testing.T) {
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	m := NewRunMetrics()
	m.Edges.Set(1)
	if err := m.Push(server.URL, "wikipedia"); err != nil {
		t.Fatalf("unexpected: %v", err)
	}
	if gotPath != "/metrics/job/dgprep_preprocess/dataset/wikipedia" {
		t.Errorf("unexpected push path %s", gotPath)
	}
}
