// Package runmetrics collects metrics for a single preprocessor run and
// exports them once the run is over.
package runmetrics

import (
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	versioncollector "github.com/prometheus/client_golang/prometheus/collectors/version"
	"github.com/prometheus/client_golang/prometheus/push"
)

const (
	PROGRAM_NAME = "dgprep"
	PUSH_JOB     = "dgprep_preprocess"
)

// RunMetrics uses its own registry so that runs (and tests) do not share
// state through the default registerer.
type RunMetrics struct {
	Registry *prometheus.Registry

	Edges         prometheus.Gauge
	Nodes         prometheus.Gauge
	MaxNodeID     prometheus.Gauge
	EdgeFeatDim   prometheus.Gauge
	StageDuration *prometheus.GaugeVec
	RunInfo       *prometheus.GaugeVec
	Failures      *prometheus.CounterVec
}

func NewRunMetrics() *RunMetrics {
	m := &RunMetrics{
		Registry: prometheus.NewRegistry(),
		Edges: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "dgprep_edges_total",
			Help: "Number of edges in the processed dataset.",
		}),
		Nodes: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "dgprep_nodes_total",
			Help: "Number of distinct node ids after reindexing.",
		}),
		MaxNodeID: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "dgprep_max_node_id",
			Help: "Largest node id after reindexing.",
		}),
		EdgeFeatDim: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "dgprep_edge_feature_dim",
			Help: "Number of features per edge.",
		}),
		StageDuration: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "dgprep_stage_duration_seconds",
			Help: "Wall time spent in each stage of the run.",
		}, []string{"stage"}),
		RunInfo: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "dgprep_run_info",
			Help: "Identifies the run the other metrics belong to.",
		}, []string{"run_id", "dataset"}),
		Failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "dgprep_failures_total",
			Help: "Runs that failed, by error kind.",
		}, []string{"kind"}),
	}
	m.Registry.MustRegister(m.Edges, m.Nodes, m.MaxNodeID, m.EdgeFeatDim,
		m.StageDuration, m.RunInfo, m.Failures,
		versioncollector.NewCollector(PROGRAM_NAME))
	return m
}

// ObserveStage records how long a stage took since start.
func (m *RunMetrics) ObserveStage(stage string, start time.Time) {
	m.StageDuration.WithLabelValues(stage).Set(time.Since(start).Seconds())
}

// WriteTextfile writes the metrics in the format read by the node exporter
// textfile collector.
func (m *RunMetrics) WriteTextfile(path string) error {
	return errors.Wrapf(prometheus.WriteToTextfile(path, m.Registry), "write metrics to %s", path)
}

// Push sends the metrics to a pushgateway, grouped by dataset.
func (m *RunMetrics) Push(url string, dataset string) error {
	err := push.New(url, PUSH_JOB).
		Gatherer(m.Registry).
		Grouping("dataset", dataset).
		Push()
	return errors.Wrapf(err, "push metrics to %s", url)
}
