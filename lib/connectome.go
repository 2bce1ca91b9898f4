package lib

import (
	"time"

	"github.com/google/uuid"
	"github.com/kpaschen/dgprep/lib/datatypes"
	"github.com/kpaschen/dgprep/lib/edgelist"
	"github.com/kpaschen/dgprep/lib/features"
	"github.com/kpaschen/dgprep/lib/reindex"
	"github.com/kpaschen/dgprep/lib/reporter"
	"github.com/kpaschen/dgprep/lib/runmetrics"
	"github.com/kpaschen/dgprep/lib/settings"
	"github.com/kpaschen/dgprep/lib/verify"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// A ConnectomePreprocessor turns one raw edge list into the edge list,
// edge feature and node feature artifacts used for training.
// Nothing is written unless the whole input passes validation.
type ConnectomePreprocessor struct {
	settings settings.PreprocessSettings
	logger   logrus.FieldLogger
	metrics  *runmetrics.RunMetrics
	RunID    string
}

func NewConnectomePreprocessor(config settings.PreprocessSettings, logger logrus.FieldLogger) (*ConnectomePreprocessor, error) {
	config = config.ComputeSettingsFields()
	if err := config.Validate(); err != nil {
		return nil, err
	}
	runID := uuid.New().String()
	return &ConnectomePreprocessor{
		settings: config,
		logger:   logger.WithFields(logrus.Fields{"run_id": runID, "dataset": config.DatasetName}),
		metrics:  runmetrics.NewRunMetrics(),
		RunID:    runID,
	}, nil
}

func (c *ConnectomePreprocessor) Metrics() *runmetrics.RunMetrics {
	return c.metrics
}

func (c *ConnectomePreprocessor) outputs(paths settings.ArtifactPaths) []reporter.Output {
	outputs := []reporter.Output{
		{Path: paths.EdgeList, Writer: reporter.NewCsvEdgeListWriter()},
		{Path: paths.EdgeFeatures, Writer: reporter.NewEdgeFeatureWriter()},
		{Path: paths.NodeFeatures, Writer: reporter.NewNodeFeatureWriter()},
	}
	if c.settings.WriteParquet {
		outputs = append(outputs, reporter.Output{
			Path:   paths.Parquet,
			Writer: reporter.NewParquetEdgeListWriter(0),
		})
	}
	return outputs
}

// Run executes parse, reindex, assemble, write and (optionally) check.
// Metrics are exported at the end whether the run succeeded or not.
func (c *ConnectomePreprocessor) Run() (*features.Artifacts, error) {
	c.metrics.RunInfo.WithLabelValues(c.RunID, c.settings.DatasetName).Set(1)
	artifacts, err := c.run()
	if err != nil {
		c.metrics.Failures.WithLabelValues(errorKind(err)).Inc()
	}
	c.exportMetrics()
	return artifacts, err
}

func (c *ConnectomePreprocessor) run() (*features.Artifacts, error) {
	inputPath := c.settings.InputPath()
	c.logger.Infof("preprocess dataset %s from %s", c.settings.DatasetName, inputPath)

	start := time.Now()
	table, edgeFeatures, err := edgelist.ParseFile(inputPath)
	if err != nil {
		return nil, errors.Wrap(err, "parse")
	}
	c.metrics.ObserveStage("parse", start)
	c.metrics.Edges.Set(float64(table.Len()))
	c.metrics.EdgeFeatDim.Set(float64(table.FeatureDim))
	c.logger.Infof("parsed %d edges with %d features each", table.Len(), table.FeatureDim)

	start = time.Now()
	reindexed, err := reindex.Reindex(table, c.settings.Bipartite)
	if err != nil {
		return nil, errors.Wrap(err, "reindex")
	}
	c.metrics.ObserveStage("reindex", start)
	maxNodeID := reindexed.MaxNodeID()
	c.metrics.MaxNodeID.Set(float64(maxNodeID))
	c.metrics.Nodes.Set(float64(reindexed.NodeCount()))
	c.logger.Infof("reindexed %d source and %d target ids, max node id %d (bipartite: %v)",
		reindexed.SourceCount, reindexed.TargetCount, maxNodeID, reindexed.Bipartite)

	start = time.Now()
	artifacts, err := features.Assemble(reindexed, edgeFeatures, c.settings.NodeFeatDim)
	if err != nil {
		return nil, errors.Wrap(err, "assemble")
	}
	c.metrics.ObserveStage("assemble", start)

	start = time.Now()
	paths := c.settings.OutputPaths()
	if err := reporter.WriteAllInto(c.logger, paths.Directory, c.outputs(paths), artifacts); err != nil {
		return nil, errors.Wrap(err, "write artifacts")
	}
	c.metrics.ObserveStage("write", start)

	if c.settings.Check {
		start = time.Now()
		checker := verify.NewArtifactChecker(paths, c.settings.WriteParquet)
		err := checker.Check(verify.Expectation{
			Edges:          table.Len(),
			MaxNodeID:      maxNodeID,
			EdgeFeatureDim: table.FeatureDim,
			NodeFeatDim:    c.settings.NodeFeatDim,
		})
		if err != nil {
			return artifacts, errors.Wrap(err, "check")
		}
		c.metrics.ObserveStage("check", start)
		c.logger.Infof("artifacts in %s passed the check", paths.Directory)
	}

	c.logger.Infof("%s is processed successfully.", c.settings.DatasetName)
	return artifacts, nil
}

func (c *ConnectomePreprocessor) exportMetrics() {
	if c.settings.MetricsTextfile != "" {
		if err := c.metrics.WriteTextfile(c.settings.MetricsTextfile); err != nil {
			c.logger.Warnf("failed to export metrics: %v", err)
		}
	}
	if c.settings.PushgatewayURL != "" {
		if err := c.metrics.Push(c.settings.PushgatewayURL, c.settings.DatasetName); err != nil {
			c.logger.Warnf("failed to push metrics: %v", err)
		}
	}
}

func errorKind(err error) string {
	var temporal datatypes.TemporalOrderViolation
	var idSpace datatypes.IdSpaceViolation
	var ioFailure datatypes.IOFailure
	switch {
	case errors.As(err, &temporal):
		return "temporal_order"
	case errors.As(err, &idSpace):
		return "id_space"
	case errors.As(err, &ioFailure):
		return "io"
	default:
		return "other"
	}
}
