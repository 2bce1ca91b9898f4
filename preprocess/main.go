package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/kpaschen/dgprep/lib"
	"github.com/kpaschen/dgprep/lib/logging"
	"github.com/kpaschen/dgprep/lib/runmetrics"
	"github.com/kpaschen/dgprep/lib/settings"
	"github.com/prometheus/common/version"
)

func main() {
	var datasetName string
	var readDir string
	var readRoot string
	var saveDir string
	var saveRoot string
	var nodeFeatDim int
	var check bool
	var bipartite bool
	var writeParquet bool
	var metricsTextfile string
	var pushgatewayURL string
	var logLevel string
	var printVersion bool

	flag.StringVar(&datasetName, "dataset_name", "", "Dataset name")
	flag.StringVar(&readDir, "read_dir", "", "Dataset path: the directory below -read_root holding <dataset_name>.csv")
	flag.StringVar(&readRoot, "read_root", settings.DEFAULT_READ_ROOT, "Root directory of the raw datasets")
	flag.StringVar(&saveDir, "save_dir", settings.SAVE_DIR_GDRIVE, "Save directory: gdrive or repo")
	flag.StringVar(&saveRoot, "save_root", settings.DEFAULT_SAVE_ROOT, "Root directory of the preprocessed datasets")
	flag.IntVar(&nodeFeatDim, "node_feat_dim", settings.DEFAULT_NODE_FEAT_DIM, "Number of node raw features")
	flag.BoolVar(&check, "check", false, "Check the processed data")
	flag.BoolVar(&bipartite, "bipartite", false, "Give target nodes ids disjoint from the source node ids")
	flag.BoolVar(&writeParquet, "parquet", false, "Also write the edge list as parquet")
	flag.StringVar(&metricsTextfile, "metrics_textfile", "", "Write run metrics to this file for the node exporter textfile collector")
	flag.StringVar(&pushgatewayURL, "pushgateway", "", "Push run metrics to this pushgateway URL")
	flag.StringVar(&logLevel, "log_level", settings.DEFAULT_LOG_LEVEL, "Logging level (debug, info, warn, error)")
	flag.BoolVar(&printVersion, "version", false, "Print version information and exit")

	flag.Parse()

	if printVersion {
		fmt.Println(version.Print(runmetrics.PROGRAM_NAME))
		return
	}

	logger, err := logging.New(logLevel, os.Stderr)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	logger.Debugf("%s %s", runmetrics.PROGRAM_NAME, version.Info())

	config := settings.PreprocessSettings{
		DatasetName:     datasetName,
		ReadDir:         readDir,
		ReadRoot:        readRoot,
		SaveDir:         saveDir,
		SaveRoot:        saveRoot,
		NodeFeatDim:     nodeFeatDim,
		Check:           check,
		Bipartite:       bipartite,
		WriteParquet:    writeParquet,
		MetricsTextfile: metricsTextfile,
		PushgatewayURL:  pushgatewayURL,
		LogLevel:        logLevel,
	}

	processor, err := lib.NewConnectomePreprocessor(config, logger)
	if err != nil {
		logger.Errorf("invalid settings: %v", err)
		os.Exit(2)
	}
	if _, err := processor.Run(); err != nil {
		logger.WithField("run_id", processor.RunID).Errorf("failed to preprocess %s: %v", datasetName, err)
		os.Exit(1)
	}
}
