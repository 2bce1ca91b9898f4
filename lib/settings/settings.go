// Package settings contains the parameters for the row truncator and the
// connectome preprocessor.
package settings

import (
	"path/filepath"

	"github.com/pkg/errors"
)

const (
	SAVE_DIR_GDRIVE = "gdrive"
	SAVE_DIR_REPO   = "repo"

	DEFAULT_NODE_FEAT_DIM = 172
	DEFAULT_READ_ROOT     = "DG_data"
	DEFAULT_SAVE_ROOT     = "Dataset/Preprocessed Data"
	DEFAULT_LOG_LEVEL     = "info"
)

type TruncateSettings struct {
	// The table to read.
	ReadPath string
	// The table to write. It is overwritten.
	WritePath string
	// How many records to drop from the end.
	Rows int
	// End every written record with \r\n instead of keeping the input's line endings.
	UseCRLF bool

	LogLevel string
}

func (s TruncateSettings) ComputeSettingsFields() TruncateSettings {
	if s.LogLevel == "" {
		s.LogLevel = DEFAULT_LOG_LEVEL
	}
	return s
}

func (s TruncateSettings) Validate() error {
	if s.ReadPath == "" {
		return errors.New("missing read path")
	}
	if s.WritePath == "" {
		return errors.New("missing write path")
	}
	if s.Rows < 0 {
		return errors.Errorf("rows to drop must not be negative, got %d", s.Rows)
	}
	return nil
}

type PreprocessSettings struct {
	// Logical name of the dataset. The input file is <DatasetName>.csv and
	// every output file name is derived from it.
	DatasetName string
	// Subdirectory of ReadRoot holding the input file.
	ReadDir  string
	ReadRoot string
	// One of SAVE_DIR_GDRIVE or SAVE_DIR_REPO.
	SaveDir  string
	SaveRoot string

	// Width of the (zero) node feature matrix.
	NodeFeatDim int

	// Shift target ids past the source id range.
	Bipartite bool

	// Reopen and verify the artifacts after writing them.
	Check bool

	// Also write the edge list as parquet.
	WriteParquet bool

	// Where to export run metrics. Both are optional.
	MetricsTextfile string
	PushgatewayURL  string

	LogLevel string
}

// ArtifactPaths are the destinations of one preprocessor run.
type ArtifactPaths struct {
	Directory    string
	EdgeList     string
	EdgeFeatures string
	NodeFeatures string
	Parquet      string
}

func (s PreprocessSettings) ComputeSettingsFields() PreprocessSettings {
	if s.NodeFeatDim == 0 {
		s.NodeFeatDim = DEFAULT_NODE_FEAT_DIM
	}
	if s.SaveDir == "" {
		s.SaveDir = SAVE_DIR_GDRIVE
	}
	if s.ReadRoot == "" {
		s.ReadRoot = DEFAULT_READ_ROOT
	}
	if s.SaveRoot == "" {
		s.SaveRoot = DEFAULT_SAVE_ROOT
	}
	if s.LogLevel == "" {
		s.LogLevel = DEFAULT_LOG_LEVEL
	}
	return s
}

func (s PreprocessSettings) Validate() error {
	if s.DatasetName == "" {
		return errors.New("missing dataset name")
	}
	if s.ReadDir == "" {
		return errors.New("missing read directory")
	}
	if s.SaveDir != SAVE_DIR_GDRIVE && s.SaveDir != SAVE_DIR_REPO {
		return errors.Errorf("save directory must be %q or %q, got %q",
			SAVE_DIR_GDRIVE, SAVE_DIR_REPO, s.SaveDir)
	}
	if s.NodeFeatDim <= 0 {
		return errors.Errorf("node feature dimension must be positive, got %d", s.NodeFeatDim)
	}
	return nil
}

// InputPath is <ReadRoot>/<ReadDir>/<DatasetName>.csv
func (s PreprocessSettings) InputPath() string {
	return filepath.Join(s.ReadRoot, s.ReadDir, s.DatasetName+".csv")
}

func (s PreprocessSettings) OutputPaths() ArtifactPaths {
	dir := filepath.Join(s.SaveRoot, s.SaveDir, s.DatasetName)
	base := "ml_" + s.DatasetName
	return ArtifactPaths{
		Directory:    dir,
		EdgeList:     filepath.Join(dir, base+".csv"),
		EdgeFeatures: filepath.Join(dir, base+".npy"),
		NodeFeatures: filepath.Join(dir, base+"_node.npy"),
		Parquet:      filepath.Join(dir, base+".parquet"),
	}
}
