package reporter

import (
	"bufio"
	"os"
	"path/filepath"

	"github.com/kpaschen/dgprep/lib/datatypes"
	"github.com/kpaschen/dgprep/lib/features"
	"github.com/sirupsen/logrus"
)

type pendingFile struct {
	tmpPath string
	output  Output
}

// WriteAll writes every output next to its destination under a temporary
// name and renames them into place once all of them have been written.
// If anything fails, the temporary files are removed and so are outputs that
// were already renamed, so a failed run leaves no new artifacts behind.
func WriteAll(logger logrus.FieldLogger, outputs []Output, artifacts *features.Artifacts) error {
	pending := make([]pendingFile, 0, len(outputs))
	cleanup := func() {
		for _, p := range pending {
			os.Remove(p.tmpPath)
		}
	}

	for _, out := range outputs {
		tmpPath, err := writeTemp(out, artifacts)
		if err != nil {
			cleanup()
			return err
		}
		pending = append(pending, pendingFile{tmpPath: tmpPath, output: out})
		logger.WithField("artifact", out.Writer.Name()).Debugf("wrote %s", tmpPath)
	}

	for i, p := range pending {
		if err := os.Rename(p.tmpPath, p.output.Path); err != nil {
			for _, done := range pending[:i] {
				os.Remove(done.output.Path)
			}
			pending = pending[i:]
			cleanup()
			return datatypes.IOFailure{Op: "rename", Path: p.output.Path, Err: err}
		}
		logger.WithField("artifact", p.output.Writer.Name()).Infof("wrote %s", p.output.Path)
	}
	return nil
}

// WriteAllInto creates dir and any missing parents, then calls WriteAll.
// Directories created here are removed again if WriteAll fails.
func WriteAllInto(logger logrus.FieldLogger, dir string, outputs []Output, artifacts *features.Artifacts) error {
	created := missingDirs(dir)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return datatypes.IOFailure{Op: "mkdir", Path: dir, Err: err}
	}
	if err := WriteAll(logger, outputs, artifacts); err != nil {
		// Deepest first; os.Remove refuses non-empty directories.
		for _, d := range created {
			os.Remove(d)
		}
		return err
	}
	return nil
}

// missingDirs lists dir and its ancestors that do not exist yet, deepest first.
func missingDirs(dir string) []string {
	var missing []string
	for d := filepath.Clean(dir); ; d = filepath.Dir(d) {
		if _, err := os.Stat(d); err == nil {
			break
		}
		missing = append(missing, d)
		if filepath.Dir(d) == d {
			break
		}
	}
	return missing
}

func writeTemp(out Output, artifacts *features.Artifacts) (string, error) {
	dir := filepath.Dir(out.Path)
	file, err := os.CreateTemp(dir, "."+filepath.Base(out.Path)+".tmp-*")
	if err != nil {
		return "", datatypes.IOFailure{Op: "create", Path: out.Path, Err: err}
	}
	tmpPath := file.Name()
	fail := func(op string, err error) (string, error) {
		file.Close()
		os.Remove(tmpPath)
		return "", datatypes.IOFailure{Op: op, Path: out.Path, Err: err}
	}

	buffered := bufio.NewWriterSize(file, 4<<20)
	if err := out.Writer.WriteArtifact(buffered, artifacts); err != nil {
		return fail("write "+out.Writer.Name(), err)
	}
	if err := buffered.Flush(); err != nil {
		return fail("flush", err)
	}
	if err := file.Sync(); err != nil {
		return fail("sync", err)
	}
	if err := file.Close(); err != nil {
		os.Remove(tmpPath)
		return "", datatypes.IOFailure{Op: "close", Path: out.Path, Err: err}
	}
	// CreateTemp uses 0600.
	if err := os.Chmod(tmpPath, 0640); err != nil {
		os.Remove(tmpPath)
		return "", datatypes.IOFailure{Op: "chmod", Path: out.Path, Err: err}
	}
	return tmpPath, nil
}
