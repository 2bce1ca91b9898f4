// Package reporter writes the artifacts of a preprocessor run.
package reporter

import (
	"io"

	"github.com/kpaschen/dgprep/lib/features"
)

// An ArtifactWriter serialises one artifact of a run.
type ArtifactWriter interface {
	// Name is used in log lines and error messages.
	Name() string

	WriteArtifact(w io.Writer, artifacts *features.Artifacts) error
}

// Output binds an ArtifactWriter to its destination.
type Output struct {
	Path   string
	Writer ArtifactWriter
}
