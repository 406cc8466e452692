package rulefetch

import (
	"context"
	"time"
)

// StoredArtifact is an artifact found in the download directory together
// with the reference recovered from its file name.
type StoredArtifact struct {
	Reference *SectionReference
	Artifact  *Artifact
	ModTime   time.Time
}

// ArtifactStore names, discovers and ages artifacts in the download
// directory.
type ArtifactStore interface {
	// BasePath returns the destination path, without extension, for the
	// artifact of ref at position index in the current run.
	BasePath(ref *SectionReference, index int) string

	// TOCBasePath returns the destination path, without extension, for the
	// table-of-contents artifact.
	TOCBasePath() string

	// FindArtifacts returns the newest artifact per rule number.
	FindArtifacts(ctx context.Context) ([]*StoredArtifact, error)

	// NewestModTime returns the modification time of the newest section
	// artifact, or the zero time when there are none.
	NewestModTime(ctx context.Context) (time.Time, error)
}
