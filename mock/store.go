package mock

import (
	"context"
	"time"

	"github.com/fwojciec/rulefetch"
)

var _ rulefetch.ManifestStore = (*ManifestStore)(nil)

// ManifestStore is a mock implementation of rulefetch.ManifestStore.
type ManifestStore struct {
	LoadManifestFn func(ctx context.Context) (*rulefetch.RunManifest, error)
	SaveManifestFn func(ctx context.Context, m *rulefetch.RunManifest) error
}

func (s *ManifestStore) LoadManifest(ctx context.Context) (*rulefetch.RunManifest, error) {
	return s.LoadManifestFn(ctx)
}

func (s *ManifestStore) SaveManifest(ctx context.Context, m *rulefetch.RunManifest) error {
	return s.SaveManifestFn(ctx, m)
}

var _ rulefetch.ArtifactStore = (*ArtifactStore)(nil)

// ArtifactStore is a mock implementation of rulefetch.ArtifactStore.
type ArtifactStore struct {
	BasePathFn      func(ref *rulefetch.SectionReference, index int) string
	TOCBasePathFn   func() string
	FindArtifactsFn func(ctx context.Context) ([]*rulefetch.StoredArtifact, error)
	NewestModTimeFn func(ctx context.Context) (time.Time, error)
}

func (s *ArtifactStore) BasePath(ref *rulefetch.SectionReference, index int) string {
	return s.BasePathFn(ref, index)
}

func (s *ArtifactStore) TOCBasePath() string {
	return s.TOCBasePathFn()
}

func (s *ArtifactStore) FindArtifacts(ctx context.Context) ([]*rulefetch.StoredArtifact, error) {
	return s.FindArtifactsFn(ctx)
}

func (s *ArtifactStore) NewestModTime(ctx context.Context) (time.Time, error) {
	return s.NewestModTimeFn(ctx)
}
