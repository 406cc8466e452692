// Package fs stores the run manifest and section artifacts on the local
// file system.
package fs

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"

	"github.com/fwojciec/rulefetch"
)

var _ rulefetch.ManifestStore = (*ManifestStore)(nil)

// ManifestStore implements rulefetch.ManifestStore as one JSON file. Saves
// write a sibling temp file and rename it over the manifest, so readers
// never see a partial write.
type ManifestStore struct {
	path string
}

// NewManifestStore creates a ManifestStore backed by the file at path.
func NewManifestStore(path string) *ManifestStore {
	return &ManifestStore{path: path}
}

// Path returns the manifest file path.
func (s *ManifestStore) Path() string {
	return s.path
}

// LoadManifest implements rulefetch.ManifestStore.
func (s *ManifestStore) LoadManifest(ctx context.Context) (*rulefetch.RunManifest, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, rulefetch.Errorf(rulefetch.ENOTFOUND, "manifest not found: %s", s.path)
	} else if err != nil {
		return nil, err
	}

	var m rulefetch.RunManifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, rulefetch.Errorf(rulefetch.EINVALID, "corrupt manifest %s: %v", s.path, err)
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// SaveManifest implements rulefetch.ManifestStore.
func (s *ManifestStore) SaveManifest(ctx context.Context, m *rulefetch.RunManifest) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := m.Validate(); err != nil {
		return err
	}

	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return err
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		_ = os.Remove(tmp.Name())
		return err
	}
	return nil
}
