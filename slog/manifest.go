package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/rulefetch"
)

var _ rulefetch.ManifestStore = (*LoggingManifestStore)(nil)

// LoggingManifestStore wraps a ManifestStore and logs loads and saves.
type LoggingManifestStore struct {
	next   rulefetch.ManifestStore
	logger *slog.Logger
}

// NewLoggingManifestStore creates a new LoggingManifestStore.
func NewLoggingManifestStore(next rulefetch.ManifestStore, logger *slog.Logger) *LoggingManifestStore {
	return &LoggingManifestStore{next: next, logger: logger}
}

// LoadManifest logs the record count of the loaded manifest.
func (s *LoggingManifestStore) LoadManifest(ctx context.Context) (m *rulefetch.RunManifest, err error) {
	defer func(begin time.Time) {
		records := 0
		if m != nil {
			records = len(m.Records)
		}
		s.logger.Info("load manifest",
			"records", records,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.LoadManifest(ctx)
}

// SaveManifest logs the record count of the saved manifest.
func (s *LoggingManifestStore) SaveManifest(ctx context.Context, m *rulefetch.RunManifest) (err error) {
	defer func(begin time.Time) {
		s.logger.Info("save manifest",
			"records", len(m.Records),
			"run", m.Summary.RunID,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.SaveManifest(ctx, m)
}
