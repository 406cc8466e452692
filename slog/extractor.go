package slog

import (
	"log/slog"
	"time"

	"github.com/fwojciec/rulefetch"
)

var _ rulefetch.RecordExtractor = (*LoggingRecordExtractor)(nil)

// LoggingRecordExtractor wraps a RecordExtractor and logs every record.
type LoggingRecordExtractor struct {
	next   rulefetch.RecordExtractor
	logger *slog.Logger
}

// NewLoggingRecordExtractor creates a new LoggingRecordExtractor.
func NewLoggingRecordExtractor(next rulefetch.RecordExtractor, logger *slog.Logger) *LoggingRecordExtractor {
	return &LoggingRecordExtractor{next: next, logger: logger}
}

// Extract logs the record status. Error records are logged at warn level.
func (e *LoggingRecordExtractor) Extract(artifact *rulefetch.Artifact, ref *rulefetch.SectionReference) (rec *rulefetch.ExtractedRecord) {
	defer func(begin time.Time) {
		attrs := []any{
			"rule", ref.RuleNumber,
			"status", rec.File.Status,
			"pages", rec.Content.PageCount,
			"duration", time.Since(begin),
		}
		if !rec.Succeeded() {
			e.logger.Warn("extract", append(attrs, "err", rec.File.Error)...)
			return
		}
		e.logger.Info("extract", attrs...)
	}(time.Now())
	return e.next.Extract(artifact, ref)
}
