package rulefetch

import (
	"context"
	"time"
)

// ProcessingMode records how a run obtained its artifacts.
type ProcessingMode string

// ProcessingMode values.
const (
	ModeFreshDownload     ProcessingMode = "fresh_download"
	ModeExistingArtifacts ProcessingMode = "existing_artifacts"
)

// RunManifest is the persisted result of all runs so far. It is the single
// source of truth between runs.
type RunManifest struct {
	Summary FilteringSummary   `json:"filtering_summary"`
	Records []*ExtractedRecord `json:"extracted_documents"`
}

// ProcessedAt returns when the manifest was last updated with new records.
func (m *RunManifest) ProcessedAt() time.Time {
	return m.Summary.ProcessedAt
}

// Stale reports whether the manifest is too old to serve as a skip list.
func (m *RunManifest) Stale(now time.Time, maxAge time.Duration) bool {
	return now.Sub(m.Summary.ProcessedAt) > maxAge
}

// Find returns the record for ruleNumber, or nil.
func (m *RunManifest) Find(ruleNumber string) *ExtractedRecord {
	for _, r := range m.Records {
		if r.RuleNumber() == ruleNumber {
			return r
		}
	}
	return nil
}

// Validate returns an error if a record lacks a rule number or two records
// share one.
func (m *RunManifest) Validate() error {
	seen := make(map[string]bool, len(m.Records))
	for _, r := range m.Records {
		key := r.RuleNumber()
		if key == "" {
			return Errorf(EINVALID, "manifest record missing rule number")
		}
		if seen[key] {
			return Errorf(EINVALID, "duplicate manifest record for rule %s", key)
		}
		seen[key] = true
	}
	return nil
}

// FilteringSummary describes the run that last updated the manifest.
type FilteringSummary struct {
	RunID                  string            `json:"run_id"`
	TotalSectionsFound     int               `json:"total_sections_found"`
	FilingRelatedSections  int               `json:"filing_related_sections"`
	SuccessfullyDownloaded int               `json:"successfully_downloaded"`
	SkippedExistingRules   int               `json:"skipped_existing_rules"`
	NewRulesProcessed      int               `json:"new_rules_processed"`
	FailedSections         int               `json:"failed_sections"`
	Criteria               FilteringCriteria `json:"filtering_criteria"`
	ProcessedAt            time.Time         `json:"processed_at"`
	ProcessingMode         ProcessingMode    `json:"processing_mode"`
}

// FilteringCriteria documents the classifier configuration in the manifest.
type FilteringCriteria struct {
	Focus                 string     `json:"focus"`
	QuestionsAddressed    []Category `json:"questions_addressed"`
	Exclusions            []string   `json:"exclusions"`
	KeySectionsIncluded   []string   `json:"key_sections_included"`
	MinimumRelevanceScore int        `json:"minimum_relevance_score"`
	RequiresQuestionMatch bool       `json:"requires_question_match"`
}

// ManifestStore persists the run manifest.
type ManifestStore interface {
	// LoadManifest returns the persisted manifest.
	// Returns ENOTFOUND if none exists.
	LoadManifest(ctx context.Context) (*RunManifest, error)

	// SaveManifest replaces the persisted manifest atomically.
	SaveManifest(ctx context.Context, m *RunManifest) error
}
