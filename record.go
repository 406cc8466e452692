package rulefetch

import (
	"errors"
	"path/filepath"
	"time"
)

// RecordStatus reports whether extraction succeeded.
type RecordStatus string

// RecordStatus values.
const (
	StatusSuccess RecordStatus = "success"
	StatusError   RecordStatus = "error"
)

// ExtractedRecord is the structured result for one section. JSON names
// follow the persisted manifest format.
type ExtractedRecord struct {
	Reference   *SectionReference `json:"rule_info"`
	File        FileInfo          `json:"file_info"`
	Metadata    RecordMetadata    `json:"metadata"`
	Content     RecordContent     `json:"content"`
	Derived     DerivedFields     `json:"analysis"`
	ExtractedAt time.Time         `json:"extracted_at"`
}

// RuleNumber returns the record's key.
func (r *ExtractedRecord) RuleNumber() string {
	if r.Reference == nil {
		return ""
	}
	return r.Reference.RuleNumber
}

// Succeeded reports whether the record carries extracted content.
func (r *ExtractedRecord) Succeeded() bool {
	return r.File.Status == StatusSuccess
}

// FileInfo describes the artifact a record was extracted from.
type FileInfo struct {
	Path        string       `json:"file_path,omitempty"`
	Name        string       `json:"file_name,omitempty"`
	Status      RecordStatus `json:"status"`
	Error       string       `json:"error,omitempty"`
	ContentType ArtifactKind `json:"content_type,omitempty"`
}

// RecordMetadata combines document metadata with acquisition details.
type RecordMetadata struct {
	DocumentMetadata

	URL         string `json:"url,omitempty"`
	ScrapedAt   string `json:"scraped_at,omitempty"`
	Source      string `json:"source,omitempty"`
	Note        string `json:"note,omitempty"`
	ContentHash string `json:"content_hash,omitempty"`
}

// RecordContent is the normalized text of an artifact.
type RecordContent struct {
	FullText       string         `json:"full_text"`
	PageCount      int            `json:"page_count"`
	Pages          []DocumentPage `json:"pages"`
	CharacterCount int            `json:"character_count"`
	WordCount      int            `json:"word_count"`
}

// DerivedFields are the results of the pattern passes.
type DerivedFields struct {
	SectionNumber   string     `json:"section_number"`
	SectionTitle    string     `json:"section_title"`
	FilingRelevance *Relevance `json:"filing_relevance,omitempty"`

	ProceduralRequirements []string `json:"procedural_requirements"`
	Deadlines              []string `json:"deadlines_and_timing"`
	CrossReferences        []string `json:"cross_references"`
	KeyProvisions          []string `json:"key_provisions"`

	// FilingAnswers holds matches of the per-category filing-question
	// patterns.
	FilingAnswers map[Category][]string `json:"filing_answers,omitempty"`
}

// NewErrorRecord returns a status:error record for ref. artifact may be nil
// when no artifact was acquired.
func NewErrorRecord(ref *SectionReference, artifact *Artifact, err error, at time.Time) *ExtractedRecord {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
		var e *Error
		if errors.As(err, &e) {
			msg = e.Message
		}
	}

	rec := &ExtractedRecord{
		Reference: ref,
		File: FileInfo{
			Status: StatusError,
			Error:  msg,
		},
		Derived: DerivedFields{
			SectionNumber: ref.RuleNumber,
			SectionTitle:  ref.Title,
		},
		ExtractedAt: at,
	}
	if artifact != nil {
		rec.File.Path = artifact.Path
		rec.File.Name = filepath.Base(artifact.Path)
		rec.File.ContentType = artifact.Kind
	}
	return rec
}

// RecordExtractor converts an artifact into an ExtractedRecord. Failures to
// open or read the artifact produce a status:error record, never an error.
type RecordExtractor interface {
	Extract(artifact *Artifact, ref *SectionReference) *ExtractedRecord
}
