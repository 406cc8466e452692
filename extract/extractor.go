// Package extract converts section artifacts into structured records.
//
// Document and raw text artifacts are first normalized to the same full
// text and page list; one set of pattern passes then runs over the text.
package extract

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/rulefetch"
)

var _ rulefetch.RecordExtractor = (*Extractor)(nil)

// Extractor implements rulefetch.RecordExtractor.
type Extractor struct {
	Reader rulefetch.DocumentReader

	// Classifier, if set, supplies the filing relevance stored on records.
	Classifier rulefetch.Classifier

	// Now returns the extraction timestamp. Defaults to time.Now.
	Now func() time.Time
}

// normalized is an artifact reduced to text.
type normalized struct {
	fullText string
	pages    []rulefetch.DocumentPage
	metadata rulefetch.RecordMetadata
}

// Extract implements rulefetch.RecordExtractor. Failures to open or parse
// the artifact produce a status:error record.
func (e *Extractor) Extract(artifact *rulefetch.Artifact, ref *rulefetch.SectionReference) *rulefetch.ExtractedRecord {
	now := e.now()
	if artifact == nil {
		return rulefetch.NewErrorRecord(ref, nil, rulefetch.Errorf(rulefetch.ENOTFOUND, "no artifact acquired"), now)
	}

	var n *normalized
	var err error
	switch artifact.Kind {
	case rulefetch.ArtifactDocument:
		n, err = e.readDocument(artifact.Path)
	case rulefetch.ArtifactRawText:
		n, err = readRawText(artifact.Path)
	default:
		err = rulefetch.Errorf(rulefetch.EINVALID, "unknown artifact kind %q", artifact.Kind)
	}
	if err != nil {
		return rulefetch.NewErrorRecord(ref, artifact, err, now)
	}

	derived := Analyze(n.fullText)
	derived.SectionNumber = ref.RuleNumber
	derived.SectionTitle = ref.Title
	derived.FilingRelevance = e.relevance(ref)

	n.metadata.ContentHash = fmt.Sprintf("%016x", xxhash.Sum64String(n.fullText))

	return &rulefetch.ExtractedRecord{
		Reference: ref,
		File: rulefetch.FileInfo{
			Path:        artifact.Path,
			Name:        filepath.Base(artifact.Path),
			Status:      rulefetch.StatusSuccess,
			ContentType: artifact.Kind,
		},
		Metadata: n.metadata,
		Content: rulefetch.RecordContent{
			FullText:       n.fullText,
			PageCount:      len(n.pages),
			Pages:          n.pages,
			CharacterCount: utf8.RuneCountInString(n.fullText),
			WordCount:      len(strings.Fields(n.fullText)),
		},
		Derived:     derived,
		ExtractedAt: now,
	}
}

func (e *Extractor) readDocument(path string) (*normalized, error) {
	if e.Reader == nil {
		return nil, rulefetch.Errorf(rulefetch.EINTERNAL, "no document reader configured")
	}
	doc, err := e.Reader.ReadDocument(path)
	if err != nil {
		return nil, err
	}

	// Pages break paragraphs.
	pages := make([]rulefetch.DocumentPage, len(doc.Pages))
	var texts []string
	for i, p := range doc.Pages {
		text := strings.TrimSpace(p.Text)
		pages[i] = rulefetch.DocumentPage{Number: p.Number, Text: text}
		if text != "" {
			texts = append(texts, text)
		}
	}
	return &normalized{
		fullText: strings.Join(texts, "\n\n"),
		pages:    pages,
		metadata: rulefetch.RecordMetadata{DocumentMetadata: doc.Metadata},
	}, nil
}

func readRawText(path string) (*normalized, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var payload rulefetch.RawTextPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("parse raw text artifact: %w", err)
	}

	text := strings.TrimSpace(payload.Content)
	meta := rulefetch.RecordMetadata{
		DocumentMetadata: rulefetch.DocumentMetadata{Title: payload.Title},
		URL:              payload.URL,
		Source:           payload.Source,
		Note:             payload.Note,
	}
	if !payload.Timestamp.IsZero() {
		meta.ScrapedAt = payload.Timestamp.Format(time.RFC3339)
	}
	return &normalized{
		fullText: text,
		pages:    []rulefetch.DocumentPage{{Number: 1, Text: text}},
		metadata: meta,
	}, nil
}

// relevance classifies ref. Curated references count as relevant even when
// their title alone would not.
func (e *Extractor) relevance(ref *rulefetch.SectionReference) *rulefetch.Relevance {
	if e.Classifier == nil {
		return nil
	}
	rel := e.Classifier.Classify(ref).Relevance()
	if !rel.Included && ref.Source == rulefetch.SourceCurated {
		rel.Included = true
		rel.Reason = "curated critical section"
	}
	return rel
}

func (e *Extractor) now() time.Time {
	if e.Now != nil {
		return e.Now()
	}
	return time.Now()
}
