// Package acquire obtains section artifacts from the source site.
// It holds the content validator, the strategy driver that walks an ordered
// strategy chain, the section strategies and the per-section acquirer.
package acquire

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"strings"

	"github.com/fwojciec/rulefetch"
)

var _ rulefetch.Validator = (*Validator)(nil)

// documentSignature is the magic header of a PDF file.
var documentSignature = []byte("%PDF")

// Validator rejects artifacts that are too small, lack the document
// signature, or contain placeholder phrases the site serves in place of
// real content.
type Validator struct {
	Config rulefetch.ValidationConfig

	// Reader extracts first-page text from document artifacts. When nil,
	// document text is not checked for placeholder phrases.
	Reader rulefetch.DocumentReader
}

// NewValidator returns a Validator for cfg.
func NewValidator(cfg rulefetch.ValidationConfig, reader rulefetch.DocumentReader) *Validator {
	return &Validator{Config: cfg, Reader: reader}
}

// Validate returns nil if the artifact holds genuine content.
func (v *Validator) Validate(artifact *rulefetch.Artifact) error {
	if artifact == nil {
		return rulefetch.Errorf(rulefetch.EINVALID, "no artifact")
	}
	switch artifact.Kind {
	case rulefetch.ArtifactDocument:
		return v.validateDocument(artifact)
	case rulefetch.ArtifactRawText:
		return v.validateRawText(artifact)
	default:
		return rulefetch.Errorf(rulefetch.EINVALID, "unknown artifact kind %q", artifact.Kind)
	}
}

func (v *Validator) validateDocument(artifact *rulefetch.Artifact) error {
	f, err := os.Open(artifact.Path)
	if err != nil {
		return rulefetch.Errorf(rulefetch.EINVALID, "cannot open artifact: %v", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return rulefetch.Errorf(rulefetch.EINVALID, "cannot stat artifact: %v", err)
	}
	if info.Size() < v.Config.MinDocumentBytes {
		return rulefetch.Errorf(rulefetch.EINVALID, "document too small: %d bytes", info.Size())
	}

	header := make([]byte, len(documentSignature))
	if _, err := io.ReadFull(f, header); err != nil || !bytes.Equal(header, documentSignature) {
		return rulefetch.Errorf(rulefetch.EINVALID, "missing document signature")
	}

	if v.Reader == nil {
		return nil
	}
	doc, err := v.Reader.ReadDocument(artifact.Path)
	if err != nil {
		return rulefetch.Errorf(rulefetch.EINVALID, "unreadable document: %v", err)
	}
	if doc.PageCount() == 0 {
		return rulefetch.Errorf(rulefetch.EINVALID, "document has no pages")
	}
	if !doc.HasText() && !doc.Images {
		return rulefetch.Errorf(rulefetch.EINVALID, "document has no text")
	}
	if phrase := v.placeholder(doc.FirstPageText()); phrase != "" {
		return rulefetch.Errorf(rulefetch.EINVALID, "placeholder phrase %q on first page", phrase)
	}
	return nil
}

func (v *Validator) validateRawText(artifact *rulefetch.Artifact) error {
	data, err := os.ReadFile(artifact.Path)
	if err != nil {
		return rulefetch.Errorf(rulefetch.EINVALID, "cannot read artifact: %v", err)
	}

	var payload rulefetch.RawTextPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return rulefetch.Errorf(rulefetch.EINVALID, "malformed raw text artifact: %v", err)
	}

	content := strings.TrimSpace(payload.Content)
	if len(content) < v.Config.MinRawTextChars {
		return rulefetch.Errorf(rulefetch.EINVALID, "raw text too short: %d chars", len(content))
	}
	if phrase := v.placeholder(content); phrase != "" {
		return rulefetch.Errorf(rulefetch.EINVALID, "placeholder phrase %q in raw text", phrase)
	}
	return nil
}

// placeholder returns the first configured placeholder phrase found in text,
// or "".
func (v *Validator) placeholder(text string) string {
	return ContainsPhrase(text, v.Config.PlaceholderPhrases)
}

// ContainsPhrase returns the first phrase that occurs in text, compared
// case-insensitively, or "" if none does.
func ContainsPhrase(text string, phrases []string) string {
	lower := strings.ToLower(text)
	for _, p := range phrases {
		if p != "" && strings.Contains(lower, strings.ToLower(p)) {
			return p
		}
	}
	return ""
}
