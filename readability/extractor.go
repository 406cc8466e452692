// Package readability detects the main content of rendered section pages
// with go-readability.
package readability

import (
	"strings"

	"github.com/fwojciec/rulefetch"
	"github.com/go-shiori/go-readability"
)

var _ rulefetch.ContentExtractor = (*Extractor)(nil)

// Extractor wraps go-readability.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract returns the article title and content HTML.
func (e *Extractor) Extract(rawHTML string) (*rulefetch.MainContent, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, rulefetch.Errorf(rulefetch.EINVALID, "empty HTML input")
	}

	article, err := readability.FromReader(strings.NewReader(rawHTML), nil)
	if err != nil {
		return nil, rulefetch.Errorf(rulefetch.ENOTFOUND, "readability: %v", err)
	}

	return &rulefetch.MainContent{
		Title:       article.Title,
		ContentHTML: article.Content,
	}, nil
}
