// Package trafilatura detects the main content of rendered section pages
// with go-trafilatura.
package trafilatura

import (
	"bytes"
	"strings"

	"github.com/fwojciec/rulefetch"
	"github.com/markusmobius/go-trafilatura"
	"golang.org/x/net/html"
)

var _ rulefetch.ContentExtractor = (*Extractor)(nil)

// Extractor wraps go-trafilatura. It is the first fallback the scraper tries
// when none of the configured content selectors yields enough text.
type Extractor struct {
	// Comments keeps comment sections in the extracted content.
	Comments bool
}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract returns the page title and main content HTML.
func (e *Extractor) Extract(rawHTML string) (*rulefetch.MainContent, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, rulefetch.Errorf(rulefetch.EINVALID, "empty HTML input")
	}

	result, err := trafilatura.Extract(strings.NewReader(rawHTML), trafilatura.Options{
		EnableFallback:  true,
		ExcludeComments: !e.Comments,
	})
	if err != nil {
		return nil, rulefetch.Errorf(rulefetch.ENOTFOUND, "trafilatura: %v", err)
	}

	mc := &rulefetch.MainContent{Title: result.Metadata.Title}
	if result.ContentNode != nil {
		var buf bytes.Buffer
		if err := html.Render(&buf, result.ContentNode); err != nil {
			return nil, err
		}
		mc.ContentHTML = buf.String()
	}
	return mc, nil
}
