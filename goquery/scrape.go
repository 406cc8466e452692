// Package goquery scrapes section text from rendered pages with goquery.
package goquery

import (
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/rulefetch"
)

var _ rulefetch.Scraper = (*Scraper)(nil)

// Scraper implements rulefetch.Scraper.
//
// The main region is the first configured content selector whose text,
// after removing the configured chrome selectors, is longer than
// MinRegionChars. Failing that, each fallback extractor is tried in order.
// As a last resort the body text is kept line by line, dropping short lines
// and lines containing a blocklisted phrase.
type Scraper struct {
	Config    rulefetch.ScrapeConfig
	Converter rulefetch.Converter

	// Fallbacks detect the main content when no selector matches.
	Fallbacks []rulefetch.ContentExtractor
}

// NewScraper creates a Scraper.
func NewScraper(cfg rulefetch.ScrapeConfig, conv rulefetch.Converter, fallbacks ...rulefetch.ContentExtractor) *Scraper {
	return &Scraper{
		Config:    cfg,
		Converter: conv,
		Fallbacks: fallbacks,
	}
}

// Scrape implements rulefetch.Scraper.
func (s *Scraper) Scrape(html string) (*rulefetch.ScrapeResult, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, rulefetch.Errorf(rulefetch.EINVALID, "failed to parse HTML: %v", err)
	}
	doc.Find("script, style, noscript").Remove()

	result := &rulefetch.ScrapeResult{
		Title: strings.TrimSpace(doc.Find("title").First().Text()),
	}

	if text := s.region(doc); text != "" {
		result.Content = text
		return result, nil
	}

	for _, fb := range s.Fallbacks {
		mc, err := fb.Extract(html)
		if err != nil || mc == nil || mc.ContentHTML == "" {
			continue
		}
		text, err := s.Converter.Convert(mc.ContentHTML)
		if err != nil || !s.long(text) {
			continue
		}
		if result.Title == "" {
			result.Title = mc.Title
		}
		result.Content = text
		return result, nil
	}

	body, err := goquery.OuterHtml(doc.Find("body").First())
	if err != nil || strings.TrimSpace(body) == "" {
		return result, nil
	}
	text, err := s.Converter.Convert(body)
	if err != nil {
		return result, nil
	}
	result.Content = s.filterLines(text)
	return result, nil
}

// region returns the converted text of the first content selector that
// yields enough text, or "".
func (s *Scraper) region(doc *goquery.Document) string {
	for _, sel := range s.Config.ContentSelectors {
		found := doc.Find(sel).First()
		if found.Length() == 0 {
			continue
		}

		clone := found.Clone()
		for _, rm := range s.Config.RemoveSelectors {
			clone.Find(rm).Remove()
		}

		html, err := goquery.OuterHtml(clone)
		if err != nil {
			continue
		}
		text, err := s.Converter.Convert(html)
		if err != nil {
			continue
		}
		if s.long(text) {
			return text
		}
	}
	return ""
}

func (s *Scraper) long(text string) bool {
	return utf8.RuneCountInString(strings.TrimSpace(text)) > s.Config.MinRegionChars
}

// filterLines keeps lines longer than MinLineChars that contain none of the
// blocklisted phrases.
func (s *Scraper) filterLines(text string) string {
	var kept []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if utf8.RuneCountInString(line) <= s.Config.MinLineChars {
			continue
		}
		if blocked(strings.ToLower(line), s.Config.LineBlocklist) {
			continue
		}
		kept = append(kept, line)
	}
	return strings.Join(kept, "\n")
}

func blocked(lower string, blocklist []string) bool {
	for _, phrase := range blocklist {
		if strings.Contains(lower, strings.ToLower(phrase)) {
			return true
		}
	}
	return false
}
