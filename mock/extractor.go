package mock

import "github.com/fwojciec/rulefetch"

var _ rulefetch.ContentExtractor = (*ContentExtractor)(nil)

// ContentExtractor is a mock implementation of rulefetch.ContentExtractor.
type ContentExtractor struct {
	ExtractFn func(html string) (*rulefetch.MainContent, error)
}

func (e *ContentExtractor) Extract(html string) (*rulefetch.MainContent, error) {
	return e.ExtractFn(html)
}

var _ rulefetch.Scraper = (*Scraper)(nil)

// Scraper is a mock implementation of rulefetch.Scraper.
type Scraper struct {
	ScrapeFn func(html string) (*rulefetch.ScrapeResult, error)
}

func (s *Scraper) Scrape(html string) (*rulefetch.ScrapeResult, error) {
	return s.ScrapeFn(html)
}

var _ rulefetch.Converter = (*Converter)(nil)

// Converter is a mock implementation of rulefetch.Converter.
type Converter struct {
	ConvertFn func(html string) (string, error)
}

func (c *Converter) Convert(html string) (string, error) {
	return c.ConvertFn(html)
}

var _ rulefetch.RecordExtractor = (*RecordExtractor)(nil)

// RecordExtractor is a mock implementation of rulefetch.RecordExtractor.
type RecordExtractor struct {
	ExtractFn func(artifact *rulefetch.Artifact, ref *rulefetch.SectionReference) *rulefetch.ExtractedRecord
}

func (e *RecordExtractor) Extract(artifact *rulefetch.Artifact, ref *rulefetch.SectionReference) *rulefetch.ExtractedRecord {
	return e.ExtractFn(artifact, ref)
}
