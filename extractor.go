package rulefetch

// MainContent holds the main content region detected in an HTML page.
type MainContent struct {
	// Title is the page title extracted from metadata.
	Title string

	// ContentHTML is the main content as clean HTML with boilerplate
	// (nav, footer, sidebar) removed.
	ContentHTML string
}

// ContentExtractor detects the main content region of an HTML page.
type ContentExtractor interface {
	Extract(html string) (*MainContent, error)
}

// ScrapeResult is the text scraped from a rendered page.
type ScrapeResult struct {
	Title   string
	Content string
}

// Scraper turns rendered page HTML into main-region text, dropping
// navigation, boilerplate and known chrome lines.
type Scraper interface {
	Scrape(html string) (*ScrapeResult, error)
}
