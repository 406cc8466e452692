package rulefetch

import "context"

// Browser opens page contexts on a browser automation backend.
// Implementations handle JavaScript-rendered pages.
type Browser interface {
	// NewPage opens a fresh page context. The caller must Close it.
	NewPage(ctx context.Context) (Page, error)

	// Close releases browser resources.
	Close() error
}

// Page is a single browser page. Every method honours the context deadline;
// a timed-out call returns the context error.
type Page interface {
	// Goto navigates to url and waits for the load event.
	Goto(ctx context.Context, url string) error

	// QuerySelectorAll returns the elements matching a CSS selector.
	// No match is not an error.
	QuerySelectorAll(ctx context.Context, selector string) ([]Element, error)

	// WaitForDownload runs trigger and saves the download it starts to path.
	WaitForDownload(ctx context.Context, path string, trigger func(ctx context.Context) error) error

	// RenderToFile prints the current page to a PDF file at path.
	RenderToFile(ctx context.Context, path string, opts RenderOptions) error

	// Evaluate runs a JavaScript function expression in the page and
	// returns its JSON-encoded result.
	Evaluate(ctx context.Context, script string) (string, error)

	// HTML returns the rendered document HTML.
	HTML(ctx context.Context) (string, error)

	// Close releases the page.
	Close() error
}

// Element is a DOM element on a Page.
type Element interface {
	Click(ctx context.Context) error
	Text(ctx context.Context) (string, error)
}

// RenderOptions controls page-to-document rendering. Dimensions are inches.
type RenderOptions struct {
	PaperWidth      float64
	PaperHeight     float64
	Margin          float64
	PrintBackground bool
}

// A4 renders on A4 paper with 1cm margins and backgrounds.
var A4 = RenderOptions{
	PaperWidth:      8.27,
	PaperHeight:     11.69,
	Margin:          0.3937,
	PrintBackground: true,
}
