package acquire

import (
	"context"
	"encoding/json"
	"os"
	"strings"
	"time"

	"github.com/fwojciec/rulefetch"
)

// Strategy names.
const (
	StrategyDownloadLink    = "download_link"
	StrategyPrintControl    = "print_control"
	StrategyScriptTrigger   = "script_trigger"
	StrategyRenderDocument  = "render_document"
	StrategyRawScrape       = "raw_scrape"
	StrategyTOCPrintControl = "toc_print_control"
	StrategyTOCRender       = "toc_render"
)

var (
	_ rulefetch.Strategy = (*ClickDownload)(nil)
	_ rulefetch.Strategy = (*ScriptDownload)(nil)
	_ rulefetch.Strategy = (*RenderDocument)(nil)
	_ rulefetch.Strategy = (*RawScrape)(nil)
)

// ClickDownload finds a control on the page, clicks it and captures the
// download it starts. Selectors are tried in order; when none matches, any
// element of TextTag whose text contains Text (case-insensitive) is used.
type ClickDownload struct {
	StrategyName string
	Selectors    []string
	TextTag      string
	Text         string
	Timeout      time.Duration
}

// Name implements rulefetch.Strategy.
func (s *ClickDownload) Name() string { return s.StrategyName }

// Attempt implements rulefetch.Strategy. It returns (nil, nil) when no
// control is present.
func (s *ClickDownload) Attempt(ctx context.Context, target *rulefetch.Target) (*rulefetch.Artifact, error) {
	ctx, cancel := withTimeout(ctx, s.Timeout)
	defer cancel()

	el, err := s.find(ctx, target.Page)
	if err != nil {
		return nil, err
	}
	if el == nil {
		return nil, nil
	}

	path := target.PathFor(rulefetch.ArtifactDocument)
	if err := target.Page.WaitForDownload(ctx, path, el.Click); err != nil {
		return nil, err
	}
	return fileArtifact(rulefetch.ArtifactDocument, path, s.StrategyName)
}

func (s *ClickDownload) find(ctx context.Context, page rulefetch.Page) (rulefetch.Element, error) {
	for _, sel := range s.Selectors {
		els, err := page.QuerySelectorAll(ctx, sel)
		if err != nil {
			return nil, err
		}
		if len(els) > 0 {
			return els[0], nil
		}
	}

	if s.Text == "" {
		return nil, nil
	}
	tag := s.TextTag
	if tag == "" {
		tag = "a"
	}
	els, err := page.QuerySelectorAll(ctx, tag)
	if err != nil {
		return nil, err
	}
	want := strings.ToLower(s.Text)
	for _, el := range els {
		text, err := el.Text(ctx)
		if err != nil {
			continue
		}
		if strings.Contains(strings.ToLower(text), want) {
			return el, nil
		}
	}
	return nil, nil
}

// ScriptDownload runs a script in the page that fires the site's embedded
// download trigger and captures the resulting download. The script must
// return true when it found something to trigger.
type ScriptDownload struct {
	// FormSelector must match at least one element for the strategy to
	// apply.
	FormSelector string
	Script       string
	Timeout      time.Duration
}

// Name implements rulefetch.Strategy.
func (s *ScriptDownload) Name() string { return StrategyScriptTrigger }

// Attempt implements rulefetch.Strategy.
func (s *ScriptDownload) Attempt(ctx context.Context, target *rulefetch.Target) (*rulefetch.Artifact, error) {
	ctx, cancel := withTimeout(ctx, s.Timeout)
	defer cancel()

	if s.FormSelector != "" {
		els, err := target.Page.QuerySelectorAll(ctx, s.FormSelector)
		if err != nil {
			return nil, err
		}
		if len(els) == 0 {
			return nil, nil
		}
	}

	path := target.PathFor(rulefetch.ArtifactDocument)
	err := target.Page.WaitForDownload(ctx, path, func(ctx context.Context) error {
		res, err := target.Page.Evaluate(ctx, s.Script)
		if err != nil {
			return err
		}
		var fired bool
		if err := json.Unmarshal([]byte(res), &fired); err != nil || !fired {
			return rulefetch.Errorf(rulefetch.ENOTFOUND, "download trigger not found")
		}
		return nil
	})
	if err != nil {
		if rulefetch.ErrorCode(err) == rulefetch.ENOTFOUND {
			return nil, nil
		}
		return nil, err
	}
	return fileArtifact(rulefetch.ArtifactDocument, path, StrategyScriptTrigger)
}

// RenderDocument prints the current page to a document. It needs no
// interactive control and always applies.
type RenderDocument struct {
	StrategyName string
	Options      rulefetch.RenderOptions
	Timeout      time.Duration
}

// Name implements rulefetch.Strategy.
func (s *RenderDocument) Name() string { return s.StrategyName }

// Attempt implements rulefetch.Strategy.
func (s *RenderDocument) Attempt(ctx context.Context, target *rulefetch.Target) (*rulefetch.Artifact, error) {
	ctx, cancel := withTimeout(ctx, s.Timeout)
	defer cancel()

	path := target.PathFor(rulefetch.ArtifactDocument)
	if err := target.Page.RenderToFile(ctx, path, s.Options); err != nil {
		return nil, err
	}
	return fileArtifact(rulefetch.ArtifactDocument, path, s.StrategyName)
}

// RawScrape is the terminal fallback: it scrapes the main content region of
// the page and persists it as a raw text artifact. It enforces the minimum
// content length and the placeholder phrase check itself.
type RawScrape struct {
	Scraper            rulefetch.Scraper
	MinChars           int
	PlaceholderPhrases []string
	Timeout            time.Duration

	// Now returns the scrape timestamp. Defaults to time.Now.
	Now func() time.Time
}

// Name implements rulefetch.Strategy.
func (s *RawScrape) Name() string { return StrategyRawScrape }

// Attempt implements rulefetch.Strategy.
func (s *RawScrape) Attempt(ctx context.Context, target *rulefetch.Target) (*rulefetch.Artifact, error) {
	ctx, cancel := withTimeout(ctx, s.Timeout)
	defer cancel()

	html, err := target.Page.HTML(ctx)
	if err != nil {
		return nil, err
	}
	res, err := s.Scraper.Scrape(html)
	if err != nil {
		return nil, err
	}

	content := strings.TrimSpace(res.Content)
	if len(content) < s.MinChars {
		return nil, rulefetch.Errorf(rulefetch.EINVALID, "scraped content too short: %d chars", len(content))
	}
	if phrase := ContainsPhrase(content, s.PlaceholderPhrases); phrase != "" {
		return nil, rulefetch.Errorf(rulefetch.EINVALID, "scraped content contains %q", phrase)
	}

	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	payload := rulefetch.RawTextPayload{
		Source:    "web_scrape",
		Title:     res.Title,
		URL:       target.URL,
		Content:   content,
		Timestamp: now(),
		Note:      "Content extracted via web scraping as document download was not available",
	}
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return nil, err
	}

	path := target.PathFor(rulefetch.ArtifactRawText)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return nil, err
	}
	return &rulefetch.Artifact{
		Kind:      rulefetch.ArtifactRawText,
		Path:      path,
		SizeBytes: int64(len(data)),
		Strategy:  StrategyRawScrape,
	}, nil
}

// fileArtifact stats a file a strategy just wrote.
func fileArtifact(kind rulefetch.ArtifactKind, path, strategy string) (*rulefetch.Artifact, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	return &rulefetch.Artifact{
		Kind:      kind,
		Path:      path,
		SizeBytes: info.Size(),
		Strategy:  strategy,
	}, nil
}

// withTimeout bounds ctx when d is positive.
func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}
