package acquire

import (
	"context"
	"fmt"
	"time"

	"github.com/fwojciec/rulefetch"
)

// SectionStrategies returns the section strategy chain for cfg in order:
// download control, print control, script trigger, page render and the raw
// scrape fallback.
func SectionStrategies(cfg rulefetch.Config, scraper rulefetch.Scraper) []rulefetch.Strategy {
	return []rulefetch.Strategy{
		&ClickDownload{
			StrategyName: StrategyDownloadLink,
			Selectors:    cfg.Controls.DownloadSelectors,
			TextTag:      "a",
			Text:         cfg.Controls.DownloadText,
			Timeout:      cfg.Timeouts.Download,
		},
		&ClickDownload{
			StrategyName: StrategyPrintControl,
			Selectors:    cfg.Controls.PrintSelectors,
			TextTag:      "button",
			Text:         cfg.Controls.PrintText,
			Timeout:      cfg.Timeouts.Download,
		},
		&ScriptDownload{
			FormSelector: cfg.Controls.ScriptTriggerFormSel,
			Script:       cfg.Controls.ScriptTrigger,
			Timeout:      cfg.Timeouts.ScriptDownload,
		},
		&RenderDocument{
			StrategyName: StrategyRenderDocument,
			Options:      rulefetch.A4,
			Timeout:      cfg.Timeouts.Render,
		},
		&RawScrape{
			Scraper:            scraper,
			MinChars:           cfg.Validation.MinRawTextChars,
			PlaceholderPhrases: cfg.Validation.PlaceholderPhrases,
			Timeout:            cfg.Timeouts.Scrape,
		},
	}
}

var _ rulefetch.SectionAcquirer = (*Acquirer)(nil)

// Acquirer fetches the artifact for one section: it opens a page, navigates
// to the section, waits for it to settle and runs the strategy chain.
type Acquirer struct {
	Browser    rulefetch.Browser
	Driver     *Driver
	Strategies []rulefetch.Strategy

	PageLoadTimeout time.Duration
	Settle          time.Duration

	// Methods, if set, reorders the chain so the section's preferred method
	// runs first. The terminal strategy never moves.
	Methods rulefetch.MethodStatsService
}

// Acquire returns the outcome of the strategy chain for ref. basePath is the
// artifact destination without extension. Navigation failures and browser
// errors are returned; strategy failures are recorded in the outcome.
func (a *Acquirer) Acquire(ctx context.Context, ref *rulefetch.SectionReference, basePath string) (*rulefetch.Outcome, error) {
	page, err := a.Browser.NewPage(ctx)
	if err != nil {
		return nil, fmt.Errorf("open page: %w", err)
	}
	defer page.Close()

	if err := Navigate(ctx, page, ref.URL, a.PageLoadTimeout); err != nil {
		return nil, err
	}
	if err := Sleep(ctx, a.Settle); err != nil {
		return nil, err
	}

	target := &rulefetch.Target{
		Reference: ref,
		URL:       ref.URL,
		Page:      page,
		BasePath:  basePath,
	}
	return a.Driver.Run(ctx, target, a.order(ctx, ref))
}

// order moves the preferred method to the front of every strategy but the
// last one.
func (a *Acquirer) order(ctx context.Context, ref *rulefetch.SectionReference) []rulefetch.Strategy {
	if a.Methods == nil || len(a.Strategies) < 2 {
		return a.Strategies
	}
	preferred, err := a.Methods.PreferredMethod(ctx, ref.RuleNumber)
	if err != nil {
		return a.Strategies
	}
	return Prefer(a.Strategies, preferred)
}

// Prefer returns a copy of strategies with the named strategy moved to the
// front. The last strategy is the terminal fallback and keeps its place.
func Prefer(strategies []rulefetch.Strategy, name string) []rulefetch.Strategy {
	n := len(strategies)
	if n < 2 {
		return strategies
	}
	head := strategies[:n-1]
	idx := -1
	for i, s := range head {
		if s.Name() == name {
			idx = i
			break
		}
	}
	if idx <= 0 {
		return strategies
	}

	out := make([]rulefetch.Strategy, 0, n)
	out = append(out, head[idx])
	out = append(out, head[:idx]...)
	out = append(out, head[idx+1:]...)
	out = append(out, strategies[n-1])
	return out
}

// Navigate loads url on page within timeout.
func Navigate(ctx context.Context, page rulefetch.Page, url string, timeout time.Duration) error {
	ctx, cancel := withTimeout(ctx, timeout)
	defer cancel()
	if err := page.Goto(ctx, url); err != nil {
		return fmt.Errorf("navigate %s: %w", url, err)
	}
	return nil
}

// Sleep waits for d or until ctx is done.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
