// Package toc acquires the table of contents and extracts section
// references from it.
package toc

import (
	"context"
	"fmt"
	"time"

	"github.com/fwojciec/rulefetch"
	"github.com/fwojciec/rulefetch/acquire"
)

// Strategies returns the TOC strategy chain for cfg: the print control
// download, then a render of the page.
func Strategies(cfg rulefetch.Config) []rulefetch.Strategy {
	return []rulefetch.Strategy{
		&acquire.ClickDownload{
			StrategyName: acquire.StrategyTOCPrintControl,
			Selectors:    cfg.Controls.TOCPrintSelectors,
			Timeout:      cfg.Timeouts.TOCDownload,
		},
		&acquire.RenderDocument{
			StrategyName: acquire.StrategyTOCRender,
			Options:      rulefetch.A4,
			Timeout:      cfg.Timeouts.Render,
		},
	}
}

// NewValidator returns a validator for TOC artifacts. It checks
// TOCPlaceholderPhrases in place of the section placeholder phrases.
func NewValidator(cfg rulefetch.ValidationConfig, reader rulefetch.DocumentReader) *acquire.Validator {
	cfg.PlaceholderPhrases = cfg.TOCPlaceholderPhrases
	return acquire.NewValidator(cfg, reader)
}

var _ rulefetch.TOCAcquirer = (*Acquirer)(nil)

// Acquirer obtains one document artifact for the table of contents.
type Acquirer struct {
	Browser    rulefetch.Browser
	Driver     *acquire.Driver
	Strategies []rulefetch.Strategy

	URL             string
	PageLoadTimeout time.Duration
	Settle          time.Duration

	// RetryDelays are the waits between navigation attempts.
	RetryDelays []time.Duration
	Logger      acquire.LogFunc
}

// Acquire navigates to the TOC and runs the chain. basePath is the artifact
// destination without extension. Any failure is returned: without a TOC
// there are no candidates.
func (a *Acquirer) Acquire(ctx context.Context, basePath string) (*rulefetch.Artifact, error) {
	page, err := a.Browser.NewPage(ctx)
	if err != nil {
		return nil, fmt.Errorf("open page: %w", err)
	}
	defer page.Close()

	err = acquire.Retry(ctx, func(ctx context.Context) error {
		return acquire.Navigate(ctx, page, a.URL, a.PageLoadTimeout)
	}, a.Logger, a.RetryDelays)
	if err != nil {
		return nil, err
	}
	if err := acquire.Sleep(ctx, a.Settle); err != nil {
		return nil, err
	}

	target := &rulefetch.Target{URL: a.URL, Page: page, BasePath: basePath}
	out, err := a.Driver.Run(ctx, target, a.Strategies)
	if err != nil {
		return nil, err
	}
	if out.Artifact == nil {
		return nil, rulefetch.Errorf(rulefetch.ENOTFOUND, "table of contents unavailable after %d strategies", len(out.Attempts))
	}
	return out.Artifact, nil
}
