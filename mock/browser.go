package mock

import (
	"context"

	"github.com/fwojciec/rulefetch"
)

var _ rulefetch.Browser = (*Browser)(nil)

// Browser is a mock implementation of rulefetch.Browser.
type Browser struct {
	NewPageFn func(ctx context.Context) (rulefetch.Page, error)
	CloseFn   func() error
}

func (b *Browser) NewPage(ctx context.Context) (rulefetch.Page, error) {
	return b.NewPageFn(ctx)
}

func (b *Browser) Close() error {
	return b.CloseFn()
}

var _ rulefetch.Page = (*Page)(nil)

// Page is a mock implementation of rulefetch.Page.
type Page struct {
	GotoFn             func(ctx context.Context, url string) error
	QuerySelectorAllFn func(ctx context.Context, selector string) ([]rulefetch.Element, error)
	WaitForDownloadFn  func(ctx context.Context, path string, trigger func(ctx context.Context) error) error
	RenderToFileFn     func(ctx context.Context, path string, opts rulefetch.RenderOptions) error
	EvaluateFn         func(ctx context.Context, script string) (string, error)
	HTMLFn             func(ctx context.Context) (string, error)
	CloseFn            func() error
}

func (p *Page) Goto(ctx context.Context, url string) error {
	return p.GotoFn(ctx, url)
}

func (p *Page) QuerySelectorAll(ctx context.Context, selector string) ([]rulefetch.Element, error) {
	return p.QuerySelectorAllFn(ctx, selector)
}

func (p *Page) WaitForDownload(ctx context.Context, path string, trigger func(ctx context.Context) error) error {
	return p.WaitForDownloadFn(ctx, path, trigger)
}

func (p *Page) RenderToFile(ctx context.Context, path string, opts rulefetch.RenderOptions) error {
	return p.RenderToFileFn(ctx, path, opts)
}

func (p *Page) Evaluate(ctx context.Context, script string) (string, error) {
	return p.EvaluateFn(ctx, script)
}

func (p *Page) HTML(ctx context.Context) (string, error) {
	return p.HTMLFn(ctx)
}

func (p *Page) Close() error {
	return p.CloseFn()
}

var _ rulefetch.Element = (*Element)(nil)

// Element is a mock implementation of rulefetch.Element.
type Element struct {
	ClickFn func(ctx context.Context) error
	TextFn  func(ctx context.Context) (string, error)
}

func (e *Element) Click(ctx context.Context) error {
	return e.ClickFn(ctx)
}

func (e *Element) Text(ctx context.Context) (string, error) {
	return e.TextFn(ctx)
}
