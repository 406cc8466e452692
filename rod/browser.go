// Package rod drives Chrome through go-rod for page navigation, element
// clicks, downloads and page-to-PDF rendering.
package rod

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/fwojciec/rulefetch"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
)

var (
	_ rulefetch.Browser = (*Browser)(nil)
	_ rulefetch.Page    = (*Page)(nil)
	_ rulefetch.Element = (*Element)(nil)
)

// Browser implements rulefetch.Browser on top of a BrowserManager.
type Browser struct {
	manager *BrowserManager
}

// NewBrowser returns a Browser that opens pages through manager. Closing
// the Browser closes the manager.
func NewBrowser(manager *BrowserManager) *Browser {
	return &Browser{manager: manager}
}

// NewPage implements rulefetch.Browser.
func (b *Browser) NewPage(ctx context.Context) (rulefetch.Page, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	browser, page, err := b.manager.OpenPage()
	if err != nil {
		return nil, err
	}
	return &Page{manager: b.manager, browser: browser, page: page}, nil
}

// Close implements rulefetch.Browser.
func (b *Browser) Close() error {
	return b.manager.Close()
}

// Page implements rulefetch.Page.
type Page struct {
	manager *BrowserManager
	browser *rod.Browser
	page    *rod.Page
}

// Goto implements rulefetch.Page.
func (p *Page) Goto(ctx context.Context, url string) error {
	page := p.page.Context(ctx)
	if err := page.Navigate(url); err != nil {
		return err
	}
	return page.WaitLoad()
}

// QuerySelectorAll implements rulefetch.Page.
func (p *Page) QuerySelectorAll(ctx context.Context, selector string) ([]rulefetch.Element, error) {
	els, err := p.page.Context(ctx).Elements(selector)
	if err != nil {
		return nil, err
	}
	out := make([]rulefetch.Element, 0, len(els))
	for _, el := range els {
		out = append(out, &Element{el: el})
	}
	return out, nil
}

// WaitForDownload implements rulefetch.Page. The download lands in a
// private directory next to path and is then renamed into place.
func (p *Page) WaitForDownload(ctx context.Context, path string, trigger func(ctx context.Context) error) error {
	dir, err := os.MkdirTemp(filepath.Dir(path), ".download-*")
	if err != nil {
		return err
	}
	defer os.RemoveAll(dir)

	wait := p.browser.Context(ctx).WaitDownload(dir)
	if err := trigger(ctx); err != nil {
		return err
	}

	info := wait()
	if err := ctx.Err(); err != nil {
		return err
	}
	if info == nil {
		return rulefetch.Errorf(rulefetch.ENOTFOUND, "no download started")
	}
	return os.Rename(filepath.Join(dir, info.GUID), path)
}

// RenderToFile implements rulefetch.Page.
func (p *Page) RenderToFile(ctx context.Context, path string, opts rulefetch.RenderOptions) error {
	width, height, margin := opts.PaperWidth, opts.PaperHeight, opts.Margin
	r, err := p.page.Context(ctx).PDF(&proto.PagePrintToPDF{
		PaperWidth:      &width,
		PaperHeight:     &height,
		MarginTop:       &margin,
		MarginBottom:    &margin,
		MarginLeft:      &margin,
		MarginRight:     &margin,
		PrintBackground: opts.PrintBackground,
	})
	if err != nil {
		return fmt.Errorf("render pdf: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return err
	}
	return f.Close()
}

// Evaluate implements rulefetch.Page.
func (p *Page) Evaluate(ctx context.Context, script string) (string, error) {
	res, err := p.page.Context(ctx).Eval(script)
	if err != nil {
		return "", err
	}
	return res.Value.JSON("", ""), nil
}

// HTML implements rulefetch.Page.
func (p *Page) HTML(ctx context.Context) (string, error) {
	return p.page.Context(ctx).HTML()
}

// Close implements rulefetch.Page.
func (p *Page) Close() error {
	return p.manager.ClosePage(p.page)
}

// Element implements rulefetch.Element.
type Element struct {
	el *rod.Element
}

// Click implements rulefetch.Element.
func (e *Element) Click(ctx context.Context) error {
	return e.el.Context(ctx).Click(proto.InputMouseButtonLeft, 1)
}

// Text implements rulefetch.Element.
func (e *Element) Text(ctx context.Context) (string, error) {
	return e.el.Context(ctx).Text()
}
