package main

import (
	"context"
	"fmt"
	"sync"

	"github.com/fwojciec/rulefetch"
	"github.com/fwojciec/rulefetch/rod"
)

var _ rulefetch.Browser = (*lazyBrowser)(nil)

// lazyBrowser opens the underlying browser on the first NewPage call. Runs
// that reuse downloaded artifacts usually never need one.
type lazyBrowser struct {
	open func() (rulefetch.Browser, error)

	once    sync.Once
	browser rulefetch.Browser
	err     error
}

func (b *lazyBrowser) NewPage(ctx context.Context) (rulefetch.Page, error) {
	b.once.Do(func() {
		b.browser, b.err = b.open()
	})
	if b.err != nil {
		return nil, b.err
	}
	return b.browser.NewPage(ctx)
}

func (b *lazyBrowser) Close() error {
	if b.browser == nil {
		return nil
	}
	return b.browser.Close()
}

// launchChrome returns a function that starts Chrome with the run's flags.
func launchChrome(headful, noStealth bool) func() (rulefetch.Browser, error) {
	return func() (rulefetch.Browser, error) {
		manager, err := rod.NewBrowserManager(
			rod.WithHeadless(!headful),
			rod.WithStealth(!noStealth),
		)
		if err != nil {
			return nil, fmt.Errorf("start browser (Chrome or Chromium must be installed): %w", err)
		}
		return rod.NewBrowser(manager), nil
	}
}
