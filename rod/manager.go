package rod

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/fwojciec/rulefetch"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
)

// DefaultMaxPages is the default number of pages opened on one Chrome
// process before it is relaunched.
const DefaultMaxPages = 75

// BrowserManager owns the Chrome process behind a run and opens every page
// on it. Chrome memory grows with each section page even after the page is
// closed, so once maxPages pages have been opened the process is relaunched
// before the next page. A relaunch waits until no page is open, so a
// download or render in flight is never cut off.
//
// BrowserManager is safe for concurrent use.
type BrowserManager struct {
	browser  *rod.Browser
	launcher *launcher.Launcher

	// opened counts pages opened on the current process; open counts those
	// not yet closed.
	opened int64
	open   int64

	maxPages int64
	headless bool
	stealth  bool

	mu     sync.Mutex
	closed atomic.Bool
}

// ManagerOption configures a BrowserManager.
type ManagerOption func(*BrowserManager)

// WithMaxPages sets the number of pages opened before Chrome is relaunched.
func WithMaxPages(n int64) ManagerOption {
	return func(bm *BrowserManager) {
		bm.maxPages = n
	}
}

// WithHeadless controls whether Chrome runs without a window. Defaults to
// true.
func WithHeadless(headless bool) ManagerOption {
	return func(bm *BrowserManager) {
		bm.headless = headless
	}
}

// WithStealth opens pages with go-rod/stealth evasions applied. The site
// serves its placeholder page to obvious automation.
func WithStealth(enabled bool) ManagerOption {
	return func(bm *BrowserManager) {
		bm.stealth = enabled
	}
}

// NewBrowserManager launches Chrome. Close must be called when the
// BrowserManager is no longer needed.
func NewBrowserManager(opts ...ManagerOption) (*BrowserManager, error) {
	bm := &BrowserManager{
		maxPages: DefaultMaxPages,
		headless: true,
	}
	for _, opt := range opts {
		opt(bm)
	}

	if err := bm.launchBrowser(); err != nil {
		return nil, err
	}
	return bm, nil
}

// OpenPage opens a page and returns it with the browser it belongs to.
// Every page must be handed back with ClosePage.
func (bm *BrowserManager) OpenPage() (*rod.Browser, *rod.Page, error) {
	bm.mu.Lock()
	defer bm.mu.Unlock()

	if bm.closed.Load() || bm.browser == nil {
		return nil, nil, rulefetch.Errorf(rulefetch.EINTERNAL, "browser closed")
	}
	if bm.opened >= bm.maxPages && bm.open == 0 {
		bm.recycleBrowser()
	}

	var page *rod.Page
	var err error
	if bm.stealth {
		page, err = stealth.Page(bm.browser)
	} else {
		page, err = bm.browser.Page(proto.TargetCreateTarget{})
	}
	if err != nil {
		return nil, nil, fmt.Errorf("open page: %w", err)
	}
	bm.opened++
	bm.open++
	return bm.browser, page, nil
}

// ClosePage closes a page returned by OpenPage.
func (bm *BrowserManager) ClosePage(page *rod.Page) error {
	err := page.Close()

	bm.mu.Lock()
	defer bm.mu.Unlock()
	if bm.open > 0 {
		bm.open--
	}
	return err
}

// Close releases browser resources. Close is safe to call multiple times.
func (bm *BrowserManager) Close() error {
	if !bm.closed.CompareAndSwap(false, true) {
		return nil
	}

	bm.mu.Lock()
	defer bm.mu.Unlock()

	return bm.closeBrowser()
}

// launchBrowser starts Chrome. Popups stay allowed because the site's
// print and download controls may open a window.
func (bm *BrowserManager) launchBrowser() error {
	lnchr := launcher.New().
		Set("disable-background-timer-throttling").
		Set("disable-backgrounding-occluded-windows").
		Set("disable-renderer-backgrounding").
		Set("disable-dev-shm-usage").
		Set("disable-hang-monitor").
		Set("disable-popup-blocking").
		Set("lang", "en-US").
		Leakless(true).
		Headless(bm.headless)

	u, err := lnchr.Launch()
	if err != nil {
		return fmt.Errorf("launching browser: %w", err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		lnchr.Kill()
		return fmt.Errorf("connecting to browser: %w", err)
	}

	bm.browser = browser
	bm.launcher = lnchr
	bm.opened = 0
	return nil
}

// closeBrowser shuts down the current browser and launcher.
// Must be called with mu held.
func (bm *BrowserManager) closeBrowser() error {
	var err error
	if bm.browser != nil {
		err = bm.browser.Close()
		bm.browser = nil
	}
	if bm.launcher != nil {
		bm.launcher.Kill()
		bm.launcher = nil
	}
	return err
}

// recycleBrowser swaps in a fresh Chrome process. The old one is kept when
// the relaunch fails. Must be called with mu held.
func (bm *BrowserManager) recycleBrowser() {
	oldBrowser, oldLauncher := bm.browser, bm.launcher
	if err := bm.launchBrowser(); err != nil {
		return
	}
	_ = oldBrowser.Close()
	oldLauncher.Kill()
}

// LauncherPID returns the process ID of the Chrome launcher, or 0 once
// closed.
func (bm *BrowserManager) LauncherPID() int {
	bm.mu.Lock()
	defer bm.mu.Unlock()
	if bm.launcher == nil {
		return 0
	}
	return bm.launcher.PID()
}
