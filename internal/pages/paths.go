package pages

import (
	"fmt"
	"net/url"
	"regexp"
	"time"

	"github.com/playwright-community/playwright-go"
)

// Storefront paths
const (
	PathLogin         = "/"
	PathInventory     = "/inventory.html"
	PathProductDetail = "/inventory-item.html"
	PathCart          = "/cart.html"
	PathCheckoutInfo  = "/checkout-step-one.html"
	PathCheckoutOver  = "/checkout-step-two.html"
	PathCheckoutDone  = "/checkout-complete.html"
)

// PathPattern matches absolute URLs whose path is exactly path, with any
// query string
func PathPattern(path string) *regexp.Regexp {
	return regexp.MustCompile(`^[a-z]+://[^/]+` + regexp.QuoteMeta(path) + `(\?.*)?$`)
}

// CurrentPath returns the path of the page's current URL
func CurrentPath(page playwright.Page) string {
	u, err := url.Parse(page.URL())
	if err != nil {
		return ""
	}
	if u.Path == "" {
		return PathLogin
	}
	return u.Path
}

// WaitForPath blocks until the page URL is on path or the timeout expires
func WaitForPath(page playwright.Page, path string, timeout time.Duration) error {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	err := page.WaitForURL(PathPattern(path), playwright.PageWaitForURLOptions{
		Timeout: playwright.Float(float64(timeout.Milliseconds())),
	})
	if err != nil {
		return fmt.Errorf("%w: waiting for %s (at %s): %w", ErrTimeout, path, page.URL(), err)
	}
	return nil
}

// base is embedded by every page object
type base struct {
	page    playwright.Page
	timeout time.Duration
}

func newBase(page playwright.Page, timeout time.Duration) base {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return base{page: page, timeout: timeout}
}

func (b base) locator(selector string) Locator {
	return NewLocator(b.page, selector, b.timeout)
}

// Page exposes the underlying handle for assertions outside the page model
func (b base) Page() playwright.Page {
	return b.page
}

// URL returns the current page URL
func (b base) URL() string {
	return b.page.URL()
}

// Title returns the document title, or "" if it cannot be read
func (b base) Title() string {
	title, err := b.page.Title()
	if err != nil {
		return ""
	}
	return title
}

// WaitFor blocks until the page is on path
func (b base) WaitFor(path string) error {
	return WaitForPath(b.page, path, b.timeout)
}
