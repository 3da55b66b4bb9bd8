// Package pages wraps the storefront screens behind intention-revealing
// operations. Selectors never leave this package.
package pages

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/playwright-community/playwright-go"
)

// DefaultTimeout bounds every action when a page is built without one
const DefaultTimeout = 10 * time.Second

// Errors returned by actions
var (
	ErrTimeout = errors.New("timed out waiting for element")
	ErrAction  = errors.New("browser action failed")
)

type step struct {
	selector string
	nth      int
}

// Locator is a deferred reference to an element: a page handle plus a
// selector chain. It is resolved against the live DOM on every call and
// never cached, so it stays valid across navigations.
type Locator struct {
	page    playwright.Page
	steps   []step
	timeout time.Duration
}

// NewLocator binds selector to page without touching the browser
func NewLocator(page playwright.Page, selector string, timeout time.Duration) Locator {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return Locator{
		page:    page,
		steps:   []step{{selector: selector, nth: -1}},
		timeout: timeout,
	}
}

// Within narrows the locator to descendants matching selector
func (l Locator) Within(selector string) Locator {
	return l.with(step{selector: selector, nth: -1})
}

// Nth narrows the locator to its i-th match
func (l Locator) Nth(i int) Locator {
	steps := make([]step, len(l.steps))
	copy(steps, l.steps)
	steps[len(steps)-1].nth = i
	return Locator{page: l.page, steps: steps, timeout: l.timeout}
}

// WithTimeout returns a copy bounded by d
func (l Locator) WithTimeout(d time.Duration) Locator {
	l.steps = append([]step(nil), l.steps...)
	l.timeout = d
	return l
}

func (l Locator) with(s step) Locator {
	steps := make([]step, 0, len(l.steps)+1)
	steps = append(steps, l.steps...)
	steps = append(steps, s)
	return Locator{page: l.page, steps: steps, timeout: l.timeout}
}

// Timeout is the bound applied to actions on this locator
func (l Locator) Timeout() time.Duration {
	return l.timeout
}

// String returns the selector chain
func (l Locator) String() string {
	parts := make([]string, len(l.steps))
	for i, s := range l.steps {
		parts[i] = s.selector
		if s.nth >= 0 {
			parts[i] += fmt.Sprintf(" >> nth=%d", s.nth)
		}
	}
	return strings.Join(parts, " >> ")
}

func (l Locator) resolve() playwright.Locator {
	var loc playwright.Locator
	for i, s := range l.steps {
		if i == 0 {
			loc = l.page.Locator(s.selector)
		} else {
			loc = loc.Locator(s.selector)
		}
		if s.nth >= 0 {
			loc = loc.Nth(s.nth)
		}
	}
	return loc
}

func (l Locator) ms() *float64 {
	return playwright.Float(float64(l.timeout.Milliseconds()))
}

// Click waits until the element is actionable and clicks it
func (l Locator) Click() error {
	if err := l.resolve().Click(playwright.LocatorClickOptions{Timeout: l.ms()}); err != nil {
		return l.fail("click", err)
	}
	return nil
}

// Fill replaces the value of an input
func (l Locator) Fill(value string) error {
	if err := l.resolve().Fill(value, playwright.LocatorFillOptions{Timeout: l.ms()}); err != nil {
		return l.fail("fill", err)
	}
	return nil
}

// Select picks the option with the given value in a <select>
func (l Locator) Select(value string) error {
	_, err := l.resolve().SelectOption(playwright.SelectOptionValues{
		Values: &[]string{value},
	}, playwright.LocatorSelectOptionOptions{Timeout: l.ms()})
	if err != nil {
		return l.fail("select", err)
	}
	return nil
}

// WaitVisible blocks until the element is visible
func (l Locator) WaitVisible() error {
	err := l.resolve().WaitFor(playwright.LocatorWaitForOptions{
		State:   playwright.WaitForSelectorStateVisible,
		Timeout: l.ms(),
	})
	if err != nil {
		return l.fail("wait for", err)
	}
	return nil
}

// Screenshot captures the element with animations disabled
func (l Locator) Screenshot() ([]byte, error) {
	img, err := l.resolve().Screenshot(playwright.LocatorScreenshotOptions{
		Animations: playwright.ScreenshotAnimationsDisabled,
		Timeout:    l.ms(),
	})
	if err != nil {
		return nil, l.fail("screenshot", err)
	}
	return img, nil
}

// Count returns the number of matches right now, or 0 when the page cannot
// be queried
func (l Locator) Count() int {
	n, err := l.resolve().Count()
	if err != nil {
		return 0
	}
	return n
}

// Visible reports whether the element is visible right now
func (l Locator) Visible() bool {
	if l.Count() == 0 {
		return false
	}
	visible, err := l.resolve().IsVisible()
	if err != nil {
		return false
	}
	return visible
}

// Text returns the trimmed text content, or "" when the element is absent.
// An absent element is detected up front so the call never blocks for the
// full timeout.
func (l Locator) Text() string {
	if l.Count() == 0 {
		return ""
	}
	text, err := l.resolve().TextContent(playwright.LocatorTextContentOptions{Timeout: l.ms()})
	if err != nil {
		return ""
	}
	return strings.TrimSpace(text)
}

func (l Locator) fail(op string, err error) error {
	if errors.Is(err, playwright.ErrTimeout) {
		return fmt.Errorf("%w: %s %s after %s: %w", ErrTimeout, op, l, l.timeout, err)
	}
	return fmt.Errorf("%w: %s %s: %w", ErrAction, op, l, err)
}
