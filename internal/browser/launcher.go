// Package browser provisions isolated playwright sessions for journeys.
package browser

import (
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/playwright-community/playwright-go"
	"github.com/sirupsen/logrus"
	"github.com/swaglabs/storefront-e2e/internal/config"
)

// Launcher owns the playwright driver and one browser process. Sessions
// created from it share the process but nothing else.
type Launcher struct {
	cfg     *config.SuiteConfig
	pw      *playwright.Playwright
	browser playwright.Browser
	log     logrus.FieldLogger

	closeOnce sync.Once
	closeErr  error
}

// Launch starts the playwright driver and the configured browser
func Launch(cfg *config.SuiteConfig, log logrus.FieldLogger) (*Launcher, error) {
	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("failed to start playwright: %w", err)
	}

	browserType, err := pickBrowserType(pw, cfg.Browser)
	if err != nil {
		pw.Stop()
		return nil, err
	}

	b, err := browserType.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(cfg.Headless),
	})
	if err != nil {
		pw.Stop()
		return nil, fmt.Errorf("failed to launch %s: %w", cfg.Browser, err)
	}

	log.WithFields(logrus.Fields{
		"browser":  cfg.Browser,
		"headless": cfg.Headless,
		"version":  b.Version(),
		"base_url": cfg.BaseURL,
	}).Info("Browser launched")

	return &Launcher{cfg: cfg, pw: pw, browser: b, log: log}, nil
}

func pickBrowserType(pw *playwright.Playwright, name string) (playwright.BrowserType, error) {
	switch name {
	case "chromium", "":
		return pw.Chromium, nil
	case "firefox":
		return pw.Firefox, nil
	case "webkit":
		return pw.WebKit, nil
	default:
		return nil, fmt.Errorf("unsupported browser %q", name)
	}
}

// Config returns the suite configuration the launcher was started with
func (l *Launcher) Config() *config.SuiteConfig {
	return l.cfg
}

// NewSession opens a fresh browser context and a page inside it. Cookies and
// local storage are never shared between sessions.
func (l *Launcher) NewSession() (*Session, error) {
	ctx, err := l.browser.NewContext(playwright.BrowserNewContextOptions{
		BaseURL: playwright.String(l.cfg.BaseURL),
		Viewport: &playwright.Size{
			Width:  1280,
			Height: 720,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create browser context: %w", err)
	}
	ctx.SetDefaultTimeout(float64(l.cfg.ActionTimeout.Milliseconds()))
	ctx.SetDefaultNavigationTimeout(float64(l.cfg.NavigationTimeout.Milliseconds()))

	page, err := ctx.NewPage()
	if err != nil {
		ctx.Close()
		return nil, fmt.Errorf("failed to open page: %w", err)
	}

	s := &Session{
		ID:      uuid.New().String(),
		Context: ctx,
		Page:    page,
	}
	l.log.WithField("session", s.ID).Debug("Session opened")
	return s, nil
}

// Close shuts the browser and the driver down. It is safe to call twice.
func (l *Launcher) Close() error {
	l.closeOnce.Do(func() {
		var errs []error
		if err := l.browser.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close browser: %w", err))
		}
		if err := l.pw.Stop(); err != nil {
			errs = append(errs, fmt.Errorf("failed to stop playwright: %w", err))
		}
		l.closeErr = errors.Join(errs...)
	})
	return l.closeErr
}
