// Package browsertest wires browser sessions into go tests.
package browsertest

import (
	"os"
	"sync"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/swaglabs/storefront-e2e/internal/browser"
	"github.com/swaglabs/storefront-e2e/internal/config"
)

// Fixture lazily launches one browser shared by every test in a package.
// When the playwright driver or browsers are not installed the tests using
// it are skipped rather than failed.
type Fixture struct {
	Config *config.SuiteConfig
	Log    *logrus.Logger

	once      sync.Once
	launcher  *browser.Launcher
	launchErr error
}

// NewFixture builds a fixture for cfg
func NewFixture(cfg *config.SuiteConfig) *Fixture {
	log := logrus.New()
	log.SetLevel(cfg.LogLevel)
	log.SetOutput(os.Stderr)
	return &Fixture{Config: cfg, Log: log}
}

// Launcher returns the shared launcher, skipping t when it cannot start
func (f *Fixture) Launcher(t testing.TB) *browser.Launcher {
	t.Helper()
	f.once.Do(func() {
		f.launcher, f.launchErr = browser.Launch(f.Config, f.Log)
	})
	if f.launchErr != nil {
		t.Skipf("browser unavailable (install with: go run github.com/playwright-community/playwright-go/cmd/playwright install --with-deps): %v", f.launchErr)
	}
	return f.launcher
}

// Session opens an isolated session for t and closes it when t ends
func (f *Fixture) Session(t testing.TB) *browser.Session {
	t.Helper()
	s, err := f.Launcher(t).NewSession()
	if err != nil {
		t.Fatalf("Failed to open browser session: %v", err)
	}
	t.Cleanup(func() {
		if err := s.Close(); err != nil {
			t.Logf("Warning: %v", err)
		}
	})
	return s
}

// Close releases the browser if it was ever launched
func (f *Fixture) Close() {
	if f.launcher != nil {
		if err := f.launcher.Close(); err != nil {
			f.Log.WithError(err).Warn("Failed to close browser")
		}
	}
}
