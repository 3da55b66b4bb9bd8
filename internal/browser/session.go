package browser

import (
	"fmt"

	"github.com/playwright-community/playwright-go"
)

// Session is one tab in its own browser context, owned by exactly one
// journey for its lifetime.
type Session struct {
	ID      string
	Context playwright.BrowserContext
	Page    playwright.Page
}

// Close discards the page and everything the context stored
func (s *Session) Close() error {
	if err := s.Context.Close(); err != nil {
		return fmt.Errorf("failed to close session %s: %w", s.ID, err)
	}
	return nil
}
