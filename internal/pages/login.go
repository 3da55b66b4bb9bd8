package pages

import (
	"fmt"
	"time"

	"github.com/playwright-community/playwright-go"
	"github.com/swaglabs/storefront-e2e/internal/accounts"
)

// LoginPage is the storefront root
type LoginPage struct {
	base
	UsernameInput Locator
	PasswordInput Locator
	LoginButton   Locator
	ErrorMessage  Locator
}

// NewLoginPage binds the login screen locators to page
func NewLoginPage(page playwright.Page, timeout time.Duration) *LoginPage {
	b := newBase(page, timeout)
	return &LoginPage{
		base:          b,
		UsernameInput: b.locator(`[data-test="username"]`),
		PasswordInput: b.locator(`[data-test="password"]`),
		LoginButton:   b.locator(`[data-test="login-button"]`),
		ErrorMessage:  b.locator(`[data-test="error"]`),
	}
}

// Navigate opens the login screen
func (p *LoginPage) Navigate() error {
	if _, err := p.page.Goto(PathLogin); err != nil {
		return fmt.Errorf("%w: navigate to login: %w", ErrAction, err)
	}
	return nil
}

// Login submits the credentials. It does not wait for the outcome.
func (p *LoginPage) Login(username, password string) error {
	if err := p.UsernameInput.Fill(username); err != nil {
		return err
	}
	if err := p.PasswordInput.Fill(password); err != nil {
		return err
	}
	return p.LoginButton.Click()
}

// LoginAs submits an account from the credential catalog
func (p *LoginPage) LoginAs(a accounts.Account) error {
	return p.Login(a.Username, a.Password)
}

// IsErrorMessageVisible reports whether a login error is shown
func (p *LoginPage) IsErrorMessageVisible() bool {
	return p.ErrorMessage.Visible()
}

// ErrorText returns the login error, or ""
func (p *LoginPage) ErrorText() string {
	return p.ErrorMessage.Text()
}
