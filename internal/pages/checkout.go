package pages

import (
	"fmt"
	"strings"
	"time"

	"github.com/playwright-community/playwright-go"
)

// CheckoutForm is the customer information asked for on step one
type CheckoutForm struct {
	FirstName  string
	LastName   string
	PostalCode string
}

// MissingFields lists the blank fields in form order
func (f CheckoutForm) MissingFields() []string {
	var missing []string
	if f.FirstName == "" {
		missing = append(missing, "firstName")
	}
	if f.LastName == "" {
		missing = append(missing, "lastName")
	}
	if f.PostalCode == "" {
		missing = append(missing, "postalCode")
	}
	return missing
}

// CheckoutPage spans the information, overview and completion screens
type CheckoutPage struct {
	base
	FirstNameInput      Locator
	LastNameInput       Locator
	PostalCodeInput     Locator
	ContinueButton      Locator
	CancelButton        Locator
	FinishButton        Locator
	ErrorMessage        Locator
	SummaryItems        Locator
	SummaryTotal        Locator
	OrderCompleteHeader Locator
	SuccessMessage      Locator
	BackHomeButton      Locator
}

// NewCheckoutPage binds the checkout locators to page
func NewCheckoutPage(page playwright.Page, timeout time.Duration) *CheckoutPage {
	b := newBase(page, timeout)
	return &CheckoutPage{
		base:                b,
		FirstNameInput:      b.locator(`[data-test="firstName"]`),
		LastNameInput:       b.locator(`[data-test="lastName"]`),
		PostalCodeInput:     b.locator(`[data-test="postalCode"]`),
		ContinueButton:      b.locator(`[data-test="continue"]`),
		CancelButton:        b.locator(`[data-test="cancel"]`),
		FinishButton:        b.locator(`[data-test="finish"]`),
		ErrorMessage:        b.locator(`[data-test="error"]`),
		SummaryItems:        b.locator(`[data-test="inventory-item"]`),
		SummaryTotal:        b.locator(`[data-test="total-label"]`),
		OrderCompleteHeader: b.locator(`[data-test="complete-header"]`),
		SuccessMessage:      b.locator(`[data-test="complete-text"]`),
		BackHomeButton:      b.locator(`[data-test="back-to-products"]`),
	}
}

// FillFirstName types into the first name field
func (p *CheckoutPage) FillFirstName(v string) error {
	return p.FirstNameInput.Fill(v)
}

// FillLastName types into the last name field
func (p *CheckoutPage) FillLastName(v string) error {
	return p.LastNameInput.Fill(v)
}

// FillPostalCode types into the postal code field
func (p *CheckoutPage) FillPostalCode(v string) error {
	return p.PostalCodeInput.Fill(v)
}

// FillCheckoutInfo fills all three fields, stopping at the first failure
func (p *CheckoutPage) FillCheckoutInfo(form CheckoutForm) error {
	if err := p.FillFirstName(form.FirstName); err != nil {
		return err
	}
	if err := p.FillLastName(form.LastName); err != nil {
		return err
	}
	return p.FillPostalCode(form.PostalCode)
}

// ClickContinue submits the information step
func (p *CheckoutPage) ClickContinue() error {
	return p.ContinueButton.Click()
}

// ClickFinish places the order from the overview step
func (p *CheckoutPage) ClickFinish() error {
	return p.FinishButton.Click()
}

// Cancel leaves checkout. From the information step it returns to the cart.
func (p *CheckoutPage) Cancel() error {
	return p.CancelButton.Click()
}

// IsFinishVisible reports whether the overview's finish button is shown
func (p *CheckoutPage) IsFinishVisible() bool {
	return p.FinishButton.Visible()
}

// ErrorCount returns how many validation errors are shown
func (p *CheckoutPage) ErrorCount() int {
	return p.ErrorMessage.Count()
}

// ErrorText returns the validation error, or ""
func (p *CheckoutPage) ErrorText() string {
	return p.ErrorMessage.Text()
}

// SummaryItemCount returns the rows on the overview step
func (p *CheckoutPage) SummaryItemCount() int {
	return p.SummaryItems.Count()
}

// Total returns the total line of the overview step, or ""
func (p *CheckoutPage) Total() string {
	return p.SummaryTotal.Text()
}

// IsOrderCompleted reports whether the confirmation header is shown
func (p *CheckoutPage) IsOrderCompleted() bool {
	return p.OrderCompleteHeader.Visible()
}

// OrderCompleteMessage returns the confirmation header, or ""
func (p *CheckoutPage) OrderCompleteMessage() string {
	return p.OrderCompleteHeader.Text()
}

// BackToProducts returns to the listing from the confirmation
func (p *CheckoutPage) BackToProducts() error {
	return p.BackHomeButton.Click()
}

// CompleteCheckout fills the form, continues to the overview and finishes.
// Nothing is attempted after the first failure and nothing is rolled back.
// When validation keeps the form on the information step the error names the
// blank fields and finish is never clicked.
func (p *CheckoutPage) CompleteCheckout(form CheckoutForm) error {
	if err := p.FillCheckoutInfo(form); err != nil {
		return err
	}
	if err := p.ClickContinue(); err != nil {
		return err
	}
	if err := p.WaitFor(PathCheckoutOver); err != nil {
		if missing := form.MissingFields(); len(missing) > 0 {
			return fmt.Errorf("checkout blocked with %s blank (%q): %w", strings.Join(missing, ", "), p.ErrorText(), err)
		}
		return err
	}
	return p.ClickFinish()
}
