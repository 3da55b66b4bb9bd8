package pages

import (
	"fmt"
	"time"

	"github.com/playwright-community/playwright-go"
)

// CartPage lists the items the storefront holds for the session
type CartPage struct {
	base
	CartList               Locator
	CartItems              Locator
	CartContainer          Locator
	CheckoutButton         Locator
	ContinueShoppingButton Locator
}

// NewCartPage binds the cart locators to page
func NewCartPage(page playwright.Page, timeout time.Duration) *CartPage {
	b := newBase(page, timeout)
	return &CartPage{
		base:                   b,
		CartList:               b.locator(`[data-test="cart-list"]`),
		CartItems:              b.locator(`[data-test="cart-list"] [data-test="inventory-item"]`),
		CartContainer:          b.locator(`[data-test="cart-contents-container"]`),
		CheckoutButton:         b.locator(`[data-test="checkout"]`),
		ContinueShoppingButton: b.locator(`[data-test="continue-shopping"]`),
	}
}

// ItemCount returns the number of rendered cart rows
func (p *CartPage) ItemCount() int {
	return p.CartItems.Count()
}

// RemoveItemByIndex clicks the remove button of row index
func (p *CartPage) RemoveItemByIndex(index int) error {
	return p.CartItems.Nth(index).Within(`button[data-test^="remove"]`).Click()
}

// ItemName returns the product name of row index, or ""
func (p *CartPage) ItemName(index int) string {
	return p.CartItems.Nth(index).Within(`[data-test="inventory-item-name"]`).Text()
}

// ItemPrice returns the price of row index, or ""
func (p *CartPage) ItemPrice(index int) string {
	return p.CartItems.Nth(index).Within(`[data-test="inventory-item-price"]`).Text()
}

// ItemQuantity returns the quantity column of row index, or ""
func (p *CartPage) ItemQuantity(index int) string {
	return p.CartItems.Nth(index).Within(`[data-test="item-quantity"]`).Text()
}

// IsContainerVisible reports whether the cart screen is rendered
func (p *CartPage) IsContainerVisible() bool {
	return p.CartContainer.Visible()
}

// IsCartEmpty reports the empty state: the cart list is rendered and holds
// no rows
func (p *CartPage) IsCartEmpty() bool {
	return p.CartList.Visible() && p.ItemCount() == 0
}

// GoToCheckout clicks the checkout button
func (p *CartPage) GoToCheckout() error {
	return p.CheckoutButton.Click()
}

// GoBackToShopping clicks continue shopping
func (p *CartPage) GoBackToShopping() error {
	return p.ContinueShoppingButton.Click()
}

// RemoveAllItems removes rows from the top until none are left. It stops at
// the first failed click, and fails if a removal leaves the count unchanged.
func (p *CartPage) RemoveAllItems() error {
	count := p.ItemCount()
	for count > 0 {
		if err := p.RemoveItemByIndex(0); err != nil {
			return err
		}
		next := p.ItemCount()
		if next >= count {
			return fmt.Errorf("%w: removing a cart row left %d rows", ErrAction, next)
		}
		count = next
	}
	return nil
}
