package pages

import (
	"strconv"
	"time"

	"github.com/playwright-community/playwright-go"
)

// Sort options of the inventory product sort control
const (
	SortNameAsc   = "az"
	SortNameDesc  = "za"
	SortPriceAsc  = "lohi"
	SortPriceDesc = "hilo"
)

// InventoryPage is the product listing
type InventoryPage struct {
	*DashboardPage
	Items         Locator
	CartLink      Locator
	CartBadge     Locator
	SortContainer Locator
}

// NewInventoryPage binds the listing locators to page
func NewInventoryPage(page playwright.Page, timeout time.Duration) *InventoryPage {
	d := NewDashboardPage(page, timeout)
	return &InventoryPage{
		DashboardPage: d,
		Items:         d.locator(`[data-test="inventory-item"]`),
		CartLink:      d.locator(`[data-test="shopping-cart-link"]`),
		CartBadge:     d.locator(`[data-test="shopping-cart-badge"]`),
		SortContainer: d.locator(`[data-test="product-sort-container"]`),
	}
}

func (p *InventoryPage) item(index int) Locator {
	return p.Items.Nth(index)
}

// ProductCount returns how many products are listed
func (p *InventoryPage) ProductCount() int {
	return p.Items.Count()
}

// ProductName returns the name of product index, or ""
func (p *InventoryPage) ProductName(index int) string {
	return p.item(index).Within(`[data-test="inventory-item-name"]`).Text()
}

// ProductPrice returns the displayed price of product index, or ""
func (p *InventoryPage) ProductPrice(index int) string {
	return p.item(index).Within(`[data-test="inventory-item-price"]`).Text()
}

// ProductNames returns every listed product name in display order
func (p *InventoryPage) ProductNames() []string {
	n := p.ProductCount()
	names := make([]string, 0, n)
	for i := 0; i < n; i++ {
		names = append(names, p.ProductName(i))
	}
	return names
}

// AddProductToCartByIndex clicks the add button of product index
func (p *InventoryPage) AddProductToCartByIndex(index int) error {
	return p.item(index).Within(`button[data-test^="add-to-cart"]`).Click()
}

// RemoveProductFromCartByIndex clicks the remove button of product index if
// the product is in the cart
func (p *InventoryPage) RemoveProductFromCartByIndex(index int) error {
	remove := p.item(index).Within(`button[data-test^="remove"]`)
	if !remove.Visible() {
		return nil
	}
	return remove.Click()
}

// IsInCart reports whether product index shows a remove button
func (p *InventoryPage) IsInCart(index int) bool {
	return p.item(index).Within(`button[data-test^="remove"]`).Visible()
}

// ClickProductByIndex opens the detail screen of product index
func (p *InventoryPage) ClickProductByIndex(index int) error {
	return p.item(index).Within(`[data-test="inventory-item-name"]`).Click()
}

// CartBadgeCount returns the number on the cart badge, 0 when it is hidden
func (p *InventoryPage) CartBadgeCount() int {
	n, err := strconv.Atoi(p.CartBadge.Text())
	if err != nil {
		return 0
	}
	return n
}

// IsCartBadgeVisible reports whether the cart badge is rendered
func (p *InventoryPage) IsCartBadgeVisible() bool {
	return p.CartBadge.Visible()
}

// GoToCart clicks the cart link
func (p *InventoryPage) GoToCart() error {
	return p.CartLink.Click()
}

// SortBy picks one of the Sort* options
func (p *InventoryPage) SortBy(option string) error {
	return p.SortContainer.Select(option)
}
