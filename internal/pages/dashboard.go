package pages

import (
	"time"

	"github.com/playwright-community/playwright-go"
)

// ProductsHeading is the title shown on the inventory screen
const ProductsHeading = "Products"

// DashboardPage is the landing screen after a successful login
type DashboardPage struct {
	base
	Heading      Locator
	ProductsList Locator
	MenuButton   Locator
}

// NewDashboardPage binds the landing screen locators to page
func NewDashboardPage(page playwright.Page, timeout time.Duration) *DashboardPage {
	b := newBase(page, timeout)
	return &DashboardPage{
		base:         b,
		Heading:      b.locator(`[data-test="title"]`),
		ProductsList: b.locator(`[data-test="inventory-container"]`),
		MenuButton:   b.locator(`#react-burger-menu-btn`),
	}
}

// IsProductsVisible reports whether the "Products" heading is rendered
func (p *DashboardPage) IsProductsVisible() bool {
	return p.Heading.Visible() && p.Heading.Text() == ProductsHeading
}

// IsProductListVisible reports whether the product grid is rendered
func (p *DashboardPage) IsProductListVisible() bool {
	return p.ProductsList.Visible()
}

// IsMenuVisible reports whether the side menu toggle is rendered
func (p *DashboardPage) IsMenuVisible() bool {
	return p.MenuButton.Visible()
}
