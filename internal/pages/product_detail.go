package pages

import (
	"time"

	"github.com/playwright-community/playwright-go"
)

// ProductDetailPage is the single product screen. The storefront has no
// data-test attributes on the detail fields, so these use class selectors.
type ProductDetailPage struct {
	base
	ProductTitle       Locator
	ProductPrice       Locator
	ProductDescription Locator
	ProductImage       Locator
	AddToCartButton    Locator
	RemoveButton       Locator
	BackButton         Locator
}

// NewProductDetailPage binds the detail screen locators to page
func NewProductDetailPage(page playwright.Page, timeout time.Duration) *ProductDetailPage {
	b := newBase(page, timeout)
	return &ProductDetailPage{
		base:               b,
		ProductTitle:       b.locator(`.inventory_details_name`),
		ProductPrice:       b.locator(`.inventory_details_price`),
		ProductDescription: b.locator(`.inventory_details_desc`),
		ProductImage:       b.locator(`img.inventory_details_img`),
		AddToCartButton:    b.locator(`button[data-test^="add-to-cart"]`),
		RemoveButton:       b.locator(`button[data-test^="remove"]`),
		BackButton:         b.locator(`[data-test="back-to-products"]`),
	}
}

// Title returns the product name shown on the screen
func (p *ProductDetailPage) Title() string {
	return p.ProductTitle.Text()
}

// Price returns the displayed price
func (p *ProductDetailPage) Price() string {
	return p.ProductPrice.Text()
}

// Description returns the product description
func (p *ProductDetailPage) Description() string {
	return p.ProductDescription.Text()
}

// AddToCart clicks the add button
func (p *ProductDetailPage) AddToCart() error {
	return p.AddToCartButton.Click()
}

// Remove clicks the remove button
func (p *ProductDetailPage) Remove() error {
	return p.RemoveButton.Click()
}

// IsAddToCartVisible reports whether the add button is shown
func (p *ProductDetailPage) IsAddToCartVisible() bool {
	return p.AddToCartButton.Visible()
}

// IsRemoveVisible reports whether the remove button is shown
func (p *ProductDetailPage) IsRemoveVisible() bool {
	return p.RemoveButton.Visible()
}

// IsBackVisible reports whether the back-to-products link is shown
func (p *ProductDetailPage) IsBackVisible() bool {
	return p.BackButton.Visible()
}

// GoBack returns to the listing
func (p *ProductDetailPage) GoBack() error {
	return p.BackButton.Click()
}

// IsProductInfoVisible reports whether title, price and description are all
// rendered
func (p *ProductDetailPage) IsProductInfoVisible() bool {
	return p.ProductTitle.Visible() &&
		p.ProductPrice.Visible() &&
		p.ProductDescription.Visible()
}

// WaitForProductInfo blocks until title, price and description are visible
func (p *ProductDetailPage) WaitForProductInfo() error {
	for _, l := range []Locator{p.ProductTitle, p.ProductPrice, p.ProductDescription} {
		if err := l.WaitVisible(); err != nil {
			return err
		}
	}
	return nil
}
