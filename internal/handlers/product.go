package handlers

import (
	"fmt"
	"strings"
)

// Product is one item of the replica catalog
type Product struct {
	ID          int
	Name        string
	Description string
	PriceCents  int64
}

// Slug is the product name as used in data-test attributes
func (p Product) Slug() string {
	return strings.ReplaceAll(strings.ToLower(p.Name), " ", "-")
}

// Price returns the display price, e.g. "$29.99"
func (p Product) Price() string {
	return fmt.Sprintf("$%d.%02d", p.PriceCents/100, p.PriceCents%100)
}

// ImageURL is where the product picture is served
func (p Product) ImageURL() string {
	return fmt.Sprintf("/static/img/%d.svg", p.ID)
}

// DefaultProducts mirrors the hosted storefront catalog
func DefaultProducts() []Product {
	return []Product{
		{ID: 4, Name: "Sauce Labs Backpack", PriceCents: 2999,
			Description: "carry.allTheThings() with the sleek, streamlined Sly Pack that melds uncompromising style with unequaled laptop and tablet protection."},
		{ID: 0, Name: "Sauce Labs Bike Light", PriceCents: 999,
			Description: "A red light isn't the desired state in testing but it sure helps when riding your bike at night. Water-resistant with 3 lighting modes, 1 AAA battery included."},
		{ID: 1, Name: "Sauce Labs Bolt T-Shirt", PriceCents: 1599,
			Description: "Get your testing superhero on with the Sauce Labs bolt T-shirt. From American Apparel, 100% ringspun combed cotton, heather gray with red bolt."},
		{ID: 5, Name: "Sauce Labs Fleece Jacket", PriceCents: 4999,
			Description: "It's not every day that you come across a midweight quarter-zip fleece jacket capable of handling everything from a relaxing day outdoors to a busy day at the office."},
		{ID: 2, Name: "Sauce Labs Onesie", PriceCents: 799,
			Description: "Rib snap infant onesie for the junior automation engineer in development. Reinforced 3-snap bottom closure, two-needle hemmed sleeved and bottom won't unravel."},
		{ID: 3, Name: "Test.allTheThings() T-Shirt (Red)", PriceCents: 1599,
			Description: "This classic Sauce Labs t-shirt is perfect to wear when cozying up to your keyboard to automate a few tests. Super-soft and comfy ringspun combed cotton."},
	}
}

// findProduct looks a product up by id
func findProduct(products []Product, id int) (Product, bool) {
	for _, p := range products {
		if p.ID == id {
			return p, true
		}
	}
	return Product{}, false
}
