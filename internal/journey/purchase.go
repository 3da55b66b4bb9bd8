package journey

import (
	"fmt"
	"strings"
	"time"

	"github.com/playwright-community/playwright-go"
	"github.com/sirupsen/logrus"
	"github.com/swaglabs/storefront-e2e/internal/accounts"
	"github.com/swaglabs/storefront-e2e/internal/pages"
)

// OrderCompleteText is part of the confirmation header
const OrderCompleteText = "Thank you"

// Purchase drives the page objects of one session through the purchase flow
// and keeps the number of products expected in the cart.
type Purchase struct {
	*Machine

	Account   accounts.Account
	Login     *pages.LoginPage
	Inventory *pages.InventoryPage
	Detail    *pages.ProductDetailPage
	Cart      *pages.CartPage
	Checkout  *pages.CheckoutPage

	timeout  time.Duration
	expected int
}

// NewPurchase binds a purchase journey named name to page
func NewPurchase(name string, page playwright.Page, timeout time.Duration, account accounts.Account, recorder Recorder, log logrus.FieldLogger) (*Purchase, error) {
	m, err := New(name, account.Username, recorder, log)
	if err != nil {
		return nil, err
	}
	if timeout <= 0 {
		timeout = pages.DefaultTimeout
	}

	return &Purchase{
		Machine:   m,
		Account:   account,
		Login:     pages.NewLoginPage(page, timeout),
		Inventory: pages.NewInventoryPage(page, timeout),
		Detail:    pages.NewProductDetailPage(page, timeout),
		Cart:      pages.NewCartPage(page, timeout),
		Checkout:  pages.NewCheckoutPage(page, timeout),
		timeout:   timeout,
	}, nil
}

// Expected returns how many products the journey has put in the cart
func (p *Purchase) Expected() int {
	return p.expected
}

// SignIn logs in and confirms the product listing
func (p *Purchase) SignIn() error {
	return p.Advance(Authenticated, "sign in",
		func() error {
			if err := p.Login.Navigate(); err != nil {
				return err
			}
			return p.Login.LoginAs(p.Account)
		},
		p.onInventory,
	)
}

func (p *Purchase) onInventory() error {
	if err := p.Inventory.WaitFor(pages.PathInventory); err != nil {
		return err
	}
	if err := p.Inventory.Heading.WaitVisible(); err != nil {
		return err
	}
	return Expect(p.Inventory.IsProductsVisible(), "products heading not shown")
}

func (p *Purchase) badgeMatches() error {
	return Eventually(p.timeout, func() error {
		return ExpectEqual("cart badge", p.expected, p.Inventory.CartBadgeCount())
	})
}

// addStep advances to CartPopulated on the first product, and stays there after
func (p *Purchase) addStep(name string, action, verify func() error) error {
	if p.State() == CartPopulated {
		return p.Do(name, action, verify)
	}
	return p.Advance(CartPopulated, name, action, verify)
}

// AddFromListing adds product index from the listing
func (p *Purchase) AddFromListing(index int) error {
	return p.addStep(fmt.Sprintf("add product %d from listing", index),
		func() error {
			if err := p.Inventory.AddProductToCartByIndex(index); err != nil {
				return err
			}
			p.expected++
			return nil
		},
		p.badgeMatches,
	)
}

// AddFromDetail opens product index, adds it from the detail view and
// returns to the listing
func (p *Purchase) AddFromDetail(index int) error {
	return p.addStep(fmt.Sprintf("add product %d from detail view", index),
		func() error {
			if err := p.Inventory.ClickProductByIndex(index); err != nil {
				return err
			}
			if err := p.Detail.WaitFor(pages.PathProductDetail); err != nil {
				return err
			}
			if err := p.Detail.WaitForProductInfo(); err != nil {
				return err
			}
			if err := p.Detail.AddToCart(); err != nil {
				return err
			}
			p.expected++
			if err := p.badgeMatches(); err != nil {
				return err
			}
			if p.Detail.IsBackVisible() {
				return p.Detail.GoBack()
			}
			if err := p.Inventory.GoToCart(); err != nil {
				return err
			}
			if err := p.Cart.WaitFor(pages.PathCart); err != nil {
				return err
			}
			return p.Cart.GoBackToShopping()
		},
		func() error {
			if err := p.onInventory(); err != nil {
				return err
			}
			return p.badgeMatches()
		},
	)
}

// OpenCart goes to the cart and checks the rows match the badge
func (p *Purchase) OpenCart() error {
	return p.Do("open cart",
		p.Inventory.GoToCart,
		func() error {
			if err := p.Cart.WaitFor(pages.PathCart); err != nil {
				return err
			}
			return p.cartMatches()
		},
	)
}

func (p *Purchase) cartMatches() error {
	if err := p.Cart.CartList.WaitVisible(); err != nil {
		return err
	}
	return Eventually(p.timeout, func() error {
		return ExpectEqual("cart rows", p.expected, p.Cart.ItemCount())
	})
}

// ContinueShopping leaves the cart for the listing
func (p *Purchase) ContinueShopping() error {
	return p.Do("continue shopping",
		p.Cart.GoBackToShopping,
		func() error {
			if err := p.onInventory(); err != nil {
				return err
			}
			return p.badgeMatches()
		},
	)
}

// RemoveFromCart removes cart row index
func (p *Purchase) RemoveFromCart(index int) error {
	to := CartPopulated
	if p.expected == 1 {
		to = Authenticated
	}
	action := func() error {
		if err := p.Cart.RemoveItemByIndex(index); err != nil {
			return err
		}
		p.expected--
		return nil
	}
	if to == p.State() {
		return p.Do(fmt.Sprintf("remove cart row %d", index), action, p.cartMatches)
	}
	return p.Advance(to, fmt.Sprintf("remove cart row %d", index), action, p.cartMatches)
}

// EmptyCart removes every cart row and confirms the empty state
func (p *Purchase) EmptyCart() error {
	return p.Advance(Authenticated, "empty cart",
		func() error {
			if err := p.Cart.RemoveAllItems(); err != nil {
				return err
			}
			p.expected = 0
			return nil
		},
		func() error {
			return Expect(p.Cart.IsCartEmpty(), "cart not empty, %d rows left", p.Cart.ItemCount())
		},
	)
}

// EnterCheckoutInfo goes from the cart through the information step to the
// overview and checks the overview lists every product
func (p *Purchase) EnterCheckoutInfo(form pages.CheckoutForm) error {
	return p.Advance(CheckoutInfoEntered, "enter checkout information",
		func() error {
			if err := p.Cart.GoToCheckout(); err != nil {
				return err
			}
			if err := p.Checkout.WaitFor(pages.PathCheckoutInfo); err != nil {
				return err
			}
			if err := p.Checkout.FillCheckoutInfo(form); err != nil {
				return err
			}
			return p.Checkout.ClickContinue()
		},
		func() error {
			if err := p.Checkout.WaitFor(pages.PathCheckoutOver); err != nil {
				return err
			}
			if err := p.Checkout.FinishButton.WaitVisible(); err != nil {
				return err
			}
			return ExpectEqual("overview rows", p.expected, p.Checkout.SummaryItemCount())
		},
	)
}

// Confirm places the order and checks the confirmation
func (p *Purchase) Confirm() error {
	return p.Advance(CheckoutConfirmed, "confirm order",
		p.Checkout.ClickFinish,
		func() error {
			if err := p.Checkout.WaitFor(pages.PathCheckoutDone); err != nil {
				return err
			}
			if err := p.Checkout.OrderCompleteHeader.WaitVisible(); err != nil {
				return err
			}
			msg := p.Checkout.OrderCompleteMessage()
			return Expect(strings.Contains(msg, OrderCompleteText), "confirmation reads %q", msg)
		},
	)
}
