package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/swaglabs/storefront-e2e/internal/accounts"
)

func testCatalog(t *testing.T) *accounts.Catalog {
	t.Helper()
	catalog, err := accounts.Default()
	require.NoError(t, err)
	return catalog
}

func render(t *testing.T, path, target string) (*goquery.Document, int) {
	t.Helper()
	handler, err := NewPageHandler(path, DefaultProducts(), testCatalog(t))
	require.NoError(t, err)

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))

	doc, err := goquery.NewDocumentFromReader(w.Body)
	require.NoError(t, err)
	return doc, w.Code
}

func TestProduct_Formatting(t *testing.T) {
	tests := []struct {
		product   Product
		wantSlug  string
		wantPrice string
	}{
		{Product{ID: 4, Name: "Sauce Labs Backpack", PriceCents: 2999}, "sauce-labs-backpack", "$29.99"},
		{Product{ID: 2, Name: "Sauce Labs Onesie", PriceCents: 799}, "sauce-labs-onesie", "$7.99"},
		{Product{ID: 3, Name: "Test.allTheThings() T-Shirt (Red)", PriceCents: 1599}, "test.allthethings()-t-shirt-(red)", "$15.99"},
	}

	for _, tt := range tests {
		t.Run(tt.product.Name, func(t *testing.T) {
			assert.Equal(t, tt.wantSlug, tt.product.Slug())
			assert.Equal(t, tt.wantPrice, tt.product.Price())
		})
	}
}

func TestNewPageHandler_UnknownScreen(t *testing.T) {
	_, err := NewPageHandler("/admin.html", DefaultProducts(), testCatalog(t))
	assert.Error(t, err)
}

func TestPageHandler_Login(t *testing.T) {
	doc, status := render(t, "/", "/")

	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Swag Labs", doc.Find("title").Text())
	assert.Equal(t, 1, doc.Find(`[data-test="username"]`).Length())
	assert.Equal(t, 1, doc.Find(`[data-test="password"]`).Length())
	assert.Equal(t, 1, doc.Find(`[data-test="login-button"]`).Length())
	assert.Equal(t, 0, doc.Find(`[data-test="title"]`).Length(), "login has no header")
	assert.Contains(t, doc.Find(`[data-test="login-credentials"]`).Text(), accounts.LockedOutUser)
	assert.Contains(t, doc.Find(`[data-test="login-password"]`).Text(), "secret_sauce")
}

func TestPageHandler_Inventory(t *testing.T) {
	doc, status := render(t, "/inventory.html", "/inventory.html")

	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Products", doc.Find(`[data-test="title"]`).Text())
	assert.Equal(t, 1, doc.Find(`[data-test="inventory-container"]`).Length())
	assert.Equal(t, 1, doc.Find(`[data-test="shopping-cart-link"]`).Length())
	assert.Equal(t, 0, doc.Find(`[data-test="shopping-cart-badge"]`).Length(), "badge is rendered client-side")
	assert.Equal(t, 4, doc.Find(`[data-test="product-sort-container"] option`).Length())

	items := doc.Find(`[data-test="inventory-item"]`)
	require.Equal(t, len(DefaultProducts()), items.Length())

	first := items.First()
	assert.Equal(t, "Sauce Labs Backpack", first.Find(`[data-test="inventory-item-name"]`).Text())
	assert.Equal(t, "$29.99", first.Find(`[data-test="inventory-item-price"]`).Text())
	button := first.Find(`button[data-test^="add-to-cart"]`)
	assert.Equal(t, 1, button.Length())
	testID, _ := button.Attr("data-test")
	assert.Equal(t, "add-to-cart-sauce-labs-backpack", testID)
}

func TestPageHandler_ProductDetail(t *testing.T) {
	t.Run("known product", func(t *testing.T) {
		doc, status := render(t, "/inventory-item.html", "/inventory-item.html?id=0")

		assert.Equal(t, http.StatusOK, status)
		assert.Equal(t, "Sauce Labs Bike Light", doc.Find(".inventory_details_name").Text())
		assert.Equal(t, "$9.99", doc.Find(".inventory_details_price").Text())
		assert.NotEmpty(t, doc.Find(".inventory_details_desc").Text())
		assert.Equal(t, 1, doc.Find(`button[data-test^="add-to-cart"]`).Length())
		assert.Equal(t, 1, doc.Find(`[data-test="back-to-products"]`).Length())
		assert.Equal(t, 1, doc.Find(`[data-test="shopping-cart-link"]`).Length())
	})

	for _, target := range []string{"/inventory-item.html?id=99", "/inventory-item.html?id=x", "/inventory-item.html"} {
		t.Run("not found "+target, func(t *testing.T) {
			doc, status := render(t, "/inventory-item.html", target)

			assert.Equal(t, http.StatusNotFound, status)
			assert.Equal(t, "ITEM NOT FOUND", doc.Find(".inventory_details_name").Text())
		})
	}
}

func TestPageHandler_CartAndCheckout(t *testing.T) {
	tests := []struct {
		path     string
		heading  string
		selector string
	}{
		{"/cart.html", "Your Cart", `[data-test="cart-list"] [data-test="inventory-item"] button[data-test^="remove"]`},
		{"/checkout-step-one.html", "Checkout: Your Information", `[data-test="firstName"], [data-test="lastName"], [data-test="postalCode"]`},
		{"/checkout-step-two.html", "Checkout: Overview", `[data-test="finish"]`},
		{"/checkout-complete.html", "Checkout: Complete!", `[data-test="complete-header"]`},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			doc, status := render(t, tt.path, tt.path)

			assert.Equal(t, http.StatusOK, status)
			assert.Equal(t, tt.heading, doc.Find(`[data-test="title"]`).Text())
			assert.Greater(t, doc.Find(tt.selector).Length(), 0)
		})
	}

	doc, _ := render(t, "/checkout-step-two.html", "/checkout-step-two.html")
	assert.Equal(t, 0, doc.Find(`[data-test="cart-list"] button`).Length(), "overview rows have no remove button")

	doc, _ = render(t, "/checkout-complete.html", "/checkout-complete.html")
	assert.Contains(t, doc.Find(`[data-test="complete-header"]`).Text(), "Thank you")
}

func TestPageHandler_RejectsOtherPathsAndMethods(t *testing.T) {
	handler, err := NewPageHandler("/", DefaultProducts(), testCatalog(t))
	require.NoError(t, err)

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/nope.html", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestStaticHandler(t *testing.T) {
	handler := StaticHandler(DefaultProducts())

	tests := []struct {
		target      string
		wantStatus  int
		contentType string
		contains    string
	}{
		{"/static/storefront.js", http.StatusOK, "javascript", "cart-contents"},
		{"/static/storefront.css", http.StatusOK, "text/css", ".shopping_cart_badge"},
		{"/static/img/4.svg", http.StatusOK, "image/svg+xml", "Sauce Labs Backpack"},
		{"/static/img/broken.svg", http.StatusOK, "image/svg+xml", "404"},
		{"/static/img/42.svg", http.StatusNotFound, "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tt.target, nil))

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.contentType != "" {
				assert.Contains(t, w.Header().Get("Content-Type"), tt.contentType)
			}
			if tt.contains != "" {
				body, _ := io.ReadAll(w.Body)
				assert.Contains(t, string(body), tt.contains)
			}
		})
	}
}

func TestLoginHandler_ServeHTTP(t *testing.T) {
	tests := []struct {
		name           string
		method         string
		body           string
		expectedStatus int
		expectedUser   string
		expectedMsg    string
	}{
		{
			name:           "standard user",
			method:         http.MethodPost,
			body:           `{"username":"standard_user","password":"secret_sauce"}`,
			expectedStatus: http.StatusOK,
			expectedUser:   "standard_user",
		},
		{
			name:           "locked out user",
			method:         http.MethodPost,
			body:           `{"username":"locked_out_user","password":"secret_sauce"}`,
			expectedStatus: http.StatusForbidden,
			expectedMsg:    MsgLockedOut,
		},
		{
			name:           "wrong password",
			method:         http.MethodPost,
			body:           `{"username":"standard_user","password":"nope"}`,
			expectedStatus: http.StatusUnauthorized,
			expectedMsg:    MsgNoMatch,
		},
		{
			name:           "unknown user",
			method:         http.MethodPost,
			body:           `{"username":"admin","password":"secret_sauce"}`,
			expectedStatus: http.StatusUnauthorized,
			expectedMsg:    MsgNoMatch,
		},
		{
			name:           "missing username",
			method:         http.MethodPost,
			body:           `{"password":"secret_sauce"}`,
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    MsgUsernameRequired,
		},
		{
			name:           "missing password",
			method:         http.MethodPost,
			body:           `{"username":"standard_user"}`,
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    MsgPasswordRequired,
		},
		{
			name:           "malformed body",
			method:         http.MethodPost,
			body:           `{`,
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    "Malformed login request",
		},
		{
			name:           "method not allowed",
			method:         http.MethodGet,
			expectedStatus: http.StatusMethodNotAllowed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, _ := test.NewNullLogger()
			handler := NewLoginHandler(testCatalog(t), 0, logger)

			req := httptest.NewRequest(tt.method, "/api/login", bytes.NewBufferString(tt.body))
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			require.Equal(t, tt.expectedStatus, w.Code)

			if tt.expectedUser != "" {
				var resp LoginResponse
				require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
				assert.Equal(t, tt.expectedUser, resp.Username)
				assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
			}
			if tt.expectedMsg != "" {
				var resp ErrorResponse
				require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
				assert.Equal(t, tt.expectedMsg, resp.Message)
				assert.NotEmpty(t, resp.Error)
			}
		})
	}
}

func TestLoginHandler_GlitchDelay(t *testing.T) {
	logger, _ := test.NewNullLogger()
	handler := NewLoginHandler(testCatalog(t), 3*time.Second, logger)

	var slept []time.Duration
	handler.sleep = func(d time.Duration) { slept = append(slept, d) }

	for _, user := range []string{accounts.StandardUser, accounts.PerformanceGlitchUser} {
		body := strings.NewReader(`{"username":"` + user + `","password":"secret_sauce"}`)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/login", body))
		require.Equal(t, http.StatusOK, w.Code)
	}

	assert.Equal(t, []time.Duration{3 * time.Second}, slept)
}

func TestLoginHandler_LogsRejections(t *testing.T) {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	handler := NewLoginHandler(testCatalog(t), 0, logger)

	body := strings.NewReader(`{"username":"locked_out_user","password":"secret_sauce"}`)
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/api/login", body))

	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, accounts.LockedOutUser, hook.LastEntry().Data["account"])
}
