package handlers

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"strconv"
	"strings"

	"github.com/swaglabs/storefront-e2e/internal/accounts"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// PageData is what every storefront template renders
type PageData struct {
	Page     string
	Header   bool
	Heading  string
	Products []Product
	Product  *Product
	Accounts []accounts.Account
	Password string
}

// screen describes one storefront screen
type screen struct {
	template string
	header   bool
	heading  string
}

var screens = map[string]screen{
	"/":                       {template: "login"},
	"/inventory.html":         {template: "inventory", header: true, heading: "Products"},
	"/inventory-item.html":    {template: "inventory-item", header: true},
	"/cart.html":              {template: "cart", header: true, heading: "Your Cart"},
	"/checkout-step-one.html": {template: "checkout-step-one", header: true, heading: "Checkout: Your Information"},
	"/checkout-step-two.html": {template: "checkout-step-two", header: true, heading: "Checkout: Overview"},
	"/checkout-complete.html": {template: "checkout-complete", header: true, heading: "Checkout: Complete!"},
}

// Paths lists every screen path the replica serves
func Paths() []string {
	paths := make([]string, 0, len(screens))
	for p := range screens {
		paths = append(paths, p)
	}
	return paths
}

// PageHandler renders one storefront screen
type PageHandler struct {
	path     string
	screen   screen
	template *template.Template
	products []Product
	catalog  *accounts.Catalog
}

// NewPageHandler creates the handler serving the screen at path
func NewPageHandler(path string, products []Product, catalog *accounts.Catalog) (*PageHandler, error) {
	sc, ok := screens[path]
	if !ok {
		return nil, fmt.Errorf("no storefront screen at %s", path)
	}

	tmpl, err := template.ParseFS(templateFS, "templates/layout.html", "templates/"+sc.template+".html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s template: %w", sc.template, err)
	}

	return &PageHandler{
		path:     path,
		screen:   sc,
		template: tmpl,
		products: products,
		catalog:  catalog,
	}, nil
}

// ServeHTTP handles GET requests for the screen
func (h *PageHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != h.path {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	data := PageData{
		Page:     h.screen.template,
		Header:   h.screen.header,
		Heading:  h.screen.heading,
		Products: h.products,
	}

	status := http.StatusOK
	switch h.screen.template {
	case "login":
		all := h.catalog.All()
		data.Accounts = all
		if len(all) > 0 {
			data.Password = all[0].Password
		}
	case "inventory-item":
		data.Products = nil
		id, err := strconv.Atoi(r.URL.Query().Get("id"))
		if p, ok := findProduct(h.products, id); err == nil && ok {
			data.Product = &p
		} else {
			status = http.StatusNotFound
		}
	}

	var buf bytes.Buffer
	if err := h.template.ExecuteTemplate(&buf, "layout", data); err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}

// StaticHandler serves the storefront script, stylesheet and images
func StaticHandler(products []Product) http.Handler {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	files := http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
	images := NewImageHandler(products)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/static/img/") {
			images.ServeHTTP(w, r)
			return
		}
		files.ServeHTTP(w, r)
	})
}
