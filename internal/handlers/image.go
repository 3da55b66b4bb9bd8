package handlers

import (
	"fmt"
	"html"
	"net/http"
	"path"
	"strconv"
	"strings"
)

// ImageHandler draws a placeholder picture per product
type ImageHandler struct {
	products []Product
}

// NewImageHandler creates the product image handler
func NewImageHandler(products []Product) *ImageHandler {
	return &ImageHandler{products: products}
}

// ServeHTTP handles GET /static/img/{id}.svg and /static/img/broken.svg
func (h *ImageHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSuffix(path.Base(r.URL.Path), ".svg")

	label, fill := "", "#3ddc91"
	if name == "broken" {
		label, fill = "404", "#e2231a"
	} else {
		id, err := strconv.Atoi(name)
		p, ok := findProduct(h.products, id)
		if err != nil || !ok {
			http.NotFound(w, r)
			return
		}
		label = p.Name
	}

	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("Cache-Control", "max-age=3600")
	fmt.Fprintf(w, `<svg xmlns="http://www.w3.org/2000/svg" width="300" height="300" viewBox="0 0 300 300">`+
		`<rect width="300" height="300" fill="%s"/>`+
		`<text x="150" y="155" font-family="Arial" font-size="16" text-anchor="middle" fill="#132322">%s</text></svg>`,
		fill, html.EscapeString(label))
}
