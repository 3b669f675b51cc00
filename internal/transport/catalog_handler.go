package transport

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"grindgears/internal/catalog"
	"grindgears/internal/domain"

	"github.com/go-chi/chi/v5"
)

// ProductList is the product listing payload
type ProductList struct {
	Products   []domain.Product `json:"products"`
	Categories []string         `json:"categories"`
	Filter     catalog.Filter   `json:"filter"`
}

func parseFilter(r *http.Request) (catalog.Filter, error) {
	q := r.URL.Query()
	filter := catalog.Filter{
		Categories: []string{},
		Sort:       catalog.ParseSortBy(q.Get("sort")),
	}

	for _, c := range strings.Split(q.Get("categories"), ",") {
		if c = strings.TrimSpace(c); c != "" {
			filter.Categories = append(filter.Categories, c)
		}
	}

	if raw := q.Get("minRating"); raw != "" {
		rating, err := strconv.ParseFloat(raw, 64)
		if err != nil || rating < 0 || rating > 5 {
			return filter, errors.New("minRating must be a number between 0 and 5")
		}
		filter.MinRating = rating
	}
	return filter, nil
}

// ListProducts loads the catalog, or one category when ?category=slug is
// given, and applies the listing filter.
func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFilter(r)
	if err != nil {
		h.badRequest(w, err)
		return
	}

	products, err := h.catalog.Load(r.Context(), r.URL.Query().Get("category"))
	if err != nil {
		h.fail(w, r, err)
		return
	}

	h.respond(w, http.StatusOK, ProductList{
		Products:   filter.Apply(products),
		Categories: catalog.DistinctCategories(products),
		Filter:     filter,
	})
}

// GetProduct returns one product
func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	product, err := h.catalog.Product(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.respond(w, http.StatusOK, product)
}

// ListCategories returns the catalog categories
func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.catalog.Categories(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.respond(w, http.StatusOK, categories)
}
