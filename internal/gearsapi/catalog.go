package gearsapi

import (
	"net/http"

	"grindgears/internal/wire"

	"github.com/go-chi/chi/v5"
)

// ListGears returns the whole catalog
func (a *API) ListGears(w http.ResponseWriter, r *http.Request) {
	stored, err := a.repos.Gears.List(r.Context())
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.respond(w, http.StatusOK, gears(stored), "")
}

// ListGearsByCategory returns the gears of the category named by slug
func (a *API) ListGearsByCategory(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	if _, err := a.repos.Categories.FindBySlug(r.Context(), slug); err != nil {
		a.fail(w, r, err)
		return
	}

	stored, err := a.repos.Gears.ListByCategorySlug(r.Context(), slug)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.respond(w, http.StatusOK, gears(stored), "")
}

// ListCategories returns every category
func (a *API) ListCategories(w http.ResponseWriter, r *http.Request) {
	stored, err := a.repos.Categories.List(r.Context())
	if err != nil {
		a.fail(w, r, err)
		return
	}

	categories := make([]wire.Category, 0, len(stored))
	for _, c := range stored {
		categories = append(categories, wire.FromCategory(*c))
	}
	a.respond(w, http.StatusOK, categories, "")
}
