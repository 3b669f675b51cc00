// Package gearsapi serves the GrindGears backend API under /api/v1 for a
// single anonymous shopper. Responses use the {data, message} envelope the
// storefront's remote client expects.
package gearsapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"grindgears/internal/middleware"
	"grindgears/internal/repository"
	"grindgears/internal/wire"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// API handles the backend routes
type API struct {
	repos  *repository.Repositories
	logger *zap.Logger
}

// New creates the API over repos
func New(repos *repository.Repositories, logger *zap.Logger) *API {
	return &API{
		repos:  repos,
		logger: logger.Named("gearsapi"),
	}
}

// RegisterRoutes registers every route under /api/v1
func (a *API) RegisterRoutes(r chi.Router) {
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/gears", a.ListGears)
		r.Get("/categories", a.ListCategories)
		r.Get("/categories/slug/{slug}", a.ListGearsByCategory)

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", a.GetCart)
			r.Post("/add", a.AddToCart)
			r.Post("/update", a.UpdateCart)
			r.Delete("/remove", a.RemoveFromCart)
			r.Delete("/clear", a.ClearCart)
		})

		r.Route("/wishlist", func(r chi.Router) {
			r.Get("/", a.GetWishlist)
			r.Post("/add", a.AddToWishlist)
			r.Delete("/remove", a.RemoveFromWishlist)
		})

		r.Route("/address", func(r chi.Router) {
			r.Get("/", a.ListAddresses)
			r.Post("/", a.CreateAddress)
			r.Post("/update", a.UpdateAddress)
			r.Delete("/", a.DeleteAddress)
		})

		r.Get("/orders", a.ListOrders)
		r.Post("/orders", a.CreateOrder)
	})
}

func (a *API) respond(w http.ResponseWriter, status int, data interface{}, message string) {
	env := wire.Envelope{Message: message}
	if data != nil {
		raw, err := json.Marshal(data)
		if err != nil {
			a.logger.Error("Failed to encode response", zap.Error(err))
			a.message(w, http.StatusInternalServerError, "Internal server error")
			return
		}
		env.Data = raw
	}
	middleware.RespondWithJSON(w, status, env)
}

func (a *API) message(w http.ResponseWriter, status int, message string) {
	middleware.RespondWithJSON(w, status, wire.ErrorBody{Message: message})
}

// decode reads a JSON body into v and validates it. It answers 400 itself
// and reports false when the body is unusable.
func (a *API) decode(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	err := middleware.DecodeAndValidate(r, v)
	if err == nil {
		return true
	}

	a.logger.Debug("Rejected request body", zap.String("path", r.URL.Path), zap.Error(err))
	if verrs := middleware.FormatValidationErrors(err); len(verrs) > 0 {
		a.message(w, http.StatusBadRequest, fmt.Sprintf("%s: %s", verrs[0].Field, verrs[0].Message))
		return false
	}
	a.message(w, http.StatusBadRequest, "Invalid request body")
	return false
}

// fail maps a repository error onto a status and message.
func (a *API) fail(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, repository.ErrGearNotFound):
		a.message(w, http.StatusNotFound, "Gear not found")
	case errors.Is(err, repository.ErrCategoryNotFound):
		a.message(w, http.StatusNotFound, "Category not found")
	case errors.Is(err, repository.ErrCartItemNotFound):
		a.message(w, http.StatusNotFound, "Gear is not in cart")
	case errors.Is(err, repository.ErrAddressNotFound):
		a.message(w, http.StatusNotFound, "Address not found")
	case errors.Is(err, repository.ErrInvalidQuantity):
		a.message(w, http.StatusBadRequest, "Quantity must be at least 1")
	default:
		a.logger.Error("Request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
		a.message(w, http.StatusInternalServerError, "Internal server error")
	}
}

func gears(stored []*repository.Gear) []wire.Gear {
	out := make([]wire.Gear, 0, len(stored))
	for _, g := range stored {
		out = append(out, wire.FromProduct(g.Product, g.Category))
	}
	return out
}
