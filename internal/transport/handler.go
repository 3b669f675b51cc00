// Package transport exposes the storefront to the browser UI as a JSON API.
package transport

import (
	"errors"
	"net/http"

	"grindgears/internal/addressbook"
	"grindgears/internal/catalog"
	"grindgears/internal/checkout"
	"grindgears/internal/middleware"
	"grindgears/internal/notify"
	"grindgears/internal/remote"
	"grindgears/internal/store"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Response wraps every successful response. Notifications raised while the
// request was handled travel with it.
type Response struct {
	Data          interface{}           `json:"data"`
	Notifications []notify.Notification `json:"notifications"`
}

// Handler serves the storefront API
type Handler struct {
	catalog   *catalog.Provider
	store     *store.Store
	addresses *addressbook.Book
	checkout  *checkout.Service
	feed      *notify.Feed
	logger    *zap.Logger
}

// NewHandler creates the storefront API handler. feed must be the feed the
// components notify into.
func NewHandler(
	provider *catalog.Provider,
	holder *store.Store,
	book *addressbook.Book,
	orders *checkout.Service,
	feed *notify.Feed,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		catalog:   provider,
		store:     holder,
		addresses: book,
		checkout:  orders,
		feed:      feed,
		logger:    logger.Named("transport"),
	}
}

// RegisterRoutes registers the storefront routes under /api
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/api", func(r chi.Router) {
		r.Get("/products", h.ListProducts)
		r.Get("/products/{id}", h.GetProduct)
		r.Get("/categories", h.ListCategories)

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", h.GetCart)
			r.Post("/refresh", h.RefreshCart)
			r.Post("/items", h.AddToCart)
			r.Patch("/items/{id}", h.UpdateQuantity)
			r.Delete("/items/{id}", h.RemoveFromCart)
			r.Post("/items/{id}/move-to-wishlist", h.MoveToWishlist)
		})

		r.Route("/wishlist", func(r chi.Router) {
			r.Get("/", h.GetWishlist)
			r.Post("/items", h.AddToWishlist)
			r.Delete("/items/{id}", h.RemoveFromWishlist)
		})

		r.Route("/addresses", func(r chi.Router) {
			r.Get("/", h.ListAddresses)
			r.Post("/", h.AddAddress)
			r.Put("/{id}", h.UpdateAddress)
			r.Delete("/{id}", h.DeleteAddress)
		})

		r.Get("/checkout", h.GetCheckoutSummary)
		r.Post("/checkout", h.PlaceOrder)
		r.Get("/orders", h.ListOrders)
	})
}

func (h *Handler) respond(w http.ResponseWriter, statusCode int, data interface{}) {
	middleware.RespondWithJSON(w, statusCode, Response{
		Data:          data,
		Notifications: h.feed.Drain(),
	})
}

// fail answers with the structured error body. The message is the last
// error notification shown to the shopper, if any.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	statusCode := statusFor(err)
	notifications := h.feed.Drain()

	message := err.Error()
	for i := len(notifications) - 1; i >= 0; i-- {
		if notifications[i].Level == notify.LevelError {
			message = notifications[i].Message
			break
		}
	}

	if statusCode >= http.StatusInternalServerError {
		h.logger.Error("Request failed", zap.String("path", r.URL.Path), zap.Int("status", statusCode), zap.Error(err))
	} else {
		h.logger.Debug("Request rejected", zap.String("path", r.URL.Path), zap.Int("status", statusCode), zap.Error(err))
	}

	middleware.RespondWithErrorDetails(w, statusCode, message, map[string]interface{}{
		"notifications": notifications,
	})
}

func (h *Handler) badRequest(w http.ResponseWriter, err error) {
	h.feed.Drain()
	middleware.RespondWithDecodeError(w, err)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, store.ErrOutOfStock),
		errors.Is(err, checkout.ErrOrderInProgress):
		return http.StatusConflict
	case errors.Is(err, store.ErrInvalidQuantity),
		errors.Is(err, addressbook.ErrInvalidAddress),
		errors.Is(err, checkout.ErrEmptyCart),
		errors.Is(err, checkout.ErrNoAddressSelected):
		return http.StatusBadRequest
	case errors.Is(err, store.ErrNotInCart),
		errors.Is(err, store.ErrProductNotFound),
		errors.Is(err, catalog.ErrProductNotFound),
		errors.Is(err, addressbook.ErrAddressNotFound),
		errors.Is(err, checkout.ErrAddressNotFound),
		remote.IsNotFound(err):
		return http.StatusNotFound
	}

	var apiErr *remote.Error
	if errors.As(err, &apiErr) {
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}
