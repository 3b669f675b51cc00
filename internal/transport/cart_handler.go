package transport

import (
	"net/http"

	"grindgears/internal/domain"
	"grindgears/internal/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

// AddItemRequest adds a gear to the cart. A zero quantity means one.
type AddItemRequest struct {
	GearID   string `json:"gearId" validate:"required"`
	Quantity int    `json:"quantity" validate:"gte=0,lte=99"`
}

// UpdateQuantityRequest sets the quantity of a cart item
type UpdateQuantityRequest struct {
	Quantity int `json:"quantity" validate:"lte=99"`
}

// WishlistRequest adds a gear to the wishlist
type WishlistRequest struct {
	GearID string `json:"gearId" validate:"required"`
}

// CartView is the cart payload
type CartView struct {
	Items []domain.CartItem `json:"items"`
	Total decimal.Decimal   `json:"total"`
	Count int               `json:"count"`
}

// cartView derives the total and count from one copy of the cart.
func (h *Handler) cartView() CartView {
	items := h.store.Cart()
	return CartView{
		Items: items,
		Total: domain.CartTotal(items),
		Count: len(items),
	}
}

// GetCart returns the cart
func (h *Handler) GetCart(w http.ResponseWriter, r *http.Request) {
	h.respond(w, http.StatusOK, h.cartView())
}

// RefreshCart reloads the cart and wishlist from the API
func (h *Handler) RefreshCart(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Refresh(r.Context()); err != nil {
		h.fail(w, r, err)
		return
	}
	h.respond(w, http.StatusOK, h.cartView())
}

// AddToCart resolves the gear and adds it to the cart
func (h *Handler) AddToCart(w http.ResponseWriter, r *http.Request) {
	var req AddItemRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.badRequest(w, err)
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	product, err := h.catalog.Product(r.Context(), req.GearID)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	if err := h.store.AddToCart(r.Context(), product, req.Quantity); err != nil {
		h.fail(w, r, err)
		return
	}
	h.respond(w, http.StatusOK, h.cartView())
}

// UpdateQuantity sets the quantity of a cart item
func (h *Handler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	var req UpdateQuantityRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.badRequest(w, err)
		return
	}

	if err := h.store.UpdateQuantity(r.Context(), chi.URLParam(r, "id"), req.Quantity); err != nil {
		h.fail(w, r, err)
		return
	}
	h.respond(w, http.StatusOK, h.cartView())
}

// RemoveFromCart removes a cart item
func (h *Handler) RemoveFromCart(w http.ResponseWriter, r *http.Request) {
	if err := h.store.RemoveFromCart(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.fail(w, r, err)
		return
	}
	h.respond(w, http.StatusOK, h.cartView())
}

// MoveToWishlist moves a cart item to the wishlist
func (h *Handler) MoveToWishlist(w http.ResponseWriter, r *http.Request) {
	if err := h.store.MoveToWishlist(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.fail(w, r, err)
		return
	}
	h.respond(w, http.StatusOK, map[string]interface{}{
		"cart":     h.cartView(),
		"wishlist": h.store.Wishlist(),
	})
}

// GetWishlist returns the wishlist
func (h *Handler) GetWishlist(w http.ResponseWriter, r *http.Request) {
	h.respond(w, http.StatusOK, h.store.Wishlist())
}

// AddToWishlist adds a gear to the wishlist by id
func (h *Handler) AddToWishlist(w http.ResponseWriter, r *http.Request) {
	var req WishlistRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.badRequest(w, err)
		return
	}

	if err := h.store.AddToWishlistByID(r.Context(), req.GearID); err != nil {
		h.fail(w, r, err)
		return
	}
	h.respond(w, http.StatusOK, h.store.Wishlist())
}

// RemoveFromWishlist removes a gear from the wishlist
func (h *Handler) RemoveFromWishlist(w http.ResponseWriter, r *http.Request) {
	if err := h.store.RemoveFromWishlist(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.fail(w, r, err)
		return
	}
	h.respond(w, http.StatusOK, h.store.Wishlist())
}
