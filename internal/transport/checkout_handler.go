package transport

import (
	"net/http"

	"grindgears/internal/middleware"
)

// PlaceOrderRequest selects the delivery address
type PlaceOrderRequest struct {
	AddressID string `json:"addressId"`
}

// GetCheckoutSummary returns the order summary
func (h *Handler) GetCheckoutSummary(w http.ResponseWriter, r *http.Request) {
	h.respond(w, http.StatusOK, h.checkout.Summary())
}

// PlaceOrder places an order for the cart
func (h *Handler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	var req PlaceOrderRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.badRequest(w, err)
		return
	}
	h.ensureAddress(r, req.AddressID)

	order, err := h.checkout.PlaceOrder(r.Context(), req.AddressID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.respond(w, http.StatusCreated, order)
}

// ListOrders returns the order history
func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.checkout.Orders(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.respond(w, http.StatusOK, orders)
}
