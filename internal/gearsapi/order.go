package gearsapi

import (
	"net/http"

	"grindgears/internal/domain"
	"grindgears/internal/wire"

	"go.uber.org/zap"
)

// ListOrders returns the order history, newest first
func (a *API) ListOrders(w http.ResponseWriter, r *http.Request) {
	stored, err := a.repos.Orders.List(r.Context())
	if err != nil {
		a.fail(w, r, err)
		return
	}

	orders := make([]wire.Order, 0, len(stored))
	for _, o := range stored {
		orders = append(orders, wire.FromOrder(*o))
	}
	a.respond(w, http.StatusOK, orders, "")
}

// CreateOrder stores an order. The total must equal the sum of its lines.
func (a *API) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req wire.OrderRequest
	if !a.decode(w, r, &req) {
		return
	}
	if req.ShippingAddress.FullAddress == "" {
		a.message(w, http.StatusBadRequest, "Shipping address is required")
		return
	}

	order := req.Domain()
	if !order.TotalAmount.Equal(domain.LinesTotal(order.Lines)) {
		a.message(w, http.StatusBadRequest, "Order total does not match its gears")
		return
	}

	if err := a.repos.Orders.Create(r.Context(), &order); err != nil {
		a.fail(w, r, err)
		return
	}

	a.logger.Info("Order stored",
		zap.String("order_id", order.ID),
		zap.Int("lines", len(order.Lines)),
		zap.String("total", order.TotalAmount.String()),
	)
	a.respond(w, http.StatusCreated, wire.FromOrder(order), "Order placed successfully")
}
