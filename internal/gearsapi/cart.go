package gearsapi

import (
	"net/http"

	"grindgears/internal/wire"

	"go.uber.org/zap"
)

// GetCart returns the cart lines
func (a *API) GetCart(w http.ResponseWriter, r *http.Request) {
	stored, err := a.repos.Cart.List(r.Context())
	if err != nil {
		a.fail(w, r, err)
		return
	}

	lines := make([]wire.CartLine, 0, len(stored))
	for _, l := range stored {
		lines = append(lines, wire.CartLine{
			Gear:     wire.FromProduct(l.Gear.Product, l.Gear.Category),
			Quantity: l.Quantity,
		})
	}
	a.respond(w, http.StatusOK, lines, "")
}

// AddToCart adds a gear to the cart. Out of stock gear is refused.
func (a *API) AddToCart(w http.ResponseWriter, r *http.Request) {
	var req wire.GearRequest
	if !a.decode(w, r, &req) {
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	gear, err := a.repos.Gears.FindByID(r.Context(), req.GearID)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	if !gear.Product.InStock {
		a.message(w, http.StatusConflict, "Gear is out of stock")
		return
	}

	if err := a.repos.Cart.Add(r.Context(), req.GearID, req.Quantity); err != nil {
		a.fail(w, r, err)
		return
	}

	a.logger.Debug("Gear added to cart", zap.String("gear_id", req.GearID), zap.Int("quantity", req.Quantity))
	a.respond(w, http.StatusOK, nil, "Gear added to cart")
}

// UpdateCart replaces the quantity of a cart line
func (a *API) UpdateCart(w http.ResponseWriter, r *http.Request) {
	var req wire.GearRequest
	if !a.decode(w, r, &req) {
		return
	}

	if err := a.repos.Cart.SetQuantity(r.Context(), req.GearID, req.Quantity); err != nil {
		a.fail(w, r, err)
		return
	}
	a.respond(w, http.StatusOK, nil, "Cart updated")
}

// RemoveFromCart drops a line from the cart
func (a *API) RemoveFromCart(w http.ResponseWriter, r *http.Request) {
	var req wire.GearRequest
	if !a.decode(w, r, &req) {
		return
	}

	if err := a.repos.Cart.Remove(r.Context(), req.GearID); err != nil {
		a.fail(w, r, err)
		return
	}
	a.respond(w, http.StatusOK, nil, "Gear removed from cart")
}

// ClearCart empties the cart
func (a *API) ClearCart(w http.ResponseWriter, r *http.Request) {
	if err := a.repos.Cart.Clear(r.Context()); err != nil {
		a.fail(w, r, err)
		return
	}
	a.respond(w, http.StatusOK, nil, "Cart cleared")
}

// GetWishlist returns the wishlisted gears
func (a *API) GetWishlist(w http.ResponseWriter, r *http.Request) {
	stored, err := a.repos.Wishlist.List(r.Context())
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.respond(w, http.StatusOK, gears(stored), "")
}

// AddToWishlist wishlists a gear
func (a *API) AddToWishlist(w http.ResponseWriter, r *http.Request) {
	var req wire.GearRequest
	if !a.decode(w, r, &req) {
		return
	}

	if err := a.repos.Wishlist.Add(r.Context(), req.GearID); err != nil {
		a.fail(w, r, err)
		return
	}
	a.respond(w, http.StatusOK, nil, "Gear added to wishlist")
}

// RemoveFromWishlist drops a gear from the wishlist
func (a *API) RemoveFromWishlist(w http.ResponseWriter, r *http.Request) {
	var req wire.GearRequest
	if !a.decode(w, r, &req) {
		return
	}

	if err := a.repos.Wishlist.Remove(r.Context(), req.GearID); err != nil {
		a.fail(w, r, err)
		return
	}
	a.respond(w, http.StatusOK, nil, "Gear removed from wishlist")
}
