// Package store holds the shopper's cart and wishlist and keeps them in
// sync with the GrindGears API.
//
// Mutations are optimistic: the local collections change first, the remote
// call follows, and a failed call compensates the local change. Concurrent
// identical mutations on the same product are coalesced into the one
// already in flight.
package store

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"

	"grindgears/internal/catalog"
	"grindgears/internal/domain"
	"grindgears/internal/notify"
	"grindgears/internal/remote"
	"grindgears/internal/wire"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

var (
	ErrOutOfStock      = errors.New("gear is out of stock")
	ErrProductNotFound = errors.New("gear not found")
	ErrInvalidQuantity = errors.New("quantity must be at least 1")
	ErrNotInCart       = errors.New("gear is not in the cart")
)

// Operation names, used as notification ops and in-flight guard prefixes
const (
	OpLoad           = "store.load"
	OpCartAdd        = "cart.add"
	OpCartRemove     = "cart.remove"
	OpCartUpdate     = "cart.update"
	OpCartClear      = "cart.clear"
	OpWishlistAdd    = "wishlist.add"
	OpWishlistRemove = "wishlist.remove"
	OpMoveToWishlist = "cart.move"
)

// Remote is the part of the GrindGears API the store talks to. Mutations
// return the service's confirmation message.
type Remote interface {
	GetCart(ctx context.Context) ([]wire.CartLine, error)
	GetWishlist(ctx context.Context) ([]wire.Gear, error)
	AddToCart(ctx context.Context, gearID string, quantity int) (string, error)
	RemoveFromCart(ctx context.Context, gearID string) (string, error)
	UpdateCartQuantity(ctx context.Context, gearID string, quantity int) (string, error)
	ClearCart(ctx context.Context) (string, error)
	AddToWishlist(ctx context.Context, gearID string) (string, error)
	RemoveFromWishlist(ctx context.Context, gearID string) (string, error)
}

// ProductLookup resolves a product id to the full product record.
type ProductLookup interface {
	Product(ctx context.Context, id string) (domain.Product, error)
}

// Store owns the cart and wishlist collections.
type Store struct {
	remote   Remote
	lookup   ProductLookup
	notifier notify.Notifier
	logger   *zap.Logger
	inflight singleflight.Group

	mu       sync.RWMutex
	cart     []domain.CartItem
	wishlist []domain.Product
}

// Option configures a Store
type Option func(*Store)

// WithProductLookup sets the lookup used by AddToWishlistByID.
func WithProductLookup(lookup ProductLookup) Option {
	return func(s *Store) {
		s.lookup = lookup
	}
}

// New creates an empty store. Call Load to seed it from the API.
func New(r Remote, notifier notify.Notifier, logger *zap.Logger, opts ...Option) *Store {
	s := &Store{
		remote:   r,
		notifier: notifier,
		logger:   logger.Named("store"),
		cart:     []domain.CartItem{},
		wishlist: []domain.Product{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// action identifies a mutation for coalescing. Only identical actions
// share a flight.
type action struct {
	op       string
	id       string
	quantity int
}

func (a action) key() string {
	return a.op + ":" + a.id + ":" + strconv.Itoa(a.quantity)
}

// guard runs fn under the in-flight key of a. A caller arriving with the
// same action while fn is outstanding waits for it and shares its result.
func (s *Store) guard(a action, fn func() error) error {
	_, err, shared := s.inflight.Do(a.key(), func() (interface{}, error) {
		return nil, fn()
	})
	if shared {
		s.logger.Debug("Coalesced duplicate action", zap.String("op", a.op), zap.String("gear_id", a.id))
	}
	return err
}

// settle reports the outcome of a remote mutation to the shopper.
func (s *Store) settle(op, message string, err error, fallback, success string) {
	if err != nil {
		s.logger.Error("Remote mutation failed", zap.String("op", op), zap.Error(err))
		notify.Error(s.notifier, op, remote.MessageOr(err, fallback))
		return
	}
	if message == "" {
		message = success
	}
	notify.Success(s.notifier, op, message)
}

// Load fetches the cart and the wishlist concurrently. Local state is
// replaced only when both fetches succeed.
func (s *Store) Load(ctx context.Context) error {
	return s.guard(action{op: OpLoad}, func() error {
		var (
			lines []wire.CartLine
			gears []wire.Gear
		)

		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			var err error
			lines, err = s.remote.GetCart(gctx)
			return err
		})
		g.Go(func() error {
			var err error
			gears, err = s.remote.GetWishlist(gctx)
			return err
		})
		if err := g.Wait(); err != nil {
			s.logger.Error("Error getting cart items", zap.Error(err))
			return fmt.Errorf("failed to load store: %w", err)
		}

		cart := catalog.NormalizeCart(lines)
		wishlist := catalog.NormalizeAll(gears)

		s.mu.Lock()
		s.cart = cart
		s.wishlist = wishlist
		s.mu.Unlock()

		s.logger.Debug("Store loaded", zap.Int("cart_items", len(cart)), zap.Int("wishlist_items", len(wishlist)))
		return nil
	})
}

// Refresh reconciles local state with the API.
func (s *Store) Refresh(ctx context.Context) error {
	return s.Load(ctx)
}

// AddToCart adds quantity units of product to the cart.
func (s *Store) AddToCart(ctx context.Context, product domain.Product, quantity int) error {
	if quantity < 1 {
		return ErrInvalidQuantity
	}
	if !product.InStock {
		notify.Error(s.notifier, OpCartAdd, "Gear is out of stock")
		return ErrOutOfStock
	}

	return s.guard(action{op: OpCartAdd, id: product.ID, quantity: quantity}, func() error {
		msg, err := s.addToCart(ctx, product, quantity)
		s.settle(OpCartAdd, msg, err, "Error adding to cart", "Gear added to cart")
		return err
	})
}

func (s *Store) addToCart(ctx context.Context, product domain.Product, quantity int) (string, error) {
	s.mu.Lock()
	if idx := domain.IndexOfCartItem(s.cart, product.ID); idx >= 0 {
		s.cart[idx].Quantity += quantity
	} else {
		s.cart = append(s.cart, domain.CartItem{Product: product, Quantity: quantity})
	}
	s.mu.Unlock()

	msg, err := s.remote.AddToCart(ctx, product.ID, quantity)
	if err != nil {
		s.takeFromCart(product.ID, quantity)
		return "", fmt.Errorf("failed to add to cart: %w", err)
	}
	return msg, nil
}

// takeFromCart reverses an add of quantity units, dropping the item once
// nothing is left of it.
func (s *Store) takeFromCart(id string, quantity int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := domain.IndexOfCartItem(s.cart, id)
	if idx < 0 {
		return
	}
	s.cart[idx].Quantity -= quantity
	if s.cart[idx].Quantity < 1 {
		s.cart = append(s.cart[:idx], s.cart[idx+1:]...)
	}
}

// RemoveFromCart removes the item with id from the cart. The request is
// sent even when the item is not held locally.
func (s *Store) RemoveFromCart(ctx context.Context, id string) error {
	return s.guard(action{op: OpCartRemove, id: id}, func() error {
		msg, err := s.removeFromCart(ctx, id)
		s.settle(OpCartRemove, msg, err, "Error removing from cart", "Gear removed from cart")
		return err
	})
}

func (s *Store) removeFromCart(ctx context.Context, id string) (string, error) {
	s.mu.Lock()
	idx := domain.IndexOfCartItem(s.cart, id)
	var removed domain.CartItem
	if idx >= 0 {
		removed = s.cart[idx]
		s.cart = append(s.cart[:idx], s.cart[idx+1:]...)
	}
	s.mu.Unlock()

	msg, err := s.remote.RemoveFromCart(ctx, id)
	if err != nil {
		if idx >= 0 {
			s.restoreCartItem(idx, removed)
		}
		return "", fmt.Errorf("failed to remove from cart: %w", err)
	}
	return msg, nil
}

func (s *Store) restoreCartItem(idx int, item domain.CartItem) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if domain.IndexOfCartItem(s.cart, item.ID) >= 0 {
		return
	}
	if idx > len(s.cart) {
		idx = len(s.cart)
	}
	s.cart = append(s.cart, domain.CartItem{})
	copy(s.cart[idx+1:], s.cart[idx:])
	s.cart[idx] = item
}

// UpdateQuantity sets the quantity of the item with id. Quantities below 1
// are raised to 1. The local item changes only once the API confirms.
func (s *Store) UpdateQuantity(ctx context.Context, id string, quantity int) error {
	if quantity < 1 {
		quantity = 1
	}

	return s.guard(action{op: OpCartUpdate, id: id, quantity: quantity}, func() error {
		msg, err := s.remote.UpdateCartQuantity(ctx, id, quantity)
		if err != nil {
			err = fmt.Errorf("failed to update cart quantity: %w", err)
		} else {
			s.mu.Lock()
			if idx := domain.IndexOfCartItem(s.cart, id); idx >= 0 {
				s.cart[idx].Quantity = quantity
			}
			s.mu.Unlock()
		}
		s.settle(OpCartUpdate, msg, err, "Error updating gear", "Cart updated")
		return err
	})
}

// ClearCart empties the cart once the API confirms.
func (s *Store) ClearCart(ctx context.Context) error {
	return s.guard(action{op: OpCartClear}, func() error {
		msg, err := s.remote.ClearCart(ctx)
		if err != nil {
			err = fmt.Errorf("failed to clear cart: %w", err)
		} else {
			s.mu.Lock()
			s.cart = []domain.CartItem{}
			s.mu.Unlock()
		}
		s.settle(OpCartClear, msg, err, "Error clearing cart", "Cart cleared")
		return err
	})
}

// AddToWishlist adds product to the wishlist. Adding a product that is
// already wishlisted changes nothing and sends no request.
func (s *Store) AddToWishlist(ctx context.Context, product domain.Product) error {
	if s.InWishlist(product.ID) {
		notify.Info(s.notifier, OpWishlistAdd, "Gear is already in wishlist")
		return nil
	}

	return s.guard(action{op: OpWishlistAdd, id: product.ID}, func() error {
		msg, err := s.addToWishlist(ctx, product)
		s.settle(OpWishlistAdd, msg, err, "Error adding to wishlist", "Gear added to wishlist")
		return err
	})
}

// AddToWishlistByID resolves id through the product lookup and adds the
// product to the wishlist.
func (s *Store) AddToWishlistByID(ctx context.Context, id string) error {
	if s.lookup == nil {
		notify.Error(s.notifier, OpWishlistAdd, "Gear not found")
		return ErrProductNotFound
	}

	product, err := s.lookup.Product(ctx, id)
	if err != nil {
		s.logger.Warn("Product lookup failed", zap.String("gear_id", id), zap.Error(err))
		notify.Error(s.notifier, OpWishlistAdd, "Gear not found")
		return fmt.Errorf("%w: %v", ErrProductNotFound, err)
	}
	return s.AddToWishlist(ctx, product)
}

func (s *Store) addToWishlist(ctx context.Context, product domain.Product) (string, error) {
	s.mu.Lock()
	if domain.IndexOfProduct(s.wishlist, product.ID) >= 0 {
		s.mu.Unlock()
		return "Gear is already in wishlist", nil
	}
	s.wishlist = append(s.wishlist, product)
	s.mu.Unlock()

	msg, err := s.remote.AddToWishlist(ctx, product.ID)
	if err != nil {
		s.dropFromWishlist(product.ID)
		return "", fmt.Errorf("failed to add to wishlist: %w", err)
	}
	return msg, nil
}

func (s *Store) dropFromWishlist(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if idx := domain.IndexOfProduct(s.wishlist, id); idx >= 0 {
		s.wishlist = append(s.wishlist[:idx], s.wishlist[idx+1:]...)
	}
}

// RemoveFromWishlist removes the product with id from the wishlist.
func (s *Store) RemoveFromWishlist(ctx context.Context, id string) error {
	return s.guard(action{op: OpWishlistRemove, id: id}, func() error {
		msg, err := s.removeFromWishlist(ctx, id)
		s.settle(OpWishlistRemove, msg, err, "Error removing from wishlist", "Gear removed from wishlist")
		return err
	})
}

func (s *Store) removeFromWishlist(ctx context.Context, id string) (string, error) {
	s.mu.Lock()
	idx := domain.IndexOfProduct(s.wishlist, id)
	var removed domain.Product
	if idx >= 0 {
		removed = s.wishlist[idx]
		s.wishlist = append(s.wishlist[:idx], s.wishlist[idx+1:]...)
	}
	s.mu.Unlock()

	msg, err := s.remote.RemoveFromWishlist(ctx, id)
	if err != nil {
		if idx >= 0 {
			s.restoreWishlistItem(idx, removed)
		}
		return "", fmt.Errorf("failed to remove from wishlist: %w", err)
	}
	return msg, nil
}

func (s *Store) restoreWishlistItem(idx int, product domain.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if domain.IndexOfProduct(s.wishlist, product.ID) >= 0 {
		return
	}
	if idx > len(s.wishlist) {
		idx = len(s.wishlist)
	}
	s.wishlist = append(s.wishlist, domain.Product{})
	copy(s.wishlist[idx+1:], s.wishlist[idx:])
	s.wishlist[idx] = product
}

// MoveToWishlist moves the cart item with id to the wishlist. Either both
// the wishlist add and the cart remove take effect or neither does.
func (s *Store) MoveToWishlist(ctx context.Context, id string) error {
	item, ok := s.CartItem(id)
	if !ok {
		notify.Error(s.notifier, OpMoveToWishlist, "Gear is not in cart")
		return ErrNotInCart
	}

	if s.InWishlist(id) {
		return s.RemoveFromCart(ctx, id)
	}

	return s.guard(action{op: OpMoveToWishlist, id: id}, func() error {
		if _, err := s.addToWishlist(ctx, item.Product); err != nil {
			s.settle(OpMoveToWishlist, "", err, "Error adding to wishlist", "")
			return err
		}

		if _, err := s.removeFromCart(ctx, id); err != nil {
			if _, compErr := s.removeFromWishlist(ctx, id); compErr != nil {
				s.logger.Error("Failed to undo wishlist add", zap.String("gear_id", id), zap.Error(compErr))
				err = errors.Join(err, fmt.Errorf("failed to undo wishlist add: %w", compErr))
			}
			s.settle(OpMoveToWishlist, "", err, "Error removing from cart", "")
			return err
		}

		s.settle(OpMoveToWishlist, "", nil, "", "Gear moved to wishlist")
		return nil
	})
}

// Cart returns a copy of the cart.
func (s *Store) Cart() []domain.CartItem {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.CartItem, len(s.cart))
	copy(out, s.cart)
	return out
}

// Wishlist returns a copy of the wishlist.
func (s *Store) Wishlist() []domain.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Product, len(s.wishlist))
	copy(out, s.wishlist)
	return out
}

// CartItem returns the cart item with id.
func (s *Store) CartItem(id string) (domain.CartItem, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if idx := domain.IndexOfCartItem(s.cart, id); idx >= 0 {
		return s.cart[idx], true
	}
	return domain.CartItem{}, false
}

func (s *Store) InCart(id string) bool {
	_, ok := s.CartItem(id)
	return ok
}

func (s *Store) InWishlist(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return domain.IndexOfProduct(s.wishlist, id) >= 0
}

// Total returns the cart total.
func (s *Store) Total() decimal.Decimal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return domain.CartTotal(s.cart)
}

// Count returns the number of distinct items in the cart.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.cart)
}
