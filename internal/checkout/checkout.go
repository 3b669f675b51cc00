// Package checkout turns the cart into an order.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"grindgears/internal/domain"
	"grindgears/internal/notify"
	"grindgears/internal/remote"
	"grindgears/internal/wire"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var (
	ErrEmptyCart         = errors.New("cart is empty")
	ErrNoAddressSelected = errors.New("no delivery address selected")
	ErrAddressNotFound   = errors.New("delivery address not found")
	ErrOrderInProgress   = errors.New("an order is already being placed")
)

const OpPlaceOrder = "order.place"

// DefaultClearDelay is how long the cart stays visible after an order
const DefaultClearDelay = 3 * time.Second

// Cart is the store holder as seen by checkout
type Cart interface {
	Cart() []domain.CartItem
	ClearCart(ctx context.Context) error
}

// Addresses resolves the selected delivery address
type Addresses interface {
	Find(id string) (domain.Address, bool)
}

// Remote is the order part of the GrindGears API
type Remote interface {
	CreateOrder(ctx context.Context, order wire.OrderRequest) (string, error)
	ListOrders(ctx context.Context) ([]wire.Order, error)
}

// Summary is the order summary shown before placing the order
type Summary struct {
	Items []domain.CartItem `json:"items"`
	Count int               `json:"count"`
	Total decimal.Decimal   `json:"total"`
}

// Service places orders and clears the cart once an order is accepted.
type Service struct {
	cart       Cart
	addresses  Addresses
	remote     Remote
	notifier   notify.Notifier
	logger     *zap.Logger
	clearDelay time.Duration
	placing    atomic.Bool

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// Option configures a Service
type Option func(*Service)

// WithClearDelay sets the delay between an accepted order and the cart clear.
func WithClearDelay(d time.Duration) Option {
	return func(s *Service) {
		s.clearDelay = d
	}
}

// New creates a checkout service. Close must be called to stop pending
// cart clears.
func New(cart Cart, addresses Addresses, r Remote, notifier notify.Notifier, logger *zap.Logger, opts ...Option) *Service {
	ctx, cancel := context.WithCancel(context.Background())
	s := &Service{
		cart:       cart,
		addresses:  addresses,
		remote:     r,
		notifier:   notifier,
		logger:     logger.Named("checkout"),
		clearDelay: DefaultClearDelay,
		ctx:        ctx,
		cancel:     cancel,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Summary returns the current cart items, their count and total.
func (s *Service) Summary() Summary {
	items := s.cart.Cart()
	return Summary{
		Items: items,
		Count: len(items),
		Total: domain.CartTotal(items),
	}
}

// Placing reports whether an order is being posted.
func (s *Service) Placing() bool {
	return s.placing.Load()
}

// PlaceOrder posts an order for the current cart, shipped to the address
// with addressID. On success the cart is cleared after the configured delay.
func (s *Service) PlaceOrder(ctx context.Context, addressID string) (domain.Order, error) {
	items := s.cart.Cart()
	if len(items) == 0 {
		notify.Error(s.notifier, OpPlaceOrder, "Your cart is empty")
		return domain.Order{}, ErrEmptyCart
	}
	if addressID == "" {
		notify.Error(s.notifier, OpPlaceOrder, "Please select a delivery address")
		return domain.Order{}, ErrNoAddressSelected
	}
	address, ok := s.addresses.Find(addressID)
	if !ok {
		notify.Error(s.notifier, OpPlaceOrder, "Please select a delivery address")
		return domain.Order{}, ErrAddressNotFound
	}

	if !s.placing.CompareAndSwap(false, true) {
		return domain.Order{}, ErrOrderInProgress
	}
	defer s.placing.Store(false)

	lines := domain.NewOrderLines(items)
	order := domain.Order{
		Lines:           lines,
		TotalAmount:     domain.LinesTotal(lines),
		ShippingAddress: address,
		CreatedAt:       time.Now().UTC(),
	}

	msg, err := s.remote.CreateOrder(ctx, wire.OrderRequest{
		Gears:           wire.FromOrderLines(order.Lines),
		TotalAmount:     order.TotalAmount,
		ShippingAddress: wire.FromAddress(order.ShippingAddress),
	})
	if err != nil {
		s.logger.Error("Error placing order", zap.Error(err))
		notify.Error(s.notifier, OpPlaceOrder, remote.MessageOr(err, "Failed to place order"))
		return domain.Order{}, fmt.Errorf("failed to place order: %w", err)
	}

	if msg == "" {
		msg = "Order placed successfully"
	}
	notify.Success(s.notifier, OpPlaceOrder, msg)
	s.logger.Info("Order placed",
		zap.Int("lines", len(order.Lines)),
		zap.String("total", order.TotalAmount.String()),
		zap.String("address_id", address.ID),
	)

	s.scheduleClear()
	return order, nil
}

func (s *Service) scheduleClear() {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		timer := time.NewTimer(s.clearDelay)
		defer timer.Stop()

		select {
		case <-s.ctx.Done():
			s.logger.Debug("Pending cart clear cancelled")
			return
		case <-timer.C:
		}

		if err := s.cart.ClearCart(s.ctx); err != nil {
			s.logger.Error("Failed to clear cart after order", zap.Error(err))
		}
	}()
}

// Orders returns the order history.
func (s *Service) Orders(ctx context.Context) ([]domain.Order, error) {
	raw, err := s.remote.ListOrders(ctx)
	if err != nil {
		s.logger.Error("Error getting orders", zap.Error(err))
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}

	orders := make([]domain.Order, 0, len(raw))
	for _, o := range raw {
		orders = append(orders, o.Domain())
	}
	return orders, nil
}

// Wait blocks until every scheduled cart clear has finished.
func (s *Service) Wait() {
	s.wg.Wait()
}

// Close cancels pending cart clears and waits for them to return.
func (s *Service) Close() {
	s.cancel()
	s.wg.Wait()
}
