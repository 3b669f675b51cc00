// Package remote is the HTTP client of the GrindGears API. Every method maps
// to exactly one endpoint; nothing is retried or cached.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"grindgears/internal/wire"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
)

const (
	// DefaultTimeout bounds a single request
	DefaultTimeout = 15 * time.Second

	maxResponseBytes = 10 << 20
)

// Client talks to the GrindGears API
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// WithLogger sets the logger used for request failures.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// New creates a client for the API rooted at baseURL,
// e.g. "https://grind-gears-backend.vercel.app/api/v1".
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
			Timeout:   DefaultTimeout,
		},
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// do sends one request and decodes the envelope's data into out when non-nil.
// It returns the envelope's message.
func (c *Client) do(ctx context.Context, op, method, path string, body, out interface{}) (string, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return "", &Error{Op: op, Err: fmt.Errorf("failed to encode request: %w", err)}
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return "", &Error{Op: op, Err: fmt.Errorf("failed to build request: %w", err)}
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("GrindGears API request failed",
			zap.String("op", op),
			zap.String("method", method),
			zap.String("path", path),
			zap.Error(err),
		)
		return "", &Error{Op: op, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return "", &Error{Op: op, StatusCode: resp.StatusCode, Err: fmt.Errorf("failed to read response: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var errBody wire.ErrorBody
		_ = json.Unmarshal(raw, &errBody)

		c.logger.Debug("GrindGears API returned an error",
			zap.String("op", op),
			zap.Int("status", resp.StatusCode),
			zap.String("message", errBody.Message),
		)
		return "", &Error{Op: op, StatusCode: resp.StatusCode, Message: errBody.Message}
	}

	var env wire.Envelope
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &env); err != nil {
			return "", &Error{Op: op, StatusCode: resp.StatusCode, Err: fmt.Errorf("failed to decode envelope: %w", err)}
		}
	}

	if out != nil && len(env.Data) > 0 && string(env.Data) != "null" {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return "", &Error{Op: op, StatusCode: resp.StatusCode, Err: fmt.Errorf("failed to decode data: %w", err)}
		}
	}

	return env.Message, nil
}

// ListGears returns the full catalog.
func (c *Client) ListGears(ctx context.Context) ([]wire.Gear, error) {
	var gears []wire.Gear
	_, err := c.do(ctx, "gears.list", http.MethodGet, "/gears", nil, &gears)
	return gears, err
}

// ListGearsByCategory returns the gears of the category with slug.
func (c *Client) ListGearsByCategory(ctx context.Context, slug string) ([]wire.Gear, error) {
	var gears []wire.Gear
	_, err := c.do(ctx, "gears.by_category", http.MethodGet, "/categories/slug/"+url.PathEscape(slug), nil, &gears)
	return gears, err
}

// ListCategories returns all catalog categories.
func (c *Client) ListCategories(ctx context.Context) ([]wire.Category, error) {
	var categories []wire.Category
	_, err := c.do(ctx, "categories.list", http.MethodGet, "/categories", nil, &categories)
	return categories, err
}

// GetCart returns the current cart lines.
func (c *Client) GetCart(ctx context.Context) ([]wire.CartLine, error) {
	var lines []wire.CartLine
	_, err := c.do(ctx, "cart.get", http.MethodGet, "/cart", nil, &lines)
	return lines, err
}

// AddToCart adds quantity of gearID to the cart.
func (c *Client) AddToCart(ctx context.Context, gearID string, quantity int) (string, error) {
	return c.do(ctx, "cart.add", http.MethodPost, "/cart/add", wire.GearRequest{GearID: gearID, Quantity: quantity}, nil)
}

// RemoveFromCart removes gearID from the cart.
func (c *Client) RemoveFromCart(ctx context.Context, gearID string) (string, error) {
	return c.do(ctx, "cart.remove", http.MethodDelete, "/cart/remove", wire.GearRequest{GearID: gearID}, nil)
}

// UpdateCartQuantity sets the quantity of gearID in the cart.
func (c *Client) UpdateCartQuantity(ctx context.Context, gearID string, quantity int) (string, error) {
	return c.do(ctx, "cart.update", http.MethodPost, "/cart/update", wire.GearRequest{GearID: gearID, Quantity: quantity}, nil)
}

// ClearCart empties the cart.
func (c *Client) ClearCart(ctx context.Context) (string, error) {
	return c.do(ctx, "cart.clear", http.MethodDelete, "/cart/clear", nil, nil)
}

// GetWishlist returns the wishlisted gears.
func (c *Client) GetWishlist(ctx context.Context) ([]wire.Gear, error) {
	var gears []wire.Gear
	_, err := c.do(ctx, "wishlist.get", http.MethodGet, "/wishlist", nil, &gears)
	return gears, err
}

// AddToWishlist wishlists gearID.
func (c *Client) AddToWishlist(ctx context.Context, gearID string) (string, error) {
	return c.do(ctx, "wishlist.add", http.MethodPost, "/wishlist/add", wire.GearRequest{GearID: gearID}, nil)
}

// RemoveFromWishlist removes gearID from the wishlist.
func (c *Client) RemoveFromWishlist(ctx context.Context, gearID string) (string, error) {
	return c.do(ctx, "wishlist.remove", http.MethodDelete, "/wishlist/remove", wire.GearRequest{GearID: gearID}, nil)
}

// ListAddresses returns the stored addresses.
func (c *Client) ListAddresses(ctx context.Context) ([]wire.Address, error) {
	var addresses []wire.Address
	_, err := c.do(ctx, "address.list", http.MethodGet, "/address", nil, &addresses)
	return addresses, err
}

// CreateAddress stores a new address. The returned address is zero when the
// service does not echo the stored record.
func (c *Client) CreateAddress(ctx context.Context, addressType, fullAddress string) (wire.Address, string, error) {
	var created wire.Address
	msg, err := c.do(ctx, "address.create", http.MethodPost, "/address", wire.AddressRequest{Type: addressType, Address: fullAddress}, &created)
	return created, msg, err
}

// UpdateAddress replaces the type and text of address id.
func (c *Client) UpdateAddress(ctx context.Context, id, addressType, fullAddress string) (string, error) {
	return c.do(ctx, "address.update", http.MethodPost, "/address/update", wire.AddressRequest{ID: id, Type: addressType, Address: fullAddress}, nil)
}

// DeleteAddress removes address id.
func (c *Client) DeleteAddress(ctx context.Context, id string) (string, error) {
	return c.do(ctx, "address.delete", http.MethodDelete, "/address", wire.AddressRequest{ID: id}, nil)
}

// ListOrders returns the order history.
func (c *Client) ListOrders(ctx context.Context) ([]wire.Order, error) {
	var orders []wire.Order
	_, err := c.do(ctx, "orders.list", http.MethodGet, "/orders", nil, &orders)
	return orders, err
}

// CreateOrder places an order.
func (c *Client) CreateOrder(ctx context.Context, order wire.OrderRequest) (string, error) {
	return c.do(ctx, "orders.create", http.MethodPost, "/orders", order, nil)
}
