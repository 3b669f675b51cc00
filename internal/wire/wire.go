// Package wire holds the JSON shapes spoken by the GrindGears API. The
// storefront client decodes them and the reference server encodes them.
package wire

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// Envelope wraps every successful response.
type Envelope struct {
	Data    json.RawMessage `json:"data,omitempty"`
	Message string          `json:"message,omitempty"`
}

// ErrorBody is the body of a non-2xx response.
type ErrorBody struct {
	Message string `json:"message"`
}

// GearCategory is the category object nested inside a gear record.
type GearCategory struct {
	ID   string `json:"_id,omitempty"`
	Name string `json:"name"`
	Slug string `json:"slug,omitempty"`
}

// Gear is a raw catalog record. Price and rating may arrive either as JSON
// numbers or as numeric strings; decimal accepts both.
type Gear struct {
	ID       string          `json:"_id"`
	Name     string          `json:"name"`
	Details  string          `json:"details"`
	Category *GearCategory   `json:"category"`
	Rating   decimal.Decimal `json:"rating"`
	Price    decimal.Decimal `json:"price"`
	ImageURL string          `json:"imageUrl"`
	Brand    string          `json:"brand"`
	InStock  bool            `json:"inStock"`
}

// CartLine is a gear record with the quantity held in the cart.
type CartLine struct {
	Gear
	Quantity int `json:"quantity"`
}

// Category is a catalog category record.
type Category struct {
	ID          string `json:"_id"`
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
	ImageURL    string `json:"imageUrl"`
}

// GearRequest is the body of the cart and wishlist mutations.
type GearRequest struct {
	GearID   string `json:"gearId" validate:"required"`
	Quantity int    `json:"quantity,omitempty" validate:"gte=0"`
}

// Address is a stored shipping address.
type Address struct {
	ID          string `json:"_id"`
	AddressType string `json:"addressType"`
	FullAddress string `json:"fullAddress"`
}

// AddressRequest is the body of address create, update and delete.
type AddressRequest struct {
	ID      string `json:"id,omitempty"`
	Type    string `json:"type,omitempty"`
	Address string `json:"address,omitempty"`
}

// OrderGear is one line of an order.
type OrderGear struct {
	GearID   string          `json:"gearId"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"quantity"`
	ImageURL string          `json:"imageUrl"`
}

// OrderRequest is the body posted at checkout.
type OrderRequest struct {
	Gears           []OrderGear     `json:"gears" validate:"required,min=1,dive"`
	TotalAmount     decimal.Decimal `json:"totalAmount"`
	ShippingAddress Address         `json:"shippingAddress"`
}

// Order is a placed order as returned by GET /orders.
type Order struct {
	ID              string          `json:"_id"`
	Gears           []OrderGear     `json:"gears"`
	TotalAmount     decimal.Decimal `json:"totalAmount"`
	ShippingAddress Address         `json:"shippingAddress"`
	CreatedAt       time.Time       `json:"createdAt"`
}
