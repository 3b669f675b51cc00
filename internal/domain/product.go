package domain

import (
	"github.com/shopspring/decimal"
)

// Product represents a gear in the catalog. It is reference data owned by
// the remote catalog service and is never mutated by the storefront.
type Product struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Detail   string          `json:"detail"`
	Category string          `json:"category"`
	Rating   float64         `json:"rating"`
	Price    decimal.Decimal `json:"price"`
	Image    string          `json:"image"`
	Brand    string          `json:"brand"`
	InStock  bool            `json:"inStock"`
}

// Category represents a gear category
type Category struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
	ImageURL    string `json:"imageUrl"`
}
