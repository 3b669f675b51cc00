package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderLine is a snapshot of a cart item taken when the order is placed.
// It does not reference the live CartItem, so later price or name changes
// in the catalog leave placed orders untouched.
type OrderLine struct {
	GearID   string          `json:"gearId"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"quantity"`
	ImageURL string          `json:"imageUrl"`
}

// Order represents a placed order
type Order struct {
	ID              string          `json:"id"`
	Lines           []OrderLine     `json:"gears"`
	TotalAmount     decimal.Decimal `json:"totalAmount"`
	ShippingAddress Address         `json:"shippingAddress"`
	CreatedAt       time.Time       `json:"createdAt"`
}

// NewOrderLines snapshots the given cart items.
func NewOrderLines(items []CartItem) []OrderLine {
	lines := make([]OrderLine, 0, len(items))
	for _, item := range items {
		lines = append(lines, OrderLine{
			GearID:   item.ID,
			Name:     item.Name,
			Price:    item.Price,
			Quantity: item.Quantity,
			ImageURL: item.Image,
		})
	}
	return lines
}

// LinesTotal sums price times quantity over the order lines.
func LinesTotal(lines []OrderLine) decimal.Decimal {
	total := decimal.Zero
	for _, line := range lines {
		total = total.Add(line.Price.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}
	return total
}
