package domain

import (
	"github.com/shopspring/decimal"
)

// CartItem is a product in the cart. At most one CartItem exists per product
// ID and Quantity is never below 1.
type CartItem struct {
	Product
	Quantity int `json:"quantity"`
}

// LineTotal returns price times quantity.
func (i CartItem) LineTotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// CartTotal sums the line totals of items.
func CartTotal(items []CartItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.LineTotal())
	}
	return total
}

// IndexOfCartItem returns the position of the item with productID, or -1.
func IndexOfCartItem(items []CartItem, productID string) int {
	for i, item := range items {
		if item.ID == productID {
			return i
		}
	}
	return -1
}

// IndexOfProduct returns the position of the product with productID, or -1.
func IndexOfProduct(products []Product, productID string) int {
	for i, p := range products {
		if p.ID == productID {
			return i
		}
	}
	return -1
}
