package catalog

import (
	"grindgears/internal/domain"
	"grindgears/internal/wire"
)

// Normalize converts a raw gear record into a Product: the nested category
// is flattened to its name and price/rating are coerced to numbers.
func Normalize(g wire.Gear) domain.Product {
	category := ""
	if g.Category != nil {
		category = g.Category.Name
	}

	return domain.Product{
		ID:       g.ID,
		Name:     g.Name,
		Detail:   g.Details,
		Category: category,
		Rating:   g.Rating.InexactFloat64(),
		Price:    g.Price,
		Image:    g.ImageURL,
		Brand:    g.Brand,
		InStock:  g.InStock,
	}
}

// NormalizeAll converts a slice of raw gear records.
func NormalizeAll(gears []wire.Gear) []domain.Product {
	products := make([]domain.Product, 0, len(gears))
	for _, g := range gears {
		products = append(products, Normalize(g))
	}
	return products
}

// NormalizeCart converts raw cart lines into cart items.
func NormalizeCart(lines []wire.CartLine) []domain.CartItem {
	items := make([]domain.CartItem, 0, len(lines))
	for _, line := range lines {
		items = append(items, domain.CartItem{Product: Normalize(line.Gear), Quantity: line.Quantity})
	}
	return items
}
