package domain

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestCartTotal(t *testing.T) {
	items := []CartItem{
		{Product: Product{ID: "A", Price: decimal.NewFromInt(200)}, Quantity: 1},
		{Product: Product{ID: "B", Price: decimal.NewFromInt(300)}, Quantity: 2},
	}

	assert.True(t, decimal.NewFromInt(800).Equal(CartTotal(items)), "got %s", CartTotal(items))
	assert.True(t, CartTotal(nil).IsZero())
}

func TestNewOrderLinesSnapshotsCart(t *testing.T) {
	items := []CartItem{
		{Product: Product{ID: "A", Name: "Brake pad", Price: decimal.RequireFromString("499.50"), Image: "a.png"}, Quantity: 2},
	}

	lines := NewOrderLines(items)
	items[0].Price = decimal.NewFromInt(1)
	items[0].Name = "changed"

	assert.Equal(t, []OrderLine{{GearID: "A", Name: "Brake pad", Price: decimal.RequireFromString("499.50"), Quantity: 2, ImageURL: "a.png"}}, lines)
	assert.True(t, decimal.RequireFromString("999").Equal(LinesTotal(lines)))
}

func TestIndexLookups(t *testing.T) {
	items := []CartItem{{Product: Product{ID: "A"}}, {Product: Product{ID: "B"}}}
	assert.Equal(t, 1, IndexOfCartItem(items, "B"))
	assert.Equal(t, -1, IndexOfCartItem(items, "C"))

	products := []Product{{ID: "X"}}
	assert.Equal(t, 0, IndexOfProduct(products, "X"))
	assert.Equal(t, -1, IndexOfProduct(products, "Y"))
}

// The cart total equals the order total computed from its snapshot.
func TestProperty_OrderTotalMatchesCartTotal(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("snapshot lines preserve the cart total", prop.ForAll(
		func(prices []int64, quantity int) bool {
			items := make([]CartItem, 0, len(prices))
			for i, p := range prices {
				items = append(items, CartItem{
					Product:  Product{ID: string(rune('a' + i%26)), Price: decimal.New(p, -2)},
					Quantity: quantity,
				})
			}
			return CartTotal(items).Equal(LinesTotal(NewOrderLines(items)))
		},
		gen.SliceOf(gen.Int64Range(1, 1_000_000)),
		gen.IntRange(1, 20),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}
