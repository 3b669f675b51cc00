package repository

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCartLifecycle(t *testing.T) {
	forEachBackend(t, func(t *testing.T, repos *Repositories) {
		ctx := context.Background()
		brakes := createCategory(t, repos, "Brakes", "brakes")
		pad := createGear(t, repos, brakes, "Pad", 499, true)
		disc := createGear(t, repos, brakes, "Disc", 1299, true)

		require.NoError(t, repos.Cart.Add(ctx, disc.ID, 1))
		require.NoError(t, repos.Cart.Add(ctx, pad.ID, 2))
		require.NoError(t, repos.Cart.Add(ctx, disc.ID, 3))

		lines, err := repos.Cart.List(ctx)
		require.NoError(t, err)
		require.Len(t, lines, 2)
		assert.Equal(t, disc.ID, lines[0].Gear.Product.ID)
		assert.Equal(t, 4, lines[0].Quantity)
		assert.Equal(t, "Brakes", lines[0].Gear.Product.Category)
		assert.Equal(t, 2, lines[1].Quantity)

		require.NoError(t, repos.Cart.SetQuantity(ctx, pad.ID, 7))
		require.NoError(t, repos.Cart.Remove(ctx, disc.ID))

		lines, err = repos.Cart.List(ctx)
		require.NoError(t, err)
		require.Len(t, lines, 1)
		assert.Equal(t, 7, lines[0].Quantity)

		require.NoError(t, repos.Cart.Clear(ctx))
		lines, err = repos.Cart.List(ctx)
		require.NoError(t, err)
		assert.Empty(t, lines)
	})
}

func TestCartRejectsBadInput(t *testing.T) {
	forEachBackend(t, func(t *testing.T, repos *Repositories) {
		ctx := context.Background()
		brakes := createCategory(t, repos, "Brakes", "brakes")
		pad := createGear(t, repos, brakes, "Pad", 499, true)

		assert.ErrorIs(t, repos.Cart.Add(ctx, pad.ID, 0), ErrInvalidQuantity)
		assert.ErrorIs(t, repos.Cart.Add(ctx, uuid.NewString(), 1), ErrGearNotFound)
		assert.ErrorIs(t, repos.Cart.Add(ctx, "garbage", 1), ErrGearNotFound)

		assert.ErrorIs(t, repos.Cart.SetQuantity(ctx, pad.ID, 2), ErrCartItemNotFound)
		require.NoError(t, repos.Cart.Add(ctx, pad.ID, 1))
		assert.ErrorIs(t, repos.Cart.SetQuantity(ctx, pad.ID, 0), ErrInvalidQuantity)

		assert.ErrorIs(t, repos.Cart.Remove(ctx, uuid.NewString()), ErrCartItemNotFound)
		assert.ErrorIs(t, repos.Cart.Remove(ctx, "garbage"), ErrCartItemNotFound)
	})
}

func TestProperty_CartAddAccumulates(t *testing.T) {
	forEachBackend(t, func(t *testing.T, repos *Repositories) {
		ctx := context.Background()
		brakes := createCategory(t, repos, "Brakes", "brakes")
		pad := createGear(t, repos, brakes, "Pad", 499, true)

		properties := gopter.NewProperties(nil)

		properties.Property("repeated adds sum into a single line", prop.ForAll(
			func(quantities []int) bool {
				if err := repos.Cart.Clear(ctx); err != nil {
					t.Logf("FAIL: Failed to clear cart: %v", err)
					return false
				}

				total := 0
				for _, q := range quantities {
					if err := repos.Cart.Add(ctx, pad.ID, q); err != nil {
						t.Logf("FAIL: Failed to add to cart: %v", err)
						return false
					}
					total += q
				}

				lines, err := repos.Cart.List(ctx)
				if err != nil {
					t.Logf("FAIL: Failed to list cart: %v", err)
					return false
				}
				if len(lines) != 1 || lines[0].Quantity != total {
					t.Logf("FAIL: Expected one line of %d, got %+v", total, lines)
					return false
				}
				return true
			},
			gen.SliceOfN(5, gen.IntRange(1, 20)).SuchThat(func(qs []int) bool { return len(qs) > 0 }),
		))

		properties.TestingRun(t)
	})
}

func TestWishlist(t *testing.T) {
	forEachBackend(t, func(t *testing.T, repos *Repositories) {
		ctx := context.Background()
		wheels := createCategory(t, repos, "Wheels", "wheels")
		rim := createGear(t, repos, wheels, "Rim", 2999, true)
		hub := createGear(t, repos, wheels, "Hub", 899, true)

		require.NoError(t, repos.Wishlist.Add(ctx, hub.ID))
		require.NoError(t, repos.Wishlist.Add(ctx, rim.ID))
		require.NoError(t, repos.Wishlist.Add(ctx, hub.ID))

		gears, err := repos.Wishlist.List(ctx)
		require.NoError(t, err)
		require.Len(t, gears, 2)
		assert.Equal(t, hub.ID, gears[0].Product.ID)
		assert.Equal(t, rim.ID, gears[1].Product.ID)

		assert.ErrorIs(t, repos.Wishlist.Add(ctx, uuid.NewString()), ErrGearNotFound)

		require.NoError(t, repos.Wishlist.Remove(ctx, hub.ID))
		assert.ErrorIs(t, repos.Wishlist.Remove(ctx, hub.ID), ErrGearNotFound)

		gears, err = repos.Wishlist.List(ctx)
		require.NoError(t, err)
		assert.Len(t, gears, 1)
	})
}
