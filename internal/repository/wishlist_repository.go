package repository

import (
	"context"
	"database/sql"
	"fmt"
)

// WishlistRepository stores the shopper's wishlist. A gear appears at most
// once.
type WishlistRepository interface {
	List(ctx context.Context) ([]*Gear, error)
	Add(ctx context.Context, gearID string) error
	Remove(ctx context.Context, gearID string) error
}

type wishlistRepository struct {
	gears *gearRepository
	db    *sql.DB
}

// NewWishlistRepository creates a new instance of WishlistRepository
func NewWishlistRepository(db *sql.DB) WishlistRepository {
	return &wishlistRepository{gears: &gearRepository{db: db}, db: db}
}

// List retrieves the wishlisted gears in the order they were added
func (r *wishlistRepository) List(ctx context.Context) ([]*Gear, error) {
	return r.gears.query(ctx, `
		SELECT `+gearColumns+`
		FROM wishlist_items wi
		JOIN gears g ON g.id = wi.gear_id
		JOIN categories c ON c.id = g.category_id
		ORDER BY wi.id
	`)
}

// Add wishlists a gear. Adding it twice is not an error.
func (r *wishlistRepository) Add(ctx context.Context, gearID string) error {
	if !validID(gearID) {
		return ErrGearNotFound
	}

	query := `
		INSERT INTO wishlist_items (gear_id)
		VALUES ($1)
		ON CONFLICT (gear_id) DO NOTHING
	`
	if _, err := r.db.ExecContext(ctx, query, gearID); err != nil {
		if foreignKeyViolation(err) {
			return ErrGearNotFound
		}
		return fmt.Errorf("failed to add to wishlist: %w", err)
	}
	return nil
}

// Remove drops a gear from the wishlist
func (r *wishlistRepository) Remove(ctx context.Context, gearID string) error {
	if !validID(gearID) {
		return ErrGearNotFound
	}

	result, err := r.db.ExecContext(ctx, `DELETE FROM wishlist_items WHERE gear_id = $1`, gearID)
	if err != nil {
		return fmt.Errorf("failed to remove from wishlist: %w", err)
	}
	return expectRow(result, ErrGearNotFound)
}
