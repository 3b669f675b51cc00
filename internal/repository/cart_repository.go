package repository

import (
	"context"
	"database/sql"
	"fmt"
)

// CartRepository stores the shopper's cart
type CartRepository interface {
	List(ctx context.Context) ([]*CartLine, error)
	Add(ctx context.Context, gearID string, quantity int) error
	SetQuantity(ctx context.Context, gearID string, quantity int) error
	Remove(ctx context.Context, gearID string) error
	Clear(ctx context.Context) error
}

type cartRepository struct {
	db *sql.DB
}

// NewCartRepository creates a new instance of CartRepository
func NewCartRepository(db *sql.DB) CartRepository {
	return &cartRepository{db: db}
}

// List retrieves the cart lines in the order they were first added
func (r *cartRepository) List(ctx context.Context) ([]*CartLine, error) {
	query := `
		SELECT ` + gearColumns + `, ci.quantity
		FROM cart_items ci
		JOIN gears g ON g.id = ci.gear_id
		JOIN categories c ON c.id = g.category_id
		ORDER BY ci.id
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list cart: %w", err)
	}
	defer rows.Close()

	lines := []*CartLine{}
	for rows.Next() {
		line := &CartLine{}
		p, c := &line.Gear.Product, &line.Gear.Category
		err := rows.Scan(
			&p.ID, &p.Name, &p.Detail, &p.Rating, &p.Price, &p.Image, &p.Brand, &p.InStock,
			&c.ID, &c.Name, &c.Slug, &c.Description, &c.ImageURL,
			&line.Quantity,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan cart line: %w", err)
		}
		p.Category = c.Name
		lines = append(lines, line)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating cart: %w", err)
	}

	return lines, nil
}

// Add puts quantity units of a gear in the cart, on top of any already there
func (r *cartRepository) Add(ctx context.Context, gearID string, quantity int) error {
	if quantity < 1 {
		return ErrInvalidQuantity
	}
	if !validID(gearID) {
		return ErrGearNotFound
	}

	query := `
		INSERT INTO cart_items (gear_id, quantity)
		VALUES ($1, $2)
		ON CONFLICT (gear_id) DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity
	`

	if _, err := r.db.ExecContext(ctx, query, gearID, quantity); err != nil {
		if foreignKeyViolation(err) {
			return ErrGearNotFound
		}
		return fmt.Errorf("failed to add to cart: %w", err)
	}
	return nil
}

// SetQuantity replaces the quantity of a cart line
func (r *cartRepository) SetQuantity(ctx context.Context, gearID string, quantity int) error {
	if quantity < 1 {
		return ErrInvalidQuantity
	}
	if !validID(gearID) {
		return ErrCartItemNotFound
	}

	result, err := r.db.ExecContext(ctx, `UPDATE cart_items SET quantity = $2 WHERE gear_id = $1`, gearID, quantity)
	if err != nil {
		return fmt.Errorf("failed to update cart: %w", err)
	}
	return expectRow(result, ErrCartItemNotFound)
}

// Remove deletes a cart line
func (r *cartRepository) Remove(ctx context.Context, gearID string) error {
	if !validID(gearID) {
		return ErrCartItemNotFound
	}

	result, err := r.db.ExecContext(ctx, `DELETE FROM cart_items WHERE gear_id = $1`, gearID)
	if err != nil {
		return fmt.Errorf("failed to remove from cart: %w", err)
	}
	return expectRow(result, ErrCartItemNotFound)
}

// Clear empties the cart
func (r *cartRepository) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM cart_items`); err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	return nil
}

func expectRow(result sql.Result, notFound error) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return notFound
	}
	return nil
}
