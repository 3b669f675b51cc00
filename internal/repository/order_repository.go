package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"grindgears/internal/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderRepository stores placed orders
type OrderRepository interface {
	Create(ctx context.Context, order *domain.Order) error
	List(ctx context.Context) ([]*domain.Order, error)
}

type orderRepository struct {
	db *sql.DB
}

// NewOrderRepository creates a new instance of OrderRepository
func NewOrderRepository(db *sql.DB) OrderRepository {
	return &orderRepository{db: db}
}

// Create stores an order and its lines in one transaction. The id and
// creation time are assigned here.
func (r *orderRepository) Create(ctx context.Context, order *domain.Order) error {
	order.ID = uuid.NewString()
	order.CreatedAt = time.Now().UTC().Truncate(time.Microsecond)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO orders (id, total_amount, shipping_address_id, shipping_address_type, shipping_full_address, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`,
		order.ID,
		order.TotalAmount,
		order.ShippingAddress.ID,
		order.ShippingAddress.Type,
		order.ShippingAddress.FullAddress,
		order.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO order_items (order_id, position, gear_id, name, price, quantity, image_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare order items: %w", err)
	}
	defer stmt.Close()

	for i, line := range order.Lines {
		if line.Quantity < 1 {
			return ErrInvalidQuantity
		}
		if _, err := stmt.ExecContext(ctx, order.ID, i, line.GearID, line.Name, line.Price, line.Quantity, line.ImageURL); err != nil {
			return fmt.Errorf("failed to create order item: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit order: %w", err)
	}
	return nil
}

// List retrieves every order with its lines, newest first
func (r *orderRepository) List(ctx context.Context) ([]*domain.Order, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT o.id, o.total_amount, o.shipping_address_id, o.shipping_address_type, o.shipping_full_address, o.created_at,
		       i.gear_id, i.name, i.price, i.quantity, i.image_url
		FROM orders o
		LEFT JOIN order_items i ON i.order_id = o.id
		ORDER BY o.created_at DESC, o.id, i.position
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	defer rows.Close()

	orders := []*domain.Order{}
	var current *domain.Order
	for rows.Next() {
		var (
			o        domain.Order
			gearID   sql.NullString
			name     sql.NullString
			price    decimal.NullDecimal
			quantity sql.NullInt64
			imageURL sql.NullString
		)
		err := rows.Scan(
			&o.ID, &o.TotalAmount, &o.ShippingAddress.ID, &o.ShippingAddress.Type, &o.ShippingAddress.FullAddress, &o.CreatedAt,
			&gearID, &name, &price, &quantity, &imageURL,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}

		if current == nil || current.ID != o.ID {
			o.Lines = []domain.OrderLine{}
			current = &o
			orders = append(orders, current)
		}
		if gearID.Valid {
			current.Lines = append(current.Lines, domain.OrderLine{
				GearID:   gearID.String,
				Name:     name.String,
				Price:    price.Decimal,
				Quantity: int(quantity.Int64),
				ImageURL: imageURL.String,
			})
		}
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating orders: %w", err)
	}

	return orders, nil
}
