package repository

import (
	"context"
	"database/sql"
	"fmt"

	"grindgears/internal/domain"

	"github.com/google/uuid"
)

// AddressRepository stores shipping addresses
type AddressRepository interface {
	Create(ctx context.Context, address *domain.Address) error
	List(ctx context.Context) ([]*domain.Address, error)
	Update(ctx context.Context, address *domain.Address) error
	Delete(ctx context.Context, id string) error
}

type addressRepository struct {
	db *sql.DB
}

// NewAddressRepository creates a new instance of AddressRepository
func NewAddressRepository(db *sql.DB) AddressRepository {
	return &addressRepository{db: db}
}

// Create inserts an address and assigns its id
func (r *addressRepository) Create(ctx context.Context, address *domain.Address) error {
	address.ID = uuid.NewString()

	query := `
		INSERT INTO addresses (id, address_type, full_address)
		VALUES ($1, $2, $3)
	`
	if _, err := r.db.ExecContext(ctx, query, address.ID, address.Type, address.FullAddress); err != nil {
		return fmt.Errorf("failed to create address: %w", err)
	}
	return nil
}

// List retrieves the addresses in creation order
func (r *addressRepository) List(ctx context.Context) ([]*domain.Address, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, address_type, full_address
		FROM addresses
		ORDER BY created_at, id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list addresses: %w", err)
	}
	defer rows.Close()

	addresses := []*domain.Address{}
	for rows.Next() {
		address := &domain.Address{}
		if err := rows.Scan(&address.ID, &address.Type, &address.FullAddress); err != nil {
			return nil, fmt.Errorf("failed to scan address: %w", err)
		}
		addresses = append(addresses, address)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating addresses: %w", err)
	}

	return addresses, nil
}

// Update replaces the type and text of an address
func (r *addressRepository) Update(ctx context.Context, address *domain.Address) error {
	if !validID(address.ID) {
		return ErrAddressNotFound
	}

	result, err := r.db.ExecContext(ctx, `
		UPDATE addresses
		SET address_type = $2, full_address = $3
		WHERE id = $1
	`, address.ID, address.Type, address.FullAddress)
	if err != nil {
		return fmt.Errorf("failed to update address: %w", err)
	}
	return expectRow(result, ErrAddressNotFound)
}

// Delete removes an address
func (r *addressRepository) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return ErrAddressNotFound
	}

	result, err := r.db.ExecContext(ctx, `DELETE FROM addresses WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete address: %w", err)
	}
	return expectRow(result, ErrAddressNotFound)
}
