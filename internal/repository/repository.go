// Package repository stores the reference API's catalog, cart, wishlist,
// addresses and orders.
package repository

import (
	"database/sql"
	"errors"

	"grindgears/internal/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrGearNotFound     = errors.New("gear not found")
	ErrCategoryNotFound = errors.New("category not found")
	ErrCartItemNotFound = errors.New("gear not in cart")
	ErrAddressNotFound  = errors.New("address not found")
	ErrInvalidQuantity  = errors.New("quantity must be at least 1")
)

// Gear is a stored gear with its category
type Gear struct {
	Product  domain.Product
	Category domain.Category
}

// CartLine is a cart entry joined with its gear
type CartLine struct {
	Gear     Gear
	Quantity int
}

// Repositories groups the stores the reference API needs
type Repositories struct {
	Categories CategoryRepository
	Gears      GearRepository
	Cart       CartRepository
	Wishlist   WishlistRepository
	Addresses  AddressRepository
	Orders     OrderRepository
}

// NewPostgres returns repositories backed by db
func NewPostgres(db *sql.DB) *Repositories {
	return &Repositories{
		Categories: NewCategoryRepository(db),
		Gears:      NewGearRepository(db),
		Cart:       NewCartRepository(db),
		Wishlist:   NewWishlistRepository(db),
		Addresses:  NewAddressRepository(db),
		Orders:     NewOrderRepository(db),
	}
}

// validID reports whether id can be a primary key. Ids are UUIDs; anything
// else can never match a row.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}

// foreignKeyViolation reports whether err is Postgres rejecting a row that
// points at a missing parent.
func foreignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23503"
}
