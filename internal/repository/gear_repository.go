package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// GearRepository defines the interface for gear data access
type GearRepository interface {
	Create(ctx context.Context, gear *Gear) error
	List(ctx context.Context) ([]*Gear, error)
	ListByCategorySlug(ctx context.Context, slug string) ([]*Gear, error)
	FindByID(ctx context.Context, id string) (*Gear, error)
}

type gearRepository struct {
	db *sql.DB
}

// NewGearRepository creates a new instance of GearRepository
func NewGearRepository(db *sql.DB) GearRepository {
	return &gearRepository{db: db}
}

const gearColumns = `
	g.id, g.name, g.details, g.rating, g.price, g.image_url, g.brand, g.in_stock,
	c.id, c.name, c.slug, c.description, c.image_url
`

func scanGear(row scanner) (*Gear, error) {
	gear := &Gear{}
	p, c := &gear.Product, &gear.Category
	err := row.Scan(
		&p.ID, &p.Name, &p.Detail, &p.Rating, &p.Price, &p.Image, &p.Brand, &p.InStock,
		&c.ID, &c.Name, &c.Slug, &c.Description, &c.ImageURL,
	)
	if err != nil {
		return nil, err
	}
	p.Category = c.Name
	return gear, nil
}

func (r *gearRepository) query(ctx context.Context, query string, args ...interface{}) ([]*Gear, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list gears: %w", err)
	}
	defer rows.Close()

	gears := []*Gear{}
	for rows.Next() {
		gear, err := scanGear(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan gear: %w", err)
		}
		gears = append(gears, gear)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating gears: %w", err)
	}

	return gears, nil
}

// Create inserts a gear into its category, assigning an id when it has none
func (r *gearRepository) Create(ctx context.Context, gear *Gear) error {
	if gear.Product.ID == "" {
		gear.Product.ID = uuid.NewString()
	}
	if !validID(gear.Category.ID) {
		return ErrCategoryNotFound
	}

	query := `
		INSERT INTO gears (id, name, details, category_id, rating, price, image_url, brand, in_stock)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	p := gear.Product
	_, err := r.db.ExecContext(ctx, query,
		p.ID, p.Name, p.Detail, gear.Category.ID, p.Rating, p.Price, p.Image, p.Brand, p.InStock,
	)
	if err != nil {
		if foreignKeyViolation(err) {
			return ErrCategoryNotFound
		}
		return fmt.Errorf("failed to create gear: %w", err)
	}

	gear.Product.Category = gear.Category.Name
	return nil
}

// List retrieves the whole catalog in insertion order
func (r *gearRepository) List(ctx context.Context) ([]*Gear, error) {
	return r.query(ctx, `
		SELECT `+gearColumns+`
		FROM gears g
		JOIN categories c ON c.id = g.category_id
		ORDER BY g.created_at, g.id
	`)
}

// ListByCategorySlug retrieves the gears of the category with slug
func (r *gearRepository) ListByCategorySlug(ctx context.Context, slug string) ([]*Gear, error) {
	return r.query(ctx, `
		SELECT `+gearColumns+`
		FROM gears g
		JOIN categories c ON c.id = g.category_id
		WHERE c.slug = $1
		ORDER BY g.created_at, g.id
	`, slug)
}

// FindByID retrieves a gear by id
func (r *gearRepository) FindByID(ctx context.Context, id string) (*Gear, error) {
	if !validID(id) {
		return nil, ErrGearNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT `+gearColumns+`
		FROM gears g
		JOIN categories c ON c.id = g.category_id
		WHERE g.id = $1
	`, id)

	gear, err := scanGear(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrGearNotFound
		}
		return nil, fmt.Errorf("failed to find gear: %w", err)
	}
	return gear, nil
}
