// Package catalog fetches and normalizes the gear catalog.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"grindgears/internal/domain"
	"grindgears/internal/wire"

	"go.uber.org/zap"
)

var (
	ErrProductNotFound = errors.New("product not found")
)

// Source is the part of the GrindGears API the catalog reads from
type Source interface {
	ListGears(ctx context.Context) ([]wire.Gear, error)
	ListGearsByCategory(ctx context.Context, slug string) ([]wire.Gear, error)
	ListCategories(ctx context.Context) ([]wire.Category, error)
}

// Provider loads the product collection, in full or for one category slug.
// Every Load is a fresh round trip; results are kept only so that product
// lookups can be served from the last listing.
type Provider struct {
	source  Source
	logger  *zap.Logger
	loading atomic.Int32

	mu       sync.RWMutex
	products []domain.Product
}

// NewProvider creates a catalog provider reading from source.
func NewProvider(source Source, logger *zap.Logger) *Provider {
	return &Provider{
		source: source,
		logger: logger.Named("catalog"),
	}
}

// Load fetches the products of the category with slug, or the whole catalog
// when slug is empty.
func (p *Provider) Load(ctx context.Context, slug string) ([]domain.Product, error) {
	p.loading.Add(1)
	defer p.loading.Add(-1)

	var (
		gears []wire.Gear
		err   error
	)
	if slug == "" {
		gears, err = p.source.ListGears(ctx)
	} else {
		gears, err = p.source.ListGearsByCategory(ctx, slug)
	}
	if err != nil {
		p.logger.Error("Error getting gears", zap.String("slug", slug), zap.Error(err))
		return nil, fmt.Errorf("failed to load gears: %w", err)
	}

	products := NormalizeAll(gears)

	p.mu.Lock()
	p.products = products
	p.mu.Unlock()

	out := make([]domain.Product, len(products))
	copy(out, products)
	return out, nil
}

// Loading reports whether a Load is in progress.
func (p *Provider) Loading() bool {
	return p.loading.Load() > 0
}

// Products returns the last loaded product set.
func (p *Provider) Products() []domain.Product {
	p.mu.RLock()
	defer p.mu.RUnlock()

	out := make([]domain.Product, len(p.products))
	copy(out, p.products)
	return out
}

// Product looks up a product by id in the last listing, loading the full
// catalog when it is not there.
func (p *Provider) Product(ctx context.Context, id string) (domain.Product, error) {
	p.mu.RLock()
	idx := domain.IndexOfProduct(p.products, id)
	if idx >= 0 {
		product := p.products[idx]
		p.mu.RUnlock()
		return product, nil
	}
	p.mu.RUnlock()

	products, err := p.Load(ctx, "")
	if err != nil {
		return domain.Product{}, err
	}
	if idx := domain.IndexOfProduct(products, id); idx >= 0 {
		return products[idx], nil
	}
	return domain.Product{}, ErrProductNotFound
}

// Categories returns the catalog categories.
func (p *Provider) Categories(ctx context.Context) ([]domain.Category, error) {
	raw, err := p.source.ListCategories(ctx)
	if err != nil {
		p.logger.Error("Error getting categories", zap.Error(err))
		return nil, fmt.Errorf("failed to load categories: %w", err)
	}

	categories := make([]domain.Category, 0, len(raw))
	for _, c := range raw {
		categories = append(categories, c.Domain())
	}
	return categories, nil
}
