package wire

import (
	"grindgears/internal/domain"

	"github.com/shopspring/decimal"
)

// FromProduct encodes a stored gear together with its category.
func FromProduct(p domain.Product, category domain.Category) Gear {
	return Gear{
		ID:      p.ID,
		Name:    p.Name,
		Details: p.Detail,
		Category: &GearCategory{
			ID:   category.ID,
			Name: category.Name,
			Slug: category.Slug,
		},
		Rating:   decimal.NewFromFloat(p.Rating),
		Price:    p.Price,
		ImageURL: p.Image,
		Brand:    p.Brand,
		InStock:  p.InStock,
	}
}

// FromCategory encodes a category record.
func FromCategory(c domain.Category) Category {
	return Category{
		ID:          c.ID,
		Name:        c.Name,
		Slug:        c.Slug,
		Description: c.Description,
		ImageURL:    c.ImageURL,
	}
}

// Domain decodes a category record.
func (c Category) Domain() domain.Category {
	return domain.Category{
		ID:          c.ID,
		Name:        c.Name,
		Slug:        c.Slug,
		Description: c.Description,
		ImageURL:    c.ImageURL,
	}
}

// FromAddress encodes an address.
func FromAddress(a domain.Address) Address {
	return Address{ID: a.ID, AddressType: a.Type, FullAddress: a.FullAddress}
}

// Domain decodes an address.
func (a Address) Domain() domain.Address {
	return domain.Address{ID: a.ID, Type: a.AddressType, FullAddress: a.FullAddress}
}

// FromOrderLines encodes order line snapshots.
func FromOrderLines(lines []domain.OrderLine) []OrderGear {
	out := make([]OrderGear, 0, len(lines))
	for _, l := range lines {
		out = append(out, OrderGear{
			GearID:   l.GearID,
			Name:     l.Name,
			Price:    l.Price,
			Quantity: l.Quantity,
			ImageURL: l.ImageURL,
		})
	}
	return out
}

// DomainLines decodes order lines.
func DomainLines(gears []OrderGear) []domain.OrderLine {
	out := make([]domain.OrderLine, 0, len(gears))
	for _, g := range gears {
		out = append(out, domain.OrderLine{
			GearID:   g.GearID,
			Name:     g.Name,
			Price:    g.Price,
			Quantity: g.Quantity,
			ImageURL: g.ImageURL,
		})
	}
	return out
}

// FromOrder encodes a placed order.
func FromOrder(o domain.Order) Order {
	return Order{
		ID:              o.ID,
		Gears:           FromOrderLines(o.Lines),
		TotalAmount:     o.TotalAmount,
		ShippingAddress: FromAddress(o.ShippingAddress),
		CreatedAt:       o.CreatedAt,
	}
}

// Domain decodes a placed order.
func (o Order) Domain() domain.Order {
	return domain.Order{
		ID:              o.ID,
		Lines:           DomainLines(o.Gears),
		TotalAmount:     o.TotalAmount,
		ShippingAddress: o.ShippingAddress.Domain(),
		CreatedAt:       o.CreatedAt,
	}
}

// Domain decodes an order about to be placed.
func (o OrderRequest) Domain() domain.Order {
	return domain.Order{
		Lines:           DomainLines(o.Gears),
		TotalAmount:     o.TotalAmount,
		ShippingAddress: o.ShippingAddress.Domain(),
	}
}
