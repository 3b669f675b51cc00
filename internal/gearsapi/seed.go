package gearsapi

import (
	"context"
	"fmt"

	"grindgears/internal/domain"
	"grindgears/internal/repository"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type seedGear struct {
	name, details, brand string
	rating               float64
	price                string
	inStock              bool
}

type seedCategory struct {
	category domain.Category
	gears    []seedGear
}

var catalog = []seedCategory{
	{
		category: domain.Category{Name: "Brakes", Slug: "brakes", Description: "Pads, rotors and calipers", ImageURL: "/images/categories/brakes.jpg"},
		gears: []seedGear{
			{"Resin Disc Pads", "Quiet organic compound for trail riding", "Shimano", 4.4, "24.99", true},
			{"Center Lock Rotor 180mm", "Ice-tech rotor with aluminium core", "Shimano", 4.7, "54.50", true},
			{"Hydraulic Caliper", "Four piston caliper for enduro", "SRAM", 4.6, "149.00", false},
		},
	},
	{
		category: domain.Category{Name: "Drivetrain", Slug: "drivetrain", Description: "Chains, cassettes and derailleurs", ImageURL: "/images/categories/drivetrain.jpg"},
		gears: []seedGear{
			{"12 Speed Chain", "Hollow pin chain with quick link", "KMC", 4.5, "39.99", true},
			{"10-52T Cassette", "Wide range cassette for 1x drivetrains", "SRAM", 4.3, "219.00", true},
			{"Rear Derailleur", "Clutch equipped long cage derailleur", "Shimano", 4.8, "129.99", true},
		},
	},
	{
		category: domain.Category{Name: "Wheels", Slug: "wheels", Description: "Rims, hubs and tires", ImageURL: "/images/categories/wheels.jpg"},
		gears: []seedGear{
			{"Carbon Rim 29\"", "Hookless 30mm internal width rim", "DT Swiss", 4.9, "499.00", true},
			{"Tubeless Tire 2.4\"", "Dual compound tire with casing protection", "Maxxis", 4.6, "74.95", true},
			{"Rear Hub Boost", "Ratchet hub with 36t engagement", "DT Swiss", 4.2, "289.00", false},
		},
	},
	{
		category: domain.Category{Name: "Cockpit", Slug: "cockpit", Description: "Bars, stems and grips", ImageURL: "/images/categories/cockpit.jpg"},
		gears: []seedGear{
			{"Riser Bar 780mm", "Alloy bar with 20mm rise", "Race Face", 4.4, "69.00", true},
			{"Lock-on Grips", "Single clamp grips with soft compound", "ODI", 4.7, "32.00", true},
		},
	},
}

// Seed fills an empty catalog with sample categories and gears. A catalog
// that already has categories is left alone.
func Seed(ctx context.Context, repos *repository.Repositories, logger *zap.Logger) error {
	existing, err := repos.Categories.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to inspect catalog: %w", err)
	}
	if len(existing) > 0 {
		logger.Info("Catalog already seeded", zap.Int("categories", len(existing)))
		return nil
	}

	count := 0
	for _, sc := range catalog {
		category := sc.category
		if err := repos.Categories.Create(ctx, &category); err != nil {
			return fmt.Errorf("failed to seed category %s: %w", category.Slug, err)
		}
		for _, sg := range sc.gears {
			gear := &repository.Gear{
				Product: domain.Product{
					Name:    sg.name,
					Detail:  sg.details,
					Rating:  sg.rating,
					Price:   decimal.RequireFromString(sg.price),
					Image:   "/images/gears/" + category.Slug + ".jpg",
					Brand:   sg.brand,
					InStock: sg.inStock,
				},
				Category: category,
			}
			if err := repos.Gears.Create(ctx, gear); err != nil {
				return fmt.Errorf("failed to seed gear %s: %w", sg.name, err)
			}
			count++
		}
	}

	logger.Info("Catalog seeded", zap.Int("categories", len(catalog)), zap.Int("gears", count))
	return nil
}
