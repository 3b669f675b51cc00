package catalog

import (
	"sort"

	"grindgears/internal/domain"
)

// SortBy selects the price ordering of a listing
type SortBy string

const (
	SortNone      SortBy = "none"
	SortLowToHigh SortBy = "low-to-high"
	SortHighToLow SortBy = "high-to-low"
)

// ParseSortBy maps a query value to a SortBy, defaulting to SortNone.
func ParseSortBy(raw string) SortBy {
	switch SortBy(raw) {
	case SortLowToHigh, SortHighToLow:
		return SortBy(raw)
	default:
		return SortNone
	}
}

// Filter is the listing filter state
type Filter struct {
	Categories []string `json:"categories"`
	MinRating  float64  `json:"minRating"`
	Sort       SortBy   `json:"sortBy"`
}

// Apply returns the products matching f, sorted as requested. The input
// slice is not modified.
func (f Filter) Apply(products []domain.Product) []domain.Product {
	filtered := make([]domain.Product, 0, len(products))

	wanted := make(map[string]bool, len(f.Categories))
	for _, c := range f.Categories {
		wanted[c] = true
	}

	for _, p := range products {
		if len(wanted) > 0 && (p.Category == "" || !wanted[p.Category]) {
			continue
		}
		if f.MinRating > 0 && p.Rating < f.MinRating {
			continue
		}
		filtered = append(filtered, p)
	}

	switch f.Sort {
	case SortLowToHigh:
		sort.SliceStable(filtered, func(i, j int) bool {
			return filtered[i].Price.LessThan(filtered[j].Price)
		})
	case SortHighToLow:
		sort.SliceStable(filtered, func(i, j int) bool {
			return filtered[i].Price.GreaterThan(filtered[j].Price)
		})
	}

	return filtered
}

// DistinctCategories lists the category names present in products, in
// first-seen order.
func DistinctCategories(products []domain.Product) []string {
	seen := make(map[string]bool)
	categories := []string{}
	for _, p := range products {
		if p.Category == "" || seen[p.Category] {
			continue
		}
		seen[p.Category] = true
		categories = append(categories, p.Category)
	}
	return categories
}
