package service

import (
	"sort"
	"strings"

	"github.com/niksmo/e-market/internal/core/domain"
)

// SearchProducts derives a view over a catalog snapshot.
//
// The text query matches name, brand or model as a case-insensitive
// substring and is ANDed with the filter's inclusive price bounds.
// Sorting is stable: ties keep the snapshot's insertion order.
// The snapshot itself is never mutated.
func SearchProducts(
	ps []domain.Product, query string, filter *domain.ProductFilter,
) []domain.Product {
	if query == "" && filter == nil {
		return ps
	}

	view := make([]domain.Product, 0, len(ps))
	q := strings.ToLower(query)
	for _, p := range ps {
		if q != "" && !matchesQuery(p, q) {
			continue
		}
		if filter != nil && !withinBounds(p, filter) {
			continue
		}
		view = append(view, p)
	}

	if filter != nil {
		sortProducts(view, filter.SortBy)
	}
	return view
}

func matchesQuery(p domain.Product, q string) bool {
	return strings.Contains(strings.ToLower(p.Name), q) ||
		strings.Contains(strings.ToLower(p.Brand), q) ||
		strings.Contains(strings.ToLower(p.Model), q)
}

func withinBounds(p domain.Product, f *domain.ProductFilter) bool {
	v := p.PriceValue()
	if f.MinPrice != nil && v < *f.MinPrice {
		return false
	}
	if f.MaxPrice != nil && v > *f.MaxPrice {
		return false
	}
	return true
}

func sortProducts(ps []domain.Product, order domain.SortOrder) {
	var less func(i, j int) bool
	switch order {
	case domain.SortByPriceAsc:
		less = func(i, j int) bool { return ps[i].PriceValue() < ps[j].PriceValue() }
	case domain.SortByPriceDesc:
		less = func(i, j int) bool { return ps[i].PriceValue() > ps[j].PriceValue() }
	case domain.SortByBrand:
		less = func(i, j int) bool { return ps[i].Brand < ps[j].Brand }
	default:
		less = func(i, j int) bool { return ps[i].Name < ps[j].Name }
	}
	sort.SliceStable(ps, less)
}
