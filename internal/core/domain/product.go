package domain

import "strconv"

// A Product is an immutable catalog value.
//
// Identity is the ID string: two products with equal IDs describe
// the same catalog item regardless of the snapshot they came from.
type Product struct {
	ID          string
	Name        string
	Description string
	ImageRef    string
	Model       string
	Brand       string
	Price       string
	CreatedAt   string
}

// PriceValue converts the wire price string to a number.
// A non-numeric price converts to 0.
func (p Product) PriceValue() float64 {
	v, err := strconv.ParseFloat(p.Price, 64)
	if err != nil {
		return 0
	}
	return v
}

type SortOrder int

const (
	SortByName SortOrder = iota
	SortByPriceAsc
	SortByPriceDesc
	SortByBrand
)

// A ProductFilter narrows and orders a catalog view.
// Nil bounds impose no constraint.
type ProductFilter struct {
	MinPrice *float64
	MaxPrice *float64
	SortBy   SortOrder
}
