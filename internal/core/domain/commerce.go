package domain

import "time"

// A CartLine holds one product's quantity in the basket.
//
// The product is a snapshot taken at add time. At most one line
// exists per product ID; an upsert with the same ID replaces the
// quantity and refreshes the snapshot.
type CartLine struct {
	Product  Product
	Quantity int
}

func (l CartLine) TotalPrice() float64 {
	return l.Product.PriceValue() * float64(l.Quantity)
}

// A FavoriteEntry is a bookmarked product.
// AddedAt is assigned once, at the first insertion.
type FavoriteEntry struct {
	Product Product
	AddedAt time.Time
}
