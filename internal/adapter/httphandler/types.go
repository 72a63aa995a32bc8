package httphandler

import (
	"time"

	"github.com/niksmo/e-market/internal/core/domain"
)

type Product struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Price       string `json:"price"`
	Description string `json:"description"`
	Image       string `json:"image"`
	Model       string `json:"model"`
	Brand       string `json:"brand"`
	CreatedAt   string `json:"createdAt"`
}

type CartLine struct {
	Product    Product `json:"product"`
	Quantity   int     `json:"quantity"`
	TotalPrice float64 `json:"total_price"`
}

type CartView struct {
	Items      []CartLine `json:"items"`
	ItemCount  int        `json:"item_count"`
	TotalPrice float64    `json:"total_price"`
}

type FavoriteEntry struct {
	Product Product   `json:"product"`
	AddedAt time.Time `json:"added_at"`
}

type UpsertCartItem struct {
	Product  Product `json:"product"`
	Quantity int     `json:"quantity"`
}

type PageResult struct {
	Appended  int  `json:"appended"`
	Exhausted bool `json:"exhausted"`
}

func toDomainProduct(p Product) domain.Product {
	return domain.Product{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		ImageRef:    p.Image,
		Model:       p.Model,
		Brand:       p.Brand,
		Price:       p.Price,
		CreatedAt:   p.CreatedAt,
	}
}

func fromDomainProduct(p domain.Product) Product {
	return Product{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Image:       p.ImageRef,
		Model:       p.Model,
		Brand:       p.Brand,
		Price:       p.Price,
		CreatedAt:   p.CreatedAt,
	}
}

func fromDomainProducts(ps []domain.Product) []Product {
	out := make([]Product, 0, len(ps))
	for _, p := range ps {
		out = append(out, fromDomainProduct(p))
	}
	return out
}
