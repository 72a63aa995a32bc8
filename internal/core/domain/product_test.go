package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProductPriceValue(t *testing.T) {
	t.Run("Numeric", func(t *testing.T) {
		p := Product{Price: "6700"}
		assert.InDelta(t, 6700, p.PriceValue(), 0.001)
	})

	t.Run("Fractional", func(t *testing.T) {
		p := Product{Price: "149.99"}
		assert.InDelta(t, 149.99, p.PriceValue(), 0.001)
	})

	t.Run("InvalidParsesToZero", func(t *testing.T) {
		for _, raw := range []string{"", "free", "12,5"} {
			p := Product{Price: raw}
			assert.Zero(t, p.PriceValue(), "price %q", raw)
		}
	})
}

func TestCartLineTotalPrice(t *testing.T) {
	l := CartLine{
		Product:  Product{ID: "1", Name: "Laptop", Price: "100"},
		Quantity: 2,
	}
	assert.InDelta(t, 200, l.TotalPrice(), 0.001)
}
