package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/niksmo/e-market/internal/core/domain"
	"github.com/niksmo/e-market/internal/core/port"
)

var _ port.CartRepository = (*CartRepository)(nil)

var cartColumns = []string{
	"product_id", "name", "description", "image", "model", "brand",
	"price", "product_created_at", "quantity", "updated_at",
}

// A CartRepository persists cart lines keyed by product ID.
// Listing preserves insertion order across quantity updates: the
// conflict upsert keeps the original rowid.
type CartRepository struct {
	sqldb sqldb
}

func NewCartRepository(sqldb sqldb) CartRepository {
	return CartRepository{sqldb}
}

func (r CartRepository) UpsertLine(
	ctx context.Context, l domain.CartLine,
) error {
	const op = "CartRepository.UpsertLine"

	_, err := squirrel.Insert("cart_items").
		Columns(cartColumns...).
		Values(
			l.Product.ID, l.Product.Name, l.Product.Description,
			l.Product.ImageRef, l.Product.Model, l.Product.Brand,
			l.Product.Price, l.Product.CreatedAt, l.Quantity, time.Now(),
		).
		Suffix(`ON CONFLICT (product_id) DO UPDATE SET
			name = excluded.name,
			description = excluded.description,
			image = excluded.image,
			model = excluded.model,
			brand = excluded.brand,
			price = excluded.price,
			product_created_at = excluded.product_created_at,
			quantity = excluded.quantity,
			updated_at = excluded.updated_at`).
		RunWith(r.sqldb).
		ExecContext(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w: %v", op, domain.ErrStorage, err)
	}
	return nil
}

func (r CartRepository) DeleteLine(
	ctx context.Context, productID string,
) (bool, error) {
	const op = "CartRepository.DeleteLine"

	res, err := squirrel.Delete("cart_items").
		Where(squirrel.Eq{"product_id": productID}).
		RunWith(r.sqldb).
		ExecContext(ctx)
	if err != nil {
		return false, fmt.Errorf("%s: %w: %v", op, domain.ErrStorage, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%s: %w: %v", op, domain.ErrStorage, err)
	}
	return n > 0, nil
}

func (r CartRepository) Lines(
	ctx context.Context,
) ([]domain.CartLine, error) {
	const op = "CartRepository.Lines"

	rows, err := squirrel.Select(cartColumns...).
		From("cart_items").
		OrderBy("rowid").
		RunWith(r.sqldb).
		QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %v", op, domain.ErrStorage, err)
	}
	defer rows.Close()

	var ls []domain.CartLine
	for rows.Next() {
		var l domain.CartLine
		var updatedAt time.Time
		err := rows.Scan(
			&l.Product.ID, &l.Product.Name, &l.Product.Description,
			&l.Product.ImageRef, &l.Product.Model, &l.Product.Brand,
			&l.Product.Price, &l.Product.CreatedAt, &l.Quantity, &updatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%s: %w: %v", op, domain.ErrStorage, err)
		}
		ls = append(ls, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w: %v", op, domain.ErrStorage, err)
	}
	return ls, nil
}

func (r CartRepository) Clear(ctx context.Context) (bool, error) {
	const op = "CartRepository.Clear"

	res, err := squirrel.Delete("cart_items").
		RunWith(r.sqldb).
		ExecContext(ctx)
	if err != nil {
		return false, fmt.Errorf("%s: %w: %v", op, domain.ErrStorage, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%s: %w: %v", op, domain.ErrStorage, err)
	}
	return n > 0, nil
}
