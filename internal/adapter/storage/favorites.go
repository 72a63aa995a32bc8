package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/niksmo/e-market/internal/core/domain"
	"github.com/niksmo/e-market/internal/core/port"
)

var _ port.FavoritesRepository = (*FavoritesRepository)(nil)

var favoriteColumns = []string{
	"product_id", "name", "description", "image", "model", "brand",
	"price", "product_created_at", "added_at",
}

// A FavoritesRepository persists favorite entries keyed by product ID.
// Inserting an already present product is ignored, which keeps the
// first added_at.
type FavoritesRepository struct {
	sqldb sqldb
}

func NewFavoritesRepository(sqldb sqldb) FavoritesRepository {
	return FavoritesRepository{sqldb}
}

func (r FavoritesRepository) InsertEntry(
	ctx context.Context, e domain.FavoriteEntry,
) (bool, error) {
	const op = "FavoritesRepository.InsertEntry"

	res, err := squirrel.Insert("favorite_items").
		Columns(favoriteColumns...).
		Values(
			e.Product.ID, e.Product.Name, e.Product.Description,
			e.Product.ImageRef, e.Product.Model, e.Product.Brand,
			e.Product.Price, e.Product.CreatedAt, e.AddedAt,
		).
		Suffix("ON CONFLICT (product_id) DO NOTHING").
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

func (r FavoritesRepository) DeleteEntry(
	ctx context.Context, productID string,
) (bool, error) {
	const op = "FavoritesRepository.DeleteEntry"

	res, err := squirrel.Delete("favorite_items").
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

func (r FavoritesRepository) Entries(
	ctx context.Context,
) ([]domain.FavoriteEntry, error) {
	const op = "FavoritesRepository.Entries"

	rows, err := squirrel.Select(favoriteColumns...).
		From("favorite_items").
		OrderBy("rowid").
		RunWith(r.sqldb).
		QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %v", op, domain.ErrStorage, err)
	}
	defer rows.Close()

	var es []domain.FavoriteEntry
	for rows.Next() {
		var e domain.FavoriteEntry
		err := rows.Scan(
			&e.Product.ID, &e.Product.Name, &e.Product.Description,
			&e.Product.ImageRef, &e.Product.Model, &e.Product.Brand,
			&e.Product.Price, &e.Product.CreatedAt, &e.AddedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%s: %w: %v", op, domain.ErrStorage, err)
		}
		es = append(es, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w: %v", op, domain.ErrStorage, err)
	}
	return es, nil
}

func (r FavoritesRepository) Exists(
	ctx context.Context, productID string,
) (bool, error) {
	const op = "FavoritesRepository.Exists"

	var one int
	err := squirrel.Select("1").
		From("favorite_items").
		Where(squirrel.Eq{"product_id": productID}).
		RunWith(r.sqldb).
		QueryRowContext(ctx).
		Scan(&one)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("%s: %w: %v", op, domain.ErrStorage, err)
	}
	return true, nil
}
