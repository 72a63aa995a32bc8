package port

import (
	"context"

	"github.com/niksmo/e-market/internal/core/domain"
)

// A PageFetcher requests one catalog page from the remote source.
// Pages are disjoint, so the cache appends without merging.
type PageFetcher interface {
	FetchPage(ctx context.Context, page, limit int) ([]domain.Product, error)
}

type (
	CartRepository interface {
		UpsertLine(context.Context, domain.CartLine) error
		DeleteLine(ctx context.Context, productID string) (deleted bool, err error)
		Lines(context.Context) ([]domain.CartLine, error)
		Clear(ctx context.Context) (cleared bool, err error)
	}

	FavoritesRepository interface {
		InsertEntry(context.Context, domain.FavoriteEntry) (inserted bool, err error)
		DeleteEntry(ctx context.Context, productID string) (deleted bool, err error)
		Entries(context.Context) ([]domain.FavoriteEntry, error)
		Exists(ctx context.Context, productID string) (bool, error)
	}
)

// A ChangeListener is notified after a mutation commits.
type ChangeListener func()

type (
	CatalogPager interface {
		LoadNextPage(context.Context) (int, error)
		Refresh(context.Context) error
		Products() []domain.Product
		Exhausted() bool
	}

	CatalogBrowser interface {
		CatalogPager
		View(query string, f *domain.ProductFilter) []domain.Product
	}

	CartManager interface {
		UpsertCartLine(ctx context.Context, p domain.Product, quantity int) error
		RemoveCartLine(ctx context.Context, productID string) error
		CartLines(context.Context) ([]domain.CartLine, error)
		CartItemCount(context.Context) (int, error)
		CartTotal(context.Context) (float64, error)
		ClearCart(context.Context) error
		SubscribeCart(ChangeListener)
	}

	FavoritesManager interface {
		AddFavorite(context.Context, domain.Product) error
		RemoveFavorite(ctx context.Context, productID string) error
		ToggleFavorite(context.Context, domain.Product) error
		Favorites(context.Context) ([]domain.FavoriteEntry, error)
		IsFavorite(ctx context.Context, productID string) (bool, error)
		SubscribeFavorites(ChangeListener)
	}
)
