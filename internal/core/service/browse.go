package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/niksmo/e-market/internal/core/domain"
	"github.com/niksmo/e-market/internal/core/port"
)

// BrowseCallbacks are the asynchronous outcomes a listing screen
// subscribes to. Nil callbacks are allowed and simply not fired.
type BrowseCallbacks struct {
	OnProductsLoaded       func()
	OnProductsFailed       func(message string)
	OnLoadingChanged       func(loading bool)
	OnSearchResultsUpdated func()
}

func (cb *BrowseCallbacks) normalize() {
	if cb.OnProductsLoaded == nil {
		cb.OnProductsLoaded = func() {}
	}
	if cb.OnProductsFailed == nil {
		cb.OnProductsFailed = func(string) {}
	}
	if cb.OnLoadingChanged == nil {
		cb.OnLoadingChanged = func(bool) {}
	}
	if cb.OnSearchResultsUpdated == nil {
		cb.OnSearchResultsUpdated = func() {}
	}
}

// A BrowseService orchestrates the catalog cache, the search engine
// and the commerce store for one listing screen.
//
// Loads run asynchronously and report through the callbacks; all
// other commands execute synchronously. While a search or filter is
// active the screen shows a derived view over the already fetched
// set, and pagination is suspended.
type BrowseService struct {
	catalog port.CatalogPager
	cart    port.CartManager
	favs    port.FavoritesManager
	cb      BrowseCallbacks

	mu         sync.Mutex
	loading    bool
	query      string
	filter     *domain.ProductFilter
	viewActive bool
	view       []domain.Product
}

func NewBrowseService(
	catalog port.CatalogPager,
	cart port.CartManager,
	favs port.FavoritesManager,
	cb BrowseCallbacks,
) *BrowseService {
	cb.normalize()
	return &BrowseService{catalog: catalog, cart: cart, favs: favs, cb: cb}
}

// LoadProducts starts fetching the next catalog page. Ignored while
// another load is running.
func (s *BrowseService) LoadProducts(ctx context.Context) {
	s.load(ctx, false)
}

// Refresh drops the cached catalog and reloads the first page.
func (s *BrowseService) Refresh(ctx context.Context) {
	s.load(ctx, true)
}

// LoadMore continues pagination. Ignored while loading, after the
// source is exhausted, or while a derived view is showing.
func (s *BrowseService) LoadMore(ctx context.Context) {
	s.mu.Lock()
	suspended := s.viewActive
	s.mu.Unlock()

	if suspended || s.catalog.Exhausted() {
		return
	}
	s.load(ctx, false)
}

func (s *BrowseService) load(ctx context.Context, refresh bool) {
	const op = "BrowseService.load"
	log := slog.With("op", op)

	s.mu.Lock()
	if s.loading {
		s.mu.Unlock()
		return
	}
	s.loading = true
	s.mu.Unlock()

	s.cb.OnLoadingChanged(true)

	go func() {
		var err error
		if refresh {
			err = s.catalog.Refresh(ctx)
		} else {
			_, err = s.catalog.LoadNextPage(ctx)
		}

		s.mu.Lock()
		s.loading = false
		if err == nil && s.viewActive {
			s.view = SearchProducts(s.catalog.Products(), s.query, s.filter)
		}
		s.mu.Unlock()

		s.cb.OnLoadingChanged(false)

		if err != nil {
			log.Warn("load failed", "err", err)
			s.cb.OnProductsFailed(domain.FailureMessage(err))
			return
		}
		s.cb.OnProductsLoaded()
	}()
}

// Products returns what the screen should display: the derived view
// while a search or filter is active, the full cached set otherwise.
func (s *BrowseService) Products() []domain.Product {
	s.mu.Lock()
	if s.viewActive {
		view := make([]domain.Product, len(s.view))
		copy(view, s.view)
		s.mu.Unlock()
		return view
	}
	s.mu.Unlock()
	return s.catalog.Products()
}

// Search recomputes the derived view for the query. An empty query
// clears the text search but keeps any active filter.
func (s *BrowseService) Search(query string) {
	s.mu.Lock()
	s.query = query
	s.recomputeView()
	s.mu.Unlock()

	s.cb.OnSearchResultsUpdated()
}

func (s *BrowseService) ClearSearch() {
	s.Search("")
}

// ApplyFilter activates the filter over the already fetched set.
func (s *BrowseService) ApplyFilter(f domain.ProductFilter) {
	s.mu.Lock()
	s.filter = &f
	s.recomputeView()
	s.mu.Unlock()

	s.cb.OnSearchResultsUpdated()
}

func (s *BrowseService) ClearFilter() {
	s.mu.Lock()
	s.filter = nil
	s.recomputeView()
	s.mu.Unlock()

	s.cb.OnSearchResultsUpdated()
}

// recomputeView must be called with s.mu held.
func (s *BrowseService) recomputeView() {
	s.viewActive = s.query != "" || s.filter != nil
	if !s.viewActive {
		s.view = nil
		return
	}
	s.view = SearchProducts(s.catalog.Products(), s.query, s.filter)
}

// ToggleFavorite delegates to the commerce store. It never touches
// the catalog cache.
func (s *BrowseService) ToggleFavorite(
	ctx context.Context, p domain.Product,
) error {
	return s.favs.ToggleFavorite(ctx, p)
}

func (s *BrowseService) IsFavorite(
	ctx context.Context, productID string,
) (bool, error) {
	return s.favs.IsFavorite(ctx, productID)
}

func (s *BrowseService) AddToCart(
	ctx context.Context, p domain.Product, quantity int,
) error {
	return s.cart.UpsertCartLine(ctx, p, quantity)
}

// CompleteOrder atomically empties the cart. There is no settlement
// step beyond clearing the persisted state.
func (s *BrowseService) CompleteOrder(ctx context.Context) error {
	const op = "BrowseService.CompleteOrder"

	if err := s.cart.ClearCart(ctx); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
