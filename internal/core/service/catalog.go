package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/niksmo/e-market/internal/core/domain"
	"github.com/niksmo/e-market/internal/core/port"
)

const DefaultPageSize = 4

var _ port.CatalogBrowser = (*CatalogService)(nil)

// A CatalogService accumulates fetched catalog pages into an ordered
// in-memory set. It is a disposable projection of the remote catalog:
// refreshing drops everything and starts over from page 1.
type CatalogService struct {
	fetcher  port.PageFetcher
	pageSize int

	mu        sync.Mutex
	gen       uint64
	products  []domain.Product
	nextPage  int
	exhausted bool
	inFlight  bool
}

func NewCatalogService(fetcher port.PageFetcher, pageSize int) *CatalogService {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &CatalogService{
		fetcher:  fetcher,
		pageSize: pageSize,
		nextPage: 1,
	}
}

// LoadNextPage fetches and appends one catalog page.
//
// It is a no-op returning (0, nil) while another fetch is in flight or
// after the source is exhausted, so at most one fetch runs per cache.
// On failure the cursor and the cached set are left untouched and the
// same page can be retried.
func (s *CatalogService) LoadNextPage(ctx context.Context) (int, error) {
	const op = "CatalogService.LoadNextPage"
	log := slog.With("op", op)

	s.mu.Lock()
	if s.inFlight || s.exhausted {
		s.mu.Unlock()
		return 0, nil
	}
	s.inFlight = true
	page := s.nextPage
	gen := s.gen
	s.mu.Unlock()

	ps, err := s.fetcher.FetchPage(ctx, page, s.pageSize)

	s.mu.Lock()
	defer s.mu.Unlock()

	// A refresh superseded this fetch: the cursor and the cache belong
	// to the new generation now, so the result must not be applied.
	if gen != s.gen {
		log.Debug("superseded page discarded", "page", page)
		return 0, nil
	}
	s.inFlight = false

	if err != nil {
		log.Warn("page fetch failed", "page", page, "err", err)
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	s.products = append(s.products, ps...)
	s.nextPage++
	s.exhausted = len(ps) < s.pageSize
	log.Debug("page appended",
		"page", page, "appended", len(ps), "exhausted", s.exhausted)
	return len(ps), nil
}

// Refresh drops the cached set, resets the cursor to page 1 and loads
// the first page. A fetch still in flight is superseded: bumping the
// generation releases the in-flight guard for the page 1 load and
// makes the old fetch discard its result on completion.
func (s *CatalogService) Refresh(ctx context.Context) error {
	const op = "CatalogService.Refresh"

	s.mu.Lock()
	s.gen++
	s.products = nil
	s.nextPage = 1
	s.exhausted = false
	s.inFlight = false
	s.mu.Unlock()

	if _, err := s.LoadNextPage(ctx); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Products returns a snapshot of the cached set in page-arrival order.
func (s *CatalogService) Products() []domain.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	ps := make([]domain.Product, len(s.products))
	copy(ps, s.products)
	return ps
}

func (s *CatalogService) Exhausted() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.exhausted
}

// View derives a filtered and sorted view over the current snapshot
// without touching the cache or the network.
func (s *CatalogService) View(
	query string, f *domain.ProductFilter,
) []domain.Product {
	return SearchProducts(s.Products(), query, f)
}
