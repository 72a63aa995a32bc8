package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/niksmo/e-market/internal/core/domain"
	"github.com/niksmo/e-market/internal/core/port"
)

var _ port.CartManager = (*CommerceService)(nil)
var _ port.FavoritesManager = (*CommerceService)(nil)

// A CommerceService is the sole authority over cart and favorites
// membership. Every mutation commits to the durable repositories
// before listeners fire or any read can observe the new state; a
// failed write changes nothing.
//
// Mutations are serialized by an internal lock, reads go straight to
// the durable layer and may run concurrently.
type CommerceService struct {
	cart port.CartRepository
	favs port.FavoritesRepository
	now  func() time.Time

	mu sync.Mutex

	lmu           sync.Mutex
	cartListeners []port.ChangeListener
	favListeners  []port.ChangeListener
}

func NewCommerceService(
	cart port.CartRepository, favs port.FavoritesRepository,
) *CommerceService {
	return &CommerceService{cart: cart, favs: favs, now: time.Now}
}

// SubscribeCart registers a listener fired after each committed cart
// mutation. Zero or more listeners may be registered.
func (s *CommerceService) SubscribeCart(l port.ChangeListener) {
	s.lmu.Lock()
	defer s.lmu.Unlock()
	s.cartListeners = append(s.cartListeners, l)
}

func (s *CommerceService) SubscribeFavorites(l port.ChangeListener) {
	s.lmu.Lock()
	defer s.lmu.Unlock()
	s.favListeners = append(s.favListeners, l)
}

// UpsertCartLine stores quantity for the product, replacing any
// existing line with the same product ID. Quantity <= 0 removes the
// line instead.
func (s *CommerceService) UpsertCartLine(
	ctx context.Context, p domain.Product, quantity int,
) error {
	const op = "CommerceService.UpsertCartLine"

	if quantity <= 0 {
		return s.RemoveCartLine(ctx, p.ID)
	}

	s.mu.Lock()
	err := s.cart.UpsertLine(ctx, domain.CartLine{Product: p, Quantity: quantity})
	s.mu.Unlock()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	s.notifyCart()
	return nil
}

// RemoveCartLine deletes the product's line. A missing product ID is
// a no-op: no error, no notification.
func (s *CommerceService) RemoveCartLine(
	ctx context.Context, productID string,
) error {
	const op = "CommerceService.RemoveCartLine"

	s.mu.Lock()
	deleted, err := s.cart.DeleteLine(ctx, productID)
	s.mu.Unlock()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if deleted {
		s.notifyCart()
	}
	return nil
}

func (s *CommerceService) CartLines(
	ctx context.Context,
) ([]domain.CartLine, error) {
	const op = "CommerceService.CartLines"

	ls, err := s.cart.Lines(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return ls, nil
}

// CartItemCount returns the sum of quantities over all lines.
func (s *CommerceService) CartItemCount(ctx context.Context) (int, error) {
	const op = "CommerceService.CartItemCount"

	ls, err := s.cart.Lines(ctx)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	var n int
	for _, l := range ls {
		n += l.Quantity
	}
	return n, nil
}

func (s *CommerceService) CartTotal(ctx context.Context) (float64, error) {
	const op = "CommerceService.CartTotal"

	ls, err := s.cart.Lines(ctx)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	var total float64
	for _, l := range ls {
		total += l.TotalPrice()
	}
	return total, nil
}

// ClearCart atomically empties the cart. Listeners fire once, and
// only if the cart held anything.
func (s *CommerceService) ClearCart(ctx context.Context) error {
	const op = "CommerceService.ClearCart"
	log := slog.With("op", op)

	s.mu.Lock()
	cleared, err := s.cart.Clear(ctx)
	s.mu.Unlock()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if cleared {
		log.Info("cart cleared")
		s.notifyCart()
	}
	return nil
}

// AddFavorite bookmarks the product. Re-adding an already favorited
// product is a no-op and keeps the original AddedAt.
func (s *CommerceService) AddFavorite(
	ctx context.Context, p domain.Product,
) error {
	const op = "CommerceService.AddFavorite"

	entry := domain.FavoriteEntry{Product: p, AddedAt: s.now()}

	s.mu.Lock()
	inserted, err := s.favs.InsertEntry(ctx, entry)
	s.mu.Unlock()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if inserted {
		s.notifyFavorites()
	}
	return nil
}

func (s *CommerceService) RemoveFavorite(
	ctx context.Context, productID string,
) error {
	const op = "CommerceService.RemoveFavorite"

	s.mu.Lock()
	deleted, err := s.favs.DeleteEntry(ctx, productID)
	s.mu.Unlock()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if deleted {
		s.notifyFavorites()
	}
	return nil
}

// ToggleFavorite adds the product to favorites or removes it if
// already present. The check and the write run under the same lock.
func (s *CommerceService) ToggleFavorite(
	ctx context.Context, p domain.Product,
) error {
	const op = "CommerceService.ToggleFavorite"

	s.mu.Lock()
	exists, err := s.favs.Exists(ctx, p.ID)
	if err != nil {
		s.mu.Unlock()
		return fmt.Errorf("%s: %w", op, err)
	}

	var changed bool
	if exists {
		changed, err = s.favs.DeleteEntry(ctx, p.ID)
	} else {
		entry := domain.FavoriteEntry{Product: p, AddedAt: s.now()}
		changed, err = s.favs.InsertEntry(ctx, entry)
	}
	s.mu.Unlock()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if changed {
		s.notifyFavorites()
	}
	return nil
}

func (s *CommerceService) Favorites(
	ctx context.Context,
) ([]domain.FavoriteEntry, error) {
	const op = "CommerceService.Favorites"

	es, err := s.favs.Entries(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return es, nil
}

func (s *CommerceService) IsFavorite(
	ctx context.Context, productID string,
) (bool, error) {
	const op = "CommerceService.IsFavorite"

	ok, err := s.favs.Exists(ctx, productID)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return ok, nil
}

func (s *CommerceService) notifyCart() {
	s.lmu.Lock()
	ls := make([]port.ChangeListener, len(s.cartListeners))
	copy(ls, s.cartListeners)
	s.lmu.Unlock()

	for _, l := range ls {
		l()
	}
}

func (s *CommerceService) notifyFavorites() {
	s.lmu.Lock()
	ls := make([]port.ChangeListener, len(s.favListeners))
	copy(ls, s.favListeners)
	s.lmu.Unlock()

	for _, l := range ls {
		l()
	}
}
