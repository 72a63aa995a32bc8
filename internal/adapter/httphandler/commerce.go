package httphandler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/niksmo/e-market/internal/core/domain"
	"github.com/niksmo/e-market/internal/core/port"
)

// GET    /v1/cart                         (200 OK, 503 Service unavailable)
// PUT    /v1/cart/items JSON              (204 No content, 400 Bad request)
// DELETE /v1/cart/items/{productID}       (204 No content)
// POST   /v1/cart/checkout                (200 OK)

type CartHandler struct {
	cart port.CartManager
}

func RegisterCart(mux *http.ServeMux, cart port.CartManager) {
	h := CartHandler{cart}
	mux.HandleFunc("GET /v1/cart", h.GetCart)
	mux.HandleFunc("PUT /v1/cart/items", h.PutItem)
	mux.HandleFunc("DELETE /v1/cart/items/{productID}", h.DeleteItem)
	mux.HandleFunc("POST /v1/cart/checkout", h.Checkout)
}

func (h CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	const op = "CartHandler.GetCart"
	log := slog.With("op", op)

	ls, err := h.cart.CartLines(r.Context())
	if err != nil {
		writeStorageError(w, log, err)
		return
	}

	view := CartView{Items: make([]CartLine, 0, len(ls))}
	for _, l := range ls {
		view.Items = append(view.Items, CartLine{
			Product:    fromDomainProduct(l.Product),
			Quantity:   l.Quantity,
			TotalPrice: l.TotalPrice(),
		})
		view.ItemCount += l.Quantity
		view.TotalPrice += l.TotalPrice()
	}
	writeJSON(w, log, view)
}

func (h CartHandler) PutItem(w http.ResponseWriter, r *http.Request) {
	const op = "CartHandler.PutItem"
	log := slog.With("op", op)

	var item UpsertCartItem
	if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
		http.Error(w, "invalid JSON data", http.StatusBadRequest)
		log.Warn("failed to parse JSON", "err", err)
		return
	}
	if item.Product.ID == "" {
		http.Error(w, "product id is required", http.StatusBadRequest)
		return
	}

	err := h.cart.UpsertCartLine(
		r.Context(), toDomainProduct(item.Product), item.Quantity,
	)
	if err != nil {
		writeStorageError(w, log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h CartHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	const op = "CartHandler.DeleteItem"
	log := slog.With("op", op)

	err := h.cart.RemoveCartLine(r.Context(), r.PathValue("productID"))
	if err != nil {
		writeStorageError(w, log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h CartHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	const op = "CartHandler.Checkout"
	log := slog.With("op", op)

	if err := h.cart.ClearCart(r.Context()); err != nil {
		writeStorageError(w, log, err)
		return
	}

	log.Info("order completed")
	writeJSON(w, log, map[string]string{"status": "completed"})
}

// GET    /v1/favorites                    (200 OK, 503 Service unavailable)
// PUT    /v1/favorites JSON               (204 No content, 400 Bad request)
// DELETE /v1/favorites/{productID}        (204 No content)

type FavoritesHandler struct {
	favs port.FavoritesManager
}

func RegisterFavorites(mux *http.ServeMux, favs port.FavoritesManager) {
	h := FavoritesHandler{favs}
	mux.HandleFunc("GET /v1/favorites", h.GetFavorites)
	mux.HandleFunc("PUT /v1/favorites", h.Toggle)
	mux.HandleFunc("DELETE /v1/favorites/{productID}", h.Delete)
}

func (h FavoritesHandler) GetFavorites(w http.ResponseWriter, r *http.Request) {
	const op = "FavoritesHandler.GetFavorites"
	log := slog.With("op", op)

	es, err := h.favs.Favorites(r.Context())
	if err != nil {
		writeStorageError(w, log, err)
		return
	}

	out := make([]FavoriteEntry, 0, len(es))
	for _, e := range es {
		out = append(out, FavoriteEntry{
			Product: fromDomainProduct(e.Product),
			AddedAt: e.AddedAt,
		})
	}
	writeJSON(w, log, out)
}

func (h FavoritesHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	const op = "FavoritesHandler.Toggle"
	log := slog.With("op", op)

	var p Product
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		http.Error(w, "invalid JSON data", http.StatusBadRequest)
		log.Warn("failed to parse JSON", "err", err)
		return
	}
	if p.ID == "" {
		http.Error(w, "product id is required", http.StatusBadRequest)
		return
	}

	if err := h.favs.ToggleFavorite(r.Context(), toDomainProduct(p)); err != nil {
		writeStorageError(w, log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h FavoritesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	const op = "FavoritesHandler.Delete"
	log := slog.With("op", op)

	err := h.favs.RemoveFavorite(r.Context(), r.PathValue("productID"))
	if err != nil {
		writeStorageError(w, log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeStorageError(w http.ResponseWriter, log *slog.Logger, err error) {
	log.Error("storage operation failed", "err", err)

	if errors.Is(err, domain.ErrStorage) {
		http.Error(
			w, "local storage is unavailable", http.StatusServiceUnavailable,
		)
		return
	}
	http.Error(w, "internal error", http.StatusInternalServerError)
}
