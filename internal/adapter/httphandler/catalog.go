package httphandler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/niksmo/e-market/internal/core/domain"
	"github.com/niksmo/e-market/internal/core/port"
)

// GET  /v1/products?search=&min_price=&max_price=&sort= (200 OK, 400 Bad request)
// POST /v1/products/more    (200 OK, 502 Bad gateway)
// POST /v1/products/refresh (200 OK, 502 Bad gateway)

type CatalogHandler struct {
	browser port.CatalogBrowser
}

func RegisterCatalog(mux *http.ServeMux, browser port.CatalogBrowser) {
	h := CatalogHandler{browser}
	mux.HandleFunc("GET /v1/products", h.GetProducts)
	mux.HandleFunc("POST /v1/products/more", h.LoadMore)
	mux.HandleFunc("POST /v1/products/refresh", h.Refresh)
}

func (h CatalogHandler) GetProducts(w http.ResponseWriter, r *http.Request) {
	const op = "CatalogHandler.GetProducts"
	log := slog.With("op", op)

	query := r.URL.Query().Get("search")
	filter, err := parseFilter(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	view := h.browser.View(query, filter)
	writeJSON(w, log, fromDomainProducts(view))
}

func (h CatalogHandler) LoadMore(w http.ResponseWriter, r *http.Request) {
	const op = "CatalogHandler.LoadMore"
	log := slog.With("op", op)

	n, err := h.browser.LoadNextPage(r.Context())
	if err != nil {
		writeFetchError(w, log, err)
		return
	}

	writeJSON(w, log, PageResult{Appended: n, Exhausted: h.browser.Exhausted()})
}

func (h CatalogHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	const op = "CatalogHandler.Refresh"
	log := slog.With("op", op)

	if err := h.browser.Refresh(r.Context()); err != nil {
		writeFetchError(w, log, err)
		return
	}

	writeJSON(w, log, PageResult{
		Appended:  len(h.browser.Products()),
		Exhausted: h.browser.Exhausted(),
	})
}

func parseFilter(r *http.Request) (*domain.ProductFilter, error) {
	q := r.URL.Query()
	if q.Get("min_price") == "" && q.Get("max_price") == "" &&
		q.Get("sort") == "" {
		return nil, nil
	}

	var f domain.ProductFilter
	if raw := q.Get("min_price"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, errors.New("invalid min_price")
		}
		f.MinPrice = &v
	}
	if raw := q.Get("max_price"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, errors.New("invalid max_price")
		}
		f.MaxPrice = &v
	}

	switch q.Get("sort") {
	case "", "name":
		f.SortBy = domain.SortByName
	case "price_asc":
		f.SortBy = domain.SortByPriceAsc
	case "price_desc":
		f.SortBy = domain.SortByPriceDesc
	case "brand":
		f.SortBy = domain.SortByBrand
	default:
		return nil, errors.New("invalid sort")
	}
	return &f, nil
}

func writeJSON(w http.ResponseWriter, log *slog.Logger, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("failed to write response body", "err", err)
	}
}

func writeFetchError(w http.ResponseWriter, log *slog.Logger, err error) {
	log.Warn("catalog fetch failed", "err", err)

	status := http.StatusBadGateway
	if errors.Is(err, domain.ErrInvalidEndpoint) {
		status = http.StatusInternalServerError
	}
	http.Error(w, domain.FailureMessage(err), status)
}
