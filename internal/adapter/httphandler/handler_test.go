package httphandler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/niksmo/e-market/internal/adapter/httphandler"
	"github.com/niksmo/e-market/internal/adapter/storage"
	"github.com/niksmo/e-market/internal/core/domain"
	"github.com/niksmo/e-market/internal/core/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedFetcher struct {
	pages map[int][]domain.Product
}

func (f fixedFetcher) FetchPage(
	_ context.Context, page, _ int,
) ([]domain.Product, error) {
	return f.pages[page], nil
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	db, err := storage.NewSQLDB(
		t.Context(), filepath.Join(t.TempDir(), "emarket.db"),
	)
	require.NoError(t, err)
	t.Cleanup(db.Close)

	commerce := service.NewCommerceService(
		storage.NewCartRepository(db.DB),
		storage.NewFavoritesRepository(db.DB),
	)

	fetcher := fixedFetcher{pages: map[int][]domain.Product{
		1: {
			{ID: "1", Name: "Apple iPhone 15", Brand: "Apple", Price: "6700"},
			{ID: "2", Name: "Samsung Galaxy S24", Brand: "Samsung", Price: "9700"},
			{ID: "3", Name: "Samsung Galaxy S25", Brand: "Samsung", Price: "8700"},
		},
	}}
	catalog := service.NewCatalogService(fetcher, 4)

	mux := http.NewServeMux()
	httphandler.RegisterCatalog(mux, catalog)
	httphandler.RegisterCart(mux, commerce)
	httphandler.RegisterFavorites(mux, commerce)

	srv := httptest.NewServer(httphandler.AllowJSON(mux))
	t.Cleanup(srv.Close)
	return srv
}

func doJSON(
	t *testing.T, method, url string, body any,
) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decodeBody[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func TestCatalogEndpoints(t *testing.T) {
	t.Run("LoadMoreThenSearch", func(t *testing.T) {
		srv := newTestServer(t)

		resp := doJSON(t, http.MethodPost, srv.URL+"/v1/products/more", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		page := decodeBody[httphandler.PageResult](t, resp)
		assert.Equal(t, 3, page.Appended)
		assert.True(t, page.Exhausted)

		resp = doJSON(t, http.MethodGet,
			srv.URL+"/v1/products?search=Apple", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		view := decodeBody[[]httphandler.Product](t, resp)
		require.Len(t, view, 1)
		assert.Equal(t, "Apple iPhone 15", view[0].Name)
	})

	t.Run("FilterAndSortParams", func(t *testing.T) {
		srv := newTestServer(t)
		doJSON(t, http.MethodPost, srv.URL+"/v1/products/more", nil)

		resp := doJSON(t, http.MethodGet,
			srv.URL+"/v1/products?min_price=7000&sort=price_asc", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		view := decodeBody[[]httphandler.Product](t, resp)
		require.Len(t, view, 2)
		assert.Equal(t, "8700", view[0].Price)
		assert.Equal(t, "9700", view[1].Price)
	})

	t.Run("InvalidSortParam", func(t *testing.T) {
		srv := newTestServer(t)

		resp := doJSON(t, http.MethodGet,
			srv.URL+"/v1/products?sort=rating", nil)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestCartEndpoints(t *testing.T) {
	phone := httphandler.Product{ID: "1", Name: "Apple iPhone 15", Price: "100"}

	t.Run("PutGetCheckout", func(t *testing.T) {
		srv := newTestServer(t)

		resp := doJSON(t, http.MethodPut, srv.URL+"/v1/cart/items",
			httphandler.UpsertCartItem{Product: phone, Quantity: 2})
		require.Equal(t, http.StatusNoContent, resp.StatusCode)

		mouse := httphandler.Product{ID: "2", Name: "Mouse", Price: "50"}
		resp = doJSON(t, http.MethodPut, srv.URL+"/v1/cart/items",
			httphandler.UpsertCartItem{Product: mouse, Quantity: 3})
		require.Equal(t, http.StatusNoContent, resp.StatusCode)

		resp = doJSON(t, http.MethodGet, srv.URL+"/v1/cart", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		cart := decodeBody[httphandler.CartView](t, resp)
		require.Len(t, cart.Items, 2)
		assert.Equal(t, 5, cart.ItemCount)
		assert.InDelta(t, 350, cart.TotalPrice, 0.001)

		resp = doJSON(t, http.MethodPost, srv.URL+"/v1/cart/checkout", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		resp = doJSON(t, http.MethodGet, srv.URL+"/v1/cart", nil)
		cart = decodeBody[httphandler.CartView](t, resp)
		assert.Empty(t, cart.Items)
	})

	t.Run("DeleteItem", func(t *testing.T) {
		srv := newTestServer(t)

		doJSON(t, http.MethodPut, srv.URL+"/v1/cart/items",
			httphandler.UpsertCartItem{Product: phone, Quantity: 1})

		resp := doJSON(t, http.MethodDelete, srv.URL+"/v1/cart/items/1", nil)
		require.Equal(t, http.StatusNoContent, resp.StatusCode)

		resp = doJSON(t, http.MethodGet, srv.URL+"/v1/cart", nil)
		cart := decodeBody[httphandler.CartView](t, resp)
		assert.Empty(t, cart.Items)
	})

	t.Run("MissingProductID", func(t *testing.T) {
		srv := newTestServer(t)

		resp := doJSON(t, http.MethodPut, srv.URL+"/v1/cart/items",
			httphandler.UpsertCartItem{Quantity: 1})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("RejectsNonJSONBody", func(t *testing.T) {
		srv := newTestServer(t)

		req, err := http.NewRequest(http.MethodPut,
			srv.URL+"/v1/cart/items", bytes.NewReader([]byte("quantity=1")))
		require.NoError(t, err)
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusUnsupportedMediaType, resp.StatusCode)
	})
}

func TestFavoritesEndpoints(t *testing.T) {
	phone := httphandler.Product{ID: "1", Name: "Apple iPhone 15", Price: "6700"}

	t.Run("ToggleTwice", func(t *testing.T) {
		srv := newTestServer(t)

		resp := doJSON(t, http.MethodPut, srv.URL+"/v1/favorites", phone)
		require.Equal(t, http.StatusNoContent, resp.StatusCode)

		resp = doJSON(t, http.MethodGet, srv.URL+"/v1/favorites", nil)
		favs := decodeBody[[]httphandler.FavoriteEntry](t, resp)
		require.Len(t, favs, 1)
		assert.Equal(t, phone.ID, favs[0].Product.ID)

		resp = doJSON(t, http.MethodPut, srv.URL+"/v1/favorites", phone)
		require.Equal(t, http.StatusNoContent, resp.StatusCode)

		resp = doJSON(t, http.MethodGet, srv.URL+"/v1/favorites", nil)
		favs = decodeBody[[]httphandler.FavoriteEntry](t, resp)
		assert.Empty(t, favs)
	})

	t.Run("DeleteByID", func(t *testing.T) {
		srv := newTestServer(t)

		doJSON(t, http.MethodPut, srv.URL+"/v1/favorites", phone)

		resp := doJSON(t, http.MethodDelete, srv.URL+"/v1/favorites/1", nil)
		require.Equal(t, http.StatusNoContent, resp.StatusCode)

		resp = doJSON(t, http.MethodGet, srv.URL+"/v1/favorites", nil)
		favs := decodeBody[[]httphandler.FavoriteEntry](t, resp)
		assert.Empty(t, favs)
	})
}
