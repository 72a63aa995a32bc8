package storage_test

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/niksmo/e-market/internal/adapter/storage"
	"github.com/niksmo/e-market/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T) storage.SQLDB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "emarket.db")
	db, err := storage.NewSQLDB(t.Context(), path)
	require.NoError(t, err)
	t.Cleanup(db.Close)
	return db
}

func product(id, name, price string) domain.Product {
	return domain.Product{
		ID:          id,
		Name:        name,
		Description: "desc " + id,
		ImageRef:    "https://img.example/" + id,
		Model:       "model " + id,
		Brand:       "brand " + id,
		Price:       price,
		CreatedAt:   "2023-07-17T07:21:02.529Z",
	}
}

func TestCartRepository(t *testing.T) {
	t.Run("UpsertRoundTrip", func(t *testing.T) {
		db := newTestDB(t)
		repo := storage.NewCartRepository(db.DB)

		p := product("1", "Laptop", "100")
		err := repo.UpsertLine(t.Context(),
			domain.CartLine{Product: p, Quantity: 2})
		require.NoError(t, err)

		ls, err := repo.Lines(t.Context())
		require.NoError(t, err)
		require.Len(t, ls, 1)
		assert.Equal(t, p, ls[0].Product)
		assert.Equal(t, 2, ls[0].Quantity)
	})

	t.Run("ConflictReplacesQuantityAndSnapshot", func(t *testing.T) {
		db := newTestDB(t)
		repo := storage.NewCartRepository(db.DB)

		p := product("1", "Laptop", "100")
		require.NoError(t, repo.UpsertLine(t.Context(),
			domain.CartLine{Product: p, Quantity: 1}))

		p.Name = "Laptop Pro"
		p.Price = "150"
		require.NoError(t, repo.UpsertLine(t.Context(),
			domain.CartLine{Product: p, Quantity: 7}))

		ls, err := repo.Lines(t.Context())
		require.NoError(t, err)
		require.Len(t, ls, 1, "one row per product id")
		assert.Equal(t, "Laptop Pro", ls[0].Product.Name)
		assert.Equal(t, "150", ls[0].Product.Price)
		assert.Equal(t, 7, ls[0].Quantity)
	})

	t.Run("OrderSurvivesQuantityUpdate", func(t *testing.T) {
		db := newTestDB(t)
		repo := storage.NewCartRepository(db.DB)

		first := product("1", "Laptop", "100")
		second := product("2", "Mouse", "50")
		require.NoError(t, repo.UpsertLine(t.Context(),
			domain.CartLine{Product: first, Quantity: 1}))
		require.NoError(t, repo.UpsertLine(t.Context(),
			domain.CartLine{Product: second, Quantity: 1}))

		// updating the first line must not move it to the end
		require.NoError(t, repo.UpsertLine(t.Context(),
			domain.CartLine{Product: first, Quantity: 9}))

		ls, err := repo.Lines(t.Context())
		require.NoError(t, err)
		require.Len(t, ls, 2)
		assert.Equal(t, "1", ls[0].Product.ID)
		assert.Equal(t, "2", ls[1].Product.ID)
	})

	t.Run("DeleteLine", func(t *testing.T) {
		db := newTestDB(t)
		repo := storage.NewCartRepository(db.DB)

		require.NoError(t, repo.UpsertLine(t.Context(),
			domain.CartLine{Product: product("1", "Laptop", "100"), Quantity: 1}))

		deleted, err := repo.DeleteLine(t.Context(), "1")
		require.NoError(t, err)
		assert.True(t, deleted)

		deleted, err = repo.DeleteLine(t.Context(), "1")
		require.NoError(t, err)
		assert.False(t, deleted, "second delete finds nothing")

		ls, err := repo.Lines(t.Context())
		require.NoError(t, err)
		assert.Empty(t, ls)
	})

	t.Run("Clear", func(t *testing.T) {
		db := newTestDB(t)
		repo := storage.NewCartRepository(db.DB)

		cleared, err := repo.Clear(t.Context())
		require.NoError(t, err)
		assert.False(t, cleared, "empty cart clears nothing")

		require.NoError(t, repo.UpsertLine(t.Context(),
			domain.CartLine{Product: product("1", "Laptop", "100"), Quantity: 1}))
		require.NoError(t, repo.UpsertLine(t.Context(),
			domain.CartLine{Product: product("2", "Mouse", "50"), Quantity: 3}))

		cleared, err = repo.Clear(t.Context())
		require.NoError(t, err)
		assert.True(t, cleared)

		ls, err := repo.Lines(t.Context())
		require.NoError(t, err)
		assert.Empty(t, ls)
	})

	t.Run("SurvivesReopen", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "emarket.db")

		db, err := storage.NewSQLDB(t.Context(), path)
		require.NoError(t, err)
		repo := storage.NewCartRepository(db.DB)
		require.NoError(t, repo.UpsertLine(t.Context(),
			domain.CartLine{Product: product("1", "Laptop", "100"), Quantity: 2}))
		db.Close()

		db, err = storage.NewSQLDB(t.Context(), path)
		require.NoError(t, err)
		defer db.Close()

		ls, err := storage.NewCartRepository(db.DB).Lines(t.Context())
		require.NoError(t, err)
		require.Len(t, ls, 1)
		assert.Equal(t, 2, ls[0].Quantity)
	})
}

func TestFavoritesRepository(t *testing.T) {
	t.Run("InsertIsIgnoredOnConflict", func(t *testing.T) {
		db := newTestDB(t)
		repo := storage.NewFavoritesRepository(db.DB)

		p := product("1", "Apple iPhone 15", "6700")
		firstAdded := time.Date(2025, 7, 28, 12, 0, 0, 0, time.UTC)

		inserted, err := repo.InsertEntry(t.Context(),
			domain.FavoriteEntry{Product: p, AddedAt: firstAdded})
		require.NoError(t, err)
		assert.True(t, inserted)

		inserted, err = repo.InsertEntry(t.Context(),
			domain.FavoriteEntry{Product: p, AddedAt: firstAdded.Add(time.Hour)})
		require.NoError(t, err)
		assert.False(t, inserted)

		es, err := repo.Entries(t.Context())
		require.NoError(t, err)
		require.Len(t, es, 1)
		assert.True(t, es[0].AddedAt.Equal(firstAdded),
			"first added_at is kept")
	})

	t.Run("ExistsAndDelete", func(t *testing.T) {
		db := newTestDB(t)
		repo := storage.NewFavoritesRepository(db.DB)

		ok, err := repo.Exists(t.Context(), "1")
		require.NoError(t, err)
		assert.False(t, ok)

		p := product("1", "Apple iPhone 15", "6700")
		_, err = repo.InsertEntry(t.Context(),
			domain.FavoriteEntry{Product: p, AddedAt: time.Now()})
		require.NoError(t, err)

		ok, err = repo.Exists(t.Context(), "1")
		require.NoError(t, err)
		assert.True(t, ok)

		deleted, err := repo.DeleteEntry(t.Context(), "1")
		require.NoError(t, err)
		assert.True(t, deleted)

		deleted, err = repo.DeleteEntry(t.Context(), "1")
		require.NoError(t, err)
		assert.False(t, deleted)
	})

	t.Run("EntriesKeepInsertionOrder", func(t *testing.T) {
		db := newTestDB(t)
		repo := storage.NewFavoritesRepository(db.DB)

		for _, id := range []string{"3", "1", "2"} {
			_, err := repo.InsertEntry(t.Context(), domain.FavoriteEntry{
				Product: product(id, "Product "+id, "10"),
				AddedAt: time.Now(),
			})
			require.NoError(t, err)
		}

		es, err := repo.Entries(t.Context())
		require.NoError(t, err)
		require.Len(t, es, 3)
		assert.Equal(t, "3", es[0].Product.ID)
		assert.Equal(t, "1", es[1].Product.ID)
		assert.Equal(t, "2", es[2].Product.ID)
	})
}
