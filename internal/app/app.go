package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/niksmo/e-market/config"
	"github.com/niksmo/e-market/internal/adapter/catalogapi"
	"github.com/niksmo/e-market/internal/adapter/httphandler"
	"github.com/niksmo/e-market/internal/adapter/storage"
	"github.com/niksmo/e-market/internal/core/service"
	"github.com/niksmo/e-market/pkg/retry"
)

// App is the composition root. It owns the single catalog cache and
// commerce store session shared by every inbound surface; nothing in
// the repo reaches them through globals.
type App struct {
	ctx        context.Context
	cfg        config.Config
	db         storage.SQLDB
	catalog    *service.CatalogService
	commerce   *service.CommerceService
	httpServer httphandler.HTTPServer
}

func New(ctx context.Context, cfg config.Config) *App {
	app := &App{ctx: ctx, cfg: cfg}

	app.initLogger()
	app.initStorage()
	app.initCoreServices()
	app.initInboundAdapters()

	return app
}

func (app *App) initLogger() {
	opts := &slog.HandlerOptions{Level: app.cfg.LogLevel}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, opts))
	slog.SetDefault(logger)
}

func (app *App) initStorage() {
	const op = "App.initStorage"

	retryCfg := retry.RetryConfig{
		MaxAttempts: 3,
		Backoff:     retry.ConstantBackoff(time.Second),
	}
	err := retry.Do(app.ctx, retryCfg, func() error {
		db, err := storage.NewSQLDB(app.ctx, app.cfg.SQLiteDB)
		if err != nil {
			return err
		}
		app.db = db
		return nil
	})
	if err != nil {
		app.fallDown(op, err)
	}
}

func (app *App) initCoreServices() {
	fetcher := catalogapi.New(app.cfg.Catalog.BaseURL)
	app.catalog = service.NewCatalogService(fetcher, app.cfg.Catalog.PageSize)

	cartRepo := storage.NewCartRepository(app.db.DB)
	favsRepo := storage.NewFavoritesRepository(app.db.DB)
	app.commerce = service.NewCommerceService(cartRepo, favsRepo)

	app.commerce.SubscribeCart(app.logCartBadge)
}

func (app *App) initInboundAdapters() {
	mux := http.NewServeMux()
	httphandler.RegisterCatalog(mux, app.catalog)
	httphandler.RegisterCart(mux, app.commerce)
	httphandler.RegisterFavorites(mux, app.commerce)

	handler := httphandler.AllowJSON(mux)
	app.httpServer = httphandler.NewHTTPServer(app.cfg.HTTPServerAddr, handler)
}

func (app *App) Run(stopFn context.CancelFunc) {
	go app.httpServer.Run(stopFn)
	go app.warmupCatalog()

	slog.Info("application is running")
}

// warmupCatalog preloads the first catalog page so the listing
// surface has something to show. A failure is only logged: the page
// stays retryable through the load-more endpoint.
func (app *App) warmupCatalog() {
	const op = "App.warmupCatalog"
	log := slog.With("op", op)

	n, err := app.catalog.LoadNextPage(app.ctx)
	if err != nil {
		log.Warn("failed to preload catalog", "err", err)
		return
	}
	log.Info("catalog preloaded", "products", n)
}

// logCartBadge mirrors the cart badge of the UI layer: it reports the
// committed item count after every cart change.
func (app *App) logCartBadge() {
	const op = "App.logCartBadge"
	log := slog.With("op", op)

	n, err := app.commerce.CartItemCount(app.ctx)
	if err != nil {
		log.Error("failed to count cart items", "err", err)
		return
	}
	log.Info("cart changed", "itemCount", n)
}

func (app *App) Close(ctx context.Context) {
	slog.Info("application is closing...")

	app.httpServer.Close(ctx)
	app.db.Close()

	slog.Info("application is closed")
}

func (app *App) fallDown(op string, err error) {
	panic(fmt.Errorf("%s: %w", op, err))
}
