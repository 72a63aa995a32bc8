package main

import (
	"context"
	"time"

	"github.com/niksmo/e-market/config"
	"github.com/niksmo/e-market/internal/app"
	"github.com/niksmo/e-market/pkg/sigctx"
)

const closeTimeout = 5 * time.Second

func main() {
	sigCtx, closeApp := sigctx.NotifyContext()
	defer closeApp()

	cfg := config.Load()
	cfg.Print()

	emarket := app.New(sigCtx, cfg)

	emarket.Run(closeApp)

	<-sigCtx.Done()
	ctx, cancel := context.WithTimeout(context.Background(), closeTimeout)
	defer cancel()

	emarket.Close(ctx)
}
