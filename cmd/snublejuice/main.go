package main

import (
	"context"
	"time"

	"github.com/niksmo/snublejuice/config"
	"github.com/niksmo/snublejuice/internal/app"
	"github.com/niksmo/snublejuice/pkg/sigctx"
)

const closeTimeout = 5 * time.Second

func main() {
	sigCtx, closeApp := sigctx.NotifyContext(context.Background())
	defer closeApp()

	cfg := config.Load()
	cfg.Print()

	catalog := app.New(sigCtx, cfg)

	catalog.Run(closeApp)

	<-sigCtx.Done()
	ctx, cancel := context.WithTimeout(context.Background(), closeTimeout)
	defer cancel()

	catalog.Close(ctx)
}
