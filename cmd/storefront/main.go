package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"storefront-orders/internal/app"
	"storefront-orders/internal/config"

	"github.com/gin-gonic/gin"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)

	cfg, err := config.Load("storefront")
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	infra, err := app.Connect(ctx, cfg)
	if err != nil {
		log.Fatalf("connect: %v", err)
	}
	defer infra.Close()

	if len(cfg.Catalog.Warmup) > 0 {
		go func() {
			infra.Catalog.Warmup(ctx, cfg.Catalog.Warmup)
			log.Println("Catalog cache warmed up")
		}()
	}

	gin.SetMode(gin.ReleaseMode)
	sf := app.NewStorefront(infra.Deps)

	log.Printf("Starting storefront %s", cfg.ContextID)
	if err := app.Serve(ctx, sf.Engine, cfg.HTTP.Port); err != nil {
		log.Fatalf("server run: %v", err)
	}
}
