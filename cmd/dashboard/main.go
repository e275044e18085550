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

	cfg, err := config.Load("dashboard")
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

	gin.SetMode(gin.ReleaseMode)
	dash, err := app.NewDashboard(ctx, infra.Deps)
	if err != nil {
		log.Fatalf("dashboard: %v", err)
	}
	defer dash.Close()

	log.Printf("Starting dashboard %s", cfg.ContextID)
	if err := app.Serve(ctx, dash.Engine, cfg.HTTP.Port); err != nil {
		log.Fatalf("server run: %v", err)
	}
}
