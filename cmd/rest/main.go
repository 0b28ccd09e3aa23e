package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"sumii-mobile-api/internal/bootstrap"
	"sumii-mobile-api/internal/config"
	"sumii-mobile-api/internal/server"
	"sumii-mobile-api/internal/tracer"
	"sumii-mobile-api/pkg/database"

	"golang.org/x/sync/errgroup"
)

const notificationConsumer = "notifications"

func main() {
	// 1. Load Configuration
	cfg := config.Load()

	// 2. Initialize Database
	gormDB, err := database.NewGormDB(database.GormConfig{
		Driver: cfg.Database.Driver,
		DSN:    cfg.Database.Connection,
		LogSQL: cfg.Database.LogSQL,
	})
	if err != nil {
		log.Panicf("Unable to connect to GORM DB: %v", err)
	}

	// 3. Bootstrap Dependencies (Container)
	container, err := bootstrap.NewContainer(gormDB, cfg)
	if err != nil {
		log.Panicf("Unable to build container: %v", err)
	}
	defer container.Close()
	defer func() { _ = container.Logger.Sync() }()

	shutdownTracer := tracer.InitTracer(cfg.Otel, cfg.App.Version, container.Logger)
	defer func() { _ = shutdownTracer(context.Background()) }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 4. Start Background Consumers
	if err := container.OcrConsumer.Consume(ctx); err != nil {
		log.Panicf("Unable to start OCR consumer: %v", err)
	}
	if err := container.Bus.Subscribe(ctx, notificationConsumer, container.NotificationService.HandleEvent); err != nil {
		log.Panicf("Unable to subscribe notification handler: %v", err)
	}

	// 5. Run hub, scheduler and server until a signal arrives
	srv := server.New(cfg, container)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return container.Hub.Run(gctx) })
	g.Go(func() error { return container.CronService.Run(gctx) })
	g.Go(func() error { return srv.Run(gctx) })

	if err := g.Wait(); err != nil {
		container.Logger.Error("Main", "server stopped with error", map[string]interface{}{"error": err})
		os.Exit(1)
	}
	container.Logger.Info("Main", "server stopped", nil)
}
