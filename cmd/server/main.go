package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"coderr-backend/internal/adapters/http/middleware"
	"coderr-backend/internal/adapters/http/routes"
	"coderr-backend/internal/adapters/persistence/models"
	"coderr-backend/internal/config"
	"coderr-backend/internal/pkg/storage"

	"github.com/gofiber/fiber/v2"

	_ "coderr-backend/docs" // Swagger docs
)

// @title Coderr API
// @version 1.0
// @description Freelance marketplace backend: accounts, offers, orders and reviews.

// @BasePath /

// @securityDefinitions.apikey TokenAuth
// @in header
// @name Authorization
// @description Type "Token" followed by a space and the session token.

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		log.Fatalf("❌ %v", err)
	}
	log.Println("✅ Server stopped gracefully")
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	db, err := config.ConnectDatabase(cfg)
	if err != nil {
		return err
	}
	defer config.CloseDatabase()

	if err := models.AutoMigrate(db); err != nil {
		return fmt.Errorf("failed to auto migrate: %w", err)
	}
	log.Println("✅ Database migration completed")

	// A broken seed (bad ADMIN_* values) should not keep the API down
	if err := config.NewSeeder(db, cfg).Run(); err != nil {
		log.Printf("⚠️ Warning: Failed to seed data: %v", err)
	}

	if err := os.MkdirAll(cfg.Media.Dir, 0755); err != nil {
		return fmt.Errorf("failed to create media directory: %w", err)
	}
	store := storage.NewLocalStore(cfg.Media.Dir, cfg.Media.URL, cfg.MaxUploadBytes())

	app := fiber.New(fiber.Config{
		AppName:      "Coderr API v1.0",
		ErrorHandler: middleware.CustomErrorHandler,
		// room for the multipart envelope around the largest allowed file
		BodyLimit: int(cfg.MaxUploadBytes()) + 1024*1024,
	})
	middleware.Setup(app, cfg)
	routes.Setup(app, db, cfg, store)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	listenErr := make(chan error, 1)
	go func() {
		log.Printf("🚀 Server starting on port %s [MODE: %s]", cfg.Port, cfg.AppMode)
		listenErr <- app.Listen(":" + cfg.Port)
	}()

	select {
	case err := <-listenErr:
		return fmt.Errorf("failed to start server: %w", err)
	case <-ctx.Done():
	}

	log.Println("🛑 Shutting down server...")
	if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil {
		return fmt.Errorf("error during shutdown: %w", err)
	}
	return nil
}
