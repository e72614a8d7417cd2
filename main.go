package main

import (
	"context"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/tejakonduru/caption-serve/auth"
	"github.com/tejakonduru/caption-serve/caption"
	"github.com/tejakonduru/caption-serve/config"
	"github.com/tejakonduru/caption-serve/database"
	handler "github.com/tejakonduru/caption-serve/handlers"
	"github.com/tejakonduru/caption-serve/logger"
	"github.com/tejakonduru/caption-serve/models"
	"github.com/tejakonduru/caption-serve/router"
	"github.com/tejakonduru/caption-serve/store"
	"github.com/tejakonduru/caption-serve/uploads"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Initialize(cfg.LogLevel); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer func() {
		if err := database.Close(db); err != nil {
			logger.Log.Errorw("closing database connection", "error", err)
		}
	}()

	// Run migrations
	if err := database.Migrate(db, &models.User{}, &models.Image{}); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	st := store.New(db)

	files, err := uploads.New(cfg.UploadDir)
	if err != nil {
		log.Fatalf("Failed to prepare upload directory: %v", err)
	}

	captioner, err := caption.NewGemini(context.Background(), cfg.GeminiAPIKey)
	if err != nil {
		log.Fatalf("Failed to configure caption adapter: %v", err)
	}

	authService := auth.NewService(cfg.JWTSecret, st)

	app := fiber.New(fiber.Config{
		// Generous transport cap; the upload handler enforces the real
		// 10MB limit and answers with a 400 instead of fiber's 413.
		BodyLimit: 50 << 20,
	})

	router.SetupRoutes(app,
		handler.NewAuthHandler(st, authService),
		handler.NewImageHandler(st, files, captioner),
		authService.TokenService(), st, cfg.UploadDir)

	logger.Log.Infow("server listening", "port", cfg.Port)
	log.Fatal(app.Listen(":" + cfg.Port))
}
