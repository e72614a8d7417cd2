package router

import (
	"net/http"

	"github.com/go-pkgz/auth/v2/token"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/filesystem"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	handler "github.com/tejakonduru/caption-serve/handlers"
	"github.com/tejakonduru/caption-serve/middleware"
	"github.com/tejakonduru/caption-serve/store"
	"github.com/tejakonduru/caption-serve/web"
)

// SetupRoutes registers the API, the static upload directory and the
// embedded web UI.
func SetupRoutes(app *fiber.App, authHandler *handler.AuthHandler, imageHandler *handler.ImageHandler, tokens *token.Service, st store.Store, uploadDir string) {
	app.Use(recover.New())

	api := app.Group("/api", logger.New())

	// Auth
	api.Post("/signup", authHandler.Signup)
	api.Post("/login", authHandler.Login)
	api.Post("/logout", authHandler.Logout)

	authRequired := middleware.RequireAuth(tokens, st)
	api.Get("/auth/user", authRequired, authHandler.User)

	// Images
	api.Post("/upload-image", authRequired, imageHandler.Upload)
	api.Get("/images", authRequired, imageHandler.List)
	api.Get("/images/:id", authRequired, imageHandler.Get)
	api.Get("/images/:id/download", authRequired, imageHandler.Download)
	api.Delete("/images/:id", authRequired, imageHandler.Delete)

	// Uploaded files, served as-is
	app.Static("/uploads", uploadDir)

	// Embedded web UI
	app.Use("/", filesystem.New(filesystem.Config{
		Root:       http.FS(web.Assets),
		PathPrefix: "static",
		Index:      "index.html",
	}))
}
