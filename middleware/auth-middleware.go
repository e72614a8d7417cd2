package middleware

import (
	"errors"
	"strings"

	"github.com/go-pkgz/auth/v2/token"
	"github.com/gofiber/fiber/v2"
	"github.com/tejakonduru/caption-serve/logger"
	"github.com/tejakonduru/caption-serve/models"
	"github.com/tejakonduru/caption-serve/store"
)

const userContextKey = "currentUser"

// RequireAuth validates the bearer token or JWT cookie, refreshes the user
// row, and stores the typed user in the request context.
func RequireAuth(tokens *token.Service, st store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		var tokenStr string

		if strings.HasPrefix(authHeader, "Bearer ") {
			tokenStr = strings.TrimPrefix(authHeader, "Bearer ")
		} else {
			tokenStr = c.Cookies("JWT")
		}

		if tokenStr == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"status":  "error",
				"message": "You are not authorized!",
				"data":    nil,
			})
		}

		claims, err := tokens.Parse(tokenStr)
		if err != nil || claims.User == nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"status":  "error",
				"message": "Invalid token",
				"data":    nil,
			})
		}

		user, err := st.GetUser(c.Context(), claims.User.ID)
		if err != nil {
			logger.Log.Errorw("user lookup failed", "userId", claims.User.ID, "error", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"status":  "error",
				"message": "Database error",
				"data":    nil,
			})
		}
		if user == nil {
			// Valid token but the account is gone; force a fresh login
			// rather than resurrecting a row without credentials.
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"status":  "error",
				"message": "Invalid token",
				"data":    nil,
			})
		}

		// Refresh the row on every successful authentication.
		if err := st.UpsertUser(c.Context(), user); err != nil {
			logger.Log.Errorw("user upsert failed", "userId", user.ID, "error", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"status":  "error",
				"message": "Database error",
				"data":    nil,
			})
		}

		c.Locals(userContextKey, *user)
		return c.Next()
	}
}

// CurrentUser returns the authenticated user placed by RequireAuth.
func CurrentUser(c *fiber.Ctx) (models.User, error) {
	user, ok := c.Locals(userContextKey).(models.User)
	if !ok {
		return models.User{}, errors.New("no authenticated user in request context")
	}
	return user, nil
}
