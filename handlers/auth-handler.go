package handler

import (
	"net/mail"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/tejakonduru/caption-serve/auth"
	"github.com/tejakonduru/caption-serve/logger"
	"github.com/tejakonduru/caption-serve/middleware"
	"github.com/tejakonduru/caption-serve/models"
	"github.com/tejakonduru/caption-serve/store"
)

const minPasswordLength = 8

// AuthHandler serves signup, login, logout and the current-user lookup.
type AuthHandler struct {
	store store.Store
	auth  *auth.Service
}

func NewAuthHandler(st store.Store, svc *auth.Service) *AuthHandler {
	return &AuthHandler{store: st, auth: svc}
}

func (h *AuthHandler) Signup(c *fiber.Ctx) error {
	type SignupData struct {
		Email     string `json:"email"`
		Password  string `json:"password"`
		FirstName string `json:"firstName"`
		LastName  string `json:"lastName"`
	}

	input := new(SignupData)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"status":  "error",
			"message": "Invalid request body",
			"data":    nil,
		})
	}

	if _, err := mail.ParseAddress(input.Email); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"status":  "error",
			"message": "A valid email is required",
			"data":    nil,
		})
	}

	if len(input.Password) < minPasswordLength {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"status":  "error",
			"message": "Password must be at least 8 characters",
			"data":    nil,
		})
	}

	existing, err := h.store.GetUserByEmail(c.Context(), input.Email)
	if err != nil {
		logger.Log.Errorw("signup lookup failed", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"status":  "error",
			"message": "Database error",
			"data":    nil,
		})
	}
	if existing != nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"status":  "error",
			"message": "Email already registered",
			"data":    nil,
		})
	}

	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"status":  "error",
			"message": "Failed to hash password",
			"data":    nil,
		})
	}

	user := models.User{
		ID:           uuid.NewString(),
		Email:        &input.Email,
		PasswordHash: hash,
	}
	if input.FirstName != "" {
		user.FirstName = &input.FirstName
	}
	if input.LastName != "" {
		user.LastName = &input.LastName
	}

	if err := h.store.UpsertUser(c.Context(), &user); err != nil {
		logger.Log.Errorw("signup create failed", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"status":  "error",
			"message": "Failed to create user",
			"data":    nil,
		})
	}

	return h.respondWithToken(c, user, "Signup successful")
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	type LoginData struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	input := new(LoginData)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"status":  "error",
			"message": "Invalid request body",
			"data":    nil,
		})
	}

	user, err := h.auth.ValidateCredentials(c.Context(), input.Email, input.Password)
	if err != nil {
		logger.Log.Errorw("login lookup failed", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"status":  "error",
			"message": "Database error",
			"data":    nil,
		})
	}
	if user == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"status":  "error",
			"message": "Invalid email or password",
			"data":    nil,
		})
	}

	return h.respondWithToken(c, *user, "Login successful")
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	c.Cookie(&fiber.Cookie{
		Name:     "JWT",
		Value:    "",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
	})

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status":  "success",
		"message": "Logout successful",
		"data":    nil,
	})
}

// User returns the authenticated user's record.
func (h *AuthHandler) User(c *fiber.Ctx) error {
	current, err := middleware.CurrentUser(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"status":  "error",
			"message": "Authentication required",
			"data":    nil,
		})
	}

	user, err := h.store.GetUser(c.Context(), current.ID)
	if err != nil {
		logger.Log.Errorw("user fetch failed", "userId", current.ID, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"status":  "error",
			"message": "Failed to fetch user",
			"data":    nil,
		})
	}
	if user == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"status":  "error",
			"message": "User not found",
			"data":    nil,
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status":  "success",
		"message": "User found",
		"data":    user,
	})
}

func (h *AuthHandler) respondWithToken(c *fiber.Ctx, user models.User, message string) error {
	tokenStr, err := h.auth.IssueToken(user)
	if err != nil {
		logger.Log.Errorw("token issue failed", "userId", user.ID, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"status":  "error",
			"message": "Failed to generate token",
			"data":    nil,
		})
	}

	c.Cookie(&fiber.Cookie{
		Name:     "JWT",
		Value:    tokenStr,
		Expires:  time.Now().Add(time.Hour * 24 * 7),
		HTTPOnly: true,
		Secure:   false,
		SameSite: "Lax",
	})

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status":  "success",
		"message": message,
		"data": fiber.Map{
			"user":  user,
			"token": tokenStr,
		},
	})
}
