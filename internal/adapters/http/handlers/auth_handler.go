package handlers

import (
	"strings"

	"coderr-backend/internal/core/services"
	"coderr-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	authService *services.AuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Register handles user registration
// @Summary Register new user
// @Description Create a business or customer account and return its session token
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body services.RegisterInput true "Registration data"
// @Success 201 {object} services.AuthResponse
// @Failure 400 {object} map[string][]string
// @Router /registration/ [post]
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var input services.RegisterInput
	if err := parseBody(c, &input); err != nil {
		return respondError(c, err)
	}

	input.Username = strings.TrimSpace(input.Username)
	input.Email = strings.TrimSpace(input.Email)

	result, err := h.authService.Register(c.Context(), &input)
	if err != nil {
		return respondError(c, err)
	}

	return response.Created(c, result)
}

// Login handles user login
// @Summary Login user
// @Description Authenticate by username or email; repeated logins return the same token
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body services.LoginInput true "Login credentials"
// @Success 200 {object} services.AuthResponse
// @Failure 400 {object} map[string][]string
// @Router /login/ [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var input services.LoginInput
	if err := parseBody(c, &input); err != nil {
		return respondError(c, err)
	}

	input.Username = strings.TrimSpace(input.Username)

	result, err := h.authService.Login(c.Context(), &input)
	if err != nil {
		return respondError(c, err)
	}

	return response.Success(c, result)
}

// Logout handles user logout
// @Summary Logout user
// @Description Invalidate the caller's session token
// @Tags Auth
// @Security TokenAuth
// @Success 204
// @Failure 401 {object} map[string]string
// @Router /logout/ [post]
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	actor, err := currentActor(c)
	if err != nil {
		return respondError(c, err)
	}

	if err := h.authService.Logout(c.Context(), actor.ID); err != nil {
		return respondError(c, err)
	}

	return response.NoContent(c)
}
