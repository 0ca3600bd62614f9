package middleware

import (
	"context"
	"errors"
	"log"
	"strings"

	"coderr-backend/internal/adapters/persistence/models"
	"coderr-backend/internal/core/domain"
	"coderr-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// Authenticator resolves a session token to its user
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*models.User, error)
}

// tokenSchemes are the accepted Authorization header prefixes
var tokenSchemes = []string{"Token ", "Bearer "}

// AuthMiddleware requires a valid session token and stores the caller in
// c.Locals("userID"), c.Locals("role") and c.Locals("actor")
func AuthMiddleware(auth Authenticator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := extractToken(c.Get(fiber.HeaderAuthorization))
		if token == "" {
			return response.Unauthorized(c, "Authentication credentials were not provided.")
		}

		user, err := auth.Authenticate(c.Context(), token)
		if err != nil {
			if errors.Is(err, domain.ErrTokenInvalid) {
				return response.Unauthorized(c, "Invalid token.")
			}
			log.Printf("❌ Token lookup failed: %v", err)
			return response.InternalServerError(c)
		}

		c.Locals("userID", user.ID)
		c.Locals("role", user.Type)
		c.Locals("actor", user.Actor())

		return c.Next()
	}
}

// StaffOnly allows only staff accounts; use after AuthMiddleware
func StaffOnly() fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, ok := c.Locals("actor").(*domain.Actor)
		if !ok {
			return response.Unauthorized(c, "Authentication credentials were not provided.")
		}
		if !actor.IsStaff {
			return response.Forbidden(c, "You do not have permission to perform this action.")
		}
		return c.Next()
	}
}

func extractToken(header string) string {
	for _, scheme := range tokenSchemes {
		if len(header) > len(scheme) && strings.EqualFold(header[:len(scheme)], scheme) {
			return strings.TrimSpace(header[len(scheme):])
		}
	}
	return ""
}
