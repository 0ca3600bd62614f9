package middleware

import (
	"github.com/gofiber/fiber/v2"
)

// PrivateNoStore marks responses that carry tokens or per-user data as
// uncacheable by browsers and shared proxies.
func PrivateNoStore() fiber.Handler {
	return func(c *fiber.Ctx) error {
		err := c.Next()
		c.Set(fiber.HeaderCacheControl, "private, no-store")
		c.Vary(fiber.HeaderAuthorization)
		return err
	}
}
