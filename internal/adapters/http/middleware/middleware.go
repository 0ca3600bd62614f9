package middleware

import (
	"errors"
	"log"
	"time"

	"coderr-backend/internal/config"
	"coderr-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// Setup configures all middlewares for the application
func Setup(app *fiber.App, cfg *config.Config) {
	app.Use(recover.New())
	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))

	// Uploaded media is embedded by the frontend from another origin
	app.Use(helmet.New(helmet.Config{
		XSSProtection:             "1; mode=block",
		ContentTypeNosniff:        "nosniff",
		XFrameOptions:             "SAMEORIGIN",
		ReferrerPolicy:            "strict-origin-when-cross-origin",
		CrossOriginEmbedderPolicy: "unsafe-none",
		CrossOriginOpenerPolicy:   "same-origin",
		CrossOriginResourcePolicy: "cross-origin",
		PermissionPolicy:          "geolocation=(), microphone=(), camera=()",
	}))

	// Per-IP request budget for the whole API
	app.Use(throttle(cfg.RateLimit.General, "", "Request was throttled."))

	app.Use(logger.New(accessLogConfig(cfg)))
	app.Use(cors.New(corsConfig(cfg)))
}

// AuthRateLimiter creates a stricter rate limiter for login and registration
func AuthRateLimiter(cfg *config.Config) fiber.Handler {
	return throttle(cfg.RateLimit.Auth, "-auth", "Too many attempts, please wait a minute.")
}

// throttle limits each client IP to limit requests per minute. Limiters with
// different suffixes keep separate counters.
func throttle(limit int, suffix, message string) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        limit,
		Expiration: time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP() + suffix
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"detail": message})
		},
	})
}

func accessLogConfig(cfg *config.Config) logger.Config {
	if cfg.IsDev() {
		return logger.Config{
			Format: "${time} | ${status} | ${latency} | ${ip} | ${method} | ${path}\n",
		}
	}
	return logger.Config{
		Format:     "${time} | ${status} | ${latency} | ${ip} | ${method} | ${path} | ${error}\n",
		TimeFormat: "2006-01-02 15:04:05",
	}
}

// corsConfig allows any origin in dev. Credentials are only allowed with
// an explicit origin list.
func corsConfig(cfg *config.Config) cors.Config {
	c := cors.Config{
		AllowMethods: "GET,POST,PUT,PATCH,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization",
	}
	if cfg.IsDev() {
		c.AllowOrigins = "*"
		return c
	}
	c.AllowOrigins = cfg.GetAllowedOrigins()
	c.AllowCredentials = true
	return c
}

// CustomErrorHandler handles errors globally. Only *fiber.Error messages
// reach the client; anything else is logged and reported generically.
func CustomErrorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		switch fe.Code {
		case fiber.StatusNotFound:
			return response.NotFound(c, "Not found.")
		case fiber.StatusInternalServerError:
			log.Printf("❌ %s %s: %v", c.Method(), c.Path(), err)
			return response.InternalServerError(c)
		}
		return c.Status(fe.Code).JSON(fiber.Map{"detail": fe.Message})
	}

	log.Printf("❌ %s %s: %v", c.Method(), c.Path(), err)
	return response.InternalServerError(c)
}
