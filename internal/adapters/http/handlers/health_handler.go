package handlers

import (
	"log"

	"coderr-backend/internal/config"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// HealthHandler handles health check endpoints
type HealthHandler struct {
	db  *gorm.DB
	cfg *config.Config
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(db *gorm.DB, cfg *config.Config) *HealthHandler {
	return &HealthHandler{db: db, cfg: cfg}
}

// Root describes the running API
// @Summary Root endpoint
// @Description Returns API mode and documentation links
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router / [get]
func (h *HealthHandler) Root(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"name":  "coderr",
		"mode":  h.cfg.AppMode,
		"docs":  "/swagger/index.html",
		"media": h.cfg.Media.URL,
	})
}

// HealthCheck pings the database and reports connection pool usage
// @Summary Health check
// @Description Check API and database health
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 503 {object} map[string]interface{}
// @Router /health [get]
func (h *HealthHandler) HealthCheck(c *fiber.Ctx) error {
	sqlDB, err := h.db.DB()
	if err == nil {
		err = sqlDB.PingContext(c.Context())
	}
	if err != nil {
		log.Printf("⚠️ Health check: database unreachable: %v", err)
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"status": "degraded",
			"checks": fiber.Map{"api": "healthy", "database": "unhealthy"},
		})
	}

	pool := sqlDB.Stats()
	return c.JSON(fiber.Map{
		"status": "ok",
		"checks": fiber.Map{"api": "healthy", "database": "healthy"},
		"pool": fiber.Map{
			"open":   pool.OpenConnections,
			"in_use": pool.InUse,
			"idle":   pool.Idle,
		},
	})
}
