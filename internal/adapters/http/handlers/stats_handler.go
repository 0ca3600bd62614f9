package handlers

import (
	"coderr-backend/internal/core/services"
	"coderr-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// StatsHandler handles marketplace statistics
type StatsHandler struct {
	statsService *services.StatsService
}

// NewStatsHandler creates a new stats handler
func NewStatsHandler(statsService *services.StatsService) *StatsHandler {
	return &StatsHandler{statsService: statsService}
}

// BaseInfo returns the public marketplace summary
// @Summary Marketplace summary
// @Description Review count, average rating, business profile count and offer count
// @Tags Stats
// @Produce json
// @Success 200 {object} services.BaseInfo
// @Router /base-info/ [get]
func (h *StatsHandler) BaseInfo(c *fiber.Ctx) error {
	info, err := h.statsService.BaseInfo(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return response.Success(c, info)
}
