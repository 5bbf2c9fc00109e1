package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/techassist/support-service/internal/auth"
	"github.com/techassist/support-service/internal/service"
	apperrors "github.com/techassist/support-service/pkg/util"
)

// StatsHandler serves aggregate statistics.
type StatsHandler struct {
	service *service.StatsService
}

// NewStatsHandler constructs handler.
func NewStatsHandler(statsService *service.StatsService) *StatsHandler {
	return &StatsHandler{service: statsService}
}

// Get handles GET /api/stats.
func (h *StatsHandler) Get(c *fiber.Ctx) error {
	requester, ok := auth.UserFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	stats, err := h.service.Snapshot(c.Context(), requester)
	if err != nil {
		return err
	}
	return c.JSON(stats)
}
