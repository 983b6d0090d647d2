package handlers

import (
	"iledu-loan/internal/core/services"
	"iledu-loan/internal/pkg/logger"
	"iledu-loan/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// DashboardHandler handles dashboard endpoints
type DashboardHandler struct {
	dashboard services.DashboardUseCase
	log       logger.Logger
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(dashboard services.DashboardUseCase, log logger.Logger) *DashboardHandler {
	return &DashboardHandler{dashboard: dashboard, log: log}
}

// GetSummary returns the reviewer dashboard
// @Summary Reviewer dashboard
// @Description Application counts and requested amounts per status, overall and this month
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /admin/dashboard [get]
func (h *DashboardHandler) GetSummary(c *fiber.Ctx) error {
	summary, err := h.dashboard.Summary(c.Context())
	if err != nil {
		return writeError(c, h.log, err)
	}
	return response.Success(c, "Dashboard retrieved successfully", summary)
}
