package handlers

import (
	"loyallocal/internal/core/services"
	"loyallocal/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// DashboardHandler handles dashboard statistics endpoints
type DashboardHandler struct {
	dashboardService *services.DashboardService
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(dashboardService *services.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

// Stats returns the headline dashboard numbers
// @Summary Dashboard stats
// @Description Customers, visits today, stamps redeemed and rewards earned
// @Tags Dashboard
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /dashboard/stats [get]
func (h *DashboardHandler) Stats(c *fiber.Ctx) error {
	businessID, ok := c.Locals("businessID").(uint)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	stats, err := h.dashboardService.Stats(c.Context(), businessID)
	if err != nil {
		return response.InternalServerError(c, "Failed to compute stats")
	}

	return response.Success(c, "Stats retrieved successfully", stats)
}

// Analytics returns the dashboard analytics payload
// @Summary Dashboard analytics
// @Description Visits per day, segment distribution and top customers
// @Tags Dashboard
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /dashboard/analytics [get]
func (h *DashboardHandler) Analytics(c *fiber.Ctx) error {
	businessID, ok := c.Locals("businessID").(uint)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	analytics, err := h.dashboardService.Analytics(c.Context(), businessID)
	if err != nil {
		return response.InternalServerError(c, "Failed to compute analytics")
	}

	return response.Success(c, "Analytics retrieved successfully", analytics)
}
