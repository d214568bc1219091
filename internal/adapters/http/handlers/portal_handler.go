package handlers

import (
	"errors"

	"loyallocal/internal/core/services"
	"loyallocal/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// PortalHandler handles the public customer portal endpoints
type PortalHandler struct {
	portalService *services.PortalService
}

// NewPortalHandler creates a new portal handler
func NewPortalHandler(portalService *services.PortalService) *PortalHandler {
	return &PortalHandler{portalService: portalService}
}

// Lookup resolves a customer's loyalty cards across all businesses
// @Summary Portal lookup
// @Description Public lookup of a customer's loyalty cards by phone number
// @Tags Portal
// @Accept json
// @Produce json
// @Param body body PhoneRequest true "Customer phone"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /portal/lookup [post]
func (h *PortalHandler) Lookup(c *fiber.Ctx) error {
	var req PhoneRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.PhoneNumber == "" {
		return response.BadRequest(c, "Phone number is required")
	}

	result, err := h.portalService.Lookup(c.Context(), req.PhoneNumber)
	if err != nil {
		var verr *services.PhoneValidationError
		switch {
		case errors.As(err, &verr):
			// Surface the engine's exact message so the portal UI can show it
			return response.BadRequest(c, verr.Message)
		case errors.Is(err, services.ErrCustomerNotFound):
			return response.NotFound(c, "No loyalty cards found for this number")
		default:
			return response.InternalServerError(c, "Failed to lookup loyalty cards")
		}
	}

	return response.Success(c, "Loyalty cards retrieved successfully", result)
}
