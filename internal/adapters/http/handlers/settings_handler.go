package handlers

import (
	"errors"

	"loyallocal/internal/core/services"
	"loyallocal/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// SettingsHandler handles loyalty programme settings endpoints
type SettingsHandler struct {
	loyaltyService *services.LoyaltyService
}

// NewSettingsHandler creates a new settings handler
func NewSettingsHandler(loyaltyService *services.LoyaltyService) *SettingsHandler {
	return &SettingsHandler{loyaltyService: loyaltyService}
}

// SettingsRequest represents a settings update request body
type SettingsRequest struct {
	VisitsRequired    *int    `json:"visits_required"`
	RewardDescription *string `json:"reward_description"`
	SMSNotifications  *bool   `json:"sms_notifications"`
}

// Get returns the loyalty settings
// @Summary Get loyalty settings
// @Tags Settings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /settings [get]
func (h *SettingsHandler) Get(c *fiber.Ctx) error {
	businessID, ok := c.Locals("businessID").(uint)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	settings, err := h.loyaltyService.GetSettings(c.Context(), businessID)
	if err != nil {
		return response.InternalServerError(c, "Failed to fetch settings")
	}

	return response.Success(c, "Settings retrieved successfully", settings)
}

// Update applies a partial settings update
// @Summary Update loyalty settings
// @Tags Settings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body SettingsRequest true "Settings fields"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 422 {object} response.Response
// @Router /settings [put]
func (h *SettingsHandler) Update(c *fiber.Ctx) error {
	businessID, ok := c.Locals("businessID").(uint)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	var req SettingsRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	input := &services.SettingsInput{
		VisitsRequired:    req.VisitsRequired,
		RewardDescription: req.RewardDescription,
		SMSNotifications:  req.SMSNotifications,
	}

	settings, err := h.loyaltyService.UpdateSettings(c.Context(), businessID, input)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrVisitsRequired):
			return response.UnprocessableEntity(c, "Visits required must be between 1 and 50", fiber.Map{
				"field": "visits_required",
				"min":   1,
				"max":   50,
			})
		default:
			return response.InternalServerError(c, "Failed to update settings")
		}
	}

	return response.Success(c, "Settings updated successfully", settings)
}
