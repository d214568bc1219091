package handlers

import (
	"errors"
	"time"

	"loyallocal/internal/core/services"
	"loyallocal/internal/pkg/pagination"
	"loyallocal/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// CustomerHandler handles customer lookup, visit and redemption endpoints
type CustomerHandler struct {
	loyaltyService  *services.LoyaltyService
	customerService *services.CustomerService
}

// NewCustomerHandler creates a new customer handler
func NewCustomerHandler(loyaltyService *services.LoyaltyService, customerService *services.CustomerService) *CustomerHandler {
	return &CustomerHandler{
		loyaltyService:  loyaltyService,
		customerService: customerService,
	}
}

// PhoneRequest represents a request that identifies a customer by phone
type PhoneRequest struct {
	PhoneNumber string `json:"phone_number"`
}

// LogVisitRequest represents a visit recording request
type LogVisitRequest struct {
	PhoneNumber  string `json:"phone_number"`
	CustomerName string `json:"customer_name"`
}

// ProfileRequest represents a customer profile update request
type ProfileRequest struct {
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Notes     *string `json:"notes"`
	Birthday  *string `json:"birthday"` // YYYY-MM-DD
}

// Lookup finds a customer's loyalty position
// @Summary Lookup customer
// @Description Find a customer by phone number and return their loyalty ledger
// @Tags Customers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body PhoneRequest true "Customer phone"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /customers/lookup [post]
func (h *CustomerHandler) Lookup(c *fiber.Ctx) error {
	businessID, ok := c.Locals("businessID").(uint)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	var req PhoneRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.PhoneNumber == "" {
		return response.BadRequest(c, "Phone number is required")
	}

	result, err := h.loyaltyService.Lookup(c.Context(), businessID, req.PhoneNumber)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidPhone):
			return response.BadRequest(c, "Invalid phone number")
		case errors.Is(err, services.ErrCustomerNotFound):
			return response.NotFound(c, "Customer not found")
		default:
			return response.InternalServerError(c, "Failed to lookup customer")
		}
	}

	return response.Success(c, "Customer retrieved successfully", result)
}

// LogVisit records a customer visit
// @Summary Log visit
// @Description Record a visit (one stamp) for a customer
// @Tags Customers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body LogVisitRequest true "Visit data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /customers/visits [post]
func (h *CustomerHandler) LogVisit(c *fiber.Ctx) error {
	businessID, ok := c.Locals("businessID").(uint)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	var req LogVisitRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.PhoneNumber == "" {
		return response.BadRequest(c, "Phone number is required")
	}

	input := &services.LogVisitInput{
		PhoneNumber:  req.PhoneNumber,
		CustomerName: req.CustomerName,
	}

	result, err := h.loyaltyService.LogVisit(c.Context(), businessID, input)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidPhone):
			return response.BadRequest(c, "Invalid phone number")
		default:
			return response.InternalServerError(c, "Failed to log visit")
		}
	}

	return response.Created(c, "Visit logged successfully", result)
}

// Redeem consumes stamps for a reward
// @Summary Redeem reward
// @Description Consume the oldest unredeemed visits as one reward
// @Tags Customers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body PhoneRequest true "Customer phone"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /customers/redeem [post]
func (h *CustomerHandler) Redeem(c *fiber.Ctx) error {
	businessID, ok := c.Locals("businessID").(uint)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	var req PhoneRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.PhoneNumber == "" {
		return response.BadRequest(c, "Phone number is required")
	}

	result, err := h.loyaltyService.Redeem(c.Context(), businessID, req.PhoneNumber)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidPhone):
			return response.BadRequest(c, "Invalid phone number")
		case errors.Is(err, services.ErrCustomerNotFound):
			return response.NotFound(c, "Customer not found")
		case errors.Is(err, services.ErrInsufficientStamps):
			return response.Conflict(c, "Not enough stamps for a reward")
		default:
			return response.InternalServerError(c, "Failed to redeem reward")
		}
	}

	return response.Success(c, "Reward redeemed successfully", result)
}

// List returns the customer directory
// @Summary List customers
// @Description List customers with segments, optionally filtered by segment or search term
// @Tags Customers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param segment query string false "Segment filter (new, regular, vip, inactive, at_risk)"
// @Param search query string false "Name or phone search"
// @Param page query int false "Page number"
// @Param limit query int false "Items per page"
// @Success 200 {object} response.Response
// @Router /customers [get]
func (h *CustomerHandler) List(c *fiber.Ctx) error {
	businessID, ok := c.Locals("businessID").(uint)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	filter := &services.ListFilter{
		Segment: c.Query("segment"),
		Search:  c.Query("search"),
	}
	params := pagination.GetParams(c)

	result, err := h.customerService.List(c.Context(), businessID, filter, params)
	if err != nil {
		return response.InternalServerError(c, "Failed to list customers")
	}

	return response.Success(c, "Customers retrieved successfully", result)
}

// History returns a customer's visit history
// @Summary Visit history
// @Description List a customer's visits, most recent first
// @Tags Customers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param phone query string true "Customer phone"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /customers/visits [get]
func (h *CustomerHandler) History(c *fiber.Ctx) error {
	businessID, ok := c.Locals("businessID").(uint)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	rawPhone := c.Query("phone")
	if rawPhone == "" {
		return response.BadRequest(c, "Phone number is required")
	}

	visits, err := h.loyaltyService.VisitHistory(c.Context(), businessID, rawPhone)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidPhone):
			return response.BadRequest(c, "Invalid phone number")
		case errors.Is(err, services.ErrCustomerNotFound):
			return response.NotFound(c, "Customer not found")
		default:
			return response.InternalServerError(c, "Failed to fetch visit history")
		}
	}

	return response.Success(c, "Visit history retrieved successfully", fiber.Map{
		"visits": visits,
	})
}

// GetProfile returns a customer's stored profile
// @Summary Get customer profile
// @Tags Customers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param phone query string true "Customer phone"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /customers/profile [get]
func (h *CustomerHandler) GetProfile(c *fiber.Ctx) error {
	businessID, ok := c.Locals("businessID").(uint)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	rawPhone := c.Query("phone")
	if rawPhone == "" {
		return response.BadRequest(c, "Phone number is required")
	}

	profile, err := h.customerService.GetProfile(c.Context(), businessID, rawPhone)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidPhone):
			return response.BadRequest(c, "Invalid phone number")
		case errors.Is(err, services.ErrCustomerNotFound):
			return response.NotFound(c, "Profile not found")
		default:
			return response.InternalServerError(c, "Failed to fetch profile")
		}
	}

	return response.Success(c, "Profile retrieved successfully", profile)
}

// UpdateProfile creates or updates a customer's profile
// @Summary Update customer profile
// @Tags Customers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param phone query string true "Customer phone"
// @Param body body ProfileRequest true "Profile fields"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /customers/profile [put]
func (h *CustomerHandler) UpdateProfile(c *fiber.Ctx) error {
	businessID, ok := c.Locals("businessID").(uint)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	rawPhone := c.Query("phone")
	if rawPhone == "" {
		return response.BadRequest(c, "Phone number is required")
	}

	var req ProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	input := &services.ProfileInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Notes:     req.Notes,
	}
	if req.Birthday != nil {
		birthday, err := parseDate(*req.Birthday)
		if err != nil {
			return response.BadRequest(c, "Birthday must be YYYY-MM-DD")
		}
		input.Birthday = birthday
	}

	profile, err := h.customerService.UpdateProfile(c.Context(), businessID, rawPhone, input)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidPhone):
			return response.BadRequest(c, "Invalid phone number")
		default:
			return response.InternalServerError(c, "Failed to update profile")
		}
	}

	return response.Success(c, "Profile saved successfully", profile)
}

// Delete erases a customer's data
// @Summary Delete customer
// @Description Hard-delete every visit and profile record for a customer
// @Tags Customers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param phone query string true "Customer phone"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /customers [delete]
func (h *CustomerHandler) Delete(c *fiber.Ctx) error {
	businessID, ok := c.Locals("businessID").(uint)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	rawPhone := c.Query("phone")
	if rawPhone == "" {
		return response.BadRequest(c, "Phone number is required")
	}

	deleted, err := h.customerService.DeleteCustomer(c.Context(), businessID, rawPhone)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidPhone):
			return response.BadRequest(c, "Invalid phone number")
		case errors.Is(err, services.ErrCustomerNotFound):
			return response.NotFound(c, "Customer not found")
		default:
			return response.InternalServerError(c, "Failed to delete customer")
		}
	}

	return response.Success(c, "Customer deleted successfully", fiber.Map{
		"visits_deleted": deleted,
	})
}

// parseDate parses a YYYY-MM-DD date string
func parseDate(s string) (*time.Time, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
