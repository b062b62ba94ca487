package handlers

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"

	"github.com/example/glowdesk/internal/loyalty"
	"github.com/example/glowdesk/internal/middleware"
	"github.com/example/glowdesk/internal/services"
)

// CheckinHandler exposes the visit-recording endpoint.
type CheckinHandler struct {
	loyalty *services.LoyaltyService
}

// NewCheckinHandler constructs a CheckinHandler.
func NewCheckinHandler(loyaltyService *services.LoyaltyService) *CheckinHandler {
	return &CheckinHandler{loyalty: loyaltyService}
}

type checkinRequest struct {
	Phone string `json:"phone"`
}

// Create logs one customer visit by phone number for the staff user's
// business, creating the customer on first sight.
func (h *CheckinHandler) Create(c *fiber.Ctx) error {
	staff, ok := middleware.GetCurrentStaff(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var req checkinRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if req.Phone == "" {
		return fiber.NewError(fiber.StatusBadRequest, "phone number required")
	}

	staffID := staff.ID
	result, err := h.loyalty.CheckIn(staff.BusinessID, req.Phone, &staffID)
	if err != nil {
		switch {
		case errors.Is(err, loyalty.ErrInvalidPhone):
			return fiber.NewError(fiber.StatusBadRequest, "phone number must contain exactly 10 digits")
		case errors.Is(err, loyalty.ErrResolutionConflict):
			return fiber.NewError(fiber.StatusConflict, "customer resolution conflict, please retry")
		case errors.Is(err, loyalty.ErrUnknownCustomer):
			log.Printf("check-in consistency fault: %v", err)
			return fiber.NewError(fiber.StatusNotFound, "unknown customer")
		default:
			return err
		}
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data":    result,
	})
}
