package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/example/glowdesk/internal/middleware"
	"github.com/example/glowdesk/internal/services"
)

// DashboardHandler exposes business-wide visit totals.
type DashboardHandler struct {
	loyalty *services.LoyaltyService
}

// NewDashboardHandler constructs a DashboardHandler.
func NewDashboardHandler(loyaltyService *services.LoyaltyService) *DashboardHandler {
	return &DashboardHandler{loyalty: loyaltyService}
}

// Get recomputes and returns the overview totals for the staff user's
// business.
func (h *DashboardHandler) Get(c *fiber.Ctx) error {
	staff, ok := middleware.GetCurrentStaff(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	stats, err := h.loyalty.Dashboard(staff.BusinessID)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    stats,
	})
}
