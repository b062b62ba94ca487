package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/example/glowdesk/internal/services"
)

// RewardHandler exposes the configured reward ladder.
type RewardHandler struct {
	loyalty *services.LoyaltyService
}

// NewRewardHandler constructs a RewardHandler.
func NewRewardHandler(loyaltyService *services.LoyaltyService) *RewardHandler {
	return &RewardHandler{loyalty: loyaltyService}
}

// List returns the reward tiers, ascending by threshold. The ladder is static
// process-wide configuration; there is no edit endpoint.
func (h *RewardHandler) List(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"success": true,
		"data":    h.loyalty.Policy().Tiers(),
	})
}
