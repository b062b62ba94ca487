package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/example/glowdesk/internal/config"
	"github.com/example/glowdesk/internal/models"
	"github.com/example/glowdesk/internal/utils"
)

const staffContextKey = "currentStaff"

// AuthMiddleware validates JWT tokens and loads the authenticated staff user
// into context. Loading the row (rather than just the id) gives every handler
// the business scope without an extra query.
func AuthMiddleware(cfg *config.Config, db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "missing authorization header")
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid authorization header")
		}

		staffID, err := utils.ParseToken(cfg.JWTSecret, parts[1])
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid token")
		}

		var staff models.StaffUser
		if err := db.First(&staff, "id = ?", staffID).Error; err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "unknown staff user")
		}

		c.Locals(staffContextKey, &staff)
		return c.Next()
	}
}

// GetCurrentStaff extracts the authenticated staff user from context.
func GetCurrentStaff(c *fiber.Ctx) (*models.StaffUser, bool) {
	value := c.Locals(staffContextKey)
	if value == nil {
		return nil, false
	}

	if staff, ok := value.(*models.StaffUser); ok {
		return staff, true
	}

	return nil, false
}
