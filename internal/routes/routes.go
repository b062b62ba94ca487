package routes

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/example/glowdesk/internal/config"
	"github.com/example/glowdesk/internal/handlers"
	"github.com/example/glowdesk/internal/middleware"
	"github.com/example/glowdesk/internal/rewards"
	"github.com/example/glowdesk/internal/services"
)

// Register wires up all HTTP routes.
func Register(app *fiber.App, db *gorm.DB, cfg *config.Config, policy *rewards.Policy) {
	telegramService := services.NewTelegramService(cfg.TelegramBotToken, cfg.TelegramAdminChat)
	loyaltyService := services.NewLoyaltyService(db, policy, telegramService)

	authHandler := handlers.NewAuthHandler(db, cfg)
	checkinHandler := handlers.NewCheckinHandler(loyaltyService)
	customerHandler := handlers.NewCustomerHandler(loyaltyService)
	rewardHandler := handlers.NewRewardHandler(loyaltyService)
	dashboardHandler := handlers.NewDashboardHandler(loyaltyService)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	api := app.Group("/api")

	// Auth routes
	auth := api.Group("/auth")
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)

	// Protected routes
	protected := api.Group("", middleware.AuthMiddleware(cfg, db))

	protected.Post("/checkins", checkinHandler.Create)
	protected.Get("/customers", customerHandler.List)
	protected.Get("/customers/:id", customerHandler.Get)
	protected.Get("/rewards", rewardHandler.List)
	protected.Get("/dashboard", dashboardHandler.Get)
}
