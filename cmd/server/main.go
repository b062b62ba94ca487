package main

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/example/glowdesk/internal/config"
	"github.com/example/glowdesk/internal/database"
	"github.com/example/glowdesk/internal/rewards"
	"github.com/example/glowdesk/internal/routes"
)

func main() {
	cfg := config.Load()
	db := database.Connect(cfg.DatabaseURL)

	policy, err := rewards.NewPolicy(rewards.DefaultTiers())
	if err != nil {
		log.Fatalf("invalid reward configuration: %v", err)
	}

	app := fiber.New(fiber.Config{
		AppName: "GlowDesk Backend",
	})

	app.Use(recover.New())
	app.Use(logger.New())

	routes.Register(app, db, cfg, policy)

	log.Printf("Starting server on :%s", cfg.AppPort)
	if err := app.Listen(":" + cfg.AppPort); err != nil {
		log.Fatalf("fiber.Listen error: %v", err)
	}
}
