package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
)

func SetupRouter(app *fiber.App, handler *Handler) {
	// Middleware
	app.Use(logger.New())

	app.Get("/health", handler.HandleHealth)

	// API Versioning
	v1 := app.Group("/v1")
	v1.Post("/chat", handler.HandleChat)
	v1.Get("/feed", handler.HandleFeed)
}
