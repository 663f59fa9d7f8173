package handler

import (
	"time"

	"github.com/gofiber/fiber/v3"
)

type HealthHandler struct {
	appName string
	version string
}

func NewHealthHandler(appName, version string) *HealthHandler {
	return &HealthHandler{appName: appName, version: version}
}

func (h *HealthHandler) Root(c fiber.Ctx) error {
	return c.JSON(fiber.Map{"message": "Welcome to " + h.appName + " API"})
}

func (h *HealthHandler) Check(c fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"message":   "Welcome to " + h.appName + " API Health Check Endpoint",
		"status":    "healthy",
		"version":   h.version,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
