package app

import (
	"fmt"
	"strings"

	"skill-compass/internal/delivery/http/middleware"

	"github.com/gofiber/fiber/v3"
)

type App struct {
	Fiber     *fiber.App
	Container *Container
}

// New assembles the HTTP surface on top of an already wired container:
// access logging and error normalization first, then every registered route.
func New(c *Container) *App {
	f := fiber.New(fiber.Config{
		AppName: c.Config.App.AppName,
	})

	f.Use(middleware.NewAccessLogMiddleware(c.Logger).Middleware())
	f.Use(middleware.NewErrorMiddleware(c.Logger).Middleware())

	c.Registry.Register(f)

	return &App{Fiber: f, Container: c}
}

func ListenAddr(port string) (string, error) {
	p := strings.TrimSpace(port)
	if p == "" {
		return "", fmt.Errorf("empty HTTP port")
	}
	if strings.HasPrefix(p, ":") {
		return p, nil
	}
	return ":" + p, nil
}
