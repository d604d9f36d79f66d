package server

import (
	"context"
	"sort"

	"github.com/gofiber/fiber/v2"
)

// PingFunc reports whether a dependency is reachable.
type PingFunc func(ctx context.Context) error

// HealthChecker reports the state of the service dependencies.
type HealthChecker struct {
	checks map[string]PingFunc
}

// NewHealthChecker creates a HealthChecker for the named dependencies.
func NewHealthChecker(checks map[string]PingFunc) *HealthChecker {
	return &HealthChecker{checks: checks}
}

// Register mounts GET /healthz.
func (h *HealthChecker) Register(app *fiber.App) {
	app.Get("/healthz", h.Handle)
}

// Handle responds 200 when every dependency is up and 503 otherwise.
func (h *HealthChecker) Handle(c *fiber.Ctx) error {
	status := fiber.StatusOK
	deps := fiber.Map{}

	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if err := h.checks[name](c.UserContext()); err != nil {
			deps[name] = fiber.Map{"status": "down", "error": err.Error()}
			status = fiber.StatusServiceUnavailable
			continue
		}
		deps[name] = fiber.Map{"status": "up"}
	}

	overall := "healthy"
	if status != fiber.StatusOK {
		overall = "unhealthy"
	}

	return c.Status(status).JSON(fiber.Map{
		"status":       overall,
		"dependencies": deps,
	})
}
