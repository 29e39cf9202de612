package handler

import (
	"context"
	"sync"
	"time"

	"learn-assist/internal/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const healthCheckTimeout = 3 * time.Second

// HealthCheck probes one dependency.
type HealthCheck func(ctx context.Context) error

type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

type HealthHandler struct {
	checks map[string]HealthCheck
}

func NewHealthHandler(checks map[string]HealthCheck) *HealthHandler {
	return &HealthHandler{checks: checks}
}

// Health godoc
// @Summary Health check
// @Description Pings every backing store concurrently
// @Tags health
// @Produce json
// @Success 200 {object} HealthResponse
// @Failure 503 {object} HealthResponse
// @Router /health [get]
func (h *HealthHandler) Health(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), healthCheckTimeout)
	defer cancel()

	var mu sync.Mutex
	resp := HealthResponse{Status: "ok", Checks: make(map[string]string, len(h.checks))}

	var g errgroup.Group
	for name, check := range h.checks {
		g.Go(func() error {
			err := check(ctx)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				resp.Checks[name] = err.Error()
				return err
			}
			resp.Checks[name] = "ok"
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		logger.Get().Warn("Health check failed", zap.Error(err))
		resp.Status = "degraded"
		return c.Status(fiber.StatusServiceUnavailable).JSON(resp)
	}
	return c.JSON(resp)
}
