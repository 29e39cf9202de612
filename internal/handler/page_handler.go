package handler

import (
	"path/filepath"

	"learn-assist/internal/domain"

	"github.com/gofiber/fiber/v2"
)

const pageEntry = "index.html"

// PageHandler serves the single-page frontend for every guarded page route.
type PageHandler struct {
	staticDir string
}

func NewPageHandler(staticDir string) *PageHandler {
	return &PageHandler{staticDir: staticDir}
}

func (h *PageHandler) Page(c *fiber.Ctx) error {
	return c.SendFile(filepath.Join(h.staticDir, pageEntry))
}

// Root sends visitors to the dashboard; its guard has already turned away signed-out callers.
func (h *PageHandler) Root(c *fiber.Ctx) error {
	return c.Redirect("/dashboard", fiber.StatusFound)
}

// NotFound is the catch-all route.
func (h *PageHandler) NotFound(c *fiber.Ctx) error {
	return domain.NewNotFoundError("Page not found")
}
