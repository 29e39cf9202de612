package handler

import (
	"learn-assist/internal/domain"
	"learn-assist/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// bindJSON parses the request body into out and runs its validate tags.
func bindJSON(c *fiber.Ctx, v *validation.Validator, out interface{}) error {
	if err := c.BodyParser(out); err != nil {
		return domain.ValidationErrors{domain.NewInvalidFormatError("body", nil)}
	}
	if errs := v.Struct(out); len(errs) > 0 {
		return errs
	}
	return nil
}

// parseBody parses without tag validation, for requests whose rules live in the domain.
func parseBody(c *fiber.Ctx, out interface{}) error {
	if err := c.BodyParser(out); err != nil {
		return domain.ValidationErrors{domain.NewInvalidFormatError("body", nil)}
	}
	return nil
}
