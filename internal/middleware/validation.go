package middleware

import (
	"learn-assist/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// ValidationMiddleware provides request validation middleware
type ValidationMiddleware struct {
	validator *validation.Validator
}

// NewValidationMiddleware creates a new validation middleware instance
func NewValidationMiddleware(v *validation.Validator) *ValidationMiddleware {
	return &ValidationMiddleware{validator: v}
}

// ValidateULIDParam rejects requests whose path parameter is not a ULID.
func (vm *ValidationMiddleware) ValidateULIDParam(param string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if errs := vm.validator.ValidateULID(param, c.Params(param)); len(errs) > 0 {
			return errs // handled by ErrorHandler
		}
		return c.Next()
	}
}
