package handler

import (
	"learn-assist/internal/dto"
	"learn-assist/internal/middleware"
	"learn-assist/internal/service"
	"learn-assist/internal/validation"

	"github.com/gofiber/fiber/v2"
)

type UserHandler struct {
	userService service.UserService
	validator   *validation.Validator
}

func NewUserHandler(userService service.UserService, v *validation.Validator) *UserHandler {
	return &UserHandler{userService: userService, validator: v}
}

// GetMyProfile retrieves the profile of the currently authenticated user.
// @Summary Get My Profile
// @Tags users
// @Security ApiKeyAuth
// @Produce json
// @Success 200 {object} domain.User
// @Failure 401 {object} middleware.ErrorResponse "Unauthorized"
// @Router /users/me [get]
func (h *UserHandler) GetMyProfile(c *fiber.Ctx) error {
	user, err := h.userService.GetProfile(c.UserContext(), middleware.SessionID(c))
	if err != nil {
		return err
	}
	return c.JSON(user)
}

// UpdateMyProfile merges the given fields into the profile.
// @Summary Update My Profile
// @Description Omitted fields are left unchanged. The verified flag cannot be set here.
// @Tags users
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param body body dto.UpdateProfileRequest true "Profile fields"
// @Success 200 {object} domain.User
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Failure 401 {object} middleware.ErrorResponse "Unauthorized"
// @Router /users/me [patch]
func (h *UserHandler) UpdateMyProfile(c *fiber.Ctx) error {
	var req dto.UpdateProfileRequest
	if err := bindJSON(c, h.validator, &req); err != nil {
		return err
	}
	user, err := h.userService.UpdateProfile(c.UserContext(), middleware.SessionID(c), req.Fields())
	if err != nil {
		return err
	}
	return c.JSON(user)
}
