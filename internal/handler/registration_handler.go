package handler

import (
	"learn-assist/internal/dto"
	"learn-assist/internal/service"

	"github.com/gofiber/fiber/v2"
)

type RegistrationHandler struct {
	service service.RegistrationService
}

func NewRegistrationHandler(service service.RegistrationService) *RegistrationHandler {
	return &RegistrationHandler{service: service}
}

// Start godoc
// @Summary Start registration
// @Description Validates the account step and opens a registration awaiting verification
// @Tags register
// @Accept json
// @Produce json
// @Param body body dto.RegisterAccountRequest true "Account details"
// @Success 201 {object} dto.RegistrationResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Failure 409 {object} middleware.ErrorResponse "Email already registered"
// @Router /register [post]
func (h *RegistrationHandler) Start(c *fiber.Ctx) error {
	var req dto.RegisterAccountRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	resp, err := h.service.Start(c.UserContext(), req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// Get godoc
// @Summary Registration status
// @Tags register
// @Produce json
// @Param id path string true "Registration id"
// @Success 200 {object} dto.RegistrationResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /register/{id} [get]
func (h *RegistrationHandler) Get(c *fiber.Ctx) error {
	return h.respond(c)(h.service.Get(c.UserContext(), c.Params("id")))
}

// Verify godoc
// @Summary Submit verification code
// @Tags register
// @Accept json
// @Produce json
// @Param id path string true "Registration id"
// @Param body body dto.VerificationRequest true "Four code cells"
// @Success 200 {object} dto.RegistrationResponse
// @Failure 409 {object} middleware.ErrorResponse "Wrong step"
// @Router /register/{id}/verification [post]
func (h *RegistrationHandler) Verify(c *fiber.Ctx) error {
	var req dto.VerificationRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	return h.respond(c)(h.service.Verify(c.UserContext(), c.Params("id"), req.Code))
}

// ChooseOccupation godoc
// @Summary Choose occupation
// @Tags register
// @Accept json
// @Produce json
// @Param id path string true "Registration id"
// @Param body body dto.OccupationRequest true "Occupation"
// @Success 200 {object} dto.RegistrationResponse
// @Router /register/{id}/occupation [post]
func (h *RegistrationHandler) ChooseOccupation(c *fiber.Ctx) error {
	var req dto.OccupationRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	return h.respond(c)(h.service.ChooseOccupation(c.UserContext(), c.Params("id"), req.Occupation))
}

// ChooseEducation godoc
// @Summary Choose education level
// @Tags register
// @Accept json
// @Produce json
// @Param id path string true "Registration id"
// @Param body body dto.EducationRequest true "Education level"
// @Success 200 {object} dto.RegistrationResponse
// @Router /register/{id}/education [post]
func (h *RegistrationHandler) ChooseEducation(c *fiber.Ctx) error {
	var req dto.EducationRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	return h.respond(c)(h.service.ChooseEducation(c.UserContext(), c.Params("id"), req.EducationLevel))
}

// ChooseDegree godoc
// @Summary Choose college degree
// @Tags register
// @Accept json
// @Produce json
// @Param id path string true "Registration id"
// @Param body body dto.DegreeRequest true "Degree"
// @Success 200 {object} dto.RegistrationResponse
// @Router /register/{id}/degree [post]
func (h *RegistrationHandler) ChooseDegree(c *fiber.Ctx) error {
	var req dto.DegreeRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	return h.respond(c)(h.service.ChooseDegree(c.UserContext(), c.Params("id"), req.Degree))
}

// SendFeedback godoc
// @Summary Send feedback and finish
// @Description Persists the account and closes the registration
// @Tags register
// @Accept json
// @Produce json
// @Param id path string true "Registration id"
// @Param body body dto.FeedbackRequest true "Optional feedback"
// @Success 200 {object} dto.RegistrationResponse
// @Failure 409 {object} middleware.ErrorResponse "Email already registered"
// @Router /register/{id}/feedback [post]
func (h *RegistrationHandler) SendFeedback(c *fiber.Ctx) error {
	var req dto.FeedbackRequest
	if len(c.Body()) > 0 {
		if err := parseBody(c, &req); err != nil {
			return err
		}
	}
	return h.respond(c)(h.service.SendFeedback(c.UserContext(), c.Params("id"), req))
}

func (h *RegistrationHandler) respond(c *fiber.Ctx) func(*dto.RegistrationResponse, error) error {
	return func(resp *dto.RegistrationResponse, err error) error {
		if err != nil {
			return err
		}
		return c.JSON(resp)
	}
}
