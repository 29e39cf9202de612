package handler

import (
	"learn-assist/internal/dto"
	"learn-assist/internal/middleware"
	"learn-assist/internal/service"
	"learn-assist/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// QuizHandler handles practice quiz requests
type QuizHandler struct {
	service   service.QuizService
	validator *validation.Validator
}

// NewQuizHandler creates a new QuizHandler instance
func NewQuizHandler(service service.QuizService, v *validation.Validator) *QuizHandler {
	return &QuizHandler{service: service, validator: v}
}

// GetLevels godoc
// @Summary List levels
// @Description Returns every level with its question count
// @Tags quiz
// @Produce json
// @Success 200 {object} dto.LevelsResponse
// @Router /quiz/levels [get]
func (h *QuizHandler) GetLevels(c *fiber.Ctx) error {
	return c.JSON(h.service.Levels())
}

// GetState godoc
// @Summary Current practice state
// @Tags quiz
// @Security ApiKeyAuth
// @Produce json
// @Success 200 {object} dto.QuizStateResponse
// @Router /quiz/state [get]
func (h *QuizHandler) GetState(c *fiber.Ctx) error {
	return h.respond(c)(h.service.GetState(c.UserContext(), middleware.SessionID(c)))
}

// SelectLevel godoc
// @Summary Select level
// @Description Switches level and clears the current question
// @Tags quiz
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param body body dto.SelectLevelRequest true "Level"
// @Success 200 {object} dto.QuizStateResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Router /quiz/level [post]
func (h *QuizHandler) SelectLevel(c *fiber.Ctx) error {
	var req dto.SelectLevelRequest
	if err := bindJSON(c, h.validator, &req); err != nil {
		return err
	}
	return h.respond(c)(h.service.SelectLevel(c.UserContext(), middleware.SessionID(c), req.Level))
}

// StartPractice godoc
// @Summary Start practice
// @Description Draws a random question of the active level; message is set when the level is empty
// @Tags quiz
// @Security ApiKeyAuth
// @Produce json
// @Success 200 {object} dto.QuizStateResponse
// @Router /quiz/start [post]
func (h *QuizHandler) StartPractice(c *fiber.Ctx) error {
	return h.respond(c)(h.service.StartPractice(c.UserContext(), middleware.SessionID(c)))
}

// SelectAnswer godoc
// @Summary Select answer
// @Tags quiz
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param body body dto.SelectAnswerRequest true "Option index"
// @Success 200 {object} dto.QuizStateResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Router /quiz/answer [post]
func (h *QuizHandler) SelectAnswer(c *fiber.Ctx) error {
	var req dto.SelectAnswerRequest
	if err := bindJSON(c, h.validator, &req); err != nil {
		return err
	}
	return h.respond(c)(h.service.SelectAnswer(c.UserContext(), middleware.SessionID(c), *req.Index))
}

// SubmitAnswer godoc
// @Summary Submit answer
// @Description Reveals the result of the selected answer
// @Tags quiz
// @Security ApiKeyAuth
// @Produce json
// @Success 200 {object} dto.QuizStateResponse
// @Router /quiz/submit [post]
func (h *QuizHandler) SubmitAnswer(c *fiber.Ctx) error {
	return h.respond(c)(h.service.SubmitAnswer(c.UserContext(), middleware.SessionID(c)))
}

func (h *QuizHandler) respond(c *fiber.Ctx) func(*dto.QuizStateResponse, error) error {
	return func(state *dto.QuizStateResponse, err error) error {
		if err != nil {
			return err
		}
		return c.JSON(state)
	}
}
