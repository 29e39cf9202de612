package handler

import (
	"learn-assist/internal/dto"
	"learn-assist/internal/middleware"
	"learn-assist/internal/service"
	"learn-assist/internal/validation"

	"github.com/gofiber/fiber/v2"
)

type ChatHandler struct {
	service   service.ChatService
	validator *validation.Validator
}

func NewChatHandler(service service.ChatService, v *validation.Validator) *ChatHandler {
	return &ChatHandler{service: service, validator: v}
}

// SubmitQuestion godoc
// @Summary Ask a question
// @Description Sends the question to the completion service and returns the exchange. Blank questions are ignored.
// @Tags chat
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param body body dto.SubmitQuestionRequest true "Question"
// @Success 200 {object} domain.ChatExchange
// @Failure 409 {object} middleware.ErrorResponse "A question is already being answered"
// @Failure 502 {object} middleware.ErrorResponse "Completion service unavailable"
// @Router /chat/questions [post]
func (h *ChatHandler) SubmitQuestion(c *fiber.Ctx) error {
	var req dto.SubmitQuestionRequest
	if err := bindJSON(c, h.validator, &req); err != nil {
		return err
	}
	exchange, err := h.service.SubmitQuestion(c.UserContext(), middleware.SessionID(c), req.Question)
	if err != nil {
		return err
	}
	return c.JSON(exchange)
}

// GetExchange godoc
// @Summary Last exchange
// @Tags chat
// @Security ApiKeyAuth
// @Produce json
// @Success 200 {object} domain.ChatExchange
// @Router /chat/exchange [get]
func (h *ChatHandler) GetExchange(c *fiber.Ctx) error {
	exchange, err := h.service.GetExchange(c.UserContext(), middleware.SessionID(c))
	if err != nil {
		return err
	}
	return c.JSON(exchange)
}

// GetExamples godoc
// @Summary Example prompts
// @Tags chat
// @Produce json
// @Success 200 {object} dto.ExamplesResponse
// @Router /chat/examples [get]
func (h *ChatHandler) GetExamples(c *fiber.Ctx) error {
	return c.JSON(dto.ExamplesResponse{Examples: h.service.Examples()})
}
