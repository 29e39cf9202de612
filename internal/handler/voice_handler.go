package handler

import (
	"context"

	"learn-assist/internal/domain"
	"learn-assist/internal/dto"
	"learn-assist/internal/middleware"
	"learn-assist/internal/validation"
	"learn-assist/internal/voice"

	"github.com/gofiber/fiber/v2"
)

// VoiceService is the part of voice.Service the HTTP layer drives.
type VoiceService interface {
	Capabilities() voice.Capabilities
	Start(sessionID, language, contentType string) (*voice.RecordingInfo, error)
	AppendAudio(sessionID string, chunk []byte) (int, error)
	Stop(ctx context.Context, sessionID string) (*voice.Transcript, error)
	Cancel(sessionID string) bool
	Speak(ctx context.Context, text, language string, rate, pitch float64) (*domain.SpeechAudio, error)
}

type VoiceHandler struct {
	service   VoiceService
	validator *validation.Validator
}

func NewVoiceHandler(service VoiceService, v *validation.Validator) *VoiceHandler {
	return &VoiceHandler{service: service, validator: v}
}

// GetCapabilities godoc
// @Summary Voice capabilities
// @Description Reports whether recognition and synthesis are available
// @Tags voice
// @Produce json
// @Success 200 {object} voice.Capabilities
// @Router /voice/capabilities [get]
func (h *VoiceHandler) GetCapabilities(c *fiber.Ctx) error {
	return c.JSON(h.service.Capabilities())
}

// StartRecording godoc
// @Summary Start recording
// @Tags voice
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param body body dto.StartRecordingRequest false "Language and audio type"
// @Success 200 {object} voice.RecordingInfo
// @Failure 409 {object} middleware.ErrorResponse "Already recording"
// @Failure 501 {object} middleware.ErrorResponse "Speech recognition is not supported"
// @Failure 503 {object} middleware.ErrorResponse "No capture device free"
// @Router /voice/start [post]
func (h *VoiceHandler) StartRecording(c *fiber.Ctx) error {
	var req dto.StartRecordingRequest
	if len(c.Body()) > 0 {
		if err := bindJSON(c, h.validator, &req); err != nil {
			return err
		}
	}
	info, err := h.service.Start(middleware.SessionID(c), req.Language, req.ContentType)
	if err != nil {
		return err
	}
	return c.JSON(info)
}

// AppendAudio godoc
// @Summary Append audio
// @Description Appends the raw request body to the active recording
// @Tags voice
// @Security ApiKeyAuth
// @Accept application/octet-stream
// @Produce json
// @Success 200 {object} dto.AppendAudioResponse
// @Failure 404 {object} middleware.ErrorResponse "No active recording"
// @Router /voice/audio [post]
func (h *VoiceHandler) AppendAudio(c *fiber.Ctx) error {
	// fiber reuses the body buffer after the handler returns.
	chunk := append([]byte(nil), c.Body()...)
	n, err := h.service.AppendAudio(middleware.SessionID(c), chunk)
	if err != nil {
		return err
	}
	return c.JSON(dto.AppendAudioResponse{BufferedBytes: n})
}

// StopRecording godoc
// @Summary Stop recording
// @Description Transcribes the buffered audio once and releases the device
// @Tags voice
// @Security ApiKeyAuth
// @Produce json
// @Success 200 {object} voice.Transcript
// @Failure 502 {object} middleware.ErrorResponse "Recognition failed"
// @Router /voice/stop [post]
func (h *VoiceHandler) StopRecording(c *fiber.Ctx) error {
	transcript, err := h.service.Stop(c.UserContext(), middleware.SessionID(c))
	if err != nil {
		return err
	}
	return c.JSON(transcript)
}

// CancelRecording godoc
// @Summary Cancel recording
// @Tags voice
// @Security ApiKeyAuth
// @Success 204
// @Router /voice [delete]
func (h *VoiceHandler) CancelRecording(c *fiber.Ctx) error {
	h.service.Cancel(middleware.SessionID(c))
	return c.SendStatus(fiber.StatusNoContent)
}

// Speak godoc
// @Summary Speak text
// @Tags voice
// @Security ApiKeyAuth
// @Accept json
// @Produce audio/wav,audio/mpeg
// @Param body body dto.SpeakRequest true "Text and voice settings"
// @Success 200 {file} binary
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Failure 501 {object} middleware.ErrorResponse "Speech synthesis is not supported"
// @Router /voice/speak [post]
func (h *VoiceHandler) Speak(c *fiber.Ctx) error {
	var req dto.SpeakRequest
	if err := bindJSON(c, h.validator, &req); err != nil {
		return err
	}
	audio, err := h.service.Speak(c.UserContext(), req.Text, req.Language, req.Rate, req.Pitch)
	if err != nil {
		return err
	}
	c.Set(fiber.HeaderContentType, audio.ContentType)
	return c.Send(audio.Data)
}
