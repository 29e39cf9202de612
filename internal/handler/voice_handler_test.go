package handler_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"learn-assist/internal/domain"
	"learn-assist/internal/dto"
	"learn-assist/internal/handler"
	"learn-assist/internal/validation"
	"learn-assist/internal/voice"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVoiceHandler_Recording(t *testing.T) {
	var startedLang string
	var buffered []byte
	svc := &MockVoiceService{
		StartFunc: func(sessionID, language, contentType string) (*voice.RecordingInfo, error) {
			startedLang = language
			return &voice.RecordingInfo{Language: "en-US", DeviceID: 1}, nil
		},
		AppendAudioFunc: func(sessionID string, chunk []byte) (int, error) {
			buffered = append(buffered, chunk...)
			return len(buffered), nil
		},
		StopFunc: func(ctx context.Context, sessionID string) (*voice.Transcript, error) {
			return &voice.Transcript{Text: "hello world", Final: true}, nil
		},
	}
	h := handler.NewVoiceHandler(svc, validation.NewValidator())
	app := newTestApp()
	app.Get("/api/voice/capabilities", h.GetCapabilities)
	app.Post("/api/voice/start", h.StartRecording)
	app.Post("/api/voice/audio", h.AppendAudio)
	app.Post("/api/voice/stop", h.StopRecording)
	app.Delete("/api/voice", h.CancelRecording)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/voice/capabilities", nil))
	require.NoError(t, err)
	var caps voice.Capabilities
	decodeBody(t, resp, &caps)
	assert.True(t, caps.Recognition)
	assert.False(t, caps.Synthesis)

	resp, err = app.Test(httptest.NewRequest("POST", "/api/voice/start", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, startedLang)

	req := httptest.NewRequest("POST", "/api/voice/audio", strings.NewReader("RIFFdata"))
	req.Header.Set("Content-Type", "application/octet-stream")
	resp, err = app.Test(req)
	require.NoError(t, err)
	var appended dto.AppendAudioResponse
	decodeBody(t, resp, &appended)
	assert.Equal(t, 8, appended.BufferedBytes)
	assert.Equal(t, []byte("RIFFdata"), buffered)

	resp, err = app.Test(httptest.NewRequest("POST", "/api/voice/stop", nil))
	require.NoError(t, err)
	var transcript voice.Transcript
	decodeBody(t, resp, &transcript)
	assert.Equal(t, "hello world", transcript.Text)
	assert.True(t, transcript.Final)

	resp, err = app.Test(httptest.NewRequest("DELETE", "/api/voice", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, []string{testSessionID}, svc.cancelled)
}

func TestVoiceHandler_Speak(t *testing.T) {
	svc := &MockVoiceService{
		SpeakFunc: func(ctx context.Context, text, language string, rate, pitch float64) (*domain.SpeechAudio, error) {
			if language == "fr-FR" {
				return nil, domain.NewNotSupportedError(domain.MsgSynthesisMissing)
			}
			return &domain.SpeechAudio{ContentType: "audio/wav", Data: []byte("wav")}, nil
		},
	}
	h := handler.NewVoiceHandler(svc, validation.NewValidator())
	app := newTestApp()
	app.Post("/api/voice/speak", h.Speak)

	speak := func(body string) *http.Response {
		req := httptest.NewRequest("POST", "/api/voice/speak", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		resp, err := app.Test(req)
		require.NoError(t, err)
		return resp
	}

	resp := speak(`{"text":"Hello","rate":1.5}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "audio/wav", resp.Header.Get("Content-Type"))
	assert.Equal(t, []byte("wav"), readBody(t, resp))

	assert.Equal(t, http.StatusBadRequest, speak(`{"text":""}`).StatusCode)
	assert.Equal(t, http.StatusBadRequest, speak(`{"text":"Hi","pitch":5}`).StatusCode)
	assert.Equal(t, http.StatusNotImplemented, speak(`{"text":"Bonjour","language":"fr-FR"}`).StatusCode)
}
