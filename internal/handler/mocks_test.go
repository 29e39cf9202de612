package handler_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"testing"

	"learn-assist/internal/domain"
	"learn-assist/internal/dto"
	"learn-assist/internal/middleware"
	"learn-assist/internal/service"
	"learn-assist/internal/voice"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
)

const testSessionID = "01J9ZSESSION0000000000000"

// newTestApp returns an app whose requests already carry a signed-in session.
func newTestApp() *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler()})
	app.Use(func(c *fiber.Ctx) error {
		c.Locals(middleware.SessionIDKey, testSessionID)
		return c.Next()
	})
	return app
}

func decodeBody(t *testing.T, resp *http.Response, out interface{}) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

func readBody(t *testing.T, resp *http.Response) []byte {
	t.Helper()
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return b
}

// --- Manual Mocks ---

type MockAuthService struct {
	service.AuthService
	LoginFunc                func(ctx context.Context, email, password string) (*service.AuthResult, error)
	GetGoogleLoginURLFunc    func(state string) string
	HandleGoogleCallbackFunc func(ctx context.Context, code, received, expected string) (*service.AuthResult, error)
	LogoutFunc               func(ctx context.Context, sessionID string) error
}

func (m *MockAuthService) Login(ctx context.Context, email, password string) (*service.AuthResult, error) {
	if m.LoginFunc != nil {
		return m.LoginFunc(ctx, email, password)
	}
	panic("MockAuthService.LoginFunc not implemented")
}

func (m *MockAuthService) GetGoogleLoginURL(state string) string {
	if m.GetGoogleLoginURLFunc != nil {
		return m.GetGoogleLoginURLFunc(state)
	}
	panic("MockAuthService.GetGoogleLoginURLFunc not implemented")
}

func (m *MockAuthService) HandleGoogleCallback(ctx context.Context, code, received, expected string) (*service.AuthResult, error) {
	if m.HandleGoogleCallbackFunc != nil {
		return m.HandleGoogleCallbackFunc(ctx, code, received, expected)
	}
	panic("MockAuthService.HandleGoogleCallbackFunc not implemented")
}

func (m *MockAuthService) Logout(ctx context.Context, sessionID string) error {
	if m.LogoutFunc != nil {
		return m.LogoutFunc(ctx, sessionID)
	}
	panic("MockAuthService.LogoutFunc not implemented")
}

type MockUserService struct {
	GetProfileFunc    func(ctx context.Context, sessionID string) (domain.User, error)
	UpdateProfileFunc func(ctx context.Context, sessionID string, fields domain.ProfileFields) (domain.User, error)
}

func (m *MockUserService) GetProfile(ctx context.Context, sessionID string) (domain.User, error) {
	if m.GetProfileFunc != nil {
		return m.GetProfileFunc(ctx, sessionID)
	}
	panic("MockUserService.GetProfileFunc not implemented")
}

func (m *MockUserService) UpdateProfile(ctx context.Context, sessionID string, fields domain.ProfileFields) (domain.User, error) {
	if m.UpdateProfileFunc != nil {
		return m.UpdateProfileFunc(ctx, sessionID, fields)
	}
	panic("MockUserService.UpdateProfileFunc not implemented")
}

// MockQuizService answers every state call with StateFunc.
type MockQuizService struct {
	service.QuizService
	StateFunc func(op string, level domain.Level, index int) (*dto.QuizStateResponse, error)
}

func (m *MockQuizService) Levels() *dto.LevelsResponse { return &dto.LevelsResponse{} }

func (m *MockQuizService) GetState(ctx context.Context, sessionID string) (*dto.QuizStateResponse, error) {
	return m.StateFunc("state", "", -1)
}

func (m *MockQuizService) SelectLevel(ctx context.Context, sessionID string, level domain.Level) (*dto.QuizStateResponse, error) {
	return m.StateFunc("level", level, -1)
}

func (m *MockQuizService) StartPractice(ctx context.Context, sessionID string) (*dto.QuizStateResponse, error) {
	return m.StateFunc("start", "", -1)
}

func (m *MockQuizService) SelectAnswer(ctx context.Context, sessionID string, index int) (*dto.QuizStateResponse, error) {
	return m.StateFunc("answer", "", index)
}

func (m *MockQuizService) SubmitAnswer(ctx context.Context, sessionID string) (*dto.QuizStateResponse, error) {
	return m.StateFunc("submit", "", -1)
}

type MockChatService struct {
	service.ChatService
	SubmitQuestionFunc func(ctx context.Context, sessionID, text string) (*domain.ChatExchange, error)
	GetExchangeFunc    func(ctx context.Context, sessionID string) (*domain.ChatExchange, error)
}

func (m *MockChatService) SubmitQuestion(ctx context.Context, sessionID, text string) (*domain.ChatExchange, error) {
	if m.SubmitQuestionFunc != nil {
		return m.SubmitQuestionFunc(ctx, sessionID, text)
	}
	panic("MockChatService.SubmitQuestionFunc not implemented")
}

func (m *MockChatService) GetExchange(ctx context.Context, sessionID string) (*domain.ChatExchange, error) {
	if m.GetExchangeFunc != nil {
		return m.GetExchangeFunc(ctx, sessionID)
	}
	panic("MockChatService.GetExchangeFunc not implemented")
}

func (m *MockChatService) Examples() []string {
	return []string{"Explain quantum computing in simple terms"}
}

type MockImageService struct {
	service.ImageService
	SelectImageFunc func(ctx context.Context, sessionID, filename, contentType string, data []byte) (*dto.ImageSelectionResponse, error)
	UploadFunc      func(ctx context.Context, sessionID string) (*dto.UploadResponse, error)
	ResetFunc       func(ctx context.Context, sessionID string) error
	PreviewFunc     func(ctx context.Context, sessionID, previewID string) (string, []byte, error)
}

func (m *MockImageService) SelectImage(ctx context.Context, sessionID, filename, contentType string, data []byte) (*dto.ImageSelectionResponse, error) {
	if m.SelectImageFunc != nil {
		return m.SelectImageFunc(ctx, sessionID, filename, contentType, data)
	}
	panic("MockImageService.SelectImageFunc not implemented")
}

func (m *MockImageService) Upload(ctx context.Context, sessionID string) (*dto.UploadResponse, error) {
	if m.UploadFunc != nil {
		return m.UploadFunc(ctx, sessionID)
	}
	panic("MockImageService.UploadFunc not implemented")
}

func (m *MockImageService) Reset(ctx context.Context, sessionID string) error {
	if m.ResetFunc != nil {
		return m.ResetFunc(ctx, sessionID)
	}
	panic("MockImageService.ResetFunc not implemented")
}

func (m *MockImageService) Preview(ctx context.Context, sessionID, previewID string) (string, []byte, error) {
	if m.PreviewFunc != nil {
		return m.PreviewFunc(ctx, sessionID, previewID)
	}
	panic("MockImageService.PreviewFunc not implemented")
}

type MockVoiceService struct {
	StartFunc       func(sessionID, language, contentType string) (*voice.RecordingInfo, error)
	AppendAudioFunc func(sessionID string, chunk []byte) (int, error)
	StopFunc        func(ctx context.Context, sessionID string) (*voice.Transcript, error)
	SpeakFunc       func(ctx context.Context, text, language string, rate, pitch float64) (*domain.SpeechAudio, error)
	cancelled       []string
}

func (m *MockVoiceService) Capabilities() voice.Capabilities {
	return voice.Capabilities{Recognition: true, Synthesis: false, Devices: 2}
}

func (m *MockVoiceService) Start(sessionID, language, contentType string) (*voice.RecordingInfo, error) {
	if m.StartFunc != nil {
		return m.StartFunc(sessionID, language, contentType)
	}
	panic("MockVoiceService.StartFunc not implemented")
}

func (m *MockVoiceService) AppendAudio(sessionID string, chunk []byte) (int, error) {
	if m.AppendAudioFunc != nil {
		return m.AppendAudioFunc(sessionID, chunk)
	}
	panic("MockVoiceService.AppendAudioFunc not implemented")
}

func (m *MockVoiceService) Stop(ctx context.Context, sessionID string) (*voice.Transcript, error) {
	if m.StopFunc != nil {
		return m.StopFunc(ctx, sessionID)
	}
	panic("MockVoiceService.StopFunc not implemented")
}

func (m *MockVoiceService) Cancel(sessionID string) bool {
	m.cancelled = append(m.cancelled, sessionID)
	return true
}

func (m *MockVoiceService) Speak(ctx context.Context, text, language string, rate, pitch float64) (*domain.SpeechAudio, error) {
	if m.SpeakFunc != nil {
		return m.SpeakFunc(ctx, text, language, rate, pitch)
	}
	panic("MockVoiceService.SpeakFunc not implemented")
}

// MockRegistrationService records the last call and answers with Response.
type MockRegistrationService struct {
	service.RegistrationService
	Response *dto.RegistrationResponse
	Err      error
	lastOp   string
	lastID   string
	lastArg  interface{}
}

func (m *MockRegistrationService) record(op, id string, arg interface{}) (*dto.RegistrationResponse, error) {
	m.lastOp, m.lastID, m.lastArg = op, id, arg
	return m.Response, m.Err
}

func (m *MockRegistrationService) Start(ctx context.Context, req dto.RegisterAccountRequest) (*dto.RegistrationResponse, error) {
	return m.record("start", "", req)
}

func (m *MockRegistrationService) Get(ctx context.Context, id string) (*dto.RegistrationResponse, error) {
	return m.record("get", id, nil)
}

func (m *MockRegistrationService) Verify(ctx context.Context, id string, code []string) (*dto.RegistrationResponse, error) {
	return m.record("verify", id, code)
}

func (m *MockRegistrationService) ChooseOccupation(ctx context.Context, id string, occupation domain.Occupation) (*dto.RegistrationResponse, error) {
	return m.record("occupation", id, occupation)
}

func (m *MockRegistrationService) ChooseEducation(ctx context.Context, id string, level domain.EducationLevel) (*dto.RegistrationResponse, error) {
	return m.record("education", id, level)
}

func (m *MockRegistrationService) ChooseDegree(ctx context.Context, id, degree string) (*dto.RegistrationResponse, error) {
	return m.record("degree", id, degree)
}

func (m *MockRegistrationService) SendFeedback(ctx context.Context, id string, req dto.FeedbackRequest) (*dto.RegistrationResponse, error) {
	return m.record("feedback", id, req)
}
