package handler

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"time"

	"learn-assist/internal/config"
	"learn-assist/internal/domain"
	"learn-assist/internal/dto"
	"learn-assist/internal/logger"
	"learn-assist/internal/middleware"
	"learn-assist/internal/service"
	"learn-assist/internal/validation"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const (
	oauthStateCookieName = "oauthstate"
	afterLoginPath       = "/dashboard"
)

type AuthHandler struct {
	authService service.AuthService
	validator   *validation.Validator
	cookieName  string
	secure      bool
}

func NewAuthHandler(authService service.AuthService, v *validation.Validator, appConfig *config.Config) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		validator:   v,
		cookieName:  appConfig.Session.CookieName,
		secure:      appConfig.Server.SecureCookies,
	}
}

// Login signs the caller in by email.
// @Summary Email login
// @Description Registered accounts must send their password; any other address signs in as a guest.
// @Tags auth
// @Accept json
// @Produce json
// @Param body body dto.LoginRequest true "Credentials"
// @Success 200 {object} dto.LoginResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Failure 401 {object} middleware.ErrorResponse "Wrong password"
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := bindJSON(c, h.validator, &req); err != nil {
		return err
	}

	result, err := h.authService.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}
	h.setSessionCookie(c, result.AccessToken, result.ExpiresAt)
	logger.ForSession(result.SessionID).Info("User logged in")

	return c.JSON(dto.LoginResponse{
		AccessToken: result.AccessToken,
		ExpiresAt:   result.ExpiresAt,
		User:        result.User,
	})
}

// GoogleLogin initiates the Google OAuth2 login flow.
// @Summary Initiate Google Login
// @Description Redirects the user to Google's OAuth2 consent page.
// @Tags auth
// @Success 307 {string} string "Redirects to Google"
// @Router /auth/google/login [get]
func (h *AuthHandler) GoogleLogin(c *fiber.Ctx) error {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return domain.NewInternalError("could not generate oauth state", err)
	}
	state := base64.URLEncoding.EncodeToString(b)

	c.Cookie(&fiber.Cookie{
		Name:     oauthStateCookieName,
		Value:    state,
		Expires:  time.Now().Add(10 * time.Minute),
		HTTPOnly: true,
		Secure:   h.secure,
		SameSite: "Lax",
		Path:     "/",
	})
	return c.Redirect(h.authService.GetGoogleLoginURL(state), fiber.StatusTemporaryRedirect)
}

// GoogleCallback handles the callback from Google OAuth2.
// @Summary Google OAuth2 Callback
// @Description Signs the user in, sets the session cookie and redirects to the dashboard.
// @Tags auth
// @Param code query string true "Authorization code from Google"
// @Param state query string true "State string for CSRF protection"
// @Success 302 {string} string "Redirects to the dashboard"
// @Failure 400 {object} middleware.ErrorResponse "Invalid state or code"
// @Failure 502 {object} middleware.ErrorResponse "Google rejected the exchange"
// @Router /auth/google/callback [get]
func (h *AuthHandler) GoogleCallback(c *fiber.Ctx) error {
	appLogger := logger.Get()
	code := c.Query("code")
	receivedState := c.Query("state")
	expectedState := c.Cookies(oauthStateCookieName)

	c.Cookie(&fiber.Cookie{
		Name:     oauthStateCookieName,
		Value:    "",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
		Secure:   h.secure,
		SameSite: "Lax",
		Path:     "/",
	})

	if code == "" {
		return c.Status(fiber.StatusBadRequest).JSON(middleware.ErrorResponse{
			Code: "MISSING_CODE", Message: "Authorization code is missing", Status: fiber.StatusBadRequest,
		})
	}

	result, err := h.authService.HandleGoogleCallback(c.UserContext(), code, receivedState, expectedState)
	if err != nil {
		appLogger.Warn("Google sign-in failed", zap.Error(err))
		switch {
		case errors.Is(err, service.ErrInvalidAuthState):
			return c.Status(fiber.StatusBadRequest).JSON(middleware.ErrorResponse{
				Code: "INVALID_STATE", Message: "OAuth state mismatch or missing", Status: fiber.StatusBadRequest,
			})
		case errors.Is(err, service.ErrFailedToExchangeToken), errors.Is(err, service.ErrFailedToGetUserInfo):
			return c.Status(fiber.StatusBadGateway).JSON(middleware.ErrorResponse{
				Code: "OAUTH_CALLBACK_ERROR", Message: "Google sign-in failed, please try again", Status: fiber.StatusBadGateway,
			})
		}
		return err
	}

	h.setSessionCookie(c, result.AccessToken, result.ExpiresAt)
	appLogger.Info("Google OAuth callback successful", zap.String("session_id", result.SessionID))
	return c.Redirect(afterLoginPath, fiber.StatusFound)
}

// Logout ends the session.
// @Summary Logout user
// @Description Clears the session user and every feature's per-session state.
// @Tags auth
// @Security ApiKeyAuth
// @Produce json
// @Success 200 {object} dto.MessageResponse
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	sessionID := middleware.SessionID(c)
	err := h.authService.Logout(c.UserContext(), sessionID)
	h.setSessionCookie(c, "", time.Now().Add(-time.Hour))
	if err != nil {
		return err
	}
	logger.ForSession(sessionID).Info("User logged out")
	return c.JSON(dto.MessageResponse{Message: "Logged out"})
}

func (h *AuthHandler) setSessionCookie(c *fiber.Ctx, token string, expires time.Time) {
	c.Cookie(&fiber.Cookie{
		Name:     h.cookieName,
		Value:    token,
		Expires:  expires,
		HTTPOnly: true,
		Secure:   h.secure,
		SameSite: "Lax",
		Path:     "/",
	})
}
