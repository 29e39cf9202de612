package middleware

import (
	"strings"

	"learn-assist/internal/domain"
	"learn-assist/internal/logger"
	"learn-assist/internal/service"
	"learn-assist/internal/session"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const (
	AuthorizationHeader = "Authorization"
	BearerSchema        = "Bearer "
	SessionIDKey        = "sessionID" // fiber.Ctx locals key of the caller's session id
	UserKey             = "user"      // fiber.Ctx locals key of the signed-in domain.User
)

// Guard resolves the caller's session from a bearer token or the session cookie.
type Guard struct {
	auth       service.AuthService
	sessions   *session.Manager
	cookieName string
}

func NewGuard(auth service.AuthService, sessions *session.Manager, cookieName string) *Guard {
	return &Guard{auth: auth, sessions: sessions, cookieName: cookieName}
}

// Protected requires a valid access token whose session still has a signed-in user.
// It stores the session id and user in the context locals.
func (g *Guard) Protected() fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString := g.token(c)
		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
				Code:    "MISSING_TOKEN",
				Message: "Authorization token is missing",
				Status:  fiber.StatusUnauthorized,
			})
		}

		claims, err := g.auth.ValidateJWT(c.UserContext(), tokenString)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
				Code:    "INVALID_TOKEN",
				Message: "Token is invalid or expired",
				Status:  fiber.StatusUnauthorized,
			})
		}

		user, ok, err := g.currentUser(c, claims.SessionID)
		if err != nil {
			return domain.NewInternalError("failed to open session", err)
		}
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
				Code:    "SESSION_ENDED",
				Message: "Session has ended, please sign in again",
				Status:  fiber.StatusUnauthorized,
			})
		}

		c.Locals(SessionIDKey, claims.SessionID)
		c.Locals(UserKey, user)
		return c.Next()
	}
}

// RequireSignedIn lets only signed-in callers through and redirects everyone else.
func (g *Guard) RequireSignedIn(redirectTo string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !g.signedIn(c) {
			return c.Redirect(redirectTo, fiber.StatusFound)
		}
		return c.Next()
	}
}

// RequireSignedOut redirects signed-in callers away from the welcome and login pages.
func (g *Guard) RequireSignedOut(redirectTo string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if g.signedIn(c) {
			return c.Redirect(redirectTo, fiber.StatusFound)
		}
		return c.Next()
	}
}

func (g *Guard) signedIn(c *fiber.Ctx) bool {
	tokenString := g.token(c)
	if tokenString == "" {
		return false
	}
	claims, err := g.auth.ValidateJWT(c.UserContext(), tokenString)
	if err != nil {
		logger.Get().Debug("Page guard: token rejected, treating as signed out", zap.Error(err))
		return false
	}
	_, ok, err := g.currentUser(c, claims.SessionID)
	if err != nil {
		logger.Get().Warn("Page guard: failed to open session", zap.Error(err))
		return false
	}
	return ok
}

func (g *Guard) currentUser(c *fiber.Ctx, sessionID string) (domain.User, bool, error) {
	store, err := g.sessions.Open(c.UserContext(), sessionID)
	if err != nil {
		return domain.User{}, false, err
	}
	defer store.Close()
	user, ok := store.User()
	return user, ok, nil
}

func (g *Guard) token(c *fiber.Ctx) string {
	if authHeader := c.Get(AuthorizationHeader); strings.HasPrefix(authHeader, BearerSchema) {
		return strings.TrimSpace(strings.TrimPrefix(authHeader, BearerSchema))
	}
	return c.Cookies(g.cookieName)
}

// SessionID returns the session id stored by Protected.
func SessionID(c *fiber.Ctx) string {
	sid, _ := c.Locals(SessionIDKey).(string)
	return sid
}

// CurrentUser returns the user stored by Protected.
func CurrentUser(c *fiber.Ctx) (domain.User, bool) {
	user, ok := c.Locals(UserKey).(domain.User)
	return user, ok
}
