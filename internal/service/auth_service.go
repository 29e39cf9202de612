package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"learn-assist/internal/config"
	"learn-assist/internal/domain"
	"learn-assist/internal/dto"
	"learn-assist/internal/logger"
	"learn-assist/internal/session"
	"learn-assist/internal/util"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const (
	googleUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"
	tokenTypeAccess   = "access"
)

var (
	ErrInvalidAuthState      = errors.New("invalid oauth state")
	ErrFailedToExchangeToken = errors.New("failed to exchange oauth token")
	ErrFailedToGetUserInfo   = errors.New("failed to get user info from google")
	ErrInvalidJWTToken       = errors.New("invalid jwt token")
)

// SessionCleaner drops per-session state owned by a feature when the user logs out.
type SessionCleaner interface {
	ClearSession(ctx context.Context, sessionID string) error
}

// AuthResult is a freshly signed-in session.
type AuthResult struct {
	AccessToken string
	SessionID   string
	ExpiresAt   time.Time
	User        domain.User
}

// AuthService defines the interface for authentication operations.
type AuthService interface {
	Login(ctx context.Context, email, password string) (*AuthResult, error)
	GetGoogleLoginURL(state string) string
	HandleGoogleCallback(ctx context.Context, code, receivedState, expectedState string) (*AuthResult, error)
	Logout(ctx context.Context, sessionID string) error
	CreateJWT(sessionID, email string) (string, time.Time, error)
	ValidateJWT(ctx context.Context, tokenString string) (*dto.AuthClaims, error)
}

type authServiceImpl struct {
	accounts     domain.AccountRepository
	sessions     *session.Manager
	cleaners     []SessionCleaner
	oauth2Config *oauth2.Config
	userInfoURL  string
	jwtCfg       config.JWTConfig
	now          func() time.Time
}

// NewAuthService creates a new instance of AuthService. Cleaners run on every logout.
func NewAuthService(accounts domain.AccountRepository, sessions *session.Manager, cfg *config.Config, cleaners ...SessionCleaner) (AuthService, error) {
	if len(cfg.JWT.SecretKey) < 32 {
		return nil, errors.New("jwt secret key must be at least 32 bytes long")
	}
	return &authServiceImpl{
		accounts: accounts,
		sessions: sessions,
		cleaners: cleaners,
		oauth2Config: &oauth2.Config{
			ClientID:     cfg.GoogleOAuth.ClientID,
			ClientSecret: cfg.GoogleOAuth.ClientSecret,
			RedirectURL:  cfg.GoogleOAuth.RedirectURL,
			Scopes: []string{
				"https://www.googleapis.com/auth/userinfo.email",
				"https://www.googleapis.com/auth/userinfo.profile",
			},
			Endpoint: google.Endpoint,
		},
		userInfoURL: googleUserInfoURL,
		jwtCfg:      cfg.JWT,
		now:         time.Now,
	}, nil
}

// Login signs in by email. Registered accounts must present their password and
// bring their stored profile; any other address signs in as an unverified guest.
func (s *authServiceImpl) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, domain.ValidationErrors{domain.NewFieldError("email", "Please enter a valid email address")}
	}

	account, err := s.accounts.GetAccountByEmail(ctx, email)
	if err != nil {
		return nil, domain.NewInternalError("failed to look up account", err)
	}

	var fields domain.ProfileFields
	if account != nil {
		if !util.CheckPassword(account.PasswordHash, password) {
			logger.Get().Info("Rejected login with wrong password", zap.String("email", email))
			return nil, domain.NewInvalidCredentialsError()
		}
		fields = account.Profile()
	}
	return s.startSession(ctx, email, fields)
}

func (s *authServiceImpl) GetGoogleLoginURL(state string) string {
	return s.oauth2Config.AuthCodeURL(state, oauth2.AccessTypeOnline)
}

// HandleGoogleCallback exchanges the code, fetches the Google profile and signs the
// user in. A registered account with the same email contributes its profile only
// when Google reports the address as verified.
func (s *authServiceImpl) HandleGoogleCallback(ctx context.Context, code, receivedState, expectedState string) (*AuthResult, error) {
	if receivedState == "" || receivedState != expectedState {
		return nil, ErrInvalidAuthState
	}

	googleToken, err := s.oauth2Config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFailedToExchangeToken, err)
	}

	client := s.oauth2Config.Client(ctx, googleToken)
	resp, err := client.Get(s.userInfoURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFailedToGetUserInfo, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != 200 {
		return nil, fmt.Errorf("%w: status %d", ErrFailedToGetUserInfo, resp.StatusCode)
	}

	var userInfo dto.GoogleUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&userInfo); err != nil {
		return nil, fmt.Errorf("failed to decode user info: %w", err)
	}
	if userInfo.Email == "" {
		return nil, fmt.Errorf("%w: email missing", ErrFailedToGetUserInfo)
	}

	email := strings.ToLower(userInfo.Email)
	var fields domain.ProfileFields
	account, err := s.accounts.GetAccountByEmail(ctx, email)
	if err != nil {
		return nil, domain.NewInternalError("failed to look up account", err)
	}
	if account != nil && userInfo.VerifiedEmail {
		fields = account.Profile()
	} else {
		if account != nil {
			logger.Get().Warn("Google email not verified, signing in without account", zap.String("email", email))
		}
		verified := userInfo.VerifiedEmail
		fields.Verified = &verified
		if userInfo.Name != "" {
			name := userInfo.Name
			fields.FullName = &name
		}
	}

	logger.Get().Info("User logged in via Google OAuth", zap.String("email", email))
	return s.startSession(ctx, email, fields)
}

func (s *authServiceImpl) startSession(ctx context.Context, email string, fields domain.ProfileFields) (*AuthResult, error) {
	sessionID := s.sessions.NewSessionID()
	store, err := s.sessions.Open(ctx, sessionID)
	if err != nil {
		return nil, domain.NewInternalError("failed to open session", err)
	}
	defer store.Close()

	user, err := store.Login(ctx, email, fields)
	if err != nil {
		return nil, err
	}

	token, expiresAt, err := s.CreateJWT(sessionID, email)
	if err != nil {
		return nil, domain.NewInternalError("failed to create access token", err)
	}
	return &AuthResult{AccessToken: token, SessionID: sessionID, ExpiresAt: expiresAt, User: user}, nil
}

// Logout clears the session user and every feature's per-session state. All
// cleaners run even when one fails.
func (s *authServiceImpl) Logout(ctx context.Context, sessionID string) error {
	store, err := s.sessions.Open(ctx, sessionID)
	if err != nil {
		return domain.NewInternalError("failed to open session", err)
	}
	defer store.Close()

	errs := []error{store.Logout(ctx)}
	for _, c := range s.cleaners {
		if err := c.ClearSession(ctx, sessionID); err != nil {
			logger.Get().Warn("Failed to clear session state", zap.String("sessionID", sessionID), zap.Error(err))
			errs = append(errs, err)
		}
	}
	if err := errors.Join(errs...); err != nil {
		return domain.NewInternalError("failed to clear session", err)
	}
	return nil
}

func (s *authServiceImpl) CreateJWT(sessionID, email string) (string, time.Time, error) {
	now := s.now()
	expiresAt := now.Add(s.jwtCfg.AccessTokenTTL)
	claims := dto.AuthClaims{
		SessionID: sessionID,
		Email:     email,
		TokenType: tokenTypeAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Subject:   sessionID,
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.jwtCfg.SecretKey))
	return signed, expiresAt, err
}

func (s *authServiceImpl) ValidateJWT(ctx context.Context, tokenString string) (*dto.AuthClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &dto.AuthClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.jwtCfg.SecretKey), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			logger.Get().Debug("JWT token expired", zap.Error(err))
		} else {
			logger.Get().Warn("JWT validation failed", zap.Error(err))
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidJWTToken, err)
	}

	claims, ok := token.Claims.(*dto.AuthClaims)
	if !ok || !token.Valid || claims.SessionID == "" {
		return nil, ErrInvalidJWTToken
	}
	if claims.TokenType != tokenTypeAccess {
		return nil, fmt.Errorf("%w: unexpected token type %q", ErrInvalidJWTToken, claims.TokenType)
	}
	return claims, nil
}
