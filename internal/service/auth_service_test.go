package service

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"learn-assist/internal/cache"
	"learn-assist/internal/config"
	"learn-assist/internal/domain"
	"learn-assist/internal/session"
	"learn-assist/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

const testSecret = "testsecretkeydontuseinproduction32bytes!"

func newTestAuthService(t *testing.T, repo *MockAccountRepository, cleaners ...SessionCleaner) (*authServiceImpl, *memoryCache) {
	c := newMemoryCache()
	cfg := &config.Config{JWT: config.JWTConfig{SecretKey: testSecret, AccessTokenTTL: 15 * time.Minute}}
	svc, err := NewAuthService(repo, session.NewManager(c, time.Hour), cfg, cleaners...)
	require.NoError(t, err)
	return svc.(*authServiceImpl), c
}

func TestNewAuthService_ShortSecret(t *testing.T) {
	_, err := NewAuthService(new(MockAccountRepository), nil, &config.Config{JWT: config.JWTConfig{SecretKey: "short"}})
	assert.Error(t, err)
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()

	t.Run("guest", func(t *testing.T) {
		repo := new(MockAccountRepository)
		repo.On("GetAccountByEmail", mock.Anything, "guest@example.com").Return(nil, nil)
		svc, c := newTestAuthService(t, repo)

		res, err := svc.Login(ctx, " Guest@Example.com ", "")
		require.NoError(t, err)
		assert.Equal(t, "guest@example.com", res.User.Email)
		assert.False(t, res.User.Verified)
		assert.True(t, c.has(cache.SessionUserKey(res.SessionID)))

		claims, err := svc.ValidateJWT(ctx, res.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, res.SessionID, claims.SessionID)
		assert.Equal(t, res.SessionID, claims.Subject)
		assert.NotEmpty(t, claims.ID)
		repo.AssertExpectations(t)
	})

	t.Run("registered account", func(t *testing.T) {
		hash, err := util.HashPassword("secret1")
		require.NoError(t, err)
		repo := new(MockAccountRepository)
		repo.On("GetAccountByEmail", mock.Anything, "asha@example.com").Return(&domain.Account{
			ID:           "01HZACCOUNT000000000000000",
			Email:        "asha@example.com",
			FullName:     "Asha Rao",
			PasswordHash: hash,
			Occupation:   domain.OccupationStudent,
		}, nil)
		svc, _ := newTestAuthService(t, repo)

		_, err = svc.Login(ctx, "asha@example.com", "wrong")
		var derr *domain.DomainError
		require.ErrorAs(t, err, &derr)
		assert.Equal(t, domain.CodeInvalidCredentials, derr.Code)

		res, err := svc.Login(ctx, "asha@example.com", "secret1")
		require.NoError(t, err)
		assert.Equal(t, "Asha Rao", res.User.FullName)
		assert.Equal(t, "01HZACCOUNT000000000000000", res.User.AccountID)
		assert.Equal(t, domain.OccupationStudent, res.User.Occupation)
		assert.True(t, res.User.Verified)
	})

	t.Run("invalid email", func(t *testing.T) {
		svc, _ := newTestAuthService(t, new(MockAccountRepository))
		_, err := svc.Login(ctx, "not-an-email", "")
		var verrs domain.ValidationErrors
		require.ErrorAs(t, err, &verrs)
		assert.Equal(t, "Please enter a valid email address", verrs[0].Message)
	})

	t.Run("repository failure", func(t *testing.T) {
		repo := new(MockAccountRepository)
		repo.On("GetAccountByEmail", mock.Anything, "a@b.co").Return(nil, errors.New("db down"))
		svc, _ := newTestAuthService(t, repo)
		_, err := svc.Login(ctx, "a@b.co", "")
		var derr *domain.DomainError
		require.ErrorAs(t, err, &derr)
		assert.Equal(t, domain.CodeInternal, derr.Code)
	})
}

func TestAuthService_Logout(t *testing.T) {
	ctx := context.Background()
	repo := new(MockAccountRepository)
	repo.On("GetAccountByEmail", mock.Anything, mock.Anything).Return(nil, nil)
	ok := &MockSessionCleaner{}
	failing := &MockSessionCleaner{err: errors.New("redis down")}
	svc, c := newTestAuthService(t, repo, failing, ok)

	res, err := svc.Login(ctx, "a@b.co", "")
	require.NoError(t, err)

	err = svc.Logout(ctx, res.SessionID)
	assert.Error(t, err)
	assert.Equal(t, []string{res.SessionID}, ok.cleared)
	assert.Equal(t, []string{res.SessionID}, failing.cleared)
	assert.False(t, c.has(cache.SessionUserKey(res.SessionID)))

	failing.err = nil
	assert.NoError(t, svc.Logout(ctx, res.SessionID))
}

func TestAuthService_ValidateJWT(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestAuthService(t, new(MockAccountRepository))

	token, _, err := svc.CreateJWT("sess-1", "a@b.co")
	require.NoError(t, err)
	_, err = svc.ValidateJWT(ctx, token+"x")
	assert.ErrorIs(t, err, ErrInvalidJWTToken)

	svc.now = func() time.Time { return time.Now().Add(-time.Hour) }
	expired, _, err := svc.CreateJWT("sess-1", "a@b.co")
	require.NoError(t, err)
	_, err = svc.ValidateJWT(ctx, expired)
	assert.ErrorIs(t, err, ErrInvalidJWTToken)
}

func TestAuthService_HandleGoogleCallback(t *testing.T) {
	ctx := context.Background()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/token":
			_ = json.NewEncoder(w).Encode(map[string]interface{}{
				"access_token": "google-token",
				"token_type":   "Bearer",
				"expires_in":   3600,
			})
		case "/userinfo":
			assert.Equal(t, "Bearer google-token", r.Header.Get("Authorization"))
			_ = json.NewEncoder(w).Encode(map[string]interface{}{
				"id":             "g-1",
				"email":          "Ravi@Example.com",
				"verified_email": true,
				"name":           "Ravi",
			})
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	repo := new(MockAccountRepository)
	repo.On("GetAccountByEmail", mock.Anything, "ravi@example.com").Return(nil, nil)
	svc, _ := newTestAuthService(t, repo)
	svc.oauth2Config.Endpoint = oauth2.Endpoint{AuthURL: srv.URL + "/auth", TokenURL: srv.URL + "/token"}
	svc.userInfoURL = srv.URL + "/userinfo"

	assert.Contains(t, svc.GetGoogleLoginURL("st4te"), "state=st4te")

	_, err := svc.HandleGoogleCallback(ctx, "code", "a", "b")
	assert.ErrorIs(t, err, ErrInvalidAuthState)

	res, err := svc.HandleGoogleCallback(ctx, "code", "st4te", "st4te")
	require.NoError(t, err)
	assert.Equal(t, "ravi@example.com", res.User.Email)
	assert.Equal(t, "Ravi", res.User.FullName)
	assert.True(t, res.User.Verified)
}

func newGoogleTestServer(t *testing.T, email string, verified bool) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/token":
			_ = json.NewEncoder(w).Encode(map[string]interface{}{
				"access_token": "google-token",
				"token_type":   "Bearer",
				"expires_in":   3600,
			})
		case "/userinfo":
			_ = json.NewEncoder(w).Encode(map[string]interface{}{
				"id":             "g-2",
				"email":          email,
				"verified_email": verified,
				"name":           "Google Name",
			})
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestAuthService_HandleGoogleCallback_AccountBinding(t *testing.T) {
	ctx := context.Background()
	account := &domain.Account{
		ID:         "01HZACCOUNT000000000000000",
		Email:      "asha@example.com",
		FullName:   "Asha Rao",
		Occupation: domain.OccupationStudent,
	}

	tests := []struct {
		name          string
		verified      bool
		wantAccountID string
		wantFullName  string
		wantVerified  bool
	}{
		{name: "verified google email binds the account", verified: true,
			wantAccountID: account.ID, wantFullName: "Asha Rao", wantVerified: true},
		{name: "unverified google email stays a guest", verified: false,
			wantAccountID: "", wantFullName: "Google Name", wantVerified: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newGoogleTestServer(t, "asha@example.com", tt.verified)
			repo := new(MockAccountRepository)
			repo.On("GetAccountByEmail", mock.Anything, "asha@example.com").Return(account, nil)
			svc, _ := newTestAuthService(t, repo)
			svc.oauth2Config.Endpoint = oauth2.Endpoint{AuthURL: srv.URL + "/auth", TokenURL: srv.URL + "/token"}
			svc.userInfoURL = srv.URL + "/userinfo"

			res, err := svc.HandleGoogleCallback(ctx, "code", "st4te", "st4te")
			require.NoError(t, err)
			assert.Equal(t, tt.wantAccountID, res.User.AccountID)
			assert.Equal(t, tt.wantFullName, res.User.FullName)
			assert.Equal(t, tt.wantVerified, res.User.Verified)
			if !tt.verified {
				assert.Empty(t, res.User.Occupation)
			}
		})
	}
}
