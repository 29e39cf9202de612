package service

import (
	"context"

	"learn-assist/internal/domain"
	"learn-assist/internal/logger"
	"learn-assist/internal/session"

	"go.uber.org/zap"
)

// UserService reads and edits the signed-in user of a session.
type UserService interface {
	GetProfile(ctx context.Context, sessionID string) (domain.User, error)
	UpdateProfile(ctx context.Context, sessionID string, fields domain.ProfileFields) (domain.User, error)
}

type userServiceImpl struct {
	sessions *session.Manager
	accounts domain.AccountRepository
}

func NewUserService(sessions *session.Manager, accounts domain.AccountRepository) UserService {
	return &userServiceImpl{sessions: sessions, accounts: accounts}
}

func (s *userServiceImpl) GetProfile(ctx context.Context, sessionID string) (domain.User, error) {
	store, err := s.sessions.Open(ctx, sessionID)
	if err != nil {
		return domain.User{}, domain.NewInternalError("failed to open session", err)
	}
	defer store.Close()

	user, ok := store.User()
	if !ok {
		return domain.User{}, domain.NewUnauthorizedError("Not signed in")
	}
	return user, nil
}

// UpdateProfile merges fields into the session user. Sessions signed in against a
// registered account also mirror the change onto that account; guest sessions never
// touch an account, even one with the same email.
func (s *userServiceImpl) UpdateProfile(ctx context.Context, sessionID string, fields domain.ProfileFields) (domain.User, error) {
	fields.Verified = nil
	fields.AccountID = nil
	if fields.EducationLevel != nil && *fields.EducationLevel != "" && !fields.EducationLevel.Valid() {
		return domain.User{}, domain.ValidationErrors{domain.NewInvalidFormatError("educationLevel", *fields.EducationLevel)}
	}

	store, err := s.sessions.Open(ctx, sessionID)
	if err != nil {
		return domain.User{}, domain.NewInternalError("failed to open session", err)
	}
	defer store.Close()

	user, ok, err := store.UpdateProfile(ctx, fields)
	if err != nil {
		return domain.User{}, domain.NewInternalError("failed to update profile", err)
	}
	if !ok {
		return domain.User{}, domain.NewUnauthorizedError("Not signed in")
	}

	if user.AccountID == "" {
		return user, nil
	}
	if err := s.accounts.UpdateProfile(ctx, user.Email, fields); err != nil {
		logger.Get().Warn("Failed to mirror profile onto account", zap.String("email", user.Email), zap.Error(err))
	}
	return user, nil
}
