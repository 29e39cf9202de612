package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"learn-assist/internal/cache"
	"learn-assist/internal/domain"
	"learn-assist/internal/dto"
	"learn-assist/internal/logger"
	"learn-assist/internal/registration"
	"learn-assist/internal/util"

	"go.uber.org/zap"
)

const msgRegistrationNotFound = "Registration not found or expired. Please start again."

// RegistrationService drives the sign-up wizard. Wizard state lives in the cache
// under a registration id until the final step persists the account.
type RegistrationService interface {
	Start(ctx context.Context, req dto.RegisterAccountRequest) (*dto.RegistrationResponse, error)
	Get(ctx context.Context, id string) (*dto.RegistrationResponse, error)
	Verify(ctx context.Context, id string, code []string) (*dto.RegistrationResponse, error)
	ChooseOccupation(ctx context.Context, id string, occupation domain.Occupation) (*dto.RegistrationResponse, error)
	ChooseEducation(ctx context.Context, id string, level domain.EducationLevel) (*dto.RegistrationResponse, error)
	ChooseDegree(ctx context.Context, id, degree string) (*dto.RegistrationResponse, error)
	SendFeedback(ctx context.Context, id string, req dto.FeedbackRequest) (*dto.RegistrationResponse, error)
}

type registrationServiceImpl struct {
	accounts domain.AccountRepository
	tx       domain.TransactionManager
	cache    domain.Cache
	ttl      time.Duration
	hash     registration.PasswordHasher
}

func NewRegistrationService(accounts domain.AccountRepository, tx domain.TransactionManager, cache domain.Cache, ttl time.Duration) RegistrationService {
	return &registrationServiceImpl{
		accounts: accounts,
		tx:       tx,
		cache:    cache,
		ttl:      ttl,
		hash:     util.HashPassword,
	}
}

func (s *registrationServiceImpl) Start(ctx context.Context, req dto.RegisterAccountRequest) (*dto.RegistrationResponse, error) {
	next, err := registration.AwaitingAccount{}.SubmitAccount(registration.AccountInput{
		FullName:        req.FullName,
		Email:           req.Email,
		Phone:           req.Phone,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
	}, s.hash)
	if err != nil {
		return nil, err
	}

	existing, err := s.accounts.GetAccountByEmail(ctx, next.Account.Email)
	if err != nil {
		return nil, domain.NewInternalError("failed to check email", err)
	}
	if existing != nil {
		return nil, domain.NewAlreadyRegisteredError(next.Account.Email)
	}

	id := util.NewULID()
	if err := s.save(ctx, id, next); err != nil {
		return nil, err
	}
	logger.Get().Info("Registration started", zap.String("registration_id", id))
	return toRegistrationResponse(id, next), nil
}

func (s *registrationServiceImpl) Get(ctx context.Context, id string) (*dto.RegistrationResponse, error) {
	step, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return toRegistrationResponse(id, step), nil
}

func (s *registrationServiceImpl) Verify(ctx context.Context, id string, code []string) (*dto.RegistrationResponse, error) {
	return advance(ctx, s, id, func(st registration.AwaitingVerification) (registration.Step, error) {
		return st.Verify(code)
	})
}

func (s *registrationServiceImpl) ChooseOccupation(ctx context.Context, id string, occupation domain.Occupation) (*dto.RegistrationResponse, error) {
	return advance(ctx, s, id, func(st registration.AwaitingOccupation) (registration.Step, error) {
		return st.ChooseOccupation(occupation)
	})
}

func (s *registrationServiceImpl) ChooseEducation(ctx context.Context, id string, level domain.EducationLevel) (*dto.RegistrationResponse, error) {
	return advance(ctx, s, id, func(st registration.AwaitingEducation) (registration.Step, error) {
		return st.ChooseEducation(level)
	})
}

func (s *registrationServiceImpl) ChooseDegree(ctx context.Context, id, degree string) (*dto.RegistrationResponse, error) {
	return advance(ctx, s, id, func(st registration.AwaitingDegree) (registration.Step, error) {
		return st.ChooseDegree(degree)
	})
}

// SendFeedback finishes the wizard, persists the account and drops the wizard state.
func (s *registrationServiceImpl) SendFeedback(ctx context.Context, id string, req dto.FeedbackRequest) (*dto.RegistrationResponse, error) {
	step, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	current, ok := step.(registration.AwaitingFeedback)
	if !ok {
		return nil, wrongStep(step, registration.StepFeedback)
	}
	done, err := current.SendFeedback(registration.Feedback{Rating: req.Rating, Text: req.Feedback, Email: req.Email})
	if err != nil {
		return nil, err
	}

	account := done.Account()
	err = s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		existing, err := s.accounts.GetAccountByEmail(ctx, account.Email)
		if err != nil {
			return domain.NewInternalError("failed to check email", err)
		}
		if existing != nil {
			return domain.NewAlreadyRegisteredError(account.Email)
		}
		return s.accounts.CreateAccount(ctx, account)
	})
	if err != nil {
		var derr *domain.DomainError
		if errors.As(err, &derr) {
			return nil, err
		}
		return nil, domain.NewInternalError("failed to create account", err)
	}

	if err := s.cache.Delete(ctx, cache.RegistrationKey(id)); err != nil {
		logger.Get().Warn("Failed to drop finished registration", zap.String("registration_id", id), zap.Error(err))
	}
	logger.Get().Info("Registration completed", zap.String("registration_id", id), zap.String("account_id", account.ID))
	return toRegistrationResponse(id, done), nil
}

// advance applies fn when the stored step is a T and saves the result.
func advance[T registration.Step](ctx context.Context, s *registrationServiceImpl, id string, fn func(T) (registration.Step, error)) (*dto.RegistrationResponse, error) {
	step, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	current, ok := step.(T)
	if !ok {
		var want T
		return nil, wrongStep(step, want.Name())
	}
	next, err := fn(current)
	if err != nil {
		return nil, err
	}
	if err := s.save(ctx, id, next); err != nil {
		return nil, err
	}
	return toRegistrationResponse(id, next), nil
}

func wrongStep(step registration.Step, want registration.StepName) error {
	return domain.NewConflictError(fmt.Sprintf("Registration is at the %s step, not %s", step.Name(), want)).
		WithContext("step", string(step.Name()))
}

func (s *registrationServiceImpl) load(ctx context.Context, id string) (registration.Step, error) {
	raw, err := s.cache.Get(ctx, cache.RegistrationKey(id))
	if err != nil {
		if errors.Is(err, domain.ErrCacheMiss) {
			return nil, domain.NewNotFoundError(msgRegistrationNotFound)
		}
		return nil, domain.NewInternalError("failed to load registration", err)
	}
	step, err := registration.Unmarshal([]byte(raw))
	if err != nil {
		logger.Get().Warn("Discarding malformed registration", zap.String("registration_id", id), zap.Error(err))
		_ = s.cache.Delete(ctx, cache.RegistrationKey(id))
		return nil, domain.NewNotFoundError(msgRegistrationNotFound)
	}
	return step, nil
}

func (s *registrationServiceImpl) save(ctx context.Context, id string, step registration.Step) error {
	data, err := registration.Marshal(step)
	if err != nil {
		return domain.NewInternalError("failed to encode registration", err)
	}
	if err := s.cache.Set(ctx, cache.RegistrationKey(id), string(data), s.ttl); err != nil {
		return domain.NewInternalError("failed to save registration", err)
	}
	return nil
}

func toRegistrationResponse(id string, step registration.Step) *dto.RegistrationResponse {
	resp := &dto.RegistrationResponse{
		ID:        id,
		Step:      step.Name(),
		Email:     registration.Email(step),
		Completed: step.Name() == registration.StepDone,
	}
	if step.Name() == registration.StepDegree {
		resp.Degrees = domain.KnownDegrees
	}
	return resp
}
