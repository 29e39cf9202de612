package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"learn-assist/internal/cache"
	"learn-assist/internal/domain"
	"learn-assist/internal/dto"
	"learn-assist/internal/logger"
	"learn-assist/internal/quiz"

	"go.uber.org/zap"
)

// QuizService runs the practice quiz of each session over the shared bank.
type QuizService interface {
	Levels() *dto.LevelsResponse
	GetState(ctx context.Context, sessionID string) (*dto.QuizStateResponse, error)
	SelectLevel(ctx context.Context, sessionID string, level domain.Level) (*dto.QuizStateResponse, error)
	StartPractice(ctx context.Context, sessionID string) (*dto.QuizStateResponse, error)
	SelectAnswer(ctx context.Context, sessionID string, index int) (*dto.QuizStateResponse, error)
	SubmitAnswer(ctx context.Context, sessionID string) (*dto.QuizStateResponse, error)
	ClearSession(ctx context.Context, sessionID string) error
}

type quizServiceImpl struct {
	machine      *quiz.Machine
	cache        domain.Cache
	defaultLevel domain.Level
	ttl          time.Duration
}

func NewQuizService(machine *quiz.Machine, cache domain.Cache, defaultLevel domain.Level, ttl time.Duration) (QuizService, error) {
	if !defaultLevel.Valid() {
		return nil, fmt.Errorf("invalid default quiz level %q", defaultLevel)
	}
	return &quizServiceImpl{machine: machine, cache: cache, defaultLevel: defaultLevel, ttl: ttl}, nil
}

func (s *quizServiceImpl) Levels() *dto.LevelsResponse {
	return &dto.LevelsResponse{Levels: s.machine.Bank().Levels()}
}

func (s *quizServiceImpl) GetState(ctx context.Context, sessionID string) (*dto.QuizStateResponse, error) {
	state, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return s.view(state, ""), nil
}

func (s *quizServiceImpl) SelectLevel(ctx context.Context, sessionID string, level domain.Level) (*dto.QuizStateResponse, error) {
	state, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if err := s.machine.SelectLevel(&state, level); err != nil {
		return nil, err
	}
	return s.saveAndView(ctx, sessionID, state, "")
}

// StartPractice draws a question. A level without questions is reported through
// the response message, not as an error.
func (s *quizServiceImpl) StartPractice(ctx context.Context, sessionID string) (*dto.QuizStateResponse, error) {
	state, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !s.machine.StartPractice(&state) {
		return s.view(state, quiz.MsgNoQuestionsFound), nil
	}
	return s.saveAndView(ctx, sessionID, state, "")
}

func (s *quizServiceImpl) SelectAnswer(ctx context.Context, sessionID string, index int) (*dto.QuizStateResponse, error) {
	state, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if err := s.machine.SelectAnswer(&state, index); err != nil {
		return nil, err
	}
	return s.saveAndView(ctx, sessionID, state, "")
}

func (s *quizServiceImpl) SubmitAnswer(ctx context.Context, sessionID string) (*dto.QuizStateResponse, error) {
	state, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !s.machine.SubmitAnswer(&state) {
		return s.view(state, ""), nil
	}
	return s.saveAndView(ctx, sessionID, state, "")
}

func (s *quizServiceImpl) ClearSession(ctx context.Context, sessionID string) error {
	return s.cache.Delete(ctx, cache.QuizStateKey(sessionID))
}

// load returns the stored state, repaired against the bank. Missing or
// unreadable state starts fresh at the default level.
func (s *quizServiceImpl) load(ctx context.Context, sessionID string) (quiz.State, error) {
	key := cache.QuizStateKey(sessionID)
	raw, err := s.cache.Get(ctx, key)
	if err != nil {
		if errors.Is(err, domain.ErrCacheMiss) {
			return quiz.NewState(s.defaultLevel), nil
		}
		return quiz.State{}, domain.NewInternalError("failed to load quiz state", err)
	}

	var state quiz.State
	if err := json.Unmarshal([]byte(raw), &state); err != nil {
		logger.ForSession(sessionID).Warn("Discarding malformed quiz state", zap.Error(err))
		if delErr := s.cache.Delete(ctx, key); delErr != nil {
			logger.ForSession(sessionID).Warn("Failed to delete malformed quiz state", zap.Error(delErr))
		}
		return quiz.NewState(s.defaultLevel), nil
	}
	s.machine.Normalize(&state, s.defaultLevel)
	return state, nil
}

func (s *quizServiceImpl) saveAndView(ctx context.Context, sessionID string, state quiz.State, message string) (*dto.QuizStateResponse, error) {
	data, err := json.Marshal(state)
	if err != nil {
		return nil, domain.NewInternalError("failed to encode quiz state", err)
	}
	if err := s.cache.Set(ctx, cache.QuizStateKey(sessionID), string(data), s.ttl); err != nil {
		return nil, domain.NewInternalError("failed to save quiz state", err)
	}
	return s.view(state, message), nil
}

func (s *quizServiceImpl) view(state quiz.State, message string) *dto.QuizStateResponse {
	resp := &dto.QuizStateResponse{
		Level:          state.Level,
		Phase:          state.Phase(),
		SelectedAnswer: state.SelectedAnswer,
		Revealed:       state.Revealed,
		Message:        message,
	}
	if q, ok := s.machine.Current(state); ok {
		resp.Question = &dto.QuestionView{
			ID:      q.ID,
			Text:    q.Text,
			Options: q.Options,
			Level:   q.Level,
			Subject: q.Subject,
		}
	}
	if res, ok := s.machine.Result(state); ok {
		resp.Result = res
	}
	return resp
}
