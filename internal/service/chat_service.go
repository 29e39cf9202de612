package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"learn-assist/internal/cache"
	"learn-assist/internal/config"
	"learn-assist/internal/domain"
	"learn-assist/internal/logger"

	"go.uber.org/zap"
)

const (
	chatSystemInstruction = "You are a helpful AI assistant. Provide concise, accurate, and helpful responses."
	chatFallbackAnswer    = "I couldn't generate a response. Please try a different question."
	msgQuestionInFlight   = "A question is already being answered. Please wait for the response."
)

// ChatExamples are the suggested prompts shown under the question box.
var ChatExamples = []string{
	"Explain quantum computing in simple terms",
	"How do I write a for loop in Python?",
	"What's the difference between UX and UI design?",
	"What is the Pythagorean theorem?",
	"How to develop critical thinking skills?",
}

// ChatService runs the single question/answer exchange of each session.
type ChatService interface {
	SubmitQuestion(ctx context.Context, sessionID, text string) (*domain.ChatExchange, error)
	GetExchange(ctx context.Context, sessionID string) (*domain.ChatExchange, error)
	Examples() []string
	ClearSession(ctx context.Context, sessionID string) error
}

type chatServiceImpl struct {
	completion domain.CompletionService
	cache      domain.Cache
	cfg        config.CompletionConfig
	now        func() time.Time
}

func NewChatService(completion domain.CompletionService, cache domain.Cache, cfg config.CompletionConfig) ChatService {
	return &chatServiceImpl{completion: completion, cache: cache, cfg: cfg, now: time.Now}
}

// SubmitQuestion sends text to the completion service and records the outcome.
// Blank text returns the current exchange untouched. Only one question per
// session may be in flight.
func (s *chatServiceImpl) SubmitQuestion(ctx context.Context, sessionID, text string) (*domain.ChatExchange, error) {
	if strings.TrimSpace(text) == "" {
		return s.GetExchange(ctx, sessionID)
	}

	lockKey := cache.ChatInFlightKey(sessionID)
	acquired, err := s.cache.SetNX(ctx, lockKey, "1", s.cfg.InFlightTTL)
	if err != nil {
		return nil, domain.NewInternalError("failed to reserve chat slot", err)
	}
	if !acquired {
		return nil, domain.NewConflictError(msgQuestionInFlight)
	}
	defer func() {
		if err := s.cache.Delete(context.WithoutCancel(ctx), lockKey); err != nil {
			logger.ForSession(sessionID).Warn("Failed to release chat slot", zap.Error(err))
		}
	}()

	exchange := &domain.ChatExchange{Question: text, Loading: true, UpdatedAt: s.now()}
	if err := s.save(ctx, sessionID, exchange); err != nil {
		return nil, err
	}

	answer, callErr := s.completion.Complete(ctx, domain.CompletionRequest{
		SystemInstruction: chatSystemInstruction,
		UserText:          text,
		Model:             s.cfg.Model,
		Temperature:       s.cfg.Temperature,
		MaxTokens:         s.cfg.MaxTokens,
		TopP:              s.cfg.TopP,
	})

	exchange.Loading = false
	exchange.UpdatedAt = s.now()
	if callErr != nil {
		logger.ForSession(sessionID).Error("Completion request failed", zap.Error(callErr))
		exchange.Error = domain.MsgCompletionUnavailable
		if err := s.save(context.WithoutCancel(ctx), sessionID, exchange); err != nil {
			logger.ForSession(sessionID).Warn("Failed to record chat failure", zap.Error(err))
		}
		return exchange, domain.NewCompletionServiceError(callErr)
	}

	if strings.TrimSpace(answer) == "" {
		answer = chatFallbackAnswer
	}
	exchange.Answer = answer
	if err := s.save(context.WithoutCancel(ctx), sessionID, exchange); err != nil {
		return nil, err
	}
	return exchange, nil
}

// GetExchange returns the last exchange, or an empty one.
func (s *chatServiceImpl) GetExchange(ctx context.Context, sessionID string) (*domain.ChatExchange, error) {
	key := cache.ChatExchangeKey(sessionID)
	raw, err := s.cache.Get(ctx, key)
	if err != nil {
		if errors.Is(err, domain.ErrCacheMiss) {
			return &domain.ChatExchange{}, nil
		}
		return nil, domain.NewInternalError("failed to load chat exchange", err)
	}
	var exchange domain.ChatExchange
	if err := json.Unmarshal([]byte(raw), &exchange); err != nil {
		logger.ForSession(sessionID).Warn("Discarding malformed chat exchange", zap.Error(err))
		_ = s.cache.Delete(ctx, key)
		return &domain.ChatExchange{}, nil
	}
	return &exchange, nil
}

func (s *chatServiceImpl) Examples() []string {
	return append([]string(nil), ChatExamples...)
}

func (s *chatServiceImpl) ClearSession(ctx context.Context, sessionID string) error {
	return errors.Join(
		s.cache.Delete(ctx, cache.ChatExchangeKey(sessionID)),
		s.cache.Delete(ctx, cache.ChatInFlightKey(sessionID)),
	)
}

func (s *chatServiceImpl) save(ctx context.Context, sessionID string, exchange *domain.ChatExchange) error {
	data, err := json.Marshal(exchange)
	if err != nil {
		return domain.NewInternalError("failed to encode chat exchange", err)
	}
	if err := s.cache.Set(ctx, cache.ChatExchangeKey(sessionID), string(data), s.cfg.ExchangeTTL); err != nil {
		return domain.NewInternalError("failed to save chat exchange", err)
	}
	return nil
}
