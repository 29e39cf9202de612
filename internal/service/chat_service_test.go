package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"learn-assist/internal/cache"
	"learn-assist/internal/config"
	"learn-assist/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCompletionConfig() config.CompletionConfig {
	return config.CompletionConfig{
		Model:       "llama-3.3-70b-versatile",
		Temperature: 0.5,
		MaxTokens:   1024,
		TopP:        1,
		InFlightTTL: time.Minute,
		ExchangeTTL: time.Hour,
	}
}

func TestChatService_SubmitQuestion(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		c := newMemoryCache()
		var got domain.CompletionRequest
		completion := &MockCompletionService{CompleteFunc: func(ctx context.Context, req domain.CompletionRequest) (string, error) {
			got = req
			return "A right triangle relation.", nil
		}}
		svc := NewChatService(completion, c, testCompletionConfig())

		exchange, err := svc.SubmitQuestion(ctx, "s1", "What is the Pythagorean theorem?")
		require.NoError(t, err)
		assert.Equal(t, "A right triangle relation.", exchange.Answer)
		assert.False(t, exchange.Loading)
		assert.Empty(t, exchange.Error)

		assert.Equal(t, chatSystemInstruction, got.SystemInstruction)
		assert.Equal(t, "What is the Pythagorean theorem?", got.UserText)
		assert.Equal(t, "llama-3.3-70b-versatile", got.Model)
		assert.Equal(t, 1024, got.MaxTokens)
		assert.False(t, c.has(cache.ChatInFlightKey("s1")))

		stored, err := svc.GetExchange(ctx, "s1")
		require.NoError(t, err)
		assert.Equal(t, exchange.Answer, stored.Answer)
	})

	t.Run("answer is kept when the request is cancelled", func(t *testing.T) {
		c := newMemoryCache()
		c.honorCtx = true
		reqCtx, cancel := context.WithCancel(ctx)
		defer cancel()
		completion := &MockCompletionService{CompleteFunc: func(ctx context.Context, req domain.CompletionRequest) (string, error) {
			cancel()
			return "answer", nil
		}}
		svc := NewChatService(completion, c, testCompletionConfig())

		exchange, err := svc.SubmitQuestion(reqCtx, "s1", "Why is the sky blue?")
		require.NoError(t, err)
		assert.Equal(t, "answer", exchange.Answer)

		stored, err := svc.GetExchange(ctx, "s1")
		require.NoError(t, err)
		assert.False(t, stored.Loading)
		assert.Equal(t, "answer", stored.Answer)
		assert.False(t, c.has(cache.ChatInFlightKey("s1")))
	})

	t.Run("blank text never calls the service", func(t *testing.T) {
		completion := &MockCompletionService{CompleteFunc: func(ctx context.Context, req domain.CompletionRequest) (string, error) {
			t.Fatal("unexpected completion call")
			return "", nil
		}}
		svc := NewChatService(completion, newMemoryCache(), testCompletionConfig())

		for _, text := range []string{"", "   ", "\n\t"} {
			exchange, err := svc.SubmitQuestion(ctx, "s1", text)
			require.NoError(t, err)
			assert.Equal(t, &domain.ChatExchange{}, exchange)
		}
		assert.Zero(t, completion.calls)
	})

	t.Run("empty answer uses fallback", func(t *testing.T) {
		completion := &MockCompletionService{CompleteFunc: func(ctx context.Context, req domain.CompletionRequest) (string, error) {
			return "  ", nil
		}}
		svc := NewChatService(completion, newMemoryCache(), testCompletionConfig())

		exchange, err := svc.SubmitQuestion(ctx, "s1", "hi")
		require.NoError(t, err)
		assert.Equal(t, chatFallbackAnswer, exchange.Answer)
	})

	t.Run("failure records the user facing error", func(t *testing.T) {
		c := newMemoryCache()
		completion := &MockCompletionService{CompleteFunc: func(ctx context.Context, req domain.CompletionRequest) (string, error) {
			return "", errors.New("connection refused")
		}}
		svc := NewChatService(completion, c, testCompletionConfig())

		exchange, err := svc.SubmitQuestion(ctx, "s1", "hi")
		var derr *domain.DomainError
		require.ErrorAs(t, err, &derr)
		assert.Equal(t, domain.CodeCompletionService, derr.Code)
		assert.Equal(t, domain.MsgCompletionUnavailable, derr.Message)
		require.NotNil(t, exchange)
		assert.Empty(t, exchange.Answer)
		assert.False(t, exchange.Loading)
		assert.Equal(t, domain.MsgCompletionUnavailable, exchange.Error)
		assert.Equal(t, 1, completion.calls)
		assert.False(t, c.has(cache.ChatInFlightKey("s1")))
	})

	t.Run("second question while one is in flight", func(t *testing.T) {
		c := newMemoryCache()
		completion := &MockCompletionService{CompleteFunc: func(ctx context.Context, req domain.CompletionRequest) (string, error) {
			return "ok", nil
		}}
		svc := NewChatService(completion, c, testCompletionConfig())
		_, err := c.SetNX(ctx, cache.ChatInFlightKey("s1"), "1", time.Minute)
		require.NoError(t, err)

		_, err = svc.SubmitQuestion(ctx, "s1", "hi")
		var derr *domain.DomainError
		require.ErrorAs(t, err, &derr)
		assert.Equal(t, domain.CodeConflict, derr.Code)
		assert.Zero(t, completion.calls)
	})
}

func TestChatService_ClearSessionAndExamples(t *testing.T) {
	ctx := context.Background()
	c := newMemoryCache()
	completion := &MockCompletionService{CompleteFunc: func(ctx context.Context, req domain.CompletionRequest) (string, error) {
		return "ok", nil
	}}
	svc := NewChatService(completion, c, testCompletionConfig())

	_, err := svc.SubmitQuestion(ctx, "s1", "hi")
	require.NoError(t, err)
	require.NoError(t, svc.ClearSession(ctx, "s1"))
	assert.False(t, c.has(cache.ChatExchangeKey("s1")))

	examples := svc.Examples()
	assert.Len(t, examples, 5)
	examples[0] = "changed"
	assert.Equal(t, "Explain quantum computing in simple terms", svc.Examples()[0])
}
