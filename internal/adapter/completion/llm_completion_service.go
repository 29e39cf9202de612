package completion

import (
	"context"
	"fmt"
	"net/http"

	"learn-assist/internal/domain"
	"learn-assist/internal/logger"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"
	"go.uber.org/zap"
)

// LLMCompletionService implements domain.CompletionService on top of a langchaingo model.
type LLMCompletionService struct {
	model llms.Model
}

// NewLLMCompletionService wraps an already constructed model.
func NewLLMCompletionService(model llms.Model) (*LLMCompletionService, error) {
	if model == nil {
		return nil, fmt.Errorf("completion model cannot be nil")
	}
	return &LLMCompletionService{model: model}, nil
}

// NewOpenAICompatible builds a client for any OpenAI-compatible chat completions API,
// e.g. Groq at https://api.groq.com/openai/v1.
func NewOpenAICompatible(apiKey, baseURL, model string, httpClient *http.Client) (*LLMCompletionService, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("completion API key cannot be empty")
	}
	if model == "" {
		return nil, fmt.Errorf("completion model name cannot be empty")
	}

	opts := []openai.Option{
		openai.WithToken(apiKey),
		openai.WithModel(model),
	}
	if baseURL != "" {
		opts = append(opts, openai.WithBaseURL(baseURL))
	}
	if httpClient != nil {
		opts = append(opts, openai.WithHTTPClient(httpClient))
	}

	llm, err := openai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create OpenAI-compatible LLM client: %w", err)
	}
	return NewLLMCompletionService(llm)
}

// NewOllama builds a client for a local Ollama server.
func NewOllama(serverURL, model string, httpClient *http.Client) (*LLMCompletionService, error) {
	if serverURL == "" {
		return nil, fmt.Errorf("ollama server URL cannot be empty")
	}
	if model == "" {
		return nil, fmt.Errorf("ollama model name cannot be empty")
	}

	opts := []ollama.Option{
		ollama.WithServerURL(serverURL),
		ollama.WithModel(model),
	}
	if httpClient != nil {
		opts = append(opts, ollama.WithHTTPClient(httpClient))
	}

	llm, err := ollama.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Ollama LLM client: %w", err)
	}
	return NewLLMCompletionService(llm)
}

// Complete sends one system message and one user message and returns the first choice.
// No choices, or an empty choice, yield an empty answer.
func (s *LLMCompletionService) Complete(ctx context.Context, req domain.CompletionRequest) (string, error) {
	messages := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, req.SystemInstruction),
		llms.TextParts(llms.ChatMessageTypeHuman, req.UserText),
	}

	callOpts := []llms.CallOption{
		llms.WithTemperature(req.Temperature),
		llms.WithTopP(req.TopP),
	}
	if req.Model != "" {
		callOpts = append(callOpts, llms.WithModel(req.Model))
	}
	if req.MaxTokens > 0 {
		callOpts = append(callOpts, llms.WithMaxTokens(req.MaxTokens))
	}

	resp, err := s.model.GenerateContent(ctx, messages, callOpts...)
	if err != nil {
		return "", fmt.Errorf("completion request failed: %w", err)
	}
	if resp == nil || len(resp.Choices) == 0 {
		logger.Get().Warn("Completion returned no choices", zap.String("model", req.Model))
		return "", nil
	}
	return resp.Choices[0].Content, nil
}
