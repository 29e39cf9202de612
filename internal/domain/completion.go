package domain

import "context"

// CompletionRequest is one non-streaming chat completion call.
type CompletionRequest struct {
	SystemInstruction string
	UserText          string
	Model             string
	Temperature       float64
	MaxTokens         int
	TopP              float64
}

// CompletionService turns a question into answer text. An empty answer is not an error.
type CompletionService interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}
