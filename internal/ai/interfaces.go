package ai

import (
	"context"

	"google.golang.org/genai"
)

// Generator is the provider boundary used by the flows. Implementations send
// one prompt pair and return the raw JSON text of the model's answer.
type Generator interface {
	Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error)
	GetModelInfo(ctx context.Context) *ModelInfo
	Close() error
}

// GenerateRequest is a single structured generation call
type GenerateRequest struct {
	Operation    string
	SystemPrompt string
	UserPrompt   string
	Schema       *genai.Schema // expected response shape, JSON mode when set
}

// GenerateResponse carries the model output and usage when the provider reports it
type GenerateResponse struct {
	Text       string
	TokenUsage *TokenUsage
}

// TokenUsage represents token usage information from AI responses
type TokenUsage struct {
	InputTokens  int64
	OutputTokens int64
	TotalTokens  int64
}

// ModelInfo represents information about the AI model
type ModelInfo struct {
	Name        string `json:"name"`
	Provider    string `json:"provider"`
	DisplayName string `json:"displayName,omitempty"`
	Version     string `json:"version,omitempty"`
	Available   bool   `json:"available"`
	Error       string `json:"error,omitempty"`
}
