package ai

import (
	"context"
	"sync"
	"time"

	"salaryinsights/internal/config"
	"salaryinsights/internal/errors"
)

var testLogger = errors.Discard()

func timePtr(d time.Duration) *time.Duration { return &d }
func intPtr(i int) *int                      { return &i }
func float32Ptr(f float32) *float32          { return &f }
func boolPtr(b bool) *bool                   { return &b }

func testOperationConfig() config.OperationAIConfig {
	return config.OperationAIConfig{
		Provider:         "gemini",
		Model:            "test-model",
		Timeout:          timePtr(30 * time.Second),
		APIKey:           "test-key",
		MaxRetries:       intPtr(0),
		Temperature:      float32Ptr(0.5),
		UseSystemPrompts: boolPtr(true),
		CircuitBreaker: config.CircuitBreakerConfig{
			Enabled:          true,
			MaxRequests:      3,
			Interval:         60 * time.Second,
			Timeout:          60 * time.Second,
			MinRequests:      3,
			FailureThreshold: 0.6,
		},
	}
}

// fakeGenerator records requests and answers with a canned response
type fakeGenerator struct {
	mu       sync.Mutex
	requests []GenerateRequest
	generate func(ctx context.Context, req GenerateRequest) (*GenerateResponse, error)
}

func (f *fakeGenerator) Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error) {
	f.mu.Lock()
	f.requests = append(f.requests, req)
	f.mu.Unlock()
	if f.generate != nil {
		return f.generate(ctx, req)
	}
	return &GenerateResponse{Text: "{}"}, nil
}

func (f *fakeGenerator) GetModelInfo(context.Context) *ModelInfo {
	return &ModelInfo{Name: "fake", Provider: "fake", Available: true}
}

func (f *fakeGenerator) Close() error { return nil }
