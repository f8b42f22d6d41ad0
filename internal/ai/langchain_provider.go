package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/googleai"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"salaryinsights/internal/config"
	"salaryinsights/internal/errors"
)

// LangChainProvider implements Generator on top of langchaingo's googleai
// model. langchaingo has no response schema option, so the schema is
// described in the system message and JSON mode is requested.
type LangChainProvider struct {
	llm            llms.Model
	config         *config.OperationAIConfig
	operation      string
	circuitBreaker *AICircuitBreaker
	logger         *errors.Logger
}

var _ Generator = (*LangChainProvider)(nil)

// NewLangChainProvider creates a langchaingo backed provider for an operation
func NewLangChainProvider(cfg *config.OperationAIConfig, operation string, logger *errors.Logger) (*LangChainProvider, error) {
	llm, err := googleai.New(context.Background(),
		googleai.WithAPIKey(cfg.APIKey),
		googleai.WithDefaultModel(cfg.Model),
	)
	if err != nil {
		return nil, errors.NewAIError(errors.ErrCodeAIServiceFailed,
			"Failed to create langchain model", err)
	}
	return newLangChainProvider(llm, cfg, operation, logger), nil
}

func newLangChainProvider(llm llms.Model, cfg *config.OperationAIConfig, operation string, logger *errors.Logger) *LangChainProvider {
	return &LangChainProvider{
		llm:            llm,
		config:         cfg,
		operation:      operation,
		circuitBreaker: NewAICircuitBreaker(operation, cfg, logger),
		logger:         logger,
	}
}

// Generate sends the prompt pair as system and human messages
func (l *LangChainProvider) Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error) {
	tracer := otel.Tracer("salaryinsights.ai.langchain")
	ctx, span := tracer.Start(ctx, "langchain."+req.Operation)
	defer span.End()

	span.SetAttributes(
		attribute.String("ai.provider", "langchain"),
		attribute.String("ai.model", l.config.Model),
		attribute.Float64("ai.temperature", float64(*l.config.Temperature)),
	)

	messages, err := l.buildMessages(req)
	if err != nil {
		span.RecordError(err)
		return nil, errors.NewAIError(errors.ErrCodeInvalidRequest, "Failed to build prompt for "+req.Operation, err)
	}

	options := []llms.CallOption{llms.WithModel(l.config.Model)}
	if *l.config.Temperature > 0 {
		options = append(options, llms.WithTemperature(float64(*l.config.Temperature)))
	}
	if req.Schema != nil {
		options = append(options, llms.WithJSONMode())
	}

	resp, err := l.circuitBreaker.Execute(func() (*GenerateResponse, error) {
		return executeWithRetry(ctx, l.logger, req.Operation, *l.config.MaxRetries, func() (*GenerateResponse, error) {
			content, err := l.llm.GenerateContent(ctx, messages, options...)
			if err != nil {
				return nil, err
			}
			if len(content.Choices) == 0 {
				return nil, fmt.Errorf("model returned no choices")
			}
			choice := content.Choices[0]
			return &GenerateResponse{
				Text:       choice.Content,
				TokenUsage: usageFromGenerationInfo(choice.GenerationInfo),
			}, nil
		})
	})
	if err != nil {
		span.RecordError(err)
		span.SetAttributes(attribute.Bool("success", false))
		return nil, errors.NewAIError(errors.ErrCodeAIServiceFailed,
			"Failed to generate content for "+req.Operation, err)
	}

	span.SetAttributes(attribute.Bool("success", true))
	return resp, nil
}

// buildMessages turns the request into langchaingo messages. The schema
// instruction goes into the system message so the user prompt keeps its
// trailing cue (e.g. "Cover Letter:").
func (l *LangChainProvider) buildMessages(req GenerateRequest) ([]llms.MessageContent, error) {
	var system strings.Builder
	if *l.config.UseSystemPrompts {
		system.WriteString(req.SystemPrompt)
	}
	if req.Schema != nil {
		schemaJSON, err := json.MarshalIndent(req.Schema, "", "  ")
		if err != nil {
			return nil, err
		}
		if system.Len() > 0 {
			system.WriteString("\n\n")
		}
		system.WriteString("Respond with a single JSON object matching this schema:\n")
		system.Write(schemaJSON)
	}

	var messages []llms.MessageContent
	if system.Len() > 0 {
		messages = append(messages, llms.TextParts(llms.ChatMessageTypeSystem, system.String()))
	}
	messages = append(messages, llms.TextParts(llms.ChatMessageTypeHuman, req.UserPrompt))
	return messages, nil
}

// GetModelInfo reports availability from the breaker state; langchaingo
// exposes no model lookup
func (l *LangChainProvider) GetModelInfo(_ context.Context) *ModelInfo {
	info := &ModelInfo{
		Name:      l.config.Model,
		Provider:  l.config.Provider,
		Available: l.circuitBreaker.IsHealthy(),
	}
	if !info.Available {
		info.Error = "circuit breaker open"
	}
	return info
}

// GetCircuitBreakerStats returns circuit breaker statistics
func (l *LangChainProvider) GetCircuitBreakerStats() map[string]any {
	return map[string]any{
		"ai_operations":   l.circuitBreaker.GetStats(),
		"overall_healthy": l.circuitBreaker.IsHealthy(),
	}
}

// Close implements Generator
func (l *LangChainProvider) Close() error {
	return nil
}

// usageFromGenerationInfo reads token counts that googleai reports in the
// choice's generation info
func usageFromGenerationInfo(info map[string]any) *TokenUsage {
	if len(info) == 0 {
		return nil
	}
	input, okIn := toInt64(info["input_tokens"])
	output, okOut := toInt64(info["output_tokens"])
	total, okTotal := toInt64(info["total_tokens"])
	if !okIn && !okOut && !okTotal {
		return nil
	}
	if !okTotal {
		total = input + output
	}
	return &TokenUsage{InputTokens: input, OutputTokens: output, TotalTokens: total}
}

func toInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case float64:
		return int64(n), true
	}
	return 0, false
}
