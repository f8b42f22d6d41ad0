package ai

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"google.golang.org/genai"

	"salaryinsights/internal/config"
	"salaryinsights/internal/errors"
)

const defaultModelCheckTimeout = 10 * time.Second

// GeminiProvider implements Generator for Google Gemini
type GeminiProvider struct {
	client            *genai.Client
	config            *config.OperationAIConfig
	operation         string
	circuitBreaker    *AICircuitBreaker
	modelBreaker      *ModelCircuitBreaker
	modelCheckTimeout time.Duration
	logger            *errors.Logger
}

var _ Generator = (*GeminiProvider)(nil)

// NewGeminiProvider creates a Gemini provider for a specific operation
func NewGeminiProvider(cfg *config.OperationAIConfig, operation string, logger *errors.Logger) (*GeminiProvider, error) {
	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, errors.NewAIError(errors.ErrCodeAIServiceFailed,
			"Failed to create Gemini client", err)
	}

	return &GeminiProvider{
		client:            client,
		config:            cfg,
		operation:         operation,
		circuitBreaker:    NewAICircuitBreaker(operation, cfg, logger),
		modelBreaker:      NewModelCircuitBreaker(operation, cfg, logger),
		modelCheckTimeout: defaultModelCheckTimeout,
		logger:            logger,
	}, nil
}

// Generate sends one prompt pair to Gemini and returns the response text
func (g *GeminiProvider) Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error) {
	tracer := otel.Tracer("salaryinsights.ai.gemini")
	ctx, span := tracer.Start(ctx, "gemini."+req.Operation)
	defer span.End()

	span.SetAttributes(
		attribute.String("ai.provider", "gemini"),
		attribute.String("ai.model", g.config.Model),
		attribute.Float64("ai.temperature", float64(*g.config.Temperature)),
		attribute.Int("input.prompt_length", len(req.UserPrompt)),
	)

	genaiConfig := g.buildGenerateConfig(req.Schema)
	if *g.config.UseSystemPrompts && req.SystemPrompt != "" {
		genaiConfig.SystemInstruction = genai.NewContentFromText(req.SystemPrompt, genai.RoleUser)
	}

	resp, err := g.circuitBreaker.Execute(func() (*GenerateResponse, error) {
		return executeWithRetry(ctx, g.logger, req.Operation, *g.config.MaxRetries, func() (*GenerateResponse, error) {
			result, err := g.client.Models.GenerateContent(ctx, g.config.Model, genai.Text(req.UserPrompt), genaiConfig)
			if err != nil {
				return nil, err
			}
			return &GenerateResponse{
				Text:       result.Text(),
				TokenUsage: extractTokenUsage(result),
			}, nil
		})
	})
	if err != nil {
		span.RecordError(err)
		span.SetAttributes(attribute.Bool("success", false))
		return nil, errors.NewAIError(errors.ErrCodeAIServiceFailed,
			"Failed to generate content for "+req.Operation, err)
	}

	if resp.TokenUsage != nil {
		span.SetAttributes(
			attribute.Int64("ai.tokens.input", resp.TokenUsage.InputTokens),
			attribute.Int64("ai.tokens.output", resp.TokenUsage.OutputTokens),
			attribute.Int64("ai.tokens.total", resp.TokenUsage.TotalTokens),
		)
	}
	span.SetAttributes(
		attribute.Bool("success", true),
		attribute.Int("output.length", len(resp.Text)),
	)
	return resp, nil
}

// buildGenerateConfig sets JSON mode with the response schema when one is given
func (g *GeminiProvider) buildGenerateConfig(schema *genai.Schema) *genai.GenerateContentConfig {
	cfg := &genai.GenerateContentConfig{}
	if schema != nil {
		cfg.ResponseMIMEType = "application/json"
		cfg.ResponseSchema = schema
	}

	// Apply temperature configuration if set
	if *g.config.Temperature > 0 {
		cfg.Temperature = g.config.Temperature
	}
	return cfg
}

// GetModelInfo checks the readiness and availability of the configured model
func (g *GeminiProvider) GetModelInfo(ctx context.Context) *ModelInfo {
	checkCtx, cancel := context.WithTimeout(ctx, g.modelCheckTimeout)
	defer cancel()

	info, err := g.modelBreaker.ExecuteModel(func() (*ModelInfo, error) {
		model, err := g.client.Models.Get(checkCtx, g.config.Model, &genai.GetModelConfig{})
		if err != nil {
			return nil, err
		}
		return &ModelInfo{
			Name:        g.config.Model,
			Provider:    g.config.Provider,
			DisplayName: model.DisplayName,
			Version:     model.Version,
			Available:   true,
		}, nil
	})
	if err != nil {
		g.logger.Warn("Model availability check failed",
			"model", g.config.Model,
			"operation", g.operation,
			"error", err.Error())
		return &ModelInfo{
			Name:     g.config.Model,
			Provider: g.config.Provider,
			Error:    fmt.Sprintf("Failed to get model info: %v", err),
		}
	}

	g.logger.Debug("Model availability check successful",
		"model", g.config.Model,
		"display_name", info.DisplayName,
		"version", info.Version)
	return info
}

// GetCircuitBreakerStats returns circuit breaker statistics
func (g *GeminiProvider) GetCircuitBreakerStats() map[string]any {
	return map[string]any{
		"ai_operations":    g.circuitBreaker.GetStats(),
		"model_operations": g.modelBreaker.GetModelStats(),
		"overall_healthy":  g.circuitBreaker.IsHealthy() && g.modelBreaker.IsModelHealthy(),
	}
}

// Close releases provider resources; the genai client holds none in single-shot usage
func (g *GeminiProvider) Close() error {
	return nil
}

// extractTokenUsage extracts token usage information from a Gemini response
func extractTokenUsage(result *genai.GenerateContentResponse) *TokenUsage {
	if result == nil || result.UsageMetadata == nil {
		return nil
	}

	usage := result.UsageMetadata
	return &TokenUsage{
		InputTokens:  int64(usage.PromptTokenCount),
		OutputTokens: int64(usage.CandidatesTokenCount),
		TotalTokens:  int64(usage.TotalTokenCount),
	}
}
