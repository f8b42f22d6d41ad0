package ai

import (
	"context"
	"fmt"

	"salaryinsights/internal/config"
	"salaryinsights/internal/errors"
)

// Service runs generation calls of one operation against its provider
type Service struct {
	Provider  Generator // Exported for access from server package
	config    config.OperationAIConfig
	operation string
	logger    *errors.Logger
}

var _ Generator = (*Service)(nil)

// NewService creates a service with the provider configured for the operation
func NewService(cfg config.OperationAIConfig, operation string, logger *errors.Logger) (*Service, error) {
	logger.Debug("Initializing AI service",
		"provider", cfg.Provider,
		"operation", operation,
		"model", cfg.Model,
		"temperature", *cfg.Temperature,
		"timeout", *cfg.Timeout,
		"max_retries", *cfg.MaxRetries,
		"use_system_prompts", *cfg.UseSystemPrompts)

	var provider Generator
	var err error
	switch cfg.Provider {
	case "gemini":
		provider, err = NewGeminiProvider(&cfg, operation, logger)
	case "langchain":
		provider, err = NewLangChainProvider(&cfg, operation, logger)
	default:
		return nil, errors.NewConfigError(errors.ErrCodeInvalidConfig,
			fmt.Sprintf("Unsupported AI provider: %s", cfg.Provider), nil)
	}
	if err != nil {
		return nil, errors.NewAIError(errors.ErrCodeAIServiceFailed,
			"Failed to create AI provider", err)
	}

	return NewServiceWithProvider(provider, cfg, operation, logger), nil
}

// NewServiceWithProvider wraps an existing provider
func NewServiceWithProvider(provider Generator, cfg config.OperationAIConfig, operation string, logger *errors.Logger) *Service {
	return &Service{
		Provider:  provider,
		config:    cfg,
		operation: operation,
		logger:    logger,
	}
}

// Operation returns the operation key this service serves
func (s *Service) Operation() string {
	return s.operation
}

// UseSystemPrompts reports whether system prompts are sent for this operation
func (s *Service) UseSystemPrompts() bool {
	return s.config.UseSystemPrompts == nil || *s.config.UseSystemPrompts
}

// Generate calls the provider bounded by the operation timeout
func (s *Service) Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error) {
	if req.Operation == "" {
		req.Operation = s.operation
	}
	if s.config.Timeout != nil && *s.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, *s.config.Timeout)
		defer cancel()
	}
	return s.Provider.Generate(ctx, req)
}

// GetModelInfo returns information about the AI model for health checks
func (s *Service) GetModelInfo(ctx context.Context) *ModelInfo {
	return s.Provider.GetModelInfo(ctx)
}

// GetCircuitBreakerStats returns breaker statistics when the provider tracks them
func (s *Service) GetCircuitBreakerStats() map[string]any {
	if p, ok := s.Provider.(interface{ GetCircuitBreakerStats() map[string]any }); ok {
		return p.GetCircuitBreakerStats()
	}
	return map[string]any{"enabled": false}
}

// Close closes the provider
func (s *Service) Close() error {
	return s.Provider.Close()
}

// Services holds one service per generation flow
type Services struct {
	Salary      *Service
	CoverLetter *Service
	Skills      *Service
}

// NewServices creates the services of all operations from the configuration
func NewServices(cfg *config.Config, logger *errors.Logger) (*Services, error) {
	services := &Services{}
	targets := map[string]**Service{
		config.OperationSalary:      &services.Salary,
		config.OperationCoverLetter: &services.CoverLetter,
		config.OperationSkills:      &services.Skills,
	}

	for _, op := range config.Operations {
		opCfg, err := cfg.OperationConfig(op)
		if err != nil {
			return nil, err
		}
		svc, err := NewService(opCfg, op, logger)
		if err != nil {
			services.Close()
			return nil, fmt.Errorf("failed to create %s service: %w", op, err)
		}
		*targets[op] = svc
	}
	return services, nil
}

// All returns the services in operation order, skipping unset ones
func (s *Services) All() []*Service {
	var all []*Service
	for _, svc := range []*Service{s.Salary, s.CoverLetter, s.Skills} {
		if svc != nil {
			all = append(all, svc)
		}
	}
	return all
}

// Close closes every service
func (s *Services) Close() error {
	var firstErr error
	for _, svc := range s.All() {
		if err := svc.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
