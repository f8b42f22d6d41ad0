package ai

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"salaryinsights/internal/config"
)

func TestNewServiceGemini(t *testing.T) {
	cfg := testOperationConfig()

	service, err := NewService(cfg, config.OperationSalary, testLogger)
	if err != nil {
		t.Fatalf("NewService failed: %v", err)
	}

	if service.config.CircuitBreaker.MaxRequests != 3 {
		t.Errorf("Expected circuit breaker max requests 3, got %d", service.config.CircuitBreaker.MaxRequests)
	}

	geminiProvider, ok := service.Provider.(*GeminiProvider)
	if !ok {
		t.Fatal("Service provider is not of type *GeminiProvider")
	}
	stats := geminiProvider.GetCircuitBreakerStats()
	aiOpsStats, ok := stats["ai_operations"].(map[string]any)
	if !ok {
		t.Fatal("AI operations stats should exist and be a map")
	}
	if name, _ := aiOpsStats["name"].(string); name != "AI-salary" {
		t.Errorf("Expected circuit breaker name 'AI-salary', got '%s'", name)
	}
	if overallHealthy, _ := stats["overall_healthy"].(bool); !overallHealthy {
		t.Error("Circuit breaker should be healthy initially")
	}
}

func TestNewServiceLangChain(t *testing.T) {
	cfg := testOperationConfig()
	cfg.Provider = "langchain"

	service, err := NewService(cfg, config.OperationSkills, testLogger)
	if err != nil {
		t.Fatalf("NewService failed: %v", err)
	}
	if _, ok := service.Provider.(*LangChainProvider); !ok {
		t.Fatalf("Expected *LangChainProvider, got %T", service.Provider)
	}
}

func TestNewServiceUnsupportedProvider(t *testing.T) {
	cfg := testOperationConfig()
	cfg.Provider = "openai"

	if _, err := NewService(cfg, config.OperationSalary, testLogger); err == nil {
		t.Fatal("Expected error for unsupported provider")
	}
}

func TestServiceAppliesTimeout(t *testing.T) {
	cfg := testOperationConfig()
	cfg.Timeout = timePtr(20 * time.Millisecond)

	fake := &fakeGenerator{generate: func(ctx context.Context, _ GenerateRequest) (*GenerateResponse, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	}}
	service := NewServiceWithProvider(fake, cfg, config.OperationSalary, testLogger)

	_, err := service.Generate(context.Background(), GenerateRequest{UserPrompt: "p"})
	if !stderrors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Expected deadline exceeded, got %v", err)
	}
	if len(fake.requests) != 1 || fake.requests[0].Operation != config.OperationSalary {
		t.Errorf("Expected operation to default to the service operation, got %+v", fake.requests)
	}
}

func TestServiceStatsWithoutBreaker(t *testing.T) {
	service := NewServiceWithProvider(&fakeGenerator{}, testOperationConfig(), config.OperationSkills, testLogger)
	if enabled, _ := service.GetCircuitBreakerStats()["enabled"].(bool); enabled {
		t.Error("Provider without breaker should report enabled=false")
	}
	if info := service.GetModelInfo(context.Background()); !info.Available {
		t.Error("Expected model info from provider")
	}
}

func TestNewServicesFromConfig(t *testing.T) {
	cfg := &config.Config{
		AI: config.AIConfig{
			Provider:         "gemini",
			Model:            "gemini-2.0-flash",
			Timeout:          30 * time.Second,
			APIKey:           "test-key",
			UseSystemPrompts: true,
			Skills:           config.OperationAIConfig{Provider: "langchain"},
		},
	}

	services, err := NewServices(cfg, testLogger)
	if err != nil {
		t.Fatalf("NewServices failed: %v", err)
	}
	defer services.Close()

	if len(services.All()) != 3 {
		t.Fatalf("Expected 3 services, got %d", len(services.All()))
	}
	if services.CoverLetter.Operation() != config.OperationCoverLetter {
		t.Errorf("Unexpected operation %q", services.CoverLetter.Operation())
	}
	if _, ok := services.Skills.Provider.(*LangChainProvider); !ok {
		t.Errorf("Skills should use the langchain provider, got %T", services.Skills.Provider)
	}
}
