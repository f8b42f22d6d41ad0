package server

import (
	"context"
	"time"

	"salaryinsights/internal/ai"
	"salaryinsights/internal/config"
	"salaryinsights/internal/errors"
	"salaryinsights/internal/formatters"
	"salaryinsights/internal/orchestration"
	"salaryinsights/internal/session"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// SalaryResponse is the body returned by the salary endpoint
type SalaryResponse struct {
	MinSalary       float64 `json:"minSalary"`
	MaxSalary       float64 `json:"maxSalary"`
	CurrencyCode    string  `json:"currencyCode"`
	PredictedSalary string  `json:"predictedSalary"`
}

// ModelService reports model availability and breaker state of one operation
type ModelService interface {
	Operation() string
	GetModelInfo(ctx context.Context) *ai.ModelInfo
	GetCircuitBreakerStats() map[string]any
}

// Server holds configuration for the HTTP server
type Server struct {
	Host    string
	Port    string
	Version string

	// Full application configuration
	AppConfig *config.Config

	TLSConfig config.TLSConfig
	Web       config.WebConfig

	// API Authentication
	APIKeys map[string]bool

	// Timeout configurations
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration

	MaxRequestSize int64

	// Rate limiting
	RateLimit   *config.RateLimitConfig
	RateLimiter *RateLimiter

	Flows    orchestration.Flows
	Models   []ModelService
	Sessions *session.Store
	Money    *formatters.MoneyFormatter

	Logger *errors.Logger

	pages *pageRenderer
}

// ServerConfig holds configuration for creating a Server instance
type ServerConfig struct {
	Host           string
	Port           string
	Version        string
	TLSConfig      config.TLSConfig
	Web            config.WebConfig
	APIKeys        []string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	MaxRequestSize int64
	RateLimit      *config.RateLimitConfig
}

// Dependencies are the domain components the handlers drive
type Dependencies struct {
	Flows    orchestration.Flows
	Models   []ModelService
	Sessions *session.Store
	Money    *formatters.MoneyFormatter
}

// ConfigFromApp builds a ServerConfig from the application configuration
func ConfigFromApp(cfg *config.Config, version string) ServerConfig {
	rateLimit := cfg.Server.RateLimit
	return ServerConfig{
		Host:           cfg.Server.Host,
		Port:           cfg.Server.Port,
		Version:        version,
		TLSConfig:      cfg.Server.TLS,
		Web:            cfg.Server.Web,
		APIKeys:        cfg.Server.APIKeys,
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		IdleTimeout:    cfg.Server.IdleTimeout,
		MaxRequestSize: cfg.Server.MaxBodyBytes,
		RateLimit:      &rateLimit,
	}
}

// NewServer creates a new Server instance from a ServerConfig struct
func NewServer(appCfg *config.Config, cfg ServerConfig, deps Dependencies, logger *errors.Logger) *Server {
	// Convert API keys slice to map for O(1) lookup
	apiKeyMap := make(map[string]bool)
	for _, key := range cfg.APIKeys {
		if key != "" {
			apiKeyMap[key] = true
		}
	}

	var rateLimiter *RateLimiter
	if cfg.RateLimit != nil && cfg.RateLimit.Enabled {
		rateLimiter = NewRateLimiter(
			cfg.RateLimit.RequestsPerMin,
			cfg.RateLimit.Window,
			cfg.RateLimit.BurstCapacity,
			logger,
		)
	}

	money := deps.Money
	if money == nil {
		money = formatters.NewMoneyFormatter(appCfg.App.Locale)
	}

	return &Server{
		Host:           cfg.Host,
		Port:           cfg.Port,
		Version:        cfg.Version,
		AppConfig:      appCfg,
		TLSConfig:      cfg.TLSConfig,
		Web:            cfg.Web,
		APIKeys:        apiKeyMap,
		ReadTimeout:    cfg.ReadTimeout,
		WriteTimeout:   cfg.WriteTimeout,
		IdleTimeout:    cfg.IdleTimeout,
		MaxRequestSize: cfg.MaxRequestSize,
		RateLimit:      cfg.RateLimit,
		RateLimiter:    rateLimiter,
		Flows:          deps.Flows,
		Models:         deps.Models,
		Sessions:       deps.Sessions,
		Money:          money,
		Logger:         logger,
		pages:          newPageRenderer(),
	}
}

// ModelsFromServices exposes the configured AI services to the health endpoint
func ModelsFromServices(services *ai.Services) []ModelService {
	var models []ModelService
	for _, svc := range services.All() {
		models = append(models, svc)
	}
	return models
}
