package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"time"
)

// getHealthCheckTimeout returns the configured health check timeout
func (s *Server) getHealthCheckTimeout() time.Duration {
	if s.AppConfig == nil || s.AppConfig.Observability.HealthCheck.Timeout <= 0 {
		return 15 * time.Second
	}
	return s.AppConfig.Observability.HealthCheck.Timeout
}

// healthHandler reports service health including AI model availability
func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	response := map[string]any{
		"status":  "healthy",
		"service": "salaryinsights",
		"version": s.Version,
	}

	aiStatus, healthy := s.checkAIModelsHealth(r.Context())
	response["ai_models"] = aiStatus
	response["circuit_breakers"] = s.checkCircuitBreakerHealth()

	if s.Sessions != nil {
		response["sessions"] = s.Sessions.Len()
	}

	w.Header().Set("Content-Type", "application/json")
	if !healthy {
		response["status"] = "degraded"
		w.WriteHeader(http.StatusServiceUnavailable)
	}

	if err := json.NewEncoder(w).Encode(response); err != nil {
		s.Logger.LogError(err, "Failed to encode health response")
	}
}

// checkAIModelsHealth asks every operation's provider whether its model is reachable
func (s *Server) checkAIModelsHealth(parent context.Context) (map[string]any, bool) {
	ctx, cancel := context.WithTimeout(parent, s.getHealthCheckTimeout())
	defer cancel()

	aiStatus := make(map[string]any, len(s.Models))
	healthy := true
	for _, model := range s.Models {
		info := model.GetModelInfo(ctx)
		if info == nil {
			aiStatus[model.Operation()] = map[string]any{"available": false, "error": "no model information"}
			healthy = false
			continue
		}
		aiStatus[model.Operation()] = info
		if !info.Available {
			healthy = false
		}
	}
	return aiStatus, healthy
}

// checkCircuitBreakerHealth collects breaker stats for all AI operations
func (s *Server) checkCircuitBreakerHealth() map[string]any {
	status := make(map[string]any, len(s.Models))
	for _, model := range s.Models {
		status[model.Operation()] = model.GetCircuitBreakerStats()
	}
	return status
}

// statsHandler provides server statistics including rate limiting info
func (s *Server) statsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	response := map[string]any{
		"service": "salaryinsights",
		"version": s.Version,
		"server": map[string]any{
			"max_request_size_bytes": s.MaxRequestSize,
		},
	}

	if s.RateLimiter != nil {
		response["rate_limiting"] = s.RateLimiter.GetStats()
	} else {
		response["rate_limiting"] = map[string]any{
			"enabled": false,
		}
	}

	if s.RateLimit != nil {
		response["rate_limit_config"] = map[string]any{
			"enabled":          s.RateLimit.Enabled,
			"requests_per_min": s.RateLimit.RequestsPerMin,
			"burst_capacity":   s.RateLimit.BurstCapacity,
			"by_ip":            s.RateLimit.ByIP,
			"by_api_key":       s.RateLimit.ByAPIKey,
		}
	}

	if s.Sessions != nil {
		response["sessions"] = map[string]any{
			"active": s.Sessions.Len(),
			"ttl":    s.Web.SessionTTL.String(),
		}
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		s.Logger.LogError(err, "Failed to encode stats response")
	}
}

// parseJSONRequest parses JSON request body into the provided struct
func parseJSONRequest(r *http.Request, v any) error {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil || mediaType != "application/json" {
		return fmt.Errorf("content-type must be application/json")
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			return fmt.Errorf("request body too large (limit is %d bytes)", maxBytesErr.Limit)
		}
		return fmt.Errorf("failed to read request body: %w", err)
	}
	defer func() { _ = r.Body.Close() }()

	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("failed to parse JSON: %w", err)
	}

	return nil
}

// writeErrorResponse writes a standardized error response
func writeErrorResponse(w http.ResponseWriter, error, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	response := ErrorResponse{
		Error:   error,
		Message: message,
	}

	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, "Failed to encode error response", http.StatusInternalServerError)
	}
}
