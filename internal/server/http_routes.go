package server

import (
	"net/http"
	"strings"

	"salaryinsights/internal/config"
	"salaryinsights/internal/observability"
)

// setupRoutes configures all HTTP routes and middleware
func (s *Server) setupRoutes(om *observability.ObservabilityManager) *http.ServeMux {
	mux := http.NewServeMux()

	rateLimitHandler := s.createRateLimitMiddleware(om)
	requestLimitHandler := s.requestSizeLimitMiddleware()
	traced := func(route string, h http.HandlerFunc) http.HandlerFunc {
		return observability.ObservabilityMiddleware(om, route)(h)
	}

	mux.HandleFunc("/health", s.healthHandler)
	mux.HandleFunc("/stats", s.statsHandler)

	// JSON API
	mux.HandleFunc("POST /api/v1/predict-salary",
		rateLimitHandler(
			s.authMiddleware(requestLimitHandler(handleFlow(s, om, config.OperationSalary, s.predictSalaryAPI))),
		),
	)
	mux.HandleFunc("POST /api/v1/cover-letter",
		rateLimitHandler(
			s.authMiddleware(requestLimitHandler(handleFlow(s, om, config.OperationCoverLetter, s.Flows.GenerateCoverLetter))),
		),
	)
	mux.HandleFunc("POST /api/v1/suggest-skills",
		rateLimitHandler(
			s.authMiddleware(requestLimitHandler(handleFlow(s, om, config.OperationSkills, s.suggestSkillsAPI))),
		),
	)

	// Browser pages
	mux.HandleFunc("GET /{$}", rateLimitHandler(traced("web.index", s.indexHandler)))
	mux.HandleFunc("POST /predict", rateLimitHandler(requestLimitHandler(traced("web.predict", s.predictHandler))))
	mux.HandleFunc("POST /regenerate", rateLimitHandler(traced("web.regenerate", s.regenerateHandler)))
	mux.HandleFunc("POST /dismiss", traced("web.dismiss", s.dismissHandler))
	mux.HandleFunc("POST /skills", rateLimitHandler(traced("web.skills", s.skillsHandler)))
	mux.HandleFunc("POST /cover-letter", rateLimitHandler(traced("web.cover_letter", s.coverLetterHandler)))
	mux.HandleFunc("GET /cover-letter.txt", traced("web.cover_letter_text", s.coverLetterTextHandler))
	mux.HandleFunc("GET /cover-letter.pdf", traced("web.cover_letter_pdf", s.coverLetterPDFHandler(om)))

	return mux
}

// authMiddleware provides API key authentication
func (s *Server) authMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// Skip authentication if no API keys are configured
		if len(s.APIKeys) == 0 {
			next(w, r)
			return
		}

		apiKey := apiKeyFromRequest(r)
		if apiKey == "" {
			s.Logger.Info("Authentication failed: missing API key",
				"endpoint", r.URL.Path,
				"client_ip", r.RemoteAddr)
			writeErrorResponse(w, "Missing API key", "X-API-Key header or Authorization Bearer token required", http.StatusUnauthorized)
			return
		}

		if !s.APIKeys[apiKey] {
			s.Logger.Info("Authentication failed: invalid API key",
				"endpoint", r.URL.Path,
				"client_ip", r.RemoteAddr,
				"api_key_prefix", maskAPIKey(apiKey))
			writeErrorResponse(w, "Invalid API key", "Unauthorized access", http.StatusUnauthorized)
			return
		}

		s.Logger.Debug("API authentication successful",
			"endpoint", r.URL.Path,
			"client_ip", r.RemoteAddr,
			"api_key_prefix", maskAPIKey(apiKey))

		next(w, r)
	}
}

// apiKeyFromRequest reads X-API-Key, falling back to a Bearer token
func apiKeyFromRequest(r *http.Request) string {
	if apiKey := r.Header.Get("X-API-Key"); apiKey != "" {
		return apiKey
	}
	if after, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer "); ok {
		return after
	}
	return ""
}

// requestSizeLimitMiddleware limits the size of incoming requests
func (s *Server) requestSizeLimitMiddleware() func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			if s.MaxRequestSize > 0 {
				r.Body = http.MaxBytesReader(w, r.Body, s.MaxRequestSize)
			}

			next(w, r)
		}
	}
}

// maskAPIKey masks an API key for logging (shows only first 8 characters)
func maskAPIKey(apiKey string) string {
	if len(apiKey) <= 8 {
		return "****"
	}
	return apiKey[:8] + "****"
}
