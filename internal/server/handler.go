package server

import (
	"context"
	"encoding/json"
	"net/http"

	"salaryinsights/internal/config"
	"salaryinsights/internal/errors"
	"salaryinsights/internal/observability"
	"salaryinsights/internal/orchestration"
	"salaryinsights/internal/types"

	"go.opentelemetry.io/otel/attribute"
)

var failureMessages = map[string]string{
	config.OperationSalary:      orchestration.MessageSalaryFailed,
	config.OperationCoverLetter: orchestration.MessageCoverLetterFailed,
	config.OperationSkills:      orchestration.MessageSkillsFailed,
}

// handleFlow serves one generation flow as a JSON endpoint. Input validation
// failures answer 400, every other failure is a provider error and answers
// 502 with the generic notification text.
func handleFlow[In, Out any](s *Server, om *observability.ObservabilityManager, operation string, run func(context.Context, In) (Out, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		tracer := om.Tracer("salaryinsights.api")
		ctx, span := tracer.Start(ctx, "api."+operation)
		defer span.End()

		var req In
		if err := parseJSONRequest(r, &req); err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Invalid request body", err.Error(), http.StatusBadRequest)
			return
		}

		span.SetAttributes(attribute.String("operation", operation))

		result, err := run(ctx, req)
		if err != nil {
			span.RecordError(err)
			if errors.IsValidationError(err) {
				span.SetAttributes(attribute.String("error.type", "validation"))
				writeErrorResponse(w, "Invalid request", err.Error(), http.StatusBadRequest)
				return
			}
			span.SetAttributes(attribute.String("error.type", "ai_processing"))
			writeErrorResponse(w, "Provider error", failureMessages[operation], http.StatusBadGateway)
			return
		}

		span.SetAttributes(attribute.Bool("success", true))

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(result); err != nil {
			span.RecordError(err)
			http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		}
	}
}

// predictSalaryAPI adds the display form of the range to the raw estimate
func (s *Server) predictSalaryAPI(ctx context.Context, input types.PredictSalaryInput) (SalaryResponse, error) {
	estimate, err := s.Flows.PredictSalary(ctx, input)
	if err != nil {
		return SalaryResponse{}, err
	}
	return SalaryResponse{
		MinSalary:       estimate.MinSalary,
		MaxSalary:       estimate.MaxSalary,
		CurrencyCode:    estimate.CurrencyCode,
		PredictedSalary: s.Money.FormatSalaryRange(estimate),
	}, nil
}

func (s *Server) suggestSkillsAPI(ctx context.Context, input types.SuggestSkillsInput) (types.SkillSuggestions, error) {
	skills, err := s.Flows.SuggestSkills(ctx, input)
	if err != nil {
		return types.SkillSuggestions{}, err
	}
	if skills == nil {
		skills = []string{}
	}
	return types.SkillSuggestions{SuggestedSkills: skills}, nil
}

// createRateLimitMiddleware adds observability to rate limiting
func (s *Server) createRateLimitMiddleware(om *observability.ObservabilityManager) func(http.HandlerFunc) http.HandlerFunc {
	return s.rateLimitMiddleware(func(r *http.Request) {
		om.GetMetrics().RecordBusinessMetric(r.Context(), observability.MetricRateLimitHit, true, om,
			attribute.String("endpoint", r.URL.Path),
			attribute.String("method", r.Method))
	})
}
