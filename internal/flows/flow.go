// Package flows implements the three structured generation flows. Each flow
// validates its input, renders the operation prompts, calls the provider and
// validates the decoded output before returning it.
package flows

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"google.golang.org/genai"

	"salaryinsights/internal/ai"
	"salaryinsights/internal/config"
	"salaryinsights/internal/errors"
	"salaryinsights/internal/observability"
	"salaryinsights/internal/schema"
)

// Flow is a single prompt-in, structured-output-out generation step
type Flow[In, Out any] struct {
	operation string
	generator ai.Generator
	prompts   *config.PromptStore
	schema    *genai.Schema
	decode    func(string) (Out, error)
	useSystem bool
	om        *observability.ObservabilityManager
	logger    *errors.Logger
}

// Run executes the flow. Invalid input is returned as a validation error
// without calling the provider; every later failure is a provider error.
func (f *Flow[In, Out]) Run(ctx context.Context, input In) (Out, error) {
	var zero Out

	if err := schema.ValidateInput(input); err != nil {
		return zero, err
	}

	prompts := ai.ResolvePrompts(f.prompts, f.operation)
	userPrompt, err := ai.RenderPrompt(f.operation, prompts.User, input)
	if err != nil {
		return zero, f.fail(err)
	}

	var systemPrompt string
	if f.useSystem {
		systemPrompt, err = ai.RenderPrompt(f.operation+"-system", prompts.System, input)
		if err != nil {
			return zero, f.fail(err)
		}
	}

	var output Out
	metrics := f.om.GetMetrics()
	err = metrics.TrackAIOperationWithTokens(ctx, f.operation, func(ctx context.Context) *observability.AIOperationResult {
		resp, err := f.generator.Generate(ctx, ai.GenerateRequest{
			Operation:    f.operation,
			SystemPrompt: systemPrompt,
			UserPrompt:   userPrompt,
			Schema:       f.schema,
		})
		if err != nil {
			return &observability.AIOperationResult{Error: err}
		}

		output, err = f.decode(resp.Text)
		return &observability.AIOperationResult{
			Error:      err,
			TokenUsage: (*observability.TokenUsage)(resp.TokenUsage),
		}
	}, f.om)

	metrics.RecordBusinessMetric(ctx, f.operation, err == nil, f.om,
		attribute.String("operation", f.operation))

	if err != nil {
		return zero, f.fail(err)
	}
	return output, nil
}

// fail wraps err in a provider error and logs it
func (f *Flow[In, Out]) fail(err error) error {
	providerErr := errors.NewProviderError(f.operation, err)
	f.logger.LogError(providerErr, "Flow failed")
	return providerErr
}
