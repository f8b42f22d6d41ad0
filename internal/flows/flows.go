package flows

import (
	"context"

	"salaryinsights/internal/ai"
	"salaryinsights/internal/config"
	"salaryinsights/internal/errors"
	"salaryinsights/internal/observability"
	"salaryinsights/internal/schema"
	"salaryinsights/internal/types"
)

// Generators provides the provider of each operation
type Generators struct {
	Salary      ai.Generator
	CoverLetter ai.Generator
	Skills      ai.Generator
}

// FromServices maps configured AI services to flow generators
func FromServices(s *ai.Services) Generators {
	return Generators{
		Salary:      s.Salary,
		CoverLetter: s.CoverLetter,
		Skills:      s.Skills,
	}
}

// Options tune how the flows build their prompts
type Options struct {
	Prompts          *config.PromptStore
	UseSystemPrompts bool
	Observability    *observability.ObservabilityManager
}

// Flows bundles the salary, cover letter and skill flows
type Flows struct {
	salary      *Flow[types.PredictSalaryInput, types.SalaryEstimate]
	coverLetter *Flow[types.GenerateCoverLetterInput, types.CoverLetter]
	skills      *Flow[types.SuggestSkillsInput, types.SkillSuggestions]
	logger      *errors.Logger
}

// New creates the flows on top of the given generators
func New(gens Generators, opts Options, logger *errors.Logger) *Flows {
	f := &Flows{logger: logger}

	f.salary = &Flow[types.PredictSalaryInput, types.SalaryEstimate]{
		operation: config.OperationSalary,
		generator: gens.Salary,
		prompts:   opts.Prompts,
		schema:    ai.SalaryEstimateSchema(),
		decode:    f.decodeSalary,
		useSystem: opts.UseSystemPrompts,
		om:        opts.Observability,
		logger:    logger,
	}
	f.coverLetter = &Flow[types.GenerateCoverLetterInput, types.CoverLetter]{
		operation: config.OperationCoverLetter,
		generator: gens.CoverLetter,
		prompts:   opts.Prompts,
		schema:    ai.CoverLetterSchema(),
		decode:    schema.DecodeCoverLetter,
		useSystem: opts.UseSystemPrompts,
		om:        opts.Observability,
		logger:    logger,
	}
	f.skills = &Flow[types.SuggestSkillsInput, types.SkillSuggestions]{
		operation: config.OperationSkills,
		generator: gens.Skills,
		prompts:   opts.Prompts,
		schema:    ai.SkillSuggestionsSchema(),
		decode:    schema.DecodeSkillSuggestions,
		useSystem: opts.UseSystemPrompts,
		om:        opts.Observability,
		logger:    logger,
	}
	return f
}

// PredictSalary estimates the salary range for a job
func (f *Flows) PredictSalary(ctx context.Context, input types.PredictSalaryInput) (types.SalaryEstimate, error) {
	return f.salary.Run(ctx, input)
}

// GenerateCoverLetter writes a cover letter for the job and predicted salary
func (f *Flows) GenerateCoverLetter(ctx context.Context, input types.GenerateCoverLetterInput) (types.CoverLetter, error) {
	return f.coverLetter.Run(ctx, input)
}

// SuggestSkills returns skills that could raise the salary, in model order
func (f *Flows) SuggestSkills(ctx context.Context, input types.SuggestSkillsInput) ([]string, error) {
	out, err := f.skills.Run(ctx, input)
	if err != nil {
		return nil, err
	}
	return out.SuggestedSkills, nil
}

// decodeSalary accepts an inverted range as returned and only warns about it
func (f *Flows) decodeSalary(text string) (types.SalaryEstimate, error) {
	estimate, err := schema.DecodeSalaryEstimate(text)
	if err != nil {
		return estimate, err
	}
	if estimate.Swapped() {
		f.logger.Warn("Model returned minimum salary above maximum",
			"min_salary", estimate.MinSalary,
			"max_salary", estimate.MaxSalary,
			"currency", estimate.CurrencyCode)
	}
	return estimate, nil
}
