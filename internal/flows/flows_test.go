package flows

import (
	"context"
	stderrors "errors"
	"strings"
	"testing"

	"salaryinsights/internal/ai"
	"salaryinsights/internal/config"
	"salaryinsights/internal/errors"
	"salaryinsights/internal/types"
)

type fakeGenerator struct {
	text     string
	err      error
	requests []ai.GenerateRequest
}

func (f *fakeGenerator) Generate(_ context.Context, req ai.GenerateRequest) (*ai.GenerateResponse, error) {
	f.requests = append(f.requests, req)
	if f.err != nil {
		return nil, f.err
	}
	return &ai.GenerateResponse{Text: f.text, TokenUsage: &ai.TokenUsage{InputTokens: 10, OutputTokens: 5, TotalTokens: 15}}, nil
}

func (f *fakeGenerator) GetModelInfo(context.Context) *ai.ModelInfo {
	return &ai.ModelInfo{Name: "fake", Available: true}
}

func (f *fakeGenerator) Close() error { return nil }

func newTestFlows(gen *fakeGenerator, opts Options) *Flows {
	return New(Generators{Salary: gen, CoverLetter: gen, Skills: gen}, opts, errors.Discard())
}

var salaryInput = types.PredictSalaryInput{
	JobRole:    "Backend Engineer",
	Experience: "senior-level",
	Location:   "  Austin, TX ",
	Skills:     "Go, Postgres, Kafka",
}

const platformDescription = "Operate our cloud platform and keep the Kubernetes clusters healthy."

func TestPredictSalaryReturnsEstimate(t *testing.T) {
	gen := &fakeGenerator{text: `{"minSalary":140000,"maxSalary":180000,"currencyCode":"usd"}`}
	flows := newTestFlows(gen, Options{UseSystemPrompts: true})

	got, err := flows.PredictSalary(context.Background(), salaryInput)
	if err != nil {
		t.Fatalf("PredictSalary failed: %v", err)
	}

	want := types.SalaryEstimate{MinSalary: 140000, MaxSalary: 180000, CurrencyCode: "USD"}
	if got != want {
		t.Errorf("Expected %+v, got %+v", want, got)
	}

	if len(gen.requests) != 1 {
		t.Fatalf("Expected one provider call, got %d", len(gen.requests))
	}
	req := gen.requests[0]
	if req.Operation != config.OperationSalary || req.Schema == nil {
		t.Errorf("Unexpected request %+v", req)
	}
	if !strings.Contains(req.UserPrompt, "Location:   Austin, TX \n") {
		t.Errorf("Input values should be inserted unmodified:\n%s", req.UserPrompt)
	}
	if req.SystemPrompt == "" {
		t.Error("System prompt should be sent when enabled")
	}
}

func TestPredictSalaryKeepsSwappedRange(t *testing.T) {
	gen := &fakeGenerator{text: `{"minSalary":90000,"maxSalary":60000,"currencyCode":"EUR"}`}
	flows := newTestFlows(gen, Options{})

	got, err := flows.PredictSalary(context.Background(), salaryInput)
	if err != nil {
		t.Fatalf("PredictSalary failed: %v", err)
	}
	if got.MinSalary != 90000 || got.MaxSalary != 60000 {
		t.Errorf("Swapped range should be returned as is, got %+v", got)
	}
}

func TestFlowsWrapFailuresAsProviderErrors(t *testing.T) {
	tests := []struct {
		name string
		gen  *fakeGenerator
	}{
		{"provider error", &fakeGenerator{err: stderrors.New("connection reset")}},
		{"invalid json", &fakeGenerator{text: "Sure! Here is your salary"}},
		{"missing field", &fakeGenerator{text: `{"minSalary":1,"currencyCode":"USD"}`}},
		{"unknown currency", &fakeGenerator{text: `{"minSalary":1,"maxSalary":2,"currencyCode":"DOLLARS"}`}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flows := newTestFlows(tt.gen, Options{})
			_, err := flows.PredictSalary(context.Background(), salaryInput)
			if !errors.IsProviderError(err) {
				t.Errorf("Expected provider error, got %v", err)
			}
		})
	}
}

func TestInvalidInputNeverReachesProvider(t *testing.T) {
	gen := &fakeGenerator{text: `{"coverLetter":"Dear hiring manager"}`}
	flows := newTestFlows(gen, Options{})

	_, err := flows.GenerateCoverLetter(context.Background(), types.GenerateCoverLetterInput{JobRole: "Engineer"})
	if !errors.IsValidationError(err) {
		t.Errorf("Expected validation error, got %v", err)
	}
	if errors.IsProviderError(err) {
		t.Error("Validation failures must not be provider errors")
	}
	if len(gen.requests) != 0 {
		t.Errorf("Provider should not be called, got %d calls", len(gen.requests))
	}
}

func TestGenerateCoverLetter(t *testing.T) {
	gen := &fakeGenerator{text: "```json\n{\"coverLetter\":\"Dear Hiring Manager,\\n\\nI am excited...\"}\n```"}
	flows := newTestFlows(gen, Options{})

	input := types.JobProfile{
		JobRole:        "Product Manager",
		Experience:     types.ExperienceLead,
		Location:       "London",
		Skills:         "Roadmapping, SQL, user research",
		JobDescription: "Lead the product team for our payments platform and own the roadmap.",
	}.CoverLetterInput("£80,000 - £95,000")

	got, err := flows.GenerateCoverLetter(context.Background(), input)
	if err != nil {
		t.Fatalf("GenerateCoverLetter failed: %v", err)
	}
	if !strings.HasPrefix(got.Text, "Dear Hiring Manager,") {
		t.Errorf("Unexpected cover letter %q", got.Text)
	}

	prompt := gen.requests[0].UserPrompt
	if !strings.HasSuffix(prompt, "Cover Letter:") {
		t.Errorf("Prompt must end with 'Cover Letter:'")
	}
	if !strings.Contains(prompt, "Predicted Salary: £80,000 - £95,000") {
		t.Errorf("Predicted salary missing from prompt:\n%s", prompt)
	}
}

func TestSuggestSkillsPreservesOrderAndDuplicates(t *testing.T) {
	gen := &fakeGenerator{text: `{"suggestedSkills":["Kubernetes","Go","Kubernetes","Terraform"]}`}
	flows := newTestFlows(gen, Options{})

	got, err := flows.SuggestSkills(context.Background(), types.SuggestSkillsInput{JobDescription: platformDescription})
	if err != nil {
		t.Fatalf("SuggestSkills failed: %v", err)
	}

	want := []string{"Kubernetes", "Go", "Kubernetes", "Terraform"}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Errorf("Expected %v, got %v", want, got)
	}
}

func TestPromptOverridesAreUsed(t *testing.T) {
	store := config.NewPromptStore()
	store.Set(config.OperationSkills, config.PromptUser, "Skills for: {{.JobDescription}}", "config")

	gen := &fakeGenerator{text: `{"suggestedSkills":[]}`}
	flows := newTestFlows(gen, Options{Prompts: store})

	got, err := flows.SuggestSkills(context.Background(), types.SuggestSkillsInput{JobDescription: platformDescription})
	if err != nil {
		t.Fatalf("SuggestSkills failed: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("Expected empty suggestions, got %v", got)
	}
	if gen.requests[0].UserPrompt != "Skills for: "+platformDescription {
		t.Errorf("Override prompt not used, got %q", gen.requests[0].UserPrompt)
	}
}

func TestBrokenPromptOverrideIsProviderError(t *testing.T) {
	store := config.NewPromptStore()
	store.Set(config.OperationSalary, config.PromptUser, "{{.Unknown}}", "config")

	gen := &fakeGenerator{}
	flows := newTestFlows(gen, Options{Prompts: store})

	_, err := flows.PredictSalary(context.Background(), salaryInput)
	if !errors.IsProviderError(err) {
		t.Errorf("Expected provider error, got %v", err)
	}
	if len(gen.requests) != 0 {
		t.Error("Provider should not be called when the prompt cannot be rendered")
	}
}

func TestProfileRulesBlockProviderCall(t *testing.T) {
	validCover := types.JobProfile{
		JobRole:        "Product Manager",
		Experience:     types.ExperienceLead,
		Location:       "London",
		Skills:         "Roadmapping, SQL",
		JobDescription: "Lead the product team for our payments platform and own the roadmap.",
	}.CoverLetterInput("£80,000 - £95,000")

	tests := []struct {
		name string
		run  func(*Flows) error
	}{
		{"salary with short fields", func(f *Flows) error {
			_, err := f.PredictSalary(context.Background(), types.PredictSalaryInput{
				JobRole: "x", Experience: "senior-level", Location: "y", Skills: "go",
			})
			return err
		}},
		{"salary with unknown experience", func(f *Flows) error {
			in := salaryInput
			in.Experience = "wizard"
			_, err := f.PredictSalary(context.Background(), in)
			return err
		}},
		{"cover letter with short description", func(f *Flows) error {
			in := validCover
			in.JobDescription = "too short"
			_, err := f.GenerateCoverLetter(context.Background(), in)
			return err
		}},
		{"cover letter with short skills", func(f *Flows) error {
			in := validCover
			in.Skills = "SQL"
			_, err := f.GenerateCoverLetter(context.Background(), in)
			return err
		}},
		{"skills with short description", func(f *Flows) error {
			_, err := f.SuggestSkills(context.Background(), types.SuggestSkillsInput{JobDescription: "short"})
			return err
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen := &fakeGenerator{text: "{}"}
			err := tt.run(newTestFlows(gen, Options{}))
			if !errors.IsValidationError(err) {
				t.Errorf("Expected validation error, got %v", err)
			}
			if len(gen.requests) != 0 {
				t.Errorf("Provider called %d times for invalid input", len(gen.requests))
			}
		})
	}
}
