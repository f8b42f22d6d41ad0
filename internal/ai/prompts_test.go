package ai

import (
	"strings"
	"testing"

	"salaryinsights/internal/config"
	"salaryinsights/internal/types"
)

func TestDefaultPromptsCoverEveryOperation(t *testing.T) {
	for _, op := range config.Operations {
		if DefaultSystemPrompts[op] == "" {
			t.Errorf("Missing default system prompt for %s", op)
		}
		if DefaultUserPrompts[op] == "" {
			t.Errorf("Missing default user prompt for %s", op)
		}
	}
}

func TestRenderSalaryPromptInsertsFieldsVerbatim(t *testing.T) {
	input := types.PredictSalaryInput{
		JobRole:    "Software Engineer",
		Experience: "mid-level",
		Location:   "San Francisco, CA",
		Skills:     "Go, <Kubernetes> & SQL",
	}

	got, err := RenderPrompt("salary", DefaultUserPrompts[config.OperationSalary], input)
	if err != nil {
		t.Fatalf("RenderPrompt failed: %v", err)
	}

	for _, want := range []string{
		"Job Role: Software Engineer",
		"Experience: mid-level",
		"Location: San Francisco, CA",
		"Skills: Go, <Kubernetes> & SQL",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("Rendered prompt missing %q:\n%s", want, got)
		}
	}
}

func TestRenderCoverLetterPromptEndsWithMarker(t *testing.T) {
	input := types.GenerateCoverLetterInput{
		JobRole:         "Data Scientist",
		Experience:      "senior-level",
		Location:        "Berlin",
		Skills:          "Python, statistics",
		PredictedSalary: "€70,000 - €90,000",
		JobDescription:  "Build forecasting models for our logistics platform.",
	}

	got, err := RenderPrompt("coverLetter", DefaultUserPrompts[config.OperationCoverLetter], input)
	if err != nil {
		t.Fatalf("RenderPrompt failed: %v", err)
	}
	if !strings.HasSuffix(got, "\nCover Letter:") {
		t.Errorf("Cover letter prompt must end with the 'Cover Letter:' line, got:\n%s", got)
	}
	if !strings.Contains(got, "Predicted Salary: €70,000 - €90,000") {
		t.Errorf("Predicted salary not inserted:\n%s", got)
	}
}

func TestRenderPromptUnknownField(t *testing.T) {
	_, err := RenderPrompt("skills", "{{.Missing}}", types.SuggestSkillsInput{JobDescription: "x"})
	if err == nil {
		t.Fatal("Expected error for unknown template field")
	}
}

func TestResolvePromptsPrefersOverrides(t *testing.T) {
	store := config.NewPromptStore()
	store.Set(config.OperationSkills, config.PromptUser, "Custom {{.JobDescription}}", "config")

	prompts := ResolvePrompts(store, config.OperationSkills)
	if prompts.User != "Custom {{.JobDescription}}" {
		t.Errorf("Expected override user prompt, got %q", prompts.User)
	}
	if prompts.System != DefaultSystemPrompts[config.OperationSkills] {
		t.Errorf("Expected default system prompt, got %q", prompts.System)
	}

	defaults := ResolvePrompts(nil, config.OperationSalary)
	if defaults.User != DefaultUserPrompts[config.OperationSalary] {
		t.Error("Nil store should resolve to defaults")
	}
}
