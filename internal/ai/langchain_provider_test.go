package ai

import (
	"context"
	"strings"
	"testing"

	"github.com/tmc/langchaingo/llms"
)

// fakeModel implements llms.Model and records the last call
type fakeModel struct {
	messages []llms.MessageContent
	options  llms.CallOptions
	response *llms.ContentResponse
	err      error
}

func (f *fakeModel) GenerateContent(_ context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
	f.messages = messages
	for _, opt := range options {
		opt(&f.options)
	}
	return f.response, f.err
}

func (f *fakeModel) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	return llms.GenerateFromSinglePrompt(ctx, f, prompt, options...)
}

func textOf(t *testing.T, msg llms.MessageContent) string {
	t.Helper()
	if len(msg.Parts) != 1 {
		t.Fatalf("Expected one part, got %d", len(msg.Parts))
	}
	part, ok := msg.Parts[0].(llms.TextContent)
	if !ok {
		t.Fatalf("Expected text part, got %T", msg.Parts[0])
	}
	return part.Text
}

func TestLangChainGenerateWithSchema(t *testing.T) {
	cfg := testOperationConfig()
	cfg.Provider = "langchain"
	model := &fakeModel{response: &llms.ContentResponse{Choices: []*llms.ContentChoice{{
		Content:        `{"suggestedSkills":["Go"]}`,
		GenerationInfo: map[string]any{"input_tokens": int32(12), "output_tokens": int32(5)},
	}}}}

	provider := newLangChainProvider(model, &cfg, "skills", testLogger)
	resp, err := provider.Generate(context.Background(), GenerateRequest{
		Operation:    "skills",
		SystemPrompt: "You are a career coach.",
		UserPrompt:   "Suggest skills.",
		Schema:       SkillSuggestionsSchema(),
	})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if resp.Text != `{"suggestedSkills":["Go"]}` {
		t.Errorf("Unexpected text %q", resp.Text)
	}
	if resp.TokenUsage == nil || resp.TokenUsage.TotalTokens != 17 {
		t.Errorf("Expected 17 total tokens, got %+v", resp.TokenUsage)
	}

	if len(model.messages) != 2 {
		t.Fatalf("Expected system and human messages, got %d", len(model.messages))
	}
	if model.messages[0].Role != llms.ChatMessageTypeSystem {
		t.Errorf("First message should be system, got %s", model.messages[0].Role)
	}
	system := textOf(t, model.messages[0])
	if !strings.HasPrefix(system, "You are a career coach.") || !strings.Contains(system, "suggestedSkills") {
		t.Errorf("Schema should follow the system prompt, got:\n%s", system)
	}
	if human := textOf(t, model.messages[1]); human != "Suggest skills." {
		t.Errorf("User prompt should be sent unchanged, got:\n%s", human)
	}
	if !model.options.JSONMode {
		t.Error("JSON mode should be requested when a schema is given")
	}
}

func TestLangChainGenerateWithoutSystemPrompts(t *testing.T) {
	cfg := testOperationConfig()
	cfg.UseSystemPrompts = boolPtr(false)
	model := &fakeModel{response: &llms.ContentResponse{Choices: []*llms.ContentChoice{{Content: "plain"}}}}

	provider := newLangChainProvider(model, &cfg, "coverLetter", testLogger)
	if _, err := provider.Generate(context.Background(), GenerateRequest{SystemPrompt: "sys", UserPrompt: "user"}); err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if len(model.messages) != 1 || textOf(t, model.messages[0]) != "user" {
		t.Errorf("Expected only the user prompt, got %+v", model.messages)
	}
	if model.options.JSONMode {
		t.Error("JSON mode should not be requested without a schema")
	}
}

func TestLangChainSchemaKeepsPromptCueLast(t *testing.T) {
	cfg := testOperationConfig()
	cfg.UseSystemPrompts = boolPtr(false)
	model := &fakeModel{response: &llms.ContentResponse{Choices: []*llms.ContentChoice{{Content: `{"coverLetter":"Dear team"}`}}}}

	prompt := "Write a cover letter for the Software Engineer role.\n\nCover Letter:"
	provider := newLangChainProvider(model, &cfg, "coverLetter", testLogger)
	if _, err := provider.Generate(context.Background(), GenerateRequest{
		Operation:    "coverLetter",
		SystemPrompt: "ignored",
		UserPrompt:   prompt,
		Schema:       CoverLetterSchema(),
	}); err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if len(model.messages) != 2 {
		t.Fatalf("Expected schema system message and user message, got %d", len(model.messages))
	}
	system := textOf(t, model.messages[0])
	if strings.Contains(system, "ignored") || !strings.Contains(system, "coverLetter") {
		t.Errorf("System message should hold only the schema instruction, got:\n%s", system)
	}
	if human := textOf(t, model.messages[1]); !strings.HasSuffix(human, "Cover Letter:") {
		t.Errorf("User prompt should end with its cue, got:\n%s", human)
	}
}

func TestLangChainGenerateNoChoices(t *testing.T) {
	cfg := testOperationConfig()
	model := &fakeModel{response: &llms.ContentResponse{}}

	provider := newLangChainProvider(model, &cfg, "salary", testLogger)
	if _, err := provider.Generate(context.Background(), GenerateRequest{UserPrompt: "p"}); err == nil {
		t.Fatal("Expected error when the model returns no choices")
	}
	if info := provider.GetModelInfo(context.Background()); !info.Available {
		t.Error("A single failure should not open the breaker")
	}
}
