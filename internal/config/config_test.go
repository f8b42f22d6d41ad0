package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolateEnv points config discovery at an empty directory and clears key variables
func isolateEnv(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("HOME", dir)
	for _, env := range []string{"GEMINI_API_KEY", "GOOGLE_API_KEY", "SALARYINSIGHTS_AI_APIKEY", "SALARYINSIGHTS_SERVER_APIKEYS"} {
		t.Setenv(env, "")
	}
	return dir
}

func TestLoadConfigDefaults(t *testing.T) {
	isolateEnv(t)
	t.Setenv("SALARYINSIGHTS_AI_APIKEY", "test-key")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "gemini", cfg.AI.Provider)
	assert.Equal(t, "test-key", cfg.AI.APIKey)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "en-US", cfg.App.Locale)
	assert.Equal(t, "salary_insights_session", cfg.Server.Web.SessionCookie)

	salary := cfg.GetSalaryConfig()
	assert.Equal(t, "gemini", salary.Provider)
	assert.Equal(t, "gemini-2.0-flash", salary.Model)
	assert.Equal(t, 30*time.Second, *salary.Timeout)
	assert.Equal(t, 0, *salary.MaxRetries)
	assert.InDelta(t, 0.2, float64(*salary.Temperature), 0.0001)
	assert.Equal(t, "test-key", salary.APIKey)
	assert.True(t, salary.CircuitBreaker.Enabled)

	cover := cfg.GetCoverLetterConfig()
	assert.Equal(t, 90*time.Second, *cover.Timeout)
}

func TestLoadConfigMissingAPIKey(t *testing.T) {
	isolateEnv(t)

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "AI API key is required")
}

func TestLoadConfigLegacyKeyVariable(t *testing.T) {
	isolateEnv(t)
	t.Setenv("GEMINI_API_KEY", "legacy-key")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "legacy-key", cfg.GetSkillsConfig().APIKey)
}

func TestLoadConfigFile(t *testing.T) {
	dir := isolateEnv(t)

	promptFile := filepath.Join(dir, "salary.user.tmpl")
	require.NoError(t, os.WriteFile(promptFile, []byte("Role: {{.JobRole}}\n"), 0600))

	configFile := filepath.Join(dir, "config.yaml")
	content := `
ai:
  apiKey: file-key
  salary:
    model: gemini-2.5-pro
    maxRetries: 2
    prompts:
      userFile: ` + promptFile + `
  coverLetter:
    prompts:
      system: Write warmly.
server:
  port: "9999"
  apiKeys: ["a", "b"]
`
	require.NoError(t, os.WriteFile(configFile, []byte(content), 0600))

	cfg, err := LoadConfigFile(configFile)
	require.NoError(t, err)

	salary := cfg.GetSalaryConfig()
	assert.Equal(t, "gemini-2.5-pro", salary.Model)
	assert.Equal(t, 2, *salary.MaxRetries)
	assert.Equal(t, "9999", cfg.Server.Port)
	assert.Equal(t, []string{"a", "b"}, cfg.Server.APIKeys)

	assert.Equal(t, "Role: {{.JobRole}}", cfg.Prompts().Get(OperationSalary).User)
	assert.Equal(t, "Write warmly.", cfg.Prompts().Get(OperationCoverLetter).System)
	assert.Equal(t, "config", cfg.Prompts().Get(OperationCoverLetter).SystemSource)
}

func TestLoadConfigFileMissingPromptFile(t *testing.T) {
	dir := isolateEnv(t)

	configFile := filepath.Join(dir, "config.yaml")
	content := `
ai:
  apiKey: k
  skills:
    prompts:
      systemFile: ` + filepath.Join(dir, "missing.md") + `
`
	require.NoError(t, os.WriteFile(configFile, []byte(content), 0600))

	_, err := LoadConfigFile(configFile)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "prompt file not found")
}

func TestServerAPIKeysFromEnv(t *testing.T) {
	isolateEnv(t)
	t.Setenv("SALARYINSIGHTS_AI_APIKEY", "k")
	t.Setenv("SALARYINSIGHTS_SERVER_APIKEYS", " one, two ,,three ")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, []string{"one", "two", "three"}, cfg.Server.APIKeys)
}

func TestOperationConfigFallback(t *testing.T) {
	timeout := 5 * time.Second
	temperature := float32(0.1)
	cfg := &Config{
		AI: AIConfig{
			Provider:         "gemini",
			Model:            "global-model",
			Timeout:          time.Minute,
			APIKey:           "global-key",
			MaxRetries:       1,
			Temperature:      0.7,
			UseSystemPrompts: true,
			Skills: OperationAIConfig{
				Provider:    "langchain",
				Timeout:     &timeout,
				Temperature: &temperature,
				APIKey:      "skills-key",
			},
		},
	}

	skills, err := cfg.OperationConfig(OperationSkills)
	require.NoError(t, err)
	assert.Equal(t, "langchain", skills.Provider)
	assert.Equal(t, "global-model", skills.Model)
	assert.Equal(t, timeout, *skills.Timeout)
	assert.Equal(t, "skills-key", skills.APIKey)
	assert.Equal(t, 1, *skills.MaxRetries)
	assert.Equal(t, temperature, *skills.Temperature)
	assert.True(t, *skills.UseSystemPrompts)

	salary, err := cfg.OperationConfig(OperationSalary)
	require.NoError(t, err)
	assert.Equal(t, "gemini", salary.Provider)
	assert.Equal(t, time.Minute, *salary.Timeout)

	// Fallback values are copies, not aliases of the global config.
	*salary.MaxRetries = 9
	assert.Equal(t, 1, cfg.AI.MaxRetries)

	_, err = cfg.OperationConfig("tailor")
	assert.Error(t, err)
}

func TestApplyProviderKey(t *testing.T) {
	cfg := &Config{AI: AIConfig{CoverLetter: OperationAIConfig{APIKey: "existing"}}}
	cfg.ApplyProviderKey("vault-key")

	assert.Equal(t, "vault-key", cfg.AI.APIKey)
	assert.Equal(t, "vault-key", cfg.AI.Salary.APIKey)
	assert.Equal(t, "existing", cfg.AI.CoverLetter.APIKey)
	assert.Equal(t, "vault-key", cfg.AI.Skills.APIKey)
}

func TestValidateRejectsUnknownProvider(t *testing.T) {
	isolateEnv(t)
	t.Setenv("SALARYINSIGHTS_AI_APIKEY", "k")
	t.Setenv("SALARYINSIGHTS_AI_PROVIDER", "openai")

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported AI provider")
}
