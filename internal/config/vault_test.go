package config

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSecrets struct {
	strings map[string]string
	err     error
}

func (f *fakeSecrets) GetStringSecret(path, key string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	value, ok := f.strings[path+"#"+key]
	if !ok {
		return "", fmt.Errorf("key '%s' not found in secret %s", key, path)
	}
	return value, nil
}

func (f *fakeSecrets) GetStringSliceSecret(path, key string) ([]string, error) {
	value, err := f.GetStringSecret(path, key)
	if err != nil {
		return nil, err
	}
	return splitAndTrim(value), nil
}

func TestParseVersionValue(t *testing.T) {
	tests := []struct {
		name        string
		input       any
		expected    int64
		expectError bool
	}{
		{name: "int64 value", input: int64(42), expected: 42},
		{name: "float64 value", input: float64(42.0), expected: 42},
		{name: "string value", input: "42", expected: 42},
		{name: "invalid string value", input: "not-a-number", expectError: true},
		{name: "unsupported type", input: []string{"42"}, expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := parseVersionValue(tt.input, "test/path")
			if tt.expectError {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestParseKVv2Secret(t *testing.T) {
	secret, err := parseKVv2Secret(map[string]any{
		"data":     map[string]any{"api_key": "abc"},
		"metadata": map[string]any{"version": float64(3)},
	}, "secret/data/gemini")
	require.NoError(t, err)
	assert.Equal(t, int64(3), secret.Version)

	value, err := stringField(secret, "secret/data/gemini", "api_key")
	require.NoError(t, err)
	assert.Equal(t, "abc", value)

	_, err = stringField(secret, "secret/data/gemini", "missing")
	assert.Error(t, err)

	_, err = parseKVv2Secret(map[string]any{"api_key": "abc"}, "secret/gemini")
	assert.ErrorContains(t, err, "not in KVv2 format")
}

func TestApplySecrets(t *testing.T) {
	cfg := &Config{
		Vault: VaultConfig{Secrets: VaultSecrets{APIKeys: "secret/data/keys", ProviderKey: "secret/data/gemini"}},
		AI:    AIConfig{Salary: OperationAIConfig{APIKey: "salary-only"}},
	}
	src := &fakeSecrets{strings: map[string]string{
		"secret/data/keys#keys":      "k1, k2",
		"secret/data/gemini#api_key": "provider-key",
	}}

	require.NoError(t, applySecrets(src, cfg, nil))
	assert.Equal(t, []string{"k1", "k2"}, cfg.Server.APIKeys)
	assert.Equal(t, "provider-key", cfg.AI.APIKey)
	assert.Equal(t, "salary-only", cfg.AI.Salary.APIKey)
	assert.Equal(t, "provider-key", cfg.AI.Skills.APIKey)
}

func TestApplySecretsPropagatesErrors(t *testing.T) {
	cfg := &Config{Vault: VaultConfig{Secrets: VaultSecrets{ProviderKey: "secret/data/gemini"}}}
	err := applySecrets(&fakeSecrets{err: fmt.Errorf("permission denied")}, cfg, nil)
	assert.ErrorContains(t, err, "permission denied")
}

func TestApplyVaultSecretsDisabled(t *testing.T) {
	cfg := &Config{}
	assert.NoError(t, ApplyVaultSecrets(cfg, nil))
}

func TestResolveVaultToken(t *testing.T) {
	tokenFile := filepath.Join(t.TempDir(), "token")
	require.NoError(t, os.WriteFile(tokenFile, []byte("  s.token \n"), 0600))

	token, err := resolveVaultToken(VaultConfig{TokenFile: tokenFile})
	require.NoError(t, err)
	assert.Equal(t, "s.token", token)

	token, err = resolveVaultToken(VaultConfig{Token: "direct", TokenFile: tokenFile})
	require.NoError(t, err)
	assert.Equal(t, "direct", token)

	_, err = resolveVaultToken(VaultConfig{})
	assert.Error(t, err)
}

func TestMaskSecret(t *testing.T) {
	assert.Equal(t, "abcd****wxyz", maskSecret("abcdefghuvwxyz"))
	assert.Equal(t, "****", maskSecret("short"))
	assert.Equal(t, "", maskSecret(""))
}
