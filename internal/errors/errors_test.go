package errors

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"testing"
)

func TestProviderErrorClassification(t *testing.T) {
	cause := fmt.Errorf("connection reset")
	err := NewProviderError("predictSalary", cause)

	if !IsProviderError(err) {
		t.Fatal("expected provider error")
	}
	if IsValidationError(err) {
		t.Error("provider error must not classify as validation")
	}
	if err.Type != ErrorTypeAI {
		t.Errorf("expected type %q, got %q", ErrorTypeAI, err.Type)
	}
	if err.Context["operation"] != "predictSalary" {
		t.Errorf("expected operation context, got %v", err.Context)
	}

	wrapped := fmt.Errorf("handler: %w", err)
	if !IsProviderError(wrapped) {
		t.Error("expected wrapped provider error to be detected")
	}
	if IsProviderError(cause) {
		t.Error("plain error must not classify as provider error")
	}
}

func TestValidationErrorClassification(t *testing.T) {
	err := NewValidationError(ErrCodeInvalidProfile, "bad input", nil)
	if !IsValidationError(err) {
		t.Error("expected validation error")
	}
	if IsProviderError(err) {
		t.Error("validation error must not classify as provider error")
	}
}

func TestAppErrorMessage(t *testing.T) {
	tests := []struct {
		name     string
		err      *AppError
		expected string
	}{
		{
			name:     "without cause",
			err:      NewConfigError(ErrCodeInvalidConfig, "bad port", nil),
			expected: "INVALID_CONFIG: bad port",
		},
		{
			name:     "with cause",
			err:      NewIOError(ErrCodeFileNotFound, "missing", fmt.Errorf("stat failed")),
			expected: "FILE_NOT_FOUND: missing (caused by: stat failed)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestLogErrorIncludesContext(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter(&buf, slog.LevelDebug)

	err := NewProviderError("suggestSkills", fmt.Errorf("timeout"))
	logger.LogError(err, "flow failed", "session", "abc")

	var record map[string]any
	if jsonErr := json.Unmarshal(buf.Bytes(), &record); jsonErr != nil {
		t.Fatalf("log output is not JSON: %v (%s)", jsonErr, buf.String())
	}

	checks := map[string]string{
		"msg":        "flow failed",
		"error_code": ErrCodeProviderFailed,
		"operation":  "suggestSkills",
		"session":    "abc",
		"cause":      "timeout",
	}
	for key, want := range checks {
		if got, _ := record[key].(string); got != want {
			t.Errorf("expected %s=%q, got %q", key, want, got)
		}
	}
}

func TestNewLoggerLevels(t *testing.T) {
	for _, level := range []string{"debug", "info", "warn", "error"} {
		if _, err := New(level); err != nil {
			t.Errorf("level %q: unexpected error %v", level, err)
		}
	}

	_, err := New("verbose")
	if err == nil || !strings.Contains(err.Error(), "invalid log level") {
		t.Errorf("expected invalid log level error, got %v", err)
	}
}
