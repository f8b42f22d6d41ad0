package ai

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"google.golang.org/api/googleapi"
	"google.golang.org/genai"
)

func TestIsRetryableError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"plain error", stderrors.New("boom"), false},
		{"canceled", context.Canceled, false},
		{"deadline", fmt.Errorf("call: %w", context.DeadlineExceeded), false},
		{"googleapi 503", &googleapi.Error{Code: http.StatusServiceUnavailable}, true},
		{"googleapi 429 wrapped", fmt.Errorf("wrapped: %w", &googleapi.Error{Code: http.StatusTooManyRequests}), true},
		{"googleapi 400", &googleapi.Error{Code: http.StatusBadRequest}, false},
		{"genai 500", genai.APIError{Code: http.StatusInternalServerError}, true},
		{"genai 403", genai.APIError{Code: http.StatusForbidden}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isRetryableError(tt.err); got != tt.want {
				t.Errorf("isRetryableError(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestBackoffDelay(t *testing.T) {
	if d := backoffDelay(1); d < time.Second || d > 1100*time.Millisecond {
		t.Errorf("First backoff should be about 1s, got %v", d)
	}
	if d := backoffDelay(3); d < 4*time.Second || d > 4400*time.Millisecond {
		t.Errorf("Third backoff should be about 4s, got %v", d)
	}
	if d := backoffDelay(10); d != maxBackoff {
		t.Errorf("Backoff should be capped at %v, got %v", maxBackoff, d)
	}
}

func TestExecuteWithRetryStopsOnNonRetryable(t *testing.T) {
	calls := 0
	failure := stderrors.New("invalid argument")

	_, err := executeWithRetry(context.Background(), testLogger, "salary", 3, func() (string, error) {
		calls++
		return "", failure
	})

	if calls != 1 {
		t.Errorf("Expected 1 call, got %d", calls)
	}
	if err != failure {
		t.Errorf("A non-retryable failure should be returned unchanged, got %v", err)
	}
}

func TestExecuteWithRetryReportsAttemptsMade(t *testing.T) {
	calls := 0
	failure := stderrors.New("invalid argument")

	_, err := executeWithRetry(context.Background(), testLogger, "coverLetter", 3, func() (string, error) {
		calls++
		if calls == 1 {
			return "", &googleapi.Error{Code: http.StatusServiceUnavailable}
		}
		return "", failure
	})

	if calls != 2 {
		t.Fatalf("Expected 2 calls, got %d", calls)
	}
	if !stderrors.Is(err, failure) {
		t.Errorf("Expected the last failure wrapped, got %v", err)
	}
	if want := "operation 'coverLetter' failed after 2 attempts: invalid argument"; err == nil || err.Error() != want {
		t.Errorf("err = %v, want %q", err, want)
	}
}

func TestExecuteWithRetryNoRetriesReturnsRawError(t *testing.T) {
	failure := &googleapi.Error{Code: http.StatusServiceUnavailable}

	_, err := executeWithRetry(context.Background(), testLogger, "salary", 0, func() (int, error) {
		return 0, failure
	})

	if err != failure {
		t.Errorf("Expected the provider error unchanged, got %v", err)
	}
}

func TestExecuteWithRetryHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	calls := 0
	_, err := executeWithRetry(ctx, testLogger, "skills", 2, func() (string, error) {
		calls++
		cancel()
		return "", &googleapi.Error{Code: http.StatusBadGateway}
	})

	if !stderrors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
	if calls != 1 {
		t.Errorf("Expected no attempt after cancellation, got %d calls", calls)
	}
}

func TestExecuteWithRetrySucceeds(t *testing.T) {
	got, err := executeWithRetry(context.Background(), testLogger, "salary", 2, func() (string, error) {
		return "ok", nil
	})
	if err != nil || got != "ok" {
		t.Errorf("Expected ok, got %q, %v", got, err)
	}
}
