package models

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"
)

func TestErrorDefaultSuggestions(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"configuration", NewConfigurationError("no config", nil)},
		{"plugin", NewPluginError("zendesk", "broken", nil)},
		{"authentication", NewAuthenticationError("zendesk", "denied", nil)},
		{"network", NewNetworkError("zendesk", "unreachable", nil)},
		{"timeout", NewTimeoutError("zendesk", "too slow", 30*time.Second, nil)},
		{"api", NewAPIError("zendesk", "bad response", 500, nil)},
		{"rate limit", NewRateLimitError("zendesk", "slow down", 60)},
		{"validation", NewValidationError("bad input", "status", nil)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var root *TicketQError
			switch e := tt.err.(type) {
			case *ConfigurationError:
				root = &e.TicketQError
			case *PluginError:
				root = &e.TicketQError
			case *AuthenticationError:
				root = &e.TicketQError
			case *NetworkError:
				root = &e.TicketQError
			case *TimeoutError:
				root = &e.TicketQError
			case *APIError:
				root = &e.TicketQError
			case *RateLimitError:
				root = &e.TicketQError
			case *ValidationError:
				root = &e.TicketQError
			}
			if len(root.Suggestions) == 0 {
				t.Error("suggestions should never be empty")
			}
		})
	}
}

func TestErrorPreservesCause(t *testing.T) {
	cause := fmt.Errorf("disk exploded")
	err := NewConfigurationError("load failed", cause)

	if !errors.Is(err, cause) {
		t.Error("errors.Is should find the original cause")
	}
	if !strings.Contains(err.Error(), "disk exploded") {
		t.Errorf("Error() = %q, should include cause", err.Error())
	}
}

func TestErrorsAsTyping(t *testing.T) {
	var fn func() error = func() error {
		return NewRateLimitError("zendesk", "limited", 30)
	}
	err := fn()

	var rle *RateLimitError
	if !errors.As(err, &rle) {
		t.Fatal("errors.As should match *RateLimitError")
	}
	if rle.RetryAfter != 30 {
		t.Errorf("RetryAfter = %d, want 30", rle.RetryAfter)
	}

	// Rate limiting is a subtype of APIError.
	var api *APIError
	if !errors.As(err, &api) {
		t.Fatal("errors.As should match *APIError for rate limit errors")
	}
	if api.StatusCode != 429 {
		t.Errorf("StatusCode = %d, want 429", api.StatusCode)
	}
}

func TestErrorContext(t *testing.T) {
	err := NewAPIError("zendesk", "nope", 404, nil)
	if err.Context["status_code"] != 404 {
		t.Errorf("context status_code = %v, want 404", err.Context["status_code"])
	}
	if err.Context["adapter"] != "zendesk" {
		t.Errorf("context adapter = %v", err.Context["adapter"])
	}

	rl := NewRateLimitError("zendesk", "limited", 17)
	if rl.Context["retry_after"] != 17 {
		t.Errorf("context retry_after = %v, want 17", rl.Context["retry_after"])
	}
}

func TestDetailOrdersContextKeys(t *testing.T) {
	err := NewTimeoutError("zendesk", "too slow", 30*time.Second, nil)

	detail := err.Detail()
	adapterAt := strings.Index(detail, "adapter=")
	timeoutAt := strings.Index(detail, "timeout=")
	if adapterAt < 0 || timeoutAt < 0 {
		t.Fatalf("Detail() = %q, want both context entries", detail)
	}
	if adapterAt > timeoutAt {
		t.Errorf("context keys out of order: %q", detail)
	}
	// Rendering twice yields identical output.
	if again := err.Detail(); again != detail {
		t.Errorf("Detail() is not deterministic:\n%q\n%q", detail, again)
	}
}

func TestDetailRendersSuggestions(t *testing.T) {
	err := NewConfigurationError("no adapters are configured", nil,
		"Configure an adapter: tq configure --adapter zendesk")

	detail := err.Detail()
	if !strings.Contains(detail, "Suggestions:") {
		t.Error("Detail() should include a Suggestions section")
	}
	if !strings.Contains(detail, "tq configure --adapter zendesk") {
		t.Error("Detail() should include the suggestion text")
	}
}
