package zendesk

import (
	"encoding/base64"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/goatkit/ticketq/pkg/adapter"
	"github.com/goatkit/ticketq/pkg/models"
)

func validConfig() adapter.Config {
	return adapter.Config{
		"domain":    "acme.zendesk.com",
		"email":     "agent@acme.com",
		"api_token": "abcdef123456",
	}
}

func TestNewAuthRequiresAllFields(t *testing.T) {
	for _, missing := range []string{"domain", "email", "api_token"} {
		t.Run("missing "+missing, func(t *testing.T) {
			cfg := validConfig()
			delete(cfg, missing)
			_, err := NewAuth(cfg)
			var ce *models.ConfigurationError
			if !errors.As(err, &ce) {
				t.Errorf("error = %v, want *models.ConfigurationError", err)
			}
		})
	}
}

func TestAuthHeaders(t *testing.T) {
	auth, err := NewAuth(validConfig())
	if err != nil {
		t.Fatal(err)
	}

	headers := auth.AuthHeaders()
	wantCreds := base64.StdEncoding.EncodeToString([]byte("agent@acme.com/token:abcdef123456"))
	if headers["Authorization"] != "Basic "+wantCreds {
		t.Errorf("Authorization = %q", headers["Authorization"])
	}
	if !strings.HasPrefix(headers["User-Agent"], "ticketq/") {
		t.Errorf("User-Agent = %q", headers["User-Agent"])
	}
}

func TestAuthenticate(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		wantOK    bool
		wantTyped bool
	}{
		{"success", http.StatusOK, true, false},
		{"bad credentials", http.StatusUnauthorized, false, true},
		{"server error", http.StatusServiceUnavailable, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/api/v2/users/me.json" {
					t.Errorf("unexpected path %s", r.URL.Path)
				}
				if r.Header.Get("Authorization") == "" {
					t.Error("missing Authorization header")
				}
				w.WriteHeader(tt.status)
				w.Write([]byte(`{"user":{"id":42}}`))
			}))
			defer srv.Close()

			auth, err := NewAuth(validConfig())
			if err != nil {
				t.Fatal(err)
			}
			auth.baseURL = srv.URL + "/api/v2"

			ok, err := auth.Authenticate()
			if ok != tt.wantOK {
				t.Errorf("Authenticate() = %v, want %v", ok, tt.wantOK)
			}
			if tt.wantTyped {
				var ae *models.AuthenticationError
				if !errors.As(err, &ae) {
					t.Errorf("error = %v, want *models.AuthenticationError", err)
				}
			} else if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if auth.IsAuthenticated() != tt.wantOK {
				t.Errorf("IsAuthenticated() = %v", auth.IsAuthenticated())
			}
		})
	}
}
