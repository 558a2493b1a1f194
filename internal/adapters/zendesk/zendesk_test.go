package zendesk

import (
	"testing"

	"github.com/goatkit/ticketq/pkg/adapter"
)

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(adapter.Config)
		want   bool
	}{
		{"valid", func(adapter.Config) {}, true},
		{"missing domain", func(c adapter.Config) { delete(c, "domain") }, false},
		{"missing email", func(c adapter.Config) { delete(c, "email") }, false},
		{"missing token", func(c adapter.Config) { delete(c, "api_token") }, false},
		{"wrong domain suffix", func(c adapter.Config) { c["domain"] = "acme.example.com" }, false},
		{"email without at", func(c adapter.Config) { c["email"] = "not-an-email" }, false},
		{"short token", func(c adapter.Config) { c["api_token"] = "short" }, false},
		{"unknown extra field", func(c adapter.Config) { c["surprise"] = "x" }, false},
	}

	a := &Adapter{}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			if got := a.ValidateConfig(cfg); got != tt.want {
				t.Errorf("ValidateConfig() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNormalizeStatus(t *testing.T) {
	a := &Adapter{}
	tests := []struct {
		in, want string
	}{
		{"open", "open"},
		{"OPEN", "open"},
		{"Solved", "solved"},
		{"escalated", "escalated"}, // unknown passes through unchanged
	}
	for _, tt := range tests {
		if got := a.NormalizeStatus(tt.in); got != tt.want {
			t.Errorf("NormalizeStatus(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
	// Normalizing twice is the same as normalizing once.
	for _, tt := range tests {
		if got := a.NormalizeStatus(a.NormalizeStatus(tt.in)); got != tt.want {
			t.Errorf("NormalizeStatus is not idempotent for %q", tt.in)
		}
	}
}

func TestAdapterIdentity(t *testing.T) {
	a := &Adapter{}
	if a.Name() != "zendesk" {
		t.Errorf("Name() = %q", a.Name())
	}
	if a.DisplayName() != "Zendesk" {
		t.Errorf("DisplayName() = %q", a.DisplayName())
	}
	if !adapter.SupportsFeature(a, adapter.FeatureTickets) {
		t.Error("tickets feature missing")
	}
}

func TestDefaultConfigMatchesSchema(t *testing.T) {
	a := &Adapter{}
	schema := a.ConfigSchema()
	required, _ := schema["required"].([]any)
	def := a.DefaultConfig()
	for _, field := range required {
		name, _ := field.(string)
		if _, ok := def[name]; !ok {
			t.Errorf("default config is missing required field %q", name)
		}
	}
}
