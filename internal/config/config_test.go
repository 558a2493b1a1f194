package config

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/goatkit/ticketq/pkg/adapter"
	"github.com/goatkit/ticketq/pkg/models"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	m, err := NewManager(t.TempDir())
	if err != nil {
		t.Fatalf("NewManager() error: %v", err)
	}
	return m
}

func TestDefaultAdapterRoundTrip(t *testing.T) {
	m := newTestManager(t)

	if got := m.DefaultAdapter(); got != "" {
		t.Errorf("DefaultAdapter() on empty config = %q, want \"\"", got)
	}
	if err := m.SetDefaultAdapter("zendesk"); err != nil {
		t.Fatalf("SetDefaultAdapter() error: %v", err)
	}

	// A fresh manager over the same dir must read the persisted value.
	m2, err := NewManager(m.Dir())
	if err != nil {
		t.Fatal(err)
	}
	if got := m2.DefaultAdapter(); got != "zendesk" {
		t.Errorf("DefaultAdapter() after restart = %q, want zendesk", got)
	}
}

func TestAdapterConfigRoundTrip(t *testing.T) {
	m := newTestManager(t)

	cfg := adapter.Config{
		"subdomain": "acme",
		"email":     "agent@acme.com",
		"api_token": "super-secret-token",
	}
	if err := m.SaveAdapterConfig("zendesk", cfg); err != nil {
		t.Fatalf("SaveAdapterConfig() error: %v", err)
	}

	// The plain-text file must not hold the token.
	raw, err := os.ReadFile(filepath.Join(m.Dir(), "zendesk.json"))
	if err != nil {
		t.Fatal(err)
	}
	if bytes.Contains(raw, []byte("super-secret-token")) {
		t.Error("zendesk.json should not contain the token")
	}

	loaded, err := m.LoadAdapterConfig("zendesk")
	if err != nil {
		t.Fatalf("LoadAdapterConfig() error: %v", err)
	}
	if loaded["subdomain"] != "acme" {
		t.Errorf("subdomain = %v, want acme", loaded["subdomain"])
	}
	if loaded["api_token"] != "super-secret-token" {
		t.Errorf("token = %v, want the stored secret", loaded["api_token"])
	}
}

func TestLoadMissingAdapterConfig(t *testing.T) {
	m := newTestManager(t)

	_, err := m.LoadAdapterConfig("zendesk")
	if err == nil {
		t.Fatal("LoadAdapterConfig() should fail for a missing file")
	}
	var ce *models.ConfigurationError
	if !errors.As(err, &ce) {
		t.Fatalf("error type = %T, want *models.ConfigurationError", err)
	}
	if ce.ConfigFile == "" {
		t.Error("error should name the expected config file")
	}
}

func TestLoadCorruptAdapterConfig(t *testing.T) {
	m := newTestManager(t)
	path := filepath.Join(m.Dir(), "zendesk.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o600); err != nil {
		t.Fatal(err)
	}

	_, err := m.LoadAdapterConfig("zendesk")
	var ce *models.ConfigurationError
	if !errors.As(err, &ce) {
		t.Fatalf("error = %v, want *models.ConfigurationError", err)
	}
}

func TestDeleteAdapterConfig(t *testing.T) {
	m := newTestManager(t)
	if err := m.SaveAdapterConfig("zendesk", adapter.Config{"subdomain": "acme", "api_token": "tok-123456"}); err != nil {
		t.Fatal(err)
	}
	if !m.IsConfigured("zendesk") {
		t.Fatal("IsConfigured() = false after save")
	}

	if err := m.DeleteAdapterConfig("zendesk"); err != nil {
		t.Fatalf("DeleteAdapterConfig() error: %v", err)
	}
	if m.IsConfigured("zendesk") {
		t.Error("IsConfigured() = true after delete")
	}
	// Deleting again is not an error.
	if err := m.DeleteAdapterConfig("zendesk"); err != nil {
		t.Errorf("second delete error: %v", err)
	}
}

func TestListConfiguredSkipsReservedFiles(t *testing.T) {
	m := newTestManager(t)
	if err := m.SetDefaultAdapter("zendesk"); err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"zendesk", "jira"} {
		if err := m.SaveAdapterConfig(name, adapter.Config{"api_token": "tok-" + name + "123"}); err != nil {
			t.Fatal(err)
		}
	}

	got := m.ListConfigured()
	want := []string{"jira", "zendesk"}
	if len(got) != len(want) {
		t.Fatalf("ListConfigured() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("ListConfigured()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestFileSecretStorePermissions(t *testing.T) {
	dir := t.TempDir()
	s := &fileSecretStore{path: filepath.Join(dir, "credentials.json")}

	if err := s.Set("zendesk", "tok"); err != nil {
		t.Fatal(err)
	}
	fi, err := os.Stat(s.path)
	if err != nil {
		t.Fatal(err)
	}
	if perm := fi.Mode().Perm(); perm != 0o600 {
		t.Errorf("credentials.json mode = %o, want 600", perm)
	}

	got, err := s.Get("zendesk")
	if err != nil || got != "tok" {
		t.Errorf("Get() = %q, %v", got, err)
	}
	if err := s.Delete("zendesk"); err != nil {
		t.Fatal(err)
	}
	if got, _ := s.Get("zendesk"); got != "" {
		t.Errorf("Get() after delete = %q, want \"\"", got)
	}
}
