// Package config manages the on-disk configuration layout:
//
//	<config dir>/config.json       global settings (default_adapter)
//	<config dir>/<adapter>.json    per-adapter settings, no secrets
//	<config dir>/credentials.json  secrets, mode 0600
//
// The config dir honors XDG_CONFIG_HOME on unix and APPDATA on windows.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"github.com/spf13/viper"

	"github.com/goatkit/ticketq/pkg/adapter"
	"github.com/goatkit/ticketq/pkg/models"
)

const (
	mainConfigName  = "config"
	credentialsFile = "credentials.json"

	// secretKey is the config field that never touches the plain-text
	// adapter file; it lives in the secret store instead.
	secretKey = "api_token"
)

// reserved file basenames that are never adapter configs.
var reservedNames = map[string]bool{
	mainConfigName: true,
	"credentials":  true,
	"adapters":     true,
}

// Dir returns the platform config directory for the application.
func Dir() string {
	if runtime.GOOS == "windows" {
		if appdata := os.Getenv("APPDATA"); appdata != "" {
			return filepath.Join(appdata, "ticketq")
		}
	}
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "ticketq")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".ticketq"
	}
	return filepath.Join(home, ".config", "ticketq")
}

// Manager reads and writes the configuration directory. The zero value is
// not usable; construct with NewManager.
type Manager struct {
	dir     string
	main    *viper.Viper
	secrets SecretStore
}

// Option configures a Manager.
type Option func(*Manager)

// WithSecretStore overrides the default file-backed secret store.
func WithSecretStore(s SecretStore) Option {
	return func(m *Manager) { m.secrets = s }
}

// NewManager creates a Manager rooted at dir, creating the directory if
// needed. Pass an empty dir to use the platform default.
func NewManager(dir string, opts ...Option) (*Manager, error) {
	if dir == "" {
		dir = Dir()
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, models.NewConfigurationError(
			fmt.Sprintf("cannot create config directory %s", dir), err)
	}

	v := viper.New()
	v.SetConfigName(mainConfigName)
	v.SetConfigType("json")
	v.AddConfigPath(dir)
	v.SetDefault("default_adapter", "")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, models.NewConfigurationError("cannot read config.json", err).
				WithConfigFile(filepath.Join(dir, "config.json"))
		}
	}

	m := &Manager{dir: dir, main: v}
	for _, opt := range opts {
		opt(m)
	}
	if m.secrets == nil {
		m.secrets = &fileSecretStore{path: filepath.Join(dir, credentialsFile)}
	}
	return m, nil
}

// Dir returns the directory this manager operates on.
func (m *Manager) Dir() string { return m.dir }

// DefaultAdapter returns the configured default adapter name, or "".
func (m *Manager) DefaultAdapter() string {
	return m.main.GetString("default_adapter")
}

// SetDefaultAdapter persists the default adapter choice.
func (m *Manager) SetDefaultAdapter(name string) error {
	m.main.Set("default_adapter", name)
	path := filepath.Join(m.dir, "config.json")
	if err := m.main.WriteConfigAs(path); err != nil {
		return models.NewConfigurationError("cannot write config.json", err).
			WithConfigFile(path)
	}
	return nil
}

func (m *Manager) adapterPath(name string) string {
	return filepath.Join(m.dir, name+".json")
}

// LoadAdapterConfig reads <name>.json and merges the stored secret into
// the returned config under the adapter's secret key. A missing file
// yields a ConfigurationError naming the expected path.
func (m *Manager) LoadAdapterConfig(name string) (adapter.Config, error) {
	path := m.adapterPath(name)
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, models.NewConfigurationError(
				fmt.Sprintf("adapter %q is not configured", name), nil,
				fmt.Sprintf("Run 'tq configure --adapter %s' to set it up", name)).
				WithConfigFile(path)
		}
		return nil, models.NewConfigurationError(
			fmt.Sprintf("cannot read configuration for adapter %q", name), err).
			WithConfigFile(path)
	}

	cfg := adapter.Config{}
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return nil, models.NewConfigurationError(
			fmt.Sprintf("configuration for adapter %q is not valid JSON", name), err,
			"Fix the file by hand or re-run 'tq configure'").
			WithConfigFile(path)
	}

	if secret, err := m.secrets.Get(name); err == nil && secret != "" {
		cfg[secretKey] = secret
	}
	return cfg, nil
}

// SaveAdapterConfig writes the adapter config to <name>.json. The
// "api_token" key, if present, is moved to the secret store instead of
// the plain-text file.
func (m *Manager) SaveAdapterConfig(name string, cfg adapter.Config) error {
	clean := make(adapter.Config, len(cfg))
	for k, v := range cfg {
		clean[k] = v
	}
	if token, ok := clean[secretKey].(string); ok && token != "" {
		if err := m.secrets.Set(name, token); err != nil {
			return models.NewConfigurationError(
				fmt.Sprintf("cannot store credentials for adapter %q", name), err)
		}
		delete(clean, secretKey)
	}

	raw, err := json.MarshalIndent(clean, "", "  ")
	if err != nil {
		return models.NewConfigurationError(
			fmt.Sprintf("cannot encode configuration for adapter %q", name), err)
	}
	path := m.adapterPath(name)
	if err := os.WriteFile(path, raw, 0o600); err != nil {
		return models.NewConfigurationError(
			fmt.Sprintf("cannot write configuration for adapter %q", name), err).
			WithConfigFile(path)
	}
	return nil
}

// DeleteAdapterConfig removes <name>.json and the stored secret. Missing
// pieces are not an error.
func (m *Manager) DeleteAdapterConfig(name string) error {
	if err := os.Remove(m.adapterPath(name)); err != nil && !os.IsNotExist(err) {
		return models.NewConfigurationError(
			fmt.Sprintf("cannot remove configuration for adapter %q", name), err)
	}
	if err := m.secrets.Delete(name); err != nil {
		return models.NewConfigurationError(
			fmt.Sprintf("cannot remove credentials for adapter %q", name), err)
	}
	return nil
}

// IsConfigured reports whether <name>.json exists.
func (m *Manager) IsConfigured(name string) bool {
	_, err := os.Stat(m.adapterPath(name))
	return err == nil
}

// ListConfigured returns the adapter names that have a config file,
// sorted. Reserved files (config.json, credentials.json) are skipped.
func (m *Manager) ListConfigured() []string {
	entries, err := os.ReadDir(m.dir)
	if err != nil {
		return nil
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		name := strings.TrimSuffix(e.Name(), ".json")
		if reservedNames[name] {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
