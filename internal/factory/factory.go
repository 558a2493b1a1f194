// Package factory turns an adapter name (or nothing at all) into a
// ready-to-use, authenticated adapter instance.
package factory

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/goatkit/ticketq/internal/config"
	"github.com/goatkit/ticketq/internal/registry"
	"github.com/goatkit/ticketq/pkg/adapter"
	"github.com/goatkit/ticketq/pkg/models"
)

// Instance is a fully wired adapter: the adapter itself plus the auth
// and client built from its resolved configuration. Instances are
// cheap; build one per logical session rather than sharing globally.
type Instance struct {
	Adapter adapter.Adapter
	Auth    adapter.Auth
	Client  adapter.Client
	Config  adapter.Config
}

// Factory resolves adapter names against the registry and the config
// directory.
type Factory struct {
	registry *registry.Registry
	config   *config.Manager
	logger   *slog.Logger
}

// New builds a Factory. All three collaborators are required.
func New(reg *registry.Registry, cfg *config.Manager, logger *slog.Logger) *Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &Factory{registry: reg, config: cfg, logger: logger}
}

// CreateAdapter resolves, configures, validates, and wires an adapter.
// An empty name triggers auto-detection. A nil config loads the stored
// configuration for the resolved adapter.
func (f *Factory) CreateAdapter(name string, cfg adapter.Config) (*Instance, error) {
	if name == "" {
		detected, err := f.DetectAdapter()
		if err != nil {
			return nil, err
		}
		name = detected
	}

	ctor, ok := f.registry.Get(name)
	if !ok {
		available := f.registry.List()
		suggestion := fmt.Sprintf("Install it with: go install github.com/goatkit/ticketq-%s@latest", name)
		if len(available) > 0 {
			suggestion += fmt.Sprintf(" (available: %s)", strings.Join(available, ", "))
		}
		return nil, models.NewPluginError(name,
			fmt.Sprintf("adapter %q is not installed", name), nil,
			suggestion,
			"Run 'tq adapters' to list installed adapters")
	}

	a, err := construct(name, ctor)
	if err != nil {
		return nil, err
	}

	if cfg == nil {
		loaded, err := f.config.LoadAdapterConfig(name)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if !a.ValidateConfig(cfg) {
		return nil, models.NewConfigurationError(
			fmt.Sprintf("invalid configuration for adapter %q", name), nil,
			fmt.Sprintf("Run 'tq configure --adapter %s' to fix it", name),
			"Check required fields against the adapter's config schema")
	}

	auth, err := createAuth(a, cfg)
	if err != nil {
		return nil, err
	}
	client, err := createClient(a, auth)
	if err != nil {
		return nil, err
	}

	f.logger.Debug("adapter instance created", "adapter", name)
	return &Instance{Adapter: a, Auth: auth, Client: client, Config: cfg}, nil
}

// DetectAdapter picks the adapter to use when none is named:
// the configured default wins if it is installed, otherwise a single
// configured adapter is unambiguous. Zero or several configured
// adapters is an error that tells the user what to do next.
func (f *Factory) DetectAdapter() (string, error) {
	if def := f.config.DefaultAdapter(); def != "" {
		if f.registry.IsAvailable(def) {
			return def, nil
		}
		f.logger.Warn("default adapter is not installed, falling back to detection", "adapter", def)
	}

	configured := f.ConfiguredAdapters()
	switch len(configured) {
	case 0:
		suggest := "zendesk"
		if avail := f.registry.List(); len(avail) > 0 {
			suggest = avail[0]
		}
		return "", models.NewConfigurationError(
			"no ticketing adapter is configured", nil,
			fmt.Sprintf("Run 'tq configure --adapter %s' to set up the %s adapter", suggest, suggest),
			"Run 'tq adapters' to list installed adapters")
	case 1:
		return configured[0], nil
	default:
		return "", models.NewConfigurationError(
			fmt.Sprintf("multiple adapters are configured (%s) and no default is set",
				strings.Join(configured, ", ")), nil,
			"Pass --adapter <name> to choose one",
			"Or set a default: tq configure --default <name>")
	}
}

// ConfiguredAdapters returns the installed adapter names that have a
// usable stored configuration, sorted. A config file that fails to load
// or loads empty does not count: an empty {} leftover must not make
// auto-detection ambiguous.
func (f *Factory) ConfiguredAdapters() []string {
	var out []string
	for _, name := range f.config.ListConfigured() {
		if !f.registry.IsAvailable(name) {
			continue
		}
		cfg, err := f.config.LoadAdapterConfig(name)
		if err != nil || len(cfg) == 0 {
			continue
		}
		out = append(out, name)
	}
	return out
}

// IsConfigured reports whether the adapter is both installed and
// configured.
func (f *Factory) IsConfigured(name string) bool {
	return f.registry.IsAvailable(name) && f.config.IsConfigured(name)
}

// AvailableAdapters lists the installed adapter names.
func (f *Factory) AvailableAdapters() []string {
	return f.registry.List()
}

func construct(name string, ctor registry.Constructor) (a adapter.Adapter, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = models.NewPluginError(name,
				fmt.Sprintf("adapter %q panicked during construction: %v", name, rec), nil)
		}
	}()
	a = ctor()
	if a == nil {
		return nil, models.NewPluginError(name,
			fmt.Sprintf("adapter %q constructor returned nil", name), nil)
	}
	return a, nil
}

// wrapUntyped passes taxonomy errors through untouched and wraps
// anything else in a PluginError, so a raw backend error never escapes
// the factory.
func wrapUntyped(name, stage string, err error) error {
	var typed interface{ Detail() string }
	if errors.As(err, &typed) {
		return err
	}
	return models.NewPluginError(name,
		fmt.Sprintf("adapter %q failed creating %s", name, stage), err)
}

func createAuth(a adapter.Adapter, cfg adapter.Config) (auth adapter.Auth, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = models.NewPluginError(a.Name(),
				fmt.Sprintf("adapter %q panicked creating auth: %v", a.Name(), rec), nil)
		}
	}()
	auth, err = a.CreateAuth(cfg)
	if err != nil {
		return nil, wrapUntyped(a.Name(), "auth", err)
	}
	if auth == nil {
		return nil, models.NewPluginError(a.Name(),
			fmt.Sprintf("adapter %q returned a nil auth", a.Name()), nil)
	}
	return auth, nil
}

func createClient(a adapter.Adapter, auth adapter.Auth) (client adapter.Client, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = models.NewPluginError(a.Name(),
				fmt.Sprintf("adapter %q panicked creating client: %v", a.Name(), rec), nil)
		}
	}()
	client, err = a.CreateClient(auth)
	if err != nil {
		return nil, wrapUntyped(a.Name(), "client", err)
	}
	if client == nil {
		return nil, models.NewPluginError(a.Name(),
			fmt.Sprintf("adapter %q returned a nil client", a.Name()), nil)
	}
	return client, nil
}
