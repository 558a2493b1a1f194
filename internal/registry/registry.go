// Package registry owns the mapping from adapter name to adapter
// constructor.
//
// Adapters announce themselves through a static registration table, the
// database/sql driver pattern: each adapter package calls Provide from an
// init function, and Discover snapshots the table on first use. Discovery is
// fault-isolating: a constructor that panics, returns nil, or fails the
// contract check is skipped with a logged warning while the rest of
// discovery continues. An optional adapters.yaml manifest in the config
// directory can disable adapters or declare aliases.
package registry

import (
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/goatkit/ticketq/pkg/adapter"
	"github.com/goatkit/ticketq/pkg/models"
)

// Constructor builds a fresh adapter value.
type Constructor func() adapter.Adapter

// provider is a pending registration from the package-init table.
type provider struct {
	name string
	ctor Constructor
}

var (
	providersMu sync.Mutex
	providers   []provider
)

// Provide queues an adapter constructor for discovery. Called from
// adapter package init functions; safe to call before any Registry
// exists.
func Provide(name string, ctor Constructor) {
	providersMu.Lock()
	defer providersMu.Unlock()
	providers = append(providers, provider{name: name, ctor: ctor})
}

// manifest is the adapters.yaml override file format.
type manifest struct {
	Disabled []string          `yaml:"disabled,omitempty"`
	Aliases  map[string]string `yaml:"aliases,omitempty"`
}

// Registry caches discovered adapter constructors. Queries trigger
// discovery on first use; discovery runs at most once unless Reload is
// called. Registries are safe for concurrent use but the system itself
// is synchronous; the lock mainly guards the discover-once flag.
type Registry struct {
	logger       *slog.Logger
	manifestPath string

	mu       sync.RWMutex
	loaded   bool
	adapters map[string]Constructor
	aliases  map[string]string
}

// Option configures a Registry.
type Option func(*Registry)

// WithManifest points the registry at an adapters.yaml override file.
// A missing file is fine; a malformed one is logged and ignored.
func WithManifest(path string) Option {
	return func(r *Registry) { r.manifestPath = path }
}

// New creates an empty registry. Discovery is lazy: nothing loads until
// the first query.
func New(logger *slog.Logger, opts ...Option) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	r := &Registry{
		logger:   logger,
		adapters: make(map[string]Constructor),
		aliases:  make(map[string]string),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Discover populates the registry from the registration table. Idempotent;
// runs at most once per registry until Reload.
func (r *Registry) Discover() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.discoverLocked()
}

func (r *Registry) discoverLocked() {
	if r.loaded {
		return
	}

	m := r.loadManifest()
	disabled := make(map[string]bool, len(m.Disabled))
	for _, name := range m.Disabled {
		disabled[strings.ToLower(name)] = true
	}

	providersMu.Lock()
	pending := make([]provider, len(providers))
	copy(pending, providers)
	providersMu.Unlock()

	for _, p := range pending {
		if disabled[strings.ToLower(p.name)] {
			r.logger.Info("adapter disabled by manifest", "name", p.name)
			continue
		}
		if err := checkContract(p.name, p.ctor); err != nil {
			r.logger.Warn("skipping adapter", "name", p.name, "error", err)
			continue
		}
		r.adapters[p.name] = p.ctor
		r.logger.Debug("registered adapter", "name", p.name)
	}

	for alias, target := range m.Aliases {
		if _, ok := r.adapters[target]; ok {
			r.aliases[alias] = target
		} else {
			r.logger.Warn("manifest alias points at unknown adapter", "alias", alias, "target", target)
		}
	}

	r.loaded = true
	r.logger.Debug("adapter discovery complete", "count", len(r.adapters))
}

func (r *Registry) loadManifest() manifest {
	var m manifest
	if r.manifestPath == "" {
		return m
	}
	raw, err := os.ReadFile(r.manifestPath)
	if err != nil {
		if !os.IsNotExist(err) {
			r.logger.Warn("cannot read adapter manifest", "path", r.manifestPath, "error", err)
		}
		return m
	}
	if err := yaml.Unmarshal(raw, &m); err != nil {
		r.logger.Warn("malformed adapter manifest, ignoring", "path", r.manifestPath, "error", err)
		return manifest{}
	}
	return m
}

// checkContract instantiates the constructor transiently and verifies the
// result satisfies the adapter contract. Panics are contained.
func checkContract(name string, ctor Constructor) (err error) {
	if ctor == nil {
		return fmt.Errorf("adapter %q has a nil constructor", name)
	}
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("adapter %q constructor panicked: %v", name, rec)
		}
	}()
	a := ctor()
	if a == nil {
		return fmt.Errorf("adapter %q constructor returned nil", name)
	}
	if a.Name() == "" {
		return fmt.Errorf("adapter %q reports an empty name", name)
	}
	if a.Name() != name {
		return fmt.Errorf("adapter registered as %q but reports name %q", name, a.Name())
	}
	return nil
}

// Register adds an adapter directly, bypassing the provider table. Used
// for tests and for embedding. Returns a PluginError when the candidate
// fails the contract check.
func (r *Registry) Register(name string, ctor Constructor) error {
	if err := checkContract(name, ctor); err != nil {
		return models.NewPluginError(name, "adapter does not satisfy the contract", err)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.discoverLocked()
	r.adapters[name] = ctor
	r.logger.Info("manually registered adapter", "name", name)
	return nil
}

// Get resolves an adapter constructor by name or alias.
func (r *Registry) Get(name string) (Constructor, bool) {
	r.mu.Lock()
	r.discoverLocked()
	if target, ok := r.aliases[name]; ok {
		name = target
	}
	ctor, ok := r.adapters[name]
	r.mu.Unlock()
	return ctor, ok
}

// List returns the available adapter names, sorted.
func (r *Registry) List() []string {
	r.mu.Lock()
	r.discoverLocked()
	names := make([]string, 0, len(r.adapters))
	for name := range r.adapters {
		names = append(names, name)
	}
	r.mu.Unlock()
	sort.Strings(names)
	return names
}

// IsAvailable reports whether the named adapter can be resolved.
func (r *Registry) IsAvailable(name string) bool {
	_, ok := r.Get(name)
	return ok
}

// Reload clears the cache and re-runs discovery on next use.
func (r *Registry) Reload() {
	r.mu.Lock()
	r.adapters = make(map[string]Constructor)
	r.aliases = make(map[string]string)
	r.loaded = false
	r.mu.Unlock()
}

// Info describes an adapter for listing UIs.
type Info struct {
	Name        string
	DisplayName string
	Version     string
	Features    []string
}

// AdapterInfo instantiates the adapter transiently to read its identity.
// A constructor that fails here yields degraded placeholder info rather
// than an error: info lookups must not be able to crash a listing.
func (r *Registry) AdapterInfo(name string) (Info, bool) {
	ctor, ok := r.Get(name)
	if !ok {
		return Info{}, false
	}

	display := name
	if len(display) > 0 {
		display = strings.ToUpper(display[:1]) + display[1:]
	}
	info := Info{
		Name:        name,
		DisplayName: display,
		Version:     "unknown",
		Features:    []string{"unknown"},
	}
	func() {
		defer func() {
			if rec := recover(); rec != nil {
				r.logger.Warn("could not read adapter info", "name", name, "panic", rec)
			}
		}()
		a := ctor()
		if a == nil {
			return
		}
		info.DisplayName = a.DisplayName()
		info.Version = a.Version()
		info.Features = a.SupportedFeatures()
	}()
	return info, true
}
