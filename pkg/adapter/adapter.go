// Package adapter defines the capability contract every ticketing backend
// must satisfy.
//
// An adapter bundles three concerns behind one interface: construction of
// auth and client instances, configuration schema and validation, and
// status mapping between the backend's vocabulary and the common one.
// The host does not care which backend sits behind the interface; all
// implementations are managed uniformly by the registry and factory.
package adapter

import (
	"github.com/goatkit/ticketq/pkg/models"
)

// Feature tags an adapter can advertise in SupportedFeatures.
const (
	FeatureTickets        = "tickets"
	FeatureUsers          = "users"
	FeatureGroups         = "groups"
	FeatureSearch         = "search"
	FeatureExport         = "export"
	FeatureAuthentication = "authentication"
	FeatureFiltering      = "filtering"
	FeatureSorting        = "sorting"
)

// Config is an adapter configuration: plain connection parameters keyed
// by field name, as loaded from the per-adapter config file.
type Config map[string]any

// Adapter is the contract a ticketing backend implements. One adapter
// value can be asked to build any number of fresh auth/client pairs;
// CreateAuth and CreateClient are factory methods, not state.
type Adapter interface {
	// Name is the machine key, e.g. "zendesk".
	Name() string
	// DisplayName is the human-readable name, e.g. "Zendesk".
	DisplayName() string
	// Version is the adapter version.
	Version() string
	// SupportedFeatures lists the capability tags the adapter supports.
	SupportedFeatures() []string

	// CreateAuth builds an authentication handle from configuration.
	CreateAuth(config Config) (Auth, error)
	// CreateClient builds an API client bound to the given auth.
	CreateClient(auth Auth) (Client, error)

	// ValidateConfig performs structural and domain checks on a
	// configuration. Local only; it must not touch the network.
	ValidateConfig(config Config) bool
	// ConfigSchema returns a JSON-Schema description of the
	// configuration, used for interactive prompting.
	ConfigSchema() map[string]any
	// DefaultConfig returns a template with placeholder values.
	DefaultConfig() Config

	// NormalizeStatus maps a backend status onto the common
	// enumeration. Case-insensitive; unknown statuses pass through
	// unchanged rather than being rejected.
	NormalizeStatus(status string) string
	// DenormalizeStatus is the inverse mapping, with the same leniency.
	DenormalizeStatus(status string) string

	// SpecificOperations exposes capabilities with no common analogue,
	// looked up by name. Operations must not fail loudly: on internal
	// error they return an empty result.
	SpecificOperations() map[string]SpecificOperation
}

// SpecificOperation is an adapter-specific capability. It receives the
// adapter's live client and free-form arguments, and returns a backend
// shaped result. Implementations swallow internal failures and return an
// empty result instead of an error.
type SpecificOperation func(client Client, args ...any) any

// Auth is the authentication handle an adapter builds from its config.
type Auth interface {
	// Authenticate verifies the credentials against the backend.
	// It returns false on soft failure and a typed
	// AuthenticationError on hard failure.
	Authenticate() (bool, error)
	// AuthHeaders returns the headers to attach to API requests.
	AuthHeaders() map[string]string
	// IsAuthenticated reports whether Authenticate has succeeded.
	IsAuthenticated() bool
}

// TicketFilter narrows a ticket fetch. Zero values mean "no filter".
type TicketFilter struct {
	// Status is a single backend status; multi-status unions are
	// synthesized by the caller, one fetch per status.
	Status     string
	AssigneeID string
	GroupID    string
	// Extra carries backend-specific filter terms.
	Extra map[string]string
}

// Client is the API surface an adapter exposes. All methods return
// generic models already mapped (the client, not its caller, owns the
// mapper) and raise only the shared error taxonomy; transport errors
// never leak. Point lookups return nil, nil when the entity is absent.
type Client interface {
	GetTickets(filter TicketFilter) ([]*models.Ticket, error)
	GetTicket(id string) (*models.Ticket, error)
	GetCurrentUser() (*models.User, error)
	GetUser(id string) (*models.User, error)
	GetGroups() ([]*models.Group, error)
	GetGroup(id string) (*models.Group, error)
	SearchTickets(query string) ([]*models.Ticket, error)
}

// SupportsFeature reports whether the adapter advertises the feature.
func SupportsFeature(a Adapter, feature string) bool {
	for _, f := range a.SupportedFeatures() {
		if f == feature {
			return true
		}
	}
	return false
}
