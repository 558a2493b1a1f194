// Package adaptertest provides a configurable fake adapter for registry,
// factory and facade tests.
package adaptertest

import (
	"fmt"

	"github.com/goatkit/ticketq/pkg/adapter"
	"github.com/goatkit/ticketq/pkg/models"
)

// Fake implements adapter.Adapter with canned data and recordable calls.
// The zero value is usable; NameVal defaults to "fake".
type Fake struct {
	NameVal     string
	DisplayVal  string
	VersionVal  string
	FeaturesVal []string

	ValidateFunc func(adapter.Config) bool
	AuthErr      error
	ClientErr    error

	// Client is returned by CreateClient when set; otherwise a fresh
	// empty FakeClient is built.
	Client *FakeClient

	Operations map[string]adapter.SpecificOperation
}

// New returns a fake adapter with the given name and a bound client.
func New(name string, client *FakeClient) *Fake {
	return &Fake{NameVal: name, Client: client}
}

func (f *Fake) Name() string {
	if f.NameVal == "" {
		return "fake"
	}
	return f.NameVal
}

func (f *Fake) DisplayName() string {
	if f.DisplayVal == "" {
		return "Fake Tracker"
	}
	return f.DisplayVal
}

func (f *Fake) Version() string {
	if f.VersionVal == "" {
		return "0.0.1"
	}
	return f.VersionVal
}

func (f *Fake) SupportedFeatures() []string {
	if f.FeaturesVal == nil {
		return []string{adapter.FeatureTickets, adapter.FeatureUsers, adapter.FeatureGroups}
	}
	return f.FeaturesVal
}

func (f *Fake) CreateAuth(config adapter.Config) (adapter.Auth, error) {
	if f.AuthErr != nil {
		return nil, f.AuthErr
	}
	return &FakeAuth{}, nil
}

func (f *Fake) CreateClient(auth adapter.Auth) (adapter.Client, error) {
	if f.ClientErr != nil {
		return nil, f.ClientErr
	}
	if f.Client != nil {
		return f.Client, nil
	}
	return &FakeClient{}, nil
}

func (f *Fake) ValidateConfig(config adapter.Config) bool {
	if f.ValidateFunc != nil {
		return f.ValidateFunc(config)
	}
	return true
}

func (f *Fake) ConfigSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"domain": map[string]any{"type": "string"},
		},
		"required": []any{"domain"},
	}
}

func (f *Fake) DefaultConfig() adapter.Config {
	return adapter.Config{"domain": "example.invalid"}
}

func (f *Fake) NormalizeStatus(status string) string   { return status }
func (f *Fake) DenormalizeStatus(status string) string { return status }

func (f *Fake) SpecificOperations() map[string]adapter.SpecificOperation {
	return f.Operations
}

// FakeAuth implements adapter.Auth. The zero value authenticates
// successfully; set Fail or Err to exercise failure paths.
type FakeAuth struct {
	Fail          bool
	Err           error
	authenticated bool
}

func (a *FakeAuth) Authenticate() (bool, error) {
	if a.Err != nil {
		return false, a.Err
	}
	a.authenticated = !a.Fail
	return a.authenticated, nil
}

func (a *FakeAuth) AuthHeaders() map[string]string {
	return map[string]string{"Authorization": "Basic fake"}
}

func (a *FakeAuth) IsAuthenticated() bool { return a.authenticated }

// FakeClient implements adapter.Client from canned fixtures and records
// every call it receives.
type FakeClient struct {
	TicketsByStatus map[string][]*models.Ticket
	AllTickets      []*models.Ticket
	TicketsErr      error

	CurrentUser    *models.User
	CurrentUserErr error
	UsersByID      map[string]*models.User

	Groups    []*models.Group
	GroupsErr error

	SearchResults []*models.Ticket
	SearchErr     error

	// Calls records "method:detail" strings in invocation order.
	Calls []string
}

func (c *FakeClient) record(method, detail string) {
	c.Calls = append(c.Calls, method+":"+detail)
}

func (c *FakeClient) GetTickets(filter adapter.TicketFilter) ([]*models.Ticket, error) {
	c.record("GetTickets", fmt.Sprintf("status=%s assignee=%s group=%s", filter.Status, filter.AssigneeID, filter.GroupID))
	if c.TicketsErr != nil {
		return nil, c.TicketsErr
	}
	var pool []*models.Ticket
	if filter.Status != "" && c.TicketsByStatus != nil {
		pool = c.TicketsByStatus[filter.Status]
	} else {
		pool = c.AllTickets
	}
	var out []*models.Ticket
	for _, t := range pool {
		if filter.AssigneeID != "" && t.AssigneeID != filter.AssigneeID {
			continue
		}
		if filter.GroupID != "" && t.GroupID != filter.GroupID {
			continue
		}
		out = append(out, t)
	}
	return out, nil
}

func (c *FakeClient) GetTicket(id string) (*models.Ticket, error) {
	c.record("GetTicket", id)
	for _, t := range c.AllTickets {
		if t.ID == id {
			return t, nil
		}
	}
	for _, pool := range c.TicketsByStatus {
		for _, t := range pool {
			if t.ID == id {
				return t, nil
			}
		}
	}
	return nil, nil
}

func (c *FakeClient) GetCurrentUser() (*models.User, error) {
	c.record("GetCurrentUser", "")
	if c.CurrentUserErr != nil {
		return nil, c.CurrentUserErr
	}
	return c.CurrentUser, nil
}

func (c *FakeClient) GetUser(id string) (*models.User, error) {
	c.record("GetUser", id)
	if u, ok := c.UsersByID[id]; ok {
		return u, nil
	}
	return nil, nil
}

func (c *FakeClient) GetGroups() ([]*models.Group, error) {
	c.record("GetGroups", "")
	if c.GroupsErr != nil {
		return nil, c.GroupsErr
	}
	return c.Groups, nil
}

func (c *FakeClient) GetGroup(id string) (*models.Group, error) {
	c.record("GetGroup", id)
	if c.GroupsErr != nil {
		return nil, c.GroupsErr
	}
	for _, g := range c.Groups {
		if g.ID == id {
			return g, nil
		}
	}
	return nil, nil
}

func (c *FakeClient) SearchTickets(query string) ([]*models.Ticket, error) {
	c.record("SearchTickets", query)
	if c.SearchErr != nil {
		return nil, c.SearchErr
	}
	return c.SearchResults, nil
}
