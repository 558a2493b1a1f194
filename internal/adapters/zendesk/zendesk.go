// Package zendesk implements the Zendesk ticketing adapter.
//
// The adapter registers itself at init time; importing the package for
// side effects is enough to make "zendesk" available:
//
//	import _ "github.com/goatkit/ticketq/internal/adapters/zendesk"
package zendesk

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/goatkit/ticketq/internal/registry"
	"github.com/goatkit/ticketq/pkg/adapter"
)

const (
	adapterName    = "zendesk"
	adapterVersion = "0.1.0"
)

func init() {
	registry.Provide(adapterName, func() adapter.Adapter { return &Adapter{} })
}

// Adapter is the Zendesk implementation of adapter.Adapter. It is
// stateless; auth and client instances carry all per-session state.
type Adapter struct{}

func (a *Adapter) Name() string        { return adapterName }
func (a *Adapter) DisplayName() string { return "Zendesk" }
func (a *Adapter) Version() string     { return adapterVersion }

func (a *Adapter) SupportedFeatures() []string {
	return []string{
		adapter.FeatureTickets,
		adapter.FeatureUsers,
		adapter.FeatureGroups,
		adapter.FeatureSearch,
		adapter.FeatureExport,
		adapter.FeatureAuthentication,
		adapter.FeatureFiltering,
		adapter.FeatureSorting,
	}
}

func (a *Adapter) CreateAuth(config adapter.Config) (adapter.Auth, error) {
	return NewAuth(config)
}

func (a *Adapter) CreateClient(auth adapter.Auth) (adapter.Client, error) {
	za, ok := auth.(*Auth)
	if !ok {
		return nil, fmt.Errorf("zendesk: unexpected auth type %T", auth)
	}
	return NewClient(za), nil
}

// ValidateConfig checks the config against the JSON schema plus the
// domain rules the schema cannot express. Local only, no network.
func (a *Adapter) ValidateConfig(config adapter.Config) bool {
	schema := gojsonschema.NewGoLoader(a.ConfigSchema())
	doc := gojsonschema.NewGoLoader(map[string]any(config))
	result, err := gojsonschema.Validate(schema, doc)
	if err != nil || !result.Valid() {
		return false
	}

	domain, _ := config["domain"].(string)
	if !strings.HasSuffix(domain, ".zendesk.com") {
		return false
	}
	email, _ := config["email"].(string)
	if !strings.Contains(email, "@") {
		return false
	}
	token, _ := config["api_token"].(string)
	return len(token) >= 10
}

func (a *Adapter) ConfigSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"domain": map[string]any{
				"type":        "string",
				"description": "Zendesk domain (e.g., company.zendesk.com)",
				"pattern":     `^[a-zA-Z0-9\-]+\.zendesk\.com$`,
			},
			"email": map[string]any{
				"type":        "string",
				"description": "Your Zendesk email address",
				"format":      "email",
			},
			"api_token": map[string]any{
				"type":        "string",
				"description": "Your Zendesk API token",
				"minLength":   10,
			},
		},
		"required":             []any{"domain", "email", "api_token"},
		"additionalProperties": false,
	}
}

func (a *Adapter) DefaultConfig() adapter.Config {
	return adapter.Config{
		"domain":    "your-company.zendesk.com",
		"email":     "your-email@company.com",
		"api_token": "your-api-token-here",
	}
}

// statusMap covers both directions: Zendesk statuses already match the
// common enumeration one to one.
var statusMap = map[string]string{
	"new":     "new",
	"open":    "open",
	"pending": "pending",
	"hold":    "hold",
	"solved":  "solved",
	"closed":  "closed",
}

func normalizeStatus(status string) string {
	if mapped, ok := statusMap[strings.ToLower(status)]; ok {
		return mapped
	}
	return status
}

func (a *Adapter) NormalizeStatus(status string) string { return normalizeStatus(status) }

// DenormalizeStatus is the identity mapping here; the common statuses
// were modeled on Zendesk's in the first place.
func (a *Adapter) DenormalizeStatus(status string) string { return normalizeStatus(status) }

// SpecificOperations exposes Zendesk capabilities with no common-model
// analogue. Operations swallow internal failures and return an empty
// result, so callers can probe freely.
func (a *Adapter) SpecificOperations() map[string]adapter.SpecificOperation {
	return map[string]adapter.SpecificOperation{
		"get_satisfaction_ratings": getSatisfactionRatings,
		"get_ticket_metrics":       getTicketMetrics,
		"get_organizations":        getOrganizations,
		"search_advanced":          searchAdvanced,
	}
}

func zendeskClient(client adapter.Client) *Client {
	c, _ := client.(*Client)
	return c
}

func getSatisfactionRatings(client adapter.Client, args ...any) any {
	c := zendeskClient(client)
	if c == nil || len(args) < 1 {
		return map[string]any{}
	}
	ticketID, _ := args[0].(string)
	resp, err := c.get(fmt.Sprintf("tickets/%s/satisfaction_rating.json", ticketID), nil)
	if err != nil {
		return map[string]any{}
	}
	if rating, ok := resp["satisfaction_rating"].(map[string]any); ok {
		return rating
	}
	return map[string]any{}
}

func getTicketMetrics(client adapter.Client, args ...any) any {
	c := zendeskClient(client)
	if c == nil || len(args) < 1 {
		return map[string]any{}
	}
	ticketID, _ := args[0].(string)
	resp, err := c.get(fmt.Sprintf("tickets/%s/metrics.json", ticketID), nil)
	if err != nil {
		return map[string]any{}
	}
	if metric, ok := resp["ticket_metric"].(map[string]any); ok {
		return metric
	}
	return map[string]any{}
}

func getOrganizations(client adapter.Client, args ...any) any {
	c := zendeskClient(client)
	if c == nil {
		return []any{}
	}
	resp, err := c.get("organizations.json", nil)
	if err != nil {
		return []any{}
	}
	if orgs, ok := resp["organizations"].([]any); ok {
		return orgs
	}
	return []any{}
}

func searchAdvanced(client adapter.Client, args ...any) any {
	c := zendeskClient(client)
	if c == nil || len(args) < 1 {
		return []any{}
	}
	query, _ := args[0].(string)
	params := map[string]string{"query": query}
	if len(args) > 1 {
		if sortBy, _ := args[1].(string); sortBy != "" {
			params["sort_by"] = sortBy
		}
	}
	if len(args) > 2 {
		if sortOrder, _ := args[2].(string); sortOrder != "" {
			params["sort_order"] = sortOrder
		}
	}
	resp, err := c.get("search.json", params)
	if err != nil {
		return []any{}
	}
	if results, ok := resp["results"].([]any); ok {
		return results
	}
	return []any{}
}
