package zendesk

import (
	"encoding/base64"
	"fmt"
	"net/http"
	"time"

	"github.com/goatkit/ticketq/pkg/adapter"
	"github.com/goatkit/ticketq/pkg/models"
)

const userAgent = "ticketq/" + adapterVersion + " (zendesk adapter)"

// Auth holds Zendesk API token credentials. Zendesk basic auth encodes
// "email/token:<api token>"; tokens never expire, so there is no
// refresh flow.
type Auth struct {
	domain string
	email  string
	token  string

	httpClient    *http.Client
	baseURL       string
	authenticated bool
}

// NewAuth builds an Auth from adapter configuration. All three fields
// are required.
func NewAuth(config adapter.Config) (*Auth, error) {
	domain, _ := config["domain"].(string)
	email, _ := config["email"].(string)
	token, _ := config["api_token"].(string)

	if domain == "" || email == "" || token == "" {
		return nil, models.NewConfigurationError(
			"zendesk authentication requires domain, email, and api_token", nil,
			"Run 'tq configure --adapter zendesk' to set up authentication",
			"Check your configuration file has all required fields",
			"Verify your API token is not empty")
	}

	return &Auth{
		domain:     domain,
		email:      email,
		token:      token,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		baseURL:    fmt.Sprintf("https://%s/api/v2", domain),
	}, nil
}

// Domain returns the configured Zendesk domain.
func (a *Auth) Domain() string { return a.domain }

// Authenticate probes the users/me endpoint with the configured
// credentials. A 401 is a hard failure with a typed error; any other
// non-200 is reported the same way since token auth has no soft retry.
func (a *Auth) Authenticate() (bool, error) {
	req, err := http.NewRequest(http.MethodGet, a.baseURL+"/users/me.json", nil)
	if err != nil {
		return false, models.NewAuthenticationError(adapterName,
			"cannot build authentication request", err)
	}
	for k, v := range a.AuthHeaders() {
		req.Header.Set(k, v)
	}

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return false, models.NewAuthenticationError(adapterName,
			fmt.Sprintf("network error during authentication: %v", err), err,
			"Check your internet connection",
			"Verify your Zendesk domain is accessible",
			"Check firewall and proxy settings")
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		a.authenticated = true
		return true, nil
	case resp.StatusCode == http.StatusUnauthorized:
		return false, models.NewAuthenticationError(adapterName,
			"invalid credentials", nil,
			"Check your email and API token are correct",
			"Verify your Zendesk domain is correct",
			"Ensure your API token is active",
			"Check if your account has API access enabled")
	default:
		return false, models.NewAuthenticationError(adapterName,
			fmt.Sprintf("authentication failed: HTTP %d", resp.StatusCode), nil,
			"Check Zendesk service status",
			"Verify your domain is accessible",
			"Try again in a few moments")
	}
}

// AuthHeaders returns the basic auth headers for API requests.
func (a *Auth) AuthHeaders() map[string]string {
	credentials := fmt.Sprintf("%s/token:%s", a.email, a.token)
	encoded := base64.StdEncoding.EncodeToString([]byte(credentials))
	return map[string]string{
		"Authorization": "Basic " + encoded,
		"Content-Type":  "application/json",
		"User-Agent":    userAgent,
	}
}

// IsAuthenticated reports whether Authenticate has succeeded.
func (a *Auth) IsAuthenticated() bool { return a.authenticated }
