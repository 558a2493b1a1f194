package zendesk

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/goatkit/ticketq/internal/convert"
	"github.com/goatkit/ticketq/pkg/adapter"
	"github.com/goatkit/ticketq/pkg/models"
)

const (
	requestTimeout = 30 * time.Second
	maxRetries     = 3
)

// retryableStatus lists the response codes worth a bounded retry. All
// client calls are GETs, so retrying is always safe.
var retryableStatus = map[int]bool{
	http.StatusTooManyRequests:     true,
	http.StatusInternalServerError: true,
	http.StatusBadGateway:          true,
	http.StatusServiceUnavailable:  true,
	http.StatusGatewayTimeout:      true,
}

// Client talks to the Zendesk REST API and returns generic models. It
// owns the mappers; raw Zendesk payloads never leave this package.
type Client struct {
	auth       *Auth
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
	retryDelay time.Duration

	groupCache map[string]*models.Group
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithBaseURL overrides the API base URL. Used by tests to point the
// client at a local server.
func WithBaseURL(u string) ClientOption {
	return func(c *Client) { c.baseURL = strings.TrimRight(u, "/") }
}

// WithLogger sets the client logger.
func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) { c.logger = logger }
}

// WithRetryDelay sets the base delay between retries.
func WithRetryDelay(d time.Duration) ClientOption {
	return func(c *Client) { c.retryDelay = d }
}

// NewClient builds a client bound to the given auth.
func NewClient(auth *Auth, opts ...ClientOption) *Client {
	c := &Client{
		auth:       auth,
		baseURL:    auth.baseURL,
		httpClient: &http.Client{Timeout: requestTimeout},
		logger:     slog.Default(),
		retryDelay: time.Second,
		groupCache: make(map[string]*models.Group),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// GetTickets fetches tickets matching the filter through the search
// API. The filter's Extra map may carry the Zendesk-specific terms
// priority, type, created and updated.
func (c *Client) GetTickets(filter adapter.TicketFilter) ([]*models.Ticket, error) {
	var parts []string
	if filter.Status != "" {
		parts = append(parts, "status:"+filter.Status)
	}
	if filter.AssigneeID != "" {
		parts = append(parts, "assignee:"+filter.AssigneeID)
	}
	if filter.GroupID != "" {
		parts = append(parts, "group:"+filter.GroupID)
	}

	extraKeys := make([]string, 0, len(filter.Extra))
	for k := range filter.Extra {
		switch k {
		case "priority", "type", "created", "updated":
			extraKeys = append(extraKeys, k)
		}
	}
	sort.Strings(extraKeys)
	for _, k := range extraKeys {
		parts = append(parts, k+":"+filter.Extra[k])
	}

	query := "type:ticket"
	if len(parts) > 0 {
		query = strings.Join(parts, " ")
	}
	return c.SearchTickets(query)
}

// GetTicket fetches one ticket by id, or nil if it does not exist.
func (c *Client) GetTicket(id string) (*models.Ticket, error) {
	resp, err := c.get(fmt.Sprintf("tickets/%s.json", id), nil)
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	raw, ok := resp["ticket"].(map[string]any)
	if !ok {
		return nil, nil
	}
	return mapTicket(raw), nil
}

// GetCurrentUser returns the authenticated user.
func (c *Client) GetCurrentUser() (*models.User, error) {
	resp, err := c.get("users/me.json", nil)
	if err != nil {
		return nil, err
	}
	raw, ok := resp["user"].(map[string]any)
	if !ok {
		return nil, nil
	}
	return mapUser(raw), nil
}

// GetUser fetches one user by id, or nil if it does not exist.
func (c *Client) GetUser(id string) (*models.User, error) {
	resp, err := c.get(fmt.Sprintf("users/%s.json", id), nil)
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	raw, ok := resp["user"].(map[string]any)
	if !ok {
		return nil, nil
	}
	return mapUser(raw), nil
}

// GetGroups fetches all groups.
func (c *Client) GetGroups() ([]*models.Group, error) {
	resp, err := c.get("groups.json", nil)
	if err != nil {
		return nil, err
	}
	var groups []*models.Group
	if rawGroups, ok := resp["groups"].([]any); ok {
		for _, entry := range rawGroups {
			if raw, ok := entry.(map[string]any); ok {
				groups = append(groups, mapGroup(raw))
			}
		}
	}
	return groups, nil
}

// GetGroup fetches one group by id, or nil if it does not exist.
// Results are cached; group membership is effectively static within one
// client's lifetime.
func (c *Client) GetGroup(id string) (*models.Group, error) {
	if g, ok := c.groupCache[id]; ok {
		return g, nil
	}
	resp, err := c.get(fmt.Sprintf("groups/%s.json", id), nil)
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	raw, ok := resp["group"].(map[string]any)
	if !ok {
		return nil, nil
	}
	g := mapGroup(raw)
	c.groupCache[id] = g
	return g, nil
}

// SearchTickets runs a Zendesk search query and returns the ticket
// results. A "type:ticket" term is added when the query lacks one.
func (c *Client) SearchTickets(query string) ([]*models.Ticket, error) {
	if !strings.Contains(query, "type:ticket") {
		query = strings.TrimSpace("type:ticket " + query)
	}
	resp, err := c.get("search.json", map[string]string{"query": query})
	if err != nil {
		return nil, err
	}

	var tickets []*models.Ticket
	if results, ok := resp["results"].([]any); ok {
		for _, entry := range results {
			raw, ok := entry.(map[string]any)
			if !ok {
				continue
			}
			if raw["result_type"] != "ticket" {
				continue
			}
			tickets = append(tickets, mapTicket(raw))
		}
	}
	return tickets, nil
}

// get performs an authenticated GET with bounded retries and maps
// failures onto the shared error taxonomy.
func (c *Client) get(endpoint string, params map[string]string) (map[string]any, error) {
	reqURL := c.baseURL + "/" + endpoint
	if len(params) > 0 {
		values := url.Values{}
		for k, v := range params {
			values.Set(k, v)
		}
		reqURL += "?" + values.Encode()
	}

	requestID := uuid.NewString()
	logger := c.logger.With("request_id", requestID, "endpoint", endpoint)

	var resp *http.Response
	for attempt := 0; ; attempt++ {
		req, err := http.NewRequest(http.MethodGet, reqURL, nil)
		if err != nil {
			return nil, models.NewNetworkError(adapterName,
				fmt.Sprintf("cannot build request for %s", endpoint), err)
		}
		for k, v := range c.auth.AuthHeaders() {
			req.Header.Set(k, v)
		}

		logger.Debug("zendesk request", "attempt", attempt)
		resp, err = c.httpClient.Do(req)
		if err != nil {
			if isTimeout(err) {
				return nil, models.NewTimeoutError(adapterName,
					fmt.Sprintf("request to %s timed out after %s", endpoint, requestTimeout),
					requestTimeout, err)
			}
			return nil, models.NewNetworkError(adapterName,
				fmt.Sprintf("network request to %s failed", endpoint), err)
		}

		if retryableStatus[resp.StatusCode] && attempt < maxRetries {
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			delay := time.Duration(attempt+1) * c.retryDelay
			logger.Debug("retrying zendesk request", "status", resp.StatusCode, "delay", delay)
			time.Sleep(delay)
			continue
		}
		break
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		retryAfter := convert.ToInt(resp.Header.Get("Retry-After"), 60)
		return nil, models.NewRateLimitError(adapterName,
			fmt.Sprintf("rate limit exceeded, retry after %d seconds", retryAfter),
			retryAfter)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, models.NewAPIError(adapterName,
			fmt.Sprintf("API request failed: %d %s", resp.StatusCode, http.StatusText(resp.StatusCode)),
			resp.StatusCode, nil)
	}

	var body map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, models.NewAPIError(adapterName,
			fmt.Sprintf("cannot decode response from %s", endpoint), resp.StatusCode, err)
	}
	return body, nil
}

func isTimeout(err error) bool {
	var netErr net.Error
	if errors.As(err, &netErr) {
		return netErr.Timeout()
	}
	return false
}

func isNotFound(err error) bool {
	var apiErr *models.APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}
