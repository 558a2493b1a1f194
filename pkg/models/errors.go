package models

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// TicketQError is the root of the taxonomy. Every error crossing the
// adapter boundary is one of the typed errors below, each carrying a
// message, ordered actionable suggestions, and structured context. The
// original cause, when any, is preserved for errors.Is/As chains.
type TicketQError struct {
	Message     string
	Suggestions []string
	Context     map[string]any
	Err         error
}

func (e *TicketQError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *TicketQError) Unwrap() error { return e.Err }

// Detail renders the message with suggestions and context, the form the
// CLI prints before exiting non-zero.
func (e *TicketQError) Detail() string {
	var b strings.Builder
	b.WriteString(e.Error())
	if len(e.Suggestions) > 0 {
		b.WriteString("\n\nSuggestions:\n")
		for _, s := range e.Suggestions {
			fmt.Fprintf(&b, "  - %s\n", s)
		}
	}
	if len(e.Context) > 0 {
		b.WriteString("\nContext:")
		keys := make([]string, 0, len(e.Context))
		for k := range e.Context {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(&b, " %s=%v", k, e.Context[k])
		}
	}
	return b.String()
}

func (e *TicketQError) withContext(key string, value any) {
	if e.Context == nil {
		e.Context = make(map[string]any)
	}
	e.Context[key] = value
}

// ConfigurationError signals missing, invalid or ambiguous configuration.
// It always carries a concrete next step.
type ConfigurationError struct {
	TicketQError
	ConfigFile string
}

// NewConfigurationError builds a ConfigurationError. When no suggestions
// are given, sensible defaults are filled in.
func NewConfigurationError(message string, cause error, suggestions ...string) *ConfigurationError {
	if len(suggestions) == 0 {
		suggestions = []string{
			"Check your configuration file exists and is readable",
			"Run 'tq configure' to set up configuration",
			"Check file permissions on the configuration directory",
		}
	}
	return &ConfigurationError{TicketQError: TicketQError{Message: message, Suggestions: suggestions, Err: cause}}
}

// WithConfigFile records the offending config file path in the context.
func (e *ConfigurationError) WithConfigFile(path string) *ConfigurationError {
	e.ConfigFile = path
	e.withContext("config_file", path)
	return e
}

// PluginError signals an adapter that is missing, fails the contract
// check, or threw during instantiation. It always lists alternatives.
type PluginError struct {
	TicketQError
	PluginName string
}

// NewPluginError builds a PluginError for the named adapter.
func NewPluginError(pluginName, message string, cause error, suggestions ...string) *PluginError {
	if len(suggestions) == 0 {
		suggestions = []string{
			"Check the adapter is properly installed",
			"Run 'tq adapters' to list available adapters",
			"Verify adapter compatibility with this ticketq version",
		}
	}
	e := &PluginError{
		TicketQError: TicketQError{Message: message, Suggestions: suggestions, Err: cause},
		PluginName:   pluginName,
	}
	if pluginName != "" {
		e.withContext("plugin_name", pluginName)
	}
	return e
}

// AdapterError is the shared shape of errors raised inside an adapter.
type AdapterError struct {
	TicketQError
	AdapterName string
}

func newAdapterError(adapterName, message string, cause error, suggestions []string) AdapterError {
	e := AdapterError{
		TicketQError: TicketQError{Message: fmt.Sprintf("[%s] %s", adapterName, message), Suggestions: suggestions, Err: cause},
		AdapterName:  adapterName,
	}
	e.withContext("adapter", adapterName)
	return e
}

// AuthenticationError signals credentials rejected by the backend.
type AuthenticationError struct {
	AdapterError
}

func NewAuthenticationError(adapterName, message string, cause error, suggestions ...string) *AuthenticationError {
	if len(suggestions) == 0 {
		suggestions = []string{
			"Check your credentials in the configuration",
			fmt.Sprintf("Verify your %s account is active", adapterName),
			fmt.Sprintf("Run 'tq configure --adapter %s' to reconfigure", adapterName),
		}
	}
	return &AuthenticationError{newAdapterError(adapterName, message, cause, suggestions)}
}

// NetworkError signals a transport-level connectivity failure.
type NetworkError struct {
	AdapterError
}

func NewNetworkError(adapterName, message string, cause error, suggestions ...string) *NetworkError {
	if len(suggestions) == 0 {
		suggestions = []string{
			"Check your internet connection",
			fmt.Sprintf("Verify the %s service is accessible", adapterName),
			"Check firewall and proxy settings",
		}
	}
	return &NetworkError{newAdapterError(adapterName, message, cause, suggestions)}
}

// TimeoutError signals slowness rather than connectivity loss.
type TimeoutError struct {
	AdapterError
	Timeout time.Duration
}

func NewTimeoutError(adapterName, message string, timeout time.Duration, cause error) *TimeoutError {
	e := &TimeoutError{
		AdapterError: newAdapterError(adapterName, message, cause, []string{
			"Try again with a longer timeout",
			"Check network connectivity",
			fmt.Sprintf("Verify the %s service is responsive", adapterName),
		}),
		Timeout: timeout,
	}
	e.withContext("timeout", timeout.String())
	return e
}

// APIError signals a non-2xx response from the backend.
type APIError struct {
	AdapterError
	StatusCode int
}

func NewAPIError(adapterName, message string, statusCode int, cause error) *APIError {
	suggestions := []string{
		fmt.Sprintf("Check %s service status", adapterName),
		"Verify your API permissions",
		"Try again in a few moments",
	}
	switch {
	case statusCode == 401:
		suggestions = append([]string{"Check your authentication credentials"}, suggestions...)
	case statusCode == 403:
		suggestions = append([]string{"Check your API permissions"}, suggestions...)
	case statusCode == 404:
		suggestions = append([]string{"Verify the resource exists"}, suggestions...)
	case statusCode >= 500:
		suggestions = append([]string{fmt.Sprintf("%s server error, try again later", adapterName)}, suggestions...)
	}
	e := &APIError{
		AdapterError: newAdapterError(adapterName, message, cause, suggestions),
		StatusCode:   statusCode,
	}
	if statusCode > 0 {
		e.withContext("status_code", statusCode)
	}
	return e
}

// RateLimitError is the 429 subtype of APIError, carrying the backend's
// retry-after hint in seconds.
type RateLimitError struct {
	APIError
	RetryAfter int
}

func NewRateLimitError(adapterName, message string, retryAfter int) *RateLimitError {
	api := NewAPIError(adapterName, message, 429, nil)
	api.Suggestions = []string{
		fmt.Sprintf("Wait %d seconds before retrying", retryAfter),
		"Reduce request frequency",
		"Consider pagination for large requests",
	}
	if retryAfter <= 0 {
		api.Suggestions[0] = "Wait before retrying"
	}
	e := &RateLimitError{APIError: *api, RetryAfter: retryAfter}
	if retryAfter > 0 {
		e.withContext("retry_after", retryAfter)
	}
	return e
}

// Unwrap exposes the embedded APIError so errors.As(err, **APIError)
// matches rate-limit errors too.
func (e *RateLimitError) Unwrap() error { return &e.APIError }

// ValidationError signals malformed input data that is not a
// configuration problem.
type ValidationError struct {
	TicketQError
	Field string
}

func NewValidationError(message, field string, cause error, suggestions ...string) *ValidationError {
	if len(suggestions) == 0 {
		suggestions = []string{
			"Check input data format and values",
			"Verify required fields are provided",
		}
	}
	e := &ValidationError{
		TicketQError: TicketQError{Message: message, Suggestions: suggestions, Err: cause},
		Field:        field,
	}
	if field != "" {
		e.withContext("field", field)
	}
	return e
}
