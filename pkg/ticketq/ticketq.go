// Package ticketq is the caller-facing library facade: fetch, filter,
// sort and export tickets from whichever backend the bound adapter
// talks to.
//
// A Library instance owns one adapter binding and one group-name cache;
// it is synchronous and not safe for concurrent use. Construct a fresh
// instance per logical session.
package ticketq

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/goatkit/ticketq/internal/config"
	"github.com/goatkit/ticketq/internal/factory"
	"github.com/goatkit/ticketq/internal/registry"
	"github.com/goatkit/ticketq/pkg/adapter"
	"github.com/goatkit/ticketq/pkg/models"
)

// ProgressFunc receives short human-readable stage strings around
// backend calls. Purely observational; it never affects control flow,
// and a panicking callback is contained.
type ProgressFunc func(stage string)

// Library is the facade over one bound adapter instance.
type Library struct {
	adapter  adapter.Adapter
	auth     adapter.Auth
	client   adapter.Client
	logger   *slog.Logger
	progress ProgressFunc

	// groupNames maps group id to display name. Populated on first
	// need; when the listing call fails the cache stays permanently
	// empty for this instance so ticket listing degrades to
	// placeholders instead of failing outright.
	groupNames       map[string]string
	groupCacheLoaded bool
}

// Option configures a Library.
type Option func(*Library)

// WithLogger sets the facade logger.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Library) { l.logger = logger }
}

// WithProgress installs a progress callback.
func WithProgress(fn ProgressFunc) Option {
	return func(l *Library) { l.progress = fn }
}

// New wraps an already-built adapter instance.
func New(inst *factory.Instance, opts ...Option) *Library {
	l := &Library{
		adapter: inst.Adapter,
		auth:    inst.Auth,
		client:  inst.Client,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// FromConfig builds a Library from the stored configuration. An empty
// adapterName triggers auto-detection. configDir may be empty for the
// platform default.
func FromConfig(adapterName, configDir string, opts ...Option) (*Library, error) {
	logger := slog.Default()

	cfg, err := config.NewManager(configDir)
	if err != nil {
		return nil, err
	}
	reg := registry.New(logger)
	inst, err := factory.New(reg, cfg, logger).CreateAdapter(adapterName, nil)
	if err != nil {
		return nil, err
	}
	return New(inst, opts...), nil
}

// Adapter returns the bound adapter.
func (l *Library) Adapter() adapter.Adapter { return l.adapter }

// report invokes the progress callback, containing any panic.
func (l *Library) report(stage string) {
	if l.progress == nil {
		return
	}
	defer func() {
		if rec := recover(); rec != nil {
			l.logger.Debug("progress callback panicked", "panic", rec)
		}
	}()
	l.progress(stage)
}

// GetTicketsOptions narrows and shapes a GetTickets call. The zero
// value means open tickets, unsorted beyond the newest-first default.
type GetTicketsOptions struct {
	// Statuses to fetch; defaults to ["open"]. Multiple statuses fan
	// out into one fetch per status with the union deduplicated.
	Statuses []string
	// AssigneeOnly restricts results to the current user's tickets.
	AssigneeOnly bool
	// Groups filters by group, each entry a group id or a
	// case-insensitive group name. An unresolvable name is a hard
	// error naming the available groups.
	Groups []string
	// SortBy is one of created_at, updated_at, days_created,
	// days_updated. Unrecognized keys keep the default order.
	SortBy string
	// IncludeTeamNames resolves each ticket's group id to a display
	// name, with placeholder fallback.
	IncludeTeamNames bool
}

// GetTickets fetches tickets per the options. See GetTicketsOptions for
// the filtering and sorting rules.
func (l *Library) GetTickets(opts GetTicketsOptions) ([]*models.Ticket, error) {
	statuses := opts.Statuses
	if len(statuses) == 0 {
		statuses = []string{models.StatusOpen}
	}

	var assigneeID string
	if opts.AssigneeOnly {
		l.report("Resolving current user...")
		user, err := l.client.GetCurrentUser()
		if err != nil {
			return nil, err
		}
		if user == nil {
			return nil, models.NewAuthenticationError(l.adapter.Name(),
				"cannot resolve the current user", nil,
				"Check your credentials with 'tq configure --test'")
		}
		assigneeID = user.ID
	}

	groupIDs, err := l.resolveGroupFilters(opts.Groups)
	if err != nil {
		return nil, err
	}

	tickets, err := l.fetchUnion(statuses, assigneeID, groupIDs)
	if err != nil {
		return nil, err
	}

	if opts.IncludeTeamNames {
		l.resolveTeamNames(tickets)
	}

	sortTickets(tickets, opts.SortBy)
	return tickets, nil
}

// fetchUnion performs one fetch per (status, group) combination and
// unions the results, deduplicated by entity key. The union is
// assembled newest-first; the caller applies the requested sort.
func (l *Library) fetchUnion(statuses []string, assigneeID string, groupIDs []string) ([]*models.Ticket, error) {
	if len(groupIDs) == 0 {
		groupIDs = []string{""}
	}

	var union []*models.Ticket
	seen := make(map[models.EntityKey]bool)
	for _, status := range statuses {
		for _, groupID := range groupIDs {
			l.report(fmt.Sprintf("Fetching %s tickets...", status))
			tickets, err := l.client.GetTickets(adapter.TicketFilter{
				Status:     l.adapter.DenormalizeStatus(status),
				AssigneeID: assigneeID,
				GroupID:    groupID,
			})
			if err != nil {
				return nil, err
			}
			for _, t := range tickets {
				if seen[t.Key()] {
					continue
				}
				seen[t.Key()] = true
				union = append(union, t)
			}
		}
	}

	sort.SliceStable(union, func(i, j int) bool {
		return union[i].CreatedAt.After(union[j].CreatedAt)
	})
	return union, nil
}

// resolveGroupFilters turns a mixed list of group ids and names into
// ids. Names match case-insensitively against the cached group listing;
// an unresolvable name is a hard error naming the available groups.
func (l *Library) resolveGroupFilters(groups []string) ([]string, error) {
	if len(groups) == 0 {
		return nil, nil
	}
	l.ensureGroupCache()

	var ids []string
	for _, g := range groups {
		if _, ok := l.groupNames[g]; ok {
			ids = append(ids, g)
			continue
		}
		if id := l.groupIDByName(g); id != "" {
			ids = append(ids, id)
			continue
		}
		if isDigits(g) {
			ids = append(ids, g)
			continue
		}
		available := make([]string, 0, len(l.groupNames))
		for _, name := range l.groupNames {
			available = append(available, name)
		}
		sort.Strings(available)
		return nil, models.NewValidationError(
			fmt.Sprintf("unknown group %q", g), "groups", nil,
			fmt.Sprintf("Available groups: %s", strings.Join(available, ", ")),
			"Group names match case-insensitively; ids are passed through")
	}
	return ids, nil
}

func (l *Library) groupIDByName(name string) string {
	for id, n := range l.groupNames {
		if strings.EqualFold(n, name) {
			return id
		}
	}
	return ""
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// ensureGroupCache populates the group-name cache once per Library
// instance. A failed listing leaves the cache permanently empty rather
// than retrying per ticket.
func (l *Library) ensureGroupCache() {
	if l.groupCacheLoaded {
		return
	}
	l.groupCacheLoaded = true
	l.groupNames = make(map[string]string)

	l.report("Fetching groups...")
	groups, err := l.client.GetGroups()
	if err != nil {
		l.logger.Warn("cannot fetch groups, team names will be placeholders", "error", err)
		return
	}
	for _, g := range groups {
		l.groupNames[g.ID] = g.Name
	}
}

// resolveTeamNames fills in TeamName on each ticket from the group
// cache. A group id missing from the cache renders as "Group {id}"; a
// ticket with no group renders as "Unassigned".
func (l *Library) resolveTeamNames(tickets []*models.Ticket) {
	l.ensureGroupCache()
	for _, t := range tickets {
		switch {
		case t.GroupID == "":
			t.TeamName = "Unassigned"
		default:
			if name, ok := l.groupNames[t.GroupID]; ok {
				t.TeamName = name
			} else {
				t.TeamName = fmt.Sprintf("Group %s", t.GroupID)
			}
		}
	}
}

// sortTickets orders tickets in place. Timestamp keys sort newest
// first; the days_* keys sort fewest-days first, which is the same
// order framed as freshness. Unrecognized keys keep the current order.
func sortTickets(tickets []*models.Ticket, sortBy string) {
	switch sortBy {
	case "", "created_at", "days_created":
		sort.SliceStable(tickets, func(i, j int) bool {
			return tickets[i].CreatedAt.After(tickets[j].CreatedAt)
		})
	case "updated_at", "days_updated":
		sort.SliceStable(tickets, func(i, j int) bool {
			return tickets[i].UpdatedAt.After(tickets[j].UpdatedAt)
		})
	}
}

// GetTicket fetches one ticket by id, or nil if it does not exist.
func (l *Library) GetTicket(id string) (*models.Ticket, error) {
	l.report("Fetching ticket...")
	return l.client.GetTicket(id)
}

// GetCurrentUser returns the authenticated user.
func (l *Library) GetCurrentUser() (*models.User, error) {
	l.report("Fetching current user...")
	return l.client.GetCurrentUser()
}

// GetUser fetches one user by id, or nil if it does not exist.
func (l *Library) GetUser(id string) (*models.User, error) {
	l.report("Fetching user...")
	return l.client.GetUser(id)
}

// GetGroups fetches all groups from the backend. This bypasses the
// name cache; it is the listing operation, not a name lookup.
func (l *Library) GetGroups() ([]*models.Group, error) {
	l.report("Fetching groups...")
	return l.client.GetGroups()
}

// SearchTickets runs a backend-specific search query.
func (l *Library) SearchTickets(query string) ([]*models.Ticket, error) {
	l.report("Searching tickets...")
	return l.client.SearchTickets(query)
}

// TestConnection verifies the binding end to end: authentication plus
// one probe call.
func (l *Library) TestConnection() (bool, error) {
	l.report("Testing connection...")
	ok, err := l.auth.Authenticate()
	if err != nil || !ok {
		return false, err
	}
	user, err := l.client.GetCurrentUser()
	if err != nil {
		return false, err
	}
	return user != nil, nil
}

// Summary aggregates a ticket listing for quick reporting.
type Summary struct {
	Total      int            `json:"total"`
	ByStatus   map[string]int `json:"by_status"`
	Unassigned int            `json:"unassigned"`
	OldestDays int            `json:"oldest_days"`
}

// TicketsSummary computes counts over an already-fetched listing. Pure;
// no backend calls.
func (l *Library) TicketsSummary(tickets []*models.Ticket) Summary {
	s := Summary{ByStatus: make(map[string]int)}
	for _, t := range tickets {
		s.Total++
		s.ByStatus[t.Status]++
		if t.AssigneeID == "" {
			s.Unassigned++
		}
		if age := t.DaysSinceCreated(); age > s.OldestDays {
			s.OldestDays = age
		}
	}
	return s
}

// CallAdapterOperation invokes an adapter-specific operation by name
// with the bound client. Unknown names are a typed error listing what
// the adapter does offer.
func (l *Library) CallAdapterOperation(name string, args ...any) (any, error) {
	ops := l.adapter.SpecificOperations()
	op, ok := ops[name]
	if !ok {
		available := make([]string, 0, len(ops))
		for opName := range ops {
			available = append(available, opName)
		}
		sort.Strings(available)
		return nil, models.NewPluginError(l.adapter.Name(),
			fmt.Sprintf("adapter %q has no operation %q", l.adapter.Name(), name), nil,
			fmt.Sprintf("Available operations: %s", strings.Join(available, ", ")))
	}
	l.report(fmt.Sprintf("Running %s...", name))
	return op(l.client, args...), nil
}
