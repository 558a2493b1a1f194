package ticketq_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/goatkit/ticketq/internal/adaptertest"
	"github.com/goatkit/ticketq/internal/config"
	"github.com/goatkit/ticketq/internal/registry"
	"github.com/goatkit/ticketq/pkg/adapter"
	"github.com/goatkit/ticketq/pkg/models"
	"github.com/goatkit/ticketq/pkg/ticketq"
)

// e2eClient backs the "e2e" adapter registered below. FromConfig builds
// its own registry, so the adapter has to come from the package-init
// registration table like a real one would.
var e2eClient = &adaptertest.FakeClient{
	TicketsByStatus: map[string][]*models.Ticket{
		"open": {
			{ID: "100", Title: "Printer on fire", Status: "open", GroupID: "7",
				CreatedAt: time.Now().Add(-48 * time.Hour), UpdatedAt: time.Now().Add(-time.Hour), AdapterName: "e2e"},
			{ID: "101", Title: "VPN flapping", Status: "open",
				CreatedAt: time.Now().Add(-2 * time.Hour), UpdatedAt: time.Now(), AdapterName: "e2e"},
		},
	},
	Groups:      []*models.Group{{ID: "7", Name: "Support", AdapterName: "e2e"}},
	CurrentUser: &models.User{ID: "42", Name: "Agent", AdapterName: "e2e"},
}

func init() {
	registry.Provide("e2e", func() adapter.Adapter {
		return adaptertest.New("e2e", e2eClient)
	})
}

// TestFromConfigEndToEnd walks the whole stack: stored config on disk,
// registry discovery, factory auto-detection, then facade calls against
// the bound client.
func TestFromConfigEndToEnd(t *testing.T) {
	dir := t.TempDir()

	cfg, err := config.NewManager(dir)
	require.NoError(t, err)
	require.NoError(t, cfg.SaveAdapterConfig("e2e", adapter.Config{"domain": "example.invalid"}))

	lib, err := ticketq.FromConfig("", dir)
	require.NoError(t, err)
	require.Equal(t, "e2e", lib.Adapter().Name(), "auto-detection should pick the only configured adapter")

	ok, err := lib.TestConnection()
	require.NoError(t, err)
	require.True(t, ok)

	tickets, err := lib.GetTickets(ticketq.GetTicketsOptions{IncludeTeamNames: true})
	require.NoError(t, err)
	require.Len(t, tickets, 2)
	require.Equal(t, "101", tickets[0].ID, "newest ticket should sort first")
	require.Equal(t, "Unassigned", tickets[0].TeamName)
	require.Equal(t, "Support", tickets[1].TeamName)
}

func TestFromConfigUnconfiguredDirFails(t *testing.T) {
	_, err := ticketq.FromConfig("", t.TempDir())
	require.Error(t, err)

	var cfgErr *models.ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
}
