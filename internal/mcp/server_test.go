package mcp_test

import (
	"context"
	"testing"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/knightbus/internal/mcp"
	"github.com/rpggio/knightbus/internal/testserver"
	"github.com/stretchr/testify/require"
)

func TestServer_ListsToolsAndDocs(t *testing.T) {
	ts := testserver.New(t)
	ctx := context.Background()

	tools, err := ts.Session.ListTools(ctx, nil)
	require.NoError(t, err)
	names := make([]string, 0, len(tools.Tools))
	for _, tool := range tools.Tools {
		names = append(names, tool.Name)
	}
	require.ElementsMatch(t, []string{
		"add_knight", "add_client", "update_knight", "update_client",
		"delete_knight", "delete_client", "toggle_selection", "form_party",
		"complete_mission", "toggle_knight_duty", "export_knight_roster",
		"import_knight_roster", "get_roster", "get_recent_activity",
	}, names)

	res, err := ts.Session.ReadResource(ctx, &sdkmcp.ReadResourceParams{URI: "knightbus://docs/roster-format"})
	require.NoError(t, err)
	require.Len(t, res.Contents, 1)
	require.Contains(t, res.Contents[0].Text, "name:job:power:relayCount")
}

func TestServer_PartyLifecycle(t *testing.T) {
	ts := testserver.New(t)

	var knight mcp.KnightResponse
	ts.CallJSON(t, "add_knight", map[string]any{"name": "Hong", "job": "Rogue", "power": 50}, &knight)
	require.Equal(t, int64(50000), knight.Power)

	var client mcp.ClientResponse
	ts.CallJSON(t, "add_client", map[string]any{"name": "Kim", "job": "Mage", "power": 30, "notes": "urgent"}, &client)

	require.Equal(t, "EMPTY_SELECTION", ts.CallError(t, "form_party", nil))

	var toggled mcp.ToggleSelectionResponse
	ts.CallJSON(t, "toggle_selection", map[string]any{"kind": "knight", "id": knight.ID}, &toggled)
	require.True(t, toggled.Selected)
	ts.CallJSON(t, "toggle_selection", map[string]any{"kind": "client", "id": client.ID}, &toggled)
	require.Equal(t, []int64{client.ID}, toggled.Selection.ClientIDs)

	var party mcp.PartyResponse
	ts.CallJSON(t, "form_party", nil, &party)
	require.Equal(t, int64(1), party.ID)
	require.Len(t, party.Knights, 1)
	require.Len(t, party.Clients, 1)

	var snap mcp.RosterResponse
	ts.CallJSON(t, "get_roster", nil, &snap)
	require.Equal(t, "Party #1", snap.Knights[0].StatusLabel)
	require.Equal(t, "Party #1", snap.Clients[0].StatusLabel)
	require.Len(t, snap.Parties, 1)

	ts.CallJSON(t, "complete_mission", map[string]any{"party_id": 1}, nil)
	require.Equal(t, "PARTY_NOT_FOUND", ts.CallError(t, "complete_mission", map[string]any{"party_id": 1}))

	ts.CallJSON(t, "get_roster", nil, &snap)
	require.Equal(t, int64(1), snap.Knights[0].RelayCount)
	require.Equal(t, "Waiting", snap.Knights[0].StatusLabel)
	require.Equal(t, "Completed", snap.Clients[0].StatusLabel)
	require.Empty(t, snap.Parties)
}

func TestServer_ImportExportAndActivity(t *testing.T) {
	ts := testserver.New(t)

	var summary struct {
		Imported int `json:"imported"`
		Skipped  int `json:"skipped"`
	}
	ts.CallJSON(t, "import_knight_roster", map[string]any{"roster": "A:B:1000:2\nBAD_LINE\nC:D:3000:0"}, &summary)
	require.Equal(t, 2, summary.Imported)
	require.Equal(t, 1, summary.Skipped)

	var exported mcp.ExportResponse
	ts.CallJSON(t, "export_knight_roster", nil, &exported)
	require.Equal(t, "A:B:1000:2\nC:D:3000:0", exported.Roster)

	var entries []mcp.ActivityEntryResponse
	ts.CallJSON(t, "get_recent_activity", map[string]any{"limit": 5}, &entries)
	require.Len(t, entries, 1)
	require.Equal(t, "roster_imported", string(entries[0].Type))
}

func TestServer_NotFoundCodes(t *testing.T) {
	ts := testserver.New(t)

	require.Equal(t, "KNIGHT_NOT_FOUND", ts.CallError(t, "delete_knight", map[string]any{"id": 42}))
	require.Equal(t, "CLIENT_NOT_FOUND", ts.CallError(t, "update_client", map[string]any{"id": 42, "name": "X"}))
	require.Equal(t, "KNIGHT_NOT_FOUND", ts.CallError(t, "toggle_knight_duty", map[string]any{"id": 42}))
	require.Equal(t, "INVALID_INPUT", ts.CallError(t, "add_knight", map[string]any{"name": " ", "job": "Rogue", "power": 1}))
}

func TestServer_RejectsInputThatBreaksExport(t *testing.T) {
	ts := testserver.New(t)

	require.Equal(t, "INVALID_INPUT", ts.CallError(t, "add_knight", map[string]any{"name": "Big", "job": "Tank", "power": 1e17}))
	require.Equal(t, "INVALID_INPUT", ts.CallError(t, "add_knight", map[string]any{"name": "A\nB", "job": "Tank", "power": 1}))

	var exported mcp.ExportResponse
	ts.CallJSON(t, "export_knight_roster", nil, &exported)
	require.Empty(t, exported.Roster)
}
