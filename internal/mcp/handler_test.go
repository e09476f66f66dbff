package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/rpggio/knightbus/internal/domain/activity"
	"github.com/rpggio/knightbus/internal/domain/roster"
	"github.com/stretchr/testify/require"
)

type rosterStub struct {
	addKnightFn    func(context.Context, roster.AddKnightRequest) (*roster.Knight, error)
	addClientFn    func(context.Context, roster.AddClientRequest) (*roster.Client, error)
	updateKnightFn func(context.Context, roster.UpdateKnightRequest) (*roster.Knight, error)
	updateClientFn func(context.Context, roster.UpdateClientRequest) (*roster.Client, error)
	deleteKnightFn func(context.Context, int64) error
	deleteClientFn func(context.Context, int64) error
	toggleFn       func(context.Context, roster.Kind, int64) (bool, error)
	formFn         func(context.Context) (*roster.Party, error)
	completeFn     func(context.Context, int64) (*roster.MissionResult, error)
	dutyFn         func(context.Context, int64) (*roster.Knight, error)
	exportFn       func(context.Context) (string, error)
	importFn       func(context.Context, string) (roster.ImportSummary, error)
	snapshotFn     func(context.Context) (*roster.Snapshot, error)
}

func (r rosterStub) AddKnight(ctx context.Context, req roster.AddKnightRequest) (*roster.Knight, error) {
	return r.addKnightFn(ctx, req)
}
func (r rosterStub) AddClient(ctx context.Context, req roster.AddClientRequest) (*roster.Client, error) {
	return r.addClientFn(ctx, req)
}
func (r rosterStub) UpdateKnight(ctx context.Context, req roster.UpdateKnightRequest) (*roster.Knight, error) {
	return r.updateKnightFn(ctx, req)
}
func (r rosterStub) UpdateClient(ctx context.Context, req roster.UpdateClientRequest) (*roster.Client, error) {
	return r.updateClientFn(ctx, req)
}
func (r rosterStub) DeleteKnight(ctx context.Context, id int64) error { return r.deleteKnightFn(ctx, id) }
func (r rosterStub) DeleteClient(ctx context.Context, id int64) error { return r.deleteClientFn(ctx, id) }
func (r rosterStub) ToggleSelection(ctx context.Context, kind roster.Kind, id int64) (bool, error) {
	return r.toggleFn(ctx, kind, id)
}
func (r rosterStub) Selection() roster.Selection {
	return roster.Selection{KnightIDs: []int64{}, ClientIDs: []int64{}}
}
func (r rosterStub) FormParty(ctx context.Context) (*roster.Party, error) { return r.formFn(ctx) }
func (r rosterStub) CompleteMission(ctx context.Context, partyID int64) (*roster.MissionResult, error) {
	return r.completeFn(ctx, partyID)
}
func (r rosterStub) ToggleKnightDuty(ctx context.Context, id int64) (*roster.Knight, error) {
	return r.dutyFn(ctx, id)
}
func (r rosterStub) ExportKnightRoster(ctx context.Context) (string, error) { return r.exportFn(ctx) }
func (r rosterStub) ImportKnightRoster(ctx context.Context, text string) (roster.ImportSummary, error) {
	return r.importFn(ctx, text)
}
func (r rosterStub) Snapshot(ctx context.Context) (*roster.Snapshot, error) { return r.snapshotFn(ctx) }

type activityStub struct {
	listFn func(context.Context, activity.ListActivityOptions) ([]activity.ActivityEntry, error)
}

func (a activityStub) GetRecentActivity(ctx context.Context, opts activity.ListActivityOptions) ([]activity.ActivityEntry, error) {
	return a.listFn(ctx, opts)
}

func TestHandler_RosterCommands(t *testing.T) {
	ctx := context.Background()

	var gotAdd roster.AddKnightRequest
	var gotUpdate roster.UpdateClientRequest
	var gotImport string
	handler := NewHandler(
		rosterStub{
			addKnightFn: func(_ context.Context, req roster.AddKnightRequest) (*roster.Knight, error) {
				gotAdd = req
				return &roster.Knight{ID: 1, Name: req.Name, Power: roster.ScalePower(req.Power)}, nil
			},
			addClientFn: func(_ context.Context, req roster.AddClientRequest) (*roster.Client, error) {
				return &roster.Client{ID: 2, Name: req.Name}, nil
			},
			updateKnightFn: func(_ context.Context, req roster.UpdateKnightRequest) (*roster.Knight, error) {
				return &roster.Knight{ID: req.ID}, nil
			},
			updateClientFn: func(_ context.Context, req roster.UpdateClientRequest) (*roster.Client, error) {
				gotUpdate = req
				return &roster.Client{ID: req.ID}, nil
			},
			deleteKnightFn: func(_ context.Context, _ int64) error { return nil },
			deleteClientFn: func(_ context.Context, _ int64) error { return nil },
			toggleFn:       func(_ context.Context, _ roster.Kind, _ int64) (bool, error) { return true, nil },
			formFn: func(_ context.Context) (*roster.Party, error) {
				return &roster.Party{ID: 1, Knights: []roster.Knight{{ID: 1}}, Clients: []roster.Client{{ID: 2}}}, nil
			},
			completeFn: func(_ context.Context, id int64) (*roster.MissionResult, error) {
				return &roster.MissionResult{PartyID: id}, nil
			},
			dutyFn:   func(_ context.Context, id int64) (*roster.Knight, error) { return &roster.Knight{ID: id}, nil },
			exportFn: func(_ context.Context) (string, error) { return "A:B:1000:2", nil },
			importFn: func(_ context.Context, text string) (roster.ImportSummary, error) {
				gotImport = text
				return roster.ImportSummary{Imported: 1}, nil
			},
			snapshotFn: func(_ context.Context) (*roster.Snapshot, error) {
				return &roster.Snapshot{}, nil
			},
		},
		activityStub{listFn: func(_ context.Context, _ activity.ListActivityOptions) ([]activity.ActivityEntry, error) {
			return []activity.ActivityEntry{}, nil
		}},
	)

	res, err := handler.Handle(ctx, "add_knight", mustJSON(t, AddKnightParams{Name: "Hong", Job: "Rogue", Power: 50}))
	require.NoError(t, err)
	require.Equal(t, roster.AddKnightRequest{Name: "Hong", Job: "Rogue", Power: 50}, gotAdd)
	require.Equal(t, "50,000", res.(KnightResponse).PowerDisplay)

	_, err = handler.Handle(ctx, "add_client", mustJSON(t, AddClientParams{Name: "Kim", Job: "Mage", Power: 30}))
	require.NoError(t, err)

	_, err = handler.Handle(ctx, "update_knight", mustJSON(t, map[string]any{"id": 1, "job": "Paladin"}))
	require.NoError(t, err)

	_, err = handler.Handle(ctx, "update_client", json.RawMessage(`{"id":2,"notes":"later"}`))
	require.NoError(t, err)
	require.Equal(t, int64(2), gotUpdate.ID)
	require.Nil(t, gotUpdate.Name)
	require.NotNil(t, gotUpdate.Notes)
	require.Equal(t, "later", *gotUpdate.Notes)

	for _, method := range []string{"delete_knight", "delete_client", "toggle_knight_duty"} {
		_, err = handler.Handle(ctx, method, mustJSON(t, IDParams{ID: 1}))
		require.NoError(t, err, method)
	}

	res, err = handler.Handle(ctx, "toggle_selection", mustJSON(t, ToggleSelectionParams{Kind: roster.KindKnight, ID: 1}))
	require.NoError(t, err)
	require.True(t, res.(ToggleSelectionResponse).Selected)

	res, err = handler.Handle(ctx, "form_party", nil)
	require.NoError(t, err)
	require.Equal(t, "Party #1", res.(PartyResponse).Label)

	_, err = handler.Handle(ctx, "complete_mission", mustJSON(t, CompleteMissionParams{PartyID: 1}))
	require.NoError(t, err)

	res, err = handler.Handle(ctx, "export_knight_roster", nil)
	require.NoError(t, err)
	require.Equal(t, "A:B:1000:2", res.(ExportResponse).Roster)

	_, err = handler.Handle(ctx, "import_knight_roster", mustJSON(t, ImportParams{Roster: "A:B:1000:2"}))
	require.NoError(t, err)
	require.Equal(t, "A:B:1000:2", gotImport)

	res, err = handler.Handle(ctx, "get_roster", nil)
	require.NoError(t, err)
	require.NotNil(t, res.(RosterResponse).Knights)

	_, err = handler.Handle(ctx, "get_recent_activity", mustJSON(t, GetRecentActivityParams{Type: "party_formed", Limit: 5}))
	require.NoError(t, err)
}

func TestHandler_ErrorMapping(t *testing.T) {
	ctx := context.Background()

	handler := NewHandler(
		rosterStub{
			formFn: func(_ context.Context) (*roster.Party, error) {
				return nil, roster.ErrEmptySelection
			},
			completeFn: func(_ context.Context, _ int64) (*roster.MissionResult, error) {
				return nil, roster.ErrPartyNotFound
			},
			deleteKnightFn: func(_ context.Context, _ int64) error {
				return errors.New("disk on fire")
			},
		},
		activityStub{},
	)

	_, err := handler.Handle(ctx, "form_party", nil)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, "EMPTY_SELECTION", apiErr.Code)

	_, err = handler.Handle(ctx, "complete_mission", mustJSON(t, CompleteMissionParams{PartyID: 9}))
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, "PARTY_NOT_FOUND", apiErr.Code)

	_, err = handler.Handle(ctx, "delete_knight", mustJSON(t, IDParams{ID: 1}))
	require.Error(t, err)
	require.Nil(t, MapError(err))

	_, err = handler.Handle(ctx, "add_knight", json.RawMessage(`{"power":"lots"}`))
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, "INVALID_ARGUMENTS", apiErr.Code)

	_, err = handler.Handle(ctx, "summon_dragon", nil)
	require.EqualError(t, err, "unknown method: summon_dragon")
}

func TestMapError(t *testing.T) {
	cases := map[error]string{
		roster.ErrKnightNotFound:    "KNIGHT_NOT_FOUND",
		roster.ErrClientNotFound:    "CLIENT_NOT_FOUND",
		roster.ErrPartyNotFound:     "PARTY_NOT_FOUND",
		roster.ErrEmptySelection:    "EMPTY_SELECTION",
		roster.ErrMemberUnavailable: "MEMBER_UNAVAILABLE",
		roster.ErrInvalidTransition: "INVALID_TRANSITION",
		roster.ErrInvalidInput:      "INVALID_INPUT",
	}
	for err, code := range cases {
		apiErr := MapError(err)
		require.NotNil(t, apiErr, err.Error())
		require.Equal(t, code, apiErr.Code)
	}
	require.Nil(t, MapError(nil))
}

func TestToolCatalogSchemas(t *testing.T) {
	seen := make(map[string]bool)
	for _, def := range buildToolCatalog() {
		require.False(t, seen[def.Name], "duplicate tool %s", def.Name)
		seen[def.Name] = true
		require.Equal(t, "object", def.InputSchema["type"], def.Name)
		require.NotEmpty(t, def.Description, def.Name)
	}
	require.Len(t, seen, 14)
}

func mustJSON(t *testing.T, v any) json.RawMessage {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	return data
}
