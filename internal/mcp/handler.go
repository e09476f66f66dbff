package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rpggio/knightbus/internal/domain/activity"
	"github.com/rpggio/knightbus/internal/domain/roster"
)

// RosterService defines roster operations needed by MCP.
type RosterService interface {
	AddKnight(ctx context.Context, req roster.AddKnightRequest) (*roster.Knight, error)
	AddClient(ctx context.Context, req roster.AddClientRequest) (*roster.Client, error)
	UpdateKnight(ctx context.Context, req roster.UpdateKnightRequest) (*roster.Knight, error)
	UpdateClient(ctx context.Context, req roster.UpdateClientRequest) (*roster.Client, error)
	DeleteKnight(ctx context.Context, id int64) error
	DeleteClient(ctx context.Context, id int64) error
	ToggleSelection(ctx context.Context, kind roster.Kind, id int64) (bool, error)
	Selection() roster.Selection
	FormParty(ctx context.Context) (*roster.Party, error)
	CompleteMission(ctx context.Context, partyID int64) (*roster.MissionResult, error)
	ToggleKnightDuty(ctx context.Context, id int64) (*roster.Knight, error)
	ExportKnightRoster(ctx context.Context) (string, error)
	ImportKnightRoster(ctx context.Context, text string) (roster.ImportSummary, error)
	Snapshot(ctx context.Context) (*roster.Snapshot, error)
}

// ActivityService defines activity operations needed by MCP.
type ActivityService interface {
	GetRecentActivity(ctx context.Context, opts activity.ListActivityOptions) ([]activity.ActivityEntry, error)
}

// Handler dispatches MCP tool calls.
type Handler struct {
	roster   RosterService
	activity ActivityService
}

// NewHandler creates a new MCP handler.
func NewHandler(rosterSvc RosterService, activitySvc ActivityService) *Handler {
	return &Handler{
		roster:   rosterSvc,
		activity: activitySvc,
	}
}

// Handle dispatches a tool call to the domain services.
func (h *Handler) Handle(ctx context.Context, method string, params json.RawMessage) (any, error) {
	switch method {
	case "add_knight":
		var req AddKnightParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		k, err := h.roster.AddKnight(ctx, roster.AddKnightRequest{
			Name:  req.Name,
			Job:   req.Job,
			Power: req.Power,
		})
		if err != nil {
			return nil, mapError(err)
		}
		return knightResponse(k), nil
	case "add_client":
		var req AddClientParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		c, err := h.roster.AddClient(ctx, roster.AddClientRequest{
			Name:  req.Name,
			Job:   req.Job,
			Power: req.Power,
			Notes: req.Notes,
		})
		if err != nil {
			return nil, mapError(err)
		}
		return clientResponse(c), nil
	case "update_knight":
		var req UpdateKnightParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		k, err := h.roster.UpdateKnight(ctx, roster.UpdateKnightRequest{
			ID:    req.ID,
			Name:  req.Name,
			Job:   req.Job,
			Power: req.Power,
		})
		if err != nil {
			return nil, mapError(err)
		}
		return knightResponse(k), nil
	case "update_client":
		var req UpdateClientParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		c, err := h.roster.UpdateClient(ctx, roster.UpdateClientRequest{
			ID:    req.ID,
			Name:  req.Name,
			Job:   req.Job,
			Power: req.Power,
			Notes: req.Notes,
		})
		if err != nil {
			return nil, mapError(err)
		}
		return clientResponse(c), nil
	case "delete_knight":
		var req IDParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		if err := h.roster.DeleteKnight(ctx, req.ID); err != nil {
			return nil, mapError(err)
		}
		return DeletedResponse{ID: req.ID, Deleted: true}, nil
	case "delete_client":
		var req IDParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		if err := h.roster.DeleteClient(ctx, req.ID); err != nil {
			return nil, mapError(err)
		}
		return DeletedResponse{ID: req.ID, Deleted: true}, nil
	case "toggle_selection":
		var req ToggleSelectionParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		selected, err := h.roster.ToggleSelection(ctx, req.Kind, req.ID)
		if err != nil {
			return nil, mapError(err)
		}
		return ToggleSelectionResponse{
			Kind:      req.Kind,
			ID:        req.ID,
			Selected:  selected,
			Selection: h.roster.Selection(),
		}, nil
	case "form_party":
		party, err := h.roster.FormParty(ctx)
		if err != nil {
			return nil, mapError(err)
		}
		return partyResponse(*party), nil
	case "complete_mission":
		var req CompleteMissionParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		result, err := h.roster.CompleteMission(ctx, req.PartyID)
		if err != nil {
			return nil, mapError(err)
		}
		return result, nil
	case "toggle_knight_duty":
		var req IDParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		k, err := h.roster.ToggleKnightDuty(ctx, req.ID)
		if err != nil {
			return nil, mapError(err)
		}
		return knightResponse(k), nil
	case "export_knight_roster":
		text, err := h.roster.ExportKnightRoster(ctx)
		if err != nil {
			return nil, mapError(err)
		}
		return ExportResponse{Roster: text}, nil
	case "import_knight_roster":
		var req ImportParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		summary, err := h.roster.ImportKnightRoster(ctx, req.Roster)
		if err != nil {
			return nil, mapError(err)
		}
		return summary, nil
	case "get_roster":
		snap, err := h.roster.Snapshot(ctx)
		if err != nil {
			return nil, mapError(err)
		}
		return rosterResponse(snap), nil
	case "get_recent_activity":
		var req GetRecentActivityParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		opts := activity.ListActivityOptions{
			SubjectID: req.SubjectID,
			Limit:     req.Limit,
		}
		if req.Type != "" {
			typ := activity.ActivityType(req.Type)
			opts.ActivityType = &typ
		}
		entries, err := h.activity.GetRecentActivity(ctx, opts)
		if err != nil {
			return nil, mapError(err)
		}
		resp := make([]ActivityEntryResponse, 0, len(entries))
		for _, entry := range entries {
			resp = append(resp, ActivityEntryResponse{
				ID:        entry.ID,
				Timestamp: entry.CreatedAt,
				Type:      entry.ActivityType,
				SubjectID: entry.SubjectID,
				Summary:   entry.Summary,
			})
		}
		return resp, nil
	default:
		return nil, fmt.Errorf("unknown method: %s", method)
	}
}

func decodeParams(params json.RawMessage, out any) error {
	if len(params) == 0 {
		return nil
	}
	if err := json.Unmarshal(params, out); err != nil {
		return &APIError{Code: "INVALID_ARGUMENTS", Message: err.Error(), RecoveryHint: "Check argument names and types"}
	}
	return nil
}

func mapError(err error) error {
	if apiErr := MapError(err); apiErr != nil {
		return apiErr
	}
	return err
}
