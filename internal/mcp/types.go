package mcp

import (
	"time"

	"github.com/rpggio/knightbus/internal/domain/activity"
	"github.com/rpggio/knightbus/internal/domain/roster"
)

type AddKnightParams struct {
	Name  string  `json:"name"`
	Job   string  `json:"job"`
	Power float64 `json:"power"`
}

type AddClientParams struct {
	Name  string  `json:"name"`
	Job   string  `json:"job"`
	Power float64 `json:"power"`
	Notes string  `json:"notes,omitempty"`
}

type UpdateKnightParams struct {
	ID    int64    `json:"id"`
	Name  *string  `json:"name,omitempty"`
	Job   *string  `json:"job,omitempty"`
	Power *float64 `json:"power,omitempty"`
}

type UpdateClientParams struct {
	ID    int64    `json:"id"`
	Name  *string  `json:"name,omitempty"`
	Job   *string  `json:"job,omitempty"`
	Power *float64 `json:"power,omitempty"`
	Notes *string  `json:"notes,omitempty"`
}

type IDParams struct {
	ID int64 `json:"id"`
}

type ToggleSelectionParams struct {
	Kind roster.Kind `json:"kind"`
	ID   int64       `json:"id"`
}

type CompleteMissionParams struct {
	PartyID int64 `json:"party_id"`
}

type ImportParams struct {
	Roster string `json:"roster"`
}

type GetRecentActivityParams struct {
	SubjectID *int64 `json:"subject_id,omitempty"`
	Type      string `json:"type,omitempty"`
	Limit     int    `json:"limit,omitempty"`
}

type KnightResponse struct {
	ID           int64               `json:"id"`
	Name         string              `json:"name"`
	Job          string              `json:"job"`
	Power        int64               `json:"power"`
	PowerDisplay string              `json:"power_display"`
	RelayCount   int64               `json:"relay_count"`
	Status       roster.KnightStatus `json:"status"`
	StatusLabel  string              `json:"status_label,omitempty"`
	Selected     bool                `json:"selected,omitempty"`
}

type ClientResponse struct {
	ID           int64               `json:"id"`
	Name         string              `json:"name"`
	Job          string              `json:"job"`
	Power        int64               `json:"power"`
	PowerDisplay string              `json:"power_display"`
	Notes        string              `json:"notes,omitempty"`
	Status       roster.ClientStatus `json:"status"`
	StatusLabel  string              `json:"status_label,omitempty"`
	Selected     bool                `json:"selected,omitempty"`
}

type PartyResponse struct {
	ID       int64            `json:"id"`
	Label    string           `json:"label"`
	Knights  []KnightResponse `json:"knights"`
	Clients  []ClientResponse `json:"clients"`
	FormedAt time.Time        `json:"formed_at"`
}

type RosterResponse struct {
	Knights   []KnightResponse `json:"knights"`
	Clients   []ClientResponse `json:"clients"`
	Parties   []PartyResponse  `json:"parties"`
	Selection roster.Selection `json:"selection"`
}

type ToggleSelectionResponse struct {
	Kind      roster.Kind      `json:"kind"`
	ID        int64            `json:"id"`
	Selected  bool             `json:"selected"`
	Selection roster.Selection `json:"selection"`
}

type DeletedResponse struct {
	ID      int64 `json:"id"`
	Deleted bool  `json:"deleted"`
}

type ExportResponse struct {
	Roster string `json:"roster"`
}

type ActivityEntryResponse struct {
	ID        string                `json:"id"`
	Timestamp time.Time             `json:"timestamp"`
	Type      activity.ActivityType `json:"type"`
	SubjectID int64                 `json:"subject_id,omitempty"`
	Summary   string                `json:"summary"`
}

func knightResponse(k *roster.Knight) KnightResponse {
	return KnightResponse{
		ID:           k.ID,
		Name:         k.Name,
		Job:          k.Job,
		Power:        k.Power,
		PowerDisplay: roster.FormatPower(k.Power),
		RelayCount:   k.RelayCount,
		Status:       k.Status,
	}
}

func clientResponse(c *roster.Client) ClientResponse {
	return ClientResponse{
		ID:           c.ID,
		Name:         c.Name,
		Job:          c.Job,
		Power:        c.Power,
		PowerDisplay: roster.FormatPower(c.Power),
		Notes:        c.Notes,
		Status:       c.Status,
	}
}

func partyResponse(p roster.Party) PartyResponse {
	resp := PartyResponse{
		ID:       p.ID,
		Label:    roster.PartyLabel(p.ID),
		Knights:  make([]KnightResponse, 0, len(p.Knights)),
		Clients:  make([]ClientResponse, 0, len(p.Clients)),
		FormedAt: p.FormedAt,
	}
	for i := range p.Knights {
		resp.Knights = append(resp.Knights, knightResponse(&p.Knights[i]))
	}
	for i := range p.Clients {
		resp.Clients = append(resp.Clients, clientResponse(&p.Clients[i]))
	}
	return resp
}

func rosterResponse(snap *roster.Snapshot) RosterResponse {
	resp := RosterResponse{
		Knights:   make([]KnightResponse, 0, len(snap.Knights)),
		Clients:   make([]ClientResponse, 0, len(snap.Clients)),
		Parties:   make([]PartyResponse, 0, len(snap.Parties)),
		Selection: snap.Selection,
	}
	for _, view := range snap.Knights {
		k := knightResponse(&view.Knight)
		k.StatusLabel = view.StatusLabel
		k.Selected = view.Selected
		resp.Knights = append(resp.Knights, k)
	}
	for _, view := range snap.Clients {
		c := clientResponse(&view.Client)
		c.StatusLabel = view.StatusLabel
		c.Selected = view.Selected
		resp.Clients = append(resp.Clients, c)
	}
	for _, p := range snap.Parties {
		resp.Parties = append(resp.Parties, partyResponse(p))
	}
	return resp
}
