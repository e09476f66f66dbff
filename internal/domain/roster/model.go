package roster

import "time"

// PowerScale is the factor applied to operator-entered power values before storage.
const PowerScale = 1000

// KnightStatus represents the availability of a knight
type KnightStatus string

const (
	KnightWaiting KnightStatus = "waiting"
	KnightInParty KnightStatus = "in_party"
	KnightOffDuty KnightStatus = "off_duty"
)

// ClientStatus represents the lifecycle of a client request
type ClientStatus string

const (
	ClientWaiting   ClientStatus = "waiting"
	ClientInParty   ClientStatus = "in_party"
	ClientCompleted ClientStatus = "completed"
)

// Kind identifies which roster a selection or lookup targets.
type Kind string

const (
	KindKnight Kind = "knight"
	KindClient Kind = "client"
)

// Knight is a reusable service provider
type Knight struct {
	ID         int64        `json:"id"`
	Name       string       `json:"name"`
	Job        string       `json:"job"`
	Power      int64        `json:"power"`
	RelayCount int64        `json:"relay_count"`
	Status     KnightStatus `json:"status"`
	CreatedAt  time.Time    `json:"created_at"`
}

// Client is a one-shot request
type Client struct {
	ID        int64        `json:"id"`
	Name      string       `json:"name"`
	Job       string       `json:"job"`
	Power     int64        `json:"power"`
	Notes     string       `json:"notes,omitempty"`
	Status    ClientStatus `json:"status"`
	CreatedAt time.Time    `json:"created_at"`
}

// Party groups snapshots of the knights and clients bound together at formation time.
// Snapshots are copies: later edits to a Knight or Client do not change them.
type Party struct {
	ID          int64     `json:"id"`
	Knights     []Knight  `json:"knights"`
	Clients     []Client  `json:"clients"`
	IsCompleted bool      `json:"is_completed"`
	FormedAt    time.Time `json:"formed_at"`
}

// Selection is the operator's pending choice of members for the next party.
type Selection struct {
	KnightIDs []int64 `json:"knight_ids"`
	ClientIDs []int64 `json:"client_ids"`
}

// ImportSummary reports the outcome of a roster import.
type ImportSummary struct {
	Imported int `json:"imported"`
	Skipped  int `json:"skipped"`
}

// MissionResult describes what CompleteMission changed.
type MissionResult struct {
	PartyID          int64   `json:"party_id"`
	ReturnedKnights  []int64 `json:"returned_knights"`
	CompletedClients []int64 `json:"completed_clients"`
}
