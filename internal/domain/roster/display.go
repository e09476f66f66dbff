package roster

import (
	"fmt"
	"sort"

	"github.com/dustin/go-humanize"
)

// UnknownPartyLabel is shown for an in-party member that no live party lists.
const UnknownPartyLabel = "unknown party"

func knightRank(s KnightStatus) int {
	switch s {
	case KnightWaiting:
		return 1
	case KnightInParty:
		return 2
	case KnightOffDuty:
		return 3
	default:
		return 4
	}
}

func clientRank(s ClientStatus) int {
	switch s {
	case ClientWaiting:
		return 1
	case ClientInParty:
		return 2
	case ClientCompleted:
		return 3
	default:
		return 4
	}
}

// SortKnights orders knights waiting, then in party, then off duty.
// Ties keep their incoming order.
func SortKnights(knights []Knight) {
	sort.SliceStable(knights, func(i, j int) bool {
		return knightRank(knights[i].Status) < knightRank(knights[j].Status)
	})
}

// SortClients orders clients waiting, then in party, then completed.
func SortClients(clients []Client) {
	sort.SliceStable(clients, func(i, j int) bool {
		return clientRank(clients[i].Status) < clientRank(clients[j].Status)
	})
}

// FormatPower renders a stored power value with thousands separators.
func FormatPower(power int64) string {
	return humanize.Comma(power)
}

// PartyLabel names a live party.
func PartyLabel(partyID int64) string {
	return fmt.Sprintf("Party #%d", partyID)
}

// KnightStatusLabel returns the display label for a knight. partyID is only
// consulted for in-party knights; zero means no live party was found.
func KnightStatusLabel(status KnightStatus, partyID int64) string {
	switch status {
	case KnightWaiting:
		return "Waiting"
	case KnightOffDuty:
		return "Off duty"
	case KnightInParty:
		if partyID == 0 {
			return UnknownPartyLabel
		}
		return PartyLabel(partyID)
	default:
		return string(status)
	}
}

// ClientStatusLabel returns the display label for a client.
func ClientStatusLabel(status ClientStatus, partyID int64) string {
	switch status {
	case ClientWaiting:
		return "Waiting"
	case ClientCompleted:
		return "Completed"
	case ClientInParty:
		if partyID == 0 {
			return UnknownPartyLabel
		}
		return PartyLabel(partyID)
	default:
		return string(status)
	}
}

// KnightView is a knight prepared for rendering.
type KnightView struct {
	Knight
	StatusLabel  string `json:"status_label"`
	PowerDisplay string `json:"power_display"`
	Selected     bool   `json:"selected"`
}

// ClientView is a client prepared for rendering.
type ClientView struct {
	Client
	StatusLabel  string `json:"status_label"`
	PowerDisplay string `json:"power_display"`
	Selected     bool   `json:"selected"`
}

// Snapshot is a read-only view of the whole roster.
type Snapshot struct {
	Knights   []KnightView `json:"knights"`
	Clients   []ClientView `json:"clients"`
	Parties   []Party      `json:"parties"`
	Selection Selection    `json:"selection"`
}
