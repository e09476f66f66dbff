package activity

import "time"

// ActivityType represents the type of roster command recorded in the journal
type ActivityType string

const (
	TypeKnightAdded       ActivityType = "knight_added"
	TypeKnightUpdated     ActivityType = "knight_updated"
	TypeKnightDeleted     ActivityType = "knight_deleted"
	TypeKnightDutyToggled ActivityType = "knight_duty_toggled"
	TypeClientAdded       ActivityType = "client_added"
	TypeClientUpdated     ActivityType = "client_updated"
	TypeClientDeleted     ActivityType = "client_deleted"
	TypePartyFormed       ActivityType = "party_formed"
	TypeMissionCompleted  ActivityType = "mission_completed"
	TypeRosterImported    ActivityType = "roster_imported"
)

// ActivityEntry represents a command in the journal. SubjectID is the knight,
// client or party the command acted on, or zero for roster-wide commands.
type ActivityEntry struct {
	ID           string       `json:"id"`
	ActivityType ActivityType `json:"type"`
	SubjectID    int64        `json:"subject_id,omitempty"`
	Summary      string       `json:"summary"`
	CreatedAt    time.Time    `json:"created_at"`
}
