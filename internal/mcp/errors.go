package mcp

import (
	"errors"
	"fmt"

	"github.com/rpggio/knightbus/internal/domain/activity"
	"github.com/rpggio/knightbus/internal/domain/roster"
)

// APIError represents an MCP error response.
type APIError struct {
	Code         string `json:"code"`
	Message      string `json:"message"`
	Details      any    `json:"details,omitempty"`
	RecoveryHint string `json:"recovery_hint,omitempty"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// MapError maps domain errors to MCP error codes.
func MapError(err error) *APIError {
	if err == nil {
		return nil
	}
	var apiErr *APIError
	switch {
	case errors.As(err, &apiErr):
		return apiErr
	case errors.Is(err, roster.ErrKnightNotFound):
		return &APIError{Code: "KNIGHT_NOT_FOUND", Message: "knight not found", RecoveryHint: "Call get_roster for current ids"}
	case errors.Is(err, roster.ErrClientNotFound):
		return &APIError{Code: "CLIENT_NOT_FOUND", Message: "client not found", RecoveryHint: "Call get_roster for current ids"}
	case errors.Is(err, roster.ErrPartyNotFound):
		return &APIError{Code: "PARTY_NOT_FOUND", Message: "party not found", RecoveryHint: "The mission may already be complete"}
	case errors.Is(err, roster.ErrEmptySelection):
		return &APIError{Code: "EMPTY_SELECTION", Message: err.Error(), RecoveryHint: "Select waiting members with toggle_selection"}
	case errors.Is(err, roster.ErrMemberUnavailable):
		return &APIError{Code: "MEMBER_UNAVAILABLE", Message: "a selected member is no longer waiting", RecoveryHint: "Refresh with get_roster and adjust the selection"}
	case errors.Is(err, roster.ErrInvalidTransition):
		return &APIError{Code: "INVALID_TRANSITION", Message: "invalid status transition"}
	case errors.Is(err, roster.ErrInvalidInput), errors.Is(err, activity.ErrInvalidInput):
		return &APIError{Code: "INVALID_INPUT", Message: "invalid input", RecoveryHint: "Name and job must be non-empty"}
	default:
		return nil
	}
}
