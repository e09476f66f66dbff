package roster

import "errors"

var (
	// ErrKnightNotFound indicates the knight doesn't exist.
	ErrKnightNotFound = errors.New("knight not found")
	// ErrClientNotFound indicates the client doesn't exist.
	ErrClientNotFound = errors.New("client not found")
	// ErrPartyNotFound indicates the party doesn't exist or its mission is already complete.
	ErrPartyNotFound = errors.New("party not found")
	// ErrEmptySelection indicates a party was requested without at least one knight and one client.
	ErrEmptySelection = errors.New("select at least one knight and one client")
	// ErrMemberUnavailable indicates a selected member left the waiting state before formation.
	ErrMemberUnavailable = errors.New("selected member is no longer waiting")
	// ErrInvalidTransition indicates a status change outside the lifecycle.
	ErrInvalidTransition = errors.New("invalid status transition")
	// ErrInvalidInput indicates invalid input for roster operations.
	ErrInvalidInput = errors.New("invalid roster input")
)
