package repository

import "errors"

var (
	// ErrNotFound is returned when a requested entity doesn't exist
	ErrNotFound = errors.New("not found")

	// ErrConflict is returned when an entity is not in the status a transition requires
	ErrConflict = errors.New("conflict: entity is not in the required status")
)
