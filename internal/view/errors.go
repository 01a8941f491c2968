package view

import "errors"

var (
	// ErrInvariantViolation indicates a view was requested without its mandatory input.
	ErrInvariantViolation = errors.New("view invariant violation")
)
