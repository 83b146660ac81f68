package domain

import "errors"

// Sentinel errors surfaced to collaborators. Check with errors.Is.
var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")
)
