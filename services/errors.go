package services

import "errors"

// Sentinel errors returned by the meeting and notification services. Handlers
// match with errors.Is and translate to HTTP statuses; anything else is a
// database failure surfaced as a 500.
var (
	ErrNotFound   = errors.New("not found")
	ErrForbidden  = errors.New("forbidden")
	ErrValidation = errors.New("validation failed")
)
