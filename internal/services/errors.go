package services

import "errors"

// Sentinel errors for caller-facing rejection reasons. Handlers map these to
// HTTP statuses; anything else is a storage failure.
var (
	ErrPollNotFound   = errors.New("poll not found")
	ErrPollClosed     = errors.New("poll is closed")
	ErrOptionMismatch = errors.New("option does not belong to poll")
	ErrTooFewOptions  = errors.New("poll needs at least two options")
	ErrMissingText    = errors.New("poll text is required")
	ErrNotAllowed     = errors.New("not allowed")
)
