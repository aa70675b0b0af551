package core

import "errors"

// Error codes surfaced on the wire.
const (
	ErrCodeBadRequest   = "bad_request"
	ErrCodeUnknownEvent = "unknown_event"
)

// ErrUnauthorized is returned by an auth hook to refuse a connection.
var ErrUnauthorized = errors.New("unauthorized")
