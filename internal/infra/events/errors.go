package events

import "errors"

var (
	ErrMarshal = errors.New("events: failed to marshal event")
	ErrWrite   = errors.New("events: failed to write message")
)
