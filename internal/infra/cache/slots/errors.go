package slots

import "errors"

var (
	ErrMarshal = errors.New("slots.cache: failed to marshal entry")
	ErrRedis   = errors.New("slots.cache: redis command failed")
)
