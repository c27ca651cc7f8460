package channels

import "errors"

var (
	// ErrInvalidChannelCount indicates that the channel count must be positive.
	ErrInvalidChannelCount = errors.New("channel count must be positive")
)
