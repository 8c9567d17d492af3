package client

import "errors"

var (
	// ErrUnsupportedMedia is returned by RequestMediaChange when the player
	// cannot handle the target url. State is left untouched.
	ErrUnsupportedMedia = errors.New("unsupported media")

	// ErrChannelUnavailable is returned by a sync channel whose connection
	// is closed or was never opened. Publishes failing with it are dropped,
	// the next delta supersedes them anyway.
	ErrChannelUnavailable = errors.New("channel unavailable")
)
