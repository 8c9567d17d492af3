package client

// Player is the handle the presentation layer exposes over its media player.
// The session drives it for corrective and committed seeks and consults it
// before accepting a media change.
type Player interface {
	// SeekTo moves playback to the given fraction of the total duration.
	SeekTo(fraction float64)
	// CanPlay reports whether the player can handle the given source.
	CanPlay(url string) bool
}
