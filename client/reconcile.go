package client

import "math"

// DriftTolerance is how many seconds of media time local playback may
// diverge from the authoritative position before a corrective seek. Network
// and codec jitter stays well below it.
const DriftTolerance = 2.0

// ShouldResync reports whether local playback drifted far enough from the
// authoritative position that a hard seek is warranted. While the duration
// is unknown the played fractions carry no absolute time, so it never fires.
func ShouldResync(localPlayed, remotePlayed, duration float64) bool {
	if duration <= 0 {
		return false
	}

	return math.Abs(localPlayed-remotePlayed)*duration > DriftTolerance
}
