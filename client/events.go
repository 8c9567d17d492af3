package client

import "github.com/Yasamato/Studi-Watch/domain"

// Player event intake. The presentation layer forwards its player callbacks
// verbatim into these; each becomes a local change and propagates like any
// other delta.

func (s *Session) HandleReady() {
	s.ApplyLocalChange(domain.StateDelta{Ready: domain.Bool(true)})
}

func (s *Session) HandlePlay() {
	s.ApplyLocalChange(domain.StateDelta{Playing: domain.Bool(true)})
}

func (s *Session) HandlePause() {
	s.ApplyLocalChange(domain.StateDelta{Playing: domain.Bool(false)})
}

func (s *Session) HandleBuffer() {
	s.ApplyLocalChange(domain.StateDelta{Buffering: domain.Bool(true)})
}

func (s *Session) HandleBufferEnd() {
	s.ApplyLocalChange(domain.StateDelta{Buffering: domain.Bool(false)})
}

// HandleProgress reports locally observed playback progress. Ignored while
// the scrub control is engaged, the drag owns the position then.
func (s *Session) HandleProgress(played, loaded float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.Seeking {
		return
	}

	s.apply(domain.StateDelta{
		Played: domain.Float(played),
		Loaded: domain.Float(loaded),
	}, originLocal)
}

// HandleDuration records the media duration once the player knows it.
func (s *Session) HandleDuration(seconds float64) {
	s.ApplyLocalChange(domain.StateDelta{Duration: domain.Float(seconds)})
}

// HandleEnded restarts playback when the room loops, otherwise stops.
func (s *Session) HandleEnded() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.Loop {
		if s.player != nil {
			s.player.SeekTo(0)
		}
		s.apply(domain.StateDelta{
			Playing: domain.Bool(true),
			Played:  domain.Float(0),
		}, originLocal)
		return
	}

	s.apply(domain.StateDelta{Playing: domain.Bool(false)}, originLocal)
}

// HandleError logs a playback failure. State is untouched, the session
// stays up; the participant self-heals on the next reconciled broadcast.
func (s *Session) HandleError(err error) {
	s.logger.Warn("playback error", "error", err)
}
