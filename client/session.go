package client

import (
	"context"
	"log/slog"
	"sync"

	"github.com/Yasamato/Studi-Watch/domain"
)

type sessionStatus int

const (
	statusConnecting sessionStatus = iota
	statusJoined
	statusActive
	statusReconciling
	statusDisconnected
)

func (s sessionStatus) String() string {
	switch s {
	case statusConnecting:
		return "connecting"
	case statusJoined:
		return "joined"
	case statusActive:
		return "active"
	case statusReconciling:
		return "reconciling"
	case statusDisconnected:
		return "disconnected"
	}

	return "unknown"
}

// origin tags a delta with where it came from. Only local-origin deltas are
// published; merging a remote-origin delta must never re-publish it, or the
// echo would loop forever.
type origin int

const (
	originLocal origin = iota
	originRemote
)

// Session keeps one participant's view of a room consistent with the
// authoritative state. All mutation is serialized through one mutex, so no
// two deltas are ever merged concurrently: UI and player callbacks, inbound
// channel messages and lifecycle events all funnel through it.
type Session struct {
	mu       sync.Mutex
	state    domain.RoomState
	status   sessionStatus
	channel  iSyncChannel
	player   Player
	logger   *slog.Logger
	onChange func(domain.RoomState)
}

// NewSession creates a session in the Connecting state. A nil channel gives
// an offline session: local changes still apply, nothing is published.
func NewSession(channel iSyncChannel, player Player, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.Default()
	}

	return &Session{
		state:   domain.DefaultState(""),
		status:  statusConnecting,
		channel: channel,
		player:  player,
		logger:  logger,
	}
}

// OnStateChange registers the render callback, invoked with a copy of the
// merged state after every accepted change.
func (s *Session) OnStateChange(fn func(domain.RoomState)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.onChange = fn
}

// State returns a copy of the current merged room state.
func (s *Session) State() domain.RoomState {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.state
}

// Connect joins the room. The inbound handler is registered before the
// channel opens so no broadcast is lost between join and subscribe.
func (s *Session) Connect(ctx context.Context, roomId string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status != statusConnecting {
		return nil
	}

	s.state.Id = roomId
	if s.channel == nil {
		s.status = statusActive
		return nil
	}

	s.channel.OnAuthoritative(s.onRemoteDelta)
	if err := s.channel.Join(ctx, roomId); err != nil {
		s.status = statusDisconnected
		return err
	}
	s.status = statusJoined

	return nil
}

// ApplyLocalChange merges delta into local state immediately and forwards it
// to the sync channel. The optimistic local result always renders first; a
// contradicting broadcast reconciles it later.
func (s *Session) ApplyLocalChange(delta domain.StateDelta) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.apply(delta, originLocal)
}

// onRemoteDelta is the single entry point for authoritative broadcasts,
// including echoes of this session's own publishes.
func (s *Session) onRemoteDelta(delta domain.StateDelta) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status == statusDisconnected {
		return
	}
	if s.status == statusJoined {
		// first snapshot received
		s.status = statusActive
	}

	if s.state.Seeking {
		// the user owns the scrub control right now, progress updates from
		// the room must not fight the drag gesture
		delta.Played = nil
		delta.Loaded = nil
		delta.Seeking = nil
	} else if delta.Played != nil && ShouldResync(s.state.Played, *delta.Played, s.state.Duration) {
		// seek before merging the rest so playback jumps exactly once
		s.status = statusReconciling
		if s.player != nil {
			s.player.SeekTo(*delta.Played)
		}
		s.status = statusActive
	}

	s.apply(delta, originRemote)
}

// apply merges delta into local state and, for local-origin deltas, publishes
// it. Callers must hold mu.
func (s *Session) apply(delta domain.StateDelta, from origin) {
	if s.status == statusConnecting || s.status == statusDisconnected {
		return
	}

	delta.Apply(&s.state)

	if from == originLocal && s.channel != nil {
		if err := s.channel.Publish(delta); err != nil {
			// best effort: the next delta supersedes this one
			s.logger.Debug("publish dropped", "error", err)
		}
	}

	s.render()
}

func (s *Session) render() {
	if s.onChange != nil {
		s.onChange(s.state)
	}
}

// RequestMediaChange switches the room to a new media source. An url the
// player cannot handle fails with ErrUnsupportedMedia and leaves state
// untouched. A playable url resets playback progress and starts playing.
func (s *Session) RequestMediaChange(url string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status == statusConnecting || s.status == statusDisconnected {
		return nil
	}

	if s.player == nil || !s.player.CanPlay(url) {
		s.logger.Info("media change rejected", "url", url)
		return ErrUnsupportedMedia
	}

	s.apply(domain.StateDelta{
		URL:     domain.String(url),
		Ready:   domain.Bool(false),
		Played:  domain.Float(0),
		Loaded:  domain.Float(0),
		Playing: domain.Bool(true),
	}, originLocal)

	return nil
}

// BeginSeekGesture marks the scrub control as engaged. Inbound progress
// updates are suppressed until the gesture ends. Nothing is published yet.
func (s *Session) BeginSeekGesture() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status != statusActive && s.status != statusJoined {
		return
	}

	s.state.Seeking = true
	s.render()
}

// UpdateSeekGesture tracks the drag locally. Publishing every tick would
// flood the channel, so the value stays local until the gesture commits.
func (s *Session) UpdateSeekGesture(fraction float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.state.Seeking || s.status == statusDisconnected {
		return
	}

	s.state.Played = fraction
	s.render()
}

// EndSeekGesture commits the scrub: seeks the local player and publishes the
// final position in a single delta.
func (s *Session) EndSeekGesture(fraction float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.state.Seeking || s.status == statusDisconnected {
		return
	}

	if s.player != nil {
		s.player.SeekTo(fraction)
	}
	s.apply(domain.StateDelta{
		Seeking: domain.Bool(false),
		Played:  domain.Float(fraction),
	}, originLocal)
}

// Teardown leaves the room and releases the player binding. Safe to call
// more than once; the channel is left exactly once and no operation after
// it ever raises.
func (s *Session) Teardown() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status == statusDisconnected {
		return
	}
	s.status = statusDisconnected
	s.player = nil

	if s.channel != nil {
		// deregister before closing so no callback fires into disposed state
		s.channel.OnAuthoritative(nil)
		if err := s.channel.Leave(); err != nil {
			s.logger.Warn("failed to leave channel", "error", err)
		}
	}
}
