package client

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Yasamato/Studi-Watch/domain"
)

type fakeChannel struct {
	published  []domain.StateDelta
	handler    func(domain.StateDelta)
	joinErr    error
	publishErr error
	leaveCalls int
}

func (c *fakeChannel) Join(_ context.Context, _ string) error { return c.joinErr }

func (c *fakeChannel) Publish(delta domain.StateDelta) error {
	if c.publishErr != nil {
		return c.publishErr
	}
	c.published = append(c.published, delta)
	return nil
}

func (c *fakeChannel) OnAuthoritative(handler func(domain.StateDelta)) { c.handler = handler }

func (c *fakeChannel) Leave() error {
	c.leaveCalls++
	return nil
}

type fakePlayer struct {
	seeks    []float64
	playable bool
}

func (p *fakePlayer) SeekTo(fraction float64) { p.seeks = append(p.seeks, fraction) }

func (p *fakePlayer) CanPlay(_ string) bool { return p.playable }

func newTestSession(t *testing.T) (*Session, *fakeChannel, *fakePlayer) {
	t.Helper()

	channel := &fakeChannel{}
	player := &fakePlayer{playable: true}
	session := NewSession(channel, player, nil)
	require.NoError(t, session.Connect(context.Background(), "r1"))
	require.NotNil(t, channel.handler, "handler must be registered before join")

	return session, channel, player
}

func TestLocalChangeIsOptimisticAndPublished(t *testing.T) {
	session, channel, _ := newTestSession(t)

	session.ApplyLocalChange(domain.StateDelta{Playing: domain.Bool(false)})

	assert.False(t, session.State().Playing, "local state must update immediately")
	require.Len(t, channel.published, 1)
	assert.Equal(t, false, *channel.published[0].Playing)
}

func TestLocalChangeWithoutChannel(t *testing.T) {
	session := NewSession(nil, &fakePlayer{playable: true}, nil)
	require.NoError(t, session.Connect(context.Background(), "r1"))

	session.ApplyLocalChange(domain.StateDelta{Muted: domain.Bool(true)})

	assert.True(t, session.State().Muted, "local merge must happen without a channel")
}

func TestRemoteDeltaIsNotRepublished(t *testing.T) {
	session, channel, _ := newTestSession(t)

	channel.handler(domain.StateDelta{Playing: domain.Bool(false)})

	assert.False(t, session.State().Playing)
	assert.Empty(t, channel.published, "remote-origin merges must never be re-published")
}

func TestRemoteDeltaTriggersCorrectiveSeek(t *testing.T) {
	session, channel, player := newTestSession(t)
	session.HandleDuration(100)
	session.HandleProgress(0.10, 0.5)

	channel.handler(domain.StateDelta{Played: domain.Float(0.13)})

	require.Len(t, player.seeks, 1, "drift above tolerance must hard-seek")
	assert.Equal(t, 0.13, player.seeks[0])
	assert.Equal(t, 0.13, session.State().Played, "delta must merge after the seek")
}

func TestRemoteDeltaWithinToleranceDoesNotSeek(t *testing.T) {
	session, channel, player := newTestSession(t)
	session.HandleDuration(100)
	session.HandleProgress(0.10, 0.5)

	channel.handler(domain.StateDelta{Played: domain.Float(0.115)})

	assert.Empty(t, player.seeks, "small skew must be ignored")
	assert.Equal(t, 0.115, session.State().Played, "the remote position still merges")
}

func TestSeekingSuppressesInboundProgress(t *testing.T) {
	session, channel, player := newTestSession(t)
	session.HandleDuration(100)

	session.BeginSeekGesture()
	session.UpdateSeekGesture(0.3)

	channel.handler(domain.StateDelta{
		Played: domain.Float(0.9),
		Loaded: domain.Float(0.95),
		Volume: domain.Float(0.5),
	})

	state := session.State()
	assert.Equal(t, 0.3, state.Played, "inbound played must not fight the drag")
	assert.Zero(t, state.Loaded, "inbound loaded must not fight the drag")
	assert.Equal(t, 0.5, state.Volume, "other fields still merge")
	assert.True(t, state.Seeking)
	assert.Empty(t, player.seeks, "the drift gate must never fire mid-gesture")
}

func TestSeekGesturePublishesExactlyOnce(t *testing.T) {
	session, channel, player := newTestSession(t)

	session.BeginSeekGesture()
	session.UpdateSeekGesture(0.2)
	session.UpdateSeekGesture(0.35)
	session.EndSeekGesture(0.5)

	require.Len(t, channel.published, 1, "only the commit publishes")
	delta := channel.published[0]
	require.NotNil(t, delta.Seeking)
	require.NotNil(t, delta.Played)
	assert.False(t, *delta.Seeking)
	assert.Equal(t, 0.5, *delta.Played)

	require.Len(t, player.seeks, 1, "the real seek happens at commit")
	assert.Equal(t, 0.5, player.seeks[0])

	state := session.State()
	assert.False(t, state.Seeking)
	assert.Equal(t, 0.5, state.Played)
}

func TestLocalProgressIgnoredWhileSeeking(t *testing.T) {
	session, channel, _ := newTestSession(t)

	session.BeginSeekGesture()
	session.HandleProgress(0.8, 0.9)

	assert.Zero(t, session.State().Played)
	assert.Empty(t, channel.published)
}

func TestRequestMediaChangeResetsPlayback(t *testing.T) {
	session, channel, _ := newTestSession(t)
	session.ApplyLocalChange(domain.StateDelta{
		Played:  domain.Float(0.6),
		Loaded:  domain.Float(0.7),
		Ready:   domain.Bool(true),
		Playing: domain.Bool(false),
	})
	channel.published = nil

	require.NoError(t, session.RequestMediaChange("https://example.com/next.mp4"))

	state := session.State()
	assert.Equal(t, "https://example.com/next.mp4", state.URL)
	assert.False(t, state.Ready)
	assert.Zero(t, state.Played)
	assert.Zero(t, state.Loaded)
	assert.True(t, state.Playing)
	require.Len(t, channel.published, 1)
}

func TestRequestMediaChangeUnplayable(t *testing.T) {
	session, channel, player := newTestSession(t)
	player.playable = false
	before := session.State()

	err := session.RequestMediaChange("ftp://nope")

	assert.ErrorIs(t, err, ErrUnsupportedMedia)
	assert.Equal(t, before, session.State(), "state must be untouched")
	assert.Empty(t, channel.published)
}

func TestEndedWithLoopRestarts(t *testing.T) {
	session, channel, player := newTestSession(t)
	session.ApplyLocalChange(domain.StateDelta{Loop: domain.Bool(true)})
	channel.published = nil

	session.HandleEnded()

	require.Len(t, channel.published, 1)
	delta := channel.published[0]
	require.NotNil(t, delta.Playing)
	require.NotNil(t, delta.Played)
	assert.True(t, *delta.Playing)
	assert.Zero(t, *delta.Played)
	require.Len(t, player.seeks, 1)
	assert.Zero(t, player.seeks[0])
}

func TestEndedWithoutLoopStops(t *testing.T) {
	session, channel, player := newTestSession(t)
	channel.published = nil

	session.HandleEnded()

	require.Len(t, channel.published, 1)
	delta := channel.published[0]
	require.NotNil(t, delta.Playing)
	assert.False(t, *delta.Playing)
	assert.Nil(t, delta.Played)
	assert.Empty(t, player.seeks)
}

func TestPublishFailureStaysLocal(t *testing.T) {
	session, channel, _ := newTestSession(t)
	channel.publishErr = ErrChannelUnavailable

	session.ApplyLocalChange(domain.StateDelta{Playing: domain.Bool(false)})

	assert.False(t, session.State().Playing, "optimistic merge must survive a dropped publish")
}

func TestTeardownTwiceLeavesOnce(t *testing.T) {
	session, channel, _ := newTestSession(t)

	session.Teardown()
	session.Teardown()

	assert.Equal(t, 1, channel.leaveCalls)
}

func TestOperationsAfterTeardownAreNoOps(t *testing.T) {
	session, channel, _ := newTestSession(t)
	session.Teardown()
	channel.published = nil

	session.ApplyLocalChange(domain.StateDelta{Playing: domain.Bool(false)})
	session.BeginSeekGesture()
	session.EndSeekGesture(0.5)
	session.HandleEnded()
	require.NoError(t, session.RequestMediaChange("https://example.com/a.mp4"))

	assert.Empty(t, channel.published, "no publish may happen after disconnect")
	assert.True(t, session.State().Playing, "state must be frozen after disconnect")
}

func TestRenderCallbackFiresOnMerge(t *testing.T) {
	session, channel, _ := newTestSession(t)

	var rendered []domain.RoomState
	session.OnStateChange(func(s domain.RoomState) { rendered = append(rendered, s) })

	session.ApplyLocalChange(domain.StateDelta{Volume: domain.Float(0.9)})
	channel.handler(domain.StateDelta{Muted: domain.Bool(true)})

	require.Len(t, rendered, 2)
	assert.Equal(t, 0.9, rendered[0].Volume)
	assert.True(t, rendered[1].Muted)
}
