package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestApplyOverwritesOnlyPresentFields(t *testing.T) {
	state := DefaultState("r1")
	state.URL = "https://example.com/a.mp4"
	state.Played = 0.4

	delta := StateDelta{
		Playing: Bool(false),
		Volume:  Float(0.7),
	}
	delta.Apply(&state)

	assert.Equal(t, false, state.Playing, "playing must be overwritten")
	assert.Equal(t, 0.7, state.Volume, "volume must be overwritten")
	assert.Equal(t, "https://example.com/a.mp4", state.URL, "absent fields must be untouched")
	assert.Equal(t, 0.4, state.Played, "absent fields must be untouched")
	assert.Equal(t, float64(1), state.PlaybackRate, "absent fields must be untouched")
}

func TestApplyIsIdempotent(t *testing.T) {
	once := DefaultState("r1")
	twice := DefaultState("r1")

	delta := StateDelta{
		URL:     String("https://example.com/b.mp4"),
		Played:  Float(0.25),
		Playing: Bool(false),
		Muted:   Bool(true),
		Users:   []User{{Id: "u1", Name: "alice", Icon: "cat"}},
	}

	delta.Apply(&once)
	delta.Apply(&twice)
	delta.Apply(&twice)

	assert.Equal(t, once, twice, "applying the same delta twice must equal applying it once")
}

func TestAsDeltaRoundTrip(t *testing.T) {
	state := DefaultState("r1")
	state.URL = "https://example.com/c.mp4"
	state.Owner = User{Id: "u1", Name: "alice"}
	state.Users = []User{{Id: "u1", Name: "alice"}}
	state.Duration = 120
	state.Played = 0.5

	restored := DefaultState("r1")
	delta := state.AsDelta()
	delta.Apply(&restored)

	assert.Equal(t, state, restored)
}

func TestDefaultState(t *testing.T) {
	state := DefaultState("r1")

	assert.Equal(t, "r1", state.Id)
	assert.True(t, state.Playing)
	assert.Equal(t, 0.3, state.Volume)
	assert.Equal(t, float64(1), state.PlaybackRate)
	assert.False(t, state.Ready)
	assert.Zero(t, state.Played)
	assert.Zero(t, state.Duration)
}
