package redis

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Yasamato/Studi-Watch/domain"
	"github.com/Yasamato/Studi-Watch/internal/repository/room"
)

func newTestRepo(t *testing.T) *repo {
	t.Helper()

	s := miniredis.RunT(t)
	rc := goredis.NewClient(&goredis.Options{Addr: s.Addr()})

	return NewRepo(rc, time.Hour, slog.Default())
}

func TestStateLifecycle(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	_, err := r.GetState(ctx, "r1")
	assert.ErrorIs(t, err, room.ErrRoomNotFound)

	seeded := room.State{
		URL:          "https://example.com/a.mp4",
		OwnerId:      "u1",
		Playing:      true,
		Volume:       0.3,
		PlaybackRate: 1,
	}
	applied, err := r.SeedState(ctx, &room.SeedStateParams{State: seeded, RoomId: "r1"})
	require.NoError(t, err)
	assert.True(t, applied)

	applied, err = r.SeedState(ctx, &room.SeedStateParams{
		State:  room.State{OwnerId: "u2", Volume: 0.9},
		RoomId: "r1",
	})
	require.NoError(t, err)
	assert.False(t, applied, "a live room must not be reseeded")

	state, err := r.GetState(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, seeded, state)

	err = r.UpdateState(ctx, &room.UpdateStateParams{
		Playing: domain.Bool(false),
		Played:  domain.Float(0.5),
		RoomId:  "r1",
	})
	require.NoError(t, err)

	state, err = r.GetState(ctx, "r1")
	require.NoError(t, err)
	assert.False(t, state.Playing)
	assert.Equal(t, 0.5, state.Played)
	assert.Equal(t, 0.3, state.Volume, "untouched fields survive")
	assert.Equal(t, "u1", state.OwnerId)

	require.NoError(t, r.RemoveState(ctx, "r1"))
	_, err = r.GetState(ctx, "r1")
	assert.ErrorIs(t, err, room.ErrRoomNotFound)
}

func TestUpdateStateUnknownRoom(t *testing.T) {
	r := newTestRepo(t)

	err := r.UpdateState(context.Background(), &room.UpdateStateParams{
		Playing: domain.Bool(false),
		RoomId:  "missing",
	})

	assert.ErrorIs(t, err, room.ErrRoomNotFound)
}

func TestMemberLifecycle(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, r.SetMember(ctx, &room.SetMemberParams{
		MemberId: "u1",
		Name:     "alice",
		Icon:     "cat",
		RoomId:   "r1",
	}))
	require.NoError(t, r.SetMember(ctx, &room.SetMemberParams{
		MemberId: "u2",
		Name:     "bob",
		Icon:     "dog",
		RoomId:   "r1",
	}))

	memberIds, err := r.GetMemberIds(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, []string{"u1", "u2"}, memberIds, "join order must be kept")

	member, err := r.GetMember(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, room.Member{Name: "alice", Icon: "cat"}, member)

	require.NoError(t, r.RemoveMember(ctx, &room.RemoveMemberParams{MemberId: "u1", RoomId: "r1"}))

	_, err = r.GetMember(ctx, "u1")
	assert.ErrorIs(t, err, room.ErrMemberNotFound)

	memberIds, err = r.GetMemberIds(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, []string{"u2"}, memberIds)
}
