package redis

import (
	"context"
	"fmt"

	"github.com/Yasamato/Studi-Watch/internal/repository/room"
	omitnilpointers "github.com/Yasamato/Studi-Watch/pkg/omit-nil-pointers"
)

func (r repo) getStateKey(roomId string) string {
	return "room:" + roomId + ":state"
}

// SeedState writes the initial state of a fresh room. Returns false without
// touching anything when the room is already seeded, so a late joiner's seed
// cannot clobber a live room.
func (r repo) SeedState(ctx context.Context, params *room.SeedStateParams) (bool, error) {
	r.logger.DebugContext(ctx, "called", "params", params)
	stateKey := r.getStateKey(params.RoomId)

	// owner_id doubles as the seeded marker, it is written first and exactly once
	ok, err := r.rc.HSetNX(ctx, stateKey, "owner_id", params.State.OwnerId).Result()
	if err != nil {
		return false, fmt.Errorf("failed to mark room seeded: %w", err)
	}
	if !ok {
		return false, nil
	}

	pipe := r.rc.TxPipeline()
	pipe.HSet(ctx, stateKey, params.State)
	pipe.Expire(ctx, stateKey, r.expireDuration)
	if err := r.executePipe(ctx, pipe); err != nil {
		return false, fmt.Errorf("failed to seed state: %w", err)
	}

	return true, nil
}

func (r repo) GetState(ctx context.Context, roomId string) (room.State, error) {
	stateKey := r.getStateKey(roomId)

	exists, err := r.rc.Exists(ctx, stateKey).Result()
	if err != nil {
		return room.State{}, fmt.Errorf("failed to check if state exists: %w", err)
	}
	if exists == 0 {
		return room.State{}, room.ErrRoomNotFound
	}

	var state room.State
	if err := r.rc.HGetAll(ctx, stateKey).Scan(&state); err != nil {
		return room.State{}, fmt.Errorf("failed to get state: %w", err)
	}

	r.rc.Expire(ctx, stateKey, r.expireDuration)

	return state, nil
}

// UpdateState overwrites exactly the fields present in params.
func (r repo) UpdateState(ctx context.Context, params *room.UpdateStateParams) error {
	r.logger.DebugContext(ctx, "called", "params", params)
	stateKey := r.getStateKey(params.RoomId)

	exists, err := r.rc.Exists(ctx, stateKey).Result()
	if err != nil {
		return fmt.Errorf("failed to check if state exists: %w", err)
	}
	if exists == 0 {
		return room.ErrRoomNotFound
	}

	fields := omitnilpointers.OmitNilPointers(map[string]any{
		"url":           params.URL,
		"owner_id":      params.OwnerId,
		"playing":       params.Playing,
		"volume":        params.Volume,
		"muted":         params.Muted,
		"played":        params.Played,
		"loaded":        params.Loaded,
		"duration":      params.Duration,
		"playback_rate": params.PlaybackRate,
		"loop":          params.Loop,
		"ready":         params.Ready,
		"buffering":     params.Buffering,
		"seeking":       params.Seeking,
	})
	if len(fields) == 0 {
		return nil
	}

	if err := r.rc.HSet(ctx, stateKey, fields).Err(); err != nil {
		return fmt.Errorf("failed to update state: %w", err)
	}

	r.rc.Expire(ctx, stateKey, r.expireDuration)

	return nil
}

func (r repo) RemoveState(ctx context.Context, roomId string) error {
	r.logger.DebugContext(ctx, "called", "roomId", roomId)
	if err := r.rc.Del(ctx, r.getStateKey(roomId)).Err(); err != nil {
		return fmt.Errorf("failed to remove state: %w", err)
	}

	return nil
}
