package room

import (
	"context"
	"fmt"

	"github.com/gorilla/websocket"

	"github.com/Yasamato/Studi-Watch/domain"
	"github.com/Yasamato/Studi-Watch/internal/repository/room"
)

type SeedStateParams struct {
	SenderId string
	RoomId   string
	Delta    domain.StateDelta
}

type SeedStateResponse struct {
	Applied bool
	State   domain.RoomState
	Conns   []*websocket.Conn
}

// SeedState initializes a fresh room from the first participant's defaults.
// The sender becomes the owner. A no-op on already-seeded rooms.
func (s service) SeedState(ctx context.Context, params *SeedStateParams) (SeedStateResponse, error) {
	state := domain.DefaultState(params.RoomId)
	params.Delta.Apply(&state)

	applied, err := s.roomRepo.SeedState(ctx, &room.SeedStateParams{
		State: room.State{
			URL:          state.URL,
			OwnerId:      params.SenderId,
			Playing:      state.Playing,
			Volume:       state.Volume,
			Muted:        state.Muted,
			Played:       state.Played,
			Loaded:       state.Loaded,
			Duration:     state.Duration,
			PlaybackRate: state.PlaybackRate,
			Loop:         state.Loop,
			Ready:        state.Ready,
			Buffering:    state.Buffering,
			Seeking:      state.Seeking,
		},
		RoomId: params.RoomId,
	})
	if err != nil {
		return SeedStateResponse{}, fmt.Errorf("failed to seed state: %w", err)
	}
	if !applied {
		return SeedStateResponse{}, nil
	}

	composed, err := s.composeState(ctx, params.RoomId)
	if err != nil {
		return SeedStateResponse{}, fmt.Errorf("failed to compose state: %w", err)
	}

	conns, err := s.getConnsByRoomId(ctx, params.RoomId)
	if err != nil {
		return SeedStateResponse{}, fmt.Errorf("failed to get conns by room id: %w", err)
	}

	return SeedStateResponse{
		Applied: true,
		State:   composed,
		Conns:   conns,
	}, nil
}

type ApplyDeltaParams struct {
	SenderId string
	RoomId   string
	Delta    domain.StateDelta
}

type ApplyDeltaResponse struct {
	Delta domain.StateDelta
	// Conns includes the sender: the echo of a participant's own delta comes
	// back through the same status broadcast as everyone else's.
	Conns []*websocket.Conn
}

// ApplyDelta merges a participant's delta into the authoritative state,
// last-writer-wins per field.
func (s service) ApplyDelta(ctx context.Context, params *ApplyDeltaParams) (ApplyDeltaResponse, error) {
	delta := params.Delta
	// roster and ownership are server-owned
	delta.Users = nil
	delta.Owner = nil

	if err := s.roomRepo.UpdateState(ctx, &room.UpdateStateParams{
		URL:          delta.URL,
		Playing:      delta.Playing,
		Volume:       delta.Volume,
		Muted:        delta.Muted,
		Played:       delta.Played,
		Loaded:       delta.Loaded,
		Duration:     delta.Duration,
		PlaybackRate: delta.PlaybackRate,
		Loop:         delta.Loop,
		Ready:        delta.Ready,
		Buffering:    delta.Buffering,
		Seeking:      delta.Seeking,
		RoomId:       params.RoomId,
	}); err != nil {
		if err == room.ErrRoomNotFound {
			return ApplyDeltaResponse{}, ErrRoomNotFound
		}
		return ApplyDeltaResponse{}, fmt.Errorf("failed to update state: %w", err)
	}

	conns, err := s.getConnsByRoomId(ctx, params.RoomId)
	if err != nil {
		return ApplyDeltaResponse{}, fmt.Errorf("failed to get conns by room id: %w", err)
	}

	return ApplyDeltaResponse{
		Delta: delta,
		Conns: conns,
	}, nil
}
