package controller

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/gorilla/websocket"

	"github.com/Yasamato/Studi-Watch/domain"
	"github.com/Yasamato/Studi-Watch/internal/service/room"
)

// handleUpdate merges a participant's delta into the authoritative state and
// broadcasts it to the whole room, sender included.
func (c controller) handleUpdate(ctx context.Context, conn *websocket.Conn, payload json.RawMessage) error {
	roomId := c.getRoomIdFromCtx(ctx)
	memberId := c.getMemberIdFromCtx(ctx)

	var delta domain.StateDelta
	if err := json.Unmarshal(payload, &delta); err != nil {
		return fmt.Errorf("failed to unmarshal delta: %w", err)
	}

	applyResp, err := c.roomService.ApplyDelta(ctx, &room.ApplyDeltaParams{
		SenderId: memberId,
		RoomId:   roomId,
		Delta:    delta,
	})
	if err != nil {
		c.logger.InfoContext(ctx, "failed to apply delta", "error", err)
		return fmt.Errorf("failed to apply delta: %w", err)
	}

	c.broadcast(ctx, applyResp.Conns, &Output{Type: "status", Payload: applyResp.Delta})

	return nil
}

// handleSeed initializes a fresh room with the joiner's defaults. Ignored
// for rooms that already have state.
func (c controller) handleSeed(ctx context.Context, conn *websocket.Conn, payload json.RawMessage) error {
	roomId := c.getRoomIdFromCtx(ctx)
	memberId := c.getMemberIdFromCtx(ctx)

	var delta domain.StateDelta
	if err := json.Unmarshal(payload, &delta); err != nil {
		return fmt.Errorf("failed to unmarshal delta: %w", err)
	}

	seedResp, err := c.roomService.SeedState(ctx, &room.SeedStateParams{
		SenderId: memberId,
		RoomId:   roomId,
		Delta:    delta,
	})
	if err != nil {
		c.logger.InfoContext(ctx, "failed to seed state", "error", err)
		return fmt.Errorf("failed to seed state: %w", err)
	}
	if !seedResp.Applied {
		return nil
	}

	c.broadcast(ctx, seedResp.Conns, &Output{Type: "status", Payload: seedResp.State.AsDelta()})

	return nil
}
