package controller

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Yasamato/Studi-Watch/domain"
	"github.com/Yasamato/Studi-Watch/internal/service/room"
	"github.com/Yasamato/Studi-Watch/pkg/rest"
)

type joinRoomInput struct {
	Name string `json:"name" validate:"required,max=32"`
	Icon string `json:"icon" validate:"max=256"`
}

// joinRoom upgrades the request to a websocket scoped to the room id,
// registers the participant and serves the sync channel until the
// connection drops.
func (c controller) joinRoom(w http.ResponseWriter, r *http.Request) {
	roomId := chi.URLParam(r, "room-id")
	if roomId == "" {
		rest.WriteJSON(w, http.StatusNotFound, rest.Envelope{"error": "room not found"})
		return
	}

	input := joinRoomInput{
		Name: r.URL.Query().Get("name"),
		Icon: r.URL.Query().Get("icon"),
	}
	if validationErrors, ok := c.validate.Validate(input); !ok {
		c.logger.DebugContext(r.Context(), "join rejected", "errors", validationErrors)
		rest.WriteJSON(w, http.StatusBadRequest, rest.Envelope{"errors": validationErrors})
		return
	}

	conn, err := c.upgrader.Upgrade(w, r, nil)
	if err != nil {
		c.logger.WarnContext(r.Context(), "failed to upgrade to websocket", "error", err)
		return
	}
	defer conn.Close()

	joinResp, err := c.roomService.JoinRoom(r.Context(), &room.JoinRoomParams{
		Name:   input.Name,
		Icon:   input.Icon,
		RoomId: roomId,
		Conn:   conn,
	})
	if err != nil {
		c.logger.InfoContext(r.Context(), "failed to join room", "error", err)
		return
	}
	defer c.disconnect(r.Context(), joinResp.JoinedUser.Id, roomId)

	// the joiner's snapshot; an unseeded room only has a roster yet
	snapshot := domain.StateDelta{Users: joinResp.Users}
	if joinResp.State != nil {
		snapshot = joinResp.State.AsDelta()
	}
	if err := c.writeToConn(r.Context(), conn, &Output{Type: "status", Payload: snapshot}); err != nil {
		c.logger.WarnContext(r.Context(), "failed to write snapshot", "error", err)
		return
	}

	c.broadcast(r.Context(), joinResp.Conns, &Output{
		Type:    "status",
		Payload: domain.StateDelta{Users: joinResp.Users},
	})

	ctx := context.WithValue(r.Context(), roomIdCtxKey, roomId)
	ctx = context.WithValue(ctx, memberIdCtxKey, joinResp.JoinedUser.Id)

	if err := c.wsmux.ServeConn(ctx, conn); err != nil {
		c.logger.DebugContext(r.Context(), "conn closed", "error", err)
	}
}

func (c controller) disconnect(ctx context.Context, memberId, roomId string) {
	resp, err := c.roomService.DisconnectMember(ctx, &room.DisconnectMemberParams{
		MemberId: memberId,
		RoomId:   roomId,
	})
	if err != nil {
		c.logger.WarnContext(ctx, "failed to disconnect member", "error", err)
		return
	}

	if resp.IsRoomDeleted {
		return
	}

	delta := domain.StateDelta{Users: resp.Users}
	if resp.Owner != nil {
		delta.Owner = resp.Owner
	}
	c.broadcast(ctx, resp.Conns, &Output{Type: "status", Payload: delta})
}
