package controller

import (
	"net/http"

	"github.com/Yasamato/Studi-Watch/pkg/rest"
)

type createRoomResponse struct {
	RoomId string `json:"room_id"`
}

// createRoom hands out a room id for the presentation layer to route to.
// The room itself materializes when the first participant connects.
func (c controller) createRoom(w http.ResponseWriter, r *http.Request) {
	resp, err := c.roomService.CreateRoom(r.Context())
	if err != nil {
		c.logger.WarnContext(r.Context(), "failed to create room", "error", err)
		rest.WriteJSON(w, http.StatusInternalServerError, rest.Envelope{"error": "failed to create room"})
		return
	}

	rest.WriteJSON(w, http.StatusOK, rest.Envelope{"data": createRoomResponse{
		RoomId: resp.RoomId,
	}})
}
