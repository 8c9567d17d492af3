package controller

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/websocket"

	"github.com/Yasamato/Studi-Watch/internal/service/room"
	"github.com/Yasamato/Studi-Watch/pkg/validator"
	"github.com/Yasamato/Studi-Watch/pkg/wsrouter"
)

type iRoomService interface {
	CreateRoom(context.Context) (room.CreateRoomResponse, error)
	JoinRoom(context.Context, *room.JoinRoomParams) (room.JoinRoomResponse, error)
	SeedState(context.Context, *room.SeedStateParams) (room.SeedStateResponse, error)
	ApplyDelta(context.Context, *room.ApplyDeltaParams) (room.ApplyDeltaResponse, error)
	DisconnectMember(context.Context, *room.DisconnectMemberParams) (room.DisconnectMemberResponse, error)
}

// iConnWriter serializes writes per connection.
type iConnWriter interface {
	Write(conn *websocket.Conn, v any) error
}

type controller struct {
	roomService iRoomService
	connWriter  iConnWriter
	upgrader    websocket.Upgrader
	validate    *validator.Validator
	wsmux       *wsrouter.WSRouter
	logger      *slog.Logger
}

func NewController(roomService iRoomService, connWriter iConnWriter, logger *slog.Logger) *controller {
	c := controller{
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		roomService: roomService,
		connWriter:  connWriter,
		validate:    validator.NewValidator(),
		logger:      logger,
	}

	c.wsmux = wsrouter.New(logger)
	c.wsmux.Handle("seed", c.wsLoggingMw(c.handleSeed))
	c.wsmux.Handle("update", c.wsLoggingMw(c.handleUpdate))

	return &c
}

func (c controller) generateTimeBasedId() string {
	return strconv.FormatInt(time.Now().UnixNano(), 36)
}
