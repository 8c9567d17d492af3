package room

import (
	"context"
	"errors"
	"log/slog"

	"github.com/gorilla/websocket"

	"github.com/Yasamato/Studi-Watch/internal/repository/room"
	"github.com/Yasamato/Studi-Watch/pkg/randstr"
)

var (
	ErrRoomNotFound        = errors.New("room not found")
	ErrMembersLimitReached = errors.New("members limit reached")
)

type iRoomRepo interface {
	// state
	SeedState(context.Context, *room.SeedStateParams) (bool, error)
	GetState(context.Context, string) (room.State, error)
	UpdateState(context.Context, *room.UpdateStateParams) error
	RemoveState(context.Context, string) error
	// member
	SetMember(context.Context, *room.SetMemberParams) error
	GetMember(context.Context, string) (room.Member, error)
	GetMemberIds(context.Context, string) ([]string, error)
	RemoveMember(context.Context, *room.RemoveMemberParams) error
}

type iConnRepo interface {
	Add(*websocket.Conn, string) error
	RemoveByMemberId(string) error
	RemoveByConn(*websocket.Conn) error
	GetConn(string) (*websocket.Conn, error)
	GetMemberId(*websocket.Conn) (string, error)
}

type iGenerator interface {
	GenerateRandomString(length int) string
}

type service struct {
	roomRepo     iRoomRepo
	connRepo     iConnRepo
	generator    iGenerator
	logger       *slog.Logger
	membersLimit int
}

func NewService(roomRepo iRoomRepo, connRepo iConnRepo, membersLimit int, logger *slog.Logger) *service {
	s := service{
		roomRepo:     roomRepo,
		connRepo:     connRepo,
		logger:       logger,
		membersLimit: membersLimit,
	}

	letterBytes := []byte("abcdefghijklmnopqrstuvwxyz0123456789")
	s.generator = randstr.New(letterBytes)

	return &s
}
