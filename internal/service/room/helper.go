package room

import (
	"context"
	"fmt"

	"github.com/gorilla/websocket"
	"golang.org/x/exp/slices"

	"github.com/Yasamato/Studi-Watch/domain"
	"github.com/Yasamato/Studi-Watch/internal/repository/room"
)

func (s service) getUsers(ctx context.Context, roomId string) ([]domain.User, error) {
	memberIds, err := s.roomRepo.GetMemberIds(ctx, roomId)
	if err != nil {
		return nil, fmt.Errorf("failed to get member ids: %w", err)
	}

	users := make([]domain.User, 0, len(memberIds))
	for _, memberId := range memberIds {
		member, err := s.roomRepo.GetMember(ctx, memberId)
		if err != nil {
			if err == room.ErrMemberNotFound {
				continue
			}
			return nil, fmt.Errorf("failed to get member: %w", err)
		}

		users = append(users, domain.User{
			Id:   memberId,
			Name: member.Name,
			Icon: member.Icon,
		})
	}

	return users, nil
}

func (s service) getConnsByRoomId(ctx context.Context, roomId string) ([]*websocket.Conn, error) {
	memberIds, err := s.roomRepo.GetMemberIds(ctx, roomId)
	if err != nil {
		return nil, fmt.Errorf("failed to get member ids: %w", err)
	}

	conns := make([]*websocket.Conn, 0, len(memberIds))
	for _, memberId := range memberIds {
		conn, err := s.connRepo.GetConn(memberId)
		if err != nil {
			// member joined over a connection that is already gone
			continue
		}

		conns = append(conns, conn)
	}

	return conns, nil
}

// composeState assembles the full room snapshot from the scalar state, the
// roster and the owner record.
func (s service) composeState(ctx context.Context, roomId string) (domain.RoomState, error) {
	state, err := s.roomRepo.GetState(ctx, roomId)
	if err != nil {
		if err == room.ErrRoomNotFound {
			return domain.RoomState{}, ErrRoomNotFound
		}
		return domain.RoomState{}, fmt.Errorf("failed to get state: %w", err)
	}

	users, err := s.getUsers(ctx, roomId)
	if err != nil {
		return domain.RoomState{}, fmt.Errorf("failed to get users: %w", err)
	}

	owner := domain.User{Id: state.OwnerId}
	if i := slices.IndexFunc(users, func(u domain.User) bool { return u.Id == state.OwnerId }); i >= 0 {
		owner = users[i]
	}

	return domain.RoomState{
		Id:           roomId,
		URL:          state.URL,
		Owner:        owner,
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
		Users:        users,
	}, nil
}
