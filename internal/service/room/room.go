package room

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/Yasamato/Studi-Watch/domain"
	"github.com/Yasamato/Studi-Watch/internal/repository/room"
)

type CreateRoomResponse struct {
	RoomId string
}

// CreateRoom hands out a fresh room id. The room itself materializes when
// the first participant joins and seeds it.
func (s service) CreateRoom(ctx context.Context) (CreateRoomResponse, error) {
	return CreateRoomResponse{RoomId: s.generator.GenerateRandomString(8)}, nil
}

type JoinRoomParams struct {
	Name   string
	Icon   string
	RoomId string
	Conn   *websocket.Conn
}

type JoinRoomResponse struct {
	JoinedUser domain.User
	// State is nil until the room's first participant seeds it.
	State *domain.RoomState
	Users []domain.User
	// Conns are the other participants' connections, for the roster broadcast.
	Conns []*websocket.Conn
}

func (s service) JoinRoom(ctx context.Context, params *JoinRoomParams) (JoinRoomResponse, error) {
	memberIds, err := s.roomRepo.GetMemberIds(ctx, params.RoomId)
	if err != nil {
		return JoinRoomResponse{}, fmt.Errorf("failed to get member ids: %w", err)
	}
	if len(memberIds) >= s.membersLimit {
		return JoinRoomResponse{}, ErrMembersLimitReached
	}

	conns, err := s.getConnsByRoomId(ctx, params.RoomId)
	if err != nil {
		return JoinRoomResponse{}, fmt.Errorf("failed to get conns by room id: %w", err)
	}

	memberId := uuid.NewString()
	if err := s.roomRepo.SetMember(ctx, &room.SetMemberParams{
		MemberId: memberId,
		Name:     params.Name,
		Icon:     params.Icon,
		RoomId:   params.RoomId,
	}); err != nil {
		return JoinRoomResponse{}, fmt.Errorf("failed to set member: %w", err)
	}

	if err := s.connRepo.Add(params.Conn, memberId); err != nil {
		return JoinRoomResponse{}, fmt.Errorf("failed to add connection: %w", err)
	}

	users, err := s.getUsers(ctx, params.RoomId)
	if err != nil {
		return JoinRoomResponse{}, fmt.Errorf("failed to get users: %w", err)
	}

	resp := JoinRoomResponse{
		JoinedUser: domain.User{Id: memberId, Name: params.Name, Icon: params.Icon},
		Users:      users,
		Conns:      conns,
	}

	state, err := s.composeState(ctx, params.RoomId)
	if err == nil {
		resp.State = &state
	} else if err != ErrRoomNotFound {
		return JoinRoomResponse{}, fmt.Errorf("failed to compose state: %w", err)
	}

	return resp, nil
}

type DisconnectMemberParams struct {
	MemberId string
	RoomId   string
}

type DisconnectMemberResponse struct {
	IsRoomDeleted bool
	Users         []domain.User
	// Owner is set when ownership moved to a remaining participant.
	Owner *domain.User
	Conns []*websocket.Conn
}

// DisconnectMember removes a participant, hands ownership to the next one in
// join order, and deletes the room when the last participant leaves.
func (s service) DisconnectMember(ctx context.Context, params *DisconnectMemberParams) (DisconnectMemberResponse, error) {
	if err := s.roomRepo.RemoveMember(ctx, &room.RemoveMemberParams{
		MemberId: params.MemberId,
		RoomId:   params.RoomId,
	}); err != nil {
		return DisconnectMemberResponse{}, fmt.Errorf("failed to remove member: %w", err)
	}

	// the connection may already be gone on transport loss
	s.connRepo.RemoveByMemberId(params.MemberId)

	memberIds, err := s.roomRepo.GetMemberIds(ctx, params.RoomId)
	if err != nil {
		return DisconnectMemberResponse{}, fmt.Errorf("failed to get member ids: %w", err)
	}

	if len(memberIds) == 0 {
		if err := s.roomRepo.RemoveState(ctx, params.RoomId); err != nil {
			return DisconnectMemberResponse{}, fmt.Errorf("failed to remove state: %w", err)
		}

		return DisconnectMemberResponse{IsRoomDeleted: true}, nil
	}

	users, err := s.getUsers(ctx, params.RoomId)
	if err != nil {
		return DisconnectMemberResponse{}, fmt.Errorf("failed to get users: %w", err)
	}

	resp := DisconnectMemberResponse{Users: users}

	state, err := s.roomRepo.GetState(ctx, params.RoomId)
	if err == nil && state.OwnerId == params.MemberId && len(users) > 0 {
		newOwner := users[0]
		if err := s.roomRepo.UpdateState(ctx, &room.UpdateStateParams{
			OwnerId: &newOwner.Id,
			RoomId:  params.RoomId,
		}); err != nil {
			return DisconnectMemberResponse{}, fmt.Errorf("failed to update owner: %w", err)
		}
		resp.Owner = &newOwner
	} else if err != nil && err != room.ErrRoomNotFound {
		return DisconnectMemberResponse{}, fmt.Errorf("failed to get state: %w", err)
	}

	conns, err := s.getConnsByRoomId(ctx, params.RoomId)
	if err != nil {
		return DisconnectMemberResponse{}, fmt.Errorf("failed to get conns by room id: %w", err)
	}
	resp.Conns = conns

	return resp, nil
}
