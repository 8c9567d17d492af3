package room

import "errors"

var (
	ErrRoomNotFound   = errors.New("room not found")
	ErrMemberNotFound = errors.New("member not found")
)

// State holds the scalar playback fields of a room. The roster lives under
// its own keys.
type State struct {
	URL          string  `redis:"url"`
	OwnerId      string  `redis:"owner_id"`
	Playing      bool    `redis:"playing"`
	Volume       float64 `redis:"volume"`
	Muted        bool    `redis:"muted"`
	Played       float64 `redis:"played"`
	Loaded       float64 `redis:"loaded"`
	Duration     float64 `redis:"duration"`
	PlaybackRate float64 `redis:"playback_rate"`
	Loop         bool    `redis:"loop"`
	Ready        bool    `redis:"ready"`
	Buffering    bool    `redis:"buffering"`
	Seeking      bool    `redis:"seeking"`
}

type Member struct {
	Name string `redis:"name"`
	Icon string `redis:"icon"`
}

type SeedStateParams struct {
	State  State
	RoomId string
}

type UpdateStateParams struct {
	URL          *string
	OwnerId      *string
	Playing      *bool
	Volume       *float64
	Muted        *bool
	Played       *float64
	Loaded       *float64
	Duration     *float64
	PlaybackRate *float64
	Loop         *bool
	Ready        *bool
	Buffering    *bool
	Seeking      *bool
	RoomId       string
}

type SetMemberParams struct {
	MemberId string
	Name     string
	Icon     string
	RoomId   string
}

type RemoveMemberParams struct {
	MemberId string
	RoomId   string
}
