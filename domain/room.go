package domain

// User identifies one participant of a room. Participant records are flat;
// the room view every participant renders is the shared RoomState itself.
type User struct {
	Id   string `json:"id" redis:"id"`
	Name string `json:"name" redis:"name"`
	Icon string `json:"icon" redis:"icon"`
}

// RoomState is the canonical playback state of one room. The authoritative
// copy lives server-side; every participant holds a projection of it that is
// kept consistent through status broadcasts.
type RoomState struct {
	Id           string  `json:"id"`
	URL          string  `json:"url"`
	Owner        User    `json:"owner"`
	Playing      bool    `json:"playing"`
	Volume       float64 `json:"volume"`
	Muted        bool    `json:"muted"`
	Played       float64 `json:"played"`
	Loaded       float64 `json:"loaded"`
	Duration     float64 `json:"duration"`
	PlaybackRate float64 `json:"playbackRate"`
	Loop         bool    `json:"loop"`
	Ready        bool    `json:"ready"`
	Buffering    bool    `json:"buffering"`
	Seeking      bool    `json:"seeking"`
	Users        []User  `json:"users"`
}

// DefaultState is the state a fresh room is seeded with.
func DefaultState(roomId string) RoomState {
	return RoomState{
		Id:           roomId,
		Playing:      true,
		Volume:       0.3,
		PlaybackRate: 1,
	}
}
