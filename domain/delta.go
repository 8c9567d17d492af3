package domain

// StateDelta carries only the fields a single change touched. A nil field is
// left alone on merge, so applying the same delta twice yields the same
// state. No field encodes a relative change.
type StateDelta struct {
	URL          *string  `json:"url,omitempty"`
	Owner        *User    `json:"owner,omitempty"`
	Playing      *bool    `json:"playing,omitempty"`
	Volume       *float64 `json:"volume,omitempty"`
	Muted        *bool    `json:"muted,omitempty"`
	Played       *float64 `json:"played,omitempty"`
	Loaded       *float64 `json:"loaded,omitempty"`
	Duration     *float64 `json:"duration,omitempty"`
	PlaybackRate *float64 `json:"playbackRate,omitempty"`
	Loop         *bool    `json:"loop,omitempty"`
	Ready        *bool    `json:"ready,omitempty"`
	Buffering    *bool    `json:"buffering,omitempty"`
	Seeking      *bool    `json:"seeking,omitempty"`
	Users        []User   `json:"users,omitempty"`
}

// Apply merges d into s, overwriting exactly the fields present in d.
func (d *StateDelta) Apply(s *RoomState) {
	if d.URL != nil {
		s.URL = *d.URL
	}
	if d.Owner != nil {
		s.Owner = *d.Owner
	}
	if d.Playing != nil {
		s.Playing = *d.Playing
	}
	if d.Volume != nil {
		s.Volume = *d.Volume
	}
	if d.Muted != nil {
		s.Muted = *d.Muted
	}
	if d.Played != nil {
		s.Played = *d.Played
	}
	if d.Loaded != nil {
		s.Loaded = *d.Loaded
	}
	if d.Duration != nil {
		s.Duration = *d.Duration
	}
	if d.PlaybackRate != nil {
		s.PlaybackRate = *d.PlaybackRate
	}
	if d.Loop != nil {
		s.Loop = *d.Loop
	}
	if d.Ready != nil {
		s.Ready = *d.Ready
	}
	if d.Buffering != nil {
		s.Buffering = *d.Buffering
	}
	if d.Seeking != nil {
		s.Seeking = *d.Seeking
	}
	if d.Users != nil {
		s.Users = d.Users
	}
}

// AsDelta converts a full state into a delta with every field present.
// Used for snapshots sent to joining participants and for seeding.
func (s RoomState) AsDelta() StateDelta {
	d := StateDelta{
		URL:          String(s.URL),
		Playing:      Bool(s.Playing),
		Volume:       Float(s.Volume),
		Muted:        Bool(s.Muted),
		Played:       Float(s.Played),
		Loaded:       Float(s.Loaded),
		Duration:     Float(s.Duration),
		PlaybackRate: Float(s.PlaybackRate),
		Loop:         Bool(s.Loop),
		Ready:        Bool(s.Ready),
		Buffering:    Bool(s.Buffering),
		Seeking:      Bool(s.Seeking),
		Users:        s.Users,
	}
	if s.Owner.Id != "" {
		owner := s.Owner
		d.Owner = &owner
	}

	return d
}

func String(v string) *string { return &v }

func Bool(v bool) *bool { return &v }

func Float(v float64) *float64 { return &v }
