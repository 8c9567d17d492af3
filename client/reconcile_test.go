package client

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShouldResync(t *testing.T) {
	tests := []struct {
		name     string
		local    float64
		remote   float64
		duration float64
		want     bool
	}{
		{
			name:     "drift above tolerance",
			local:    0.10,
			remote:   0.13,
			duration: 100,
			want:     true,
		},
		{
			name:     "drift below tolerance",
			local:    0.10,
			remote:   0.115,
			duration: 100,
			want:     false,
		},
		{
			name:     "drift exactly at tolerance",
			local:    0.10,
			remote:   0.12,
			duration: 100,
			want:     false,
		},
		{
			name:     "unknown duration never resyncs",
			local:    0,
			remote:   0.9,
			duration: 0,
			want:     false,
		},
		{
			name:     "direction does not matter",
			local:    0.13,
			remote:   0.10,
			duration: 100,
			want:     true,
		},
		{
			name:     "long media amplifies small fractions",
			local:    0.001,
			remote:   0.002,
			duration: 3600,
			want:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ShouldResync(tt.local, tt.remote, tt.duration))
		})
	}
}
