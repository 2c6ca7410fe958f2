package alsa

import (
	"errors"
	"testing"
)

func TestParseState(t *testing.T) {
	tests := []struct {
		name    string
		block   string
		want    State
		wantErr error
	}{
		{
			name: "percent with switch on",
			block: `  Capabilities: pvolume pswitch
  Limits: Playback 0 - 65536
  Front Left: Playback 49152 [75%] [on]
  Front Right: Playback 49152 [75%] [on]`,
			want: State{VolumePercent: 75, Muted: false},
		},
		{
			name: "percent with switch off",
			block: `  Limits: Playback 0 - 65536
  Front Left: Playback 49152 [75%] [off]`,
			want: State{VolumePercent: 75, Muted: true},
		},
		{
			name: "dB annotation between percent and switch",
			block: `  Limits: Playback 0 - 87
  Mono: Playback 44 [51%] [-32.25dB] [on]`,
			want: State{VolumePercent: 51, Muted: false},
		},
		{
			name: "missing percent computed from limits",
			block: `  Limits: Playback 0 - 200
  Front Left: Playback 100 [on]`,
			want: State{VolumePercent: 50, Muted: false},
		},
		{
			name: "combined limits variant",
			block: `  Limits: 0 - 64
  Mono: Playback 64`,
			want: State{VolumePercent: 100, Muted: false},
		},
		{
			name: "first channel wins",
			block: `  Limits: Playback 0 - 100
  Front Left: Playback 30 [30%] [on]
  Front Right: Playback 90 [90%] [off]`,
			want: State{VolumePercent: 30, Muted: false},
		},
		{
			name: "no switch annotation means not muted",
			block: `  Limits: Playback 0 - 255
  Front Left: Playback 255 [100%]`,
			want: State{VolumePercent: 100, Muted: false},
		},
		{
			name: "negative limit range",
			block: `  Limits: Playback -10239 - 400
  Front Left: Playback 400 [100%] [on]`,
			want: State{VolumePercent: 100, Muted: false},
		},
		{
			name:    "empty block",
			block:   "",
			wantErr: ErrParse,
		},
		{
			name: "no channel lines",
			block: `  Capabilities: pvolume
  Limits: Playback 0 - 100`,
			wantErr: ErrParse,
		},
		{
			name:    "raw value without percent or limits",
			block:   `  Front Left: Playback 100`,
			wantErr: ErrParse,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseState(tt.block)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("got error %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseState failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestClampPercent(t *testing.T) {
	tests := []struct {
		in, want int
	}{
		{-5, 0},
		{0, 0},
		{50, 50},
		{100, 100},
		{130, 100},
	}
	for _, tt := range tests {
		if got := clampPercent(tt.in); got != tt.want {
			t.Errorf("clampPercent(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}
