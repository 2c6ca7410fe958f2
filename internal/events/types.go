package events

// Event type constants for kelindar/event.
const (
	TypeVolumeChanged uint32 = iota + 1
	TypeMuteChanged
	TypeCardDiscovery
	TypeTonePlayed
)

// Event interface required by kelindar/event.
type Event interface {
	Type() uint32
}

// VolumeChangedEvent is published after a successful volume mutation.
type VolumeChangedEvent struct {
	Card          int    `json:"card" example:"0" doc:"Sound card index"`
	CardName      string `json:"card_name" example:"PCH" doc:"Card name"`
	Control       string `json:"control" example:"Master" doc:"Resolved mixer control"`
	VolumePercent int    `json:"volume_percent" example:"50" doc:"Volume after the change"`
	Timestamp     string `json:"timestamp" example:"2025-01-27T10:30:00Z" doc:"Event timestamp"`
}

// Type returns the event type identifier for VolumeChangedEvent.
func (e VolumeChangedEvent) Type() uint32 { return TypeVolumeChanged }

// MuteChangedEvent is published after a successful mute, unmute, or toggle.
type MuteChangedEvent struct {
	Card      int    `json:"card" example:"0" doc:"Sound card index"`
	CardName  string `json:"card_name" example:"PCH" doc:"Card name"`
	Control   string `json:"control" example:"Master" doc:"Resolved mixer control"`
	Muted     bool   `json:"muted" example:"true" doc:"Mute state after the change"`
	Action    string `json:"action" example:"mute" doc:"Requested action: mute, unmute, toggle_mute"`
	Timestamp string `json:"timestamp" example:"2025-01-27T10:30:00Z" doc:"Event timestamp"`
}

// Type returns the event type identifier for MuteChangedEvent.
func (e MuteChangedEvent) Type() uint32 { return TypeMuteChanged }

// CardDiscoveryEvent represents sound card hotplug changes.
type CardDiscoveryEvent struct {
	Card      int    `json:"card" example:"1" doc:"Sound card index"`
	CardName  string `json:"card_name" example:"Device" doc:"Card name"`
	Action    string `json:"action" example:"added" doc:"Action type: added, removed"`
	Timestamp string `json:"timestamp" example:"2025-01-27T10:30:00Z" doc:"Event timestamp"`
}

// Type returns the event type identifier for CardDiscoveryEvent.
func (e CardDiscoveryEvent) Type() uint32 { return TypeCardDiscovery }

// TonePlayedEvent is published after a successful test tone playback.
type TonePlayedEvent struct {
	Card      int    `json:"card" example:"0" doc:"Sound card index"`
	Device    int    `json:"device" example:"0" doc:"Playback device index"`
	Channels  int    `json:"channels" example:"2" doc:"Channel count used"`
	Timestamp string `json:"timestamp" example:"2025-01-27T10:30:00Z" doc:"Event timestamp"`
}

// Type returns the event type identifier for TonePlayedEvent.
func (e TonePlayedEvent) Type() uint32 { return TypeTonePlayed }
