package models

// Health check models
type HealthData struct {
	Status  string `json:"status" example:"ok" doc:"Service status"`
	Message string `json:"message" example:"API is healthy" doc:"Status message"`
}

type HealthResponse struct {
	Body HealthData
}

// Version models
type VersionData struct {
	Version   string `json:"version" example:"1.2.0" doc:"Application version"`
	GitCommit string `json:"git_commit" example:"abc1234" doc:"Git commit hash"`
	BuildDate string `json:"build_date" example:"2025-01-27" doc:"Build timestamp"`
	GoVersion string `json:"go_version" example:"go1.24" doc:"Go toolchain version"`
	Platform  string `json:"platform" example:"linux/arm64" doc:"Target platform"`
}

type VersionResponse struct {
	Body VersionData
}

// Card models
type DeviceInfo struct {
	Index int    `json:"index" example:"0" doc:"Device index on card"`
	Name  string `json:"name" example:"ALC892 Analog" doc:"Device name"`
	Desc  string `json:"desc" example:"ALC892 Analog" doc:"Device description"`
}

type CardInfo struct {
	Index    int          `json:"index" example:"0" doc:"Sound card index"`
	Name     string       `json:"name" example:"PCH" doc:"Card identifier"`
	LongName string       `json:"long_name" example:"HDA Intel PCH" doc:"Full card name"`
	Devices  []DeviceInfo `json:"devices" doc:"Playback devices on this card"`
}

type CardsData struct {
	Cards []CardInfo `json:"cards" doc:"List of playback sound cards"`
	Count int        `json:"count" example:"2" doc:"Number of cards found"`
}

type CardsResponse struct {
	Body CardsData
}

// Readings models. Each entry is keyed card_N_device_M and carries card,
// card_name, device, device_name, device_desc, volume_percent, muted, and
// control fields.
type ReadingsData struct {
	Readings map[string]any `json:"readings" doc:"Reading set keyed by card_N_device_M"`
	Count    int            `json:"count" example:"3" doc:"Number of readings"`
}

type ReadingsResponse struct {
	Body ReadingsData
}

// Command models. The request is a free-form tagged map so validation
// failures surface as structured results rather than schema errors; the
// boundary contract is always a result map, never a fault.
type CommandRequest struct {
	Body map[string]any `doc:"Tagged command: {command: set_volume|mute|unmute|toggle_mute|play_test, card, ...}"`
}

type CommandResponse struct {
	Body map[string]any
}
