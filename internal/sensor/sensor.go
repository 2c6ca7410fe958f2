// Package sensor is the operation boundary of audionode. It exposes the
// mixer as two calls: Readings (the full reading set) and DoCommand (tagged
// mutation commands). Every failure crossing this boundary is converted to a
// structured result map; no error is ever propagated to the caller as a fault.
package sensor

import (
	"context"
	"log/slog"
	"math"
	"strconv"
	"time"

	"github.com/smazurov/audionode/internal/alsa"
	"github.com/smazurov/audionode/internal/events"
	"github.com/smazurov/audionode/internal/logging"
)

// Supported DoCommand command names.
const (
	CmdSetVolume  = "set_volume"
	CmdMute       = "mute"
	CmdUnmute     = "unmute"
	CmdToggleMute = "toggle_mute"
	CmdPlayTest   = "play_test"
)

// CommandObserver receives the outcome of every DoCommand invocation.
// Implemented by the metrics package; nil disables observation.
type CommandObserver interface {
	ObserveCommand(command, status string)
}

// Sensor ties the mixer to the operation boundary contract.
type Sensor struct {
	mixer    *alsa.Mixer
	bus      *events.Bus
	observer CommandObserver
	logger   *slog.Logger
}

// New creates a Sensor. bus and observer may be nil.
func New(mixer *alsa.Mixer, bus *events.Bus, observer CommandObserver) *Sensor {
	return &Sensor{
		mixer:    mixer,
		bus:      bus,
		observer: observer,
		logger:   logging.GetLogger("sensor"),
	}
}

// Readings returns the full reading set keyed card_N_device_M. An empty
// system yields a no_devices marker; a total failure yields an error
// reading, never a propagated fault.
func (s *Sensor) Readings(ctx context.Context) map[string]any {
	readings, err := s.mixer.AllReadings(ctx)
	if err != nil {
		s.logger.Error("Failed to collect readings", "error", err)
		return map[string]any{
			"error": map[string]any{"error": err.Error()},
		}
	}

	if len(readings) == 0 {
		return map[string]any{
			"no_devices": map[string]any{"message": "No audio devices found"},
		}
	}

	out := make(map[string]any, len(readings))
	for key, r := range readings {
		out[key] = readingToMap(r)
	}
	return out
}

// DoCommand dispatches a tagged command map and always returns a structured
// result. Unknown commands and invalid fields come back as error maps with
// the request fields echoed for diagnosis.
func (s *Sensor) DoCommand(ctx context.Context, cmd map[string]any) map[string]any {
	name, _ := cmd["command"].(string)

	var result map[string]any
	switch name {
	case CmdSetVolume:
		result = s.setVolume(ctx, cmd)
	case CmdMute, CmdUnmute, CmdToggleMute:
		result = s.setMuteState(ctx, cmd, name)
	case CmdPlayTest:
		result = s.playTest(ctx, cmd)
	default:
		result = map[string]any{
			"error": "unknown command " + strconv.Quote(name) +
				": supported commands are set_volume, mute, unmute, toggle_mute, play_test",
		}
	}

	status := "ok"
	if _, failed := result["error"]; failed {
		status = "error"
	}
	if s.observer != nil && name != "" {
		s.observer.ObserveCommand(name, status)
	}
	return result
}

func (s *Sensor) setVolume(ctx context.Context, cmd map[string]any) map[string]any {
	volume, ok := intField(cmd, "volume")
	if !ok {
		return map[string]any{"error": "volume parameter is required and must be a number"}
	}
	card, ok := intField(cmd, "card")
	if !ok {
		return map[string]any{"error": "card parameter is required and must be a number", "volume": volume}
	}

	st, err := s.mixer.SetVolume(ctx, card, volume)
	if err != nil {
		s.logger.Error("set_volume failed", "card", card, "volume", volume, "error", err)
		return map[string]any{"error": err.Error(), "card": card, "volume": volume}
	}

	s.publish(events.VolumeChangedEvent{
		Card:          st.Card,
		CardName:      st.CardName,
		Control:       st.Control,
		VolumePercent: st.VolumePercent,
		Timestamp:     timestamp(),
	})

	return map[string]any{
		"success": true,
		"card":    st.Card,
		"volume":  st.VolumePercent,
		"control": st.Control,
		"output":  st.Output,
	}
}

func (s *Sensor) setMuteState(ctx context.Context, cmd map[string]any, action string) map[string]any {
	card, ok := intField(cmd, "card")
	if !ok {
		return map[string]any{"error": "card parameter is required and must be a number", "action": action}
	}

	var st alsa.Status
	var err error
	switch action {
	case CmdMute:
		st, err = s.mixer.Mute(ctx, card)
	case CmdUnmute:
		st, err = s.mixer.Unmute(ctx, card)
	case CmdToggleMute:
		st, err = s.mixer.ToggleMute(ctx, card)
	}
	if err != nil {
		s.logger.Error("mute command failed", "card", card, "action", action, "error", err)
		return map[string]any{"error": err.Error(), "card": card, "action": action}
	}

	s.publish(events.MuteChangedEvent{
		Card:      st.Card,
		CardName:  st.CardName,
		Control:   st.Control,
		Muted:     st.Muted,
		Action:    action,
		Timestamp: timestamp(),
	})

	return map[string]any{
		"success": true,
		"card":    st.Card,
		"action":  action,
		"control": st.Control,
		"output":  st.Output,
	}
}

func (s *Sensor) playTest(ctx context.Context, cmd map[string]any) map[string]any {
	card, ok := intField(cmd, "card")
	if !ok {
		return map[string]any{"error": "card parameter is required and must be a number"}
	}
	device := 0
	if _, present := cmd["device"]; present {
		if device, ok = intField(cmd, "device"); !ok {
			return map[string]any{"error": "device must be a number", "card": card}
		}
	}
	channels := 2
	if _, present := cmd["channels"]; present {
		if channels, ok = intField(cmd, "channels"); !ok {
			return map[string]any{"error": "channels must be a number", "card": card, "device": device}
		}
	}

	output, err := s.mixer.PlayTest(ctx, card, device, channels)
	if err != nil {
		s.logger.Error("play_test failed", "card", card, "device", device, "error", err)
		return map[string]any{"error": err.Error(), "card": card, "device": device, "channels": channels}
	}

	s.publish(events.TonePlayedEvent{
		Card:      card,
		Device:    device,
		Channels:  channels,
		Timestamp: timestamp(),
	})

	return map[string]any{
		"success":  true,
		"card":     card,
		"device":   device,
		"channels": channels,
		"output":   output,
	}
}

func (s *Sensor) publish(ev events.Event) {
	if s.bus != nil {
		s.bus.Publish(ev)
	}
}

func readingToMap(r alsa.Reading) map[string]any {
	return map[string]any{
		"card":           r.Card,
		"card_name":      r.CardName,
		"device":         r.Device,
		"device_name":    r.DeviceName,
		"device_desc":    r.DeviceDesc,
		"volume_percent": r.VolumePercent,
		"muted":          r.Muted,
		"control":        r.Control,
	}
}

// intField coerces a command field to int. JSON decoding hands us float64,
// other callers may pass int or numeric strings.
func intField(cmd map[string]any, key string) (int, bool) {
	switch v := cmd[key].(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		if v != math.Trunc(v) {
			return 0, false
		}
		return int(v), true
	case string:
		n, err := strconv.Atoi(v)
		if err != nil {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}

func timestamp() string {
	return time.Now().UTC().Format(time.RFC3339)
}
