package sensor

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/smazurov/audionode/internal/alsa"
)

// scriptRunner replays canned transcripts keyed by the full command line.
type scriptRunner struct {
	mu        sync.Mutex
	calls     int
	responses map[string]scriptResponse
}

type scriptResponse struct {
	res alsa.Result
	err error
}

func newScriptRunner() *scriptRunner {
	return &scriptRunner{responses: make(map[string]scriptResponse)}
}

func (s *scriptRunner) script(command, stdout string) {
	s.responses[command] = scriptResponse{res: alsa.Result{Stdout: stdout}}
}

func (s *scriptRunner) scriptError(command string, err error) {
	s.responses[command] = scriptResponse{err: err}
}

func (s *scriptRunner) Run(_ context.Context, name string, args ...string) (alsa.Result, error) {
	key := name
	if len(args) > 0 {
		key += " " + strings.Join(args, " ")
	}
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()
	if resp, ok := s.responses[key]; ok {
		return resp.res, resp.err
	}
	return alsa.Result{}, fmt.Errorf("unscripted command: %s", key)
}

func (s *scriptRunner) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

const aplayOneCard = `**** List of PLAYBACK Hardware Devices ****
card 0: PCH [HDA Intel PCH], device 0: ALC892 Analog [ALC892 Analog]
`

const masterBlock = `Simple mixer control 'Master',0
  Capabilities: pvolume pswitch
  Limits: Playback 0 - 65536
  Front Left: Playback 49152 [75%] [on]
  Front Right: Playback 49152 [75%] [on]
`

const masterBlock50 = `Simple mixer control 'Master',0
  Capabilities: pvolume pswitch
  Limits: Playback 0 - 65536
  Front Left: Playback 32768 [50%] [on]
  Front Right: Playback 32768 [50%] [on]
`

func newTestSensor(runner alsa.Runner) *Sensor {
	return New(alsa.NewMixer(runner), nil, nil)
}

func TestReadings(t *testing.T) {
	runner := newScriptRunner()
	runner.script("aplay -l", aplayOneCard)
	runner.script("amixer -c 0 scontents", masterBlock)

	readings := newTestSensor(runner).Readings(context.Background())
	entry, ok := readings["card_0_device_0"].(map[string]any)
	if !ok {
		t.Fatalf("missing card_0_device_0 entry: %v", readings)
	}
	if entry["volume_percent"] != 75 {
		t.Errorf("got volume %v, want 75", entry["volume_percent"])
	}
	if entry["muted"] != false {
		t.Errorf("got muted %v, want false", entry["muted"])
	}
	if entry["control"] != "Master" {
		t.Errorf("got control %v, want Master", entry["control"])
	}
	if entry["card_name"] != "PCH" {
		t.Errorf("got card_name %v, want PCH", entry["card_name"])
	}
}

func TestReadingsNoDevices(t *testing.T) {
	runner := newScriptRunner()
	runner.script("aplay -l", "**** List of PLAYBACK Hardware Devices ****\n")

	readings := newTestSensor(runner).Readings(context.Background())
	if _, ok := readings["no_devices"]; !ok {
		t.Fatalf("expected no_devices marker, got %v", readings)
	}
}

func TestReadingsEnumerationFailure(t *testing.T) {
	runner := newScriptRunner()
	runner.scriptError("aplay -l", fmt.Errorf("aplay unavailable"))

	readings := newTestSensor(runner).Readings(context.Background())
	errEntry, ok := readings["error"].(map[string]any)
	if !ok {
		t.Fatalf("expected error reading, got %v", readings)
	}
	if errEntry["error"] == "" {
		t.Error("error reading has empty message")
	}
}

func TestDoCommandSetVolume(t *testing.T) {
	runner := newScriptRunner()
	runner.script("aplay -l", aplayOneCard)
	runner.script("amixer -c 0 scontents", masterBlock)
	runner.script("amixer -c 0 set Master 50%", masterBlock50)
	runner.script("amixer -c 0 sget Master", masterBlock50)

	result := newTestSensor(runner).DoCommand(context.Background(), map[string]any{
		"command": "set_volume",
		"card":    float64(0),
		"volume":  float64(50),
	})

	if result["success"] != true {
		t.Fatalf("command failed: %v", result)
	}
	if result["volume"] != 50 {
		t.Errorf("got volume %v, want 50 from verify probe", result["volume"])
	}
	if result["control"] != "Master" {
		t.Errorf("got control %v, want Master", result["control"])
	}
}

func TestDoCommandSetVolumeOutOfRange(t *testing.T) {
	runner := newScriptRunner()

	result := newTestSensor(runner).DoCommand(context.Background(), map[string]any{
		"command": "set_volume",
		"card":    0,
		"volume":  150,
	})

	if _, ok := result["error"]; !ok {
		t.Fatalf("expected error result, got %v", result)
	}
	if runner.callCount() != 0 {
		t.Errorf("%d external commands ran for invalid volume", runner.callCount())
	}
	if result["card"] != 0 || result["volume"] != 150 {
		t.Errorf("request fields not echoed: %v", result)
	}
}

func TestDoCommandMissingParams(t *testing.T) {
	tests := []struct {
		name string
		cmd  map[string]any
	}{
		{"set_volume without volume", map[string]any{"command": "set_volume", "card": 0}},
		{"set_volume without card", map[string]any{"command": "set_volume", "volume": 50}},
		{"mute without card", map[string]any{"command": "mute"}},
		{"volume wrong type", map[string]any{"command": "set_volume", "card": 0, "volume": "loud"}},
		{"fractional volume", map[string]any{"command": "set_volume", "card": 0, "volume": 49.5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner := newScriptRunner()
			result := newTestSensor(runner).DoCommand(context.Background(), tt.cmd)
			if _, ok := result["error"]; !ok {
				t.Fatalf("expected error result, got %v", result)
			}
			if runner.callCount() != 0 {
				t.Error("external commands ran before validation")
			}
		})
	}
}

func TestDoCommandUnknownCommand(t *testing.T) {
	result := newTestSensor(newScriptRunner()).DoCommand(context.Background(), map[string]any{
		"command": "explode",
	})
	errMsg, ok := result["error"].(string)
	if !ok {
		t.Fatalf("expected error result, got %v", result)
	}
	if !strings.Contains(errMsg, "set_volume") {
		t.Errorf("error should list supported commands: %q", errMsg)
	}
}

func TestDoCommandMissingCommandTag(t *testing.T) {
	result := newTestSensor(newScriptRunner()).DoCommand(context.Background(), map[string]any{})
	if _, ok := result["error"]; !ok {
		t.Fatalf("expected error result, got %v", result)
	}
}

func TestDoCommandMute(t *testing.T) {
	mutedBlock := strings.ReplaceAll(masterBlock, "[on]", "[off]")
	runner := newScriptRunner()
	runner.script("aplay -l", aplayOneCard)
	runner.script("amixer -c 0 scontents", masterBlock)
	runner.script("amixer -c 0 set Master mute", mutedBlock)
	runner.script("amixer -c 0 sget Master", mutedBlock)

	result := newTestSensor(runner).DoCommand(context.Background(), map[string]any{
		"command": "mute",
		"card":    "0", // string card ids must coerce
	})
	if result["success"] != true {
		t.Fatalf("mute failed: %v", result)
	}
	if result["action"] != "mute" {
		t.Errorf("got action %v, want mute", result["action"])
	}
}

func TestDoCommandUnknownCard(t *testing.T) {
	runner := newScriptRunner()
	runner.script("aplay -l", aplayOneCard)

	result := newTestSensor(runner).DoCommand(context.Background(), map[string]any{
		"command": "set_volume",
		"card":    99,
		"volume":  50,
	})
	errMsg, ok := result["error"].(string)
	if !ok {
		t.Fatalf("expected error result, got %v", result)
	}
	if !strings.Contains(errMsg, "99") {
		t.Errorf("error should identify the card: %q", errMsg)
	}
}

func TestDoCommandObserver(t *testing.T) {
	var observed []string
	observer := observerFunc(func(command, status string) {
		observed = append(observed, command+":"+status)
	})

	runner := newScriptRunner()
	s := New(alsa.NewMixer(runner), nil, observer)

	s.DoCommand(context.Background(), map[string]any{"command": "set_volume", "volume": 200})
	s.DoCommand(context.Background(), map[string]any{"command": "bogus"})

	if len(observed) != 2 {
		t.Fatalf("got %d observations, want 2: %v", len(observed), observed)
	}
	if observed[0] != "set_volume:error" {
		t.Errorf("got %q, want set_volume:error", observed[0])
	}
	if observed[1] != "bogus:error" {
		t.Errorf("got %q, want bogus:error", observed[1])
	}
}

type observerFunc func(command, status string)

func (f observerFunc) ObserveCommand(command, status string) { f(command, status) }
