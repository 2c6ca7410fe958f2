package alsa

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// fakeRunner replays scripted transcripts keyed by the full command line.
type fakeRunner struct {
	mu        sync.Mutex
	calls     []string
	responses map[string]fakeResponse
}

type fakeResponse struct {
	res Result
	err error
}

func newFakeRunner() *fakeRunner {
	return &fakeRunner{responses: make(map[string]fakeResponse)}
}

func (f *fakeRunner) script(command, stdout string) {
	f.responses[command] = fakeResponse{res: Result{Stdout: stdout}}
}

func (f *fakeRunner) scriptError(command string, err error) {
	f.responses[command] = fakeResponse{err: err}
}

func (f *fakeRunner) Run(_ context.Context, name string, args ...string) (Result, error) {
	key := name
	if len(args) > 0 {
		key += " " + strings.Join(args, " ")
	}

	f.mu.Lock()
	f.calls = append(f.calls, key)
	f.mu.Unlock()

	if resp, ok := f.responses[key]; ok {
		return resp.res, resp.err
	}
	return Result{}, fmt.Errorf("unscripted command: %s", key)
}

func (f *fakeRunner) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func (f *fakeRunner) called(command string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.calls {
		if c == command {
			return true
		}
	}
	return false
}

// Shared fixtures mirroring real tool output.

const aplayTwoCards = `**** List of PLAYBACK Hardware Devices ****
card 0: PCH [HDA Intel PCH], device 0: ALC892 Analog [ALC892 Analog]
card 0: PCH [HDA Intel PCH], device 1: ALC892 Digital [ALC892 Digital]
card 1: Device [USB Audio Device], device 0: USB Audio [USB Audio]
`

const scontentsMasterPCM = `Simple mixer control 'Master',0
  Capabilities: pvolume pswitch pswitch-joined
  Playback channels: Front Left - Front Right
  Limits: Playback 0 - 65536
  Mono:
  Front Left: Playback 49152 [75%] [on]
  Front Right: Playback 49152 [75%] [on]
Simple mixer control 'PCM',0
  Capabilities: pvolume
  Playback channels: Front Left - Front Right
  Limits: Playback 0 - 255
  Front Left: Playback 255 [100%]
  Front Right: Playback 255 [100%]
`

const scontentsUSBHeadset = `Simple mixer control 'Headset',0
  Capabilities: pvolume pswitch
  Playback channels: Front Left - Front Right
  Limits: Playback 0 - 127
  Front Left: Playback 95 [75%] [on]
  Front Right: Playback 95 [75%] [on]
`
