package alsa

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// State is the normalized reading of one mixer control.
type State struct {
	VolumePercent int
	Muted         bool
}

// channelLineRe matches per-channel status lines such as:
//
//	Front Left: Playback 55 [84%] [-10.50dB] [on]
//	Mono: Playback 42 [66%] [on]
//	Front Right: Playback 65536 [100%]
//
// Percent, dB and switch annotations are all optional.
var channelLineRe = regexp.MustCompile(
	`^\s*[^:]+:\s*Playback\s+(-?\d+)(?:\s+\[(\d+)%\])?(?:\s+\[-?[\d.]+dB\])?(?:\s+\[(on|off)\])?\s*$`)

// limitsLineRe matches "Limits: Playback 0 - 65536" and the combined
// "Limits: 0 - 63" variant some drivers print.
var limitsLineRe = regexp.MustCompile(`^\s*Limits:(?:\s+Playback)?\s+(-?\d+)\s+-\s+(-?\d+)`)

// ParseState extracts volume and mute state from a control's status block.
//
// Policy decisions, both load-bearing:
//   - When a control reports several channels, the first channel wins.
//   - amixer prints the playback switch state, so [on] means audible and
//     [off] means muted. A control without a switch annotation has no mute
//     capability and is reported as not muted.
func ParseState(block string) (State, error) {
	min, max, haveLimits := parseLimits(block)

	for _, line := range strings.Split(block, "\n") {
		m := channelLineRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}

		var percent int
		switch {
		case m[2] != "":
			percent, _ = strconv.Atoi(m[2])
		case haveLimits && max > min:
			raw, _ := strconv.Atoi(m[1])
			percent = int(math.Round(float64(raw-min) * 100 / float64(max-min)))
		default:
			return State{}, fmt.Errorf("%w: channel value without percent or limits", ErrParse)
		}

		return State{
			VolumePercent: clampPercent(percent),
			Muted:         m[3] == "off",
		}, nil
	}

	return State{}, fmt.Errorf("%w: no playback channel status line", ErrParse)
}

func parseLimits(block string) (min, max int, ok bool) {
	for _, line := range strings.Split(block, "\n") {
		if m := limitsLineRe.FindStringSubmatch(line); m != nil {
			min, _ = strconv.Atoi(m[1])
			max, _ = strconv.Atoi(m[2])
			return min, max, true
		}
	}
	return 0, 0, false
}

func clampPercent(p int) int {
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}
