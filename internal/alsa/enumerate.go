package alsa

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	"github.com/smazurov/audionode/internal/logging"
)

// Device is a playback device belonging to a Card.
type Device struct {
	Index int    `json:"index"`
	Name  string `json:"name"`
	Desc  string `json:"desc"`
}

// Card is a snapshot of one sound card taken during an enumeration pass.
// Snapshots are never cached across calls.
type Card struct {
	Index    int      `json:"index"`
	Name     string   `json:"name"`
	LongName string   `json:"long_name"`
	Devices  []Device `json:"devices"`
}

// playbackLineRe matches aplay -l device lines such as:
//
//	card 0: PCH [HDA Intel PCH], device 0: ALC892 Analog [ALC892 Analog]
//
// The bracketed long name and description are optional; some drivers omit them.
var playbackLineRe = regexp.MustCompile(
	`^card (\d+): ([^\[,]+?)\s*(?:\[([^\]]*)\])?, device (\d+): ([^\[]+?)\s*(?:\[([^\]]*)\])?\s*$`)

// Enumerator lists playback cards and devices via aplay.
type Enumerator struct {
	runner Runner
	logger *slog.Logger
}

// NewEnumerator creates an Enumerator using the given runner.
func NewEnumerator(runner Runner) *Enumerator {
	return &Enumerator{
		runner: runner,
		logger: logging.GetLogger("enumerate"),
	}
}

// Cards returns the current playback cards in encounter order. The list
// reflects live hardware state; calling twice with unchanged hardware yields
// identical sequences.
func (e *Enumerator) Cards(ctx context.Context) ([]Card, error) {
	res, err := e.runner.Run(ctx, "aplay", "-l")
	if err != nil {
		return nil, fmt.Errorf("listing playback devices: %w", err)
	}
	cards := ParsePlaybackList(res.Stdout)
	e.logger.Debug("Enumerated playback cards", "cards", len(cards))
	return cards, nil
}

// ParsePlaybackList parses aplay -l output into cards with their devices.
// Lines that do not match the device grammar are skipped. Duplicate
// (card, device) pairs keep the first occurrence.
func ParsePlaybackList(out string) []Card {
	var cards []Card
	position := make(map[int]int)
	seen := make(map[[2]int]bool)

	for _, line := range strings.Split(out, "\n") {
		m := playbackLineRe.FindStringSubmatch(strings.TrimRight(line, "\r"))
		if m == nil {
			continue
		}
		cardIdx, _ := strconv.Atoi(m[1])
		devIdx, _ := strconv.Atoi(m[4])
		if seen[[2]int{cardIdx, devIdx}] {
			continue
		}
		seen[[2]int{cardIdx, devIdx}] = true

		pos, ok := position[cardIdx]
		if !ok {
			longName := strings.TrimSpace(m[3])
			if longName == "" {
				longName = strings.TrimSpace(m[2])
			}
			cards = append(cards, Card{
				Index:    cardIdx,
				Name:     strings.TrimSpace(m[2]),
				LongName: longName,
			})
			pos = len(cards) - 1
			position[cardIdx] = pos
		}

		devName := strings.TrimSpace(m[5])
		devDesc := strings.TrimSpace(m[6])
		if devDesc == "" {
			devDesc = devName
		}
		cards[pos].Devices = append(cards[pos].Devices, Device{
			Index: devIdx,
			Name:  devName,
			Desc:  devDesc,
		})
	}

	return cards
}
