package alsa

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	"github.com/smazurov/audionode/internal/logging"
)

// Control is one simple mixer control discovered on a card, with its raw
// status block retained so state can be parsed without a second probe.
type Control struct {
	Name         string
	Capabilities []string
	Block        string
}

// HasCapability reports whether the control advertises the given amixer
// capability token (pvolume, pswitch, ...).
func (c Control) HasCapability(cap string) bool {
	for _, have := range c.Capabilities {
		if have == cap || have == cap+"-joined" {
			return true
		}
	}
	return false
}

var controlHeaderRe = regexp.MustCompile(`^Simple mixer control '([^']*)',(\d+)$`)

// playbackPriority is the ranked list of control names that conventionally
// govern playback volume. Order matters: a Master control outranks PCM even
// when both exist.
var playbackPriority = []string{"Master", "PCM", "Speaker", "Headphone"}

// usbFallbacks are control names seen on USB DACs and headsets whose mixers
// skip the conventional names entirely.
var usbFallbacks = []string{"Headset", "Digital", "Line Out", "Line", "Mono"}

// matcher is one heuristic over a captured control list. Matchers are pure:
// given the same card name and controls they always pick the same control,
// which keeps resolution deterministic.
type matcher struct {
	name string
	fn   func(cardName string, controls []Control) (Control, bool)
}

var resolveChain = []matcher{
	{"exact", matchExact},
	{"substring", matchSubstring},
	{"usb-fallback", matchUSBFallback},
	{"capability", matchCapability},
}

// Resolver determines which mixer control to use for a card's volume and
// mute operations. Resolution is re-run on every call since driver reloads
// can change the control set.
type Resolver struct {
	runner Runner
	logger *slog.Logger
}

// NewResolver creates a Resolver using the given runner.
func NewResolver(runner Runner) *Resolver {
	return &Resolver{
		runner: runner,
		logger: logging.GetLogger("resolve"),
	}
}

// Resolve picks the best playback control for the card. It fails with
// ErrNoWorkingControl when the card exposes no usable control, including
// when amixer rejects the card index outright.
func (r *Resolver) Resolve(ctx context.Context, card Card) (Control, error) {
	res, err := r.runner.Run(ctx, "amixer", "-c", strconv.Itoa(card.Index), "scontents")
	if err != nil {
		var execErr *ExecError
		if errors.As(err, &execErr) {
			// amixer exits non-zero for unknown card indexes; that is a
			// resolution failure, not a tool malfunction.
			return Control{}, fmt.Errorf("%w: card %d: %s", ErrNoWorkingControl, card.Index, execErr.Stderr)
		}
		return Control{}, fmt.Errorf("listing controls for card %d: %w", card.Index, err)
	}

	controls := ParseControls(res.Stdout)
	// The USB signature usually lives in the long name ("USB Audio Device"),
	// not the short id, so match against both.
	ctl, how, ok := resolveFrom(card.Name+" "+card.LongName, controls)
	if !ok {
		return Control{}, fmt.Errorf("%w: card %d (%s): %d controls probed",
			ErrNoWorkingControl, card.Index, card.Name, len(controls))
	}
	r.logger.Debug("Resolved control", "card", card.Index, "control", ctl.Name, "matcher", how)
	return ctl, nil
}

// resolveFrom runs the matcher chain over an already-captured control list.
func resolveFrom(cardName string, controls []Control) (Control, string, bool) {
	for _, m := range resolveChain {
		if ctl, ok := m.fn(cardName, controls); ok {
			return ctl, m.name, true
		}
	}
	return Control{}, "", false
}

// ParseControls splits amixer scontents output into controls. The status
// block of each control is kept verbatim for the state parser.
func ParseControls(out string) []Control {
	var controls []Control
	var current *Control
	var block []string

	flush := func() {
		if current != nil {
			current.Block = strings.Join(block, "\n")
			controls = append(controls, *current)
		}
		current = nil
		block = nil
	}

	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimRight(line, "\r")
		if m := controlHeaderRe.FindStringSubmatch(line); m != nil {
			flush()
			current = &Control{Name: m[1]}
			continue
		}
		if current == nil {
			continue
		}
		block = append(block, line)
		trimmed := strings.TrimSpace(line)
		if caps, ok := strings.CutPrefix(trimmed, "Capabilities:"); ok {
			current.Capabilities = strings.Fields(caps)
		}
	}
	flush()

	return controls
}

// normalizeName lowercases and collapses whitespace for name comparison.
// Vendor firmware is sloppy about both.
func normalizeName(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), " ")
}

func matchExact(_ string, controls []Control) (Control, bool) {
	for _, want := range playbackPriority {
		for _, ctl := range controls {
			if normalizeName(ctl.Name) == normalizeName(want) && ctl.HasCapability("pvolume") {
				return ctl, true
			}
		}
	}
	return Control{}, false
}

func matchSubstring(_ string, controls []Control) (Control, bool) {
	for _, token := range playbackPriority {
		for _, ctl := range controls {
			if strings.Contains(normalizeName(ctl.Name), normalizeName(token)) && ctl.HasCapability("pvolume") {
				return ctl, true
			}
		}
	}
	return Control{}, false
}

// matchUSBFallback applies extra names seen on USB audio hardware. It only
// fires when the card or a control carries a USB signature, so conventional
// onboard codecs never reach these names.
func matchUSBFallback(cardName string, controls []Control) (Control, bool) {
	if !isUSBAudio(cardName, controls) {
		return Control{}, false
	}
	for _, want := range usbFallbacks {
		for _, ctl := range controls {
			name := normalizeName(ctl.Name)
			if (name == normalizeName(want) || strings.Contains(name, normalizeName(want))) &&
				ctl.HasCapability("pvolume") {
				return ctl, true
			}
		}
	}
	return Control{}, false
}

func isUSBAudio(cardName string, controls []Control) bool {
	if strings.Contains(strings.ToLower(cardName), "usb") {
		return true
	}
	for _, ctl := range controls {
		if strings.Contains(strings.ToLower(ctl.Name), "usb") {
			return true
		}
	}
	return false
}

// matchCapability is the last resort: any control with a playback volume,
// preferring one that also has a mute switch.
func matchCapability(_ string, controls []Control) (Control, bool) {
	var fallback *Control
	for i, ctl := range controls {
		if !ctl.HasCapability("pvolume") {
			continue
		}
		if ctl.HasCapability("pswitch") {
			return ctl, true
		}
		if fallback == nil {
			fallback = &controls[i]
		}
	}
	if fallback != nil {
		return *fallback, true
	}
	return Control{}, false
}
