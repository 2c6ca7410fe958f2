package alsa

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/smazurov/audionode/internal/logging"
)

// toneTimeout bounds speaker-test, which plays audio for several seconds.
const toneTimeout = 30 * time.Second

// Status is the authoritative card-level mixer state, re-read from hardware
// after every mutation rather than trusted from the mutation's own echo.
type Status struct {
	Card          int    `json:"card"`
	CardName      string `json:"card_name"`
	Control       string `json:"control"`
	VolumePercent int    `json:"volume_percent"`
	Muted         bool   `json:"muted"`
	Output        string `json:"output,omitempty"`
}

// Mixer reads and mutates playback volume and mute state. Mutations on the
// same card are serialized through a per-card lock; reads are idempotent
// probes and take no lock.
type Mixer struct {
	runner   Runner
	enum     *Enumerator
	resolver *Resolver
	logger   *slog.Logger

	mu        sync.Mutex
	cardLocks map[int]*sync.Mutex
}

// NewMixer creates a Mixer with its own enumerator and resolver on top of
// the given runner.
func NewMixer(runner Runner) *Mixer {
	return &Mixer{
		runner:    runner,
		enum:      NewEnumerator(runner),
		resolver:  NewResolver(runner),
		logger:    logging.GetLogger("mixer"),
		cardLocks: make(map[int]*sync.Mutex),
	}
}

// Enumerator exposes the card enumerator for callers that only list hardware.
func (m *Mixer) Enumerator() *Enumerator {
	return m.enum
}

func (m *Mixer) cardLock(card int) *sync.Mutex {
	m.mu.Lock()
	defer m.mu.Unlock()
	lock, ok := m.cardLocks[card]
	if !ok {
		lock = &sync.Mutex{}
		m.cardLocks[card] = lock
	}
	return lock
}

// findCard re-enumerates and locates the card by index. Hardware is probed
// fresh on every call; a stale hit would be a correctness bug under hotplug.
func (m *Mixer) findCard(ctx context.Context, card int) (Card, error) {
	if card < 0 {
		return Card{}, fmt.Errorf("%w: card must be non-negative, got %d", ErrInvalidInput, card)
	}
	cards, err := m.enum.Cards(ctx)
	if err != nil {
		return Card{}, err
	}
	for _, c := range cards {
		if c.Index == card {
			return c, nil
		}
	}
	return Card{}, fmt.Errorf("%w: card %d not found", ErrInvalidInput, card)
}

// statusFor resolves the card's control and parses its live state from the
// same scontents capture the resolver used.
func (m *Mixer) statusFor(ctx context.Context, card Card) (Status, error) {
	ctl, err := m.resolver.Resolve(ctx, card)
	if err != nil {
		return Status{}, err
	}
	state, err := ParseState(ctl.Block)
	if err != nil {
		return Status{}, fmt.Errorf("parsing control %q on card %d: %w", ctl.Name, card.Index, err)
	}
	return Status{
		Card:          card.Index,
		CardName:      card.Name,
		Control:       ctl.Name,
		VolumePercent: state.VolumePercent,
		Muted:         state.Muted,
	}, nil
}

// Get returns the current volume and mute state for the card.
func (m *Mixer) Get(ctx context.Context, card int) (Status, error) {
	c, err := m.findCard(ctx, card)
	if err != nil {
		return Status{}, err
	}
	return m.statusFor(ctx, c)
}

// SetVolume sets the playback volume to percent in [0,100] and returns the
// re-read state. Invalid input is rejected before any external call.
func (m *Mixer) SetVolume(ctx context.Context, card, percent int) (Status, error) {
	if percent < 0 || percent > 100 {
		return Status{}, fmt.Errorf("%w: volume must be between 0 and 100, got %d", ErrInvalidInput, percent)
	}
	c, err := m.findCard(ctx, card)
	if err != nil {
		return Status{}, err
	}

	lock := m.cardLock(c.Index)
	lock.Lock()
	defer lock.Unlock()

	ctl, err := m.resolver.Resolve(ctx, c)
	if err != nil {
		return Status{}, err
	}
	st, err := m.mutate(ctx, c, ctl, strconv.Itoa(percent)+"%")
	if err != nil {
		return Status{}, err
	}
	m.logger.Info("Volume set", "card", c.Index, "control", ctl.Name, "percent", percent)
	return st, nil
}

// Mute engages the playback switch on the card's resolved control.
func (m *Mixer) Mute(ctx context.Context, card int) (Status, error) {
	return m.setSwitch(ctx, card, true)
}

// Unmute releases the playback switch on the card's resolved control.
func (m *Mixer) Unmute(ctx context.Context, card int) (Status, error) {
	return m.setSwitch(ctx, card, false)
}

// ToggleMute reads the current mute state and applies the inverse action.
// amixer's own "toggle" verb flips every channel independently, which can
// leave a half-muted control; reading then inverting avoids that.
func (m *Mixer) ToggleMute(ctx context.Context, card int) (Status, error) {
	c, err := m.findCard(ctx, card)
	if err != nil {
		return Status{}, err
	}

	lock := m.cardLock(c.Index)
	lock.Lock()
	defer lock.Unlock()

	ctl, err := m.resolver.Resolve(ctx, c)
	if err != nil {
		return Status{}, err
	}
	state, err := ParseState(ctl.Block)
	if err != nil {
		return Status{}, fmt.Errorf("parsing control %q on card %d: %w", ctl.Name, c.Index, err)
	}

	verb := "mute"
	if state.Muted {
		verb = "unmute"
	}
	st, err := m.mutate(ctx, c, ctl, verb)
	if err != nil {
		return Status{}, err
	}
	m.logger.Info("Mute toggled", "card", c.Index, "control", ctl.Name, "muted", st.Muted)
	return st, nil
}

func (m *Mixer) setSwitch(ctx context.Context, card int, mute bool) (Status, error) {
	c, err := m.findCard(ctx, card)
	if err != nil {
		return Status{}, err
	}

	lock := m.cardLock(c.Index)
	lock.Lock()
	defer lock.Unlock()

	ctl, err := m.resolver.Resolve(ctx, c)
	if err != nil {
		return Status{}, err
	}
	verb := "mute"
	if !mute {
		verb = "unmute"
	}
	st, err := m.mutate(ctx, c, ctl, verb)
	if err != nil {
		return Status{}, err
	}
	m.logger.Info("Switch changed", "card", c.Index, "control", ctl.Name, "muted", st.Muted)
	return st, nil
}

// mutate runs one amixer set invocation and then re-queries the control for
// the authoritative post-mutation state. Caller holds the card lock.
func (m *Mixer) mutate(ctx context.Context, card Card, ctl Control, value string) (Status, error) {
	idx := strconv.Itoa(card.Index)
	res, err := m.runner.Run(ctx, "amixer", "-c", idx, "set", ctl.Name, value)
	if err != nil {
		return Status{}, fmt.Errorf("setting %q on card %d: %w", ctl.Name, card.Index, err)
	}

	verify, err := m.runner.Run(ctx, "amixer", "-c", idx, "sget", ctl.Name)
	if err != nil {
		return Status{}, fmt.Errorf("verifying %q on card %d: %w", ctl.Name, card.Index, err)
	}

	block := verify.Stdout
	if parsed := ParseControls(verify.Stdout); len(parsed) > 0 {
		block = parsed[0].Block
	}
	state, err := ParseState(block)
	if err != nil {
		return Status{}, fmt.Errorf("parsing control %q on card %d after mutation: %w", ctl.Name, card.Index, err)
	}

	return Status{
		Card:          card.Index,
		CardName:      card.Name,
		Control:       ctl.Name,
		VolumePercent: state.VolumePercent,
		Muted:         state.Muted,
		Output:        strings.TrimSpace(res.Stdout),
	}, nil
}

// PlayTest plays a short test tone through the given card and device using
// speaker-test. Pure pass-through; only the inputs are validated here.
func (m *Mixer) PlayTest(ctx context.Context, card, device, channels int) (string, error) {
	if device < 0 {
		return "", fmt.Errorf("%w: device must be non-negative, got %d", ErrInvalidInput, device)
	}
	if channels < 1 || channels > 8 {
		return "", fmt.Errorf("%w: channels must be between 1 and 8, got %d", ErrInvalidInput, channels)
	}
	c, err := m.findCard(ctx, card)
	if err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(ctx, toneTimeout)
	defer cancel()

	res, err := m.runner.Run(ctx, "speaker-test",
		"-D", fmt.Sprintf("plughw:%d,%d", c.Index, device),
		"-c", strconv.Itoa(channels),
		"-t", "wav",
		"-l", "1")
	if err != nil {
		return "", fmt.Errorf("playing test tone on card %d device %d: %w", c.Index, device, err)
	}
	m.logger.Info("Test tone played", "card", c.Index, "device", device, "channels", channels)
	return strings.TrimSpace(res.Stdout), nil
}
