package alsa

import (
	"context"
	"fmt"
	"sync"
)

// Reading is one playback device's entry in the full reading set. Volume and
// mute are card-level in ALSA's mixer model, so every device on a card
// shares the card's resolved control state.
type Reading struct {
	Card          int    `json:"card"`
	CardName      string `json:"card_name"`
	Device        int    `json:"device"`
	DeviceName    string `json:"device_name"`
	DeviceDesc    string `json:"device_desc"`
	VolumePercent int    `json:"volume_percent"`
	Muted         bool   `json:"muted"`
	Control       string `json:"control"`
}

// ReadingKey builds the map key for a card/device pair.
func ReadingKey(card, device int) string {
	return fmt.Sprintf("card_%d_device_%d", card, device)
}

// AllReadings enumerates cards, resolves each card's control once, and
// returns readings keyed by card_N_device_M. Cards are probed concurrently
// since they are independent OS resources. A card with no working control is
// omitted from the result; commands against it still report the failure.
func (m *Mixer) AllReadings(ctx context.Context) (map[string]Reading, error) {
	cards, err := m.enum.Cards(ctx)
	if err != nil {
		return nil, err
	}

	statuses := make([]Status, len(cards))
	errs := make([]error, len(cards))
	var wg sync.WaitGroup
	for i, card := range cards {
		wg.Add(1)
		go func(i int, card Card) {
			defer wg.Done()
			statuses[i], errs[i] = m.statusFor(ctx, card)
		}(i, card)
	}
	wg.Wait()

	readings := make(map[string]Reading)
	for i, card := range cards {
		if errs[i] != nil {
			m.logger.Debug("Skipping card without readable control",
				"card", card.Index, "card_name", card.Name, "error", errs[i])
			continue
		}
		st := statuses[i]
		for _, dev := range card.Devices {
			readings[ReadingKey(card.Index, dev.Index)] = Reading{
				Card:          card.Index,
				CardName:      card.Name,
				Device:        dev.Index,
				DeviceName:    dev.Name,
				DeviceDesc:    dev.Desc,
				VolumePercent: st.VolumePercent,
				Muted:         st.Muted,
				Control:       st.Control,
			}
		}
	}

	return readings, nil
}
