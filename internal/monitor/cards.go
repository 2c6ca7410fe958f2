// Package monitor watches for sound card hotplug by periodic re-enumeration
// and publishes discovery events on the bus. The diff set kept between polls
// exists only for event generation; the read path never consults it.
package monitor

import (
	"context"
	"log/slog"
	"time"

	"github.com/smazurov/audionode/internal/alsa"
	"github.com/smazurov/audionode/internal/events"
	"github.com/smazurov/audionode/internal/logging"
)

// DefaultInterval is the poll interval for card discovery.
const DefaultInterval = 5 * time.Second

// CardLister is the slice of the enumerator the monitor needs.
type CardLister interface {
	Cards(ctx context.Context) ([]alsa.Card, error)
}

// CardMonitor polls the enumerator and publishes CardDiscoveryEvent when
// cards appear or disappear (USB hotplug, driver reloads).
type CardMonitor struct {
	lister   CardLister
	bus      *events.Bus
	interval time.Duration
	logger   *slog.Logger
	ctx      context.Context
	cancel   context.CancelFunc
	done     chan struct{}

	lastSeen map[int]string
}

// New creates a CardMonitor. A non-positive interval falls back to the default.
func New(lister CardLister, bus *events.Bus, interval time.Duration) *CardMonitor {
	if interval <= 0 {
		interval = DefaultInterval
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &CardMonitor{
		lister:   lister,
		bus:      bus,
		interval: interval,
		logger:   logging.GetLogger("monitor"),
		ctx:      ctx,
		cancel:   cancel,
		done:     make(chan struct{}),
		lastSeen: make(map[int]string),
	}
}

// Start begins polling in a background goroutine. The first poll primes the
// diff set without publishing, so startup doesn't announce every card as new.
func (m *CardMonitor) Start() {
	m.logger.Info("Card monitor started", "interval", m.interval)
	go m.run()
}

// Stop halts polling and waits for the poll goroutine to exit.
func (m *CardMonitor) Stop() {
	m.cancel()
	<-m.done
	m.logger.Info("Card monitor stopped")
}

func (m *CardMonitor) run() {
	defer close(m.done)

	m.poll(true)

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-m.ctx.Done():
			return
		case <-ticker.C:
			m.poll(false)
		}
	}
}

func (m *CardMonitor) poll(prime bool) {
	cards, err := m.lister.Cards(m.ctx)
	if err != nil {
		m.logger.Warn("Card poll failed", "error", err)
		return
	}

	current := make(map[int]string, len(cards))
	for _, c := range cards {
		current[c.Index] = c.Name
	}

	if !prime {
		now := time.Now().UTC().Format(time.RFC3339)
		for idx, name := range current {
			if _, known := m.lastSeen[idx]; !known {
				m.logger.Info("Sound card added", "card", idx, "card_name", name)
				m.bus.Publish(events.CardDiscoveryEvent{
					Card: idx, CardName: name, Action: "added", Timestamp: now,
				})
			}
		}
		for idx, name := range m.lastSeen {
			if _, still := current[idx]; !still {
				m.logger.Info("Sound card removed", "card", idx, "card_name", name)
				m.bus.Publish(events.CardDiscoveryEvent{
					Card: idx, CardName: name, Action: "removed", Timestamp: now,
				})
			}
		}
	}

	m.lastSeen = current
}
