// Package metrics exports mixer state and command outcomes to Prometheus.
// Card gauges are collected on scrape from live hardware state, matching the
// no-cache rule of the rest of the service.
package metrics

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/smazurov/audionode/internal/alsa"
	"github.com/smazurov/audionode/internal/logging"
)

// scrapeTimeout bounds the hardware probe triggered by a scrape.
const scrapeTimeout = 10 * time.Second

// ReadingsSource supplies live readings for scrape-time collection.
type ReadingsSource interface {
	AllReadings(ctx context.Context) (map[string]alsa.Reading, error)
}

var (
	volumeDesc = prometheus.NewDesc(
		"audionode_card_volume_percent",
		"Playback volume of the card's resolved mixer control.",
		[]string{"card", "card_name", "control"}, nil)
	mutedDesc = prometheus.NewDesc(
		"audionode_card_muted",
		"Whether the card's resolved mixer control is muted (1) or audible (0).",
		[]string{"card", "card_name", "control"}, nil)
)

// cardCollector probes hardware on every scrape.
type cardCollector struct {
	source ReadingsSource
	logger *slog.Logger
}

// Describe implements prometheus.Collector.
func (c *cardCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- volumeDesc
	ch <- mutedDesc
}

// Collect implements prometheus.Collector.
func (c *cardCollector) Collect(ch chan<- prometheus.Metric) {
	ctx, cancel := context.WithTimeout(context.Background(), scrapeTimeout)
	defer cancel()

	readings, err := c.source.AllReadings(ctx)
	if err != nil {
		c.logger.Warn("Scrape-time readings failed", "error", err)
		return
	}

	// Readings are per device but mixer state is per card; emit each card once.
	emitted := make(map[int]bool)
	for _, r := range readings {
		if emitted[r.Card] {
			continue
		}
		emitted[r.Card] = true

		labels := []string{strconv.Itoa(r.Card), r.CardName, r.Control}
		ch <- prometheus.MustNewConstMetric(volumeDesc, prometheus.GaugeValue,
			float64(r.VolumePercent), labels...)
		muted := 0.0
		if r.Muted {
			muted = 1.0
		}
		ch <- prometheus.MustNewConstMetric(mutedDesc, prometheus.GaugeValue, muted, labels...)
	}
}

// Metrics owns the registry and the command outcome counter.
type Metrics struct {
	registry *prometheus.Registry
	commands *prometheus.CounterVec
}

// New builds a registry with the card collector, command counter, and the
// standard Go runtime collectors.
func New(source ReadingsSource) *Metrics {
	registry := prometheus.NewRegistry()

	commands := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "audionode_commands_total",
		Help: "DoCommand invocations by command and outcome.",
	}, []string{"command", "status"})

	registry.MustRegister(
		commands,
		&cardCollector{source: source, logger: logging.GetLogger("metrics")},
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return &Metrics{registry: registry, commands: commands}
}

// ObserveCommand implements sensor.CommandObserver.
func (m *Metrics) ObserveCommand(command, status string) {
	m.commands.WithLabelValues(command, status).Inc()
}

// Handler returns the HTTP handler for the /metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
