package main

import (
	"errors"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/danielgtaylor/huma/v2/humacli"
	"github.com/smazurov/audionode/cmd"
	"github.com/smazurov/audionode/internal/alsa"
	"github.com/smazurov/audionode/internal/api"
	"github.com/smazurov/audionode/internal/config"
	"github.com/smazurov/audionode/internal/events"
	"github.com/smazurov/audionode/internal/logging"
	"github.com/smazurov/audionode/internal/metrics"
	"github.com/smazurov/audionode/internal/monitor"
	"github.com/smazurov/audionode/internal/sensor"
)

// Options for the CLI - flat structure with toml mapping.
type Options struct {
	Config string `help:"Path to configuration file" short:"c" default:"config.toml"`

	// Server settings
	Port string `help:"Port to listen on" short:"p" default:":8091" toml:"server.port" env:"SERVER_PORT"`

	// Mixer settings
	MixerCommandTimeoutMs int `help:"External command timeout in milliseconds" default:"5000" toml:"mixer.command_timeout_ms" env:"MIXER_COMMAND_TIMEOUT_MS"`

	// Monitor settings
	MonitorEnabled    bool `help:"Enable card hotplug monitoring" default:"true" toml:"monitor.enabled" env:"MONITOR_ENABLED"`
	MonitorIntervalMs int  `help:"Card poll interval in milliseconds" default:"5000" toml:"monitor.interval_ms" env:"MONITOR_INTERVAL_MS"`

	// Metrics settings
	MetricsEnabled bool `help:"Enable Prometheus metrics endpoint" default:"true" toml:"metrics.enabled" env:"METRICS_ENABLED"`

	// Auth settings
	AuthUsername string `help:"Basic auth username" default:"admin" toml:"auth.username" env:"AUTH_USERNAME"`
	AuthPassword string `help:"Basic auth password" default:"password" toml:"auth.password" env:"AUTH_PASSWORD"`

	// Logging settings
	LoggingLevel   string `help:"Global logging level (debug, info, warn, error)" default:"info" toml:"logging.level" env:"LOGGING_LEVEL"`
	LoggingFormat  string `help:"Logging format (text, json)" default:"text" toml:"logging.format" env:"LOGGING_FORMAT"`
	LoggingAlsa    string `help:"ALSA layer logging level" default:"info" toml:"logging.alsa" env:"LOGGING_ALSA"`
	LoggingSensor  string `help:"Sensor logging level" default:"info" toml:"logging.sensor" env:"LOGGING_SENSOR"`
	LoggingMonitor string `help:"Monitor logging level" default:"info" toml:"logging.monitor" env:"LOGGING_MONITOR"`
	LoggingAPI     string `help:"API logging level" default:"info" toml:"logging.api" env:"LOGGING_API"`
}

func main() {
	cli := humacli.New(func(hooks humacli.Hooks, opts *Options) {
		// Load configuration automatically
		if loadErr := config.LoadConfig(opts, nil); loadErr != nil {
			slog.Warn("Failed to load config", "error", loadErr)
		}

		// Initialize logging system
		logging.Initialize(logging.Config{
			Level:  opts.LoggingLevel,
			Format: opts.LoggingFormat,
			Modules: map[string]string{
				"runner":  opts.LoggingAlsa,
				"mixer":   opts.LoggingAlsa,
				"sensor":  opts.LoggingSensor,
				"monitor": opts.LoggingMonitor,
				"api":     opts.LoggingAPI,
				"http":    opts.LoggingAPI,
			},
		})

		logger := logging.GetLogger("main")

		// Build the mixer stack on a shared runner
		runner := alsa.NewRunner()
		if opts.MixerCommandTimeoutMs > 0 {
			runner.Timeout = time.Duration(opts.MixerCommandTimeoutMs) * time.Millisecond
		}
		mixer := alsa.NewMixer(runner)

		// Create event bus for in-process event handling
		eventBus := events.New()

		var metricsRegistry *metrics.Metrics
		var observer sensor.CommandObserver
		if opts.MetricsEnabled {
			metricsRegistry = metrics.New(mixer)
			observer = metricsRegistry
		}

		audioSensor := sensor.New(mixer, eventBus, observer)

		var cardMonitor *monitor.CardMonitor
		if opts.MonitorEnabled {
			interval := time.Duration(opts.MonitorIntervalMs) * time.Millisecond
			cardMonitor = monitor.New(mixer.Enumerator(), eventBus, interval)
		}

		apiOpts := &api.Options{
			AuthUsername: opts.AuthUsername,
			AuthPassword: opts.AuthPassword,
			Sensor:       audioSensor,
			Cards:        mixer.Enumerator(),
			EventBus:     eventBus,
		}
		if metricsRegistry != nil {
			apiOpts.PrometheusHandler = metricsRegistry.Handler()
		}

		server := api.NewServer(apiOpts)

		// Watch the config file so log levels can change without a restart
		var configWatcher *config.Watcher[logging.Config]
		if opts.Config != "" {
			if _, statErr := os.Stat(opts.Config); statErr == nil {
				configWatcher = config.NewConfigWatcher(opts.Config,
					func(path string) (logging.Config, error) {
						return config.LoadLoggingConfig(path), nil
					},
					logging.GetLogger("config"))
				configWatcher.OnReload(func(cfg logging.Config) {
					logging.SetLevels(cfg.Level, cfg.Modules)
				})
			}
		}

		hooks.OnStart(func() {
			if cardMonitor != nil {
				cardMonitor.Start()
			}

			if configWatcher != nil {
				if watchErr := configWatcher.Start(); watchErr != nil {
					logger.Warn("Failed to start config watcher", "error", watchErr)
				}
			}

			logger.Info("Starting HTTP server", "port", opts.Port)
			if startErr := server.Start(opts.Port); startErr != nil && !errors.Is(startErr, http.ErrServerClosed) {
				logger.Error("Failed to start HTTP server", "error", startErr)
				os.Exit(1)
			}
		})

		hooks.OnStop(func() {
			logger.Info("Shutting down server")
			if stopErr := server.Stop(); stopErr != nil {
				logger.Error("Error stopping HTTP server", "error", stopErr)
			}

			if configWatcher != nil {
				if stopErr := configWatcher.Stop(); stopErr != nil {
					logger.Error("Error stopping config watcher", "error", stopErr)
				}
			}

			if cardMonitor != nil {
				cardMonitor.Stop()
			}
		})
	})

	cli.Root().AddCommand(cmd.CreateReadingsCmd())
	cli.Root().AddCommand(cmd.CreateToneCmd())
	cli.Root().AddCommand(cmd.CreateUpdateCmd())

	cli.Run()
}
