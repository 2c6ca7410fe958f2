// Package logging provides structured logging with per-module log level configuration.
//
// The logging system uses Go's slog package with automatic output routing:
//   - Logs to systemd journal when available (Linux systems with journald)
//   - Logs to stdout when a terminal, pipe, or file is connected
//   - Logs to both when both are available
//
// Initialize the logging system once at startup:
//
//	logging.Initialize(logging.Config{
//		Level:  "info",
//		Format: "text",
//		Modules: map[string]string{
//			"mixer":   "debug",
//			"resolve": "debug",
//		},
//	})
//
// Get a logger for your module:
//
//	logger := logging.GetLogger("mixer")
//	logger.Info("Volume set", "card", 0, "percent", 50)
//
// When running under systemd:
//
//	journalctl -t audionode -f
//	journalctl -t audionode MODULE=mixer
//
// Log levels can be set globally or per-module; module-specific levels
// override the global level for that module only, and SetLevels can change
// them at runtime (wired to the config file watcher).
package logging
