package logging

import (
	"log/slog"
	"os"
	"strings"
	"sync"
)

var (
	moduleLoggers   = make(map[string]*slog.Logger)
	moduleLevelVars = make(map[string]*slog.LevelVar)
	globalConfig    Config
	globalLevelVar  = &slog.LevelVar{}
	isInitialized   bool
	mutex           sync.RWMutex
)

// Config represents logging configuration.
type Config struct {
	Level   string            `toml:"level"`
	Format  string            `toml:"format"`
	Modules map[string]string `toml:"modules"`
}

// Initialize sets up the logging system. Loggers created before Initialize
// are reconfigured in place so early GetLogger calls are safe.
func Initialize(config Config) {
	mutex.Lock()
	defer mutex.Unlock()

	globalConfig = config
	isInitialized = true

	globalLevel := parseLevel(config.Level)
	if globalLevel == nil {
		defaultLevel := slog.LevelInfo
		globalLevel = &defaultLevel
	}
	globalLevelVar.Set(*globalLevel)

	for module, levelVar := range moduleLevelVars {
		moduleLevel := *globalLevel
		if levelStr, exists := config.Modules[module]; exists {
			if parsed := parseLevel(levelStr); parsed != nil {
				moduleLevel = *parsed
			}
		}
		levelVar.Set(moduleLevel)

		handler := createHandler(config.Format, levelVar)
		moduleLoggers[module] = slog.New(handler).With("module", module)
	}

	handler := createHandler(config.Format, globalLevelVar)
	slog.SetDefault(slog.New(handler))
}

// SetLevels applies new per-module levels at runtime. Used by the config
// watcher so log verbosity can be changed without a restart.
func SetLevels(global string, modules map[string]string) {
	mutex.Lock()
	defer mutex.Unlock()

	globalLevel := parseLevel(global)
	if globalLevel != nil {
		globalLevelVar.Set(*globalLevel)
		globalConfig.Level = global
	}
	for module, levelVar := range moduleLevelVars {
		if globalLevel != nil {
			levelVar.Set(*globalLevel)
		}
		if levelStr, exists := modules[module]; exists {
			if parsed := parseLevel(levelStr); parsed != nil {
				levelVar.Set(*parsed)
			}
		}
	}
	globalConfig.Modules = modules
}

// GetLogger returns a logger for the specified module, creating it if needed.
func GetLogger(module string) *slog.Logger {
	mutex.RLock()
	if logger, exists := moduleLoggers[module]; exists {
		mutex.RUnlock()
		return logger
	}
	mutex.RUnlock()

	mutex.Lock()
	defer mutex.Unlock()

	// Double-check in case another goroutine created it
	if logger, exists := moduleLoggers[module]; exists {
		return logger
	}

	// LevelVar so the level can be changed at runtime
	levelVar := &slog.LevelVar{}

	var moduleLevel slog.Level
	if isInitialized {
		if globalLevel := parseLevel(globalConfig.Level); globalLevel != nil {
			moduleLevel = *globalLevel
		} else {
			moduleLevel = slog.LevelInfo
		}
		if levelStr, exists := globalConfig.Modules[module]; exists {
			if parsed := parseLevel(levelStr); parsed != nil {
				moduleLevel = *parsed
			}
		}
	} else {
		moduleLevel = slog.LevelInfo
	}
	levelVar.Set(moduleLevel)

	var handler slog.Handler
	if isInitialized {
		handler = createHandler(globalConfig.Format, levelVar)
	} else {
		handler = createHandler("text", levelVar)
	}

	logger := slog.New(handler).With("module", module)
	moduleLoggers[module] = logger
	moduleLevelVars[module] = levelVar
	return logger
}

// createHandler creates a slog handler with the specified format and level.
// Logs go to stdout and, when available, the systemd journal.
func createHandler(format string, level slog.Leveler) slog.Handler {
	opts := &slog.HandlerOptions{Level: level}

	var stdoutHandler slog.Handler
	if format == "json" {
		stdoutHandler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		stdoutHandler = slog.NewTextHandler(os.Stdout, opts)
	}

	if IsJournalAvailable() {
		if isStdoutAvailable() {
			return NewMultiHandler(stdoutHandler, NewJournalHandler(level))
		}
		return NewJournalHandler(level)
	}
	return stdoutHandler
}

// isStdoutAvailable checks if stdout is connected to a terminal, pipe, socket, or file.
func isStdoutAvailable() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	mode := fi.Mode()
	return (mode&os.ModeCharDevice) != 0 || (mode&os.ModeNamedPipe) != 0 || (mode&os.ModeSocket) != 0 || mode.IsRegular()
}

// parseLevel converts string level to slog.Level.
func parseLevel(level string) *slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		l := slog.LevelDebug
		return &l
	case "info":
		l := slog.LevelInfo
		return &l
	case "warn", "warning":
		l := slog.LevelWarn
		return &l
	case "error":
		l := slog.LevelError
		return &l
	default:
		return nil
	}
}
