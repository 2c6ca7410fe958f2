package config

import (
	"os"
	"path/filepath"
	"testing"
)

type testOptions struct {
	Config       string
	Port         string `toml:"server.port" env:"SERVER_PORT"`
	AuthUsername string `toml:"auth.username" env:"AUTH_USERNAME"`
	MonitorOn    bool   `toml:"monitor.enabled" env:"MONITOR_ENABLED"`
	TimeoutMs    int    `toml:"mixer.command_timeout_ms" env:"MIXER_COMMAND_TIMEOUT_MS"`
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestLoadConfigFromTOML(t *testing.T) {
	path := writeConfig(t, `
[server]
port = ":9000"

[auth]
username = "operator"

[monitor]
enabled = true

[mixer]
command_timeout_ms = 2500
`)

	opts := &testOptions{Config: path, Port: ":8091"}
	if err := LoadConfig(opts, nil); err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if opts.Port != ":9000" {
		t.Errorf("got port %q, want :9000", opts.Port)
	}
	if opts.AuthUsername != "operator" {
		t.Errorf("got username %q, want operator", opts.AuthUsername)
	}
	if !opts.MonitorOn {
		t.Error("monitor.enabled not applied")
	}
	if opts.TimeoutMs != 2500 {
		t.Errorf("got timeout %d, want 2500", opts.TimeoutMs)
	}
}

func TestLoadConfigEnvOverridesFile(t *testing.T) {
	path := writeConfig(t, `
[server]
port = ":9000"
`)
	t.Setenv("AUDIONODE_SERVER_PORT", ":9100")

	opts := &testOptions{Config: path}
	if err := LoadConfig(opts, nil); err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if opts.Port != ":9100" {
		t.Errorf("got port %q, want env override :9100", opts.Port)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	opts := &testOptions{Config: "/nonexistent/config.toml", Port: ":8091"}
	if err := LoadConfig(opts, nil); err != nil {
		t.Fatalf("missing config file must not fail: %v", err)
	}
	if opts.Port != ":8091" {
		t.Errorf("defaults disturbed: %q", opts.Port)
	}
}

func TestFieldNameToFlag(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Port", "port"},
		{"AuthUsername", "auth-username"},
		{"LoggingLevel", "logging-level"},
		{"MixerCommandTimeoutMs", "mixer-command-timeout-ms"},
	}
	for _, tt := range tests {
		if got := fieldNameToFlag(tt.in); got != tt.want {
			t.Errorf("fieldNameToFlag(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestLoadLoggingConfig(t *testing.T) {
	path := writeConfig(t, `
[logging]
level = "debug"
format = "json"
mixer = "warn"
api = "error"
`)

	cfg := LoadLoggingConfig(path)
	if cfg.Level != "debug" || cfg.Format != "json" {
		t.Errorf("got level %q format %q", cfg.Level, cfg.Format)
	}
	if cfg.Modules["mixer"] != "warn" || cfg.Modules["api"] != "error" {
		t.Errorf("module levels not parsed: %v", cfg.Modules)
	}
	if _, reserved := cfg.Modules["level"]; reserved {
		t.Error("reserved key leaked into module map")
	}
}

func TestLoadLoggingConfigDefaults(t *testing.T) {
	cfg := LoadLoggingConfig("/nonexistent/config.toml")
	if cfg.Level != "info" || cfg.Format != "text" {
		t.Errorf("got defaults %q/%q, want info/text", cfg.Level, cfg.Format)
	}
}
