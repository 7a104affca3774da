// ABOUTME: Tests for command line handling
// ABOUTME: Tests flag overrides, config loading, and the version command
package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadConfigDefaults(t *testing.T) {
	cmd := newRootCmd()
	if err := cmd.ParseFlags(nil); err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	cfg, err := loadConfig(cmd, flags{}, nil)
	if err != nil {
		t.Fatalf("loadConfig failed: %v", err)
	}
	if !cfg.UI.Enabled {
		t.Error("expected TUI enabled by default")
	}
	if cfg.Stream.URL != "" {
		t.Errorf("expected no URL, got %q", cfg.Stream.URL)
	}
}

func TestLoadConfigFlagsOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "netradio.yaml")
	data := []byte(`
stream:
  url: http://file.example.com/live
output:
  buffer_ms: 500
logging:
  level: debug
`)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	cmd := newRootCmd()
	args := []string{"--config", path, "--no-tui", "--monitor", "127.0.0.1:9090", "--log-level", "warn"}
	if err := cmd.ParseFlags(args); err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	f := flags{configFile: path, noTUI: true, monitor: "127.0.0.1:9090", logLevel: "warn"}
	cfg, err := loadConfig(cmd, f, []string{"http://arg.example.com/live"})
	if err != nil {
		t.Fatalf("loadConfig failed: %v", err)
	}

	if cfg.Stream.URL != "http://arg.example.com/live" {
		t.Errorf("expected URL argument to win, got %q", cfg.Stream.URL)
	}
	if cfg.UI.Enabled {
		t.Error("expected --no-tui to disable the TUI")
	}
	if cfg.Monitor.Listen != "127.0.0.1:9090" {
		t.Errorf("expected monitor address, got %q", cfg.Monitor.Listen)
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("expected warn level, got %q", cfg.Logging.Level)
	}
	if cfg.Output.BufferMs != 500 {
		t.Errorf("expected buffer from file, got %d", cfg.Output.BufferMs)
	}
}

func TestLoadConfigInvalid(t *testing.T) {
	cmd := newRootCmd()
	if err := cmd.ParseFlags([]string{"--buffer-ms", "0"}); err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	if _, err := loadConfig(cmd, flags{bufferMs: 0}, nil); err == nil {
		t.Error("expected zero buffer to be rejected")
	}
}

func TestVersionCommand(t *testing.T) {
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"version"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("version failed: %v", err)
	}
	if !strings.Contains(out.String(), "netradio") {
		t.Errorf("expected product name in output, got %q", out.String())
	}
}

func TestTooManyArgs(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetArgs([]string{"http://a.example.com", "http://b.example.com"})

	if err := cmd.Execute(); err == nil {
		t.Error("expected an error for two URLs")
	}
}
