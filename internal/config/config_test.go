// ABOUTME: Tests for YAML configuration parsing
// ABOUTME: Verifies defaults, overrides and validation
package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	yamlContent := `
stream:
  url: "http://example.com/stream.mp3"
  connect_timeout_ms: 5000
  user_agent: "test/1.0"
  request_headers:
    X-Test: "yes"

output:
  buffer_ms: 500

monitor:
  listen: "127.0.0.1:9090"

logging:
  level: debug
  json: true
  file: /tmp/netradio.log
`

	cfg, err := Load(writeConfig(t, yamlContent))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Stream.URL != "http://example.com/stream.mp3" {
		t.Errorf("expected stream url, got %s", cfg.Stream.URL)
	}
	if cfg.ConnectTimeout() != 5*time.Second {
		t.Errorf("expected 5s connect timeout, got %v", cfg.ConnectTimeout())
	}
	if cfg.Stream.RequestHeaders["X-Test"] != "yes" {
		t.Errorf("expected request header, got %v", cfg.Stream.RequestHeaders)
	}
	if cfg.Output.BufferMs != 500 {
		t.Errorf("expected 500ms buffer, got %d", cfg.Output.BufferMs)
	}
	if cfg.Monitor.Listen != "127.0.0.1:9090" {
		t.Errorf("expected monitor address, got %s", cfg.Monitor.Listen)
	}
	if cfg.Logging.Level != "debug" || !cfg.Logging.JSON || cfg.Logging.File != "/tmp/netradio.log" {
		t.Errorf("unexpected logging config: %+v", cfg.Logging)
	}

	// untouched keys keep their defaults
	if cfg.Stream.ReadChunkBytes != 1024 {
		t.Errorf("expected default 1024 byte chunks, got %d", cfg.Stream.ReadChunkBytes)
	}
	if cfg.Stream.ReadAheadChunks != 10 {
		t.Errorf("expected default 10 chunk read-ahead, got %d", cfg.Stream.ReadAheadChunks)
	}
	if cfg.Decoder.OutputBufferBytes != 10240 {
		t.Errorf("expected default 10240 byte output buffer, got %d", cfg.Decoder.OutputBufferBytes)
	}
	if !cfg.UI.Enabled {
		t.Error("expected UI enabled by default")
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	_, err := Load(writeConfig(t, "stream: [unclosed"))
	if err == nil || !strings.Contains(err.Error(), "parse yaml") {
		t.Errorf("expected parse error, got %v", err)
	}
}

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(c *Config)
		field  string
	}{
		{"negative timeout", func(c *Config) { c.Stream.ConnectTimeoutMs = -1 }, "connect_timeout_ms"},
		{"zero chunk", func(c *Config) { c.Stream.ReadChunkBytes = 0 }, "read_chunk_bytes"},
		{"zero read-ahead", func(c *Config) { c.Stream.ReadAheadChunks = 0 }, "read_ahead_chunks"},
		{"small output buffer", func(c *Config) { c.Decoder.OutputBufferBytes = 1024 }, "output_buffer_bytes"},
		{"zero device buffer", func(c *Config) { c.Output.BufferMs = 0 }, "buffer_ms"},
		{"bad log level", func(c *Config) { c.Logging.Level = "loud" }, "logging.level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)

			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.field) {
				t.Errorf("expected error naming %s, got %v", tt.field, err)
			}
		})
	}
}
