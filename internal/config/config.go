// ABOUTME: YAML configuration parsing and validation
// ABOUTME: Defines stream, decoder, output, monitor and logging settings
package config

import (
	"os"
	"strings"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/netradio-go/netradio/pkg/audio/decode"
)

type Config struct {
	Stream  StreamConfig  `yaml:"stream"`
	Decoder DecoderConfig `yaml:"decoder"`
	Output  OutputConfig  `yaml:"output"`
	Monitor MonitorConfig `yaml:"monitor"`
	Logging LoggingConfig `yaml:"logging"`
	UI      UIConfig      `yaml:"ui"`
}

type StreamConfig struct {
	URL              string            `yaml:"url"`
	ConnectTimeoutMs int               `yaml:"connect_timeout_ms"`
	ReadChunkBytes   int               `yaml:"read_chunk_bytes"`
	ReadAheadChunks  int               `yaml:"read_ahead_chunks"`
	UserAgent        string            `yaml:"user_agent"`
	RequestHeaders   map[string]string `yaml:"request_headers"`
}

type DecoderConfig struct {
	OutputBufferBytes int `yaml:"output_buffer_bytes"`
}

type OutputConfig struct {
	BufferMs int `yaml:"buffer_ms"`
}

type MonitorConfig struct {
	// Listen is the monitor server address; empty disables it
	Listen string `yaml:"listen"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
	JSON  bool   `yaml:"json"`
	File  string `yaml:"file"`
}

type UIConfig struct {
	Enabled bool `yaml:"enabled"`
}

// Default returns the configuration used when no file is given
func Default() *Config {
	return &Config{
		Stream: StreamConfig{
			ConnectTimeoutMs: 10000,
			ReadChunkBytes:   1024,
			ReadAheadChunks:  10,
			UserAgent:        "netradio",
		},
		Decoder: DecoderConfig{
			OutputBufferBytes: 10 * 1024,
		},
		Output: OutputConfig{
			BufferMs: 250,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		UI: UIConfig{
			Enabled: true,
		},
	}
}

// Load reads a YAML file over the defaults
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read config")
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrap(err, "parse yaml")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks value ranges
func (c *Config) Validate() error {
	if c.Stream.ConnectTimeoutMs < 0 {
		return errors.Errorf("stream.connect_timeout_ms must not be negative, got %d", c.Stream.ConnectTimeoutMs)
	}
	if c.Stream.ReadChunkBytes <= 0 {
		return errors.Errorf("stream.read_chunk_bytes must be positive, got %d", c.Stream.ReadChunkBytes)
	}
	if c.Stream.ReadAheadChunks <= 0 {
		return errors.Errorf("stream.read_ahead_chunks must be positive, got %d", c.Stream.ReadAheadChunks)
	}
	if c.Decoder.OutputBufferBytes < decode.MaxFramePCM {
		return errors.Errorf("decoder.output_buffer_bytes must be at least %d, got %d",
			decode.MaxFramePCM, c.Decoder.OutputBufferBytes)
	}
	if c.Output.BufferMs <= 0 {
		return errors.Errorf("output.buffer_ms must be positive, got %d", c.Output.BufferMs)
	}

	switch strings.ToLower(c.Logging.Level) {
	case "trace", "debug", "info", "warn", "warning", "error":
	default:
		return errors.Errorf("logging.level %q is not one of trace, debug, info, warn, error", c.Logging.Level)
	}

	return nil
}

// ConnectTimeout returns the connect timeout as a duration
func (c *Config) ConnectTimeout() time.Duration {
	return time.Duration(c.Stream.ConnectTimeoutMs) * time.Millisecond
}
