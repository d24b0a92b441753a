// ABOUTME: Pipeline configuration with defaults, YAML loading and validation
// ABOUTME: Every tunable of the duplex pipeline is a named setting here
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the complete client configuration.
type Config struct {
	Session   SessionConfig   `yaml:"session"`
	Audio     AudioConfig     `yaml:"audio"`
	Playback  PlaybackConfig  `yaml:"playback"`
	Interrupt InterruptConfig `yaml:"interrupt"`
	Metrics   MetricsConfig   `yaml:"metrics"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// SessionConfig contains transport session settings.
type SessionConfig struct {
	ServerAddr string `yaml:"server_addr"`
	Name       string `yaml:"name"`
}

// AudioConfig contains capture and chunking parameters. Rates are fixed
// constants of the session protocol, not runtime-negotiated.
type AudioConfig struct {
	CaptureRate     int `yaml:"capture_rate"` // device native rate
	CaptureChannels int `yaml:"capture_channels"`
	ChunkDurationMs int `yaml:"chunk_duration_ms"` // outbound accumulation window
	OutboundRate    int `yaml:"outbound_rate"`     // rate sent to the service
	InboundRate     int `yaml:"inbound_rate"`      // rate received from the service
}

// PlaybackConfig contains scheduler tuning.
type PlaybackConfig struct {
	PreBufferCount int `yaml:"pre_buffer_count"`
	MinBufferCount int `yaml:"min_buffer_count"`
	LookAheadCount int `yaml:"look_ahead_count"`
	SafetyMarginMs int `yaml:"safety_margin_ms"`
}

// InterruptConfig contains barge-in detection settings.
type InterruptConfig struct {
	Threshold     float64 `yaml:"threshold"` // loudness 0-100
	WindowSamples int     `yaml:"window_samples"`
}

// MetricsConfig contains the optional Prometheus listener settings.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	File  string `yaml:"file"`
	Debug bool   `yaml:"debug"`
}

// Default returns the configuration with every tunable at its default.
func Default() *Config {
	return &Config{
		Session: SessionConfig{
			ServerAddr: "localhost:8930",
			Name:       "talkwire",
		},
		Audio: AudioConfig{
			CaptureRate:     48000,
			CaptureChannels: 1,
			ChunkDurationMs: 40,
			OutboundRate:    16000,
			InboundRate:     24000,
		},
		Playback: PlaybackConfig{
			PreBufferCount: 4,
			MinBufferCount: 3,
			LookAheadCount: 2,
			SafetyMarginMs: 100,
		},
		Interrupt: InterruptConfig{
			Threshold:     22,
			WindowSamples: 1024,
		},
		Metrics: MetricsConfig{
			Enabled: false,
			Addr:    "localhost:9091",
		},
		Logging: LoggingConfig{
			File: "talkwire.log",
		},
	}
}

// Load reads a YAML file over the defaults and validates the result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	config := Default()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return config, nil
}

// Validate checks every section.
func (c *Config) Validate() error {
	if err := c.Audio.Validate(); err != nil {
		return fmt.Errorf("audio config: %w", err)
	}
	if err := c.Playback.Validate(); err != nil {
		return fmt.Errorf("playback config: %w", err)
	}
	if err := c.Interrupt.Validate(); err != nil {
		return fmt.Errorf("interrupt config: %w", err)
	}
	if c.Session.ServerAddr == "" {
		return fmt.Errorf("session config: server_addr is required")
	}
	return nil
}

// Validate checks audio parameters.
func (a *AudioConfig) Validate() error {
	if a.CaptureRate <= 0 {
		return fmt.Errorf("capture_rate must be positive, got %d", a.CaptureRate)
	}
	if a.CaptureChannels <= 0 {
		return fmt.Errorf("capture_channels must be positive, got %d", a.CaptureChannels)
	}
	if a.ChunkDurationMs <= 0 {
		return fmt.Errorf("chunk_duration_ms must be positive, got %d", a.ChunkDurationMs)
	}
	if a.OutboundRate <= 0 || a.InboundRate <= 0 {
		return fmt.Errorf("sample rates must be positive")
	}
	return nil
}

// Validate checks scheduler tuning.
func (p *PlaybackConfig) Validate() error {
	if p.PreBufferCount <= 0 {
		return fmt.Errorf("pre_buffer_count must be positive, got %d", p.PreBufferCount)
	}
	if p.MinBufferCount <= 0 {
		return fmt.Errorf("min_buffer_count must be positive, got %d", p.MinBufferCount)
	}
	if p.MinBufferCount > p.PreBufferCount {
		return fmt.Errorf("min_buffer_count (%d) cannot exceed pre_buffer_count (%d)",
			p.MinBufferCount, p.PreBufferCount)
	}
	if p.LookAheadCount <= 0 {
		return fmt.Errorf("look_ahead_count must be positive, got %d", p.LookAheadCount)
	}
	if p.SafetyMarginMs <= 0 {
		return fmt.Errorf("safety_margin_ms must be positive, got %d", p.SafetyMarginMs)
	}
	return nil
}

// Validate checks barge-in settings.
func (i *InterruptConfig) Validate() error {
	if i.Threshold <= 0 || i.Threshold > 100 {
		return fmt.Errorf("threshold must be in (0, 100], got %v", i.Threshold)
	}
	if i.WindowSamples <= 0 {
		return fmt.Errorf("window_samples must be positive, got %d", i.WindowSamples)
	}
	return nil
}

// ChunkDuration returns the outbound accumulation window as a duration.
func (a *AudioConfig) ChunkDuration() time.Duration {
	return time.Duration(a.ChunkDurationMs) * time.Millisecond
}

// SafetyMargin returns the scheduler safety margin as a duration.
func (p *PlaybackConfig) SafetyMargin() time.Duration {
	return time.Duration(p.SafetyMarginMs) * time.Millisecond
}
