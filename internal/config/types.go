package config

import (
	"time"

	"github.com/barnwall/hbmon/internal/receiver"
)

// Config is the complete hbmon configuration after defaults, file, env, and
// flags have been merged.
type Config struct {
	// Port is the UDP port heartbeats arrive on.
	Port int `yaml:"port" mapstructure:"port"`

	// Interval is the time between render cycles.
	Interval time.Duration `yaml:"interval" mapstructure:"interval"`

	// BufferSize bounds a single datagram read; longer datagrams are truncated.
	BufferSize int `yaml:"buffer_size" mapstructure:"buffer_size"`

	// MaxDrain caps the datagrams ingested per cycle so a flood can't
	// starve rendering.
	MaxDrain int `yaml:"max_drain" mapstructure:"max_drain"`

	// StaleAfter is how long a device may stay silent and still count as reporting.
	StaleAfter time.Duration `yaml:"stale_after" mapstructure:"stale_after"`

	Log LogConfig `yaml:"log" mapstructure:"log"`
}

// LogConfig controls diagnostic logging.
type LogConfig struct {
	// Level: trace, debug, info, warn, or error.
	Level string `yaml:"level" mapstructure:"level"`

	// File receives log lines. Empty means stderr when not on a TTY,
	// discarded when the dashboard owns the terminal.
	File string `yaml:"file" mapstructure:"file"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Port:       receiver.DefaultPort,
		Interval:   time.Second,
		BufferSize: receiver.DefaultBufferSize,
		MaxDrain:   512,
		StaleAfter: 3 * time.Second,
		Log: LogConfig{
			Level: "info",
		},
	}
}
