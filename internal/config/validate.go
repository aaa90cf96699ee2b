package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/barnwall/hbmon/internal/errors"
)

// Limits enforced by Validate.
const (
	MinInterval   = 100 * time.Millisecond
	MinBufferSize = 64
	// MaxBufferSize is the largest possible UDP payload over IPv4.
	MaxBufferSize = 65507
)

// ValidLogLevels lists the accepted log.level values.
var ValidLogLevels = []string{"trace", "debug", "info", "warn", "error"}

// Validate checks the config for errors and returns structured error messages.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errors.New(errors.ErrConfig,
			"Config is nil",
			"This is unexpected - try running the command again.")
	}

	if cfg.Port < 1 || cfg.Port > 65535 {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("Port %d is out of range", cfg.Port),
			"Use a UDP port between 1 and 65535, like the default 49700.")
	}

	if cfg.Interval < MinInterval {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("Interval %s is too short", cfg.Interval),
			fmt.Sprintf("Minimum interval is %s to keep the terminal readable", MinInterval))
	}

	if cfg.BufferSize < MinBufferSize || cfg.BufferSize > MaxBufferSize {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("buffer_size %d is out of range", cfg.BufferSize),
			fmt.Sprintf("Pick a size between %d and %d bytes; heartbeats fit in 1024.", MinBufferSize, MaxBufferSize))
	}

	if cfg.MaxDrain < 1 {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("max_drain must be at least 1, got %d", cfg.MaxDrain),
			"Set max_drain to the most datagrams to read per refresh, e.g. 512.")
	}

	if cfg.StaleAfter <= 0 {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("stale_after must be positive, got %s", cfg.StaleAfter),
			"Devices report once a second; 3s is a good value.")
	}

	if err := validateLog(cfg.Log); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig, err.Error(), "Check the 'log' section in your hbmon.yaml.")
	}

	return nil
}

func validateLog(l LogConfig) error {
	if l.Level == "" {
		return nil
	}
	level := strings.ToLower(l.Level)
	for _, valid := range ValidLogLevels {
		if level == valid {
			return nil
		}
	}
	return fmt.Errorf("log level '%s' isn't valid - use one of: %s", l.Level, strings.Join(ValidLogLevels, ", "))
}
