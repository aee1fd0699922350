package config

import (
	"fmt"
	"time"
)

// Config holds rate limiting configuration.
type Config struct {
	// Failed-login limiter
	Login LoginLimitConfig

	// How often expired attempts and blocks are swept. Zero disables the worker.
	CleanupInterval time.Duration
}

// LoginLimitConfig defines the failed-login thresholds.
//
// Window is both the look-back for counting failures and the length of a block.
type LoginLimitConfig struct {
	UsernameThreshold int           // 10 failures per username per window
	IPThreshold       int           // 100 failures per address per window
	Window            time.Duration // 10 minutes
}

// DefaultConfig returns the documented defaults.
func DefaultConfig() *Config {
	return &Config{
		Login: LoginLimitConfig{
			UsernameThreshold: 10,
			IPThreshold:       100,
			Window:            10 * time.Minute,
		},
		CleanupInterval: 5 * time.Minute,
	}
}

// Validate rejects thresholds and windows that would disable or invert limiting.
func (c LoginLimitConfig) Validate() error {
	if c.UsernameThreshold <= 0 {
		return fmt.Errorf("username threshold must be positive, got %d", c.UsernameThreshold)
	}
	if c.IPThreshold <= 0 {
		return fmt.Errorf("ip threshold must be positive, got %d", c.IPThreshold)
	}
	if c.Window <= 0 {
		return fmt.Errorf("window must be positive, got %s", c.Window)
	}
	return nil
}
