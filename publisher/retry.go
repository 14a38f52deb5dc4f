package publisher

import (
	"math"
	"os"
	"strconv"
	"time"
)

type RetryConfig struct {
	BaseBackoff time.Duration
	MaxBackoff  time.Duration
	Interval    time.Duration
}

// GetRetryConfig reads the auto-publish pacing knobs.
// PUBLISH_INTERVAL_SECONDS is the steady poll period while online;
// the backoff pair paces retries while the central API stays down.
func GetRetryConfig() RetryConfig {
	cfg := RetryConfig{
		BaseBackoff: 5 * time.Second,
		MaxBackoff:  5 * time.Minute,
		Interval:    30 * time.Second,
	}

	if v := os.Getenv("PUBLISH_BASE_BACKOFF_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.BaseBackoff = time.Duration(n) * time.Second
		}
	}
	if v := os.Getenv("PUBLISH_MAX_BACKOFF_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.MaxBackoff = time.Duration(n) * time.Second
		}
	}
	if v := os.Getenv("PUBLISH_INTERVAL_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Interval = time.Duration(n) * time.Second
		}
	}

	return cfg
}

func Backoff(attempt int, cfg RetryConfig) time.Duration {
	if attempt <= 0 {
		return cfg.BaseBackoff
	}
	// base * 2^(attempt-1), capped.
	exp := float64(attempt - 1)
	delay := time.Duration(float64(cfg.BaseBackoff) * math.Pow(2, exp))
	if delay > cfg.MaxBackoff {
		return cfg.MaxBackoff
	}
	return delay
}
