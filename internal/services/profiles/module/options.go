package module

import (
	"time"

	"trustrank/internal/platform/config"
)

// Options holds configuration settings for the profiles module
type Options struct {
	CacheSize int
	CacheTTL  time.Duration
}

// FromConfig reads CORE_PROFILES_* settings
func FromConfig(cfg config.Conf) Options {
	pf := cfg.Prefix("CORE_PROFILES_")
	return Options{
		CacheSize: pf.MayInt("CACHE_SIZE", 4096),
		CacheTTL:  pf.MayDuration("CACHE_TTL", 5*time.Minute),
	}
}
