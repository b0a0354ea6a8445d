package module

import (
	"time"

	"trustrank/internal/platform/config"
)

// Options holds configuration settings for the content module
type Options struct {
	CandidateWindow time.Duration
	CandidateLimit  int
	HardLimit       int
}

// FromConfig reads CORE_FEED_* and CORE_SWEEP_* settings
func FromConfig(cfg config.Conf) Options {
	ff := cfg.Prefix("CORE_FEED_")
	sf := cfg.Prefix("CORE_SWEEP_")
	return Options{
		CandidateWindow: ff.MayDuration("CANDIDATE_WINDOW", 72*time.Hour),
		CandidateLimit:  ff.MayInt("CANDIDATE_LIMIT", 500),
		HardLimit:       sf.MayInt("HARD_LIMIT", 5000),
	}
}
