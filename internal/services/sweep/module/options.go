package module

import "trustrank/internal/platform/config"

// Options holds configuration settings for the sweep module
type Options struct {
	Workers       int
	PageSize      int
	MaxRangeHours int
	DryRun        bool
}

// FromConfig extracts Options from CORE_SWEEP_*
func FromConfig(cfg config.Conf) Options {
	sf := cfg.Prefix("CORE_SWEEP_")
	return Options{
		Workers:       sf.MayInt("WORKERS", 4),
		PageSize:      sf.MayInt("PAGE_SIZE", 1000),
		MaxRangeHours: sf.MayInt("MAX_RANGE_HOURS", 0),
		DryRun:        sf.MayBool("DRY_RUN", false),
	}
}
