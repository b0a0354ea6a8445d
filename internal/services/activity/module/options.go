package module

import (
	"strings"
	"time"

	"trustrank/internal/platform/config"
)

// Backends accepted by CORE_ACTIVITY_BACKEND
const (
	BackendRedis      = "redis"
	BackendClickhouse = "clickhouse"
	BackendNone       = "none"
)

// Options holds configuration settings for the activity module
type Options struct {
	Backend    string
	Window     time.Duration
	MaxActions int
	MaxPosts   int
}

// FromConfig reads CORE_ACTIVITY_* settings
func FromConfig(cfg config.Conf) Options {
	af := cfg.Prefix("CORE_ACTIVITY_")
	return Options{
		Backend:    strings.ToLower(af.MayEnum("BACKEND", BackendRedis, BackendRedis, BackendClickhouse, BackendNone)),
		Window:     af.MayDuration("WINDOW", time.Hour),
		MaxActions: af.MayInt("MAX_ACTIONS", 200),
		MaxPosts:   af.MayInt("MAX_POSTS", 50),
	}
}
