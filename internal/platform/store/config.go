package store

import "time"

// Config aggregates per backend configuration
type Config struct {
	AppName string

	PG  PGConfig
	CH  CHConfig
	RDS RedisConfig
}

// PGConfig configures postgres connectivity and tracing
type PGConfig struct {
	Enabled     bool
	URL         string
	MaxConns    int32
	LogSQL      bool
	SlowQueryMs int

	ConnectRetries int           // boot pings after the first, default 6
	PingTimeout    time.Duration // per ping, default 5s
}

// CHConfig configures clickhouse connectivity
type CHConfig struct {
	Enabled      bool
	URL          string
	Role         string
	MaxOpenConns int
}

// RedisConfig configures redis connectivity
type RedisConfig struct {
	Enabled bool
	URL     string
	Addr    string
	DB      int
}
