package store

import (
	"strings"
	"time"

	"trustrank/internal/platform/config"
)

// FromEnv reads SERVICE_PGSQL_*, SERVICE_CLICKHOUSE_* and SERVICE_REDIS_*.
// A backend is enabled when its DBURL (or redis URL/ADDR) is set
func FromEnv(root config.Conf, app, role string) Config {
	pgCfg := root.Prefix("SERVICE_PGSQL_")
	chCfg := root.Prefix("SERVICE_CLICKHOUSE_")
	rdCfg := root.Prefix("SERVICE_REDIS_")

	pgURL := strings.TrimSpace(pgCfg.MayString("DBURL", ""))
	chURL := strings.TrimSpace(chCfg.MayString("DBURL", ""))
	rdURL := strings.TrimSpace(rdCfg.MayString("URL", ""))
	rdAddr := strings.TrimSpace(rdCfg.MayString("ADDR", ""))

	return Config{
		AppName: app,
		PG: PGConfig{
			Enabled:     pgURL != "",
			URL:         pgURL,
			MaxConns:    int32(pgCfg.MayInt("MAX_CONNS", 4)),
			SlowQueryMs: pgCfg.MayInt("SLOW_MS", 500),
			LogSQL:      pgCfg.MayBool("LOG_SQL", false),

			ConnectRetries: pgCfg.MayInt("CONNECT_RETRIES", 6),
			PingTimeout:    pgCfg.MayDuration("PING_TIMEOUT", 5*time.Second),
		},
		CH: CHConfig{
			Enabled:      chURL != "",
			URL:          chURL,
			Role:         role,
			MaxOpenConns: chCfg.MayInt("MAX_OPEN_CONNS", 0),
		},
		RDS: RedisConfig{
			Enabled: rdURL != "" || rdAddr != "",
			URL:     rdURL,
			Addr:    rdAddr,
			DB:      rdCfg.MayInt("DB", 0),
		},
	}
}
