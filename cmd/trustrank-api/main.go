// @title         Trustrank API
// @version       0.1.0
// @description   Feed ranking, sentiment, fraud risk and moderation endpoints
// @BasePath      /api/v1

//go:generate go run github.com/swaggo/swag/v2/cmd/swag init --v3.1 -g main.go -d .,../../internal/services/api -o ../../internal/services/api/docs

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"trustrank/internal/platform/config"
	"trustrank/internal/platform/logger"
	phttp "trustrank/internal/platform/net/http"
	"trustrank/internal/platform/store"
	"trustrank/internal/platform/store/migrations"

	"trustrank/internal/services/api"
	"trustrank/internal/services/engine"
)

func main() {
	root := config.New()
	// service-scoped config for HTTP etc (CORE_API_*)
	apiCfg := root.Prefix("CORE_API_")

	// bring up logging early
	l := logger.Get()

	// open whichever stores are configured (postgres, clickhouse, redis)
	st, err := store.Open(
		context.Background(),
		store.FromEnv(root, "trustrank", "api"),
		store.WithLogger(*l),
	)
	if err != nil {
		l.Panic().Err(err).Msg("store.Open failed")
	}
	defer func() {
		if err := st.Close(context.Background()); err != nil {
			l.Error().Err(err).Msg("failed to close store")
		}
	}()

	if st.PG != nil && apiCfg.MayBool("MIGRATE", false) {
		if err := migrations.Apply(context.Background(), st.PG); err != nil {
			l.Panic().Err(err).Msg("migrations failed")
		}
		l.Info().Strs("applied", migrations.Names()).Msg("schema up to date")
	}

	eng, err := engine.New(engine.FromConfig(root))
	if err != nil {
		l.Panic().Err(err).Msg("engine init failed")
	}

	// reads CORE_API_ADDR, CORE_API_PORT and CORE_API_SHUTDOWN_GRACE
	srv := phttp.NewServer(apiCfg)

	api.Mount(
		srv.Router(),
		api.Options{
			Config:         root,
			Store:          st,
			Logger:         l,
			Engine:         eng,
			EnableSwagger:  apiCfg.MayBool("SWAGGER", true),
			EnableProfiler: apiCfg.MayBool("PROFILER", false),
			EnableMetrics:  apiCfg.MayBool("METRICS", true),
		},
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := srv.Run(ctx); err != nil {
		l.Panic().Err(err).Msg("http server stopped")
	}
}
