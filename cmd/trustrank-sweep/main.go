package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"trustrank/internal/modkit"
	"trustrank/internal/modkit/module"
	"trustrank/internal/platform/config"
	"trustrank/internal/platform/logger"
	"trustrank/internal/platform/store"

	activitymod "trustrank/internal/services/activity/module"
	contentmod "trustrank/internal/services/content/module"
	"trustrank/internal/services/engine"
	sweepdom "trustrank/internal/services/sweep/domain"
	sweepmod "trustrank/internal/services/sweep/module"
	"trustrank/internal/services/sweep/schedule"
	verdictsmod "trustrank/internal/services/verdicts/module"
)

func main() {
	var (
		startStr = flag.String("start", "", "inclusive hour, e.g. 2026-10-01T00")
		endStr   = flag.String("end", "", "exclusive hour, e.g. 2026-10-01T03")
		spec     = flag.String("cron", "", `cron spec; sweeps the previous hour on each tick, e.g. "@hourly"`)
		workers  = flag.Int("workers", 0, "concurrency, overrides CORE_SWEEP_WORKERS")
		page     = flag.Int("page", 0, "page size, overrides CORE_SWEEP_PAGE_SIZE")
		dryRun   = flag.Bool("dry-run", false, "moderate but do not write verdicts")
	)
	flag.Parse()

	var start, end time.Time
	if *spec == "" {
		if *startStr == "" || *endStr == "" {
			log.Fatal("either -cron or -start/-end (hour resolution) is required")
		}
		var err error
		if start, err = time.Parse("2006-01-02T15", *startStr); err != nil {
			log.Fatalf("bad -start: %v", err)
		}
		if end, err = time.Parse("2006-01-02T15", *endStr); err != nil {
			log.Fatalf("bad -end: %v", err)
		}
		if !start.Before(end) {
			log.Fatal("start must be < end")
		}
	}

	root := config.New()
	l := logger.Get()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := store.Open(ctx, store.FromEnv(root, "trustrank", "sweep"), store.WithLogger(*l))
	if err != nil {
		l.Panic().Err(err).Msg("store.Open failed")
	}
	defer func() {
		if err := st.Close(context.Background()); err != nil {
			l.Error().Err(err).Msg("failed to close store")
		}
	}()
	if st.PG == nil {
		l.Fatal().Msg("sweep requires SERVICE_PGSQL_DBURL")
	}

	eng := engine.MustNew(engine.FromConfig(root))
	deps := modkit.FromStore(st, root, *l)

	// dependency modules first
	cm := contentmod.New(deps)
	vm := verdictsmod.New(deps)
	am := activitymod.New(deps)

	sm := sweepmod.New(
		deps,
		eng.Moderator,
		sweepmod.Options{Workers: *workers, PageSize: *page, DryRun: *dryRun},
		modkit.WithPorts(sweepdom.Ports{
			Pending:  module.MustPortsOf[contentmod.Ports](cm).Pending,
			Verdicts: module.MustPortsOf[verdictsmod.Ports](vm).Writer,
			History:  module.MustPortsOf[activitymod.Ports](am).Reader,
		}),
	)
	l.Info().Str("activity", am.Backend()).Str("module", sm.Name()).Msg("modules wired")
	runner := sm.Ports().(sweepmod.Ports).Runner

	if *spec != "" {
		if err := schedule.Run(ctx, *spec, runner, *l); err != nil {
			l.Fatal().Err(err).Msg("sweep schedule failed")
		}
		return
	}

	rep, err := runner.RunRange(ctx, start.UTC(), end.UTC())
	if err != nil {
		l.Fatal().Err(err).Msg("sweep failed")
	}
	l.Info().Interface("report", rep).Msg("sweep finished")
}
