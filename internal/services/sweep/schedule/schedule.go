// Package schedule runs the sweep on a cron spec, one closed hour per tick
package schedule

import (
	"context"
	"fmt"
	"time"

	"trustrank/internal/platform/logger"
	"trustrank/internal/services/sweep/domain"

	"github.com/robfig/cron/v3"
)

// PreviousHour returns the last fully closed UTC hour before now
func PreviousHour(now time.Time) (start, end time.Time) {
	end = now.UTC().Truncate(time.Hour)
	return end.Add(-time.Hour), end
}

// Job returns the tick function: sweep the previous hour and log the report
func Job(ctx context.Context, r domain.RunnerPort, log logger.Logger, now func() time.Time) func() {
	if now == nil {
		now = time.Now
	}
	return func() {
		start, end := PreviousHour(now())
		rep, err := r.RunRange(ctx, start, end)
		if err != nil {
			log.Error().Err(err).Time("start", start).Msg("scheduled sweep failed")
			return
		}
		log.Info().Time("start", start).Int("processed", rep.Processed).Int("rejected", rep.Rejected).Msg("scheduled sweep")
	}
}

// Run blocks until ctx is done, firing Job on spec. Overlapping ticks are skipped
func Run(ctx context.Context, spec string, r domain.RunnerPort, log logger.Logger) error {
	c := cron.New(
		cron.WithLocation(time.UTC),
		cron.WithLogger(cronLogger{log: log}),
		cron.WithChain(cron.Recover(cronLogger{log: log}), cron.SkipIfStillRunning(cronLogger{log: log})),
	)
	if _, err := c.AddFunc(spec, Job(ctx, r, log, nil)); err != nil {
		return fmt.Errorf("schedule: bad spec %q: %w", spec, err)
	}
	c.Start()
	log.Info().Str("spec", spec).Msg("sweep scheduled")

	<-ctx.Done()
	<-c.Stop().Done()
	return nil
}

// cronLogger adapts zerolog to cron.Logger
type cronLogger struct{ log logger.Logger }

func (l cronLogger) Info(msg string, kv ...any) {
	l.log.Debug().Fields(kv).Msg("cron: " + msg)
}

func (l cronLogger) Error(err error, msg string, kv ...any) {
	l.log.Error().Err(err).Fields(kv).Msg("cron: " + msg)
}
