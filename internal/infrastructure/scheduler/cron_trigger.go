package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// CronTrigger submits jobs to the scheduler on cron schedules evaluated in
// UTC, the zone every day bucket uses.
type CronTrigger struct {
	cron      *cron.Cron
	scheduler *Scheduler
	logger    *zap.Logger
}

// NewCronTrigger creates a trigger feeding s
func NewCronTrigger(s *Scheduler, logger *zap.Logger) *CronTrigger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CronTrigger{
		cron:      cron.New(cron.WithLocation(time.UTC), cron.WithLogger(cronLogger{logger.Sugar()})),
		scheduler: s,
		logger:    logger,
	}
}

// Schedule submits the named job on every tick of spec, a standard five
// field expression such as "0 3 * * *".
func (t *CronTrigger) Schedule(spec, name string) error {
	_, err := t.cron.AddFunc(spec, func() { t.fire(name) })
	if err != nil {
		return fmt.Errorf("schedule %s (%q): %w", name, spec, err)
	}
	t.logger.Info("Job scheduled", zap.String("job", name), zap.String("cron", spec))
	return nil
}

func (t *CronTrigger) fire(name string) {
	if _, err := t.scheduler.Submit(name); err != nil {
		t.logger.Warn("Cron tick dropped", zap.String("job", name), zap.Error(err))
	}
}

// Start begins firing schedules
func (t *CronTrigger) Start() {
	t.cron.Start()
}

// Stop stops firing and waits for a tick in progress to return
func (t *CronTrigger) Stop(ctx context.Context) error {
	done := t.cron.Stop()
	select {
	case <-done.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Next returns the next fire time of every schedule
func (t *CronTrigger) Next() []time.Time {
	entries := t.cron.Entries()
	out := make([]time.Time, len(entries))
	for i, e := range entries {
		out[i] = e.Schedule.Next(time.Now().UTC())
	}
	return out
}

// cronLogger routes cron's own messages to zap
type cronLogger struct {
	log *zap.SugaredLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.log.Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.log.Errorw(msg, append(keysAndValues, "error", err)...)
}
