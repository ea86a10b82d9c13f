package backup

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// Scheduler runs snapshots on a cron schedule.
type Scheduler struct {
	cron *cron.Cron
	spec string
}

// cronLogger forwards cron's logr-style calls to slog.
type cronLogger struct{}

func (cronLogger) Info(msg string, keysAndValues ...interface{}) {
	slog.Debug("cron: "+msg, keysAndValues...)
}

func (cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	slog.Error("cron: "+msg, append([]interface{}{"error", err}, keysAndValues...)...)
}

// Schedule registers s on spec (standard five-field cron syntax or
// descriptors such as "@daily"), evaluated in loc. The scheduler is not
// started.
func Schedule(spec string, loc *time.Location, s *Snapshotter) (*Scheduler, error) {
	if loc == nil {
		loc = time.Local
	}
	logger := cronLogger{}
	c := cron.New(
		cron.WithLocation(loc),
		cron.WithLogger(logger),
		cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)),
	)
	if _, err := c.AddFunc(spec, func() {
		if _, err := s.Snapshot(context.Background()); err != nil {
			slog.Error("Scheduled snapshot failed", "error", err)
		}
	}); err != nil {
		return nil, fmt.Errorf("invalid backup schedule %q: %w", spec, err)
	}
	return &Scheduler{cron: c, spec: spec}, nil
}

// Run starts the scheduler and blocks until ctx is done, then waits for a
// running snapshot to finish.
func (s *Scheduler) Run(ctx context.Context) error {
	s.cron.Start()
	slog.Info("Snapshot schedule started", "schedule", s.spec)

	<-ctx.Done()
	<-s.cron.Stop().Done()
	slog.Info("Snapshot schedule stopped")
	return nil
}

// Next returns the next planned run, or the zero time before Run.
func (s *Scheduler) Next() time.Time {
	entries := s.cron.Entries()
	if len(entries) == 0 {
		return time.Time{}
	}
	return entries[0].Next
}
