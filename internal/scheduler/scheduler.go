package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/robfig/cron/v3"
)

// Job is one pipeline run.
type Job func(ctx context.Context) error

// Scheduler re-runs a job at the fire times of a standard five-field cron
// expression. Runs never overlap: the next fire time is computed only after the
// previous run has returned.
type Scheduler struct {
	Expr     string
	Schedule cron.Schedule
	Clock    clockwork.Clock
	Log      *slog.Logger
}

// NewScheduler parses expr (for example "0 7 * * *").
func NewScheduler(expr string, clock clockwork.Clock, log *slog.Logger) (*Scheduler, error) {
	sched, err := cron.ParseStandard(expr)
	if err != nil {
		return nil, fmt.Errorf("parse schedule %q: %w", expr, err)
	}
	return &Scheduler{Expr: expr, Schedule: sched, Clock: clock, Log: log}, nil
}

// Next returns the first fire time strictly after the current clock time.
func (s *Scheduler) Next() time.Time {
	return s.Schedule.Next(s.Clock.Now())
}

// Run blocks until ctx is cancelled, invoking job at each fire time. A failed run
// is logged and the loop carries on.
func (s *Scheduler) Run(ctx context.Context, job Job) error {
	s.Log.Info("scheduler started", "schedule", s.Expr)
	defer s.Log.Info("scheduler stopped")

	for {
		next := s.Next()
		wait := next.Sub(s.Clock.Now())
		s.Log.Info("next run scheduled", "at", next.Format(time.RFC3339), "in", wait.Round(time.Second))

		select {
		case <-ctx.Done():
			return nil
		case <-s.Clock.After(wait):
		}

		if err := job(ctx); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			s.Log.Error("scheduled run failed", "err", err)
			continue
		}
		s.Log.Info("scheduled run finished")
	}
}
