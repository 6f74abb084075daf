// Package scheduler repeats pipeline runs on a fixed interval and records each run.
package scheduler

import (
	"context"
	"time"

	"go.uber.org/zap"

	"mlbstats/internal"
)

// Runner performs one full pipeline run.
type Runner interface {
	Run(ctx context.Context) internal.RunReport
}

// Recorder persists the outcome of a run.
type Recorder interface {
	InsertRun(ctx context.Context, report internal.RunReport) error
	SetMetadata(key, value string) error
}

const (
	MetaLastRun       = "scrape.last_run"
	MetaLastSucceeded = "scrape.last_succeeded"
)

type Service struct {
	runner   Runner
	recorder Recorder
	interval time.Duration
	log      *zap.Logger
	onCycle  func(internal.RunReport)
}

func NewService(runner Runner, recorder Recorder, interval time.Duration, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{runner: runner, recorder: recorder, interval: interval, log: log}
}

// OnCycle registers a callback invoked with every run's report.
func (s *Service) OnCycle(fn func(internal.RunReport)) {
	s.onCycle = fn
}

// Run starts a cycle immediately and then once per interval until ctx is cancelled. A failed
// cycle is logged and the next one still runs.
func (s *Service) Run(ctx context.Context) error {
	for {
		if err := s.RunCycle(ctx); err != nil {
			s.log.Error("scrape cycle error", zap.Error(err))
		}

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(s.interval):
		}
	}
}

// RunCycle performs one run and records it.
func (s *Service) RunCycle(ctx context.Context) error {
	report := s.runner.Run(ctx)
	if s.onCycle != nil {
		s.onCycle(report)
	}

	if err := Record(ctx, s.recorder, report); err != nil {
		return err
	}

	s.log.Info("scrape cycle done",
		zap.String("run", report.RunID),
		zap.Bool("failed", report.Failed()),
		zap.Int("categories", len(report.Categories)),
	)
	return nil
}

// Record stores the run report and updates the last-run markers. The success marker only moves
// when every category succeeded.
func Record(ctx context.Context, recorder Recorder, report internal.RunReport) error {
	if err := recorder.InsertRun(ctx, report); err != nil {
		return err
	}
	now := time.Now().UTC().Format(time.RFC3339)
	if err := recorder.SetMetadata(MetaLastRun, report.RunID+" "+now); err != nil {
		return err
	}
	if !report.Failed() {
		return recorder.SetMetadata(MetaLastSucceeded, report.RunID+" "+now)
	}
	return nil
}
