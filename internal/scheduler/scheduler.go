// Package scheduler runs the periodic due-date sweep.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/mtlprog/khomvg/internal/service"
)

const defaultRunTimeout = 5 * time.Minute

// Sweeper records overdue and reminder events for open tasks.
type Sweeper interface {
	SweepDueTasks(ctx context.Context) (service.SweepResult, error)
}

// Config controls the sweep schedule.
type Config struct {
	// Schedule is a cron spec ("*/15 * * * *") or descriptor ("@every 15m", "@daily").
	Schedule string
	// Location evaluates the schedule; nil means UTC.
	Location *time.Location
	// RunTimeout bounds a single sweep.
	RunTimeout time.Duration
}

// Scheduler drives a Sweeper from a cron schedule. Overlapping runs are skipped.
type Scheduler struct {
	cron    *cron.Cron
	sweeper Sweeper
	cfg     Config

	// ctx parents every sweep; Stop cancels it.
	ctx    context.Context
	cancel context.CancelFunc
}

// New creates a Scheduler. It fails when the schedule cannot be parsed.
func New(sweeper Sweeper, cfg Config) (*Scheduler, error) {
	if cfg.RunTimeout <= 0 {
		cfg.RunTimeout = defaultRunTimeout
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}

	log := cronLogger{}
	ctx, cancel := context.WithCancel(context.Background())
	s := &Scheduler{
		sweeper: sweeper,
		cfg:     cfg,
		ctx:     ctx,
		cancel:  cancel,
		cron: cron.New(
			cron.WithLocation(cfg.Location),
			cron.WithLogger(log),
			cron.WithChain(cron.Recover(log), cron.SkipIfStillRunning(log)),
		),
	}

	if _, err := s.cron.AddFunc(cfg.Schedule, s.run); err != nil {
		cancel()
		return nil, fmt.Errorf("parse sweep schedule %q: %w", cfg.Schedule, err)
	}

	return s, nil
}

func (s *Scheduler) run() {
	ctx, cancel := context.WithTimeout(s.ctx, s.cfg.RunTimeout)
	defer cancel()

	if _, err := s.sweeper.SweepDueTasks(ctx); err != nil {
		slog.Error("due-date sweep failed", "error", err)
	}
}

// Start launches the cron scheduler in the background.
func (s *Scheduler) Start() {
	s.cron.Start()
	slog.Info("sweep scheduler started", "schedule", s.cfg.Schedule, "location", s.cfg.Location.String())
}

// Stop stops the scheduler and waits for a running sweep. When ctx ends
// first the sweep is cancelled, and Stop still waits for it to return so
// callers can release the database afterwards.
func (s *Scheduler) Stop(ctx context.Context) {
	stopCtx := s.cron.Stop()
	select {
	case <-stopCtx.Done():
	case <-ctx.Done():
		slog.Warn("cancelling running sweep", "error", ctx.Err())
		s.cancel()
		<-stopCtx.Done()
	}
	s.cancel()
	slog.Info("sweep scheduler stopped")
}

// cronLogger routes cron's own logging through slog.
type cronLogger struct{}

func (cronLogger) Info(msg string, keysAndValues ...interface{}) {
	slog.Debug("cron: "+msg, keysAndValues...)
}

func (cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	slog.Error("cron: "+msg, append([]interface{}{"error", err}, keysAndValues...)...)
}
