package services

import (
	"context"
	"fmt"
	"time"

	"github.com/SAP-F-2025/interview-session-service/internal/utils"
	"github.com/robfig/cron/v3"
)

// SchedulerConfig mirrors config.SchedulerConfig without importing it.
type SchedulerConfig struct {
	TickSchedule  string // e.g. "@every 1s"
	SweepSchedule string // e.g. "@every 5m"; empty disables eviction
}

// TickScheduler owns the periodic time source for every live session. The
// session controllers never run timers themselves.
type TickScheduler struct {
	sessions SessionService
	config   SchedulerConfig
	logger   utils.Logger
	cron     *cron.Cron
}

func NewTickScheduler(sessions SessionService, config SchedulerConfig, logger utils.Logger) *TickScheduler {
	cronLog := cronLogger{logger: logger}
	return &TickScheduler{
		sessions: sessions,
		config:   config,
		logger:   logger,
		cron: cron.New(
			cron.WithLogger(cronLog),
			cron.WithChain(cron.Recover(cronLog), cron.SkipIfStillRunning(cronLog)),
		),
	}
}

// Start registers the jobs and begins ticking.
func (t *TickScheduler) Start() error {
	t.logger.Info("Starting session tick scheduler",
		"tick_schedule", t.config.TickSchedule,
		"sweep_schedule", t.config.SweepSchedule)

	if _, err := t.cron.AddFunc(t.config.TickSchedule, t.tick); err != nil {
		return fmt.Errorf("failed to schedule session ticks: %w", err)
	}

	if t.config.SweepSchedule != "" {
		if _, err := t.cron.AddFunc(t.config.SweepSchedule, t.sweep); err != nil {
			return fmt.Errorf("failed to schedule session eviction: %w", err)
		}
	}

	t.cron.Start()
	return nil
}

// Stop halts ticking and waits for a tick in progress, bounded by ctx.
func (t *TickScheduler) Stop(ctx context.Context) {
	done := t.cron.Stop()
	select {
	case <-done.Done():
		t.logger.Info("Session tick scheduler stopped")
	case <-ctx.Done():
		t.logger.Warn("Session tick scheduler stop timed out")
	}
}

func (t *TickScheduler) tick() {
	t.sessions.TickAll(context.Background())
}

func (t *TickScheduler) sweep() {
	t.sessions.EvictExpired(context.Background(), time.Now())
}

// cronLogger adapts utils.Logger to cron.Logger.
type cronLogger struct {
	logger utils.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debug("cron: "+msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.LogError(err, "cron: "+msg, keysAndValues...)
}
