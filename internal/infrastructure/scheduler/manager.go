// Package scheduler provides unified scheduler management using gocron v2.
package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"

	"ticketbot/internal/shared/logger"
)

// BatchJob defines the interface for a scheduled batch processing job.
// Each Execute call processes a batch and returns the number of items processed.
type BatchJob interface {
	Execute(ctx context.Context) (int, error)
}

// CatalogRefresher triggers the challenge catalog refresh plus helper sync.
type CatalogRefresher interface {
	RefreshChallenges(ctx context.Context, guildID string) error
}

// SchedulerManager manages all scheduled jobs using gocron v2.
type SchedulerManager struct {
	scheduler gocron.Scheduler
	logger    logger.Interface

	started   bool
	startedMu sync.RWMutex
}

// NewSchedulerManager creates a new SchedulerManager instance.
func NewSchedulerManager(log logger.Interface) (*SchedulerManager, error) {
	scheduler, err := gocron.NewScheduler(
		gocron.WithLocation(time.UTC),
	)
	if err != nil {
		return nil, err
	}

	return &SchedulerManager{
		scheduler: scheduler,
		logger:    log,
	}, nil
}

// RegisterAutoCloseJob registers the inactivity sweep on the given cron
// expression (hourly by default). Singleton mode keeps a slow sweep from
// overlapping the next tick.
func (m *SchedulerManager) RegisterAutoCloseJob(cronExpr string, sweep BatchJob) error {
	_, err := m.scheduler.NewJob(
		gocron.CronJob(cronExpr, false),
		gocron.NewTask(func() {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
			defer cancel()
			m.runSweep(ctx, sweep)
		}),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithTags("tickets", "autoclose"),
		gocron.WithName("ticket-autoclose"),
	)
	if err != nil {
		return err
	}

	m.logger.Infow("registered autoclose job", "cron", cronExpr)
	return nil
}

func (m *SchedulerManager) runSweep(ctx context.Context, sweep BatchJob) {
	m.logger.Debugw("inactivity sweep started")

	startTime := time.Now()
	acted, err := sweep.Execute(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		m.logger.Errorw("inactivity sweep failed",
			"error", err,
			"duration", time.Since(startTime),
		)
		return
	}

	if acted > 0 {
		m.logger.Infow("inactivity sweep completed",
			"acted", acted,
			"duration", time.Since(startTime),
		)
	} else {
		m.logger.Debugw("inactivity sweep found nothing to do",
			"duration", time.Since(startTime),
		)
	}
}

// RegisterCatalogRefreshJob registers the periodic challenge catalog refresh
// for one guild. Runs immediately at startup so the catalog is usable before
// the first cron tick.
func (m *SchedulerManager) RegisterCatalogRefreshJob(cronExpr, guildID string, refresher CatalogRefresher) error {
	_, err := m.scheduler.NewJob(
		gocron.CronJob(cronExpr, false),
		gocron.NewTask(func() {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
			defer cancel()
			m.runRefresh(ctx, guildID, refresher)
		}),
		gocron.WithStartAt(gocron.WithStartImmediately()),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithTags("challenges", "refresh"),
		gocron.WithName("challenge-refresh"),
	)
	if err != nil {
		return err
	}

	m.logger.Infow("registered catalog refresh job", "cron", cronExpr, "guild_id", guildID)
	return nil
}

func (m *SchedulerManager) runRefresh(ctx context.Context, guildID string, refresher CatalogRefresher) {
	m.logger.Debugw("catalog refresh started", "guild_id", guildID)

	startTime := time.Now()
	if err := refresher.RefreshChallenges(ctx, guildID); err != nil {
		if ctx.Err() != nil {
			return
		}
		m.logger.Errorw("catalog refresh failed",
			"guild_id", guildID,
			"error", err,
			"duration", time.Since(startTime),
		)
		return
	}

	m.logger.Infow("catalog refresh completed",
		"guild_id", guildID,
		"duration", time.Since(startTime),
	)
}

// Start starts the scheduler and all registered jobs.
func (m *SchedulerManager) Start() {
	m.startedMu.Lock()
	defer m.startedMu.Unlock()

	if m.started {
		return
	}

	m.scheduler.Start()
	m.started = true
	m.logger.Infow("scheduler manager started", "job_count", len(m.scheduler.Jobs()))
}

// Stop gracefully stops the scheduler.
// It waits for all running jobs to complete before returning.
func (m *SchedulerManager) Stop() error {
	m.startedMu.Lock()
	defer m.startedMu.Unlock()

	if !m.started {
		return nil
	}

	m.logger.Infow("stopping scheduler manager")

	err := m.scheduler.Shutdown()
	m.started = false

	if err != nil {
		m.logger.Errorw("scheduler manager shutdown with error", "error", err)
		return err
	}

	m.logger.Infow("scheduler manager stopped")
	return nil
}

// IsStarted returns whether the scheduler is running.
func (m *SchedulerManager) IsStarted() bool {
	m.startedMu.RLock()
	defer m.startedMu.RUnlock()
	return m.started
}

// Jobs returns all registered jobs for inspection.
func (m *SchedulerManager) Jobs() []gocron.Job {
	return m.scheduler.Jobs()
}
