package services

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// LiveState reports whether signal-driven refreshes are currently flowing.
type LiveState interface {
	Live() bool
}

// ReconcilerConfig controls the fallback sweep cadence.
type ReconcilerConfig struct {
	Interval       time.Duration
	RefreshTimeout time.Duration
}

// Reconciler periodically refetches the task cache while the push channel is
// down, so the client degrades to bounded staleness instead of unbounded.
// While live updates flow, sweeps are skipped.
type Reconciler struct {
	refresher Refresher
	live      LiveState
	logger    *zap.Logger
	cron      *cron.Cron
	cfg       ReconcilerConfig
}

func NewReconciler(refresher Refresher, live LiveState, cfg ReconcilerConfig, logger *zap.Logger) *Reconciler {
	if cfg.Interval <= 0 {
		cfg.Interval = 60 * time.Second
	}
	if cfg.RefreshTimeout <= 0 {
		cfg.RefreshTimeout = 10 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	r := &Reconciler{
		refresher: refresher,
		live:      live,
		logger:    logger,
		cfg:       cfg,
		cron:      cron.New(cron.WithSeconds()),
	}

	schedule := fmt.Sprintf("@every %ds", int(cfg.Interval.Seconds()))
	_, _ = r.cron.AddFunc(schedule, r.sweep)

	return r
}

// Start launches the cron scheduler.
func (r *Reconciler) Start() {
	if r == nil || r.cron == nil {
		return
	}
	r.cron.Start()
	r.logger.Info("reconciler started", zap.Duration("interval", r.cfg.Interval))
}

// Stop gracefully stops the scheduler.
func (r *Reconciler) Stop(ctx context.Context) {
	if r == nil || r.cron == nil {
		return
	}
	stopCtx := r.cron.Stop()
	select {
	case <-stopCtx.Done():
	case <-ctx.Done():
	}
	r.logger.Info("reconciler stopped")
}

func (r *Reconciler) sweep() {
	if r.live != nil && r.live.Live() {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), r.cfg.RefreshTimeout)
	defer cancel()

	if _, err := r.refresher.List(ctx); err != nil {
		r.logger.Warn("fallback sweep failed", zap.Error(err))
		return
	}
	r.logger.Debug("fallback sweep refreshed cache")
}
