package services

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/taskdesk/client/domain"
)

// Refresher is the cache-refresh entry point the sync machinery drives.
type Refresher interface {
	List(ctx context.Context) ([]domain.Task, error)
}

// SyncConfig controls signal coalescing.
type SyncConfig struct {
	// Debounce is how long to absorb a signal burst before refreshing.
	Debounce time.Duration
	// RefreshTimeout bounds a single refresh attempt.
	RefreshTimeout time.Duration
}

// SyncChannel turns an unordered, at-least-once stream of change signals
// into a bounded rate of cache refreshes. All signal kinds are treated
// identically; none carries enough identity to act selectively, so every
// signal means "refetch everything in scope".
//
// Coalescing: a single pending token. A signal either claims the token or
// finds it already claimed and is dropped; the eventual refresh reflects the
// union of all effects regardless of how many signals arrived. A signal
// landing while a refresh is in flight leaves exactly one more refresh
// scheduled behind it.
type SyncChannel struct {
	signals   <-chan domain.ChangeSignal
	refresher Refresher
	cfg       SyncConfig
	logger    *zap.Logger

	pending chan struct{}
	cancel  context.CancelFunc
	done    chan struct{}
	once    sync.Once
}

func NewSyncChannel(signals <-chan domain.ChangeSignal, refresher Refresher, cfg SyncConfig, logger *zap.Logger) *SyncChannel {
	if cfg.Debounce <= 0 {
		cfg.Debounce = 150 * time.Millisecond
	}
	if cfg.RefreshTimeout <= 0 {
		cfg.RefreshTimeout = 10 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SyncChannel{
		signals:   signals,
		refresher: refresher,
		cfg:       cfg,
		logger:    logger,
		pending:   make(chan struct{}, 1),
		done:      make(chan struct{}),
	}
}

// Start launches the intake and refresh loops. It must be called at most
// once, when a session becomes authenticated.
func (c *SyncChannel) Start(ctx context.Context) {
	ctx, c.cancel = context.WithCancel(ctx)

	go c.intake(ctx)
	go c.refreshLoop(ctx)
}

// Kick requests a refresh outside of any remote signal, e.g. a manual
// refresh in degraded mode. Subject to the same coalescing.
func (c *SyncChannel) Kick() {
	select {
	case c.pending <- struct{}{}:
	default:
	}
}

// Close tears the channel down and discards all pending state. In-flight
// refreshes are cancelled; their results will not be applied.
func (c *SyncChannel) Close() {
	c.once.Do(func() {
		if c.cancel != nil {
			c.cancel()
		}
		close(c.done)
	})
}

// Done is closed once Close has run.
func (c *SyncChannel) Done() <-chan struct{} {
	return c.done
}

func (c *SyncChannel) intake(ctx context.Context) {
	for {
		select {
		case signal, ok := <-c.signals:
			if !ok {
				return
			}
			c.logger.Debug("change signal received", zap.String("kind", string(signal.Kind)))
			c.Kick()
		case <-ctx.Done():
			return
		}
	}
}

func (c *SyncChannel) refreshLoop(ctx context.Context) {
	for {
		select {
		case <-c.pending:
		case <-ctx.Done():
			return
		}
		if ctx.Err() != nil {
			return
		}

		// Absorb the rest of the burst before refetching.
		timer := time.NewTimer(c.cfg.Debounce)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return
		}
		select {
		case <-c.pending:
		default:
		}

		c.refresh(ctx)
	}
}

func (c *SyncChannel) refresh(ctx context.Context) {
	rctx, cancel := context.WithTimeout(ctx, c.cfg.RefreshTimeout)
	defer cancel()

	if _, err := c.refresher.List(rctx); err != nil {
		// Not fatal: the next signal or reconciler sweep retries.
		c.logger.Warn("signal-triggered refresh failed", zap.Error(err))
		return
	}
	c.logger.Debug("cache refreshed from change signal")
}
