package services

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// APIHealth pings the remote API.
type APIHealth interface {
	Health(ctx context.Context) error
}

// PushState reports whether the push channel currently has a live connection.
type PushState interface {
	Connected() bool
}

// ConnectivityStatus is one observation of the client's two remote legs.
type ConnectivityStatus struct {
	API       bool      `json:"api"`
	Push      bool      `json:"push"`
	LastCheck time.Time `json:"last_check"`
}

// Monitor periodically samples API reachability and push-channel state. The
// reconciler consults it to decide whether fallback sweeps are needed.
type Monitor struct {
	api  APIHealth
	push PushState

	status   ConnectivityStatus
	mu       sync.RWMutex
	interval time.Duration
	stopCh   chan struct{}
	stopOnce sync.Once
	logger   *zap.Logger
}

func NewMonitor(api APIHealth, push PushState, interval time.Duration, logger *zap.Logger) *Monitor {
	if interval <= 0 {
		interval = 10 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Monitor{
		api:      api,
		push:     push,
		interval: interval,
		stopCh:   make(chan struct{}),
		logger:   logger,
	}
}

func (m *Monitor) Start() {
	go m.loop()
}

func (m *Monitor) Stop() {
	m.stopOnce.Do(func() {
		close(m.stopCh)
	})
}

// Live reports whether push notifications are currently flowing.
func (m *Monitor) Live() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.status.Push
}

func (m *Monitor) GetStatus() ConnectivityStatus {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.status
}

func (m *Monitor) loop() {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	m.refresh()
	for {
		select {
		case <-ticker.C:
			m.refresh()
		case <-m.stopCh:
			return
		}
	}
}

func (m *Monitor) refresh() {
	status := ConnectivityStatus{
		API:       m.checkAPI(),
		Push:      m.push != nil && m.push.Connected(),
		LastCheck: time.Now(),
	}

	m.mu.Lock()
	previous := m.status
	m.status = status
	m.mu.Unlock()

	if previous.Push && !status.Push {
		m.logger.Warn("live updates lost, relying on fallback sweeps")
	}
}

func (m *Monitor) checkAPI() bool {
	if m.api == nil {
		return false
	}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	return m.api.Health(ctx) == nil
}
