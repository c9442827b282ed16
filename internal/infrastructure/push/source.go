// Package push maintains the websocket connection to the change-notification
// boundary and turns incoming frames into domain.ChangeSignal values.
package push

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/taskdesk/client/domain"
)

// Source dials the push endpoint and republishes its frames on a channel.
// Delivery is best-effort, at-least-once upstream and lossy here: when the
// consumer lags, signals are dropped, which is safe because every signal
// means the same thing ("refetch").
type Source struct {
	url     string
	dialer  *websocket.Dialer
	logger  *zap.Logger
	signals chan domain.ChangeSignal

	mu        sync.RWMutex
	connected bool
}

func NewSource(url string, logger *zap.Logger) *Source {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Source{
		url: url,
		dialer: &websocket.Dialer{
			HandshakeTimeout: 10 * time.Second,
		},
		logger:  logger,
		signals: make(chan domain.ChangeSignal, 16),
	}
}

// Signals returns the channel carrying decoded change signals. It is closed
// when Run returns.
func (s *Source) Signals() <-chan domain.ChangeSignal {
	return s.signals
}

// Connected reports whether a websocket connection is currently live.
func (s *Source) Connected() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.connected
}

// Run dials the push endpoint and pumps frames until ctx is cancelled,
// reconnecting with exponential backoff after every drop. The channel drop
// itself is not fatal; consumers keep operating in "no live updates" mode
// between connections.
func (s *Source) Run(ctx context.Context) {
	defer close(s.signals)

	bo := newDialBackoff()
	for {
		if ctx.Err() != nil {
			return
		}

		conn, _, err := s.dialer.DialContext(ctx, s.url, nil)
		if err != nil {
			delay := bo.NextBackOff()
			s.logger.Warn("push channel dial failed",
				zap.Error(err),
				zap.Duration("retry_in", delay))
			select {
			case <-time.After(delay):
				continue
			case <-ctx.Done():
				return
			}
		}

		bo.Reset()
		s.setConnected(true)
		s.logger.Info("push channel connected")
		s.pump(ctx, conn)
		s.setConnected(false)
	}
}

// pump reads frames until the connection breaks or ctx is cancelled.
func (s *Source) pump(ctx context.Context, conn *websocket.Conn) {
	defer conn.Close()

	// Unblock ReadMessage on cancellation.
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(time.Second))
			conn.Close()
		case <-done:
		}
	}()

	for {
		_, payload, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() == nil {
				s.logger.Warn("push channel dropped", zap.Error(err))
			}
			return
		}

		var signal domain.ChangeSignal
		if err := json.Unmarshal(payload, &signal); err != nil {
			s.logger.Debug("undecodable push frame skipped", zap.Error(err))
			continue
		}

		select {
		case s.signals <- signal:
		default:
			// Consumer is behind; the pending refresh already covers this.
		}
	}
}

func (s *Source) setConnected(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.connected = v
}

func newDialBackoff() *backoff.ExponentialBackOff {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 500 * time.Millisecond
	bo.MaxInterval = 30 * time.Second
	bo.Multiplier = 2
	return bo
}
