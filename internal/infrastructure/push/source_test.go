package push

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskdesk/client/domain"
)

type fakePushServer struct {
	server   *httptest.Server
	upgrader websocket.Upgrader

	mu    sync.Mutex
	conns []*websocket.Conn
}

func newFakePushServer(t *testing.T) *fakePushServer {
	t.Helper()
	s := &fakePushServer{}
	s.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := s.upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		s.mu.Lock()
		s.conns = append(s.conns, conn)
		s.mu.Unlock()
		// Hold the connection open; frames are pushed from the test body.
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
	t.Cleanup(s.server.Close)
	return s
}

func (s *fakePushServer) url() string {
	return "ws" + strings.TrimPrefix(s.server.URL, "http")
}

func (s *fakePushServer) emit(t *testing.T, payload string) {
	t.Helper()
	s.mu.Lock()
	defer s.mu.Unlock()
	require.NotEmpty(t, s.conns)
	conn := s.conns[len(s.conns)-1]
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(payload)))
}

func (s *fakePushServer) dropAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, conn := range s.conns {
		conn.Close()
	}
	s.conns = nil
}

func (s *fakePushServer) connCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.conns)
}

func TestSourceDeliversSignals(t *testing.T) {
	server := newFakePushServer(t)
	source := NewSource(server.url(), nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go source.Run(ctx)

	require.Eventually(t, source.Connected, 3*time.Second, 10*time.Millisecond)

	server.emit(t, `{"kind":"created"}`)
	select {
	case signal := <-source.Signals():
		assert.Equal(t, domain.SignalCreated, signal.Kind)
	case <-time.After(3 * time.Second):
		t.Fatal("signal never arrived")
	}

	server.emit(t, `not json`)
	server.emit(t, `{"kind":"deleted"}`)
	select {
	case signal := <-source.Signals():
		assert.Equal(t, domain.SignalDeleted, signal.Kind, "undecodable frames are skipped")
	case <-time.After(3 * time.Second):
		t.Fatal("signal never arrived")
	}
}

func TestSourceReconnectsAfterDrop(t *testing.T) {
	server := newFakePushServer(t)
	source := NewSource(server.url(), nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go source.Run(ctx)

	require.Eventually(t, source.Connected, 3*time.Second, 10*time.Millisecond)
	server.dropAll()

	require.Eventually(t, func() bool {
		return source.Connected() && server.connCount() == 1
	}, 5*time.Second, 10*time.Millisecond, "source should dial again after the drop")

	server.emit(t, `{"kind":"updated"}`)
	select {
	case signal := <-source.Signals():
		assert.Equal(t, domain.SignalUpdated, signal.Kind)
	case <-time.After(3 * time.Second):
		t.Fatal("signal never arrived after reconnect")
	}
}

func TestSourceStopsOnCancel(t *testing.T) {
	server := newFakePushServer(t)
	source := NewSource(server.url(), nil)

	ctx, cancel := context.WithCancel(context.Background())
	go source.Run(ctx)
	require.Eventually(t, source.Connected, 3*time.Second, 10*time.Millisecond)

	cancel()
	require.Eventually(t, func() bool {
		select {
		case _, ok := <-source.Signals():
			return !ok
		default:
			return false
		}
	}, 3*time.Second, 10*time.Millisecond, "signal channel closes on teardown")
	assert.False(t, source.Connected())
}
