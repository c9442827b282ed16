package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/taskdesk/client/domain"
)

type fakeAPI struct {
	mu  sync.Mutex
	err error
}

func (f *fakeAPI) Health(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.err
}

func (f *fakeAPI) setErr(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.err = err
}

type fakePush struct {
	mu        sync.Mutex
	connected bool
}

func (f *fakePush) Connected() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.connected
}

func (f *fakePush) set(v bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.connected = v
}

func TestMonitorTracksBothLegs(t *testing.T) {
	api := &fakeAPI{}
	push := &fakePush{connected: true}
	m := NewMonitor(api, push, 20*time.Millisecond, nil)
	m.Start()
	defer m.Stop()

	assert.Eventually(t, func() bool {
		s := m.GetStatus()
		return s.API && s.Push
	}, 2*time.Second, 10*time.Millisecond)
	assert.True(t, m.Live())

	push.set(false)
	api.setErr(domain.ErrRemoteUnavailable)
	assert.Eventually(t, func() bool {
		s := m.GetStatus()
		return !s.API && !s.Push
	}, 2*time.Second, 10*time.Millisecond)
	assert.False(t, m.Live())
}

func TestMonitorStopIsIdempotent(t *testing.T) {
	m := NewMonitor(&fakeAPI{}, &fakePush{}, 10*time.Millisecond, nil)
	m.Start()
	m.Stop()
	m.Stop()
}
