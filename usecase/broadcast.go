package usecase

import (
	"sync"

	"github.com/taskdesk/client/domain"
)

// SnapshotListener receives a full copy of the task cache after it changed.
type SnapshotListener func(tasks []domain.Task)

// Broadcaster fans cache snapshots out to named listeners. Listeners run on
// the publishing goroutine and must not block.
type Broadcaster struct {
	listeners map[string]SnapshotListener
	mu        sync.RWMutex
}

func NewBroadcaster() *Broadcaster {
	return &Broadcaster{
		listeners: make(map[string]SnapshotListener),
	}
}

// Subscribe registers a listener under a name, replacing any previous
// listener with the same name.
func (b *Broadcaster) Subscribe(name string, listener SnapshotListener) {
	if listener == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.listeners[name] = listener
}

// Unsubscribe removes a named listener.
func (b *Broadcaster) Unsubscribe(name string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.listeners, name)
}

// Publish delivers the snapshot to every registered listener.
func (b *Broadcaster) Publish(tasks []domain.Task) {
	b.mu.RLock()
	targets := make([]SnapshotListener, 0, len(b.listeners))
	for _, l := range b.listeners {
		targets = append(targets, l)
	}
	b.mu.RUnlock()

	for _, l := range targets {
		l(tasks)
	}
}
