package usecase

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taskdesk/client/domain"
)

func TestBroadcasterFanOut(t *testing.T) {
	hub := NewBroadcaster()

	var first, second int
	hub.Subscribe("a", func([]domain.Task) { first++ })
	hub.Subscribe("b", func([]domain.Task) { second++ })

	hub.Publish([]domain.Task{{ID: "t-1"}})
	assert.Equal(t, 1, first)
	assert.Equal(t, 1, second)

	hub.Unsubscribe("a")
	hub.Publish(nil)
	assert.Equal(t, 1, first)
	assert.Equal(t, 2, second)
}

func TestBroadcasterReplacesByName(t *testing.T) {
	hub := NewBroadcaster()

	var old, replacement int
	hub.Subscribe("dashboard", func([]domain.Task) { old++ })
	hub.Subscribe("dashboard", func([]domain.Task) { replacement++ })

	hub.Publish(nil)
	assert.Zero(t, old)
	assert.Equal(t, 1, replacement)
}

func TestBroadcasterIgnoresNilListeners(t *testing.T) {
	hub := NewBroadcaster()
	hub.Subscribe("nil", nil)
	hub.Publish(nil)
}
