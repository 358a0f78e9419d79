// internal/common/notify/hub_test.go
package notify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHub_PublishSubscribe(t *testing.T) {
	hub := NewHub[int](4)
	a, cancelA := hub.Subscribe()
	b, cancelB := hub.Subscribe()
	defer cancelB()

	hub.Publish(1)
	hub.Publish(2)

	assert.Equal(t, 1, <-a)
	assert.Equal(t, 2, <-a)
	assert.Equal(t, 1, <-b)
	assert.Equal(t, 2, <-b)

	cancelA()
	_, ok := <-a
	assert.False(t, ok)
	assert.Equal(t, 1, hub.Subscribers())

	// cancel is idempotent
	assert.NotPanics(t, cancelA)
}

func TestHub_DropsSlowSubscriber(t *testing.T) {
	hub := NewHub[string](1)
	slow, _ := hub.Subscribe()

	hub.Publish("first")
	hub.Publish("second")

	assert.Equal(t, 0, hub.Subscribers())
	v, ok := <-slow
	require.True(t, ok)
	assert.Equal(t, "first", v)
	_, ok = <-slow
	assert.False(t, ok)
}

func TestHub_Close(t *testing.T) {
	hub := NewHub[int](0)
	ch, cancel := hub.Subscribe()
	hub.Close()

	_, ok := <-ch
	assert.False(t, ok)
	assert.NotPanics(t, cancel)

	late, _ := hub.Subscribe()
	_, ok = <-late
	assert.False(t, ok)
}
