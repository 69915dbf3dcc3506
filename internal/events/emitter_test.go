package events

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/catapult-run/catapult/internal/domain"
)

func ev(t domain.EventType) domain.Event {
	return domain.Event{Type: t, Level: domain.LevelInfo, Timestamp: time.Now()}
}

func TestEmitDeliversToSpecificThenAnyHandlers(t *testing.T) {
	e := NewEmitter()
	var order []string
	e.On(domain.EventRunStarted, func(domain.Event) { order = append(order, "specific") })
	e.OnAny(func(domain.Event) { order = append(order, "any") })

	e.Emit(ev(domain.EventRunStarted))

	assert.Equal(t, []string{"specific", "any"}, order)
}

func TestOffRemovesOnlyTheGivenHandler(t *testing.T) {
	e := NewEmitter()
	var aCalls, bCalls int
	handlerA := func(domain.Event) { aCalls++ }
	handlerB := func(domain.Event) { bCalls++ }

	e.On(domain.EventRunStarted, handlerA)
	e.On(domain.EventRunStarted, handlerB)

	e.Off(domain.EventRunStarted, handlerA)
	e.Emit(ev(domain.EventRunStarted))

	assert.Equal(t, 0, aCalls, "handlerA was unsubscribed and must not fire")
	assert.Equal(t, 1, bCalls, "handlerB remains subscribed")
}

func TestOffOfUnregisteredHandlerIsANoop(t *testing.T) {
	e := NewEmitter()
	called := false
	e.On(domain.EventRunStarted, func(domain.Event) { called = true })

	e.Off(domain.EventRunStarted, func(domain.Event) {})
	e.Emit(ev(domain.EventRunStarted))

	assert.True(t, called)
}

func TestRemoveAllDropsSpecificAndAnyHandlers(t *testing.T) {
	e := NewEmitter()
	calls := 0
	e.On(domain.EventRunStarted, func(domain.Event) { calls++ })
	e.OnAny(func(domain.Event) { calls++ })

	e.RemoveAll()
	e.Emit(ev(domain.EventRunStarted))

	assert.Equal(t, 0, calls)
}

func TestEmitPanicsOnDeepReentrancy(t *testing.T) {
	e := NewEmitter()
	var depth int
	e.On(domain.EventRunStarted, func(domain.Event) {
		depth++
		if depth <= 9 {
			e.Emit(ev(domain.EventRunStarted))
		}
	})

	require.Panics(t, func() { e.Emit(ev(domain.EventRunStarted)) })
}
