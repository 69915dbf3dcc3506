// Package events implements the structured pub/sub event bus described by
// the Event Emitter component: FIFO delivery to per-type and "any" handlers,
// single-threaded with respect to one publisher.
package events

import (
	"reflect"
	"sync"
	"time"

	"github.com/catapult-run/catapult/internal/domain"
)

// Handler receives one published event. A handler must not call Emit
// re-entrantly for the event type it is currently handling.
type Handler func(domain.Event)

// Emitter is a synchronous, single-process event bus.
type Emitter struct {
	mu       sync.Mutex
	handlers map[domain.EventType][]Handler
	any      []Handler
	depth    map[domain.EventType]int
}

func NewEmitter() *Emitter {
	return &Emitter{
		handlers: make(map[domain.EventType][]Handler),
		depth:    make(map[domain.EventType]int),
	}
}

// On subscribes handler to a single event type.
func (e *Emitter) On(t domain.EventType, h Handler) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.handlers[t] = append(e.handlers[t], h)
}

// OnAny subscribes handler to every event type.
func (e *Emitter) OnAny(h Handler) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.any = append(e.any, h)
}

// Off unsubscribes handler from t. Handlers are matched by underlying code
// pointer (reflect.ValueOf(h).Pointer()), so pass the same Handler value
// given to On — a second closure literal with identical behavior will not
// match. Unregistered handlers are a no-op.
func (e *Emitter) Off(t domain.EventType, h Handler) {
	e.mu.Lock()
	defer e.mu.Unlock()

	target := reflect.ValueOf(h).Pointer()
	kept := e.handlers[t][:0]
	for _, existing := range e.handlers[t] {
		if reflect.ValueOf(existing).Pointer() != target {
			kept = append(kept, existing)
		}
	}
	e.handlers[t] = kept
}

// RemoveAll drops every subscriber.
func (e *Emitter) RemoveAll() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.handlers = make(map[domain.EventType][]Handler)
	e.any = nil
}

// Emit stamps event with the current time, then delivers it to its
// type-specific subscribers and then to the any-event subscribers, in
// registration order. Delivery is synchronous: Emit returns only after every
// handler has run. A panicking handler does not stop the remaining
// handlers; the first panic is re-raised once every handler has run.
func (e *Emitter) Emit(event domain.Event) {
	event.Timestamp = time.Now()
	e.mu.Lock()
	if e.depth[event.Type] > 8 {
		e.mu.Unlock()
		panic("events: re-entrant Emit for type " + string(event.Type))
	}
	e.depth[event.Type]++
	specific := append([]Handler(nil), e.handlers[event.Type]...)
	any := append([]Handler(nil), e.any...)
	e.mu.Unlock()

	defer func() {
		e.mu.Lock()
		e.depth[event.Type]--
		e.mu.Unlock()
	}()

	var firstPanic interface{} // "any" is shadowed by the handler slice above
	call := func(h Handler) {
		defer func() {
			if rec := recover(); rec != nil && firstPanic == nil {
				firstPanic = rec
			}
		}()
		h(event)
	}
	for _, h := range specific {
		call(h)
	}
	for _, h := range any {
		call(h)
	}
	if firstPanic != nil {
		panic(firstPanic)
	}
}
