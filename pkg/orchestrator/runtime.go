// Package orchestrator ties one search session together: the mutable state
// tree, the event bus that mutates it, and the handler table binding event
// types to state transitions. Control flow is always
// Emit -> handler -> state mutation -> change callback.
package orchestrator

import (
	"log"
	"sync/atomic"

	"patent-scout-be/pkg/events"
	"patent-scout-be/pkg/state"
)

// Runtime is the live, in-memory form of a search session.
type Runtime struct {
	Session *state.Session
	Bus     *events.Bus

	// persisted flips once the session has a durable record; autosave and
	// lifecycle publishing only apply after that.
	persisted atomic.Bool
}

// NewRuntime builds a session runtime and registers the standard handler
// table on its bus.
func NewRuntime(id string, logger *log.Logger) *Runtime {
	rt := &Runtime{
		Session: state.New(id),
		Bus:     events.NewBus(logger),
	}
	rt.registerHandlers()
	return rt
}

// Hydrate builds a runtime around a persisted snapshot.
func Hydrate(id string, snapshot []byte, logger *log.Logger) (*Runtime, error) {
	rt := NewRuntime(id, logger)
	if err := rt.Session.Load(snapshot); err != nil {
		return nil, err
	}
	rt.persisted.Store(true)
	return rt, nil
}

// ID returns the session identifier.
func (rt *Runtime) ID() string {
	return rt.Session.ID
}

// Emit publishes a domain event into this session's bus.
func (rt *Runtime) Emit(eventType string, payload map[string]interface{}) {
	rt.Bus.Emit(events.New(eventType, payload))
}

// Persisted reports whether the session has a durable record.
func (rt *Runtime) Persisted() bool {
	return rt.persisted.Load()
}

// MarkPersisted records that the session now has a durable record.
func (rt *Runtime) MarkPersisted() {
	rt.persisted.Store(true)
}
