package page

import (
	"sync"

	"github.com/spiffcs/tunnelview/internal/tunnel"
)

// State is the combined input of a display decision.
type State struct {
	Load      LoadStatus
	Tunnel    tunnel.Status
	Lifecycle Lifecycle
}

// Equal compares two states.
func (s State) Equal(o State) bool {
	return s.Load.Equal(o.Load) && s.Tunnel == o.Tunnel && s.Lifecycle == o.Lifecycle
}

// Observer holds the latest load, tunnel and lifecycle values and dispatches
// the combined state to a single listener whenever it differs from the last
// dispatched one. It must only be used from the UI goroutine.
type Observer struct {
	state      State
	last       State
	dispatched bool
	listener   func(State)
	generation uint64
}

// NewObserver creates an observer with an initial state.
func NewObserver(initial State) *Observer {
	return &Observer{state: initial}
}

// State returns the latest combined state.
func (o *Observer) State() State { return o.state }

// Load returns the current load status.
func (o *Observer) Load() LoadStatus { return o.state.Load }

// Lifecycle returns the current lifecycle status. It is the field itself,
// not a dispatched snapshot.
func (o *Observer) Lifecycle() Lifecycle { return o.state.Lifecycle }

// SetLoad updates the load status.
func (o *Observer) SetLoad(s LoadStatus) {
	o.state.Load = s
	o.dispatch()
}

// SetTunnel updates the tunnel status.
func (o *Observer) SetTunnel(s tunnel.Status) {
	o.state.Tunnel = s
	o.dispatch()
}

// SetLifecycle updates the lifecycle status.
func (o *Observer) SetLifecycle(l Lifecycle) {
	o.state.Lifecycle = l
	o.dispatch()
}

func (o *Observer) dispatch() {
	if o.listener == nil {
		return
	}
	if o.dispatched && o.state.Equal(o.last) {
		return
	}
	o.last = o.state
	o.dispatched = true
	o.listener(o.state)
}

// Subscription is the handle returned by Subscribe.
type Subscription struct {
	once       sync.Once
	observer   *Observer
	generation uint64
}

// Subscribe registers fn as the only listener and delivers the current state
// immediately. A previous listener is replaced.
func (o *Observer) Subscribe(fn func(State)) *Subscription {
	o.generation++
	o.listener = fn
	o.dispatched = false
	o.dispatch()
	return &Subscription{observer: o, generation: o.generation}
}

// Dispose stops delivery. Only the first call has an effect, and a
// subscription that was replaced leaves its successor alone.
func (s *Subscription) Dispose() {
	s.once.Do(func() {
		if s.observer.generation == s.generation {
			s.observer.listener = nil
		}
	})
}
