package page

import (
	"github.com/spiffcs/tunnelview/internal/log"
	"github.com/spiffcs/tunnelview/internal/tunnel"
)

// HostOption is a functional option for configuring a Host.
type HostOption func(*Host)

// WithConnection sets the point-in-time tunnel connection reader used for
// navigation action queries.
func WithConnection(fn func() *tunnel.Connection) HostOption {
	return func(h *Host) {
		h.connection = fn
	}
}

// WithDismiss sets the callback run when the user presses Close.
func WithDismiss(fn func()) HostOption {
	return func(h *Host) {
		h.onDismiss = fn
	}
}

// Host wires the observer, gate and coordinator together and is the single
// entry point for the UI goroutine.
type Host struct {
	observer    *Observer
	gate        *Gate
	coordinator *Coordinator
	surface     Surface
	sub         *Subscription
	connection  func() *tunnel.Connection
	onDismiss   func()
	dismissed   bool
	blocked     NavigationID
	guard       confinement
	log         *log.Scoped
}

// NewHost creates a host for surface, rendering to renderer. initial is the
// tunnel status at creation time.
func NewHost(surface Surface, renderer Renderer, initial tunnel.Status, opts ...HostOption) *Host {
	observer := NewObserver(State{Load: Pending(), Tunnel: initial, Lifecycle: NotShown})
	h := &Host{
		observer:   observer,
		gate:       NewGate(observer),
		surface:    surface,
		connection: func() *tunnel.Connection { return nil },
		log:        log.With("component", "host"),
	}
	h.coordinator = NewCoordinator(surface, renderer, observer, observer.Lifecycle)
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// State returns the current combined state.
func (h *Host) State() State { return h.observer.State() }

// Coordinator returns the host's coordinator.
func (h *Host) Coordinator() *Coordinator { return h.coordinator }

// Dismissed reports whether the view has been dismissed.
func (h *Host) Dismissed() bool { return h.dismissed }

// Show makes the view visible, subscribes the coordinator and loads url.
func (h *Host) Show(url string) {
	defer h.guard.enter("Show")()

	if h.dismissed || h.sub != nil {
		return
	}
	h.observer.SetLifecycle(Visible)
	h.sub = h.observer.Subscribe(h.coordinator.OnObservedStateChanged)
	h.coordinator.StartLoad(url)
}

// Navigate loads url in the visible view, e.g. when the user follows a
// link. It is ignored before Show and after dismissal.
func (h *Host) Navigate(url string) {
	defer h.guard.enter("Navigate")()

	if h.dismissed || h.sub == nil {
		return
	}
	h.coordinator.StartLoad(url)
}

// Handle applies one event. Events from a superseded navigation are
// dropped, and their policy queries are cancelled.
func (h *Host) Handle(e Event) {
	defer h.guard.enter("Handle")()

	switch e := e.(type) {
	case TunnelStatusEvent:
		if e.Status == h.observer.State().Tunnel {
			return
		}
		h.log.Info("tunnel status", "status", e.Status)
		h.coordinator.OnTunnelStatusChanged(e.Status)
		if e.Status == tunnel.Connected && h.resumable() {
			h.log.Info("tunnel connected, resuming blocked load", "url", h.coordinator.URL())
			h.blocked = 0
			h.coordinator.Retry()
		}
		h.observer.SetTunnel(e.Status)

	case NavigationActionEvent:
		if h.dismissed || !h.current(e.Navigation) {
			reply(e.Reply, PolicyCancel)
			return
		}
		p := h.gate.OnNavigationAction(h.connection())
		h.log.Debug("navigation action", "url", e.URL, "policy", p)
		if p == PolicyCancel {
			h.blocked = e.Navigation
		}
		reply(e.Reply, p)

	case NavigationResponseEvent:
		if h.dismissed || !h.current(e.Navigation) {
			reply(e.Reply, PolicyCancel)
			return
		}
		p := h.gate.OnNavigationResponse(e.StatusCode)
		h.log.Debug("navigation response", "url", e.URL, "status", e.StatusCode, "policy", p)
		reply(e.Reply, p)

	case NavigationFailedEvent:
		if h.current(e.Navigation) {
			h.gate.OnNavigationFailed(e.Err)
		}

	case ProvisionalNavigationFailedEvent:
		if h.current(e.Navigation) {
			h.gate.OnProvisionalNavigationFailed(e.Err)
		}

	case LoadFinishedEvent:
		if h.current(e.Navigation) {
			h.gate.OnLoadFinished()
		}

	default:
		h.log.Warn("unknown event", "type", e)
	}
}

// resumable reports whether the current navigation was refused by the gate
// and the view is still showing.
func (h *Host) resumable() bool {
	return !h.dismissed && h.sub != nil && h.blocked != 0 && h.blocked == h.coordinator.Navigation()
}

func (h *Host) current(id NavigationID) bool {
	if id != h.coordinator.Navigation() {
		h.log.Trace("dropping event for superseded navigation", "navigation", id)
		return false
	}
	return true
}

// Press handles a blocker button.
func (h *Host) Press(b Button) {
	defer h.guard.enter("Press")()

	if h.dismissed {
		return
	}
	switch b {
	case ButtonRetry:
		h.coordinator.Retry()
	case ButtonClose:
		h.dismiss()
		if h.onDismiss != nil {
			h.onDismiss()
		}
	}
}

// Dismiss begins tearing the view down: no further decisions are applied
// and the surface stops loading.
func (h *Host) Dismiss() {
	defer h.guard.enter("Dismiss")()
	h.dismiss()
}

func (h *Host) dismiss() {
	if h.dismissed {
		return
	}
	h.dismissed = true
	h.observer.SetLifecycle(Disappearing)
	if h.sub != nil {
		h.sub.Dispose()
	}
	h.surface.StopLoading()
}

// Close marks the view gone. It dismisses first if needed.
func (h *Host) Close() {
	defer h.guard.enter("Close")()
	h.dismiss()
	h.observer.SetLifecycle(Gone)
}
