package page

import (
	"context"

	"github.com/spiffcs/tunnelview/internal/tunnel"
)

// Event is the interface for everything delivered to the UI goroutine.
type Event interface {
	isEvent()
}

// NavigationActionEvent asks whether a navigation to URL may proceed.
// Reply must be buffered; the host never blocks on it.
type NavigationActionEvent struct {
	Navigation NavigationID
	URL        string
	Reply      chan<- Policy
}

func (NavigationActionEvent) isEvent() {}

// NavigationResponseEvent asks whether a response may be displayed.
type NavigationResponseEvent struct {
	Navigation NavigationID
	URL        string
	StatusCode int
	Reply      chan<- Policy
}

func (NavigationResponseEvent) isEvent() {}

// NavigationFailedEvent reports a failure after the navigation committed.
type NavigationFailedEvent struct {
	Navigation NavigationID
	Err        error
}

func (NavigationFailedEvent) isEvent() {}

// ProvisionalNavigationFailedEvent reports a failure before a response.
type ProvisionalNavigationFailedEvent struct {
	Navigation NavigationID
	Err        error
}

func (ProvisionalNavigationFailedEvent) isEvent() {}

// LoadFinishedEvent reports a completed load.
type LoadFinishedEvent struct {
	Navigation NavigationID
}

func (LoadFinishedEvent) isEvent() {}

// TunnelStatusEvent carries a tunnel status change.
type TunnelStatusEvent struct {
	Status tunnel.Status
}

func (TunnelStatusEvent) isEvent() {}

// Send delivers e on ch, giving up when ctx is done. It reports whether the
// event was delivered.
func Send(ctx context.Context, ch chan<- Event, e Event) bool {
	if ch == nil {
		return false
	}
	select {
	case ch <- e:
		return true
	case <-ctx.Done():
		return false
	}
}

// reply answers a policy query without blocking.
func reply(ch chan<- Policy, p Policy) {
	if ch == nil {
		return
	}
	select {
	case ch <- p:
	default:
	}
}

// ForwardTunnel relays the current status of src, then every distinct
// change, as TunnelStatusEvents until ctx is done. The current value covers
// changes published before the subscription; the Host drops repeats.
func ForwardTunnel(ctx context.Context, src tunnel.Source, ch chan<- Event) error {
	cancel := src.Subscribe(func(s tunnel.Status) {
		Send(ctx, ch, TunnelStatusEvent{Status: s})
	})
	defer cancel()

	Send(ctx, ch, TunnelStatusEvent{Status: src.Current()})

	<-ctx.Done()
	return nil
}
