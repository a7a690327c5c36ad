package page

import (
	"errors"
	"testing"

	"github.com/spiffcs/tunnelview/internal/tunnel"
)

func TestCoordinatorSuppressedWhileLeaving(t *testing.T) {
	loads := []LoadStatus{
		Pending(),
		Completed(nil),
		Completed(&LoadError{Kind: NavigationFailed}),
		Completed(&LoadError{Kind: HTTPError, StatusCode: 500}),
	}
	tunnels := []tunnel.Status{tunnel.NotConnected, tunnel.Connecting, tunnel.Disconnecting, tunnel.Connected}

	for _, lifecycle := range []Lifecycle{Disappearing, Gone} {
		surface := &fakeSurface{}
		renderer := &fakeRenderer{}
		c := NewCoordinator(surface, renderer, &memStore{}, func() Lifecycle { return lifecycle })

		for _, l := range loads {
			for _, tun := range tunnels {
				// The snapshot claims visible; the live field wins.
				c.OnObservedStateChanged(State{Load: l, Tunnel: tun, Lifecycle: Visible})
			}
		}
		if len(renderer.decisions) != 0 {
			t.Errorf("%v: expected no renders, got %d", lifecycle, len(renderer.decisions))
		}
	}
}

func TestCoordinatorRendersLiveLifecycle(t *testing.T) {
	renderer := &fakeRenderer{}
	c := NewCoordinator(&fakeSurface{}, renderer, &memStore{}, func() Lifecycle { return Visible })

	// A stale snapshot saying disappearing does not suppress a visible view.
	c.OnObservedStateChanged(State{Load: Completed(nil), Tunnel: tunnel.Connected, Lifecycle: Disappearing})
	d, ok := renderer.last()
	if !ok || !d.Content {
		t.Fatalf("expected content render, got %+v", renderer.decisions)
	}
}

func TestCoordinatorLoadingRegardlessOfPrior(t *testing.T) {
	priors := []State{
		{Load: Completed(nil), Tunnel: tunnel.Connected},
		{Load: Completed(&LoadError{Kind: HTTPError, StatusCode: 404}), Tunnel: tunnel.Connected},
		{Load: Pending(), Tunnel: tunnel.NotConnected},
		{Load: Completed(&LoadError{Kind: ProvisionalNavigationFailed}), Tunnel: tunnel.Connecting},
	}
	for _, prior := range priors {
		renderer := &fakeRenderer{}
		c := NewCoordinator(&fakeSurface{}, renderer, &memStore{}, func() Lifecycle { return Visible })

		c.OnObservedStateChanged(prior)
		c.OnObservedStateChanged(State{Load: Pending(), Tunnel: tunnel.Connected, Lifecycle: Visible})

		d, _ := renderer.last()
		if d.Content || d.Message != MessageLoading || !d.Spinner {
			t.Errorf("after %v/%v expected loading blocker with spinner, got %+v", prior.Tunnel, prior.Load, d)
		}
	}
}

func TestCoordinatorStartLoadResetsStatus(t *testing.T) {
	surface := &fakeSurface{}
	store := &memStore{status: Completed(&LoadError{Kind: NavigationFailed, Err: errors.New("x")})}
	c := NewCoordinator(surface, &fakeRenderer{}, store, func() Lifecycle { return Visible })

	c.StartLoad("https://example.com/")

	if !store.Load().IsPending() {
		t.Errorf("expected pending after StartLoad, got %v", store.Load())
	}
	if len(surface.loads) != 1 || surface.loads[0] != "https://example.com/" {
		t.Errorf("expected one load of the url, got %v", surface.loads)
	}
	if c.Navigation() != 1 {
		t.Errorf("expected navigation 1, got %d", c.Navigation())
	}
}

func TestCoordinatorRetry(t *testing.T) {
	surface := &fakeSurface{}
	store := &memStore{}
	c := NewCoordinator(surface, &fakeRenderer{}, store, func() Lifecycle { return Visible })

	c.Retry()
	if len(surface.loads) != 0 {
		t.Fatal("retry without a prior load must not load")
	}

	c.StartLoad("https://example.com/a")
	store.SetLoad(Completed(&LoadError{Kind: NavigationFailed, Err: errors.New("reset")}))

	c.Retry()
	if !store.Load().IsPending() {
		t.Errorf("expected pending after retry, got %v", store.Load())
	}
	if len(surface.loads) != 2 || surface.loads[1] != "https://example.com/a" {
		t.Errorf("expected reload of original url, got %v", surface.loads)
	}
}

func TestCoordinatorTunnelChangeStopsLoading(t *testing.T) {
	surface := &fakeSurface{}
	store := &memStore{}
	c := NewCoordinator(surface, &fakeRenderer{}, store, func() Lifecycle { return Visible })

	c.OnTunnelStatusChanged(tunnel.Connected)
	if surface.stops != 0 {
		t.Fatal("connected must not stop loading")
	}

	for i, s := range []tunnel.Status{tunnel.Disconnecting, tunnel.NotConnected, tunnel.Connecting} {
		c.OnTunnelStatusChanged(s)
		if surface.stops != i+1 {
			t.Errorf("after %v expected %d stops, got %d", s, i+1, surface.stops)
		}
	}
	if store.sets != 0 {
		t.Error("tunnel changes must not alter the load status")
	}
}
