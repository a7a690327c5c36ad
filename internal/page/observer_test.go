package page

import (
	"errors"
	"testing"

	"github.com/spiffcs/tunnelview/internal/tunnel"
)

func TestObserverSubscribeDeliversCurrent(t *testing.T) {
	o := NewObserver(State{Load: Pending(), Tunnel: tunnel.Connecting, Lifecycle: Visible})

	var got []State
	o.Subscribe(func(s State) { got = append(got, s) })

	if len(got) != 1 || got[0].Tunnel != tunnel.Connecting {
		t.Fatalf("expected current state on subscribe, got %v", got)
	}
}

func TestObserverSuppressesDuplicates(t *testing.T) {
	o := NewObserver(State{Load: Pending(), Tunnel: tunnel.NotConnected, Lifecycle: Visible})

	calls := 0
	o.Subscribe(func(State) { calls++ })

	o.SetTunnel(tunnel.NotConnected)
	o.SetLoad(Pending())
	o.SetLifecycle(Visible)
	if calls != 1 {
		t.Fatalf("expected identical triples to be dropped, got %d calls", calls)
	}

	o.SetTunnel(tunnel.Connected)
	o.SetTunnel(tunnel.Connected)
	if calls != 2 {
		t.Errorf("expected one dispatch per change, got %d", calls)
	}

	fail := Completed(&LoadError{Kind: NavigationFailed, Err: errors.New("x")})
	o.SetLoad(fail)
	o.SetLoad(fail)
	if calls != 3 {
		t.Errorf("expected same failure to dispatch once, got %d", calls)
	}

	// A distinct failure of the same kind is a new value.
	o.SetLoad(Completed(&LoadError{Kind: NavigationFailed, Err: errors.New("x")}))
	if calls != 4 {
		t.Errorf("expected new failure to dispatch, got %d", calls)
	}
}

func TestObserverChangeAndBackDispatchesBoth(t *testing.T) {
	o := NewObserver(State{Load: Pending(), Tunnel: tunnel.Connected, Lifecycle: Visible})

	var got []tunnel.Status
	o.Subscribe(func(s State) { got = append(got, s.Tunnel) })

	o.SetTunnel(tunnel.Disconnecting)
	o.SetTunnel(tunnel.Connected)

	want := []tunnel.Status{tunnel.Connected, tunnel.Disconnecting, tunnel.Connected}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("dispatch %d: expected %v, got %v", i, want[i], got[i])
		}
	}
}

func TestSubscriptionDispose(t *testing.T) {
	o := NewObserver(State{Load: Pending(), Tunnel: tunnel.NotConnected})

	calls := 0
	sub := o.Subscribe(func(State) { calls++ })
	sub.Dispose()
	sub.Dispose()

	o.SetTunnel(tunnel.Connected)
	if calls != 1 {
		t.Errorf("expected no dispatch after dispose, got %d calls", calls)
	}
	// State keeps tracking after dispose.
	if o.State().Tunnel != tunnel.Connected {
		t.Error("expected observer to keep latest value")
	}
}

func TestReplacedSubscriptionDisposeKeepsSuccessor(t *testing.T) {
	o := NewObserver(State{Load: Pending(), Tunnel: tunnel.NotConnected, Lifecycle: Visible})

	first := o.Subscribe(func(State) {})
	calls := 0
	second := o.Subscribe(func(State) { calls++ })

	first.Dispose()
	o.SetTunnel(tunnel.Connected)
	if calls != 2 {
		t.Fatalf("expected successor to keep receiving after stale dispose, got %d calls", calls)
	}

	second.Dispose()
	o.SetTunnel(tunnel.NotConnected)
	if calls != 2 {
		t.Errorf("expected no delivery after disposing the live subscription, got %d calls", calls)
	}
}
