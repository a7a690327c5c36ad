package page

import (
	"errors"
	"testing"

	"github.com/spiffcs/tunnelview/internal/tunnel"
)

func TestDecide(t *testing.T) {
	navErr := &LoadError{Kind: NavigationFailed, Err: errors.New("dns")}
	provErr := &LoadError{Kind: ProvisionalNavigationFailed, Err: errors.New("refused")}
	httpErr := &LoadError{Kind: HTTPError, StatusCode: 503, StatusMessage: "Service Unavailable"}

	notConnected := Decision{Message: MessageNotConnected, Buttons: []Button{ButtonClose}}
	connecting := Decision{Message: MessageConnecting, Buttons: []Button{ButtonClose}, Spinner: true}
	loading := Decision{Message: MessageLoading, Buttons: []Button{ButtonClose}, Spinner: true}
	failed := Decision{Message: MessageLoadFailed, Buttons: []Button{ButtonRetry, ButtonClose}}
	tryLater := Decision{Message: MessageLoadFailedTryLater, Buttons: []Button{ButtonClose}}

	loads := map[string]LoadStatus{
		"pending":     Pending(),
		"completed":   Completed(nil),
		"nav":         Completed(navErr),
		"provisional": Completed(provErr),
		"http":        Completed(httpErr),
	}

	type decideCase struct {
		name   string
		tunnel tunnel.Status
		load   string
		want   Decision
	}
	tests := []decideCase{
		{"connected pending", tunnel.Connected, "pending", loading},
		{"connected completed", tunnel.Connected, "completed", ContentDecision()},
		{"connected navigation failed", tunnel.Connected, "nav", failed},
		{"connected provisional failed", tunnel.Connected, "provisional", failed},
		{"connected http error", tunnel.Connected, "http", tryLater},
	}
	// Every non-connected status ignores the load status.
	for name := range loads {
		tests = append(tests,
			decideCase{"not connected " + name, tunnel.NotConnected, name, notConnected},
			decideCase{"connecting " + name, tunnel.Connecting, name, connecting},
			decideCase{"disconnecting " + name, tunnel.Disconnecting, name, notConnected},
		)
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Decide(tt.tunnel, loads[tt.load])
			if !got.Equal(tt.want) {
				t.Errorf("Decide(%v, %s) = %+v, want %+v", tt.tunnel, tt.load, got, tt.want)
			}
		})
	}
}

func TestMessagesText(t *testing.T) {
	m := Messages{MessageLoading: "Chargement..."}
	if got := m.Text(MessageLoading); got != "Chargement..." {
		t.Errorf("expected override, got %q", got)
	}
	if got := m.Text(MessageConnecting); got != DefaultMessages()[MessageConnecting] {
		t.Errorf("expected default fallback, got %q", got)
	}
}

func TestLoadErrorRetryable(t *testing.T) {
	if (&LoadError{Kind: HTTPError}).Retryable() {
		t.Error("http errors must not be retryable")
	}
	if !(&LoadError{Kind: NavigationFailed}).Retryable() {
		t.Error("navigation failures must be retryable")
	}
}

func TestLoadErrorUnwrap(t *testing.T) {
	cause := errors.New("connection reset")
	err := &LoadError{Kind: NavigationFailed, Err: cause}
	if !errors.Is(err, cause) {
		t.Error("expected LoadError to unwrap to its cause")
	}
}
