package page

import (
	"github.com/spiffcs/tunnelview/internal/tunnel"
)

// MessageID identifies a blocker message.
type MessageID int

const (
	MessageNone MessageID = iota
	MessageNotConnected
	MessageConnecting
	MessageLoading
	MessageLoadFailed
	MessageLoadFailedTryLater
)

// Button is an action offered on the blocker view.
type Button int

const (
	ButtonRetry Button = iota
	ButtonClose
)

func (b Button) String() string {
	if b == ButtonRetry {
		return "Retry"
	}
	return "Close"
}

// Decision is what the surface shows: the content, or a blocker with a
// message, buttons and an optional spinner.
type Decision struct {
	Content bool
	Message MessageID
	Buttons []Button
	Spinner bool
}

// Equal compares two decisions field by field.
func (d Decision) Equal(o Decision) bool {
	if d.Content != o.Content || d.Message != o.Message || d.Spinner != o.Spinner {
		return false
	}
	if len(d.Buttons) != len(o.Buttons) {
		return false
	}
	for i := range d.Buttons {
		if d.Buttons[i] != o.Buttons[i] {
			return false
		}
	}
	return true
}

// HasButton reports whether b is offered.
func (d Decision) HasButton(b Button) bool {
	for _, x := range d.Buttons {
		if x == b {
			return true
		}
	}
	return false
}

// ContentDecision shows the page itself.
func ContentDecision() Decision {
	return Decision{Content: true}
}

func blocker(msg MessageID, spinner bool, buttons ...Button) Decision {
	return Decision{Message: msg, Buttons: buttons, Spinner: spinner}
}

// Decide maps tunnel and load status to a decision.
func Decide(t tunnel.Status, load LoadStatus) Decision {
	switch t {
	case tunnel.Connecting:
		return blocker(MessageConnecting, true, ButtonClose)
	case tunnel.Connected:
		return decideConnected(load)
	default:
		// NotConnected, Disconnecting
		return blocker(MessageNotConnected, false, ButtonClose)
	}
}

func decideConnected(load LoadStatus) Decision {
	if load.IsPending() {
		return blocker(MessageLoading, true, ButtonClose)
	}
	err := load.Err()
	if err == nil {
		return ContentDecision()
	}
	switch err.Kind {
	case HTTPError:
		return blocker(MessageLoadFailedTryLater, false, ButtonClose)
	default:
		return blocker(MessageLoadFailed, false, ButtonRetry, ButtonClose)
	}
}

// Messages maps blocker messages to display strings.
type Messages map[MessageID]string

// DefaultMessages returns the English display strings.
func DefaultMessages() Messages {
	return Messages{
		MessageNotConnected:       "Not connected. Connect the VPN to load this page.",
		MessageConnecting:         "Connecting to the VPN...",
		MessageLoading:            "Loading...",
		MessageLoadFailed:         "Loading failed.",
		MessageLoadFailedTryLater: "Loading failed. Please try again later.",
	}
}

// Text returns the string for id, falling back to the default.
func (m Messages) Text(id MessageID) string {
	if s, ok := m[id]; ok && s != "" {
		return s
	}
	return DefaultMessages()[id]
}
