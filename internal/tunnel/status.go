// Package tunnel models the VPN tunnel status consumed by the page controller.
package tunnel

import (
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrUnknownStatus is returned when a status string cannot be parsed.
var ErrUnknownStatus = errors.New("unknown tunnel status")

// Status is the connectivity state of the underlying VPN transport.
type Status int

const (
	NotConnected Status = iota
	Connecting
	Disconnecting
	Connected
)

// String returns the canonical document/CLI form of the status.
func (s Status) String() string {
	switch s {
	case NotConnected:
		return "not_connected"
	case Connecting:
		return "connecting"
	case Disconnecting:
		return "disconnecting"
	case Connected:
		return "connected"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// ParseStatus parses a status string. Dashes, underscores and case are ignored.
func ParseStatus(s string) (Status, error) {
	normalized := strings.ToLower(strings.TrimSpace(s))
	normalized = strings.NewReplacer("-", "", "_", "", " ", "").Replace(normalized)
	switch normalized {
	case "notconnected", "disconnected", "":
		return NotConnected, nil
	case "connecting":
		return Connecting, nil
	case "disconnecting":
		return Disconnecting, nil
	case "connected":
		return Connected, nil
	}
	return NotConnected, fmt.Errorf("%w: %q", ErrUnknownStatus, s)
}

// UnmarshalYAML implements yaml.Unmarshaler for the status document.
func (s *Status) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	parsed, err := ParseStatus(raw)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (s Status) MarshalYAML() (any, error) {
	return s.String(), nil
}

// Connection is the daemon's current tunnel connection handle.
type Connection struct {
	Tunneled Status `yaml:"tunneled"`
	Region   string `yaml:"region,omitempty"`
}
