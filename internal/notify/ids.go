// Package notify is the local notification service: a fixed set of
// notification identifiers, one-shot request methods, and persisted
// only-once tokens so some notifications are presented a single time.
package notify

import (
	"errors"
	"fmt"
	"sort"
)

// ErrUnknownNotification is returned for identifiers outside the fixed set.
var ErrUnknownNotification = errors.New("unknown notification")

// ID identifies a notification.
type ID string

const (
	OpenContainer       ID = "open-container"
	CorruptSettings     ID = "corrupt-settings"
	SubscriptionExpired ID = "subscription-expired"
	RegionUnavailable   ID = "region-unavailable"
	UpstreamProxyError  ID = "upstream-proxy-error"
	DisallowedTraffic   ID = "disallowed-traffic"
	MustStartVPNFromApp ID = "must-start-vpn-from-app"
	PurchaseRequired    ID = "purchase-required"
)

type definition struct {
	title    string
	body     string
	onlyOnce bool
}

var definitions = map[ID]definition{
	OpenContainer: {
		title:    "Connect",
		body:     "Open tunnelview to connect the VPN.",
		onlyOnce: true,
	},
	CorruptSettings: {
		title: "Settings problem",
		body:  "Your VPN settings file is damaged. Reconnect from the app to repair it.",
	},
	SubscriptionExpired: {
		title:    "Subscription expired",
		body:     "Your subscription has expired. Renew it to keep using the VPN.",
		onlyOnce: true,
	},
	RegionUnavailable: {
		title:    "Region unavailable",
		body:     "The selected region is not available. Choose another region.",
		onlyOnce: true,
	},
	UpstreamProxyError: {
		title:    "Upstream proxy error",
		body:     "The upstream proxy could not be reached.",
		onlyOnce: true,
	},
	DisallowedTraffic: {
		title:    "Traffic blocked",
		body:     "Some traffic is not allowed without a subscription.",
		onlyOnce: true,
	},
	MustStartVPNFromApp: {
		title: "Start from the app",
		body:  "The VPN must be started from the app while there is no active subscription.",
	},
	PurchaseRequired: {
		title:    "Purchase required",
		body:     "A subscription is required to continue.",
		onlyOnce: true,
	},
}

// ParseID validates s against the known identifiers.
func ParseID(s string) (ID, error) {
	id := ID(s)
	if _, ok := definitions[id]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownNotification, s)
	}
	return id, nil
}

// IDs returns every known identifier, sorted.
func IDs() []ID {
	ids := make([]ID, 0, len(definitions))
	for id := range definitions {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// OnlyOnce reports whether id is presented at most once until the tokens
// are cleared.
func (id ID) OnlyOnce() bool {
	return definitions[id].onlyOnce
}

// Notification is a rendered notification ready for a sink.
type Notification struct {
	ID    ID
	Title string
	Body  string
}

// Lookup returns the default notification for id.
func Lookup(id ID) Notification {
	def := definitions[id]
	return Notification{ID: id, Title: def.title, Body: def.body}
}
