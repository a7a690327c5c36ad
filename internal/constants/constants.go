// Package constants provides a centralized location for the configuration
// defaults and magic numbers used throughout tunnelview.
package constants

import "time"

// Page view layout
const (
	// HeaderLines is the number of lines used for the page header.
	HeaderLines = 2

	// FooterLines is the number of lines used for the key help footer.
	FooterLines = 2

	// TruncationSuffix is appended to titles cut to the window width.
	TruncationSuffix = "…"
)

// Browser defaults
const (
	// DefaultHomeURL is loaded when no URL is given.
	DefaultHomeURL = "https://example.com/"

	// DefaultUserAgent is sent with every page request.
	DefaultUserAgent = "tunnelview"

	// DefaultLoadTimeout bounds a single page load.
	DefaultLoadTimeout = 30 * time.Second

	// DefaultMaxRedirects is how many redirects a load may follow.
	DefaultMaxRedirects = 10

	// MaxBodySize caps how many bytes of a page are read.
	MaxBodySize = 8 << 20
)

// Tunnel and event plumbing
const (
	// DefaultPollInterval is how often the tunnel status document is read.
	DefaultPollInterval = time.Second

	// EventBufferSize is the capacity of the channel feeding the UI goroutine.
	EventBufferSize = 64

	// ToastAppID names the application in desktop notifications.
	ToastAppID = "tunnelview"
)
