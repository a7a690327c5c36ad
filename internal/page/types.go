// Package page implements the tunnel-gated page-load controller: the
// navigation gate, the state observer and the coordinator that decides what
// the browser surface shows.
package page

import (
	"fmt"
	"time"
)

// LoadErrorKind classifies why a page load ended in failure.
type LoadErrorKind int

const (
	// NavigationFailed is an engine-level failure after the navigation committed.
	NavigationFailed LoadErrorKind = iota
	// ProvisionalNavigationFailed is a failure before a response was received.
	ProvisionalNavigationFailed
	// HTTPError is a 4xx or 5xx response.
	HTTPError
)

func (k LoadErrorKind) String() string {
	switch k {
	case NavigationFailed:
		return "navigation_failed"
	case ProvisionalNavigationFailed:
		return "provisional_navigation_failed"
	case HTTPError:
		return "http_error"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// LoadError is an immutable record of a failed load.
type LoadError struct {
	Kind LoadErrorKind
	// Err is the engine error for NavigationFailed and ProvisionalNavigationFailed.
	Err error
	// StatusCode and StatusMessage are set for HTTPError.
	StatusCode    int
	StatusMessage string
	At            time.Time
}

func (e *LoadError) Error() string {
	switch e.Kind {
	case HTTPError:
		return fmt.Sprintf("http error %d: %s", e.StatusCode, e.StatusMessage)
	default:
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
}

func (e *LoadError) Unwrap() error { return e.Err }

// Retryable reports whether the user may retry the load.
func (e *LoadError) Retryable() bool {
	return e.Kind != HTTPError
}

// LoadStatus is Pending or Completed with an optional error.
type LoadStatus struct {
	completed bool
	err       *LoadError
}

// Pending returns the status of a load that has not finished.
func Pending() LoadStatus { return LoadStatus{} }

// Completed returns the status of a finished load; err is nil on success.
func Completed(err *LoadError) LoadStatus {
	return LoadStatus{completed: true, err: err}
}

// IsPending reports whether the load has not completed.
func (s LoadStatus) IsPending() bool { return !s.completed }

// Err returns the failure of a completed load, or nil.
func (s LoadStatus) Err() *LoadError { return s.err }

// Equal compares statuses. Errors compare by identity: two failures are the
// same status only if they are the same failure.
func (s LoadStatus) Equal(o LoadStatus) bool {
	return s.completed == o.completed && s.err == o.err
}

func (s LoadStatus) String() string {
	switch {
	case !s.completed:
		return "pending"
	case s.err == nil:
		return "completed"
	default:
		return "completed(" + s.err.Kind.String() + ")"
	}
}

// Lifecycle is the view's presentation state.
type Lifecycle int

const (
	NotShown Lifecycle = iota
	Visible
	Disappearing
	Gone
)

// Leaving reports whether the view is disappearing or gone.
func (l Lifecycle) Leaving() bool {
	return l == Disappearing || l == Gone
}

func (l Lifecycle) String() string {
	switch l {
	case NotShown:
		return "not_shown"
	case Visible:
		return "visible"
	case Disappearing:
		return "disappearing"
	case Gone:
		return "gone"
	default:
		return fmt.Sprintf("lifecycle(%d)", int(l))
	}
}

// Policy answers a navigation policy query.
type Policy int

const (
	PolicyCancel Policy = iota
	PolicyAllow
)

func (p Policy) String() string {
	if p == PolicyAllow {
		return "allow"
	}
	return "cancel"
}

// NavigationID identifies one navigation started on a Surface.
type NavigationID uint64

// Surface is the browser surface the coordinator drives.
type Surface interface {
	// Load starts loading url, implicitly cancelling any previous load.
	Load(url string) NavigationID
	// StopLoading stops the in-flight load. It is a no-op when idle.
	StopLoading()
}

// Renderer replaces the displayed surface with a decision.
type Renderer interface {
	Render(Decision)
}
