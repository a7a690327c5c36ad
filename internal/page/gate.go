package page

import (
	"net/http"
	"time"

	"github.com/spiffcs/tunnelview/internal/log"
	"github.com/spiffcs/tunnelview/internal/tunnel"
)

// LoadStore is the shared load status the gate writes and the coordinator reads.
type LoadStore interface {
	Load() LoadStatus
	SetLoad(LoadStatus)
}

// Gate turns engine navigation callbacks into load status updates and
// answers navigation policy queries.
type Gate struct {
	store LoadStore
	now   func() time.Time
	log   *log.Scoped
}

// NewGate creates a gate writing to store.
func NewGate(store LoadStore) *Gate {
	return &Gate{
		store: store,
		now:   time.Now,
		log:   log.With("component", "gate"),
	}
}

// OnNavigationFailed records a failure after the navigation committed.
func (g *Gate) OnNavigationFailed(err error) {
	g.log.Info("navigation failed", "error", err)
	g.store.SetLoad(Completed(&LoadError{Kind: NavigationFailed, Err: err, At: g.now()}))
}

// OnProvisionalNavigationFailed records a failure before a response was
// received. It only applies while the load is still pending, so a later
// provisional callback never replaces an earlier definitive result.
func (g *Gate) OnProvisionalNavigationFailed(err error) {
	if !g.store.Load().IsPending() {
		g.log.Debug("ignoring provisional failure for completed load", "error", err)
		return
	}
	g.log.Info("provisional navigation failed", "error", err)
	g.store.SetLoad(Completed(&LoadError{Kind: ProvisionalNavigationFailed, Err: err, At: g.now()}))
}

// OnLoadFinished records a successful load.
func (g *Gate) OnLoadFinished() {
	g.log.Info("load finished")
	g.store.SetLoad(Completed(nil))
}

// OnNavigationResponse cancels 4xx and 5xx responses and records them.
func (g *Gate) OnNavigationResponse(statusCode int) Policy {
	if statusCode >= 400 && statusCode < 600 {
		msg := http.StatusText(statusCode)
		g.log.Info("navigation response rejected", "status", statusCode)
		g.store.SetLoad(Completed(&LoadError{
			Kind:          HTTPError,
			StatusCode:    statusCode,
			StatusMessage: msg,
			At:            g.now(),
		}))
		return PolicyCancel
	}
	return PolicyAllow
}

// OnNavigationAction allows a navigation only if conn reports a connected
// tunnel. conn is a point-in-time snapshot taken for this navigation.
func (g *Gate) OnNavigationAction(conn *tunnel.Connection) Policy {
	if conn != nil && conn.Tunneled == tunnel.Connected {
		g.log.Debug("navigation allowed")
		return PolicyAllow
	}
	g.log.Debug("navigation cancelled, tunnel not connected")
	return PolicyCancel
}
