package page

import (
	"github.com/spiffcs/tunnelview/internal/log"
	"github.com/spiffcs/tunnelview/internal/tunnel"
)

// Coordinator owns the browser surface and decides what is displayed.
type Coordinator struct {
	surface   Surface
	renderer  Renderer
	store     LoadStore
	lifecycle func() Lifecycle

	url        string
	navigation NavigationID
	log        *log.Scoped
}

// NewCoordinator creates a coordinator. lifecycle must read the live
// lifecycle field; it is consulted at every decision.
func NewCoordinator(surface Surface, renderer Renderer, store LoadStore, lifecycle func() Lifecycle) *Coordinator {
	return &Coordinator{
		surface:   surface,
		renderer:  renderer,
		store:     store,
		lifecycle: lifecycle,
		log:       log.With("component", "coordinator"),
	}
}

// URL returns the URL of the most recent load.
func (c *Coordinator) URL() string { return c.url }

// Navigation returns the ID of the most recent load.
func (c *Coordinator) Navigation() NavigationID { return c.navigation }

// StartLoad resets the load status and starts loading url.
func (c *Coordinator) StartLoad(url string) {
	c.url = url
	c.log.Info("starting load", "url", url)
	c.store.SetLoad(Pending())
	c.navigation = c.surface.Load(url)
}

// Retry reloads the original URL.
func (c *Coordinator) Retry() {
	if c.url == "" {
		return
	}
	c.StartLoad(c.url)
}

// OnTunnelStatusChanged stops any in-flight load when the tunnel leaves
// the connected state. The load status is left alone.
func (c *Coordinator) OnTunnelStatusChanged(s tunnel.Status) {
	if s != tunnel.Connected {
		c.log.Debug("tunnel not connected, stopping load", "status", s)
		c.surface.StopLoading()
	}
}

// OnObservedStateChanged renders the decision for s unless the view is
// leaving. The lifecycle is read live rather than taken from s.
func (c *Coordinator) OnObservedStateChanged(s State) {
	if c.lifecycle().Leaving() {
		c.log.Trace("view leaving, decision suppressed", "load", s.Load, "tunnel", s.Tunnel)
		return
	}
	d := Decide(s.Tunnel, s.Load)
	c.log.Debug("display decision", "load", s.Load, "tunnel", s.Tunnel, "content", d.Content, "message", d.Message)
	c.renderer.Render(d)
}
