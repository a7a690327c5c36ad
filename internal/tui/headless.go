package tui

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/spiffcs/tunnelview/internal/engine"
	"github.com/spiffcs/tunnelview/internal/log"
	"github.com/spiffcs/tunnelview/internal/page"
)

// ErrNotConnected is returned by a fail-fast headless run when the tunnel
// is not connected.
var ErrNotConnected = errors.New("vpn tunnel is not connected")

// HeadlessOption is a functional option for configuring a Headless runner.
type HeadlessOption func(*Headless)

// WithFailFast makes the runner give up as soon as the tunnel is not
// connected instead of waiting for it.
func WithFailFast() HeadlessOption {
	return func(h *Headless) {
		h.failFast = true
	}
}

// WithHeadlessMessages overrides the blocker display strings.
func WithHeadlessMessages(msgs page.Messages) HeadlessOption {
	return func(h *Headless) {
		h.messages = msgs
	}
}

// Headless drives a host without a terminal UI. Decisions are logged and
// the page is written to out once it is shown.
type Headless struct {
	host     *page.Host
	screen   *screen
	pages    PageSource
	events   <-chan page.Event
	out      io.Writer
	messages page.Messages
	failFast bool
}

// NewHeadless creates a runner. renderer must be the value returned by
// NewScreen that host renders to.
func NewHeadless(host *page.Host, renderer page.Renderer, pages PageSource, events <-chan page.Event, out io.Writer, opts ...HeadlessOption) *Headless {
	scr, ok := renderer.(*screen)
	if !ok {
		scr = &screen{}
	}
	h := &Headless{
		host:     host,
		screen:   scr,
		pages:    pages,
		events:   events,
		out:      out,
		messages: page.DefaultMessages(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Run shows url and processes events until the page is displayed, the load
// fails, or ctx is done. The host is closed on return.
func (h *Headless) Run(ctx context.Context, url string) error {
	defer h.host.Close()

	seen := 0
	h.host.Show(url)
	for {
		if h.screen.renders != seen {
			seen = h.screen.renders
			done, err := h.apply(h.screen.decision, url)
			if done {
				return err
			}
		}

		select {
		case <-ctx.Done():
			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				return fmt.Errorf("timed out loading %s: %w", url, ctx.Err())
			}
			return nil
		case ev, ok := <-h.events:
			if !ok {
				return nil
			}
			h.host.Handle(ev)
		}
	}
}

// apply reports a decision and whether the run is over.
func (h *Headless) apply(d page.Decision, url string) (bool, error) {
	if d.Content {
		p := h.pages.Page()
		if p == nil {
			return false, nil
		}
		return true, writePage(h.out, p)
	}

	text := h.messages.Text(d.Message)
	log.Info(text, "url", url)

	switch d.Message {
	case page.MessageLoadFailed, page.MessageLoadFailedTryLater:
		err := h.host.State().Load.Err()
		if err == nil {
			return true, fmt.Errorf("failed to load %s", url)
		}
		return true, fmt.Errorf("failed to load %s: %w", url, err)
	case page.MessageNotConnected:
		if h.failFast {
			return true, ErrNotConnected
		}
	}
	return false, nil
}

func writePage(w io.Writer, p *engine.Page) error {
	bold := color.New(color.Bold)
	if p.Title != "" {
		if _, err := bold.Fprintln(w, p.Title); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(w, "%s\n\n%s\n", color.HiBlackString(p.URL), p.Text); err != nil {
		return err
	}
	if len(p.Links) == 0 {
		return nil
	}
	if _, err := bold.Fprintln(w, "\nLinks"); err != nil {
		return err
	}
	for i, l := range p.Links {
		if _, err := fmt.Fprintf(w, "  [%d] %s %s\n", i+1, l.Text, color.CyanString(l.URL)); err != nil {
			return err
		}
	}
	return nil
}
