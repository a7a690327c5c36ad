// Package engine is the HTTP page engine behind the browser surface. It
// fetches pages with resty, raises navigation policy queries for every hop
// and response, and reports navigation lifecycle events to the UI goroutine.
package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/spiffcs/tunnelview/internal/constants"
	"github.com/spiffcs/tunnelview/internal/log"
	"github.com/spiffcs/tunnelview/internal/page"
)

var (
	// ErrCancelled is reported when a load is stopped or superseded.
	ErrCancelled = errors.New("load cancelled")
	// ErrPolicyCancelled is reported when a navigation policy query cancels the load.
	ErrPolicyCancelled = errors.New("frame load interrupted by policy change")
	// ErrTooManyRedirects is reported when the redirect limit is reached.
	ErrTooManyRedirects = errors.New("too many redirects")
)

// Page is the last successfully loaded page.
type Page struct {
	URL         string
	StatusCode  int
	ContentType string
	LoadedAt    time.Time
	Document
}

// Option is a functional option for configuring an Engine.
type Option func(*Engine)

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(e *Engine) {
		if ua != "" {
			e.userAgent = ua
		}
	}
}

// WithTimeout sets the per-load request timeout.
func WithTimeout(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.timeout = d
		}
	}
}

// WithMaxRedirects sets how many redirects a load may follow.
func WithMaxRedirects(n int) Option {
	return func(e *Engine) {
		if n >= 0 {
			e.maxRedirects = n
		}
	}
}

// WithMaxBodySize caps how many bytes of a response are read.
func WithMaxBodySize(n int64) Option {
	return func(e *Engine) {
		if n > 0 {
			e.maxBody = n
		}
	}
}

// WithTransport replaces the HTTP transport, e.g. to route through a proxy.
func WithTransport(rt http.RoundTripper) Option {
	return func(e *Engine) {
		e.transport = rt
	}
}

// Ensure Engine implements page.Surface.
var _ page.Surface = (*Engine)(nil)

type navKey struct{}

// Engine implements page.Surface.
type Engine struct {
	client       *resty.Client
	events       chan<- page.Event
	userAgent    string
	timeout      time.Duration
	maxRedirects int
	maxBody      int64
	transport    http.RoundTripper

	base     context.Context
	shutdown context.CancelFunc
	wg       sync.WaitGroup

	mu      sync.Mutex
	nav     page.NavigationID
	cancel  context.CancelFunc
	current *Page
	log     *log.Scoped
}

// New creates an engine that reports to events.
func New(events chan<- page.Event, opts ...Option) *Engine {
	e := &Engine{
		events:       events,
		userAgent:    constants.DefaultUserAgent,
		timeout:      constants.DefaultLoadTimeout,
		maxRedirects: constants.DefaultMaxRedirects,
		maxBody:      constants.MaxBodySize,
		log:          log.With("component", "engine"),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.base, e.shutdown = context.WithCancel(context.Background())

	e.client = resty.New().
		SetTimeout(e.timeout).
		SetHeader("User-Agent", e.userAgent).
		SetHeader("Accept", "text/html,application/xhtml+xml,text/plain;q=0.9,*/*;q=0.8").
		SetLogger(restyLogger{e.log}).
		SetRedirectPolicy(resty.RedirectPolicyFunc(e.checkRedirect))
	if e.transport != nil {
		e.client.SetTransport(e.transport)
	}
	return e
}

// Load starts loading rawURL and returns its navigation ID. Any previous
// load is cancelled.
func (e *Engine) Load(rawURL string) page.NavigationID {
	e.mu.Lock()
	if e.cancel != nil {
		e.cancel()
	}
	e.nav++
	nav := e.nav
	ctx, cancel := context.WithCancel(context.WithValue(e.base, navKey{}, nav))
	e.cancel = cancel
	e.mu.Unlock()

	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		defer cancel()
		e.run(ctx, nav, rawURL)
	}()
	return nav
}

// StopLoading cancels the in-flight load, if any.
func (e *Engine) StopLoading() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.cancel != nil {
		e.log.Debug("stopping load", "navigation", e.nav)
		e.cancel()
		e.cancel = nil
	}
}

// Page returns the last page loaded by the current navigation, or nil.
func (e *Engine) Page() *Page {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.current == nil {
		return nil
	}
	p := *e.current
	return &p
}

// Close cancels all loads and waits for them to finish. Outstanding policy
// queries resolve as cancelled.
func (e *Engine) Close() {
	e.shutdown()
	e.wg.Wait()
}

func (e *Engine) run(ctx context.Context, nav page.NavigationID, rawURL string) {
	e.log.Info("loading", "url", rawURL, "navigation", nav)

	target, err := url.Parse(rawURL)
	if err != nil || (target.Scheme != "http" && target.Scheme != "https") {
		if err == nil {
			err = fmt.Errorf("unsupported url scheme %q", target.Scheme)
		}
		e.emit(page.ProvisionalNavigationFailedEvent{Navigation: nav, Err: err})
		return
	}

	if e.ask(ctx, page.NavigationActionEvent{Navigation: nav, URL: rawURL}) != page.PolicyAllow {
		e.emit(page.ProvisionalNavigationFailedEvent{Navigation: nav, Err: e.classify(ctx, ErrPolicyCancelled)})
		return
	}

	resp, err := e.client.R().
		SetContext(ctx).
		SetDoNotParseResponse(true).
		Get(rawURL)
	if err != nil {
		e.emit(page.ProvisionalNavigationFailedEvent{Navigation: nav, Err: e.classify(ctx, err)})
		return
	}
	body := resp.RawBody()
	defer body.Close()

	finalURL := target
	if resp.RawResponse != nil && resp.RawResponse.Request != nil {
		finalURL = resp.RawResponse.Request.URL
	}

	policy := e.ask(ctx, page.NavigationResponseEvent{
		Navigation: nav,
		URL:        finalURL.String(),
		StatusCode: resp.StatusCode(),
	})
	if policy != page.PolicyAllow {
		e.emit(page.ProvisionalNavigationFailedEvent{Navigation: nav, Err: e.classify(ctx, ErrPolicyCancelled)})
		return
	}

	data, err := io.ReadAll(io.LimitReader(body, e.maxBody))
	if err != nil {
		e.emit(page.NavigationFailedEvent{Navigation: nav, Err: e.classify(ctx, err)})
		return
	}

	contentType := resp.Header().Get("Content-Type")
	doc, err := Render(data, contentType, finalURL)
	if err != nil {
		e.emit(page.NavigationFailedEvent{Navigation: nav, Err: err})
		return
	}

	e.mu.Lock()
	if e.nav != nav || ctx.Err() != nil {
		e.mu.Unlock()
		e.emit(page.NavigationFailedEvent{Navigation: nav, Err: ErrCancelled})
		return
	}
	e.current = &Page{
		URL:         finalURL.String(),
		StatusCode:  resp.StatusCode(),
		ContentType: contentType,
		LoadedAt:    time.Now(),
		Document:    doc,
	}
	e.mu.Unlock()

	e.log.Info("loaded", "url", finalURL.String(), "status", resp.StatusCode(), "bytes", len(data))
	e.emit(page.LoadFinishedEvent{Navigation: nav})
}

// checkRedirect raises a navigation action query for every redirect hop.
func (e *Engine) checkRedirect(req *http.Request, via []*http.Request) error {
	if len(via) > e.maxRedirects {
		return fmt.Errorf("%w: stopped after %d", ErrTooManyRedirects, e.maxRedirects)
	}
	ctx := req.Context()
	nav, _ := ctx.Value(navKey{}).(page.NavigationID)
	if e.ask(ctx, page.NavigationActionEvent{Navigation: nav, URL: req.URL.String()}) != page.PolicyAllow {
		return ErrPolicyCancelled
	}
	return nil
}

// ask sends a policy query to the UI goroutine and waits for its answer.
// Cancellation of the load or the engine resolves the query as cancelled.
func (e *Engine) ask(ctx context.Context, ev page.Event) page.Policy {
	reply := make(chan page.Policy, 1)
	switch q := ev.(type) {
	case page.NavigationActionEvent:
		q.Reply = reply
		ev = q
	case page.NavigationResponseEvent:
		q.Reply = reply
		ev = q
	}

	if !page.Send(ctx, e.events, ev) {
		return page.PolicyCancel
	}
	select {
	case p := <-reply:
		return p
	case <-ctx.Done():
		return page.PolicyCancel
	}
}

// emit delivers a lifecycle event. It outlives the load's context so a
// stopped load still reports its cancellation.
func (e *Engine) emit(ev page.Event) {
	e.log.Trace("engine event", "event", fmt.Sprintf("%T", ev))
	page.Send(e.base, e.events, ev)
}

// classify maps a load error to its sentinel. A stopped load is reported
// as cancelled even when it was waiting on a policy answer.
func (e *Engine) classify(ctx context.Context, err error) error {
	switch {
	case ctx.Err() != nil:
		return ErrCancelled
	case errors.Is(err, ErrPolicyCancelled):
		return ErrPolicyCancelled
	default:
		return err
	}
}

// restyLogger routes resty's internal logging through the app logger so it
// never writes over the TUI.
type restyLogger struct {
	l *log.Scoped
}

func (r restyLogger) Errorf(format string, v ...any) { r.l.Debug(fmt.Sprintf(format, v...)) }
func (r restyLogger) Warnf(format string, v ...any)  { r.l.Debug(fmt.Sprintf(format, v...)) }
func (r restyLogger) Debugf(format string, v ...any) { r.l.Trace(fmt.Sprintf(format, v...)) }
