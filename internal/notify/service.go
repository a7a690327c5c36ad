package notify

import (
	"fmt"
	"sync"
	"time"

	"github.com/spiffcs/tunnelview/internal/log"
	"github.com/spiffcs/tunnelview/internal/tunnel"
)

// Option is a functional option for configuring a Service.
type Option func(*Service)

// WithSinks sets where notifications are presented.
func WithSinks(sinks ...Sink) Option {
	return func(s *Service) {
		s.sinks = sinks
	}
}

// WithEnabled turns presentation on or off. Disabled requests still
// consume only-once tokens.
func WithEnabled(enabled bool) Option {
	return func(s *Service) {
		s.enabled = enabled
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// Service posts local notifications. Calls are serialized; it is safe to
// share one instance between goroutines.
type Service struct {
	store   *Store
	sinks   []Sink
	enabled bool
	now     func() time.Time
	log     *log.Scoped
	mu      sync.Mutex
}

// NewService creates a service that records only-once tokens in store.
func NewService(store *Store, opts ...Option) *Service {
	if store == nil {
		store = NewStoreFromPath("")
	}
	s := &Service{
		store:   store,
		sinks:   []Sink{LogSink{}},
		enabled: true,
		now:     time.Now,
		log:     log.With("component", "notify"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Store returns the token store.
func (s *Service) Store() *Store { return s.store }

// ClearOnlyOnceTokens resets the list of only-once notifications already
// presented.
func (s *Service) ClearOnlyOnceTokens() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.store.Clear(); err != nil {
		s.log.Warn("failed to clear notification tokens", "error", err)
	}
}

// RequestOpenContainerToConnect asks the user to open the app to connect.
func (s *Service) RequestOpenContainerToConnect() { s.request(OpenContainer, "") }

// RequestCorruptSettingsFile reports a damaged settings file.
func (s *Service) RequestCorruptSettingsFile() { s.request(CorruptSettings, "") }

// RequestSubscriptionExpired reports an expired subscription.
func (s *Service) RequestSubscriptionExpired() { s.request(SubscriptionExpired, "") }

// RequestSelectedRegionUnavailable reports that the chosen region is unavailable.
func (s *Service) RequestSelectedRegionUnavailable() { s.request(RegionUnavailable, "") }

// RequestUpstreamProxyError presents message as the notification body.
func (s *Service) RequestUpstreamProxyError(message string) {
	s.request(UpstreamProxyError, message)
}

// RequestDisallowedTraffic reports traffic the current plan does not allow.
func (s *Service) RequestDisallowedTraffic() { s.request(DisallowedTraffic, "") }

// RequestCannotStartWithoutActiveSubscription tells the user to start the
// VPN from the app.
func (s *Service) RequestCannotStartWithoutActiveSubscription() {
	s.request(MustStartVPNFromApp, "")
}

// RequestPurchaseRequiredPrompt prompts the user to purchase a subscription.
func (s *Service) RequestPurchaseRequiredPrompt() { s.request(PurchaseRequired, "") }

// Request posts the notification named by id. message replaces the default
// body when non-empty.
func (s *Service) Request(id ID, message string) error {
	if _, ok := definitions[id]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownNotification, id)
	}
	s.request(id, message)
	return nil
}

// Dispatch routes a tunnel alert to its notification.
func (s *Service) Dispatch(a tunnel.Alert) error {
	id, err := ParseID(a.ID)
	if err != nil {
		return err
	}
	s.request(id, a.Message)
	return nil
}

func (s *Service) request(id ID, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	def := definitions[id]
	if def.onlyOnce {
		first, err := s.store.Consume(id, s.now())
		if err != nil {
			s.log.Warn("failed to persist notification token", "id", string(id), "error", err)
		}
		if !first {
			s.log.Debug("notification already presented", "id", string(id))
			return
		}
	}
	if !s.enabled {
		s.log.Debug("notifications disabled", "id", string(id))
		return
	}

	n := Lookup(id)
	if message != "" {
		n.Body = message
	}
	for _, sink := range s.sinks {
		if err := sink.Post(n); err != nil {
			s.log.Warn("failed to post notification", "id", string(id), "error", err)
		}
	}
}
