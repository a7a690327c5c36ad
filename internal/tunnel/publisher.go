package tunnel

import "sync"

// Source supplies the current tunnel status and change notifications.
type Source interface {
	// Current returns the latest status.
	Current() Status
	// Connection returns a point-in-time copy of the connection handle, or nil.
	Connection() *Connection
	// Subscribe registers fn for status changes. fn is not called for
	// consecutive duplicates. The returned cancel func is idempotent.
	Subscribe(fn func(Status)) (cancel func())
}

// Ensure Publisher implements Source.
var _ Source = (*Publisher)(nil)

// Publisher holds the current tunnel status and broadcasts distinct changes.
type Publisher struct {
	mu     sync.Mutex
	status Status
	conn   *Connection
	subs   map[int]func(Status)
	nextID int
}

// NewPublisher creates a publisher seeded with an initial status.
func NewPublisher(initial Status) *Publisher {
	return &Publisher{
		status: initial,
		subs:   make(map[int]func(Status)),
	}
}

// Current implements Source.
func (p *Publisher) Current() Status {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.status
}

// Connection implements Source.
func (p *Publisher) Connection() *Connection {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.conn == nil {
		return nil
	}
	c := *p.conn
	return &c
}

// Subscribe implements Source.
func (p *Publisher) Subscribe(fn func(Status)) func() {
	p.mu.Lock()
	id := p.nextID
	p.nextID++
	p.subs[id] = fn
	p.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			p.mu.Lock()
			delete(p.subs, id)
			p.mu.Unlock()
		})
	}
}

// SetConnection replaces the connection handle. It does not notify subscribers.
func (p *Publisher) SetConnection(conn *Connection) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if conn == nil {
		p.conn = nil
		return
	}
	c := *conn
	p.conn = &c
}

// Publish sets the status and notifies subscribers when it changed.
// It reports whether a change was broadcast.
func (p *Publisher) Publish(s Status) bool {
	p.mu.Lock()
	if s == p.status {
		p.mu.Unlock()
		return false
	}
	p.status = s
	subs := make([]func(Status), 0, len(p.subs))
	for _, fn := range p.subs {
		subs = append(subs, fn)
	}
	p.mu.Unlock()

	for _, fn := range subs {
		fn(s)
	}
	return true
}
