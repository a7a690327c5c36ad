package tunnel

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/spiffcs/tunnelview/internal/constants"
	"github.com/spiffcs/tunnelview/internal/log"
)

// Alert is a notification request raised by the VPN daemon.
type Alert struct {
	ID      string `yaml:"id"`
	Message string `yaml:"message,omitempty"`
}

// Document is the status file written by the VPN daemon.
type Document struct {
	Status     Status      `yaml:"status"`
	Connection *Connection `yaml:"connection,omitempty"`
	Alerts     []Alert     `yaml:"alerts,omitempty"`
}

// ReadDocument reads and parses a status document.
// A missing file is reported as a not-connected tunnel with no connection.
func ReadDocument(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &Document{Status: NotConnected}, nil
		}
		return nil, fmt.Errorf("failed to read tunnel status: %w", err)
	}

	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse tunnel status %s: %w", path, err)
	}
	return &doc, nil
}

// WatcherOption is a functional option for configuring a Watcher.
type WatcherOption func(*Watcher)

// WithInterval sets the poll interval.
func WithInterval(d time.Duration) WatcherOption {
	return func(w *Watcher) {
		if d > 0 {
			w.interval = d
		}
	}
}

// WithAlertHandler sets the handler that receives newly raised alerts.
func WithAlertHandler(fn func(Alert)) WatcherOption {
	return func(w *Watcher) {
		w.onAlert = fn
	}
}

// Watcher polls the daemon status document and feeds a Publisher.
type Watcher struct {
	path      string
	interval  time.Duration
	publisher *Publisher
	onAlert   func(Alert)
	seen      map[Alert]bool
}

// NewWatcher creates a watcher for the document at path.
func NewWatcher(path string, publisher *Publisher, opts ...WatcherOption) *Watcher {
	w := &Watcher{
		path:      path,
		interval:  constants.DefaultPollInterval,
		publisher: publisher,
		seen:      make(map[Alert]bool),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Poll reads the document once and publishes its contents.
func (w *Watcher) Poll() error {
	doc, err := ReadDocument(w.path)
	if err != nil {
		return err
	}

	w.publisher.SetConnection(doc.Connection)
	if w.publisher.Publish(doc.Status) {
		log.Info("tunnel status changed", "status", doc.Status)
	}

	current := make(map[Alert]bool, len(doc.Alerts))
	for _, a := range doc.Alerts {
		current[a] = true
		if w.seen[a] {
			continue
		}
		log.Debug("tunnel alert raised", "id", a.ID)
		if w.onAlert != nil {
			w.onAlert(a)
		}
	}
	w.seen = current
	return nil
}

// Run polls until ctx is cancelled. Read errors are logged and the last
// published status is kept.
func (w *Watcher) Run(ctx context.Context) error {
	if err := w.Poll(); err != nil {
		log.Warn("could not read tunnel status", "path", w.path, "error", err)
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := w.Poll(); err != nil {
				log.Warn("could not read tunnel status", "path", w.path, "error", err)
			}
		}
	}
}
