package output

import (
	"time"

	"github.com/spiffcs/tunnelview/internal/notify"
	"github.com/spiffcs/tunnelview/internal/tunnel"
)

// StatusReport is the printable form of a tunnel status document.
type StatusReport struct {
	Path     string        `json:"path" yaml:"path"`
	Status   string        `json:"status" yaml:"status"`
	Tunneled string        `json:"tunneled,omitempty" yaml:"tunneled,omitempty"`
	Region   string        `json:"region,omitempty" yaml:"region,omitempty"`
	Alerts   []AlertReport `json:"alerts,omitempty" yaml:"alerts,omitempty"`
}

// AlertReport is a pending daemon alert.
type AlertReport struct {
	ID      string `json:"id" yaml:"id"`
	Message string `json:"message,omitempty" yaml:"message,omitempty"`
	Known   bool   `json:"known" yaml:"known"`
}

// TokenReport describes one notification identifier and its only-once token.
type TokenReport struct {
	ID          string     `json:"id" yaml:"id"`
	Title       string     `json:"title" yaml:"title"`
	OnlyOnce    bool       `json:"onlyOnce" yaml:"onlyOnce"`
	PresentedAt *time.Time `json:"presentedAt,omitempty" yaml:"presentedAt,omitempty"`
}

// NewStatusReport builds a report for the document read from path.
func NewStatusReport(path string, doc *tunnel.Document) StatusReport {
	r := StatusReport{
		Path:   path,
		Status: doc.Status.String(),
	}
	if doc.Connection != nil {
		r.Tunneled = doc.Connection.Tunneled.String()
		r.Region = doc.Connection.Region
	}
	for _, a := range doc.Alerts {
		_, err := notify.ParseID(a.ID)
		r.Alerts = append(r.Alerts, AlertReport{ID: a.ID, Message: a.Message, Known: err == nil})
	}
	return r
}

// NewTokenReports lists every notification identifier with its token state.
func NewTokenReports(store *notify.Store) []TokenReport {
	presented := make(map[notify.ID]time.Time)
	for _, tok := range store.Tokens() {
		presented[tok.ID] = tok.PresentedAt
	}

	ids := notify.IDs()
	reports := make([]TokenReport, 0, len(ids))
	for _, id := range ids {
		r := TokenReport{
			ID:       string(id),
			Title:    notify.Lookup(id).Title,
			OnlyOnce: id.OnlyOnce(),
		}
		if at, ok := presented[id]; ok {
			r.PresentedAt = &at
		}
		reports = append(reports, r)
	}
	return reports
}
