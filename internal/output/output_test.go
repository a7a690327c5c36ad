package output

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/spiffcs/tunnelview/internal/notify"
	"github.com/spiffcs/tunnelview/internal/tunnel"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input   string
		want    Format
		wantErr bool
	}{
		{"table", FormatTable, false},
		{"text", FormatTable, false},
		{"", FormatTable, false},
		{"json", FormatJSON, false},
		{"yaml", FormatYAML, false},
		{"markdown", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseFormat(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseFormat(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseFormat(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func sampleDocument() *tunnel.Document {
	return &tunnel.Document{
		Status:     tunnel.Connected,
		Connection: &tunnel.Connection{Tunneled: tunnel.Connected, Region: "se-sto"},
		Alerts: []tunnel.Alert{
			{ID: "subscription-expired"},
			{ID: "mystery", Message: "what is this"},
		},
	}
}

func TestNewStatusReport(t *testing.T) {
	r := NewStatusReport("/tmp/status.yaml", sampleDocument())

	if r.Status != "connected" || r.Tunneled != "connected" || r.Region != "se-sto" {
		t.Errorf("unexpected report %+v", r)
	}
	if len(r.Alerts) != 2 {
		t.Fatalf("expected 2 alerts, got %d", len(r.Alerts))
	}
	if !r.Alerts[0].Known || r.Alerts[1].Known {
		t.Errorf("expected only the first alert to be known, got %+v", r.Alerts)
	}
}

func TestNewStatusReportWithoutConnection(t *testing.T) {
	r := NewStatusReport("status.yaml", &tunnel.Document{Status: tunnel.NotConnected})
	if r.Status != "not_connected" || r.Tunneled != "" || r.Region != "" {
		t.Errorf("unexpected report %+v", r)
	}
}

func TestTableFormatStatus(t *testing.T) {
	var buf bytes.Buffer
	f := &TableFormatter{}
	if err := f.FormatStatus(NewStatusReport("/tmp/status.yaml", sampleDocument()), &buf); err != nil {
		t.Fatalf("FormatStatus() error: %v", err)
	}

	out := buf.String()
	for _, want := range []string{"connected", "se-sto", "/tmp/status.yaml", "2 pending alert(s)", "mystery: what is this"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected output to contain %q, got:\n%s", want, out)
		}
	}
}

func TestNewTokenReports(t *testing.T) {
	store := notify.NewStoreFromPath(filepath.Join(t.TempDir(), "tokens.json"))
	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	if _, err := store.Consume(notify.SubscriptionExpired, at); err != nil {
		t.Fatal(err)
	}

	reports := NewTokenReports(store)
	if len(reports) != len(notify.IDs()) {
		t.Fatalf("expected a report per identifier, got %d", len(reports))
	}

	for _, r := range reports {
		switch notify.ID(r.ID) {
		case notify.SubscriptionExpired:
			if r.PresentedAt == nil || !r.PresentedAt.Equal(at) {
				t.Errorf("expected presented time for %s, got %v", r.ID, r.PresentedAt)
			}
		case notify.CorruptSettings:
			if r.OnlyOnce {
				t.Errorf("%s should not be only-once", r.ID)
			}
		default:
			if r.PresentedAt != nil {
				t.Errorf("expected %s not presented", r.ID)
			}
		}
		if r.Title == "" {
			t.Errorf("expected title for %s", r.ID)
		}
	}
}

func TestTableFormatTokens(t *testing.T) {
	now := time.Date(2026, 1, 3, 3, 4, 5, 0, time.UTC)
	presented := now.Add(-2 * time.Hour)
	tokens := []TokenReport{
		{ID: "corrupt-settings", Title: "Settings", OnlyOnce: false},
		{ID: "region-unavailable", Title: "Region", OnlyOnce: true},
		{ID: "subscription-expired", Title: "Expired", OnlyOnce: true, PresentedAt: &presented},
	}

	var buf bytes.Buffer
	f := &TableFormatter{Now: func() time.Time { return now }}
	if err := f.FormatTokens(tokens, &buf); err != nil {
		t.Fatalf("FormatTokens() error: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 5 {
		t.Fatalf("expected header, rule and 3 rows, got:\n%s", buf.String())
	}
	if !strings.Contains(lines[3], "pending") {
		t.Errorf("expected unpresented only-once row to be pending, got %q", lines[3])
	}
	if !strings.Contains(lines[4], "2h ago") {
		t.Errorf("expected presented row to show age, got %q", lines[4])
	}
}

func TestFormatAge(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{30 * time.Second, "<1m"},
		{5 * time.Minute, "5m"},
		{3 * time.Hour, "3h"},
		{50 * time.Hour, "2d"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := formatAge(tt.d); got != tt.want {
				t.Errorf("formatAge(%v) = %q, want %q", tt.d, got, tt.want)
			}
		})
	}
}

func TestStructuredFormats(t *testing.T) {
	report := NewStatusReport("status.yaml", sampleDocument())

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		if err := NewFormatter(FormatJSON).FormatStatus(report, &buf); err != nil {
			t.Fatalf("FormatStatus() error: %v", err)
		}
		var got StatusReport
		if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
			t.Fatalf("invalid json: %v", err)
		}
		if got.Region != "se-sto" || len(got.Alerts) != 2 {
			t.Errorf("unexpected decoded report %+v", got)
		}
	})

	t.Run("yaml", func(t *testing.T) {
		var buf bytes.Buffer
		if err := NewFormatter(FormatYAML).FormatStatus(report, &buf); err != nil {
			t.Fatalf("FormatStatus() error: %v", err)
		}
		var doc tunnel.Document
		if err := yaml.Unmarshal(buf.Bytes(), &doc); err != nil {
			t.Fatalf("yaml output is not a status document: %v", err)
		}
		if doc.Status != tunnel.Connected {
			t.Errorf("expected status to parse back, got %v", doc.Status)
		}
	})
}
