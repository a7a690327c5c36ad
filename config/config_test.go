package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spiffcs/tunnelview/internal/page"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
}

func TestDefaultSettings(t *testing.T) {
	s := DefaultSettings()

	tests := []struct {
		name string
		got  any
		want any
	}{
		{"HomeURL", s.HomeURL, "https://example.com/"},
		{"PollInterval", s.PollInterval, time.Second},
		{"UserAgent", s.UserAgent, "tunnelview"},
		{"Timeout", s.Timeout, 30 * time.Second},
		{"MaxRedirects", s.MaxRedirects, 10},
		{"NotificationsEnabled", s.NotificationsEnabled, true},
		{"DesktopNotifications", s.DesktopNotifications, true},
		{"Loading", s.Messages.Text(page.MessageLoading), "Loading..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("DefaultSettings().%s = %v, want %v", tt.name, tt.got, tt.want)
			}
		})
	}
}

func TestGetSettings(t *testing.T) {
	t.Run("returns defaults when no overrides", func(t *testing.T) {
		cfg := &Config{}
		s, err := cfg.GetSettings()
		if err != nil {
			t.Fatalf("GetSettings() error: %v", err)
		}
		if s.MaxRedirects != 10 || s.Timeout != 30*time.Second {
			t.Errorf("unexpected settings %+v", s)
		}
	})

	t.Run("applies overrides", func(t *testing.T) {
		ua := "custom/1.0"
		timeout := "5s"
		redirects := 0
		off := false
		loading := "Fetching..."
		cfg := &Config{
			HomeURL:      "https://portal.example/",
			PollInterval: "250ms",
			Browser: &BrowserOverrides{
				UserAgent:    &ua,
				Timeout:      &timeout,
				MaxRedirects: &redirects,
			},
			Notifications: &NotificationOverrides{Desktop: &off},
			Messages:      &MessageOverrides{Loading: &loading},
		}

		s, err := cfg.GetSettings()
		if err != nil {
			t.Fatalf("GetSettings() error: %v", err)
		}
		if s.HomeURL != "https://portal.example/" {
			t.Errorf("HomeURL = %q", s.HomeURL)
		}
		if s.PollInterval != 250*time.Millisecond {
			t.Errorf("PollInterval = %v", s.PollInterval)
		}
		if s.UserAgent != ua || s.Timeout != 5*time.Second || s.MaxRedirects != 0 {
			t.Errorf("unexpected browser settings %+v", s)
		}
		if !s.NotificationsEnabled || s.DesktopNotifications {
			t.Errorf("unexpected notification settings %+v", s)
		}
		if got := s.Messages.Text(page.MessageLoading); got != loading {
			t.Errorf("Loading message = %q", got)
		}
		if got := s.Messages.Text(page.MessageConnecting); got != "Connecting to the VPN..." {
			t.Errorf("expected default connecting message, got %q", got)
		}
	})

	t.Run("rejects invalid durations", func(t *testing.T) {
		bad := "soon"
		for _, cfg := range []*Config{
			{PollInterval: "fast"},
			{PollInterval: "-1s"},
			{Browser: &BrowserOverrides{Timeout: &bad}},
		} {
			if _, err := cfg.GetSettings(); err == nil {
				t.Errorf("expected error for %+v", cfg)
			}
		}
	})
}

func TestLoadFromMergesLocalOverGlobal(t *testing.T) {
	dir := t.TempDir()
	globalPath := filepath.Join(dir, "config.yaml")
	localPath := filepath.Join(dir, ".tunnelview.yaml")

	writeFile(t, globalPath, `home_url: https://global.example/
poll_interval: 2s
browser:
  user_agent: global-agent
  max_redirects: 3
notifications:
  enabled: false
`)
	writeFile(t, localPath, `home_url: https://local.example/
browser:
  max_redirects: 5
`)

	cfg, err := LoadFrom(globalPath, localPath)
	if err != nil {
		t.Fatalf("LoadFrom() error: %v", err)
	}
	s, err := cfg.GetSettings()
	if err != nil {
		t.Fatalf("GetSettings() error: %v", err)
	}

	if s.HomeURL != "https://local.example/" {
		t.Errorf("expected local home_url to win, got %q", s.HomeURL)
	}
	if s.PollInterval != 2*time.Second {
		t.Errorf("expected global poll_interval to survive, got %v", s.PollInterval)
	}
	if s.UserAgent != "global-agent" || s.MaxRedirects != 5 {
		t.Errorf("expected field-level browser merge, got %q %d", s.UserAgent, s.MaxRedirects)
	}
	if s.NotificationsEnabled {
		t.Error("expected global notifications.enabled=false to survive")
	}
}

func TestLoadFromMissingFiles(t *testing.T) {
	dir := t.TempDir()
	cfg, err := LoadFrom(filepath.Join(dir, "none.yaml"), filepath.Join(dir, "also-none.yaml"))
	if err != nil {
		t.Fatalf("LoadFrom() error: %v", err)
	}
	if cfg.HomeURL != "" || cfg.Browser != nil {
		t.Errorf("expected empty config, got %+v", cfg)
	}
}

func TestLoadFromInvalidYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	writeFile(t, path, "browser: [unterminated")

	if _, err := LoadFrom(path, filepath.Join(dir, "none.yaml")); err == nil {
		t.Error("expected parse error")
	}
}

func TestSet(t *testing.T) {
	tests := []struct {
		key     string
		value   string
		wantErr bool
	}{
		{"home_url", "https://example.org/", false},
		{"status_file", "/tmp/status.yaml", false},
		{"poll_interval", "500ms", false},
		{"poll_interval", "often", true},
		{"browser.user_agent", "agent", false},
		{"browser.timeout", "10s", false},
		{"browser.timeout", "0s", true},
		{"browser.max_redirects", "2", false},
		{"browser.max_redirects", "-1", true},
		{"notifications.enabled", "false", false},
		{"notifications.desktop", "maybe", true},
		{"token", "secret", true},
	}

	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			cfg := &Config{}
			err := cfg.Set(tt.key, tt.value)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Set(%q, %q) error = %v, wantErr %v", tt.key, tt.value, err, tt.wantErr)
			}
			if err == nil {
				if _, err := cfg.GetSettings(); err != nil {
					t.Errorf("GetSettings() after Set error: %v", err)
				}
			}
		})
	}
}

func TestSetInFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	if err := SetInFile(path, "browser.max_redirects", "4"); err != nil {
		t.Fatalf("SetInFile() error: %v", err)
	}
	if err := SetInFile(path, "home_url", "https://example.net/"); err != nil {
		t.Fatalf("SetInFile() error: %v", err)
	}

	cfg, err := LoadFrom(path, filepath.Join(t.TempDir(), "none.yaml"))
	if err != nil {
		t.Fatalf("LoadFrom() error: %v", err)
	}
	if cfg.HomeURL != "https://example.net/" || cfg.Browser == nil || *cfg.Browser.MaxRedirects != 4 {
		t.Errorf("expected both values persisted, got %+v", cfg)
	}
}

func TestDefaultConfigRoundTrip(t *testing.T) {
	yamlStr, err := DefaultConfig().ToYAML()
	if err != nil {
		t.Fatalf("ToYAML() error: %v", err)
	}
	for _, key := range []string{"home_url:", "max_redirects:", "load_failed_try_later:"} {
		if !strings.Contains(yamlStr, key) {
			t.Errorf("expected defaults to contain %q", key)
		}
	}

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := SaveTo(path, yamlStr); err != nil {
		t.Fatalf("SaveTo() error: %v", err)
	}
	cfg, err := LoadFrom(path, filepath.Join(t.TempDir(), "none.yaml"))
	if err != nil {
		t.Fatalf("LoadFrom() error: %v", err)
	}
	s, err := cfg.GetSettings()
	if err != nil {
		t.Fatalf("GetSettings() error: %v", err)
	}
	if s.Timeout != 30*time.Second || s.Messages.Text(page.MessageLoadFailed) != "Loading failed." {
		t.Errorf("unexpected settings from defaults file %+v", s)
	}
}

func TestMinimalConfigParses(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := SaveTo(path, MinimalConfig()); err != nil {
		t.Fatalf("SaveTo() error: %v", err)
	}
	cfg, err := LoadFrom(path, filepath.Join(t.TempDir(), "none.yaml"))
	if err != nil {
		t.Fatalf("LoadFrom() error: %v", err)
	}
	if cfg.HomeURL != "https://example.com/" {
		t.Errorf("expected home_url from template, got %q", cfg.HomeURL)
	}
}
