package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/spiffcs/tunnelview/internal/constants"
	"github.com/spiffcs/tunnelview/internal/page"
)

// Config represents the application configuration
type Config struct {
	HomeURL      string `yaml:"home_url,omitempty" json:"home_url,omitempty"`
	StatusFile   string `yaml:"status_file,omitempty" json:"status_file,omitempty"`
	PollInterval string `yaml:"poll_interval,omitempty" json:"poll_interval,omitempty"`

	// Top-level config sections
	Browser       *BrowserOverrides      `yaml:"browser,omitempty" json:"browser,omitempty"`
	Notifications *NotificationOverrides `yaml:"notifications,omitempty" json:"notifications,omitempty"`
	Messages      *MessageOverrides      `yaml:"messages,omitempty" json:"messages,omitempty"`
}

// BrowserOverrides customizes the page engine
type BrowserOverrides struct {
	UserAgent    *string `yaml:"user_agent,omitempty" json:"user_agent,omitempty"`
	Timeout      *string `yaml:"timeout,omitempty" json:"timeout,omitempty"`
	MaxRedirects *int    `yaml:"max_redirects,omitempty" json:"max_redirects,omitempty"`
}

// NotificationOverrides customizes the local notification service
type NotificationOverrides struct {
	Enabled *bool `yaml:"enabled,omitempty" json:"enabled,omitempty"`
	Desktop *bool `yaml:"desktop,omitempty" json:"desktop,omitempty"`
}

// MessageOverrides replaces the blocker display strings
type MessageOverrides struct {
	NotConnected       *string `yaml:"not_connected,omitempty" json:"not_connected,omitempty"`
	Connecting         *string `yaml:"connecting,omitempty" json:"connecting,omitempty"`
	Loading            *string `yaml:"loading,omitempty" json:"loading,omitempty"`
	LoadFailed         *string `yaml:"load_failed,omitempty" json:"load_failed,omitempty"`
	LoadFailedTryLater *string `yaml:"load_failed_try_later,omitempty" json:"load_failed_try_later,omitempty"`
}

// Settings is the fully resolved configuration
type Settings struct {
	HomeURL      string
	StatusFile   string
	PollInterval time.Duration

	UserAgent    string
	Timeout      time.Duration
	MaxRedirects int

	NotificationsEnabled bool
	DesktopNotifications bool

	Messages page.Messages
}

// DefaultSettings returns the built-in settings
func DefaultSettings() Settings {
	return Settings{
		HomeURL:              constants.DefaultHomeURL,
		StatusFile:           DefaultStatusFile(),
		PollInterval:         constants.DefaultPollInterval,
		UserAgent:            constants.DefaultUserAgent,
		Timeout:              constants.DefaultLoadTimeout,
		MaxRedirects:         constants.DefaultMaxRedirects,
		NotificationsEnabled: true,
		DesktopNotifications: true,
		Messages:             page.DefaultMessages(),
	}
}

// GetSettings returns settings with user overrides merged with defaults
func (c *Config) GetSettings() (Settings, error) {
	s := DefaultSettings()

	if c.HomeURL != "" {
		s.HomeURL = c.HomeURL
	}
	if c.StatusFile != "" {
		s.StatusFile = c.StatusFile
	}
	if c.PollInterval != "" {
		d, err := parsePositiveDuration(c.PollInterval)
		if err != nil {
			return Settings{}, fmt.Errorf("invalid poll_interval: %w", err)
		}
		s.PollInterval = d
	}

	// Apply browser overrides
	if c.Browser != nil {
		b := c.Browser
		if b.UserAgent != nil {
			s.UserAgent = *b.UserAgent
		}
		if b.Timeout != nil {
			d, err := parsePositiveDuration(*b.Timeout)
			if err != nil {
				return Settings{}, fmt.Errorf("invalid browser.timeout: %w", err)
			}
			s.Timeout = d
		}
		if b.MaxRedirects != nil {
			if *b.MaxRedirects < 0 {
				return Settings{}, fmt.Errorf("invalid browser.max_redirects: %d", *b.MaxRedirects)
			}
			s.MaxRedirects = *b.MaxRedirects
		}
	}

	// Apply notification overrides
	if c.Notifications != nil {
		if c.Notifications.Enabled != nil {
			s.NotificationsEnabled = *c.Notifications.Enabled
		}
		if c.Notifications.Desktop != nil {
			s.DesktopNotifications = *c.Notifications.Desktop
		}
	}

	// Apply message overrides
	if c.Messages != nil {
		m := c.Messages
		for id, text := range map[page.MessageID]*string{
			page.MessageNotConnected:       m.NotConnected,
			page.MessageConnecting:         m.Connecting,
			page.MessageLoading:            m.Loading,
			page.MessageLoadFailed:         m.LoadFailed,
			page.MessageLoadFailedTryLater: m.LoadFailedTryLater,
		} {
			if text != nil && *text != "" {
				s.Messages[id] = *text
			}
		}
	}

	return s, nil
}

func parsePositiveDuration(s string) (time.Duration, error) {
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, err
	}
	if d <= 0 {
		return 0, fmt.Errorf("duration must be positive: %s", s)
	}
	return d, nil
}

// DefaultConfigDir returns the default config directory
func DefaultConfigDir() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return ".tunnelview"
	}
	return filepath.Join(configDir, "tunnelview")
}

// DefaultStatusFile returns where the VPN daemon writes its status document
func DefaultStatusFile() string {
	return filepath.Join(DefaultConfigDir(), "status.yaml")
}

// ConfigPath returns the path to the config file
func ConfigPath() string {
	return filepath.Join(DefaultConfigDir(), "config.yaml")
}

// LocalConfigPath returns the path to the local config file in the current directory
func LocalConfigPath() string {
	return ".tunnelview.yaml"
}

// Load loads the configuration from disk.
// It first loads the global config from XDG config directory, then merges
// any local .tunnelview.yaml config on top (local values take precedence).
func Load() (*Config, error) {
	return LoadFrom(ConfigPath(), LocalConfigPath())
}

// LoadFrom loads and merges the config files at globalPath and localPath.
// Missing files are skipped.
func LoadFrom(globalPath, localPath string) (*Config, error) {
	cfg := &Config{}

	global, err := readConfigFile(globalPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load global config file: %w", err)
	}
	if global != nil {
		cfg = global
	}

	local, err := readConfigFile(localPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load local config file: %w", err)
	}
	if local != nil {
		cfg = mergeConfig(cfg, local)
	}

	return cfg, nil
}

func readConfigFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return &cfg, nil
}

// mergeConfig merges local config on top of global config.
// Local values take precedence; unset local values preserve global values.
func mergeConfig(global, local *Config) *Config {
	result := &Config{
		HomeURL:      pick(local.HomeURL, global.HomeURL),
		StatusFile:   pick(local.StatusFile, global.StatusFile),
		PollInterval: pick(local.PollInterval, global.PollInterval),
	}

	result.Browser = mergeBrowser(global.Browser, local.Browser)
	result.Notifications = mergeNotifications(global.Notifications, local.Notifications)
	result.Messages = mergeMessages(global.Messages, local.Messages)

	return result
}

func pick(local, global string) string {
	if local != "" {
		return local
	}
	return global
}

func mergeBrowser(global, local *BrowserOverrides) *BrowserOverrides {
	if global == nil && local == nil {
		return nil
	}
	result := &BrowserOverrides{}

	if global != nil {
		*result = *global
	}

	if local != nil {
		if local.UserAgent != nil {
			result.UserAgent = local.UserAgent
		}
		if local.Timeout != nil {
			result.Timeout = local.Timeout
		}
		if local.MaxRedirects != nil {
			result.MaxRedirects = local.MaxRedirects
		}
	}

	if result.UserAgent == nil && result.Timeout == nil && result.MaxRedirects == nil {
		return nil
	}
	return result
}

func mergeNotifications(global, local *NotificationOverrides) *NotificationOverrides {
	if global == nil && local == nil {
		return nil
	}
	result := &NotificationOverrides{}

	if global != nil {
		*result = *global
	}

	if local != nil {
		if local.Enabled != nil {
			result.Enabled = local.Enabled
		}
		if local.Desktop != nil {
			result.Desktop = local.Desktop
		}
	}

	if result.Enabled == nil && result.Desktop == nil {
		return nil
	}
	return result
}

func mergeMessages(global, local *MessageOverrides) *MessageOverrides {
	if global == nil && local == nil {
		return nil
	}
	result := &MessageOverrides{}

	if global != nil {
		*result = *global
	}

	if local != nil {
		if local.NotConnected != nil {
			result.NotConnected = local.NotConnected
		}
		if local.Connecting != nil {
			result.Connecting = local.Connecting
		}
		if local.Loading != nil {
			result.Loading = local.Loading
		}
		if local.LoadFailed != nil {
			result.LoadFailed = local.LoadFailed
		}
		if local.LoadFailedTryLater != nil {
			result.LoadFailedTryLater = local.LoadFailedTryLater
		}
	}

	if result.NotConnected == nil && result.Connecting == nil && result.Loading == nil &&
		result.LoadFailed == nil && result.LoadFailedTryLater == nil {
		return nil
	}
	return result
}

// SettableKeys lists the keys accepted by Set.
func SettableKeys() []string {
	return []string{
		"home_url",
		"status_file",
		"poll_interval",
		"browser.user_agent",
		"browser.timeout",
		"browser.max_redirects",
		"notifications.enabled",
		"notifications.desktop",
	}
}

// Set validates value and stores it under key.
func (c *Config) Set(key, value string) error {
	switch key {
	case "home_url":
		c.HomeURL = value
	case "status_file":
		c.StatusFile = value
	case "poll_interval":
		if _, err := parsePositiveDuration(value); err != nil {
			return fmt.Errorf("invalid poll_interval: %w", err)
		}
		c.PollInterval = value
	case "browser.user_agent":
		c.browser().UserAgent = &value
	case "browser.timeout":
		if _, err := parsePositiveDuration(value); err != nil {
			return fmt.Errorf("invalid browser.timeout: %w", err)
		}
		c.browser().Timeout = &value
	case "browser.max_redirects":
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 {
			return fmt.Errorf("invalid browser.max_redirects: %s (must be a non-negative integer)", value)
		}
		c.browser().MaxRedirects = &n
	case "notifications.enabled", "notifications.desktop":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid %s: %s (must be true or false)", key, value)
		}
		if c.Notifications == nil {
			c.Notifications = &NotificationOverrides{}
		}
		if key == "notifications.enabled" {
			c.Notifications.Enabled = &b
		} else {
			c.Notifications.Desktop = &b
		}
	default:
		return fmt.Errorf("unknown config key: %s", key)
	}
	return nil
}

func (c *Config) browser() *BrowserOverrides {
	if c.Browser == nil {
		c.Browser = &BrowserOverrides{}
	}
	return c.Browser
}

// DefaultConfig returns a fully populated config with all default values.
// This is useful for generating a complete config file template.
func DefaultConfig() *Config {
	s := DefaultSettings()
	timeout := s.Timeout.String()
	msgs := s.Messages
	text := func(id page.MessageID) *string {
		t := msgs[id]
		return &t
	}

	return &Config{
		HomeURL:      s.HomeURL,
		StatusFile:   s.StatusFile,
		PollInterval: s.PollInterval.String(),
		Browser: &BrowserOverrides{
			UserAgent:    &s.UserAgent,
			Timeout:      &timeout,
			MaxRedirects: &s.MaxRedirects,
		},
		Notifications: &NotificationOverrides{
			Enabled: &s.NotificationsEnabled,
			Desktop: &s.DesktopNotifications,
		},
		Messages: &MessageOverrides{
			NotConnected:       text(page.MessageNotConnected),
			Connecting:         text(page.MessageConnecting),
			Loading:            text(page.MessageLoading),
			LoadFailed:         text(page.MessageLoadFailed),
			LoadFailedTryLater: text(page.MessageLoadFailedTryLater),
		},
	}
}

// ToYAML returns the config as a YAML string
func (c *Config) ToYAML() (string, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("failed to marshal config: %w", err)
	}
	return string(data), nil
}

// ConfigPathInfo contains information about config file paths
type ConfigPathInfo struct {
	GlobalPath   string
	GlobalExists bool
	LocalPath    string
	LocalExists  bool
}

// GetConfigPaths returns path info for both global and local configs
func GetConfigPaths() ConfigPathInfo {
	globalPath := ConfigPath()
	localPath := LocalConfigPath()

	// Get absolute path for local config
	absLocalPath, err := filepath.Abs(localPath)
	if err != nil {
		absLocalPath = localPath
	}

	_, globalErr := os.Stat(globalPath)
	_, localErr := os.Stat(localPath)

	return ConfigPathInfo{
		GlobalPath:   globalPath,
		GlobalExists: globalErr == nil,
		LocalPath:    absLocalPath,
		LocalExists:  localErr == nil,
	}
}

// MinimalConfig returns a minimal config template with comments
func MinimalConfig() string {
	return `# tunnelview configuration file
# See: tunnelview config defaults  (for all available options)

# Page loaded when no URL is given
home_url: https://example.com/

# Status document written by the VPN daemon (optional)
# status_file: /run/tunnelview/status.yaml
# poll_interval: 1s

# Page engine (optional)
# browser:
#   user_agent: tunnelview
#   timeout: 30s
#   max_redirects: 10

# Local notifications (optional)
# notifications:
#   enabled: true
#   desktop: true
`
}

// SaveTo writes content to a specific path, creating directories as needed
func SaveTo(path string, content string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		return fmt.Errorf("failed to write file %s: %w", path, err)
	}

	return nil
}

// SetInFile loads the config file at path, sets key and writes it back.
// Only that file is touched; merged values from other files are not copied.
func SetInFile(path, key, value string) error {
	cfg, err := readConfigFile(path)
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	if cfg == nil {
		cfg = &Config{}
	}
	if err := cfg.Set(key, value); err != nil {
		return err
	}

	content, err := cfg.ToYAML()
	if err != nil {
		return err
	}
	return SaveTo(path, content)
}
