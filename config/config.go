package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

const (
	DefaultBaseURL        = "https://api.potat.app/"
	DefaultStatsURL       = "wss://api.potat.app/socket"
	DefaultReconnectDelay = 2500 * time.Millisecond
	DefaultStaleTTL       = 30 * time.Second
	DefaultTimeout        = 10 * time.Second
)

// Config is the top-level configuration.
type Config struct {
	API   APIConfig   `toml:"api"`
	Stats StatsConfig `toml:"stats"`
	UI    UIConfig    `toml:"ui"`
}

// APIConfig holds backend connection details.
type APIConfig struct {
	BaseURL           string   `toml:"base_url"`
	Timeout           Duration `toml:"timeout"`
	RequestsPerSecond float64  `toml:"requests_per_second"`
}

// StatsConfig holds the statistics feed endpoint.
type StatsConfig struct {
	URL            string   `toml:"url"`
	ReconnectDelay Duration `toml:"reconnect_delay"`
}

// UIConfig holds dashboard preferences.
type UIConfig struct {
	Channel  string   `toml:"channel"`
	StaleTTL Duration `toml:"stale_ttl"`
}

// Duration is a time.Duration written as a string such as "2.5s".
type Duration struct {
	time.Duration
}

// UnmarshalText parses a Go duration string.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText formats the duration as a Go duration string.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Dir returns the per-user configuration directory for potat-tui.
func Dir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = filepath.Join(os.Getenv("HOME"), ".config")
	}
	return filepath.Join(dir, "potat-tui")
}

// DefaultPath returns the default config file path using XDG conventions.
func DefaultPath() string {
	return filepath.Join(Dir(), "config.toml")
}

// Default returns a Config with every field set to its default.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// LoadFrom reads and parses the config file at the given path, applying
// defaults for anything left unset.
func LoadFrom(path string) (*Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("loading config from %s: %w", path, err)
	}
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("loading config from %s: %w", path, err)
	}
	return &cfg, nil
}

// LoadOrDefault behaves like LoadFrom but returns Default when the file does
// not exist.
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := LoadFrom(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

func (c *Config) applyDefaults() {
	if c.API.BaseURL == "" {
		c.API.BaseURL = DefaultBaseURL
	}
	if !strings.HasSuffix(c.API.BaseURL, "/") {
		c.API.BaseURL += "/"
	}
	if c.API.Timeout.Duration == 0 {
		c.API.Timeout.Duration = DefaultTimeout
	}
	if c.Stats.URL == "" {
		c.Stats.URL = DefaultStatsURL
	}
	if c.Stats.ReconnectDelay.Duration == 0 {
		c.Stats.ReconnectDelay.Duration = DefaultReconnectDelay
	}
	if c.UI.StaleTTL.Duration == 0 {
		c.UI.StaleTTL.Duration = DefaultStaleTTL
	}
}

func (c *Config) validate() error {
	if c.API.RequestsPerSecond < 0 {
		return fmt.Errorf("api.requests_per_second must not be negative")
	}
	if c.Stats.ReconnectDelay.Duration < 0 {
		return fmt.Errorf("stats.reconnect_delay must not be negative")
	}
	return nil
}
