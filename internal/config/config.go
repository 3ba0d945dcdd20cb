package config

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"
)

//go:embed default_config.yaml
var defaultConfigFS embed.FS

// Listing transports for channel uploads.
const (
	ListingAPI = "api"
	ListingRSS = "rss"
)

type Config struct {
	APIKey        string  `yaml:"api_key"`
	MaxAge        string  `yaml:"max_age"`
	Listing       string  `yaml:"listing"`
	Metric        string  `yaml:"metric"`
	MaxPerChannel int     `yaml:"max_per_channel"`
	MinScore      float64 `yaml:"min_score"`
}

// Key returns the resolved API key (config or env var).
func (c *Config) Key() string {
	if c.APIKey != "" {
		return c.APIKey
	}
	return os.Getenv("YTSCOUT_API_KEY")
}

// MaxAgeDuration parses max_age, accepting "Nd" day syntax alongside the
// standard duration forms. Defaults to 24h.
func (c *Config) MaxAgeDuration() time.Duration {
	d, err := ParseAge(c.MaxAge)
	if err != nil {
		return 24 * time.Hour
	}
	return d
}

// GetMaxPerChannel returns the per-channel fetch cap, defaulting to 100.
func (c *Config) GetMaxPerChannel() int {
	if c.MaxPerChannel <= 0 {
		return 100
	}
	return c.MaxPerChannel
}

// ParseAge parses a duration, accepting "Nd" day syntax (e.g. "7d").
func ParseAge(s string) (time.Duration, error) {
	if len(s) > 1 && s[len(s)-1] == 'd' {
		var days int
		if _, err := fmt.Sscanf(s, "%dd", &days); err == nil {
			return time.Duration(days) * 24 * time.Hour, nil
		}
	}
	return time.ParseDuration(s)
}

func DefaultConfigPath() string {
	return filepath.Join(xdg.ConfigHome, "ytscout", "config.yaml")
}

func DefaultNichesPath() string {
	return filepath.Join(xdg.ConfigHome, "ytscout", "niches.json")
}

func CachePath() string {
	return filepath.Join(xdg.CacheHome, "ytscout", "ytscout.db")
}

func LogPath() string {
	return filepath.Join(xdg.StateHome, "ytscout", "ytscout.log")
}

func loadDefaults() (*Config, error) {
	data, err := defaultConfigFS.ReadFile("default_config.yaml")
	if err != nil {
		return nil, fmt.Errorf("reading embedded config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded config: %w", err)
	}
	return &cfg, nil
}

func Load(path string) (*Config, error) {
	defaults, err := loadDefaults()
	if err != nil {
		return nil, err
	}

	if path == "" {
		path = DefaultConfigPath()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// Write defaults to config path on first run
			if err := writeDefaults(path); err != nil {
				// Non-fatal: just use embedded defaults
				return defaults, nil
			}
			return defaults, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func writeDefaults(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, _ := defaultConfigFS.ReadFile("default_config.yaml")
	return os.WriteFile(path, data, 0o644)
}

func validate(cfg *Config) error {
	switch cfg.Listing {
	case "", ListingAPI, ListingRSS:
	default:
		return fmt.Errorf("unknown listing %q (valid: api, rss)", cfg.Listing)
	}

	switch cfg.Metric {
	case "", "views", "likes", "comments":
	default:
		return fmt.Errorf("unknown metric %q (valid: views, likes, comments)", cfg.Metric)
	}

	if cfg.MaxAge != "" {
		if _, err := ParseAge(cfg.MaxAge); err != nil {
			return fmt.Errorf("invalid max_age %q: %w", cfg.MaxAge, err)
		}
	}

	return nil
}
