// Package config loads aquanova settings from a YAML file, a .env file and
// the environment, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultPath is the config file looked up when none is given.
const DefaultPath = "aquanova.yaml"

// Source kinds.
const (
	SourceDataset = "dataset"
	SourceRandom  = "random"
)

// Config is the root configuration.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Source  SourceConfig  `yaml:"source"`
	Store   StoreConfig   `yaml:"store"`
	Gemini  GeminiConfig  `yaml:"gemini"`
	Weather WeatherConfig `yaml:"weather"`
	Logging LoggingConfig `yaml:"logging"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// SourceConfig selects and schedules the live reading source.
type SourceConfig struct {
	Kind         string `yaml:"kind"` // dataset, random
	DatasetPath  string `yaml:"dataset_path"`
	PollSchedule string `yaml:"poll_schedule"`
	Seed         int64  `yaml:"seed"` // 0 = time-seeded
}

// StoreConfig configures reading history.
type StoreConfig struct {
	Path      string `yaml:"path"` // empty disables persistence
	Retention string `yaml:"retention"`
}

// GeminiConfig configures the chat assistant and image diagnoser.
type GeminiConfig struct {
	APIKey  string `yaml:"api_key"`
	Model   string `yaml:"model"`
	Timeout string `yaml:"timeout"`
}

// WeatherConfig configures the weather impact lookup.
type WeatherConfig struct {
	APIKey   string  `yaml:"api_key"`
	Lat      float64 `yaml:"lat"`
	Lon      float64 `yaml:"lon"`
	Location string  `yaml:"location"`
}

// LoggingConfig configures zap.
type LoggingConfig struct {
	Verbose bool `yaml:"verbose"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{Addr: ":8000"},
		Source: SourceConfig{
			Kind:         SourceDataset,
			DatasetPath:  "data/Ireland_Water_Quality_Monitoring_2019.csv",
			PollSchedule: "@every 5s",
		},
		Store: StoreConfig{
			Path:      "data/aquanova.db",
			Retention: "168h",
		},
		Gemini: GeminiConfig{
			Model:   "gemini-flash-latest",
			Timeout: "30s",
		},
		Weather: WeatherConfig{
			Lat:      53.93,
			Lon:      -9.58,
			Location: "Burrishoole Catchment, Ireland",
		},
	}
}

// Load reads the YAML file at path over the defaults, then applies .env and
// environment overrides. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = DefaultPath
	}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	case errors.Is(err, fs.ErrNotExist):
	default:
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := loadEnvFile(filepath.Join(filepath.Dir(path), ".env")); err != nil {
		return nil, err
	}
	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadEnvFile loads KEY=VALUE pairs into the environment without
// overriding variables that are already set.
func loadEnvFile(path string) error {
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("GEMINI_API_KEY"); v != "" {
		c.Gemini.APIKey = v
	}
	if v := os.Getenv("OPENWEATHER_API_KEY"); v != "" {
		c.Weather.APIKey = v
	}
	if v := os.Getenv("AQUANOVA_ADDR"); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv("AQUANOVA_DB"); v != "" {
		c.Store.Path = v
	}
	if v := os.Getenv("AQUANOVA_DATASET"); v != "" {
		c.Source.DatasetPath = v
	}
}

// Validate checks enumerations and durations, normalizing the source kind.
func (c *Config) Validate() error {
	c.Source.Kind = strings.ToLower(c.Source.Kind)
	switch c.Source.Kind {
	case SourceDataset, SourceRandom:
	default:
		return fmt.Errorf("invalid source kind %q (want %s or %s)", c.Source.Kind, SourceDataset, SourceRandom)
	}
	for name, v := range map[string]string{
		"store.retention": c.Store.Retention,
		"gemini.timeout":  c.Gemini.Timeout,
	} {
		if v == "" {
			continue
		}
		if _, err := time.ParseDuration(v); err != nil {
			return fmt.Errorf("invalid %s %q: %w", name, v, err)
		}
	}
	return nil
}

// Save writes the configuration as YAML.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// RetentionDuration returns the store retention, 0 meaning keep everything.
func (c *Config) RetentionDuration() time.Duration {
	d, err := time.ParseDuration(c.Store.Retention)
	if err != nil {
		return 0
	}
	return d
}

// GeminiTimeout returns the per-request Gemini timeout.
func (c *Config) GeminiTimeout() time.Duration {
	d, err := time.ParseDuration(c.Gemini.Timeout)
	if err != nil || d <= 0 {
		return 30 * time.Second
	}
	return d
}
