package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"RainSentinel/internal/model"
)

// DefaultPath is used when neither --config nor CONFIG_PATH is set.
const DefaultPath = "configs/config.yaml"

// Config holds all application configuration. It is built once at startup and
// passed by value.
type Config struct {
	NOAA struct {
		BaseURL   string        `yaml:"base_url"`
		Dataset   string        `yaml:"dataset"`
		DataTypes string        `yaml:"data_types"`
		Units     string        `yaml:"units"`
		Timeout   time.Duration `yaml:"timeout"`
	} `yaml:"noaa"`
	Region struct {
		Name string `yaml:"name"`
	} `yaml:"region"`
	Stations []model.Station `yaml:"stations"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Schedule struct {
		Cron string `yaml:"cron"`
	} `yaml:"schedule"`
	Log struct {
		Level string `yaml:"level"`
	} `yaml:"log"`
	Proxy string `yaml:"proxy"`
}

// DefaultStations are tried in order. The Palo Alto COOP station (USC00046646) has
// been inactive, so Redwood City comes first, followed by the always-reporting
// airport stations.
var DefaultStations = []model.Station{
	{ID: "USC00047339", Name: "Redwood City, CA"},
	{ID: "USW00023293", Name: "San Jose Airport, CA"},
	{ID: "USW00023234", Name: "SFO Airport, CA"},
}

// ResolvePath picks the config file path: flag value, then CONFIG_PATH, then DefaultPath.
func ResolvePath(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		return v
	}
	return DefaultPath
}

// Load reads config from a YAML file, then applies environment variable overrides.
// A missing file is not an error.
func Load(path string) (Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("NOAA_BASE_URL"); v != "" {
		cfg.NOAA.BaseURL = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("RAINFALL_SCHEDULE"); v != "" {
		cfg.Schedule.Cron = v
	}

	// Defaults
	if cfg.NOAA.BaseURL == "" {
		cfg.NOAA.BaseURL = "https://www.ncei.noaa.gov/access/services/data/v1"
	}
	if cfg.NOAA.Dataset == "" {
		cfg.NOAA.Dataset = "daily-summaries"
	}
	if cfg.NOAA.DataTypes == "" {
		cfg.NOAA.DataTypes = "PRCP"
	}
	if cfg.NOAA.Units == "" {
		cfg.NOAA.Units = "standard"
	}
	if cfg.NOAA.Timeout == 0 {
		cfg.NOAA.Timeout = 30 * time.Second
	}
	if cfg.Region.Name == "" {
		cfg.Region.Name = "Palo Alto"
	}
	if len(cfg.Stations) == 0 {
		cfg.Stations = append([]model.Station(nil), DefaultStations...)
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}

	return cfg, nil
}

// Validate checks that all required fields are set.
func (c Config) Validate() error {
	if !strings.HasPrefix(c.NOAA.BaseURL, "http://") && !strings.HasPrefix(c.NOAA.BaseURL, "https://") {
		return fmt.Errorf("noaa.base_url must be an http(s) URL, got %q", c.NOAA.BaseURL)
	}
	if c.NOAA.Timeout <= 0 {
		return fmt.Errorf("noaa.timeout must be positive")
	}
	if len(c.Stations) == 0 {
		return fmt.Errorf("at least one station is required")
	}
	for i, s := range c.Stations {
		if strings.TrimSpace(s.ID) == "" {
			return fmt.Errorf("stations[%d].id is required", i)
		}
	}
	if _, err := ParseLogLevel(c.Log.Level); err != nil {
		return err
	}
	return nil
}

// LogLevel returns the configured slog level. Validate has already checked it.
func (c Config) LogLevel() slog.Level {
	level, _ := ParseLogLevel(c.Log.Level)
	return level
}

// ParseLogLevel maps a level name to a slog.Level.
func ParseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("invalid log level %q (allowed: debug, info, warn, error)", s)
	}
}
