package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"NOAA_BASE_URL", "HTTPS_PROXY", "SQLITE_PATH", "LOG_LEVEL", "RAINFALL_SCHEDULE", "CONFIG_PATH"} {
		t.Setenv(k, "")
	}
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load() error = %v, want nil", err)
	}
	if cfg.NOAA.BaseURL != "https://www.ncei.noaa.gov/access/services/data/v1" {
		t.Errorf("BaseURL = %q", cfg.NOAA.BaseURL)
	}
	if cfg.NOAA.Dataset != "daily-summaries" || cfg.NOAA.DataTypes != "PRCP" || cfg.NOAA.Units != "standard" {
		t.Errorf("unexpected NOAA defaults: %+v", cfg.NOAA)
	}
	if cfg.NOAA.Timeout != 30*time.Second {
		t.Errorf("Timeout = %v; want 30s", cfg.NOAA.Timeout)
	}
	if len(cfg.Stations) != 3 || cfg.Stations[0].ID != "USC00047339" {
		t.Errorf("Stations = %+v", cfg.Stations)
	}
	if cfg.Database.SQLitePath != "" {
		t.Errorf("SQLitePath = %q; want empty", cfg.Database.SQLitePath)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() = %v; want nil", err)
	}
}

func TestLoad_FileAndEnvOverrides(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
noaa:
  timeout: 5s
region:
  name: Menlo Park
stations:
  - id: USW00023293
    name: San Jose Airport, CA
log:
  level: warn
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("NOAA_BASE_URL", "http://localhost:9999/data")
	t.Setenv("SQLITE_PATH", "/tmp/rain.db")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.NOAA.Timeout != 5*time.Second {
		t.Errorf("Timeout = %v; want 5s", cfg.NOAA.Timeout)
	}
	if cfg.Region.Name != "Menlo Park" {
		t.Errorf("Region = %q", cfg.Region.Name)
	}
	if len(cfg.Stations) != 1 || cfg.Stations[0].Name != "San Jose Airport, CA" {
		t.Errorf("Stations = %+v", cfg.Stations)
	}
	if cfg.NOAA.BaseURL != "http://localhost:9999/data" {
		t.Errorf("BaseURL = %q", cfg.NOAA.BaseURL)
	}
	if cfg.Database.SQLitePath != "/tmp/rain.db" {
		t.Errorf("SQLitePath = %q", cfg.Database.SQLitePath)
	}
	if cfg.LogLevel() != slog.LevelWarn {
		t.Errorf("LogLevel = %v; want warn", cfg.LogLevel())
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("noaa: [unterminated"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("Load() error = nil, want parse error")
	}
}

func TestValidate(t *testing.T) {
	clearEnv(t)
	base, err := Load(filepath.Join(t.TempDir(), "none.yaml"))
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"bad url", func(c *Config) { c.NOAA.BaseURL = "ftp://example" }},
		{"zero timeout", func(c *Config) { c.NOAA.Timeout = -time.Second }},
		{"no stations", func(c *Config) { c.Stations = nil }},
		{"blank station id", func(c *Config) { c.Stations[0].ID = " " }},
		{"bad log level", func(c *Config) { c.Log.Level = "loud" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := base
			c.Stations = append(c.Stations[:0:0], base.Stations...)
			tt.mutate(&c)
			if err := c.Validate(); err == nil {
				t.Error("Validate() = nil; want error")
			}
		})
	}
}

func TestResolvePath(t *testing.T) {
	clearEnv(t)
	if got := ResolvePath(""); got != DefaultPath {
		t.Errorf("ResolvePath(\"\") = %q; want %q", got, DefaultPath)
	}
	t.Setenv("CONFIG_PATH", "/etc/rain.yaml")
	if got := ResolvePath(""); got != "/etc/rain.yaml" {
		t.Errorf("ResolvePath with env = %q", got)
	}
	if got := ResolvePath("local.yaml"); got != "local.yaml" {
		t.Errorf("ResolvePath with flag = %q", got)
	}
}
