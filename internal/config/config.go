// Package config loads the client configuration from ~/.tasky/config.toml,
// a .env file and TASKY_* environment variables.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

const (
	EnvServer = "TASKY_SERVER"
	EnvFormat = "TASKY_FORMAT"
	EnvConfig = "TASKY_CONFIG"
	EnvDebug  = "TASKY_DEBUG"
)

const DefaultServerURL = "http://localhost:5050"

// Duration is a time.Duration written as "30s" / "15m" in TOML.
type Duration struct {
	time.Duration
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

func (d *Duration) UnmarshalText(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "" {
		d.Duration = 0
		return nil
	}
	// Bare numbers are seconds.
	if n, err := strconv.Atoi(s); err == nil {
		d.Duration = time.Duration(n) * time.Second
		return nil
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q", s)
	}
	d.Duration = v
	return nil
}

type Config struct {
	Server        ServerConfig        `toml:"server"`
	Notifications NotificationsConfig `toml:"notifications"`
	Summary       SummaryConfig       `toml:"summary"`
	Board         BoardConfig         `toml:"board"`
	Log           LogConfig           `toml:"log"`
}

type ServerConfig struct {
	URL     string   `toml:"url"`
	Timeout Duration `toml:"timeout"`
	// RateLimit is requests per second; zero disables client-side limiting.
	RateLimit float64 `toml:"rate_limit"`
	Burst     int     `toml:"burst"`
}

type NotificationsConfig struct {
	Enabled          bool     `toml:"enabled"`
	Interval         Duration `toml:"interval"`
	ReminderInterval Duration `toml:"reminder_interval"`
	Bell             bool     `toml:"bell"`
}

type SummaryConfig struct {
	AutoInterval  Duration `toml:"auto_interval"`
	IncludeClosed bool     `toml:"include_closed"`
}

type BoardConfig struct {
	GroupBy    string `toml:"group_by"`
	SortBy     string `toml:"sort_by"`
	ShowClosed bool   `toml:"show_closed"`
}

type LogConfig struct {
	Level string `toml:"level"`
	// File is the rotating log file; empty means <config dir>/tasky.log.
	File string `toml:"file"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		Server: ServerConfig{
			URL:       DefaultServerURL,
			Timeout:   Duration{30 * time.Second},
			RateLimit: 10,
			Burst:     5,
		},
		Notifications: NotificationsConfig{
			Enabled:          true,
			Interval:         Duration{30 * time.Second},
			ReminderInterval: Duration{15 * time.Minute},
		},
		Summary: SummaryConfig{
			AutoInterval: Duration{30 * time.Minute},
		},
		Board: BoardConfig{
			GroupBy: "status",
			SortBy:  "follow_up_date",
		},
		Log: LogConfig{Level: "info"},
	}
}

var groupFields = map[string]bool{"status": true, "category": true, "priority": true, "customer": true}

// normalize fills zero values from Default and resets unknown enum values.
func (c Config) normalize() Config {
	d := Default()
	c.Server.URL = strings.TrimRight(strings.TrimSpace(c.Server.URL), "/")
	if c.Server.URL == "" {
		c.Server.URL = d.Server.URL
	}
	if c.Server.Timeout.Duration <= 0 {
		c.Server.Timeout = d.Server.Timeout
	}
	if c.Server.RateLimit < 0 {
		c.Server.RateLimit = 0
	}
	if c.Server.Burst <= 0 {
		c.Server.Burst = d.Server.Burst
	}
	if c.Notifications.Interval.Duration < time.Second {
		c.Notifications.Interval = d.Notifications.Interval
	}
	if c.Notifications.ReminderInterval.Duration < 0 {
		c.Notifications.ReminderInterval = Duration{}
	}
	if c.Summary.AutoInterval.Duration < time.Minute {
		c.Summary.AutoInterval = d.Summary.AutoInterval
	}
	if !groupFields[c.Board.GroupBy] {
		c.Board.GroupBy = d.Board.GroupBy
	}
	if strings.TrimSpace(c.Board.SortBy) == "" {
		c.Board.SortBy = d.Board.SortBy
	}
	switch strings.ToLower(c.Log.Level) {
	case "trace", "debug", "info", "warn", "warning", "error":
		c.Log.Level = strings.ToLower(c.Log.Level)
	default:
		c.Log.Level = d.Log.Level
	}
	return c
}

// Dir is the directory holding config.toml, the preference database and logs.
func Dir() string {
	if p := strings.TrimSpace(os.Getenv(EnvConfig)); p != "" {
		return filepath.Dir(p)
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return ".tasky"
	}
	return filepath.Join(home, ".tasky")
}

// Path returns TASKY_CONFIG, or ~/.tasky/config.toml.
func Path() string {
	if p := strings.TrimSpace(os.Getenv(EnvConfig)); p != "" {
		return p
	}
	return filepath.Join(Dir(), "config.toml")
}

// Load reads path. A missing file yields defaults; a malformed file yields
// defaults and the parse error so callers can warn.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return Default(), fmt.Errorf("read config: %w", err)
	}
	return parse(data)
}

func parse(data []byte) (Config, error) {
	cfg := Default()
	if _, err := toml.Decode(string(data), &cfg); err != nil {
		return Default(), fmt.Errorf("parse config: %w", err)
	}
	return cfg.normalize(), nil
}

// LoadDotEnv loads .env from the working directory when present. Variables
// already set in the environment win.
func LoadDotEnv() error {
	if _, err := os.Stat(".env"); err != nil {
		return nil
	}
	return godotenv.Load(".env")
}

// ApplyEnv overrides cfg with TASKY_SERVER and TASKY_DEBUG.
func ApplyEnv(cfg Config) Config {
	if v := strings.TrimSpace(os.Getenv(EnvServer)); v != "" {
		cfg.Server.URL = strings.TrimRight(v, "/")
	}
	if v := strings.TrimSpace(os.Getenv(EnvDebug)); v != "" {
		if b, err := strconv.ParseBool(v); err == nil && b {
			cfg.Log.Level = "debug"
		}
	}
	return cfg
}

// Resolve is Load(Path()) followed by ApplyEnv, after loading .env.
func Resolve() (Config, string, error) {
	dotErr := LoadDotEnv()
	path := Path()
	cfg, err := Load(path)
	cfg = ApplyEnv(cfg)
	return cfg, path, errors.Join(dotErr, err)
}

// Save writes cfg to path, creating the directory.
func Save(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(cfg.normalize()); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, buf.Bytes(), 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
