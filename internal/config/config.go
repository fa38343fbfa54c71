// Package config loads board settings from ~/.board/config.yaml.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Holiday source kinds.
const (
	SourceBuiltin = "builtin"
	SourceFile    = "file"
	SourceGoogle  = "google"
)

// Config holds all board settings.
type Config struct {
	Daemon    DaemonConfig    `yaml:"daemon"`
	View      ViewConfig      `yaml:"view"`
	Holidays  HolidaysConfig  `yaml:"holidays"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
}

// DaemonConfig configures the HTTP daemon.
type DaemonConfig struct {
	// Listen is the address the API binds to.
	Listen string `yaml:"listen"`
	// DBPath is the SQLite database file.
	DBPath string `yaml:"db_path"`
}

// ViewConfig holds board view defaults.
type ViewConfig struct {
	// Density is "compact" (one month) or "wide" (three months).
	Density string `yaml:"density"`
	// ContainerWidth is the width in px used when rendering outside a UI.
	ContainerWidth float64 `yaml:"container_width"`
	ShowCompleted  bool    `yaml:"show_completed"`
}

// HolidaysConfig selects where non-working days come from.
type HolidaysConfig struct {
	// Source is builtin, file or google.
	Source string `yaml:"source"`
	// File is a YAML list of {date, name} used by the file source.
	File string `yaml:"file,omitempty"`
	// CalendarID is the Google calendar to read public holidays from.
	CalendarID string `yaml:"calendar_id,omitempty"`
	// APIKey authenticates against a public calendar.
	APIKey string `yaml:"api_key,omitempty"`
	// CredentialsFile is a service account JSON key, used instead of APIKey.
	CredentialsFile string `yaml:"credentials_file,omitempty"`
}

// SchedulerConfig controls background holiday refresh.
type SchedulerConfig struct {
	Enabled bool `yaml:"enabled"`
	// HolidayRefresh is a standard five-field cron expression.
	HolidayRefresh string `yaml:"holiday_refresh"`
	// LookbackMonths and LookaheadMonths bound the fetched range around today.
	LookbackMonths  int `yaml:"lookback_months"`
	LookaheadMonths int `yaml:"lookahead_months"`
}

// DefaultConfig returns the settings used when no file exists.
func DefaultConfig() *Config {
	return &Config{
		Daemon: DaemonConfig{
			Listen: "127.0.0.1:7477",
			DBPath: DefaultDBPath(),
		},
		View: ViewConfig{
			Density:        "compact",
			ContainerWidth: 1280,
		},
		Holidays: HolidaysConfig{
			Source:     SourceBuiltin,
			CalendarID: "en.indonesian#holiday@group.v.calendar.google.com",
		},
		Scheduler: SchedulerConfig{
			Enabled:         true,
			HolidayRefresh:  "0 3 * * *",
			LookbackMonths:  12,
			LookaheadMonths: 12,
		},
	}
}

// Dir returns ~/.board, or .board when the home directory is unknown.
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".board"
	}
	return filepath.Join(home, ".board")
}

// DefaultDBPath returns the database location under Dir.
func DefaultDBPath() string {
	return filepath.Join(Dir(), "board.db")
}

// Path returns the default config file location.
func Path() string {
	return filepath.Join(Dir(), "config.yaml")
}

// LoadConfig loads configuration from a YAML file. A missing file yields
// the defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadConfigFromHome loads ~/.board/config.yaml.
func LoadConfigFromHome() (*Config, error) {
	return LoadConfig(Path())
}

// SaveConfig writes cfg to path, creating parent directories if needed.
func SaveConfig(path string, cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config cannot be nil")
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	switch strings.ToLower(c.View.Density) {
	case "", "compact", "wide":
	default:
		return fmt.Errorf("invalid density %q, must be: compact or wide", c.View.Density)
	}
	if c.View.ContainerWidth < 0 {
		return fmt.Errorf("container_width must not be negative")
	}

	switch c.Holidays.Source {
	case SourceBuiltin:
	case SourceFile:
		if c.Holidays.File == "" {
			return fmt.Errorf("holidays.file is required for the file source")
		}
	case SourceGoogle:
		if c.Holidays.CalendarID == "" {
			return fmt.Errorf("holidays.calendar_id is required for the google source")
		}
		if c.Holidays.APIKey == "" && c.Holidays.CredentialsFile == "" {
			return fmt.Errorf("holidays.api_key or holidays.credentials_file is required for the google source")
		}
	default:
		return fmt.Errorf("invalid holiday source %q, must be: builtin, file, or google", c.Holidays.Source)
	}

	if c.Scheduler.LookbackMonths < 0 || c.Scheduler.LookaheadMonths < 0 {
		return fmt.Errorf("scheduler month ranges must not be negative")
	}
	return nil
}
