package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

type Config struct {
	Tracker       TrackerConfig  `toml:"tracker"`
	Render        RenderConfig   `toml:"render"`
	Output        OutputConfig   `toml:"output"`
	Schedule      ScheduleConfig `toml:"schedule"`
	Notifications NotifyConfig   `toml:"notifications"`
}

type TrackerConfig struct {
	Path    string `toml:"path"`
	RootKey string `toml:"root_key"` // e.g. "Tracker" when lists are nested one level down
}

type RenderConfig struct {
	Width      int    `toml:"width"`
	Height     int    `toml:"height"`
	CellSize   int    `toml:"cell_size"`
	CellMargin int    `toml:"cell_margin"`
	WindowDays int    `toml:"window_days"`
	Theme      string `toml:"theme"` // "light", "dark" or "auto"
}

type OutputConfig struct {
	Dir string `toml:"dir"`
}

type ScheduleConfig struct {
	RefreshMinutes int `toml:"refresh_minutes"`
}

type NotifyConfig struct {
	Enabled bool `toml:"enabled"`
}

func DefaultConfig() Config {
	return Config{
		Render: RenderConfig{
			Width:      1000,
			Height:     350,
			CellSize:   20,
			CellMargin: 4,
			WindowDays: 365,
			Theme:      "auto",
		},
		Schedule: ScheduleConfig{
			RefreshMinutes: 30,
		},
		Notifications: NotifyConfig{
			Enabled: true,
		},
	}
}

func ConfigDir() (string, error) {
	if v := os.Getenv("HABITMAP_HOME"); v != "" {
		return v, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("finding home directory: %w", err)
	}
	return filepath.Join(home, ".config", "habitmap"), nil
}

func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFile(path)
}

// LoadFile reads path over the defaults. A missing file is not an error.
func LoadFile(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	if len(data) > 0 {
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	applyEnvOverrides(&cfg)
	if err := cfg.fillPaths(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("HABITMAP_TRACKER"); v != "" {
		cfg.Tracker.Path = v
	}
	if v := os.Getenv("HABITMAP_OUTPUT_DIR"); v != "" {
		cfg.Output.Dir = v
	}
	if v := os.Getenv("HABITMAP_THEME"); v != "" {
		cfg.Render.Theme = v
	}
}

func (cfg *Config) fillPaths() error {
	if cfg.Tracker.Path != "" && cfg.Output.Dir != "" {
		return nil
	}
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	if cfg.Tracker.Path == "" {
		cfg.Tracker.Path = filepath.Join(dir, "tracker.json")
	}
	if cfg.Output.Dir == "" {
		cfg.Output.Dir = filepath.Join(dir, "widgets")
	}
	return nil
}

func EnsureConfigDir() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0755)
}

// WriteDefault creates the config file with default values unless it
// already exists, and returns its path.
func WriteDefault() (string, error) {
	if err := EnsureConfigDir(); err != nil {
		return "", fmt.Errorf("creating config directory: %w", err)
	}
	path, err := ConfigPath()
	if err != nil {
		return "", err
	}
	if _, err := os.Stat(path); err == nil {
		return path, nil
	}

	out, err := toml.Marshal(DefaultConfig())
	if err != nil {
		return "", fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, out, 0644); err != nil {
		return "", fmt.Errorf("writing default config: %w", err)
	}
	return path, nil
}
