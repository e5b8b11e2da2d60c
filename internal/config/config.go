// Package config handles configuration loading from files, defaults, and environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/javiermolinar/planta/internal/period"
)

// Config holds the application configuration.
type Config struct {
	Planner PlannerConfig `toml:"planner"`
	Catalog CatalogConfig `toml:"catalog"`
	Storage StorageConfig `toml:"storage"`
	UI      UIConfig      `toml:"ui"`
}

// PlannerConfig holds grid and mutation engine settings.
type PlannerConfig struct {
	DefaultDuration int    `toml:"default_duration"` // days covered by a new block
	DragThreshold   int    `toml:"drag_threshold"`   // pointer movement before a press becomes a drag
	Zoom            string `toml:"zoom"`             // "month" or "week"
	MaxHistory      int    `toml:"max_history"`      // undo steps kept per session
}

// CatalogConfig locates the reference data file.
type CatalogConfig struct {
	Path string `toml:"path"`
}

// StorageConfig holds database settings.
type StorageConfig struct {
	DBPath string `toml:"db_path"`
}

// UIConfig holds TUI settings.
type UIConfig struct {
	Theme           string `toml:"theme"` // "mocha", "frappe", "latte"
	ShowChangeovers bool   `toml:"show_changeovers"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Planner: PlannerConfig{
			DefaultDuration: 1,
			DragThreshold:   period.DefaultDragThreshold,
			Zoom:            string(period.ZoomMonth),
			MaxHistory:      50,
		},
		Catalog: CatalogConfig{
			Path: defaultCatalogPath(),
		},
		Storage: StorageConfig{
			DBPath: defaultDBPath(),
		},
		UI: UIConfig{
			Theme:           "mocha",
			ShowChangeovers: true,
		},
	}
}

// defaultDBPath returns the default database path.
func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "planta.db"
	}
	return filepath.Join(home, ".local", "share", "planta", "planta.db")
}

func defaultCatalogPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "catalog.yaml"
	}
	return filepath.Join(home, ".config", "planta", "catalog.yaml")
}

// DefaultConfigPath returns the default config file path.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "config.toml"
	}
	return filepath.Join(home, ".config", "planta", "config.toml")
}

// Load loads configuration from the default path, merging with defaults and env vars.
func Load() (*Config, error) {
	return LoadFrom(DefaultConfigPath())
}

// LoadFrom loads configuration from the specified path.
// It starts with defaults, overlays file config if it exists, then applies env overrides.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()

	// Try to load from file (not an error if it doesn't exist)
	if err := loadFromFile(path, cfg); err != nil {
		return nil, err
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}

	cfg.Storage.DBPath = expandPath(cfg.Storage.DBPath)
	cfg.Catalog.Path = expandPath(cfg.Catalog.Path)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// loadFromFile loads config from a file if it exists.
func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("reading config file: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing config file: %w", err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides to the config.
// Environment variables take precedence over file config.
func applyEnvOverrides(cfg *Config) error {
	ints := []struct {
		env string
		dst *int
	}{
		{"PLANTA_DEFAULT_DURATION", &cfg.Planner.DefaultDuration},
		{"PLANTA_DRAG_THRESHOLD", &cfg.Planner.DragThreshold},
		{"PLANTA_MAX_HISTORY", &cfg.Planner.MaxHistory},
	}
	for _, o := range ints {
		v := os.Getenv(o.env)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s must be an integer, got %q", o.env, v)
		}
		*o.dst = n
	}

	if v := os.Getenv("PLANTA_ZOOM"); v != "" {
		cfg.Planner.Zoom = v
	}
	if v := os.Getenv("PLANTA_CATALOG_PATH"); v != "" {
		cfg.Catalog.Path = v
	}
	if v := os.Getenv("PLANTA_DB_PATH"); v != "" {
		cfg.Storage.DBPath = v
	}
	if v := os.Getenv("PLANTA_UI_THEME"); v != "" {
		cfg.UI.Theme = v
	}
	return nil
}

// expandPath expands ~ to the user's home directory.
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Planner.DefaultDuration < 1 {
		return errors.New("default_duration must be at least 1")
	}
	if c.Planner.DragThreshold < 0 {
		return errors.New("drag_threshold must not be negative")
	}
	if c.Planner.MaxHistory < 1 {
		return errors.New("max_history must be at least 1")
	}
	if _, err := period.ParseZoom(c.Planner.Zoom); err != nil {
		return fmt.Errorf("zoom must be \"month\" or \"week\", got %q", c.Planner.Zoom)
	}
	if c.Catalog.Path == "" {
		return errors.New("catalog path must be set")
	}
	if c.Storage.DBPath == "" {
		return errors.New("db_path must be set")
	}
	return nil
}

// ZoomLevel returns the configured zoom. Validate guarantees it parses.
func (c *Config) ZoomLevel() period.Zoom {
	z, err := period.ParseZoom(c.Planner.Zoom)
	if err != nil {
		return period.ZoomMonth
	}
	return z
}

// Save writes the configuration to the default path.
func (c *Config) Save() error {
	return c.SaveTo(DefaultConfigPath())
}

// SaveTo writes the configuration to the specified path.
func (c *Config) SaveTo(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}
