package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Window  WindowConfig  `toml:"window"`
	Logging LoggingConfig `toml:"logging"`
	Dev     DevConfig     `toml:"dev"`
}

type WindowConfig struct {
	Title string `toml:"title"`
	// MaxWidth caps the table width in pixels.
	MaxWidth int `toml:"max_width"`
	// ViewportMargin is subtracted from the viewport width before capping.
	ViewportMargin int `toml:"viewport_margin"`
	TPS            int `toml:"tps"`
}

type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "json" or "console"
}

type DevConfig struct {
	Watch        bool   `toml:"watch"`
	WatchDir     string `toml:"watch_dir"`
	Overlay      bool   `toml:"overlay"`
	PhysicsDebug bool   `toml:"physics_debug"`
}

func Default() *Config {
	return &Config{
		Window: WindowConfig{
			Title:          "billiards",
			MaxWidth:       900,
			ViewportMargin: 40,
			TPS:            60,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		Dev: DevConfig{
			WatchDir: "prefabs",
		},
	}
}

// Load decodes path over the defaults. An empty path returns the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	if _, err := toml.Decode(string(data), cfg); err != nil {
		return nil, fmt.Errorf("config: decode %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	var errs []error
	if c.Window.MaxWidth <= 0 {
		errs = append(errs, errors.New("window.max_width must be positive"))
	}
	if c.Window.ViewportMargin < 0 {
		errs = append(errs, errors.New("window.viewport_margin must not be negative"))
	}
	if c.Window.TPS <= 0 {
		errs = append(errs, errors.New("window.tps must be positive"))
	}
	switch c.Logging.Format {
	case "json", "console":
	default:
		errs = append(errs, fmt.Errorf("logging.format %q must be json or console", c.Logging.Format))
	}
	return errors.Join(errs...)
}

// TableWidth sizes the table to the viewport, leaving the configured margin
// and never exceeding MaxWidth.
func (w WindowConfig) TableWidth(viewportWidth int) float64 {
	width := min(viewportWidth-w.ViewportMargin, w.MaxWidth)
	if width <= 0 {
		width = w.MaxWidth
	}
	return float64(width)
}
