// Package config provides configuration loading for the pdfpipe command.
// Values come from defaults, then an optional YAML file, then PDFPIPE_*
// environment variables.
package config

import (
	"fmt"
	"image/color"
	"os"
	"strings"

	"golang.org/x/image/colornames"
	"gopkg.in/yaml.v3"

	"github.com/tsawler/pdfpipe/layout"
)

// Config holds all configuration for the pdfpipe command.
type Config struct {
	Log     LogConfig     `yaml:"log"`
	Storage StorageConfig `yaml:"storage"`
	Layout  LayoutConfig  `yaml:"layout"`
	Overlay OverlayConfig `yaml:"overlay"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // json or console
}

// StorageConfig selects where documents are read from and written to.
type StorageConfig struct {
	Driver string      `yaml:"driver"` // local or redis
	Local  LocalConfig `yaml:"local"`
	Redis  RedisConfig `yaml:"redis"`
}

// LocalConfig holds local disk settings.
type LocalConfig struct {
	Root string `yaml:"root"`
}

// RedisConfig holds Redis-specific settings.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	PoolSize int    `yaml:"pool_size"`
	Prefix   string `yaml:"prefix"`
}

// LayoutConfig holds the block and line grouping thresholds. Zero values
// take the layout package defaults.
type LayoutConfig struct {
	BaselineTolerance      float64 `yaml:"baseline_tolerance"`
	MergeGapRatio          float64 `yaml:"merge_gap_ratio"`
	LineHeightTolerance    float64 `yaml:"line_height_tolerance"`
	SpaceGapRatio          float64 `yaml:"space_gap_ratio"`
	MinLineWidth           float64 `yaml:"min_line_width"`
	VerticalGapThreshold   float64 `yaml:"vertical_gap_threshold"`
	HorizontalGapThreshold float64 `yaml:"horizontal_gap_threshold"`
	MinGapWidth            float64 `yaml:"min_gap_width"`
}

// OverlayConfig holds the debug overlay colors as SVG color names.
type OverlayConfig struct {
	BlockColor string `yaml:"block_color"`
	LineColor  string `yaml:"line_color"`
}

// Load reads configuration from a YAML file and applies environment overrides.
// An empty path skips the file.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}

		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}

// DefaultConfig returns a configuration that reads from the working
// directory and logs to the console.
func DefaultConfig() *Config {
	l := layout.DefaultConfig()
	return &Config{
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
		Storage: StorageConfig{
			Driver: "local",
			Redis: RedisConfig{
				Addr:     "localhost:6379",
				PoolSize: 10,
				Prefix:   "pdfpipe:",
			},
		},
		Layout: LayoutConfig{
			BaselineTolerance:      l.BaselineTolerance,
			MergeGapRatio:          l.MergeGapRatio,
			LineHeightTolerance:    l.LineHeightTolerance,
			SpaceGapRatio:          l.SpaceGapRatio,
			MinLineWidth:           l.MinLineWidth,
			VerticalGapThreshold:   l.VerticalGapThreshold,
			HorizontalGapThreshold: l.HorizontalGapThreshold,
			MinGapWidth:            l.MinGapWidth,
		},
		Overlay: OverlayConfig{
			BlockColor: "red",
			LineColor:  "blue",
		},
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Log.Format != "json" && c.Log.Format != "console" {
		return fmt.Errorf("invalid log format: %s", c.Log.Format)
	}

	switch c.Storage.Driver {
	case "local":
	case "redis":
		if c.Storage.Redis.Addr == "" {
			return fmt.Errorf("redis storage requires an address")
		}
	default:
		return fmt.Errorf("invalid storage driver: %s", c.Storage.Driver)
	}

	l := c.Layout
	for name, v := range map[string]float64{
		"baseline_tolerance":       l.BaselineTolerance,
		"merge_gap_ratio":          l.MergeGapRatio,
		"line_height_tolerance":    l.LineHeightTolerance,
		"space_gap_ratio":          l.SpaceGapRatio,
		"min_line_width":           l.MinLineWidth,
		"vertical_gap_threshold":   l.VerticalGapThreshold,
		"horizontal_gap_threshold": l.HorizontalGapThreshold,
		"min_gap_width":            l.MinGapWidth,
	} {
		if v < 0 {
			return fmt.Errorf("layout %s must not be negative", name)
		}
	}

	if _, err := ParseColor(c.Overlay.BlockColor); err != nil {
		return fmt.Errorf("overlay block_color: %w", err)
	}
	if _, err := ParseColor(c.Overlay.LineColor); err != nil {
		return fmt.Errorf("overlay line_color: %w", err)
	}

	return nil
}

// Layout returns the thresholds as a layout configuration.
func (l LayoutConfig) Layout() layout.Config {
	return layout.Config{
		BaselineTolerance:      l.BaselineTolerance,
		MergeGapRatio:          l.MergeGapRatio,
		LineHeightTolerance:    l.LineHeightTolerance,
		SpaceGapRatio:          l.SpaceGapRatio,
		MinLineWidth:           l.MinLineWidth,
		VerticalGapThreshold:   l.VerticalGapThreshold,
		HorizontalGapThreshold: l.HorizontalGapThreshold,
		MinGapWidth:            l.MinGapWidth,
	}
}

// Colors returns the block and line overlay colors.
func (o OverlayConfig) Colors() (block, line color.Color, err error) {
	if block, err = ParseColor(o.BlockColor); err != nil {
		return nil, nil, err
	}
	if line, err = ParseColor(o.LineColor); err != nil {
		return nil, nil, err
	}
	return block, line, nil
}

// ParseColor resolves an SVG 1.1 color name such as "red" or "darkorange".
func ParseColor(name string) (color.Color, error) {
	c, ok := colornames.Map[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, fmt.Errorf("unknown color %q", name)
	}
	return c, nil
}

// applyEnvOverrides applies environment variable overrides to config.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("PDFPIPE_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}

	if v := os.Getenv("PDFPIPE_LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}

	if v := os.Getenv("PDFPIPE_STORAGE_DRIVER"); v != "" {
		cfg.Storage.Driver = v
	}

	if v := os.Getenv("PDFPIPE_STORAGE_ROOT"); v != "" {
		cfg.Storage.Local.Root = v
	}

	if v := os.Getenv("PDFPIPE_REDIS_URL"); v != "" {
		cfg.Storage.Driver = "redis"
		cfg.Storage.Redis.Addr = strings.TrimPrefix(v, "redis://")
	}

	if v := os.Getenv("PDFPIPE_REDIS_PASSWORD"); v != "" {
		cfg.Storage.Redis.Password = v
	}

	if v := os.Getenv("PDFPIPE_REDIS_DB"); v != "" {
		var db int
		if _, err := fmt.Sscanf(v, "%d", &db); err == nil {
			cfg.Storage.Redis.DB = db
		}
	}

	if v := os.Getenv("PDFPIPE_REDIS_PREFIX"); v != "" {
		cfg.Storage.Redis.Prefix = v
	}

	if v := os.Getenv("PDFPIPE_OVERLAY_BLOCK_COLOR"); v != "" {
		cfg.Overlay.BlockColor = v
	}

	if v := os.Getenv("PDFPIPE_OVERLAY_LINE_COLOR"); v != "" {
		cfg.Overlay.LineColor = v
	}
}
