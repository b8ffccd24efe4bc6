package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/dshills/notedraft/internal/content"
	"github.com/dshills/notedraft/internal/engine/history"
)

// Duration is a time.Duration written as a string ("5ms", "1s") in TOML.
type Duration time.Duration

// Std returns d as a time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// String implements fmt.Stringer.
func (d Duration) String() string { return time.Duration(d).String() }

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// Config holds all notedraft settings.
type Config struct {
	History HistoryConfig `toml:"history"`
	Content ContentConfig `toml:"content"`
	Log     LogConfig     `toml:"log"`
}

// HistoryConfig tunes undo grouping.
type HistoryConfig struct {
	// IsolationWindow is how soon after a paste an edit is split into its own group.
	IsolationWindow Duration `toml:"isolation_window"`
	// NewGroupDelay is the longest pause between edits that still merge.
	NewGroupDelay Duration `toml:"new_group_delay"`
	// Depth is the maximum number of undo groups kept.
	Depth int `toml:"depth"`
}

// ContentConfig tunes content segmentation.
type ContentConfig struct {
	ImageExtensions []string `toml:"image_extensions"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		History: HistoryConfig{
			IsolationWindow: Duration(history.DefaultIsolationWindow),
			NewGroupDelay:   Duration(history.DefaultNewGroupDelay),
			Depth:           history.DefaultMaxEntries,
		},
		Content: ContentConfig{
			ImageExtensions: slices.Clone(content.DefaultImageExtensions),
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// DefaultPath returns the default config file location.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "notedraft", "config.toml")
}

// Load reads the file at path over the defaults, applies environment
// overrides, and validates the result. A missing file is not an error.
// An empty path skips the file.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := cfg.decode(path, data); err != nil {
				return nil, err
			}
		case errors.Is(err, os.ErrNotExist):
			// Defaults only.
		default:
			return nil, fmt.Errorf("reading config file %s: %w", path, err)
		}
	}

	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Parse decodes TOML data over the defaults and validates the result.
// Environment variables are not consulted.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := cfg.decode("<bytes>", data); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks every setting and returns all failures joined.
func (c *Config) Validate() error {
	var errs []error

	if c.History.IsolationWindow < 0 {
		errs = append(errs, &ValidationError{Path: "history.isolation_window", Value: c.History.IsolationWindow, Message: "must not be negative"})
	}
	if c.History.NewGroupDelay < 0 {
		errs = append(errs, &ValidationError{Path: "history.new_group_delay", Value: c.History.NewGroupDelay, Message: "must not be negative"})
	}
	if c.History.Depth <= 0 {
		errs = append(errs, &ValidationError{Path: "history.depth", Value: c.History.Depth, Message: "must be positive"})
	}
	if _, err := content.NewSegmenter(c.Content.ImageExtensions); err != nil {
		errs = append(errs, &ValidationError{Path: "content.image_extensions", Value: c.Content.ImageExtensions, Message: err.Error()})
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, &ValidationError{Path: "log.level", Value: c.Log.Level, Message: "must be debug, info, warn, or error"})
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		errs = append(errs, &ValidationError{Path: "log.format", Value: c.Log.Format, Message: "must be text or json"})
	}

	return errors.Join(errs...)
}

// Segmenter builds the content segmenter described by the config.
func (c *Config) Segmenter() (*content.Segmenter, error) {
	return content.NewSegmenter(c.Content.ImageExtensions)
}
