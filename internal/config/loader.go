package config

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// decode overlays TOML data onto c. Unknown keys are rejected.
func (c *Config) decode(source string, data []byte) error {
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	if err := dec.Decode(c); err != nil {
		perr := &ParseError{
			Path:    source,
			Message: err.Error(),
			Err:     err,
		}

		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			perr.Line, perr.Column = derr.Position()
		}
		var serr *toml.StrictMissingError
		if errors.As(err, &serr) {
			perr.Message = serr.String()
		}
		return perr
	}
	return nil
}

// Encode renders c as TOML.
func (c *Config) Encode() ([]byte, error) {
	return toml.Marshal(c)
}

// Environment variables consulted by ApplyEnv.
const (
	EnvIsolationWindow = "NOTEDRAFT_ISOLATION_WINDOW"
	EnvNewGroupDelay   = "NOTEDRAFT_NEW_GROUP_DELAY"
	EnvHistoryDepth    = "NOTEDRAFT_HISTORY_DEPTH"
	EnvImageExtensions = "NOTEDRAFT_IMAGE_EXTENSIONS"
	EnvLogLevel        = "NOTEDRAFT_LOG_LEVEL"
	EnvLogFormat       = "NOTEDRAFT_LOG_FORMAT"
)

// ApplyEnv overrides settings from environment variables read via lookup.
// Note: empty values are treated as set.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvIsolationWindow); ok {
		if err := c.History.IsolationWindow.UnmarshalText([]byte(v)); err != nil {
			return fmt.Errorf("%s: %w", EnvIsolationWindow, err)
		}
	}
	if v, ok := lookup(EnvNewGroupDelay); ok {
		if err := c.History.NewGroupDelay.UnmarshalText([]byte(v)); err != nil {
			return fmt.Errorf("%s: %w", EnvNewGroupDelay, err)
		}
	}
	if v, ok := lookup(EnvHistoryDepth); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvHistoryDepth, err)
		}
		c.History.Depth = n
	}
	if v, ok := lookup(EnvImageExtensions); ok {
		c.Content.ImageExtensions = strings.Split(v, ",")
	}
	if v, ok := lookup(EnvLogLevel); ok {
		c.Log.Level = strings.ToLower(v)
	}
	if v, ok := lookup(EnvLogFormat); ok {
		c.Log.Format = strings.ToLower(v)
	}
	return nil
}
