package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noEnv(string) (string, bool) { return "", false }

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, 5*time.Millisecond, cfg.History.IsolationWindow.Std())
	assert.Equal(t, 500*time.Millisecond, cfg.History.NewGroupDelay.Std())
	assert.Equal(t, 100, cfg.History.Depth)
	assert.Contains(t, cfg.Content.ImageExtensions, "webp")
	assert.Equal(t, "info", cfg.Log.Level)
	require.NoError(t, cfg.Validate())
}

func TestParse(t *testing.T) {
	cfg, err := Parse([]byte(`
[history]
isolation_window = "20ms"
depth = 10

[content]
image_extensions = ["png", "avif"]

[log]
level = "debug"
format = "json"
`))
	require.NoError(t, err)

	assert.Equal(t, 20*time.Millisecond, cfg.History.IsolationWindow.Std())
	assert.Equal(t, 500*time.Millisecond, cfg.History.NewGroupDelay.Std(), "unset keys keep defaults")
	assert.Equal(t, 10, cfg.History.Depth)
	assert.Equal(t, []string{"png", "avif"}, cfg.Content.ImageExtensions)
	assert.Equal(t, "json", cfg.Log.Format)

	seg, err := cfg.Segmenter()
	require.NoError(t, err)
	assert.True(t, seg.IsImageURL("https://x.com/a.avif"))
}

func TestParseRejectsUnknownKeys(t *testing.T) {
	_, err := Parse([]byte("[history]\nisolation = \"5ms\"\n"))

	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "<bytes>", perr.Path)
}

func TestParseReportsPosition(t *testing.T) {
	_, err := Parse([]byte("[history]\ndepth = = 3\n"))

	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, 2, perr.Line)
	assert.Contains(t, perr.Error(), "line 2")
}

func TestParseRejectsBadDuration(t *testing.T) {
	_, err := Parse([]byte("[history]\nisolation_window = \"soon\"\n"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.History.IsolationWindow = Duration(-time.Millisecond)
	cfg.History.Depth = 0
	cfg.Content.ImageExtensions = nil
	cfg.Log.Level = "trace"
	cfg.Log.Format = "xml"

	err := cfg.Validate()
	require.Error(t, err)

	var paths []string
	for _, e := range err.(interface{ Unwrap() []error }).Unwrap() {
		var verr *ValidationError
		require.True(t, errors.As(e, &verr))
		paths = append(paths, verr.Path)
	}
	assert.ElementsMatch(t, []string{
		"history.isolation_window",
		"history.depth",
		"content.image_extensions",
		"log.level",
		"log.format",
	}, paths)
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		EnvIsolationWindow: "8ms",
		EnvNewGroupDelay:   "1s",
		EnvHistoryDepth:    "42",
		EnvImageExtensions: "png,heic",
		EnvLogLevel:        "WARN",
	}
	lookup := func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}

	cfg := Default()
	require.NoError(t, cfg.ApplyEnv(lookup))

	assert.Equal(t, 8*time.Millisecond, cfg.History.IsolationWindow.Std())
	assert.Equal(t, time.Second, cfg.History.NewGroupDelay.Std())
	assert.Equal(t, 42, cfg.History.Depth)
	assert.Equal(t, []string{"png", "heic"}, cfg.Content.ImageExtensions)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestApplyEnvInvalid(t *testing.T) {
	cfg := Default()
	err := cfg.ApplyEnv(func(k string) (string, bool) {
		if k == EnvHistoryDepth {
			return "many", true
		}
		return "", false
	})
	assert.ErrorContains(t, err, EnvHistoryDepth)

	require.NoError(t, Default().ApplyEnv(noEnv))
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[history]\nnew_group_delay = \"250ms\"\n"), 0o644))
	t.Setenv(EnvIsolationWindow, "3ms")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 250*time.Millisecond, cfg.History.NewGroupDelay.Std())
	assert.Equal(t, 3*time.Millisecond, cfg.History.IsolationWindow.Std(), "environment overrides file")
}

func TestLoadMissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	require.NoError(t, err)
	assert.Equal(t, Default().History, cfg.History)
}

func TestEncodeRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.History.IsolationWindow = Duration(12 * time.Millisecond)

	data, err := cfg.Encode()
	require.NoError(t, err)
	assert.Contains(t, string(data), "isolation_window")
	assert.Contains(t, string(data), "12ms")

	back, err := Parse(data)
	require.NoError(t, err)
	assert.Equal(t, cfg, back)
}
