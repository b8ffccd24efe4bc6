package app

import (
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dshills/notedraft/internal/config"
	"github.com/dshills/notedraft/internal/content"
	"github.com/dshills/notedraft/internal/editor"
)

// Application is one notedraft session: a draft editor plus the settings
// and segmenter it runs with.
type Application struct {
	mu sync.RWMutex

	config    *config.Config
	logger    *slog.Logger
	logLevel  slog.LevelVar
	segmenter *content.Segmenter
	editor    *editor.Editor
	watcher   *config.Watcher

	running atomic.Bool
	opts    Options
}

// Options configures the application.
type Options struct {
	// ConfigPath is the path to the configuration file.
	// Empty means defaults and environment only.
	ConfigPath string

	// LogLevel overrides the configured log level when set.
	LogLevel string

	// LogOutput receives log records. Defaults to os.Stderr.
	LogOutput io.Writer

	// Watch reloads the configuration file when it changes.
	Watch bool

	// ReadOnly rejects every edit to the draft.
	ReadOnly bool

	// Clock overrides the editor time source.
	Clock func() time.Time
}

// New creates an Application with the given options.
func New(opts Options) (*Application, error) {
	app := &Application{opts: opts}

	if err := app.bootstrap(); err != nil {
		return nil, err
	}

	app.running.Store(true)
	return app, nil
}

// bootstrap initializes components in dependency order.
func (app *Application) bootstrap() error {
	cfg, err := config.Load(app.opts.ConfigPath)
	if err != nil {
		return &InitError{Component: "config", Err: err}
	}
	if app.opts.LogLevel != "" {
		cfg.Log.Level = app.opts.LogLevel
	}
	app.config = cfg
	// The level follows reloads; the handler format is fixed at startup.
	app.logLevel.Set(ParseLogLevel(cfg.Log.Level))
	app.logger = newLogger(cfg.Log.Format, app.opts.LogOutput, &app.logLevel)

	app.segmenter, err = cfg.Segmenter()
	if err != nil {
		return &InitError{Component: "segmenter", Err: err}
	}

	editorOpts := []editor.Option{
		editor.WithConfig(cfg),
		editor.WithLogger(app.logger.With("component", "editor")),
		editor.WithReadOnly(app.opts.ReadOnly),
	}
	if app.opts.Clock != nil {
		editorOpts = append(editorOpts, editor.WithClock(app.opts.Clock))
	}
	app.editor = editor.New(editorOpts...)

	if app.opts.Watch && app.opts.ConfigPath != "" {
		app.watcher, err = config.NewWatcher(app.opts.ConfigPath, app.applyConfig,
			config.WithWatchLogger(app.logger.With("component", "config")))
		if err != nil {
			return &InitError{Component: "config watcher", Err: err}
		}
	}

	app.logger.Debug("application initialized",
		"config", app.opts.ConfigPath,
		"isolation_window", cfg.History.IsolationWindow,
		"new_group_delay", cfg.History.NewGroupDelay,
		"read_only", app.opts.ReadOnly)
	return nil
}

// applyConfig swaps in a reloaded configuration.
func (app *Application) applyConfig(cfg *config.Config) {
	seg, err := cfg.Segmenter()
	if err != nil {
		app.logger.Warn("ignoring reloaded config", "error", NewComponentError("config", "build segmenter", err))
		return
	}
	if app.opts.LogLevel != "" {
		cfg.Log.Level = app.opts.LogLevel
	}

	app.mu.Lock()
	if cfg.Log.Format != app.config.Log.Format {
		app.logger.Warn("log format change takes effect after restart",
			"current", app.config.Log.Format, "configured", cfg.Log.Format)
	}
	app.config = cfg
	app.segmenter = seg
	app.mu.Unlock()

	app.logLevel.Set(ParseLogLevel(cfg.Log.Level))

	app.editor.ApplyConfig(cfg)
}

// Reload re-reads the configuration file and applies it.
func (app *Application) Reload() error {
	if !app.running.Load() {
		return ErrNotRunning
	}
	cfg, err := config.Load(app.opts.ConfigPath)
	if err != nil {
		return NewComponentError("config", "reload", err)
	}
	app.applyConfig(cfg)
	return nil
}

// Config returns the active configuration.
func (app *Application) Config() *config.Config {
	app.mu.RLock()
	defer app.mu.RUnlock()
	return app.config
}

// Logger returns the session logger.
func (app *Application) Logger() *slog.Logger {
	return app.logger
}

// Editor returns the draft editor.
func (app *Application) Editor() *editor.Editor {
	return app.editor
}

// Segmenter returns the active content segmenter.
func (app *Application) Segmenter() *content.Segmenter {
	app.mu.RLock()
	defer app.mu.RUnlock()
	return app.segmenter
}

// Preview segments the current draft for rendering.
func (app *Application) Preview() []content.Part {
	return app.Segmenter().Segment(app.editor.Text())
}

// PreviewHTML renders the current draft as sanitized HTML.
func (app *Application) PreviewHTML() string {
	return content.HTML(app.Preview())
}

// IsRunning reports whether Shutdown has not been called yet.
func (app *Application) IsRunning() bool {
	return app.running.Load()
}

// Shutdown stops the config watcher. Calling it twice returns ErrNotRunning.
func (app *Application) Shutdown() error {
	if !app.running.CompareAndSwap(true, false) {
		return ErrNotRunning
	}
	if app.watcher != nil {
		if err := app.watcher.Close(); err != nil {
			return NewComponentError("config watcher", "close", err)
		}
	}
	app.logger.Debug("application shut down")
	return nil
}
