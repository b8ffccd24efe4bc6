package editor

import (
	"log/slog"
	"time"

	"github.com/dshills/notedraft/internal/config"
	"github.com/dshills/notedraft/internal/engine/hook"
)

// Option configures an Editor.
type Option func(*Editor)

// WithClock sets the time source. Defaults to time.Now.
func WithClock(clock func() time.Time) Option {
	return func(e *Editor) {
		e.clock = clock
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(e *Editor) {
		e.logger = l
	}
}

// WithIsolationWindow sets how soon after a paste an edit is split off.
func WithIsolationWindow(d time.Duration) Option {
	return func(e *Editor) {
		e.grouper.SetWindow(d)
	}
}

// WithNewGroupDelay sets the longest pause between edits that still merge.
func WithNewGroupDelay(d time.Duration) Option {
	return func(e *Editor) {
		e.history.SetNewGroupDelay(d)
	}
}

// WithHistoryDepth sets the maximum number of undo groups.
func WithHistoryDepth(n int) Option {
	return func(e *Editor) {
		e.history.SetMaxEntries(n)
	}
}

// WithConfig applies the history settings of cfg.
func WithConfig(cfg *config.Config) Option {
	return func(e *Editor) {
		e.reconfigure(cfg)
	}
}

// WithReadOnly rejects every doc-changing transaction.
func WithReadOnly(readOnly bool) Option {
	return func(e *Editor) {
		e.readOnly.Store(readOnly)
	}
}

// WithText sets the initial draft text. It is not undoable.
func WithText(text string) Option {
	return func(e *Editor) {
		e.initial = text
	}
}

// WithHook registers an additional filter and/or append hook.
func WithHook(h hook.Hook) Option {
	return func(e *Editor) {
		e.hooks.Register(h)
	}
}
