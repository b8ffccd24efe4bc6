package editor

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
	"unicode/utf8"

	"github.com/dshills/notedraft/internal/config"
	"github.com/dshills/notedraft/internal/engine/buffer"
	"github.com/dshills/notedraft/internal/engine/history"
	"github.com/dshills/notedraft/internal/engine/hook"
)

// ErrReadOnly is returned when a doc-changing edit reaches a read-only editor.
var ErrReadOnly = errors.New("editor is read-only")

// UI event names set on the transactions the editor builds.
const (
	UIEventInput  = "input"
	UIEventDelete = "delete"
	UIEventSelect = "select"
)

// Editor is a single draft being composed.
// Methods are safe for concurrent use; batches are applied one at a time.
type Editor struct {
	mu sync.Mutex

	buf     *buffer.Buffer
	history *history.History
	grouper *history.Grouper
	hooks   *hook.Manager

	// Selection; anchor == head means a plain cursor.
	anchor int
	head   int

	clock    func() time.Time
	logger   *slog.Logger
	readOnly atomic.Bool
	initial  string
}

// New creates an editor with an empty draft.
func New(opts ...Option) *Editor {
	e := &Editor{
		history: history.NewHistory(history.DefaultMaxEntries, history.DefaultNewGroupDelay),
		grouper: history.NewGrouper(history.DefaultIsolationWindow),
		hooks:   hook.NewManager(),
		clock:   time.Now,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	e.hooks.RegisterFilter(hook.NewFilterFunc("editor.read-only", 1000, e.filterReadOnly))
	e.hooks.Register(e.grouper)

	for _, opt := range opts {
		opt(e)
	}

	e.buf = buffer.NewBufferFromString(e.initial)
	e.anchor = e.buf.Len()
	e.head = e.anchor
	return e
}

func (e *Editor) filterReadOnly(tr *history.Transaction) error {
	if e.readOnly.Load() && tr.DocChanged() {
		return ErrReadOnly
	}
	return nil
}

// Text returns the draft text.
func (e *Editor) Text() string {
	return e.buf.Text()
}

// Selection returns the selected range, ordered.
func (e *Editor) Selection() buffer.Range {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.selectionLocked()
}

// Cursor returns the cursor (selection head) offset.
func (e *Editor) Cursor() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.head
}

func (e *Editor) selectionLocked() buffer.Range {
	if e.anchor <= e.head {
		return buffer.Range{Start: e.anchor, End: e.head}
	}
	return buffer.Range{Start: e.head, End: e.anchor}
}

// History returns the undo history.
func (e *Editor) History() *history.History {
	return e.history
}

// Grouper returns the paste-isolation controller.
func (e *Editor) Grouper() *history.Grouper {
	return e.grouper
}

// Hooks returns the hook manager.
func (e *Editor) Hooks() *hook.Manager {
	return e.hooks
}

// SetReadOnly toggles read-only mode.
func (e *Editor) SetReadOnly(readOnly bool) {
	e.readOnly.Store(readOnly)
}

// ApplyConfig applies the history settings of cfg to a live editor.
func (e *Editor) ApplyConfig(cfg *config.Config) {
	e.reconfigure(cfg)
	e.logger.Debug("editor reconfigured",
		"isolation_window", cfg.History.IsolationWindow,
		"new_group_delay", cfg.History.NewGroupDelay,
		"depth", cfg.History.Depth)
}

func (e *Editor) reconfigure(cfg *config.Config) {
	e.grouper.SetWindow(cfg.History.IsolationWindow.Std())
	e.history.SetNewGroupDelay(cfg.History.NewGroupDelay.Std())
	e.history.SetMaxEntries(cfg.History.Depth)
}

// Type replaces the selection with text, as typed input.
func (e *Editor) Type(text string) error {
	return e.insert(text, func(tr *history.Transaction) {
		tr.SetMeta(history.KeyUIEvent, UIEventInput)
	})
}

// Paste replaces the selection with text, as pasted input.
// The transaction is tagged so it opens its own undo group.
func (e *Editor) Paste(text string) error {
	return e.insert(text, func(tr *history.Transaction) {
		tr.SetMeta(history.KeyPaste, true)
		tr.SetMeta(history.KeyUIEvent, history.UIEventPaste)
		tr.SetMeta(history.KeyRebased, 0)
	})
}

func (e *Editor) insert(text string, annotate func(*history.Transaction)) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	text = buffer.NormalizeLineEndings(text)
	sel := e.selectionLocked()
	now := e.clock()

	tr := history.NewTransaction(now, history.NewReplaceStep(sel, e.buf.TextRange(sel.Start, sel.End), text))
	annotate(tr)

	if _, err := e.dispatchLocked(now, tr); err != nil {
		return err
	}
	e.anchor = sel.Start + len(text)
	e.head = e.anchor
	return nil
}

// Backspace deletes the selection, or n characters before the cursor when
// the selection is empty.
func (e *Editor) Backspace(n int) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	sel := e.selectionLocked()
	if sel.IsEmpty() {
		text := e.buf.TextRange(0, sel.End)
		start := sel.End
		for i := 0; i < n && start > 0; i++ {
			_, size := utf8.DecodeLastRuneInString(text[:start])
			start -= size
		}
		sel.Start = start
	}
	if sel.IsEmpty() {
		return nil
	}

	now := e.clock()
	tr := history.NewTransaction(now, history.NewDeleteStep(sel, e.buf.TextRange(sel.Start, sel.End)))
	tr.SetMeta(history.KeyUIEvent, UIEventDelete)

	if _, err := e.dispatchLocked(now, tr); err != nil {
		return err
	}
	e.anchor = sel.Start
	e.head = sel.Start
	return nil
}

// Select moves the selection. It dispatches an annotation-only transaction.
func (e *Editor) Select(anchor, head int) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	text := e.buf.Text()
	if !onRuneBoundary(text, anchor) || !onRuneBoundary(text, head) {
		return fmt.Errorf("select %d:%d: %w", anchor, head, buffer.ErrOffsetOutOfRange)
	}

	now := e.clock()
	tr := history.NewTransaction(now)
	tr.SetMeta(history.KeyUIEvent, UIEventSelect)
	tr.SetMeta("selection", fmt.Sprintf("%d:%d", anchor, head))

	if _, err := e.dispatchLocked(now, tr); err != nil {
		return err
	}
	e.anchor = anchor
	e.head = head
	return nil
}

// onRuneBoundary reports whether off lies within text and does not split a
// multi-byte character.
func onRuneBoundary(text string, off int) bool {
	if off < 0 || off > len(text) {
		return false
	}
	return off == len(text) || utf8.RuneStart(text[off])
}

// Annotate dispatches an annotation-only transaction carrying key=value.
func (e *Editor) Annotate(key string, value any) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.clock()
	tr := history.NewTransaction(now)
	if !tr.Meta.Set(key, value) {
		return fmt.Errorf("annotate %s: unexpected value type %T", key, value)
	}
	_, err := e.dispatchLocked(now, tr)
	return err
}

// Dispatch commits a batch built by the caller, sampled at now.
// It returns the transactions append hooks added to the batch, minus any
// rejected by a filter or failing to apply.
func (e *Editor) Dispatch(now time.Time, batch ...*history.Transaction) ([]*history.Transaction, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	appended, err := e.dispatchLocked(now, batch...)
	if err != nil {
		return nil, err
	}
	e.clampSelectionLocked()
	return appended, nil
}

// dispatchLocked runs the commit pipeline. A batch is all or nothing: a
// filter rejection or a failing step leaves buffer, history and grouper
// untouched.
func (e *Editor) dispatchLocked(now time.Time, batch ...*history.Transaction) ([]*history.Transaction, error) {
	for _, tr := range batch {
		if err := e.hooks.RunFilter(tr); err != nil {
			return nil, err
		}
	}

	if err := e.applyLocked(batch); err != nil {
		return nil, err
	}

	appended := e.hooks.RunAppend(batch, now)

	// Appended edits go through the same filters as the batch and are
	// folded into the grouper state; only the batch itself is grouped.
	var boundaries, extra, kept []*history.Transaction
	for _, tr := range appended {
		if tr.IsBoundary() {
			boundaries = append(boundaries, tr)
			kept = append(kept, tr)
			continue
		}
		if err := e.hooks.RunFilter(tr); err != nil {
			e.logger.Debug("appended transaction rejected", "error", err)
			continue
		}
		if err := e.applyLocked([]*history.Transaction{tr}); err != nil {
			e.logger.Warn("appended transaction failed", "error", err)
			continue
		}
		at := now
		if t := tr.EffectiveTime(); t.After(at) {
			at = t
		}
		e.grouper.Observe(tr, at)
		extra = append(extra, tr)
		kept = append(kept, tr)
	}

	for _, tr := range boundaries {
		e.history.Record(tr)
		e.logger.Debug("undo group boundary inserted",
			"at", tr.EffectiveTime(),
			"since_paste", tr.EffectiveTime().Sub(e.grouper.State().LastPaste))
	}
	for _, tr := range batch {
		e.history.Record(tr)
	}
	for _, tr := range extra {
		e.history.Record(tr)
	}

	return kept, nil
}

// applyLocked applies every step of batch to the buffer, rolling back on
// failure.
func (e *Editor) applyLocked(batch []*history.Transaction) error {
	var done []history.Step
	for _, tr := range batch {
		for _, s := range tr.Steps {
			if err := s.Apply(e.buf); err != nil {
				for i := len(done) - 1; i >= 0; i-- {
					_ = done[i].Invert().Apply(e.buf)
				}
				return fmt.Errorf("apply %s: %w", tr.Description(), err)
			}
			done = append(done, s)
		}
	}
	return nil
}

// Undo reverts the newest undo group.
func (e *Editor) Undo() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.readOnly.Load() {
		return ErrReadOnly
	}
	if err := e.history.Undo(e.buf); err != nil {
		return err
	}
	e.clampSelectionLocked()
	return nil
}

// Redo reapplies the most recently undone group.
func (e *Editor) Redo() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.readOnly.Load() {
		return ErrReadOnly
	}
	if err := e.history.Redo(e.buf); err != nil {
		return err
	}
	e.clampSelectionLocked()
	return nil
}

// clampSelectionLocked moves the cursor to the end of the draft when the
// previous selection no longer fits.
func (e *Editor) clampSelectionLocked() {
	n := e.buf.Len()
	if e.anchor > n || e.head > n {
		e.anchor, e.head = n, n
	}
}

// Reset discards the draft, its history and the grouper state, as when the
// editor is remounted.
func (e *Editor) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()

	_, _ = e.buf.Replace(0, e.buf.Len(), "")
	e.history.Clear()
	e.grouper.Reset()
	e.anchor, e.head = 0, 0
}
