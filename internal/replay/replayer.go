package replay

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"
	"unicode/utf8"

	"github.com/dshills/notedraft/internal/editor"
	"github.com/dshills/notedraft/internal/engine/buffer"
	"github.com/dshills/notedraft/internal/engine/history"
)

// Result summarizes a finished replay.
type Result struct {
	Text       string              `json:"text"`
	Groups     []history.GroupInfo `json:"groups"`
	Boundaries int                 `json:"boundaries"`
	Entries    int                 `json:"entries"`
}

// Replayer plays entries through an editor whose clock follows the log.
// Edits always happen at the replayer's cursor, which follows the last edit.
type Replayer struct {
	editor *editor.Editor
	logger *slog.Logger

	now        time.Time
	cursor     int
	boundaries int
	entries    int
}

// NewReplayer creates a replayer. opts are passed to editor.New; they may
// tune grouping, but the editor clock always follows the log.
func NewReplayer(logger *slog.Logger, opts ...editor.Option) *Replayer {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	r := &Replayer{logger: logger}
	opts = append(opts, editor.WithClock(r.clock), editor.WithLogger(logger))
	r.editor = editor.New(opts...)
	return r
}

func (r *Replayer) clock() time.Time {
	return r.now
}

// Editor returns the editor being replayed into.
func (r *Replayer) Editor() *editor.Editor {
	return r.editor
}

// Step plays one entry.
func (r *Replayer) Step(en Entry) error {
	r.now = en.Time
	r.entries++

	switch en.Kind {
	case KindUndo:
		return r.wrap(en, r.editor.Undo())
	case KindRedo:
		return r.wrap(en, r.editor.Redo())
	}

	tr, cursor := r.transaction(en)
	appended, err := r.editor.Dispatch(en.Time, tr)
	if err != nil {
		return r.wrap(en, err)
	}
	r.cursor = cursor
	for _, a := range appended {
		if a.IsBoundary() {
			r.boundaries++
			r.logger.Debug("replay boundary", "line", en.Line, "t", en.Time.UnixMilli())
		}
	}
	return nil
}

func (r *Replayer) wrap(en Entry, err error) error {
	if err == nil {
		if n := len(r.editor.Text()); r.cursor > n {
			r.cursor = n
		}
		return nil
	}
	return &LineError{Line: en.Line, Err: fmt.Errorf("%s: %w", en.Kind, err)}
}

// transaction builds the transaction for an edit entry and returns it with
// the cursor position after it applies.
func (r *Replayer) transaction(en Entry) (*history.Transaction, int) {
	text := r.editor.Text()
	cursor := min(r.cursor, len(text))

	var tr *history.Transaction
	switch en.Kind {
	case KindInsert, KindPaste:
		ins := buffer.NormalizeLineEndings(en.Text)
		tr = history.NewTransaction(en.Time, history.NewInsertStep(cursor, ins))
		if en.Kind == KindPaste {
			tr.SetMeta(history.KeyPaste, true)
			tr.SetMeta(history.KeyUIEvent, history.UIEventPaste)
			tr.SetMeta(history.KeyRebased, 0)
		} else {
			tr.SetMeta(history.KeyUIEvent, editor.UIEventInput)
		}
		cursor += len(ins)
	case KindDelete:
		start := cursor
		for i := 0; i < en.N && start > 0; i++ {
			_, size := utf8.DecodeLastRuneInString(text[:start])
			start -= size
		}
		tr = history.NewTransaction(en.Time,
			history.NewDeleteStep(buffer.NewRange(start, cursor), text[start:cursor]))
		tr.SetMeta(history.KeyUIEvent, editor.UIEventDelete)
		cursor = start
	default:
		tr = history.NewTransaction(en.Time)
	}

	for _, k := range en.Meta.Keys() {
		v, _ := en.Meta.Get(k)
		tr.SetMeta(k, v)
	}
	return tr, cursor
}

// Run plays every entry and summarizes the outcome. Entries that fail with
// nothing to undo or redo are logged and skipped; any other error stops the
// replay.
func (r *Replayer) Run(entries []Entry) (*Result, error) {
	for _, en := range entries {
		if err := r.Step(en); err != nil {
			if errors.Is(err, history.ErrNothingToUndo) || errors.Is(err, history.ErrNothingToRedo) {
				r.logger.Warn("replay entry skipped", "error", err)
				continue
			}
			return nil, err
		}
	}
	return r.Result(), nil
}

// Result summarizes the replay so far.
func (r *Replayer) Result() *Result {
	return &Result{
		Text:       r.editor.Text(),
		Groups:     r.editor.History().UndoInfo(),
		Boundaries: r.boundaries,
		Entries:    r.entries,
	}
}
