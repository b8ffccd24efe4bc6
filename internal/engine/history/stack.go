package history

import (
	"errors"
	"sync"
	"time"

	"github.com/dshills/notedraft/internal/engine/buffer"
)

// Common errors for history operations.
var (
	ErrNothingToUndo = errors.New("nothing to undo")
	ErrNothingToRedo = errors.New("nothing to redo")
)

// Defaults for NewHistory.
const (
	DefaultMaxEntries    = 100
	DefaultNewGroupDelay = 500 * time.Millisecond
)

// History manages undo/redo state for a draft.
type History struct {
	mu sync.Mutex

	undoStack []*group
	redoStack []*group

	// Configuration
	maxEntries    int
	newGroupDelay time.Duration
}

// NewHistory creates a new history manager.
func NewHistory(maxEntries int, newGroupDelay time.Duration) *History {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	if newGroupDelay < 0 {
		newGroupDelay = 0
	}
	return &History{
		maxEntries:    maxEntries,
		newGroupDelay: newGroupDelay,
	}
}

// Record adds a committed transaction to the undo stack and reports whether
// it changed the stack.
//
// A doc-changing transaction joins the newest group when that group is open,
// the transaction arrives less than the new-group delay after it, and it does
// not carry the rebase epoch 0 annotation. Otherwise it opens a new group and
// the redo stack is cleared.
//
// A boundary transaction closes the newest group. Any other stepless
// transaction is ignored.
func (h *History) Record(tr *Transaction) bool {
	if tr == nil {
		return false
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	top := h.topLocked()

	if tr.IsBoundary() {
		if top == nil {
			return false
		}
		top.closed = true
		if t := tr.EffectiveTime(); t.After(top.last) {
			top.last = t
		}
		return true
	}

	if !tr.DocChanged() {
		return false
	}

	h.redoStack = nil

	if top != nil && !top.closed && !tr.Meta.forcesNewGroup() &&
		tr.EffectiveTime().Sub(top.last) < h.newGroupDelay {
		top.add(tr)
		return true
	}

	h.undoStack = append(h.undoStack, newGroup(tr))

	// Enforce max entries
	if len(h.undoStack) > h.maxEntries {
		excess := len(h.undoStack) - h.maxEntries
		h.undoStack = h.undoStack[excess:]
	}
	return true
}

func (h *History) topLocked() *group {
	if len(h.undoStack) == 0 {
		return nil
	}
	return h.undoStack[len(h.undoStack)-1]
}

// Close closes the newest group so the next transaction opens a new one.
func (h *History) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if top := h.topLocked(); top != nil {
		top.closed = true
	}
}

// Undo reverts the newest group.
// The lock is released while the buffer is edited.
func (h *History) Undo(buf *buffer.Buffer) error {
	h.mu.Lock()
	if len(h.undoStack) == 0 {
		h.mu.Unlock()
		return ErrNothingToUndo
	}

	g := h.undoStack[len(h.undoStack)-1]
	h.undoStack = h.undoStack[:len(h.undoStack)-1]
	h.mu.Unlock()

	if err := g.undo(buf); err != nil {
		// Restore entry on failure
		h.mu.Lock()
		h.undoStack = append(h.undoStack, g)
		h.mu.Unlock()
		return err
	}

	h.mu.Lock()
	g.closed = true
	h.redoStack = append(h.redoStack, g)
	// Edits after an undo never merge into what is now the newest group.
	if top := h.topLocked(); top != nil {
		top.closed = true
	}
	h.mu.Unlock()
	return nil
}

// Redo reapplies the most recently undone group.
// The lock is released while the buffer is edited.
func (h *History) Redo(buf *buffer.Buffer) error {
	h.mu.Lock()
	if len(h.redoStack) == 0 {
		h.mu.Unlock()
		return ErrNothingToRedo
	}

	g := h.redoStack[len(h.redoStack)-1]
	h.redoStack = h.redoStack[:len(h.redoStack)-1]
	h.mu.Unlock()

	if err := g.redo(buf); err != nil {
		// Restore entry on failure
		h.mu.Lock()
		h.redoStack = append(h.redoStack, g)
		h.mu.Unlock()
		return err
	}

	h.mu.Lock()
	h.undoStack = append(h.undoStack, g)
	h.mu.Unlock()
	return nil
}

// CanUndo returns true if undo is available.
func (h *History) CanUndo() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.undoStack) > 0
}

// CanRedo returns true if redo is available.
func (h *History) CanRedo() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.redoStack) > 0
}

// UndoCount returns the number of undo groups available.
func (h *History) UndoCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.undoStack)
}

// RedoCount returns the number of redo groups available.
func (h *History) RedoCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.redoStack)
}

// Clear removes all undo/redo history.
func (h *History) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.undoStack = nil
	h.redoStack = nil
}

// UndoInfo returns info about available undo groups, oldest first.
func (h *History) UndoInfo() []GroupInfo {
	h.mu.Lock()
	defer h.mu.Unlock()

	result := make([]GroupInfo, len(h.undoStack))
	for i, g := range h.undoStack {
		result[i] = g.info()
	}
	return result
}

// RedoInfo returns info about available redo groups, next redo last.
func (h *History) RedoInfo() []GroupInfo {
	h.mu.Lock()
	defer h.mu.Unlock()

	result := make([]GroupInfo, len(h.redoStack))
	for i, g := range h.redoStack {
		result[i] = g.info()
	}
	return result
}

// PeekUndo returns info about the next undo group without removing it.
func (h *History) PeekUndo() (GroupInfo, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	top := h.topLocked()
	if top == nil {
		return GroupInfo{}, false
	}
	return top.info(), true
}

// SetMaxEntries changes the maximum number of undo groups.
// If the current stack is larger, oldest groups are removed.
func (h *History) SetMaxEntries(max int) {
	if max <= 0 {
		max = DefaultMaxEntries
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	h.maxEntries = max

	if len(h.undoStack) > max {
		excess := len(h.undoStack) - max
		h.undoStack = h.undoStack[excess:]
	}
}

// MaxEntries returns the maximum number of undo groups.
func (h *History) MaxEntries() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.maxEntries
}

// SetNewGroupDelay changes how far apart two transactions may be and still
// share a group.
func (h *History) SetNewGroupDelay(d time.Duration) {
	if d < 0 {
		d = 0
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.newGroupDelay = d
}

// NewGroupDelay returns the current new-group delay.
func (h *History) NewGroupDelay() time.Duration {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.newGroupDelay
}
