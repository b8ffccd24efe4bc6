package history

import (
	"sync"
	"time"
)

// DefaultIsolationWindow is how soon after a paste a follow-up edit must
// arrive to be split from the paste's undo group.
const DefaultIsolationWindow = 5 * time.Millisecond

// AfterBatch decides whether a committed batch needs a trailing group
// boundary. st must already include the batch.
//
// Batches containing a paste are left alone; the editing surface isolates
// them itself. Otherwise, if the batch changes the document less than window
// after the last paste, AfterBatch returns a boundary stamped with now.
// A now earlier than the state's clocks is clamped to them.
func AfterBatch(batch []*Transaction, st State, now time.Time, window time.Duration) *Transaction {
	now = st.clamp(now)
	if containsPaste(batch) {
		return nil
	}

	elapsed, pasted := st.SincePaste(now)
	if !pasted || elapsed >= window {
		return nil
	}
	if !containsDocChange(batch) {
		return nil
	}

	return NewBoundary(now)
}

// Grouper owns the paste-isolation State of one editor instance.
// It satisfies the editor's append-hook contract.
type Grouper struct {
	mu     sync.Mutex
	state  State
	window time.Duration
}

// NewGrouper creates a grouper with the given isolation window.
// A non-positive window disables isolation.
func NewGrouper(window time.Duration) *Grouper {
	return &Grouper{window: window}
}

// Name identifies the grouper among append hooks.
func (g *Grouper) Name() string { return "history.paste-isolation" }

// Priority places the grouper ahead of plugin hooks.
func (g *Grouper) Priority() int { return 900 }

// AppendTransaction implements the append-hook contract.
func (g *Grouper) AppendTransaction(batch []*Transaction, now time.Time) *Transaction {
	return g.Append(batch, now)
}

// Append folds batch into the state and then returns the boundary
// AfterBatch asks for, if any.
func (g *Grouper) Append(batch []*Transaction, now time.Time) *Transaction {
	g.mu.Lock()
	defer g.mu.Unlock()

	for _, tr := range batch {
		g.state = g.state.Apply(tr, now)
	}
	return AfterBatch(batch, g.state, g.state.clamp(now), g.window)
}

// Observe folds tr into the state without deciding on a boundary.
// Use it for transactions committed outside a batch, such as those added
// by other append hooks.
func (g *Grouper) Observe(tr *Transaction, now time.Time) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.state = g.state.Apply(tr, now)
}

// State returns a copy of the current state.
func (g *Grouper) State() State {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

// Window returns the isolation window.
func (g *Grouper) Window() time.Duration {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.window
}

// SetWindow changes the isolation window for subsequent batches.
func (g *Grouper) SetWindow(window time.Duration) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.window = window
}

// Reset returns the grouper to the state of a freshly mounted editor.
func (g *Grouper) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.state = State{}
}
