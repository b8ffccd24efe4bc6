package hook

import (
	"time"

	"github.com/dshills/notedraft/internal/engine/history"
)

// Hook is the base interface for all transaction hooks.
type Hook interface {
	// Name returns a unique identifier for this hook.
	Name() string

	// Priority returns the hook priority. Higher values run first.
	Priority() int
}

// FilterHook is called for each transaction before it is applied.
type FilterHook interface {
	Hook

	// FilterTransaction returns a non-nil error to reject tr.
	FilterTransaction(tr *history.Transaction) error
}

// AppendHook is called after a batch was applied.
type AppendHook interface {
	Hook

	// AppendTransaction may return one transaction to commit after batch.
	// now is the time the batch was sampled at.
	AppendTransaction(batch []*history.Transaction, now time.Time) *history.Transaction
}

// FilterFunc wraps a function as a FilterHook.
type FilterFunc struct {
	name     string
	priority int
	fn       func(tr *history.Transaction) error
}

// NewFilterFunc creates a new FilterFunc hook.
func NewFilterFunc(name string, priority int, fn func(tr *history.Transaction) error) *FilterFunc {
	return &FilterFunc{
		name:     name,
		priority: priority,
		fn:       fn,
	}
}

// Name implements Hook.
func (f *FilterFunc) Name() string { return f.name }

// Priority implements Hook.
func (f *FilterFunc) Priority() int { return f.priority }

// FilterTransaction implements FilterHook.
func (f *FilterFunc) FilterTransaction(tr *history.Transaction) error {
	if f.fn == nil {
		return nil
	}
	return f.fn(tr)
}

// AppendFunc wraps a function as an AppendHook.
type AppendFunc struct {
	name     string
	priority int
	fn       func(batch []*history.Transaction, now time.Time) *history.Transaction
}

// NewAppendFunc creates a new AppendFunc hook.
func NewAppendFunc(name string, priority int, fn func(batch []*history.Transaction, now time.Time) *history.Transaction) *AppendFunc {
	return &AppendFunc{
		name:     name,
		priority: priority,
		fn:       fn,
	}
}

// Name implements Hook.
func (f *AppendFunc) Name() string { return f.name }

// Priority implements Hook.
func (f *AppendFunc) Priority() int { return f.priority }

// AppendTransaction implements AppendHook.
func (f *AppendFunc) AppendTransaction(batch []*history.Transaction, now time.Time) *history.Transaction {
	if f.fn == nil {
		return nil
	}
	return f.fn(batch, now)
}
