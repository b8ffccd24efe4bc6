package history

import (
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// Transaction is an atomic change to a draft: zero or more steps plus the
// annotations describing where the change came from.
type Transaction struct {
	ID    string
	Time  time.Time
	Steps []Step
	Meta  Meta
}

// NewTransaction creates a transaction stamped with t.
func NewTransaction(t time.Time, steps ...Step) *Transaction {
	return &Transaction{
		ID:    uuid.NewString(),
		Time:  t,
		Steps: steps,
	}
}

// NewBoundary creates the stepless marker that closes the current undo group.
func NewBoundary(now time.Time) *Transaction {
	tr := NewTransaction(now)
	tr.SetMeta(KeyRebased, 0)
	tr.SetMeta(KeyTime, now)
	return tr
}

// SetMeta annotates the transaction and returns it for chaining.
// Values of the wrong type for a well-known key are ignored.
func (tr *Transaction) SetMeta(key string, v any) *Transaction {
	tr.Meta.Set(key, v)
	return tr
}

// GetMeta returns the annotation stored under key.
func (tr *Transaction) GetMeta(key string) (any, bool) {
	return tr.Meta.Get(key)
}

// DocChanged reports whether any step modifies the document.
func (tr *Transaction) DocChanged() bool {
	if tr == nil {
		return false
	}
	for _, s := range tr.Steps {
		if !s.IsNoop() {
			return true
		}
	}
	return false
}

// IsBoundary reports whether the transaction is a group boundary marker.
func (tr *Transaction) IsBoundary() bool {
	return tr != nil && !tr.DocChanged() && tr.Meta.forcesNewGroup()
}

// EffectiveTime returns the time override if one is set, else Time.
func (tr *Transaction) EffectiveTime() time.Time {
	if tr.Meta.TimeOverride != nil {
		return *tr.Meta.TimeOverride
	}
	return tr.Time
}

// BytesDelta returns the total change in document length.
func (tr *Transaction) BytesDelta() int {
	total := 0
	for _, s := range tr.Steps {
		total += s.BytesDelta()
	}
	return total
}

// Description returns a human-readable description.
func (tr *Transaction) Description() string {
	var inserted string
	deleted := 0
	for _, s := range tr.Steps {
		inserted += s.NewText
		deleted += utf8.RuneCountInString(s.OldText)
	}
	n := utf8.RuneCountInString(inserted)

	switch {
	case IsPaste(tr):
		return fmt.Sprintf("Paste %d characters", n)
	case n == 0 && deleted > 0:
		return fmt.Sprintf("Delete %d characters", deleted)
	case n == 0:
		return "Annotate"
	case inserted == "\n":
		return "Insert newline"
	case n == 1:
		return fmt.Sprintf("Type '%s'", inserted)
	case n <= 20:
		return fmt.Sprintf("Insert %q", inserted)
	}
	return fmt.Sprintf("Insert %d characters", n)
}

// Clone creates a deep copy of the transaction, keeping its ID.
func (tr *Transaction) Clone() *Transaction {
	c := &Transaction{
		ID:   tr.ID,
		Time: tr.Time,
		Meta: tr.Meta.Clone(),
	}
	if tr.Steps != nil {
		c.Steps = make([]Step, len(tr.Steps))
		copy(c.Steps, tr.Steps)
	}
	return c
}
