package history

import (
	"time"

	"github.com/dshills/notedraft/internal/engine/buffer"
)

// ByteOffset is an alias for buffer.ByteOffset for convenience.
type ByteOffset = buffer.ByteOffset

// Range is an alias for buffer.Range for convenience.
type Range = buffer.Range

// Step is a single replacement within a transaction.
// Range is expressed in document coordinates at the time the step applies.
type Step struct {
	Range   Range  // Range that was replaced
	OldText string // Text that was replaced (for undo)
	NewText string // Text that was inserted (for redo)
}

// NewInsertStep creates a step for an insertion.
func NewInsertStep(offset ByteOffset, text string) Step {
	return Step{
		Range:   Range{Start: offset, End: offset},
		NewText: text,
	}
}

// NewDeleteStep creates a step for a deletion.
func NewDeleteStep(r Range, deletedText string) Step {
	return Step{
		Range:   r,
		OldText: deletedText,
	}
}

// NewReplaceStep creates a step for a replacement.
func NewReplaceStep(r Range, oldText, newText string) Step {
	return Step{
		Range:   r,
		OldText: oldText,
		NewText: newText,
	}
}

// IsInsert returns true if this step is a pure insertion.
func (s Step) IsInsert() bool {
	return s.Range.IsEmpty() && len(s.NewText) > 0
}

// IsDelete returns true if this step is a pure deletion.
func (s Step) IsDelete() bool {
	return !s.Range.IsEmpty() && len(s.NewText) == 0
}

// IsNoop returns true if this step makes no changes.
func (s Step) IsNoop() bool {
	return s.Range.IsEmpty() && len(s.NewText) == 0
}

// BytesDelta returns the change in document length.
func (s Step) BytesDelta() int {
	return len(s.NewText) - s.Range.Len()
}

// NewRange returns the range of the text after the step.
func (s Step) NewRange() Range {
	return Range{
		Start: s.Range.Start,
		End:   s.Range.Start + len(s.NewText),
	}
}

// Invert returns a step that undoes this one.
func (s Step) Invert() Step {
	return Step{
		Range:   s.NewRange(),
		OldText: s.NewText,
		NewText: s.OldText,
	}
}

// Apply performs the step on buf.
func (s Step) Apply(buf *buffer.Buffer) error {
	_, err := buf.Replace(s.Range.Start, s.Range.End, s.NewText)
	return err
}

// GroupInfo provides read-only info about an undo group.
// Used for displaying undo/redo history to users.
type GroupInfo struct {
	Description  string    // Human-readable description
	Start        time.Time // Time of the first transaction in the group
	End          time.Time // Time of the last transaction or boundary
	Transactions int       // Number of transactions merged into the group
	BytesDelta   int       // Positive for insertions, negative for deletions
}
