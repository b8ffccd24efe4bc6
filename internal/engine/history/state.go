package history

import "time"

// State records when the last paste and the last doc-changing transaction
// were seen. The zero value is the state of a freshly mounted editor.
type State struct {
	LastPaste       time.Time
	LastTransaction time.Time
}

// Apply returns the state after observing tr at now.
//
// A paste moves both clocks to now. Any other doc-changing transaction moves
// only LastTransaction. Everything else leaves the state unchanged.
//
// Timestamps never move backwards: a now earlier than a recorded time is
// clamped to that time.
func (s State) Apply(tr *Transaction, now time.Time) State {
	now = s.clamp(now)

	switch {
	case IsPaste(tr):
		return State{LastPaste: now, LastTransaction: now}
	case tr.DocChanged():
		return State{LastPaste: s.LastPaste, LastTransaction: now}
	}
	return s
}

// SincePaste returns the time elapsed between the last paste and now,
// never negative. ok is false when no paste has been observed.
func (s State) SincePaste(now time.Time) (elapsed time.Duration, ok bool) {
	if s.LastPaste.IsZero() {
		return 0, false
	}
	if now.Before(s.LastPaste) {
		return 0, true
	}
	return now.Sub(s.LastPaste), true
}

func (s State) clamp(now time.Time) time.Time {
	if now.Before(s.LastTransaction) {
		now = s.LastTransaction
	}
	if now.Before(s.LastPaste) {
		now = s.LastPaste
	}
	return now
}
