package history

import (
	"maps"
	"time"
)

// Well-known metadata keys. Any other key is carried in Meta.Extra untouched.
const (
	KeyPaste   = "paste"
	KeyUIEvent = "uiEvent"
	KeyRebased = "rebased"
	KeyTime    = "time"
)

// UIEventPaste is the uiEvent value the editing surface sets on pasted input.
const UIEventPaste = "paste"

// Meta is the annotation bag carried by a transaction.
// The fields this package reads are typed; everything else lives in Extra.
type Meta struct {
	Paste        bool
	UIEvent      string
	RebaseEpoch  *int
	TimeOverride *time.Time
	Extra        map[string]any
}

// Get returns the value stored under key.
func (m Meta) Get(key string) (any, bool) {
	switch key {
	case KeyPaste:
		return m.Paste, m.Paste
	case KeyUIEvent:
		return m.UIEvent, m.UIEvent != ""
	case KeyRebased:
		if m.RebaseEpoch == nil {
			return nil, false
		}
		return *m.RebaseEpoch, true
	case KeyTime:
		if m.TimeOverride == nil {
			return nil, false
		}
		return *m.TimeOverride, true
	}
	v, ok := m.Extra[key]
	return v, ok
}

// Set stores v under key. Values for well-known keys must have the matching
// type (bool, string, int, time.Time); Set reports false and leaves Meta
// unchanged otherwise.
func (m *Meta) Set(key string, v any) bool {
	switch key {
	case KeyPaste:
		b, ok := v.(bool)
		if !ok {
			return false
		}
		m.Paste = b
	case KeyUIEvent:
		s, ok := v.(string)
		if !ok {
			return false
		}
		m.UIEvent = s
	case KeyRebased:
		n, ok := v.(int)
		if !ok {
			return false
		}
		m.RebaseEpoch = &n
	case KeyTime:
		t, ok := v.(time.Time)
		if !ok {
			return false
		}
		m.TimeOverride = &t
	default:
		if m.Extra == nil {
			m.Extra = make(map[string]any)
		}
		m.Extra[key] = v
	}
	return true
}

// Keys returns the keys that carry a value, well-known keys first.
func (m Meta) Keys() []string {
	var keys []string
	for _, k := range []string{KeyPaste, KeyUIEvent, KeyRebased, KeyTime} {
		if _, ok := m.Get(k); ok {
			keys = append(keys, k)
		}
	}
	for k := range m.Extra {
		keys = append(keys, k)
	}
	return keys
}

// Clone returns a copy that shares no mutable state with m.
func (m Meta) Clone() Meta {
	c := Meta{Paste: m.Paste, UIEvent: m.UIEvent}
	if m.RebaseEpoch != nil {
		n := *m.RebaseEpoch
		c.RebaseEpoch = &n
	}
	if m.TimeOverride != nil {
		t := *m.TimeOverride
		c.TimeOverride = &t
	}
	if m.Extra != nil {
		c.Extra = maps.Clone(m.Extra)
	}
	return c
}

// forcesNewGroup reports whether the rebase epoch is the sentinel 0.
func (m Meta) forcesNewGroup() bool {
	return m.RebaseEpoch != nil && *m.RebaseEpoch == 0
}
