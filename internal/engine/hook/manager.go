package hook

import (
	"sort"
	"sync"
	"time"

	"github.com/dshills/notedraft/internal/engine/history"
)

// Manager manages transaction hooks with priority-based ordering.
type Manager struct {
	mu          sync.RWMutex
	filterHooks []FilterHook
	appendHooks []AppendHook
}

// NewManager creates a new hook manager.
func NewManager() *Manager {
	return &Manager{
		filterHooks: make([]FilterHook, 0),
		appendHooks: make([]AppendHook, 0),
	}
}

// RegisterFilter adds a filter hook, replacing any hook with the same name.
func (m *Manager) RegisterFilter(h FilterHook) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, existing := range m.filterHooks {
		if existing.Name() == h.Name() {
			m.filterHooks[i] = h
			sortByPriority(m.filterHooks)
			return
		}
	}

	m.filterHooks = append(m.filterHooks, h)
	sortByPriority(m.filterHooks)
}

// RegisterAppend adds an append hook, replacing any hook with the same name.
func (m *Manager) RegisterAppend(h AppendHook) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, existing := range m.appendHooks {
		if existing.Name() == h.Name() {
			m.appendHooks[i] = h
			sortByPriority(m.appendHooks)
			return
		}
	}

	m.appendHooks = append(m.appendHooks, h)
	sortByPriority(m.appendHooks)
}

// Register adds a hook under every interface it implements.
func (m *Manager) Register(h Hook) {
	if f, ok := h.(FilterHook); ok {
		m.RegisterFilter(f)
	}
	if a, ok := h.(AppendHook); ok {
		m.RegisterAppend(a)
	}
}

// Unregister removes a hook by name from both lists.
func (m *Manager) Unregister(name string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	removed := false
	for i, h := range m.filterHooks {
		if h.Name() == name {
			m.filterHooks = append(m.filterHooks[:i], m.filterHooks[i+1:]...)
			removed = true
			break
		}
	}
	for i, h := range m.appendHooks {
		if h.Name() == name {
			m.appendHooks = append(m.appendHooks[:i], m.appendHooks[i+1:]...)
			removed = true
			break
		}
	}
	return removed
}

// RunFilter runs the filter hooks in priority order and returns the first
// rejection, or nil if tr is accepted.
func (m *Manager) RunFilter(tr *history.Transaction) error {
	m.mu.RLock()
	hooks := make([]FilterHook, len(m.filterHooks))
	copy(hooks, m.filterHooks)
	m.mu.RUnlock()

	for _, h := range hooks {
		if err := h.FilterTransaction(tr); err != nil {
			return err
		}
	}
	return nil
}

// RunAppend runs the append hooks in priority order and collects the
// transactions they return.
func (m *Manager) RunAppend(batch []*history.Transaction, now time.Time) []*history.Transaction {
	m.mu.RLock()
	hooks := make([]AppendHook, len(m.appendHooks))
	copy(hooks, m.appendHooks)
	m.mu.RUnlock()

	var appended []*history.Transaction
	for _, h := range hooks {
		if tr := h.AppendTransaction(batch, now); tr != nil {
			appended = append(appended, tr)
		}
	}
	return appended
}

// FilterHookNames returns the names of all filter hooks in run order.
func (m *Manager) FilterHookNames() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return hookNames(m.filterHooks)
}

// AppendHookNames returns the names of all append hooks in run order.
func (m *Manager) AppendHookNames() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return hookNames(m.appendHooks)
}

// Clear removes all hooks.
func (m *Manager) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.filterHooks = m.filterHooks[:0]
	m.appendHooks = m.appendHooks[:0]
}

// sortByPriority sorts hooks by priority descending (higher first).
// Hooks with equal priority keep registration order.
func sortByPriority[H Hook](hooks []H) {
	sort.SliceStable(hooks, func(i, j int) bool {
		return hooks[i].Priority() > hooks[j].Priority()
	})
}

func hookNames[H Hook](hooks []H) []string {
	names := make([]string, len(hooks))
	for i, h := range hooks {
		names[i] = h.Name()
	}
	return names
}
