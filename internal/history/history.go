// Package history keeps per-scope lists of previously sent messages
// and the navigation state used to recall them. Scopes are logical
// keys, typically workspace ids; entries within a scope are ordered
// oldest first.
package history

import "strings"

const (
	// MaxEntries caps a scope's list; the oldest entry is evicted
	// first.
	MaxEntries = 100

	// DefaultScope is the key used before any workspace is active.
	DefaultScope = "default"
)

// Store persists history lists by scope key. Implementations must
// tolerate missing or corrupt data by returning an empty list, and
// treat Save as best effort.
type Store interface {
	Load(key string) []string
	Save(key string, entries []string)
}

// Manager owns the active scope's entry list and applies the commit
// rules: trim, drop empties, suppress only the immediately preceding
// duplicate, evict past the cap.
type Manager struct {
	store    Store
	scope    string
	entries  []string
	migrated bool
}

// NewManager loads the default scope.
func NewManager(store Store) *Manager {
	m := &Manager{store: store, scope: DefaultScope}
	if store != nil {
		m.entries = store.Load(DefaultScope)
	}
	return m
}

// SetScope activates a scope, loading its saved entries. The very
// first time a scope with no prior entries becomes active, the default
// scope's history is migrated into it; later empty scopes start empty.
func (m *Manager) SetScope(scope string) {
	if scope == "" {
		scope = DefaultScope
	}
	if scope == m.scope {
		return
	}
	m.scope = scope
	if m.store == nil {
		m.entries = nil
		return
	}
	m.entries = m.store.Load(scope)
	if len(m.entries) == 0 && !m.migrated && scope != DefaultScope {
		if def := m.store.Load(DefaultScope); len(def) > 0 {
			m.entries = append([]string(nil), def...)
			m.store.Save(scope, m.entries)
			m.migrated = true
		}
	}
}

// Scope returns the active scope key.
func (m *Manager) Scope() string { return m.scope }

// Entries returns the active scope's list, oldest first. The returned
// slice is shared; callers must not mutate it.
func (m *Manager) Entries() []string { return m.entries }

// Commit records a sent message. Empty input is ignored; a message
// identical to the last stored entry is suppressed. Non-adjacent
// duplicates are deliberately kept.
func (m *Manager) Commit(text string) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}
	if n := len(m.entries); n > 0 && m.entries[n-1] == text {
		return
	}
	m.entries = append(m.entries, text)
	if len(m.entries) > MaxEntries {
		m.entries = m.entries[len(m.entries)-MaxEntries:]
	}
	if m.store != nil {
		m.store.Save(m.scope, m.entries)
	}
}
