package store

import (
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/spedops/pullout/core/model"
)

// MemoryStore keeps all records in process memory. It is the store of choice
// for tests and scenario runs.
type MemoryStore struct {
	mu           sync.RWMutex
	requirements map[uuid.UUID]model.ServiceRequirement
	sessions     map[uuid.UUID]model.ScheduledSession
	audit        []AuditEntry
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		requirements: make(map[uuid.UUID]model.ServiceRequirement),
		sessions:     make(map[uuid.UUID]model.ScheduledSession),
	}
}

// Requirement returns the requirement with the given id.
func (m *MemoryStore) Requirement(id uuid.UUID) (model.ServiceRequirement, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.requirements[id]
	if !ok {
		return model.ServiceRequirement{}, ErrNotFound
	}
	return r, nil
}

// Requirements returns every stored requirement in a stable order.
func (m *MemoryStore) Requirements() ([]model.ServiceRequirement, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]model.ServiceRequirement, 0, len(m.requirements))
	for _, r := range m.requirements {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID.String() < out[j].ID.String() })
	return out, nil
}

// PutRequirement inserts or replaces a requirement.
func (m *MemoryStore) PutRequirement(req model.ServiceRequirement) error {
	m.mu.Lock()
	m.requirements[req.ID] = req
	m.mu.Unlock()
	return nil
}

// Session returns the session with the given id.
func (m *MemoryStore) Session(id uuid.UUID) (model.ScheduledSession, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	if !ok {
		return model.ScheduledSession{}, ErrNotFound
	}
	return s, nil
}

// Sessions returns every stored session in a stable order.
func (m *MemoryStore) Sessions() ([]model.ScheduledSession, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]model.ScheduledSession, 0, len(m.sessions))
	for _, s := range m.sessions {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID.String() < out[j].ID.String() })
	return out, nil
}

// PutSession writes the session if its version matches the stored row, then
// increments the stored version.
func (m *MemoryStore) PutSession(s model.ScheduledSession) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.sessions[s.ID]; ok && existing.Version != s.Version {
		return ErrVersionConflict
	}
	s.Version++
	m.sessions[s.ID] = s
	return nil
}

// DeleteSession removes the session permanently.
func (m *MemoryStore) DeleteSession(id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[id]; !ok {
		return ErrNotFound
	}
	delete(m.sessions, id)
	return nil
}

// AppendAudit records an audit entry.
func (m *MemoryStore) AppendAudit(e AuditEntry) error {
	m.mu.Lock()
	m.audit = append(m.audit, e)
	m.mu.Unlock()
	return nil
}

// Audit returns the most recent entries, newest last.
func (m *MemoryStore) Audit(limit int) ([]AuditEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if limit <= 0 || limit > len(m.audit) {
		limit = len(m.audit)
	}
	out := make([]AuditEntry, limit)
	copy(out, m.audit[len(m.audit)-limit:])
	return out, nil
}

// Close is a no-op for the in-memory store.
func (m *MemoryStore) Close() error { return nil }
