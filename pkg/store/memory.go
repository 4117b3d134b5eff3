package store

import (
	"context"
	"fmt"
	"sync"

	"mercator-hq/vesta/pkg/credential"
)

// Memory implements credential.Store with in-memory storage. All data is
// lost when the process exits.
//
// Memory is thread-safe and supports concurrent access using sync.RWMutex.
type Memory struct {
	mu       sync.RWMutex
	policies map[string]credential.Policy
	order    []string
}

// NewMemory creates an empty in-memory policy store.
func NewMemory() *Memory {
	return &Memory{
		policies: make(map[string]credential.Policy),
	}
}

// NewMemoryWithPolicies creates an in-memory store pre-populated with the
// given policies.
func NewMemoryWithPolicies(policies ...credential.Policy) (*Memory, error) {
	m := NewMemory()
	for _, p := range policies {
		if err := m.Put(context.Background(), p); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// FindByRole returns all policies whose role membership includes roleID, in
// insertion order.
func (m *Memory) FindByRole(ctx context.Context, roleID credential.RoleID) ([]credential.Policy, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []credential.Policy
	for _, id := range m.order {
		p := m.policies[id]
		for _, r := range p.Roles {
			if r == roleID {
				out = append(out, p)
				break
			}
		}
	}
	return out, nil
}

// Put inserts or replaces a policy.
func (m *Memory) Put(ctx context.Context, p credential.Policy) error {
	if p.ID == "" {
		return fmt.Errorf("policy id cannot be empty")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.policies[p.ID]; !ok {
		m.order = append(m.order, p.ID)
	}
	m.policies[p.ID] = p
	return nil
}

// Delete removes a policy. Deleting an absent id is not an error.
func (m *Memory) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.policies[id]; !ok {
		return nil
	}
	delete(m.policies, id)
	for i, existing := range m.order {
		if existing == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return nil
}

// List returns all policies in insertion order.
func (m *Memory) List(ctx context.Context) ([]credential.Policy, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]credential.Policy, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.policies[id])
	}
	return out, nil
}
