package cart

import (
	"context"
	"fmt"
	"sync"
)

// Manager owns one Store per cart owner, hydrating each from the durable slot
// exactly once and wiring the persistence bridge before handing it out.
type Manager struct {
	mu     sync.Mutex
	bridge *Bridge
	stores map[string]*Store
}

// NewManager builds the process-wide cart manager.
func NewManager(bridge *Bridge) (*Manager, error) {
	if bridge == nil {
		return nil, fmt.Errorf("bridge is required")
	}
	return &Manager{
		bridge: bridge,
		stores: make(map[string]*Store),
	}, nil
}

// ForOwner returns the owner's cart store, creating and hydrating it on first
// access. Hydration happens before the bridge subscribes so the initial load
// does not echo back into the slot.
func (m *Manager) ForOwner(ctx context.Context, owner string) *Store {
	m.mu.Lock()
	defer m.mu.Unlock()

	if store, ok := m.stores[owner]; ok {
		return store
	}

	store := NewStore(owner)
	if lines := m.bridge.Load(ctx, owner); len(lines) > 0 {
		store.SetAll(ctx, lines)
	}
	store.Subscribe(m.bridge)
	m.stores[owner] = store
	return store
}
