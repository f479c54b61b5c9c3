// README: In-memory vehicle store for local runs and tests.
package vehicle

import (
	"context"
	"sort"
	"sync"

	"ridehub/internal/types"
)

type MemStore struct {
	mu       sync.RWMutex
	vehicles map[types.ID]*Vehicle
}

func NewMemStore() *MemStore {
	return &MemStore{vehicles: make(map[types.ID]*Vehicle)}
}

func (m *MemStore) Create(_ context.Context, v *Vehicle) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *v
	m.vehicles[v.ID] = &cp
	return nil
}

func (m *MemStore) Get(_ context.Context, id types.ID) (*Vehicle, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.vehicles[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *v
	return &cp, nil
}

func (m *MemStore) ListByOwner(_ context.Context, driverID types.ID) ([]*Vehicle, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*Vehicle
	for _, v := range m.vehicles {
		if v.OwnerDriverID == driverID {
			cp := *v
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (m *MemStore) Activate(_ context.Context, driverID, id types.ID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	target, ok := m.vehicles[id]
	if !ok || target.OwnerDriverID != driverID {
		return ErrNotFound
	}
	for _, v := range m.vehicles {
		if v.OwnerDriverID == driverID {
			v.Active = v.ID == id
		}
	}
	return nil
}
