// README: In-memory Gateway used for local runs and engine tests.
package ride

import (
	"context"
	"sort"
	"sync"
	"time"

	"ridehub/internal/types"
)

type requestKey struct {
	ride   types.ID
	driver types.ID
}

// MemStore keeps every row behind one mutex, so UpdateRideIfStatus is a
// compare-and-set in the same sense as the Postgres predicate update.
type MemStore struct {
	mu       sync.Mutex
	rides    map[types.ID]*Ride
	requests map[requestKey]*RideRequest
	records  map[types.ID]*CompletionRecord
	now      func() time.Time
}

func NewMemStore() *MemStore {
	return &MemStore{
		rides:    make(map[types.ID]*Ride),
		requests: make(map[requestKey]*RideRequest),
		records:  make(map[types.ID]*CompletionRecord),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (m *MemStore) CreateRide(_ context.Context, r *Ride) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.rides[r.ID]; exists {
		return ErrDuplicate
	}
	cp := *r
	m.rides[r.ID] = &cp
	return nil
}

func (m *MemStore) GetRide(_ context.Context, id types.ID) (*Ride, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.rides[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *r
	return &cp, nil
}

func (m *MemStore) UpdateRideIfStatus(_ context.Context, id types.ID, expected Status, p Patch) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.rides[id]
	if !ok || r.Status != expected {
		return false, nil
	}
	if p.IfDriver != nil && !r.AssignedTo(*p.IfDriver) {
		return false, nil
	}
	m.rides[id] = applyPatch(r, p, m.stamp(p))
	return true, nil
}

// UpdateRideWithRecord holds the lock across both writes, so the record
// lands only together with the status change.
func (m *MemStore) UpdateRideWithRecord(_ context.Context, id types.ID, expected Status, p Patch, rec *CompletionRecord) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.rides[id]
	if !ok || r.Status != expected {
		return false, nil
	}
	if p.IfDriver != nil && !r.AssignedTo(*p.IfDriver) {
		return false, nil
	}
	m.rides[id] = applyPatch(r, p, m.stamp(p))
	m.putRecord(rec)
	return true, nil
}

func (m *MemStore) stamp(p Patch) time.Time {
	if !p.At.IsZero() {
		return p.At
	}
	return m.now()
}

func (m *MemStore) OpenRideRequest(_ context.Context, rr *RideRequest) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := requestKey{ride: rr.RideID, driver: rr.DriverID}
	if cur, ok := m.requests[key]; ok {
		if !cur.Denied {
			return false, nil
		}
		cur.Denied = false
		cur.UpdatedAt = rr.UpdatedAt
		return true, nil
	}
	cp := *rr
	cp.Denied = false
	m.requests[key] = &cp
	return true, nil
}

func (m *MemStore) GetRideRequest(_ context.Context, rideID, driverID types.ID) (*RideRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rr, ok := m.requests[requestKey{ride: rideID, driver: driverID}]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *rr
	return &cp, nil
}

func (m *MemStore) ListPendingRequests(_ context.Context, rideID types.ID) ([]*RideRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*RideRequest
	for key, rr := range m.requests {
		if key.ride != rideID || rr.Denied {
			continue
		}
		cp := *rr
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].DriverID < out[j].DriverID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (m *MemStore) MarkDenied(_ context.Context, rideID types.ID, driverIDs []types.ID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	for _, d := range driverIDs {
		if rr, ok := m.requests[requestKey{ride: rideID, driver: d}]; ok && !rr.Denied {
			rr.Denied = true
			rr.UpdatedAt = now
		}
	}
	return nil
}

func (m *MemStore) putRecord(rec *CompletionRecord) {
	cp := *rec
	if cur, ok := m.records[rec.RideID]; ok {
		cp.CreatedAt = cur.CreatedAt
	}
	m.records[rec.RideID] = &cp
}

func (m *MemStore) GetCompletionRecord(_ context.Context, rideID types.ID) (*CompletionRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.records[rideID]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *rec
	return &cp, nil
}
