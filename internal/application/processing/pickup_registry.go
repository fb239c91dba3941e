package processing

import (
	"sort"
	"sync"
)

// PickupRegistry is the thread-safe manager of finished processes awaiting collection.
// It satisfies the domain's pickup registry port.
type PickupRegistry struct {
	mu       sync.RWMutex
	awaiting map[string]map[string]struct{} // key: unitID, value: set of process IDs
}

// NewPickupRegistry creates an empty registry
func NewPickupRegistry() *PickupRegistry {
	return &PickupRegistry{
		awaiting: make(map[string]map[string]struct{}),
	}
}

// AwaitPickup registers a finished process
func (r *PickupRegistry) AwaitPickup(unitID, processID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	set, ok := r.awaiting[unitID]
	if !ok {
		set = make(map[string]struct{})
		r.awaiting[unitID] = set
	}
	set[processID] = struct{}{}
}

// PickupDone clears one registration
func (r *PickupRegistry) PickupDone(unitID, processID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	set, ok := r.awaiting[unitID]
	if !ok {
		return
	}
	delete(set, processID)
	if len(set) == 0 {
		delete(r.awaiting, unitID)
	}
}

// RemoveFromAwaiting drops every registration of a unit
func (r *PickupRegistry) RemoveFromAwaiting(unitID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.awaiting, unitID)
}

// IsAwaiting reports whether a process is registered
func (r *PickupRegistry) IsAwaiting(unitID, processID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.awaiting[unitID][processID]
	return ok
}

// Awaiting returns the process IDs registered for a unit, sorted
func (r *PickupRegistry) Awaiting(unitID string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0, len(r.awaiting[unitID]))
	for id := range r.awaiting[unitID] {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Count returns the total number of awaiting pickups across units
func (r *PickupRegistry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	total := 0
	for _, set := range r.awaiting {
		total += len(set)
	}
	return total
}
