package processing

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/andrescamacho/processor-go/internal/domain/processing"
	"github.com/andrescamacho/processor-go/internal/domain/shared"
)

// UnitEntry is a registered processor and its scheduling class
type UnitEntry struct {
	mu        sync.Mutex
	processor *processing.ResourceProcessor
	cadence   Cadence
}

func (e *UnitEntry) Cadence() Cadence { return e.cadence }
func (e *UnitEntry) UnitID() string   { return e.processor.UnitID() }

// UnitRegistry holds every live processor by unit ID.
// Each processor is only touched while its entry lock is held.
type UnitRegistry struct {
	mu    sync.RWMutex
	units map[string]*UnitEntry
}

// NewUnitRegistry creates an empty registry
func NewUnitRegistry() *UnitRegistry {
	return &UnitRegistry{
		units: make(map[string]*UnitEntry),
	}
}

// Register adds a processor under its unit ID
func (r *UnitRegistry) Register(processor *processing.ResourceProcessor, cadence Cadence) error {
	if processor == nil {
		return fmt.Errorf("processor cannot be nil")
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	id := processor.UnitID()
	if _, exists := r.units[id]; exists {
		return shared.NewAlreadyExistsError("unit", id)
	}
	r.units[id] = &UnitEntry{processor: processor, cadence: cadence}
	return nil
}

// Remove drops a unit from the registry
func (r *UnitRegistry) Remove(unitID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.units[unitID]; !exists {
		return false
	}
	delete(r.units, unitID)
	return true
}

// Resolve finds a unit by exact ID or by a unique ID prefix
func (r *UnitRegistry) Resolve(ref string) (*UnitEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if entry, ok := r.units[ref]; ok {
		return entry, nil
	}
	if ref == "" {
		return nil, shared.NewNotFoundError("unit", ref)
	}

	var match *UnitEntry
	for id, entry := range r.units {
		if !strings.HasPrefix(id, ref) {
			continue
		}
		if match != nil {
			return nil, fmt.Errorf("unit reference %s is ambiguous", ref)
		}
		match = entry
	}
	if match == nil {
		return nil, shared.NewNotFoundError("unit", ref)
	}
	return match, nil
}

// With runs fn against the unit's processor while holding the unit lock
func (r *UnitRegistry) With(ref string, fn func(p *processing.ResourceProcessor) error) error {
	entry, err := r.Resolve(ref)
	if err != nil {
		return err
	}
	entry.mu.Lock()
	defer entry.mu.Unlock()
	return fn(entry.processor)
}

// IDs returns every registered unit ID, sorted
func (r *UnitRegistry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0, len(r.units))
	for id := range r.units {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// ByCadence returns the unit IDs scheduled on the given cadence, sorted
func (r *UnitRegistry) ByCadence(cadence Cadence) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var ids []string
	for id, entry := range r.units {
		if entry.cadence == cadence {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}

// Len returns the number of registered units
func (r *UnitRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.units)
}
