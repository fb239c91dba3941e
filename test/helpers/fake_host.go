package helpers

import (
	"fmt"
	"sync"

	"github.com/andrescamacho/processor-go/internal/domain/processing"
)

// FakeInventory is an in-memory resource bag for testing
type FakeInventory struct {
	mu    sync.Mutex
	Items map[string]int
}

// NewFakeInventory creates an inventory seeded with the given counts
func NewFakeInventory(items map[string]int) *FakeInventory {
	inv := &FakeInventory{Items: make(map[string]int)}
	for k, v := range items {
		inv.Items[k] = v
	}
	return inv
}

func (f *FakeInventory) Pull(resource string, quantity int) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	have := f.Items[resource]
	if have < quantity {
		quantity = have
	}
	f.Items[resource] = have - quantity
	return quantity
}

func (f *FakeInventory) Return(resource string, quantity int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Items[resource] += quantity
}

// Add puts more of a resource into the inventory
func (f *FakeInventory) Add(resource string, quantity int) {
	f.Return(resource, quantity)
}

// Count returns how much of a resource is held
func (f *FakeInventory) Count(resource string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.Items[resource]
}

// FakeUnit is a unit with a settable ambient temperature
type FakeUnit struct {
	Temperature float64
	Inv         *FakeInventory
}

// NewFakeUnit creates a unit at the given temperature
func NewFakeUnit(temperature float64, items map[string]int) *FakeUnit {
	return &FakeUnit{Temperature: temperature, Inv: NewFakeInventory(items)}
}

func (f *FakeUnit) AmbientTemperature() float64 { return f.Temperature }

func (f *FakeUnit) Inventory() processing.Inventory {
	if f.Inv == nil {
		return nil
	}
	return f.Inv
}

// FakeSignal is a switchable readiness signal
type FakeSignal struct {
	Value bool
}

func (f *FakeSignal) On() bool { return f.Value }

// FakeEnvironment records pushed heat
type FakeEnvironment struct {
	Pushes []float64
}

func (f *FakeEnvironment) PushHeat(amount float64) {
	f.Pushes = append(f.Pushes, amount)
}

// Total returns the sum of every heat push
func (f *FakeEnvironment) Total() float64 {
	total := 0.0
	for _, p := range f.Pushes {
		total += p
	}
	return total
}

// FakeWasteContainer records emitted waste items
type FakeWasteContainer struct {
	Limit   int
	IsFull  bool
	Pending bool
	Emitted []int
}

// NewFakeWasteContainer creates an empty container with the given stack limit
func NewFakeWasteContainer(limit int) *FakeWasteContainer {
	return &FakeWasteContainer{Limit: limit}
}

func (f *FakeWasteContainer) Full() bool       { return f.IsFull }
func (f *FakeWasteContainer) HasPending() bool { return f.Pending }
func (f *FakeWasteContainer) StackLimit() int  { return f.Limit }

func (f *FakeWasteContainer) ProduceWaste(amount int) {
	f.Emitted = append(f.Emitted, amount)
}

// FakeOutputSink records placed results
type FakeOutputSink struct {
	Placed   []processing.ResultSpec
	OnGround []bool
	PlaceErr error
}

func (f *FakeOutputSink) Place(results []processing.ResultSpec, onGround bool) error {
	if f.PlaceErr != nil {
		return f.PlaceErr
	}
	f.Placed = append(f.Placed, results...)
	f.OnGround = append(f.OnGround, onGround)
	return nil
}

// FakeResearch answers research queries from a set of finished flags
type FakeResearch struct {
	Finished map[string]bool
}

// NewFakeResearch creates a tracker with the given flags finished
func NewFakeResearch(flags ...string) *FakeResearch {
	r := &FakeResearch{Finished: make(map[string]bool)}
	for _, f := range flags {
		r.Finished[f] = true
	}
	return r
}

func (f *FakeResearch) IsFinished(flag string) bool { return f.Finished[flag] }

// FakePickupRegistry tracks awaiting pickups per unit
type FakePickupRegistry struct {
	Awaiting map[string]map[string]bool
}

// NewFakePickupRegistry creates an empty registry
func NewFakePickupRegistry() *FakePickupRegistry {
	return &FakePickupRegistry{Awaiting: make(map[string]map[string]bool)}
}

func (f *FakePickupRegistry) AwaitPickup(unitID, processID string) {
	if f.Awaiting[unitID] == nil {
		f.Awaiting[unitID] = make(map[string]bool)
	}
	f.Awaiting[unitID][processID] = true
}

func (f *FakePickupRegistry) PickupDone(unitID, processID string) {
	delete(f.Awaiting[unitID], processID)
}

func (f *FakePickupRegistry) RemoveFromAwaiting(unitID string) {
	delete(f.Awaiting, unitID)
}

// IsAwaiting reports whether a process is registered for pickup
func (f *FakePickupRegistry) IsAwaiting(unitID, processID string) bool {
	return f.Awaiting[unitID][processID]
}

// NewSimpleDefinition builds a valid definition with one required ingredient and one result
func NewSimpleDefinition(id string, duration int, ingredient string, quantity int) *processing.ProcessDefinition {
	def := &processing.ProcessDefinition{
		ID:            id,
		Results:       []processing.ResultSpec{{Resource: id + "_out", Quantity: 1}},
		DurationTicks: duration,
	}
	if ingredient != "" {
		def.Ingredients = []processing.IngredientSpec{{Resource: ingredient, Quantity: quantity, Require: true}}
	}
	return def
}

// MustCatalog builds a catalog or panics, for test fixtures
func MustCatalog(defs ...*processing.ProcessDefinition) *processing.Catalog {
	c, err := processing.NewCatalog(defs...)
	if err != nil {
		panic(fmt.Sprintf("invalid test catalog: %v", err))
	}
	return c
}
