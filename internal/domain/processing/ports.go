package processing

import "context"

// Signal is an external readiness condition (power, fuel, manual switch)
type Signal interface {
	// On reports whether the condition currently holds
	On() bool
}

// Inventory is the general inventory a unit pulls ingredients from and refunds into
type Inventory interface {
	// Pull removes up to quantity units of resource and returns how many were taken
	Pull(resource string, quantity int) int

	// Return gives quantity units of resource back to the inventory
	Return(resource string, quantity int)
}

// Unit is the host-owned entity a process stack belongs to
type Unit interface {
	// AmbientTemperature returns the temperature around the unit
	AmbientTemperature() float64

	// Inventory returns the inventory accessible to the unit
	Inventory() Inventory
}

// Environment receives heat contributions from a working unit
type Environment interface {
	PushHeat(amount float64)
}

// WasteContainer is the linked container that receives produced waste
type WasteContainer interface {
	// Full reports whether the container has no free capacity
	Full() bool

	// HasPending reports whether the container still holds previously emitted waste
	HasPending() bool

	// StackLimit is the container capacity, used as the per-cycle threshold
	StackLimit() int

	// ProduceWaste emits one waste item of the given size into the container
	ProduceWaste(amount int)
}

// OutputSink places finished goods when a completed process is picked up
type OutputSink interface {
	// Place puts results either on the ground next to the unit or into storage
	Place(results []ResultSpec, onGround bool) error
}

// PickupRegistry tracks processes whose results are waiting to be collected
type PickupRegistry interface {
	// AwaitPickup registers a finished process for collection
	AwaitPickup(unitID string, processID string)

	// PickupDone clears a pending pickup registration
	PickupDone(unitID string, processID string)

	// RemoveFromAwaiting drops every registration belonging to the unit
	RemoveFromAwaiting(unitID string)
}

// ResearchTracker answers whether a research flag has been completed
type ResearchTracker interface {
	IsFinished(flag string) bool
}

// SnapshotRepository persists processor state between sessions
type SnapshotRepository interface {
	// Save stores the snapshot, replacing any previous one for the same unit
	Save(ctx context.Context, snapshot *Snapshot) error

	// FindByUnitID loads the latest snapshot for a unit
	FindByUnitID(ctx context.Context, unitID string) (*Snapshot, error)

	// Delete removes the snapshot for a unit
	Delete(ctx context.Context, unitID string) error
}

// DefinitionSource loads authored process definitions
type DefinitionSource interface {
	LoadDefinitions() ([]*ProcessDefinition, error)
}

// nopResearch treats every prerequisite as finished
type nopResearch struct{}

func (nopResearch) IsFinished(string) bool { return true }

// nopRegistry ignores pickup registrations
type nopRegistry struct{}

func (nopRegistry) AwaitPickup(string, string) {}
func (nopRegistry) PickupDone(string, string) {}
func (nopRegistry) RemoveFromAwaiting(string) {}
