package host

import (
	"fmt"

	"github.com/andrescamacho/processor-go/internal/adapters/definitions"
	"github.com/andrescamacho/processor-go/internal/domain/processing"
)

// SandboxOptions carries the host-wide settings a world file does not
type SandboxOptions struct {
	// AmbientTemperature is used when the world does not set one
	AmbientTemperature float64
	WasteEnabled       bool
	RuinPolicy         *processing.RuinPolicy
	Pickups            processing.PickupRegistry

	// DegreesPerHeat and CoolingPerStep make pushed heat warm the room
	DegreesPerHeat float64
	CoolingPerStep float64
}

// SandboxUnit is one spawned unit together with the host objects it is wired to
type SandboxUnit struct {
	Template  definitions.UnitTemplate
	Processor *processing.ResourceProcessor
	Inventory *Inventory
	Bin       *WasteBin
	Output    *OutputSink

	Power  *Switch
	Fuel   *Switch
	Switch *Switch
}

// Sandbox is an in-memory host built from a world description
type Sandbox struct {
	Room     *Room
	Research *Research
	Catalog  *processing.Catalog
	Units    []*SandboxUnit

	byID map[string]*SandboxUnit
}

// NewSandbox spawns every unit of the world and starts its queued processes
func NewSandbox(world *definitions.World, opts SandboxOptions) (*Sandbox, error) {
	catalog, err := world.Catalog()
	if err != nil {
		return nil, err
	}

	ambient := opts.AmbientTemperature
	if world.AmbientTemperature != nil {
		ambient = *world.AmbientTemperature
	}

	s := &Sandbox{
		Room:     NewRoom(ambient, opts.DegreesPerHeat, opts.CoolingPerStep),
		Research: NewResearch(world.Research...),
		Catalog:  catalog,
		byID:     make(map[string]*SandboxUnit, len(world.Units)),
	}

	for _, template := range world.Units {
		unit, err := s.spawn(world, template, opts)
		if err != nil {
			return nil, fmt.Errorf("unit %s: %w", template.ID, err)
		}
		s.Units = append(s.Units, unit)
		s.byID[template.ID] = unit
	}
	return s, nil
}

func (s *Sandbox) spawn(world *definitions.World, template definitions.UnitTemplate, opts SandboxOptions) (*SandboxUnit, error) {
	unitCatalog, err := world.UnitCatalog(s.Catalog, template)
	if err != nil {
		return nil, err
	}

	su := &SandboxUnit{
		Template:  template,
		Inventory: NewInventory(template.Inventory),
	}
	su.Output = NewOutputSink(su.Inventory, 0)

	procOpts := processing.ProcessorOptions{
		UnitID:              template.ID,
		Unit:                NewUnit(s.Room, su.Inventory, template.AmbientTemperature),
		Catalog:             unitCatalog,
		Properties:          template.Properties,
		Environment:         s.Room,
		WasteFeatureEnabled: opts.WasteEnabled,
		Pickups:             opts.Pickups,
		Research:            s.Research,
		Output:              su.Output,
		RuinPolicy:          opts.RuinPolicy,
	}

	// Unset signals stay nil so the gate treats them as satisfied
	if template.Signals.Power != nil {
		su.Power = NewSwitch(*template.Signals.Power)
		procOpts.Gates.Power = su.Power
	}
	if template.Signals.Fuel != nil {
		su.Fuel = NewSwitch(*template.Signals.Fuel)
		procOpts.Gates.Fuel = su.Fuel
	}
	if template.Signals.Switch != nil {
		su.Switch = NewSwitch(*template.Signals.Switch)
		procOpts.Gates.Switch = su.Switch
	}
	if template.WasteContainer != nil {
		su.Bin = NewWasteBin(template.WasteContainer.StackLimit, template.WasteContainer.Capacity)
		procOpts.WasteContainer = su.Bin
	}

	proc, err := processing.NewResourceProcessor(procOpts)
	if err != nil {
		return nil, err
	}
	proc.SetOutputOnGround(template.OutputOnGround)

	for _, id := range template.Queue {
		if _, err := proc.Start(id); err != nil {
			return nil, fmt.Errorf("queue %s: %w", id, err)
		}
	}

	su.Processor = proc
	return su, nil
}

// Unit returns a spawned unit by ID
func (s *Sandbox) Unit(id string) (*SandboxUnit, bool) {
	u, ok := s.byID[id]
	return u, ok
}

// Settle runs the host housekeeping between simulation steps: waste bins take in
// their pending packs and the room sheds heat.
func (s *Sandbox) Settle() {
	for _, u := range s.Units {
		if u.Bin != nil {
			u.Bin.Settle()
		}
	}
	s.Room.Cool()
}

// Restock adds resources to a unit's inventory and lets its stack retry pulls.
// Returns the number of items pulled into ingredient slots.
func (s *Sandbox) Restock(unitID string, items map[string]int) (int, error) {
	u, ok := s.byID[unitID]
	if !ok {
		return 0, fmt.Errorf("unknown unit %s", unitID)
	}
	for resource, quantity := range items {
		u.Inventory.Add(resource, quantity)
	}
	return u.Processor.OnInventoryChanged(), nil
}
