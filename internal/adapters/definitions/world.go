package definitions

import (
	"fmt"
	"sort"

	"github.com/andrescamacho/processor-go/internal/domain/processing"
)

// World is a sandbox host description: the authored definitions plus the units placed in it
type World struct {
	Definitions []*processing.ProcessDefinition `yaml:"definitions" validate:"required,min=1,dive,required"`
	Units       []UnitTemplate                  `yaml:"units" validate:"dive"`

	// Research lists the research flags already finished in this world
	Research []string `yaml:"research"`

	// AmbientTemperature applies to every unit that does not set its own
	AmbientTemperature *float64 `yaml:"ambient_temperature"`
}

// UnitTemplate describes one processing unit and its starting state
type UnitTemplate struct {
	ID      string `yaml:"id" validate:"required"`
	Cadence string `yaml:"cadence" validate:"cadence"`

	// Definitions restricts the unit to a subset of the world's definitions; empty means all
	Definitions []string `yaml:"definitions"`

	Properties         processing.ProcessorProperties `yaml:"properties"`
	AmbientTemperature *float64                       `yaml:"ambient_temperature"`
	Inventory          map[string]int                 `yaml:"inventory" validate:"dive,min=0"`
	WasteContainer     *WasteContainerTemplate        `yaml:"waste_container"`
	Signals            SignalTemplate                 `yaml:"signals"`
	OutputOnGround     bool                           `yaml:"output_on_ground"`

	// Queue lists definition ids started in order when the unit spawns
	Queue []string `yaml:"queue"`
}

// WasteContainerTemplate describes the container linked to a unit
type WasteContainerTemplate struct {
	StackLimit int `yaml:"stack_limit" validate:"min=1"`
	Capacity   int `yaml:"capacity" validate:"min=0"`
}

// SignalTemplate sets the starting state of each gate; an omitted gate is not wired
type SignalTemplate struct {
	Power  *bool `yaml:"power"`
	Fuel   *bool `yaml:"fuel"`
	Switch *bool `yaml:"switch"`
}

// Catalog builds the validated catalog of every definition in the world
func (w *World) Catalog() (*processing.Catalog, error) {
	return processing.NewCatalog(w.Definitions...)
}

// UnitCatalog returns the catalog a unit may work from
func (w *World) UnitCatalog(catalog *processing.Catalog, unit UnitTemplate) (*processing.Catalog, error) {
	if len(unit.Definitions) == 0 {
		return catalog, nil
	}
	return catalog.Subset(unit.Definitions)
}

// check verifies the cross references validator tags cannot express
func (w *World) check() error {
	catalog, err := w.Catalog()
	if err != nil {
		return err
	}

	seen := make(map[string]bool, len(w.Units))
	for _, unit := range w.Units {
		if seen[unit.ID] {
			return fmt.Errorf("unit %s: duplicate id", unit.ID)
		}
		seen[unit.ID] = true

		unitCatalog, err := w.UnitCatalog(catalog, unit)
		if err != nil {
			return fmt.Errorf("unit %s: %w", unit.ID, err)
		}
		for _, id := range unit.Queue {
			if _, err := unitCatalog.Lookup(id); err != nil {
				return fmt.Errorf("unit %s: queue: %w", unit.ID, err)
			}
		}
		if unit.WasteContainer == nil && unitCatalog.AnyProducesWaste() {
			return fmt.Errorf("unit %s: definitions produce waste but no waste_container is set", unit.ID)
		}
	}
	return nil
}

// UnitIDs returns the unit ids in sorted order
func (w *World) UnitIDs() []string {
	ids := make([]string, 0, len(w.Units))
	for _, unit := range w.Units {
		ids = append(ids, unit.ID)
	}
	sort.Strings(ids)
	return ids
}
