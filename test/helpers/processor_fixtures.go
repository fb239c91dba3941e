package helpers

import (
	"testing"

	"github.com/andrescamacho/processor-go/internal/domain/processing"
)

// TestUnit bundles a processor with the fakes it was built on
type TestUnit struct {
	Unit   *FakeUnit
	Power  *FakeSignal
	Output *FakeOutputSink
	Proc   *processing.ResourceProcessor
}

// NewTestUnit builds a powered processor at 20 degrees with the given inventory and
// definitions. pickups may be nil.
func NewTestUnit(t *testing.T, unitID string, pickups processing.PickupRegistry, items map[string]int, defs ...*processing.ProcessDefinition) *TestUnit {
	t.Helper()
	u := &TestUnit{
		Unit:   NewFakeUnit(20, items),
		Power:  &FakeSignal{Value: true},
		Output: &FakeOutputSink{},
	}
	proc, err := processing.NewResourceProcessor(processing.ProcessorOptions{
		UnitID:  unitID,
		Unit:    u.Unit,
		Catalog: MustCatalog(defs...),
		Gates:   processing.Gates{Power: u.Power},
		Pickups: pickups,
		Output:  u.Output,
	})
	if err != nil {
		t.Fatalf("failed to build processor %s: %v", unitID, err)
	}
	u.Proc = proc
	return u
}
