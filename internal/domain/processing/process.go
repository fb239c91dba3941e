package processing

import (
	"fmt"

	"github.com/google/uuid"
)

// IngredientSlot mirrors one ingredient spec of the definition and tracks how much is held
type IngredientSlot struct {
	spec   IngredientSpec
	filled int
}

func (s *IngredientSlot) Resource() string { return s.spec.Resource }
func (s *IngredientSlot) Quantity() int    { return s.spec.Quantity }
func (s *IngredientSlot) Require() bool    { return s.spec.Require }
func (s *IngredientSlot) Filled() int      { return s.filled }

// Missing returns how many units are still needed to fill the slot
func (s *IngredientSlot) Missing() int {
	if s.filled >= s.spec.Quantity {
		return 0
	}
	return s.spec.Quantity - s.filled
}

// Process is a live run of a ProcessDefinition on one unit.
//
// Invariants:
// - 0 <= progress <= definition duration
// - 0 <= ruin fraction <= 1, and 1 is terminal
// - pickup ready iff progress == duration
type Process struct {
	id       string
	def      *ProcessDefinition
	unit     Unit
	policy   RuinPolicy
	progress int
	ruin     float64
	slots    []*IngredientSlot
}

// NewProcess creates a process with empty ingredient slots
func NewProcess(def *ProcessDefinition, unit Unit, policy RuinPolicy) *Process {
	slots := make([]*IngredientSlot, len(def.Ingredients))
	for i, spec := range def.Ingredients {
		slots[i] = &IngredientSlot{spec: spec}
	}
	return &Process{
		id:     uuid.NewString(),
		def:    def,
		unit:   unit,
		policy: policy,
		slots:  slots,
	}
}

// restoreProcess rebuilds a process from a persisted record
func restoreProcess(record ProcessRecord, def *ProcessDefinition, unit Unit, policy RuinPolicy) (*Process, error) {
	if record.Progress < 0 || record.Progress > def.DurationTicks {
		return nil, fmt.Errorf("process %s: progress %d outside [0,%d]", record.ID, record.Progress, def.DurationTicks)
	}
	if record.RuinFraction < 0 || record.RuinFraction > 1 {
		return nil, fmt.Errorf("process %s: ruin fraction %v outside [0,1]", record.ID, record.RuinFraction)
	}
	if len(record.Fills) != len(def.Ingredients) {
		return nil, fmt.Errorf("process %s: %d ingredient fills for %d ingredients",
			record.ID, len(record.Fills), len(def.Ingredients))
	}

	p := NewProcess(def, unit, policy)
	if record.ID != "" {
		p.id = record.ID
	}
	p.progress = record.Progress
	p.ruin = record.RuinFraction
	for i, fill := range record.Fills {
		if fill < 0 {
			return nil, fmt.Errorf("process %s: negative fill for %s", record.ID, def.Ingredients[i].Resource)
		}
		p.slots[i].filled = fill
	}
	return p, nil
}

// Getters

func (p *Process) ID() string                     { return p.id }
func (p *Process) Definition() *ProcessDefinition { return p.def }
func (p *Process) Progress() int                  { return p.progress }
func (p *Process) RuinFraction() float64          { return p.ruin }

// Slots returns the ingredient slots in definition order
func (p *Process) Slots() []*IngredientSlot {
	out := make([]*IngredientSlot, len(p.slots))
	copy(out, p.slots)
	return out
}

// TicksLeft returns the remaining ticks before the process is pickup ready
func (p *Process) TicksLeft() int {
	return p.def.DurationTicks - p.progress
}

// ProgressFraction returns progress over duration
func (p *Process) ProgressFraction() float64 {
	return float64(p.progress) / float64(p.def.DurationTicks)
}

// IsPickupReady reports whether the process has run its full duration
func (p *Process) IsPickupReady() bool {
	return p.progress == p.def.DurationTicks
}

// IsRuined reports whether temperature excursions destroyed the process.
// A ruined process never produces its results.
func (p *Process) IsRuined() bool {
	return p.ruin >= 1
}

// HasMissingIngredients reports whether any required slot is under-filled
func (p *Process) HasMissingIngredients() bool {
	_, missing := p.FirstMissingIngredient()
	return missing
}

// FirstMissingIngredient returns the resource of the first required slot that is under-filled
func (p *Process) FirstMissingIngredient() (string, bool) {
	for _, slot := range p.slots {
		if slot.Require() && slot.Missing() > 0 {
			return slot.Resource(), true
		}
	}
	return "", false
}

// Advance moves the process forward by deltaTicks and updates the ruin fraction from the
// unit's ambient temperature. Progress is clamped to the duration. It is a no-op for
// non-positive deltas, finished processes and ruined processes.
func (p *Process) Advance(deltaTicks int) {
	if deltaTicks <= 0 || p.IsPickupReady() || p.IsRuined() {
		return
	}

	applied := deltaTicks
	if left := p.TicksLeft(); applied > left {
		applied = left
	}
	p.progress += applied

	inRange := true
	if p.unit != nil {
		inRange = p.def.InTemperatureRange(p.unit.AmbientTemperature())
	}
	p.ruin = p.policy.Next(p.ruin, inRange, applied)
}

// FillFrom pulls missing ingredient quantities from the inventory, best effort.
// Returns the total number of units taken.
func (p *Process) FillFrom(inv Inventory) int {
	if inv == nil {
		return 0
	}
	total := 0
	for _, slot := range p.slots {
		missing := slot.Missing()
		if missing == 0 {
			continue
		}
		got := inv.Pull(slot.Resource(), missing)
		if got > missing {
			got = missing
		}
		if got > 0 {
			slot.filled += got
			total += got
		}
	}
	return total
}

// ResetAndRefund zeroes progress, ruin and every slot fill.
// When refund is set the held ingredients go back to the unit's inventory first.
func (p *Process) ResetAndRefund(refund bool) {
	if refund && p.unit != nil {
		if inv := p.unit.Inventory(); inv != nil {
			for _, slot := range p.slots {
				if slot.filled > 0 {
					inv.Return(slot.Resource(), slot.filled)
				}
			}
		}
	}
	for _, slot := range p.slots {
		slot.filled = 0
	}
	p.progress = 0
	p.ruin = 0
}

// record captures the persisted fields of the process
func (p *Process) record() ProcessRecord {
	fills := make([]int, len(p.slots))
	for i, slot := range p.slots {
		fills[i] = slot.filled
	}
	return ProcessRecord{
		ID:           p.id,
		DefinitionID: p.def.ID,
		Progress:     p.progress,
		RuinFraction: p.ruin,
		Fills:        fills,
	}
}

// String provides human-readable representation
func (p *Process) String() string {
	return fmt.Sprintf("Process[%s, def=%s, progress=%d/%d, ruin=%.2f]",
		p.id, p.def.ID, p.progress, p.def.DurationTicks, p.ruin)
}
