package processing

import "fmt"

// ProcessRecord is the persisted shape of one process
type ProcessRecord struct {
	ID           string  `json:"id"`
	DefinitionID string  `json:"definition_id"`
	Progress     int     `json:"progress"`
	RuinFraction float64 `json:"ruin_fraction"`
	Fills        []int   `json:"fills"`
}

// Snapshot is the persisted state of a processor: its stack in order, the waste counter
// and the output destination preference.
type Snapshot struct {
	UnitID         string          `json:"unit_id"`
	OutputOnGround bool            `json:"output_on_ground"`
	WasteProduced  float64         `json:"waste_produced"`
	Processes      []ProcessRecord `json:"processes"`
}

// Snapshot captures every persisted field of the processor
func (r *ResourceProcessor) Snapshot() *Snapshot {
	s := &Snapshot{
		UnitID:         r.unitID,
		OutputOnGround: r.onGround,
		Processes:      make([]ProcessRecord, 0, r.stack.Len()),
	}
	if r.waste != nil {
		s.WasteProduced = r.waste.Produced()
	}
	r.stack.Each(func(p *Process) {
		s.Processes = append(s.Processes, p.record())
	})
	return s
}

// Restore replaces the processor state with the snapshot and re-registers finished
// processes for pickup. The replaced processes refund their held ingredients to the unit
// and drop their pickup registrations; the snapshot fills are what the new stack holds.
// On error the processor is left untouched.
func (r *ResourceProcessor) Restore(s *Snapshot) error {
	if s == nil {
		return fmt.Errorf("cannot restore unit %s from nil snapshot", r.unitID)
	}
	if s.UnitID != "" && s.UnitID != r.unitID {
		return fmt.Errorf("snapshot belongs to unit %s, not %s", s.UnitID, r.unitID)
	}

	stack := NewProcessStack(r.policy)
	for i, record := range s.Processes {
		def, err := r.catalog.Lookup(record.DefinitionID)
		if err != nil {
			return fmt.Errorf("process[%d]: %w", i, err)
		}
		p, err := restoreProcess(record, def, r.unit, r.policy)
		if err != nil {
			return err
		}
		stack.push(p)
	}

	// Replaced processes give back what they held and leave the pickup registry
	r.stack.Each(func(p *Process) {
		p.ResetAndRefund(true)
		r.pickups.PickupDone(r.unitID, p.ID())
	})
	r.pickups.RemoveFromAwaiting(r.unitID)

	r.stack = stack
	r.onGround = s.OutputOnGround
	if r.waste != nil {
		r.waste.restore(s.WasteProduced)
	}
	r.stack.Each(func(p *Process) {
		if p.IsPickupReady() && !p.IsRuined() {
			r.pickups.AwaitPickup(r.unitID, p.ID())
		}
	})
	return nil
}
