package processing

import (
	"fmt"

	"github.com/google/uuid"
)

// ProcessorStatus is the per-tick state of a processor, recomputed on every evaluation
type ProcessorStatus string

const (
	// ProcessorStatusIdle means a gating signal is off or the waste container stopped work
	ProcessorStatusIdle ProcessorStatus = "IDLE"

	// ProcessorStatusWorking means a current process exists and is advanced
	ProcessorStatusWorking ProcessorStatus = "WORKING"

	// ProcessorStatusBlocked means gating holds but no process is eligible
	ProcessorStatusBlocked ProcessorStatus = "BLOCKED"
)

// ProcessorProperties are the authored per-unit behaviour switches
type ProcessorProperties struct {
	StopWhenWasteFull    bool    `yaml:"stop_when_waste_full"`
	HeatPushWhileWorking bool    `yaml:"heat_push_while_working"`
	HeatPerTick          float64 `yaml:"heat_per_tick"`
}

// Gates holds the readiness signals attached to a unit. A nil signal is satisfied.
type Gates struct {
	Power  Signal
	Fuel   Signal
	Switch Signal
}

// AllOn is the logical AND of every attached signal
func (g Gates) AllOn() bool {
	return (g.Switch == nil || g.Switch.On()) &&
		(g.Power == nil || g.Power.On()) &&
		(g.Fuel == nil || g.Fuel.On())
}

// ProcessorOptions wires a processor to its host collaborators
type ProcessorOptions struct {
	UnitID     string
	Unit       Unit
	Catalog    *Catalog
	Properties ProcessorProperties
	Gates      Gates

	Environment    Environment
	WasteContainer WasteContainer

	// WasteFeatureEnabled is the global switch for waste byproducts
	WasteFeatureEnabled bool

	Pickups    PickupRegistry
	Research   ResearchTracker
	Output     OutputSink
	RuinPolicy *RuinPolicy
}

// TickOutcome reports what one tick evaluation did
type TickOutcome struct {
	Status       ProcessorStatus
	ProcessID    string
	Advanced     int
	Completed    bool
	Ruined       bool
	WasteEmitted bool
	HeatPushed   float64
}

// ResourceProcessor orchestrates a process stack on one unit: it gates work on readiness
// signals, advances the current process, feeds completed cycles into the waste
// accumulator and pushes heat while working.
//
// A processor is driven by one tick call per scheduling interval and is not safe for
// concurrent use.
type ResourceProcessor struct {
	unitID   string
	unit     Unit
	catalog  *Catalog
	props    ProcessorProperties
	gates    Gates
	env      Environment
	waste    *WasteAccumulator
	pickups  PickupRegistry
	research ResearchTracker
	output   OutputSink
	policy   RuinPolicy
	stack    *ProcessStack
	onGround bool
}

// NewResourceProcessor builds a processor with an empty stack
func NewResourceProcessor(opts ProcessorOptions) (*ResourceProcessor, error) {
	if opts.Catalog == nil {
		return nil, fmt.Errorf("processor requires a definition catalog")
	}

	policy := DefaultRuinPolicy()
	if opts.RuinPolicy != nil {
		policy = *opts.RuinPolicy
	}
	if err := policy.Validate(); err != nil {
		return nil, err
	}

	unitID := opts.UnitID
	if unitID == "" {
		unitID = uuid.NewString()
	}

	var pickups PickupRegistry = nopRegistry{}
	if opts.Pickups != nil {
		pickups = opts.Pickups
	}
	var research ResearchTracker = nopResearch{}
	if opts.Research != nil {
		research = opts.Research
	}

	var waste *WasteAccumulator
	if opts.WasteContainer != nil {
		waste = NewWasteAccumulator(opts.WasteContainer,
			opts.WasteFeatureEnabled && opts.Catalog.AnyProducesWaste())
	}

	return &ResourceProcessor{
		unitID:   unitID,
		unit:     opts.Unit,
		catalog:  opts.Catalog,
		props:    opts.Properties,
		gates:    opts.Gates,
		env:      opts.Environment,
		waste:    waste,
		pickups:  pickups,
		research: research,
		output:   opts.Output,
		policy:   policy,
		stack:    NewProcessStack(policy),
	}, nil
}

// Getters

func (r *ResourceProcessor) UnitID() string                  { return r.unitID }
func (r *ResourceProcessor) Catalog() *Catalog               { return r.catalog }
func (r *ResourceProcessor) Stack() *ProcessStack            { return r.stack }
func (r *ResourceProcessor) Waste() *WasteAccumulator        { return r.waste }
func (r *ResourceProcessor) Properties() ProcessorProperties { return r.props }
func (r *ResourceProcessor) OutputOnGround() bool            { return r.onGround }

// SetOutputOnGround sets the output destination preference
func (r *ResourceProcessor) SetOutputOnGround(onGround bool) { r.onGround = onGround }

// Current returns the process selected for ticking, nil when none is eligible
func (r *ResourceProcessor) Current() *Process {
	return r.stack.FirstCanDo()
}

// AllSignalsOn reports whether every attached readiness signal holds
func (r *ResourceProcessor) AllSignalsOn() bool {
	return r.gates.AllOn()
}

// stoppedByWaste reports whether the stop-on-full policy currently blocks work
func (r *ResourceProcessor) stoppedByWaste() bool {
	return r.props.StopWhenWasteFull && r.waste != nil && r.waste.ContainerFull()
}

// Status recomputes the processor state from the gating predicate and the stack
func (r *ResourceProcessor) Status() ProcessorStatus {
	if !r.AllSignalsOn() || r.stoppedByWaste() {
		return ProcessorStatusIdle
	}
	// A finished head waits for pickup and cannot advance
	if p := r.stack.FirstCanDo(); p == nil || p.IsPickupReady() {
		return ProcessorStatusBlocked
	}
	return ProcessorStatusWorking
}

// OnTick evaluates one scheduling interval of elapsed ticks.
// Order: gating, then process advance, then waste production, then heat push.
func (r *ResourceProcessor) OnTick(elapsed int) TickOutcome {
	if !r.AllSignalsOn() || r.stoppedByWaste() {
		return TickOutcome{Status: ProcessorStatusIdle}
	}

	current := r.stack.FirstCanDo()
	if current == nil {
		return TickOutcome{Status: ProcessorStatusBlocked}
	}

	outcome := TickOutcome{Status: ProcessorStatusWorking, ProcessID: current.ID()}
	if current.IsPickupReady() {
		outcome.Status = ProcessorStatusBlocked
	}
	r.advance(current, elapsed, &outcome)

	if r.props.HeatPushWhileWorking && r.env != nil {
		if p := r.stack.FirstCanDo(); p != nil && !p.HasMissingIngredients() {
			heat := r.props.HeatPerTick * float64(elapsed)
			r.env.PushHeat(heat)
			outcome.HeatPushed = heat
		}
	}

	return outcome
}

// advance moves p forward and handles completion side effects
func (r *ResourceProcessor) advance(p *Process, elapsed int, outcome *TickOutcome) {
	wasReady := p.IsPickupReady()
	before := p.Progress()

	p.Advance(elapsed)

	outcome.Advanced = p.Progress() - before
	outcome.Ruined = p.IsRuined()

	if wasReady || !p.IsPickupReady() || p.IsRuined() {
		return
	}
	outcome.Completed = true
	r.pickups.AwaitPickup(r.unitID, p.ID())
	if waste := p.Definition().WastePerCycle; waste > 0 {
		outcome.WasteEmitted = r.ProduceWaste(waste)
	}
}

// ProduceWaste feeds amount into the waste accumulator; no-op without one
func (r *ResourceProcessor) ProduceWaste(amount int) bool {
	if r.waste == nil {
		return false
	}
	return r.waste.ProduceWastepack(amount)
}

// Available lists the definitions the unit may start right now
func (r *ResourceProcessor) Available() []*ProcessDefinition {
	return r.catalog.Available(r.research)
}

// Start queues a new process for the definition with the given ID
func (r *ResourceProcessor) Start(definitionID string) (*Process, error) {
	def, err := r.catalog.Lookup(definitionID)
	if err != nil {
		return nil, err
	}
	if missing := def.MissingResearch(r.research); len(missing) > 0 {
		return nil, &DefinitionLockedError{DefinitionID: def.ID, Missing: missing}
	}
	return r.stack.AddProcess(def, r.unit), nil
}

// Cancel removes a queued process, optionally refunding its ingredients
func (r *ResourceProcessor) Cancel(processID string, refund bool) error {
	p, ok := r.stack.Find(processID)
	if !ok {
		return &ProcessNotFoundError{UnitID: r.unitID, ProcessID: processID}
	}
	p.ResetAndRefund(refund)
	r.stack.RemoveProcess(p)
	r.pickups.PickupDone(r.unitID, processID)
	return nil
}

// Pickup collects a finished process: its results are placed through the output sink
// and the process is consumed.
func (r *ResourceProcessor) Pickup(processID string) ([]ResultSpec, error) {
	p, ok := r.stack.Find(processID)
	if !ok {
		return nil, &ProcessNotFoundError{UnitID: r.unitID, ProcessID: processID}
	}
	if p.IsRuined() {
		return nil, ErrProcessRuined
	}
	if !p.IsPickupReady() {
		return nil, ErrProcessNotReady
	}

	results := make([]ResultSpec, len(p.Definition().Results))
	copy(results, p.Definition().Results)
	if r.output != nil {
		if err := r.output.Place(results, r.onGround); err != nil {
			return nil, fmt.Errorf("failed to place results of %s: %w", processID, err)
		}
	}

	p.ResetAndRefund(false)
	r.stack.RemoveProcess(p)
	r.pickups.PickupDone(r.unitID, processID)
	return results, nil
}

// Despawn resets every process without refund and drops the unit's pickup registrations
func (r *ResourceProcessor) Despawn() {
	r.stack.Each(func(p *Process) {
		p.ResetAndRefund(false)
		r.pickups.PickupDone(r.unitID, p.ID())
	})
	r.pickups.RemoveFromAwaiting(r.unitID)
}

// OnInventoryChanged retries ingredient pulls for processes that are still missing inputs
func (r *ResourceProcessor) OnInventoryChanged() int {
	if r.unit == nil {
		return 0
	}
	return r.stack.Refill(r.unit.Inventory())
}

// FinishIn advances the current process so that only ticks remain, ignoring gating.
// Returns false when there is no current process.
func (r *ResourceProcessor) FinishIn(ticks int) bool {
	current := r.stack.FirstCanDo()
	if current == nil {
		return false
	}
	var outcome TickOutcome
	r.advance(current, current.TicksLeft()-ticks, &outcome)
	return true
}
