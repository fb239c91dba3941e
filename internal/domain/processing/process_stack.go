package processing

// ProcessStack is the ordered set of processes tracked by one unit.
// Insertion order decides which process runs: see FirstCanDo.
type ProcessStack struct {
	processes []*Process
	policy    RuinPolicy
}

// NewProcessStack creates an empty stack whose processes use the given ruin policy
func NewProcessStack(policy RuinPolicy) *ProcessStack {
	return &ProcessStack{policy: policy}
}

// AddProcess creates a process for def, appends it, and immediately tries to fill its
// ingredients from the unit's inventory. Partial fills are kept.
func (s *ProcessStack) AddProcess(def *ProcessDefinition, unit Unit) *Process {
	p := NewProcess(def, unit, s.policy)
	s.processes = append(s.processes, p)
	if unit != nil {
		p.FillFrom(unit.Inventory())
	}
	return p
}

// push appends an already built process (used on restore)
func (s *ProcessStack) push(p *Process) {
	s.processes = append(s.processes, p)
}

// FirstCanDo returns the earliest inserted process that is not ruined and has every
// required ingredient. Returns nil when no process qualifies.
func (s *ProcessStack) FirstCanDo() *Process {
	for _, p := range s.processes {
		if p.IsRuined() || p.HasMissingIngredients() {
			continue
		}
		return p
	}
	return nil
}

// RemoveProcess detaches p from the stack. Refunds are the caller's decision.
func (s *ProcessStack) RemoveProcess(p *Process) bool {
	for i, candidate := range s.processes {
		if candidate == p {
			s.processes = append(s.processes[:i], s.processes[i+1:]...)
			return true
		}
	}
	return false
}

// Find returns the process with the given ID
func (s *ProcessStack) Find(id string) (*Process, bool) {
	for _, p := range s.processes {
		if p.ID() == id {
			return p, true
		}
	}
	return nil, false
}

// Processes returns the processes in insertion order
func (s *ProcessStack) Processes() []*Process {
	out := make([]*Process, len(s.processes))
	copy(out, s.processes)
	return out
}

// Each applies fn to every process in insertion order
func (s *ProcessStack) Each(fn func(p *Process)) {
	for _, p := range s.processes {
		fn(p)
	}
}

// Len returns the number of queued processes
func (s *ProcessStack) Len() int {
	return len(s.processes)
}

// Refill retries ingredient pulls for every process still missing something
func (s *ProcessStack) Refill(inv Inventory) int {
	total := 0
	for _, p := range s.processes {
		if p.IsRuined() || p.IsPickupReady() {
			continue
		}
		total += p.FillFrom(inv)
	}
	return total
}

// Clear removes every process without refunding
func (s *ProcessStack) Clear() {
	s.processes = nil
}
