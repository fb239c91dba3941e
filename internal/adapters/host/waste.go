package host

import "sync"

// WasteBin is the container linked to a unit. A freshly emitted pack sits in the
// intake slot until Settle moves it into storage; storage holds Capacity packs at most.
type WasteBin struct {
	mu         sync.Mutex
	stackLimit int
	capacity   int
	intake     int
	stored     []int
}

// NewWasteBin creates a bin. A zero capacity never fills.
func NewWasteBin(stackLimit, capacity int) *WasteBin {
	return &WasteBin{stackLimit: stackLimit, capacity: capacity}
}

// Full implements processing.WasteContainer
func (b *WasteBin) Full() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.full()
}

func (b *WasteBin) full() bool {
	return b.capacity > 0 && len(b.stored) >= b.capacity && b.intake > 0
}

// HasPending implements processing.WasteContainer
func (b *WasteBin) HasPending() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.intake > 0
}

// StackLimit implements processing.WasteContainer
func (b *WasteBin) StackLimit() int { return b.stackLimit }

// ProduceWaste implements processing.WasteContainer
func (b *WasteBin) ProduceWaste(amount int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.intake += amount
}

// Settle moves the intake pack into storage when there is room
func (b *WasteBin) Settle() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.intake == 0 || (b.capacity > 0 && len(b.stored) >= b.capacity) {
		return false
	}
	b.stored = append(b.stored, b.intake)
	b.intake = 0
	return true
}

// Empty hauls away every stored pack and returns how many there were
func (b *WasteBin) Empty() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := len(b.stored)
	b.stored = nil
	return n
}

// Packs returns the number of packs in storage and whether the intake is occupied
func (b *WasteBin) Packs() (stored int, intake bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.stored), b.intake > 0
}
