package host

import (
	"sync"
	"sync/atomic"

	"github.com/andrescamacho/processor-go/internal/domain/processing"
)

// Room is the environment a unit stands in. Pushed heat raises its temperature by
// DegreesPerHeat per unit of heat; the room cools back towards its base temperature.
type Room struct {
	mu             sync.Mutex
	base           float64
	heat           float64
	totalHeat      float64
	degreesPerHeat float64
	coolingPerStep float64
}

// NewRoom creates a room at a base temperature. A zero degreesPerHeat keeps the
// temperature fixed whatever heat is pushed.
func NewRoom(base, degreesPerHeat, coolingPerStep float64) *Room {
	return &Room{base: base, degreesPerHeat: degreesPerHeat, coolingPerStep: coolingPerStep}
}

// PushHeat implements processing.Environment
func (r *Room) PushHeat(amount float64) {
	if amount <= 0 {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.heat += amount
	r.totalHeat += amount
}

// Temperature returns the current room temperature
func (r *Room) Temperature() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.base + r.heat*r.degreesPerHeat
}

// SetBase changes the base temperature, e.g. a scripted heat wave
func (r *Room) SetBase(base float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.base = base
}

// TotalHeat returns all heat ever pushed into the room
func (r *Room) TotalHeat() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.totalHeat
}

// Cool dissipates retained heat by one step
func (r *Room) Cool() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.heat -= r.coolingPerStep
	if r.heat < 0 {
		r.heat = 0
	}
}

// Unit is a sandbox processing unit: an inventory placed in a room, optionally with a
// fixed ambient temperature that ignores the room.
type Unit struct {
	room      *Room
	inventory *Inventory
	fixed     *float64
}

// NewUnit places an inventory in a room
func NewUnit(room *Room, inventory *Inventory, fixedTemperature *float64) *Unit {
	return &Unit{room: room, inventory: inventory, fixed: fixedTemperature}
}

// AmbientTemperature implements processing.Unit
func (u *Unit) AmbientTemperature() float64 {
	if u.fixed != nil {
		return *u.fixed
	}
	if u.room == nil {
		return 0
	}
	return u.room.Temperature()
}

// Inventory implements processing.Unit
func (u *Unit) Inventory() processing.Inventory {
	return u.inventory
}

// Switch is a settable readiness signal
type Switch struct {
	on atomic.Bool
}

// NewSwitch creates a signal in the given state
func NewSwitch(on bool) *Switch {
	s := &Switch{}
	s.on.Store(on)
	return s
}

// On implements processing.Signal
func (s *Switch) On() bool { return s.on.Load() }

// Set flips the signal
func (s *Switch) Set(on bool) { s.on.Store(on) }
