package host

import (
	"errors"
	"sync"

	"github.com/andrescamacho/processor-go/internal/domain/processing"
)

// ErrStorageFull is returned when results do not fit the storage
var ErrStorageFull = errors.New("output storage is full")

// OutputSink places picked up results either on the ground by the unit or into a
// storage inventory limited to Capacity items.
type OutputSink struct {
	mu       sync.Mutex
	storage  *Inventory
	ground   *Inventory
	capacity int
}

// NewOutputSink creates a sink; a zero capacity means unlimited storage
func NewOutputSink(storage *Inventory, capacity int) *OutputSink {
	return &OutputSink{storage: storage, ground: NewInventory(nil), capacity: capacity}
}

// Place implements processing.OutputSink. Placement is all or nothing.
func (o *OutputSink) Place(results []processing.ResultSpec, onGround bool) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if onGround {
		for _, r := range results {
			o.ground.Add(r.Resource, r.Quantity)
		}
		return nil
	}

	if o.capacity > 0 {
		incoming := 0
		for _, r := range results {
			incoming += r.Quantity
		}
		if o.storage.Total()+incoming > o.capacity {
			return ErrStorageFull
		}
	}
	for _, r := range results {
		o.storage.Add(r.Resource, r.Quantity)
	}
	return nil
}

// Ground returns what has been dropped next to the unit
func (o *OutputSink) Ground() *Inventory { return o.ground }

// Storage returns the storage inventory
func (o *OutputSink) Storage() *Inventory { return o.storage }
