package host

import (
	"sort"
	"sync"
)

// Inventory is a thread-safe resource bag shared by a unit and whoever restocks it
type Inventory struct {
	mu    sync.Mutex
	items map[string]int
}

// NewInventory creates an inventory seeded with the given counts
func NewInventory(items map[string]int) *Inventory {
	inv := &Inventory{items: make(map[string]int, len(items))}
	for resource, quantity := range items {
		if quantity > 0 {
			inv.items[resource] = quantity
		}
	}
	return inv
}

// Pull removes up to quantity of resource and returns how many were taken
func (i *Inventory) Pull(resource string, quantity int) int {
	if quantity <= 0 {
		return 0
	}
	i.mu.Lock()
	defer i.mu.Unlock()

	have := i.items[resource]
	if have < quantity {
		quantity = have
	}
	if have-quantity == 0 {
		delete(i.items, resource)
	} else {
		i.items[resource] = have - quantity
	}
	return quantity
}

// Return puts quantity of resource back
func (i *Inventory) Return(resource string, quantity int) {
	if quantity <= 0 {
		return
	}
	i.mu.Lock()
	defer i.mu.Unlock()
	i.items[resource] += quantity
}

// Add restocks the inventory
func (i *Inventory) Add(resource string, quantity int) {
	i.Return(resource, quantity)
}

// Count returns how much of resource is held
func (i *Inventory) Count(resource string) int {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.items[resource]
}

// Total returns the number of items held across all resources
func (i *Inventory) Total() int {
	i.mu.Lock()
	defer i.mu.Unlock()
	total := 0
	for _, quantity := range i.items {
		total += quantity
	}
	return total
}

// Stack is one resource line of an inventory listing
type Stack struct {
	Resource string `json:"resource"`
	Quantity int    `json:"quantity"`
}

// Contents lists the held resources sorted by name
func (i *Inventory) Contents() []Stack {
	i.mu.Lock()
	defer i.mu.Unlock()
	out := make([]Stack, 0, len(i.items))
	for resource, quantity := range i.items {
		out = append(out, Stack{Resource: resource, Quantity: quantity})
	}
	sort.Slice(out, func(a, b int) bool { return out[a].Resource < out[b].Resource })
	return out
}
