package host

import (
	"sort"
	"sync"
)

// Research is the set of finished research flags
type Research struct {
	mu       sync.RWMutex
	finished map[string]bool
}

// NewResearch creates a tracker with the given flags already finished
func NewResearch(flags ...string) *Research {
	r := &Research{finished: make(map[string]bool, len(flags))}
	for _, flag := range flags {
		r.finished[flag] = true
	}
	return r
}

// IsFinished implements processing.ResearchTracker
func (r *Research) IsFinished(flag string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.finished[flag]
}

// Finish marks a flag as finished
func (r *Research) Finish(flag string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.finished[flag] = true
}

// Flags returns the finished flags sorted
func (r *Research) Flags() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.finished))
	for flag := range r.finished {
		out = append(out, flag)
	}
	sort.Strings(out)
	return out
}
