package processing

import (
	"fmt"
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
)

// maxSuggestions caps how many "did you mean" ids an unknown lookup reports
const maxSuggestions = 3

// Catalog is the validated, order-preserving set of definitions a unit can run
type Catalog struct {
	ordered []*ProcessDefinition
	byID    map[string]*ProcessDefinition
}

// NewCatalog validates every definition and indexes them by ID.
// Duplicate IDs are a configuration error.
func NewCatalog(defs ...*ProcessDefinition) (*Catalog, error) {
	c := &Catalog{
		ordered: make([]*ProcessDefinition, 0, len(defs)),
		byID:    make(map[string]*ProcessDefinition, len(defs)),
	}
	for i, def := range defs {
		if def == nil {
			return nil, fmt.Errorf("definition[%d] is nil", i)
		}
		if err := def.Validate(); err != nil {
			return nil, err
		}
		if _, exists := c.byID[def.ID]; exists {
			return nil, &DefinitionError{DefinitionID: def.ID, Field: "id", Reason: "duplicate definition id"}
		}
		c.ordered = append(c.ordered, def)
		c.byID[def.ID] = def
	}
	return c, nil
}

// Len returns the number of definitions
func (c *Catalog) Len() int { return len(c.ordered) }

// All returns every definition in authored order
func (c *Catalog) All() []*ProcessDefinition {
	out := make([]*ProcessDefinition, len(c.ordered))
	copy(out, c.ordered)
	return out
}

// Lookup returns the definition with the given ID
func (c *Catalog) Lookup(id string) (*ProcessDefinition, error) {
	if def, ok := c.byID[id]; ok {
		return def, nil
	}
	return nil, &UnknownDefinitionError{DefinitionID: id, Suggestions: c.suggest(id)}
}

// Subset returns a catalog restricted to the given IDs, keeping their order
func (c *Catalog) Subset(ids []string) (*Catalog, error) {
	defs := make([]*ProcessDefinition, 0, len(ids))
	for _, id := range ids {
		def, err := c.Lookup(id)
		if err != nil {
			return nil, err
		}
		defs = append(defs, def)
	}
	return NewCatalog(defs...)
}

// Available lists the definitions whose research prerequisites are all finished
func (c *Catalog) Available(research ResearchTracker) []*ProcessDefinition {
	available := make([]*ProcessDefinition, 0, len(c.ordered))
	for _, def := range c.ordered {
		if def.IsUnlocked(research) {
			available = append(available, def)
		}
	}
	return available
}

// AnyProducesWaste reports whether at least one definition yields a waste byproduct
func (c *Catalog) AnyProducesWaste() bool {
	for _, def := range c.ordered {
		if def.WastePerCycle > 0 {
			return true
		}
	}
	return false
}

// suggest returns the closest known IDs by edit distance
func (c *Catalog) suggest(id string) []string {
	type candidate struct {
		id   string
		dist int
	}

	needle := strings.ToLower(id)
	limit := suggestionLimit(len(needle))
	var cands []candidate
	for _, def := range c.ordered {
		dist := levenshtein.ComputeDistance(needle, strings.ToLower(def.ID))
		if dist > limit {
			continue
		}
		cands = append(cands, candidate{id: def.ID, dist: dist})
	}

	sort.SliceStable(cands, func(i, j int) bool {
		if cands[i].dist == cands[j].dist {
			return cands[i].id < cands[j].id
		}
		return cands[i].dist < cands[j].dist
	})

	out := make([]string, 0, maxSuggestions)
	for _, cand := range cands {
		out = append(out, cand.id)
		if len(out) == maxSuggestions {
			break
		}
	}
	return out
}

func suggestionLimit(length int) int {
	switch {
	case length <= 4:
		return 1
	case length <= 8:
		return 2
	default:
		return 3
	}
}
