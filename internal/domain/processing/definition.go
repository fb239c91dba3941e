package processing

import "strconv"

// IngredientSpec describes one required input of a process definition
type IngredientSpec struct {
	Resource string `yaml:"resource" validate:"required"`
	Quantity int    `yaml:"quantity" validate:"min=1"`

	// Require marks the slot as having to be fully filled before work starts
	Require bool `yaml:"require"`
}

// ResultSpec describes one output of a process definition
type ResultSpec struct {
	Resource string `yaml:"resource" validate:"required"`
	Quantity int    `yaml:"quantity" validate:"min=1"`
}

// TemperatureBand is the inclusive safe ambient temperature range
type TemperatureBand struct {
	Min float64 `yaml:"min"`
	Max float64 `yaml:"max"`
}

// Contains reports whether t lies within the band
func (b TemperatureBand) Contains(t float64) bool {
	return t >= b.Min && t <= b.Max
}

// Color is an RGBA colour with components in [0,1]
type Color struct {
	R float64 `yaml:"r"`
	G float64 `yaml:"g"`
	B float64 `yaml:"b"`
	A float64 `yaml:"a"`
}

// Lerp blends c towards other by t, t clamped to [0,1]
func (c Color) Lerp(other Color, t float64) Color {
	t = clamp01(t)
	return Color{
		R: c.R + (other.R-c.R)*t,
		G: c.G + (other.G-c.G)*t,
		B: c.B + (other.B-c.B)*t,
		A: c.A + (other.A-c.A)*t,
	}
}

// Default progress tint, used when a definition does not author its own
var (
	DefaultLowProgressColor = Color{R: 0.6, G: 0.3, B: 0.1, A: 1}
	DefaultFinishedColor    = Color{R: 0.2, G: 0.8, B: 0.2, A: 1}
)

// ProcessDefinition is the immutable authored description of one convertible process.
// Instances are shared read-only between every Process created from them.
type ProcessDefinition struct {
	ID            string           `yaml:"id" validate:"required"`
	Label         string           `yaml:"label"`
	Ingredients   []IngredientSpec `yaml:"ingredients" validate:"dive"`
	Results       []ResultSpec     `yaml:"results" validate:"required,min=1,dive"`
	DurationTicks int              `yaml:"duration_ticks" validate:"min=1"`
	Temperature   *TemperatureBand `yaml:"temperature"`

	// WastePerCycle is fed to the waste accumulator each time a cycle completes
	WastePerCycle int `yaml:"waste_per_cycle" validate:"min=0"`

	ResearchPrerequisites []string `yaml:"research_prerequisites"`

	LowProgressColor *Color `yaml:"low_progress_color"`
	FinishedColor    *Color `yaml:"finished_color"`
}

// Validate checks the definition for configuration errors.
// It is meant to run once at load time so that bad data never reaches Advance.
func (d *ProcessDefinition) Validate() error {
	if d.ID == "" {
		return &DefinitionError{Field: "id", Reason: "is required"}
	}
	if len(d.Results) == 0 {
		return &DefinitionError{DefinitionID: d.ID, Field: "results", Reason: "at least one result is required"}
	}
	if d.DurationTicks <= 0 {
		return &DefinitionError{DefinitionID: d.ID, Field: "duration_ticks", Reason: "must be positive"}
	}
	for _, r := range d.Results {
		if r.Resource == "" {
			return &DefinitionError{DefinitionID: d.ID, Field: "results.resource", Reason: "is required"}
		}
		if r.Quantity <= 0 {
			return &DefinitionError{DefinitionID: d.ID, Field: "results.quantity", Reason: "must be positive"}
		}
	}
	for _, in := range d.Ingredients {
		if in.Resource == "" {
			return &DefinitionError{DefinitionID: d.ID, Field: "ingredients.resource", Reason: "is required"}
		}
		if in.Quantity <= 0 {
			return &DefinitionError{DefinitionID: d.ID, Field: "ingredients.quantity", Reason: "must be positive"}
		}
	}
	if d.Temperature != nil && d.Temperature.Min > d.Temperature.Max {
		return &DefinitionError{DefinitionID: d.ID, Field: "temperature", Reason: "min is above max"}
	}
	if d.WastePerCycle < 0 {
		return &DefinitionError{DefinitionID: d.ID, Field: "waste_per_cycle", Reason: "must not be negative"}
	}
	return nil
}

// DisplayName returns the label, falling back to the first result and its count
func (d *ProcessDefinition) DisplayName() string {
	if d.Label != "" {
		return d.Label
	}
	if len(d.Results) == 0 {
		return d.ID
	}
	first := d.Results[0]
	if first.Quantity > 1 {
		return first.Resource + " x" + strconv.Itoa(first.Quantity)
	}
	return first.Resource
}

// MissingResearch returns the prerequisites not yet finished
func (d *ProcessDefinition) MissingResearch(research ResearchTracker) []string {
	if research == nil {
		return nil
	}
	var missing []string
	for _, flag := range d.ResearchPrerequisites {
		if !research.IsFinished(flag) {
			missing = append(missing, flag)
		}
	}
	return missing
}

// IsUnlocked reports whether every research prerequisite is satisfied
func (d *ProcessDefinition) IsUnlocked(research ResearchTracker) bool {
	return len(d.MissingResearch(research)) == 0
}

// InTemperatureRange reports whether the ambient temperature is safe; no band means always safe
func (d *ProcessDefinition) InTemperatureRange(ambient float64) bool {
	return d.Temperature == nil || d.Temperature.Contains(ambient)
}

// Tint returns the progress bar colour for the given progress fraction
func (d *ProcessDefinition) Tint(fraction float64) Color {
	low, finished := DefaultLowProgressColor, DefaultFinishedColor
	if d.LowProgressColor != nil {
		low = *d.LowProgressColor
	}
	if d.FinishedColor != nil {
		finished = *d.FinishedColor
	}
	return low.Lerp(finished, fraction)
}
