package processing

// ThermalState describes the ambient temperature relative to the current definition's band
type ThermalState string

const (
	ThermalNominal     ThermalState = "NOMINAL"
	ThermalOverheating ThermalState = "OVERHEATING"
	ThermalFreezing    ThermalState = "FREEZING"
)

// InspectReport is the structured presentation state of a processor.
// It is computed on demand and never cached.
type InspectReport struct {
	UnitID       string          `json:"unit_id"`
	Status       ProcessorStatus `json:"status"`
	QueueLength  int             `json:"queue_length"`
	SignalsOn    bool            `json:"signals_on"`
	OnGround     bool            `json:"output_on_ground"`
	HasCurrent   bool            `json:"has_current"`
	ProcessID    string          `json:"process_id,omitempty"`
	DefinitionID string          `json:"definition_id,omitempty"`
	Progress     float64         `json:"progress"`
	TicksLeft    int             `json:"ticks_left"`
	PickupReady  bool            `json:"pickup_ready"`
	Tint         Color           `json:"tint"`
	Ruined       bool            `json:"ruined"`
	RuinFraction float64         `json:"ruin_fraction"`
	Thermal      ThermalState    `json:"thermal"`

	// MissingIngredient is the first required ingredient no queued process can start without
	MissingIngredient string `json:"missing_ingredient,omitempty"`

	WasteEnabled bool    `json:"waste_enabled"`
	WasteLevel   float64 `json:"waste_level"`
}

// Inspect builds the presentation report for the processor
func (r *ResourceProcessor) Inspect() InspectReport {
	report := InspectReport{
		UnitID:      r.unitID,
		Status:      r.Status(),
		QueueLength: r.stack.Len(),
		SignalsOn:   r.AllSignalsOn(),
		OnGround:    r.onGround,
		Thermal:     ThermalNominal,
	}

	if r.waste != nil && r.waste.Enabled() {
		report.WasteEnabled = true
		report.WasteLevel = r.waste.PercentFull()
	}

	current := r.stack.FirstCanDo()
	if current == nil {
		report.MissingIngredient = r.firstMissingIngredient()
		return report
	}

	def := current.Definition()
	report.HasCurrent = true
	report.ProcessID = current.ID()
	report.DefinitionID = def.ID
	report.Progress = current.ProgressFraction()
	report.TicksLeft = current.TicksLeft()
	report.PickupReady = current.IsPickupReady()
	report.Tint = def.Tint(report.Progress)
	report.Ruined = current.IsRuined()
	report.RuinFraction = current.RuinFraction()

	if current.RuinFraction() > 0 && def.Temperature != nil && r.unit != nil {
		ambient := r.unit.AmbientTemperature()
		switch {
		case ambient > def.Temperature.Max:
			report.Thermal = ThermalOverheating
		case ambient < def.Temperature.Min:
			report.Thermal = ThermalFreezing
		}
	}
	return report
}

// firstMissingIngredient scans the queue for the first process blocked on an ingredient
func (r *ResourceProcessor) firstMissingIngredient() string {
	for _, p := range r.stack.Processes() {
		if p.IsRuined() {
			continue
		}
		if resource, missing := p.FirstMissingIngredient(); missing {
			return resource
		}
	}
	return ""
}
