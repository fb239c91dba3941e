package config

// SimulationConfig holds world clock and processing rules
type SimulationConfig struct {
	// Ticks between evaluations per cadence class
	Cadence CadenceConfig `mapstructure:"cadence"`

	// AmbientTemperature is used for units that do not author their own
	AmbientTemperature float64 `mapstructure:"ambient_temperature"`

	// TicksPerSecond paces realtime runs
	TicksPerSecond float64 `mapstructure:"ticks_per_second" validate:"gte=0"`

	Ruin RuinConfig `mapstructure:"ruin"`

	// PIDFile guards persisted runs against a second writer
	PIDFile string `mapstructure:"pid_file"`
}

// CadenceConfig holds the evaluation interval of each cadence class
type CadenceConfig struct {
	Normal int `mapstructure:"normal" validate:"min=1"`
	Rare   int `mapstructure:"rare" validate:"min=1"`
	Long   int `mapstructure:"long" validate:"min=1"`
}

// RuinConfig holds the temperature ruin rates
type RuinConfig struct {
	AccrualPerTick float64 `mapstructure:"accrual_per_tick" validate:"gte=0"`
	DecayPerTick   float64 `mapstructure:"decay_per_tick" validate:"gte=0"`
}

// FeaturesConfig holds global feature flags
type FeaturesConfig struct {
	// WasteEnabled switches waste byproducts on for every unit
	WasteEnabled *bool `mapstructure:"waste_enabled"`
}

// IsWasteEnabled resolves the waste flag, which defaults to on
func (f FeaturesConfig) IsWasteEnabled() bool {
	return f.WasteEnabled == nil || *f.WasteEnabled
}
