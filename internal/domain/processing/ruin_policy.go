package processing

import "fmt"

// RuinPolicy controls how temperature excursions ruin an in-progress process.
//
// The ruin fraction grows linearly by AccrualPerTick for every tick spent outside the
// definition's safe band and shrinks by DecayPerTick for every tick inside it. The
// value is bounded to [0,1]; reaching 1 is terminal.
type RuinPolicy struct {
	AccrualPerTick float64
	DecayPerTick   float64
}

// DefaultRuinPolicy ruins a process after 2500 ticks out of band and recovers at half that speed
func DefaultRuinPolicy() RuinPolicy {
	return RuinPolicy{
		AccrualPerTick: 0.0004,
		DecayPerTick:   0.0002,
	}
}

// Validate rejects negative rates
func (p RuinPolicy) Validate() error {
	if p.AccrualPerTick < 0 {
		return fmt.Errorf("ruin accrual per tick must not be negative: %v", p.AccrualPerTick)
	}
	if p.DecayPerTick < 0 {
		return fmt.Errorf("ruin decay per tick must not be negative: %v", p.DecayPerTick)
	}
	return nil
}

// Next returns the ruin fraction after ticks elapsed with the given temperature condition
func (p RuinPolicy) Next(current float64, inRange bool, ticks int) float64 {
	if current >= 1 {
		return 1
	}
	if ticks <= 0 {
		return current
	}
	if inRange {
		return clamp01(current - p.DecayPerTick*float64(ticks))
	}
	return clamp01(current + p.AccrualPerTick*float64(ticks))
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
