package processing

import (
	"fmt"
	"strings"
)

// Cadence is the scheduling class of a unit: how many ticks pass between evaluations
type Cadence string

const (
	CadenceNormal Cadence = "normal"
	CadenceRare   Cadence = "rare"
	CadenceLong   Cadence = "long"
)

// Default tick intervals per cadence
const (
	DefaultNormalInterval = 100
	DefaultRareInterval   = 250
	DefaultLongInterval   = 2000
)

// Cadences lists every cadence in evaluation order
var Cadences = []Cadence{CadenceNormal, CadenceRare, CadenceLong}

// ParseCadence converts a string to a Cadence; empty means normal
func ParseCadence(s string) (Cadence, error) {
	switch Cadence(strings.ToLower(strings.TrimSpace(s))) {
	case "", CadenceNormal:
		return CadenceNormal, nil
	case CadenceRare:
		return CadenceRare, nil
	case CadenceLong:
		return CadenceLong, nil
	}
	return "", fmt.Errorf("invalid cadence %q: must be normal, rare or long", s)
}
