package processing_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/processor-go/internal/domain/processing"
	"github.com/andrescamacho/processor-go/test/helpers"
)

func TestProcessStack_FirstCanDoSkipsMissingIngredients(t *testing.T) {
	// Arrange
	unit := helpers.NewFakeUnit(20, map[string]int{"sand": 1})
	stack := processing.NewProcessStack(processing.DefaultRuinPolicy())
	blocked := stack.AddProcess(helpers.NewSimpleDefinition("smelt", 10, "ore", 2), unit)
	ready := stack.AddProcess(helpers.NewSimpleDefinition("glass", 10, "sand", 1), unit)

	// Act
	current := stack.FirstCanDo()

	// Assert
	require.NotNil(t, current)
	assert.Equal(t, ready.ID(), current.ID())
	assert.NotEqual(t, blocked.ID(), current.ID())
}

func TestProcessStack_FirstCanDoPrefersInsertionOrder(t *testing.T) {
	// Arrange
	stack := processing.NewProcessStack(processing.DefaultRuinPolicy())
	first := stack.AddProcess(helpers.NewSimpleDefinition("a", 10, "", 0), nil)
	stack.AddProcess(helpers.NewSimpleDefinition("b", 10, "", 0), nil)

	// Act
	current := stack.FirstCanDo()

	// Assert
	assert.Equal(t, first.ID(), current.ID())
}

func TestProcessStack_FirstCanDoSkipsRuined(t *testing.T) {
	// Arrange
	def := helpers.NewSimpleDefinition("cook", 10000, "", 0)
	def.Temperature = &processing.TemperatureBand{Min: 0, Max: 10}
	unit := helpers.NewFakeUnit(100, nil)
	stack := processing.NewProcessStack(processing.DefaultRuinPolicy())
	ruined := stack.AddProcess(def, unit)
	ruined.Advance(3000)
	require.True(t, ruined.IsRuined())
	next := stack.AddProcess(helpers.NewSimpleDefinition("press", 10, "", 0), unit)

	// Act
	current := stack.FirstCanDo()

	// Assert
	require.NotNil(t, current)
	assert.Equal(t, next.ID(), current.ID())
	assert.Equal(t, 2, stack.Len())
}

func TestProcessStack_FirstCanDoEmpty(t *testing.T) {
	stack := processing.NewProcessStack(processing.DefaultRuinPolicy())
	assert.Nil(t, stack.FirstCanDo())
}

func TestProcessStack_AddProcessFillsFromInventory(t *testing.T) {
	// Arrange
	unit := helpers.NewFakeUnit(20, map[string]int{"ore": 5})
	stack := processing.NewProcessStack(processing.DefaultRuinPolicy())

	// Act
	p := stack.AddProcess(helpers.NewSimpleDefinition("smelt", 10, "ore", 3), unit)

	// Assert
	assert.False(t, p.HasMissingIngredients())
	assert.Equal(t, 2, unit.Inv.Count("ore"))
}

func TestProcessStack_RemoveAndFind(t *testing.T) {
	// Arrange
	stack := processing.NewProcessStack(processing.DefaultRuinPolicy())
	p := stack.AddProcess(helpers.NewSimpleDefinition("a", 10, "", 0), nil)

	// Act
	found, ok := stack.Find(p.ID())
	removed := stack.RemoveProcess(p)
	_, stillThere := stack.Find(p.ID())

	// Assert
	assert.True(t, ok)
	assert.Same(t, p, found)
	assert.True(t, removed)
	assert.False(t, stillThere)
	assert.False(t, stack.RemoveProcess(p))
	assert.Equal(t, 0, stack.Len())
}

func TestProcessStack_RefillSkipsFinished(t *testing.T) {
	// Arrange
	unit := helpers.NewFakeUnit(20, nil)
	stack := processing.NewProcessStack(processing.DefaultRuinPolicy())
	waiting := stack.AddProcess(helpers.NewSimpleDefinition("smelt", 10, "ore", 2), unit)
	unit.Inv.Add("ore", 5)

	// Act
	taken := stack.Refill(unit.Inventory())

	// Assert
	assert.Equal(t, 2, taken)
	assert.False(t, waiting.HasMissingIngredients())
	assert.Equal(t, 3, unit.Inv.Count("ore"))
}
