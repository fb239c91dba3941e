package processing_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/processor-go/internal/domain/processing"
	"github.com/andrescamacho/processor-go/test/helpers"
)

func TestNewCatalog_RejectsDuplicates(t *testing.T) {
	// Act
	_, err := processing.NewCatalog(
		helpers.NewSimpleDefinition("smelt", 10, "", 0),
		helpers.NewSimpleDefinition("smelt", 20, "", 0),
	)

	// Assert
	var defErr *processing.DefinitionError
	require.ErrorAs(t, err, &defErr)
	assert.Equal(t, "id", defErr.Field)
}

func TestNewCatalog_RejectsInvalidDefinitions(t *testing.T) {
	tests := []struct {
		name  string
		def   *processing.ProcessDefinition
		field string
	}{
		{
			name:  "missing id",
			def:   &processing.ProcessDefinition{Results: []processing.ResultSpec{{Resource: "x", Quantity: 1}}, DurationTicks: 1},
			field: "id",
		},
		{
			name:  "zero duration",
			def:   &processing.ProcessDefinition{ID: "a", Results: []processing.ResultSpec{{Resource: "x", Quantity: 1}}},
			field: "duration_ticks",
		},
		{
			name:  "no results",
			def:   &processing.ProcessDefinition{ID: "a", DurationTicks: 5},
			field: "results",
		},
		{
			name: "inverted band",
			def: &processing.ProcessDefinition{
				ID: "a", DurationTicks: 5,
				Results:     []processing.ResultSpec{{Resource: "x", Quantity: 1}},
				Temperature: &processing.TemperatureBand{Min: 50, Max: 10},
			},
			field: "temperature",
		},
		{
			name: "zero ingredient quantity",
			def: &processing.ProcessDefinition{
				ID: "a", DurationTicks: 5,
				Results:     []processing.ResultSpec{{Resource: "x", Quantity: 1}},
				Ingredients: []processing.IngredientSpec{{Resource: "ore"}},
			},
			field: "ingredients.quantity",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := processing.NewCatalog(tt.def)

			var defErr *processing.DefinitionError
			require.ErrorAs(t, err, &defErr)
			assert.Equal(t, tt.field, defErr.Field)
		})
	}
}

func TestCatalog_LookupSuggestsCloseIDs(t *testing.T) {
	// Arrange
	catalog := helpers.MustCatalog(
		helpers.NewSimpleDefinition("iron_plate", 10, "", 0),
		helpers.NewSimpleDefinition("steel_beam", 10, "", 0),
		helpers.NewSimpleDefinition("copper_wire", 10, "", 0),
	)

	// Act
	_, err := catalog.Lookup("Iron_Plat")

	// Assert
	var unknown *processing.UnknownDefinitionError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, []string{"iron_plate"}, unknown.Suggestions)
	assert.Contains(t, err.Error(), "did you mean iron_plate")
}

func TestCatalog_LookupWithoutSuggestions(t *testing.T) {
	catalog := helpers.MustCatalog(helpers.NewSimpleDefinition("smelt", 10, "", 0))

	_, err := catalog.Lookup("zzzzzzzzzzzz")

	var unknown *processing.UnknownDefinitionError
	require.ErrorAs(t, err, &unknown)
	assert.Empty(t, unknown.Suggestions)
}

func TestCatalog_SubsetKeepsOrder(t *testing.T) {
	// Arrange
	catalog := helpers.MustCatalog(
		helpers.NewSimpleDefinition("a", 10, "", 0),
		helpers.NewSimpleDefinition("b", 10, "", 0),
		helpers.NewSimpleDefinition("c", 10, "", 0),
	)

	// Act
	subset, err := catalog.Subset([]string{"c", "a"})

	// Assert
	require.NoError(t, err)
	all := subset.All()
	require.Len(t, all, 2)
	assert.Equal(t, "c", all[0].ID)
	assert.Equal(t, "a", all[1].ID)
}

func TestCatalog_AnyProducesWaste(t *testing.T) {
	clean := helpers.NewSimpleDefinition("clean", 10, "", 0)
	dirty := helpers.NewSimpleDefinition("dirty", 10, "", 0)
	dirty.WastePerCycle = 2

	assert.False(t, helpers.MustCatalog(clean).AnyProducesWaste())
	assert.True(t, helpers.MustCatalog(clean, dirty).AnyProducesWaste())
}

func TestProcessDefinition_DisplayName(t *testing.T) {
	def := helpers.NewSimpleDefinition("smelt", 10, "", 0)
	assert.Equal(t, "smelt_out", def.DisplayName())

	def.Results[0].Quantity = 4
	assert.Equal(t, "smelt_out x4", def.DisplayName())

	def.Label = "Smelt iron"
	assert.Equal(t, "Smelt iron", def.DisplayName())
}

func TestProcessDefinition_Tint(t *testing.T) {
	def := helpers.NewSimpleDefinition("smelt", 10, "", 0)
	def.LowProgressColor = &processing.Color{R: 0, G: 0, B: 0, A: 1}
	def.FinishedColor = &processing.Color{R: 1, G: 1, B: 1, A: 1}

	mid := def.Tint(0.5)

	assert.InDelta(t, 0.5, mid.R, 1e-9)
	assert.InDelta(t, 1.0, mid.A, 1e-9)
	assert.Equal(t, *def.FinishedColor, def.Tint(2))
}
