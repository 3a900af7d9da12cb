package synth

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shobhitxp/QAAItestgenerator/internal/classify"
	"github.com/shobhitxp/QAAItestgenerator/internal/entity"
)

func descriptor(category entity.TestCategory) entity.TestDescriptor {
	return entity.TestDescriptor{
		TestID:   "TC001",
		TestName: fmt.Sprintf("%s case", category),
		Category: category,
		Priority: "high",
	}
}

func TestSynthesizeTotalOverTypesAndCategories(t *testing.T) {
	for _, ft := range entity.FormTypes {
		for _, category := range entity.TestCategories {
			t.Run(fmt.Sprintf("%s/%s", ft, category), func(t *testing.T) {
				unit := Synthesize(descriptor(category), ft, classify.Selectors(ft))

				assert.NotEqual(t, "", unit.ID.String())
				assert.Equal(t, ft, unit.FormType)
				require.NotEmpty(t, unit.Steps)
				assert.Equal(t, entity.StepWaitReady, unit.Steps[0].Kind)
			})
		}
	}
}

func TestSynthesizeUnrecognizedCategoryGetsDefaultRecipe(t *testing.T) {
	d := descriptor(entity.TestCategory("performance"))
	unit := Synthesize(d, entity.FormTypeSearch, classify.Selectors(entity.FormTypeSearch))

	kinds := stepKinds(unit)
	assert.Equal(t, []entity.StepKind{
		entity.StepWaitReady,
		entity.StepFillFirst,
		entity.StepClickFirst,
		entity.StepPause,
	}, kinds)

	assert.Equal(t, defaultGenericValue, unit.Steps[1].Value)
}

func TestSynthesizePositiveSearch(t *testing.T) {
	sel := classify.Selectors(entity.FormTypeSearch)
	unit := Synthesize(descriptor(entity.CategoryPositive), entity.FormTypeSearch, sel)

	kinds := stepKinds(unit)
	assert.Equal(t, []entity.StepKind{
		entity.StepWaitReady,
		entity.StepFill,
		entity.StepSubmit,
		entity.StepAssertOutcome,
	}, kinds)

	assert.Equal(t, sel[entity.RoleSearchInput], unit.Steps[1].Selector)
	assert.Equal(t, defaultPositiveValue, unit.Steps[1].Value)
	assert.Equal(t, sel[entity.RoleSearchButton], unit.Steps[2].Selector)
	assert.Equal(t, sel[entity.RoleSearchInput], unit.Steps[2].Fallback)
	assert.Equal(t, sel[entity.RoleResults], unit.Steps[3].Selector)
}

func TestSynthesizePositiveLoginFillsCredentials(t *testing.T) {
	sel := classify.Selectors(entity.FormTypeLogin)
	unit := Synthesize(descriptor(entity.CategoryPositive), entity.FormTypeLogin, sel)

	kinds := stepKinds(unit)
	assert.Equal(t, []entity.StepKind{
		entity.StepWaitReady,
		entity.StepFill,
		entity.StepFill,
		entity.StepSubmit,
		entity.StepAssertOutcome,
	}, kinds)

	assert.Equal(t, defaultUsername, unit.Steps[1].Value)
	assert.Equal(t, defaultPassword, unit.Steps[2].Value)
	// Enter lands on the password field when no button is reachable.
	assert.Equal(t, sel[entity.RolePassword], unit.Steps[3].Fallback)
}

func TestSynthesizePositiveUnknownUsesDefaultRecipe(t *testing.T) {
	unit := Synthesize(descriptor(entity.CategoryPositive), entity.FormTypeUnknown, classify.Selectors(entity.FormTypeUnknown))

	kinds := stepKinds(unit)
	assert.Contains(t, kinds, entity.StepFillFirst)
	assert.NotContains(t, kinds, entity.StepAssertOutcome)
}

func TestSynthesizePositiveHonorsTestData(t *testing.T) {
	d := descriptor(entity.CategoryPositive)
	d.TestData = map[string]string{entity.RoleSearchInput: "wireless keyboard"}

	unit := Synthesize(d, entity.FormTypeSearch, classify.Selectors(entity.FormTypeSearch))

	assert.Equal(t, "wireless keyboard", unit.Steps[1].Value)
}

func TestSynthesizeNegativeInjectsSpecialCharacters(t *testing.T) {
	unit := Synthesize(descriptor(entity.CategoryNegative), entity.FormTypeSearch, classify.Selectors(entity.FormTypeSearch))

	kinds := stepKinds(unit)
	assert.Equal(t, []entity.StepKind{
		entity.StepWaitReady,
		entity.StepFill,
		entity.StepSubmit,
		entity.StepPause,
		entity.StepAssertRejected,
	}, kinds)

	assert.Equal(t, defaultNegativeValue, unit.Steps[1].Value)
}

func TestSynthesizeEdgeCaseSubmitsEmptyValue(t *testing.T) {
	unit := Synthesize(descriptor(entity.CategoryEdgeCase), entity.FormTypeLogin, classify.Selectors(entity.FormTypeLogin))

	require.Equal(t, entity.StepFill, unit.Steps[1].Kind)
	assert.Equal(t, "", unit.Steps[1].Value)
	assert.Contains(t, stepKinds(unit), entity.StepAssertRejected)
}

func TestSynthesizeAccessibilityFallsBackToGenericInput(t *testing.T) {
	sel := classify.Selectors(entity.FormTypeUnknown)
	unit := Synthesize(descriptor(entity.CategoryAccessibility), entity.FormTypeUnknown, sel)

	require.Len(t, unit.Steps, 2)
	assert.Equal(t, entity.StepAssertAccessible, unit.Steps[1].Kind)
	assert.Equal(t, sel[entity.RoleInput], unit.Steps[1].Selector)
}

func TestSynthesizeDynamicChecksLiveValue(t *testing.T) {
	sel := classify.Selectors(entity.FormTypeSearch)
	unit := Synthesize(descriptor(entity.CategoryDynamic), entity.FormTypeSearch, sel)

	kinds := stepKinds(unit)
	assert.Equal(t, []entity.StepKind{
		entity.StepWaitReady,
		entity.StepFill,
		entity.StepPause,
		entity.StepAssertLiveValue,
	}, kinds)

	assert.Equal(t, defaultDynamicValue, unit.Steps[1].Value)
	assert.Equal(t, unit.Steps[1].Value, unit.Steps[3].Value)
	assert.Equal(t, suggestionBattery, unit.Steps[3].Fallback)
}

func TestSynthesizeValidationSubmitsUnfilled(t *testing.T) {
	unit := Synthesize(descriptor(entity.CategoryValidation), entity.FormTypeContact, classify.Selectors(entity.FormTypeContact))

	kinds := stepKinds(unit)
	assert.Equal(t, []entity.StepKind{
		entity.StepWaitReady,
		entity.StepSubmit,
		entity.StepPause,
		entity.StepAssertValidation,
	}, kinds)

	assert.NotContains(t, kinds, entity.StepFill)
}

func stepKinds(unit entity.TestUnit) []entity.StepKind {
	kinds := make([]entity.StepKind, 0, len(unit.Steps))
	for _, s := range unit.Steps {
		kinds = append(kinds, s.Kind)
	}

	return kinds
}
