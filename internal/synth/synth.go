package synth

import (
	"time"

	"github.com/google/uuid"

	"github.com/shobhitxp/QAAItestgenerator/internal/entity"
)

const (
	readyBattery      = `input, select, textarea, button`
	errorBattery      = `.error, .alert, [class*="error"], [class*="alert"]`
	suggestionBattery = `.suggestions, .autocomplete, [class*="suggestion"], [class*="auto"]`
	validationBattery = `[data-validation], .validation, .invalid, .error, [class*="error"], [aria-invalid]`

	defaultPositiveValue = "test123"
	defaultUsername      = "test@example.com"
	defaultPassword      = "password123"
	defaultNegativeValue = "!@#$%^&*()"
	defaultDynamicValue  = "engine"
	defaultGenericValue  = "test input"

	waitTimeout = 10 * time.Second
	settlePause = 2 * time.Second
	typingPause = 1 * time.Second
)

// primaryInputRole returns the role carrying the form type's main input.
// Unknown forms only have the generic input role.
func primaryInputRole(ft entity.FormType) string {
	switch ft {
	case entity.FormTypeSearch:
		return entity.RoleSearchInput
	case entity.FormTypeLogin:
		return entity.RoleUsername
	case entity.FormTypeContact, entity.FormTypeRegistration:
		return entity.RoleName
	default:
		return entity.RoleInput
	}
}

func submitRole(ft entity.FormType) string {
	switch ft {
	case entity.FormTypeSearch:
		return entity.RoleSearchButton
	case entity.FormTypeLogin:
		return entity.RoleLoginButton
	case entity.FormTypeContact, entity.FormTypeRegistration:
		return entity.RoleSubmit
	default:
		return entity.RoleButton
	}
}

// Synthesize binds one descriptor to concrete runnable steps for the given
// form type and selector set. Pure and total: every category yields a
// TestUnit, falling back to the default recipe where no specific one
// applies. No browser access happens here; the steps perform it when run.
func Synthesize(descriptor entity.TestDescriptor, ft entity.FormType, selectors entity.SelectorSet) entity.TestUnit {
	var steps []entity.TestStep

	switch descriptor.Category {
	case entity.CategoryPositive:
		steps = positiveSteps(descriptor, ft, selectors)
	case entity.CategoryNegative:
		steps = adversarialSteps(ft, selectors, dataValue(descriptor, primaryInputRole(ft), defaultNegativeValue))
	case entity.CategoryEdgeCase:
		steps = adversarialSteps(ft, selectors, "")
	case entity.CategoryAccessibility:
		steps = accessibilitySteps(ft, selectors)
	case entity.CategoryDynamic:
		steps = dynamicSteps(descriptor, ft, selectors)
	case entity.CategoryValidation:
		steps = validationSteps(ft, selectors)
	default:
		steps = defaultSteps(selectors)
	}

	return entity.TestUnit{
		ID:         uuid.New(),
		Descriptor: descriptor,
		FormType:   ft,
		Steps:      steps,
	}
}

func positiveSteps(d entity.TestDescriptor, ft entity.FormType, sel entity.SelectorSet) []entity.TestStep {
	primary, ok := sel[primaryInputRole(ft)]
	if ft == entity.FormTypeUnknown || !ok {
		return defaultSteps(sel)
	}

	steps := []entity.TestStep{
		{Kind: entity.StepWaitReady, Selector: readyBattery, Timeout: waitTimeout},
	}

	switch ft {
	case entity.FormTypeLogin:
		steps = append(steps,
			entity.TestStep{Kind: entity.StepFill, Selector: sel[entity.RoleUsername], Value: dataValue(d, entity.RoleUsername, defaultUsername), Timeout: waitTimeout},
			entity.TestStep{Kind: entity.StepFill, Selector: sel[entity.RolePassword], Value: dataValue(d, entity.RolePassword, defaultPassword), Timeout: waitTimeout},
		)
		primary = sel[entity.RolePassword]
	case entity.FormTypeContact:
		steps = append(steps,
			entity.TestStep{Kind: entity.StepFill, Selector: sel[entity.RoleName], Value: dataValue(d, entity.RoleName, "Test User"), Timeout: waitTimeout},
			entity.TestStep{Kind: entity.StepFill, Selector: sel[entity.RoleEmail], Value: dataValue(d, entity.RoleEmail, defaultUsername), Timeout: waitTimeout},
			entity.TestStep{Kind: entity.StepFill, Selector: sel[entity.RoleMessage], Value: dataValue(d, entity.RoleMessage, "Test message"), Timeout: waitTimeout},
		)
	case entity.FormTypeRegistration:
		steps = append(steps,
			entity.TestStep{Kind: entity.StepFill, Selector: sel[entity.RoleName], Value: dataValue(d, entity.RoleName, "Test User"), Timeout: waitTimeout},
			entity.TestStep{Kind: entity.StepFill, Selector: sel[entity.RoleEmail], Value: dataValue(d, entity.RoleEmail, defaultUsername), Timeout: waitTimeout},
			entity.TestStep{Kind: entity.StepFill, Selector: sel[entity.RolePassword], Value: dataValue(d, entity.RolePassword, defaultPassword), Timeout: waitTimeout},
			entity.TestStep{Kind: entity.StepFill, Selector: sel[entity.RoleConfirmPassword], Value: dataValue(d, entity.RolePassword, defaultPassword), Timeout: waitTimeout},
		)
	default:
		steps = append(steps,
			entity.TestStep{Kind: entity.StepFill, Selector: primary, Value: dataValue(d, primaryInputRole(ft), defaultPositiveValue), Timeout: waitTimeout},
		)
	}

	steps = append(steps,
		entity.TestStep{Kind: entity.StepSubmit, Selector: sel[submitRole(ft)], Fallback: primary, Timeout: waitTimeout},
		entity.TestStep{Kind: entity.StepAssertOutcome, Selector: sel[entity.RoleResults], Timeout: waitTimeout},
	)

	return steps
}

// adversarialSteps is the shared fill/submit path of the negative and
// edge-case categories; they differ only in the injected value.
func adversarialSteps(ft entity.FormType, sel entity.SelectorSet, value string) []entity.TestStep {
	primary, ok := sel[primaryInputRole(ft)]
	if ft == entity.FormTypeUnknown || !ok {
		return defaultSteps(sel)
	}

	return []entity.TestStep{
		{Kind: entity.StepWaitReady, Selector: readyBattery, Timeout: waitTimeout},
		{Kind: entity.StepFill, Selector: primary, Value: value, Timeout: waitTimeout},
		{Kind: entity.StepSubmit, Selector: sel[submitRole(ft)], Fallback: primary, Timeout: waitTimeout},
		{Kind: entity.StepPause, Timeout: settlePause},
		{Kind: entity.StepAssertRejected, Selector: errorBattery, Fallback: sel[entity.RoleResults], Timeout: waitTimeout},
	}
}

func accessibilitySteps(ft entity.FormType, sel entity.SelectorSet) []entity.TestStep {
	primary, ok := sel[primaryInputRole(ft)]
	if !ok {
		primary = sel[entity.RoleInput]
	}

	return []entity.TestStep{
		{Kind: entity.StepWaitReady, Selector: readyBattery, Timeout: waitTimeout},
		{Kind: entity.StepAssertAccessible, Selector: primary, Fallback: sel[entity.RoleInput], Timeout: waitTimeout},
	}
}

func dynamicSteps(d entity.TestDescriptor, ft entity.FormType, sel entity.SelectorSet) []entity.TestStep {
	primary, ok := sel[primaryInputRole(ft)]
	if !ok {
		primary = sel[entity.RoleInput]
	}

	value := dataValue(d, primaryInputRole(ft), defaultDynamicValue)

	return []entity.TestStep{
		{Kind: entity.StepWaitReady, Selector: readyBattery, Timeout: waitTimeout},
		{Kind: entity.StepFill, Selector: primary, Value: value, Timeout: waitTimeout},
		{Kind: entity.StepPause, Timeout: typingPause},
		{Kind: entity.StepAssertLiveValue, Selector: primary, Fallback: suggestionBattery, Value: value, Timeout: waitTimeout},
	}
}

func validationSteps(ft entity.FormType, sel entity.SelectorSet) []entity.TestStep {
	primary, ok := sel[primaryInputRole(ft)]
	if !ok {
		primary = sel[entity.RoleInput]
	}

	return []entity.TestStep{
		{Kind: entity.StepWaitReady, Selector: readyBattery, Timeout: waitTimeout},
		{Kind: entity.StepSubmit, Selector: sel[submitRole(ft)], Fallback: primary, Timeout: waitTimeout},
		{Kind: entity.StepPause, Timeout: settlePause},
		{Kind: entity.StepAssertValidation, Selector: validationBattery, Timeout: waitTimeout},
	}
}

// defaultSteps is the total-coverage recipe: first generic input, literal
// value, first generic button, success if nothing raised.
func defaultSteps(sel entity.SelectorSet) []entity.TestStep {
	return []entity.TestStep{
		{Kind: entity.StepWaitReady, Selector: readyBattery, Timeout: waitTimeout},
		{Kind: entity.StepFillFirst, Selector: sel[entity.RoleInput], Value: defaultGenericValue, Timeout: waitTimeout},
		{Kind: entity.StepClickFirst, Selector: sel[entity.RoleButton], Timeout: waitTimeout},
		{Kind: entity.StepPause, Timeout: settlePause},
	}
}

func dataValue(d entity.TestDescriptor, key, fallback string) string {
	if d.TestData != nil {
		if v, ok := d.TestData[key]; ok && v != "" {
			return v
		}
	}

	return fallback
}
