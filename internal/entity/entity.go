package entity

import (
	"time"

	"github.com/google/uuid"
)

// FormType is the coarse classification of a discovered form region. It is
// derived from a lowercase purpose label by keyword containment, never from
// control content.
type FormType string

const (
	FormTypeSearch       FormType = "search"
	FormTypeLogin        FormType = "login"
	FormTypeContact      FormType = "contact"
	FormTypeRegistration FormType = "registration"
	FormTypeUnknown      FormType = "unknown"
)

// FormTypes lists every member of the enumeration, in classification order.
var FormTypes = []FormType{
	FormTypeSearch,
	FormTypeLogin,
	FormTypeContact,
	FormTypeRegistration,
	FormTypeUnknown,
}

// ValidationAttrs carries the validation-related attributes of one input.
type ValidationAttrs struct {
	AriaInvalid    string `json:"aria_invalid,omitempty"`
	DataValidation string `json:"data_validation,omitempty"`
	DataValidate   string `json:"data_validate,omitempty"`
}

// InputField describes one input-capable control inside a form region.
// Every attribute is best-effort: a failed read leaves the zero value.
type InputField struct {
	Name             string            `json:"name,omitempty"`
	Type             string            `json:"type,omitempty"`
	Placeholder      string            `json:"placeholder,omitempty"`
	Required         bool              `json:"required"`
	MaxLength        string            `json:"max_length,omitempty"`
	Pattern          string            `json:"pattern,omitempty"`
	ID               string            `json:"id,omitempty"`
	Class            string            `json:"class,omitempty"`
	Value            string            `json:"value,omitempty"`
	Disabled         bool              `json:"disabled"`
	Readonly         bool              `json:"readonly"`
	AriaLabel        string            `json:"aria_label,omitempty"`
	DataTestID       string            `json:"data_testid,omitempty"`
	DataCy           string            `json:"data_cy,omitempty"`
	Validation       ValidationAttrs   `json:"validation"`
	CustomAttributes map[string]string `json:"custom_attributes,omitempty"`
}

// Control is a button or submit-like element. Text is resolved by a fixed
// precedence chain (inner text, value, name, id, class label, type label).
type Control struct {
	Text             string            `json:"text,omitempty"`
	Type             string            `json:"type,omitempty"`
	ID               string            `json:"id,omitempty"`
	Class            string            `json:"class,omitempty"`
	Name             string            `json:"name,omitempty"`
	Value            string            `json:"value,omitempty"`
	Role             string            `json:"role,omitempty"`
	Disabled         bool              `json:"disabled"`
	CustomAttributes map[string]string `json:"custom_attributes,omitempty"`
}

// ValidationElement is an error/validation affordance found near the form.
type ValidationElement struct {
	Text     string `json:"text,omitempty"`
	ID       string `json:"id,omitempty"`
	Class    string `json:"class,omitempty"`
	Role     string `json:"role,omitempty"`
	AriaLive string `json:"aria_live,omitempty"`
}

// CustomWidget is a non-plain input such as a date picker, file upload or
// slider. Attributes holds type-specific keys: file gets accept/multiple,
// range gets min/max/step, date gets min/max. No other type gets any.
type CustomWidget struct {
	Type       string            `json:"type,omitempty"`
	ID         string            `json:"id,omitempty"`
	Class      string            `json:"class,omitempty"`
	Name       string            `json:"name,omitempty"`
	Value      string            `json:"value,omitempty"`
	Attributes map[string]string `json:"attributes,omitempty"`
}

// DynamicElement is a toggle/collapsible affordance inside the region.
type DynamicElement struct {
	Text         string `json:"text,omitempty"`
	ID           string `json:"id,omitempty"`
	Class        string `json:"class,omitempty"`
	Role         string `json:"role,omitempty"`
	AriaExpanded string `json:"aria_expanded,omitempty"`
	DataToggle   string `json:"data_toggle,omitempty"`
	DataTarget   string `json:"data_target,omitempty"`
}

// FormSchema is the normalized description of one candidate at extraction
// time. Extraction never fails past a single field; an unrecoverable
// failure yields a minimal schema with Error set and empty sequences.
type FormSchema struct {
	URL                string              `json:"url"`
	FormID             string              `json:"form_id"`
	ElementType        string              `json:"element_type,omitempty"`
	ElementID          string              `json:"element_id,omitempty"`
	ElementClass       string              `json:"element_class,omitempty"`
	ElementRole        string              `json:"element_role,omitempty"`
	Inputs             []InputField        `json:"inputs"`
	Buttons            []Control           `json:"buttons"`
	ValidationElements []ValidationElement `json:"validation_elements,omitempty"`
	CustomWidgets      []CustomWidget      `json:"custom_widgets,omitempty"`
	DynamicElements    []DynamicElement    `json:"dynamic_elements,omitempty"`
	HTMLSnippet        string              `json:"html_snippet,omitempty"`
	Error              string              `json:"error,omitempty"`
}

// SelectorSet maps logical role names to selector expressions for one form
// type. The generic roles (RoleInput, RoleButton, RoleSelect, RoleTextarea,
// RoleForm) are always present.
type SelectorSet map[string]string

const (
	RoleInput    = "input"
	RoleButton   = "button"
	RoleSelect   = "select"
	RoleTextarea = "textarea"
	RoleForm     = "form"

	RoleSearchInput  = "search_input"
	RoleSearchButton = "search_button"
	RoleResults      = "results"

	RoleUsername    = "username"
	RolePassword    = "password"
	RoleLoginButton = "login_button"

	RoleName            = "name"
	RoleEmail           = "email"
	RoleMessage         = "message"
	RoleSubmit          = "submit"
	RoleConfirmPassword = "confirm_password"
)

// TestCategory partitions descriptors by the kind of behavior they probe.
type TestCategory string

const (
	CategoryPositive      TestCategory = "positive"
	CategoryNegative      TestCategory = "negative"
	CategoryEdgeCase      TestCategory = "edge_case"
	CategoryAccessibility TestCategory = "accessibility"
	CategoryDynamic       TestCategory = "dynamic"
	CategoryValidation    TestCategory = "validation"
)

// TestCategories lists every member of the enumeration.
var TestCategories = []TestCategory{
	CategoryPositive,
	CategoryNegative,
	CategoryEdgeCase,
	CategoryAccessibility,
	CategoryDynamic,
	CategoryValidation,
}

// TestDescriptor is one abstract test scenario as produced by the
// generation service (or the fixed fallback).
type TestDescriptor struct {
	TestID            string            `json:"test_id"`
	TestName          string            `json:"test_name"`
	Category          TestCategory      `json:"test_type"`
	Priority          string            `json:"priority"`
	Preconditions     string            `json:"preconditions,omitempty"`
	TestSteps         []string          `json:"test_steps,omitempty"`
	TestData          map[string]string `json:"test_data,omitempty"`
	ExpectedResult    string            `json:"expected_result,omitempty"`
	ValidationPoints  []string          `json:"validation_points,omitempty"`
	DynamicBehavior   string            `json:"dynamic_behavior,omitempty"`
	WidgetInteraction string            `json:"widget_interaction,omitempty"`
}

// GeneratedSuite is the generation service's document for one schema: a
// free-form purpose label plus the descriptor list.
type GeneratedSuite struct {
	FormTypeLabel string           `json:"form_type"`
	Cases         []TestDescriptor `json:"test_cases"`
}

// StepKind enumerates the executable operations a synthesized test is
// built from. Assertion kinds carry the weak-check semantics of their
// category: rendered outcomes are not fully predictable, so checks degrade
// to warnings where the page surfaces no explicit signal.
type StepKind string

const (
	StepWaitReady        StepKind = "wait_ready"
	StepFill             StepKind = "fill"
	StepSubmit           StepKind = "submit"
	StepPause            StepKind = "pause"
	StepFillFirst        StepKind = "fill_first"
	StepClickFirst       StepKind = "click_first"
	StepAssertOutcome    StepKind = "assert_outcome"
	StepAssertRejected   StepKind = "assert_rejected"
	StepAssertAccessible StepKind = "assert_accessible"
	StepAssertLiveValue  StepKind = "assert_live_value"
	StepAssertValidation StepKind = "assert_validation"
)

// TestStep is one declarative operation inside a TestUnit. Selector is the
// primary target, Fallback the secondary one (Enter-press target for
// submits, generic role for accessibility), Value the input or expected
// text, Timeout the per-step bound where one applies.
type TestStep struct {
	Kind     StepKind
	Selector string
	Fallback string
	Value    string
	Timeout  time.Duration
}

// TestUnit binds one descriptor to concrete runnable steps scoped to a
// single schema/selector-set pair. Immutable once synthesized.
type TestUnit struct {
	ID         uuid.UUID
	Descriptor TestDescriptor
	FormType   FormType
	Steps      []TestStep
}

// OutcomeStatus is the result of running one TestUnit.
type OutcomeStatus string

const (
	OutcomePassed  OutcomeStatus = "passed"
	OutcomeFailed  OutcomeStatus = "failed"
	OutcomeWarning OutcomeStatus = "warning"
)

// Outcome reports one executed TestUnit.
type Outcome struct {
	UnitID    uuid.UUID
	Status    OutcomeStatus
	Detail    string
	StartedAt time.Time
	Duration  time.Duration
}

// FormReport is the pipeline output for one discovered form region, in
// discovery order.
type FormReport struct {
	ID        uuid.UUID
	Schema    FormSchema
	FormType  FormType
	Label     string
	Selectors SelectorSet
	Units     []TestUnit
	CreatedAt time.Time
}
