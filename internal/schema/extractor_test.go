package schema

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/shobhitxp/QAAItestgenerator/internal/mocks"
)

func newTestExtractor(t *testing.T) *Extractor {
	t.Helper()

	return NewExtractor(Params{Logger: zap.NewNop()})
}

func TestExtractFullSchema(t *testing.T) {
	ex := newTestExtractor(t)

	email := &mocks.FakeElement{
		Tag: "input",
		Attrs: map[string]string{
			"name":        "email",
			"type":        "email",
			"placeholder": "you@example.com",
			"required":    "",
			"maxlength":   "120",
			"id":          "email-field",
			"data-testid": "email-input",
		},
	}
	submit := &mocks.FakeElement{
		Tag:   "button",
		Text:  "Send message",
		Attrs: map[string]string{"type": "submit"},
	}

	form := &mocks.FakeElement{
		Tag:       "form",
		Attrs:     map[string]string{"id": "contact", "class": "contact-form"},
		HTMLInner: `<input name="email"><button>Send message</button>`,
		Children: map[string][]*mocks.FakeElement{
			inputBattery:  {email},
			buttonBattery: {submit},
		},
	}

	schema := ex.Extract(context.Background(), form, "https://example.com/contact", "traditional_form_1")

	assert.Equal(t, "https://example.com/contact", schema.URL)
	assert.Equal(t, "traditional_form_1", schema.FormID)
	assert.Equal(t, "form", schema.ElementType)
	assert.Equal(t, "contact", schema.ElementID)
	assert.Empty(t, schema.Error)

	require.Len(t, schema.Inputs, 1)
	input := schema.Inputs[0]
	assert.Equal(t, "email", input.Name)
	assert.Equal(t, "email", input.Type)
	assert.True(t, input.Required)
	assert.Equal(t, "120", input.MaxLength)
	assert.Equal(t, "email-input", input.DataTestID)

	require.Len(t, schema.Buttons, 1)
	assert.Equal(t, "Send message", schema.Buttons[0].Text)
}

func TestExtractUnusableHandleYieldsMinimalSchema(t *testing.T) {
	ex := newTestExtractor(t)

	broken := &mocks.FakeElement{TagErr: errors.New("handle detached")}

	schema := ex.Extract(context.Background(), broken, "https://example.com", "form_like_1")

	assert.Equal(t, "https://example.com", schema.URL)
	assert.Equal(t, "form_like_1", schema.FormID)
	assert.Equal(t, "handle detached", schema.Error)
	assert.Empty(t, schema.Inputs)
	assert.Empty(t, schema.Buttons)
	assert.NotNil(t, schema.Inputs)
	assert.NotNil(t, schema.Buttons)
}

func TestExtractSnippetTruncated(t *testing.T) {
	ex := newTestExtractor(t)

	form := &mocks.FakeElement{
		Tag:       "form",
		HTMLInner: strings.Repeat("x", snippetLimit+200),
	}

	schema := ex.Extract(context.Background(), form, "https://example.com", "traditional_form_1")

	assert.Len(t, schema.HTMLSnippet, snippetLimit)
}

func TestExtractEmptyRegion(t *testing.T) {
	ex := newTestExtractor(t)

	form := &mocks.FakeElement{Tag: "form"}

	schema := ex.Extract(context.Background(), form, "https://example.com", "traditional_form_1")

	assert.Empty(t, schema.Error)
	assert.Empty(t, schema.Inputs)
	assert.Empty(t, schema.Buttons)
}

func TestResolveControlText(t *testing.T) {
	cases := []struct {
		name string
		args [6]string
		want string
	}{
		{"inner text wins", [6]string{"Search", "v", "n", "i", "c", "submit"}, "Search"},
		{"value next", [6]string{"", "Go", "n", "i", "c", "submit"}, "Go (value)"},
		{"name next", [6]string{"", "", "search_btn", "i", "c", "submit"}, "search_btn (name)"},
		{"id next", [6]string{"", "", "", "submit-btn", "c", "submit"}, "submit-btn (id)"},
		{"button-like class", [6]string{"", "", "", "", "btn btn-primary", "submit"}, "Button (btn btn-primary)"},
		{"non-button class falls through", [6]string{"", "", "", "", "fancy", "submit"}, "Button (submit)"},
		{"type placeholder", [6]string{"", "", "", "", "", "button"}, "Button (button)"},
		{"nothing known", [6]string{"", "", "", "", "", ""}, "Button (unknown)"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ResolveControlText(tc.args[0], tc.args[1], tc.args[2], tc.args[3], tc.args[4], tc.args[5])
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestExtractWidgetAttributes(t *testing.T) {
	ex := newTestExtractor(t)

	file := &mocks.FakeElement{
		Tag:   "input",
		Attrs: map[string]string{"type": "file", "accept": ".pdf", "multiple": ""},
	}
	slider := &mocks.FakeElement{
		Tag:   "input",
		Attrs: map[string]string{"type": "range", "min": "0", "max": "100", "step": "5"},
	}
	picker := &mocks.FakeElement{
		Tag:   "input",
		Attrs: map[string]string{"type": "date", "min": "2020-01-01", "max": "2030-12-31"},
	}
	color := &mocks.FakeElement{
		Tag:   "input",
		Attrs: map[string]string{"type": "color"},
	}

	form := &mocks.FakeElement{
		Tag: "form",
		Children: map[string][]*mocks.FakeElement{
			widgetBattery: {file, slider, picker, color},
		},
	}

	schema := ex.Extract(context.Background(), form, "https://example.com", "traditional_form_1")
	require.Len(t, schema.CustomWidgets, 4)

	assert.Equal(t, ".pdf", schema.CustomWidgets[0].Attributes["accept"])
	assert.Equal(t, "0", schema.CustomWidgets[1].Attributes["min"])
	assert.Equal(t, "5", schema.CustomWidgets[1].Attributes["step"])
	assert.Equal(t, "2020-01-01", schema.CustomWidgets[2].Attributes["min"])
	assert.Empty(t, schema.CustomWidgets[3].Attributes)
}

func TestExtractValidationAndDynamicElements(t *testing.T) {
	ex := newTestExtractor(t)

	errorBox := &mocks.FakeElement{
		Tag:   "div",
		Text:  "  Email is required  ",
		Attrs: map[string]string{"class": "error", "aria-live": "polite"},
	}
	toggle := &mocks.FakeElement{
		Tag:   "div",
		Text:  "More options",
		Attrs: map[string]string{"data-toggle": "collapse", "data-target": "#extra", "aria-expanded": "false"},
	}

	form := &mocks.FakeElement{
		Tag: "form",
		Children: map[string][]*mocks.FakeElement{
			validationBattery: {errorBox},
			dynamicBattery:    {toggle},
		},
	}

	schema := ex.Extract(context.Background(), form, "https://example.com", "traditional_form_1")

	require.Len(t, schema.ValidationElements, 1)
	assert.Equal(t, "Email is required", schema.ValidationElements[0].Text)
	assert.Equal(t, "polite", schema.ValidationElements[0].AriaLive)

	require.Len(t, schema.DynamicElements, 1)
	assert.Equal(t, "collapse", schema.DynamicElements[0].DataToggle)
	assert.Equal(t, "#extra", schema.DynamicElements[0].DataTarget)
}
