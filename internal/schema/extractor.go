package schema

import (
	"context"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/shobhitxp/QAAItestgenerator/internal/entity"
	"github.com/shobhitxp/QAAItestgenerator/internal/ports"
	"github.com/shobhitxp/QAAItestgenerator/pkg/logg"
	"github.com/shobhitxp/QAAItestgenerator/pkg/tracing"
)

const (
	extractorServiceName = "SchemaExtractor"
	extractorTracer      = "schema.extractor"

	snippetLimit = 500

	inputBattery      = `input, textarea, select`
	buttonBattery     = `button, input[type='submit'], input[type='button'], [role='button'], .btn, .button`
	validationBattery = `[data-validation], [data-validate], .validation, .error, .invalid, [aria-invalid]`
	widgetBattery     = `input[type='date'], input[type='file'], input[type='range'], input[type='color'], .datepicker, .slider, .upload, .widget`
	dynamicBattery    = `[data-dynamic], [data-toggle], .dynamic, .collapsible, .expandable, [aria-expanded]`
)

var inputCustomAttrs = []string{"data-type", "data-format", "data-mask", "data-min", "data-max", "data-step"}

var controlCustomAttrs = []string{"data-action", "data-submit", "data-confirm", "data-loading", "data-testid", "data-cy"}

type Extractor struct {
	logger *zap.Logger
	tracer trace.Tracer
}

type Params struct {
	fx.In

	Logger *zap.Logger
}

func NewExtractor(params Params) *Extractor {
	return &Extractor{
		logger: params.Logger.With(zap.String(logg.Layer, extractorServiceName)),
		tracer: otel.Tracer(extractorTracer),
	}
}

// Extract walks one candidate element and produces its schema. It never
// fails: each attribute read degrades independently to an absent value,
// and an unusable handle yields a minimal schema carrying only the url,
// form id and an error marker.
func (e *Extractor) Extract(ctx context.Context, element ports.Element, url, formID string) entity.FormSchema {
	const op = "Extract"
	logger := e.logger.With(zap.String(logg.Operation, op), zap.String(logg.FormID, formID))

	ctx, step := tracing.StartSpan(ctx, e.tracer, logger, op,
		attribute.String("form_id", formID))
	defer step.End(nil)

	tag, err := element.TagName(ctx)
	if err != nil {
		logger.Warn("Candidate handle unusable", zap.Error(err))

		return entity.FormSchema{
			URL:     url,
			FormID:  formID,
			Error:   err.Error(),
			Inputs:  []entity.InputField{},
			Buttons: []entity.Control{},
		}
	}

	result := entity.FormSchema{
		URL:          url,
		FormID:       formID,
		ElementType:  strings.ToLower(tag),
		ElementID:    attr(ctx, element, "id"),
		ElementClass: attr(ctx, element, "class"),
		ElementRole:  attr(ctx, element, "role"),
		Inputs:       []entity.InputField{},
		Buttons:      []entity.Control{},
	}

	step.AddEvent("extracting inputs")
	result.Inputs = e.extractInputs(ctx, element, logger)

	step.AddEvent("extracting buttons")
	result.Buttons = e.extractButtons(ctx, element, logger)

	step.AddEvent("extracting validation elements")
	result.ValidationElements = e.extractValidation(ctx, element)

	step.AddEvent("extracting custom widgets")
	result.CustomWidgets = e.extractWidgets(ctx, element)

	step.AddEvent("extracting dynamic elements")
	result.DynamicElements = e.extractDynamic(ctx, element)

	if html, herr := element.InnerHTML(ctx); herr == nil {
		if len(html) > snippetLimit {
			html = html[:snippetLimit]
		}
		result.HTMLSnippet = html
	}

	step.SetAttributes(
		attribute.Int("inputs", len(result.Inputs)),
		attribute.Int("buttons", len(result.Buttons)))

	return result
}

func (e *Extractor) extractInputs(ctx context.Context, element ports.Element, logger *zap.Logger) []entity.InputField {
	handles, err := element.QueryAll(ctx, inputBattery)
	if err != nil {
		logger.Warn("Input query failed", zap.Error(err))

		return []entity.InputField{}
	}

	fields := make([]entity.InputField, 0, len(handles))

	for _, inp := range handles {
		field := entity.InputField{
			Name:        attr(ctx, inp, "name"),
			Type:        attr(ctx, inp, "type"),
			Placeholder: attr(ctx, inp, "placeholder"),
			Required:    has(ctx, inp, "required"),
			MaxLength:   attr(ctx, inp, "maxlength"),
			Pattern:     attr(ctx, inp, "pattern"),
			ID:          attr(ctx, inp, "id"),
			Class:       attr(ctx, inp, "class"),
			Value:       attr(ctx, inp, "value"),
			Disabled:    has(ctx, inp, "disabled"),
			Readonly:    has(ctx, inp, "readonly"),
			AriaLabel:   attr(ctx, inp, "aria-label"),
			DataTestID:  attr(ctx, inp, "data-testid"),
			DataCy:      attr(ctx, inp, "data-cy"),
			Validation: entity.ValidationAttrs{
				AriaInvalid:    attr(ctx, inp, "aria-invalid"),
				DataValidation: attr(ctx, inp, "data-validation"),
				DataValidate:   attr(ctx, inp, "data-validate"),
			},
		}

		custom := make(map[string]string)
		for _, name := range inputCustomAttrs {
			if v := attr(ctx, inp, name); v != "" {
				custom[name] = v
			}
		}
		if len(custom) > 0 {
			field.CustomAttributes = custom
		}

		fields = append(fields, field)
	}

	return fields
}

func (e *Extractor) extractButtons(ctx context.Context, element ports.Element, logger *zap.Logger) []entity.Control {
	handles, err := element.QueryAll(ctx, buttonBattery)
	if err != nil {
		logger.Warn("Button query failed", zap.Error(err))

		return []entity.Control{}
	}

	controls := make([]entity.Control, 0, len(handles))

	for _, btn := range handles {
		control := entity.Control{
			Type:     attr(ctx, btn, "type"),
			ID:       attr(ctx, btn, "id"),
			Class:    attr(ctx, btn, "class"),
			Name:     attr(ctx, btn, "name"),
			Value:    attr(ctx, btn, "value"),
			Role:     attr(ctx, btn, "role"),
			Disabled: has(ctx, btn, "disabled"),
		}

		custom := make(map[string]string)
		for _, name := range controlCustomAttrs {
			if v := attr(ctx, btn, name); v != "" {
				custom[name] = v
			}
		}
		if len(custom) > 0 {
			control.CustomAttributes = custom
		}

		text := ""
		if t, terr := btn.InnerText(ctx); terr == nil {
			text = strings.TrimSpace(t)
		}
		control.Text = ResolveControlText(text, control.Value, control.Name, control.ID, control.Class, control.Type)

		controls = append(controls, control)
	}

	return controls
}

// ResolveControlText picks a label for a button-like control. The
// precedence order is fixed: visible text, value, name, id, class-derived
// label when the class looks button-like, then a type-derived placeholder.
func ResolveControlText(innerText, value, name, id, class, typ string) string {
	switch {
	case innerText != "":
		return innerText
	case value != "":
		return fmt.Sprintf("%s (value)", value)
	case name != "":
		return fmt.Sprintf("%s (name)", name)
	case id != "":
		return fmt.Sprintf("%s (id)", id)
	case class != "" && strings.Contains(class, "btn"):
		return fmt.Sprintf("Button (%s)", class)
	case typ != "":
		return fmt.Sprintf("Button (%s)", typ)
	default:
		return "Button (unknown)"
	}
}

func (e *Extractor) extractValidation(ctx context.Context, element ports.Element) []entity.ValidationElement {
	handles, err := element.QueryAll(ctx, validationBattery)
	if err != nil {
		return nil
	}

	elems := make([]entity.ValidationElement, 0, len(handles))

	for _, h := range handles {
		elem := entity.ValidationElement{
			ID:       attr(ctx, h, "id"),
			Class:    attr(ctx, h, "class"),
			Role:     attr(ctx, h, "role"),
			AriaLive: attr(ctx, h, "aria-live"),
		}

		if t, terr := h.InnerText(ctx); terr == nil {
			elem.Text = strings.TrimSpace(t)
		}

		elems = append(elems, elem)
	}

	return elems
}

func (e *Extractor) extractWidgets(ctx context.Context, element ports.Element) []entity.CustomWidget {
	handles, err := element.QueryAll(ctx, widgetBattery)
	if err != nil {
		return nil
	}

	widgets := make([]entity.CustomWidget, 0, len(handles))

	for _, h := range handles {
		widget := entity.CustomWidget{
			Type:  attr(ctx, h, "type"),
			ID:    attr(ctx, h, "id"),
			Class: attr(ctx, h, "class"),
			Name:  attr(ctx, h, "name"),
			Value: attr(ctx, h, "value"),
		}

		widget.Attributes = widgetAttributes(ctx, h, widget.Type)
		widgets = append(widgets, widget)
	}

	return widgets
}

// widgetAttributes reads the type-specific sub-attributes. Only file,
// range and date widgets get any; other kinds get an empty map.
func widgetAttributes(ctx context.Context, h ports.Element, typ string) map[string]string {
	attrs := make(map[string]string)

	switch typ {
	case "file":
		attrs["accept"] = attr(ctx, h, "accept")
		attrs["multiple"] = attr(ctx, h, "multiple")
	case "range":
		attrs["min"] = attr(ctx, h, "min")
		attrs["max"] = attr(ctx, h, "max")
		attrs["step"] = attr(ctx, h, "step")
	case "date":
		attrs["min"] = attr(ctx, h, "min")
		attrs["max"] = attr(ctx, h, "max")
	}

	return attrs
}

func (e *Extractor) extractDynamic(ctx context.Context, element ports.Element) []entity.DynamicElement {
	handles, err := element.QueryAll(ctx, dynamicBattery)
	if err != nil {
		return nil
	}

	elems := make([]entity.DynamicElement, 0, len(handles))

	for _, h := range handles {
		elem := entity.DynamicElement{
			ID:           attr(ctx, h, "id"),
			Class:        attr(ctx, h, "class"),
			Role:         attr(ctx, h, "role"),
			AriaExpanded: attr(ctx, h, "aria-expanded"),
			DataToggle:   attr(ctx, h, "data-toggle"),
			DataTarget:   attr(ctx, h, "data-target"),
		}

		if t, terr := h.InnerText(ctx); terr == nil {
			elem.Text = strings.TrimSpace(t)
		}

		elems = append(elems, elem)
	}

	return elems
}

func attr(ctx context.Context, el ports.Element, name string) string {
	v, err := el.GetAttribute(ctx, name)
	if err != nil {
		return ""
	}

	return v
}

func has(ctx context.Context, el ports.Element, name string) bool {
	ok, err := el.HasAttribute(ctx, name)
	if err != nil {
		return false
	}

	return ok
}
