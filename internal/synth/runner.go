package synth

import (
	"context"
	"fmt"
	"strings"
	"time"

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
	runnerServiceName = "TestRunner"
	runnerTracer      = "synth.runner"
)

var accessibilityAttrs = []string{"aria-label", "aria-labelledby", "placeholder", "role", "title"}

// Runner interprets synthesized steps against a live session. Execution
// never returns an error: every step failure is folded into the Outcome,
// and assertion steps degrade to warnings where the page surfaces no
// explicit pass or fail signal.
type Runner struct {
	logger *zap.Logger
	tracer trace.Tracer
}

type RunnerParams struct {
	fx.In

	Logger *zap.Logger
}

func NewRunner(params RunnerParams) *Runner {
	return &Runner{
		logger: params.Logger.With(zap.String(logg.Layer, runnerServiceName)),
		tracer: otel.Tracer(runnerTracer),
	}
}

func (r *Runner) Run(ctx context.Context, session ports.Session, unit entity.TestUnit) entity.Outcome {
	const op = "Run"
	logger := r.logger.With(
		zap.String(logg.Operation, op),
		zap.String(logg.TestID, unit.Descriptor.TestID),
		zap.String(logg.Category, string(unit.Descriptor.Category)),
	)

	ctx, step := tracing.StartSpan(ctx, r.tracer, logger, op,
		attribute.String("test.id", unit.Descriptor.TestID),
		attribute.String("test.category", string(unit.Descriptor.Category)),
	)
	defer func() {
		step.End(nil)
	}()

	outcome := entity.Outcome{
		UnitID:    unit.ID,
		Status:    entity.OutcomePassed,
		StartedAt: time.Now(),
	}

	var warnings []string

	for i, ts := range unit.Steps {
		if err := ctx.Err(); err != nil {
			outcome.Status = entity.OutcomeFailed
			outcome.Detail = fmt.Sprintf("step %d (%s): %v", i+1, ts.Kind, err)
			break
		}

		failure, warning := r.runStep(ctx, session, ts)
		if failure != "" {
			logger.Warn("test step failed",
				zap.String("step", string(ts.Kind)),
				zap.String("detail", failure),
			)

			outcome.Status = entity.OutcomeFailed
			outcome.Detail = fmt.Sprintf("step %d (%s): %s", i+1, ts.Kind, failure)

			break
		}

		if warning != "" {
			warnings = append(warnings, warning)
		}
	}

	if outcome.Status == entity.OutcomePassed && len(warnings) > 0 {
		outcome.Status = entity.OutcomeWarning
		outcome.Detail = strings.Join(warnings, "; ")
	}

	outcome.Duration = time.Since(outcome.StartedAt)

	logger.Info("test unit finished",
		zap.String("status", string(outcome.Status)),
		zap.Duration("duration", outcome.Duration),
	)

	return outcome
}

// runStep executes one step and reports (failure, warning), at most one of
// which is non-empty.
func (r *Runner) runStep(ctx context.Context, session ports.Session, ts entity.TestStep) (string, string) {
	switch ts.Kind {
	case entity.StepWaitReady:
		if _, err := session.WaitForSelector(ctx, ts.Selector, ts.Timeout); err != nil {
			return fmt.Sprintf("page not interactive: %v", err), ""
		}
	case entity.StepFill:
		el, err := session.WaitForSelector(ctx, ts.Selector, ts.Timeout)
		if err != nil {
			return fmt.Sprintf("target %q not found: %v", ts.Selector, err), ""
		}

		if err := el.Fill(ctx, ts.Value); err != nil {
			return fmt.Sprintf("fill %q: %v", ts.Selector, err), ""
		}
	case entity.StepSubmit:
		return "", r.submit(ctx, session, ts)
	case entity.StepPause:
		session.WaitForTimeout(ctx, ts.Timeout)
	case entity.StepFillFirst:
		els, err := session.QueryAll(ctx, ts.Selector)
		if err != nil || len(els) == 0 {
			return "", "no generic input found to fill"
		}

		if err := els[0].Fill(ctx, ts.Value); err != nil {
			return fmt.Sprintf("fill first %q: %v", ts.Selector, err), ""
		}
	case entity.StepClickFirst:
		els, err := session.QueryAll(ctx, ts.Selector)
		if err != nil || len(els) == 0 {
			return "", "no button found to click"
		}

		if err := els[0].Click(ctx); err != nil {
			return fmt.Sprintf("click first %q: %v", ts.Selector, err), ""
		}
	case entity.StepAssertOutcome:
		return r.assertOutcome(ctx, session, ts)
	case entity.StepAssertRejected:
		return r.assertRejected(ctx, session, ts)
	case entity.StepAssertAccessible:
		return r.assertAccessible(ctx, session, ts)
	case entity.StepAssertLiveValue:
		return r.assertLiveValue(ctx, session, ts)
	case entity.StepAssertValidation:
		return r.assertValidation(ctx, session, ts)
	default:
		return fmt.Sprintf("unknown step kind %q", ts.Kind), ""
	}

	return "", ""
}

// submit clicks the category's button when present, else presses Enter on
// the fallback target. A missing button with no fallback is a warning, not
// a failure: many regions submit through scripted listeners only.
func (r *Runner) submit(ctx context.Context, session ports.Session, ts entity.TestStep) string {
	if ts.Selector != "" {
		if btn, err := session.QueryOne(ctx, ts.Selector); err == nil && btn != nil {
			if err := btn.Click(ctx); err == nil {
				session.WaitForTimeout(ctx, settlePause)
				return ""
			}
		}
	}

	if ts.Fallback != "" {
		if el, err := session.QueryOne(ctx, ts.Fallback); err == nil && el != nil {
			if err := el.Press(ctx, "Enter"); err == nil {
				session.WaitForTimeout(ctx, settlePause)
				return ""
			}
		}
	}

	return "no submit control reachable"
}

func (r *Runner) assertOutcome(ctx context.Context, session ports.Session, ts entity.TestStep) (string, string) {
	if ts.Selector != "" {
		if el, err := session.QueryOne(ctx, ts.Selector); err == nil && el != nil {
			if visible, err := el.IsVisible(ctx); err == nil && visible {
				return "", ""
			}
		}
	}

	content, err := session.Content(ctx)
	if err != nil {
		return fmt.Sprintf("page unreadable after submit: %v", err), ""
	}

	if strings.TrimSpace(content) == "" {
		return "page empty after submit", ""
	}

	return "", ""
}

// assertRejected passes on a visible error element or an empty/"no results"
// outcome region, and degrades to a warning otherwise: absence of explicit
// rejection UI is not proof the input was accepted.
func (r *Runner) assertRejected(ctx context.Context, session ports.Session, ts entity.TestStep) (string, string) {
	if el, err := session.QueryOne(ctx, ts.Selector); err == nil && el != nil {
		if visible, err := el.IsVisible(ctx); err == nil && visible {
			return "", ""
		}
	}

	if ts.Fallback != "" {
		if el, err := session.QueryOne(ctx, ts.Fallback); err == nil && el != nil {
			text, err := el.InnerText(ctx)
			if err == nil {
				trimmed := strings.ToLower(strings.TrimSpace(text))
				if trimmed == "" || strings.Contains(trimmed, "no results") {
					return "", ""
				}
			}
		}
	}

	return "", "no explicit rejection signal on page"
}

func (r *Runner) assertAccessible(ctx context.Context, session ports.Session, ts entity.TestStep) (string, string) {
	el, err := session.QueryOne(ctx, ts.Selector)
	if err != nil || el == nil {
		if ts.Fallback != "" {
			el, err = session.QueryOne(ctx, ts.Fallback)
		}

		if err != nil || el == nil {
			return "no input available for accessibility check", ""
		}
	}

	labelled := false

	for _, attr := range accessibilityAttrs {
		if v, err := el.GetAttribute(ctx, attr); err == nil && v != "" {
			labelled = true
			break
		}
	}

	if !labelled {
		return "input exposes no accessible label", ""
	}

	if err := el.Focus(ctx); err != nil {
		return fmt.Sprintf("input not focusable: %v", err), ""
	}

	if err := session.Press(ctx, "Tab"); err != nil {
		return fmt.Sprintf("keyboard navigation failed: %v", err), ""
	}

	active, err := session.Evaluate(ctx, `document.activeElement !== null && document.activeElement !== document.body`)
	if err != nil {
		return fmt.Sprintf("focus state unreadable: %v", err), ""
	}

	if moved, ok := active.(bool); ok && !moved {
		return "focus did not move on Tab", ""
	}

	return "", ""
}

// assertLiveValue passes on a visible suggestion region or on the typed
// value surviving in the input. Fallback carries the suggestion battery.
func (r *Runner) assertLiveValue(ctx context.Context, session ports.Session, ts entity.TestStep) (string, string) {
	if ts.Fallback != "" {
		if el, err := session.QueryOne(ctx, ts.Fallback); err == nil && el != nil {
			if visible, err := el.IsVisible(ctx); err == nil && visible {
				return "", ""
			}
		}
	}

	el, err := session.QueryOne(ctx, ts.Selector)
	if err != nil || el == nil {
		return fmt.Sprintf("input %q not found after typing", ts.Selector), ""
	}

	value, err := el.InputValue(ctx)
	if err != nil {
		return fmt.Sprintf("input value unreadable: %v", err), ""
	}

	if value != ts.Value {
		return fmt.Sprintf("typed value lost: want %q, have %q", ts.Value, value), ""
	}

	return "", ""
}

func (r *Runner) assertValidation(ctx context.Context, session ports.Session, ts entity.TestStep) (string, string) {
	if el, err := session.QueryOne(ctx, ts.Selector); err == nil && el != nil {
		return "", ""
	}

	return "", "no validation affordance surfaced"
}
