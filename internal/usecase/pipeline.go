package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/shobhitxp/QAAItestgenerator/internal/ai"
	"github.com/shobhitxp/QAAItestgenerator/internal/classify"
	"github.com/shobhitxp/QAAItestgenerator/internal/config"
	"github.com/shobhitxp/QAAItestgenerator/internal/discovery"
	"github.com/shobhitxp/QAAItestgenerator/internal/entity"
	"github.com/shobhitxp/QAAItestgenerator/internal/ports"
	"github.com/shobhitxp/QAAItestgenerator/internal/schema"
	"github.com/shobhitxp/QAAItestgenerator/internal/synth"
	"github.com/shobhitxp/QAAItestgenerator/pkg/apperr"
	"github.com/shobhitxp/QAAItestgenerator/pkg/logg"
	"github.com/shobhitxp/QAAItestgenerator/pkg/tracing"
)

const (
	pipelineServiceName = "PipelineService"
	pipelineTracer      = "usecase.pipeline"
)

// PipelineService drives the full analysis flow for one URL: navigate,
// discover form regions, extract schemas, generate descriptors, classify,
// and synthesize runnable test units. Candidates are processed serially;
// element handles share one rendering session.
type PipelineService struct {
	config    *config.Config
	logger    *zap.Logger
	browser   ports.BrowserManager
	generator ports.DescriptorGenerator
	discovery *discovery.Service
	extractor *schema.Extractor
	runner    *synth.Runner
	tracer    trace.Tracer
}

type PipelineServiceParams struct {
	fx.In

	Config    *config.Config
	Logger    *zap.Logger
	Browser   ports.BrowserManager
	Generator ports.DescriptorGenerator
	Discovery *discovery.Service
	Extractor *schema.Extractor
	Runner    *synth.Runner
}

func NewPipelineService(params PipelineServiceParams) *PipelineService {
	return &PipelineService{
		config:    params.Config,
		logger:    params.Logger.With(zap.String(logg.Layer, pipelineServiceName)),
		browser:   params.Browser,
		generator: params.Generator,
		discovery: params.Discovery,
		extractor: params.Extractor,
		runner:    params.Runner,
		tracer:    otel.Tracer(pipelineTracer),
	}
}

func (s *PipelineService) Analyze(ctx context.Context, url string) (reports []entity.FormReport, err error) {
	const op = "Analyze"
	logger := s.logger.With(zap.String(logg.Operation, op), zap.String(logg.URL, url))

	ctx, step := tracing.StartSpan(ctx, s.tracer, logger, op,
		attribute.String("page.url", url))
	defer func() {
		step.End(err)
	}()

	if url == "" {
		return nil, apperr.InvalidReqError(op, "url", errors.New("url cannot be empty"))
	}

	if !s.browser.IsReady() {
		return nil, apperr.WrapErrorWithReason(op, apperr.CodeBrowserNotReady, "browser_not_ready")
	}

	if err := s.browser.Navigate(ctx, url); err != nil {
		// A page that cannot be reached has no forms. Reported once,
		// then the pipeline yields an empty result.
		logger.Error("navigation failed", zap.Error(err))

		return []entity.FormReport{}, nil
	}

	step.AddEvent("page loaded")

	candidates, err := s.discovery.Discover(ctx, s.browser)
	if err != nil {
		return nil, apperr.Wrap(op, apperr.CodeInternal, err, map[string]any{
			apperr.MetaStage: apperr.StageDiscovery,
		})
	}

	if s.config.PipelineConfig.UseTriggerExploration {
		explored, exploreErr := s.discovery.Explore(ctx, s.browser, candidates)
		if exploreErr != nil {
			logger.Warn("trigger exploration failed", zap.Error(exploreErr))
		} else {
			candidates = explored
		}
	}

	logger.Info("discovery finished", zap.Int("candidates", len(candidates)))

	reports = make([]entity.FormReport, 0, len(candidates))

	for _, cand := range candidates {
		if err := ctx.Err(); err != nil {
			return reports, apperr.Wrap(op, apperr.CodeCancelled, err, map[string]any{
				apperr.MetaReason: "context_cancelled",
			})
		}

		report := s.processCandidate(ctx, url, cand)
		reports = append(reports, report)
	}

	step.AddEvent("analysis finished")

	return reports, nil
}

// processCandidate builds one FormReport. Every stage degrades instead of
// aborting: extraction yields a minimal schema on failure and generation
// yields the fixed fallback suite, so a report always comes out.
func (s *PipelineService) processCandidate(ctx context.Context, url string, cand discovery.Candidate) entity.FormReport {
	const op = "processCandidate"
	logger := s.logger.With(
		zap.String(logg.Operation, op),
		zap.String(logg.FormID, cand.FormID),
		zap.String(logg.Strategy, cand.Strategy),
	)

	ctx, step := tracing.StartSpan(ctx, s.tracer, logger, op,
		attribute.String("form.id", cand.FormID),
		attribute.String("form.strategy", cand.Strategy),
	)
	defer func() {
		step.End(nil)
	}()

	formSchema := s.extractor.Extract(ctx, cand.Element, url, cand.FormID)

	suite, err := s.generator.Generate(ctx, formSchema)
	if err != nil || suite == nil {
		logger.Warn("descriptor generation failed, using fallback suite", zap.Error(err))
		suite = ai.FallbackSuite()
	}

	formType := classify.Classify(suite.FormTypeLabel)
	selectors := classify.Selectors(formType)

	logger.Info("form classified",
		zap.String(logg.FormType, string(formType)),
		zap.Int("descriptors", len(suite.Cases)),
	)

	units := make([]entity.TestUnit, 0, len(suite.Cases))
	for _, descriptor := range suite.Cases {
		units = append(units, synth.Synthesize(descriptor, formType, selectors))
	}

	return entity.FormReport{
		ID:        uuid.New(),
		Schema:    formSchema,
		FormType:  formType,
		Label:     suite.FormTypeLabel,
		Selectors: selectors,
		Units:     units,
		CreatedAt: time.Now(),
	}
}

// Execute runs every synthesized unit of one report against the current
// page. The caller is responsible for the page still being the one the
// report was built from.
func (s *PipelineService) Execute(ctx context.Context, report entity.FormReport) (outcomes []entity.Outcome, err error) {
	const op = "Execute"
	logger := s.logger.With(
		zap.String(logg.Operation, op),
		zap.String(logg.FormID, report.Schema.FormID),
		zap.String(logg.FormType, string(report.FormType)),
	)

	ctx, step := tracing.StartSpan(ctx, s.tracer, logger, op,
		attribute.String("form.id", report.Schema.FormID),
		attribute.Int("units", len(report.Units)),
	)
	defer func() {
		step.End(err)
	}()

	if !s.browser.IsReady() {
		return nil, apperr.WrapErrorWithReason(op, apperr.CodeBrowserNotReady, "browser_not_ready")
	}

	outcomes = make([]entity.Outcome, 0, len(report.Units))

	for _, unit := range report.Units {
		if err := ctx.Err(); err != nil {
			return outcomes, apperr.Wrap(op, apperr.CodeCancelled, err, map[string]any{
				apperr.MetaReason: "context_cancelled",
			})
		}

		outcomes = append(outcomes, s.runner.Run(ctx, s.browser, unit))
	}

	return outcomes, nil
}
