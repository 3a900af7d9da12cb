package discovery

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/shobhitxp/QAAItestgenerator/internal/config"
	"github.com/shobhitxp/QAAItestgenerator/internal/ports"
	"github.com/shobhitxp/QAAItestgenerator/pkg/logg"
	"github.com/shobhitxp/QAAItestgenerator/pkg/tracing"
)

const (
	discoveryServiceName = "DiscoveryService"
	discoveryTracer      = "discovery.service"

	strategyTraditional    = "traditional_form"
	strategyFormLike       = "form_like"
	strategyInputContainer = "input_container"
	strategySearch         = "search_form"
	strategyModal          = "modal_form"
	strategyDynamic        = "dynamic_form"
)

type strategy struct {
	name     string
	selector string
}

// The battery runs in this order; earliest strategy wins signature ties.
var strategies = []strategy{
	{strategyTraditional, `form`},
	{strategyFormLike, `div[role='form'], div[data-testid*='form'], div[class*='form'], div[id*='form'], section[role='form'], section[data-testid*='form']`},
	{strategyInputContainer, `div:has(input), div:has(select), div:has(textarea), section:has(input), section:has(select), section:has(textarea)`},
	{strategySearch, `form[action*='search'], form[class*='search'], div[class*='search']:has(input)`},
	{strategyModal, `[role='dialog']:has(input), [role='dialog']:has(select), [role='dialog']:has(textarea), .modal:has(input), .modal:has(select), .modal:has(textarea), .dialog:has(input), .dialog:has(select), .dialog:has(textarea)`},
}

// revealBattery is the reduced battery re-run after a trigger click.
const revealBattery = `form, div[role='form'], .modal:has(input)`

type Service struct {
	config *config.Config
	logger *zap.Logger
	tracer trace.Tracer
}

type Params struct {
	fx.In

	Config *config.Config
	Logger *zap.Logger
}

func NewService(params Params) *Service {
	return &Service{
		config: params.Config,
		logger: params.Logger.With(zap.String(logg.Layer, discoveryServiceName)),
		tracer: otel.Tracer(discoveryTracer),
	}
}

// Discover runs the fixed strategy battery against the page and returns
// deduplicated candidates in strategy order. A failing strategy counts as
// zero matches; it never aborts the remaining strategies.
func (s *Service) Discover(ctx context.Context, session ports.Session) (candidates []Candidate, err error) {
	const op = "Discover"
	logger := s.logger.With(zap.String(logg.Operation, op))

	ctx, step := tracing.StartSpan(ctx, s.tracer, logger, op)
	defer func() {
		step.End(err)
	}()

	seen := make(map[string]struct{})

	for _, strat := range strategies {
		step.AddEvent(fmt.Sprintf("running strategy %s", strat.name))

		matched := s.runStrategy(ctx, session, strat, seen, &candidates)
		logger.Debug("Strategy finished",
			zap.String(logg.Strategy, strat.name),
			zap.Int("retained", matched))
	}

	step.SetAttributes(attribute.Int("candidates", len(candidates)))
	logger.Info("Discovery complete", zap.Int("candidates", len(candidates)))

	return candidates, nil
}

func (s *Service) runStrategy(ctx context.Context, session ports.Session, strat strategy, seen map[string]struct{}, out *[]Candidate) int {
	logger := s.logger.With(zap.String(logg.Strategy, strat.name))

	handles, err := session.QueryAll(ctx, strat.selector)
	if err != nil {
		logger.Warn("Strategy query failed, treating as zero matches", zap.Error(err))

		return 0
	}

	// Generic input containers nest, so the same descendants match many
	// times over; processing is bounded before dedup even sees them.
	if strat.name == strategyInputContainer {
		if cap := s.config.PipelineConfig.MaxInputContainers; cap > 0 && len(handles) > cap {
			handles = handles[:cap]
		}
	}

	retained := 0

	for _, handle := range handles {
		sig, ok := signatureOf(ctx, handle)
		if !ok {
			logger.Warn("Could not read candidate markup, skipping")

			continue
		}

		if _, dup := seen[sig]; dup {
			continue
		}

		seen[sig] = struct{}{}
		retained++

		*out = append(*out, Candidate{
			Element:   handle,
			FormID:    fmt.Sprintf("%s_%d", strat.name, retained),
			Strategy:  strat.name,
			Signature: sig,
		})
	}

	return retained
}
