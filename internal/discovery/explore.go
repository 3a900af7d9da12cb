package discovery

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/shobhitxp/QAAItestgenerator/internal/ports"
	"github.com/shobhitxp/QAAItestgenerator/pkg/logg"
	"github.com/shobhitxp/QAAItestgenerator/pkg/tracing"
)

const triggerBattery = `button, input[type='submit'], input[type='button'], a[href*='contact'], a[href*='sign'], a[href*='register'], a[href*='login']`

// actionKeywords marks clickable text as a plausible form trigger.
var actionKeywords = []string{
	"add", "create", "new", "submit", "contact",
	"sign", "register", "login", "email", "message",
}

// Explore clicks action-like triggers to reveal forms that only exist
// after interaction, re-running discovery after each click and merging new
// candidates under the same dedup rule. Navigation side effects are undone
// before the next trigger. The input slice is returned extended.
func (s *Service) Explore(ctx context.Context, session ports.Session, found []Candidate) (candidates []Candidate, err error) {
	const op = "Explore"
	logger := s.logger.With(zap.String(logg.Operation, op))

	ctx, step := tracing.StartSpan(ctx, s.tracer, logger, op,
		attribute.Int("known_candidates", len(found)))
	defer func() {
		step.End(err)
	}()

	candidates = found

	origin, err := session.URL(ctx)
	if err != nil {
		logger.Warn("Could not read origin URL, skipping exploration", zap.Error(err))

		return candidates, nil
	}

	triggers := s.collectTriggers(ctx, session, logger)
	step.SetAttributes(attribute.Int("triggers", len(triggers)))

	seen := make(map[string]struct{}, len(candidates))
	for _, c := range candidates {
		seen[c.Signature] = struct{}{}
	}

	settle := time.Duration(s.config.PipelineConfig.TriggerSettleMillis) * time.Millisecond
	attempted := 0

	for _, trigger := range triggers {
		if attempted >= s.config.PipelineConfig.MaxTriggers {
			break
		}

		attempted++
		step.AddEvent(fmt.Sprintf("clicking trigger %d", attempted))

		if err := trigger.Click(ctx); err != nil {
			logger.Warn("Trigger click failed, skipping", zap.Error(err))

			continue
		}

		session.WaitForTimeout(ctx, settle)

		revealed := s.discoverRevealed(ctx, session, seen, attempted)
		if len(revealed) > 0 {
			logger.Info("Trigger revealed new candidates",
				zap.Int("trigger", attempted),
				zap.Int("revealed", len(revealed)))
			candidates = append(candidates, revealed...)
		}

		// A trigger may have navigated away; restore the origin before the
		// next one so every attempt starts from the same page.
		if current, uerr := session.URL(ctx); uerr == nil && current != origin {
			step.AddEvent("restoring origin after navigation")

			if nerr := session.Navigate(ctx, origin); nerr != nil {
				logger.Warn("Could not return to origin, stopping exploration", zap.Error(nerr))

				break
			}

			session.WaitForTimeout(ctx, settle)
		}
	}

	return candidates, nil
}

func (s *Service) collectTriggers(ctx context.Context, session ports.Session, logger *zap.Logger) []ports.Element {
	handles, err := session.QueryAll(ctx, triggerBattery)
	if err != nil {
		logger.Warn("Trigger query failed", zap.Error(err))

		return nil
	}

	if limit := s.config.PipelineConfig.TriggerScanLimit; limit > 0 && len(handles) > limit {
		handles = handles[:limit]
	}

	var triggers []ports.Element

	for _, handle := range handles {
		text, terr := handle.InnerText(ctx)
		if terr != nil || text == "" {
			continue
		}

		lower := strings.ToLower(text)

		for _, keyword := range actionKeywords {
			if strings.Contains(lower, keyword) {
				triggers = append(triggers, handle)

				break
			}
		}
	}

	return triggers
}

func (s *Service) discoverRevealed(ctx context.Context, session ports.Session, seen map[string]struct{}, triggerOrdinal int) []Candidate {
	handles, err := session.QueryAll(ctx, revealBattery)
	if err != nil {
		s.logger.Warn("Reveal query failed", zap.Error(err))

		return nil
	}

	var revealed []Candidate

	for _, handle := range handles {
		sig, ok := signatureOf(ctx, handle)
		if !ok {
			continue
		}

		if _, dup := seen[sig]; dup {
			continue
		}

		seen[sig] = struct{}{}

		revealed = append(revealed, Candidate{
			Element:   handle,
			FormID:    fmt.Sprintf("%s_%d_%d", strategyDynamic, triggerOrdinal, len(revealed)+1),
			Strategy:  strategyDynamic,
			Signature: sig,
		})
	}

	return revealed
}
