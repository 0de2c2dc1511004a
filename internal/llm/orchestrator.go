package llm

import (
	"context"
	"time"

	"jisang-advisory/internal/errs"
	"jisang-advisory/internal/models"
	"jisang-advisory/pkg/retry"

	"go.uber.org/zap"
)

// EngineStandardFallback marks narratives synthesized locally after every
// backend candidate was exhausted.
const EngineStandardFallback = "standard-fallback"

// Orchestrator walks an ordered backend chain with bounded retry. Infer
// never fails: exhaustion degrades to a narrative derived from the
// FactRecord, so callers always receive usable text.
type Orchestrator struct {
	backends       []Generator
	policy         retry.Policy
	attemptTimeout time.Duration
	logger         *zap.Logger
}

func NewOrchestrator(backends []Generator, policy retry.Policy, attemptTimeout time.Duration, logger *zap.Logger) *Orchestrator {
	if policy.MaxAttempts < 1 {
		policy = retry.DefaultPolicy()
	}
	if attemptTimeout <= 0 {
		attemptTimeout = 30 * time.Second
	}
	return &Orchestrator{
		backends:       backends,
		policy:         policy,
		attemptTimeout: attemptTimeout,
		logger:         logger,
	}
}

// Infer returns the generated narrative and the name of the engine that
// produced it.
func (o *Orchestrator) Infer(ctx context.Context, prompt string, facts *models.FactRecord) (string, string) {
	for _, backend := range o.backends {
		if text, ok := o.tryBackend(ctx, backend, prompt); ok {
			return text, backend.Name()
		}
	}

	o.logger.Warn("all inference backends exhausted, synthesizing fallback narrative",
		zap.Int("backends", len(o.backends)),
		zap.String("address", facts.Address),
	)
	return FallbackNarrative(facts), EngineStandardFallback
}

// tryBackend runs up to MaxAttempts calls against one candidate. A
// transient failure consumes the next backoff slot and retries; a hard
// failure abandons the candidate immediately without sleeping.
func (o *Orchestrator) tryBackend(ctx context.Context, backend Generator, prompt string) (string, bool) {
	for attempt := 0; attempt < o.policy.MaxAttempts; attempt++ {
		attemptCtx, cancel := context.WithTimeout(ctx, o.attemptTimeout)
		text, err := backend.Generate(attemptCtx, prompt)
		cancel()

		if err == nil {
			return text, true
		}

		failure := Classify(err)
		if !errs.IsRetryable(failure) {
			o.logger.Warn("backend rejected request, skipping candidate",
				zap.String("backend", backend.Name()),
				zap.String("code", string(failure.Code)),
				zap.Error(err),
			)
			return "", false
		}

		o.logger.Info("transient inference failure",
			zap.String("backend", backend.Name()),
			zap.String("code", string(failure.Code)),
			zap.Int("attempt", attempt+1),
			zap.Error(err),
		)

		if attempt < o.policy.MaxAttempts-1 {
			if err := o.policy.Sleep(ctx, attempt); err != nil {
				return "", false
			}
		}
	}
	return "", false
}
