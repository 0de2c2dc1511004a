// Package llm wraps the external text-generation capability behind an
// ordered candidate chain with bounded retry and a deterministic fallback.
package llm

import (
	"context"
	"errors"
	"strings"

	"jisang-advisory/internal/errs"
)

// Generator is a single generation backend. Implementations return raw
// model text; failure classification happens in Classify.
type Generator interface {
	Name() string
	Generate(ctx context.Context, prompt string) (string, error)
}

// Classify maps an arbitrary backend failure onto the pipeline taxonomy.
// Unknown failures are treated as transient: the attempt budget bounds
// them, and a wrongly-skipped candidate is worse than a wasted retry.
func Classify(err error) *errs.Error {
	var appErr *errs.Error
	if errors.As(err, &appErr) {
		return appErr
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return errs.Transient(errs.CodeInferenceTimeout, "generation attempt timed out", err)
	}
	if errors.Is(err, context.Canceled) {
		return errs.Rejected("generation cancelled", err)
	}

	msg := strings.ToLower(err.Error())
	switch {
	case containsAny(msg, "401", "403", "unauthorized", "permission", "api key", "credential"):
		return errs.Rejected("backend rejected credentials", err)
	case containsAny(msg, "404", "not found", "unknown model"):
		return errs.Rejected("model not found", err)
	case containsAny(msg, "400", "invalid request", "malformed"):
		return errs.Rejected("malformed generation request", err)
	case containsAny(msg, "429", "rate", "quota", "exhausted", "overload"):
		return errs.Transient(errs.CodeInferenceThrottled, "backend throttled", err)
	case containsAny(msg, "timeout", "deadline"):
		return errs.Transient(errs.CodeInferenceTimeout, "generation attempt timed out", err)
	default:
		return errs.Transient(errs.CodeInferenceThrottled, "transient backend failure", err)
	}
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
