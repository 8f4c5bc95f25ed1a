// Package engine aggregates per-rule verdicts into one admission decision.
package engine

import (
	"github.com/upb/admission-webhook/models"
	"github.com/upb/admission-webhook/services/rules"
)

// Engine runs a fixed, ordered rule set against extracted targets. It holds no
// mutable state, so one instance serves any number of concurrent reviews.
type Engine struct {
	rules []rules.Rule
}

// New creates an engine over an ordered rule list.
func New(active []rules.Rule) *Engine {
	return &Engine{rules: active}
}

// RuleNames returns the names of the configured rules in evaluation order.
func (e *Engine) RuleNames() []string {
	names := make([]string, 0, len(e.rules))
	for _, r := range e.rules {
		names = append(names, r.Name())
	}
	return names
}

// Decide runs every rule against the target and combines the verdicts.
// The decision is allowed iff every verdict passed. Evaluation never
// short-circuits: every rule sees every sub-unit so the full violation list is
// available for logging and audit. When several verdicts fail, the FIRST
// failing verdict in rule-then-sub-unit order supplies the response message
// and reason; the rest ride along in Violations.
func (e *Engine) Decide(target models.ExtractedTarget) models.Decision {
	decision := models.Allow()
	for _, rule := range e.rules {
		for _, verdict := range rules.SafeEvaluate(rule, target) {
			if verdict.Passed {
				continue
			}
			if decision.Allowed {
				decision = models.Deny(verdict.Message, verdict.Reason)
			}
			decision.Violations = append(decision.Violations, verdict)
		}
	}
	return decision
}
