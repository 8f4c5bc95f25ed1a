// Package rules holds the policy rules the decision engine runs. A rule is a
// pure predicate over an extracted target: no I/O, no mutation of its input,
// and total over any target a conformant extractor can produce.
package rules

import (
	"fmt"

	"github.com/upb/admission-webhook/models"
)

// Rule evaluates one policy against an extracted target, producing one verdict
// per sub-unit it inspects. Implementations must never fail: an internal
// anomaly has to surface as a failing verdict, not a fault, because the caller
// treats a crash here as "deny everything, cluster-wide".
type Rule interface {
	// Name identifies the rule in configuration, verdicts and logs.
	Name() string

	// Evaluate inspects the target's sub-units.
	Evaluate(target models.ExtractedTarget) []models.Verdict
}

// SafeEvaluate runs a rule and converts a panic into a single failing verdict
// describing the anomaly. The engine calls every rule through this.
func SafeEvaluate(r Rule, target models.ExtractedTarget) (verdicts []models.Verdict) {
	defer func() {
		if rec := recover(); rec != nil {
			verdicts = []models.Verdict{
				models.FailingVerdict(
					r.Name(),
					target.Name,
					fmt.Sprintf("rule %q failed internally while reviewing %q; denying as a precaution", r.Name(), target.Name),
					fmt.Sprintf("rule %s internal fault: %v", r.Name(), rec),
				),
			}
		}
	}()
	return r.Evaluate(target)
}
