package models

// CodePolicyDenied is the status code carried on policy denials. It signals a
// client-side rejection to the API server; transport-level codes stay 200.
const CodePolicyDenied int32 = 402

// Verdict is the result of one rule evaluating one sub-unit. Immutable once
// produced.
type Verdict struct {
	Rule    string
	SubUnit string
	Passed  bool
	Message string
	Reason  string
}

// PassingVerdict records that a rule found nothing wrong with a sub-unit.
func PassingVerdict(rule, subUnit string) Verdict {
	return Verdict{Rule: rule, SubUnit: subUnit, Passed: true}
}

// FailingVerdict records a rule violation on a sub-unit.
func FailingVerdict(rule, subUnit, message, reason string) Verdict {
	return Verdict{
		Rule:    rule,
		SubUnit: subUnit,
		Passed:  false,
		Message: message,
		Reason:  reason,
	}
}

// Decision is the aggregate outcome of running every configured rule against
// one target. Allowed is true iff every verdict passed. Message and Reason are
// taken from the first failing verdict in rule-then-sub-unit order; Violations
// keeps every failing verdict so observability does not depend on which
// message won.
type Decision struct {
	Allowed    bool
	Code       int32
	Message    string
	Reason     string
	Violations []Verdict
}

// Allow is the decision for a target no rule objected to.
func Allow() Decision {
	return Decision{Allowed: true}
}

// Deny builds a denial with the policy-rejection status code.
func Deny(message, reason string) Decision {
	return Decision{
		Allowed: false,
		Code:    CodePolicyDenied,
		Message: message,
		Reason:  reason,
	}
}
