package engine

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/upb/admission-webhook/models"
	"github.com/upb/admission-webhook/services/rules"
)

// failOn fails every sub-unit whose name is in its set.
type failOn struct {
	name string
	bad  map[string]bool
}

func (r failOn) Name() string { return r.name }

func (r failOn) Evaluate(target models.ExtractedTarget) []models.Verdict {
	verdicts := make([]models.Verdict, 0, len(target.SubUnits))
	for _, unit := range target.SubUnits {
		if r.bad[unit.Name] {
			verdicts = append(verdicts, models.FailingVerdict(
				r.name, unit.Name,
				fmt.Sprintf("%s rejects %s", r.name, unit.Name),
				fmt.Sprintf("%s/%s", r.name, unit.Name)))
			continue
		}
		verdicts = append(verdicts, models.PassingVerdict(r.name, unit.Name))
	}
	return verdicts
}

type crashingRule struct{}

func (crashingRule) Name() string { return "crasher" }
func (crashingRule) Evaluate(models.ExtractedTarget) []models.Verdict {
	panic("nil map write")
}

func target(names ...string) models.ExtractedTarget {
	units := make([]models.SubUnit, 0, len(names))
	for _, n := range names {
		units = append(units, models.SubUnit{Name: n})
	}
	return models.ExtractedTarget{Name: "pod", SubUnits: units}
}

func TestDecideAllPass(t *testing.T) {
	e := New([]rules.Rule{failOn{name: "r1"}})
	decision := e.Decide(target("a", "b"))

	assert.True(t, decision.Allowed)
	assert.Empty(t, decision.Violations)
	assert.Empty(t, decision.Message)
}

func TestDecideNoRulesAllows(t *testing.T) {
	e := New(nil)
	assert.True(t, e.Decide(target("a")).Allowed)
}

func TestDecideSingleFailure(t *testing.T) {
	e := New([]rules.Rule{failOn{name: "r1", bad: map[string]bool{"b": true}}})
	decision := e.Decide(target("a", "b"))

	require.False(t, decision.Allowed)
	assert.Equal(t, models.CodePolicyDenied, decision.Code)
	assert.Equal(t, "r1 rejects b", decision.Message)
	assert.Equal(t, "r1/b", decision.Reason)
	assert.Len(t, decision.Violations, 1)
}

func TestDecideFirstFailingVerdictWins(t *testing.T) {
	// Both sub-units fail r1; first in sub-unit order supplies the message.
	e := New([]rules.Rule{failOn{name: "r1", bad: map[string]bool{"a": true, "b": true}}})
	decision := e.Decide(target("a", "b"))

	require.False(t, decision.Allowed)
	assert.Equal(t, "r1 rejects a", decision.Message)
	assert.Len(t, decision.Violations, 2, "all violations are still collected")
}

func TestDecideRuleOrderFixesRepresentativeMessage(t *testing.T) {
	r1 := failOn{name: "r1", bad: map[string]bool{"b": true}}
	r2 := failOn{name: "r2", bad: map[string]bool{"a": true}}

	forward := New([]rules.Rule{r1, r2}).Decide(target("a", "b"))
	reversed := New([]rules.Rule{r2, r1}).Decide(target("a", "b"))

	// The boolean is order-independent; only the representative message moves.
	assert.False(t, forward.Allowed)
	assert.False(t, reversed.Allowed)
	assert.Equal(t, "r1 rejects b", forward.Message)
	assert.Equal(t, "r2 rejects a", reversed.Message)
	assert.Len(t, forward.Violations, 2)
	assert.Len(t, reversed.Violations, 2)
}

func TestDecideDoesNotShortCircuit(t *testing.T) {
	r1 := failOn{name: "r1", bad: map[string]bool{"a": true}}
	r2 := failOn{name: "r2", bad: map[string]bool{"b": true}}

	decision := New([]rules.Rule{r1, r2}).Decide(target("a", "b"))

	require.Len(t, decision.Violations, 2)
	assert.Equal(t, "r1", decision.Violations[0].Rule)
	assert.Equal(t, "r2", decision.Violations[1].Rule)
}

func TestDecideIdempotent(t *testing.T) {
	e := New([]rules.Rule{failOn{name: "r1", bad: map[string]bool{"a": true}}})
	tgt := target("a", "b")

	first := e.Decide(tgt)
	second := e.Decide(tgt)

	assert.Equal(t, first, second)
}

func TestDecideContainsCrashingRule(t *testing.T) {
	e := New([]rules.Rule{crashingRule{}, failOn{name: "r2"}})
	decision := e.Decide(target("a"))

	require.False(t, decision.Allowed)
	assert.Contains(t, decision.Reason, "crasher")
	assert.Contains(t, decision.Reason, "nil map write")
	require.Len(t, decision.Violations, 1)
}

func TestRuleNames(t *testing.T) {
	e := New([]rules.Rule{failOn{name: "r1"}, failOn{name: "r2"}})
	assert.Equal(t, []string{"r1", "r2"}, e.RuleNames())
}

func TestRespondAllowed(t *testing.T) {
	review := &models.AdmissionReview{
		APIVersion: "admission.k8s.io/v1",
		Kind:       "AdmissionReview",
		Request:    &models.AdmissionRequest{UID: "uid-7"},
	}

	out := Respond(review, models.Allow())

	assert.Equal(t, "admission.k8s.io/v1", out.APIVersion)
	assert.Equal(t, "AdmissionReview", out.Kind)
	require.NotNil(t, out.Response)
	assert.Equal(t, "uid-7", out.Response.UID)
	assert.True(t, out.Response.Allowed)
	assert.Nil(t, out.Response.Status, "allowed responses carry no status block")
}

func TestRespondDenied(t *testing.T) {
	review := &models.AdmissionReview{
		APIVersion: "admission.k8s.io/v1beta1",
		Kind:       "AdmissionReview",
		Request:    &models.AdmissionRequest{UID: "uid-8"},
	}
	decision := models.Deny(`container "c" configures environment variables`, "container c uses env")

	out := Respond(review, decision)

	assert.Equal(t, "admission.k8s.io/v1beta1", out.APIVersion)
	require.NotNil(t, out.Response.Status)
	assert.Equal(t, "Failure", out.Response.Status.Status)
	assert.Equal(t, models.CodePolicyDenied, out.Response.Status.Code)
	assert.Equal(t, "container c uses env", out.Response.Status.Reason)
	assert.False(t, out.Response.Allowed)
}
