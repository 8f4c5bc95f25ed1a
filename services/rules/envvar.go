package rules

import (
	"fmt"

	"github.com/upb/admission-webhook/models"
)

// EnvVarDenyName is the configuration name of the env-var denial rule.
const EnvVarDenyName = "deny-env-vars"

// EnvVarDenyRule rejects workloads that self-configure through injected
// environment values: every sub-unit whose spec carries an env field fails,
// whether or not the list has entries.
type EnvVarDenyRule struct{}

// NewEnvVarDenyRule creates a new EnvVarDenyRule
func NewEnvVarDenyRule() EnvVarDenyRule {
	return EnvVarDenyRule{}
}

// Name implements Rule.
func (EnvVarDenyRule) Name() string {
	return EnvVarDenyName
}

// Evaluate produces one verdict per sub-unit.
func (EnvVarDenyRule) Evaluate(target models.ExtractedTarget) []models.Verdict {
	verdicts := make([]models.Verdict, 0, len(target.SubUnits))
	for _, unit := range target.SubUnits {
		if !unit.HasEnvSource {
			verdicts = append(verdicts, models.PassingVerdict(EnvVarDenyName, unit.Name))
			continue
		}
		verdicts = append(verdicts, models.FailingVerdict(
			EnvVarDenyName,
			unit.Name,
			fmt.Sprintf("container %q configures environment variables; env-based configuration is not allowed", unit.Name),
			fmt.Sprintf("container %s uses env", unit.Name),
		))
	}
	return verdicts
}
