package rules

import (
	"fmt"
	"os"

	"github.com/upb/admission-webhook/services"
	"gopkg.in/yaml.v3"
)

// RuleConfig enables one named rule. Order in the file is evaluation order,
// which also fixes which failing verdict wins the response message.
type RuleConfig struct {
	Name    string `yaml:"name"`
	Enabled bool   `yaml:"enabled"`
}

// Config is the on-disk rule-set configuration.
type Config struct {
	Rules []RuleConfig `yaml:"rules"`
}

// constructors maps configuration names to rule factories. Adding a rule means
// adding an entry here; the engine itself never changes.
var constructors = map[string]func() Rule{
	EnvVarDenyName: func() Rule { return NewEnvVarDenyRule() },
}

// LoadConfig reads a rule-set configuration from a YAML file.
func LoadConfig(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, services.WrapError(services.ErrorTypeValidation,
			fmt.Sprintf("cannot read rules file %s", path), err)
	}

	var cfg Config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, services.WrapError(services.ErrorTypeValidation,
			fmt.Sprintf("cannot parse rules file %s", path), err)
	}

	return &cfg, nil
}

// Build turns a configuration into the ordered list of active rules. Unknown
// names are a configuration error: silently ignoring one would enforce less
// policy than the operator asked for.
func Build(cfg *Config) ([]Rule, error) {
	active := make([]Rule, 0, len(cfg.Rules))
	for _, rc := range cfg.Rules {
		construct, ok := constructors[rc.Name]
		if !ok {
			return nil, services.NewDomainError(services.ErrorTypeValidation,
				fmt.Sprintf("unknown rule %q in configuration", rc.Name), nil).
				WithDetail("rule", rc.Name)
		}
		if !rc.Enabled {
			continue
		}
		active = append(active, construct())
	}
	return active, nil
}

// Default returns the rule set used when no rules file is configured.
func Default() []Rule {
	return []Rule{NewEnvVarDenyRule()}
}
