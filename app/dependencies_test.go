package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/upb/admission-webhook/config"
	"go.uber.org/zap"
)

func baseConfig() *config.Config {
	return &config.Config{
		Environment: "development",
		Webhook: config.WebhookConfig{
			UnsupportedKindPolicy: "allow",
			ReviewTimeout:         5 * time.Second,
			MaxRequestBytes:       1 << 20,
		},
	}
}

func TestNewDependenciesDefaults(t *testing.T) {
	deps, err := NewDependencies(context.Background(), baseConfig(), zap.NewNop())
	require.NoError(t, err)

	assert.NotNil(t, deps.Admission)
	assert.NotNil(t, deps.Engine)
	assert.Equal(t, []string{"deny-env-vars"}, deps.Engine.RuleNames())
	assert.Nil(t, deps.DB, "no audit database configured")
	assert.Nil(t, deps.Audit)
}

func TestNewDependenciesWithRulesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
rules:
  - name: deny-env-vars
    enabled: false
`), 0o600))

	cfg := baseConfig()
	cfg.Webhook.RulesFile = path

	deps, err := NewDependencies(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	assert.Empty(t, deps.Engine.RuleNames())
}

func TestNewDependenciesBadRulesFile(t *testing.T) {
	cfg := baseConfig()
	cfg.Webhook.RulesFile = filepath.Join(t.TempDir(), "absent.yaml")

	_, err := NewDependencies(context.Background(), cfg, zap.NewNop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load rules")
}

func TestCloseWithoutDatabase(t *testing.T) {
	deps, err := NewDependencies(context.Background(), baseConfig(), zap.NewNop())
	require.NoError(t, err)
	deps.Close()
}
