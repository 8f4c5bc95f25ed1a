package app

import (
	"context"
	"fmt"

	"github.com/upb/admission-webhook/config"
	"github.com/upb/admission-webhook/repositories"
	"github.com/upb/admission-webhook/repositories/postgres"
	"github.com/upb/admission-webhook/services/admission"
	"github.com/upb/admission-webhook/services/audit"
	"github.com/upb/admission-webhook/services/codec"
	"github.com/upb/admission-webhook/services/engine"
	"github.com/upb/admission-webhook/services/extract"
	"github.com/upb/admission-webhook/services/rules"
	"go.uber.org/zap"
)

// Dependencies holds all application dependencies. This is the central wiring
// point for dependency injection.
type Dependencies struct {
	// Infrastructure
	Config *config.Config
	DB     *postgres.DB // nil when no audit database is configured
	Logger *zap.Logger

	// Repositories
	ReviewAudits repositories.ReviewAuditRepository

	// Services
	Audit     *audit.Service // nil when no audit database is configured
	Admission *admission.Service
	Engine    *engine.Engine
}

// NewDependencies creates and wires up all application dependencies.
func NewDependencies(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Dependencies, error) {
	deps := &Dependencies{
		Config: cfg,
		Logger: logger,
	}

	active, err := loadRules(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to load rules: %w", err)
	}
	deps.Engine = engine.New(active)

	if err := deps.initAudit(ctx, cfg); err != nil {
		return nil, fmt.Errorf("failed to initialize audit trail: %w", err)
	}

	var recorder admission.Recorder
	if deps.Audit != nil {
		recorder = deps.Audit
	}

	deps.Admission = admission.NewService(
		codec.New(),
		extract.NewRegistry(extract.NewPodExtractor()),
		deps.Engine,
		admission.UnsupportedKindPolicy(cfg.Webhook.UnsupportedKindPolicy),
		logger,
		recorder,
	)

	logger.Info("all dependencies initialized",
		zap.Strings("rules", deps.Engine.RuleNames()),
		zap.String("unsupported_kind_policy", cfg.Webhook.UnsupportedKindPolicy),
		zap.Bool("audit_enabled", deps.Audit != nil))
	return deps, nil
}

// loadRules builds the active rule set from the configured file, falling back
// to the built-in defaults when none is set.
func loadRules(cfg *config.Config, logger *zap.Logger) ([]rules.Rule, error) {
	if cfg.Webhook.RulesFile == "" {
		logger.Info("no rules file configured, using default rule set")
		return rules.Default(), nil
	}

	rc, err := rules.LoadConfig(cfg.Webhook.RulesFile)
	if err != nil {
		return nil, err
	}
	return rules.Build(rc)
}

// initAudit initializes the optional audit database, repository and worker
// service. A webhook without an audit database simply records nothing.
func (d *Dependencies) initAudit(ctx context.Context, cfg *config.Config) error {
	if cfg.AuditDatabase == nil {
		d.Logger.Info("no audit database configured, audit trail disabled")
		return nil
	}

	db, err := postgres.NewDB(*cfg.AuditDatabase, d.Logger)
	if err != nil {
		return fmt.Errorf("failed to connect audit database: %w", err)
	}
	if err := db.InitSchema(ctx); err != nil {
		return err
	}

	d.DB = db
	d.ReviewAudits = postgres.NewReviewAuditRepository(db, d.Logger)
	d.Audit = audit.NewService(d.ReviewAudits, d.Logger, audit.DefaultConfig())
	return nil
}

// Close releases held resources.
func (d *Dependencies) Close() {
	if d.DB != nil {
		if err := d.DB.Close(); err != nil {
			d.Logger.Error("failed to close audit database", zap.Error(err))
		}
	}
}
