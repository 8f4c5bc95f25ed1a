// Package admission wires the review pipeline together: decode the envelope,
// extract the target, run the decision engine, and build the response. Each
// review is an independent, side-effect-free pass over its own input; the only
// collaborators with side effects (logger, audit recorder) are injected and
// optional.
package admission

import (
	"context"
	"fmt"
	"time"

	"github.com/upb/admission-webhook/models"
	"github.com/upb/admission-webhook/services"
	"github.com/upb/admission-webhook/services/codec"
	"github.com/upb/admission-webhook/services/engine"
	"github.com/upb/admission-webhook/services/extract"
	"go.uber.org/zap"
)

// UnsupportedKindPolicy decides what happens to objects no extractor
// understands. The choice is configuration, never hardcoded: the same engine
// may be wired to several resource kinds with different risk appetites.
type UnsupportedKindPolicy string

const (
	// UnsupportedKindAllow admits objects of unrecognized kinds.
	UnsupportedKindAllow UnsupportedKindPolicy = "allow"

	// UnsupportedKindDeny rejects objects of unrecognized kinds.
	UnsupportedKindDeny UnsupportedKindPolicy = "deny"
)

// Valid reports whether the policy is one of the two recognized values.
func (p UnsupportedKindPolicy) Valid() bool {
	return p == UnsupportedKindAllow || p == UnsupportedKindDeny
}

// Recorder receives one audit entry per completed review. Implementations
// must not block: recording happens after the decision and must never delay
// or fail a response.
type Recorder interface {
	Record(audit *models.ReviewAudit)
}

// Service runs the full review pipeline.
type Service struct {
	codec      *codec.Codec
	extractors *extract.Registry
	engine     *engine.Engine
	policy     UnsupportedKindPolicy
	logger     *zap.Logger
	recorder   Recorder
}

// NewService creates a new admission Service. The recorder may be nil when no
// audit trail is configured.
func NewService(c *codec.Codec, extractors *extract.Registry, e *engine.Engine, policy UnsupportedKindPolicy, logger *zap.Logger, recorder Recorder) *Service {
	return &Service{
		codec:      c,
		extractors: extractors,
		engine:     e,
		policy:     policy,
		logger:     logger,
		recorder:   recorder,
	}
}

// Review runs one admission review over a raw envelope and returns the
// encoded response envelope. Codec and extractor errors abort the pipeline
// before any rule runs and surface to the transport layer as-is; an
// unsupported kind is resolved by the configured policy instead.
func (s *Service) Review(ctx context.Context, raw []byte) ([]byte, error) {
	start := time.Now()

	review, err := s.codec.Decode(raw)
	if err != nil {
		s.logger.Warn("rejecting review envelope", zap.Error(err))
		return nil, err
	}

	request := review.Request
	objectName := ""

	var decision models.Decision
	target, err := s.extractors.Extract(request)
	switch {
	case err == nil:
		objectName = target.Name
		decision = s.engine.Decide(*target)
	case services.IsUnsupportedKindError(err):
		decision = s.decideUnsupportedKind(request, err)
	default:
		s.logger.Error("extraction failed",
			zap.String("request_uid", request.UID),
			zap.Error(err))
		return nil, err
	}

	s.observe(request, decision, time.Since(start))

	if s.recorder != nil {
		s.recorder.Record(models.NewReviewAudit(request, objectName, decision, time.Since(start)))
	}

	return s.codec.Encode(engine.Respond(review, decision))
}

// decideUnsupportedKind maps an unrecognized kind onto the configured default.
func (s *Service) decideUnsupportedKind(request *models.AdmissionRequest, cause error) models.Decision {
	kind := request.TargetKind()
	s.logger.Info("object kind not recognized",
		zap.String("request_uid", request.UID),
		zap.String("kind", kind.String()),
		zap.String("policy", string(s.policy)),
		zap.Error(cause))

	if s.policy == UnsupportedKindDeny {
		return models.Deny(
			fmt.Sprintf("kind %s is not recognized by this webhook and the unsupported-kind policy is deny", kind),
			fmt.Sprintf("unsupported kind %s", kind),
		)
	}
	return models.Allow()
}

// observe emits one structured event per review plus one per violation, so
// every offending sub-unit is visible regardless of which message won.
func (s *Service) observe(request *models.AdmissionRequest, decision models.Decision, latency time.Duration) {
	for _, v := range decision.Violations {
		s.logger.Info("admission rule violation",
			zap.String("request_uid", request.UID),
			zap.String("rule", v.Rule),
			zap.String("sub_unit", v.SubUnit),
			zap.String("reason", v.Reason))
	}

	s.logger.Info("admission review complete",
		zap.String("request_uid", request.UID),
		zap.String("operation", string(request.Operation)),
		zap.String("kind", request.TargetKind().String()),
		zap.Bool("allowed", decision.Allowed),
		zap.Int("violations", len(decision.Violations)),
		zap.Duration("latency", latency))
}
