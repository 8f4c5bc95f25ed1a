package models

import (
	"time"

	"github.com/google/uuid"
)

// AuditOutcome classifies how a review ended.
type AuditOutcome string

const (
	AuditOutcomeAllowed AuditOutcome = "allowed"
	AuditOutcomeDenied  AuditOutcome = "denied"
)

// ReviewAudit is one audit trail entry for a completed admission review. It is
// written asynchronously after the response has been produced and never
// participates in the decision itself.
type ReviewAudit struct {
	ID         uuid.UUID    `json:"id" db:"id"`
	RequestUID string       `json:"request_uid" db:"request_uid"`
	Operation  Operation    `json:"operation" db:"operation"`
	Kind       string       `json:"kind" db:"kind"`
	ObjectName string       `json:"object_name" db:"object_name"`
	Outcome    AuditOutcome `json:"outcome" db:"outcome"`
	Reason     string       `json:"reason" db:"reason"`
	Message    string       `json:"message" db:"message"`
	Violations int          `json:"violations" db:"violations"`
	LatencyMs  int64        `json:"latency_ms" db:"latency_ms"`
	Timestamp  time.Time    `json:"timestamp" db:"timestamp"`
}

// TableName returns the table name for the ReviewAudit model
func (ReviewAudit) TableName() string {
	return "review_audits"
}

// NewReviewAudit creates an audit entry for a finished review.
func NewReviewAudit(req *AdmissionRequest, objectName string, decision Decision, latency time.Duration) *ReviewAudit {
	audit := &ReviewAudit{
		ID:         uuid.New(),
		RequestUID: req.UID,
		Operation:  req.Operation,
		Kind:       req.TargetKind().String(),
		ObjectName: objectName,
		Outcome:    AuditOutcomeAllowed,
		Violations: len(decision.Violations),
		LatencyMs:  latency.Milliseconds(),
		Timestamp:  time.Now(),
	}
	if !decision.Allowed {
		audit.Outcome = AuditOutcomeDenied
		audit.Reason = decision.Reason
		audit.Message = decision.Message
	}
	return audit
}
