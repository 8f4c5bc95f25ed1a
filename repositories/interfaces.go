// Package repositories defines the persistence interfaces the service layer
// depends on. The decision pipeline itself is stateless; only the audit trail
// is persisted.
package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/upb/admission-webhook/models"
)

// ReviewAuditRepository stores the audit trail of completed reviews.
type ReviewAuditRepository interface {
	// Insert inserts a new audit entry
	Insert(ctx context.Context, entry *models.ReviewAudit) error

	// GetByID retrieves an audit entry by ID
	GetByID(ctx context.Context, id uuid.UUID) (*models.ReviewAudit, error)

	// ListRecent retrieves the most recent audit entries with pagination
	ListRecent(ctx context.Context, limit, offset int) ([]*models.ReviewAudit, error)

	// ListByRequestUID retrieves every entry recorded for one request uid
	ListByRequestUID(ctx context.Context, requestUID string) ([]*models.ReviewAudit, error)
}
