package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/upb/admission-webhook/models"
	"github.com/upb/admission-webhook/repositories"
	"go.uber.org/zap"
)

// ReviewAuditRepository implements the repositories.ReviewAuditRepository interface
type ReviewAuditRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewReviewAuditRepository creates a new audit repository
func NewReviewAuditRepository(db *DB, logger *zap.Logger) repositories.ReviewAuditRepository {
	return &ReviewAuditRepository{
		db:     db,
		logger: logger,
	}
}

// Insert inserts a new audit entry
func (r *ReviewAuditRepository) Insert(ctx context.Context, entry *models.ReviewAudit) error {
	query := `
		INSERT INTO review_audits (
			id, request_uid, operation, kind, object_name,
			outcome, reason, message, violations, latency_ms, timestamp
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11
		)
	`

	_, err := r.db.ExecContext(ctx, query,
		entry.ID,
		entry.RequestUID,
		entry.Operation,
		entry.Kind,
		entry.ObjectName,
		entry.Outcome,
		entry.Reason,
		entry.Message,
		entry.Violations,
		entry.LatencyMs,
		entry.Timestamp,
	)

	if err != nil {
		return fmt.Errorf("failed to insert audit entry: %w", err)
	}

	r.logger.Debug("audit entry inserted",
		zap.String("id", entry.ID.String()),
		zap.String("request_uid", entry.RequestUID))
	return nil
}

// GetByID retrieves an audit entry by ID
func (r *ReviewAuditRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.ReviewAudit, error) {
	query := `
		SELECT id, request_uid, operation, kind, object_name,
		       outcome, reason, message, violations, latency_ms, timestamp
		FROM review_audits
		WHERE id = $1
	`

	entry := &models.ReviewAudit{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&entry.ID,
		&entry.RequestUID,
		&entry.Operation,
		&entry.Kind,
		&entry.ObjectName,
		&entry.Outcome,
		&entry.Reason,
		&entry.Message,
		&entry.Violations,
		&entry.LatencyMs,
		&entry.Timestamp,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("audit entry not found: %s", id)
		}
		return nil, fmt.Errorf("failed to get audit entry: %w", err)
	}

	return entry, nil
}

// ListRecent retrieves the most recent audit entries with pagination
func (r *ReviewAuditRepository) ListRecent(ctx context.Context, limit, offset int) ([]*models.ReviewAudit, error) {
	query := `
		SELECT id, request_uid, operation, kind, object_name,
		       outcome, reason, message, violations, latency_ms, timestamp
		FROM review_audits
		ORDER BY timestamp DESC
		LIMIT $1 OFFSET $2
	`

	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list audit entries: %w", err)
	}
	defer rows.Close()

	return scanEntries(rows)
}

// ListByRequestUID retrieves every entry recorded for one request uid
func (r *ReviewAuditRepository) ListByRequestUID(ctx context.Context, requestUID string) ([]*models.ReviewAudit, error) {
	query := `
		SELECT id, request_uid, operation, kind, object_name,
		       outcome, reason, message, violations, latency_ms, timestamp
		FROM review_audits
		WHERE request_uid = $1
		ORDER BY timestamp DESC
	`

	rows, err := r.db.QueryContext(ctx, query, requestUID)
	if err != nil {
		return nil, fmt.Errorf("failed to list audit entries by request uid: %w", err)
	}
	defer rows.Close()

	return scanEntries(rows)
}

func scanEntries(rows *sql.Rows) ([]*models.ReviewAudit, error) {
	entries := make([]*models.ReviewAudit, 0)
	for rows.Next() {
		entry := &models.ReviewAudit{}
		if err := rows.Scan(
			&entry.ID,
			&entry.RequestUID,
			&entry.Operation,
			&entry.Kind,
			&entry.ObjectName,
			&entry.Outcome,
			&entry.Reason,
			&entry.Message,
			&entry.Violations,
			&entry.LatencyMs,
			&entry.Timestamp,
		); err != nil {
			return nil, fmt.Errorf("failed to scan audit entry: %w", err)
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate audit entries: %w", err)
	}

	return entries, nil
}
