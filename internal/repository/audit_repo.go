package repository

import (
	"context"

	"hospital-directory/internal/models"
	"hospital-directory/internal/query"
)

type AuditRepository struct {
	logs Collection[models.AuditLog]
}

func NewAuditRepo(logs Collection[models.AuditLog]) *AuditRepository {
	return &AuditRepository{logs: logs}
}

// CreateAuditLog creates a new audit log entry
func (r *AuditRepository) CreateAuditLog(ctx context.Context, userID *uint, action string, details string) error {
	log := &models.AuditLog{
		UserID:  userID,
		Action:  action,
		Details: details,
	}
	return r.logs.Create(ctx, log)
}

// ListAuditLogs returns one page of audit rows, newest first
func (r *AuditRepository) ListAuditLogs(ctx context.Context, filter models.AuditFilter, page query.Page) ([]models.AuditLog, int64, error) {
	return r.logs.Find(ctx, filter.Predicate(), models.ByNewest, page)
}
