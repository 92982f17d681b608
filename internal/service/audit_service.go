package service

import (
	"context"

	"hospital-directory/internal/models"
	"hospital-directory/internal/query"
	"hospital-directory/internal/repository"
)

type AuditService struct {
	auditRepo *repository.AuditRepository
}

func NewAuditService(auditRepo *repository.AuditRepository) *AuditService {
	return &AuditService{auditRepo: auditRepo}
}

// AuditPage is one page of audit rows
type AuditPage struct {
	Logs       []models.AuditLog
	Pagination query.Pagination
}

// ListAuditLogs returns audit rows newest first
func (s *AuditService) ListAuditLogs(ctx context.Context, filter models.AuditFilter, page query.Page) (*AuditPage, error) {
	logs, total, err := s.auditRepo.ListAuditLogs(ctx, filter, page)
	if err != nil {
		return nil, err
	}
	if logs == nil {
		logs = []models.AuditLog{}
	}
	return &AuditPage{Logs: logs, Pagination: page.Paginate(total)}, nil
}
