package service

import (
	"context"

	"hospital-directory/pkg/logger"
)

// AuditLogger records changes made to the directory
type AuditLogger interface {
	CreateAuditLog(ctx context.Context, userID *uint, action string, details string) error
}

// StructValidator checks a struct against its binding tags
type StructValidator interface {
	ValidateStruct(obj any) error
}

// audit writes an audit row. A failed write is logged and never fails the change.
func audit(ctx context.Context, a AuditLogger, userID uint, action, details string) {
	var uid *uint
	if userID != 0 {
		uid = &userID
	}
	if err := a.CreateAuditLog(ctx, uid, action, details); err != nil {
		logger.Get().Warn().Err(err).Str("action", action).Msg("failed to write audit log")
	}
}
