package models

import (
	"time"

	"hospital-directory/internal/query"
)

// AuditLog represents the audit_logs table
// One row per change made to the directory
type AuditLog struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    *uint     `gorm:"index" json:"user_id"`
	Action    string    `gorm:"size:100;not null;index" json:"action"`
	Details   string    `gorm:"type:text" json:"details"`
	CreatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName specifies the table name for AuditLog model
func (AuditLog) TableName() string {
	return "audit_logs"
}

// Lookup implements query.Document
func (a AuditLog) Lookup(field string) (any, bool) {
	switch field {
	case "id":
		return a.ID, true
	case "user_id":
		if a.UserID == nil {
			return uint(0), true
		}
		return *a.UserID, true
	case "action":
		return a.Action, true
	case "created_at":
		return unixMilli(a.CreatedAt), true
	}
	return nil, false
}

// AuditFilter lists the optional criteria of GET /audit-logs
type AuditFilter struct {
	Action *string `form:"action"`
	UserID *uint   `form:"user_id"`
}

// Predicate converts the filter into a query predicate
func (f AuditFilter) Predicate() query.Predicate {
	return query.NewFilterBuilder().
		Exact("action", f.Action, query.Verbatim).
		ID("user_id", f.UserID).
		Build()
}

// ByNewest orders audit rows newest first
var ByNewest = query.Sort{Field: "id", Desc: true}
