package handler

import (
	"github.com/gin-gonic/gin"

	"hospital-directory/internal/config"
	"hospital-directory/internal/models"
	"hospital-directory/internal/service"
	"hospital-directory/pkg/utils"
)

type AuditHandler struct {
	auditService *service.AuditService
	queryCfg     config.QueryConfig
}

func NewAuditHandler(auditService *service.AuditService, queryCfg config.QueryConfig) *AuditHandler {
	return &AuditHandler{
		auditService: auditService,
		queryCfg:     queryCfg,
	}
}

// GetAuditLogs lists audit rows newest first (admin only)
func (h *AuditHandler) GetAuditLogs(c *gin.Context) {
	var filter models.AuditFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		utils.HandleError(c, invalidQuery(err))
		return
	}

	page, err := h.auditService.ListAuditLogs(c.Request.Context(), filter, pageOf(c, h.queryCfg))
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.PaginatedResponse(c, page.Logs, page.Pagination)
}
