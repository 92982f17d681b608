package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// HealthCheck reports whether the backing store is reachable
type HealthCheck func(ctx context.Context) error

type HealthHandler struct {
	storage string
	check   HealthCheck
}

func NewHealthHandler(storage string, check HealthCheck) *HealthHandler {
	return &HealthHandler{storage: storage, check: check}
}

// Health answers 200 while the store is reachable and 503 otherwise
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	status, code := "ok", http.StatusOK
	if h.check != nil {
		if err := h.check(ctx); err != nil {
			status, code = "unavailable", http.StatusServiceUnavailable
		}
	}

	c.JSON(code, gin.H{
		"status":  status,
		"storage": h.storage,
		"time":    time.Now().UTC().Format(time.RFC3339),
	})
}
