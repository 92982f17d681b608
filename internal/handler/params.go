package handler

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"hospital-directory/internal/config"
	"hospital-directory/internal/query"
	"hospital-directory/internal/validation"
	"hospital-directory/pkg/apperror"
)

// parseID reads a positive numeric path parameter
func parseID(c *gin.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		return 0, apperror.NewValidationError("Invalid " + name)
	}
	return uint(id), nil
}

// pageOf reads page and limit query parameters
func pageOf(c *gin.Context, cfg config.QueryConfig) query.Page {
	return query.NewPage(c.Query("page"), c.Query("limit"), cfg.DefaultLimit, cfg.MaxLimit)
}

// sortOf reads sort and order query parameters
func sortOf(c *gin.Context, allowed []string, def query.Sort) (query.Sort, error) {
	return query.ParseSort(c.Query("sort"), c.Query("order"), allowed, def)
}

// flag reports whether a query parameter is literally "true"
func flag(c *gin.Context, name string) bool {
	return strings.EqualFold(c.Query(name), "true")
}

// bindJSON decodes the body into obj and validates its binding tags
func bindJSON(c *gin.Context, obj any) error {
	if err := c.ShouldBindJSON(obj); err != nil {
		return apperror.NewValidationError("Invalid request body: " + validation.Message(err))
	}
	return nil
}

func invalidQuery(err error) error {
	return apperror.NewValidationError("Invalid query parameters: " + err.Error())
}
