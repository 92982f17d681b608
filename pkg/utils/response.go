package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"hospital-directory/pkg/apperror"
	"hospital-directory/pkg/logger"
)

// SuccessResponse sends a standard success JSON response
func SuccessResponse(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    data,
	})
}

// CreatedResponse sends a standard success JSON response with status 201
func CreatedResponse(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    data,
	})
}

// PaginatedResponse sends a page of rows with its pagination envelope
func PaginatedResponse(c *gin.Context, data interface{}, pagination interface{}) {
	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"data":       data,
		"pagination": pagination,
	})
}

// ErrorResponse sends a standard error JSON response
func ErrorResponse(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, gin.H{
		"success": false,
		"error":   message,
	})
}

// MessageResponse sends a simple message response
func MessageResponse(c *gin.Context, message string) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": message,
	})
}

// StatusCode maps an error type to its HTTP status
func StatusCode(t apperror.ErrorType) int {
	switch t {
	case apperror.ErrorTypeValidation:
		return http.StatusBadRequest
	case apperror.ErrorTypeNotFound:
		return http.StatusNotFound
	case apperror.ErrorTypeConflict:
		return http.StatusConflict
	case apperror.ErrorTypeUnauthorized:
		return http.StatusUnauthorized
	case apperror.ErrorTypeForbidden:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// HandleError writes err as an error response. Internal failures are logged
// and, in release mode, reported without their detail.
func HandleError(c *gin.Context, err error) {
	t := apperror.TypeOf(err)
	status := StatusCode(t)

	if t == apperror.ErrorTypeInternal {
		logger.Get().Error().Err(err).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Msg("request failed")

		message := "internal server error"
		if gin.Mode() != gin.ReleaseMode {
			message = err.Error()
		}
		ErrorResponse(c, status, message)
		return
	}

	ErrorResponse(c, status, apperror.PublicMessage(err))
}
