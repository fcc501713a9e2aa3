package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/xyz-asif/sharebox/internal/pkg/logger"
	apperrors "github.com/xyz-asif/sharebox/pkg/errors"
)

// APIResponse is the envelope every endpoint responds with
type APIResponse struct {
	Success    bool        `json:"success" example:"true"`
	StatusCode int         `json:"statusCode" example:"200"`
	Message    string      `json:"message,omitempty" example:"ok"`
	Data       interface{} `json:"data,omitempty"`
	Code       string      `json:"code,omitempty" example:"VALIDATION_FAILED"`
}

// PaginatedData wraps a page of items
type PaginatedData struct {
	Items   interface{} `json:"items"`
	Total   int64       `json:"total" example:"25"`
	Limit   int         `json:"limit" example:"10"`
	Page    int         `json:"page" example:"1"`
	HasMore bool        `json:"hasMore" example:"true"`
}

// Success sends a 200 OK response with data
func Success(c *gin.Context, data interface{}, message ...string) {
	c.JSON(http.StatusOK, APIResponse{
		Success:    true,
		StatusCode: http.StatusOK,
		Message:    first(message),
		Data:       data,
	})
}

// Created sends a 201 Created response
func Created(c *gin.Context, data interface{}, message ...string) {
	c.JSON(http.StatusCreated, APIResponse{
		Success:    true,
		StatusCode: http.StatusCreated,
		Message:    first(message),
		Data:       data,
	})
}

// Paginated sends a paginated response
func Paginated(c *gin.Context, items interface{}, total int64, limit int, page ...int) {
	pageNum := 1
	if len(page) > 0 {
		pageNum = page[0]
	}

	c.JSON(http.StatusOK, APIResponse{
		Success:    true,
		StatusCode: http.StatusOK,
		Data: PaginatedData{
			Items:   items,
			Total:   total,
			Limit:   limit,
			Page:    pageNum,
			HasMore: int64(pageNum*limit) < total,
		},
	})
}

// Error sends an error response with custom status code and message
func Error(c *gin.Context, statusCode int, message string, errorCode ...string) {
	c.JSON(statusCode, APIResponse{
		Success:    false,
		StatusCode: statusCode,
		Message:    message,
		Code:       first(errorCode),
	})
}

// ErrorWithData is Error with an extra payload, used by the rate limiter
func ErrorWithData(c *gin.Context, statusCode int, message string, data interface{}, errorCode ...string) {
	c.JSON(statusCode, APIResponse{
		Success:    false,
		StatusCode: statusCode,
		Message:    message,
		Data:       data,
		Code:       first(errorCode),
	})
}

// BadRequest sends a 400 Bad Request error
func BadRequest(c *gin.Context, message string, errorCode ...string) {
	Error(c, http.StatusBadRequest, message, errorCode...)
}

// Unauthorized sends a 401 Unauthorized error
func Unauthorized(c *gin.Context, message string, errorCode ...string) {
	Error(c, http.StatusUnauthorized, message, errorCode...)
}

// Forbidden sends a 403 Forbidden error
func Forbidden(c *gin.Context, message string, errorCode ...string) {
	Error(c, http.StatusForbidden, message, errorCode...)
}

// NotFound sends a 404 Not Found error
func NotFound(c *gin.Context, message string, errorCode ...string) {
	Error(c, http.StatusNotFound, message, errorCode...)
}

// Conflict sends a 409 Conflict error
func Conflict(c *gin.Context, message string, errorCode ...string) {
	Error(c, http.StatusConflict, message, errorCode...)
}

// ValidationError sends a 422 Unprocessable Entity error
func ValidationError(c *gin.Context, message string, errorCode ...string) {
	Error(c, http.StatusUnprocessableEntity, message, errorCode...)
}

// InternalServerError sends a 500 Internal Server Error
func InternalServerError(c *gin.Context, message string, errorCode ...string) {
	Error(c, http.StatusInternalServerError, message, errorCode...)
}

// ServiceUnavailable sends a 503 Service Unavailable error
func ServiceUnavailable(c *gin.Context, message string, errorCode ...string) {
	Error(c, http.StatusServiceUnavailable, message, errorCode...)
}

func first(values []string) string {
	if len(values) > 0 {
		return values[0]
	}
	return ""
}

// HandleError maps service errors onto the response envelope. Unknown
// errors are logged and reported as 500 without leaking details.
func HandleError(c *gin.Context, err error) {
	switch {
	case apperrors.Is(err, apperrors.ErrNotFound):
		NotFound(c, err.Error(), "NOT_FOUND")
	case apperrors.Is(err, apperrors.ErrValidation), apperrors.Is(err, apperrors.ErrBadRequest):
		BadRequest(c, err.Error(), "VALIDATION_FAILED")
	case apperrors.Is(err, apperrors.ErrUnauthorized):
		Unauthorized(c, err.Error(), "AUTH_FAILED")
	case apperrors.Is(err, apperrors.ErrBanned):
		Forbidden(c, err.Error(), "ACCOUNT_BANNED")
	case apperrors.Is(err, apperrors.ErrForbidden):
		Forbidden(c, err.Error(), "FORBIDDEN")
	case apperrors.Is(err, apperrors.ErrDuplicate):
		Conflict(c, err.Error(), "DUPLICATE")
	case apperrors.Is(err, apperrors.ErrConflict):
		Conflict(c, err.Error(), "INVALID_STATE")
	case apperrors.Is(err, apperrors.ErrExpired):
		ValidationError(c, err.Error(), "DONATION_EXPIRED")
	default:
		_ = c.Error(err)
		logger.L().Error().Err(err).Str("path", c.Request.URL.Path).Msg("unhandled error")
		InternalServerError(c, "Internal server error", "INTERNAL_ERROR")
	}
}
