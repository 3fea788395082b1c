package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	domain "lecture-manager/internal/domain/registration"
	"lecture-manager/pkg/validator"

	"github.com/gin-gonic/gin"
)

// APIResponse represents a standard API response
type APIResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Errors  interface{} `json:"errors,omitempty"`
}

// respondError maps a service error onto a status code and envelope
func respondError(c *gin.Context, err error) {
	var notFound *domain.NotFoundError
	var invalid *domain.ValidationError

	switch {
	case errors.As(err, &notFound):
		c.JSON(http.StatusNotFound, APIResponse{
			Success: false,
			Message: capitalize(notFound.Entity) + " not found",
		})
	case errors.Is(err, domain.ErrCapacityExceeded):
		c.JSON(http.StatusBadRequest, APIResponse{
			Success: false,
			Message: "Session is full",
		})
	case errors.Is(err, domain.ErrDuplicateRegistration):
		c.JSON(http.StatusBadRequest, APIResponse{
			Success: false,
			Message: "Student already registered for this session",
		})
	case errors.As(err, &invalid):
		c.JSON(http.StatusBadRequest, APIResponse{
			Success: false,
			Message: capitalize(invalid.Reason),
		})
	case errors.Is(err, domain.ErrBusy):
		c.Header("Retry-After", "1")
		c.JSON(http.StatusServiceUnavailable, APIResponse{
			Success: false,
			Message: "Service busy, please retry",
		})
	default:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, APIResponse{
			Success: false,
			Message: "Internal server error",
		})
	}
}

// bindJSON decodes and validates the request body into req. It writes the
// 400 response itself and reports false when the request is unusable.
func bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, APIResponse{
			Success: false,
			Message: "Invalid request format",
			Errors:  err.Error(),
		})
		return false
	}

	if err := validator.ValidateStruct(req); err != nil {
		c.JSON(http.StatusBadRequest, APIResponse{
			Success: false,
			Message: capitalize(validator.Summary(err)),
			Errors:  validator.FormatValidationError(err),
		})
		return false
	}
	return true
}

// parseID reads a positive integer path parameter
func parseID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, APIResponse{
			Success: false,
			Message: "Invalid " + name + " format",
		})
		return 0, false
	}
	return id, true
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
