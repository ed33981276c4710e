package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/emilythestrangee/idiom-hub/backend/internal/middleware"
	"github.com/emilythestrangee/idiom-hub/backend/internal/models"
	"github.com/emilythestrangee/idiom-hub/backend/internal/observability"
)

func statusFor(code string) int {
	switch code {
	case models.CodeValidation:
		return http.StatusBadRequest
	case models.CodeUnauthorized:
		return http.StatusUnauthorized
	case models.CodeForbidden:
		return http.StatusForbidden
	case models.CodeNotFound:
		return http.StatusNotFound
	case models.CodeConflict:
		return http.StatusConflict
	case models.CodeUpstream:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes {success:false, message}. Internal errors are logged and
// replaced with a generic message.
func respondError(c *gin.Context, err error) {
	appErr, ok := models.AsAppError(err)
	if !ok {
		appErr = models.NewInternalError(err)
	}

	status := statusFor(appErr.Code)
	message := appErr.Message
	if status >= http.StatusInternalServerError {
		_ = c.Error(err)
		observability.Logger.ErrorContext(c.Request.Context(), "request error",
			"code", appErr.Code, "error", err)
		if status == http.StatusInternalServerError {
			message = "Internal server error"
		}
	}
	c.JSON(status, gin.H{"success": false, "message": message})
}

func badRequest(c *gin.Context, message string) {
	respondError(c, models.NewValidationError(message))
}

// bindJSON decodes the request body into obj. A body that fails a binding rule
// is reported with invalid; one that is not valid JSON gets a generic message.
func bindJSON(c *gin.Context, obj any, invalid string) bool {
	err := c.ShouldBindJSON(obj)
	if err == nil {
		return true
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		badRequest(c, invalid)
	} else {
		badRequest(c, "Invalid request body")
	}
	return false
}

// extractUserID returns the authenticated user id, or 0 for anonymous requests.
func extractUserID(c *gin.Context) (int, bool) {
	raw, exists := c.Get(middleware.UserIDKey)
	if !exists {
		return 0, false
	}
	switch v := raw.(type) {
	case int:
		return v, true
	case uint:
		return int(v), true
	case float64:
		return int(v), true
	default:
		return 0, false
	}
}

// viewerID is the caller's id, or 0 when anonymous.
func viewerID(c *gin.Context) int {
	id, _ := extractUserID(c)
	return id
}

// parseIDParam reads a positive integer path parameter.
func parseIDParam(c *gin.Context, name, resource string) (int, bool) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil || id <= 0 {
		badRequest(c, "Invalid "+resource+" ID")
		return 0, false
	}
	return id, true
}

func queryInt(c *gin.Context, name string, fallback int) int {
	v, err := strconv.Atoi(c.Query(name))
	if err != nil {
		return fallback
	}
	return v
}
