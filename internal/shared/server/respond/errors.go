package respond

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"resume-tailor/internal/shared/apperr"
	"resume-tailor/internal/shared/telemetry"
)

// ErrorBody defines the standardized error object.
type ErrorBody struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// ErrorResponse wraps the error body.
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// Error sends a standardized error response.
func Error(c *gin.Context, status int, code, message string, details interface{}) {
	fields := map[string]any{
		"status":     status,
		"code":       code,
		"message":    message,
		"path":       c.Request.URL.Path,
		"method":     c.Request.Method,
		"request_id": c.GetString("requestId"),
	}
	if userID := c.GetString("userId"); userID != "" {
		fields["user_id"] = userID
	}
	if status >= http.StatusInternalServerError {
		telemetry.Error("http.error", fields)
	} else {
		telemetry.Warn("http.error", fields)
	}

	c.AbortWithStatusJSON(status, ErrorResponse{
		Error: ErrorBody{
			Code:    code,
			Message: message,
			Details: details,
		},
	})
}

// FromError maps a service error onto its HTTP status and error code.
// Causes are logged, never written to the response.
func FromError(c *gin.Context, err error) {
	kind := apperr.KindOf(err)
	status, code := statusFor(kind)
	msg := apperr.Message(err)
	if kind == apperr.ErrInternal {
		telemetry.Error("http.internal_error", map[string]any{
			"request_id": c.GetString("requestId"),
			"path":       c.Request.URL.Path,
			"error":      err,
		})
		msg = "Unexpected server error"
	}
	Error(c, status, code, msg, nil)
}

func statusFor(kind error) (int, string) {
	switch kind {
	case apperr.ErrUnauthenticated:
		return http.StatusUnauthorized, "unauthorized"
	case apperr.ErrInsufficientCredits:
		return http.StatusPaymentRequired, "insufficient_credits"
	case apperr.ErrAnalysisService:
		return http.StatusBadGateway, "analysis_failed"
	case apperr.ErrCreditDeductionFailed:
		return http.StatusConflict, "credit_deduction_failed"
	case apperr.ErrInvalidStatus:
		return http.StatusBadRequest, "invalid_status"
	case apperr.ErrNotFoundOrForbidden, apperr.ErrNotFound:
		return http.StatusNotFound, "not_found"
	case apperr.ErrValidation:
		return http.StatusBadRequest, "validation_error"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}
