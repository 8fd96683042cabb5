package server

import (
	"errors"
	"net/http"

	authdomain "github.com/aibuildx/platform/internal/auth/domain"
	checkoutdomain "github.com/aibuildx/platform/internal/checkout/domain"
	"github.com/aibuildx/platform/internal/checkout/gateway"
	companydomain "github.com/aibuildx/platform/internal/company/domain"
	plandomain "github.com/aibuildx/platform/internal/plan/domain"
	"github.com/aibuildx/platform/internal/policy"
	projectdomain "github.com/aibuildx/platform/internal/project/domain"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type errorPayload struct {
	Type    string `json:"type"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
}

type errorResponse struct {
	Error errorPayload `json:"error"`
}

var (
	ErrUnauthorized   = errors.New("unauthorized")
	ErrForbidden      = errors.New("forbidden")
	ErrNotFound       = errors.New("not_found")
	ErrInvalidRequest = errors.New("invalid_request")
	ErrRateLimited    = errors.New("rate_limited")
)

func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		status, payload := mapError(lastErr.Err)
		c.AbortWithStatusJSON(status, errorResponse{Error: payload})
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func mapError(err error) (int, errorPayload) {
	switch {
	case isUnauthorizedError(err):
		return http.StatusUnauthorized, errorPayload{
			Type:    "unauthorized",
			Message: "unauthorized",
		}
	case errors.Is(err, ErrForbidden),
		errors.Is(err, policy.ErrSubscriptionExpired):
		return http.StatusForbidden, errorPayload{
			Type:    "forbidden",
			Code:    errorCode(err, ErrForbidden),
			Message: "forbidden",
		}
	case errors.Is(err, checkoutdomain.ErrPaymentVerificationFailed):
		return http.StatusBadRequest, errorPayload{
			Type:    "payment_verification_failed",
			Message: "payment verification failed",
		}
	case isValidationError(err):
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Code:    errorCode(err, ErrInvalidRequest),
			Message: err.Error(),
		}
	case isNotFoundError(err):
		return http.StatusNotFound, errorPayload{
			Type:    "not_found",
			Message: "not found",
		}
	case errors.Is(err, authdomain.ErrUserExists),
		errors.Is(err, plandomain.ErrPlanExists):
		return http.StatusConflict, errorPayload{
			Type:    "conflict",
			Message: err.Error(),
		}
	case errors.Is(err, ErrRateLimited):
		return http.StatusTooManyRequests, errorPayload{
			Type:    "rate_limited",
			Message: "too many requests",
		}
	case errors.Is(err, gateway.ErrGatewayFailure),
		errors.Is(err, gateway.ErrNotConfigured):
		return http.StatusServiceUnavailable, errorPayload{
			Type:    "service_unavailable",
			Message: "service unavailable",
		}
	default:
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}
}

func isUnauthorizedError(err error) bool {
	switch {
	case errors.Is(err, ErrUnauthorized),
		errors.Is(err, authdomain.ErrInvalidCredentials),
		errors.Is(err, authdomain.ErrInvalidSession),
		errors.Is(err, authdomain.ErrSessionNotFound),
		errors.Is(err, authdomain.ErrSessionExpired):
		return true
	default:
		return false
	}
}

func isValidationError(err error) bool {
	switch {
	case errors.Is(err, ErrInvalidRequest),
		errors.Is(err, policy.ErrSeatLimitReached),
		errors.Is(err, authdomain.ErrInvalidRole),
		errors.Is(err, authdomain.ErrCompanyRequired),
		errors.Is(err, authdomain.ErrResetTokenInvalid),
		errors.Is(err, plandomain.ErrInvalidPlan),
		errors.Is(err, plandomain.ErrNameImmutable),
		errors.Is(err, companydomain.ErrInvalidCompany),
		errors.Is(err, projectdomain.ErrInvalidProject),
		errors.Is(err, projectdomain.ErrUnsupportedFileType),
		errors.Is(err, projectdomain.ErrInvalidTransition),
		errors.Is(err, checkoutdomain.ErrOrderNotVerifiable):
		return true
	default:
		return false
	}
}

func isNotFoundError(err error) bool {
	switch {
	case errors.Is(err, ErrNotFound),
		errors.Is(err, authdomain.ErrUserNotFound),
		errors.Is(err, companydomain.ErrCompanyNotFound),
		errors.Is(err, plandomain.ErrPlanNotFound),
		errors.Is(err, projectdomain.ErrProjectNotFound),
		errors.Is(err, checkoutdomain.ErrTransactionNotFound),
		errors.Is(err, gorm.ErrRecordNotFound):
		return true
	default:
		return false
	}
}

// errorCode reports the sentinel's own message as a machine-readable code,
// unless the error is just the category sentinel itself.
func errorCode(err, sentinel error) string {
	if errors.Is(err, sentinel) {
		return ""
	}
	return err.Error()
}

func classifyErrorForLog(err error) (string, string) {
	if err == nil {
		return "", ""
	}
	_, payload := mapError(err)
	return payload.Type, payload.Code
}
