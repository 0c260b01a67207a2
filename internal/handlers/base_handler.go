package handlers

import (
	"errors"
	"net/http"

	"github.com/SAP-F-2025/learning-service/internal/models"
	"github.com/SAP-F-2025/learning-service/internal/repositories"
	"github.com/SAP-F-2025/learning-service/internal/services"
	"github.com/SAP-F-2025/learning-service/internal/utils"
	"github.com/SAP-F-2025/learning-service/internal/validator"
	"github.com/gin-gonic/gin"
)

type ErrorResponse struct {
	Error   string      `json:"error"`
	Message string      `json:"message,omitempty"`
	Details interface{} `json:"details,omitempty"`
}

type SuccessResponse struct {
	Data interface{} `json:"data"`
}

// BaseHandler carries the shared handler dependencies and the service-error
// to HTTP-status mapping.
type BaseHandler struct {
	logger utils.Logger
}

func NewBaseHandler(logger utils.Logger) BaseHandler {
	return BaseHandler{logger: logger}
}

func (h *BaseHandler) LogRequest(c *gin.Context, msg string, args ...interface{}) {
	utils.LoggerFromContext(c.Request.Context(), h.logger).Info(msg, args...)
}

// requireUserID pulls the authenticated caller's id from the context, set by
// the auth middleware. A missing id aborts with 401.
func (h *BaseHandler) requireUserID(c *gin.Context) (string, bool) {
	userID, err := GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Error:   "unauthorized",
			Message: "User not authenticated",
		})
		return "", false
	}
	return userID, true
}

func (h *BaseHandler) userRole(c *gin.Context) models.UserRole {
	role, err := GetUserRoleFromContext(c)
	if err != nil {
		return models.RoleStudent
	}
	return role
}

// handleServiceError maps service-layer errors to HTTP responses. Not-owned
// and absent entities are deliberately indistinguishable (both 404).
func (h *BaseHandler) handleServiceError(c *gin.Context, err error) {
	var validationErrs validator.ValidationErrors
	var upstreamErr *services.UpstreamError

	switch {
	case errors.As(err, &validationErrs):
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_failed",
			Message: "Request validation failed",
			Details: validationErrs,
		})

	case errors.As(err, &upstreamErr):
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "upstream_failure",
			Message: upstreamErr.Error(),
		})

	case errors.Is(err, services.ErrAssessmentNotFound),
		errors.Is(err, services.ErrQuestionNotFound),
		errors.Is(err, services.ErrSessionNotFound),
		errors.Is(err, services.ErrResultsNotAvailable),
		errors.Is(err, services.ErrCourseNotFound),
		errors.Is(err, services.ErrChapterNotFound),
		errors.Is(err, services.ErrUserNotFound),
		errors.Is(err, repositories.ErrNotVisible):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Error:   "not_found",
			Message: err.Error(),
		})

	case errors.Is(err, services.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Error:   "unauthorized",
			Message: err.Error(),
		})

	case errors.Is(err, services.ErrForbidden):
		c.JSON(http.StatusForbidden, ErrorResponse{
			Error:   "forbidden",
			Message: err.Error(),
		})

	case errors.Is(err, services.ErrBadRequest), errors.Is(err, services.ErrValidationFailed):
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "bad_request",
			Message: err.Error(),
		})

	case errors.Is(err, services.ErrAssessmentNotPublished):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Error:   "not_found",
			Message: err.Error(),
		})

	default:
		h.logger.Error("Unhandled service error", "error", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "internal_error",
			Message: "An internal error occurred",
		})
	}
}
