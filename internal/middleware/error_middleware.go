package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/stallhub/internal/app/models/dto"
	"github.com/yigit/stallhub/internal/pkg/apperrors"
	"github.com/yigit/stallhub/internal/pkg/logger"
)

// HandleAPIError maps a service error to its HTTP status and error code
func HandleAPIError(c *gin.Context, err error) {
	status, detail := errorDetailFor(err)
	if status >= http.StatusInternalServerError {
		logger.Error().Err(err).Str("path", c.FullPath()).Int("status", status).Msg("Request failed")
	}
	c.JSON(status, dto.NewErrorResponse(detail))
}

// errorDetailFor picks the most specific match first
func errorDetailFor(err error) (int, *dto.ErrorDetail) {
	details := apperrors.DetailsOf(err)

	switch {
	case errors.Is(err, apperrors.ErrNotRegistered):
		return http.StatusForbidden, dto.NewErrorDetail(dto.ErrorCodeNotRegistered, "Registration required").
			WithSeverity(dto.ErrorSeverityInfo).
			WithDetails(details)
	case errors.Is(err, apperrors.ErrDuplicateApplication):
		return http.StatusConflict, dto.NewErrorDetail(dto.ErrorCodeDuplicateApplication, "You have already applied to this event")
	case errors.Is(err, apperrors.ErrInvalidTransition):
		return http.StatusConflict, dto.NewErrorDetail(dto.ErrorCodeInvalidTransition, "This application has already been decided")
	case errors.Is(err, apperrors.ErrApplicationsClosed):
		return http.StatusConflict, dto.NewErrorDetail(dto.ErrorCodeApplicationsClosed, "Applications for this event are closed")
	case errors.Is(err, apperrors.ErrAlreadyRegistered):
		return http.StatusConflict, dto.NewErrorDetail(dto.ErrorCodeAlreadyRegistered, "This account is already registered")
	case errors.Is(err, apperrors.ErrPermissionDenied):
		return http.StatusForbidden, dto.NewErrorDetail(dto.ErrorCodeForbidden, "Permission denied")
	case apperrors.Is(err, apperrors.ErrResourceNotFound,
		apperrors.ErrEventNotFound,
		apperrors.ErrApplicationNotFound,
		apperrors.ErrNotificationNotFound,
		apperrors.ErrExhibitorNotFound,
		apperrors.ErrOrganizerNotFound):
		return http.StatusNotFound, dto.NewErrorDetail(dto.ErrorCodeResourceNotFound, notFoundMessage(err))
	case apperrors.Is(err, apperrors.ErrValidationFailed,
		apperrors.ErrInvalidDecision,
		apperrors.ErrInvalidDocumentKind,
		apperrors.ErrBadRequest):
		return http.StatusBadRequest, dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Validation failed").WithDetails(err.Error())
	case errors.Is(err, apperrors.ErrConflict):
		return http.StatusConflict, dto.NewErrorDetail(dto.ErrorCodeResourceAlreadyExists, err.Error())
	case errors.Is(err, apperrors.ErrUpstreamUnavailable):
		return http.StatusServiceUnavailable, dto.NewErrorDetail(dto.ErrorCodeExternalServiceError, "A required service is unavailable, please retry later").
			WithDetails(details)
	default:
		return http.StatusInternalServerError, dto.NewErrorDetail(dto.ErrorCodeInternalServer, "Internal server error").
			WithSeverity(dto.ErrorSeverityCritical)
	}
}

func notFoundMessage(err error) string {
	switch {
	case errors.Is(err, apperrors.ErrEventNotFound):
		return "Event not found"
	case errors.Is(err, apperrors.ErrApplicationNotFound):
		return "Application not found"
	case errors.Is(err, apperrors.ErrNotificationNotFound):
		return "Notification not found"
	default:
		return "Resource not found"
	}
}
