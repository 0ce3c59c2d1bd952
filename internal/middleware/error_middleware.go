package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/elearning/internal/app/models/dto"
	"github.com/yigit/elearning/internal/pkg/apperrors"
	"github.com/yigit/elearning/internal/pkg/logger"
)

// errorMapping pairs a sentinel with its HTTP status and error code
type errorMapping struct {
	target error
	status int
	code   dto.ErrorCode
}

// Checked in order; the first match wins
var errorMappings = []errorMapping{
	{apperrors.ErrValidationFailed, http.StatusBadRequest, dto.ErrorCodeValidationFailed},
	{apperrors.ErrBadRequest, http.StatusBadRequest, dto.ErrorCodeBadRequest},
	{apperrors.ErrResourceNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound},
	{apperrors.ErrResourceAlreadyExists, http.StatusConflict, dto.ErrorCodeResourceAlreadyExists},
	{apperrors.ErrConflict, http.StatusConflict, dto.ErrorCodeConflict},
	{apperrors.ErrInvalidCredentials, http.StatusUnauthorized, dto.ErrorCodeInvalidCredentials},
	{apperrors.ErrTokenExpired, http.StatusUnauthorized, dto.ErrorCodeExpiredToken},
	{apperrors.ErrTokenInvalid, http.StatusUnauthorized, dto.ErrorCodeInvalidToken},
	{apperrors.ErrUnauthenticated, http.StatusUnauthorized, dto.ErrorCodeUnauthorized},
	{apperrors.ErrPermissionDenied, http.StatusForbidden, dto.ErrorCodeForbidden},
	{apperrors.ErrServiceUnavailable, http.StatusServiceUnavailable, dto.ErrorCodeServiceUnavailable},
	{apperrors.ErrUpstream, http.StatusBadGateway, dto.ErrorCodeExternalServiceError},
}

// ErrorStatus maps err onto its HTTP status and error code
func ErrorStatus(err error) (int, dto.ErrorCode) {
	for _, m := range errorMappings {
		if errors.Is(err, m.target) {
			return m.status, m.code
		}
	}
	return http.StatusInternalServerError, dto.ErrorCodeInternalServer
}

// HandleAPIError handles common API errors and returns appropriate responses
func HandleAPIError(c *gin.Context, err error) {
	status, code := ErrorStatus(err)

	message := err.Error()
	if status == http.StatusInternalServerError {
		logger.Error().Err(err).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Msg("Unhandled error")
		message = "Internal server error"
	}

	errorDetail := dto.NewErrorDetail(code, message)
	if status < http.StatusInternalServerError {
		errorDetail.Severity = dto.ErrorSeverityWarning
	}
	if fields := apperrors.FieldErrors(err); len(fields) > 0 {
		errorDetail = errorDetail.WithDetails(fields)
	} else {
		var ce *apperrors.CustomError
		if errors.As(err, &ce) && ce.Details != nil {
			errorDetail = errorDetail.WithDetails(ce.Details)
		}
	}

	c.AbortWithStatusJSON(status, dto.NewErrorResponse(errorDetail))
}
