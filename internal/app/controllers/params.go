// Package controllers handles HTTP request handling
package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yigit/elearning/internal/app/models/dto"
	"github.com/yigit/elearning/internal/middleware"
)

var errInvalidID = errors.New("invalid id")

// parseIDParam parses an ID parameter from the request path
func parseIDParam(ctx *gin.Context, paramName string) (int64, error) {
	id, err := strconv.ParseInt(ctx.Param(paramName), 10, 64)
	if err != nil {
		return 0, err
	}
	if id <= 0 {
		return 0, errInvalidID
	}
	return id, nil
}

// pathID parses a path id and answers 400 when it is malformed
func pathID(ctx *gin.Context, paramName string) (int64, bool) {
	id, err := parseIDParam(ctx, paramName)
	if err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeBadRequest, "Invalid "+paramName).
			WithDetails(paramName + " must be a positive number")
		ctx.AbortWithStatusJSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return 0, false
	}
	return id, true
}

// optionalPathID parses a path id that may be absent
func optionalPathID(ctx *gin.Context, paramName string) (*int64, bool) {
	if ctx.Param(paramName) == "" {
		return nil, true
	}
	id, ok := pathID(ctx, paramName)
	if !ok {
		return nil, false
	}
	return &id, true
}

// currentUser returns the authenticated user id set by the JWT middleware
func currentUser(ctx *gin.Context) (int64, bool) {
	userID, ok := middleware.CurrentUserID(ctx)
	if !ok {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")
		ctx.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
		return 0, false
	}
	return userID, true
}
