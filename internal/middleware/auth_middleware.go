package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yigit/elearning/internal/app/models"
	"github.com/yigit/elearning/internal/app/models/dto"
	"github.com/yigit/elearning/internal/pkg/auth"
)

// Context keys set by JWTAuth
const (
	ContextUserID   = "userID"
	ContextEmail    = "email"
	ContextUsername = "username"
	ContextRoleType = "roleType"
)

// AuthMiddleware for authentication and authorization
type AuthMiddleware struct {
	jwtService *auth.JWTService
}

// NewAuthMiddleware creates a new AuthMiddleware
func NewAuthMiddleware(jwtService *auth.JWTService) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService: jwtService,
	}
}

func abortUnauthorized(c *gin.Context, code dto.ErrorCode, details string) {
	errorDetail := dto.NewErrorDetail(code, "Authentication required").WithDetails(details)
	c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
}

func abortForbidden(c *gin.Context, details string) {
	errorDetail := dto.NewErrorDetail(dto.ErrorCodeForbidden, "Access denied").WithDetails(details)
	c.AbortWithStatusJSON(http.StatusForbidden, dto.NewErrorResponse(errorDetail))
}

// claimsFromRequest reads the bearer token of the request, if any
func (m *AuthMiddleware) claimsFromRequest(c *gin.Context) (*auth.Claims, error) {
	authHeader := strings.Trim(c.GetHeader("Authorization"), "\"'")
	tokenString, err := auth.ExtractBearerToken(authHeader)
	if err != nil {
		return nil, err
	}
	return m.jwtService.ValidateAndExtractClaims(tokenString)
}

func setClaims(c *gin.Context, claims *auth.Claims) {
	c.Set(ContextUserID, claims.UserID)
	c.Set(ContextEmail, claims.Email)
	c.Set(ContextUsername, claims.Username)
	c.Set(ContextRoleType, claims.RoleType)
}

// JWTAuth middleware for JWT token validation
func (m *AuthMiddleware) JWTAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			abortUnauthorized(c, dto.ErrorCodeUnauthorized, "Authorization header missing")
			return
		}

		claims, err := m.claimsFromRequest(c)
		if err != nil {
			switch {
			case errors.Is(err, auth.ErrExpiredToken):
				abortUnauthorized(c, dto.ErrorCodeExpiredToken, "Token has expired")
			case errors.Is(err, auth.ErrInvalidFormat):
				abortUnauthorized(c, dto.ErrorCodeInvalidToken, "Invalid token format")
			default:
				abortUnauthorized(c, dto.ErrorCodeInvalidToken, "Invalid token")
			}
			return
		}

		setClaims(c, claims)
		c.Next()
	}
}

// OptionalAuth identifies the caller when a valid token is sent and lets
// anonymous requests through otherwise.
func (m *AuthMiddleware) OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader("Authorization") != "" {
			if claims, err := m.claimsFromRequest(c); err == nil {
				setClaims(c, claims)
			}
		}
		c.Next()
	}
}

// RoleRequired middleware to check if user has required role
func (m *AuthMiddleware) RoleRequired(requiredRole models.RoleType) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, ok := CurrentRole(c)
		if !ok {
			abortUnauthorized(c, dto.ErrorCodeUnauthorized, "User role not found")
			return
		}
		if role != requiredRole {
			abortForbidden(c, "You don't have sufficient permissions for this operation")
			return
		}
		c.Next()
	}
}

// PermissionRequired checks that the caller's role grants every permission
func (m *AuthMiddleware) PermissionRequired(perms ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, ok := CurrentRole(c)
		if !ok {
			abortUnauthorized(c, dto.ErrorCodeUnauthorized, "User role not found")
			return
		}
		if !models.HasPermission(role, perms...) {
			abortForbidden(c, "Missing permission: "+strings.Join(perms, ", "))
			return
		}
		c.Next()
	}
}

// CurrentUserID returns the authenticated user's id
func CurrentUserID(c *gin.Context) (int64, bool) {
	v, exists := c.Get(ContextUserID)
	if !exists {
		return 0, false
	}
	id, ok := v.(int64)
	return id, ok && id > 0
}

// CurrentRole returns the authenticated user's role
func CurrentRole(c *gin.Context) (models.RoleType, bool) {
	v, exists := c.Get(ContextRoleType)
	if !exists {
		return "", false
	}
	role, ok := v.(string)
	return models.RoleType(role), ok
}
