package middleware

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/elearning/internal/app/models"
	"github.com/yigit/elearning/internal/app/models/dto"
	"github.com/yigit/elearning/internal/pkg/apperrors"
	"github.com/yigit/elearning/internal/pkg/auth"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newJWT(exp time.Duration) *auth.JWTService {
	return auth.NewJWTService(auth.JWTConfig{
		SecretKey:      "test-secret",
		AccessTokenExp: exp,
		TokenIssuer:    "test",
	})
}

func tokenFor(t *testing.T, svc *auth.JWTService, role models.RoleType) string {
	t.Helper()
	token, _, err := svc.GenerateToken(&models.User{ID: 42, Email: "t@example.com", Username: "t", RoleType: role})
	require.NoError(t, err)
	return token
}

func whoAmI(c *gin.Context) {
	id, _ := CurrentUserID(c)
	role, _ := CurrentRole(c)
	c.String(http.StatusOK, "%d:%s", id, role)
}

func serve(r http.Handler, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestJWTAuth(t *testing.T) {
	svc := newJWT(time.Hour)
	m := NewAuthMiddleware(svc)
	r := gin.New()
	r.GET("/", m.JWTAuth(), whoAmI)

	w := serve(r, tokenFor(t, svc, models.RoleTeacher))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "42:TEACHER", w.Body.String())

	assert.Equal(t, http.StatusUnauthorized, serve(r, "").Code)
	assert.Equal(t, http.StatusUnauthorized, serve(r, "garbage").Code)
}

func TestJWTAuthExpiredToken(t *testing.T) {
	svc := newJWT(-time.Minute)
	r := gin.New()
	r.GET("/", NewAuthMiddleware(svc).JWTAuth(), whoAmI)

	w := serve(r, tokenFor(t, svc, models.RoleStudent))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), string(dto.ErrorCodeExpiredToken))
}

func TestOptionalAuth(t *testing.T) {
	svc := newJWT(time.Hour)
	r := gin.New()
	r.GET("/", NewAuthMiddleware(svc).OptionalAuth(), whoAmI)

	assert.Equal(t, "0:", serve(r, "").Body.String())
	assert.Equal(t, "0:", serve(r, "garbage").Body.String())
	assert.Equal(t, "42:STUDENT", serve(r, tokenFor(t, svc, models.RoleStudent)).Body.String())
}

func TestRoleAndPermissionRequired(t *testing.T) {
	svc := newJWT(time.Hour)
	m := NewAuthMiddleware(svc)
	r := gin.New()
	r.GET("/", m.JWTAuth(), m.RoleRequired(models.RoleTeacher), m.PermissionRequired(models.PermAddCourse), whoAmI)

	assert.Equal(t, http.StatusOK, serve(r, tokenFor(t, svc, models.RoleTeacher)).Code)
	assert.Equal(t, http.StatusForbidden, serve(r, tokenFor(t, svc, models.RoleStudent)).Code)

	r2 := gin.New()
	r2.GET("/", m.JWTAuth(), m.PermissionRequired(models.PermAddCourse), whoAmI)
	assert.Equal(t, http.StatusForbidden, serve(r2, tokenFor(t, svc, models.RoleStudent)).Code)
}

func TestErrorStatus(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   dto.ErrorCode
	}{
		{apperrors.ErrCourseNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound},
		{fmt.Errorf("wrapped: %w", apperrors.ErrModuleNotFound), http.StatusNotFound, dto.ErrorCodeResourceNotFound},
		{apperrors.ErrSlugAlreadyExists, http.StatusConflict, dto.ErrorCodeResourceAlreadyExists},
		{apperrors.NewValidationError(map[string]string{"title": "required"}), http.StatusBadRequest, dto.ErrorCodeValidationFailed},
		{apperrors.NewBadRequestError("bad"), http.StatusBadRequest, dto.ErrorCodeBadRequest},
		{apperrors.ErrInvalidCredentials, http.StatusUnauthorized, dto.ErrorCodeInvalidCredentials},
		{apperrors.ErrPermissionDenied, http.StatusForbidden, dto.ErrorCodeForbidden},
		{apperrors.ErrVideoSearchDisabled, http.StatusServiceUnavailable, dto.ErrorCodeServiceUnavailable},
		{fmt.Errorf("%w: timeout", apperrors.ErrUpstream), http.StatusBadGateway, dto.ErrorCodeExternalServiceError},
		{fmt.Errorf("boom"), http.StatusInternalServerError, dto.ErrorCodeInternalServer},
	}
	for _, tc := range cases {
		t.Run(tc.err.Error(), func(t *testing.T) {
			status, code := ErrorStatus(tc.err)
			assert.Equal(t, tc.status, status)
			assert.Equal(t, tc.code, code)
		})
	}
}

func TestHandleAPIErrorCarriesFieldErrors(t *testing.T) {
	r := gin.New()
	r.GET("/", func(c *gin.Context) {
		HandleAPIError(c, apperrors.NewValidationError(map[string]string{"title": "title is required"}))
	})

	w := serve(r, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `"title":"title is required"`)
}

func TestHandleAPIErrorHidesInternalMessage(t *testing.T) {
	r := gin.New()
	r.GET("/", func(c *gin.Context) {
		HandleAPIError(c, fmt.Errorf("pq: password authentication failed"))
	})

	w := serve(r, "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "password")
}

func TestRequestLoggerSetsRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestLogger(zerolog.Nop()))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	w := serve(r, "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.NotEmpty(t, w.Header().Get(RequestIDHeader))
}

type bindTarget struct {
	Title string `json:"title" binding:"required"`
}

func TestBindRequest(t *testing.T) {
	r := gin.New()
	r.POST("/", func(c *gin.Context) {
		var body bindTarget
		if !BindRequest(c, &body) {
			return
		}
		c.String(http.StatusOK, body.Title)
	})

	post := func(body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	ok := post(`{"title":"Go"}`)
	assert.Equal(t, http.StatusOK, ok.Code)
	assert.Equal(t, "Go", ok.Body.String())

	bad := post(`{}`)
	assert.Equal(t, http.StatusBadRequest, bad.Code)
	assert.Contains(t, bad.Body.String(), "Title is required")
}
