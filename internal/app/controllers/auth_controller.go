package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/elearning/internal/app/models/dto"
	"github.com/yigit/elearning/internal/app/services"
	"github.com/yigit/elearning/internal/middleware"
)

// AuthController handles signup and login
type AuthController struct {
	authService *services.AuthService
	logger      zerolog.Logger
}

// NewAuthController creates a new AuthController
func NewAuthController(authService *services.AuthService, logger zerolog.Logger) *AuthController {
	return &AuthController{
		authService: authService,
		logger:      logger,
	}
}

// Register handles user registration
func (c *AuthController) Register(ctx *gin.Context) {
	var req dto.RegisterRequest
	if !middleware.BindRequest(ctx, &req) {
		c.logger.Warn().Msg("Invalid registration request payload")
		return
	}

	resp, err := c.authService.Register(ctx.Request.Context(), &req)
	if err != nil {
		c.logger.Warn().Err(err).Str("email", req.Email).Msg("Failed to register user")
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(resp))
}

// Login handles user login
func (c *AuthController) Login(ctx *gin.Context) {
	var req dto.LoginRequest
	if !middleware.BindRequest(ctx, &req) {
		c.logger.Warn().Msg("Invalid login request payload")
		return
	}

	resp, err := c.authService.Login(ctx.Request.Context(), &req)
	if err != nil {
		c.logger.Warn().Err(err).Str("email", req.Email).Msg("Login failed")
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.logger.Info().Str("email", req.Email).Msg("User logged in successfully")
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}
