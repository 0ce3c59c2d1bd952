package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/elearning/internal/app/models/dto"
	"github.com/yigit/elearning/internal/app/services"
	"github.com/yigit/elearning/internal/middleware"
)

// UserController handles the account edit page
type UserController struct {
	userService services.UserService
}

// NewUserController creates a new user controller
func NewUserController(userService services.UserService) *UserController {
	return &UserController{
		userService: userService,
	}
}

// GetProfile returns the current user's profile
func (c *UserController) GetProfile(ctx *gin.Context) {
	userID, ok := currentUser(ctx)
	if !ok {
		return
	}

	profile, err := c.userService.GetProfile(ctx.Request.Context(), userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(profile))
}

// UpdateProfile edits names and email of the current user
func (c *UserController) UpdateProfile(ctx *gin.Context) {
	userID, ok := currentUser(ctx)
	if !ok {
		return
	}

	var req dto.UpdateProfileRequest
	if !middleware.BindRequest(ctx, &req) {
		return
	}

	profile, err := c.userService.UpdateProfile(ctx.Request.Context(), userID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(profile))
}
