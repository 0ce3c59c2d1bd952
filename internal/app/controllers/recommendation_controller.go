package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yigit/elearning/internal/app/models/dto"
	"github.com/yigit/elearning/internal/app/services"
	"github.com/yigit/elearning/internal/middleware"
	"github.com/yigit/elearning/internal/pkg/helpers"
)

// RecommendationController serves course suggestions
type RecommendationController struct {
	recommendations services.RecommendationService
}

// NewRecommendationController creates a new RecommendationController
func NewRecommendationController(recommendations services.RecommendationService) *RecommendationController {
	return &RecommendationController{recommendations: recommendations}
}

// Recommend lists courses for the current user; ?limit= caps the list
func (c *RecommendationController) Recommend(ctx *gin.Context) {
	userID, ok := currentUser(ctx)
	if !ok {
		return
	}

	limit, err := strconv.Atoi(ctx.DefaultQuery("limit", strconv.Itoa(services.DefaultRecommendLimit)))
	if err != nil || limit <= 0 || limit > helpers.MaxPageSize {
		limit = services.DefaultRecommendLimit
	}

	resp, err := c.recommendations.RecommendFor(ctx.Request.Context(), userID, limit)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}
