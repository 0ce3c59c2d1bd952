package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yigit/elearning/internal/app/models/dto"
	"github.com/yigit/elearning/internal/app/services"
	"github.com/yigit/elearning/internal/middleware"
	"github.com/yigit/elearning/internal/pkg/apperrors"
)

// VideoController serves the video search page
type VideoController struct {
	videoService services.VideoService
}

// NewVideoController creates a new VideoController
func NewVideoController(videoService services.VideoService) *VideoController {
	return &VideoController{videoService: videoService}
}

// Search runs ?q=&results= against the video provider
func (c *VideoController) Search(ctx *gin.Context) {
	var query *string
	if q, ok := ctx.GetQuery("q"); ok {
		query = &q
	}

	var results *int
	if raw, ok := ctx.GetQuery("results"); ok {
		n, err := strconv.Atoi(raw)
		if err != nil {
			middleware.HandleAPIError(ctx, apperrors.NewValidationError(map[string]string{
				"results": "results must be a number",
			}))
			return
		}
		results = &n
	}

	resp, err := c.videoService.Search(ctx.Request.Context(), query, results)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}
