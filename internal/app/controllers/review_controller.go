package controllers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/elearning/internal/app/models/dto"
	"github.com/yigit/elearning/internal/app/services"
	"github.com/yigit/elearning/internal/middleware"
	"github.com/yigit/elearning/internal/pkg/apperrors"
	"github.com/yigit/elearning/internal/pkg/helpers"
)

// Review notices
const (
	ReviewAddedNotice  = "Review added."
	ReviewFailedNotice = "Error Occurred."
)

// ReviewController handles review submissions
type ReviewController struct {
	reviewService services.ReviewService
	logger        zerolog.Logger
}

// NewReviewController creates a new ReviewController
func NewReviewController(reviewService services.ReviewService, logger zerolog.Logger) *ReviewController {
	return &ReviewController{
		reviewService: reviewService,
		logger:        logger,
	}
}

// AddReview stores a review and redirects back to the course page. Invalid
// input redirects with a warning notice and no field detail.
func (c *ReviewController) AddReview(ctx *gin.Context) {
	userID, ok := currentUser(ctx)
	if !ok {
		return
	}
	slug := ctx.Param("slug")

	var req dto.ReviewRequest
	if err := ctx.ShouldBind(&req); err != nil {
		// the zero request fails validation after the course lookup
		c.logger.Debug().Err(err).Str("slug", slug).Msg("Unreadable review form")
		req = dto.ReviewRequest{}
	}

	_, err := c.reviewService.AddReview(ctx.Request.Context(), slug, userID, req)
	switch {
	case err == nil:
		helpers.RedirectWithNotice(ctx, CoursePath(slug), helpers.NoticeSuccess, ReviewAddedNotice)
	case errors.Is(err, apperrors.ErrValidationFailed):
		helpers.RedirectWithNotice(ctx, CoursePath(slug), helpers.NoticeWarning, ReviewFailedNotice)
	default:
		middleware.HandleAPIError(ctx, err)
	}
}
