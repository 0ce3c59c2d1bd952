package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/yigit/elearning/internal/app/models"
	"github.com/yigit/elearning/internal/app/models/dto"
	"github.com/yigit/elearning/internal/pkg/apperrors"
	"github.com/yigit/elearning/internal/pkg/validation"
)

// ReviewService records course reviews
type ReviewService interface {
	AddReview(ctx context.Context, slug string, userID int64, req dto.ReviewRequest) (*models.Review, error)
}

type reviewServiceImpl struct {
	courses  CourseStore
	reviews  ReviewStore
	clusters ClusterUpdater
	logger   zerolog.Logger
}

// NewReviewService creates a new ReviewService
func NewReviewService(courses CourseStore, reviews ReviewStore, clusters ClusterUpdater, logger zerolog.Logger) ReviewService {
	return &reviewServiceImpl{
		courses:  courses,
		reviews:  reviews,
		clusters: clusters,
		logger:   logger,
	}
}

// ValidateReview checks rating bounds and the comment length
func ValidateReview(req dto.ReviewRequest) validation.FieldErrors {
	errs := validation.FieldErrors{}
	errs.Check(validation.NewNumericValidation(req.Rating).WithMin(models.MinRating).WithMax(models.MaxRating).Validate(),
		"rating", fmt.Sprintf("rating must be between %d and %d", models.MinRating, models.MaxRating))
	errs.Check(validation.NewStringValidation(req.Comment).WithMaxLength(models.MaxCommentLength).Validate(),
		"comment", fmt.Sprintf("comment is required and must be at most %d characters", models.MaxCommentLength))
	return errs
}

// AddReview stores a valid review and then recomputes the recommendation
// clusters once. A failed recompute is logged; the review stays.
func (s *reviewServiceImpl) AddReview(ctx context.Context, slug string, userID int64, req dto.ReviewRequest) (*models.Review, error) {
	course, err := s.courses.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	if errs := ValidateReview(req); !errs.Valid() {
		return nil, apperrors.NewValidationError(errs)
	}

	review := &models.Review{
		CourseID: course.ID,
		UserID:   userID,
		Rating:   req.Rating,
		Comment:  req.Comment,
	}
	if err := s.reviews.Create(ctx, review); err != nil {
		return nil, fmt.Errorf("error creating review: %w", err)
	}

	s.logger.Info().Int64("courseID", course.ID).Int64("userID", userID).Int("rating", review.Rating).Msg("Review added")

	if err := s.clusters.UpdateClusters(ctx); err != nil {
		s.logger.Error().Err(err).Int64("reviewID", review.ID).Msg("Cluster recompute failed after review")
	}
	return review, nil
}
