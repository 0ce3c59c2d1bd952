package services

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/yigit/elearning/internal/app/models/dto"
	"github.com/yigit/elearning/internal/pkg/cluster"
)

const (
	// RecommendMinAverage is the peer average a course needs to be suggested
	RecommendMinAverage = 4.0
	// DefaultRecommendLimit caps the suggestions when the caller gives no limit
	DefaultRecommendLimit = 10

	SourceCluster  = "cluster"
	SourceTopRated = "top_rated"
)

// ClusterUpdater recomputes the user clusters
type ClusterUpdater interface {
	UpdateClusters(ctx context.Context) error
}

// RecommendationService groups users by their ratings and suggests courses
type RecommendationService interface {
	ClusterUpdater
	RecommendFor(ctx context.Context, userID int64, limit int) (*dto.RecommendationResponse, error)
}

// RecommendationConfig bounds the clustering run
type RecommendationConfig struct {
	MaxK          int
	MaxIterations int
}

type recommendationServiceImpl struct {
	reviews  ReviewStore
	clusters ClusterStore
	courses  CourseStore
	tx       Transactor
	cfg      RecommendationConfig
	logger   zerolog.Logger
}

// NewRecommendationService creates a new RecommendationService
func NewRecommendationService(
	reviews ReviewStore,
	clusters ClusterStore,
	courses CourseStore,
	tx Transactor,
	cfg RecommendationConfig,
	logger zerolog.Logger,
) RecommendationService {
	return &recommendationServiceImpl{
		reviews:  reviews,
		clusters: clusters,
		courses:  courses,
		tx:       tx,
		cfg:      cfg,
		logger:   logger,
	}
}

// UpdateClusters rebuilds the rating matrix, runs k-means and replaces the
// stored clusters in one transaction.
func (s *recommendationServiceImpl) UpdateClusters(ctx context.Context) error {
	ratings, err := s.reviews.AllRatings(ctx)
	if err != nil {
		return fmt.Errorf("error loading ratings: %w", err)
	}

	matrix := cluster.BuildMatrix(ratings)
	k := cluster.ClusterCount(len(matrix.Users), s.cfg.MaxK)
	assign := cluster.KMeans(matrix.Rows, k, s.cfg.MaxIterations)
	groups := cluster.Groups(matrix.Users, assign)

	err = s.tx.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		return s.clusters.Replace(ctx, tx, groups)
	})
	if err != nil {
		return fmt.Errorf("error storing clusters: %w", err)
	}

	s.logger.Info().
		Int("users", len(matrix.Users)).
		Int("courses", len(matrix.Courses)).
		Int("clusters", len(groups)).
		Msg("Recommendation clusters updated")
	return nil
}

// RecommendFor suggests courses rated well by the user's cluster mates,
// falling back to the global top-rated list for unclustered users.
func (s *recommendationServiceImpl) RecommendFor(ctx context.Context, userID int64, limit int) (*dto.RecommendationResponse, error) {
	if limit <= 0 {
		limit = DefaultRecommendLimit
	}

	peers, clustered, err := s.clusters.Peers(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error loading cluster: %w", err)
	}

	if clustered && len(peers) > 0 {
		courses, err := s.courses.RecommendFromPeers(ctx, userID, peers, RecommendMinAverage, limit)
		if err != nil {
			return nil, fmt.Errorf("error loading recommendations: %w", err)
		}
		return &dto.RecommendationResponse{Source: SourceCluster, Courses: nonNilSummaries(courses)}, nil
	}

	courses, err := s.courses.TopRated(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("error loading top rated courses: %w", err)
	}
	return &dto.RecommendationResponse{Source: SourceTopRated, Courses: nonNilSummaries(courses)}, nil
}

func nonNilSummaries(courses []dto.CourseSummary) []dto.CourseSummary {
	if courses == nil {
		return []dto.CourseSummary{}
	}
	return courses
}
