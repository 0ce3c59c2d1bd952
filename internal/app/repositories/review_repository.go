package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/elearning/internal/app/models"
	"github.com/yigit/elearning/internal/pkg/cluster"
	"github.com/yigit/elearning/internal/pkg/logger"
)

// ReviewRepository handles database operations for reviews
type ReviewRepository struct {
	db *pgxpool.Pool
}

// NewReviewRepository creates a new review repository
func NewReviewRepository(db *pgxpool.Pool) *ReviewRepository {
	return &ReviewRepository{db: db}
}

// Create appends a review stamped with the current time
func (r *ReviewRepository) Create(ctx context.Context, review *models.Review) error {
	sql, args, err := psql.Insert("reviews").
		Columns("course_id", "user_id", "rating", "comment").
		Values(review.CourseID, review.UserID, review.Rating, review.Comment).
		Suffix("RETURNING id, pub_date").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create review SQL")
		return err
	}
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&review.ID, &review.PubDate); err != nil {
		return fmt.Errorf("create review: %w", err)
	}
	return nil
}

// LatestForCourse returns the newest reviews of a course with reviewer names
func (r *ReviewRepository) LatestForCourse(ctx context.Context, courseID int64, limit int) ([]*models.Review, error) {
	sql, args, err := psql.Select("r.id", "r.course_id", "r.user_id", "r.rating", "r.comment", "r.pub_date", ownerNameExpr).
		From("reviews r").
		Join("users u ON u.id = r.user_id").
		Where("r.course_id = ?", courseID).
		OrderBy("r.pub_date DESC", "r.id DESC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building latest reviews SQL")
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("latest reviews: %w", err)
	}
	defer rows.Close()

	reviews := make([]*models.Review, 0, limit)
	for rows.Next() {
		var rv models.Review
		if err := rows.Scan(&rv.ID, &rv.CourseID, &rv.UserID, &rv.Rating, &rv.Comment, &rv.PubDate, &rv.UserName); err != nil {
			return nil, err
		}
		reviews = append(reviews, &rv)
	}
	return reviews, rows.Err()
}

// AllRatings returns every rating for the clustering pass
func (r *ReviewRepository) AllRatings(ctx context.Context) ([]cluster.Rating, error) {
	rows, err := r.db.Query(ctx, `SELECT user_id, course_id, rating FROM reviews`)
	if err != nil {
		return nil, fmt.Errorf("load ratings: %w", err)
	}
	defer rows.Close()

	ratings := make([]cluster.Rating, 0)
	for rows.Next() {
		var rt cluster.Rating
		var rating int
		if err := rows.Scan(&rt.UserID, &rt.CourseID, &rating); err != nil {
			return nil, err
		}
		rt.Rating = float64(rating)
		ratings = append(ratings, rt)
	}
	return ratings, rows.Err()
}
