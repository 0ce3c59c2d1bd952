package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/elearning/internal/pkg/apperrors"
	"github.com/yigit/elearning/internal/pkg/dberrors"
)

// EnrollmentRepository handles database operations for enrollments
type EnrollmentRepository struct {
	db *pgxpool.Pool
}

// NewEnrollmentRepository creates a new enrollment repository
func NewEnrollmentRepository(db *pgxpool.Pool) *EnrollmentRepository {
	return &EnrollmentRepository{db: db}
}

// Enroll adds a student to a course; enrolling twice is a no-op
func (r *EnrollmentRepository) Enroll(ctx context.Context, courseID, studentID int64) (bool, error) {
	tag, err := r.db.Exec(ctx, `
		INSERT INTO enrollments (course_id, student_id) VALUES ($1, $2)
		ON CONFLICT (course_id, student_id) DO NOTHING`, courseID, studentID)
	if err != nil {
		if dberrors.IsForeignKeyViolation(err) {
			return false, apperrors.ErrCourseNotFound
		}
		return false, fmt.Errorf("enroll: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// IsEnrolled reports whether a student is enrolled in a course
func (r *EnrollmentRepository) IsEnrolled(ctx context.Context, courseID, studentID int64) (bool, error) {
	var ok bool
	err := r.db.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM enrollments WHERE course_id = $1 AND student_id = $2)`,
		courseID, studentID).Scan(&ok)
	if err != nil {
		return false, fmt.Errorf("check enrollment: %w", err)
	}
	return ok, nil
}
