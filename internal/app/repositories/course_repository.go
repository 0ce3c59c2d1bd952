package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/elearning/internal/app/models"
	"github.com/yigit/elearning/internal/app/models/dto"
	"github.com/yigit/elearning/internal/pkg/apperrors"
	"github.com/yigit/elearning/internal/pkg/dberrors"
	"github.com/yigit/elearning/internal/pkg/logger"
)

// CourseRepository handles database operations for courses
type CourseRepository struct {
	db *pgxpool.Pool
}

// NewCourseRepository creates a new course repository
func NewCourseRepository(db *pgxpool.Pool) *CourseRepository {
	return &CourseRepository{db: db}
}

const ownerNameExpr = "COALESCE(NULLIF(TRIM(u.first_name || ' ' || u.last_name), ''), u.username)"

// summarySelect builds the catalog row query. reviewJoin decides which
// reviews feed the aggregates; the caller adds filters and ordering.
func summarySelect(reviewJoin func(squirrel.SelectBuilder) squirrel.SelectBuilder) squirrel.SelectBuilder {
	q := psql.Select(
		"c.id", "c.title", "c.slug", "c.overview", "c.subject_id", "s.title",
		ownerNameExpr, "c.created_at",
		"(SELECT COUNT(*) FROM modules m WHERE m.course_id = c.id) AS total_modules",
		"COUNT(r.id) AS total_reviews",
		"AVG(r.rating)::float8 AS average_rating",
	).
		From("courses c").
		Join("subjects s ON s.id = c.subject_id").
		Join("users u ON u.id = c.owner_id")
	return reviewJoin(q).GroupBy("c.id", "s.title", "u.first_name", "u.last_name", "u.username")
}

func allReviews(q squirrel.SelectBuilder) squirrel.SelectBuilder {
	return q.LeftJoin("reviews r ON r.course_id = c.id")
}

func (r *CourseRepository) querySummaries(ctx context.Context, q squirrel.SelectBuilder) ([]dto.CourseSummary, error) {
	sql, args, err := q.ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building course summary SQL")
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list course summaries: %w", err)
	}
	defer rows.Close()

	courses := make([]dto.CourseSummary, 0)
	for rows.Next() {
		var c dto.CourseSummary
		if err := rows.Scan(
			&c.ID, &c.Title, &c.Slug, &c.Overview, &c.SubjectID, &c.SubjectTitle,
			&c.OwnerName, &c.CreatedAt, &c.TotalModules, &c.TotalReviews, &c.AverageRating,
		); err != nil {
			return nil, err
		}
		courses = append(courses, c)
	}
	return courses, rows.Err()
}

// ListSummaries returns catalog rows, newest first, optionally for one subject
func (r *CourseRepository) ListSummaries(ctx context.Context, subjectID *int64) ([]dto.CourseSummary, error) {
	q := summarySelect(allReviews).OrderBy("c.created_at DESC", "c.id DESC")
	if subjectID != nil {
		q = q.Where(squirrel.Eq{"c.subject_id": *subjectID})
	}
	return r.querySummaries(ctx, q)
}

// excludeSeen drops courses the user reviewed or is enrolled in
func excludeSeen(q squirrel.SelectBuilder, userID int64) squirrel.SelectBuilder {
	return q.
		Where("c.id NOT IN (SELECT course_id FROM reviews WHERE user_id = ?)", userID).
		Where("c.id NOT IN (SELECT course_id FROM enrollments WHERE student_id = ?)", userID)
}

// RecommendFromPeers ranks courses by the ratings of peerIDs, keeping those
// averaging at least minAvg and unseen by userID.
func (r *CourseRepository) RecommendFromPeers(ctx context.Context, userID int64, peerIDs []int64, minAvg float64, limit int) ([]dto.CourseSummary, error) {
	if len(peerIDs) == 0 {
		return []dto.CourseSummary{}, nil
	}
	q := summarySelect(func(q squirrel.SelectBuilder) squirrel.SelectBuilder {
		return q.Join("reviews r ON r.course_id = c.id AND r.user_id = ANY(?)", peerIDs)
	})
	q = excludeSeen(q, userID).
		Having("AVG(r.rating) >= ?", minAvg).
		OrderBy("average_rating DESC", "total_reviews DESC", "c.id").
		Limit(uint64(limit))
	return r.querySummaries(ctx, q)
}

// TopRated returns the best-rated reviewed courses unseen by userID
func (r *CourseRepository) TopRated(ctx context.Context, userID int64, limit int) ([]dto.CourseSummary, error) {
	q := excludeSeen(summarySelect(allReviews), userID).
		Having("COUNT(r.id) > 0").
		OrderBy("average_rating DESC", "total_reviews DESC", "c.id").
		Limit(uint64(limit))
	return r.querySummaries(ctx, q)
}

func courseSelect() squirrel.SelectBuilder {
	return psql.Select(
		"c.id", "c.owner_id", "c.subject_id", "c.title", "c.slug", "c.overview", "c.created_at",
		"s.id", "s.title", "s.slug",
		"u.id", "u.username", "u.first_name", "u.last_name",
	).
		From("courses c").
		Join("subjects s ON s.id = c.subject_id").
		Join("users u ON u.id = c.owner_id")
}

func scanCourse(row pgx.Row) (*models.Course, error) {
	var c models.Course
	var s models.Subject
	var u models.User
	err := row.Scan(
		&c.ID, &c.OwnerID, &c.SubjectID, &c.Title, &c.Slug, &c.Overview, &c.CreatedAt,
		&s.ID, &s.Title, &s.Slug,
		&u.ID, &u.Username, &u.FirstName, &u.LastName,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrCourseNotFound
		}
		return nil, err
	}
	c.Subject = &s
	c.Owner = &u
	return &c, nil
}

func (r *CourseRepository) getOne(ctx context.Context, where squirrel.Sqlizer) (*models.Course, error) {
	sql, args, err := courseSelect().Where(where).ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get course SQL")
		return nil, err
	}
	return scanCourse(r.db.QueryRow(ctx, sql, args...))
}

// GetBySlug retrieves a course with its subject and owner
func (r *CourseRepository) GetBySlug(ctx context.Context, slug string) (*models.Course, error) {
	return r.getOne(ctx, squirrel.Eq{"c.slug": slug})
}

// GetByID retrieves a course with its subject and owner
func (r *CourseRepository) GetByID(ctx context.Context, id int64) (*models.Course, error) {
	return r.getOne(ctx, squirrel.Eq{"c.id": id})
}

// GetForOwner retrieves a course only when ownerID owns it
func (r *CourseRepository) GetForOwner(ctx context.Context, id, ownerID int64) (*models.Course, error) {
	return r.getOne(ctx, squirrel.Eq{"c.id": id, "c.owner_id": ownerID})
}

func (r *CourseRepository) list(ctx context.Context, q squirrel.SelectBuilder) ([]*models.Course, error) {
	sql, args, err := q.ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building list courses SQL")
		return nil, err
	}
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	defer rows.Close()

	courses := make([]*models.Course, 0)
	for rows.Next() {
		c, err := scanCourse(rows)
		if err != nil {
			return nil, err
		}
		courses = append(courses, c)
	}
	return courses, rows.Err()
}

// ListByOwner returns a teacher's courses, newest first
func (r *CourseRepository) ListByOwner(ctx context.Context, ownerID int64) ([]*models.Course, error) {
	return r.list(ctx, courseSelect().Where(squirrel.Eq{"c.owner_id": ownerID}).OrderBy("c.created_at DESC", "c.id DESC"))
}

// ListByStudent returns the courses a student is enrolled in
func (r *CourseRepository) ListByStudent(ctx context.Context, studentID int64) ([]*models.Course, error) {
	return r.list(ctx, courseSelect().
		Join("enrollments e ON e.course_id = c.id").
		Where(squirrel.Eq{"e.student_id": studentID}).
		OrderBy("e.enrolled_at DESC"))
}

// Create inserts a course
func (r *CourseRepository) Create(ctx context.Context, course *models.Course) error {
	sql, args, err := psql.Insert("courses").
		Columns("owner_id", "subject_id", "title", "slug", "overview").
		Values(course.OwnerID, course.SubjectID, course.Title, course.Slug, course.Overview).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create course SQL")
		return err
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&course.ID, &course.CreatedAt); err != nil {
		if dberrors.IsDuplicateConstraintError(err, "courses_slug_key") {
			return apperrors.ErrSlugAlreadyExists
		}
		if dberrors.IsForeignKeyViolation(err) {
			return apperrors.ErrSubjectNotFound
		}
		logger.Error().Err(err).Str("slug", course.Slug).Msg("Error creating course")
		return fmt.Errorf("create course: %w", err)
	}
	return nil
}

// Update changes an owned course; other owners' rows are reported as not found
func (r *CourseRepository) Update(ctx context.Context, course *models.Course) error {
	sql, args, err := psql.Update("courses").
		Set("subject_id", course.SubjectID).
		Set("title", course.Title).
		Set("slug", course.Slug).
		Set("overview", course.Overview).
		Where(squirrel.Eq{"id": course.ID, "owner_id": course.OwnerID}).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building update course SQL")
		return err
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "courses_slug_key") {
			return apperrors.ErrSlugAlreadyExists
		}
		if dberrors.IsForeignKeyViolation(err) {
			return apperrors.ErrSubjectNotFound
		}
		return fmt.Errorf("update course: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrCourseNotFound
	}
	return nil
}

// Delete removes an owned course; modules and contents cascade
func (r *CourseRepository) Delete(ctx context.Context, id, ownerID int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM courses WHERE id = $1 AND owner_id = $2`, id, ownerID)
	if err != nil {
		return fmt.Errorf("delete course: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrCourseNotFound
	}
	return nil
}

// SlugExists reports whether slug is taken by a course other than excludeID
func (r *CourseRepository) SlugExists(ctx context.Context, slug string, excludeID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM courses WHERE slug = $1 AND id <> $2)`, slug, excludeID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check slug: %w", err)
	}
	return exists, nil
}

// CourseStats holds the detail page aggregates
type CourseStats struct {
	TotalModules  int64
	TotalReviews  int64
	AverageRating *float64
}

// Stats computes module and review aggregates for one course
func (r *CourseRepository) Stats(ctx context.Context, courseID int64) (*CourseStats, error) {
	var st CourseStats
	err := r.db.QueryRow(ctx, `
		SELECT
			(SELECT COUNT(*) FROM modules WHERE course_id = $1),
			(SELECT COUNT(*) FROM reviews WHERE course_id = $1),
			(SELECT AVG(rating)::float8 FROM reviews WHERE course_id = $1)
	`, courseID).Scan(&st.TotalModules, &st.TotalReviews, &st.AverageRating)
	if err != nil {
		return nil, fmt.Errorf("course stats: %w", err)
	}
	return &st, nil
}
