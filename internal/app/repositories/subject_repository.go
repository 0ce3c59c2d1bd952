package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/elearning/internal/app/models"
	"github.com/yigit/elearning/internal/app/models/dto"
	"github.com/yigit/elearning/internal/pkg/apperrors"
	"github.com/yigit/elearning/internal/pkg/logger"
)

// SubjectRepository handles database operations for subjects
type SubjectRepository struct {
	db *pgxpool.Pool
}

// NewSubjectRepository creates a new subject repository
func NewSubjectRepository(db *pgxpool.Pool) *SubjectRepository {
	return &SubjectRepository{db: db}
}

// GetBySlug retrieves a subject by slug
func (r *SubjectRepository) GetBySlug(ctx context.Context, slug string) (*models.Subject, error) {
	var s models.Subject
	err := r.db.QueryRow(ctx, `SELECT id, title, slug FROM subjects WHERE slug = $1`, slug).Scan(&s.ID, &s.Title, &s.Slug)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrSubjectNotFound
		}
		return nil, fmt.Errorf("error retrieving subject: %w", err)
	}
	return &s, nil
}

// Exists reports whether a subject id is known
func (r *SubjectRepository) Exists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	if err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM subjects WHERE id = $1)`, id).Scan(&exists); err != nil {
		return false, fmt.Errorf("check subject: %w", err)
	}
	return exists, nil
}

// GetAll retrieves all subjects ordered by title
func (r *SubjectRepository) GetAll(ctx context.Context) ([]*models.Subject, error) {
	rows, err := r.db.Query(ctx, `SELECT id, title, slug FROM subjects ORDER BY title`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	subjects := make([]*models.Subject, 0)
	for rows.Next() {
		var s models.Subject
		if err := rows.Scan(&s.ID, &s.Title, &s.Slug); err != nil {
			return nil, err
		}
		subjects = append(subjects, &s)
	}
	return subjects, rows.Err()
}

// ListWithCourseCounts returns every subject with its number of courses
func (r *SubjectRepository) ListWithCourseCounts(ctx context.Context) ([]dto.SubjectSummary, error) {
	sql, args, err := psql.Select("s.id", "s.title", "s.slug", "COUNT(c.id) AS total_courses").
		From("subjects s").
		LeftJoin("courses c ON c.subject_id = s.id").
		GroupBy("s.id", "s.title", "s.slug").
		OrderBy("s.title").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building subject summary SQL")
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list subjects: %w", err)
	}
	defer rows.Close()

	subjects := make([]dto.SubjectSummary, 0)
	for rows.Next() {
		var s dto.SubjectSummary
		if err := rows.Scan(&s.ID, &s.Title, &s.Slug, &s.TotalCourses); err != nil {
			return nil, err
		}
		subjects = append(subjects, s)
	}
	return subjects, rows.Err()
}

// EnsureSubject inserts a subject unless its slug already exists
func (r *SubjectRepository) EnsureSubject(ctx context.Context, title, slug string) (bool, error) {
	tag, err := r.db.Exec(ctx, `INSERT INTO subjects (title, slug) VALUES ($1, $2) ON CONFLICT (slug) DO NOTHING`, title, slug)
	if err != nil {
		return false, fmt.Errorf("ensure subject %s: %w", slug, err)
	}
	return tag.RowsAffected() == 1, nil
}
