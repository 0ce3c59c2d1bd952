package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/elearning/internal/pkg/apperrors"
)

// OwnershipRepository resolves the teacher owning a course, module or content
type OwnershipRepository struct {
	db *pgxpool.Pool
}

// NewOwnershipRepository creates a new ownership repository
func NewOwnershipRepository(db *pgxpool.Pool) *OwnershipRepository {
	return &OwnershipRepository{db: db}
}

func (r *OwnershipRepository) owner(ctx context.Context, notFound error, sql string, id int64) (int64, error) {
	var owner int64
	if err := r.db.QueryRow(ctx, sql, id).Scan(&owner); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, notFound
		}
		return 0, fmt.Errorf("resolve owner: %w", err)
	}
	return owner, nil
}

func (r *OwnershipRepository) CourseOwner(ctx context.Context, courseID int64) (int64, error) {
	return r.owner(ctx, apperrors.ErrCourseNotFound, `SELECT owner_id FROM courses WHERE id = $1`, courseID)
}

func (r *OwnershipRepository) ModuleOwner(ctx context.Context, moduleID int64) (int64, error) {
	return r.owner(ctx, apperrors.ErrModuleNotFound, `
		SELECT c.owner_id FROM modules m JOIN courses c ON c.id = m.course_id
		WHERE m.id = $1`, moduleID)
}

func (r *OwnershipRepository) ContentOwner(ctx context.Context, contentID int64) (int64, error) {
	return r.owner(ctx, apperrors.ErrContentNotFound, `
		SELECT c.owner_id FROM contents ct
		JOIN modules m ON m.id = ct.module_id
		JOIN courses c ON c.id = m.course_id
		WHERE ct.id = $1`, contentID)
}
