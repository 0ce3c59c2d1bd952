package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/elearning/internal/app/models"
	"github.com/yigit/elearning/internal/pkg/apperrors"
	"github.com/yigit/elearning/internal/pkg/logger"
)

// ContentRepository handles database operations for content wrappers
type ContentRepository struct {
	db *pgxpool.Pool
}

// NewContentRepository creates a new content repository
func NewContentRepository(db *pgxpool.Pool) *ContentRepository {
	return &ContentRepository{db: db}
}

func scanContent(row pgx.Row) (*models.Content, error) {
	var c models.Content
	if err := row.Scan(&c.ID, &c.ModuleID, &c.ContentType, &c.ObjectID, &c.Order); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrContentNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *ContentRepository) list(ctx context.Context, sql string, args ...any) ([]*models.Content, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list contents: %w", err)
	}
	defer rows.Close()

	contents := make([]*models.Content, 0)
	for rows.Next() {
		c, err := scanContent(rows)
		if err != nil {
			return nil, err
		}
		contents = append(contents, c)
	}
	return contents, rows.Err()
}

// ListByModule returns a module's contents by position
func (r *ContentRepository) ListByModule(ctx context.Context, moduleID int64) ([]*models.Content, error) {
	return r.list(ctx, `
		SELECT id, module_id, content_type, object_id, "order"
		FROM contents WHERE module_id = $1
		ORDER BY "order", id`, moduleID)
}

// ListByCourse returns every content wrapper under a course
func (r *ContentRepository) ListByCourse(ctx context.Context, courseID int64) ([]*models.Content, error) {
	return r.list(ctx, `
		SELECT ct.id, ct.module_id, ct.content_type, ct.object_id, ct."order"
		FROM contents ct JOIN modules m ON m.id = ct.module_id
		WHERE m.course_id = $1`, courseID)
}

// GetForOwner resolves a wrapper through module and course to ownerID
func (r *ContentRepository) GetForOwner(ctx context.Context, contentID, ownerID int64) (*models.Content, error) {
	return scanContent(r.db.QueryRow(ctx, `
		SELECT ct.id, ct.module_id, ct.content_type, ct.object_id, ct."order"
		FROM contents ct
		JOIN modules m ON m.id = ct.module_id
		JOIN courses c ON c.id = m.course_id
		WHERE ct.id = $1 AND c.owner_id = $2`, contentID, ownerID))
}

// NextOrder returns max(order)+1 within a module, or 0 for an empty module
func (r *ContentRepository) NextOrder(ctx context.Context, moduleID int64) (int, error) {
	var next int
	err := r.db.QueryRow(ctx, `SELECT COALESCE(MAX("order") + 1, 0) FROM contents WHERE module_id = $1`, moduleID).Scan(&next)
	if err != nil {
		return 0, fmt.Errorf("next content order: %w", err)
	}
	return next, nil
}

// Create inserts a wrapper
func (r *ContentRepository) Create(ctx context.Context, c *models.Content) error {
	sql, args, err := psql.Insert("contents").
		Columns("module_id", "content_type", "object_id", `"order"`).
		Values(c.ModuleID, c.ContentType, c.ObjectID, c.Order).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create content SQL")
		return err
	}
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&c.ID); err != nil {
		return fmt.Errorf("create content: %w", err)
	}
	return nil
}

// Delete removes a wrapper by id
func (r *ContentRepository) Delete(ctx context.Context, contentID int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM contents WHERE id = $1`, contentID)
	if err != nil {
		return fmt.Errorf("delete content: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrContentNotFound
	}
	return nil
}

// UpdateOrderForOwner sets a wrapper's position when ownerID owns its course.
// It reports whether a row changed.
func (r *ContentRepository) UpdateOrderForOwner(ctx context.Context, contentID, ownerID int64, order int) (bool, error) {
	tag, err := r.db.Exec(ctx, `
		UPDATE contents SET "order" = $1
		WHERE id = $2 AND module_id IN (
			SELECT m.id FROM modules m JOIN courses c ON c.id = m.course_id WHERE c.owner_id = $3
		)`, order, contentID, ownerID)
	if err != nil {
		return false, fmt.Errorf("update content order: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}
