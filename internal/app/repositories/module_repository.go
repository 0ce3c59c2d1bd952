package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/elearning/internal/app/models"
	"github.com/yigit/elearning/internal/pkg/apperrors"
	"github.com/yigit/elearning/internal/pkg/logger"
)

// ModuleRepository handles database operations for modules
type ModuleRepository struct {
	db *pgxpool.Pool
}

// NewModuleRepository creates a new module repository
func NewModuleRepository(db *pgxpool.Pool) *ModuleRepository {
	return &ModuleRepository{db: db}
}

func scanModule(row pgx.Row) (*models.Module, error) {
	var m models.Module
	if err := row.Scan(&m.ID, &m.CourseID, &m.Title, &m.Description, &m.Order); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrModuleNotFound
		}
		return nil, err
	}
	return &m, nil
}

// ListByCourse returns a course's modules by position
func (r *ModuleRepository) ListByCourse(ctx context.Context, courseID int64) ([]*models.Module, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, course_id, title, description, "order"
		FROM modules WHERE course_id = $1
		ORDER BY "order", id`, courseID)
	if err != nil {
		return nil, fmt.Errorf("list modules: %w", err)
	}
	defer rows.Close()

	modules := make([]*models.Module, 0)
	for rows.Next() {
		m, err := scanModule(rows)
		if err != nil {
			return nil, err
		}
		modules = append(modules, m)
	}
	return modules, rows.Err()
}

// GetInCourse retrieves a module only when it belongs to courseID
func (r *ModuleRepository) GetInCourse(ctx context.Context, moduleID, courseID int64) (*models.Module, error) {
	return scanModule(r.db.QueryRow(ctx, `
		SELECT id, course_id, title, description, "order"
		FROM modules WHERE id = $1 AND course_id = $2`, moduleID, courseID))
}

// GetForOwner retrieves a module only when its course is owned by ownerID
func (r *ModuleRepository) GetForOwner(ctx context.Context, moduleID, ownerID int64) (*models.Module, error) {
	return scanModule(r.db.QueryRow(ctx, `
		SELECT m.id, m.course_id, m.title, m.description, m."order"
		FROM modules m JOIN courses c ON c.id = m.course_id
		WHERE m.id = $1 AND c.owner_id = $2`, moduleID, ownerID))
}

// NextOrder returns max(order)+1 within a course, or 0 for an empty course
func (r *ModuleRepository) NextOrder(ctx context.Context, q Querier, courseID int64) (int, error) {
	var next int
	err := q.QueryRow(ctx, `SELECT COALESCE(MAX("order") + 1, 0) FROM modules WHERE course_id = $1`, courseID).Scan(&next)
	if err != nil {
		return 0, fmt.Errorf("next module order: %w", err)
	}
	return next, nil
}

// Create inserts a module at the given order
func (r *ModuleRepository) Create(ctx context.Context, q Querier, m *models.Module) error {
	sql, args, err := psql.Insert("modules").
		Columns("course_id", "title", "description", `"order"`).
		Values(m.CourseID, m.Title, m.Description, m.Order).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create module SQL")
		return err
	}
	if err := q.QueryRow(ctx, sql, args...).Scan(&m.ID); err != nil {
		return fmt.Errorf("create module: %w", err)
	}
	return nil
}

// Update changes a module's title and description within its course
func (r *ModuleRepository) Update(ctx context.Context, q Querier, m *models.Module) error {
	sql, args, err := psql.Update("modules").
		Set("title", m.Title).
		Set("description", m.Description).
		Where(squirrel.Eq{"id": m.ID, "course_id": m.CourseID}).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building update module SQL")
		return err
	}
	tag, err := q.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update module: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrModuleNotFound
	}
	return nil
}

// DeleteExcept removes a course's modules whose ids are not in keep
func (r *ModuleRepository) DeleteExcept(ctx context.Context, q Querier, courseID int64, keep []int64) (int64, error) {
	del := psql.Delete("modules").Where(squirrel.Eq{"course_id": courseID})
	if len(keep) > 0 {
		del = del.Where(squirrel.NotEq{"id": keep})
	}
	sql, args, err := del.ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building delete modules SQL")
		return 0, err
	}
	tag, err := q.Exec(ctx, sql, args...)
	if err != nil {
		return 0, fmt.Errorf("delete modules: %w", err)
	}
	return tag.RowsAffected(), nil
}

// UpdateOrderForOwner sets a module's position when ownerID owns its course.
// It reports whether a row changed.
func (r *ModuleRepository) UpdateOrderForOwner(ctx context.Context, moduleID, ownerID int64, order int) (bool, error) {
	tag, err := r.db.Exec(ctx, `
		UPDATE modules SET "order" = $1
		WHERE id = $2 AND course_id IN (SELECT id FROM courses WHERE owner_id = $3)`,
		order, moduleID, ownerID)
	if err != nil {
		return false, fmt.Errorf("update module order: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}
