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

// ItemRepository reads and writes the per-kind item tables. The table and
// payload column come from models.ContentKind, never from request input.
type ItemRepository struct {
	db *pgxpool.Pool
}

// NewItemRepository creates a new item repository
func NewItemRepository(db *pgxpool.Pool) *ItemRepository {
	return &ItemRepository{db: db}
}

func itemSelect(kind models.ContentKind) squirrel.SelectBuilder {
	return psql.Select("id", "owner_id", "title", "created_at", "updated_at", kind.PayloadField).From(kind.Table)
}

func scanItem(kind models.ContentKind, row pgx.Row) (models.Item, error) {
	item := kind.New()
	b := item.Base()
	var payload string
	if err := row.Scan(&b.ID, &b.OwnerID, &b.Title, &b.CreatedAt, &b.UpdatedAt, &payload); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrItemNotFound
		}
		return nil, err
	}
	item.SetPayload(payload)
	return item, nil
}

// GetForOwner loads an item only when ownerID owns it
func (r *ItemRepository) GetForOwner(ctx context.Context, kind models.ContentKind, id, ownerID int64) (models.Item, error) {
	sql, args, err := itemSelect(kind).Where(squirrel.Eq{"id": id, "owner_id": ownerID}).ToSql()
	if err != nil {
		logger.Error().Err(err).Str("table", kind.Table).Msg("Error building get item SQL")
		return nil, err
	}
	return scanItem(kind, r.db.QueryRow(ctx, sql, args...))
}

// GetMany loads items of one kind keyed by id; missing ids are absent from the map
func (r *ItemRepository) GetMany(ctx context.Context, kind models.ContentKind, ids []int64) (map[int64]models.Item, error) {
	items := make(map[int64]models.Item, len(ids))
	if len(ids) == 0 {
		return items, nil
	}
	sql, args, err := itemSelect(kind).Where(squirrel.Eq{"id": ids}).ToSql()
	if err != nil {
		logger.Error().Err(err).Str("table", kind.Table).Msg("Error building list items SQL")
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", kind.Table, err)
	}
	defer rows.Close()

	for rows.Next() {
		item, err := scanItem(kind, rows)
		if err != nil {
			return nil, err
		}
		items[item.Base().ID] = item
	}
	return items, rows.Err()
}

// Create inserts an item and fills its id and timestamps
func (r *ItemRepository) Create(ctx context.Context, kind models.ContentKind, item models.Item) error {
	b := item.Base()
	sql, args, err := psql.Insert(kind.Table).
		Columns("owner_id", "title", kind.PayloadField).
		Values(b.OwnerID, b.Title, item.Payload()).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Str("table", kind.Table).Msg("Error building create item SQL")
		return err
	}
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt); err != nil {
		return fmt.Errorf("create %s: %w", kind.Type, err)
	}
	return nil
}

// Update saves title and payload of an owned item
func (r *ItemRepository) Update(ctx context.Context, kind models.ContentKind, item models.Item) error {
	b := item.Base()
	sql, args, err := psql.Update(kind.Table).
		Set("title", b.Title).
		Set(kind.PayloadField, item.Payload()).
		Set("updated_at", squirrelNow).
		Where(squirrel.Eq{"id": b.ID, "owner_id": b.OwnerID}).
		Suffix("RETURNING updated_at").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Str("table", kind.Table).Msg("Error building update item SQL")
		return err
	}
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&b.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.ErrItemNotFound
		}
		return fmt.Errorf("update %s: %w", kind.Type, err)
	}
	return nil
}

// Delete removes an item and returns its payload so stored files can be cleaned up
func (r *ItemRepository) Delete(ctx context.Context, kind models.ContentKind, id int64) (string, error) {
	sql, args, err := psql.Delete(kind.Table).
		Where(squirrel.Eq{"id": id}).
		Suffix("RETURNING " + kind.PayloadField).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Str("table", kind.Table).Msg("Error building delete item SQL")
		return "", err
	}
	var payload string
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&payload); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", apperrors.ErrItemNotFound
		}
		return "", fmt.Errorf("delete %s: %w", kind.Type, err)
	}
	return payload, nil
}
