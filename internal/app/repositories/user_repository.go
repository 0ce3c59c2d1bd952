package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/elearning/internal/app/models"
	"github.com/yigit/elearning/internal/pkg/apperrors"
	"github.com/yigit/elearning/internal/pkg/dberrors"
	"github.com/yigit/elearning/internal/pkg/logger"
)

var userColumns = []string{
	"id", "username", "email", "password", "first_name", "last_name", "role_type", "created_at", "updated_at",
}

// UserRepository handles database operations for users
type UserRepository struct {
	db *pgxpool.Pool
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: db}
}

func scanUser(row pgx.Row) (*models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.Password, &u.FirstName, &u.LastName, &u.RoleType, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

// CreateUser inserts a user and fills its ID and timestamps
func (r *UserRepository) CreateUser(ctx context.Context, user *models.User) error {
	sql, args, err := psql.Insert("users").
		Columns("username", "email", "password", "first_name", "last_name", "role_type").
		Values(user.Username, user.Email, user.Password, user.FirstName, user.LastName, user.RoleType).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create user SQL")
		return err
	}

	err = r.db.QueryRow(ctx, sql, args...).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		switch {
		case dberrors.IsDuplicateConstraintError(err, "users_email_key"):
			return apperrors.ErrEmailAlreadyExists
		case dberrors.IsDuplicateConstraintError(err, "users_username_key"):
			return apperrors.ErrUsernameTaken
		}
		logger.Error().Err(err).Str("email", user.Email).Msg("Error creating user")
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (r *UserRepository) getBy(ctx context.Context, column string, value interface{}) (*models.User, error) {
	sql, args, err := psql.Select(userColumns...).From("users").Where(column+" = ?", value).ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get user SQL")
		return nil, err
	}
	return scanUser(r.db.QueryRow(ctx, sql, args...))
}

// GetUserByID retrieves a user by ID
func (r *UserRepository) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	return r.getBy(ctx, "id", id)
}

// GetUserByEmail retrieves a user by email
func (r *UserRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.getBy(ctx, "email", email)
}

// EmailExists checks if an email is used by a user other than excludeID
func (r *UserRepository) EmailExists(ctx context.Context, email string, excludeID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE email = $1 AND id <> $2)`, email, excludeID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check email: %w", err)
	}
	return exists, nil
}

// UpdateProfile changes the editable profile fields
func (r *UserRepository) UpdateProfile(ctx context.Context, userID int64, firstName, lastName, email string) error {
	sql, args, err := psql.Update("users").
		Set("first_name", firstName).
		Set("last_name", lastName).
		Set("email", email).
		Set("updated_at", squirrelNow).
		Where("id = ?", userID).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building update profile SQL")
		return err
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "users_email_key") {
			return apperrors.ErrEmailAlreadyExists
		}
		return fmt.Errorf("update profile: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrUserNotFound
	}
	return nil
}

// GetOrCreate returns the user with the given email, creating it when missing
func (r *UserRepository) GetOrCreate(ctx context.Context, user *models.User) (*models.User, bool, error) {
	existing, err := r.GetUserByEmail(ctx, user.Email)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, apperrors.ErrUserNotFound) {
		return nil, false, err
	}
	if err := r.CreateUser(ctx, user); err != nil {
		return nil, false, err
	}
	return user, true, nil
}
