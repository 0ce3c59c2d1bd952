package seed

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"
	"github.com/yigit/elearning/internal/app/models"
	"github.com/yigit/elearning/internal/pkg/auth"
	"github.com/yigit/elearning/internal/pkg/helpers"
)

// DefaultSubjects are created on first start
var DefaultSubjects = []string{
	"Programming",
	"Mathematics",
	"Physics",
	"Music",
}

// SubjectSeeder inserts a subject unless its slug exists
type SubjectSeeder interface {
	EnsureSubject(ctx context.Context, title, slug string) (bool, error)
}

// UserSeeder returns an existing user by email or creates it
type UserSeeder interface {
	GetOrCreate(ctx context.Context, user *models.User) (*models.User, bool, error)
}

// Options controls the optional demo teacher account
type Options struct {
	TeacherEmail    string
	TeacherPassword string
}

// CreateDefaultData creates the default subjects and, when configured, a
// teacher account. Failures are collected so one bad row does not stop the rest.
func CreateDefaultData(ctx context.Context, subjects SubjectSeeder, users UserSeeder, opts Options, lgr zerolog.Logger) error {
	lgr.Info().Msg("Checking/Creating default data (Subjects)...")
	var finalErr error

	for _, title := range DefaultSubjects {
		slug := helpers.Slugify(title)
		created, err := subjects.EnsureSubject(ctx, title, slug)
		if err != nil {
			lgr.Error().Err(err).Str("subject", slug).Msg("Error creating subject")
			finalErr = errors.Join(finalErr, err)
			continue
		}
		if created {
			lgr.Info().Str("subject", slug).Msg("Subject created")
		}
	}

	if opts.TeacherEmail != "" {
		if err := createTeacher(ctx, users, opts, lgr); err != nil {
			finalErr = errors.Join(finalErr, err)
		}
	}

	lgr.Info().Msg("Default data check/creation finished.")
	return finalErr
}

func createTeacher(ctx context.Context, users UserSeeder, opts Options, lgr zerolog.Logger) error {
	if opts.TeacherPassword == "" {
		lgr.Warn().Msg("Seed teacher email set without a password, skipping")
		return nil
	}

	hashed, err := auth.HashPassword(opts.TeacherPassword)
	if err != nil {
		lgr.Error().Err(err).Msg("Error hashing teacher password")
		return err
	}

	email := strings.ToLower(strings.TrimSpace(opts.TeacherEmail))
	username, _, _ := strings.Cut(email, "@")
	user, created, err := users.GetOrCreate(ctx, &models.User{
		Username: username,
		Email:    email,
		Password: hashed,
		RoleType: models.RoleTeacher,
	})
	if err != nil {
		lgr.Error().Err(err).Msg("Error creating teacher user")
		return err
	}

	if created {
		lgr.Info().Int64("userID", user.ID).Msg("Default teacher user created successfully")
	} else {
		lgr.Info().Msg("Teacher user already exists, skipping creation")
	}
	return nil
}
