package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/yigit/elearning/internal/app/models/dto"
	"github.com/yigit/elearning/internal/pkg/apperrors"
	"github.com/yigit/elearning/internal/pkg/validation"
)

// UserService defines the profile operations of the signed-in user
type UserService interface {
	GetProfile(ctx context.Context, userID int64) (*dto.UserResponse, error)
	UpdateProfile(ctx context.Context, userID int64, req *dto.UpdateProfileRequest) (*dto.UserResponse, error)
}

type userServiceImpl struct {
	userRepo UserStore
	logger   zerolog.Logger
}

// NewUserService creates a new UserService
func NewUserService(userRepo UserStore, logger zerolog.Logger) UserService {
	return &userServiceImpl{userRepo: userRepo, logger: logger}
}

// GetProfile returns the user's public profile
func (s *userServiceImpl) GetProfile(ctx context.Context, userID int64) (*dto.UserResponse, error) {
	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	resp := dto.NewUserResponse(user)
	return &resp, nil
}

// UpdateProfile changes first name, last name and email
func (s *userServiceImpl) UpdateProfile(ctx context.Context, userID int64, req *dto.UpdateProfileRequest) (*dto.UserResponse, error) {
	email := normalizeEmail(req.Email)

	errs := validation.FieldErrors{}
	errs.Check(validation.NewStringValidation(email).WithPattern(validation.CompiledPatterns.Email).Validate(),
		"email", "invalid email format")
	errs.Check(validation.NewStringValidation(req.FirstName).WithRequired(false).WithMaxLength(150).Validate(),
		"firstName", "first name must be at most 150 characters")
	errs.Check(validation.NewStringValidation(req.LastName).WithRequired(false).WithMaxLength(150).Validate(),
		"lastName", "last name must be at most 150 characters")
	if !errs.Valid() {
		return nil, apperrors.NewValidationError(errs)
	}

	taken, err := s.userRepo.EmailExists(ctx, email, userID)
	if err != nil {
		return nil, fmt.Errorf("error checking email: %w", err)
	}
	if taken {
		return nil, apperrors.ErrEmailAlreadyExists
	}

	if err := s.userRepo.UpdateProfile(ctx, userID, strings.TrimSpace(req.FirstName), strings.TrimSpace(req.LastName), email); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("userID", userID).Msg("Profile updated")
	return s.GetProfile(ctx, userID)
}
