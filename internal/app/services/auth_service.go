package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/rs/zerolog"
	"github.com/yigit/elearning/internal/app/models"
	"github.com/yigit/elearning/internal/app/models/dto"
	"github.com/yigit/elearning/internal/pkg/apperrors"
	"github.com/yigit/elearning/internal/pkg/auth"
	"github.com/yigit/elearning/internal/pkg/validation"
)

// TokenIssuer signs access tokens; *auth.JWTService implements it
type TokenIssuer interface {
	GenerateToken(user *models.User) (string, int, error)
}

// AuthService handles sign-up and login
type AuthService struct {
	userRepo UserStore
	tokens   TokenIssuer
	logger   zerolog.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(userRepo UserStore, tokens TokenIssuer, logger zerolog.Logger) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		tokens:   tokens,
		logger:   logger,
	}
}

// validatePassword requires a letter and a digit on top of the minimum length
func validatePassword(password string) bool {
	if len(password) < validation.PasswordMinLength {
		return false
	}
	hasLetter, hasDigit := false, false
	for _, r := range password {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	return hasLetter && hasDigit
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates a teacher or student account and logs it in
func (s *AuthService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error) {
	email := normalizeEmail(req.Email)

	errs := validation.FieldErrors{}
	errs.Check(validation.NewStringValidation(req.Username).WithPattern(validation.CompiledPatterns.Username).Validate(),
		"username", "username must be 3-30 letters, digits, dots, dashes or underscores")
	errs.Check(validation.NewStringValidation(email).WithPattern(validation.CompiledPatterns.Email).Validate(),
		"email", "invalid email format")
	errs.Check(validatePassword(req.Password), "password", "password must be at least 8 characters and contain a letter and a digit")
	errs.Check(req.RoleType.Valid(), "roleType", "role must be TEACHER or STUDENT")
	if !errs.Valid() {
		return nil, apperrors.NewValidationError(errs)
	}

	exists, err := s.userRepo.EmailExists(ctx, email, 0)
	if err != nil {
		return nil, fmt.Errorf("error checking if email exists: %w", err)
	}
	if exists {
		return nil, apperrors.ErrEmailAlreadyExists
	}

	hashed, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	user := &models.User{
		Username:  req.Username,
		Email:     email,
		Password:  hashed,
		FirstName: strings.TrimSpace(req.FirstName),
		LastName:  strings.TrimSpace(req.LastName),
		RoleType:  req.RoleType,
	}
	if err := s.userRepo.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("userID", user.ID).Str("role", string(user.RoleType)).Msg("User registered")
	return s.authResponse(user)
}

// Login checks credentials and issues an access token
func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	user, err := s.userRepo.GetUserByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("error loading user: %w", err)
	}

	if !auth.CheckPassword(user.Password, req.Password) {
		return nil, apperrors.ErrInvalidCredentials
	}
	return s.authResponse(user)
}

func (s *AuthService) authResponse(user *models.User) (*dto.AuthResponse, error) {
	token, expiresIn, err := s.tokens.GenerateToken(user)
	if err != nil {
		return nil, fmt.Errorf("error generating token: %w", err)
	}
	return &dto.AuthResponse{
		Token: dto.TokenResponse{
			AccessToken: token,
			TokenType:   "Bearer",
			ExpiresIn:   int64(expiresIn),
		},
		User: dto.NewUserResponse(user),
	}, nil
}
