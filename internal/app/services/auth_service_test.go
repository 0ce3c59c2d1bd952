package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/elearning/internal/app/models"
	"github.com/yigit/elearning/internal/app/models/dto"
	"github.com/yigit/elearning/internal/pkg/apperrors"
	"github.com/yigit/elearning/internal/pkg/auth"
)

type fakeUsers struct {
	byID map[int64]*models.User
	next int64
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{byID: map[int64]*models.User{}}
}

func (f *fakeUsers) CreateUser(_ context.Context, u *models.User) error {
	for _, existing := range f.byID {
		if existing.Username == u.Username {
			return apperrors.ErrUsernameTaken
		}
	}
	f.next++
	u.ID = f.next
	u.CreatedAt = time.Now()
	f.byID[u.ID] = u
	return nil
}

func (f *fakeUsers) GetUserByID(_ context.Context, id int64) (*models.User, error) {
	if u, ok := f.byID[id]; ok {
		return u, nil
	}
	return nil, apperrors.ErrUserNotFound
}

func (f *fakeUsers) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range f.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, apperrors.ErrUserNotFound
}

func (f *fakeUsers) EmailExists(_ context.Context, email string, excludeID int64) (bool, error) {
	for _, u := range f.byID {
		if u.Email == email && u.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeUsers) UpdateProfile(_ context.Context, id int64, first, last, email string) error {
	u, ok := f.byID[id]
	if !ok {
		return apperrors.ErrUserNotFound
	}
	u.FirstName, u.LastName, u.Email = first, last, email
	return nil
}

func newAuthFixture(t *testing.T) (*fakeUsers, *AuthService) {
	t.Helper()
	prev := auth.BcryptCost
	auth.BcryptCost = 4
	t.Cleanup(func() { auth.BcryptCost = prev })

	users := newFakeUsers()
	jwt := auth.NewJWTService(auth.JWTConfig{SecretKey: "test", AccessTokenExp: time.Hour, TokenIssuer: "test"})
	return users, NewAuthService(users, jwt, testLogger)
}

func TestRegisterAndLogin(t *testing.T) {
	users, svc := newAuthFixture(t)

	resp, err := svc.Register(context.Background(), &dto.RegisterRequest{
		Username: "ada", Email: "Ada@Example.com", Password: "secret123", RoleType: models.RoleTeacher,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token.AccessToken)
	assert.Equal(t, int64(3600), resp.Token.ExpiresIn)
	assert.Equal(t, "ada@example.com", resp.User.Email)
	assert.Contains(t, resp.User.Permissions, models.PermAddCourse)
	assert.NotEqual(t, "secret123", users.byID[resp.User.ID].Password)

	login, err := svc.Login(context.Background(), &dto.LoginRequest{Email: "ada@example.com", Password: "secret123"})
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, login.User.ID)

	_, err = svc.Login(context.Background(), &dto.LoginRequest{Email: "ada@example.com", Password: "wrong1234"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)

	_, err = svc.Login(context.Background(), &dto.LoginRequest{Email: "nobody@example.com", Password: "secret123"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
}

func TestRegisterValidation(t *testing.T) {
	_, svc := newAuthFixture(t)

	_, err := svc.Register(context.Background(), &dto.RegisterRequest{
		Username: "a", Email: "bad", Password: "short", RoleType: "ADMIN",
	})
	require.ErrorIs(t, err, apperrors.ErrValidationFailed)
	fields := apperrors.FieldErrors(err)
	for _, f := range []string{"username", "email", "password", "roleType"} {
		assert.Contains(t, fields, f)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	_, svc := newAuthFixture(t)
	req := &dto.RegisterRequest{Username: "ada", Email: "ada@example.com", Password: "secret123", RoleType: models.RoleStudent}
	_, err := svc.Register(context.Background(), req)
	require.NoError(t, err)

	req.Username = "ada2"
	_, err = svc.Register(context.Background(), req)
	assert.ErrorIs(t, err, apperrors.ErrResourceAlreadyExists)
}

func TestUpdateProfile(t *testing.T) {
	users := newFakeUsers()
	_ = users.CreateUser(context.Background(), &models.User{Username: "a", Email: "a@example.com", RoleType: models.RoleStudent})
	_ = users.CreateUser(context.Background(), &models.User{Username: "b", Email: "b@example.com", RoleType: models.RoleStudent})
	svc := NewUserService(users, testLogger)

	resp, err := svc.UpdateProfile(context.Background(), 1, &dto.UpdateProfileRequest{FirstName: "Ada", LastName: "L", Email: "ada@example.com"})
	require.NoError(t, err)
	assert.Equal(t, "Ada", resp.FirstName)
	assert.Equal(t, "ada@example.com", resp.Email)

	_, err = svc.UpdateProfile(context.Background(), 1, &dto.UpdateProfileRequest{Email: "b@example.com"})
	assert.ErrorIs(t, err, apperrors.ErrEmailAlreadyExists)
}
