package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"rental-backend/internal/auth"
	"rental-backend/internal/config"
	"rental-backend/internal/models"
)

func newUserService(allow bool) (*UserService, *MockUserStore) {
	cfg := &config.Config{}
	cfg.JWT.Secret = "test-secret"
	cfg.JWT.Issuer = "rental-backend"
	cfg.JWT.ExpirationHours = 1

	repo := &MockUserStore{}
	return NewUserService(repo, auth.NewJWTManager(cfg), allow), repo
}

func storedUser(t *testing.T, id int, role, password string) *models.User {
	t.Helper()
	hash, err := auth.HashPassword(password)
	require.NoError(t, err)
	return &models.User{ID: id, Email: "user@example.com", PasswordHash: hash, Role: role}
}

func TestLogin_Success(t *testing.T) {
	svc, repo := newUserService(false)
	user := storedUser(t, 1, models.RoleAdmin, "secret123")
	repo.On("GetByEmail", mock.Anything, "user@example.com").Return(user, nil)

	resp, err := svc.Login(context.Background(), &models.LoginRequest{Email: "  User@Example.com ", Password: "secret123"})
	require.NoError(t, err)

	claims, err := svc.JWTManager.ValidateToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, 1, claims.UserID)
	assert.Equal(t, models.RoleAdmin, claims.Role)
	assert.Equal(t, user, resp.User)
}

func TestLogin_FailuresLookAlike(t *testing.T) {
	svc, repo := newUserService(false)
	repo.On("GetByEmail", mock.Anything, "user@example.com").Return(storedUser(t, 1, models.RoleUser, "secret123"), nil)
	repo.On("GetByEmail", mock.Anything, "ghost@example.com").Return(nil, models.ErrNotFound)

	_, err := svc.Login(context.Background(), &models.LoginRequest{Email: "user@example.com", Password: "wrong-pass"})
	assert.True(t, errors.Is(err, models.ErrInvalidLogin))

	_, err = svc.Login(context.Background(), &models.LoginRequest{Email: "ghost@example.com", Password: "secret123"})
	assert.True(t, errors.Is(err, models.ErrInvalidLogin))

	_, err = svc.Login(context.Background(), &models.LoginRequest{Email: "user@example.com"})
	assert.True(t, errors.Is(err, models.ErrValidation))
}

func TestRegister(t *testing.T) {
	t.Run("disabled", func(t *testing.T) {
		svc, repo := newUserService(false)
		_, err := svc.Register(context.Background(), &models.RegisterRequest{Email: "a@b.co", Password: "secret123"})
		assert.True(t, errors.Is(err, models.ErrForbidden))
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("always plain user", func(t *testing.T) {
		svc, repo := newUserService(true)
		repo.On("Create", mock.Anything, mock.MatchedBy(func(u *models.User) bool {
			return u.Email == "a@b.co" && u.Role == models.RoleUser && auth.VerifyPassword(u.PasswordHash, "secret123")
		})).Run(func(args mock.Arguments) {
			args.Get(1).(*models.User).ID = 9
		}).Return(nil)

		resp, err := svc.Register(context.Background(), &models.RegisterRequest{Email: "A@B.co", Password: "secret123"})
		require.NoError(t, err)
		assert.Equal(t, 9, resp.User.ID)
		assert.NotEmpty(t, resp.Token)
	})

	t.Run("duplicate", func(t *testing.T) {
		svc, repo := newUserService(true)
		repo.On("Create", mock.Anything, mock.Anything).Return(models.ErrConflict)
		_, err := svc.Register(context.Background(), &models.RegisterRequest{Email: "a@b.co", Password: "secret123"})
		assert.True(t, errors.Is(err, models.ErrConflict))
	})

	t.Run("short password", func(t *testing.T) {
		svc, _ := newUserService(true)
		_, err := svc.Register(context.Background(), &models.RegisterRequest{Email: "a@b.co", Password: "123"})
		assert.True(t, errors.Is(err, models.ErrValidation))
	})
}

func TestCreateUser_Role(t *testing.T) {
	svc, repo := newUserService(false)
	repo.On("Create", mock.Anything, mock.Anything).Return(nil)

	u, err := svc.CreateUser(context.Background(), &models.CreateUserRequest{Email: "ops@example.com", Password: "secret123", Role: "Admin"})
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, u.Role)

	_, err = svc.CreateUser(context.Background(), &models.CreateUserRequest{Email: "ops@example.com", Password: "secret123", Role: "owner"})
	var ve *models.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "role", ve.Field)
}

func TestChangePassword(t *testing.T) {
	ctx := context.Background()

	t.Run("self requires current password", func(t *testing.T) {
		svc, repo := newUserService(false)
		me := storedUser(t, 2, models.RoleUser, "oldpass1")
		repo.On("Get", mock.Anything, 2).Return(me, nil)
		repo.On("UpdatePassword", mock.Anything, 2, mock.AnythingOfType("string")).Return(nil)

		err := svc.ChangePassword(ctx, me, 2, &models.ChangePasswordRequest{CurrentPassword: "nope", NewPassword: "newpass1"})
		assert.True(t, errors.Is(err, models.ErrValidation))
		repo.AssertNotCalled(t, "UpdatePassword", mock.Anything, mock.Anything, mock.Anything)

		require.NoError(t, svc.ChangePassword(ctx, me, 2, &models.ChangePasswordRequest{CurrentPassword: "oldpass1", NewPassword: "newpass1"}))
		repo.AssertCalled(t, "UpdatePassword", mock.Anything, 2, mock.AnythingOfType("string"))
	})

	t.Run("admin resets another user", func(t *testing.T) {
		svc, repo := newUserService(false)
		admin := &models.User{ID: 1, Role: models.RoleAdmin}
		repo.On("Get", mock.Anything, 5).Return(storedUser(t, 5, models.RoleUser, "whatever"), nil)
		repo.On("UpdatePassword", mock.Anything, 5, mock.AnythingOfType("string")).Return(nil)

		require.NoError(t, svc.ChangePassword(ctx, admin, 5, &models.ChangePasswordRequest{NewPassword: "newpass1"}))
	})

	t.Run("user cannot touch another user", func(t *testing.T) {
		svc, repo := newUserService(false)
		err := svc.ChangePassword(ctx, &models.User{ID: 2, Role: models.RoleUser}, 5, &models.ChangePasswordRequest{NewPassword: "newpass1"})
		assert.True(t, errors.Is(err, models.ErrForbidden))
		repo.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
	})
}

func TestDeleteUser_Self(t *testing.T) {
	svc, repo := newUserService(false)
	repo.On("Delete", mock.Anything, 4).Return(nil)

	assert.True(t, errors.Is(svc.DeleteUser(context.Background(), 1, 1), models.ErrSelfDelete))
	assert.NoError(t, svc.DeleteUser(context.Background(), 1, 4))
	repo.AssertNumberOfCalls(t, "Delete", 1)
}
