package services

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"rental-backend/internal/auth"
	"rental-backend/internal/models"
)

type UserService struct {
	Repo              UserStore
	JWTManager        *auth.JWTManager
	AllowRegistration bool
}

func NewUserService(repo UserStore, jwtManager *auth.JWTManager, allowRegistration bool) *UserService {
	return &UserService{
		Repo:              repo,
		JWTManager:        jwtManager,
		AllowRegistration: allowRegistration,
	}
}

func normalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return "", models.NewValidationError("email", "email is required")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return "", models.NewValidationError("email", "invalid email address")
	}
	return email, nil
}

func checkPassword(field, password string) error {
	if len(password) < auth.MinPasswordLength {
		return models.NewValidationError(field, fmt.Sprintf("must be at least %d characters", auth.MinPasswordLength))
	}
	return nil
}

// Login checks credentials and issues a token. Unknown email and wrong
// password are indistinguishable to the caller.
func (s *UserService) Login(ctx context.Context, req *models.LoginRequest) (*models.AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || req.Password == "" {
		return nil, models.NewValidationError("email", "email and password are required")
	}

	user, err := s.Repo.GetByEmail(ctx, email)
	if errors.Is(err, models.ErrNotFound) {
		return nil, models.ErrInvalidLogin
	}
	if err != nil {
		return nil, err
	}
	if !auth.VerifyPassword(user.PasswordHash, req.Password) {
		return nil, models.ErrInvalidLogin
	}

	return s.issue(user)
}

// Register creates a plain user account when self registration is enabled
func (s *UserService) Register(ctx context.Context, req *models.RegisterRequest) (*models.AuthResponse, error) {
	if !s.AllowRegistration {
		return nil, fmt.Errorf("registration is disabled: %w", models.ErrForbidden)
	}
	user, err := s.create(ctx, req.Email, req.Password, models.RoleUser)
	if err != nil {
		return nil, err
	}
	return s.issue(user)
}

// CreateUser is the admin path for adding accounts of either role
func (s *UserService) CreateUser(ctx context.Context, req *models.CreateUserRequest) (*models.User, error) {
	role := strings.ToLower(strings.TrimSpace(req.Role))
	switch role {
	case "":
		role = models.RoleUser
	case models.RoleUser, models.RoleAdmin:
	default:
		return nil, models.NewValidationError("role", "must be user or admin")
	}
	return s.create(ctx, req.Email, req.Password, role)
}

func (s *UserService) create(ctx context.Context, email, password, role string) (*models.User, error) {
	email, err := normalizeEmail(email)
	if err != nil {
		return nil, err
	}
	if err := checkPassword("password", password); err != nil {
		return nil, err
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := &models.User{Email: email, PasswordHash: hash, Role: role}
	if err := s.Repo.Create(ctx, user); err != nil {
		if errors.Is(err, models.ErrConflict) {
			return nil, fmt.Errorf("user already exists: %w", models.ErrConflict)
		}
		return nil, err
	}
	return user, nil
}

func (s *UserService) issue(user *models.User) (*models.AuthResponse, error) {
	token, err := s.JWTManager.GenerateToken(user)
	if err != nil {
		return nil, err
	}
	return &models.AuthResponse{Token: token, User: user}, nil
}

func (s *UserService) GetUser(ctx context.Context, id int) (*models.User, error) {
	return s.Repo.Get(ctx, id)
}

// ListUsers returns all users
func (s *UserService) ListUsers(ctx context.Context) ([]*models.User, error) {
	return s.Repo.List(ctx)
}

// ChangePassword sets a new password for target. Users changing their own
// password must confirm the current one; admins resetting someone else's
// do not.
func (s *UserService) ChangePassword(ctx context.Context, actor *models.User, targetID int, req *models.ChangePasswordRequest) error {
	self := actor.ID == targetID
	if !self && !actor.IsAdmin() {
		return models.ErrForbidden
	}
	if err := checkPassword("newPassword", req.NewPassword); err != nil {
		return err
	}

	target, err := s.Repo.Get(ctx, targetID)
	if err != nil {
		return err
	}
	if self && !auth.VerifyPassword(target.PasswordHash, req.CurrentPassword) {
		return models.NewValidationError("currentPassword", "current password is incorrect")
	}

	hash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		return err
	}
	return s.Repo.UpdatePassword(ctx, targetID, hash)
}

// DeleteUser removes an account. Admins cannot delete themselves.
func (s *UserService) DeleteUser(ctx context.Context, actorID, id int) error {
	if actorID == id {
		return models.ErrSelfDelete
	}
	return s.Repo.Delete(ctx, id)
}
