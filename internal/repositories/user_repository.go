package repositories

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"rental-backend/internal/models"
)

type UserRepository struct {
	DB *pgxpool.Pool
}

func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{DB: db}
}

const userColumns = `id, email, password_hash, role, created_at, updated_at`

func (r *UserRepository) Create(ctx context.Context, u *models.User) error {
	if u.Role == "" {
		u.Role = models.RoleUser // Default role
	}
	err := r.DB.QueryRow(ctx,
		`INSERT INTO users(email, password_hash, role)
         VALUES($1, $2, $3)
         RETURNING id, created_at, updated_at`,
		u.Email, u.PasswordHash, u.Role,
	).Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt)
	return translate("create user", err)
}

func (r *UserRepository) Get(ctx context.Context, id int) (*models.User, error) {
	var user models.User
	err := r.DB.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id=$1`, id,
	).Scan(&user.ID, &user.Email, &user.PasswordHash, &user.Role, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return nil, translate("get user", err)
	}
	return &user, nil
}

// GetByEmail matches case-insensitively
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.DB.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE LOWER(email)=LOWER($1)`, email,
	).Scan(&user.ID, &user.Email, &user.PasswordHash, &user.Role, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return nil, translate("get user by email", err)
	}
	return &user, nil
}

// List returns all users, newest first
func (r *UserRepository) List(ctx context.Context) ([]*models.User, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT `+userColumns+` FROM users ORDER BY created_at DESC`)
	if err != nil {
		return nil, translate("list users", err)
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		var user models.User
		if err := rows.Scan(&user.ID, &user.Email, &user.PasswordHash, &user.Role,
			&user.CreatedAt, &user.UpdatedAt); err != nil {
			return nil, translate("scan user", err)
		}
		users = append(users, &user)
	}
	return users, translate("list users", rows.Err())
}

func (r *UserRepository) UpdatePassword(ctx context.Context, id int, hash string) error {
	tag, err := r.DB.Exec(ctx,
		`UPDATE users SET password_hash=$1, updated_at=NOW() WHERE id=$2`, hash, id)
	if err != nil {
		return translate("update password", err)
	}
	if tag.RowsAffected() == 0 {
		return translate("update password", errNoRows)
	}
	return nil
}

func (r *UserRepository) Delete(ctx context.Context, id int) error {
	tag, err := r.DB.Exec(ctx, `DELETE FROM users WHERE id=$1`, id)
	if err != nil {
		return translate("delete user", err)
	}
	if tag.RowsAffected() == 0 {
		return translate("delete user", errNoRows)
	}
	return nil
}

// CountAdmins is used by the CLI bootstrap
func (r *UserRepository) CountAdmins(ctx context.Context) (int, error) {
	var n int
	err := r.DB.QueryRow(ctx, `SELECT COUNT(*) FROM users WHERE role='admin'`).Scan(&n)
	return n, translate("count admins", err)
}
