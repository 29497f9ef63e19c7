package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/blog-api/internal/database"
	"github.com/blog-api/internal/models"
)

// userRepo is the concrete implementation of UserRepository
type userRepo struct {
	db *database.DB
}

// NewUserRepo creates a new user repository
func NewUserRepo(db *database.DB) UserRepository {
	return &userRepo{db: db}
}

// Create inserts a new user
func (r *userRepo) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (id, username, password_hash, is_admin, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.db.ExecContext(ctx, query,
		user.ID, user.Username, user.PasswordHash, user.IsAdmin, user.CreatedAt,
	)
	return translateError("create user", err)
}

// GetByUsername retrieves a user by username
func (r *userRepo) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	query := `SELECT id, username, password_hash, is_admin, created_at FROM users WHERE username = $1`

	var user models.User
	err := r.db.QueryRowContext(ctx, query, username).Scan(
		&user.ID, &user.Username, &user.PasswordHash, &user.IsAdmin, &user.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, translateError("get user", err)
	}
	return &user, nil
}

// Delete removes a user. Articles they wrote keep existing with a null
// author (ON DELETE SET NULL).
func (r *userRepo) Delete(ctx context.Context, username string) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM users WHERE username = $1", username)
	if err != nil {
		return translateError("delete user", err)
	}
	return requireAffected(result)
}

// Count returns the total number of users
func (r *userRepo) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM users").Scan(&count)
	return count, err
}
