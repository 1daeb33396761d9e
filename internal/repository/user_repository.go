package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/geopix/server/internal/models"
)

// UserRepository handles user persistence (SQLite)
type UserRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Add inserts a new user
func (r *UserRepository) Add(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (id, email, display_name, api_key_hash, password_hash, created_at, is_active)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		user.ID,
		user.Email,
		user.DisplayName,
		user.APIKeyHash,
		user.PasswordHash,
		user.CreatedAt,
		user.IsActive,
	)
	return err
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	return r.getOne(ctx, `WHERE id = ?`, id)
}

// GetByEmail retrieves a user by normalized email
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.getOne(ctx, `WHERE email = ?`, strings.TrimSpace(strings.ToLower(email)))
}

// GetByAPIKeyHash retrieves a user by API key hash
func (r *UserRepository) GetByAPIKeyHash(ctx context.Context, keyHash string) (*models.User, error) {
	return r.getOne(ctx, `WHERE api_key_hash = ?`, keyHash)
}

// UpdateAPIKeyHash replaces the user's API key hash
func (r *UserRepository) UpdateAPIKeyHash(ctx context.Context, id, keyHash string) error {
	_, err := r.db.ExecContext(ctx, `UPDATE users SET api_key_hash = ? WHERE id = ?`, keyHash, id)
	return err
}

func (r *UserRepository) getOne(ctx context.Context, where string, arg interface{}) (*models.User, error) {
	query := `
		SELECT id, email, display_name, api_key_hash, password_hash, created_at, is_active
		FROM users ` + where

	var user models.User
	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&user.ID,
		&user.Email,
		&user.DisplayName,
		&user.APIKeyHash,
		&user.PasswordHash,
		&user.CreatedAt,
		&user.IsActive,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &user, nil
}
