package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/geopix/server/internal/models"
)

// UserRepositoryPostgres handles user persistence (PostgreSQL)
type UserRepositoryPostgres struct {
	db *sql.DB
}

// NewUserRepositoryPostgres creates a new UserRepositoryPostgres
func NewUserRepositoryPostgres(db *sql.DB) *UserRepositoryPostgres {
	return &UserRepositoryPostgres{db: db}
}

// Add inserts a new user
func (r *UserRepositoryPostgres) Add(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (id, email, display_name, api_key_hash, password_hash, created_at, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
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
func (r *UserRepositoryPostgres) GetByID(ctx context.Context, id string) (*models.User, error) {
	return r.getOne(ctx, `WHERE id = $1`, id)
}

// GetByEmail retrieves a user by normalized email
func (r *UserRepositoryPostgres) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.getOne(ctx, `WHERE email = $1`, strings.TrimSpace(strings.ToLower(email)))
}

// GetByAPIKeyHash retrieves a user by API key hash
func (r *UserRepositoryPostgres) GetByAPIKeyHash(ctx context.Context, keyHash string) (*models.User, error) {
	return r.getOne(ctx, `WHERE api_key_hash = $1`, keyHash)
}

// UpdateAPIKeyHash replaces the user's API key hash
func (r *UserRepositoryPostgres) UpdateAPIKeyHash(ctx context.Context, id, keyHash string) error {
	_, err := r.db.ExecContext(ctx, `UPDATE users SET api_key_hash = $1 WHERE id = $2`, keyHash, id)
	return err
}

func (r *UserRepositoryPostgres) getOne(ctx context.Context, where string, arg interface{}) (*models.User, error) {
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
