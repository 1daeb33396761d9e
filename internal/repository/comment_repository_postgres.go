package repository

import (
	"context"
	"database/sql"

	"github.com/geopix/server/internal/models"
)

// CommentRepositoryPostgres handles comment persistence (PostgreSQL)
type CommentRepositoryPostgres struct {
	db *sql.DB
}

// NewCommentRepositoryPostgres creates a new CommentRepositoryPostgres
func NewCommentRepositoryPostgres(db *sql.DB) *CommentRepositoryPostgres {
	return &CommentRepositoryPostgres{db: db}
}

// Add inserts a new comment
func (r *CommentRepositoryPostgres) Add(ctx context.Context, comment *models.Comment) error {
	query := `
		INSERT INTO comments (id, photo_id, author_id, content, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.db.ExecContext(ctx, query,
		comment.ID,
		comment.PhotoID,
		comment.AuthorID,
		comment.Content,
		comment.CreatedAt,
	)
	return err
}

// GetByPhoto returns a photo's comments, oldest first
func (r *CommentRepositoryPostgres) GetByPhoto(ctx context.Context, photoID string) ([]*models.Comment, error) {
	query := `
		SELECT id, photo_id, author_id, content, created_at
		FROM comments WHERE photo_id = $1 ORDER BY created_at ASC
	`

	rows, err := r.db.QueryContext(ctx, query, photoID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanComments(rows)
}
